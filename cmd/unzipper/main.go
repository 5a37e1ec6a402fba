package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/infomark-tools/internal/cli"
	"github.com/pavelanni/infomark-tools/internal/model"
	"github.com/pavelanni/infomark-tools/internal/store"
	"github.com/pavelanni/infomark-tools/internal/unpack"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "unzipper [flags] ARCHIVE.zip...",
		Short:        "Unpack batch homework submissions into a Java project",
		Args:         cobra.MinimumNArgs(1),
		RunE:         runUnpack,
		SilenceUsage: true,
	}
	f := root.Flags()
	f.IntP("sheet", "s", 0, "Number of the current sheet (prompted when omitted)")
	f.String("out-dir", ".", "Directory the project folders are created in")
	f.String("db", "", "SQLite submission ledger path (empty disables recording)")
	f.BoolP("yes", "y", false, "Replace existing project folders without asking")
	cli.AddLoggingFlags(root)

	root.AddCommand(historyCmd())
	return root
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List unpack runs recorded in the submission ledger",
		Args:         cobra.NoArgs,
		RunE:         runHistory,
		SilenceUsage: true,
	}
	f := cmd.Flags()
	f.String("db", "infomark.db", "SQLite submission ledger path")
	f.IntP("sheet", "s", 0, "Only show runs for this sheet (0 = all)")
	f.Int64("run", 0, "Only show the run with this ID")
	f.Bool("json", false, "Print the history as JSON")
	cli.AddLoggingFlags(cmd)
	return cmd
}

func runUnpack(cmd *cobra.Command, args []string) error {
	v := cli.ViperForCmd(cmd)

	prompter := cli.DefaultPrompter()
	cfg, err := unpackConfig(cmd, v, args, prompter)
	if err != nil {
		return err
	}
	if err := cli.Validate(cfg); err != nil {
		slog.Error("invalid input", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	u := &unpack.Unpacker{
		OutDir:  cfg.OutDir,
		Confirm: prompter.Confirm,
		Out:     cmd.OutOrStdout(),
		Logger:  slog.Default(),
	}
	if cfg.Yes {
		u.Confirm = func(string) (bool, error) { return true, nil }
	}
	if cfg.DBPath != "" {
		db, err := store.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer db.Close()
		u.Ledger = db
	}

	for _, archive := range cfg.Archives {
		res, err := u.Unpack(ctx, archive, cfg.Sheet)
		if err != nil {
			slog.Error("unpack failed", "archive", archive, "error", err)
			return fmt.Errorf("unpack %s: %w", archive, err)
		}
		if res.Skipped {
			slog.Info("kept existing project folder", "archive", archive, "dir", res.ProjectDir)
			continue
		}
		slog.Info("unpacked archive", "archive", archive, "dir", res.ProjectDir, "students", len(res.Students))
	}
	return nil
}

func unpackConfig(cmd *cobra.Command, v *viper.Viper, args []string, p *cli.Prompter) (model.UnpackConfig, error) {
	cfg := model.UnpackConfig{
		Archives: args,
		Sheet:    v.GetInt("sheet"),
		OutDir:   v.GetString("out-dir"),
		DBPath:   v.GetString("db"),
		Yes:      v.GetBool("yes"),
	}
	// Archive names are checked before the operator is asked for anything.
	if err := cli.Validate(model.UnpackConfig{Archives: cfg.Archives, Sheet: 1, OutDir: cfg.OutDir}); err != nil {
		slog.Error("invalid input", "error", err)
		return cfg, err
	}
	if !cli.IsSet(cmd, v, "sheet") {
		sheet, err := p.Int("Enter the number of the current sheet")
		if err != nil {
			return cfg, err
		}
		cfg.Sheet = sheet
	}
	return cfg, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	v := cli.ViperForCmd(cmd)

	dbPath := v.GetString("db")
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer db.Close()

	sheet := v.GetInt("sheet")
	var runs []model.RunResult
	if id := v.GetInt64("run"); id > 0 {
		run, err := db.ExportRun(id)
		if err != nil {
			return fmt.Errorf("export run: %w", err)
		}
		runs = []model.RunResult{run}
	} else {
		runs, err = db.ExportHistory(sheet)
		if err != nil {
			return fmt.Errorf("export history: %w", err)
		}
	}

	if v.GetBool("json") {
		data, err := json.MarshalIndent(model.HistoryExport{DBPath: dbPath, Sheet: sheet, Runs: runs}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return printHistory(cmd.OutOrStdout(), runs)
}

func printHistory(w io.Writer, runs []model.RunResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSHEET\tTASK\tSTARTED\tSTUDENT\tJAVA FILES\tREWRITTEN")
	for _, r := range runs {
		started := r.StartedAt.Format("2006-01-02 15:04")
		if len(r.Submissions) == 0 {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t-\t-\t-\n", r.ID, r.Sheet, r.Task, started)
		}
		for _, s := range r.Submissions {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s %s\t%d\t%d\n",
				r.ID, r.Sheet, r.Task, started, s.FirstName, s.Surname, s.JavaFiles, s.Rewritten)
		}
	}
	return tw.Flush()
}
