package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/infomark-tools/internal/cli"
	"github.com/pavelanni/infomark-tools/internal/i18n"
	"github.com/pavelanni/infomark-tools/internal/model"
	"github.com/pavelanni/infomark-tools/internal/report"
	"github.com/pavelanni/infomark-tools/internal/survey"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "questionnaire [flags] DATA.csv",
		Short:        "Plot the questionnaire results of an exercise sheet",
		Args:         cobra.ExactArgs(1),
		RunE:         runPlot,
		SilenceUsage: true,
	}
	f := root.Flags()
	f.IntP("sheet", "s", 0, "Number of the current sheet (prompted when omitted)")
	addCommonFlags(root)

	root.AddCommand(summaryCmd())
	return root
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "summary [flags] DATA.csv",
		Short:        "Export per-sheet statistics of all sheets to an Excel workbook",
		Args:         cobra.ExactArgs(1),
		RunE:         runSummary,
		SilenceUsage: true,
	}
	cmd.Flags().StringP("output", "o", "summary.xlsx", "Workbook path")
	addCommonFlags(cmd)
	return cmd
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("lang", "l", "de", "Report language (de, en)")
	f.Int("skip-rows", survey.DefaultOptions.SkipRows, "Preamble rows before the CSV header")
	cli.AddLoggingFlags(cmd)
}

// localizedContext initializes the translation bundle and returns a context carrying it.
func localizedContext(lang string) (context.Context, error) {
	if err := i18n.Init(lang); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	return i18n.WithLocalizer(context.Background(), i18n.NewLocalizer(lang)), nil
}

func plotConfig(cmd *cobra.Command, v *viper.Viper, dataFile string) (model.PlotConfig, error) {
	cfg := model.PlotConfig{
		DataFile: dataFile,
		Sheet:    v.GetInt("sheet"),
		Lang:     v.GetString("lang"),
		SkipRows: v.GetInt("skip-rows"),
	}
	if cmd.Flags().Lookup("sheet") == nil {
		cfg.Sheet = 1
		return cfg, nil
	}
	// The file name is checked before the operator is asked for anything.
	pre := cfg
	pre.Sheet = 1
	if err := cli.Validate(pre); err != nil {
		return cfg, err
	}
	if !cli.IsSet(cmd, v, "sheet") {
		sheet, err := cli.DefaultPrompter().Int("Enter the number of the current sheet")
		if err != nil {
			return cfg, err
		}
		cfg.Sheet = sheet
	}
	return cfg, nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	v := cli.ViperForCmd(cmd)

	cfg, err := plotConfig(cmd, v, args[0])
	if err == nil {
		err = cli.Validate(cfg)
	}
	if err != nil {
		slog.Error("invalid input", "error", err)
		return err
	}

	ctx, err := localizedContext(cfg.Lang)
	if err != nil {
		return err
	}
	out, err := report.MakePlots(ctx, cfg.DataFile, cfg.Sheet, survey.Options{SkipRows: cfg.SkipRows}, slog.Default())
	if err != nil {
		slog.Error("plotting failed", "file", cfg.DataFile, "sheet", cfg.Sheet, "error", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote plots and report to %s\n", out.Dir)
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	v := cli.ViperForCmd(cmd)

	cfg, err := plotConfig(cmd, v, args[0])
	if err == nil {
		err = cli.Validate(cfg)
	}
	if err != nil {
		slog.Error("invalid input", "error", err)
		return err
	}

	ctx, err := localizedContext(cfg.Lang)
	if err != nil {
		return err
	}
	table, err := survey.LoadFile(cfg.DataFile, survey.Options{SkipRows: cfg.SkipRows})
	if err != nil {
		return err
	}
	output := v.GetString("output")
	if err := report.ExportSummary(ctx, table, output, slog.Default()); err != nil {
		slog.Error("summary export failed", "file", cfg.DataFile, "error", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote summary of %d sheets to %s\n", len(table.Sheets()), output)
	return nil
}
