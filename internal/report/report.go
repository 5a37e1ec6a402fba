// Package report writes the per-sheet questionnaire plots, the text report and the
// summary workbook.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pavelanni/infomark-tools/internal/chart"
	"github.com/pavelanni/infomark-tools/internal/i18n"
	"github.com/pavelanni/infomark-tools/internal/model"
	"github.com/pavelanni/infomark-tools/internal/survey"
)

// ErrOutputExists indicates the sheet output folder is already present.
var ErrOutputExists = errors.New("output directory already exists")

// Output lists the files written for one sheet.
type Output struct {
	Dir            string
	TimePlot       string
	DifficultyPlot string
	Report         string
	Stats          model.SheetStats
}

// OutputDir is the per-sheet folder next to the questionnaire export.
func OutputDir(csvPath string, sheet int) string {
	return filepath.Join(filepath.Dir(csvPath), fmt.Sprintf("sheet_%02d", sheet))
}

// MakePlots loads the export at csvPath and writes the time histogram, the difficulty bar
// chart and the text report of sheet into a fresh OutputDir. The report sentences use the
// localizer carried by ctx.
func MakePlots(ctx context.Context, csvPath string, sheet int, opts survey.Options, logger *slog.Logger) (*Output, error) {
	if logger == nil {
		logger = slog.Default()
	}
	table, err := survey.LoadFile(csvPath, opts)
	if err != nil {
		return nil, err
	}
	stats, err := table.Stats(sheet)
	if err != nil {
		return nil, err
	}
	row, err := table.Row(sheet)
	if err != nil {
		return nil, err
	}
	samples, err := survey.Samples(row.Time, survey.TimeWeights)
	if err != nil {
		return nil, err
	}

	dir := OutputDir(csvPath, sheet)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, dir)
		}
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	out := &Output{
		Dir:            dir,
		TimePlot:       filepath.Join(dir, fmt.Sprintf("bar_time_sheet%02d.png", sheet)),
		DifficultyPlot: filepath.Join(dir, fmt.Sprintf("bar_difficulty_sheet%02d.png", sheet)),
		Report:         filepath.Join(dir, fmt.Sprintf("report_sheet%02d.txt", sheet)),
		Stats:          stats,
	}

	timePlot, err := chart.TimeHistogram(sheet, samples, slices.Max(row.Time), stats.MeanTime, logger)
	if err != nil {
		return nil, err
	}
	if err := chart.Save(timePlot, out.TimePlot); err != nil {
		return nil, err
	}

	labels := make([]string, len(table.DifficultyLabels))
	for i, l := range table.DifficultyLabels {
		labels[i] = string(l)
	}
	counts := row.Difficulty[:min(len(row.Difficulty), len(labels))]
	diffPlot, err := chart.DifficultyBar(sheet, labels[:len(counts)], counts)
	if err != nil {
		return nil, err
	}
	if err := chart.Save(diffPlot, out.DifficultyPlot); err != nil {
		return nil, err
	}

	if err := writeReportFile(ctx, out.Report, stats); err != nil {
		return nil, err
	}
	logger.Info("wrote sheet report", "sheet", sheet, "dir", dir, "mean_time", stats.MeanTime)
	return out, nil
}

func writeReportFile(ctx context.Context, path string, stats model.SheetStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteReport(ctx, f, stats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReportLines returns the two report lines. Numbers always use two decimals.
func ReportLines(ctx context.Context, stats model.SheetStats) []string {
	return []string{
		i18n.Td(ctx, "MeanTime", map[string]any{"Mean": fmt.Sprintf("%.2f", stats.MeanTime)}),
		i18n.Tpd(ctx, "ModalDifficulty", stats.ModalCount, map[string]any{"Label": string(stats.ModalDifficulty)}),
	}
}

// WriteReport writes the two-line UTF-8 report.
func WriteReport(ctx context.Context, w io.Writer, stats model.SheetStats) error {
	if _, err := io.WriteString(w, strings.Join(ReportLines(ctx, stats), "\n")+"\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
