package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/infomark-tools/internal/i18n"
	"github.com/pavelanni/infomark-tools/internal/survey"
)

// SummarySheetName is the worksheet written by ExportSummary.
const SummarySheetName = "Summary"

// ExportSummary writes one workbook row per questionnaire sheet. Sheets without any
// response keep their statistic cells empty.
func ExportSummary(ctx context.Context, table *survey.Table, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SummarySheetName)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	header := []any{
		i18n.T(ctx, "SummarySheet"),
		i18n.T(ctx, "SummaryResponses"),
		i18n.T(ctx, "SummaryMeanTime"),
		i18n.T(ctx, "SummaryDifficulty"),
		i18n.T(ctx, "SummaryDifficultyCount"),
	}
	if err := f.SetSheetRow(SummarySheetName, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	rowNum := 2
	for _, sheet := range table.Sheets() {
		var row []any
		stats, err := table.Stats(sheet)
		switch {
		case errors.Is(err, survey.ErrNoResponses):
			logger.Warn("sheet has no responses", "sheet", sheet)
			row = []any{sheet, 0}
		case err != nil:
			return err
		default:
			row = []any{sheet, stats.Responses, stats.MeanTime, string(stats.ModalDifficulty), stats.ModalCount}
		}

		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheetName, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", rowNum, err)
		}
		rowNum++
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}
	if rowNum > 2 {
		if err := f.SetCellStyle(SummarySheetName, "C2", fmt.Sprintf("C%d", rowNum-1), style); err != nil {
			return fmt.Errorf("style mean column: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save summary %s: %w", path, err)
	}
	logger.Info("wrote summary workbook", "path", path, "sheets", rowNum-2)
	return nil
}
