package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/infomark-tools/internal/i18n"
	"github.com/pavelanni/infomark-tools/internal/model"
	"github.com/pavelanni/infomark-tools/internal/survey"
)

const exportCSV = `Fragebogen Auswertung,,,,,,,,,,,,
Blatt,<2h,2-4h,4-6h,6-10h,10-14h,>14h,,zu leicht,leicht,angemessen,schwer,zu schwer
1,10,0,0,0,0,0,,0,2,5,5,1
2,1,2,3,4,5,6,,1,1,1,1,1
3,0,0,0,0,0,0,,0,0,0,0,0
`

func localized(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := i18n.Init(lang); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	return i18n.WithLocalizer(context.Background(), i18n.NewLocalizer(lang))
}

func writeExport(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "questionnaire.csv")
	if err := os.WriteFile(p, []byte(exportCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWriteReport(t *testing.T) {
	stats := model.SheetStats{Sheet: 2, MeanTime: 10.428571, ModalDifficulty: "schwer", ModalCount: 1}

	tests := []struct {
		lang string
		want string
	}{
		{"de", "Durchschnittlicher Zeitaufwand: 10.43\nDie meisten Studenten empfanden das Blatt als schwer (1 Student)\n"},
		{"en", "Average time spent: 10.43\nMost students found the sheet schwer (1 student)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteReport(localized(t, tt.lang), &buf, stats); err != nil {
				t.Fatalf("WriteReport: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("report = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestMakePlots(t *testing.T) {
	ctx := localized(t, "de")
	csvPath := writeExport(t)

	out, err := MakePlots(ctx, csvPath, 1, survey.DefaultOptions, nil)
	if err != nil {
		t.Fatalf("MakePlots: %v", err)
	}

	wantDir := filepath.Join(filepath.Dir(csvPath), "sheet_01")
	if out.Dir != wantDir {
		t.Errorf("Dir = %q, want %q", out.Dir, wantDir)
	}
	for _, name := range []string{"bar_time_sheet01.png", "bar_difficulty_sheet01.png", "report_sheet01.txt"} {
		if _, err := os.Stat(filepath.Join(wantDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(out.Report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	want := "Durchschnittlicher Zeitaufwand: 1.50\nDie meisten Studenten empfanden das Blatt als angemessen (5 Studenten)\n"
	if string(data) != want {
		t.Errorf("report = %q, want %q", data, want)
	}

	_, err = MakePlots(ctx, csvPath, 1, survey.DefaultOptions, nil)
	if !errors.Is(err, ErrOutputExists) {
		t.Errorf("second run: expected ErrOutputExists, got %v", err)
	}
}

func TestMakePlotsFailuresLeaveNoOutput(t *testing.T) {
	ctx := localized(t, "de")
	csvPath := writeExport(t)

	tests := []struct {
		name    string
		sheet   int
		wantErr error
	}{
		{"missing sheet", 9, survey.ErrMissingSheet},
		{"no responses", 3, survey.ErrNoResponses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakePlots(ctx, csvPath, tt.sheet, survey.DefaultOptions, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if _, err := os.Stat(OutputDir(csvPath, tt.sheet)); err == nil {
				t.Error("output directory created for a failed sheet")
			}
		})
	}
}

func TestOutputDir(t *testing.T) {
	got := OutputDir(filepath.Join("data", "q.csv"), 7)
	if want := filepath.Join("data", "sheet_07"); got != want {
		t.Errorf("OutputDir = %q, want %q", got, want)
	}
}

func TestExportSummary(t *testing.T) {
	ctx := localized(t, "en")
	table, err := survey.LoadFile(writeExport(t), survey.DefaultOptions)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := ExportSummary(ctx, table, path, nil); err != nil {
		t.Fatalf("ExportSummary: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SummarySheetName {
		t.Errorf("sheet list = %v", sheets)
	}

	rows, err := f.GetRows(SummarySheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], "|") != "Sheet|Responses|Average time spent|Most common difficulty|Count" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "10" || rows[1][3] != "angemessen" || rows[1][4] != "5" {
		t.Errorf("sheet 1 row = %v", rows[1])
	}
	if len(rows[3]) < 2 || rows[3][0] != "3" || rows[3][1] != "0" {
		t.Errorf("sheet 3 row = %v", rows[3])
	}

	mean, err := f.GetCellValue(SummarySheetName, "C3", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if !strings.HasPrefix(mean, "10.428571") {
		t.Errorf("sheet 2 mean = %q", mean)
	}
}
