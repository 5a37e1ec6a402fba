package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exportCSV = `Fragebogen Auswertung,,,,,,,,,,,,
Blatt,<2h,2-4h,4-6h,6-10h,10-14h,>14h,,zu leicht,leicht,angemessen,schwer,zu schwer
1,10,0,0,0,0,0,,0,2,5,5,1
2,1,2,3,4,5,6,,1,3,1,1,1
`

func writeExport(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "questionnaire.csv")
	if err := os.WriteFile(p, []byte(exportCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlotCommand(t *testing.T) {
	csvPath := writeExport(t)
	out, err := execute(t, csvPath, "--sheet", "2")
	if err != nil {
		t.Fatalf("questionnaire: %v\n%s", err, out)
	}

	dir := filepath.Join(filepath.Dir(csvPath), "sheet_02")
	for _, name := range []string{"bar_time_sheet02.png", "bar_difficulty_sheet02.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "report_sheet02.txt"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	want := "Durchschnittlicher Zeitaufwand: 10.43\nDie meisten Studenten empfanden das Blatt als leicht (3 Studenten)\n"
	if string(data) != want {
		t.Errorf("report = %q, want %q", data, want)
	}

	if _, err := execute(t, csvPath, "--sheet", "2"); err == nil {
		t.Error("expected error when the sheet folder exists")
	}
}

func TestPlotCommandRejectsExtension(t *testing.T) {
	if _, err := execute(t, "answers.xlsx", "--sheet", "1"); err == nil {
		t.Error("expected validation error")
	}
}

func TestSummaryCommand(t *testing.T) {
	csvPath := writeExport(t)
	xlsx := filepath.Join(t.TempDir(), "summary.xlsx")
	out, err := execute(t, "summary", csvPath, "-o", xlsx, "--lang", "en")
	if err != nil {
		t.Fatalf("summary: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote summary of 2 sheets") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := os.Stat(xlsx); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
}
