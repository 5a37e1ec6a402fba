package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/infomark-tools/internal/cli"
	"github.com/pavelanni/infomark-tools/internal/model"
)

func writeArchive(t *testing.T, path string) {
	t.Helper()
	var inner bytes.Buffer
	zw := zip.NewWriter(&inner)
	w, err := zw.Create("com/x/main/Hello.java")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("package hello;\n"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	var outer bytes.Buffer
	zw = zip.NewWriter(&outer)
	w, err = zw.Create("Ann-Lee.zip")
	if err != nil {
		t.Fatal(err)
	}
	w.Write(inner.Bytes())
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, outer.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
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

func TestUnpackAndHistory(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "Abgaben-task4.zip")
	writeArchive(t, archive)
	db := filepath.Join(dir, "ledger.db")

	out, err := execute(t, archive, "--sheet", "2", "--out-dir", dir, "--db", db)
	if err != nil {
		t.Fatalf("unzipper: %v\n%s", err, out)
	}
	src := filepath.Join(dir, "sheet2-task4-unzipped", "src", "main", "java", "com", "infomark", "AnnLee", "com", "x", "main", "Hello.java")
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read rewritten source: %v", err)
	}
	if string(data) != "package com.x.hello;\n" {
		t.Errorf("source = %q", data)
	}

	out, err = execute(t, "history", "--db", db, "--json")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	var export model.HistoryExport
	if err := json.Unmarshal([]byte(out), &export); err != nil {
		t.Fatalf("unmarshal history: %v\n%s", err, out)
	}
	if len(export.Runs) != 1 || export.Runs[0].Task != "task4" || len(export.Runs[0].Submissions) != 1 {
		t.Errorf("unexpected history %+v", export)
	}

	out, err = execute(t, "history", "--db", db, "--run", "1")
	if err != nil {
		t.Fatalf("history --run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Ann Lee") {
		t.Errorf("run 1 listing lacks the submission: %q", out)
	}
	if _, err := execute(t, "history", "--db", db, "--run", "42"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestUnpackRejectsNonZip(t *testing.T) {
	_, err := execute(t, "submissions.tar", "--sheet", "1")
	var ve cli.ValidationErrors
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationErrors, got %v", err)
	}
}

func TestPrintHistory(t *testing.T) {
	runs := []model.RunResult{
		{
			UnpackRun: model.UnpackRun{ID: 1, Sheet: 3, Task: "task2", StartedAt: time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)},
			Submissions: []model.SubmissionRecord{
				{FirstName: "Ann", Surname: "Lee", JavaFiles: 2, Rewritten: 1},
			},
		},
		{UnpackRun: model.UnpackRun{ID: 2, Sheet: 3, Task: "task3"}},
	}
	var buf bytes.Buffer
	if err := printHistory(&buf, runs); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "2024-05-06 07:08") || !strings.Contains(lines[1], "Ann Lee") {
		t.Errorf("unexpected row %q", lines[1])
	}
}
