package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/pavelanni/infomark-tools/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestRun(t *testing.T, s *Store, sheet int, task string) int64 {
	t.Helper()
	id, err := s.RecordRun(model.UnpackRun{
		Sheet:      sheet,
		Task:       task,
		Archive:    task + ".zip",
		ProjectDir: "out/" + task,
		StartedAt:  time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insertTestRun: %v", err)
	}
	return id
}

func TestRunCRUD(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	id := insertTestRun(t, s, 3, "task2")
	got, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Sheet != 3 || got.Task != "task2" || got.Archive != "task2.zip" {
		t.Errorf("unexpected run %+v", got)
	}
	if !got.StartedAt.Equal(time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("StartedAt = %v", got.StartedAt)
	}

	_, err = s.GetRun(9999)
	if err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestListRunsFiltered(t *testing.T) {
	s := newTestStore(t)
	insertTestRun(t, s, 1, "task1")
	insertTestRun(t, s, 2, "task1")
	insertTestRun(t, s, 2, "task2")

	tests := []struct {
		name      string
		sheet     int
		wantCount int
	}{
		{"all sheets", 0, 3},
		{"sheet 1", 1, 1},
		{"sheet 2", 2, 2},
		{"no match", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.ListRuns(tt.sheet)
			if err != nil {
				t.Fatalf("ListRuns: %v", err)
			}
			if len(runs) != tt.wantCount {
				t.Errorf("expected %d runs, got %d", tt.wantCount, len(runs))
			}
		})
	}

	runs, _ := s.ListRuns(2)
	if len(runs) == 2 && runs[0].Task != "task2" {
		t.Errorf("expected newest run first, got %q", runs[0].Task)
	}
}

func TestSubmissions(t *testing.T) {
	s := newTestStore(t)
	runID := insertTestRun(t, s, 1, "task1")

	for _, sub := range []model.SubmissionRecord{
		{RunID: runID, FirstName: "Ann", Surname: "Lee", Folder: "AnnLee", JavaFiles: 3, Rewritten: 2},
		{RunID: runID, FirstName: "Bo", Surname: "Kim", Folder: "BoKim", JavaFiles: 1, Rewritten: 1},
	} {
		if _, err := s.RecordSubmission(sub); err != nil {
			t.Fatalf("RecordSubmission: %v", err)
		}
	}

	subs, err := s.ListSubmissions(runID)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].Folder != "AnnLee" || subs[0].JavaFiles != 3 || subs[0].Rewritten != 2 {
		t.Errorf("unexpected first submission %+v", subs[0])
	}
}

func TestExportHistory(t *testing.T) {
	s := newTestStore(t)
	run1 := insertTestRun(t, s, 1, "task1")
	insertTestRun(t, s, 2, "task2")
	if _, err := s.RecordSubmission(model.SubmissionRecord{RunID: run1, FirstName: "Ann", Surname: "Lee", Folder: "AnnLee"}); err != nil {
		t.Fatalf("RecordSubmission: %v", err)
	}

	all, err := s.ExportHistory(0)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}

	sheet1, err := s.ExportHistory(1)
	if err != nil {
		t.Fatalf("ExportHistory(1): %v", err)
	}
	if len(sheet1) != 1 || len(sheet1[0].Submissions) != 1 {
		t.Fatalf("unexpected sheet 1 export %+v", sheet1)
	}
	if sheet1[0].Submissions[0].FirstName != "Ann" {
		t.Errorf("unexpected submission %+v", sheet1[0].Submissions[0])
	}
}

func TestExportRun(t *testing.T) {
	s := newTestStore(t)
	insertTestRun(t, s, 1, "task1")
	run2 := insertTestRun(t, s, 1, "task2")
	if _, err := s.RecordSubmission(model.SubmissionRecord{RunID: run2, FirstName: "Bo", Surname: "Kim", Folder: "BoKim"}); err != nil {
		t.Fatalf("RecordSubmission: %v", err)
	}

	got, err := s.ExportRun(run2)
	if err != nil {
		t.Fatalf("ExportRun: %v", err)
	}
	if got.Task != "task2" || len(got.Submissions) != 1 || got.Submissions[0].Folder != "BoKim" {
		t.Errorf("unexpected run export %+v", got)
	}

	if _, err := s.ExportRun(99); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
