package store

import (
	"fmt"

	"github.com/pavelanni/infomark-tools/internal/model"
)

// ExportHistory builds export-ready runs with their submissions. sheet 0 means all sheets.
func (s *Store) ExportHistory(sheet int) ([]model.RunResult, error) {
	runs, err := s.ListRuns(sheet)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	results := make([]model.RunResult, 0, len(runs))
	for _, run := range runs {
		subs, err := s.ListSubmissions(run.ID)
		if err != nil {
			return nil, fmt.Errorf("list submissions of run %d: %w", run.ID, err)
		}
		results = append(results, model.RunResult{UnpackRun: run, Submissions: subs})
	}
	return results, nil
}

// ExportRun returns a single run with its submissions.
func (s *Store) ExportRun(id int64) (model.RunResult, error) {
	run, err := s.GetRun(id)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("get run %d: %w", id, err)
	}
	subs, err := s.ListSubmissions(id)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("list submissions of run %d: %w", id, err)
	}
	return model.RunResult{UnpackRun: run, Submissions: subs}, nil
}
