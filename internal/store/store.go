package store

import (
	"database/sql"
	"fmt"

	"github.com/pavelanni/infomark-tools/internal/model"

	_ "modernc.org/sqlite"
)

// Store is the SQLite submission ledger.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS unpack_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sheet INTEGER NOT NULL,
		task TEXT NOT NULL,
		archive TEXT NOT NULL,
		project_dir TEXT NOT NULL,
		started_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		first_name TEXT NOT NULL,
		surname TEXT NOT NULL,
		folder TEXT NOT NULL,
		java_files INTEGER NOT NULL DEFAULT 0,
		rewritten INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES unpack_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_unpack_runs_sheet ON unpack_runs(sheet);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores an unpack run.
func (s *Store) RecordRun(run model.UnpackRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO unpack_runs (sheet, task, archive, project_dir, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.Sheet, run.Task, run.Archive, run.ProjectDir, run.StartedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordSubmission stores one extracted submission of a run.
func (s *Store) RecordSubmission(sub model.SubmissionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO submissions (run_id, first_name, surname, folder, java_files, rewritten)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.RunID, sub.FirstName, sub.Surname, sub.Folder, sub.JavaFiles, sub.Rewritten,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns recorded runs, newest first. sheet 0 means all sheets.
func (s *Store) ListRuns(sheet int) ([]model.UnpackRun, error) {
	query := `SELECT id, sheet, task, archive, project_dir, started_at FROM unpack_runs WHERE 1=1`
	var args []any
	if sheet > 0 {
		query += ` AND sheet = ?`
		args = append(args, sheet)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []model.UnpackRun
	for rows.Next() {
		var r model.UnpackRun
		if err := rows.Scan(&r.ID, &r.Sheet, &r.Task, &r.Archive, &r.ProjectDir, &r.StartedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run by ID.
func (s *Store) GetRun(id int64) (model.UnpackRun, error) {
	var r model.UnpackRun
	err := s.db.QueryRow(
		`SELECT id, sheet, task, archive, project_dir, started_at FROM unpack_runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Sheet, &r.Task, &r.Archive, &r.ProjectDir, &r.StartedAt)
	return r, err
}

// ListSubmissions returns the submissions of a run in extraction order.
func (s *Store) ListSubmissions(runID int64) ([]model.SubmissionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, first_name, surname, folder, java_files, rewritten
		 FROM submissions WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []model.SubmissionRecord
	for rows.Next() {
		var sub model.SubmissionRecord
		if err := rows.Scan(&sub.ID, &sub.RunID, &sub.FirstName, &sub.Surname, &sub.Folder, &sub.JavaFiles, &sub.Rewritten); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
