package model

// HistoryExport is the top-level JSON structure for `unzipper history --json`.
type HistoryExport struct {
	DBPath string      `json:"db_path"`
	Sheet  int         `json:"sheet,omitempty"`
	Runs   []RunResult `json:"runs"`
}

// RunResult holds one recorded run with its submissions for export.
type RunResult struct {
	UnpackRun
	Submissions []SubmissionRecord `json:"submissions"`
}
