package model

import "time"

// Difficulty is a perceived-difficulty bucket label as it appears in the questionnaire header.
type Difficulty string

// UnpackRun records one unzipper invocation for a single outer archive.
type UnpackRun struct {
	ID         int64     `json:"id"`
	Sheet      int       `json:"sheet"`
	Task       string    `json:"task"`
	Archive    string    `json:"archive"`
	ProjectDir string    `json:"project_dir"`
	StartedAt  time.Time `json:"started_at"`
}

// SubmissionRecord records one student's extracted submission within a run.
type SubmissionRecord struct {
	ID        int64  `json:"id"`
	RunID     int64  `json:"run_id"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Folder    string `json:"folder"`
	JavaFiles int    `json:"java_files"`
	Rewritten int    `json:"rewritten"`
}

// SheetStats holds the computed questionnaire statistics for one exercise sheet.
type SheetStats struct {
	Sheet           int        `json:"sheet"`
	Responses       int        `json:"responses"`
	MeanTime        float64    `json:"mean_time"`
	ModalDifficulty Difficulty `json:"modal_difficulty"`
	ModalCount      int        `json:"modal_count"`
}

// UnpackConfig holds the validated unzipper invocation parameters.
type UnpackConfig struct {
	Archives []string `validate:"required,min=1,dive,endswith=.zip"`
	Sheet    int      `validate:"min=1"`
	OutDir   string   `validate:"required"`
	DBPath   string   // empty disables the submission ledger
	Yes      bool     // confirm overwrites without prompting
}

// PlotConfig holds the validated questionnaire invocation parameters.
type PlotConfig struct {
	DataFile string `validate:"required,endswith=csv"`
	Sheet    int    `validate:"min=1"`
	Lang     string `validate:"oneof=de en"`
	SkipRows int    `validate:"min=0"`
}
