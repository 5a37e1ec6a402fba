// Package unpack turns a batch archive of student submissions into a Java project skeleton
// with one package namespace per student.
package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pavelanni/infomark-tools/internal/javapkg"
	"github.com/pavelanni/infomark-tools/internal/model"
	"github.com/pavelanni/infomark-tools/internal/submission"
)

// SourceRoot is the fixed directory chain between the project folder and the student folders.
var SourceRoot = []string{"src", "main", "java", "com", "infomark"}

// ConfirmFunc asks the operator a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

// Ledger records completed runs. *store.Store implements it.
type Ledger interface {
	RecordRun(run model.UnpackRun) (int64, error)
	RecordSubmission(sub model.SubmissionRecord) (int64, error)
}

// Unpacker holds the shared dependencies for unpacking batch archives.
type Unpacker struct {
	OutDir   string
	Confirm  ConfirmFunc // nil declines every overwrite
	Ledger   Ledger      // optional
	Decoders []javapkg.Decoder
	Out      io.Writer // operator messages; defaults to stdout
	Logger   *slog.Logger
}

// StudentResult describes one extracted submission.
type StudentResult struct {
	FirstName string
	Surname   string
	Folder    string
	Stats     javapkg.TreeStats
}

// Result describes one unpacked archive. Skipped is set when the operator declined to
// replace an existing project folder; nothing was written in that case.
type Result struct {
	ProjectDir string
	Task       string
	Skipped    bool
	Students   []StudentResult
}

// ProjectDirName is the output folder name for a sheet and task.
func ProjectDirName(sheet int, task string) string {
	return fmt.Sprintf("sheet%d-%s-unzipped", sheet, task)
}

// Unpack processes one outer archive end to end.
func (u *Unpacker) Unpack(ctx context.Context, archivePath string, sheet int) (*Result, error) {
	task, err := submission.TaskFromPath(archivePath)
	if err != nil {
		return nil, err
	}

	rc, err := submission.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	students, err := submission.ReadStudents(&rc.Reader)
	if err != nil {
		return nil, fmt.Errorf("read students from %s: %w", archivePath, err)
	}
	u.logger().Info("found submissions", "archive", archivePath, "task", task, "count", len(students))

	res, err := u.Scaffold(ctx, students, ProjectDirName(sheet, task))
	if err != nil {
		return nil, err
	}
	res.Task = task
	if res.Skipped {
		return res, nil
	}

	if err := u.record(archivePath, sheet, res); err != nil {
		return nil, err
	}
	fmt.Fprintln(u.out(), "All done!")
	return res, nil
}

// Scaffold creates the project folder, extracts each student's archive into its own
// folder below SourceRoot and rewrites the package declarations of the extracted sources.
func (u *Unpacker) Scaffold(ctx context.Context, students []submission.Student, name string) (*Result, error) {
	if dups := submission.DuplicateNames(students); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateStudent, strings.Join(dups, ", "))
	}

	projectDir := filepath.Join(u.OutDir, name)
	proceed, err := u.prepare(projectDir, name)
	if err != nil {
		return nil, err
	}
	if !proceed {
		fmt.Fprintln(u.out(), "Cannot proceed with the folder being present already. Exiting.")
		return &Result{ProjectDir: projectDir, Skipped: true}, nil
	}

	srcPath := filepath.Join(append([]string{projectDir}, SourceRoot...)...)
	if err := os.MkdirAll(srcPath, 0o755); err != nil {
		return nil, fmt.Errorf("create source root: %w", err)
	}

	res := &Result{ProjectDir: projectDir}
	for _, s := range students {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		folder := filepath.Join(srcPath, s.FolderName())
		if err := os.Mkdir(folder, 0o755); err != nil {
			return nil, fmt.Errorf("create student folder: %w", err)
		}
		if err := extractAll(s.Archive, folder); err != nil {
			return nil, fmt.Errorf("extract %s: %w", s.ArchiveName, err)
		}

		stats, err := javapkg.RewriteTree(ctx, folder, projectDir, u.decoders())
		if err != nil {
			return nil, fmt.Errorf("rewrite packages for %s: %w", s.FolderName(), err)
		}
		u.logger().Debug("extracted submission",
			"student", s.FolderName(),
			"java_files", stats.Files,
			"rewritten", stats.Rewritten,
		)
		res.Students = append(res.Students, StudentResult{
			FirstName: s.FirstName,
			Surname:   s.Surname,
			Folder:    folder,
			Stats:     stats,
		})
	}
	return res, nil
}

// prepare creates projectDir, asking before it replaces an existing one.
func (u *Unpacker) prepare(projectDir, name string) (bool, error) {
	_, err := os.Stat(projectDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", projectDir, err)
	default:
		if u.Confirm == nil {
			return false, nil
		}
		ok, err := u.Confirm(fmt.Sprintf("Project folder %s exists. Delete?", name))
		if err != nil {
			return false, fmt.Errorf("confirm overwrite: %w", err)
		}
		if !ok {
			return false, nil
		}
		if err := os.RemoveAll(projectDir); err != nil {
			return false, fmt.Errorf("remove %s: %w", projectDir, err)
		}
		u.logger().Info("removed existing project folder", "path", projectDir)
	}

	if err := os.Mkdir(projectDir, 0o755); err != nil {
		return false, fmt.Errorf("create project folder: %w", err)
	}
	return true, nil
}

func (u *Unpacker) record(archivePath string, sheet int, res *Result) error {
	if u.Ledger == nil {
		return nil
	}
	runID, err := u.Ledger.RecordRun(model.UnpackRun{
		Sheet:      sheet,
		Task:       res.Task,
		Archive:    archivePath,
		ProjectDir: res.ProjectDir,
		StartedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	for _, s := range res.Students {
		_, err := u.Ledger.RecordSubmission(model.SubmissionRecord{
			RunID:     runID,
			FirstName: s.FirstName,
			Surname:   s.Surname,
			Folder:    s.Folder,
			JavaFiles: s.Stats.Files,
			Rewritten: s.Stats.Rewritten,
		})
		if err != nil {
			return fmt.Errorf("record submission %s%s: %w", s.FirstName, s.Surname, err)
		}
	}
	return nil
}

func (u *Unpacker) decoders() []javapkg.Decoder {
	if len(u.Decoders) == 0 {
		return javapkg.DefaultDecoders
	}
	return u.Decoders
}

func (u *Unpacker) out() io.Writer {
	if u.Out == nil {
		return os.Stdout
	}
	return u.Out
}

func (u *Unpacker) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
