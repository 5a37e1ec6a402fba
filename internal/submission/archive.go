package submission

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var taskPattern = regexp.MustCompile(`task[0-9]+`)

// Student is one submission found in the outer archive.
type Student struct {
	FirstName   string
	Surname     string
	ArchiveName string
	Archive     *zip.Reader
}

// FolderName is the per-student directory and package segment.
func (s Student) FolderName() string {
	return s.FirstName + s.Surname
}

// Open opens the outer batch archive. The caller must close it.
func Open(archivePath string) (*zip.ReadCloser, error) {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrAlgorithm) || errors.Is(err, zip.ErrChecksum) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, archivePath, err)
		}
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	return rc, nil
}

// TaskFromPath extracts the task<N> marker from the archive's file name.
func TaskFromPath(archivePath string) (string, error) {
	task := taskPattern.FindString(filepath.Base(archivePath))
	if task == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingTask, archivePath)
	}
	return task, nil
}

// ReadStudents returns a Student for every inner entry ending in ".zip", in archive order.
// Inner archives are read fully into memory so they outlive the outer entry readers.
func ReadStudents(zr *zip.Reader) ([]Student, error) {
	var students []Student
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ArchiveSuffix) {
			continue
		}
		first, surname, err := SplitArchiveName(f.Name)
		if err != nil {
			return nil, err
		}
		inner, err := openInner(f)
		if err != nil {
			return nil, err
		}
		students = append(students, Student{
			FirstName:   first,
			Surname:     surname,
			ArchiveName: path.Base(f.Name),
			Archive:     inner,
		})
	}
	return students, nil
}

func openInner(f *zip.File) (*zip.Reader, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open entry %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read entry %s: %v", ErrInvalidArchive, f.Name, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", ErrInvalidArchive, f.Name, err)
	}
	return zr, nil
}

// DuplicateNames returns the folder names shared by more than one student, sorted.
func DuplicateNames(students []Student) []string {
	seen := make(map[string]int, len(students))
	for _, s := range students {
		seen[s.FolderName()]++
	}
	var dups []string
	for name, n := range seen {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	return dups
}
