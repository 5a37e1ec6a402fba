package unpack

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pavelanni/infomark-tools/internal/submission"
)

const fileMode = 0o644

// extractAll writes every entry of zr below dest, keeping the archive's folder structure.
func extractAll(zr *zip.Reader, dest string) error {
	for _, f := range zr.File {
		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("%w: entry %q escapes %s", submission.ErrInvalidArchive, f.Name, dest)
		}
		target := filepath.Join(dest, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %v", submission.ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	// Entry modes are ignored; read-only entries would block the package rewrite.
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}
