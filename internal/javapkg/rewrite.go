// Package javapkg moves extracted Java sources under a per-student package namespace.
package javapkg

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// RootMarker starts the package slice.
	RootMarker = "com"
	// BoundaryMarker ends the package slice (exclusive).
	BoundaryMarker = "main"

	sourceExt = ".java"
)

var packageDecl = regexp.MustCompile(`package (.+);`)

// PackagePath joins the directory components between the last RootMarker (inclusive) and
// the last BoundaryMarker (exclusive) with dots. When the boundary does not come after the
// root the slice is empty and so is the result.
func PackagePath(components []string) (string, error) {
	root := lastIndex(components, RootMarker)
	if root < 0 {
		return "", fmt.Errorf("%w: no %q in %s", ErrMarkerNotFound, RootMarker, strings.Join(components, "/"))
	}
	boundary := lastIndex(components, BoundaryMarker)
	if boundary < 0 {
		return "", fmt.Errorf("%w: no %q in %s", ErrMarkerNotFound, BoundaryMarker, strings.Join(components, "/"))
	}
	if boundary <= root {
		return "", nil
	}
	return strings.Join(components[root:boundary], "."), nil
}

func lastIndex(items []string, item string) int {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] == item {
			return i
		}
	}
	return -1
}

// RewriteLine prefixes the declared package of a package line with prefix and a dot.
// Only the first declaration match is replaced and other lines pass through unchanged.
// An empty prefix still yields the dot, e.g. "package .foo;".
func RewriteLine(line, prefix string) string {
	if !strings.HasPrefix(strings.TrimSpace(line), "package") {
		return line
	}
	loc := packageDecl.FindStringSubmatchIndex(line)
	if loc == nil {
		return line
	}
	return line[:loc[0]] + "package " + prefix + "." + line[loc[2]:loc[3]] + ";" + line[loc[1]:]
}

// RewriteFile rewrites the package declarations of a source file in place. The file is
// always written back as UTF-8. changed reports whether a declaration was rewritten.
func RewriteFile(path, prefix string, decoders []Decoder) (changed bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for i, raw := range bytes.SplitAfter(data, []byte("\n")) {
		line, err := Decode(raw, decoders)
		if err != nil {
			return false, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		rewritten := RewriteLine(line, prefix)
		if rewritten != line {
			changed = true
		}
		sb.WriteString(rewritten)
	}

	out := sb.String()
	if out == string(data) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return changed, fmt.Errorf("write %s: %w", path, err)
	}
	return changed, nil
}

// TreeStats counts the sources seen and rewritten by RewriteTree.
type TreeStats struct {
	Files     int
	Rewritten int
}

// RewriteTree rewrites every .java file below root. Package prefixes are computed from
// each file's directory components relative to base.
func RewriteTree(ctx context.Context, root, base string, decoders []Decoder) (TreeStats, error) {
	var stats TreeStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != sourceExt {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(base, filepath.Dir(path))
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		prefix, err := PackagePath(strings.Split(filepath.ToSlash(rel), "/"))
		if err != nil {
			return err
		}

		changed, err := RewriteFile(path, prefix, decoders)
		if err != nil {
			return err
		}
		stats.Files++
		if changed {
			stats.Rewritten++
		}
		return nil
	})
	return stats, err
}
