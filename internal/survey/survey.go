// Package survey loads the questionnaire export and computes per-sheet statistics.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pavelanni/infomark-tools/internal/model"
)

// Column layout after the sheet index column.
const (
	timeBuckets        = 6
	firstTimeCol       = 1
	spacerCol          = firstTimeCol + timeBuckets
	firstDifficultyCol = spacerCol + 1
)

// TimeWeights are the representative hours of the six time buckets, in column order.
var TimeWeights = []float64{1.5, 3.5, 5.5, 8, 12, 17}

// Options controls how the CSV export is read.
type Options struct {
	// SkipRows is the number of preamble rows before the header row.
	SkipRows int
}

// DefaultOptions matches the questionnaire export: one title row, then the header.
var DefaultOptions = Options{SkipRows: 1}

// Row holds the bucket counts of one sheet.
type Row struct {
	Time       []int
	Difficulty []int
}

// Table is the loaded questionnaire, indexed by sheet number. It is read-only.
type Table struct {
	TimeLabels       []string
	DifficultyLabels []model.Difficulty
	rows             map[int]Row
}

// LoadFile reads the questionnaire export at path.
func LoadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questionnaire: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load parses a questionnaire export: column 0 is the sheet index, columns 1-6 the time
// buckets, column 7 a spacer and every further column a named difficulty bucket.
func Load(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("%w: skip preamble row %d: %v", ErrMalformedTable, i+1, err)
		}
	}
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedTable, err)
	}

	t := &Table{rows: make(map[int]Row)}
	t.TimeLabels = trimAll(header[min(firstTimeCol, len(header)):min(spacerCol, len(header))])
	if len(header) > firstDifficultyCol {
		for _, label := range trimAll(header[firstDifficultyCol:]) {
			t.DifficultyLabels = append(t.DifficultyLabels, model.Difficulty(label))
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		line, _ := cr.FieldPos(0)
		if strings.TrimSpace(rec[0]) == "" {
			continue
		}

		sheet, err := parseCount(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: sheet index: %v", ErrMalformedTable, line, err)
		}
		if _, dup := t.rows[sheet]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate sheet %d", ErrMalformedTable, line, sheet)
		}

		var row Row
		if row.Time, err = parseCounts(rec[min(firstTimeCol, len(rec)):min(spacerCol, len(rec))]); err != nil {
			return nil, fmt.Errorf("%w: line %d: time buckets: %v", ErrMalformedTable, line, err)
		}
		if len(rec) > firstDifficultyCol {
			if row.Difficulty, err = parseCounts(rec[firstDifficultyCol:]); err != nil {
				return nil, fmt.Errorf("%w: line %d: difficulty buckets: %v", ErrMalformedTable, line, err)
			}
		}
		t.rows[sheet] = row
	}
	return t, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func parseCounts(cells []string) ([]int, error) {
	counts := make([]int, len(cells))
	for i, c := range cells {
		n, err := parseCount(c)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		counts[i] = n
	}
	return counts, nil
}

// parseCount accepts integral, non-negative numbers, including spreadsheet-style "3.0".
// Empty cells count as zero.
func parseCount(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a count", cell)
	}
	return int(f), nil
}

// Sheets returns the sheet indices present in the table, ascending.
func (t *Table) Sheets() []int {
	sheets := make([]int, 0, len(t.rows))
	for s := range t.rows {
		sheets = append(sheets, s)
	}
	sort.Ints(sheets)
	return sheets
}

// Row returns the bucket counts of a sheet.
func (t *Table) Row(sheet int) (Row, error) {
	row, ok := t.rows[sheet]
	if !ok {
		return Row{}, fmt.Errorf("%w: %d", ErrMissingSheet, sheet)
	}
	return row, nil
}

// WeightedMean returns Σ(count·weight) / Σcount.
func WeightedMean(counts []int, weights []float64) (float64, error) {
	if len(counts) != len(weights) {
		return 0, fmt.Errorf("%w: %d counts, %d weights", ErrDimensionMismatch, len(counts), len(weights))
	}
	w := make([]float64, len(counts))
	total := 0
	for i, c := range counts {
		w[i] = float64(c)
		total += c
	}
	if total == 0 {
		return 0, ErrNoResponses
	}
	return stat.Mean(weights, w), nil
}

// Samples expands bucket counts into one observation per response, placed at the
// bucket's weight.
func Samples(counts []int, weights []float64) ([]float64, error) {
	if len(counts) != len(weights) {
		return nil, fmt.Errorf("%w: %d counts, %d weights", ErrDimensionMismatch, len(counts), len(weights))
	}
	var samples []float64
	for i, c := range counts {
		for j := 0; j < c; j++ {
			samples = append(samples, weights[i])
		}
	}
	return samples, nil
}

// MeanTime is the weighted mean of the sheet's time buckets over TimeWeights.
func (t *Table) MeanTime(sheet int) (float64, error) {
	row, err := t.Row(sheet)
	if err != nil {
		return 0, err
	}
	return WeightedMean(row.Time, TimeWeights)
}

// ModalDifficulty returns the difficulty bucket with the most responses. Ties go to the
// bucket that comes first in column order.
func (t *Table) ModalDifficulty(sheet int) (model.Difficulty, int, error) {
	row, err := t.Row(sheet)
	if err != nil {
		return "", 0, err
	}
	n := min(len(row.Difficulty), len(t.DifficultyLabels))
	if n == 0 {
		return "", 0, fmt.Errorf("%w: sheet %d has no difficulty buckets", ErrDimensionMismatch, sheet)
	}
	best := 0
	for i := 1; i < n; i++ {
		if row.Difficulty[i] > row.Difficulty[best] {
			best = i
		}
	}
	return t.DifficultyLabels[best], row.Difficulty[best], nil
}

// Stats computes every per-sheet statistic the report needs.
func (t *Table) Stats(sheet int) (model.SheetStats, error) {
	row, err := t.Row(sheet)
	if err != nil {
		return model.SheetStats{}, err
	}
	mean, err := WeightedMean(row.Time, TimeWeights)
	if err != nil {
		return model.SheetStats{}, fmt.Errorf("sheet %d: %w", sheet, err)
	}
	label, count, err := t.ModalDifficulty(sheet)
	if err != nil {
		return model.SheetStats{}, err
	}
	responses := 0
	for _, c := range row.Time {
		responses += c
	}
	return model.SheetStats{
		Sheet:           sheet,
		Responses:       responses,
		MeanTime:        mean,
		ModalDifficulty: label,
		ModalCount:      count,
	}, nil
}
