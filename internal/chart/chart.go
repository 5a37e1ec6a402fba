// Package chart renders the questionnaire plots.
package chart

import (
	"fmt"
	"image/color"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TimeBinEdges places every time bucket weight in a bin of its own.
var TimeBinEdges = []float64{1, 2, 4, 6, 9, 14, 17.5}

const kdePoints = 50

var (
	histColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	kdeColor  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	barColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// Bins counts samples into the bins delimited by edges. Bins are half-open except the
// last, which includes its upper edge; samples outside all bins are dropped.
func Bins(samples, edges []float64) []plotter.HistogramBin {
	if len(edges) < 2 {
		return nil
	}
	bins := make([]plotter.HistogramBin, len(edges)-1)
	for i := range bins {
		bins[i] = plotter.HistogramBin{Min: edges[i], Max: edges[i+1]}
	}
	last := len(bins) - 1
	for _, s := range samples {
		for i := range bins {
			if s >= bins[i].Min && (s < bins[i].Max || (i == last && s == bins[i].Max)) {
				bins[i].Weight++
				break
			}
		}
	}
	return bins
}

// TimeHistogram plots the time samples with a KDE overlay scaled to peak and a dashed
// marker at mean. The overlay is left out when the sample is degenerate.
func TimeHistogram(sheet int, samples []float64, peak int, mean float64, logger *slog.Logger) (*plot.Plot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Histogram of time spent on exercise sheet %d, mean = %.2f", sheet, mean)
	p.X.Label.Text = "Hours"
	p.Y.Label.Text = "Students"

	hist := &plotter.Histogram{
		Bins:      Bins(samples, TimeBinEdges),
		FillColor: histColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(hist)
	p.Legend.Add("Time spent", hist)

	if kde, err := NewKDE(samples); err != nil {
		logger.Debug("skipping density overlay", "sheet", sheet, "samples", len(samples), "error", err)
	} else {
		line, err := kdeLine(kde, float64(peak))
		if err != nil {
			return nil, fmt.Errorf("kde line: %w", err)
		}
		p.Add(line)
		p.Legend.Add("KDE", line)
	}

	marker, err := plotter.NewLine(plotter.XYs{{X: mean, Y: 0}, {X: mean, Y: float64(peak) + 1}})
	if err != nil {
		return nil, fmt.Errorf("mean marker: %w", err)
	}
	marker.LineStyle.Color = color.Black
	marker.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(marker)
	p.Legend.Add("Mean", marker)

	p.Y.Min = 0
	return p, nil
}

func kdeLine(kde *KDE, peak float64) (*plotter.Line, error) {
	lo, hi := TimeBinEdges[0]-1, TimeBinEdges[len(TimeBinEdges)-1]+1
	xs := floats.Span(make([]float64, kdePoints), lo, hi)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = kde.Density(x)
	}
	if top := floats.Max(ys); top > 0 {
		floats.Scale(peak/top, ys)
	}

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = kdeColor
	line.LineStyle.Width = vg.Points(1.5)
	return line, nil
}

// DifficultyBar plots the response count of every difficulty bucket.
func DifficultyBar(sheet int, labels []string, counts []int) (*plot.Plot, error) {
	if len(labels) != len(counts) {
		return nil, fmt.Errorf("difficulty bar: %d labels, %d counts", len(labels), len(counts))
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Perceived difficulty of sheet %d", sheet)
	p.Y.Label.Text = "Students"

	vals := make(plotter.Values, len(counts))
	for i, c := range counts {
		vals[i] = float64(c)
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// Save writes p to path; the image format follows the file extension.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
