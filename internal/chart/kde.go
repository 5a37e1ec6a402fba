package chart

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateSample indicates a sample a Gaussian KDE cannot be fitted to.
var ErrDegenerateSample = errors.New("degenerate sample")

// KDE is a one-dimensional Gaussian kernel density estimate.
type KDE struct {
	samples   []float64
	bandwidth float64
}

// NewKDE fits a Gaussian KDE with Scott's rule bandwidth (σ·n^-1/5, σ unbiased).
func NewKDE(samples []float64) (*KDE, error) {
	if len(samples) < 2 {
		return nil, ErrDegenerateSample
	}
	sd := stat.StdDev(samples, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, ErrDegenerateSample
	}
	return &KDE{
		samples:   samples,
		bandwidth: sd * math.Pow(float64(len(samples)), -0.2),
	}, nil
}

// Bandwidth is the kernel standard deviation.
func (k *KDE) Bandwidth() float64 {
	return k.bandwidth
}

// Density evaluates the estimate at x.
func (k *KDE) Density(x float64) float64 {
	var sum float64
	for _, s := range k.samples {
		z := (x - s) / k.bandwidth
		sum += math.Exp(-0.5 * z * z)
	}
	return sum / (float64(len(k.samples)) * k.bandwidth * math.Sqrt(2*math.Pi))
}
