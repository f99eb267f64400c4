// Package smoothing extracts robust trends from daily price series using a
// locally weighted linear regression (LOWESS) with residual-based
// reweighting, plus descriptive confidence and prediction regions around the
// smoothed trend.
package smoothing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"Condor/internal/domain/models"
	"Condor/internal/stats"
)

var (
	// ErrNaNOrZero is returned when the input series still carries missing
	// markers; the smoother requires a fully cleaned series.
	ErrNaNOrZero = errors.New("smoothing: series contains NaNs or zeros")
)

// MinWindow is the smallest accepted smoothing window.
const MinWindow = 3

// Smooth runs a robust LOWESS pass over the series and returns a smoothed
// series on the same date axis. The input is log(1+x)-transformed first to
// keep the regression positive and stabilize variance, then inverted with
// exp(x)-1. window must lie in [3, len]; iterations is the number of
// residual-based reweighting passes.
func Smooth(s models.TimeSeries, window, iterations int) (models.TimeSeries, error) {
	n := s.Len()
	if window < MinWindow || window > n {
		return models.TimeSeries{}, fmt.Errorf(
			"smoothing: window must be between %d and series length %d, got %d", MinWindow, n, window)
	}
	if s.HasNaNOrZero() {
		return models.TimeSeries{}, ErrNaNOrZero
	}

	z := stats.Log1p(s.Values)
	frac := float64(window) / float64(n)
	smoothed := lowess(z, frac, iterations)

	return s.WithValues(stats.Expm1(smoothed)), nil
}

// lowess fits a locally weighted linear regression at each index of y over a
// uniform x axis. frac is the fraction of the series inside each local
// window; robustIters is the number of bisquare reweightings.
func lowess(y []float64, frac float64, robustIters int) []float64 {
	n := len(y)
	k := int(math.Ceil(frac * float64(n)))
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	delta := make([]float64, n) // robustness weights
	for i := range delta {
		delta[i] = 1
	}

	fitted := make([]float64, n)
	for pass := 0; pass <= robustIters; pass++ {
		for i := 0; i < n; i++ {
			lo := localWindow(i, k, n)
			fitted[i] = weightedLinearFit(y, delta, i, lo, lo+k)
		}

		if pass == robustIters {
			break
		}

		// Bisquare reweighting on residuals for the next pass.
		resid := make([]float64, n)
		absResid := make([]float64, n)
		for i := range y {
			resid[i] = y[i] - fitted[i]
			absResid[i] = math.Abs(resid[i])
		}
		s := median(absResid)
		if s == 0 {
			break
		}
		for i := range delta {
			u := resid[i] / (6 * s)
			if u <= -1 || u >= 1 {
				delta[i] = 0
				continue
			}
			w := 1 - u*u
			delta[i] = w * w
		}
	}

	return fitted
}

// localWindow returns the start of the k-point window nearest to index i.
func localWindow(i, k, n int) int {
	lo := i - (k-1)/2
	if lo < 0 {
		lo = 0
	}
	if lo+k > n {
		lo = n - k
	}
	return lo
}

// weightedLinearFit fits a line to y[lo:hi] with tricube distance weights
// centered on index at, multiplied by the robustness weights, and evaluates
// it at that index.
func weightedLinearFit(y, delta []float64, at, lo, hi int) float64 {
	dmax := math.Max(float64(at-lo), float64(hi-1-at))
	if dmax == 0 {
		dmax = 1
	}

	var sw, swx, swy, swxx, swxy float64
	for j := lo; j < hi; j++ {
		d := math.Abs(float64(j-at)) / dmax
		w := tricube(d) * delta[j]
		x := float64(j)
		sw += w
		swx += w * x
		swy += w * y[j]
		swxx += w * x * x
		swxy += w * x * y[j]
	}
	if sw == 0 {
		return y[at]
	}

	det := sw*swxx - swx*swx
	if math.Abs(det) < 1e-12 {
		return swy / sw
	}
	b := (sw*swxy - swx*swy) / det
	a := (swy - b*swx) / sw
	return a + b*float64(at)
}

func tricube(d float64) float64 {
	if d >= 1 {
		return 0
	}
	t := 1 - d*d*d
	return t * t * t
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
