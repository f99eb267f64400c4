package cleaning

import (
	"errors"
	"math"

	"Condor/internal/domain/models"
	"Condor/internal/smoothing"
	"Condor/internal/stats"
)

// Interpolation constants. The fixed smoothing pass replaces the
// piecewise-constant mean fill with a continuous estimate; window and
// iteration count follow the reconstruction recipe, not the trend smoother
// defaults.
const (
	maxInterpolationDiff = 2
	fillSmoothWindow     = 4
	fillSmoothIterations = 3
)

// ErrNegativeValues is returned when the series carries negative values and
// neither the log transform nor the explicit allowance is enabled.
var ErrNegativeValues = errors.New(
	"cleaning: series contains negative values; enable the log transform or allow negatives explicitly")

// Options controls value interpolation.
type Options struct {
	// LogTransform applies log(1+x) before estimation, stabilizing variance.
	// Required when negative values are possible.
	LogTransform bool
	// AllowNegative permits negative inputs without the log transform.
	AllowNegative bool
}

// Interpolate fills every missing slot (NaN, or zero as a missing sentinel)
// of a daily series by maximum-likelihood estimation: the clean sub-series
// is made stationary (up to two differencing passes), a normal distribution
// is fitted to it, missing slots take the estimated mean, differencing and
// the log transform are reversed, and a fixed LOWESS pass replaces the flat
// mean fill with a continuous estimate. Originally observed values are
// preserved exactly.
func Interpolate(s models.TimeSeries, opts Options) (models.TimeSeries, error) {
	n := s.Len()

	// Clean sub-series: strip zeros and NaNs, keeping their dates.
	cleanValues := make([]float64, 0, n)
	cleanDates := s.Dates[:0:0]
	missing := make([]bool, n)
	missingCount := 0
	for i, v := range s.Values {
		if math.IsNaN(v) || v == 0 {
			missing[i] = true
			missingCount++
			continue
		}
		cleanValues = append(cleanValues, v)
		cleanDates = append(cleanDates, s.Dates[i])
	}

	if opts.LogTransform {
		cleanValues = stats.Log1p(cleanValues)
	} else if !opts.AllowNegative {
		for _, v := range cleanValues {
			if v < 0 {
				return models.TimeSeries{}, ErrNegativeValues
			}
		}
	}

	if missingCount == 0 {
		return s.Clone(), nil
	}

	clean := models.TimeSeries{Dates: cleanDates, Values: cleanValues}
	stationary := stats.MakeStationary(clean, maxInterpolationDiff)
	params := stats.EstimateNormalParams(stationary.Series.Values)

	// Reconstruct at full length: observed slots carry the transformed
	// observation, missing slots the estimated mean.
	filled := make([]float64, n)
	cleanIdx := 0
	for i := range filled {
		if missing[i] {
			filled[i] = params.Mean
			continue
		}
		filled[i] = cleanValues[cleanIdx]
		cleanIdx++
	}

	for d := 0; d < stationary.Order; d++ {
		filled = stats.CumSum(filled)
	}
	if opts.LogTransform {
		filled = stats.Expm1(filled)
	}

	// Smooth the reconstruction so filled slots follow the local trend
	// instead of sitting flat at the mean.
	smooth, err := smoothing.Smooth(s.WithValues(filled), fillSmoothWindow, fillSmoothIterations)
	if err != nil {
		return models.TimeSeries{}, err
	}

	out := make([]float64, n)
	for i := range out {
		if missing[i] {
			out[i] = smooth.Values[i]
		} else {
			out[i] = s.Values[i]
		}
	}
	return s.WithValues(out), nil
}

// HasNaNsOrZeros reports whether the series still carries missing markers.
func HasNaNsOrZeros(s models.TimeSeries) bool {
	return s.HasNaNOrZero()
}
