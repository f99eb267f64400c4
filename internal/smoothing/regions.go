package smoothing

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"Condor/internal/domain/models"
	"Condor/internal/stats"
)

// DefaultAlpha is the default significance level for the regions.
const DefaultAlpha = 0.05

var errLengthMismatch = errors.New("smoothing: original and smoothed series differ in length")

// ConfidenceRegion computes symmetric bounds around the smoothed trend from
// a single global residual standard deviation and a normal quantile at the
// given significance level. The bounds describe the historical trend; they
// are not forecasts.
func ConfidenceRegion(original, smoothed models.TimeSeries, alpha float64) (lower, upper models.TimeSeries, err error) {
	return region(original, smoothed, alpha, false)
}

// PredictionRegion is ConfidenceRegion with the margin inflated by
// sqrt(1 + 1/n) to cover the variance of a new observation.
func PredictionRegion(original, smoothed models.TimeSeries, alpha float64) (lower, upper models.TimeSeries, err error) {
	return region(original, smoothed, alpha, true)
}

func region(original, smoothed models.TimeSeries, alpha float64, predictive bool) (models.TimeSeries, models.TimeSeries, error) {
	if original.Len() != smoothed.Len() {
		return models.TimeSeries{}, models.TimeSeries{}, errLengthMismatch
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}

	n := original.Len()
	residuals := make([]float64, n)
	for i := range residuals {
		residuals[i] = original.Values[i] - smoothed.Values[i]
	}

	sigma := stats.StdDev(residuals)
	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	margin := z * sigma
	if predictive {
		margin *= math.Sqrt(1 + 1/float64(n))
	}

	lowerVals := make([]float64, n)
	upperVals := make([]float64, n)
	for i := range smoothed.Values {
		lowerVals[i] = smoothed.Values[i] - margin
		upperVals[i] = smoothed.Values[i] + margin
	}
	return smoothed.WithValues(lowerVals), smoothed.WithValues(upperVals), nil
}
