package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Diff returns the first difference of values, dropping the leading
// undefined element. len(out) == len(values)-1.
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// CumSum returns the cumulative sum of values. Applying CumSum once per
// differencing pass (seeded with the original leading value) reverses Diff.
func CumSum(values []float64) []float64 {
	out := make([]float64, len(values))
	acc := 0.0
	for i, v := range values {
		acc += v
		out[i] = acc
	}
	return out
}

// Log1p applies log(1+x) element-wise.
func Log1p(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Log1p(v)
	}
	return out
}

// Expm1 applies exp(x)-1 element-wise, the inverse of Log1p.
func Expm1(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Expm1(v)
	}
	return out
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// StdDev returns the population standard deviation of values. Population
// rather than sample: the MLE of sigma divides by n, matching the estimator
// this package feeds.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := stat.Mean(values, nil)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
