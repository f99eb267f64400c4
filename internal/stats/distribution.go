package stats

import (
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalParams describes a fitted normal distribution over a cleaned series.
type NormalParams struct {
	Mean   float64
	StdDev float64
}

// NegLogLikelihood evaluates -sum(log phi(x; mu, sigma)) over values.
// Non-positive sigma scores +Inf so the simplex search backs away from the
// degenerate region.
func NegLogLikelihood(mu, sigma float64, values []float64) float64 {
	if sigma <= 0 {
		return math.Inf(1)
	}
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	nll := 0.0
	for _, v := range values {
		nll -= dist.LogProb(v)
	}
	return nll
}

// EstimateNormalParams fits (mean, stddev) by maximum likelihood using a
// derivative-free Nelder-Mead simplex search started at the sample moments.
// The search result is returned as-is; no convergence guarantee is enforced.
// Degenerate input (fewer than two values, or zero variance) short-circuits
// to the sample moments, since the likelihood surface has no interior
// optimum there.
func EstimateNormalParams(values []float64) NormalParams {
	mu := Mean(values)
	sigma := StdDev(values)

	if len(values) < 2 || sigma == 0 || math.IsNaN(sigma) {
		return NormalParams{Mean: mu, StdDev: sigma}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return NegLogLikelihood(x[0], x[1], values)
		},
	}

	result, err := optimize.Minimize(problem, []float64{mu, sigma}, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		// Keep the moment estimates when the simplex stalls.
		return NormalParams{Mean: mu, StdDev: sigma}
	}
	return NormalParams{Mean: result.X[0], StdDev: result.X[1]}
}
