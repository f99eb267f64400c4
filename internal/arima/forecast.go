package arima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"Condor/internal/stats"
)

// Forecast holds point forecasts with their lower and upper prediction
// bounds at the significance level the forecast was produced with.
type Forecast struct {
	Points []float64
	Lower  []float64
	Upper  []float64
	Alpha  float64
}

// Forecast produces steps point forecasts from the fitted model with
// symmetric prediction intervals at significance alpha. exogFuture must
// carry one row per step when the model was fitted with exogenous
// regressors, and must be nil otherwise.
func (m *Model) Forecast(steps int, exogFuture [][]float64, alpha float64) (*Forecast, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("arima: forecast length must be positive, got %d", steps)
	}
	if m.RegCoeffs != nil && len(exogFuture) < steps {
		return nil, fmt.Errorf("arima: %d future exogenous rows needed, got %d", steps, len(exogFuture))
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}

	points := m.forecastDifferenced(steps, exogFuture)
	points = m.integrate(points)

	lower, upper := m.predictionBounds(points, alpha)
	return &Forecast{Points: points, Lower: lower, Upper: upper, Alpha: alpha}, nil
}

// forecastDifferenced runs the ARMA recursion forward in the differenced
// space, with future shocks at their zero expectation.
func (m *Model) forecastDifferenced(steps int, exogFuture [][]float64) []float64 {
	period := 0
	if m.Order.Seasonal != nil {
		period = m.Order.Seasonal.Period
	}

	n := len(m.work)
	extended := append(append([]float64(nil), m.work...), make([]float64, steps)...)
	extResid := append(append([]float64(nil), m.residuals...), make([]float64, steps)...)

	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.predictOne(extended, extResid, t, period)
		if m.RegCoeffs != nil {
			pred += m.regressionTerm(exogFuture[h], n+h)
		}
		extended[t] = pred
		out[h] = pred
	}
	return out
}

// regressionTerm evaluates the deterministic trend and exogenous
// contribution at absolute index t.
func (m *Model) regressionTerm(exogRow []float64, t int) float64 {
	v := 0.0
	col := 0
	switch m.Trend {
	case TrendConstant:
		v += m.RegCoeffs[0]
		col = 1
	case TrendLinear:
		v += m.RegCoeffs[0] * float64(t)
		col = 1
	case TrendBoth:
		v += m.RegCoeffs[0] + m.RegCoeffs[1]*float64(t)
		col = 2
	}
	for j, x := range exogRow {
		v += m.RegCoeffs[col+j] * x
	}
	return v
}

// integrate reverses the differencing applied at fit time, anchored on the
// tail of the original series: seasonal passes first, then regular ones, in
// the opposite order they were applied.
func (m *Model) integrate(diffs []float64) []float64 {
	out := append([]float64(nil), diffs...)

	if m.Order.Seasonal != nil && m.Order.Seasonal.D > 0 {
		period := m.Order.Seasonal.Period
		for pass := 0; pass < m.Order.Seasonal.D; pass++ {
			tail := m.original[len(m.original)-period:]
			for h := range out {
				var base float64
				if h < period {
					base = tail[h]
				} else {
					base = out[h-period]
				}
				out[h] += base
			}
		}
	}

	for pass := 0; pass < m.Order.D; pass++ {
		prev := m.original[len(m.original)-1]
		for h := range out {
			out[h] += prev
			prev = out[h]
		}
	}
	return out
}

// predictionBounds derives symmetric interval bounds from the spread of
// shifted historical windows: for horizon h the residual set is the
// pointwise difference between the series and its h-step shift, and the
// margin at step k grows with the square root of k.
func (m *Model) predictionBounds(points []float64, alpha float64) (lower, upper []float64) {
	h := len(points)
	y := m.original
	n := len(y)

	lower = make([]float64, h)
	upper = make([]float64, h)

	var sigma float64
	if n > h {
		shifted := make([]float64, n-h)
		for i := range shifted {
			shifted[i] = y[i] - y[i+h]
		}
		sigma = stats.StdDev(shifted)
	} else {
		sigma = math.Sqrt(m.Variance)
	}

	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	for k := range points {
		margin := z * sigma * math.Sqrt(float64(k+1))
		lower[k] = points[k] - margin
		upper[k] = points[k] + margin
	}
	return lower, upper
}
