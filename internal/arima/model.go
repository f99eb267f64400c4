// Package arima fits autoregressive integrated moving average models with
// optional seasonal terms and exogenous regressors, and produces point
// forecasts with residual-based prediction intervals.
package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"Condor/internal/domain/models"
	"Condor/internal/stats"
)

// Trend specifications. Trend terms enter the model as deterministic
// regressors and therefore require exogenous support in the design matrix.
const (
	TrendNone     = "n"
	TrendConstant = "c"
	TrendLinear   = "t"
	TrendBoth     = "ct"
)

var (
	// ErrInsufficientData is returned when the series cannot support the
	// requested order.
	ErrInsufficientData = errors.New("arima: insufficient data points for the specified order")
	// ErrTrendWithoutExog is returned when trend terms are requested without
	// exogenous regressors.
	ErrTrendWithoutExog = errors.New("arima: trend parameters require exogenous regressors")
	// ErrNaNValues is returned when the endogenous series contains NaN.
	ErrNaNValues = errors.New("arima: series contains NaN values")
)

// Model is a fitted ARIMAX model.
type Model struct {
	Order     models.Order
	Trend     string
	ARCoeffs  []float64 // phi, lags 1..p
	MACoeffs  []float64 // theta, lags 1..q
	SARCoeffs []float64 // seasonal phi, lags s..s*P
	SMACoeffs []float64 // seasonal theta, lags s..s*Q
	RegCoeffs []float64 // trend + exogenous regression coefficients
	Intercept float64
	Variance  float64
	AIC       float64
	BIC       float64
	LogLik    float64

	original  []float64 // undifferenced endogenous series
	work      []float64 // differenced ARMA target (regression residuals when exog given)
	residuals []float64
}

// Fit estimates an ARIMAX model at the given order using conditional sum of
// squares: Yule-Walker starting values for the AR part, then iterative
// refinement of all coefficients. Exogenous regressors, when present, are
// absorbed by an ordinary least squares stage and the ARMA part is fitted to
// its residuals.
func Fit(y []float64, exog [][]float64, order models.Order, trend string) (*Model, error) {
	if trend == "" {
		trend = TrendNone
	}
	if trend != TrendNone && exog == nil {
		return nil, ErrTrendWithoutExog
	}
	for _, v := range y {
		if math.IsNaN(v) {
			return nil, ErrNaNValues
		}
	}
	p, d, q := order.P, order.D, order.Q
	sp, sd, sq, period := 0, 0, 0, 0
	if order.Seasonal != nil {
		sp, sd, sq, period = order.Seasonal.P, order.Seasonal.D, order.Seasonal.Q, order.Seasonal.Period
		if period <= 0 {
			return nil, fmt.Errorf("arima: seasonal order requires a positive period, got %d", period)
		}
	}

	minLen := p + q + d + sd*period + 10
	if len(y) < minLen {
		return nil, ErrInsufficientData
	}

	m := &Model{Order: order, Trend: trend}
	m.original = append([]float64(nil), y...)

	// Differencing: regular d passes, then seasonal D passes at the period.
	work := append([]float64(nil), y...)
	for i := 0; i < d; i++ {
		work = stats.Diff(work)
	}
	for i := 0; i < sd; i++ {
		work = seasonalDiff(work, period)
	}
	if len(work) < 10 {
		return nil, ErrInsufficientData
	}

	if exog != nil {
		resid, coeffs, err := regressOut(work, exog, trend, len(y)-len(work))
		if err != nil {
			return nil, err
		}
		work = resid
		m.RegCoeffs = coeffs
	}
	m.work = work

	if err := m.fitCSS(p, q, sp, sq, period); err != nil {
		return nil, err
	}
	m.scoreFit()
	return m, nil
}

// seasonalDiff subtracts the value one period back, dropping the first
// period of undefined entries.
func seasonalDiff(values []float64, period int) []float64 {
	if len(values) <= period {
		return nil
	}
	out := make([]float64, len(values)-period)
	for i := period; i < len(values); i++ {
		out[i-period] = values[i] - values[i-period]
	}
	return out
}

// regressOut fits work = X*beta + e over the trend and exogenous columns and
// returns the residuals. offset is the number of leading observations lost
// to differencing, used to align the exogenous rows.
func regressOut(work []float64, exog [][]float64, trend string, offset int) ([]float64, []float64, error) {
	n := len(work)
	if len(exog) < n+offset {
		return nil, nil, fmt.Errorf("arima: exogenous rows %d shorter than series %d", len(exog), n+offset)
	}

	var trendCols int
	switch trend {
	case TrendConstant, TrendLinear:
		trendCols = 1
	case TrendBoth:
		trendCols = 2
	}
	k := trendCols + len(exog[0])
	if k == 0 {
		return work, nil, nil
	}
	if n <= k {
		return nil, nil, ErrInsufficientData
	}

	x := mat.NewDense(n, k, nil)
	yv := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		col := 0
		switch trend {
		case TrendConstant:
			x.Set(i, 0, 1)
			col = 1
		case TrendLinear:
			x.Set(i, 0, float64(i+offset))
			col = 1
		case TrendBoth:
			x.Set(i, 0, 1)
			x.Set(i, 1, float64(i+offset))
			col = 2
		}
		for j, v := range exog[i+offset] {
			x.Set(i, col+j, v)
		}
		yv.SetVec(i, work[i])
	}

	var qr mat.QR
	qr.Factorize(x)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, yv); err != nil {
		return nil, nil, fmt.Errorf("arima: exogenous regression: %w", err)
	}

	coeffs := make([]float64, k)
	for i := range coeffs {
		coeffs[i] = sol.AtVec(i)
	}
	resid := make([]float64, n)
	var fitted mat.VecDense
	fitted.MulVec(x, &sol)
	for i := range resid {
		resid[i] = work[i] - fitted.AtVec(i)
	}
	return resid, coeffs, nil
}

// fitCSS estimates the ARMA coefficients by conditional sum of squares with
// a capped-coefficient gradient refinement.
func (m *Model) fitCSS(p, q, sp, sq, period int) error {
	y := m.work
	n := len(y)

	mean := stats.Mean(y)
	m.Intercept = mean

	if p == 0 && q == 0 && sp == 0 && sq == 0 {
		// White noise: intercept-only model.
		m.residuals = make([]float64, n)
		ss := 0.0
		for i, v := range y {
			m.residuals[i] = v - mean
			ss += m.residuals[i] * m.residuals[i]
		}
		if n > 1 {
			m.Variance = ss / float64(n-1)
		}
		return m.checkVariance()
	}

	m.ARCoeffs = make([]float64, p)
	m.MACoeffs = make([]float64, q)
	m.SARCoeffs = make([]float64, sp)
	m.SMACoeffs = make([]float64, sq)

	if p > 0 {
		if phi := yuleWalker(y, p); phi != nil {
			copy(m.ARCoeffs, phi)
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}

	start := maxInt(p, q)
	if s := maxInt(sp, sq) * period; s > start {
		start = s
	}
	if start >= n {
		return ErrInsufficientData
	}

	const (
		maxIter      = 100
		tolerance    = 1e-6
		learningRate = 0.01
	)

	residuals := make([]float64, n)
	prevSSE := math.Inf(1)
	for iter := 0; iter < maxIter; iter++ {
		sse := m.cssResiduals(residuals, start, period)

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)
		for t := start; t < n; t++ {
			for i := 0; i < p; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sp; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < sq; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		step := learningRate / float64(n)
		updateCapped(m.ARCoeffs, arGrad, step)
		updateCapped(m.MACoeffs, maGrad, step)
		updateCapped(m.SARCoeffs, sarGrad, step)
		updateCapped(m.SMACoeffs, smaGrad, step)

		newSSE := m.cssResiduals(residuals, start, period)
		if math.Abs(prevSSE-newSSE) < tolerance {
			break
		}
		prevSSE = sse
	}

	// Final residual pass over the full range.
	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < start {
			m.residuals[t] = y[t] - m.Intercept
			continue
		}
		m.residuals[t] = y[t] - m.predictOne(y, m.residuals, t, period)
	}

	sse := 0.0
	count := 0
	for t := start; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	params := p + q + sp + sq + 1
	if count > params {
		m.Variance = sse / float64(count-params)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
	return m.checkVariance()
}

// checkVariance rejects fits whose residual variance cannot support
// likelihood scoring. Every fitCSS exit path runs through it so a fitted
// model always carries a usable variance.
func (m *Model) checkVariance() error {
	if m.Variance <= 0 || math.IsNaN(m.Variance) {
		return errors.New("arima: degenerate residual variance")
	}
	return nil
}

// cssResiduals fills residuals over [start, n) and returns the sum of
// squared errors.
func (m *Model) cssResiduals(residuals []float64, start, period int) float64 {
	y := m.work
	sse := 0.0
	for t := range residuals {
		residuals[t] = 0
	}
	for t := start; t < len(y); t++ {
		residuals[t] = y[t] - m.predictOne(y, residuals, t, period)
		sse += residuals[t] * residuals[t]
	}
	return sse
}

// predictOne evaluates the one-step ARMA prediction at index t.
func (m *Model) predictOne(y, residuals []float64, t, period int) float64 {
	pred := m.Intercept
	for i, phi := range m.ARCoeffs {
		if t-i-1 >= 0 {
			pred += phi * (y[t-i-1] - m.Intercept)
		}
	}
	for i, theta := range m.MACoeffs {
		if t-i-1 >= 0 {
			pred += theta * residuals[t-i-1]
		}
	}
	for i, phi := range m.SARCoeffs {
		lag := (i + 1) * period
		if t-lag >= 0 {
			pred += phi * (y[t-lag] - m.Intercept)
		}
	}
	for i, theta := range m.SMACoeffs {
		lag := (i + 1) * period
		if t-lag >= 0 {
			pred += theta * residuals[t-lag]
		}
	}
	return pred
}

// updateCapped applies a gradient step and clamps each coefficient inside
// (-1, 1) to keep the recursion stationary and invertible.
func updateCapped(coeffs, grad []float64, step float64) {
	for i := range coeffs {
		coeffs[i] -= step * grad[i]
		coeffs[i] = math.Max(-0.99, math.Min(0.99, coeffs[i]))
	}
}

// scoreFit computes the Gaussian log-likelihood and information criteria.
func (m *Model) scoreFit() {
	n := len(m.residuals)
	k := m.Order.Params()

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}
	if m.Variance > 0 {
		nf := float64(n)
		m.LogLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}
	m.AIC = -2*m.LogLik + 2*float64(k)
	m.BIC = -2*m.LogLik + float64(k)*math.Log(float64(n))
}

// Residuals returns a copy of the in-sample residuals.
func (m *Model) Residuals() []float64 {
	return append([]float64(nil), m.residuals...)
}

// yuleWalker estimates AR starting values by Levinson-Durbin recursion over
// the sample autocorrelations.
func yuleWalker(values []float64, order int) []float64 {
	acf := autocorrelations(values, order)
	if acf == nil {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		if v == 0 {
			break
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

// autocorrelations returns acf[0..maxLag] of values.
func autocorrelations(values []float64, maxLag int) []float64 {
	n := len(values)
	if n <= maxLag {
		return nil
	}
	mean := stats.Mean(values)
	denom := 0.0
	for _, v := range values {
		d := v - mean
		denom += d * d
	}
	if denom == 0 {
		return nil
	}
	acf := make([]float64, maxLag+1)
	acf[0] = 1
	for lag := 1; lag <= maxLag; lag++ {
		num := 0.0
		for t := lag; t < n; t++ {
			num += (values[t] - mean) * (values[t-lag] - mean)
		}
		acf[lag] = num / denom
	}
	return acf
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
