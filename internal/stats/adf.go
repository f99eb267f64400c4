package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSeriesTooShort is returned when a series is too short to run the
// augmented Dickey-Fuller regression.
var ErrSeriesTooShort = errors.New("stats: series too short for unit-root test")

// ADFResult holds the outcome of an augmented Dickey-Fuller unit-root test.
// The null hypothesis is that the series has a unit root; a p-value below the
// caller's critical threshold rejects it.
type ADFResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	NObs      int
}

// ADF runs the augmented Dickey-Fuller test with a constant and no trend.
// maxLag <= 0 selects floor((n-1)^(1/3)) lagged difference terms.
func ADF(values []float64, maxLag int) (*ADFResult, error) {
	n := len(values)
	if n < 10 {
		return nil, ErrSeriesTooShort
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Cbrt(float64(n - 1))))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := Diff(values)
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil, ErrSeriesTooShort
	}

	// Regression: dy_t = a + b*y_{t-1} + sum_i g_i*dy_{t-i} + e.
	// The test statistic is the t-stat on b.
	k := 2 + maxLag
	x := mat.NewDense(nObs, k, nil)
	y := mat.NewVecDense(nObs, nil)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y.SetVec(i, diff[t])
		x.Set(i, 0, 1)
		x.Set(i, 1, values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff[t-j])
		}
	}

	beta, se, err := olsWithStdErrors(x, y)
	if err != nil {
		return nil, err
	}
	if se[1] == 0 {
		return nil, errors.New("stats: degenerate regressor in unit-root test")
	}

	tStat := beta[1] / se[1]
	return &ADFResult{
		Statistic: tStat,
		PValue:    mackinnonPValue(tStat),
		Lags:      maxLag,
		NObs:      nObs,
	}, nil
}

// olsWithStdErrors solves y = X*beta by least squares and returns the
// coefficient standard errors from s^2 * (X'X)^{-1}.
func olsWithStdErrors(x *mat.Dense, y *mat.VecDense) (beta, se []float64, err error) {
	nObs, k := x.Dims()

	var qr mat.QR
	qr.Factorize(x)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, y); err != nil {
		return nil, nil, err
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &sol)
	sse := 0.0
	for i := 0; i < nObs; i++ {
		r := y.AtVec(i) - fitted.AtVec(i)
		sse += r * r
	}
	if nObs <= k {
		return nil, nil, errors.New("stats: not enough observations for standard errors")
	}
	s2 := sse / float64(nObs-k)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, err
	}

	beta = make([]float64, k)
	se = make([]float64, k)
	for i := 0; i < k; i++ {
		beta[i] = sol.AtVec(i)
		se[i] = math.Sqrt(s2 * inv.At(i, i))
	}
	return beta, se, nil
}

// mackinnonPValue maps the ADF t-statistic to an approximate p-value using
// the MacKinnon (1994) response surface for the constant-only regression,
// linearly interpolated between tabulated points.
func mackinnonPValue(stat float64) float64 {
	knots := []struct{ t, p float64 }{
		{-3.96, 0.001},
		{-3.43, 0.01},
		{-2.86, 0.05},
		{-2.57, 0.10},
		{-1.94, 0.25},
		{-1.62, 0.50},
	}
	if stat <= knots[0].t {
		return knots[0].p
	}
	for i := 1; i < len(knots); i++ {
		if stat <= knots[i].t {
			lo, hi := knots[i-1], knots[i]
			frac := (stat - lo.t) / (hi.t - lo.t)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	p := 0.5 + (stat-knots[len(knots)-1].t)*0.25
	return math.Min(p, 0.99)
}
