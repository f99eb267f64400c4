package arima

import (
	"math"
	"testing"

	"Condor/internal/domain/models"
)

// wavy builds a deterministic oscillating series with mild drift so fits
// stay non-degenerate without depending on a random source.
func wavy(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		x := float64(i)
		values[i] = 50 + 3*math.Sin(0.9*x) + 1.5*math.Sin(2.1*x) + 0.1*x
	}
	return values
}

func TestFitInsufficientData(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}
	if _, err := Fit(y, nil, models.Order{P: 1, D: 0, Q: 1}, ""); err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestFitTrendWithoutExog(t *testing.T) {
	if _, err := Fit(wavy(40), nil, models.Order{P: 1}, TrendConstant); err != ErrTrendWithoutExog {
		t.Fatalf("expected ErrTrendWithoutExog, got %v", err)
	}
}

func TestFitSeasonalNeedsPeriod(t *testing.T) {
	order := models.Order{Seasonal: &models.SeasonalOrder{P: 1}}
	if _, err := Fit(wavy(40), nil, order, ""); err == nil {
		t.Fatalf("expected error for seasonal order without period")
	}
}

func TestFitRejectsNaNSeries(t *testing.T) {
	y := wavy(30)
	y[7] = math.NaN()
	if _, err := Fit(y, nil, models.Order{}, ""); err != ErrNaNValues {
		t.Fatalf("expected ErrNaNValues for intercept-only fit, got %v", err)
	}
	y = wavy(30)
	y[12] = math.NaN()
	if _, err := Fit(y, nil, models.Order{P: 1, Q: 1}, ""); err != ErrNaNValues {
		t.Fatalf("expected ErrNaNValues for ARMA fit, got %v", err)
	}
}

func TestFitConstantSeriesDegenerateVariance(t *testing.T) {
	y := make([]float64, 20)
	for i := range y {
		y[i] = 5
	}
	if _, err := Fit(y, nil, models.Order{}, ""); err == nil {
		t.Fatalf("expected error for a zero-variance series")
	}
}

func TestFitWhiteNoiseInterceptIsMean(t *testing.T) {
	y := []float64{5, 7, 4, 8, 6, 5, 9, 4, 6, 7, 5, 8}
	m, err := Fit(y, nil, models.Order{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))
	if math.Abs(m.Intercept-mean) > 1e-12 {
		t.Fatalf("intercept %v, want sample mean %v", m.Intercept, mean)
	}

	ss := 0.0
	for _, v := range y {
		ss += (v - mean) * (v - mean)
	}
	wantVar := ss / float64(len(y)-1)
	if math.Abs(m.Variance-wantVar) > 1e-12 {
		t.Fatalf("variance %v, want %v", m.Variance, wantVar)
	}
	if math.IsNaN(m.AIC) || math.IsInf(m.AIC, 0) {
		t.Fatalf("expected finite AIC, got %v", m.AIC)
	}
}

func TestFitARCoefficientsBounded(t *testing.T) {
	m, err := Fit(wavy(80), nil, models.Order{P: 2, D: 0, Q: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.ARCoeffs) != 2 || len(m.MACoeffs) != 1 {
		t.Fatalf("coefficient slices have wrong length: %d AR, %d MA", len(m.ARCoeffs), len(m.MACoeffs))
	}
	for _, phi := range m.ARCoeffs {
		if phi < -0.99 || phi > 0.99 {
			t.Fatalf("AR coefficient %v escaped the cap", phi)
		}
	}
	for _, theta := range m.MACoeffs {
		if theta < -0.99 || theta > 0.99 {
			t.Fatalf("MA coefficient %v escaped the cap", theta)
		}
	}
	if m.Variance <= 0 {
		t.Fatalf("expected positive variance, got %v", m.Variance)
	}
}

func TestFitSeasonalComponents(t *testing.T) {
	order := models.Order{P: 1, Seasonal: &models.SeasonalOrder{P: 1, Q: 1, Period: 7}}
	m, err := Fit(wavy(90), nil, order, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.SARCoeffs) != 1 || len(m.SMACoeffs) != 1 {
		t.Fatalf("seasonal coefficient slices have wrong length: %d SAR, %d SMA",
			len(m.SARCoeffs), len(m.SMACoeffs))
	}
	if math.IsNaN(m.BIC) || math.IsInf(m.BIC, 0) {
		t.Fatalf("expected finite BIC, got %v", m.BIC)
	}
}

func TestFitWithExogAndTrend(t *testing.T) {
	n := 60
	y := wavy(n)
	exog := make([][]float64, n)
	for i := range exog {
		exog[i] = []float64{math.Cos(0.5 * float64(i))}
	}

	m, err := Fit(y, exog, models.Order{P: 1, Q: 1}, TrendConstant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One trend column plus one exogenous column.
	if len(m.RegCoeffs) != 2 {
		t.Fatalf("expected 2 regression coefficients, got %d", len(m.RegCoeffs))
	}
}

func TestFitExogRowsTooShort(t *testing.T) {
	n := 40
	y := wavy(n)
	exog := make([][]float64, n-5)
	for i := range exog {
		exog[i] = []float64{float64(i)}
	}
	if _, err := Fit(y, exog, models.Order{P: 1}, ""); err == nil {
		t.Fatalf("expected error for short exogenous matrix")
	}
}

func TestBICExceedsAICForLargerSamples(t *testing.T) {
	// With more than e^2 observations the BIC penalty per parameter
	// exceeds AIC's.
	m, err := Fit(wavy(60), nil, models.Order{P: 1, Q: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.BIC <= m.AIC {
		t.Fatalf("BIC %v should exceed AIC %v at n=60", m.BIC, m.AIC)
	}
}

func TestResidualsReturnsCopy(t *testing.T) {
	m, err := Fit(wavy(40), nil, models.Order{P: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := m.Residuals()
	if len(r) == 0 {
		t.Fatalf("expected residuals")
	}
	r[0] = 1e9
	if m.Residuals()[0] == 1e9 {
		t.Fatalf("Residuals must return a copy")
	}
}
