package arima

import (
	"math"
	"testing"

	"Condor/internal/domain/models"
)

func TestForecastStepsMustBePositive(t *testing.T) {
	m, err := Fit(wavy(40), nil, models.Order{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Forecast(0, nil, 0.05); err == nil {
		t.Fatalf("expected error for zero steps")
	}
	if _, err := m.Forecast(-3, nil, 0.05); err == nil {
		t.Fatalf("expected error for negative steps")
	}
}

func TestForecastRandomWalkWithDrift(t *testing.T) {
	// Under (0,1,0) every differenced-space forecast equals the mean
	// difference, so the integrated path is a straight drift line from the
	// last observation.
	y := []float64{100, 102, 101, 104, 106, 105, 108, 110, 109, 112, 114, 113, 116}
	m, err := Fit(y, nil, models.Order{D: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diffs := make([]float64, len(y)-1)
	meanDiff := 0.0
	for i := range diffs {
		diffs[i] = y[i+1] - y[i]
		meanDiff += diffs[i]
	}
	meanDiff /= float64(len(diffs))

	f, err := m.Forecast(5, nil, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Points) != 5 || len(f.Lower) != 5 || len(f.Upper) != 5 {
		t.Fatalf("forecast slices have wrong length: %d/%d/%d",
			len(f.Points), len(f.Lower), len(f.Upper))
	}

	last := y[len(y)-1]
	for k, got := range f.Points {
		want := last + float64(k+1)*meanDiff
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("point %d: got %v want %v", k, got, want)
		}
	}
}

func TestForecastIntervalsWidenWithHorizon(t *testing.T) {
	m, err := Fit(wavy(80), nil, models.Order{P: 1, D: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := m.Forecast(10, nil, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	widths := make([]float64, len(f.Points))
	for k := range f.Points {
		widths[k] = f.Upper[k] - f.Lower[k]
		if f.Lower[k] >= f.Points[k] || f.Upper[k] <= f.Points[k] {
			t.Fatalf("point %d outside its interval", k)
		}
	}
	for k := 1; k < len(widths); k++ {
		if widths[k] <= widths[k-1] {
			t.Fatalf("interval width must grow with horizon: %v", widths)
		}
	}
	// Width at step k scales with sqrt(k+1) relative to the first step.
	for k := range widths {
		want := widths[0] * math.Sqrt(float64(k+1))
		if math.Abs(widths[k]-want) > 1e-6*want {
			t.Fatalf("width %d: got %v want %v", k, widths[k], want)
		}
	}
}

func TestForecastTighterAlphaWidensInterval(t *testing.T) {
	m, err := Fit(wavy(60), nil, models.Order{D: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f5, err := m.Forecast(3, nil, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f1, err := m.Forecast(3, nil, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f1.Upper[0]-f1.Lower[0] <= f5.Upper[0]-f5.Lower[0] {
		t.Fatalf("alpha 0.01 interval must be wider than alpha 0.05")
	}
}

func TestForecastExogNeedsFutureRows(t *testing.T) {
	n := 60
	y := wavy(n)
	exog := make([][]float64, n)
	for i := range exog {
		exog[i] = []float64{math.Cos(0.5 * float64(i))}
	}
	m, err := Fit(y, exog, models.Order{P: 1}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.Forecast(5, exog[:3], 0.05); err == nil {
		t.Fatalf("expected error for missing future exogenous rows")
	}

	future := make([][]float64, 5)
	for i := range future {
		future[i] = []float64{math.Cos(0.5 * float64(n+i))}
	}
	f, err := m.Forecast(5, future, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(f.Points))
	}
	for k, v := range f.Points {
		if math.IsNaN(v) {
			t.Fatalf("NaN forecast at %d", k)
		}
	}
}

func TestForecastInvalidAlphaFallsBack(t *testing.T) {
	m, err := Fit(wavy(40), nil, models.Order{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad, err := m.Forecast(3, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bad.Alpha != 0.05 {
		t.Fatalf("expected alpha fallback to 0.05, got %v", bad.Alpha)
	}
}
