package smoothing

import (
	"math"
	"testing"

	"Condor/internal/domain/models"
)

func TestSmoothWindowTooSmall(t *testing.T) {
	s := models.FromValues([]float64{1, 2, 3, 4, 5})
	if _, err := Smooth(s, 2, 3); err == nil {
		t.Fatalf("expected error for window below %d", MinWindow)
	}
}

func TestSmoothWindowTooLarge(t *testing.T) {
	s := models.FromValues([]float64{1, 2, 3, 4, 5})
	if _, err := Smooth(s, 6, 3); err == nil {
		t.Fatalf("expected error for window beyond series length")
	}
}

func TestSmoothWindowEqualsLength(t *testing.T) {
	s := models.FromValues([]float64{10, 11, 12, 13, 14})
	if _, err := Smooth(s, 5, 3); err != nil {
		t.Fatalf("window = length must be accepted, got %v", err)
	}
}

func TestSmoothRejectsMissingMarkers(t *testing.T) {
	withNaN := models.FromValues([]float64{1, math.NaN(), 3, 4})
	if _, err := Smooth(withNaN, 3, 3); err != ErrNaNOrZero {
		t.Fatalf("expected ErrNaNOrZero for NaN, got %v", err)
	}
	withZero := models.FromValues([]float64{1, 0, 3, 4})
	if _, err := Smooth(withZero, 3, 3); err != ErrNaNOrZero {
		t.Fatalf("expected ErrNaNOrZero for zero, got %v", err)
	}
}

func TestSmoothConstantSeriesIsExact(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 42
	}
	s := models.FromValues(values)

	got, err := Smooth(s, 5, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got.Values {
		if math.Abs(v-42) > 1e-9 {
			t.Fatalf("constant series changed at %d: %v", i, v)
		}
	}
}

func TestSmoothKeepsDateAxis(t *testing.T) {
	values := []float64{100, 104, 99, 103, 108, 105, 110, 113, 109, 114, 118, 116}
	s := models.FromValues(values)

	got, err := Smooth(s, 4, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != s.Len() {
		t.Fatalf("length changed: %d -> %d", s.Len(), got.Len())
	}
	for i := range s.Dates {
		if !got.Dates[i].Equal(s.Dates[i]) {
			t.Fatalf("date axis changed at %d", i)
		}
	}
	lo, hi := minMax(values)
	for i, v := range got.Values {
		if v < lo-5 || v > hi+5 {
			t.Fatalf("smoothed value %v at %d far outside input range [%v, %v]", v, i, lo, hi)
		}
	}
}

func TestSmoothDampensSpike(t *testing.T) {
	values := []float64{100, 101, 102, 103, 500, 105, 106, 107, 108, 109, 110, 111}
	s := models.FromValues(values)

	got, err := Smooth(s, 6, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Robust reweighting must pull the outlier toward its neighbors.
	if got.Values[4] > 300 {
		t.Fatalf("spike not dampened: %v", got.Values[4])
	}
}

func TestSmoothSecondPassNearlyIdempotent(t *testing.T) {
	values := []float64{100, 104, 99, 103, 108, 105, 110, 113, 109, 114, 118, 116}
	s := models.FromValues(values)

	once, err := Smooth(s, 5, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := Smooth(once, 5, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstPass := 0.0
	secondPass := 0.0
	for i := range values {
		firstPass += math.Abs(once.Values[i] - values[i])
		secondPass += math.Abs(twice.Values[i] - once.Values[i])
	}
	// A second pass over an already-smoothed series must move it far less
	// than the first pass moved the raw input.
	if secondPass >= firstPass {
		t.Fatalf("second pass moved the series more than the first: %v vs %v", secondPass, firstPass)
	}
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
