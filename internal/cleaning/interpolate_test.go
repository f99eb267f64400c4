package cleaning

import (
	"math"
	"testing"

	"Condor/internal/domain/models"
)

func TestInterpolateFillsGapsAndZeros(t *testing.T) {
	nan := math.NaN()
	values := []float64{100, nan, 102, 0, 0, 103, nan, 105, 0, 106, nan, 108, 109}
	s := models.FromValues(values)

	got, err := Interpolate(s, Options{LogTransform: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != len(values) {
		t.Fatalf("length changed: %d -> %d", len(values), got.Len())
	}
	for i, v := range got.Values {
		if math.IsNaN(v) || v == 0 {
			t.Fatalf("missing marker survived at %d: %v", i, v)
		}
		if v <= 0 {
			t.Fatalf("log-transformed fill produced non-positive value at %d: %v", i, v)
		}
	}
	// Observed positions keep their exact original value.
	for _, i := range []int{0, 2, 5, 7, 9, 11, 12} {
		if got.Values[i] != values[i] {
			t.Fatalf("observed value changed at %d: got %v want %v", i, got.Values[i], values[i])
		}
	}
	for i := range s.Dates {
		if !got.Dates[i].Equal(s.Dates[i]) {
			t.Fatalf("date axis changed at %d", i)
		}
	}
}

func TestInterpolateNoMissingReturnsClone(t *testing.T) {
	values := []float64{100, 101, 102, 103, 104}
	s := models.FromValues(values)

	got, err := Interpolate(s, Options{LogTransform: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range values {
		if got.Values[i] != values[i] {
			t.Fatalf("clean series changed at %d", i)
		}
	}

	// The clone must not alias the input.
	got.Values[0] = -1
	if s.Values[0] != 100 {
		t.Fatalf("result aliases input storage")
	}
}

func TestInterpolateRejectsNegatives(t *testing.T) {
	nan := math.NaN()
	s := models.FromValues([]float64{1, -2, nan, 4, 5})
	if _, err := Interpolate(s, Options{}); err != ErrNegativeValues {
		t.Fatalf("expected ErrNegativeValues, got %v", err)
	}
}

func TestInterpolateAllowNegative(t *testing.T) {
	nan := math.NaN()
	values := []float64{1.5, -0.25, nan, 4.5, 5.25, -0.75, nan, 3.5, 2.75, -0.5, 4.25, 1.25, nan}
	s := models.FromValues(values)

	got, err := Interpolate(s, Options{AllowNegative: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got.Values {
		if math.IsNaN(v) {
			t.Fatalf("NaN survived at %d", i)
		}
	}
	if got.Values[1] != -0.25 || got.Values[5] != -0.75 {
		t.Fatalf("observed negatives must be preserved: %v", got.Values)
	}
}
