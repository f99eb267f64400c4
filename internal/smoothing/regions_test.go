package smoothing

import (
	"math"
	"testing"

	"Condor/internal/domain/models"
)

func TestRegionsLengthMismatch(t *testing.T) {
	a := models.FromValues([]float64{1, 2, 3})
	b := models.FromValues([]float64{1, 2})
	if _, _, err := ConfidenceRegion(a, b, 0.05); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestConfidenceRegionSymmetric(t *testing.T) {
	original := models.FromValues([]float64{10, 12, 9, 11, 13, 10, 12, 11})
	smoothed := models.FromValues([]float64{10.5, 11, 10.5, 11, 11.5, 11, 11.5, 11.5})

	lower, upper, err := ConfidenceRegion(original, smoothed, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	width := upper.Values[0] - lower.Values[0]
	if width <= 0 {
		t.Fatalf("expected positive band width, got %v", width)
	}
	for i := range smoothed.Values {
		w := upper.Values[i] - lower.Values[i]
		if math.Abs(w-width) > 1e-12 {
			t.Fatalf("band width varies at %d: %v vs %v", i, w, width)
		}
		mid := (upper.Values[i] + lower.Values[i]) / 2
		if math.Abs(mid-smoothed.Values[i]) > 1e-12 {
			t.Fatalf("band not centered on trend at %d", i)
		}
	}
}

func TestPredictionRegionWiderThanConfidence(t *testing.T) {
	original := models.FromValues([]float64{10, 12, 9, 11, 13, 10, 12, 11})
	smoothed := models.FromValues([]float64{10.5, 11, 10.5, 11, 11.5, 11, 11.5, 11.5})

	ciLo, ciHi, err := ConfidenceRegion(original, smoothed, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	piLo, piHi, err := PredictionRegion(original, smoothed, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ci := ciHi.Values[0] - ciLo.Values[0]
	pi := piHi.Values[0] - piLo.Values[0]
	if pi <= ci {
		t.Fatalf("prediction band %v not wider than confidence band %v", pi, ci)
	}
	want := ci * math.Sqrt(1+1.0/float64(original.Len()))
	if math.Abs(pi-want) > 1e-9 {
		t.Fatalf("prediction width %v, want %v", pi, want)
	}
}

func TestTighterAlphaWidensBand(t *testing.T) {
	original := models.FromValues([]float64{10, 12, 9, 11, 13, 10, 12, 11})
	smoothed := models.FromValues([]float64{10.5, 11, 10.5, 11, 11.5, 11, 11.5, 11.5})

	lo5, hi5, _ := ConfidenceRegion(original, smoothed, 0.05)
	lo1, hi1, _ := ConfidenceRegion(original, smoothed, 0.01)
	if hi1.Values[0]-lo1.Values[0] <= hi5.Values[0]-lo5.Values[0] {
		t.Fatalf("alpha 0.01 band must be wider than alpha 0.05")
	}
}
