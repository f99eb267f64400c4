package stats

import (
	"math"
	"testing"
)

func TestDiffCumSumRoundTrip(t *testing.T) {
	values := []float64{3, 7, 4, 9, 12, 8}

	diffed := Diff(values)
	if len(diffed) != len(values)-1 {
		t.Fatalf("expected %d diffs, got %d", len(values)-1, len(diffed))
	}

	// Reversing needs the dropped leading value back in front.
	restored := CumSum(append([]float64{values[0]}, diffed...))
	if len(restored) != len(values) {
		t.Fatalf("expected %d restored values, got %d", len(values), len(restored))
	}
	for i := range values {
		if math.Abs(restored[i]-values[i]) > 1e-12 {
			t.Fatalf("round trip mismatch at %d: got %v want %v", i, restored[i], values[i])
		}
	}
}

func TestLogTransformRoundTrip(t *testing.T) {
	values := []float64{0.5, 1, 10, 100, 12345}
	back := Expm1(Log1p(values))
	for i := range values {
		if math.Abs(back[i]-values[i]) > 1e-9 {
			t.Fatalf("log round trip mismatch at %d: got %v want %v", i, back[i], values[i])
		}
	}
}

func TestStdDevPopulation(t *testing.T) {
	// Population std dev divides by n, not n-1.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := StdDev(values)
	if math.Abs(got-2) > 1e-12 {
		t.Fatalf("expected population std dev 2, got %v", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("expected mean 2.5, got %v", got)
	}
}
