package cleaning

import (
	"math"
	"testing"
	"time"

	"Condor/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeCalendarDuplicateDates(t *testing.T) {
	s := models.TimeSeries{
		Dates:  []time.Time{day(1), day(2), day(2)},
		Values: []float64{1, 2, 3},
	}
	if _, _, err := NormalizeCalendar(s); err != ErrDuplicateDates {
		t.Fatalf("expected ErrDuplicateDates, got %v", err)
	}
}

func TestNormalizeCalendarFillsGaps(t *testing.T) {
	s := models.TimeSeries{
		Dates:  []time.Time{day(1), day(3), day(6)},
		Values: []float64{10, 30, 60},
	}

	out, synthesized, err := NormalizeCalendar(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 6 {
		t.Fatalf("expected 6 daily rows, got %d", out.Len())
	}
	if len(synthesized) != 3 {
		t.Fatalf("expected 3 synthesized dates, got %d", len(synthesized))
	}

	wantMissing := map[int]bool{1: true, 3: true, 4: true}
	for i := 0; i < out.Len(); i++ {
		if !out.Dates[i].Equal(day(i + 1)) {
			t.Fatalf("unexpected date at %d: %v", i, out.Dates[i])
		}
		if wantMissing[i] != math.IsNaN(out.Values[i]) {
			t.Fatalf("missing marker mismatch at %d", i)
		}
	}
	if out.Values[0] != 10 || out.Values[2] != 30 || out.Values[5] != 60 {
		t.Fatalf("observed values moved: %v", out.Values)
	}
}

func TestNormalizeCalendarEmpty(t *testing.T) {
	out, synthesized, err := NormalizeCalendar(models.TimeSeries{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 || synthesized != nil {
		t.Fatalf("expected empty result")
	}
}

func TestNormalizeHistoryFlagsSynthesizedRows(t *testing.T) {
	h := models.PriceHistory{
		Symbol: "TEST",
		Bars: []models.PriceBar{
			{Date: day(1), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
			{Date: day(4), Open: 2, High: 3, Low: 1.5, Close: 2.5, Volume: 200},
		},
	}

	out, err := NormalizeHistory(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Bars) != 4 {
		t.Fatalf("expected 4 daily bars, got %d", len(out.Bars))
	}
	if out.Bars[0].Interpolated || out.Bars[3].Interpolated {
		t.Fatalf("observed bars must not be flagged")
	}
	for _, i := range []int{1, 2} {
		if !out.Bars[i].Interpolated {
			t.Fatalf("synthesized bar %d not flagged", i)
		}
		if !math.IsNaN(out.Bars[i].Close) {
			t.Fatalf("synthesized bar %d should carry NaN prices", i)
		}
	}
}
