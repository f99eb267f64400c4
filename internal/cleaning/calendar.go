// Package cleaning turns raw, gap-ridden daily series into contiguous
// cleaned ones: calendar normalization onto a daily date grid followed by
// MLE-based interpolation of missing values.
package cleaning

import (
	"errors"
	"math"
	"time"

	"Condor/internal/domain/models"
)

// ErrDuplicateDates is returned when the input carries the same date twice.
// Duplicate dates are a fatal input error, never repaired.
var ErrDuplicateDates = errors.New("cleaning: duplicate dates found in the index")

// NormalizeCalendar reindexes the series onto the full daily range spanning
// its min and max dates, inserting NaN markers for dates not originally
// present. The second return value lists the synthesized dates.
func NormalizeCalendar(s models.TimeSeries) (models.TimeSeries, []time.Time, error) {
	if err := checkDuplicates(s.Dates); err != nil {
		return models.TimeSeries{}, nil, err
	}
	if s.Len() == 0 {
		return s.Clone(), nil, nil
	}

	observed := make(map[time.Time]float64, s.Len())
	minDate, maxDate := s.Dates[0], s.Dates[0]
	for i, d := range s.Dates {
		day := truncateDay(d)
		observed[day] = s.Values[i]
		if day.Before(minDate) {
			minDate = day
		}
		if day.After(maxDate) {
			maxDate = day
		}
	}
	minDate = truncateDay(minDate)
	maxDate = truncateDay(maxDate)

	var dates []time.Time
	var values []float64
	var synthesized []time.Time
	for day := minDate; !day.After(maxDate); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
		if v, ok := observed[day]; ok {
			values = append(values, v)
		} else {
			values = append(values, math.NaN())
			synthesized = append(synthesized, day)
		}
	}
	return models.TimeSeries{Dates: dates, Values: values}, synthesized, nil
}

// NormalizeHistory reindexes a full OHLCV history onto the daily grid.
// Synthesized rows carry NaN prices and are flagged interpolated.
func NormalizeHistory(h models.PriceHistory) (models.PriceHistory, error) {
	dates := make([]time.Time, len(h.Bars))
	for i, b := range h.Bars {
		dates[i] = b.Date
	}
	if err := checkDuplicates(dates); err != nil {
		return models.PriceHistory{}, err
	}
	if len(h.Bars) == 0 {
		return h, nil
	}

	observed := make(map[time.Time]models.PriceBar, len(h.Bars))
	minDate, maxDate := truncateDay(h.Bars[0].Date), truncateDay(h.Bars[0].Date)
	for _, b := range h.Bars {
		day := truncateDay(b.Date)
		observed[day] = b
		if day.Before(minDate) {
			minDate = day
		}
		if day.After(maxDate) {
			maxDate = day
		}
	}

	out := models.PriceHistory{Symbol: h.Symbol}
	nan := math.NaN()
	for day := minDate; !day.After(maxDate); day = day.AddDate(0, 0, 1) {
		if b, ok := observed[day]; ok {
			b.Date = day
			out.Bars = append(out.Bars, b)
			continue
		}
		out.Bars = append(out.Bars, models.PriceBar{
			Date: day, Open: nan, High: nan, Low: nan, Close: nan, Volume: nan,
			Interpolated: true,
		})
	}
	return out, nil
}

func checkDuplicates(dates []time.Time) error {
	seen := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		day := truncateDay(d)
		if _, dup := seen[day]; dup {
			return ErrDuplicateDates
		}
		seen[day] = struct{}{}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
