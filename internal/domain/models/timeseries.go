package models

import (
	"math"
	"time"
)

// TimeSeries is an ordered sequence of (date, value) pairs at daily
// resolution. Dates are unique and strictly increasing. A value of NaN marks
// a missing observation; in price contexts a zero is treated as a missing
// sentinel by the cleaning pipeline.
type TimeSeries struct {
	Dates  []time.Time
	Values []float64
}

// NewTimeSeries builds a series with a synthetic daily date axis starting at
// start. Useful for tests and for series whose calendar is implicit.
func NewTimeSeries(start time.Time, values []float64) TimeSeries {
	dates := make([]time.Time, len(values))
	day := start
	for i := range dates {
		dates[i] = day
		day = day.AddDate(0, 0, 1)
	}
	return TimeSeries{Dates: dates, Values: values}
}

// FromValues builds a series with a daily axis anchored at the zero time.
func FromValues(values []float64) TimeSeries {
	return NewTimeSeries(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), values)
}

func (s TimeSeries) Len() int { return len(s.Values) }

// Clone deep-copies the series so stages never share mutable state.
func (s TimeSeries) Clone() TimeSeries {
	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return TimeSeries{Dates: dates, Values: values}
}

// WithValues returns a series sharing s's date axis with new values.
// Lengths must match; mismatches are a programming error.
func (s TimeSeries) WithValues(values []float64) TimeSeries {
	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	return TimeSeries{Dates: dates, Values: values}
}

// IsMissing reports whether position i holds a missing marker (NaN).
func (s TimeSeries) IsMissing(i int) bool {
	return math.IsNaN(s.Values[i])
}

// HasNaNOrZero reports whether any value is NaN or exactly zero.
func (s TimeSeries) HasNaNOrZero() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || v == 0 {
			return true
		}
	}
	return false
}

// Tail returns the last n values (the whole series when n >= Len).
func (s TimeSeries) Tail(n int) []float64 {
	if n >= len(s.Values) {
		n = len(s.Values)
	}
	out := make([]float64, n)
	copy(out, s.Values[len(s.Values)-n:])
	return out
}

// DifferencedSeries is a TimeSeries plus the number of first-difference
// passes applied to reach it. Reversible by cumulative summation Order times.
type DifferencedSeries struct {
	Series TimeSeries
	Order  int
}
