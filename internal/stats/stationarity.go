package stats

import (
	"time"

	"Condor/internal/domain/models"
)

// DefaultCriticalValue is the significance threshold for the unit-root test.
const DefaultCriticalValue = 0.05

// IsStationary reports whether values pass the ADF test at the given
// critical threshold. Series too short to test are treated as
// non-stationary.
func IsStationary(values []float64, criticalVal float64) bool {
	res, err := ADF(values, 0)
	if err != nil {
		return false
	}
	return res.PValue < criticalVal
}

// MakeStationary differences the series until the ADF test accepts it or
// maxDiff passes have been applied, dropping the leading undefined value on
// each pass. If stationarity is never reached the ORIGINAL series is
// returned with order 0; callers must not assume the result is stationary.
func MakeStationary(s models.TimeSeries, maxDiff int) models.DifferencedSeries {
	if maxDiff <= 0 {
		maxDiff = 2
	}

	values := s.Values
	dates := s.Dates
	order := 0
	stationary := IsStationary(values, DefaultCriticalValue)

	for !stationary && order < maxDiff && len(values) > 2 {
		values = Diff(values)
		dates = dates[1:]
		order++
		stationary = IsStationary(values, DefaultCriticalValue)
	}

	if !stationary {
		return models.DifferencedSeries{Series: s.Clone(), Order: 0}
	}

	out := make([]float64, len(values))
	copy(out, values)
	outDates := make([]time.Time, len(dates))
	copy(outDates, dates)
	return models.DifferencedSeries{
		Series: models.TimeSeries{Dates: outDates, Values: out},
		Order:  order,
	}
}
