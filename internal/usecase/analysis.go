// Package usecase wires the estimation primitives into the application's
// operations: series cleaning, trend extraction, order search, forecasting,
// history refresh and the queue-driven forecast runner.
package usecase

import (
	"context"
	"time"

	"Condor/internal/arima"
	"Condor/internal/cleaning"
	"Condor/internal/domain/models"
	"Condor/internal/domain/repository"
	"Condor/internal/search"
	"Condor/internal/smoothing"
	"Condor/pkg/logger"
)

// SeriesCleaner implements service.Cleaner: calendar normalization followed
// by MLE interpolation of missing values.
type SeriesCleaner struct {
	opts    cleaning.Options
	metrics repository.Metrics
	log     *logger.Logger
}

func NewSeriesCleaner(opts cleaning.Options, metrics repository.Metrics, log *logger.Logger) *SeriesCleaner {
	return &SeriesCleaner{opts: opts, metrics: metrics, log: log}
}

// Clean reindexes the series onto a contiguous daily calendar and fills
// every missing slot.
func (c *SeriesCleaner) Clean(s models.TimeSeries) (models.TimeSeries, error) {
	normalized, synthesized, err := cleaning.NormalizeCalendar(s)
	if err != nil {
		return models.TimeSeries{}, err
	}

	filled, err := cleaning.Interpolate(normalized, c.opts)
	if err != nil {
		return models.TimeSeries{}, err
	}

	if c.metrics != nil && len(synthesized) > 0 {
		c.metrics.RecordGapFill("", len(synthesized))
	}
	if c.log != nil && len(synthesized) > 0 {
		c.log.Debug("filled calendar gaps",
			logger.Int("synthesized_dates", len(synthesized)),
			logger.Int("series_len", filled.Len()))
	}
	return filled, nil
}

// TrendService implements service.TrendSmoother over the robust LOWESS
// smoother plus its confidence and prediction regions.
type TrendService struct {
	window     int
	iterations int
}

func NewTrendService(window, iterations int) *TrendService {
	return &TrendService{window: window, iterations: iterations}
}

// Trends smooths the series and surrounds the trend with confidence and
// prediction regions at significance alpha.
func (t *TrendService) Trends(s models.TimeSeries, alpha float64) (models.TrendBands, error) {
	smoothed, err := smoothing.Smooth(s, t.window, t.iterations)
	if err != nil {
		return models.TrendBands{}, err
	}
	lowerCI, upperCI, err := smoothing.ConfidenceRegion(s, smoothed, alpha)
	if err != nil {
		return models.TrendBands{}, err
	}
	lowerPI, upperPI, err := smoothing.PredictionRegion(s, smoothed, alpha)
	if err != nil {
		return models.TrendBands{}, err
	}
	return models.TrendBands{
		Original: s.Clone(),
		Smoothed: smoothed,
		LowerCI:  lowerCI,
		UpperCI:  upperCI,
		LowerPI:  lowerPI,
		UpperPI:  upperPI,
	}, nil
}

// OrderSearchService implements service.OrderSearcher over the parallel
// candidate search engine.
type OrderSearchService struct {
	engine *search.Engine
}

func NewOrderSearchService(engine *search.Engine) *OrderSearchService {
	return &OrderSearchService{engine: engine}
}

func (o *OrderSearchService) Search(ctx context.Context, y models.TimeSeries, exog [][]float64) (models.Order, float64, error) {
	return o.engine.Search(ctx, y.Values, exog)
}

// ForecastService implements service.Forecaster: fit the chosen order and
// roll the model forward, extending the daily date axis past the series end.
type ForecastService struct {
	trend string
}

func NewForecastService(trend string) *ForecastService {
	return &ForecastService{trend: trend}
}

func (f *ForecastService) Forecast(y models.TimeSeries, exog [][]float64, order models.Order, length int, alpha float64) (models.ForecastResult, error) {
	model, err := arima.Fit(y.Values, exog, order, f.trend)
	if err != nil {
		return models.ForecastResult{}, err
	}

	var exogFuture [][]float64
	if exog != nil && len(exog) >= y.Len()+length {
		exogFuture = exog[y.Len():]
	} else if exog != nil {
		// Hold the last observed exogenous row flat over the horizon.
		last := exog[len(exog)-1]
		exogFuture = make([][]float64, length)
		for i := range exogFuture {
			exogFuture[i] = last
		}
	}

	fc, err := model.Forecast(length, exogFuture, alpha)
	if err != nil {
		return models.ForecastResult{}, err
	}

	dates := futureDates(y, length)
	return models.ForecastResult{
		Points: models.TimeSeries{Dates: dates, Values: fc.Points},
		Lower:  models.TimeSeries{Dates: append([]time.Time(nil), dates...), Values: fc.Lower},
		Upper:  models.TimeSeries{Dates: append([]time.Time(nil), dates...), Values: fc.Upper},
		Order:  order,
		Alpha:  alpha,
	}, nil
}

// futureDates continues the daily axis for length days past the series end.
func futureDates(y models.TimeSeries, length int) []time.Time {
	dates := make([]time.Time, length)
	var last time.Time
	if len(y.Dates) > 0 {
		last = y.Dates[len(y.Dates)-1]
	}
	for i := range dates {
		last = last.AddDate(0, 0, 1)
		dates[i] = last
	}
	return dates
}
