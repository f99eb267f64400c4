package usecase

import (
	"context"
	"fmt"
	"time"

	"Condor/internal/domain/models"
	"Condor/internal/domain/repository"
	"Condor/internal/domain/service"
	"Condor/pkg/cache"
	"Condor/pkg/logger"
)

// PriceForecaster runs the full estimation pipeline for one asset: load
// history, clean, search the best model order and forecast, then persist
// and publish the result.
type PriceForecaster struct {
	prices    repository.PriceStore
	exogenous repository.ExogenousStore
	forecasts repository.ForecastStore
	publisher repository.Publisher
	metrics   repository.Metrics

	cleaner  service.Cleaner
	smoother service.TrendSmoother
	searcher service.OrderSearcher
	caster   service.Forecaster

	cache cache.Service
	log   *logger.Logger

	horizon      int
	lookbackDays int
	alpha        float64
	criterion    string
	column       string
	exogSeriesID int
	cacheTTL     time.Duration
}

// PriceForecasterDeps bundles the collaborators of a PriceForecaster.
type PriceForecasterDeps struct {
	Prices    repository.PriceStore
	Exogenous repository.ExogenousStore
	Forecasts repository.ForecastStore
	Publisher repository.Publisher
	Metrics   repository.Metrics
	Cleaner   service.Cleaner
	Smoother  service.TrendSmoother
	Searcher  service.OrderSearcher
	Caster    service.Forecaster
	Cache     cache.Service
	Logger    *logger.Logger
}

// PriceForecasterConfig carries the tunables of a forecast run.
type PriceForecasterConfig struct {
	Horizon      int
	LookbackDays int
	Alpha        float64
	Criterion    string
	Column       string
	ExogSeriesID int
	CacheTTL     time.Duration
}

func NewPriceForecaster(deps PriceForecasterDeps, cfg PriceForecasterConfig) *PriceForecaster {
	if cfg.Horizon <= 0 {
		cfg.Horizon = 15
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 365
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		cfg.Alpha = 0.05
	}
	if cfg.Column == "" {
		cfg.Column = "close"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	return &PriceForecaster{
		prices:       deps.Prices,
		exogenous:    deps.Exogenous,
		forecasts:    deps.Forecasts,
		publisher:    deps.Publisher,
		metrics:      deps.Metrics,
		cleaner:      deps.Cleaner,
		smoother:     deps.Smoother,
		searcher:     deps.Searcher,
		caster:       deps.Caster,
		cache:        deps.Cache,
		log:          deps.Logger,
		horizon:      cfg.Horizon,
		lookbackDays: cfg.LookbackDays,
		alpha:        cfg.Alpha,
		criterion:    cfg.Criterion,
		column:       cfg.Column,
		exogSeriesID: cfg.ExogSeriesID,
		cacheTTL:     cfg.CacheTTL,
	}
}

// ForecastSymbol runs the pipeline for one symbol and returns the stored
// forecast.
func (pf *PriceForecaster) ForecastSymbol(ctx context.Context, symbol string) (models.ForecastResult, error) {
	started := time.Now()
	defer func() {
		if pf.metrics != nil {
			pf.metrics.RecordLatency("forecast_symbol", time.Since(started).Seconds())
		}
	}()

	y, err := pf.cleanedSeries(ctx, symbol)
	if err != nil {
		return models.ForecastResult{}, err
	}

	exog, err := pf.exogRows(ctx, y)
	if err != nil {
		return models.ForecastResult{}, err
	}

	order, score, err := pf.searcher.Search(ctx, y, exog)
	if err != nil {
		pf.recordError("order_search")
		return models.ForecastResult{}, fmt.Errorf("order search for %s: %w", symbol, err)
	}

	result, err := pf.caster.Forecast(y, exog, order, pf.horizon, pf.alpha)
	if err != nil {
		pf.recordError("forecast")
		return models.ForecastResult{}, fmt.Errorf("forecast for %s: %w", symbol, err)
	}
	result.Symbol = symbol

	forecastDate := today()
	if pf.forecasts != nil {
		if err := pf.forecasts.StoreForecast(ctx, result, forecastDate); err != nil {
			pf.recordError("forecast_store")
			return models.ForecastResult{}, fmt.Errorf("store forecast for %s: %w", symbol, err)
		}
	}
	if pf.publisher != nil {
		ev := models.ForecastEvent{
			Symbol:       symbol,
			ForecastDate: forecastDate,
			Horizon:      result.Horizon(),
			Order:        order.String(),
			Criterion:    pf.criterion,
			Score:        score,
		}
		if err := pf.publisher.PublishForecast(ctx, ev); err != nil {
			// The forecast is already persisted; a publish failure is
			// reported but does not fail the run.
			pf.recordError("forecast_publish")
			if pf.log != nil {
				pf.log.Warn("forecast event publish failed",
					logger.String("symbol", symbol), logger.Error(err))
			}
		}
	}

	if pf.metrics != nil {
		pf.metrics.RecordForecast(symbol)
	}
	if pf.log != nil {
		pf.log.Info("forecast completed",
			logger.String("symbol", symbol),
			logger.String("order", order.String()),
			logger.Any("score", score),
			logger.Int("horizon", result.Horizon()),
			logger.Duration("elapsed", time.Since(started)))
	}
	return result, nil
}

// Trends returns the smoothed trend with confidence and prediction bands
// over the symbol's cleaned history, cached per symbol and alpha.
func (pf *PriceForecaster) Trends(ctx context.Context, symbol string, alpha float64) (models.TrendBands, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = pf.alpha
	}

	key := cache.GenerateKeyWithParams("condor:trends", symbol, pf.column, alpha)
	if pf.cache != nil {
		var cached models.TrendBands
		if err := pf.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	y, err := pf.cleanedSeries(ctx, symbol)
	if err != nil {
		return models.TrendBands{}, err
	}
	bands, err := pf.smoother.Trends(y, alpha)
	if err != nil {
		pf.recordError("trends")
		return models.TrendBands{}, fmt.Errorf("trends for %s: %w", symbol, err)
	}

	if pf.cache != nil {
		if err := pf.cache.Set(ctx, key, bands, pf.cacheTTL); err != nil && pf.log != nil {
			pf.log.Debug("trend cache write failed",
				logger.String("symbol", symbol), logger.Error(err))
		}
	}
	return bands, nil
}

// cleanedSeries loads the lookback window of the configured price column and
// runs it through the cleaner.
func (pf *PriceForecaster) cleanedSeries(ctx context.Context, symbol string) (models.TimeSeries, error) {
	to := today()
	from := to.AddDate(0, 0, -pf.lookbackDays)
	history, err := pf.prices.History(ctx, symbol, from, to)
	if err != nil {
		pf.recordError("price_load")
		return models.TimeSeries{}, fmt.Errorf("load history for %s: %w", symbol, err)
	}
	if len(history.Bars) == 0 {
		return models.TimeSeries{}, fmt.Errorf("no price history for %s in the last %d days", symbol, pf.lookbackDays)
	}

	raw, ok := history.Column(pf.column)
	if !ok {
		return models.TimeSeries{}, fmt.Errorf("unknown price column %q", pf.column)
	}
	cleanSeries, err := pf.cleaner.Clean(raw)
	if err != nil {
		pf.recordError("clean")
		return models.TimeSeries{}, fmt.Errorf("clean series for %s: %w", symbol, err)
	}
	return cleanSeries, nil
}

// exogRows loads the configured exogenous series aligned to y's date axis.
// Returns nil rows when no exogenous series is configured or its coverage
// does not span the endogenous window.
func (pf *PriceForecaster) exogRows(ctx context.Context, y models.TimeSeries) ([][]float64, error) {
	if pf.exogenous == nil || pf.exogSeriesID == 0 || y.Len() == 0 {
		return nil, nil
	}

	from := y.Dates[0]
	to := y.Dates[len(y.Dates)-1]
	series, err := pf.exogenous.Series(ctx, pf.exogSeriesID, from, to)
	if err != nil {
		pf.recordError("exog_load")
		return nil, fmt.Errorf("load exogenous series %d: %w", pf.exogSeriesID, err)
	}
	if series.Len() < y.Len() {
		if pf.log != nil {
			pf.log.Warn("exogenous coverage too short, forecasting without regressors",
				logger.Int("series_id", pf.exogSeriesID),
				logger.Int("have", series.Len()),
				logger.Int("need", y.Len()))
		}
		return nil, nil
	}

	rows := make([][]float64, y.Len())
	for i := range rows {
		rows[i] = []float64{series.Values[i]}
	}
	return rows, nil
}

func (pf *PriceForecaster) recordError(kind string) {
	if pf.metrics != nil {
		pf.metrics.RecordError(kind)
	}
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
