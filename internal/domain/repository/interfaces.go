package repository

import (
	"context"
	"time"

	"Condor/internal/domain/models"
)

// MarketData pulls daily OHLCV history from an external provider. Gaps
// (non-trading days, provider outages) are expected and handled downstream.
type MarketData interface {
	History(ctx context.Context, symbol string, from, to time.Time) (models.PriceHistory, error)
}

// SymbolDirectory lists exchange/ETF metadata for available tickers.
type SymbolDirectory interface {
	Symbols(ctx context.Context, exchanges []string, etfOnly bool) ([]models.AssetInfo, error)
}

// PriceStore persists cleaned daily price history, one row per asset/date,
// with a flag marking interpolated values.
type PriceStore interface {
	Init(ctx context.Context) error // ensure tables
	StoreHistory(ctx context.Context, h models.PriceHistory) error
	History(ctx context.Context, symbol string, from, to time.Time) (models.PriceHistory, error)
	Health(ctx context.Context) error
	Close() error
}

// ForecastStore persists forecast output onto the fixed-width horizon schema:
// one row per asset per forecast date with one column per horizon day.
type ForecastStore interface {
	StoreForecast(ctx context.Context, f models.ForecastResult, forecastDate time.Time) error
	Close() error
}

// ExogenousStore persists and serves external predictor series history.
type ExogenousStore interface {
	StorePoints(ctx context.Context, points []models.ExogenousPoint) error
	Series(ctx context.Context, seriesID int, from, to time.Time) (models.TimeSeries, error)
	Close() error
}

// Publisher emits forecast-completed events to the outward feed.
type Publisher interface {
	PublishForecast(ctx context.Context, ev models.ForecastEvent) error
	Close() error
}

// Metrics records operational counters and latencies.
type Metrics interface {
	RecordForecast(symbol string)
	RecordCandidateFit(outcome string) // "ok" or "infeasible"
	RecordGapFill(symbol string, points int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
