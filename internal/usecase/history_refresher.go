package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"Condor/internal/cleaning"
	"Condor/internal/domain/models"
	"Condor/internal/domain/repository"
	"Condor/pkg/logger"
)

// priceColumns are the history fields run through interpolation, in storage
// order. Volume is cleaned without the log transform safeguard relaxed;
// prices must stay positive.
var priceColumns = []string{"open", "high", "low", "close", "volume"}

// HistoryRefresher pulls provider history, cleans every price column and
// persists the contiguous result.
type HistoryRefresher struct {
	source    repository.MarketData
	directory repository.SymbolDirectory
	store     repository.PriceStore
	metrics   repository.Metrics
	log       *logger.Logger

	lookbackDays int
}

func NewHistoryRefresher(
	source repository.MarketData,
	directory repository.SymbolDirectory,
	store repository.PriceStore,
	metrics repository.Metrics,
	log *logger.Logger,
	lookbackDays int,
) *HistoryRefresher {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	return &HistoryRefresher{
		source:       source,
		directory:    directory,
		store:        store,
		metrics:      metrics,
		log:          log,
		lookbackDays: lookbackDays,
	}
}

// RefreshSymbol pulls, cleans and stores one symbol's daily history.
func (r *HistoryRefresher) RefreshSymbol(ctx context.Context, symbol string) error {
	started := time.Now()
	to := today()
	from := to.AddDate(0, 0, -r.lookbackDays)

	raw, err := r.source.History(ctx, symbol, from, to)
	if err != nil {
		r.recordError("provider_fetch")
		return fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(raw.Bars) == 0 {
		if r.log != nil {
			r.log.Warn("provider returned no history", logger.String("symbol", symbol))
		}
		return nil
	}

	cleaned, filledPoints, err := r.cleanHistory(raw)
	if err != nil {
		r.recordError("clean")
		return fmt.Errorf("clean history for %s: %w", symbol, err)
	}

	if err := r.store.StoreHistory(ctx, cleaned); err != nil {
		r.recordError("price_store")
		return fmt.Errorf("store history for %s: %w", symbol, err)
	}

	if r.metrics != nil {
		if filledPoints > 0 {
			r.metrics.RecordGapFill(symbol, filledPoints)
		}
		r.metrics.RecordLatency("refresh_symbol", time.Since(started).Seconds())
	}
	if r.log != nil {
		r.log.Info("refreshed price history",
			logger.String("symbol", symbol),
			logger.Int("bars", len(cleaned.Bars)),
			logger.Int("interpolated", filledPoints))
	}
	return nil
}

// RefreshExchanges refreshes every symbol listed on the given exchanges.
// Per-symbol failures are logged and counted but do not stop the sweep.
func (r *HistoryRefresher) RefreshExchanges(ctx context.Context, exchanges []string, etfOnly bool) error {
	assets, err := r.directory.Symbols(ctx, exchanges, etfOnly)
	if err != nil {
		r.recordError("symbol_listing")
		return fmt.Errorf("list symbols: %w", err)
	}

	var failures int
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RefreshSymbol(ctx, a.Symbol); err != nil {
			failures++
			if r.log != nil {
				r.log.Error("symbol refresh failed",
					logger.String("symbol", a.Symbol), logger.Error(err))
			}
		}
	}
	if failures > 0 {
		return fmt.Errorf("refresh finished with %d of %d symbols failed", failures, len(assets))
	}
	return nil
}

// cleanHistory normalizes the calendar and interpolates each price column,
// returning the cleaned history and the number of values synthesized.
func (r *HistoryRefresher) cleanHistory(raw models.PriceHistory) (models.PriceHistory, int, error) {
	normalized, err := cleaning.NormalizeHistory(raw)
	if err != nil {
		return models.PriceHistory{}, 0, err
	}

	// Missing slots before filling, per bar, to set the interpolated flag.
	missing := make([]bool, len(normalized.Bars))
	for i, b := range normalized.Bars {
		if b.Interpolated || math.IsNaN(b.Close) || b.Close == 0 {
			missing[i] = true
		}
	}

	filled := 0
	for _, col := range priceColumns {
		series, ok := normalized.Column(col)
		if !ok {
			return models.PriceHistory{}, 0, fmt.Errorf("unknown price column %q", col)
		}
		clean, err := cleaning.Interpolate(series, cleaning.Options{LogTransform: true})
		if err != nil {
			return models.PriceHistory{}, 0, fmt.Errorf("interpolate %s: %w", col, err)
		}
		for i := range series.Values {
			if math.IsNaN(series.Values[i]) || series.Values[i] == 0 {
				filled++
			}
		}
		normalized.SetColumn(col, clean)
	}

	for i := range normalized.Bars {
		normalized.Bars[i].Interpolated = missing[i]
	}
	return normalized, filled, nil
}

func (r *HistoryRefresher) recordError(kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
}
