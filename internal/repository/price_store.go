// Package repository provides the ClickHouse persistence layer and the
// Kafka event publisher.
package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"Condor/internal/domain/models"
	"Condor/pkg/clickhouse"
	"Condor/pkg/logger"
)

var priceSchema = []string{
	`CREATE TABLE IF NOT EXISTS historical_asset_prices (
		symbol       LowCardinality(String),
		date         Date,
		open         Float64,
		high         Float64,
		low          Float64,
		close        Float64,
		volume       Float64,
		interpolated UInt8,
		updated_at   DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(updated_at)
	PARTITION BY toYYYYMM(date)
	ORDER BY (symbol, date)`,
}

// PriceStore persists cleaned daily OHLCV history in ClickHouse.
type PriceStore struct {
	client *clickhouse.Client
	log    *logger.Logger
}

func NewPriceStore(client *clickhouse.Client, log *logger.Logger) *PriceStore {
	return &PriceStore{client: client, log: log}
}

// Init ensures the price table exists.
func (s *PriceStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, priceSchema)
}

// StoreHistory batch-inserts the history, one row per bar. Rows for an
// existing (symbol, date) pair are superseded on merge.
func (s *PriceStore) StoreHistory(ctx context.Context, h models.PriceHistory) error {
	if len(h.Bars) == 0 {
		return nil
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO historical_asset_prices
		(symbol, date, open, high, low, close, volume, interpolated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range h.Bars {
		if math.IsNaN(b.Close) {
			_ = tx.Rollback()
			return fmt.Errorf("store history for %s: NaN close at %s, clean the series first",
				h.Symbol, b.Date.Format("2006-01-02"))
		}
		interpolated := uint8(0)
		if b.Interpolated {
			interpolated = 1
		}
		if _, err := stmt.ExecContext(ctx, h.Symbol, b.Date,
			b.Open, b.High, b.Low, b.Close, b.Volume, interpolated); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert bar %s/%s: %w", h.Symbol, b.Date.Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}

	if s.log != nil {
		s.log.Debug("stored price history",
			logger.String("symbol", h.Symbol), logger.Int("bars", len(h.Bars)))
	}
	return nil
}

// History loads bars for symbol over [from, to], ordered by date.
func (s *PriceStore) History(ctx context.Context, symbol string, from, to time.Time) (models.PriceHistory, error) {
	rows, err := s.client.DB().QueryContext(ctx, `SELECT
			date, open, high, low, close, volume, interpolated
		FROM historical_asset_prices FINAL
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date`, symbol, from, to)
	if err != nil {
		return models.PriceHistory{}, fmt.Errorf("query history for %s: %w", symbol, err)
	}
	defer rows.Close()

	h := models.PriceHistory{Symbol: symbol}
	for rows.Next() {
		var b models.PriceBar
		var interpolated uint8
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &interpolated); err != nil {
			return models.PriceHistory{}, fmt.Errorf("scan history row: %w", err)
		}
		b.Interpolated = interpolated != 0
		h.Bars = append(h.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return models.PriceHistory{}, fmt.Errorf("iterate history rows: %w", err)
	}
	return h, nil
}

// Health pings the underlying pool.
func (s *PriceStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *PriceStore) Close() error {
	return s.client.Close()
}
