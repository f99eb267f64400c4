package repository

import (
	"context"
	"fmt"
	"time"

	"Condor/internal/domain/models"
	"Condor/pkg/clickhouse"
)

var exogenousSchema = []string{
	`CREATE TABLE IF NOT EXISTS exogenous_series_history (
		series_id  Int32,
		date       Date,
		value      Float64,
		updated_at DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(updated_at)
	ORDER BY (series_id, date)`,
}

// ExogenousStore persists external predictor series (rates, indices,
// macro releases) keyed by a numeric series id.
type ExogenousStore struct {
	client *clickhouse.Client
}

func NewExogenousStore(client *clickhouse.Client) *ExogenousStore {
	return &ExogenousStore{client: client}
}

// Init ensures the exogenous table exists.
func (s *ExogenousStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, exogenousSchema)
}

// StorePoints batch-inserts observations.
func (s *ExogenousStore) StorePoints(ctx context.Context, points []models.ExogenousPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO exogenous_series_history (series_id, date, value) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, int32(p.SeriesID), p.Date, p.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert point %d/%s: %w", p.SeriesID, p.Date.Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// Series loads one predictor series over [from, to], ordered by date.
func (s *ExogenousStore) Series(ctx context.Context, seriesID int, from, to time.Time) (models.TimeSeries, error) {
	rows, err := s.client.DB().QueryContext(ctx, `SELECT date, value
		FROM exogenous_series_history FINAL
		WHERE series_id = ? AND date >= ? AND date <= ?
		ORDER BY date`, int32(seriesID), from, to)
	if err != nil {
		return models.TimeSeries{}, fmt.Errorf("query exogenous series %d: %w", seriesID, err)
	}
	defer rows.Close()

	var out models.TimeSeries
	for rows.Next() {
		var date time.Time
		var value float64
		if err := rows.Scan(&date, &value); err != nil {
			return models.TimeSeries{}, fmt.Errorf("scan exogenous row: %w", err)
		}
		out.Dates = append(out.Dates, date)
		out.Values = append(out.Values, value)
	}
	if err := rows.Err(); err != nil {
		return models.TimeSeries{}, fmt.Errorf("iterate exogenous rows: %w", err)
	}
	return out, nil
}

func (s *ExogenousStore) Close() error {
	return s.client.Close()
}
