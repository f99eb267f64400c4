package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Condor/internal/domain/models"
	"Condor/pkg/clickhouse"
	"Condor/pkg/logger"
)

// forecastHorizon is the fixed column width of the forecast table: one
// column per horizon day. Runs with a different horizon cannot be stored.
const forecastHorizon = 15

var forecastSchema = []string{
	`CREATE TABLE IF NOT EXISTS asset_price_forecasts (
		symbol        LowCardinality(String),
		forecast_date Date,
		model_order   String,
		alpha         Float64,
		` + forecastDayColumns("day", "Float64") + `,
		` + forecastDayColumns("lower", "Float64") + `,
		` + forecastDayColumns("upper", "Float64") + `,
		updated_at    DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(updated_at)
	PARTITION BY toYYYYMM(forecast_date)
	ORDER BY (symbol, forecast_date)`,
}

// forecastDayColumns renders "prefix_1 type, ..., prefix_15 type".
func forecastDayColumns(prefix, colType string) string {
	cols := make([]string, forecastHorizon)
	for i := range cols {
		cols[i] = fmt.Sprintf("%s_%d %s", prefix, i+1, colType)
	}
	return strings.Join(cols, ",\n\t\t")
}

// ForecastStore persists forecast runs onto the fixed-width horizon schema.
type ForecastStore struct {
	client *clickhouse.Client
	log    *logger.Logger
}

func NewForecastStore(client *clickhouse.Client, log *logger.Logger) *ForecastStore {
	return &ForecastStore{client: client, log: log}
}

// Init ensures the forecast table exists.
func (s *ForecastStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, forecastSchema)
}

// StoreForecast writes one row per run. The forecast horizon must match the
// table width exactly.
func (s *ForecastStore) StoreForecast(ctx context.Context, f models.ForecastResult, forecastDate time.Time) error {
	if f.Horizon() != forecastHorizon {
		return fmt.Errorf("forecast horizon %d does not fit the %d-day schema", f.Horizon(), forecastHorizon)
	}

	cols := []string{"symbol", "forecast_date", "model_order", "alpha"}
	args := []interface{}{f.Symbol, forecastDate, f.Order.String(), f.Alpha}
	for i := 0; i < forecastHorizon; i++ {
		cols = append(cols, fmt.Sprintf("day_%d", i+1))
		args = append(args, f.Points.Values[i])
	}
	for i := 0; i < forecastHorizon; i++ {
		cols = append(cols, fmt.Sprintf("lower_%d", i+1))
		args = append(args, f.Lower.Values[i])
	}
	for i := 0; i < forecastHorizon; i++ {
		cols = append(cols, fmt.Sprintf("upper_%d", i+1))
		args = append(args, f.Upper.Values[i])
	}

	query := fmt.Sprintf("INSERT INTO asset_price_forecasts (%s) VALUES (%s)",
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert forecast for %s: %w", f.Symbol, err)
	}

	if s.log != nil {
		s.log.Debug("stored forecast",
			logger.String("symbol", f.Symbol),
			logger.String("forecast_date", forecastDate.Format("2006-01-02")))
	}
	return nil
}

func (s *ForecastStore) Close() error {
	return s.client.Close()
}
