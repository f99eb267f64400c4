package service

import (
	"context"

	"Condor/internal/domain/models"
)

// Cleaner turns a raw, gap-ridden daily series into a contiguous one with
// every missing slot estimated.
type Cleaner interface {
	Clean(s models.TimeSeries) (models.TimeSeries, error)
}

// TrendSmoother extracts a robust smoothed trend with descriptive bands.
type TrendSmoother interface {
	Trends(s models.TimeSeries, alpha float64) (models.TrendBands, error)
}

// OrderSearcher finds the model order minimizing the configured information
// criterion over a candidate grid.
type OrderSearcher interface {
	Search(ctx context.Context, y models.TimeSeries, exog [][]float64) (models.Order, float64, error)
}

// Forecaster fits the winning order and produces point forecasts with
// prediction-interval bounds.
type Forecaster interface {
	Forecast(y models.TimeSeries, exog [][]float64, order models.Order, length int, alpha float64) (models.ForecastResult, error)
}
