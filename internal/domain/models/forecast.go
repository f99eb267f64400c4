package models

import "time"

// ForecastResult is the output of one forecast run: point predictions with
// lower/upper prediction-interval bounds over the same future date axis.
// Immutable once produced.
type ForecastResult struct {
	Symbol string
	Points TimeSeries
	Lower  TimeSeries
	Upper  TimeSeries
	Order  Order
	Alpha  float64
}

// Horizon returns the number of forecast steps.
func (f ForecastResult) Horizon() int { return f.Points.Len() }

// TrendBands is the descriptive view of a historical series: the robust
// smoothed trend with confidence and prediction regions around it. These are
// bands around history, not forecasts.
type TrendBands struct {
	Original TimeSeries
	Smoothed TimeSeries
	LowerCI  TimeSeries
	UpperCI  TimeSeries
	LowerPI  TimeSeries
	UpperPI  TimeSeries
}

// ForecastEvent is the message published after a forecast run completes.
type ForecastEvent struct {
	Symbol       string    `json:"symbol"`
	ForecastDate time.Time `json:"forecast_date"`
	Horizon      int       `json:"horizon"`
	Order        string    `json:"order"`
	Criterion    string    `json:"criterion"`
	Score        float64   `json:"score"`
}
