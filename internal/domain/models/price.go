package models

import "time"

// PriceBar is one daily OHLCV observation. Interpolated marks rows or values
// synthesized by the cleaning pipeline rather than observed at the provider.
type PriceBar struct {
	Date         time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	Interpolated bool
}

// PriceHistory is a contiguous daily window of bars for one asset.
type PriceHistory struct {
	Symbol string
	Bars   []PriceBar
}

// Column extracts one price field as a TimeSeries. Valid names are "open",
// "high", "low", "close" and "volume"; anything else returns ok=false.
func (h PriceHistory) Column(name string) (TimeSeries, bool) {
	dates := make([]time.Time, len(h.Bars))
	values := make([]float64, len(h.Bars))
	for i, b := range h.Bars {
		dates[i] = b.Date
		switch name {
		case "open":
			values[i] = b.Open
		case "high":
			values[i] = b.High
		case "low":
			values[i] = b.Low
		case "close":
			values[i] = b.Close
		case "volume":
			values[i] = b.Volume
		default:
			return TimeSeries{}, false
		}
	}
	return TimeSeries{Dates: dates, Values: values}, true
}

// SetColumn writes a series back into one price field. The series must share
// the history's length.
func (h *PriceHistory) SetColumn(name string, s TimeSeries) {
	for i := range h.Bars {
		v := s.Values[i]
		switch name {
		case "open":
			h.Bars[i].Open = v
		case "high":
			h.Bars[i].High = v
		case "low":
			h.Bars[i].Low = v
		case "close":
			h.Bars[i].Close = v
		case "volume":
			h.Bars[i].Volume = v
		}
	}
}

// AssetInfo is listing metadata for a tradable symbol.
type AssetInfo struct {
	Symbol          string
	SecurityName    string
	MarketCategory  string
	ListingExchange string
	IsETF           bool
}

// ExogenousPoint is one daily observation of an external predictor series.
type ExogenousPoint struct {
	SeriesID int
	Date     time.Time
	Value    float64
}
