// Package api exposes the forecast pipeline over HTTP: trend bands,
// on-demand forecasts, stored history and health.
package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"Condor/internal/domain/repository"
	"Condor/internal/usecase"
	"Condor/pkg/http"
	"Condor/pkg/logger"
	"Condor/pkg/queue"
	"Condor/pkg/util"
)

// Handler registers the forecast API routes.
type Handler struct {
	forecaster *usecase.PriceForecaster
	prices     repository.PriceStore
	queue      queue.QueueService
	log        *logger.Logger
}

func NewHandler(forecaster *usecase.PriceForecaster, prices repository.PriceStore, q queue.QueueService, log *logger.Logger) *Handler {
	return &Handler{forecaster: forecaster, prices: prices, queue: q, log: log}
}

// RegisterRoutes implements http.Handler.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/health", h.health)
	g.GET("/assets/:symbol/history", h.history)
	g.GET("/assets/:symbol/trends", h.trends)
	g.POST("/assets/:symbol/forecast", h.forecast)
	g.POST("/forecasts", h.enqueueForecasts)
}

func (h *Handler) health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.prices.Health(ctx); err != nil {
		return http.DataResponse(c, 503, map[string]string{"status": "degraded", "clickhouse": err.Error()})
	}
	return http.SuccessResponse(c, map[string]string{"status": "ok"})
}

type historyResponse struct {
	Symbol string       `json:"symbol"`
	Bars   []historyBar `json:"bars"`
}

type historyBar struct {
	Date         string  `json:"date"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
	Interpolated bool    `json:"interpolated"`
}

func (h *Handler) history(c echo.Context) error {
	symbol := c.Param("symbol")
	to := util.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC())
	days := util.ParseIntDefault(c.QueryParam("days"), 365)
	from := util.ParseTimeDefault(c.QueryParam("from"), to.AddDate(0, 0, -days))
	from, to = util.AlignDayRange(from, to)

	hist, err := h.prices.History(c.Request().Context(), symbol, from, to)
	if err != nil {
		h.log.Error("history load failed", logger.String("symbol", symbol), logger.Error(err))
		return http.InternalServerErrorResponse(c)
	}

	resp := historyResponse{Symbol: symbol, Bars: make([]historyBar, len(hist.Bars))}
	for i, b := range hist.Bars {
		resp.Bars[i] = historyBar{
			Date:         b.Date.Format("2006-01-02"),
			Open:         b.Open,
			High:         b.High,
			Low:          b.Low,
			Close:        b.Close,
			Volume:       b.Volume,
			Interpolated: b.Interpolated,
		}
	}
	return http.SuccessResponse(c, resp)
}

type trendsRequest struct {
	Alpha float64 `query:"alpha" validate:"gte=0,lt=1"`
}

type trendsResponse struct {
	Symbol   string    `json:"symbol"`
	Dates    []string  `json:"dates"`
	Original []float64 `json:"original"`
	Smoothed []float64 `json:"smoothed"`
	LowerCI  []float64 `json:"lower_ci"`
	UpperCI  []float64 `json:"upper_ci"`
	LowerPI  []float64 `json:"lower_pi"`
	UpperPI  []float64 `json:"upper_pi"`
}

func (h *Handler) trends(c echo.Context) error {
	symbol := c.Param("symbol")
	req := new(trendsRequest)
	if errs := http.ReadAndValidateRequest(c, req); errs != nil {
		return http.BadRequestResponse(c, errs)
	}

	bands, err := h.forecaster.Trends(c.Request().Context(), symbol, req.Alpha)
	if err != nil {
		h.log.Error("trend computation failed", logger.String("symbol", symbol), logger.Error(err))
		return http.InternalServerErrorResponse(c)
	}

	resp := trendsResponse{
		Symbol:   symbol,
		Dates:    make([]string, bands.Smoothed.Len()),
		Original: bands.Original.Values,
		Smoothed: bands.Smoothed.Values,
		LowerCI:  bands.LowerCI.Values,
		UpperCI:  bands.UpperCI.Values,
		LowerPI:  bands.LowerPI.Values,
		UpperPI:  bands.UpperPI.Values,
	}
	for i, d := range bands.Smoothed.Dates {
		resp.Dates[i] = d.Format("2006-01-02")
	}
	return http.SuccessResponse(c, resp)
}

type forecastResponse struct {
	Symbol string    `json:"symbol"`
	Order  string    `json:"order"`
	Alpha  float64   `json:"alpha"`
	Dates  []string  `json:"dates"`
	Points []float64 `json:"points"`
	Lower  []float64 `json:"lower"`
	Upper  []float64 `json:"upper"`
}

// forecast runs the pipeline synchronously for one symbol.
func (h *Handler) forecast(c echo.Context) error {
	symbol := c.Param("symbol")
	result, err := h.forecaster.ForecastSymbol(c.Request().Context(), symbol)
	if err != nil {
		h.log.Error("forecast failed", logger.String("symbol", symbol), logger.Error(err))
		return http.InternalServerErrorResponse(c)
	}

	resp := forecastResponse{
		Symbol: symbol,
		Order:  result.Order.String(),
		Alpha:  result.Alpha,
		Dates:  make([]string, result.Horizon()),
		Points: result.Points.Values,
		Lower:  result.Lower.Values,
		Upper:  result.Upper.Values,
	}
	for i, d := range result.Points.Dates {
		resp.Dates[i] = d.Format("2006-01-02")
	}
	return http.SuccessResponse(c, resp)
}

type enqueueRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,dive,required"`
}

// enqueueForecasts queues forecast runs for a batch of symbols.
func (h *Handler) enqueueForecasts(c echo.Context) error {
	req := new(enqueueRequest)
	if errs := http.ReadAndValidateRequest(c, req); errs != nil {
		return http.BadRequestResponse(c, errs)
	}

	ctx := c.Request().Context()
	for _, symbol := range req.Symbols {
		if err := h.queue.PublishMessage(ctx, usecase.ForecastRequestType, usecase.ForecastRequest{Symbol: symbol}); err != nil {
			h.log.Error("enqueue failed", logger.String("symbol", symbol), logger.Error(err))
			return http.InternalServerErrorResponse(c)
		}
	}
	return http.CreatedResponse(c, map[string]int{"queued": len(req.Symbols)})
}
