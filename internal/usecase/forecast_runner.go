package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"Condor/pkg/logger"
	"Condor/pkg/queue"
)

// ForecastRequestType is the queue message type of a forecast request.
const ForecastRequestType = "forecast.request"

// ForecastRequest asks for one symbol to be forecast.
type ForecastRequest struct {
	Symbol string `json:"symbol"`
}

// ForecastJob is the queue job executing forecast requests.
type ForecastJob struct {
	forecaster *PriceForecaster
	log        *logger.Logger
}

func NewForecastJob(forecaster *PriceForecaster, log *logger.Logger) *ForecastJob {
	return &ForecastJob{forecaster: forecaster, log: log}
}

func (j *ForecastJob) Name() string { return "forecast_runner" }
func (j *ForecastJob) Type() string { return ForecastRequestType }

// Handle runs the forecast pipeline for the requested symbol.
func (j *ForecastJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[ForecastRequest](payload)
	if err != nil {
		return fmt.Errorf("parse forecast request: %w", err)
	}
	if req.Symbol == "" {
		return fmt.Errorf("forecast request without a symbol")
	}

	if _, err := j.forecaster.ForecastSymbol(ctx, req.Symbol); err != nil {
		return fmt.Errorf("forecast %s: %w", req.Symbol, err)
	}
	return nil
}

// ForecastRequestHandler bridges the Kafka request topic onto the internal
// queue, so external producers and the HTTP API share one execution path.
type ForecastRequestHandler struct {
	topic string
	queue queue.QueueService
	log   *logger.Logger
}

func NewForecastRequestHandler(topic string, q queue.QueueService, log *logger.Logger) *ForecastRequestHandler {
	return &ForecastRequestHandler{topic: topic, queue: q, log: log}
}

func (h *ForecastRequestHandler) Topic() string { return h.topic }

// Handle decodes the request and enqueues it. Malformed messages are
// dropped with a log line rather than retried; they can never succeed.
func (h *ForecastRequestHandler) Handle(ctx context.Context, data []byte) error {
	var req ForecastRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Symbol == "" {
		if h.log != nil {
			h.log.Warn("dropping malformed forecast request",
				logger.String("payload", string(data)))
		}
		return nil
	}
	if err := h.queue.PublishMessage(ctx, ForecastRequestType, req); err != nil {
		return fmt.Errorf("enqueue forecast request for %s: %w", req.Symbol, err)
	}
	return nil
}
