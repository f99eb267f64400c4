package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	candidateFits  *prometheus.CounterVec
	gapFills       *prometheus.CounterVec
	gapFillPoints  *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condor_forecasts_total",
				Help: "Total number of completed forecast runs",
			},
			[]string{"symbol"},
		),
		candidateFits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condor_candidate_fits_total",
				Help: "Total number of candidate order fits by outcome",
			},
			[]string{"outcome"},
		),
		gapFills: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condor_gap_fills_total",
				Help: "Total number of series gap-fill passes",
			},
			[]string{"symbol"},
		),
		gapFillPoints: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condor_gap_fill_points_total",
				Help: "Total number of interpolated data points",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condor_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "condor_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records a completed forecast run.
func (r *Recorder) RecordForecast(symbol string) {
	r.forecastsTotal.WithLabelValues(symbol).Inc()
}

// RecordCandidateFit records one candidate order fit outcome.
func (r *Recorder) RecordCandidateFit(outcome string) {
	r.candidateFits.WithLabelValues(outcome).Inc()
}

// RecordGapFill records one interpolation pass and its filled point count.
func (r *Recorder) RecordGapFill(symbol string, points int) {
	r.gapFills.WithLabelValues(symbol).Inc()
	r.gapFillPoints.WithLabelValues(symbol).Add(float64(points))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
