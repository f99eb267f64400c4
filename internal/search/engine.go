package search

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"
	"time"

	"Condor/internal/arima"
	"Condor/internal/domain/models"
	"Condor/pkg/logger"
)

// maxWorkers caps the pool regardless of requested parallelism; candidate
// fits are CPU bound and oversubscription past this point only adds
// scheduling noise.
const maxWorkers = 8

// ErrNoFeasibleOrder is returned when every candidate fit fails.
var ErrNoFeasibleOrder = errors.New("search: no candidate order produced a feasible fit")

// Engine fans candidate orders out over a bounded worker pool and selects
// the best-scoring fit.
type Engine struct {
	limits      Limits
	criterion   string
	trend       string
	parallelism int
	log         *logger.Logger
	observe     func(Fit)
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallelism sets the requested worker count. The effective count is
// still bounded by CPU count, the pool cap and the number of candidates.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithTrend sets the deterministic trend specification passed to each
// candidate fit.
func WithTrend(trend string) Option {
	return func(e *Engine) { e.trend = trend }
}

// WithLogger attaches a structured logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithFitObserver registers a callback invoked once per completed candidate
// fit. The callback must be safe for concurrent use.
func WithFitObserver(fn func(Fit)) Option {
	return func(e *Engine) { e.observe = fn }
}

// NewEngine validates the criterion and limits up front so a misconfigured
// search fails before any fitting work starts.
func NewEngine(limits Limits, criterion string, opts ...Option) (*Engine, error) {
	if err := ValidateCriterion(criterion); err != nil {
		return nil, err
	}
	if err := limits.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		limits:      limits,
		criterion:   criterion,
		parallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Search fits every candidate order against y (and optional exogenous
// regressors) and returns the order with the lowest criterion score along
// with that score. Ties resolve to the candidate generated first.
func (e *Engine) Search(ctx context.Context, y []float64, exog [][]float64) (models.Order, float64, error) {
	// A trend term needs the exogenous regression stage; without regressors
	// every candidate would fail identically, so reject before dispatch.
	if e.trend != "" && e.trend != arima.TrendNone && exog == nil {
		return models.Order{}, 0, arima.ErrTrendWithoutExog
	}
	orders, err := GenerateOrders(e.limits)
	if err != nil {
		return models.Order{}, 0, err
	}

	started := time.Now()
	fits := e.fitAll(ctx, y, exog, orders)
	if err := ctx.Err(); err != nil {
		return models.Order{}, 0, err
	}

	best := -1
	for i, f := range fits {
		if f.Infeasible {
			continue
		}
		if best < 0 || f.Score < fits[best].Score {
			best = i
		}
	}
	if best < 0 {
		return models.Order{}, 0, ErrNoFeasibleOrder
	}

	if e.log != nil {
		e.log.Info("order search finished",
			logger.String("best_order", fits[best].Order.String()),
			logger.Any("score", fits[best].Score),
			logger.String("criterion", e.criterion),
			logger.Int("candidates", len(orders)),
			logger.Duration("elapsed", time.Since(started)))
	}
	return fits[best].Order, fits[best].Score, nil
}

// fitAll distributes the candidates over contiguous chunks, one per worker,
// and collects fits back into generation order. Cancellation is observed
// between candidates; a fit already in flight runs to completion.
func (e *Engine) fitAll(ctx context.Context, y []float64, exog [][]float64, orders []models.Order) []Fit {
	fits := make([]Fit, len(orders))

	workers := e.parallelism
	if n := runtime.NumCPU(); workers > n {
		workers = n
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > len(orders) {
		workers = len(orders)
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (len(orders) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(orders) {
			hi = len(orders)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				select {
				case <-ctx.Done():
					for ; i < hi; i++ {
						fits[i] = Fit{Order: orders[i], Score: math.Inf(1), Infeasible: true}
					}
					return
				default:
				}
				fits[i] = evaluate(y, exog, orders[i], e.trend, e.criterion)
				if e.observe != nil {
					e.observe(fits[i])
				}
			}
		}(lo, hi)
	}
	wg.Wait()
	return fits
}
