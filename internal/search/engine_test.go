package search

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"Condor/internal/arima"
)

// searchSeries is a deterministic wavy series with no exact linear or
// autoregressive structure, so candidate fits stay non-degenerate.
func searchSeries(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		x := float64(i)
		values[i] = 100 + 5*math.Sin(0.7*x) + 2*math.Sin(2.3*x) + 0.05*x
	}
	return values
}

func TestNewEngineRejectsBadCriterion(t *testing.T) {
	if _, err := NewEngine(Limits{MaxP: 1}, "hqic"); err == nil {
		t.Fatalf("expected error for unknown criterion")
	}
}

func TestNewEngineRejectsBadLimits(t *testing.T) {
	if _, err := NewEngine(Limits{MaxSeasonalP: 1}, CriterionAIC); err == nil {
		t.Fatalf("expected error for seasonal limits without period")
	}
}

func TestSearchNoFeasibleOrder(t *testing.T) {
	engine, err := NewEngine(Limits{MaxP: 1, MaxD: 1, MaxQ: 1}, CriterionAIC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = engine.Search(context.Background(), []float64{1, 2, 3, 4, 5}, nil)
	if err != ErrNoFeasibleOrder {
		t.Fatalf("expected ErrNoFeasibleOrder, got %v", err)
	}
}

func TestSearchMatchesSequentialMinimum(t *testing.T) {
	limits := Limits{MaxP: 1, MaxD: 1, MaxQ: 1}
	y := searchSeries(60)

	engine, err := NewEngine(limits, CriterionAIC, WithParallelism(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bestOrder, bestScore, err := engine.Search(context.Background(), y, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orders, err := GenerateOrders(limits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIdx := -1
	for i, o := range orders {
		f := evaluate(y, nil, o, "", CriterionAIC)
		if f.Infeasible {
			continue
		}
		if wantIdx < 0 || f.Score < evaluate(y, nil, orders[wantIdx], "", CriterionAIC).Score {
			wantIdx = i
		}
	}
	if wantIdx < 0 {
		t.Fatalf("sequential evaluation found no feasible candidate")
	}

	want := orders[wantIdx]
	if bestOrder.P != want.P || bestOrder.D != want.D || bestOrder.Q != want.Q {
		t.Fatalf("parallel search picked %s, sequential minimum is %s", bestOrder, want)
	}
	wantScore := evaluate(y, nil, want, "", CriterionAIC).Score
	if bestScore != wantScore {
		t.Fatalf("score mismatch: got %v want %v", bestScore, wantScore)
	}
}

func TestSearchSingleWorkerSameResult(t *testing.T) {
	limits := Limits{MaxP: 2, MaxD: 1, MaxQ: 2}
	y := searchSeries(80)

	serial, err := NewEngine(limits, CriterionBIC, WithParallelism(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := NewEngine(limits, CriterionBIC, WithParallelism(8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o1, s1, err := serial.Search(context.Background(), y, nil)
	if err != nil {
		t.Fatalf("serial search failed: %v", err)
	}
	o2, s2, err := parallel.Search(context.Background(), y, nil)
	if err != nil {
		t.Fatalf("parallel search failed: %v", err)
	}
	if o1 != o2 || s1 != s2 {
		t.Fatalf("worker count changed the result: (%s, %v) vs (%s, %v)", o1, s1, o2, s2)
	}
}

func TestSearchObserverSeesEveryCandidate(t *testing.T) {
	limits := Limits{MaxP: 1, MaxD: 1, MaxQ: 1}
	var seen atomic.Int64
	engine, err := NewEngine(limits, CriterionAIC,
		WithFitObserver(func(Fit) { seen.Add(1) }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := engine.Search(context.Background(), searchSeries(60), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orders, _ := GenerateOrders(limits)
	if got := seen.Load(); got != int64(len(orders)) {
		t.Fatalf("observer saw %d fits, want %d", got, len(orders))
	}
}

func TestSearchTrendWithoutExogFailsBeforeDispatch(t *testing.T) {
	var fitted atomic.Int64
	engine, err := NewEngine(Limits{MaxP: 1, MaxQ: 1}, CriterionAIC,
		WithTrend(arima.TrendConstant),
		WithFitObserver(func(Fit) { fitted.Add(1) }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = engine.Search(context.Background(), searchSeries(60), nil)
	if err != arima.ErrTrendWithoutExog {
		t.Fatalf("expected ErrTrendWithoutExog, got %v", err)
	}
	if n := fitted.Load(); n != 0 {
		t.Fatalf("%d candidates were fitted despite the configuration error", n)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	engine, err := NewEngine(Limits{MaxP: 2, MaxD: 1, MaxQ: 2}, CriterionAIC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := engine.Search(ctx, searchSeries(60), nil); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
