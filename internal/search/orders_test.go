package search

import (
	"testing"

	"Condor/internal/domain/models"
)

func TestGenerateOrdersEnumeration(t *testing.T) {
	orders, err := GenerateOrders(Limits{MaxP: 1, MaxD: 0, MaxQ: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.Order{
		{P: 0, D: 0, Q: 0},
		{P: 0, D: 0, Q: 1},
		{P: 1, D: 0, Q: 0},
		{P: 1, D: 0, Q: 1},
	}
	if len(orders) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(orders))
	}
	for i := range want {
		if orders[i].P != want[i].P || orders[i].D != want[i].D || orders[i].Q != want[i].Q {
			t.Fatalf("candidate %d: got %s want %s", i, orders[i], want[i])
		}
		if orders[i].Seasonal != nil {
			t.Fatalf("candidate %d carries a seasonal component", i)
		}
	}
}

func TestGenerateOrdersSeasonalGrid(t *testing.T) {
	orders, err := GenerateOrders(Limits{
		MaxP: 1, MaxQ: 1,
		MaxSeasonalP: 1, Period: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 seasonal AR choices times the 4 regular candidates.
	if len(orders) != 8 {
		t.Fatalf("expected 8 candidates, got %d", len(orders))
	}
	// Seasonal components cycle outside the regular ones.
	for i := 0; i < 4; i++ {
		if orders[i].Seasonal == nil || orders[i].Seasonal.P != 0 {
			t.Fatalf("candidate %d: expected seasonal P=0, got %+v", i, orders[i].Seasonal)
		}
	}
	for i := 4; i < 8; i++ {
		if orders[i].Seasonal == nil || orders[i].Seasonal.P != 1 {
			t.Fatalf("candidate %d: expected seasonal P=1, got %+v", i, orders[i].Seasonal)
		}
		if orders[i].Seasonal.Period != 7 {
			t.Fatalf("candidate %d: expected period 7, got %d", i, orders[i].Seasonal.Period)
		}
	}
}

func TestGenerateOrdersSeasonalWithoutPeriod(t *testing.T) {
	if _, err := GenerateOrders(Limits{MaxP: 1, MaxSeasonalQ: 1}); err != errSeasonalWithoutPeriod {
		t.Fatalf("expected errSeasonalWithoutPeriod, got %v", err)
	}
}

func TestGenerateOrdersNegativeLimits(t *testing.T) {
	if _, err := GenerateOrders(Limits{MaxP: -1}); err == nil {
		t.Fatalf("expected error for negative limits")
	}
}

func TestValidateCriterion(t *testing.T) {
	if err := ValidateCriterion(CriterionAIC); err != nil {
		t.Fatalf("aic must validate: %v", err)
	}
	if err := ValidateCriterion(CriterionBIC); err != nil {
		t.Fatalf("bic must validate: %v", err)
	}
	if err := ValidateCriterion("hqic"); err == nil {
		t.Fatalf("expected error for unknown criterion")
	}
}

func TestRoundSignificant(t *testing.T) {
	if got := roundSignificant(123.456789, 5); got != 123.46 {
		t.Fatalf("expected 123.46, got %v", got)
	}
	if got := roundSignificant(0.0012345678, 5); got != 0.0012346 {
		t.Fatalf("expected 0.0012346, got %v", got)
	}
	if got := roundSignificant(0, 5); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
