package search

import (
	"fmt"
	"math"

	"Condor/internal/arima"
	"Condor/internal/domain/models"
)

// Information criteria accepted by the search.
const (
	CriterionAIC = "aic"
	CriterionBIC = "bic"
)

// Fit is the outcome of fitting a single candidate order. Infeasible
// candidates carry an infinite score and never win the search; fit failures
// are data, not errors, so one pathological candidate cannot abort the run.
type Fit struct {
	Order      models.Order
	Score      float64
	Infeasible bool
}

// ValidateCriterion rejects unknown criterion names. An unknown criterion is
// a configuration error, caught before any fitting work starts.
func ValidateCriterion(criterion string) error {
	switch criterion {
	case CriterionAIC, CriterionBIC:
		return nil
	}
	return fmt.Errorf("search: unknown information criterion %q, want %q or %q",
		criterion, CriterionAIC, CriterionBIC)
}

// evaluate fits one candidate and scores it. Scores are rounded to five
// significant digits so equivalent fits across platforms compare equal.
func evaluate(y []float64, exog [][]float64, order models.Order, trend, criterion string) Fit {
	model, err := arima.Fit(y, exog, order, trend)
	if err != nil {
		return Fit{Order: order, Score: math.Inf(1), Infeasible: true}
	}

	score := model.AIC
	if criterion == CriterionBIC {
		score = model.BIC
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Fit{Order: order, Score: math.Inf(1), Infeasible: true}
	}
	return Fit{Order: order, Score: roundSignificant(score, 5)}
}

// roundSignificant rounds v to the given number of significant digits.
func roundSignificant(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	magnitude := math.Ceil(math.Log10(math.Abs(v)))
	scale := math.Pow(10, float64(digits)-magnitude)
	return math.Round(v*scale) / scale
}
