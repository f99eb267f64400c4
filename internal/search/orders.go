// Package search performs a combinatorial model order search: every (p,d,q)
// candidate up to configured maxima, optionally crossed with seasonal
// (P,D,Q) terms, is fitted in parallel and scored by an information
// criterion; the best-scoring order wins.
package search

import (
	"errors"
	"fmt"

	"Condor/internal/domain/models"
)

// Limits bounds the candidate grid. Seasonal terms are included only when
// at least one seasonal maximum is positive, and then require a period.
type Limits struct {
	MaxP int
	MaxD int
	MaxQ int

	MaxSeasonalP int
	MaxSeasonalD int
	MaxSeasonalQ int
	Period       int
}

var errSeasonalWithoutPeriod = errors.New(
	"search: seasonal order limits require a positive period")

func (l Limits) seasonal() bool {
	return l.MaxSeasonalP > 0 || l.MaxSeasonalD > 0 || l.MaxSeasonalQ > 0
}

func (l Limits) validate() error {
	if l.MaxP < 0 || l.MaxD < 0 || l.MaxQ < 0 ||
		l.MaxSeasonalP < 0 || l.MaxSeasonalD < 0 || l.MaxSeasonalQ < 0 {
		return fmt.Errorf("search: order limits must be non-negative: %+v", l)
	}
	if l.seasonal() && l.Period <= 0 {
		return errSeasonalWithoutPeriod
	}
	return nil
}

// GenerateOrders enumerates the full Cartesian candidate grid in a fixed
// lexicographic order: q fastest, then d, then p, with seasonal components
// cycling outside the regular ones. The enumeration order is significant
// because score ties resolve to the earliest candidate.
func GenerateOrders(l Limits) ([]models.Order, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	var orders []models.Order
	emit := func(seasonal *models.SeasonalOrder) {
		for p := 0; p <= l.MaxP; p++ {
			for d := 0; d <= l.MaxD; d++ {
				for q := 0; q <= l.MaxQ; q++ {
					o := models.Order{P: p, D: d, Q: q}
					if seasonal != nil {
						s := *seasonal
						o.Seasonal = &s
					}
					orders = append(orders, o)
				}
			}
		}
	}

	if !l.seasonal() {
		emit(nil)
		return orders, nil
	}
	for sp := 0; sp <= l.MaxSeasonalP; sp++ {
		for sd := 0; sd <= l.MaxSeasonalD; sd++ {
			for sq := 0; sq <= l.MaxSeasonalQ; sq++ {
				emit(&models.SeasonalOrder{P: sp, D: sd, Q: sq, Period: l.Period})
			}
		}
	}
	return orders, nil
}
