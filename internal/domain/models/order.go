package models

import "fmt"

// SeasonalOrder is the (P, D, Q) order of the seasonal component at a fixed
// periodicity.
type SeasonalOrder struct {
	P      int
	D      int
	Q      int
	Period int
}

// Order is a candidate ARIMAX model order. Seasonal is nil for plain (p,d,q)
// candidates; consumers branch on the pointer instead of inspecting tuple
// arity.
type Order struct {
	P        int
	D        int
	Q        int
	Seasonal *SeasonalOrder
}

func (o Order) String() string {
	if o.Seasonal != nil {
		return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d,%d)",
			o.P, o.D, o.Q, o.Seasonal.P, o.Seasonal.D, o.Seasonal.Q, o.Seasonal.Period)
	}
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Params returns the number of estimated coefficients implied by the order,
// intercept included.
func (o Order) Params() int {
	n := o.P + o.Q + 1
	if o.Seasonal != nil {
		n += o.Seasonal.P + o.Seasonal.Q
	}
	return n
}
