package amortization

import "fmt"

// DiscountCurve maps time step to the discount factor bringing that step's
// loss back to present value. Curves are injected through the calculation
// inputs and never mutated by the engine.
type DiscountCurve map[int]float64

// FactorAt returns the discount factor for a 1-based time step. An empty curve
// means the run is undiscounted and every factor is 1.0. A non-empty curve
// missing a required step is a configuration error: silently assuming 1.0
// there would understate no loss but would hide a broken curve.
func (c DiscountCurve) FactorAt(timeStep int) (float64, error) {
	if len(c) == 0 {
		return 1.0, nil
	}
	f, ok := c[timeStep]
	if !ok {
		return 0, fmt.Errorf("discount curve has no factor for time step %d", timeStep)
	}
	return f, nil
}
