package scoring

import (
	"fmt"
	"math"
)

// Default weight constants.
const (
	defaultARRWeight       = 0.45
	defaultEmployeesWeight = 0.2
	defaultMarketersWeight = 0.1
	defaultRiskWeight      = 0.2
	defaultLocationWeight  = 0.05

	weightSumTolerance = 1e-9
)

// Weights are the coefficients of the composite load. They should sum to 1 so
// loads stay in a predictable range, but this is not enforced: comparisons
// between reps stay valid because every candidate shares the same vector.
type Weights struct {
	ARR       float64 `koanf:"arr" json:"arr"`
	Employees float64 `koanf:"employees" json:"employees"`
	Marketers float64 `koanf:"marketers" json:"marketers"`
	Risk      float64 `koanf:"risk" json:"risk"`
	Location  float64 `koanf:"location" json:"location"`
}

// DefaultWeights returns {arr:0.45, employees:0.2, marketers:0.1, risk:0.2, location:0.05}.
func DefaultWeights() Weights {
	return Weights{
		ARR:       defaultARRWeight,
		Employees: defaultEmployeesWeight,
		Marketers: defaultMarketersWeight,
		Risk:      defaultRiskWeight,
		Location:  defaultLocationWeight,
	}
}

// Sum returns the total of all five coefficients.
func (w Weights) Sum() float64 {
	return w.ARR + w.Employees + w.Marketers + w.Risk + w.Location
}

// Normalized reports whether the coefficients sum to 1.
func (w Weights) Normalized() bool {
	return math.Abs(w.Sum()-1) <= weightSumTolerance
}

// Validate rejects negative or non-finite coefficients.
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"arr", w.ARR},
		{"employees", w.Employees},
		{"marketers", w.Marketers},
		{"risk", w.Risk},
		{"location", w.Location},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%w: %s weight is not finite", ErrInvalidWeights, n.name)
		}
		if n.value < 0 {
			return fmt.Errorf("%w: %s weight must be >= 0, got %g", ErrInvalidWeights, n.name, n.value)
		}
	}
	return nil
}
