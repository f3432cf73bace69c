// Package stats measures how evenly a run spread work across reps.
package stats

import "math"

const percent = 100

// DistributionStats describes one facet across a set of per-rep totals.
// Variance is the population variance (divide by n).
//
// CoefficientOfVariation and Balance are nil when the mean is zero (or there
// are no values); they are never NaN or Inf.
type DistributionStats struct {
	Count                  int      `json:"count"`
	Mean                   float64  `json:"mean"`
	StdDev                 float64  `json:"std_dev"`
	Variance               float64  `json:"variance"`
	Min                    float64  `json:"min"`
	Max                    float64  `json:"max"`
	CoefficientOfVariation *float64 `json:"coefficient_of_variation"`
	Balance                *float64 `json:"balance"`
}

// Compute returns the dispersion of values.
func Compute(values []float64) DistributionStats {
	n := len(values)
	if n == 0 {
		return DistributionStats{}
	}

	s := DistributionStats{Count: n, Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(n)

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.Variance = sq / float64(n)
	s.StdDev = math.Sqrt(s.Variance)

	if s.Mean != 0 {
		cv := s.StdDev / s.Mean * percent
		balance := percent - cv
		s.CoefficientOfVariation = &cv
		s.Balance = &balance
	}
	return s
}
