package scoring

import (
	"math"

	"github.com/okian/territory/internal/domain/model"
)

// degenerateNormalized is returned when a field is constant across the batch.
const degenerateNormalized = 0.5

// Field extracts one numeric facet from an account.
type Field func(model.Account) float64

// Numeric facets that take part in the base load.
var (
	FieldARR       Field = func(a model.Account) float64 { return a.ARR }
	FieldEmployees Field = func(a model.Account) float64 { return float64(a.Employees) }
	FieldMarketers Field = func(a model.Account) float64 { return float64(a.Marketers) }
	FieldRisk      Field = func(a model.Account) float64 { return a.RiskScore }
)

// Bounds holds the batch minimum and maximum of one field.
type Bounds struct {
	Min float64
	Max float64
}

// BoundsOf scans the batch once. ok is false for an empty batch, where the
// bounds are undefined.
func BoundsOf(accounts []model.Account, field Field) (b Bounds, ok bool) {
	if len(accounts) == 0 {
		return Bounds{}, false
	}
	b = Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, a := range accounts {
		v := field(a)
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b, true
}

// Normalize maps v onto [0,1]. A constant field maps to 0.5 so no account is
// biased toward either end.
func (b Bounds) Normalize(v float64) float64 {
	if b.Max == b.Min {
		return degenerateNormalized
	}
	return (v - b.Min) / (b.Max - b.Min)
}

// Normalize returns the normalized value of field for every account, in input
// order. An empty batch yields an empty slice.
func Normalize(accounts []model.Account, field Field) []float64 {
	out := make([]float64, len(accounts))
	b, ok := BoundsOf(accounts, field)
	if !ok {
		return out
	}
	for i, a := range accounts {
		out[i] = b.Normalize(field(a))
	}
	return out
}

// Normalizer caches the bounds of every load facet for one batch.
type Normalizer struct {
	ARR       Bounds
	Employees Bounds
	Marketers Bounds
	Risk      Bounds
}

// NewNormalizer computes all bounds in a single pass per field.
func NewNormalizer(accounts []model.Account) (Normalizer, bool) {
	var n Normalizer
	var ok bool
	if n.ARR, ok = BoundsOf(accounts, FieldARR); !ok {
		return Normalizer{}, false
	}
	n.Employees, _ = BoundsOf(accounts, FieldEmployees)
	n.Marketers, _ = BoundsOf(accounts, FieldMarketers)
	n.Risk, _ = BoundsOf(accounts, FieldRisk)
	return n, true
}
