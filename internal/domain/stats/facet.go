package stats

import "github.com/okian/territory/internal/domain/model"

// Facet names one per-rep total that can be compared across reps.
type Facet string

const (
	FacetARR             Facet = "arr"
	FacetLoad            Facet = "load"
	FacetEmployees       Facet = "employees"
	FacetMarketers       Facet = "marketers"
	FacetRisk            Facet = "risk"
	FacetAccounts        Facet = "accounts"
	FacetLocationMatches Facet = "locationMatches"
)

// Facets lists every facet in reporting order.
var Facets = []Facet{
	FacetARR,
	FacetLoad,
	FacetEmployees,
	FacetMarketers,
	FacetRisk,
	FacetAccounts,
	FacetLocationMatches,
}

// ParseFacet validates a facet name.
func ParseFacet(s string) (Facet, bool) {
	for _, f := range Facets {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Value extracts the facet total from one bucket. Risk is the average risk of
// the bucket and locationMatches the match ratio; both are 0 for an empty
// bucket.
func (f Facet) Value(l model.RepLoad) float64 {
	switch f {
	case FacetARR:
		return l.TotalARR
	case FacetLoad:
		return l.TotalLoad
	case FacetEmployees:
		var sum int
		for _, a := range l.Accounts {
			sum += a.Employees
		}
		return float64(sum)
	case FacetMarketers:
		var sum int
		for _, a := range l.Accounts {
			sum += a.Marketers
		}
		return float64(sum)
	case FacetRisk:
		if l.AccountCount == 0 {
			return 0
		}
		var sum float64
		for _, a := range l.Accounts {
			sum += a.RiskScore
		}
		return sum / float64(l.AccountCount)
	case FacetAccounts:
		return float64(l.AccountCount)
	case FacetLocationMatches:
		if l.AccountCount == 0 {
			return 0
		}
		return float64(l.LocationMatches) / float64(l.AccountCount)
	}
	return 0
}

// Values extracts the facet from every bucket, in bucket order.
func (f Facet) Values(loads []model.RepLoad) []float64 {
	out := make([]float64, len(loads))
	for i, l := range loads {
		out[i] = f.Value(l)
	}
	return out
}
