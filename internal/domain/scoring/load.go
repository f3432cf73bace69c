// Package scoring computes the composite load of accounts.
//
// The base load is a weighted sum of four normalized facets (ARR, employees,
// marketers, risk) and is computed once per batch. The final load adds a flat
// location penalty when the account and the candidate rep sit in different
// locations.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/territory/internal/domain/model"
)

// BaseLoads computes the location-independent load of every account. Bounds
// are taken once over the whole batch, so the result must be recomputed when
// the batch or the weights change, and never when only the threshold does.
//
// The input is not modified; the output preserves input order.
func BaseLoads(accounts []model.Account, w Weights) ([]model.AccountWithBaseLoad, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return []model.AccountWithBaseLoad{}, nil
	}
	if err := checkFinite(accounts); err != nil {
		return nil, err
	}

	n, _ := NewNormalizer(accounts)
	out := make([]model.AccountWithBaseLoad, len(accounts))
	for i, a := range accounts {
		out[i] = model.AccountWithBaseLoad{
			Account:  a,
			BaseLoad: n.BaseLoad(a, w),
		}
	}
	return out, nil
}

// BaseLoad applies the weights to the normalized facets of a.
func (n Normalizer) BaseLoad(a model.Account, w Weights) float64 {
	return n.ARR.Normalize(a.ARR)*w.ARR +
		n.Employees.Normalize(float64(a.Employees))*w.Employees +
		n.Marketers.Normalize(float64(a.Marketers))*w.Marketers +
		n.Risk.Normalize(a.RiskScore)*w.Risk
}

// LocationPenalty is all-or-nothing: w.Location when locations differ, else 0.
func LocationPenalty(a model.Account, rep model.Rep, w Weights) float64 {
	if a.InLocation(rep.Location) {
		return 0
	}
	return w.Location
}

// FinalLoad is the load an account carries when placed with rep.
func FinalLoad(a model.AccountWithBaseLoad, rep model.Rep, w Weights) float64 {
	return a.BaseLoad + LocationPenalty(a.Account, rep, w)
}

func checkFinite(accounts []model.Account) error {
	for _, a := range accounts {
		switch {
		case !finite(a.ARR):
			return fmt.Errorf("%w: account %q ARR", ErrNonFinite, a.ID)
		case !finite(a.RiskScore):
			return fmt.Errorf("%w: account %q risk score", ErrNonFinite, a.ID)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
