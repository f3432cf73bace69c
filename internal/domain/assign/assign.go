// Package assign distributes segmented accounts across reps with a greedy
// load-balancing pass.
//
// The algorithm, per segment:
//  1. Sort the segment's accounts by descending base load (stable, so ties keep
//     input order)
//  2. For each account, place it with the rep whose projected total
//     (current total + final load for that rep) is smallest; the first rep in
//     roster order wins ties
//
// The result is deterministic for identical inputs, including roster order.
// It is not globally optimal.
package assign

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/domain/segment"
)

// Assign segments accounts by threshold and balances each segment across the
// reps of that segment. It returns one bucket per rep in roster order; reps
// that received nothing are present with zero totals.
//
// Inputs are not modified.
func Assign(accounts []model.AccountWithBaseLoad, threshold int, reps []model.Rep, w scoring.Weights) ([]model.RepLoad, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	buckets := make([]*model.RepLoad, len(reps))
	byName := make(map[string]*model.RepLoad, len(reps))
	for i, r := range reps {
		if !r.Segment.Valid() {
			return nil, fmt.Errorf("%w: rep %q has segment %q", ErrUnknownSegment, r.Name, r.Segment)
		}
		if _, dup := byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRep, r.Name)
		}
		buckets[i] = model.NewRepLoad(r)
		byName[r.Name] = buckets[i]
	}

	parts := segment.Split(segment.Apply(accounts, threshold))
	for _, s := range model.Segments {
		segAccounts := parts[s]
		if len(segAccounts) == 0 {
			continue
		}
		segReps := segment.Reps(reps, s)
		if len(segReps) == 0 {
			return nil, fmt.Errorf("%w for segment %s (%d accounts)", ErrNoReps, s, len(segAccounts))
		}
		if err := balance(segAccounts, segReps, byName, w); err != nil {
			return nil, err
		}
	}

	out := make([]model.RepLoad, len(buckets))
	for i, b := range buckets {
		out[i] = *b
	}
	return out, nil
}

// balance runs the greedy pass for one segment. byName is scratch lookup
// into the caller's ordered buckets.
func balance(accounts []model.SegmentedAccount, reps []model.Rep, byName map[string]*model.RepLoad, w scoring.Weights) error {
	sorted := make([]model.SegmentedAccount, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BaseLoad > sorted[j].BaseLoad
	})

	for _, a := range sorted {
		if math.IsNaN(a.BaseLoad) || math.IsInf(a.BaseLoad, 0) {
			return fmt.Errorf("%w: account %q base load", scoring.ErrNonFinite, a.ID)
		}
		best := -1
		bestTotal := math.Inf(1)
		bestLoad := 0.0
		for i, rep := range reps {
			load := scoring.FinalLoad(a.AccountWithBaseLoad, rep, w)
			if total := byName[rep.Name].TotalLoad + load; total < bestTotal {
				best, bestTotal, bestLoad = i, total, load
			}
		}
		rep := reps[best]
		byName[rep.Name].Add(model.AssignedAccount{
			SegmentedAccount: a,
			Load:             bestLoad,
			AssignedRep:      rep.Name,
		})
	}
	return nil
}

// Flatten lists every assigned account, grouped by rep in bucket order.
func Flatten(loads []model.RepLoad) []model.AssignedAccount {
	n := 0
	for _, l := range loads {
		n += len(l.Accounts)
	}
	out := make([]model.AssignedAccount, 0, n)
	for _, l := range loads {
		out = append(out, l.Accounts...)
	}
	return out
}
