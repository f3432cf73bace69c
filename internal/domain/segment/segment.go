// Package segment splits accounts into Enterprise and Mid-Market by an
// employee-count threshold.
package segment

import (
	"github.com/okian/territory/internal/domain/model"
)

// Of returns Enterprise iff employees >= threshold; the boundary is inclusive
// on the Enterprise side.
func Of(a model.Account, threshold int) model.Segment {
	if a.Employees >= threshold {
		return model.SegmentEnterprise
	}
	return model.SegmentMidMarket
}

// Apply labels every account for threshold in O(n). Base loads are carried
// through untouched.
func Apply(accounts []model.AccountWithBaseLoad, threshold int) []model.SegmentedAccount {
	out := make([]model.SegmentedAccount, len(accounts))
	for i, a := range accounts {
		out[i] = model.SegmentedAccount{
			AccountWithBaseLoad: a,
			Segment:             Of(a.Account, threshold),
		}
	}
	return out
}

// Split partitions segmented accounts by segment, preserving input order
// within each segment.
func Split(accounts []model.SegmentedAccount) map[model.Segment][]model.SegmentedAccount {
	out := make(map[model.Segment][]model.SegmentedAccount, len(model.Segments))
	for _, s := range model.Segments {
		out[s] = []model.SegmentedAccount{}
	}
	for _, a := range accounts {
		out[a.Segment] = append(out[a.Segment], a)
	}
	return out
}

// Reps filters the roster to one segment, preserving roster order.
func Reps(reps []model.Rep, s model.Segment) []model.Rep {
	out := make([]model.Rep, 0, len(reps))
	for _, r := range reps {
		if r.Segment == s {
			out = append(out, r)
		}
	}
	return out
}
