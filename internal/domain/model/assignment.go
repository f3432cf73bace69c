package model

// AccountWithBaseLoad carries the location-independent load of an account.
// BaseLoad depends on the whole batch (normalization bounds) but never on the
// segmentation threshold.
type AccountWithBaseLoad struct {
	Account
	BaseLoad float64 `json:"base_load"`
}

// SegmentedAccount is an account labelled for one threshold.
type SegmentedAccount struct {
	AccountWithBaseLoad
	Segment Segment `json:"segment"`
}

// AssignedAccount is the final placement of an account.
// Load is BaseLoad plus the location penalty for the chosen rep.
type AssignedAccount struct {
	SegmentedAccount
	Load        float64 `json:"load"`
	AssignedRep string  `json:"assigned_rep"`
}

// RepLoad accumulates everything assigned to one rep during a run.
type RepLoad struct {
	Rep             Rep               `json:"rep"`
	Accounts        []AssignedAccount `json:"accounts"`
	TotalARR        float64           `json:"total_arr"`
	TotalLoad       float64           `json:"total_load"`
	AccountCount    int               `json:"account_count"`
	LocationMatches int               `json:"location_matches"`
}

// NewRepLoad returns an empty bucket for rep.
func NewRepLoad(rep Rep) *RepLoad {
	return &RepLoad{Rep: rep, Accounts: []AssignedAccount{}}
}

// Add commits an assigned account to the bucket and updates running totals.
func (r *RepLoad) Add(a AssignedAccount) {
	r.Accounts = append(r.Accounts, a)
	r.TotalARR += a.ARR
	r.TotalLoad += a.Load
	r.AccountCount++
	if a.InLocation(r.Rep.Location) {
		r.LocationMatches++
	}
}

// AverageARR returns TotalARR/AccountCount, or false when the bucket is empty.
func (r RepLoad) AverageARR() (float64, bool) {
	if r.AccountCount == 0 {
		return 0, false
	}
	return r.TotalARR / float64(r.AccountCount), true
}
