// Package model contains domain models passed between layers.
package model

// Account is one business account as delivered by the data feed.
// Fields mirror the Accounts sheet columns.
type Account struct {
	ID         string  `json:"account_id"`   // Account_ID
	Name       string  `json:"account_name"` // Account_Name
	CurrentRep string  `json:"current_rep"`  // informational only
	ARR        float64 `json:"arr"`          // annual recurring revenue
	Location   string  `json:"location"`
	Employees  int     `json:"num_employees"`
	Marketers  int     `json:"num_marketers"`
	RiskScore  float64 `json:"risk_score"`
}

// Rep is a sales representative. Name is the unique key within a roster.
type Rep struct {
	Name     string  `json:"rep_name"`
	Location string  `json:"location"`
	Segment  Segment `json:"segment"`
}

// InLocation reports whether the account sits in the given location.
func (a Account) InLocation(location string) bool {
	return a.Location == location
}
