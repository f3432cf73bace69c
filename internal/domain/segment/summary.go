package segment

import "github.com/okian/territory/internal/domain/model"

const percent = 100

// Summary aggregates one segment of a segmented batch.
type Summary struct {
	Segment      model.Segment `json:"segment"`
	Accounts     int           `json:"accounts"`
	TotalARR     float64       `json:"total_arr"`
	AverageARR   float64       `json:"average_arr"`
	AccountShare float64       `json:"account_share"` // percent of the batch
}

// Summarize returns one Summary per segment in reporting order.
func Summarize(accounts []model.SegmentedAccount) []Summary {
	bySeg := make(map[model.Segment]*Summary, len(model.Segments))
	out := make([]Summary, len(model.Segments))
	for i, s := range model.Segments {
		out[i].Segment = s
		bySeg[s] = &out[i]
	}
	for _, a := range accounts {
		sum, ok := bySeg[a.Segment]
		if !ok {
			continue
		}
		sum.Accounts++
		sum.TotalARR += a.ARR
	}
	total := len(accounts)
	for i := range out {
		if out[i].Accounts > 0 {
			out[i].AverageARR = out[i].TotalARR / float64(out[i].Accounts)
		}
		if total > 0 {
			out[i].AccountShare = float64(out[i].Accounts) / float64(total) * percent
		}
	}
	return out
}
