package stats

import "github.com/okian/territory/internal/domain/model"

// LocationMatchRate is matches/accounts*100 across buckets, or 0 when the
// buckets hold no accounts.
func LocationMatchRate(loads []model.RepLoad) float64 {
	var accounts, matches int
	for _, l := range loads {
		accounts += l.AccountCount
		matches += l.LocationMatches
	}
	if accounts == 0 {
		return 0
	}
	return float64(matches) / float64(accounts) * percent
}

// Group is the statistics of a set of buckets (one segment or all reps).
type Group struct {
	Reps              int                         `json:"reps"`
	Accounts          int                         `json:"accounts"`
	Facets            map[Facet]DistributionStats `json:"facets"`
	LocationMatchRate float64                     `json:"location_match_rate"`
}

// SegmentGroup is a Group labelled with its segment.
type SegmentGroup struct {
	Segment model.Segment `json:"segment"`
	Group
}

// Report holds per-segment groups in reporting order plus the overall group.
type Report struct {
	Segments []SegmentGroup `json:"segments"`
	Overall  Group          `json:"overall"`
}

// Build computes the report. Segments are filtered by the rep's segment, so
// each segment is measured independently.
func Build(loads []model.RepLoad) Report {
	r := Report{Segments: make([]SegmentGroup, len(model.Segments))}
	for i, s := range model.Segments {
		r.Segments[i] = SegmentGroup{Segment: s, Group: group(bySegment(loads, s))}
	}
	r.Overall = group(loads)
	return r
}

// Segment returns the group for s.
func (r Report) Segment(s model.Segment) (Group, bool) {
	for _, g := range r.Segments {
		if g.Segment == s {
			return g.Group, true
		}
	}
	return Group{}, false
}

func group(loads []model.RepLoad) Group {
	g := Group{
		Reps:              len(loads),
		Facets:            make(map[Facet]DistributionStats, len(Facets)),
		LocationMatchRate: LocationMatchRate(loads),
	}
	for _, l := range loads {
		g.Accounts += l.AccountCount
	}
	for _, f := range Facets {
		g.Facets[f] = Compute(f.Values(loads))
	}
	return g
}

func bySegment(loads []model.RepLoad, s model.Segment) []model.RepLoad {
	out := make([]model.RepLoad, 0, len(loads))
	for _, l := range loads {
		if l.Rep.Segment == s {
			out = append(out, l)
		}
	}
	return out
}

// RepSummary is one row of the rep summary table.
type RepSummary struct {
	Name                 string        `json:"name"`
	Location             string        `json:"location"`
	Segment              model.Segment `json:"segment"`
	Accounts             int           `json:"accounts"`
	TotalARR             float64       `json:"total_arr"`
	AverageARR           *float64      `json:"average_arr"`
	TotalLoad            float64       `json:"total_load"`
	LocationMatches      int           `json:"location_matches"`
	LocationMatchPercent float64       `json:"location_match_percent"`
}

// Summaries returns one row per bucket in bucket order.
func Summaries(loads []model.RepLoad) []RepSummary {
	out := make([]RepSummary, len(loads))
	for i, l := range loads {
		row := RepSummary{
			Name:            l.Rep.Name,
			Location:        l.Rep.Location,
			Segment:         l.Rep.Segment,
			Accounts:        l.AccountCount,
			TotalARR:        l.TotalARR,
			TotalLoad:       l.TotalLoad,
			LocationMatches: l.LocationMatches,
		}
		if avg, ok := l.AverageARR(); ok {
			row.AverageARR = &avg
			row.LocationMatchPercent = float64(l.LocationMatches) / float64(l.AccountCount) * percent
		}
		out[i] = row
	}
	return out
}
