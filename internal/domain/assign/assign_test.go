package assign_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/territory/internal/domain/assign"
	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func mustBaseLoads(accounts []model.Account) []model.AccountWithBaseLoad {
	loads, err := scoring.BaseLoads(accounts, scoring.DefaultWeights())
	if err != nil {
		panic(err)
	}
	return loads
}

// sampleBatch builds a deterministic, varied batch.
func sampleBatch(n int) []model.Account {
	locations := []string{"NY", "SF", "ATX"}
	out := make([]model.Account, n)
	for i := range out {
		out[i] = model.Account{
			ID:        fmt.Sprintf("acc-%03d", i),
			Name:      fmt.Sprintf("Account %d", i),
			ARR:       float64((i*7919)%50000 + 1000),
			Location:  locations[i%len(locations)],
			Employees: (i * 3571) % 20000,
			Marketers: (i * 13) % 40,
			RiskScore: float64((i*31)%100) / 10,
		}
	}
	return out
}

func sampleReps() []model.Rep {
	return []model.Rep{
		{Name: "Ada", Location: "NY", Segment: model.SegmentEnterprise},
		{Name: "Bo", Location: "SF", Segment: model.SegmentMidMarket},
		{Name: "Cy", Location: "SF", Segment: model.SegmentEnterprise},
		{Name: "Di", Location: "ATX", Segment: model.SegmentMidMarket},
		{Name: "Ed", Location: "NY", Segment: model.SegmentMidMarket},
	}
}

func TestAssign_Scenario(t *testing.T) {
	Convey("Given two accounts, threshold 20 and one rep per segment", t, func() {
		accounts := mustBaseLoads([]model.Account{
			{ID: "1", ARR: 100, Employees: 10, Marketers: 1, RiskScore: 1, Location: "NY"},
			{ID: "2", ARR: 200, Employees: 50, Marketers: 2, RiskScore: 2, Location: "SF"},
		})
		reps := []model.Rep{
			{Name: "A", Location: "SF", Segment: model.SegmentEnterprise},
			{Name: "B", Location: "NY", Segment: model.SegmentMidMarket},
		}

		Convey("When assigning", func() {
			loads, err := assign.Assign(accounts, 20, reps, scoring.DefaultWeights())
			So(err, ShouldBeNil)
			So(len(loads), ShouldEqual, 2)

			Convey("Then account 2 is Enterprise and goes to A without penalty", func() {
				a := loads[0]
				So(a.Rep.Name, ShouldEqual, "A")
				So(a.AccountCount, ShouldEqual, 1)
				So(a.LocationMatches, ShouldEqual, 1)
				So(a.Accounts[0].ID, ShouldEqual, "2")
				So(a.Accounts[0].Segment, ShouldEqual, model.SegmentEnterprise)
				So(a.Accounts[0].Load, ShouldEqual, a.Accounts[0].BaseLoad)
				So(a.Accounts[0].AssignedRep, ShouldEqual, "A")
			})

			Convey("And account 1 is Mid-Market and goes to B without penalty", func() {
				b := loads[1]
				So(b.Rep.Name, ShouldEqual, "B")
				So(b.AccountCount, ShouldEqual, 1)
				So(b.LocationMatches, ShouldEqual, 1)
				So(b.Accounts[0].ID, ShouldEqual, "1")
				So(b.Accounts[0].Segment, ShouldEqual, model.SegmentMidMarket)
			})
		})
	})
}

func TestAssign_Properties(t *testing.T) {
	Convey("Given a varied batch and a mixed roster", t, func() {
		raw := sampleBatch(120)
		accounts := mustBaseLoads(raw)
		reps := sampleReps()
		repSegment := map[string]model.Segment{}
		for _, r := range reps {
			repSegment[r.Name] = r.Segment
		}

		for _, threshold := range []int{1000, 5000, 15000} {
			loads, err := assign.Assign(accounts, threshold, reps, scoring.DefaultWeights())

			Convey(fmt.Sprintf("Then every account is assigned exactly once at threshold %d", threshold), func() {
				So(err, ShouldBeNil)
				seen := map[string]int{}
				for _, a := range assign.Flatten(loads) {
					seen[a.ID]++
				}
				So(len(seen), ShouldEqual, len(raw))
				for _, a := range raw {
					So(seen[a.ID], ShouldEqual, 1)
				}
			})

			Convey(fmt.Sprintf("And accounts stay within their segment at threshold %d", threshold), func() {
				for _, l := range loads {
					for _, a := range l.Accounts {
						So(a.Segment, ShouldEqual, repSegment[l.Rep.Name])
						So(a.AssignedRep, ShouldEqual, l.Rep.Name)
					}
				}
			})

			Convey(fmt.Sprintf("And bucket totals are conserved at threshold %d", threshold), func() {
				for _, l := range loads {
					var load, arr float64
					matches := 0
					for _, a := range l.Accounts {
						load += a.Load
						arr += a.ARR
						if a.Location == l.Rep.Location {
							matches++
						}
					}
					So(l.TotalLoad, ShouldAlmostEqual, load, 1e-9)
					So(l.TotalARR, ShouldAlmostEqual, arr, 1e-6)
					So(l.AccountCount, ShouldEqual, len(l.Accounts))
					So(l.LocationMatches, ShouldEqual, matches)
				}
			})
		}

		Convey("When running twice with identical inputs", func() {
			first, err1 := assign.Assign(accounts, 5000, reps, scoring.DefaultWeights())
			second, err2 := assign.Assign(accounts, 5000, reps, scoring.DefaultWeights())

			Convey("Then the buckets should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When assigning the inputs should not be mutated", func() {
			before := make([]model.AccountWithBaseLoad, len(accounts))
			copy(before, accounts)
			_, err := assign.Assign(accounts, 5000, reps, scoring.DefaultWeights())
			So(err, ShouldBeNil)
			So(accounts, ShouldResemble, before)
		})
	})
}

func TestAssign_Ordering(t *testing.T) {
	Convey("Given identical accounts and two reps in the same location", t, func() {
		raw := make([]model.Account, 3)
		for i := range raw {
			raw[i] = model.Account{ID: fmt.Sprintf("%d", i), ARR: 10, Employees: 5, Marketers: 1, RiskScore: 1, Location: "NY"}
		}
		accounts := mustBaseLoads(raw)
		reps := []model.Rep{
			{Name: "first", Location: "NY", Segment: model.SegmentMidMarket},
			{Name: "second", Location: "NY", Segment: model.SegmentMidMarket},
		}

		loads, err := assign.Assign(accounts, 1000, reps, scoring.DefaultWeights())
		So(err, ShouldBeNil)

		Convey("Then ties go to the first rep and input order is kept", func() {
			So(loads[0].AccountCount, ShouldEqual, 2)
			So(loads[1].AccountCount, ShouldEqual, 1)
			So(loads[0].Accounts[0].ID, ShouldEqual, "0")
			So(loads[1].Accounts[0].ID, ShouldEqual, "1")
			So(loads[0].Accounts[1].ID, ShouldEqual, "2")
		})
	})

	Convey("Given a heavy local account and a rep elsewhere", t, func() {
		accounts := []model.AccountWithBaseLoad{
			{Account: model.Account{ID: "heavy", Location: "NY"}, BaseLoad: 0.9},
			{Account: model.Account{ID: "light", Location: "SF"}, BaseLoad: 0.1},
		}
		reps := []model.Rep{
			{Name: "sf", Location: "SF", Segment: model.SegmentMidMarket},
			{Name: "ny", Location: "NY", Segment: model.SegmentMidMarket},
		}

		loads, err := assign.Assign(accounts, 1000, reps, scoring.DefaultWeights())
		So(err, ShouldBeNil)

		Convey("Then the heaviest account is placed first on the cheapest rep", func() {
			So(loads[1].Accounts[0].ID, ShouldEqual, "heavy")
			So(loads[1].Accounts[0].Load, ShouldEqual, 0.9)
			So(loads[0].Accounts[0].ID, ShouldEqual, "light")
		})
	})
}

func TestAssign_Errors(t *testing.T) {
	accounts := mustBaseLoads(sampleBatch(10))

	Convey("Given a segment with accounts but no reps", t, func() {
		reps := []model.Rep{{Name: "mm", Location: "NY", Segment: model.SegmentMidMarket}}

		Convey("Then assignment should surface a configuration error", func() {
			_, err := assign.Assign(accounts, 0, reps, scoring.DefaultWeights())
			So(errors.Is(err, assign.ErrNoReps), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "segment Enterprise")
		})
	})

	Convey("Given a segment with neither accounts nor reps", t, func() {
		reps := []model.Rep{{Name: "mm", Location: "NY", Segment: model.SegmentMidMarket}}

		Convey("Then assignment should succeed", func() {
			loads, err := assign.Assign(accounts, math.MaxInt, reps, scoring.DefaultWeights())
			So(err, ShouldBeNil)
			So(loads[0].AccountCount, ShouldEqual, len(accounts))
		})
	})

	Convey("Given a roster with a duplicated name", t, func() {
		reps := []model.Rep{
			{Name: "x", Segment: model.SegmentMidMarket},
			{Name: "x", Segment: model.SegmentEnterprise},
		}

		Convey("Then assignment should reject it", func() {
			_, err := assign.Assign(accounts, 0, reps, scoring.DefaultWeights())
			So(errors.Is(err, assign.ErrDuplicateRep), ShouldBeTrue)
		})
	})

	Convey("Given a rep with an unknown segment", t, func() {
		reps := []model.Rep{{Name: "x", Segment: "SMB"}}

		Convey("Then assignment should reject it", func() {
			_, err := assign.Assign(accounts, 0, reps, scoring.DefaultWeights())
			So(errors.Is(err, assign.ErrUnknownSegment), ShouldBeTrue)
		})
	})

	Convey("Given a NaN base load", t, func() {
		bad := []model.AccountWithBaseLoad{{Account: model.Account{ID: "nan"}, BaseLoad: math.NaN()}}
		reps := []model.Rep{{Name: "x", Segment: model.SegmentMidMarket}}

		Convey("Then assignment should fail fast", func() {
			_, err := assign.Assign(bad, 1000, reps, scoring.DefaultWeights())
			So(errors.Is(err, scoring.ErrNonFinite), ShouldBeTrue)
		})
	})

	Convey("Given no accounts at all", t, func() {
		reps := sampleReps()
		loads, err := assign.Assign(nil, 1000, reps, scoring.DefaultWeights())

		Convey("Then every rep should get an empty bucket", func() {
			So(err, ShouldBeNil)
			So(len(loads), ShouldEqual, len(reps))
			for i, l := range loads {
				So(l.Rep, ShouldResemble, reps[i])
				So(l.Accounts, ShouldNotBeNil)
				So(l.AccountCount, ShouldEqual, 0)
				So(l.TotalLoad, ShouldEqual, 0)
			}
		})
	})
}
