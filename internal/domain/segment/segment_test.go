package segment_test

import (
	"strconv"
	"testing"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/segment"
	. "github.com/smartystreets/goconvey/convey"
)

func batch(employees ...int) []model.AccountWithBaseLoad {
	out := make([]model.AccountWithBaseLoad, len(employees))
	for i, e := range employees {
		out[i] = model.AccountWithBaseLoad{
			Account:  model.Account{ID: string(rune('a' + i)), Employees: e, ARR: float64((i + 1) * 100)},
			BaseLoad: float64(i) / 10,
		}
	}
	return out
}

func TestOf(t *testing.T) {
	Convey("Given a threshold of 1000 employees", t, func() {
		Convey("Then the boundary should be inclusive on the Enterprise side", func() {
			So(segment.Of(model.Account{Employees: 1000}, 1000), ShouldEqual, model.SegmentEnterprise)
			So(segment.Of(model.Account{Employees: 999}, 1000), ShouldEqual, model.SegmentMidMarket)
			So(segment.Of(model.Account{Employees: 0}, 1000), ShouldEqual, model.SegmentMidMarket)
		})
	})
}

func TestApplyAndSplit(t *testing.T) {
	Convey("Given a batch of accounts with base loads", t, func() {
		accounts := batch(10, 5000, 999, 1000, 200000)

		for _, threshold := range []int{0, 1000, 5000, 200001} {
			segmented := segment.Apply(accounts, threshold)
			parts := segment.Split(segmented)

			Convey("Then every account lands in exactly one segment for threshold "+strconv.Itoa(threshold), func() {
				So(len(parts[model.SegmentEnterprise])+len(parts[model.SegmentMidMarket]), ShouldEqual, len(accounts))
				seen := map[string]int{}
				for _, s := range model.Segments {
					for _, a := range parts[s] {
						seen[a.ID]++
						So(a.Segment, ShouldEqual, s)
					}
				}
				for _, a := range accounts {
					So(seen[a.ID], ShouldEqual, 1)
				}
			})

			Convey("And base loads should be untouched for threshold "+strconv.Itoa(threshold), func() {
				for i, a := range segmented {
					So(a.BaseLoad, ShouldEqual, accounts[i].BaseLoad)
				}
			})
		}
	})
}

func TestReps(t *testing.T) {
	Convey("Given a mixed roster", t, func() {
		reps := []model.Rep{
			{Name: "A", Segment: model.SegmentEnterprise},
			{Name: "B", Segment: model.SegmentMidMarket},
			{Name: "C", Segment: model.SegmentEnterprise},
		}

		Convey("Then filtering should keep roster order", func() {
			ent := segment.Reps(reps, model.SegmentEnterprise)
			So(len(ent), ShouldEqual, 2)
			So(ent[0].Name, ShouldEqual, "A")
			So(ent[1].Name, ShouldEqual, "C")
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given four accounts split 1/3 at threshold 1000", t, func() {
		segmented := segment.Apply(batch(10, 20, 30, 5000), 1000)
		sums := segment.Summarize(segmented)

		Convey("Then the summary should be in reporting order with totals", func() {
			So(len(sums), ShouldEqual, 2)
			So(sums[0].Segment, ShouldEqual, model.SegmentEnterprise)
			So(sums[0].Accounts, ShouldEqual, 1)
			So(sums[0].TotalARR, ShouldEqual, 400)
			So(sums[0].AccountShare, ShouldEqual, 25)
			So(sums[1].Accounts, ShouldEqual, 3)
			So(sums[1].TotalARR, ShouldEqual, 600)
			So(sums[1].AverageARR, ShouldEqual, 200)
		})
	})

	Convey("Given no accounts", t, func() {
		sums := segment.Summarize(nil)

		Convey("Then both segments should be present with zero values", func() {
			So(len(sums), ShouldEqual, 2)
			So(sums[0].AverageARR, ShouldEqual, 0)
			So(sums[1].AccountShare, ShouldEqual, 0)
		})
	})
}
