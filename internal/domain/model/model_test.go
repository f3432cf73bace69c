package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/territory/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseSegment(t *testing.T) {
	convey.Convey("Given segment labels from the source sheets", t, func() {
		convey.Convey("When the label is a known spelling", func() {
			cases := map[string]model.Segment{
				"Enterprise":  model.SegmentEnterprise,
				" enterprise": model.SegmentEnterprise,
				"Mid Market":  model.SegmentMidMarket,
				"Mid-Market":  model.SegmentMidMarket,
				"mid_market":  model.SegmentMidMarket,
				"MIDMARKET":   model.SegmentMidMarket,
			}

			convey.Convey("Then it should map onto the canonical segment", func() {
				for in, want := range cases {
					got, err := model.ParseSegment(in)
					convey.So(err, convey.ShouldBeNil)
					convey.So(got, convey.ShouldEqual, want)
				}
			})
		})

		convey.Convey("When the label is unknown", func() {
			_, err := model.ParseSegment("SMB")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "SMB")
				convey.So(errors.Is(err, model.ErrUnknownSegment), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRepLoad_Add(t *testing.T) {
	convey.Convey("Given an empty bucket for a rep in NY", t, func() {
		bucket := model.NewRepLoad(model.Rep{Name: "A", Location: "NY", Segment: model.SegmentEnterprise})

		convey.Convey("Then it should start with zero totals", func() {
			convey.So(bucket.Accounts, convey.ShouldBeEmpty)
			convey.So(bucket.AccountCount, convey.ShouldEqual, 0)
			_, ok := bucket.AverageARR()
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When adding a local and a remote account", func() {
			local := model.AssignedAccount{Load: 0.5, AssignedRep: "A"}
			local.ARR = 100
			local.Location = "NY"
			remote := model.AssignedAccount{Load: 0.25, AssignedRep: "A"}
			remote.ARR = 300
			remote.Location = "SF"

			bucket.Add(local)
			bucket.Add(remote)

			convey.Convey("Then totals and location matches should accumulate", func() {
				convey.So(bucket.AccountCount, convey.ShouldEqual, 2)
				convey.So(bucket.TotalARR, convey.ShouldEqual, 400)
				convey.So(bucket.TotalLoad, convey.ShouldEqual, 0.75)
				convey.So(bucket.LocationMatches, convey.ShouldEqual, 1)
				avg, ok := bucket.AverageARR()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(avg, convey.ShouldEqual, 200)
			})
		})
	})
}
