package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/territory/internal/domain/model"
	scoring "github.com/okian/territory/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func twoAccounts() []model.Account {
	return []model.Account{
		{ID: "1", ARR: 100, Employees: 10, Marketers: 1, RiskScore: 1, Location: "NY"},
		{ID: "2", ARR: 200, Employees: 50, Marketers: 2, RiskScore: 2, Location: "SF"},
	}
}

func TestNormalize(t *testing.T) {
	Convey("Given a batch with distinct ARR values", t, func() {
		accounts := []model.Account{{ARR: 50}, {ARR: 10}, {ARR: 30}, {ARR: 90}}

		Convey("When normalizing ARR", func() {
			got := scoring.Normalize(accounts, scoring.FieldARR)

			Convey("Then every value should lie in [0,1]", func() {
				for _, v := range got {
					So(v, ShouldBeBetweenOrEqual, 0, 1)
				}
			})

			Convey("And the batch min maps to 0 and the max to 1", func() {
				So(got[1], ShouldEqual, 0)
				So(got[3], ShouldEqual, 1)
				So(got[0], ShouldEqual, 0.5)
			})
		})
	})

	Convey("Given a batch where a field is constant", t, func() {
		accounts := []model.Account{{Employees: 7}, {Employees: 7}}

		Convey("Then every account should normalize to 0.5", func() {
			So(scoring.Normalize(accounts, scoring.FieldEmployees), ShouldResemble, []float64{0.5, 0.5})
		})
	})

	Convey("Given a single account", t, func() {
		Convey("Then it should normalize to 0.5", func() {
			So(scoring.Normalize([]model.Account{{RiskScore: 3}}, scoring.FieldRisk), ShouldResemble, []float64{0.5})
		})
	})

	Convey("Given an empty batch", t, func() {
		Convey("Then normalization should return an empty slice", func() {
			So(scoring.Normalize(nil, scoring.FieldARR), ShouldBeEmpty)
			_, ok := scoring.BoundsOf(nil, scoring.FieldARR)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestWeights(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := scoring.DefaultWeights()

		Convey("Then they should match the documented defaults and sum to 1", func() {
			So(w, ShouldResemble, scoring.Weights{ARR: 0.45, Employees: 0.2, Marketers: 0.1, Risk: 0.2, Location: 0.05})
			So(w.Normalized(), ShouldBeTrue)
			So(w.Validate(), ShouldBeNil)
		})
	})

	Convey("Given weights with a negative coefficient", t, func() {
		w := scoring.DefaultWeights()
		w.Risk = -0.1

		Convey("Then validation should fail with ErrInvalidWeights", func() {
			err := w.Validate()
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "risk")
		})
	})

	Convey("Given weights that do not sum to 1", t, func() {
		w := scoring.Weights{ARR: 1, Employees: 1, Marketers: 1, Risk: 1, Location: 1}

		Convey("Then they should still validate", func() {
			So(w.Validate(), ShouldBeNil)
			So(w.Normalized(), ShouldBeFalse)
			So(w.Sum(), ShouldEqual, 5)
		})
	})

	Convey("Given a NaN coefficient", t, func() {
		w := scoring.DefaultWeights()
		w.ARR = math.NaN()

		Convey("Then validation should fail", func() {
			So(errors.Is(w.Validate(), scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})
}

func TestBaseLoads(t *testing.T) {
	Convey("Given two accounts and default weights", t, func() {
		accounts := twoAccounts()
		w := scoring.DefaultWeights()

		Convey("When computing base loads", func() {
			loads, err := scoring.BaseLoads(accounts, w)
			So(err, ShouldBeNil)

			Convey("Then the smaller account should carry zero load", func() {
				So(loads[0].BaseLoad, ShouldEqual, 0)
			})

			Convey("And the larger account should carry the non-location weights", func() {
				So(loads[1].BaseLoad, ShouldAlmostEqual, 0.95, 1e-12)
			})

			Convey("And the inputs should be carried over unchanged in order", func() {
				So(loads[0].Account, ShouldResemble, accounts[0])
				So(loads[1].Account, ShouldResemble, accounts[1])
			})
		})

		Convey("When a weight is scaled the loads should scale with it", func() {
			doubled := scoring.Weights{ARR: 0.9, Employees: 0.4, Marketers: 0.2, Risk: 0.4, Location: 0.1}
			loads, err := scoring.BaseLoads(accounts, doubled)
			So(err, ShouldBeNil)
			So(loads[1].BaseLoad, ShouldAlmostEqual, 1.9, 1e-12)
		})
	})

	Convey("Given an empty batch", t, func() {
		loads, err := scoring.BaseLoads(nil, scoring.DefaultWeights())

		Convey("Then it should return an empty result without NaNs", func() {
			So(err, ShouldBeNil)
			So(loads, ShouldNotBeNil)
			So(loads, ShouldBeEmpty)
		})
	})

	Convey("Given an account with a NaN ARR", t, func() {
		accounts := twoAccounts()
		accounts[1].ARR = math.NaN()

		Convey("Then scoring should fail fast", func() {
			_, err := scoring.BaseLoads(accounts, scoring.DefaultWeights())
			So(errors.Is(err, scoring.ErrNonFinite), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"2"`)
		})
	})

	Convey("Given invalid weights", t, func() {
		Convey("Then scoring should refuse them", func() {
			_, err := scoring.BaseLoads(twoAccounts(), scoring.Weights{ARR: -1})
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})
}

func TestFinalLoad(t *testing.T) {
	Convey("Given an account in NY with base load 0.4", t, func() {
		a := model.AccountWithBaseLoad{Account: model.Account{Location: "NY"}, BaseLoad: 0.4}
		w := scoring.DefaultWeights()

		Convey("When the rep is also in NY", func() {
			Convey("Then no penalty applies", func() {
				So(scoring.FinalLoad(a, model.Rep{Location: "NY"}, w), ShouldEqual, 0.4)
			})
		})

		Convey("When the rep is elsewhere", func() {
			Convey("Then the flat location weight is added", func() {
				So(scoring.FinalLoad(a, model.Rep{Location: "SF"}, w), ShouldAlmostEqual, 0.45, 1e-12)
				So(scoring.LocationPenalty(a.Account, model.Rep{Location: "SF"}, w), ShouldEqual, 0.05)
			})
		})
	})
}
