package scoring_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/internal/domain/weights"
	. "github.com/smartystreets/goconvey/convey"
)

const day = 24 * time.Hour

var now = time.Date(2025, 4, 6, 12, 0, 0, 0, time.UTC)

func event(item string, kind model.InteractionKind, ts time.Time) model.InteractionEvent {
	return model.InteractionEvent{ID: item + "-" + string(kind), ItemID: item, Timestamp: ts, Kind: kind}
}

// fiveEvents is the reference fixture: item1 viewed+liked, item2
// viewed+dismissed, item3 liked.
func fiveEvents() []model.InteractionEvent {
	return []model.InteractionEvent{
		event("item1", model.Viewed, now),
		event("item1", model.Liked, now),
		event("item2", model.Viewed, now),
		event("item2", model.Dismissed, now),
		event("item3", model.Liked, now),
	}
}

func TestAnalyze(t *testing.T) {
	Convey("Given the five-event fixture", t, func() {
		events := fiveEvents()

		Convey("When analyzing with default weights", func() {
			scores := scoring.Analyze(events, weights.Default())

			Convey("Then each item gets the summed weight", func() {
				So(scores, ShouldResemble, scoring.ScoreMap{"item1": 3, "item2": 0, "item3": 2})
			})
		})

		Convey("When analyzing with custom weights", func() {
			custom := weights.New(map[model.InteractionKind]float64{
				model.Viewed:    0.5,
				model.Liked:     5.0,
				model.Dismissed: -2.0,
			})
			scores := scoring.Analyze(events, custom)

			Convey("Then the custom weights are applied", func() {
				So(scores, ShouldResemble, scoring.ScoreMap{"item1": 5.5, "item2": -1.5, "item3": 5})
			})
		})

		Convey("When analyzing the same events in reverse order", func() {
			reversed := make([]model.InteractionEvent, len(events))
			for i, ev := range events {
				reversed[len(events)-1-i] = ev
			}

			Convey("Then the result is identical", func() {
				So(scoring.Analyze(reversed, weights.Default()), ShouldResemble, scoring.Analyze(events, weights.Default()))
			})
		})
	})

	Convey("Given events whose kinds are not in the table", t, func() {
		events := []model.InteractionEvent{
			event("item9", model.Shared, now),
			event("item9", model.ParseKind("bookmarked"), now),
			event("item1", model.Liked, now),
		}

		Convey("When analyzing", func() {
			scores := scoring.Analyze(events, weights.Default())

			Convey("Then unknown kinds contribute zero without error", func() {
				So(scores["item1"], ShouldEqual, 2.0)
				v, ok := scores["item9"]
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given no events", t, func() {
		Convey("Then the result is empty, not nil", func() {
			scores := scoring.Analyze(nil, weights.Default())
			So(scores, ShouldNotBeNil)
			So(scores, ShouldBeEmpty)
		})
	})
}

func TestAnalyzeWithDecay(t *testing.T) {
	Convey("Given two likes on one item a week apart", t, func() {
		events := []model.InteractionEvent{
			event("item1", model.Liked, now.Add(-7*day)),
			event("item1", model.Liked, now),
		}

		Convey("When decaying at 0.9 per day", func() {
			scores, err := scoring.AnalyzeWithDecay(events, weights.Default(), 0.9, now)

			Convey("Then the older like is attenuated", func() {
				So(err, ShouldBeNil)
				So(scores["item1"], ShouldAlmostEqual, 2.0*math.Pow(0.9, 7)+2.0, 1e-3)
			})
		})

		Convey("When the factor is 1", func() {
			scores, err := scoring.AnalyzeWithDecay(events, weights.Default(), 1, now)

			Convey("Then it matches plain analysis", func() {
				So(err, ShouldBeNil)
				So(scores["item1"], ShouldAlmostEqual, scoring.Analyze(events, weights.Default())["item1"], 1e-9)
			})
		})

		Convey("When the input is given newest first", func() {
			reversed := []model.InteractionEvent{events[1], events[0]}
			want, _ := scoring.AnalyzeWithDecay(events, weights.Default(), 0.9, now)
			got, err := scoring.AnalyzeWithDecay(reversed, weights.Default(), 0.9, now)

			Convey("Then the result is the same and the input is untouched", func() {
				So(err, ShouldBeNil)
				So(got["item1"], ShouldAlmostEqual, want["item1"], 1e-9)
				So(reversed[0].Timestamp, ShouldEqual, now)
			})
		})
	})

	Convey("Given an event dated after the reference instant", t, func() {
		events := []model.InteractionEvent{event("item1", model.Liked, now.Add(2*day))}

		Convey("When decaying at 0.5 per day", func() {
			scores, err := scoring.AnalyzeWithDecay(events, weights.Default(), 0.5, now)

			Convey("Then the contribution is amplified", func() {
				So(err, ShouldBeNil)
				So(scores["item1"], ShouldAlmostEqual, 8.0, 1e-9)
			})
		})
	})

	Convey("Given an invalid decay factor", t, func() {
		events := fiveEvents()

		for _, factor := range []float64{0, -0.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
			scores, err := scoring.AnalyzeWithDecay(events, weights.Default(), factor, now)
			So(errors.Is(err, scoring.ErrInvalidDecayFactor), ShouldBeTrue)
			So(scores, ShouldBeNil)
		}
	})

	Convey("Given no events", t, func() {
		scores, err := scoring.AnalyzeWithDecay(nil, weights.Default(), 0.9, now)
		So(err, ShouldBeNil)
		So(scores, ShouldBeEmpty)
	})
}

func TestDaysBetween(t *testing.T) {
	Convey("Given instants around a reference", t, func() {
		So(scoring.DaysBetween(now.Add(-7*day), now), ShouldEqual, 7.0)
		So(scoring.DaysBetween(now.Add(-12*time.Hour), now), ShouldEqual, 0.5)
		So(scoring.DaysBetween(now.Add(3*day), now), ShouldEqual, -3.0)
		So(scoring.DaysBetween(now, now), ShouldEqual, 0.0)
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a score map with a spread of values", t, func() {
		scores := scoring.ScoreMap{"item1": 3, "item2": 0, "item3": 2, "item4": 4}

		Convey("When normalizing", func() {
			out := scoring.Normalize(scores)

			Convey("Then values are min-max scaled", func() {
				So(out["item1"], ShouldAlmostEqual, 0.75, 1e-3)
				So(out["item2"], ShouldAlmostEqual, 0.0, 1e-3)
				So(out["item3"], ShouldAlmostEqual, 0.5, 1e-3)
				So(out["item4"], ShouldAlmostEqual, 1.0, 1e-3)
			})

			Convey("Then the input is not modified", func() {
				So(scores, ShouldResemble, scoring.ScoreMap{"item1": 3, "item2": 0, "item3": 2, "item4": 4})
			})
		})
	})

	Convey("Given scores that are all equal", t, func() {
		out := scoring.Normalize(scoring.ScoreMap{"a": -2, "b": -2})
		So(out, ShouldResemble, scoring.ScoreMap{"a": 0.5, "b": 0.5})
	})

	Convey("Given a single entry", t, func() {
		So(scoring.Normalize(scoring.ScoreMap{"only": 42}), ShouldResemble, scoring.ScoreMap{"only": 0.5})
	})

	Convey("Given an empty map", t, func() {
		So(scoring.Normalize(scoring.ScoreMap{}), ShouldBeEmpty)
		So(scoring.Normalize(nil), ShouldBeEmpty)
	})
}

func TestFilterAboveThreshold(t *testing.T) {
	Convey("Given a score map", t, func() {
		scores := scoring.ScoreMap{"item1": 3, "item2": 0, "item3": 2, "item4": 5}

		Convey("When filtering at 2.5", func() {
			So(scoring.FilterAboveThreshold(scores, 2.5), ShouldResemble, scoring.ScoreMap{"item1": 3, "item4": 5})
		})

		Convey("When the threshold equals a score", func() {
			out := scoring.FilterAboveThreshold(scores, 2)

			Convey("Then that entry is retained", func() {
				So(out, ShouldContainKey, "item3")
				So(len(out), ShouldEqual, 3)
			})
		})

		Convey("When the threshold is above every score", func() {
			So(scoring.FilterAboveThreshold(scores, 10), ShouldBeEmpty)
		})
	})

	Convey("Given an empty map", t, func() {
		So(scoring.FilterAboveThreshold(nil, 0), ShouldBeEmpty)
	})
}

func TestScoreMapClone(t *testing.T) {
	Convey("Given a score map", t, func() {
		src := scoring.ScoreMap{"a": 1}
		cp := src.Clone()
		cp["a"] = 9

		Convey("Then the clone is independent", func() {
			So(src["a"], ShouldEqual, 1.0)
		})
	})
}
