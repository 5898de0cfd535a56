package model_test

import (
	"testing"
	"time"

	model "github.com/okian/affinity/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestInteractionKind(t *testing.T) {
	convey.Convey("Given the built-in interaction kinds", t, func() {
		convey.Convey("When listing them", func() {
			kinds := model.KnownKinds()

			convey.Convey("Then all five are present in declaration order", func() {
				convey.So(kinds, convey.ShouldResemble, []model.InteractionKind{
					model.Viewed, model.Liked, model.Dismissed, model.Shared, model.Purchased,
				})
				for _, k := range kinds {
					convey.So(k.Known(), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When parsing names with surrounding noise", func() {
			convey.So(model.ParseKind("  Liked "), convey.ShouldEqual, model.Liked)
			convey.So(model.ParseKind("PURCHASED"), convey.ShouldEqual, model.Purchased)
		})

		convey.Convey("When parsing an unknown name", func() {
			k := model.ParseKind("bookmarked")

			convey.Convey("Then it is kept but not known", func() {
				convey.So(k.String(), convey.ShouldEqual, "bookmarked")
				convey.So(k.Known(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the kind is empty", func() {
			convey.So(model.ParseKind("").Known(), convey.ShouldBeFalse)
		})
	})
}

func TestInteractionEvent(t *testing.T) {
	convey.Convey("Given an InteractionEvent", t, func() {
		ts := time.Date(2025, 4, 6, 12, 0, 0, 0, time.UTC)
		ev := model.InteractionEvent{ID: "ev-1", ItemID: "item1", Timestamp: ts, Kind: model.Viewed}

		convey.Convey("Then it should carry its values", func() {
			convey.So(ev.ID, convey.ShouldEqual, "ev-1")
			convey.So(ev.ItemID, convey.ShouldEqual, "item1")
			convey.So(ev.Timestamp, convey.ShouldEqual, ts)
			convey.So(ev.Kind, convey.ShouldEqual, model.Viewed)
		})

		convey.Convey("When copied and the copy changes", func() {
			other := ev
			other.Kind = model.Liked

			convey.Convey("Then the original is untouched", func() {
				convey.So(ev.Kind, convey.ShouldEqual, model.Viewed)
			})
		})
	})
}
