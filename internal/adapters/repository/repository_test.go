package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/affinity/internal/domain/model"
)

func sampleEvents() []model.InteractionEvent {
	base := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	return []model.InteractionEvent{
		{ID: "e1", ItemID: "b", Timestamp: base, Kind: model.Liked},
		{ID: "e2", ItemID: "a", Timestamp: base.Add(-time.Hour), Kind: model.Viewed},
		{ID: "e3", ItemID: "b", Timestamp: base.Add(time.Minute), Kind: model.InteractionKind("bookmarked")},
	}
}

func TestCodec(t *testing.T) {
	Convey("Given a history", t, func() {
		events := sampleEvents()

		Convey("When it is encoded and decoded", func() {
			data, err := EncodeEvents(events)
			So(err, ShouldBeNil)
			got, err := DecodeEvents(data)
			So(err, ShouldBeNil)

			Convey("Then order, kinds and instants survive", func() {
				So(got, ShouldHaveLength, len(events))
				for i := range events {
					So(got[i].ID, ShouldEqual, events[i].ID)
					So(got[i].ItemID, ShouldEqual, events[i].ItemID)
					So(got[i].Kind, ShouldEqual, events[i].Kind)
					So(got[i].Timestamp.Equal(events[i].Timestamp), ShouldBeTrue)
				}
			})
		})

		Convey("When encoded, records use the wire field names", func() {
			data, err := EncodeEvents(events[:1])
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"itemID":"b"`)
			So(string(data), ShouldContainSubstring, `"interactionType":"liked"`)
			So(string(data), ShouldContainSubstring, `"timestamp":"2024-03-01T12:00:00.123456789Z"`)
		})
	})

	Convey("Given malformed input", t, func() {
		_, err := DecodeEvents([]byte(`{"not":"an array"`))
		So(err, ShouldNotBeNil)
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file store in an empty directory", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "interactions.json")
		store := NewFileStore(path)

		Convey("Load on a missing file returns an empty history", func() {
			got := store.Load(ctx)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Save then Load round-trips the history", func() {
			events := sampleEvents()
			store.Save(ctx, events)

			got := NewFileStore(path).Load(ctx)
			So(got, ShouldHaveLength, 3)
			So(got[0].ID, ShouldEqual, "e1")
			So(got[2].Kind, ShouldEqual, model.InteractionKind("bookmarked"))
			So(got[1].Timestamp.Equal(events[1].Timestamp), ShouldBeTrue)
		})

		Convey("Save replaces earlier contents", func() {
			store.Save(ctx, sampleEvents())
			store.Save(ctx, sampleEvents()[:1])
			So(store.Load(ctx), ShouldHaveLength, 1)
		})

		Convey("Save leaves no temp files behind", func() {
			store.Save(ctx, sampleEvents())
			entries, err := os.ReadDir(filepath.Dir(path))
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].Name(), ShouldEqual, "interactions.json")
		})
	})

	Convey("Given a corrupt file", t, func() {
		path := filepath.Join(t.TempDir(), "interactions.json")
		So(os.WriteFile(path, []byte("[{\"id\": 1"), 0o644), ShouldBeNil)

		Convey("Load discards it and returns an empty history", func() {
			got := NewFileStore(path).Load(ctx)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh sqlite store", t, func() {
		path := filepath.Join(t.TempDir(), "interactions.db")
		store, err := NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		Convey("Load returns an empty history", func() {
			got := store.Load(ctx)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Save then Load preserves insertion order", func() {
			events := sampleEvents()
			store.Save(ctx, events)

			got := store.Load(ctx)
			So(got, ShouldHaveLength, 3)
			for i := range events {
				So(got[i].ID, ShouldEqual, events[i].ID)
				So(got[i].Kind, ShouldEqual, events[i].Kind)
				So(got[i].Timestamp.Equal(events[i].Timestamp), ShouldBeTrue)
			}
		})

		Convey("Save replaces earlier rows", func() {
			store.Save(ctx, sampleEvents())
			store.Save(ctx, sampleEvents()[1:2])
			got := store.Load(ctx)
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, "e2")
		})

		Convey("A reopened store sees saved rows", func() {
			store.Save(ctx, sampleEvents())
			So(store.Close(), ShouldBeNil)

			reopened, err := NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer reopened.Close()
			So(reopened.Load(ctx), ShouldHaveLength, 3)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded memory store", t, func() {
		events := sampleEvents()
		store := NewMemoryStore(events...)

		Convey("Load returns a copy", func() {
			got := store.Load(ctx)
			got[0].ItemID = "mutated"
			So(store.Load(ctx)[0].ItemID, ShouldEqual, "b")
		})

		Convey("Save counts calls and replaces contents", func() {
			store.Save(ctx, nil)
			So(store.Saves(), ShouldEqual, 1)
			So(store.Load(ctx), ShouldBeEmpty)
		})
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	Convey("Given each driver name", t, func() {
		dir := t.TempDir()

		Convey("file yields a FileStore", func() {
			s, err := Open(ctx, DriverFile, filepath.Join(dir, "i.json"))
			So(err, ShouldBeNil)
			_, ok := s.(*FileStore)
			So(ok, ShouldBeTrue)
		})

		Convey("sqlite yields a SQLiteStore", func() {
			s, err := Open(ctx, DriverSQLite, filepath.Join(dir, "i.db"))
			So(err, ShouldBeNil)
			sq, ok := s.(*SQLiteStore)
			So(ok, ShouldBeTrue)
			So(sq.Close(), ShouldBeNil)
		})

		Convey("memory yields a MemoryStore", func() {
			s, err := Open(ctx, DriverMemory, "")
			So(err, ShouldBeNil)
			_, ok := s.(*MemoryStore)
			So(ok, ShouldBeTrue)
		})

		Convey("anything else is rejected", func() {
			_, err := Open(ctx, "redis", "")
			So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
		})
	})
}
