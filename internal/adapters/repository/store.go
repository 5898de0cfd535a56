// Package repository persists interaction history.
//
// Stores are best-effort by contract: Load returns an empty history when
// storage is missing or unreadable, and Save never reports failure to the
// caller. Failures are logged and counted instead.
package repository

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/affinity/internal/domain/model"
)

// Store loads and saves the full interaction history.
type Store interface {
	// Load returns the saved history in its original order, or an empty
	// slice if nothing usable is stored.
	Load(ctx context.Context) []model.InteractionEvent

	// Save replaces the stored history with events.
	Save(ctx context.Context, events []model.InteractionEvent)
}

// record is the on-disk shape of one interaction.
type record struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"itemID"`
	Timestamp       time.Time `json:"timestamp"`
	InteractionType string    `json:"interactionType"`
}

func toRecord(ev model.InteractionEvent) record {
	return record{
		ID:              ev.ID,
		ItemID:          ev.ItemID,
		Timestamp:       ev.Timestamp.UTC(),
		InteractionType: ev.Kind.String(),
	}
}

func (r record) event() model.InteractionEvent {
	return model.InteractionEvent{
		ID:        r.ID,
		ItemID:    r.ItemID,
		Timestamp: r.Timestamp,
		Kind:      model.InteractionKind(r.InteractionType),
	}
}

// EncodeEvents renders events as a JSON array of records.
func EncodeEvents(events []model.InteractionEvent) ([]byte, error) {
	recs := make([]record, len(events))
	for i, ev := range events {
		recs[i] = toRecord(ev)
	}
	return json.Marshal(recs)
}

// DecodeEvents parses the output of EncodeEvents.
func DecodeEvents(data []byte) ([]model.InteractionEvent, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	events := make([]model.InteractionEvent, len(recs))
	for i, r := range recs {
		events[i] = r.event()
	}
	return events, nil
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
