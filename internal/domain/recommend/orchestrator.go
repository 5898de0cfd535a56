// Package recommend owns the interaction history and turns it into the
// current list of recommendations.
//
// An Orchestrator is single-owner: it does not lock. Callers that share one
// across goroutines must serialize access themselves.
package recommend

import (
	"slices"

	"github.com/google/uuid"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/ranking"
	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/internal/domain/weights"
)

// Listener receives every freshly computed recommendation list.
type Listener interface {
	OnRecommendations(recs []model.Recommendation)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(recs []model.Recommendation)

// OnRecommendations calls f(recs).
func (f ListenerFunc) OnRecommendations(recs []model.Recommendation) { f(recs) }

// Orchestrator accumulates interactions and recomputes recommendations from
// the whole history on every ingest.
type Orchestrator struct {
	weights   weights.Table
	history   []model.InteractionEvent
	current   []model.Recommendation
	listeners []Listener
	newID     func() string
}

// New creates an Orchestrator using the default weight table unless
// overridden by options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		weights: weights.Default(),
		current: []model.Recommendation{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers l for future publications.
func (o *Orchestrator) Subscribe(l Listener) {
	if l != nil {
		o.listeners = append(o.listeners, l)
	}
}

// Ingest appends events to the history, recomputes the ranking and
// publishes it to every listener before returning it. Each listener gets
// its own copy.
func (o *Orchestrator) Ingest(events []model.InteractionEvent) []model.Recommendation {
	o.history = append(o.history, events...)

	scores := scoring.Analyze(o.history, o.weights)
	ranked := ranking.Sorted(scores)

	recs := make([]model.Recommendation, len(ranked))
	for i, e := range ranked {
		recs[i] = model.Recommendation{ID: o.newID(), ItemID: e.ItemID, Score: e.Score}
	}
	o.current = recs

	for _, l := range o.listeners {
		l.OnRecommendations(slices.Clone(recs))
	}
	return slices.Clone(recs)
}

// Recommendations returns a copy of the last published list.
func (o *Orchestrator) Recommendations() []model.Recommendation {
	return slices.Clone(o.current)
}

// Events returns a copy of the history in ingestion order, for persistence.
func (o *Orchestrator) Events() []model.InteractionEvent {
	return slices.Clone(o.history)
}

// Len returns the number of events in the history.
func (o *Orchestrator) Len() int { return len(o.history) }

// Weights returns the table the orchestrator scores with.
func (o *Orchestrator) Weights() weights.Table { return o.weights }
