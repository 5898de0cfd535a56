package recommend

import (
	"slices"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/weights"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithWeights sets the weight table used for every recompute.
func WithWeights(table weights.Table) Option {
	return func(o *Orchestrator) {
		o.weights = table
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithHistory seeds the history, e.g. from a persistence store. The slice is
// copied. No recompute happens until the first Ingest.
func WithHistory(events []model.InteractionEvent) Option {
	return func(o *Orchestrator) {
		o.history = slices.Clone(events)
	}
}

// WithIDGenerator replaces the UUID source for recommendation IDs.
func WithIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) {
		if gen != nil {
			o.newID = gen
		}
	}
}
