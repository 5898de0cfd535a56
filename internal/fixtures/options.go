package fixtures

import (
	"time"

	"github.com/okian/affinity/internal/domain/model"
)

// Option applies a configuration option to a Generator.
type Option func(*Generator)

// WithSeed fixes the random source so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithItems sets the size of the item pool.
func WithItems(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.items = n
		}
	}
}

// WithKindMix sets the relative frequency of each interaction kind.
// Non-positive weights are ignored.
func WithKindMix(mix map[model.InteractionKind]int) Option {
	return func(g *Generator) {
		if len(mix) > 0 {
			g.mix = mix
		}
	}
}

// WithWindow spreads timestamps over the span ending at end.
func WithWindow(end time.Time, span time.Duration) Option {
	return func(g *Generator) {
		if !end.IsZero() {
			g.end = end
		}
		if span > 0 {
			g.span = span
		}
	}
}

// WithSkew sets the Zipf exponent for item popularity. Values <= 1 fall
// back to a uniform pick.
func WithSkew(s float64) Option {
	return func(g *Generator) {
		g.skew = s
	}
}
