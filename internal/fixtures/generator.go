// Package fixtures generates synthetic interaction histories for tests,
// demos and load seeding. The engine never depends on it.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/affinity/internal/domain/model"
)

// Defaults applied by New.
const (
	DefaultItems = 100
	DefaultSpan  = 30 * 24 * time.Hour
	DefaultSkew  = 1.2
)

// DefaultKindMix approximates a typical browsing session: mostly views,
// some likes, few strong or negative signals.
func DefaultKindMix() map[model.InteractionKind]int {
	return map[model.InteractionKind]int{
		model.Viewed:    60,
		model.Liked:     20,
		model.Dismissed: 10,
		model.Shared:    6,
		model.Purchased: 4,
	}
}

// idNamespace scopes the name-based UUIDs handed out as event IDs.
var idNamespace = uuid.MustParse("6f1f0a52-8a3e-4b7c-9d35-1b0f5d3c2e10")

type weightedKind struct {
	kind  model.InteractionKind
	upper int
}

// Generator produces pseudo-random interactions. It is not safe for
// concurrent use.
type Generator struct {
	seed  uint64
	items int
	mix   map[model.InteractionKind]int
	end   time.Time
	span  time.Duration
	skew  float64

	rng    *rand.Rand
	zipf   *rand.Zipf
	kinds  []weightedKind
	total  int
	issued uint64
}

// New creates a Generator. Without WithSeed the seed is 1.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:  1,
		items: DefaultItems,
		mix:   DefaultKindMix(),
		end:   time.Now().UTC(),
		span:  DefaultSpan,
		skew:  DefaultSkew,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	if g.skew > 1 && g.items > 1 {
		g.zipf = rand.NewZipf(g.rng, g.skew, 1, uint64(g.items-1))
	}

	// Sorted so the cumulative table, and therefore the output, is stable.
	kinds := make([]model.InteractionKind, 0, len(g.mix))
	for k, w := range g.mix {
		if w > 0 {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		g.total += g.mix[k]
		g.kinds = append(g.kinds, weightedKind{kind: k, upper: g.total})
	}
	if g.total == 0 {
		g.kinds = []weightedKind{{kind: model.Viewed, upper: 1}}
		g.total = 1
	}
	return g
}

// ItemID names the i-th item of the pool.
func ItemID(i int) string {
	return fmt.Sprintf("item-%04d", i)
}

// Event returns the next interaction.
func (g *Generator) Event() model.InteractionEvent {
	g.issued++
	return model.InteractionEvent{
		ID:        uuid.NewSHA1(idNamespace, fmt.Appendf(nil, "%d/%d", g.seed, g.issued)).String(),
		ItemID:    ItemID(g.pickItem()),
		Timestamp: g.end.Add(-time.Duration(g.rng.Int64N(int64(g.span)))),
		Kind:      g.pickKind(),
	}
}

// Events returns the next n interactions.
func (g *Generator) Events(n int) []model.InteractionEvent {
	if n <= 0 {
		return []model.InteractionEvent{}
	}
	out := make([]model.InteractionEvent, n)
	for i := range out {
		out[i] = g.Event()
	}
	return out
}

func (g *Generator) pickItem() int {
	if g.zipf != nil {
		return int(g.zipf.Uint64())
	}
	return g.rng.IntN(g.items)
}

func (g *Generator) pickKind() model.InteractionKind {
	r := g.rng.IntN(g.total)
	for _, wk := range g.kinds {
		if r < wk.upper {
			return wk.kind
		}
	}
	return g.kinds[len(g.kinds)-1].kind
}
