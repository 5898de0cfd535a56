// Package weights holds the immutable table that maps interaction kinds to
// their signed contribution to an item's score.
package weights

import (
	"maps"
	"slices"

	"github.com/okian/affinity/internal/domain/model"
)

// Default weights for the built-in kinds. Shared and Purchased are left out
// on purpose and therefore weigh zero.
const (
	DefaultViewed    = 1.0
	DefaultLiked     = 2.0
	DefaultDismissed = -1.0
)

// Table maps interaction kinds to weights. The zero value is an empty table
// in which every kind weighs zero. A Table is never modified after creation.
type Table struct {
	w map[model.InteractionKind]float64
}

// New builds a table from m. The map is copied; later changes to m are not seen.
func New(m map[model.InteractionKind]float64) Table {
	return Table{w: maps.Clone(m)}
}

// Default returns {viewed: 1, liked: 2, dismissed: -1}.
func Default() Table {
	return New(map[model.InteractionKind]float64{
		model.Viewed:    DefaultViewed,
		model.Liked:     DefaultLiked,
		model.Dismissed: DefaultDismissed,
	})
}

// FromConfig builds a table from string-keyed configuration. Keys are
// normalized with model.ParseKind; an empty map yields the defaults.
func FromConfig(m map[string]float64) Table {
	if len(m) == 0 {
		return Default()
	}
	w := make(map[model.InteractionKind]float64, len(m))
	for name, v := range m {
		w[model.ParseKind(name)] = v
	}
	return Table{w: w}
}

// Weight returns the weight for kind, or 0 when the table does not name it.
func (t Table) Weight(kind model.InteractionKind) float64 {
	return t.w[kind]
}

// Lookup returns the weight for kind and whether the table names it.
func (t Table) Lookup(kind model.InteractionKind) (float64, bool) {
	v, ok := t.w[kind]
	return v, ok
}

// Kinds returns the kinds named by the table, sorted by name.
func (t Table) Kinds() []model.InteractionKind {
	return slices.Sorted(maps.Keys(t.w))
}

// Len returns the number of kinds in the table.
func (t Table) Len() int { return len(t.w) }

// Map returns a copy of the underlying mapping.
func (t Table) Map() map[model.InteractionKind]float64 {
	if t.w == nil {
		return map[model.InteractionKind]float64{}
	}
	return maps.Clone(t.w)
}
