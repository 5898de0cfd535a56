// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// InteractionKind tags what a user did with an item.
// The set is open: kinds outside the built-in list are valid and weigh zero
// unless a weight table names them.
type InteractionKind string

// Built-in interaction kinds.
const (
	Viewed    InteractionKind = "viewed"
	Liked     InteractionKind = "liked"
	Dismissed InteractionKind = "dismissed"
	Shared    InteractionKind = "shared"
	Purchased InteractionKind = "purchased"
)

// KnownKinds lists the built-in kinds in declaration order.
func KnownKinds() []InteractionKind {
	return []InteractionKind{Viewed, Liked, Dismissed, Shared, Purchased}
}

// ParseKind normalizes a kind name (trimmed, lower-cased). Unknown names
// are returned as-is rather than rejected.
func ParseKind(s string) InteractionKind {
	return InteractionKind(strings.ToLower(strings.TrimSpace(s)))
}

// String returns the kind name.
func (k InteractionKind) String() string { return string(k) }

// Known reports whether k is one of the built-in kinds.
func (k InteractionKind) Known() bool {
	switch k {
	case Viewed, Liked, Dismissed, Shared, Purchased:
		return true
	default:
		return false
	}
}

// InteractionEvent is a single user action on an item. Values are never
// mutated once created.
type InteractionEvent struct {
	ID        string          // opaque identifier
	ItemID    string          // item the interaction targets
	Timestamp time.Time       // when the interaction happened
	Kind      InteractionKind // what happened
}

// Recommendation is a scored item produced by a recompute. It is derived
// state and is not persisted.
type Recommendation struct {
	ID     string  `json:"id"`
	ItemID string  `json:"itemID"`
	Score  float64 `json:"score"`
}
