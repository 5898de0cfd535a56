// Package ranking orders score maps into ranked item lists.
//
// Ordering: score DESC, then item ID ASC, so equal scores always come out
// in the same order.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/affinity/internal/domain/scoring"
)

// Entry is one ranked item.
type Entry struct {
	ItemID string
	Score  float64
}

// compare reports whether a ranks before b (negative), after it (positive)
// or equal.
func compare(a, b Entry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ItemID, b.ItemID)
}

// Sorted returns every entry of scores in rank order.
func Sorted(scores scoring.ScoreMap) []Entry {
	entries := make([]Entry, 0, len(scores))
	for id, s := range scores {
		entries = append(entries, Entry{ItemID: id, Score: s})
	}
	slices.SortFunc(entries, compare)
	return entries
}

// Top returns at most limit entries in rank order. limit <= 0 yields an
// empty slice.
func Top(scores scoring.ScoreMap, limit int) []Entry {
	if limit <= 0 {
		return []Entry{}
	}
	entries := Sorted(scores)
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// TopItems returns the IDs of the top limit items.
func TopItems(scores scoring.ScoreMap, limit int) []string {
	top := Top(scores, limit)
	ids := make([]string, len(top))
	for i, e := range top {
		ids[i] = e.ItemID
	}
	return ids
}
