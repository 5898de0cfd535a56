// Package scoring turns interaction events into per-item scores and offers
// the post-processing steps (normalization, thresholds) applied to them.
// Every function here is pure: inputs are never modified.
package scoring

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/weights"
)

const (
	hoursPerDay = 24
	// neutralScore is what every entry maps to when normalization has no range.
	neutralScore = 0.5
)

// ScoreMap maps an item ID to its accumulated score.
type ScoreMap map[string]float64

// Clone returns a copy of m. A nil map clones to an empty one.
func (m ScoreMap) Clone() ScoreMap {
	out := make(ScoreMap, len(m))
	maps.Copy(out, m)
	return out
}

// Analyze sums the weight of every event per item. Every item that appears
// in events gets an entry, even when all of its kinds weigh zero.
func Analyze(events []model.InteractionEvent, table weights.Table) ScoreMap {
	scores := make(ScoreMap)
	for _, ev := range events {
		scores[ev.ItemID] += table.Weight(ev.Kind)
	}
	return scores
}

// AnalyzeWithDecay is Analyze with each contribution scaled by
// decayFactor^days, where days is how far ev.Timestamp lies before
// reference. Events after reference get a negative exponent and are
// amplified when decayFactor < 1.
func AnalyzeWithDecay(events []model.InteractionEvent, table weights.Table, decayFactor float64, reference time.Time) (ScoreMap, error) {
	if err := ValidateDecayFactor(decayFactor); err != nil {
		return nil, err
	}

	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b model.InteractionEvent) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	scores := make(ScoreMap)
	for _, ev := range ordered {
		w := table.Weight(ev.Kind)
		scores[ev.ItemID] += w * math.Pow(decayFactor, DaysBetween(ev.Timestamp, reference))
	}
	return scores, nil
}

// ValidateDecayFactor rejects factors that would produce NaN or infinity.
func ValidateDecayFactor(decayFactor float64) error {
	if math.IsNaN(decayFactor) || math.IsInf(decayFactor, 0) || decayFactor <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDecayFactor, decayFactor)
	}
	return nil
}

// DaysBetween returns the signed, fractional number of days from t to
// reference. It is negative when t is after reference.
func DaysBetween(t, reference time.Time) float64 {
	return reference.Sub(t).Hours() / hoursPerDay
}

// Normalize min-max scales scores into [0, 1]. When every score is equal
// (including a single entry) each value becomes 0.5.
func Normalize(scores ScoreMap) ScoreMap {
	if len(scores) == 0 {
		return ScoreMap{}
	}

	values := slices.Collect(maps.Values(scores))
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo

	out := make(ScoreMap, len(scores))
	for id, v := range scores {
		if span == 0 {
			out[id] = neutralScore
			continue
		}
		out[id] = (v - lo) / span
	}
	return out
}

// FilterAboveThreshold keeps entries whose score is >= threshold.
func FilterAboveThreshold(scores ScoreMap, threshold float64) ScoreMap {
	out := make(ScoreMap)
	for id, v := range scores {
		if v >= threshold {
			out[id] = v
		}
	}
	return out
}
