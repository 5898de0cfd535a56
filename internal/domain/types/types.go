// Package types contains common types used across the application
package types

import "github.com/okian/affinity/internal/domain/model"

// Entry represents one ranked row returned by the scores view
type Entry struct {
	Rank   int     `json:"rank"`
	ItemID string  `json:"itemID"`
	Score  float64 `json:"score"`
}

// IngestResult reports what happened to one submitted batch.
type IngestResult struct {
	Accepted        int                    `json:"accepted"`
	Duplicates      int                    `json:"duplicates"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// FilterParams selects how the scores view is computed.
type FilterParams struct {
	// Threshold drops entries scoring below it. Nil uses the configured default.
	Threshold *float64
	// Limit caps the result count. Zero uses the configured default.
	Limit int
	// Decay weights recent interactions more heavily.
	Decay bool
	// DecayFactor overrides the configured factor when non-zero.
	DecayFactor float64
	// Normalize rescales scores into [0, 1] before thresholding.
	Normalize bool
}
