package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidDecayFactor = errors.New("decay factor must be a finite number greater than zero")
)
