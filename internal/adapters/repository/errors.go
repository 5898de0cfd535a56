package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrOpenStore     = errors.New("open store failed")
)
