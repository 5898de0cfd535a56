// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults come from New; Load layers a YAML file and env vars on top.
//   - Every loaded Config is validated before it is returned.
//   - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// StoreDriver picks the persistence backend: file, sqlite or memory.
	StoreDriver string `koanf:"store_driver" validate:"oneof=file sqlite memory"`

	// StorePath is the JSON file or SQLite database location.
	StorePath string `koanf:"store_path" validate:"required_unless=StoreDriver memory"`

	// PersistOnIngest saves the full history after every accepted batch.
	PersistOnIngest bool `koanf:"persist_on_ingest"`

	// DedupeSize bounds how many interaction IDs are remembered for replay detection.
	DedupeSize int `koanf:"dedupe_size" validate:"gte=0"`

	// DefaultLimit is used when a request does not ask for a result count.
	DefaultLimit int `koanf:"default_limit" validate:"gte=1,ltefield=MaxLimit"`

	// MaxLimit caps ?limit on the read endpoints.
	MaxLimit int `koanf:"max_limit" validate:"gte=1"`

	// DefaultThreshold applies to the scores view when ?threshold is absent.
	DefaultThreshold float64 `koanf:"default_threshold"`

	// DecayFactor is the per-day attenuation used when ?decay=true.
	DecayFactor float64 `koanf:"decay_factor" validate:"gt=0"`

	// Weights maps interaction kind names to their scoring weights.
	// Empty means the built-in defaults.
	Weights map[string]float64 `koanf:"weights"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		StoreDriver:      "file",
		StorePath:        "interactions.json",
		PersistOnIngest:  true,
		DedupeSize:       100_000,
		DefaultLimit:     10,
		MaxLimit:         100,
		DefaultThreshold: 0,
		DecayFactor:      0.9,
		Weights: map[string]float64{
			"viewed":    1.0,
			"liked":     2.0,
			"dismissed": -1.0,
		},
	}
}
