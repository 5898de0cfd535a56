package service

import (
	"time"

	repository "github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/domain/recommend"
	"github.com/okian/affinity/internal/domain/weights"
	"github.com/okian/affinity/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence backend. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWeights sets the scoring weight table.
func WithWeights(table weights.Table) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithListener registers a listener on the orchestrator once started.
func WithListener(l recommend.Listener) Option {
	return func(s *Service) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// WithDedupeSize sets the size of the replay-detection cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLimits sets the default and maximum result counts.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 && maxLimit >= defaultLimit {
			s.defaultLimit = defaultLimit
			s.maxLimit = maxLimit
		}
	}
}

// WithDefaultThreshold sets the threshold used by Filter when none is given.
func WithDefaultThreshold(threshold float64) Option {
	return func(s *Service) {
		s.defaultThreshold = threshold
	}
}

// WithDecayFactor sets the per-day factor used when Filter asks for decay
// without naming one.
func WithDecayFactor(factor float64) Option {
	return func(s *Service) {
		s.decayFactor = factor
	}
}

// WithPersistOnIngest saves the full history after every Ingest.
func WithPersistOnIngest(enabled bool) Option {
	return func(s *Service) {
		s.persistOnIngest = enabled
	}
}

// WithClock overrides the time source used for decay and default timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how missing interaction IDs and recommendation
// IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
