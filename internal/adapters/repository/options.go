package repository

import "github.com/okian/affinity/pkg/logger"

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	log logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}
