// Package service assembles storage, deduplication and the recommendation
// orchestrator behind the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/domain/dedupe"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/ranking"
	"github.com/okian/affinity/internal/domain/recommend"
	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/internal/domain/types"
	"github.com/okian/affinity/internal/domain/weights"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

// Defaults applied by New.
const (
	DefaultDedupeSize  = 50_000
	DefaultLimit       = 10
	DefaultMaxLimit    = 100
	DefaultDecayFactor = 0.9
)

// Service owns the orchestrator and serializes access to it, since HTTP
// handlers run concurrently.
type Service struct {
	mu sync.Mutex

	// Core components
	store        repository.Store
	deduper      dedupe.Deduper
	orchestrator *recommend.Orchestrator
	table        weights.Table
	listeners    []recommend.Listener

	// Configuration
	dedupeSize       int
	defaultLimit     int
	maxLimit         int
	defaultThreshold float64
	decayFactor      float64
	persistOnIngest  bool
	now              func() time.Time
	newID            func() string

	// State
	started     bool
	ingested    int64
	duplicates  int64
	lastUpdated time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		table:            weights.Default(),
		dedupeSize:       DefaultDedupeSize,
		defaultLimit:     DefaultLimit,
		maxLimit:         DefaultMaxLimit,
		decayFactor:      DefaultDecayFactor,
		now:              time.Now,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// Start loads the saved history and builds the orchestrator around it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	history := s.store.Load(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	for _, ev := range history {
		s.deduper.SeenAndRecord(ctx, ev.ID)
	}

	opts := []recommend.Option{
		recommend.WithWeights(s.table),
		recommend.WithHistory(history),
		recommend.WithIDGenerator(s.newID),
	}
	for _, l := range s.listeners {
		opts = append(opts, recommend.WithListener(l))
	}
	s.orchestrator = recommend.New(opts...)

	// Rebuild the snapshot so reads after a restart see the restored history.
	if len(history) > 0 {
		s.recompute(ctx, nil)
	}

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("history", len(history)),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("weights", s.table.Len()),
		logger.Bool("persistOnIngest", s.persistOnIngest),
	)
	return nil
}

// Stop saves the history and closes the store if it holds resources.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.store.Save(ctx, s.orchestrator.Events())
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(ctx, "failed to close store", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(ctx, "recommendation service stopped")
}

// Ingest fills in missing IDs and timestamps, drops interactions whose ID
// was already seen and hands the rest to the orchestrator.
func (s *Service) Ingest(ctx context.Context, events []model.InteractionEvent) (types.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.IngestResult{}, ErrNotStarted
	}

	fresh := make([]model.InteractionEvent, 0, len(events))
	dups := 0
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = s.newID()
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = s.now()
		}
		if s.deduper.SeenAndRecord(ctx, ev.ID) {
			dups++
			s.logger.Debug(ctx, "duplicate interaction skipped", logger.String("id", ev.ID))
			continue
		}
		fresh = append(fresh, ev)
	}

	recs := s.recompute(ctx, fresh)
	s.ingested += int64(len(fresh))
	s.duplicates += int64(dups)
	metrics.RecordIngested(len(fresh))
	metrics.RecordDuplicates(dups)

	if s.persistOnIngest && len(fresh) > 0 {
		s.store.Save(ctx, s.orchestrator.Events())
	}

	return types.IngestResult{Accepted: len(fresh), Duplicates: dups, Recommendations: recs}, nil
}

// recompute must be called with s.mu held.
func (s *Service) recompute(ctx context.Context, events []model.InteractionEvent) []model.Recommendation {
	start := time.Now()
	recs := s.orchestrator.Ingest(events)
	elapsed := time.Since(start)

	s.lastUpdated = s.now()
	metrics.RecordRecompute(float64(elapsed.Microseconds())/1000, s.orchestrator.Len(), len(recs))
	s.logger.Debug(ctx, "recommendations recomputed",
		logger.Int("events", len(events)),
		logger.Int("history", s.orchestrator.Len()),
		logger.Int("recommendations", len(recs)),
		logger.Duration("took", elapsed),
	)
	return recs
}

// Recommendations returns the last published list truncated to limit.
// Zero means the default limit.
func (s *Service) Recommendations(_ context.Context, limit int) ([]model.Recommendation, error) {
	n, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	recs := s.orchestrator.Recommendations()
	if n < len(recs) {
		recs = recs[:n]
	}
	return recs, nil
}

// Filter scores the history on demand and returns the ranked rows that
// pass the threshold.
func (s *Service) Filter(_ context.Context, p types.FilterParams) ([]types.Entry, error) {
	n, err := s.resolveLimit(p.Limit)
	if err != nil {
		return nil, err
	}
	factor := s.decayFactor
	if p.DecayFactor != 0 {
		factor = p.DecayFactor
	}
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}
	history := s.orchestrator.Events()
	now := s.now()
	s.mu.Unlock()

	var scores scoring.ScoreMap
	if p.Decay {
		if scores, err = scoring.AnalyzeWithDecay(history, s.table, factor, now); err != nil {
			return nil, err
		}
	} else {
		scores = scoring.Analyze(history, s.table)
	}
	if p.Normalize {
		scores = scoring.Normalize(scores)
	}
	threshold := s.defaultThreshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	scores = scoring.FilterAboveThreshold(scores, threshold)
	metrics.RecordFilter(p.Decay, p.Normalize)

	top := ranking.Top(scores, n)
	rows := make([]types.Entry, len(top))
	for i, e := range top {
		rows[i] = types.Entry{Rank: i + 1, ItemID: e.ItemID, Score: e.Score}
	}
	return rows, nil
}

func (s *Service) resolveLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return s.defaultLimit, nil
	case limit < 0:
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidLimit, limit)
	case limit > s.maxLimit:
		return 0, fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidLimit, limit, s.maxLimit)
	default:
		return limit, nil
	}
}

// MaxLimit returns the largest accepted result count.
func (s *Service) MaxLimit() int { return s.maxLimit }

// Flush saves the current history.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.store.Save(ctx, s.orchestrator.Events())
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"started":         s.started,
		"dedupeSize":      s.dedupeSize,
		"persistOnIngest": s.persistOnIngest,
		"ingested":        s.ingested,
		"duplicates":      s.duplicates,
		"weights":         weightNames(s.table),
	}
	if s.started {
		stats["history"] = s.orchestrator.Len()
		stats["recommendations"] = len(s.orchestrator.Recommendations())
		stats["seenIDs"] = s.deduper.Size()
		if !s.lastUpdated.IsZero() {
			stats["lastUpdated"] = s.lastUpdated.UTC().Format(time.RFC3339)
		}
	}
	return stats
}

func weightNames(t weights.Table) map[string]float64 {
	out := make(map[string]float64, t.Len())
	for kind, w := range t.Map() {
		out[kind.String()] = w
	}
	return out
}
