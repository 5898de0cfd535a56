package fixtures

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
)

// wireEvent matches the POST /interactions request body.
type wireEvent struct {
	ID              string `json:"id"`
	ItemID          string `json:"itemID"`
	Timestamp       string `json:"timestamp"`
	InteractionType string `json:"interactionType"`
}

// SubmitStats summarizes a Submit run.
type SubmitStats struct {
	Batches    int
	Accepted   int
	Duplicates int
	Duration   time.Duration
}

// Submitter posts interactions to a running service in batches.
type Submitter struct {
	baseURL   string
	client    *http.Client
	batchSize int
	workers   int
}

// NewSubmitter creates a Submitter for the service at baseURL.
func NewSubmitter(baseURL string, batchSize, workers int, timeout time.Duration) *Submitter {
	if batchSize <= 0 {
		batchSize = 500
	}
	if workers <= 0 {
		workers = 1
	}
	return &Submitter{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		batchSize: batchSize,
		workers:   workers,
	}
}

// Submit sends events in batches using up to workers concurrent requests.
// The first failing batch cancels the rest.
func (s *Submitter) Submit(ctx context.Context, events []model.InteractionEvent) (SubmitStats, error) {
	start := time.Now()
	var accepted, duplicates, batches atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for lo := 0; lo < len(events); lo += s.batchSize {
		batch := events[lo:min(lo+s.batchSize, len(events))]
		g.Go(func() error {
			res, err := s.post(ctx, batch)
			if err != nil {
				return err
			}
			batches.Add(1)
			accepted.Add(int64(res.Accepted))
			duplicates.Add(int64(res.Duplicates))
			return nil
		})
	}
	err := g.Wait()

	return SubmitStats{
		Batches:    int(batches.Load()),
		Accepted:   int(accepted.Load()),
		Duplicates: int(duplicates.Load()),
		Duration:   time.Since(start),
	}, err
}

func (s *Submitter) post(ctx context.Context, batch []model.InteractionEvent) (types.IngestResult, error) {
	var res types.IngestResult

	body := make([]wireEvent, len(batch))
	for i, ev := range batch {
		body[i] = wireEvent{
			ID:              ev.ID,
			ItemID:          ev.ItemID,
			Timestamp:       ev.Timestamp.UTC().Format(time.RFC3339),
			InteractionType: ev.Kind.String(),
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return res, fmt.Errorf("failed to marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/interactions", bytes.NewReader(data))
	if err != nil {
		return res, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("failed to submit batch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("batch rejected with status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		return res, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}
