// Command seed fills the configured store, or a running service, with
// generated interactions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	repository "github.com/okian/affinity/internal/adapters/repository"
	"github.com/okian/affinity/internal/config"
	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/fixtures"
	"github.com/okian/affinity/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents = 1000
	defaultItems     = fixtures.DefaultItems
	defaultBatch     = 500
	defaultWorkers   = 4
	defaultTimeout   = 30 * time.Second
	defaultDays      = 30
)

func main() {
	var (
		numEvents = flag.Int("events", defaultNumEvents, "Number of interactions to generate")
		items     = flag.Int("items", defaultItems, "Size of the item pool")
		seed      = flag.Uint64("seed", 1, "Random seed; equal seeds produce equal histories")
		days      = flag.Int("days", defaultDays, "Spread timestamps over this many days before now")
		skew      = flag.Float64("skew", fixtures.DefaultSkew, "Zipf exponent for item popularity (<= 1 is uniform)")
		url       = flag.String("url", "", "Post to a running service at this base URL instead of writing the store")
		batch     = flag.Int("batch", defaultBatch, "Interactions per request when posting")
		workers   = flag.Int("workers", defaultWorkers, "Concurrent requests when posting")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	gen := fixtures.New(
		fixtures.WithSeed(*seed),
		fixtures.WithItems(*items),
		fixtures.WithSkew(*skew),
		fixtures.WithWindow(time.Now().UTC(), time.Duration(*days)*24*time.Hour),
	)
	events := gen.Events(*numEvents)

	var err error
	if *url != "" {
		err = submit(ctx, fixtures.NewSubmitter(*url, *batch, *workers, *timeout), events)
	} else {
		err = write(ctx, events)
	}
	if err != nil {
		logger.Get().Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}

func submit(ctx context.Context, sub *fixtures.Submitter, events []model.InteractionEvent) error {
	stats, err := sub.Submit(ctx, events)
	logger.Get().Info(ctx, "submitted interactions",
		logger.Int("batches", stats.Batches),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicates", stats.Duplicates),
		logger.Duration("took", stats.Duration),
	)
	return err
}

// write appends events to the history in the configured store.
func write(ctx context.Context, events []model.InteractionEvent) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StorePath, repository.WithLogger(logger.Get()))
	if err != nil {
		return err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	history := append(store.Load(ctx), events...)
	store.Save(ctx, history)
	logger.Get().Info(ctx, "wrote interactions",
		logger.String("driver", cfg.StoreDriver),
		logger.String("path", cfg.StorePath),
		logger.Int("added", len(events)),
		logger.Int("total", len(history)),
	)
	return nil
}
