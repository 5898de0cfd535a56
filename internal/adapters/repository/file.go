package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

const (
	fileStoreName = "file"
	filePerm      = 0o644
	dirPerm       = 0o755
)

// FileStore keeps the history as one JSON array in a file.
type FileStore struct {
	path string
	log  logger.Logger
}

// NewFileStore returns a store backed by the file at path. The file does
// not need to exist yet.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := newSettings(opts)
	return &FileStore{path: path, log: s.log.Named("file_store")}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the history. A missing, unreadable or corrupt file yields an
// empty history.
func (s *FileStore) Load(ctx context.Context) []model.InteractionEvent {
	start := time.Now()
	events, err := s.load()
	metrics.RecordPersistence(fileStoreName, "load", sinceMs(start))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug(ctx, "no saved interactions", logger.String("path", s.path))
		} else {
			metrics.RecordPersistenceError(fileStoreName, "load")
			s.log.Warn(ctx, "discarding unreadable interactions file", logger.String("path", s.path), logger.Error(err))
		}
		return []model.InteractionEvent{}
	}
	s.log.Debug(ctx, "loaded interactions", logger.String("path", s.path), logger.Int("events", len(events)))
	return events
}

// Save writes the history. Failures are logged, not returned.
func (s *FileStore) Save(ctx context.Context, events []model.InteractionEvent) {
	start := time.Now()
	err := s.save(events)
	metrics.RecordPersistence(fileStoreName, "save", sinceMs(start))
	if err != nil {
		metrics.RecordPersistenceError(fileStoreName, "save")
		s.log.Error(ctx, "failed to save interactions", logger.String("path", s.path), logger.Error(err))
		return
	}
	s.log.Debug(ctx, "saved interactions", logger.String("path", s.path), logger.Int("events", len(events)))
}

func (s *FileStore) load() ([]model.InteractionEvent, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	events, err := DecodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return events, nil
}

// save writes to a temp file in the same directory and renames it over
// the target so readers never see a partial file.
func (s *FileStore) save(events []model.InteractionEvent) error {
	data, err := EncodeEvents(events)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
