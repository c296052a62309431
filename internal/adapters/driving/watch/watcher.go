// Package watch re-ingests a file into a document whenever it changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Config describes what to watch.
type Config struct {
	Path       string
	DocumentID string
	UserID     string
	ChunkSize  int
	Overlap    *int
	Debounce   time.Duration

	// OnIngest is called after every ingest attempt. Optional.
	OnIngest func(*domain.IngestResult, error)
}

// Watcher re-ingests Config.Path into Config.DocumentID on every write.
// Ingests run one at a time on the Run goroutine.
type Watcher struct {
	cfg       Config
	files     driving.FileIngestService
	watcher   *fsnotify.Watcher
}

// New creates a watcher. The parent directory is watched so editors that
// replace the file on save are still seen.
func New(files driving.FileIngestService, cfg Config) (*Watcher, error) {
	if files == nil {
		return nil, errors.New("watch: file ingest service is required")
	}
	if cfg.Path == "" || cfg.DocumentID == "" {
		return nil, fmt.Errorf("%w: path and document id are required", domain.ErrInvalidInput)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}
	cfg.Path = abs

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{cfg: cfg, files: files, watcher: fw}, nil
}

// Run ingests the file once, then again after every change, until ctx is
// cancelled. Ingest failures are reported and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.ingest(ctx)

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.cfg.Path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(w.cfg.Debounce)
			}

		case <-timer.C:
			w.ingest(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.cfg.Path, err)
		}
	}
}

func (w *Watcher) ingest(ctx context.Context) {
	res, err := w.ingestOnce(ctx)
	if err != nil {
		logger.Warn("re-ingest of %s failed: %v", w.cfg.Path, err)
	} else {
		logger.Info("Re-ingested %s into %s: %d chunks", w.cfg.Path, res.DocumentID, res.ChunksProcessed)
	}
	if w.cfg.OnIngest != nil {
		w.cfg.OnIngest(res, err)
	}
}

func (w *Watcher) ingestOnce(ctx context.Context) (*domain.IngestResult, error) {
	data, err := os.ReadFile(w.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", w.cfg.Path, err)
	}
	return w.files.IngestFile(ctx, w.cfg.UserID, domain.IngestFileRequest{
		DocumentID: w.cfg.DocumentID,
		Filename:   w.cfg.Path,
		Data:       data,
		ChunkSize:  w.cfg.ChunkSize,
		Overlap:    w.cfg.Overlap,
	})
}
