package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

type recordingFiles struct {
	mu       sync.Mutex
	contents []string
	names    []string
}

func (r *recordingFiles) IngestFile(_ context.Context, _ string, req domain.IngestFileRequest) (*domain.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contents = append(r.contents, string(req.Data))
	r.names = append(r.names, req.Filename)
	return &domain.IngestResult{DocumentID: req.DocumentID, ChunksProcessed: 1, EmbeddingsGenerated: 1, Format: "text"}, nil
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Config{Path: "x", DocumentID: "d"})
	assert.Error(t, err)

	_, err = New(&recordingFiles{}, Config{Path: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatcher_ReingestsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "permit.txt")
	require.NoError(t, os.WriteFile(path, []byte("version one"), 0o600))

	files := &recordingFiles{}
	results := make(chan error, 10)
	w, err := New(files, Config{
		Path:       path,
		DocumentID: "permit-1",
		UserID:     "alice",
		Debounce:   20 * time.Millisecond,
		OnIngest:   func(_ *domain.IngestResult, err error) { results <- err },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("initial ingest did not run")
	}

	require.NoError(t, os.WriteFile(path, []byte("version two"), 0o600))

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("change was not re-ingested")
	}

	cancel()
	require.NoError(t, <-done)

	files.mu.Lock()
	defer files.mu.Unlock()
	assert.Equal(t, "version one", files.contents[0])
	assert.Equal(t, "version two", files.contents[len(files.contents)-1])
	assert.Equal(t, path, files.names[0])
}

func TestWatcher_MissingFileIsReported(t *testing.T) {
	dir := t.TempDir()
	results := make(chan error, 1)
	w, err := New(&recordingFiles{}, Config{
		Path:       filepath.Join(dir, "absent.txt"),
		DocumentID: "d",
		OnIngest:   func(_ *domain.IngestResult, err error) { results <- err },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()
	defer cancel()

	select {
	case err := <-results:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("initial ingest did not run")
	}
}
