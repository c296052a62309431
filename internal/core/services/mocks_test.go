package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/minereg/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// fakeEmbedder assigns each distinct text a one-hot vector on first sight.
// Vectors can be pinned up front to engineer similarities.
type fakeEmbedder struct {
	mu         sync.Mutex
	dims       int
	vectors    map[string][]float64
	err        error
	calls      int
	lastModel  string
	lastInputs []string
}

func newFakeEmbedder(dims int) *fakeEmbedder {
	return &fakeEmbedder{dims: dims, vectors: make(map[string][]float64)}
}

func (f *fakeEmbedder) pin(text string, vec []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors[text] = vec
}

func (f *fakeEmbedder) vectorLocked(text string) []float64 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	v := make([]float64, f.dims)
	v[len(f.vectors)%f.dims] = 1
	f.vectors[text] = v
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text, model string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastModel = model
	f.lastInputs = []string{text}
	if f.err != nil {
		return nil, f.err
	}
	return f.vectorLocked(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string, model string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastModel = model
	f.lastInputs = texts
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = f.vectorLocked(t)
	}
	return out, nil
}

func (f *fakeEmbedder) DefaultModel() string { return "fake-model" }

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errDiskFull = errors.New("disk full")

// failingVectors fails writes while delegating reads to a memory store.
type failingVectors struct {
	*memory.Store
}

func (f failingVectors) ReplaceDocumentChunks(context.Context, string, []domain.ChunkEmbedding) (int, error) {
	return 0, errDiskFull
}

func (f failingVectors) UpsertChunk(context.Context, domain.EmbeddingRecord) error {
	return errDiskFull
}

func (f failingVectors) ListCandidates(context.Context, domain.CandidateFilter) ([]domain.Candidate, error) {
	return nil, errDiskFull
}

// countingVectors records the candidate filter it was asked for.
type countingVectors struct {
	*memory.Store
	filters []domain.CandidateFilter
}

func (c *countingVectors) ListCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	c.filters = append(c.filters, filter)
	return c.Store.ListCandidates(ctx, filter)
}

// pingFunc adapts a function to driven.HealthChecker.
type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func seedDocument(store *memory.Store, id, owner string) *domain.Document {
	doc := &domain.Document{
		ID:           id,
		OwnerID:      owner,
		Title:        fmt.Sprintf("Document %s", id),
		Type:         domain.DocumentTypeRegulation,
		Jurisdiction: domain.DefaultJurisdiction,
		Language:     domain.LanguageEnglish,
	}
	if err := store.SaveDocument(context.Background(), doc); err != nil {
		panic(err)
	}
	return doc
}

// fakeLLM records the last conversation and replies with a fixed answer.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return f.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}},
		driven.ChatOptions{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature})
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string         { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }
