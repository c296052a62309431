package embedding

import (
	"context"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// Ensure CachingService implements the interface.
var _ driven.EmbeddingService = (*CachingService)(nil)

// CachingService memoises single-text embeddings, which is what repeated
// queries produce. Batch calls pass straight through.
type CachingService struct {
	next  driven.EmbeddingService
	cache *lru.Cache[string, []float64]
}

// NewCachingService wraps next with an LRU cache of size entries.
func NewCachingService(next driven.EmbeddingService, size int) (*CachingService, error) {
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachingService{next: next, cache: cache}, nil
}

// DefaultModel returns the wrapped service's default model.
func (s *CachingService) DefaultModel() string {
	return s.next.DefaultModel()
}

// Embed returns a cached vector when the same text and model were seen before.
func (s *CachingService) Embed(ctx context.Context, text, model string) ([]float64, error) {
	if model == "" {
		model = s.next.DefaultModel()
	}
	key := model + "\x00" + text
	if vec, ok := s.cache.Get(key); ok {
		return slices.Clone(vec), nil
	}

	vec, err := s.next.Embed(ctx, text, model)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, slices.Clone(vec))
	return vec, nil
}

// EmbedBatch is not cached.
func (s *CachingService) EmbedBatch(ctx context.Context, texts []string, model string) ([][]float64, error) {
	return s.next.EmbedBatch(ctx, texts, model)
}

// Len returns the number of cached entries.
func (s *CachingService) Len() int {
	return s.cache.Len()
}
