// Package embedding provides the batching client that sits between the
// core services and an upstream embedding provider.
package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.EmbeddingService = (*Client)(nil)

// Default client settings.
const (
	DefaultBatchSize   = 10
	DefaultConcurrency = 4
)

// Config holds client configuration.
type Config struct {
	// Model is the default model. Empty defers to the provider.
	Model string

	// BatchSize is the number of texts per upstream request (default: 10).
	BatchSize int

	// Concurrency bounds in-flight requests per EmbedBatch call (default: 4).
	Concurrency int

	// RequestsPerSecond rate-limits upstream requests across calls.
	// Zero disables limiting.
	RequestsPerSecond float64
}

// Client splits batches into sub-batches, dispatches them concurrently and
// reassembles the results in input order. It does not retry or cache.
type Client struct {
	provider    driven.EmbeddingProvider
	model       string
	batchSize   int
	concurrency int
	limiter     *rate.Limiter
}

// NewClient creates a batching client over provider.
func NewClient(provider driven.EmbeddingProvider, cfg Config) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	c := &Client{
		provider:    provider,
		model:       cfg.Model,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Concurrency)
	}
	return c
}

// DefaultModel returns the configured model, or the provider's default.
func (c *Client) DefaultModel() string {
	if c.model != "" {
		return c.model
	}
	return c.provider.DefaultModel()
}

// Embed generates a vector embedding for the given text.
func (c *Client) Embed(ctx context.Context, text, model string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text}, model)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for texts. result[i] corresponds to
// texts[i] regardless of the order in which sub-batches complete. A failed
// sub-batch cancels the rest and fails the call with domain.ErrUpstream.
func (c *Client) EmbedBatch(ctx context.Context, texts []string, model string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	if model == "" {
		model = c.DefaultModel()
	}

	logger.Debug("embedding: %d texts with model %s (batch size %d)", len(texts), model, c.batchSize)

	results := make([][]float64, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		g.Go(func() error {
			if c.limiter != nil {
				if err := c.limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limit wait: %w", err)
				}
			}
			vecs, err := c.provider.Embed(gctx, model, texts[start:end])
			if err != nil {
				return fmt.Errorf("texts [%d,%d): %w", start, end, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("texts [%d,%d): provider returned %d embeddings", start, end, len(vecs))
			}
			copy(results[start:end], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	dim := len(results[0])
	for i, vec := range results {
		if len(vec) == 0 || len(vec) != dim {
			return nil, fmt.Errorf("%w: embedding %d has dimension %d, expected %d", domain.ErrUpstream, i, len(vec), dim)
		}
	}

	return results, nil
}
