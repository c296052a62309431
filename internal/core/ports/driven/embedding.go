package driven

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// EmbeddingProvider is a single upstream embedding API.
// One call is one upstream request; batching policy lives above it.
//
// Implementations include:
//   - Hugging Face feature-extraction pipeline
//   - OpenAI /embeddings
//   - Ollama /api/embeddings
type EmbeddingProvider interface {
	// Embed returns one vector per input, in input order.
	Embed(ctx context.Context, model string, inputs []string) ([][]float64, error)

	// DefaultModel returns the model used when none is requested.
	DefaultModel() string

	// Ping validates the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingService generates vector embeddings from text.
// An empty model selects the configured default.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text, model string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts.
	// result[i] corresponds to texts[i]. Any failure fails the whole call.
	EmbedBatch(ctx context.Context, texts []string, model string) ([][]float64, error)

	// DefaultModel returns the model used when none is requested.
	DefaultModel() string
}

// AIConfigValidator validates provider configuration by contacting it.
type AIConfigValidator interface {
	// ValidateEmbedding creates a provider from settings and pings it.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM creates an LLM service from settings and pings it.
	ValidateLLM(settings *domain.LLMSettings) error
}
