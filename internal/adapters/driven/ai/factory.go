// Package ai provides factory functions for creating embedding and LLM adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/minereg/internal/adapters/driven/embedding"
	"github.com/custodia-labs/minereg/internal/adapters/driven/embedding/huggingface"
	"github.com/custodia-labs/minereg/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/minereg/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/minereg/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/minereg/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/minereg/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of embedding initialisation.
// Both fields are nil when no provider is configured.
type InitResult struct {
	Provider  driven.EmbeddingProvider
	Embedding driven.EmbeddingService
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Provider != nil {
		r.Provider.Close()
	}
}

// Init builds the provider, the batching client and, when enabled, the
// query cache. An unconfigured provider is not an error.
func Init(settings *domain.EmbeddingSettings) (*InitResult, error) {
	provider, err := CreateEmbeddingProvider(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'minereg settings wizard' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if provider == nil {
		return &InitResult{}, nil
	}

	var svc driven.EmbeddingService = embedding.NewClient(provider, embedding.Config{
		Model:             settings.Model,
		BatchSize:         settings.BatchSize,
		Concurrency:       settings.Concurrency,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if settings.CacheSize > 0 {
		cached, err := embedding.NewCachingService(svc, settings.CacheSize)
		if err != nil {
			provider.Close()
			return nil, err
		}
		svc = cached
	}

	return &InitResult{Provider: provider, Embedding: svc}, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a provider and pinging it.
// This is intended for use in the settings wizard to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	provider, err := CreateEmbeddingProvider(settings)
	if err != nil {
		return err
	}
	if provider == nil {
		return nil
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return provider.Ping(ctx)
}

// CreateEmbeddingProvider creates the appropriate provider based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHuggingFace:
		return createHuggingFace(settings)

	case domain.AIProviderOpenAI:
		return createOpenAI(settings)

	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// createHuggingFace creates a Hugging Face provider.
func createHuggingFace(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	p, err := huggingface.New(huggingface.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// createOpenAI creates an OpenAI provider.
func createOpenAI(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	p, err := openai.New(openai.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// InitLLM builds the answer-drafting model. An unconfigured provider
// returns a nil service and no error.
func InitLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'minereg settings llm' to fix", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderHuggingFace:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = openaillm.HuggingFaceBaseURL
		}
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: baseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
			Name:    string(domain.AIProviderHuggingFace),
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
