package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "huggingface is valid", provider: AIProviderHuggingFace, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "unknown is invalid", provider: AIProvider("cohere"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderHuggingFace.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())

	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderHuggingFace.IsLocal())

	assert.Equal(t, "Hugging Face (cloud)", AIProviderHuggingFace.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"huggingface with key", EmbeddingSettings{Provider: AIProviderHuggingFace, APIKey: "hf_x"}, true},
		{"huggingface without key", EmbeddingSettings{Provider: AIProviderHuggingFace}, false},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"invalid provider", EmbeddingSettings{Provider: "nope", APIKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderHuggingFace, s.Embedding.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", s.Embedding.Model)
	assert.Equal(t, 10, s.Embedding.BatchSize)
	assert.Equal(t, 30*time.Second, s.Embedding.Timeout)
	assert.False(t, s.Embedding.IsConfigured(), "no api key by default")

	assert.Equal(t, 1000, s.Retrieval.ChunkSize)
	assert.Equal(t, 200, s.Retrieval.Overlap)
	assert.InDelta(t, 0.7, s.Retrieval.Threshold, 1e-9)
	assert.Equal(t, 10, s.Retrieval.Limit)
	assert.Equal(t, 1000, s.Retrieval.CandidateLimit)
	assert.False(t, s.Retrieval.OwnerScoped)

	assert.False(t, s.LLM.IsConfigured(), "answers are opt-in")
	assert.Equal(t, 120*time.Second, s.LLM.Timeout)

	assert.Equal(t, StorageDriverSQLite, s.Storage.Driver)
	assert.Equal(t, ":8080", s.Server.Addr)
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{"zero value", LLMSettings{}, false},
		{"anthropic with key", LLMSettings{Provider: AIProviderAnthropic, APIKey: "sk-ant"}, true},
		{"anthropic without key", LLMSettings{Provider: AIProviderAnthropic}, false},
		{"ollama without key", LLMSettings{Provider: AIProviderOllama}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultLLMModels_CoverProviders(t *testing.T) {
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, DefaultLLMModels()[p], p.String())
	}
	assert.NotContains(t, AllEmbeddingProviders(), AIProviderAnthropic)
}

func TestDefaultEmbeddingModels_HaveDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	for _, p := range AllEmbeddingProviders() {
		model, ok := DefaultEmbeddingModels()[p]
		require.True(t, ok, p.String())
		assert.Positive(t, dims[model], model)
	}
	assert.Equal(t, 384, dims[MultilingualEmbeddingModel])
}

func TestStorageDriver_IsValid(t *testing.T) {
	assert.True(t, StorageDriverSQLite.IsValid())
	assert.True(t, StorageDriverPostgres.IsValid())
	assert.True(t, StorageDriverMemory.IsValid())
	assert.False(t, StorageDriver("mysql").IsValid())
}
