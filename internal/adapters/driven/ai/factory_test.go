package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/adapters/driven/embedding"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
		model    string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name:     "huggingface without key is unconfigured",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderHuggingFace},
			wantNil:  true,
		},
		{
			name: "huggingface provider",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderHuggingFace,
				APIKey:   "hf_key",
			},
			model: "sentence-transformers/all-MiniLM-L6-v2",
		},
		{
			name: "openai provider",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-large",
			},
			model: "text-embedding-3-large",
		},
		{
			name:     "ollama provider",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama},
			model:    "nomic-embed-text",
		},
		{
			name:     "unknown provider returns nil (not configured)",
			settings: &domain.EmbeddingSettings{Provider: "unknown", APIKey: "k"},
			wantNil:  true,
		},
		{
			name:     "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CreateEmbeddingProvider(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.model, p.DefaultModel())
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("unconfigured yields empty result", func(t *testing.T) {
		res, err := Init(&domain.EmbeddingSettings{})
		require.NoError(t, err)
		assert.Nil(t, res.Provider)
		assert.Nil(t, res.Embedding)
	})

	t.Run("cache enabled wraps the client", func(t *testing.T) {
		res, err := Init(&domain.EmbeddingSettings{
			Provider:  domain.AIProviderOllama,
			CacheSize: 16,
		})
		require.NoError(t, err)
		defer res.Close()
		assert.IsType(t, &embedding.CachingService{}, res.Embedding)
	})

	t.Run("cache disabled returns the client", func(t *testing.T) {
		res, err := Init(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})
		require.NoError(t, err)
		assert.IsType(t, &embedding.Client{}, res.Embedding)
	})

	t.Run("end to end through the client", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[[0.6,0.8],[1,0]]`))
		}))
		defer srv.Close()

		res, err := Init(&domain.EmbeddingSettings{
			Provider: domain.AIProviderHuggingFace,
			APIKey:   "hf_key",
			BaseURL:  srv.URL,
		})
		require.NoError(t, err)

		vecs, err := res.Embedding.EmbedBatch(context.Background(), []string{"a", "b"}, "")
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{0.6, 0.8}, {1, 0}}, vecs)
	})
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		model    string
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "zero settings", settings: &domain.LLMSettings{}, wantNil: true},
		{name: "anthropic without key", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic}, wantNil: true},
		{name: "ollama", settings: &domain.LLMSettings{Provider: domain.AIProviderOllama}, model: "llama3.2"},
		{
			name:     "openai",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk", Model: "gpt-4o"},
			model:    "gpt-4o",
		},
		{
			name:     "huggingface router",
			settings: &domain.LLMSettings{Provider: domain.AIProviderHuggingFace, APIKey: "hf", Model: "meta-llama/Llama-3.1-8B-Instruct"},
			model:    "meta-llama/Llama-3.1-8B-Instruct",
		},
		{
			name:     "anthropic",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "sk-ant"},
			model:    "claude-3-5-sonnet-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.model, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestInitLLM_HuggingFaceUsesRouter(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"drafted"}}]}`))
	}))
	defer srv.Close()

	svc, err := InitLLM(&domain.LLMSettings{
		Provider: domain.AIProviderHuggingFace,
		APIKey:   "hf_key",
		BaseURL:  srv.URL,
		Model:    "mistralai/Mistral-7B-Instruct-v0.3",
	})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "drafted", out)
	assert.Equal(t, "/chat/completions", path)

	none, err := InitLLM(&domain.LLMSettings{})
	require.NoError(t, err)
	assert.Nil(t, none)
}
