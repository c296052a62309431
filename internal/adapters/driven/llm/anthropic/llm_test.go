package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)

	s, err := NewLLMService(Config{APIKey: "sk-ant"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.ModelName())
}

func TestLLMService_Chat_LiftsSystemPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Answer in French.", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens, "max_tokens always set")

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Le plan "},{"type":"tool_use"},{"type":"text","text":"de fermeture."}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	s, err := NewLLMService(Config{APIKey: "sk-ant", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "Answer in French."},
		{Role: driven.RoleUser, Content: "closure plan?"},
	}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Le plan de fermeture.", out)
}

func TestLLMService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error payload", http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens too large"}}`, "anthropic error: max_tokens too large"},
		{"plain error body", http.StatusServiceUnavailable, `overloaded`, "status 503"},
		{"empty content", http.StatusOK, `{"content":[]}`, "no response content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)
			_, err = s.Generate(context.Background(), "q", driven.GenerateOptions{MaxTokens: 10})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLLMService_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
	}))
	defer srv.Close()

	s, err := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
}
