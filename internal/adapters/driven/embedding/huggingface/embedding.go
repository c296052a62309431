// Package huggingface provides an embedding provider backed by the
// Hugging Face inference API feature-extraction pipeline.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.EmbeddingProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api-inference.huggingface.co"
	DefaultModel   = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Hugging Face provider.
type Config struct {
	// APIKey is the Hugging Face access token (required).
	APIKey string

	// BaseURL is the inference API base URL (default: https://api-inference.huggingface.co).
	BaseURL string

	// Model is the default model (default: sentence-transformers/all-MiniLM-L6-v2).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Provider calls the feature-extraction pipeline.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type featureRequest struct {
	Inputs  []string       `json:"inputs"`
	Options featureOptions `json:"options"`
}

type featureOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type errorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// New creates a Hugging Face embedding provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("huggingface: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Provider{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Embed runs feature extraction for inputs in one request.
func (p *Provider) Embed(ctx context.Context, model string, inputs []string) ([][]float64, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if model == "" {
		model = p.model
	}

	jsonBody, err := json.Marshal(featureRequest{
		Inputs:  inputs,
		Options: featureOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/pipeline/feature-extraction/"+model,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("huggingface error (status %d): %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("huggingface error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	vectors, err := decodeVectors(body, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return vectors, nil
}

// decodeVectors accepts the shapes the pipeline returns: one vector per
// input, one token matrix per input (the first row is used), or a bare
// vector when a single input was sent.
func decodeVectors(body []byte, n int) ([][]float64, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	if n == 1 && len(items) > 0 && isNumber(items[0]) {
		var flat []float64
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, err
		}
		return [][]float64{flat}, nil
	}

	if len(items) != n {
		return nil, fmt.Errorf("expected %d embeddings, got %d", n, len(items))
	}

	vectors := make([][]float64, n)
	for i, item := range items {
		var vec []float64
		if err := json.Unmarshal(item, &vec); err == nil {
			vectors[i] = vec
			continue
		}
		var matrix [][]float64
		if err := json.Unmarshal(item, &matrix); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
		if len(matrix) == 0 {
			return nil, fmt.Errorf("embedding %d: empty matrix", i)
		}
		vectors[i] = matrix[0]
	}
	return vectors, nil
}

func isNumber(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s[0] != '[' && s[0] != '{'
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// DefaultModel returns the configured default model.
func (p *Provider) DefaultModel() string {
	return p.model
}

// Ping runs a one-input extraction against the default model.
// The inference API has no cheaper authenticated endpoint.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.Embed(ctx, "", []string{"ping"}); err != nil {
		return fmt.Errorf("huggingface: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
