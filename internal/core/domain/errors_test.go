package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAccessDenied", ErrAccessDenied},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrUpstream", ErrUpstream},
		{"ErrStore", ErrStore},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrDimensionMismatch_IsInvalidInput(t *testing.T) {
	assert.True(t, errors.Is(ErrDimensionMismatch, ErrInvalidInput))
	assert.False(t, errors.Is(ErrInvalidInput, ErrDimensionMismatch))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"invalid input", fmt.Errorf("chunk: %w", ErrInvalidInput), KindInvalidArgument},
		{"dimension mismatch", ErrDimensionMismatch, KindInvalidArgument},
		{"not found", ErrNotFound, KindNotFound},
		{"foreign document", fmt.Errorf("%w: %w", ErrNotFound, ErrAccessDenied), KindNotFound},
		{"access denied", ErrAccessDenied, KindAccessDenied},
		{"already exists", fmt.Errorf("document x: %w", ErrAlreadyExists), KindAlreadyExists},
		{"upstream", fmt.Errorf("%w: timeout", ErrUpstream), KindUpstream},
		{"unconfigured", ErrEmbeddingUnavailable, KindUpstream},
		{"no llm", fmt.Errorf("%w: set llm.provider", ErrLLMUnavailable), KindUpstream},
		{"store", fmt.Errorf("%w: disk full", ErrStore), KindStore},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNewErrorPayload(t *testing.T) {
	p := NewErrorPayload(fmt.Errorf("%w: status 429", ErrUpstream))
	assert.Equal(t, KindUpstream, p.Kind)
	assert.Contains(t, p.Message, "status 429")

	p = NewErrorPayload(errors.New("pq: password authentication failed"))
	assert.Equal(t, KindInternal, p.Kind)
	assert.Equal(t, "internal error", p.Message)
}
