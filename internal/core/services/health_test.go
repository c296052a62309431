package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

func TestHealthService_AllHealthy(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	settings := domain.EmbeddingSettings{Provider: domain.AIProviderHuggingFace, APIKey: "hf_x"}

	report := NewHealthService(ok, ok, settings).Check(context.Background())

	assert.True(t, report.Healthy())
	assert.Len(t, report.Components, 3)
	for name, c := range report.Components {
		assert.Equal(t, domain.HealthHealthy, c.Status, name)
		assert.Empty(t, c.Error, name)
	}
}

func TestHealthService_Failures(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	settings := domain.EmbeddingSettings{Provider: domain.AIProviderHuggingFace}

	report := NewHealthService(down, nil, settings).Check(context.Background())

	assert.False(t, report.Healthy())
	assert.Equal(t, "connection refused", report.Components[ComponentDatabase].Error)
	assert.Equal(t, domain.HealthUnhealthy, report.Components[ComponentEmbedding].Status)
	assert.Equal(t, "huggingface api key missing", report.Components[ComponentConfiguration].Error)
}

func TestHealthService_PingHasDeadline(t *testing.T) {
	var hasDeadline bool
	pinger := pingFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	NewHealthService(pinger, nil, domain.EmbeddingSettings{}).Check(context.Background())

	assert.True(t, hasDeadline)
}
