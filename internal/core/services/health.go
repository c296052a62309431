package services

import (
	"context"
	"time"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// Health component names.
const (
	ComponentDatabase      = "database"
	ComponentEmbedding     = "embedding"
	ComponentConfiguration = "configuration"
)

// HealthService pings the store and the embedding provider.
type HealthService struct {
	store     driven.HealthChecker
	embedding driven.HealthChecker
	settings  domain.EmbeddingSettings
	timeout   time.Duration
}

// NewHealthService creates a new health service.
// embedding may be nil when no provider is configured.
func NewHealthService(
	store, embedding driven.HealthChecker, settings domain.EmbeddingSettings,
) *HealthService {
	return &HealthService{
		store:     store,
		embedding: embedding,
		settings:  settings,
		timeout:   5 * time.Second,
	}
}

// Check pings every component. The report is healthy only if all are.
func (s *HealthService) Check(ctx context.Context) *domain.HealthReport {
	report := &domain.HealthReport{
		Status:     domain.HealthHealthy,
		CheckedAt:  time.Now().UTC(),
		Components: make(map[string]domain.ComponentHealth, 3),
	}

	report.Components[ComponentDatabase] = s.check(ctx, s.store, "no store configured")
	report.Components[ComponentEmbedding] = s.check(ctx, s.embedding, "embedding provider not configured")

	config := domain.ComponentHealth{Status: domain.HealthHealthy}
	if !s.settings.IsConfigured() {
		config.Status = domain.HealthUnhealthy
		if s.settings.Provider.RequiresAPIKey() && s.settings.APIKey == "" {
			config.Error = s.settings.Provider.String() + " api key missing"
		} else {
			config.Error = "invalid embedding provider " + s.settings.Provider.String()
		}
	}
	report.Components[ComponentConfiguration] = config

	for _, c := range report.Components {
		if c.Status != domain.HealthHealthy {
			report.Status = domain.HealthUnhealthy
			break
		}
	}
	return report
}

func (s *HealthService) check(ctx context.Context, checker driven.HealthChecker, missing string) domain.ComponentHealth {
	if checker == nil {
		return domain.ComponentHealth{Status: domain.HealthUnhealthy, Error: missing}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := checker.Ping(ctx)
	health := domain.ComponentHealth{
		Status:       domain.HealthHealthy,
		ResponseTime: time.Since(start),
	}
	if err != nil {
		health.Status = domain.HealthUnhealthy
		health.Error = err.Error()
	}
	return health
}
