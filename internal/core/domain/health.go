package domain

import "time"

// HealthStatus is the state of a component.
type HealthStatus string

// Health states.
const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth is the result of probing one dependency.
type ComponentHealth struct {
	Status       HealthStatus  `json:"status"`
	Error        string        `json:"error,omitempty"`
	ResponseTime time.Duration `json:"responseTime"`
}

// HealthReport aggregates component checks.
type HealthReport struct {
	Status     HealthStatus               `json:"status"`
	CheckedAt  time.Time                  `json:"checkedAt"`
	Components map[string]ComponentHealth `json:"components"`
}

// Healthy reports whether every component is healthy.
func (r *HealthReport) Healthy() bool {
	return r.Status == HealthHealthy
}
