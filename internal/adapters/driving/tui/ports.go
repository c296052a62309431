// Package tui provides an interactive terminal user interface for minereg.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Retrieval answers similarity queries.
	Retrieval driving.RetrievalService

	// Document lists documents and their chunks. Optional.
	Document driving.DocumentService

	// UserID is the principal every call acts as.
	UserID string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.UserID == "" {
		return ErrMissingUserID
	}
	return nil
}
