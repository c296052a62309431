package mcp

import (
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval ingests and queries documents.
	Retrieval driving.RetrievalService

	// Document lists the principal's documents. Optional.
	Document driving.DocumentService

	// Answers drafts answers from retrieved passages. Optional; the
	// answer_question tool is only registered when set.
	Answers driving.AnswerService

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
