// Package mcp provides an MCP (Model Context Protocol) server adapter for minereg.
// It lets AI assistants ingest regulatory documents and run similarity
// queries against them.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrMissingUserID is returned when no principal is configured for the server.
var ErrMissingUserID = errors.New("mcp: user id is required (set server.user_id or MINEREG_USER_ID)")

// toolError converts a service error into the message shown to the assistant.
// Internal details never leave the process.
func toolError(err error) error {
	p := domain.NewErrorPayload(err)
	return fmt.Errorf("%s: %s", p.Kind, p.Message)
}
