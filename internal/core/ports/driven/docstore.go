package driven

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// DocumentStore persists registered documents.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document and its embedding records.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents owned by ownerID, newest first.
	ListDocuments(ctx context.Context, ownerID string) ([]domain.Document, error)
}
