package driving

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// DocumentService manages the caller's registered documents.
type DocumentService interface {
	// Register validates and stores a new document, assigning its ID.
	Register(ctx context.Context, userID string, doc *domain.Document) error

	// Get retrieves a document owned by the caller.
	Get(ctx context.Context, userID, documentID string) (*domain.Document, error)

	// List returns the caller's documents.
	List(ctx context.Context, userID string) ([]domain.Document, error)

	// Delete removes a document and its embeddings.
	Delete(ctx context.Context, userID, documentID string) error

	// Chunks returns the stored embedding records of a document.
	Chunks(ctx context.Context, userID, documentID string) ([]domain.EmbeddingRecord, error)
}

// HealthService reports the state of external dependencies.
type HealthService interface {
	Check(ctx context.Context) *domain.HealthReport
}
