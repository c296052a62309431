package driven

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// VectorStore persists embedding records keyed by (documentID, chunkIndex).
type VectorStore interface {
	// ReplaceDocumentChunks deletes every record of the document and inserts
	// chunks in one transaction. chunks[i] is stored at chunk index i.
	// Returns the number of records inserted.
	ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []domain.ChunkEmbedding) (int, error)

	// UpsertChunk inserts or overwrites a single record.
	UpsertChunk(ctx context.Context, rec domain.EmbeddingRecord) error

	// GetChunks returns the document's records ordered by chunk index.
	GetChunks(ctx context.Context, documentID string) ([]domain.EmbeddingRecord, error)

	// ListCandidates returns at most filter.Limit records in storage order,
	// joined with their owning document. This is a bounded scan, not a
	// nearest-neighbour index: once the corpus exceeds the limit, records
	// past it are never considered.
	ListCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error)

	// DeleteDocumentChunks removes every record of the document.
	DeleteDocumentChunks(ctx context.Context, documentID string) error
}

// HealthChecker is implemented by dependencies that can be pinged.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
