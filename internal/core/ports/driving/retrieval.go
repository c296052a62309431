package driving

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// RetrievalService ingests document text and answers similarity queries.
// userID is an already-authenticated principal.
type RetrievalService interface {
	// Ingest chunks, embeds and stores a document's content, replacing any
	// previous embeddings of that document.
	Ingest(ctx context.Context, userID string, req domain.IngestRequest) (*domain.IngestResult, error)

	// EmbedText returns embeddings for raw text without chunking.
	EmbedText(ctx context.Context, userID string, req domain.EmbedRequest) (*domain.EmbedResult, error)

	// Query ranks stored chunks by similarity to the query text.
	Query(ctx context.Context, userID string, req domain.QueryRequest) (*domain.QueryResult, error)
}

// FileIngestService ingests uploaded files, extracting their text first.
type FileIngestService interface {
	// IngestFile extracts the text of req.Data and ingests it like
	// RetrievalService.Ingest.
	IngestFile(ctx context.Context, userID string, req domain.IngestFileRequest) (*domain.IngestResult, error)
}

// AnswerService drafts answers to questions from the caller's documents.
type AnswerService interface {
	// Answer ranks passages like RetrievalService.Query and has the
	// configured model answer from the top ones.
	Answer(ctx context.Context, userID string, req domain.AnswerRequest) (*domain.AnswerResult, error)
}
