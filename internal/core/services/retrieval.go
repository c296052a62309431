package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/logger"
	"github.com/custodia-labs/minereg/internal/postprocessors/chunker"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ingests document text into the vector store and ranks
// stored chunks against queries.
//
// Concurrent ingests of the same document are not serialised; the last
// replace to commit wins.
type RetrievalService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	docs     driven.DocumentStore
	settings domain.RetrievalSettings
	now      func() time.Time
}

// NewRetrievalService creates a new retrieval service.
// The embedder may be nil when no provider is configured; every
// operation then fails with domain.ErrEmbeddingUnavailable.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	docs driven.DocumentStore,
	settings domain.RetrievalSettings,
) *RetrievalService {
	defaults := domain.DefaultAppSettings().Retrieval
	if settings.ChunkSize <= 0 {
		settings.ChunkSize = defaults.ChunkSize
	}
	if settings.Overlap < 0 || settings.Overlap >= settings.ChunkSize {
		settings.Overlap = min(defaults.Overlap, settings.ChunkSize-1)
	}
	if settings.Limit <= 0 {
		settings.Limit = defaults.Limit
	}
	if !(settings.Threshold >= 0 && settings.Threshold <= 1) {
		settings.Threshold = defaults.Threshold
	}
	if settings.CandidateLimit <= 0 {
		settings.CandidateLimit = defaults.CandidateLimit
	}

	return &RetrievalService{
		embedder: embedder,
		vectors:  vectors,
		docs:     docs,
		settings: settings,
		now:      time.Now,
	}
}

// Settings returns the effective retrieval settings.
func (s *RetrievalService) Settings() domain.RetrievalSettings {
	return s.settings
}

// Ingest chunks the content, embeds every chunk and replaces the
// document's stored embeddings. Nothing is written unless every chunk
// was embedded.
func (s *RetrievalService) Ingest(
	ctx context.Context, userID string, req domain.IngestRequest,
) (*domain.IngestResult, error) {
	logger.Section("Ingest")

	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	if req.DocumentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = s.settings.ChunkSize
	}
	overlap := s.settings.Overlap
	if req.Overlap != nil {
		overlap = *req.Overlap
	} else if overlap >= chunkSize {
		overlap = 0
	}
	if err := chunker.Validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	doc, err := loadOwnedDocument(ctx, s.docs, userID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	texts, err := chunker.Split(req.Content, chunkSize, overlap)
	if err != nil {
		return nil, err
	}
	logger.Debug("Document %s: %d chars -> %d chunks (size=%d overlap=%d)",
		doc.ID, utf8.RuneCountInString(req.Content), len(texts), chunkSize, overlap)

	model := s.resolveModel(req.Model)
	done := logger.Timed("embed chunks")
	vectors, err := s.embedder.EmbedBatch(ctx, texts, model)
	done()
	if err != nil {
		return nil, fmt.Errorf("embedding chunks of %s: %w", doc.ID, err)
	}

	generatedAt := s.now().UTC()
	chunks := make([]domain.ChunkEmbedding, len(texts))
	for i, text := range texts {
		chunks[i] = domain.ChunkEmbedding{
			Content: text,
			Vector:  vectors[i],
			Metadata: domain.ChunkMetadata{
				Model:       model,
				GeneratedAt: generatedAt,
				OwnerID:     userID,
				ChunkSize:   chunkSize,
				Overlap:     overlap,
				TotalChunks: len(texts),
			},
		}
	}

	stored, err := s.vectors.ReplaceDocumentChunks(ctx, doc.ID, chunks)
	if err != nil {
		return nil, storeError("replacing embeddings of "+doc.ID, err)
	}
	logger.Info("Ingested %s: %d chunks, %d embeddings", doc.ID, len(texts), stored)

	return &domain.IngestResult{
		DocumentID:          doc.ID,
		ChunksProcessed:     len(texts),
		EmbeddingsGenerated: stored,
	}, nil
}

// EmbedText embeds raw text without chunking. When a single text is given
// together with a document the caller owns, the vector is also stored at
// chunk index 0; failure to store it is logged and does not fail the call.
func (s *RetrievalService) EmbedText(
	ctx context.Context, userID string, req domain.EmbedRequest,
) (*domain.EmbedResult, error) {
	logger.Section("Embed")

	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	single := req.Text != ""
	switch {
	case single && len(req.Texts) > 0:
		return nil, fmt.Errorf("%w: provide either text or texts, not both", domain.ErrInvalidInput)
	case !single && len(req.Texts) == 0:
		return nil, fmt.Errorf("%w: text or texts is required", domain.ErrInvalidInput)
	}
	for i, t := range req.Texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("%w: texts[%d] is empty", domain.ErrInvalidInput, i)
		}
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	model := s.resolveModel(req.Model)
	result := &domain.EmbedResult{Model: model}

	if !single {
		vectors, err := s.embedder.EmbedBatch(ctx, req.Texts, model)
		if err != nil {
			return nil, fmt.Errorf("embedding texts: %w", err)
		}
		if req.DocumentID != "" {
			logger.Debug("Ignoring document %s for batch embed", req.DocumentID)
		}
		result.Embeddings = vectors
		result.ProcessedCount = len(vectors)
		return result, nil
	}

	vector, err := s.embedder.Embed(ctx, req.Text, model)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	result.Embeddings = [][]float64{vector}
	result.ProcessedCount = 1

	if req.DocumentID != "" {
		result.Persisted = s.persistSingle(ctx, userID, req.DocumentID, req.Text, vector, model)
	}
	return result, nil
}

// persistSingle stores a single-text embedding as chunk 0 of the document.
func (s *RetrievalService) persistSingle(
	ctx context.Context, userID, documentID, text string, vector []float64, model string,
) bool {
	if _, err := loadOwnedDocument(ctx, s.docs, userID, documentID); err != nil {
		logger.Warn("Not storing embedding for %s: %v", documentID, err)
		return false
	}

	err := s.vectors.UpsertChunk(ctx, domain.EmbeddingRecord{
		DocumentID: documentID,
		ChunkIndex: 0,
		Content:    text,
		Vector:     vector,
		Metadata: domain.ChunkMetadata{
			Model:       model,
			GeneratedAt: s.now().UTC(),
			OwnerID:     userID,
			TotalChunks: 1,
		},
	})
	if err != nil {
		logger.Warn("Storing embedding for %s failed: %v", documentID, err)
		return false
	}
	return true
}

// Query embeds the text and ranks the candidate pool against it.
//
// The pool is the first retrieval.candidate_limit records in storage
// order, so chunks beyond that bound are never ranked.
func (s *RetrievalService) Query(
	ctx context.Context, userID string, req domain.QueryRequest,
) (*domain.QueryResult, error) {
	logger.Section("Query")

	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: query text is required", domain.ErrInvalidInput)
	}
	threshold := s.settings.Threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if !(threshold >= 0 && threshold <= 1) {
		return nil, fmt.Errorf("%w: threshold %v outside [0,1]", domain.ErrInvalidInput, threshold)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.settings.Limit
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	logger.Debug("Query: %q limit=%d threshold=%.2f", text, limit, threshold)

	vector, err := s.embedder.Embed(ctx, text, s.resolveModel(req.Model))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	filter := domain.CandidateFilter{Limit: s.settings.CandidateLimit}
	if s.settings.OwnerScoped {
		filter.OwnerID = userID
	}
	candidates, err := s.vectors.ListCandidates(ctx, filter)
	if err != nil {
		return nil, storeError("listing candidates", err)
	}
	if len(candidates) >= filter.Limit {
		logger.Debug("Candidate pool is full (%d); older chunks may be outside it", filter.Limit)
	}

	ranked, err := Rank(vector, candidates, threshold, limit)
	if err != nil {
		return nil, err
	}
	logger.Info("Ranked %d candidates, %d above %.2f", len(candidates), len(ranked), threshold)

	hits := make([]domain.QueryHit, len(ranked))
	for i, r := range ranked {
		hits[i] = domain.NewQueryHit(r)
	}
	return &domain.QueryResult{
		Query:      text,
		Results:    hits,
		Candidates: len(candidates),
	}, nil
}

func (s *RetrievalService) resolveModel(model string) string {
	if model != "" {
		return model
	}
	return s.embedder.DefaultModel()
}
