package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/logger"
)

// Ensure FileIngestService implements the interface.
var _ driving.FileIngestService = (*FileIngestService)(nil)

// FileIngestService extracts the text of uploaded files and hands it to
// the retrieval service.
type FileIngestService struct {
	retrieval driving.RetrievalService
	registry  driven.NormaliserRegistry
}

// NewFileIngestService creates a new file ingest service.
func NewFileIngestService(retrieval driving.RetrievalService, registry driven.NormaliserRegistry) *FileIngestService {
	return &FileIngestService{
		retrieval: retrieval,
		registry:  registry,
	}
}

// IngestFile normalises req.Data into text and ingests it into the document.
func (s *FileIngestService) IngestFile(
	ctx context.Context, userID string, req domain.IngestFileRequest,
) (*domain.IngestResult, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	if req.DocumentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}

	normalised, err := s.registry.Normalise(ctx, &domain.RawDocument{
		URI:      req.Filename,
		MIMEType: req.MIMEType,
		Content:  req.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting text from %q: %w", req.Filename, err)
	}
	if strings.TrimSpace(normalised.Content) == "" {
		return nil, fmt.Errorf("%w: no text found in %q", domain.ErrInvalidInput, req.Filename)
	}
	logger.Debug("File %q (%s): %d bytes -> %d chars of text",
		req.Filename, normalised.Format, len(req.Data), len(normalised.Content))

	res, err := s.retrieval.Ingest(ctx, userID, domain.IngestRequest{
		DocumentID: req.DocumentID,
		Content:    normalised.Content,
		ChunkSize:  req.ChunkSize,
		Overlap:    req.Overlap,
		Model:      req.Model,
	})
	if err != nil {
		return nil, err
	}
	res.Format = normalised.Format
	return res, nil
}
