package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages registered documents and their stored chunks.
type DocumentService struct {
	docs    driven.DocumentStore
	vectors driven.VectorStore
	now     func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(docs driven.DocumentStore, vectors driven.VectorStore) *DocumentService {
	return &DocumentService{
		docs:    docs,
		vectors: vectors,
		now:     time.Now,
	}
}

// Register validates doc, assigns an ID if it has none and stores it
// owned by userID.
func (s *DocumentService) Register(ctx context.Context, userID string, doc *domain.Document) error {
	if err := requirePrincipal(userID); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: document is required", domain.ErrInvalidInput)
	}

	doc.Title = strings.TrimSpace(doc.Title)
	if doc.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if doc.Type == "" {
		doc.Type = domain.DocumentTypeOther
	}
	if !doc.Type.IsValid() {
		return fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidInput, doc.Type)
	}
	if doc.Language == "" {
		doc.Language = domain.LanguageEnglish
	}
	if !doc.Language.IsValid() {
		return fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidInput, doc.Language)
	}
	if doc.Jurisdiction == "" {
		doc.Jurisdiction = domain.DefaultJurisdiction
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	} else if _, err := s.docs.GetDocument(ctx, doc.ID); err == nil {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}

	now := s.now().UTC()
	doc.OwnerID = userID
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return storeError("saving document", err)
	}
	logger.Debug("Registered document %s (%s) for %s", doc.ID, doc.Type, userID)
	return nil
}

// Get retrieves a document owned by userID.
func (s *DocumentService) Get(ctx context.Context, userID, documentID string) (*domain.Document, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	return loadOwnedDocument(ctx, s.docs, userID, documentID)
}

// List returns the documents owned by userID, newest first.
func (s *DocumentService) List(ctx context.Context, userID string) ([]domain.Document, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocuments(ctx, userID)
	if err != nil {
		return nil, storeError("listing documents", err)
	}
	return docs, nil
}

// Delete removes a document owned by userID together with its embeddings.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID string) error {
	if err := requirePrincipal(userID); err != nil {
		return err
	}
	if _, err := loadOwnedDocument(ctx, s.docs, userID, documentID); err != nil {
		return err
	}
	if err := s.vectors.DeleteDocumentChunks(ctx, documentID); err != nil {
		return storeError("deleting embeddings", err)
	}
	if err := s.docs.DeleteDocument(ctx, documentID); err != nil {
		return storeError("deleting document", err)
	}
	logger.Debug("Deleted document %s", documentID)
	return nil
}

// Chunks returns the stored embedding records of a document owned by userID.
func (s *DocumentService) Chunks(ctx context.Context, userID, documentID string) ([]domain.EmbeddingRecord, error) {
	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	if _, err := loadOwnedDocument(ctx, s.docs, userID, documentID); err != nil {
		return nil, err
	}
	records, err := s.vectors.GetChunks(ctx, documentID)
	if err != nil {
		return nil, storeError("loading chunks", err)
	}
	return records, nil
}
