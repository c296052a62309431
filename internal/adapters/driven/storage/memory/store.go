// Package memory provides in-memory implementations of the store ports,
// used by tests and by the "memory" storage driver.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.VectorStore   = (*Store)(nil)
	_ driven.HealthChecker = (*Store)(nil)
)

// Store keeps documents and embedding records in memory. Records are held
// in insertion order, which is the candidate scan order.
type Store struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	records   []domain.EmbeddingRecord
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]domain.Document),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// SaveDocument stores or updates a document.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a document and its embeddings.
func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	s.dropRecordsLocked(id)
	return nil
}

// ListDocuments returns documents owned by ownerID, newest first.
func (s *Store) ListDocuments(_ context.Context, ownerID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	slices.SortFunc(docs, func(a, b domain.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return docs, nil
}

// ReplaceDocumentChunks swaps the document's embedding set under one lock.
func (s *Store) ReplaceDocumentChunks(_ context.Context, documentID string, chunks []domain.ChunkEmbedding) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[documentID]; !ok {
		return 0, domain.ErrNotFound
	}

	s.dropRecordsLocked(documentID)
	for i, c := range chunks {
		s.records = append(s.records, domain.EmbeddingRecord{
			DocumentID: documentID,
			ChunkIndex: i,
			Content:    c.Content,
			Vector:     slices.Clone(c.Vector),
			Metadata:   cloneMetadata(c.Metadata),
		})
	}
	return len(chunks), nil
}

// UpsertChunk inserts or overwrites a single record in place.
func (s *Store) UpsertChunk(_ context.Context, rec domain.EmbeddingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[rec.DocumentID]; !ok {
		return domain.ErrNotFound
	}

	rec = cloneRecord(rec)
	for i := range s.records {
		if s.records[i].DocumentID == rec.DocumentID && s.records[i].ChunkIndex == rec.ChunkIndex {
			s.records[i] = rec
			return nil
		}
	}
	s.records = append(s.records, rec)
	return nil
}

// GetChunks returns the document's records ordered by chunk index.
func (s *Store) GetChunks(_ context.Context, documentID string) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.EmbeddingRecord
	for _, rec := range s.records {
		if rec.DocumentID == documentID {
			out = append(out, cloneRecord(rec))
		}
	}
	slices.SortFunc(out, func(a, b domain.EmbeddingRecord) int {
		return cmp.Compare(a.ChunkIndex, b.ChunkIndex)
	})
	return out, nil
}

// ListCandidates returns the first filter.Limit records in insertion order.
func (s *Store) ListCandidates(_ context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Candidate, 0, min(limit, len(s.records)))
	for _, rec := range s.records {
		if len(out) == limit {
			break
		}
		doc, ok := s.documents[rec.DocumentID]
		if !ok {
			continue
		}
		if filter.OwnerID != "" && doc.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, domain.Candidate{EmbeddingRecord: cloneRecord(rec), Document: doc.Summary()})
	}
	return out, nil
}

// DeleteDocumentChunks removes every record of the document.
func (s *Store) DeleteDocumentChunks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropRecordsLocked(documentID)
	return nil
}

func (s *Store) dropRecordsLocked(documentID string) {
	s.records = slices.DeleteFunc(s.records, func(r domain.EmbeddingRecord) bool {
		return r.DocumentID == documentID
	})
}

// cloneRecord detaches the slice and map fields from the caller's copy.
func cloneRecord(rec domain.EmbeddingRecord) domain.EmbeddingRecord {
	rec.Vector = slices.Clone(rec.Vector)
	rec.Metadata = cloneMetadata(rec.Metadata)
	return rec
}

func cloneMetadata(m domain.ChunkMetadata) domain.ChunkMetadata {
	m.Extra = maps.Clone(m.Extra)
	return m
}
