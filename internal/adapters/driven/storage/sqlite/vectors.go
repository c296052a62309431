package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// ReplaceDocumentChunks swaps the document's embedding set in one transaction.
func (s *vectorStore) ReplaceDocumentChunks(
	ctx context.Context, documentID string, chunks []domain.ChunkEmbedding,
) (int, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_embeddings WHERE document_id = ?", documentID); err != nil {
		return 0, fmt.Errorf("deleting embeddings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_embeddings (document_id, chunk_index, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		metadataJSON, err := marshalMetadata(chunk.Metadata)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, documentID, i, chunk.Content,
			float64SliceToBytes(chunk.Vector), metadataJSON); err != nil {
			return 0, fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return len(chunks), nil
}

// UpsertChunk inserts or overwrites a single record.
func (s *vectorStore) UpsertChunk(ctx context.Context, rec domain.EmbeddingRecord) error {
	metadataJSON, err := marshalMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO document_embeddings (document_id, chunk_index, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id, chunk_index) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`, rec.DocumentID, rec.ChunkIndex, rec.Content, float64SliceToBytes(rec.Vector), metadataJSON)
	if err != nil {
		return fmt.Errorf("upserting chunk: %w", err)
	}
	return nil
}

// GetChunks returns the document's records ordered by chunk index.
func (s *vectorStore) GetChunks(ctx context.Context, documentID string) ([]domain.EmbeddingRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT document_id, chunk_index, content, embedding, metadata
		FROM document_embeddings WHERE document_id = ?
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var blob []byte
		var metadataJSON string
		if err := rows.Scan(&rec.DocumentID, &rec.ChunkIndex, &rec.Content, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := decodeRecord(&rec, blob, metadataJSON); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return records, nil
}

// ListCandidates returns the first filter.Limit records in insertion order.
func (s *vectorStore) ListCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	query := `
		SELECT e.document_id, e.chunk_index, e.content, e.embedding, e.metadata,
			d.title, d.type, d.jurisdiction, d.language
		FROM document_embeddings e
		JOIN documents d ON d.id = e.document_id`
	args := []any{}
	if filter.OwnerID != "" {
		query += " WHERE d.owner_id = ?"
		args = append(args, filter.OwnerID)
	}
	query += " ORDER BY e.rowid LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.Candidate, 0, limit)
	for rows.Next() {
		var c domain.Candidate
		var blob []byte
		var metadataJSON, docType, language string
		if err := rows.Scan(&c.DocumentID, &c.ChunkIndex, &c.Content, &blob, &metadataJSON,
			&c.Document.Title, &docType, &c.Document.Jurisdiction, &language); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		if err := decodeRecord(&c.EmbeddingRecord, blob, metadataJSON); err != nil {
			return nil, err
		}
		c.Document.ID = c.DocumentID
		c.Document.Type = domain.DocumentType(docType)
		c.Document.Language = domain.Language(language)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return candidates, nil
}

// DeleteDocumentChunks removes every record of the document.
func (s *vectorStore) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	if _, err := s.store.db.ExecContext(ctx,
		"DELETE FROM document_embeddings WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}
	return nil
}

func decodeRecord(rec *domain.EmbeddingRecord, blob []byte, metadataJSON string) error {
	vec, err := bytesToFloat64Slice(blob)
	if err != nil {
		return err
	}
	meta, err := unmarshalMetadata(metadataJSON)
	if err != nil {
		return err
	}
	rec.Vector = vec
	rec.Metadata = meta
	return nil
}
