package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

type embeddingRow struct {
	DocumentID string          `db:"document_id"`
	ChunkIndex int             `db:"chunk_index"`
	Content    string          `db:"content"`
	Embedding  pq.Float64Array `db:"embedding"`
	Metadata   []byte          `db:"metadata"`
}

func (r embeddingRow) toDomain() (domain.EmbeddingRecord, error) {
	rec := domain.EmbeddingRecord{
		DocumentID: r.DocumentID,
		ChunkIndex: r.ChunkIndex,
		Content:    r.Content,
		Vector:     []float64(r.Embedding),
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &rec.Metadata); err != nil {
			return rec, fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	return rec, nil
}

type candidateRow struct {
	embeddingRow
	Title        string `db:"title"`
	Type         string `db:"type"`
	Jurisdiction string `db:"jurisdiction"`
	Language     string `db:"language"`
}

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	db *sqlx.DB
}

var _ driven.VectorStore = (*vectorStore)(nil)

const insertEmbedding = `
	INSERT INTO document_embeddings (document_id, chunk_index, content, embedding, metadata)
	VALUES ($1, $2, $3, $4, $5)`

// ReplaceDocumentChunks swaps the document's embedding set in one transaction.
func (s *vectorStore) ReplaceDocumentChunks(
	ctx context.Context, documentID string, chunks []domain.ChunkEmbedding,
) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_embeddings WHERE document_id = $1`, documentID); err != nil {
		return 0, fmt.Errorf("deleting embeddings: %w", err)
	}

	for i, chunk := range chunks {
		meta, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertEmbedding,
			documentID, i, chunk.Content, pq.Float64Array(chunk.Vector), string(meta)); err != nil {
			if pqCode(err) == foreignKeyViolation {
				return 0, fmt.Errorf("inserting chunk %d: %w", i, domain.ErrNotFound)
			}
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
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertEmbedding+`
		ON CONFLICT (document_id, chunk_index) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		rec.DocumentID, rec.ChunkIndex, rec.Content, pq.Float64Array(rec.Vector), string(meta))
	if err != nil {
		if code := pqCode(err); code == foreignKeyViolation {
			return fmt.Errorf("upserting chunk: %w", domain.ErrNotFound)
		} else if code == uniqueViolation {
			return fmt.Errorf("upserting chunk: %w", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("upserting chunk: %w", err)
	}
	return nil
}

// GetChunks returns the document's records ordered by chunk index.
func (s *vectorStore) GetChunks(ctx context.Context, documentID string) ([]domain.EmbeddingRecord, error) {
	var rows []embeddingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT document_id, chunk_index, content, embedding, metadata
		FROM document_embeddings
		WHERE document_id = $1
		ORDER BY chunk_index`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}

	records := make([]domain.EmbeddingRecord, len(rows))
	for i, r := range rows {
		if records[i], err = r.toDomain(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ListCandidates returns the first filter.Limit records in insertion order.
func (s *vectorStore) ListCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	var rows []candidateRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT e.document_id, e.chunk_index, e.content, e.embedding, e.metadata,
			d.title, d.type, d.jurisdiction, d.language
		FROM document_embeddings e
		JOIN documents d ON d.id = e.document_id
		WHERE ($1 = '' OR d.owner_id = $1)
		ORDER BY e.seq
		LIMIT $2`, filter.OwnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}

	candidates := make([]domain.Candidate, len(rows))
	for i, r := range rows {
		rec, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		candidates[i] = domain.Candidate{
			EmbeddingRecord: rec,
			Document: domain.DocumentSummary{
				ID:           r.DocumentID,
				Title:        r.Title,
				Type:         domain.DocumentType(r.Type),
				Jurisdiction: r.Jurisdiction,
				Language:     domain.Language(r.Language),
			},
		}
	}
	return candidates, nil
}

// DeleteDocumentChunks removes every record of the document.
func (s *vectorStore) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM document_embeddings WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}
	return nil
}
