package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

type documentRow struct {
	ID           string    `db:"id"`
	OwnerID      string    `db:"owner_id"`
	Title        string    `db:"title"`
	Type         string    `db:"type"`
	Jurisdiction string    `db:"jurisdiction"`
	Language     string    `db:"language"`
	Description  string    `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r documentRow) toDomain() domain.Document {
	return domain.Document{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Title:        r.Title,
		Type:         domain.DocumentType(r.Type),
		Jurisdiction: r.Jurisdiction,
		Language:     domain.Language(r.Language),
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const documentColumns = `id, owner_id, title, type, jurisdiction, language, description, created_at, updated_at`

// documentStore implements driven.DocumentStore.
type documentStore struct {
	db *sqlx.DB
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			title = EXCLUDED.title,
			type = EXCLUDED.type,
			jurisdiction = EXCLUDED.jurisdiction,
			language = EXCLUDED.language,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.OwnerID, doc.Title, string(doc.Type), doc.Jurisdiction,
		string(doc.Language), doc.Description, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	doc := row.toDomain()
	return &doc, nil
}

// DeleteDocument removes a document; embeddings cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDocuments returns documents owned by ownerID, newest first.
func (s *documentStore) ListDocuments(ctx context.Context, ownerID string) ([]domain.Document, error) {
	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+documentColumns+` FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := make([]domain.Document, len(rows))
	for i, r := range rows {
		docs[i] = r.toDomain()
	}
	return docs, nil
}
