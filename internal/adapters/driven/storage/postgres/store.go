// Package postgres provides the PostgreSQL implementation of the document
// and vector store ports, built on sqlx and lib/pq.
//
// Vectors are stored in DOUBLE PRECISION[] columns and metadata in JSONB.
// A BIGSERIAL column records insertion order for the bounded candidate scan.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// foreignKeyViolation is the PostgreSQL error code for foreign_key_violation.
const foreignKeyViolation = "23503"

// schema creates the tables if they do not exist.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id           TEXT PRIMARY KEY,
    owner_id     TEXT NOT NULL,
    title        TEXT NOT NULL,
    type         TEXT NOT NULL,
    jurisdiction TEXT NOT NULL DEFAULT 'federal',
    language     TEXT NOT NULL DEFAULT 'en',
    description  TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner_id);
CREATE TABLE IF NOT EXISTS document_embeddings (
    seq         BIGSERIAL UNIQUE,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    chunk_index INTEGER NOT NULL,
    content     TEXT NOT NULL,
    embedding   DOUBLE PRECISION[] NOT NULL,
    metadata    JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (document_id, chunk_index)
);`

// Store is a PostgreSQL database exposing the store ports.
type Store struct {
	db *sqlx.DB
}

var _ driven.HealthChecker = (*Store)(nil)

// New wraps an existing connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	s := New(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates missing tables and indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{db: s.db}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{db: s.db}
}

// pqCode returns the SQLSTATE of a lib/pq error, or "".
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
