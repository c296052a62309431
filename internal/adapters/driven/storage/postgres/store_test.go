package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("closing mock db: %v", err)
		}
	})
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_SaveDocument(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	doc := &domain.Document{
		ID: "doc-1", OwnerID: "alice", Title: "Mines Act", Type: domain.DocumentTypeRegulation,
		Jurisdiction: "BC", Language: domain.LanguageEnglish, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "alice", "Mines Act", "regulation", "BC", "en", "", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.DocumentStore().SaveDocument(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_GetDocument(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "title", "type", "jurisdiction", "language", "description", "created_at", "updated_at",
	}).AddRow("doc-1", "alice", "Mines Act", "regulation", "federal", "fr", "d", now, now)
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").WithArgs("doc-1").WillReturnRows(rows)

	doc, err := store.DocumentStore().GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.OwnerID)
	assert.Equal(t, domain.LanguageFrench, doc.Language)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteDocument_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM documents").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DocumentStore().DeleteDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorStore_ReplaceDocumentChunks(t *testing.T) {
	store, mock := newMockStore(t)
	chunks := []domain.ChunkEmbedding{
		{Content: "a", Vector: []float64{1, 0}},
		{Content: "b", Vector: []float64{0, 1}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM document_embeddings").WithArgs("doc-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO document_embeddings").
		WithArgs("doc-1", 0, "a", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO document_embeddings").
		WithArgs("doc-1", 1, "b", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := store.VectorStore().ReplaceDocumentChunks(context.Background(), "doc-1", chunks)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorStore_ReplaceDocumentChunks_RollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM document_embeddings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO document_embeddings").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := store.VectorStore().ReplaceDocumentChunks(context.Background(), "doc-1",
		[]domain.ChunkEmbedding{{Content: "a", Vector: []float64{1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorStore_ReplaceDocumentChunks_MissingDocument(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM document_embeddings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO document_embeddings").
		WillReturnError(&pq.Error{Code: foreignKeyViolation})
	mock.ExpectRollback()

	_, err := store.VectorStore().ReplaceDocumentChunks(context.Background(), "ghost",
		[]domain.ChunkEmbedding{{Content: "a", Vector: []float64{1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_UpsertChunk(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO document_embeddings (.+) ON CONFLICT").
		WithArgs("doc-1", 0, "text", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.VectorStore().UpsertChunk(context.Background(), domain.EmbeddingRecord{
		DocumentID: "doc-1", Content: "text", Vector: []float64{0.1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorStore_GetChunks(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"document_id", "chunk_index", "content", "embedding", "metadata"}).
		AddRow("doc-1", 0, "first", "{0.5,0.25}", `{"model":"m","totalChunks":2}`).
		AddRow("doc-1", 1, "second", "{1,0}", `{}`)
	mock.ExpectQuery("SELECT (.+) FROM document_embeddings").WithArgs("doc-1").WillReturnRows(rows)

	records, err := store.VectorStore().GetChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []float64{0.5, 0.25}, records[0].Vector)
	assert.Equal(t, "m", records[0].Metadata.Model)
	assert.Equal(t, 2, records[0].Metadata.TotalChunks)
	assert.Equal(t, 1, records[1].ChunkIndex)
}

func TestVectorStore_ListCandidates(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{
		"document_id", "chunk_index", "content", "embedding", "metadata",
		"title", "type", "jurisdiction", "language",
	}).AddRow("doc-1", 0, "first", "{1,0}", `{}`, "Mines Act", "regulation", "federal", "en")

	mock.ExpectQuery("SELECT (.+) FROM document_embeddings e JOIN documents d").
		WithArgs("", domain.DefaultCandidateLimit).
		WillReturnRows(rows)

	candidates, err := store.VectorStore().ListCandidates(context.Background(), domain.CandidateFilter{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Mines Act", candidates[0].Document.Title)
	assert.Equal(t, "doc-1", candidates[0].Document.ID)
	assert.Equal(t, []float64{1, 0}, candidates[0].Vector)
	assert.NoError(t, mock.ExpectationsWereMet())
}
