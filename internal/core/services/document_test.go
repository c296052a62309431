package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/minereg/internal/core/domain"
)

func newDocuments() (*DocumentService, *memory.Store) {
	store := memory.NewStore()
	return NewDocumentService(store, store), store
}

func TestDocumentService_Register(t *testing.T) {
	svc, store := newDocuments()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	doc := &domain.Document{Title: "  Metal and Diamond Mining Effluent Regulations ", Type: domain.DocumentTypeRegulation}
	require.NoError(t, svc.Register(context.Background(), alice, doc))

	_, err := uuid.Parse(doc.ID)
	assert.NoError(t, err, "assigned id is a uuid")
	assert.Equal(t, alice, doc.OwnerID)
	assert.Equal(t, "Metal and Diamond Mining Effluent Regulations", doc.Title)
	assert.Equal(t, domain.DefaultJurisdiction, doc.Jurisdiction)
	assert.Equal(t, domain.LanguageEnglish, doc.Language)
	assert.Equal(t, fixed, doc.CreatedAt)

	stored, err := store.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, stored.Title)
}

func TestDocumentService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  *domain.Document
	}{
		{"nil", nil},
		{"no title", &domain.Document{Title: " "}},
		{"bad type", &domain.Document{Title: "t", Type: "memo"}},
		{"bad language", &domain.Document{Title: "t", Language: "de"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newDocuments()
			err := svc.Register(context.Background(), alice, tt.doc)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestDocumentService_RegisterExistingID(t *testing.T) {
	svc, store := newDocuments()
	seedDocument(store, "doc-1", "bob")

	err := svc.Register(context.Background(), alice, &domain.Document{ID: "doc-1", Title: "t"})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	stored, _ := store.GetDocument(context.Background(), "doc-1")
	assert.Equal(t, "bob", stored.OwnerID)
}

func TestDocumentService_GetEnforcesOwnership(t *testing.T) {
	svc, store := newDocuments()
	ctx := context.Background()
	seedDocument(store, "doc-1", alice)

	doc, err := svc.Get(ctx, alice, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	_, err = svc.Get(ctx, "bob", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Get(ctx, "", "doc-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_List(t *testing.T) {
	svc, store := newDocuments()
	seedDocument(store, "a1", alice)
	seedDocument(store, "a2", alice)
	seedDocument(store, "b1", "bob")

	docs, err := svc.List(context.Background(), alice)

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, alice, d.OwnerID)
	}
}

func TestDocumentService_DeleteRemovesChunks(t *testing.T) {
	svc, store := newDocuments()
	ctx := context.Background()
	seedDocument(store, "doc-1", alice)
	_, err := store.ReplaceDocumentChunks(ctx, "doc-1", []domain.ChunkEmbedding{{Content: "x", Vector: []float64{1}}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "bob", "doc-1"), domain.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, alice, "doc-1"))

	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	candidates, err := store.ListCandidates(ctx, domain.CandidateFilter{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDocumentService_Chunks(t *testing.T) {
	svc, store := newDocuments()
	ctx := context.Background()
	seedDocument(store, "doc-1", alice)
	_, err := store.ReplaceDocumentChunks(ctx, "doc-1", []domain.ChunkEmbedding{
		{Content: "first", Vector: []float64{1, 0}},
		{Content: "second", Vector: []float64{0, 1}},
	})
	require.NoError(t, err)

	records, err := svc.Chunks(ctx, alice, "doc-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[1].Content)

	_, err = svc.Chunks(ctx, "bob", "doc-1")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
