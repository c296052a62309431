package documents

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/core/domain"
)

type stubDocuments struct {
	docs     []domain.Document
	err      error
	lastUser string
}

func (s *stubDocuments) Register(context.Context, string, *domain.Document) error { return nil }

func (s *stubDocuments) Get(context.Context, string, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (s *stubDocuments) List(_ context.Context, userID string) ([]domain.Document, error) {
	s.lastUser = userID
	return s.docs, s.err
}

func (s *stubDocuments) Delete(context.Context, string, string) error { return nil }

func (s *stubDocuments) Chunks(context.Context, string, string) ([]domain.EmbeddingRecord, error) {
	return nil, nil
}

func loaded(t *testing.T, svc *stubDocuments) *View {
	t.Helper()
	v := NewView(nil, svc, "user-1")
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_LoadsCallersDocuments(t *testing.T) {
	svc := &stubDocuments{docs: []domain.Document{
		{ID: "d1", Title: "Mining Act", Type: domain.DocumentTypeRegulation, Jurisdiction: "ontario", Language: domain.LanguageEnglish},
		{ID: "d2", Title: "Loi sur les mines", Jurisdiction: "quebec", Language: domain.LanguageFrench},
	}}
	v := loaded(t, svc)

	assert.Equal(t, "user-1", svc.lastUser)
	require.Len(t, v.Documents(), 2)
	out := v.View()
	assert.Contains(t, out, "Documents (2)")
	assert.Contains(t, out, "Loi sur les mines")
	assert.Contains(t, out, "regulation · ontario")
}

func TestView_EnterRequestsChunks(t *testing.T) {
	v := loaded(t, &stubDocuments{docs: []domain.Document{{ID: "d1", Title: "A"}, {ID: "d2", Title: "B"}}})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ChunksRequested{DocumentID: "d2", Title: "B", Back: messages.ViewDocuments}, cmd())
}

func TestView_EmptyAndErrorStates(t *testing.T) {
	v := loaded(t, &stubDocuments{})
	assert.Contains(t, v.View(), "No documents registered")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	v = loaded(t, &stubDocuments{err: domain.ErrStore})
	assert.ErrorIs(t, v.Err(), domain.ErrStore)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil, "u")
	msg := v.Init()()
	assert.Equal(t, messages.DocumentsLoaded{Err: ErrNoDocumentService}, msg)
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := NewView(nil, &stubDocuments{}, "u")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
