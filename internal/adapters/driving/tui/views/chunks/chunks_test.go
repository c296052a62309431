package chunks

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/core/domain"
)

type stubDocuments struct {
	records []domain.EmbeddingRecord
	err     error
	lastDoc string
}

func (s *stubDocuments) Register(context.Context, string, *domain.Document) error { return nil }

func (s *stubDocuments) Get(context.Context, string, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (s *stubDocuments) List(context.Context, string) ([]domain.Document, error) { return nil, nil }

func (s *stubDocuments) Delete(context.Context, string, string) error { return nil }

func (s *stubDocuments) Chunks(_ context.Context, _ string, documentID string) ([]domain.EmbeddingRecord, error) {
	s.lastDoc = documentID
	return s.records, s.err
}

func manyRecords(n int) []domain.EmbeddingRecord {
	out := make([]domain.EmbeddingRecord, n)
	for i := range out {
		out[i] = domain.EmbeddingRecord{
			DocumentID: "doc-1",
			ChunkIndex: i,
			Content:    strings.Repeat("section text ", 5),
			Metadata:   domain.ChunkMetadata{Model: "m"},
		}
	}
	return out
}

func open(t *testing.T, svc *stubDocuments, req messages.ChunksRequested) *View {
	t.Helper()
	v := NewView(nil, svc, "user-1")
	v.SetDimensions(80, 16)
	cmd := v.Open(req)
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_LoadsAndFocusesChunk(t *testing.T) {
	svc := &stubDocuments{records: manyRecords(10)}
	v := open(t, svc, messages.ChunksRequested{DocumentID: "doc-1", Title: "Mining Act", Focus: 4})

	assert.Equal(t, "doc-1", svc.lastDoc)
	require.Len(t, v.Records(), 10)
	assert.Positive(t, v.ScrollOffset())

	out := v.View()
	assert.Contains(t, out, "Mining Act (10 chunks)")
	assert.Contains(t, out, "chunk 4")
}

func TestView_Scrolling(t *testing.T) {
	v := open(t, &stubDocuments{records: manyRecords(10)}, messages.ChunksRequested{DocumentID: "doc-1"})
	assert.Equal(t, 0, v.ScrollOffset())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, v.ScrollOffset())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, v.ScrollOffset())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	bottom := v.ScrollOffset()
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, bottom, v.ScrollOffset())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, v.ScrollOffset())
}

func TestView_StaleResultIgnored(t *testing.T) {
	v := open(t, &stubDocuments{}, messages.ChunksRequested{DocumentID: "doc-1"})

	v, _ = v.Update(messages.ChunksLoaded{DocumentID: "other", Records: manyRecords(2)})
	assert.Empty(t, v.Records())
	assert.Contains(t, v.View(), "not been ingested")
}

func TestView_ErrorAndBack(t *testing.T) {
	v := open(t, &stubDocuments{err: domain.ErrNotFound}, messages.ChunksRequested{
		DocumentID: "doc-1", Back: messages.ViewQuery,
	})
	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error:")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewQuery}, cmd())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"règl", "emen", "t"}, wrap("règlement", 4))
}
