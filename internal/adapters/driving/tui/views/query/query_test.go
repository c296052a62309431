package query

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/core/domain"
)

type stubRetrieval struct {
	result   *domain.QueryResult
	err      error
	lastUser string
	lastReq  domain.QueryRequest
}

func (s *stubRetrieval) Ingest(context.Context, string, domain.IngestRequest) (*domain.IngestResult, error) {
	return nil, nil
}

func (s *stubRetrieval) EmbedText(context.Context, string, domain.EmbedRequest) (*domain.EmbedResult, error) {
	return nil, nil
}

func (s *stubRetrieval) Query(_ context.Context, userID string, req domain.QueryRequest) (*domain.QueryResult, error) {
	s.lastUser = userID
	s.lastReq = req
	return s.result, s.err
}

func typeText(v *View, text string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return v
}

func newSizedView(svc *stubRetrieval) *View {
	v := NewView(nil, nil, svc, "user-1")
	v.SetDimensions(100, 30)
	return v
}

func TestView_SubmitQuery(t *testing.T) {
	svc := &stubRetrieval{result: &domain.QueryResult{
		Query:      "bond",
		Candidates: 4,
		Results: []domain.QueryHit{{
			DocumentID: "doc-1", ChunkIndex: 3, Content: "Security bonds are required.", Similarity: 0.88,
			Document: domain.DocumentSummary{ID: "doc-1", Title: "Mining Act"},
		}},
	}}
	v := typeText(newSizedView(svc), "bond")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.InputFocused())
	assert.Equal(t, "bond", v.Query())

	msg := cmd()
	require.IsType(t, messages.QueryCompleted{}, msg)
	assert.Equal(t, "user-1", svc.lastUser)
	assert.Equal(t, "bond", svc.lastReq.Text)

	v, _ = v.Update(msg)
	require.Len(t, v.Results(), 1)
	assert.Contains(t, v.View(), "1 of 4 chunks matched")
}

func TestView_EmptyQueryIgnored(t *testing.T) {
	v := typeText(newSizedView(&stubRetrieval{}), "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, v.InputFocused())
}

func TestView_OpenHitRequestsChunks(t *testing.T) {
	v := newSizedView(&stubRetrieval{})
	v, _ = v.Update(messages.QueryCompleted{Result: &domain.QueryResult{Results: []domain.QueryHit{
		{DocumentID: "doc-1", ChunkIndex: 0, Document: domain.DocumentSummary{Title: "A"}},
		{DocumentID: "doc-2", ChunkIndex: 5, Document: domain.DocumentSummary{Title: "B"}},
	}}})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ChunksRequested{
		DocumentID: "doc-2", Title: "B", Focus: 5, Back: messages.ViewQuery,
	}, cmd())
}

func TestView_NewQueryRefocusesInput(t *testing.T) {
	v := newSizedView(&stubRetrieval{})
	v, _ = v.Update(messages.QueryCompleted{Result: &domain.QueryResult{}})
	require.False(t, v.InputFocused())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.True(t, v.InputFocused())
}

func TestView_ErrorsAreShown(t *testing.T) {
	v := newSizedView(&stubRetrieval{})

	v, _ = v.Update(messages.QueryCompleted{Err: fmt.Errorf("%w: status 503", domain.ErrUpstream)})
	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "status 503")
	assert.True(t, v.InputFocused())

	v.Reset()
	assert.NoError(t, v.Err())
	assert.Empty(t, v.Results())
}

func TestView_NoServiceReportsError(t *testing.T) {
	v := NewView(nil, nil, nil, "u")
	v = typeText(v, "q")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ErrorOccurred{Err: ErrNoRetrievalService}, cmd())
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := newSizedView(&stubRetrieval{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
