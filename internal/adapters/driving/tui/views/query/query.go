// Package query provides the question input and ranked passages view.
package query

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// ErrNoRetrievalService is reported when a query is submitted without a service.
var ErrNoRetrievalService = errors.New("retrieval service not available")

// View holds the query input, the ranked passages and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	userID    string
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
	lastQuery  string
}

// NewView creates a new query view acting as userID.
func NewView(s *styles.Styles, km *keymap.KeyMap, retrieval driving.RetrievalService, userID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		userID:     userID,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(v.input.Value())
			if text == "" {
				return v, nil
			}
			v.lastQuery = text
			v.statusbar.SetState(status.StateQuerying)
			v.focusInput = false
			v.input.Blur()
			return v, v.runQuery(text)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Open):
		hit := v.list.SelectedResult()
		if hit == nil {
			return v, nil
		}
		req := messages.ChunksRequested{
			DocumentID: hit.DocumentID,
			Title:      hit.Document.Title,
			Focus:      hit.ChunkIndex,
			Back:       messages.ViewQuery,
		}
		return v, func() tea.Msg { return req }
	case keymap.Matches(msg.String(), v.keymap.NewQuery):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) runQuery(text string) tea.Cmd {
	retrieval, ctx, userID := v.retrieval, v.ctx, v.userID
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		res, err := retrieval.Query(ctx, userID, domain.QueryRequest{Text: text})
		return messages.QueryCompleted{Result: res, Err: err}
	}
}

func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	var hits []domain.QueryHit
	candidates := 0
	if msg.Result != nil {
		hits = msg.Result.Results
		candidates = msg.Result.Candidates
	}
	v.list.SetResults(hits)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetCounts(len(hits), candidates)
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(domain.NewErrorPayload(err).Message)
	v.focusInput = true
	v.input.Focus()
}

// View renders the query view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("minereg"), "",
		v.input.View(), "",
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+domain.NewErrorPayload(v.err).Message), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions and resizes the components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, max(height-8, 3))
	v.statusbar.SetWidth(width)
}

// Reset clears the input, results and error, and focuses the input.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
	v.list.SetResults(nil)
	v.statusbar.Clear()
	v.err = nil
	v.focusInput = true
	v.lastQuery = ""
}

// Query returns the last submitted question.
func (v *View) Query() string {
	return v.lastQuery
}

// Results returns the hits currently displayed.
func (v *View) Results() []domain.QueryHit {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected hit.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// InputFocused reports whether keys go to the input.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
