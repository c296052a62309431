// Package chunks provides a scrolling view of a document's ingested chunks.
package chunks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// ErrNoDocumentService is reported when chunks are requested without a service.
var ErrNoDocumentService = errors.New("document service not available")

// View shows every chunk of one document, wrapped to the terminal width.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	userID          string
	ctx             context.Context

	request      messages.ChunksRequested
	records      []domain.EmbeddingRecord
	lines        []string
	starts       []int // first line of each record
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new chunks view acting as userID.
func NewView(s *styles.Styles, documentService driving.DocumentService, userID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		userID:          userID,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open resets the view for req and starts loading its chunks.
func (v *View) Open(req messages.ChunksRequested) tea.Cmd {
	v.request = req
	v.records = nil
	v.lines = nil
	v.starts = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	svc, ctx, userID := v.documentService, v.ctx, v.userID
	return func() tea.Msg {
		if svc == nil {
			return messages.ChunksLoaded{DocumentID: req.DocumentID, Err: ErrNoDocumentService}
		}
		records, err := svc.Chunks(ctx, userID, req.DocumentID)
		return messages.ChunksLoaded{DocumentID: req.DocumentID, Records: records, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the chunks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChunksLoaded:
		if msg.DocumentID != v.request.DocumentID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.records = msg.Records
			v.layout()
			v.focus(v.request.Focus)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.scrollTo(v.scrollOffset - 1)
	case "down", "j":
		v.scrollTo(v.scrollOffset + 1)
	case "pgup", "ctrl+u":
		v.scrollTo(v.scrollOffset - v.visibleLines())
	case "pgdown", "ctrl+d":
		v.scrollTo(v.scrollOffset + v.visibleLines())
	case "home", "g":
		v.scrollTo(0)
	case "end", "G":
		v.scrollTo(v.maxScrollOffset())
	case "esc":
		back := v.request.Back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}
	return v, nil
}

// layout flattens the records into wrapped display lines.
func (v *View) layout() {
	width := max(v.width-4, 20)
	v.lines = v.lines[:0]
	v.starts = make([]int, len(v.records))

	for i, rec := range v.records {
		v.starts[i] = len(v.lines)
		header := fmt.Sprintf("── chunk %d", rec.ChunkIndex)
		if rec.Metadata.Model != "" {
			header += " · " + rec.Metadata.Model
		}
		v.lines = append(v.lines, v.styles.Subtitle.Render(header))
		for _, para := range strings.Split(rec.Content, "\n") {
			v.lines = append(v.lines, wrap(para, width)...)
		}
		v.lines = append(v.lines, "")
	}
}

// focus scrolls to the record with the given chunk index, if present.
func (v *View) focus(chunkIndex int) {
	for i, rec := range v.records {
		if rec.ChunkIndex == chunkIndex {
			v.scrollTo(v.starts[i])
			return
		}
	}
}

func (v *View) scrollTo(offset int) {
	v.scrollOffset = min(max(offset, 0), v.maxScrollOffset())
}

// wrap splits s into lines of at most width runes.
func wrap(s string, width int) []string {
	runes := []rune(s)
	if len(runes) <= width {
		return []string{s}
	}
	out := make([]string, 0, len(runes)/width+1)
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func (v *View) visibleLines() int {
	// title, spacing and help footer
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the chunks view.
func (v *View) View() string {
	var b strings.Builder

	title := v.request.Title
	if title == "" {
		title = v.request.DocumentID
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s (%d chunks)", title, len(v.records))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.NewErrorPayload(v.err).Message))
	case len(v.records) == 0:
		b.WriteString(v.styles.Muted.Render("This document has not been ingested yet."))
	default:
		end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
		b.WriteString(strings.Join(v.lines[v.scrollOffset:end], "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [pgup/pgdn] page  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions and re-wraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	if len(v.records) > 0 {
		v.layout()
		v.scrollTo(v.scrollOffset)
	}
}

// Records returns the loaded chunks.
func (v *View) Records() []domain.EmbeddingRecord {
	return v.records
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
