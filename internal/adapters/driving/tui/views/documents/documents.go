// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// ErrNoDocumentService is reported when documents are listed without a service.
var ErrNoDocumentService = errors.New("document service not available")

// View lists the caller's registered documents.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	userID          string
	ctx             context.Context

	documents    []domain.Document
	selected     int
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new documents view acting as userID.
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

// Init starts loading the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	svc, ctx, userID := v.documentService, v.ctx, v.userID
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := svc.List(ctx, userID)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			v.selected = min(v.selected, max(len(v.documents)-1, 0))
			v.adjustScroll()
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
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		doc := v.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		req := messages.ChunksRequested{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Back:       messages.ViewDocuments,
		}
		return v, func() tea.Msg { return req }
	case "r":
		return v, v.Init()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, spacing and help footer
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.NewErrorPayload(v.err).Message))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents registered. Use `minereg document add` to add one."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.documents))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] chunks  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	titleWidth := max(v.width/2-4, 10)
	title = list.Truncate(title, titleWidth)
	meta := fmt.Sprintf("%s · %s · %s", doc.Type, doc.Jurisdiction, doc.Language)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", titleWidth, title, meta))
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", titleWidth, title)) + v.styles.Tag.Render(meta)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedDocument returns the highlighted document, or nil.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < 0 || v.selected >= len(v.documents) {
		return nil
	}
	return &v.documents[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
