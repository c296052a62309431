// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/minereg/internal/core/domain"
)

// ResultList displays ranked chunks in a navigable list.
type ResultList struct {
	hits     []domain.QueryHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible window of results.
func (r *ResultList) View() string {
	if len(r.hits) == 0 {
		return r.styles.Muted.Render("No passages above the similarity threshold")
	}

	lines := make([]string, 0, len(r.hits)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Passages (%d)", len(r.hits))), "")

	// Each hit renders on three lines.
	visible := max((r.height-4)/3, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.hits))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderHit(i, &r.hits[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderHit(index int, hit *domain.QueryHit) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := hit.Document.Title
	if title == "" {
		title = hit.DocumentID
	}
	titleWidth := max(r.width-20, 10)
	title = Truncate(title, titleWidth)
	score := fmt.Sprintf("%.3f", hit.Similarity)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, titleWidth, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, titleWidth, title)) +
			r.styles.Score(hit.Similarity).Render(score)
	}

	tag := fmt.Sprintf("    %s · %s · chunk %d", hit.Document.Type, hit.Document.Jurisdiction, hit.ChunkIndex)
	preview := Truncate(strings.Join(strings.Fields(hit.Content), " "), max(r.width-6, 20))

	return titleLine + "\n" + r.styles.Tag.Render(tag) + "\n" + r.styles.Muted.Render("    "+preview)
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// SetResults replaces the list contents and resets the selection.
func (r *ResultList) SetResults(hits []domain.QueryHit) {
	r.hits = hits
	r.selected = 0
}

// Results returns the current hits.
func (r *ResultList) Results() []domain.QueryHit {
	return r.hits
}

// Selected returns the index of the selected hit.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the selected hit, or nil if the list is empty.
func (r *ResultList) SelectedResult() *domain.QueryHit {
	if r.selected < 0 || r.selected >= len(r.hits) {
		return nil
	}
	return &r.hits[r.selected]
}

// MoveUp moves the selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.hits)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of hits.
func (r *ResultList) Count() int {
	return len(r.hits)
}
