package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/views/chunks"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/minereg/internal/adapters/driving/tui/views/query"
)

// App is the root Bubbletea model. It owns every view and routes messages
// to the active one.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView      *menu.View
	queryView     *query.View
	documentsView *documents.View
	chunksView    *chunks.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingRetrievalService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		queryView:     query.NewView(s, km, ports.Retrieval, ports.UserID),
		documentsView: documents.NewView(s, ports.Document, ports.UserID),
		chunksView:    chunks.NewView(s, ports.Document, ports.UserID),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context used by every view's service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.queryView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.chunksView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("minereg")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewQuery:
			a.queryView.Reset()
			return a, a.queryView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewMenu, messages.ViewChunks, messages.ViewHelp:
		}
		return a, nil

	case messages.QueryCompleted:
		a.err = msg.Err
		a.queryView, cmd = a.queryView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded:
		a.err = msg.Err
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ChunksRequested:
		a.currentView = messages.ViewChunks
		return a, a.chunksView.Open(msg)

	case messages.ChunksLoaded:
		a.err = msg.Err
		a.chunksView, cmd = a.chunksView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewQuery:
		a.queryView, cmd = a.queryView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewQuery:
		return a.queryView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewChunks:
		return a.chunksView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Ask:
  (type)      Enter a question in English or French
  enter       Rank stored passages by similarity
  n, /        New question
  j/k, ↑/↓    Navigate passages
  enter       Open the passage's document at that chunk

Documents:
  enter       Show ingested chunks
  r           Reload

Anywhere:
  esc         Back
  ctrl+c      Quit

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported by a service call.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.queryView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.chunksView.SetDimensions(width, height)
}
