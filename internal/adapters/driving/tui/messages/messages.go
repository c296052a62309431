// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/minereg/internal/core/domain"
)

// QueryCompleted carries ranked chunks back to the model.
type QueryCompleted struct {
	Result *domain.QueryResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewQuery is the query input and ranked results view.
	ViewQuery
	// ViewDocuments lists the user's documents.
	ViewDocuments
	// ViewChunks shows the ingested chunks of one document.
	ViewChunks
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewQuery:
		return "query"
	case ViewDocuments:
		return "documents"
	case ViewChunks:
		return "chunks"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the user's documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// ChunksRequested asks the app to open a document's chunks, positioned
// at chunk Focus.
type ChunksRequested struct {
	DocumentID string
	Title      string
	Focus      int
	Back       ViewType
}

// ChunksLoaded carries a document's chunks.
type ChunksLoaded struct {
	DocumentID string
	Records    []domain.EmbeddingRecord
	Err        error
}
