// Package plaintext passes text files through unchanged. It is the
// fallback for every text/* type without a dedicated normaliser.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/csv"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise returns the text with a leading byte order mark and CRLF
// line endings removed. Content must be valid UTF-8.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	content := bytes.TrimPrefix(raw.Content, bom)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8 text", domain.ErrInvalidInput, raw.URI)
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	return &driven.NormaliseResult{
		Title:   normalisers.TitleFromURI(raw.URI),
		Content: string(content),
		Format:  "text",
	}, nil
}
