// Package html extracts readable text from HTML pages, such as
// regulations published on government legislation sites.
package html

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips markup and returns the page text, one block per line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	page := string(raw.Content)
	return &driven.NormaliseResult{
		Title:   title(page, raw.URI),
		Content: stripHTML(page),
		Format:  "html",
	}, nil
}

var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	droppedBlocks = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg|nav|footer)[^>]*>.*?</(script|style|noscript|head|svg|nav|footer)>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBoundary = regexp.MustCompile(
		`(?i)</?(p|div|br|hr|h[1-6]|li|dt|dd|tr|blockquote|pre|table|section|article)(\s[^>]*)?/?>`)
	cellBoundary = regexp.MustCompile(`(?i)</t[dh]>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
	spaceRun     = regexp.MustCompile(`[ \t\x{00A0}]+`)
)

// title returns the <title> text, else a name derived from uri.
func title(page, uri string) string {
	if m := titleTag.FindStringSubmatch(page); len(m) > 1 {
		if t := strings.TrimSpace(html.UnescapeString(m[1])); t != "" {
			return spaceRun.ReplaceAllString(t, " ")
		}
	}
	return normalisers.TitleFromURI(uri)
}

// stripHTML removes non-content elements and tags and decodes entities.
// Block elements become line breaks so section numbering stays on its
// own line; table cells are separated by a space.
func stripHTML(page string) string {
	page = droppedBlocks.ReplaceAllString(page, "")
	page = comments.ReplaceAllString(page, "")
	page = blockBoundary.ReplaceAllString(page, "\n")
	page = cellBoundary.ReplaceAllString(page, " ")
	page = anyTag.ReplaceAllString(page, "")
	page = html.UnescapeString(page)
	page = spaceRun.ReplaceAllString(page, " ")
	return normalisers.CollapseBlankLines(page)
}
