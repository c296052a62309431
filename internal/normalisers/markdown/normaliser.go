// Package markdown reduces Markdown documents, such as guidance notes
// kept in a repository, to plain text.
package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips Markdown syntax. Numbered list markers are kept since
// they carry section numbering.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	text := string(raw.Content)
	return &driven.NormaliseResult{
		Title:   title(text, raw.URI),
		Content: stripMarkdown(text),
		Format:  "markdown",
	}, nil
}

// title returns the first H1 heading, else a name derived from uri.
func title(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return normalisers.TitleFromURI(uri)
}

var (
	fences     = regexp.MustCompile("(?m)^[ \t]*```.*$")
	inlineCode = regexp.MustCompile("`([^`]+)`")
	images     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings   = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	strong     = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	emphasis   = regexp.MustCompile(`(^|[^\w*])[*_]([^*_\n]+)[*_]`)
	blockquote = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	rule       = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullets    = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	tableRule  = regexp.MustCompile(`(?m)^[ \t]*\|?([ \t]*:?-+:?[ \t]*\|)+[ \t]*:?-*:?[ \t]*$`)
	tablePipes = regexp.MustCompile(`[ \t]*\|[ \t]*`)
)

// stripMarkdown removes common Markdown formatting, keeping the text.
func stripMarkdown(content string) string {
	content = fences.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = rule.ReplaceAllString(content, "")
	content = tableRule.ReplaceAllString(content, "")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = bullets.ReplaceAllString(content, "")
	content = strong.ReplaceAllString(content, "$2")
	content = emphasis.ReplaceAllString(content, "$1$2")
	content = tablePipes.ReplaceAllString(content, " ")
	return normalisers.CollapseBlankLines(content)
}
