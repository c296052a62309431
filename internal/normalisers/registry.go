package normalisers

import (
	"cmp"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// MIME types by extension. Consulted before the system table, which often
// lacks markdown and docx.
var extensionTypes = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Registry dispatches to the highest-priority normaliser for a MIME type.
type Registry struct {
	mu     sync.RWMutex
	byType map[string][]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byType: make(map[string][]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser under each of its MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range n.SupportedMIMETypes() {
		list := append(r.byType[t], n)
		slices.SortStableFunc(list, func(a, b driven.Normaliser) int {
			return cmp.Compare(b.Priority(), a.Priority())
		})
		r.byType[t] = list
	}
}

// SupportedMIMETypes returns every registered MIME type, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Normalise extracts the text of raw. Any unregistered text/* type falls
// back to the text/plain normalisers.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	mimeType := DetectMIMEType(raw.URI, raw.MIMEType)
	n := r.lookup(mimeType)
	if n == nil {
		return nil, fmt.Errorf("%w: unsupported file format %q", domain.ErrInvalidInput, mimeType)
	}

	normalised := *raw
	normalised.MIMEType = mimeType
	return n.Normalise(ctx, &normalised)
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if list := r.byType[mimeType]; len(list) > 0 {
		return list[0]
	}
	if strings.HasPrefix(mimeType, "text/") {
		if list := r.byType["text/plain"]; len(list) > 0 {
			return list[0]
		}
	}
	return nil
}

// DetectMIMEType returns the bare media type of a file: declared when
// given and specific, otherwise derived from the name's extension.
// Unknown files are treated as plain text.
func DetectMIMEType(name, declared string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return "text/plain"
}

// TitleFromURI derives a readable title from a file name:
// "mining_act-2024.html" becomes "mining act 2024".
func TitleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// CollapseBlankLines trims every line and drops empty ones.
func CollapseBlankLines(content string) string {
	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
