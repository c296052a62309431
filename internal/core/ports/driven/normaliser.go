package driven

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// Normaliser extracts plain text from one family of file formats.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers return 50-89, fallbacks 1-9.
	Priority() int

	// Normalise extracts the text of raw.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult is the text extracted from a file.
type NormaliseResult struct {
	// Title is taken from the file's own metadata, or its name.
	Title string

	// Content is the plain text, one paragraph per line.
	Content string

	// Format names the detected format, e.g. "html".
	Format string
}

// NormaliserRegistry selects a normaliser by MIME type.
type NormaliserRegistry interface {
	// Normalise extracts text with the highest-priority matching normaliser.
	// Unsupported formats fail with domain.ErrInvalidInput.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
