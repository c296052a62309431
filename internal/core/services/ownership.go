package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
)

// loadOwnedDocument fetches a document and checks it belongs to userID.
// A document owned by someone else is reported as not found; the error
// also matches domain.ErrAccessDenied so callers can tell the two apart.
func loadOwnedDocument(
	ctx context.Context, docs driven.DocumentStore, userID, documentID string,
) (*domain.Document, error) {
	doc, err := docs.GetDocument(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading document %s: %w", domain.ErrStore, documentID, err)
	}
	if doc.OwnerID != userID {
		return nil, fmt.Errorf("document %s: %w: %w", documentID, domain.ErrNotFound, domain.ErrAccessDenied)
	}
	return doc, nil
}

func requirePrincipal(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return nil
}

// storeError wraps a persistence failure as domain.ErrStore, keeping
// not-found errors as they are.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}
