package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the entity exists but belongs to another user.
	// It is always returned together with ErrNotFound so callers cannot
	// distinguish a foreign document from a missing one.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates two vectors of different lengths were compared.
	ErrDimensionMismatch = fmt.Errorf("%w: vector dimension mismatch", ErrInvalidInput)

	// ErrUpstream indicates an embedding or LLM provider call failed.
	// Nothing was written when an ingest fails with this error.
	ErrUpstream = errors.New("upstream provider error")

	// ErrStore indicates the persistence layer failed.
	ErrStore = errors.New("store error")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ErrorKind is the user-visible classification of an error.
type ErrorKind string

// Error kinds exposed to callers.
const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindNotFound        ErrorKind = "not_found"
	KindAccessDenied    ErrorKind = "access_denied"
	KindAlreadyExists   ErrorKind = "already_exists"
	KindUpstream        ErrorKind = "upstream_error"
	KindStore           ErrorKind = "store_error"
	KindInternal        ErrorKind = "internal"
)

// KindOf classifies err. Not-found wins over access-denied.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccessDenied):
		return KindAccessDenied
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrEmbeddingUnavailable), errors.Is(err, ErrLLMUnavailable):
		return KindUpstream
	case errors.Is(err, ErrStore):
		return KindStore
	default:
		return KindInternal
	}
}

// ErrorPayload is the structured error returned to callers.
type ErrorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewErrorPayload converts err into a payload safe to show to callers.
// Internal errors get a generic message since they may carry driver detail.
func NewErrorPayload(err error) ErrorPayload {
	kind := KindOf(err)
	msg := err.Error()
	if kind == KindInternal {
		msg = "internal error"
	}
	return ErrorPayload{Kind: kind, Message: msg}
}
