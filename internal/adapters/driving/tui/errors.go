package tui

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("tui: retrieval service is required")

// ErrMissingUserID is returned when no principal is configured.
var ErrMissingUserID = errors.New("tui: user id is required")
