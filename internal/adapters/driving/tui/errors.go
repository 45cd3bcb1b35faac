package tui

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingOwner is returned when no valid owner is provided.
var ErrMissingOwner = errors.New("tui: a valid owner is required")
