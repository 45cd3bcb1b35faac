// Package mcp exposes clipmind search and cited answers as Model Context
// Protocol tools so AI assistants can query a user's indexed videos.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingOwner is returned when the server has no principal to act for.
var ErrMissingOwner = errors.New("mcp: owner is required")
