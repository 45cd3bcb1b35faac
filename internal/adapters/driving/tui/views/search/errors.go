package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoAnswerService indicates asking is unavailable.
	ErrNoAnswerService = errors.New("asking requires a configured LLM provider")
)
