package mcp

import (
	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server calls.
// A server acts for a single owner, fixed at start-up.
type Ports struct {
	// Owner scopes every search and answer.
	Owner domain.OwnerKey

	// Search provides search capabilities.
	Search driving.SearchService

	// Answer enables the ask tool. Optional.
	Answer driving.AnswerService

	// Videos backs the video resource. Optional.
	Videos driven.VideoRegistry

	// History backs the history resource. Optional.
	History driven.SearchHistoryReader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if err := p.Owner.Validate(); err != nil {
		return ErrMissingOwner
	}
	return nil
}
