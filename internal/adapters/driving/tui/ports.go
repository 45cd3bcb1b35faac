// Package tui provides an interactive terminal interface for searching
// indexed videos and asking cited questions about them.
package tui

import (
	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
)

// Ports aggregates the services the TUI drives.
type Ports struct {
	// Owner is the principal every search and question acts for.
	Owner domain.OwnerKey

	// Search is required.
	Search driving.SearchService

	// Answer is optional; asking is disabled without it.
	Answer driving.AnswerService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if err := p.Owner.Validate(); err != nil {
		return ErrMissingOwner
	}
	return nil
}
