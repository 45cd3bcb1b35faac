package driven

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// Normaliser turns raw content of one content type into plain text.
// Transcript normalisers also extract a line-to-timestamp side table
// before stripping markup.
type Normaliser interface {
	// ContentType returns the content type this normaliser handles.
	ContentType() domain.ContentType

	// Formats returns the format hints this normaliser understands.
	Formats() []string

	// Normalise strips markup and returns text ready for chunking.
	Normalise(ctx context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error)
}
