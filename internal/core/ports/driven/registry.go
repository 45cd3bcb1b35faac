package driven

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// NormaliserRegistry dispatches raw content to the normaliser for its content type.
type NormaliserRegistry interface {
	// Normalise transforms raw content using the registered normaliser.
	// Returns domain.ErrUnsupportedType when none is registered.
	Normalise(ctx context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error)

	// Register adds a normaliser, replacing any for the same content type.
	Register(normaliser Normaliser)

	// ContentTypes returns the content types that can be normalised.
	ContentTypes() []domain.ContentType
}
