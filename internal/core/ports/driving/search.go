package driving

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search embeds the query and returns the owner's most similar chunks,
	// best first, none below domain.SimilarityThreshold.
	Search(ctx context.Context, owner domain.OwnerKey, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
