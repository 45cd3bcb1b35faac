package driven

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// SearchHistorySink receives a record of every completed search.
// Callers treat it as fire-and-forget: an error is logged, never propagated.
type SearchHistorySink interface {
	Record(ctx context.Context, entry domain.SearchHistoryEntry) error
}

// SearchHistoryReader lists recorded searches, newest first.
type SearchHistoryReader interface {
	Recent(ctx context.Context, owner domain.OwnerKey, limit int) ([]domain.SearchHistoryEntry, error)
}
