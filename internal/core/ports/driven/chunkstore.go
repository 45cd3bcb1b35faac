package driven

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// ChunkStore persists embedded chunk records.
// The store is append-mostly: records are never updated in place, and
// re-indexing a stream deletes it before inserting the new records.
type ChunkStore interface {
	// Insert stores a single record and returns its id.
	// An id is generated when rec.ID is empty.
	Insert(ctx context.Context, rec *domain.ChunkRecord) (string, error)

	// InsertBatch stores several records, atomically where the backend allows.
	// Generated ids are written back into recs.
	InsertBatch(ctx context.Context, recs []domain.ChunkRecord) error

	// DeleteByVideo removes every chunk of a video and returns the count.
	DeleteByVideo(ctx context.Context, owner domain.OwnerKey, videoID string) (int, error)

	// DeleteByVideoAndType removes one content stream of a video.
	DeleteByVideoAndType(ctx context.Context, owner domain.OwnerKey, videoID string, ct domain.ContentType) (int, error)

	// Find returns records matching the filter, capped at domain.RetrievalCeiling.
	Find(ctx context.Context, filter domain.ChunkFilter) ([]domain.ChunkRecord, error)

	// NextChunkIndex returns one past the highest chunk_index of a stream,
	// or 0 when the stream is empty.
	NextChunkIndex(ctx context.Context, owner domain.OwnerKey, videoID string, ct domain.ContentType) (int, error)

	// Close releases resources.
	Close() error
}

// VectorSearcher is implemented by stores that can rank by vector distance natively.
// Results must honour the same contract as in-process ranking: similarity at or above
// threshold, ordered by similarity descending, at most limit results.
type VectorSearcher interface {
	SearchSimilar(
		ctx context.Context,
		filter domain.ChunkFilter,
		query []float32,
		threshold float64,
		limit int,
	) ([]domain.SearchResult, error)
}
