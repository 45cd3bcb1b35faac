package domain

// Search limits.
const (
	// DefaultSearchLimit is used when SearchOptions.Limit is zero.
	DefaultSearchLimit = 10

	// RetrievalCeiling bounds the candidate set fetched from a store
	// before the similarity pass.
	RetrievalCeiling = 100

	// SimilarityThreshold is the minimum cosine similarity for a result.
	SimilarityThreshold = 0.5
)

// SearchFilters narrows the candidate set of a search.
type SearchFilters struct {
	// VideoID restricts to a single video.
	VideoID string `json:"video_id,omitempty"`

	// ContentTypes restricts to these content types.
	ContentTypes []ContentType `json:"content_types,omitempty"`

	// CategoryID restricts to videos in a category.
	CategoryID string `json:"category_id,omitempty"`

	// CollectionID restricts to videos in a collection.
	CollectionID string `json:"collection_id,omitempty"`

	// IsFavorite restricts to favourite (true) or non-favourite (false) videos.
	IsFavorite *bool `json:"is_favorite,omitempty"`
}

// HasSecondary reports whether any filter needs the video catalog.
func (f SearchFilters) HasSecondary() bool {
	return f.CategoryID != "" || f.CollectionID != "" || f.IsFavorite != nil
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int `json:"limit,omitempty"`

	// Filters narrows the candidate set.
	Filters SearchFilters `json:"filters"`
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Chunk is the matched chunk; its metadata carries the similarity.
	Chunk ChunkRecord

	// Similarity is the cosine similarity to the query.
	Similarity float64
}

// SearchHistoryEntry records one completed search.
type SearchHistoryEntry struct {
	Owner       OwnerKey
	Query       string
	Filters     SearchFilters
	ResultCount int
	CreatedAt   int64
}
