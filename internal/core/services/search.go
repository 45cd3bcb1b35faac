package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks stored chunks against a query by cosine similarity.
type SearchService struct {
	embedder     *EmbeddingGenerator
	store        driven.ChunkStore
	catalog      driven.VideoCatalog
	history      driven.SearchHistorySink
	threshold    float64
	defaultLimit int
	now          func() time.Time
}

// NewSearchService creates a new search service.
// The catalog is needed for anonymous owners and secondary filters; it may be
// nil when neither is used.
func NewSearchService(
	embedder *EmbeddingGenerator,
	store driven.ChunkStore,
	catalog driven.VideoCatalog,
) *SearchService {
	return &SearchService{
		embedder:     embedder,
		store:        store,
		catalog:      catalog,
		threshold:    domain.SimilarityThreshold,
		defaultLimit: domain.DefaultSearchLimit,
		now:          time.Now,
	}
}

// SetHistorySink sets where completed searches are recorded.
func (s *SearchService) SetHistorySink(sink driven.SearchHistorySink) {
	s.history = sink
}

// SetThreshold raises the minimum similarity. Values below
// domain.SimilarityThreshold, or above 1, are ignored.
func (s *SearchService) SetThreshold(threshold float64) {
	if threshold < domain.SimilarityThreshold || threshold > 1 {
		logger.Warn("Ignoring similarity threshold %.2f, keeping %.2f", threshold, s.threshold)
		return
	}
	s.threshold = threshold
}

// SetDefaultLimit overrides the result count used when a request leaves it unset.
func (s *SearchService) SetDefaultLimit(limit int) {
	if limit > 0 {
		s.defaultLimit = min(limit, domain.RetrievalCeiling)
	}
}

// Search embeds the query, resolves the candidate set for the owner and
// filters, and returns chunks at or above the threshold, best first.
func (s *SearchService) Search(
	ctx context.Context, owner domain.OwnerKey, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, owner: %s", query, owner)

	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if !s.embedder.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	// 1. Embed the query. Nothing can be ranked without it.
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryEmbedding, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))
	if zeroNorm(vector) {
		logger.Debug("Query embedding has zero magnitude, returning no results")
		s.record(ctx, owner, query, opts.Filters, 0)
		return []domain.SearchResult{}, nil
	}

	limit := s.effectiveLimit(opts.Limit)

	// 2. Candidate scope.
	filter, err := s.candidateFilter(ctx, owner, opts.Filters)
	if err != nil {
		return nil, err
	}

	// 3. Secondary filters.
	allow, err := s.resolveSecondary(ctx, owner, opts.Filters)
	if err != nil {
		return nil, err
	}
	if filter.MatchesNothing() || (allow != nil && len(allow) == 0) {
		logger.Debug("Filters resolved to no videos, returning no results")
		s.record(ctx, owner, query, opts.Filters, 0)
		return []domain.SearchResult{}, nil
	}

	var results []domain.SearchResult
	if searcher, ok := s.store.(driven.VectorSearcher); ok {
		logger.Debug("Delegating ranking to the store")
		if allow != nil {
			if filter.VideoIDs == nil {
				filter.VideoIDs = allow
			} else {
				filter.VideoIDs = intersectIDs(filter.VideoIDs, allow)
			}
			if len(filter.VideoIDs) == 0 {
				s.record(ctx, owner, query, opts.Filters, 0)
				return []domain.SearchResult{}, nil
			}
		}
		results, err = searcher.SearchSimilar(ctx, filter, vector, s.threshold, limit)
		if err != nil {
			return nil, fmt.Errorf("search similar: %w", err)
		}
	} else {
		results, err = s.scan(ctx, filter, allow, vector, limit)
		if err != nil {
			return nil, err
		}
	}

	for i := range results {
		results[i].Chunk.Metadata = withSimilarity(results[i].Chunk.Metadata, results[i].Similarity)
	}

	logger.Info("Final results: %d", len(results))
	s.record(ctx, owner, query, opts.Filters, len(results))

	return results, nil
}

func (s *SearchService) effectiveLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	return min(limit, domain.RetrievalCeiling)
}

// candidateFilter scopes the store query. Every owner is matched on the key
// stored with each chunk. Anonymous sessions are further limited to the
// videos the catalog attributes to them.
func (s *SearchService) candidateFilter(
	ctx context.Context, owner domain.OwnerKey, filters domain.SearchFilters,
) (domain.ChunkFilter, error) {
	filter := domain.ChunkFilter{
		Owner:        owner,
		VideoID:      filters.VideoID,
		ContentTypes: filters.ContentTypes,
		Limit:        domain.RetrievalCeiling,
	}

	if !owner.IsAnonymous() {
		return filter, nil
	}

	if s.catalog == nil {
		return filter, fmt.Errorf("%w: no video catalog for anonymous owner", domain.ErrFilterResolution)
	}
	ids, err := s.catalog.VideoIDsForOwner(ctx, owner)
	if err != nil {
		return filter, fmt.Errorf("%w: videos for owner: %w", domain.ErrFilterResolution, err)
	}
	filter.VideoIDs = nonNil(ids)
	logger.Debug("Anonymous owner scoped to %d videos", len(ids))

	return filter, nil
}

// resolveSecondary turns category, collection and favourite filters into one
// video-id allow-list. A nil result means no secondary filter was set.
func (s *SearchService) resolveSecondary(
	ctx context.Context, owner domain.OwnerKey, filters domain.SearchFilters,
) ([]string, error) {
	if !filters.HasSecondary() {
		return nil, nil
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: no video catalog configured", domain.ErrFilterResolution)
	}

	var allow []string
	apply := func(ids []string) {
		if allow == nil {
			allow = nonNil(ids)
			return
		}
		allow = intersectIDs(allow, ids)
	}

	if filters.CategoryID != "" {
		ids, err := s.catalog.VideoIDsInCategory(ctx, owner, filters.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: category %s: %w", domain.ErrFilterResolution, filters.CategoryID, err)
		}
		apply(ids)
	}
	if filters.CollectionID != "" {
		ids, err := s.catalog.VideoIDsInCollection(ctx, owner, filters.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("%w: collection %s: %w", domain.ErrFilterResolution, filters.CollectionID, err)
		}
		apply(ids)
	}
	if filters.IsFavorite != nil {
		ids, err := s.catalog.VideoIDsByFavorite(ctx, owner, *filters.IsFavorite)
		if err != nil {
			return nil, fmt.Errorf("%w: favourites: %w", domain.ErrFilterResolution, err)
		}
		apply(ids)
	}

	logger.Debug("Secondary filters allow %d videos", len(allow))
	return allow, nil
}

// scan fetches up to the retrieval ceiling and ranks in process.
func (s *SearchService) scan(
	ctx context.Context,
	filter domain.ChunkFilter,
	allow []string,
	query []float32,
	limit int,
) ([]domain.SearchResult, error) {
	records, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find chunks: %w", err)
	}
	logger.Debug("Candidates: %d chunks", len(records))

	var allowed map[string]struct{}
	if allow != nil {
		allowed = make(map[string]struct{}, len(allow))
		for _, id := range allow {
			allowed[id] = struct{}{}
		}
	}

	results := make([]domain.SearchResult, 0, len(records))
	for i := range records {
		rec := records[i]
		if allowed != nil {
			if _, ok := allowed[rec.VideoID]; !ok {
				continue
			}
		}
		if len(rec.Embedding) != len(query) {
			logger.Debug("Skipping chunk %s: %d dimensions, query has %d", rec.ID, len(rec.Embedding), len(query))
			continue
		}
		sim := CosineSimilarity(query, rec.Embedding)
		if sim < s.threshold {
			continue
		}
		results = append(results, domain.SearchResult{Chunk: rec, Similarity: sim})
	}

	SortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// record offers the search to the history sink. Failures never reach the caller.
func (s *SearchService) record(
	ctx context.Context, owner domain.OwnerKey, query string, filters domain.SearchFilters, count int,
) {
	if s.history == nil {
		return
	}
	entry := domain.SearchHistoryEntry{
		Owner:       owner,
		Query:       query,
		Filters:     filters,
		ResultCount: count,
		CreatedAt:   s.now().Unix(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warn("Recording search history failed: %v", err)
	}
}

// SortResults orders results by similarity descending, then video id, then
// chunk index, so equal scores rank deterministically.
func SortResults(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Chunk.VideoID != b.Chunk.VideoID {
			return a.Chunk.VideoID < b.Chunk.VideoID
		}
		return a.Chunk.ChunkIndex < b.Chunk.ChunkIndex
	})
}

func withSimilarity(meta map[string]any, sim float64) map[string]any {
	out := make(map[string]any, len(meta)+1)
	maps.Copy(out, meta)
	out[domain.MetaSimilarity] = sim
	return out
}

// intersectIDs keeps the ids of a that also appear in b, in a's order.
// The result is never nil.
func intersectIDs(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	out := make([]string, 0, min(len(a), len(b)))
	for _, id := range a {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
