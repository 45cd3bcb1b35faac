package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

type streamKey struct {
	owner       domain.OwnerKey
	videoID     string
	contentType domain.ContentType
}

type slotKey struct {
	stream streamKey
	index  int
}

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Ranking happens in the search service; the store only filters.
type ChunkStore struct {
	mu      sync.RWMutex
	records map[string]domain.ChunkRecord
	slots   map[slotKey]string
	now     func() time.Time
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		records: make(map[string]domain.ChunkRecord),
		slots:   make(map[slotKey]string),
		now:     time.Now,
	}
}

// Insert stores a single record.
func (s *ChunkStore) Insert(_ context.Context, rec *domain.ChunkRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(rec, nil); err != nil {
		return "", err
	}
	s.put(rec)
	return rec.ID, nil
}

// InsertBatch stores all records or none.
func (s *ChunkStore) InsertBatch(_ context.Context, recs []domain.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make(map[slotKey]struct{}, len(recs))
	for i := range recs {
		if err := s.check(&recs[i], pending); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	for i := range recs {
		s.put(&recs[i])
	}
	return nil
}

func (s *ChunkStore) check(rec *domain.ChunkRecord, pending map[slotKey]struct{}) error {
	if err := rec.Owner.Validate(); err != nil {
		return err
	}
	if rec.Content == "" {
		return fmt.Errorf("%w: empty chunk content", domain.ErrInvalidInput)
	}
	key := slotOf(rec)
	if _, taken := s.slots[key]; taken {
		return fmt.Errorf("%w: chunk %d of %s/%s", domain.ErrAlreadyExists, rec.ChunkIndex, rec.VideoID, rec.ContentType)
	}
	if pending != nil {
		if _, taken := pending[key]; taken {
			return fmt.Errorf("%w: duplicate chunk %d in batch", domain.ErrAlreadyExists, rec.ChunkIndex)
		}
		pending[key] = struct{}{}
	}
	return nil
}

func (s *ChunkStore) put(rec *domain.ChunkRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	stored := *rec
	stored.Metadata = maps.Clone(rec.Metadata)
	stored.Embedding = append([]float32(nil), rec.Embedding...)
	s.records[stored.ID] = stored
	s.slots[slotOf(&stored)] = stored.ID
}

// DeleteByVideo removes every chunk of a video.
func (s *ChunkStore) DeleteByVideo(_ context.Context, owner domain.OwnerKey, videoID string) (int, error) {
	return s.deleteWhere(func(r *domain.ChunkRecord) bool {
		return r.Owner == owner && r.VideoID == videoID
	}), nil
}

// DeleteByVideoAndType removes one content stream of a video.
func (s *ChunkStore) DeleteByVideoAndType(
	_ context.Context, owner domain.OwnerKey, videoID string, ct domain.ContentType,
) (int, error) {
	return s.deleteWhere(func(r *domain.ChunkRecord) bool {
		return r.Owner == owner && r.VideoID == videoID && r.ContentType == ct
	}), nil
}

func (s *ChunkStore) deleteWhere(match func(*domain.ChunkRecord) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, rec := range s.records {
		if match(&rec) {
			delete(s.records, id)
			delete(s.slots, slotOf(&rec))
			n++
		}
	}
	return n
}

// Find returns matching records, newest first, capped at the filter limit.
func (s *ChunkStore) Find(_ context.Context, filter domain.ChunkFilter) ([]domain.ChunkRecord, error) {
	if filter.MatchesNothing() {
		return []domain.ChunkRecord{}, nil
	}

	s.mu.RLock()
	out := make([]domain.ChunkRecord, 0)
	for _, rec := range s.records {
		if filter.Matches(&rec) {
			rec.Metadata = maps.Clone(rec.Metadata)
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.VideoID != b.VideoID {
			return a.VideoID < b.VideoID
		}
		if a.ContentType != b.ContentType {
			return a.ContentType < b.ContentType
		}
		return a.ChunkIndex < b.ChunkIndex
	})

	if limit := filter.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NextChunkIndex returns one past the highest index of a stream.
func (s *ChunkStore) NextChunkIndex(
	_ context.Context, owner domain.OwnerKey, videoID string, ct domain.ContentType,
) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := 0
	for _, rec := range s.records {
		if rec.Owner == owner && rec.VideoID == videoID && rec.ContentType == ct && rec.ChunkIndex >= next {
			next = rec.ChunkIndex + 1
		}
	}
	return next, nil
}

// Count returns the number of stored records.
func (s *ChunkStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *ChunkStore) Close() error {
	return nil
}

func slotOf(rec *domain.ChunkRecord) slotKey {
	return slotKey{
		stream: streamKey{owner: rec.Owner, videoID: rec.VideoID, contentType: rec.ContentType},
		index:  rec.ChunkIndex,
	}
}
