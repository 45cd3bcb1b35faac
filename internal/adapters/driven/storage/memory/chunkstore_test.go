package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var (
	alice = domain.UserOwner(1)
	bob   = domain.UserOwner(2)
)

func record(owner domain.OwnerKey, video string, ct domain.ContentType, index int) domain.ChunkRecord {
	return domain.ChunkRecord{
		Owner:       owner,
		VideoID:     video,
		ContentType: ct,
		ChunkIndex:  index,
		Content:     fmt.Sprintf("%s %s %d", video, ct, index),
		Embedding:   []float32{1, 0, 0},
		Metadata:    map[string]any{domain.MetaPosition: index},
	}
}

func TestChunkStore_InsertAssignsID(t *testing.T) {
	store := NewChunkStore()
	rec := record(alice, "v1", domain.ContentTranscript, 0)

	id, err := store.Insert(context.Background(), &rec)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestChunkStore_InsertRejectsInvalid(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	empty := record(alice, "v1", domain.ContentNote, 0)
	empty.Content = ""
	_, err := store.Insert(ctx, &empty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	noOwner := record(domain.OwnerKey{}, "v1", domain.ContentNote, 0)
	_, err = store.Insert(ctx, &noOwner)
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestChunkStore_UniqueSlot(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	first := record(alice, "v1", domain.ContentSummary, 0)
	_, err := store.Insert(ctx, &first)
	require.NoError(t, err)

	dup := record(alice, "v1", domain.ContentSummary, 0)
	_, err = store.Insert(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	other := record(bob, "v1", domain.ContentSummary, 0)
	_, err = store.Insert(ctx, &other)
	assert.NoError(t, err)
}

func TestChunkStore_InsertBatchIsAtomic(t *testing.T) {
	store := NewChunkStore()
	recs := []domain.ChunkRecord{
		record(alice, "v1", domain.ContentTranscript, 0),
		record(alice, "v1", domain.ContentTranscript, 1),
		record(alice, "v1", domain.ContentTranscript, 1),
	}

	err := store.InsertBatch(context.Background(), recs)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Zero(t, store.Count())
}

func TestChunkStore_Find(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBatch(ctx, []domain.ChunkRecord{
		record(alice, "v1", domain.ContentTranscript, 0),
		record(alice, "v1", domain.ContentTranscript, 1),
		record(alice, "v1", domain.ContentSummary, 0),
		record(alice, "v2", domain.ContentNote, 0),
		record(bob, "v3", domain.ContentNote, 0),
	}))

	tests := []struct {
		name   string
		filter domain.ChunkFilter
		want   int
	}{
		{"owner", domain.ChunkFilter{Owner: alice}, 4},
		{"video", domain.ChunkFilter{Owner: alice, VideoID: "v1"}, 3},
		{"content types", domain.ChunkFilter{Owner: alice, ContentTypes: []domain.ContentType{domain.ContentNote}}, 1},
		{"video set", domain.ChunkFilter{VideoIDs: []string{"v2", "v3"}}, 2},
		{"empty video set", domain.ChunkFilter{VideoIDs: []string{}}, 0},
		{"limit", domain.ChunkFilter{Owner: alice, Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Find(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestChunkStore_FindCapsAtCeiling(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	recs := make([]domain.ChunkRecord, 0, 150)
	for i := 0; i < 150; i++ {
		recs = append(recs, record(alice, "v1", domain.ContentTranscript, i))
	}
	require.NoError(t, store.InsertBatch(ctx, recs))

	got, err := store.Find(ctx, domain.ChunkFilter{Owner: alice, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, got, domain.RetrievalCeiling)
}

func TestChunkStore_FindOrdersNewestFirstThenIndex(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := record(alice, "v1", domain.ContentTranscript, 0)
	older.CreatedAt = base
	newer1 := record(alice, "v2", domain.ContentTranscript, 1)
	newer1.CreatedAt = base.Add(time.Hour)
	newer0 := record(alice, "v2", domain.ContentTranscript, 0)
	newer0.CreatedAt = base.Add(time.Hour)
	require.NoError(t, store.InsertBatch(ctx, []domain.ChunkRecord{older, newer1, newer0}))

	got, err := store.Find(ctx, domain.ChunkFilter{Owner: alice})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "v2", got[0].VideoID)
	assert.Equal(t, 0, got[0].ChunkIndex)
	assert.Equal(t, 1, got[1].ChunkIndex)
	assert.Equal(t, "v1", got[2].VideoID)
}

func TestChunkStore_Delete(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBatch(ctx, []domain.ChunkRecord{
		record(alice, "v1", domain.ContentTranscript, 0),
		record(alice, "v1", domain.ContentTranscript, 1),
		record(alice, "v1", domain.ContentSummary, 0),
		record(bob, "v1", domain.ContentSummary, 0),
	}))

	n, err := store.DeleteByVideoAndType(ctx, alice, "v1", domain.ContentTranscript)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// The freed slots can be reused.
	again := record(alice, "v1", domain.ContentTranscript, 0)
	_, err = store.Insert(ctx, &again)
	require.NoError(t, err)

	n, err = store.DeleteByVideo(ctx, alice, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.Count())
}

func TestChunkStore_NextChunkIndex(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	next, err := store.NextChunkIndex(ctx, alice, "v1", domain.ContentConversation)
	require.NoError(t, err)
	assert.Zero(t, next)

	require.NoError(t, store.InsertBatch(ctx, []domain.ChunkRecord{
		record(alice, "v1", domain.ContentConversation, 0),
		record(alice, "v1", domain.ContentConversation, 4),
	}))

	next, err = store.NextChunkIndex(ctx, alice, "v1", domain.ContentConversation)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
}

func TestChunkStore_FindReturnsCopies(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()
	rec := record(alice, "v1", domain.ContentNote, 0)
	_, err := store.Insert(ctx, &rec)
	require.NoError(t, err)

	got, err := store.Find(ctx, domain.ChunkFilter{Owner: alice})
	require.NoError(t, err)
	got[0].Metadata["mutated"] = true

	again, err := store.Find(ctx, domain.ChunkFilter{Owner: alice})
	require.NoError(t, err)
	assert.NotContains(t, again[0].Metadata, "mutated")
}

func TestChunkStore_ConcurrentAccess(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			rec := record(alice, "v1", domain.ContentTranscript, i)
			_, _ = store.Insert(ctx, &rec)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Find(ctx, domain.ChunkFilter{Owner: alice})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Count())
}
