package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		search := &mockSearchService{
			results: []domain.SearchResult{{
				Chunk: domain.ChunkRecord{
					ID:          "c-1",
					VideoID:     "v-1",
					ContentType: domain.ContentTranscript,
					ChunkIndex:  4,
					Content:     "goroutines are cheap",
					Metadata: map[string]any{
						domain.MetaTimestamp:          75.0,
						domain.MetaFormattedTimestamp: "1:15",
					},
				},
				Similarity: 0.91,
			}},
		}
		server, err := NewServer(&Ports{Owner: testOwner, Search: search})
		require.NoError(t, err)

		fav := true
		_, output, err := server.handleSearch(ctx, nil, SearchInput{
			Query: "goroutines",
			Limit: 5,
			Filters: FiltersInput{
				ContentTypes: []string{"transcript", "notes"},
				IsFavorite:   &fav,
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testOwner, search.owner)
		assert.Equal(t, 5, search.opts.Limit)
		assert.Equal(t, []domain.ContentType{domain.ContentTranscript, domain.ContentNote}, search.opts.Filters.ContentTypes)
		assert.True(t, *search.opts.Filters.IsFavorite)

		require.Equal(t, 1, output.Count)
		r := output.Results[0]
		assert.Equal(t, "v-1", r.VideoID)
		assert.Equal(t, "c-1", r.ChunkID)
		assert.Equal(t, "transcript", r.ContentType)
		assert.Equal(t, 4, r.ChunkIndex)
		assert.InDelta(t, 0.91, r.Similarity, 1e-9)
		require.NotNil(t, r.Timestamp)
		assert.InDelta(t, 75.0, *r.Timestamp, 1e-9)
		assert.Equal(t, "1:15", r.FormattedTimestamp)
	})

	t.Run("rejects unknown content type", func(t *testing.T) {
		server, err := NewServer(&Ports{Owner: testOwner, Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{
			Query:   "q",
			Filters: FiltersInput{ContentTypes: []string{"slides"}},
		})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Owner: testOwner, Search: search})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the request through", func(t *testing.T) {
		answer := &mockAnswerService{answer: &domain.Answer{
			Text:      "Use channels [1].",
			Citations: []domain.Citation{{Ordinal: 1, VideoID: "v-1"}},
		}}
		server, err := NewServer(&Ports{Owner: testOwner, Search: &mockSearchService{}, Answer: answer})
		require.NoError(t, err)

		_, out, err := server.handleAsk(ctx, nil, AskInput{
			Question:   "How do I sync?",
			Title:      "Concurrency",
			History:    []TurnInput{{Question: "q0", Answer: "a0"}},
			Filters:    FiltersInput{VideoID: "v-1"},
			RecordTurn: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "Use channels [1].", out.Text)
		assert.Len(t, out.Citations, 1)
		assert.Equal(t, "How do I sync?", answer.req.Question)
		assert.Equal(t, "v-1", answer.req.Options.Filters.VideoID)
		assert.Equal(t, []domain.ConversationTurn{{Question: "q0", Answer: "a0"}}, answer.req.History)
		assert.True(t, answer.req.RecordTurn)
	})

	t.Run("surfaces unavailable LLM", func(t *testing.T) {
		answer := &mockAnswerService{err: domain.ErrLLMUnavailable}
		server, err := NewServer(&Ports{Owner: testOwner, Search: &mockSearchService{}, Answer: answer})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Owner: testOwner, Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})
		assert.Error(t, err)
	})
}
