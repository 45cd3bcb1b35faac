package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// FiltersInput narrows a search.
type FiltersInput struct {
	VideoID      string   `json:"video_id,omitempty" jsonschema:"restrict to one video"`
	ContentTypes []string `json:"content_types,omitempty" jsonschema:"any of transcript, summary, note, conversation"`
	CategoryID   string   `json:"category_id,omitempty" jsonschema:"restrict to videos in a category"`
	CollectionID string   `json:"collection_id,omitempty" jsonschema:"restrict to videos in a collection"`
	IsFavorite   *bool    `json:"is_favorite,omitempty" jsonschema:"restrict to favourite or non-favourite videos"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query   string       `json:"query" jsonschema:"what to look for in the indexed videos"`
	Limit   int          `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Filters FiltersInput `json:"filters,omitempty"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	VideoID            string   `json:"video_id"`
	ChunkID            string   `json:"chunk_id"`
	ContentType        string   `json:"content_type"`
	ChunkIndex         int      `json:"chunk_index"`
	Similarity         float64  `json:"similarity"`
	Content            string   `json:"content"`
	Timestamp          *float64 `json:"timestamp,omitempty"`
	FormattedTimestamp string   `json:"formatted_timestamp,omitempty"`
}

// TurnInput is one earlier question and answer.
type TurnInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question   string       `json:"question" jsonschema:"the question to answer from the indexed videos"`
	Title      string       `json:"title,omitempty" jsonschema:"title of the video being discussed"`
	SourceText string       `json:"source_text,omitempty" jsonschema:"transcript or summary to ground the answer"`
	History    []TurnInput  `json:"history,omitempty" jsonschema:"earlier turns, oldest first"`
	Limit      int          `json:"limit,omitempty" jsonschema:"maximum passages to retrieve"`
	Filters    FiltersInput `json:"filters,omitempty"`
	RecordTurn bool         `json:"record_turn,omitempty" jsonschema:"index this turn into the video's conversation"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search across indexed video transcripts, summaries, notes and conversations",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from indexed videos with numbered citations and timestamps",
		}, s.handleAsk)
	}
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filters, err := input.Filters.toDomain()
	if err != nil {
		return nil, SearchOutput{}, err
	}

	opts := domain.SearchOptions{Limit: input.Limit, Filters: filters}
	results, err := s.ports.Search.Search(ctx, s.ports.Owner, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = toResultOutput(&results[i])
	}

	return nil, output, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.Answer, error) {
	if s.ports.Answer == nil {
		return nil, domain.Answer{}, errors.New("question answering is not configured")
	}

	filters, err := input.Filters.toDomain()
	if err != nil {
		return nil, domain.Answer{}, err
	}

	history := make([]domain.ConversationTurn, len(input.History))
	for i, t := range input.History {
		history[i] = domain.ConversationTurn{Question: t.Question, Answer: t.Answer}
	}

	answer, err := s.ports.Answer.Ask(ctx, s.ports.Owner, domain.AskRequest{
		Question:   input.Question,
		Title:      input.Title,
		SourceText: input.SourceText,
		History:    history,
		Options:    domain.SearchOptions{Limit: input.Limit, Filters: filters},
		RecordTurn: input.RecordTurn,
	})
	if err != nil {
		return nil, domain.Answer{}, err
	}

	return nil, *answer, nil
}

func (f FiltersInput) toDomain() (domain.SearchFilters, error) {
	filters := domain.SearchFilters{
		VideoID:      f.VideoID,
		CategoryID:   f.CategoryID,
		CollectionID: f.CollectionID,
		IsFavorite:   f.IsFavorite,
	}
	for _, s := range f.ContentTypes {
		ct, err := domain.ParseContentType(s)
		if err != nil {
			return domain.SearchFilters{}, err
		}
		filters.ContentTypes = append(filters.ContentTypes, ct)
	}
	return filters, nil
}

func toResultOutput(r *domain.SearchResult) SearchResultOutput {
	out := SearchResultOutput{
		VideoID:            r.Chunk.VideoID,
		ChunkID:            r.Chunk.ID,
		ContentType:        string(r.Chunk.ContentType),
		ChunkIndex:         r.Chunk.ChunkIndex,
		Similarity:         r.Similarity,
		Content:            r.Chunk.Content,
		FormattedTimestamp: r.Chunk.FormattedTimestamp(),
	}
	if ts, ok := r.Chunk.Timestamp(); ok {
		out.Timestamp = &ts
	}
	return out
}
