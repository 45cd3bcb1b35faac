package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

type filtersRequest struct {
	VideoID      string   `json:"video_id,omitempty"`
	ContentTypes []string `json:"content_types,omitempty"`
	CategoryID   string   `json:"category_id,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
	IsFavorite   *bool    `json:"is_favorite,omitempty"`
}

func (f filtersRequest) toDomain() (domain.SearchFilters, error) {
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

type searchRequest struct {
	Query   string         `json:"query"`
	Limit   int            `json:"limit,omitempty"`
	Filters filtersRequest `json:"filters"`
}

type resultResponse struct {
	ChunkID            string             `json:"chunk_id"`
	VideoID            string             `json:"video_id"`
	ContentType        domain.ContentType `json:"content_type"`
	ChunkIndex         int                `json:"chunk_index"`
	Content            string             `json:"content"`
	Similarity         float64            `json:"similarity"`
	Timestamp          *float64           `json:"timestamp,omitempty"`
	FormattedTimestamp string             `json:"formatted_timestamp,omitempty"`
}

type searchResponse struct {
	Results []resultResponse `json:"results"`
	Count   int              `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	var req searchRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	filters, err := req.Filters.toDomain()
	if err != nil {
		fail(w, err)
		return
	}

	results, err := s.services.Search.Search(r.Context(), owner, req.Query,
		domain.SearchOptions{Limit: req.Limit, Filters: filters})
	if err != nil {
		fail(w, err)
		return
	}

	resp := searchResponse{Results: make([]resultResponse, len(results)), Count: len(results)}
	for i := range results {
		c := &results[i].Chunk
		resp.Results[i] = resultResponse{
			ChunkID:            c.ID,
			VideoID:            c.VideoID,
			ContentType:        c.ContentType,
			ChunkIndex:         c.ChunkIndex,
			Content:            c.Content,
			Similarity:         results[i].Similarity,
			FormattedTimestamp: c.FormattedTimestamp(),
		}
		if ts, ok := c.Timestamp(); ok {
			resp.Results[i].Timestamp = &ts
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type askRequest struct {
	Question   string                    `json:"question"`
	Title      string                    `json:"title,omitempty"`
	SourceText string                    `json:"source_text,omitempty"`
	History    []domain.ConversationTurn `json:"history,omitempty"`
	Limit      int                       `json:"limit,omitempty"`
	Filters    filtersRequest            `json:"filters"`
	RecordTurn bool                      `json:"record_turn,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	if s.services.Answer == nil {
		fail(w, domain.ErrLLMUnavailable)
		return
	}

	var req askRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	filters, err := req.Filters.toDomain()
	if err != nil {
		fail(w, err)
		return
	}

	answer, err := s.services.Answer.Ask(r.Context(), owner, domain.AskRequest{
		Question:   req.Question,
		Title:      req.Title,
		SourceText: req.SourceText,
		History:    req.History,
		Options:    domain.SearchOptions{Limit: req.Limit, Filters: filters},
		RecordTurn: req.RecordTurn,
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type contentRequest struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

func (s *Server) handleIndexContent(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	vars := mux.Vars(r)
	ct, err := domain.ParseContentType(vars["contentType"])
	if err != nil {
		fail(w, err)
		return
	}

	var req contentRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}

	report, err := s.services.Indexing.IndexContent(r.Context(), owner, domain.RawContent{
		VideoID:     vars["videoId"],
		ContentType: ct,
		Format:      req.Format,
		Content:     []byte(req.Content),
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	var turn domain.ConversationTurn
	if err := decode(r, &turn); err != nil {
		fail(w, err)
		return
	}

	report, err := s.services.Indexing.AppendConversation(r.Context(), owner, mux.Vars(r)["videoId"], turn)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	n, err := s.services.Indexing.DeleteVideo(r.Context(), owner, mux.Vars(r)["videoId"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

type videoRequest struct {
	Title      string `json:"title"`
	CategoryID string `json:"category_id,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

func (s *Server) handleRegisterVideo(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	if s.services.Videos == nil {
		writeError(w, http.StatusNotImplemented, "video catalog not configured")
		return
	}

	var req videoRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}

	id := mux.Vars(r)["videoId"]
	err := s.services.Videos.RegisterVideo(r.Context(), domain.VideoRef{
		ID:         id,
		Owner:      owner,
		Title:      req.Title,
		CategoryID: req.CategoryID,
		IsFavorite: req.IsFavorite,
	})
	if err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddToCollection(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	if s.services.Videos == nil {
		writeError(w, http.StatusNotImplemented, "video catalog not configured")
		return
	}

	vars := mux.Vars(r)
	if err := s.services.Videos.AddToCollection(r.Context(), owner, vars["collectionId"], vars["videoId"]); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type historyResponse struct {
	Query       string               `json:"query"`
	Filters     domain.SearchFilters `json:"filters"`
	ResultCount int                  `json:"result_count"`
	CreatedAt   int64                `json:"created_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, owner domain.OwnerKey) {
	if s.services.History == nil {
		writeJSON(w, http.StatusOK, []historyResponse{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.services.History.Recent(r.Context(), owner, limit)
	if err != nil {
		fail(w, err)
		return
	}

	out := make([]historyResponse, len(entries))
	for i, e := range entries {
		out[i] = historyResponse{Query: e.Query, Filters: e.Filters, ResultCount: e.ResultCount, CreatedAt: e.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}
