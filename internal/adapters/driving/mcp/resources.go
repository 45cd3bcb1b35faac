package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

const uriScheme = "clipmind://"

// historyLimit caps the history resource.
const historyLimit = 50

// registerResources registers the optional resources whose ports are set.
func (s *Server) registerResources() {
	if s.ports.History != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "history",
			Name:        "search-history",
			Description: "Recent searches, newest first",
			MIMEType:    "application/json",
		}, s.handleHistoryResource)
	}

	if s.ports.Videos != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "videos/{videoId}",
			Name:        "video",
			Description: "Catalog entry of a video: title, category and favourite flag",
			MIMEType:    "application/json",
		}, s.handleVideoResource)
	}
}

type historyInfo struct {
	Query       string               `json:"query"`
	Filters     domain.SearchFilters `json:"filters"`
	ResultCount int                  `json:"result_count"`
	CreatedAt   int64                `json:"created_at"`
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.History.Recent(ctx, s.ports.Owner, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing search history: %w", err)
	}

	infos := make([]historyInfo, len(entries))
	for i, e := range entries {
		infos[i] = historyInfo{
			Query:       e.Query,
			Filters:     e.Filters,
			ResultCount: e.ResultCount,
			CreatedAt:   e.CreatedAt,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

type videoInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CategoryID string `json:"category_id,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// handleVideoResource only reveals videos owned by the server's owner.
func (s *Server) handleVideoResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	videoID := extractVideoID(req.Params.URI)
	if videoID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	video, err := s.ports.Videos.GetVideo(ctx, s.ports.Owner, videoID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting video: %w", err)
	}

	return jsonResource(req.Params.URI, videoInfo{
		ID:         video.ID,
		Title:      video.Title,
		CategoryID: video.CategoryID,
		IsFavorite: video.IsFavorite,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractVideoID extracts the id from clipmind://videos/{videoId}.
func extractVideoID(uri string) string {
	const prefix = uriScheme + "videos/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
