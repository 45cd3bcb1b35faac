package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// citationMarker matches [3] and [1, 4] style markers.
var citationMarker = regexp.MustCompile(`\[(\d+(?:\s*,\s*\d+)*)\]`)

// ParseCitations resolves the bracketed ordinals in text against results.
// Citations come back in order of first mention, each at most once.
// Ordinals outside 1..len(results) are ignored.
func ParseCitations(text string, results []domain.SearchResult) []domain.Citation {
	citations := make([]domain.Citation, 0)
	seen := make(map[int]struct{})

	for _, m := range citationMarker.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 || n > len(results) {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			citations = append(citations, citationFor(n, &results[n-1].Chunk))
		}
	}

	return citations
}

func citationFor(ordinal int, c *domain.ChunkRecord) domain.Citation {
	citation := domain.Citation{
		Ordinal:     ordinal,
		VideoID:     c.VideoID,
		ChunkID:     c.ID,
		Content:     c.Content,
		ContentType: c.ContentType,
	}
	if ts, ok := c.Timestamp(); ok {
		citation.Timestamp = &ts
		citation.FormattedTimestamp = c.FormattedTimestamp()
		if citation.FormattedTimestamp == "" {
			citation.FormattedTimestamp = domain.FormatTimestamp(ts)
		}
	}
	return citation
}
