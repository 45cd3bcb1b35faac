package domain

import "time"

// ContentType tags the source stream a chunk was cut from.
type ContentType string

// Available content types.
const (
	// ContentTranscript is the spoken transcript of a video.
	ContentTranscript ContentType = "transcript"

	// ContentSummary is a generated or user-written summary.
	ContentSummary ContentType = "summary"

	// ContentNote is a free-form user note.
	ContentNote ContentType = "note"

	// ContentConversation is a question/answer turn about a video.
	ContentConversation ContentType = "conversation"
)

// IsValid returns true if the content type is recognised.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTranscript, ContentSummary, ContentNote, ContentConversation:
		return true
	default:
		return false
	}
}

// IsSequential reports whether humans read chunks of this type in order.
// Conversation turns are appended and never re-read as a stream.
func (c ContentType) IsSequential() bool {
	return c == ContentTranscript || c == ContentSummary || c == ContentNote
}

// String returns the string representation.
func (c ContentType) String() string {
	return string(c)
}

// Description returns a human-readable label.
func (c ContentType) Description() string {
	switch c {
	case ContentTranscript:
		return "Transcript"
	case ContentSummary:
		return "Summary"
	case ContentNote:
		return "Notes"
	case ContentConversation:
		return "Conversation"
	default:
		return "Unknown"
	}
}

// AllContentTypes returns every content type in indexing order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTranscript,
		ContentSummary,
		ContentNote,
		ContentConversation,
	}
}

// ParseContentType parses a content type, accepting "notes" as an alias.
func ParseContentType(s string) (ContentType, error) {
	if s == "notes" {
		return ContentNote, nil
	}
	c := ContentType(s)
	if !c.IsValid() {
		return "", ErrUnsupportedType
	}
	return c, nil
}

// Metadata keys written on every chunk.
const (
	MetaPosition           = "position"
	MetaLength             = "length"
	MetaCreatedAt          = "created_at"
	MetaTimestamp          = "timestamp"
	MetaDuration           = "duration"
	MetaFormattedTimestamp = "formatted_timestamp"
	MetaSimilarity         = "similarity"
)

// ChunkRecord is the unit of indexing: one embedded segment of a video's content.
type ChunkRecord struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Owner scopes the chunk to a principal.
	Owner OwnerKey

	// VideoID is the source video.
	VideoID string

	// ContentType is the stream the chunk was cut from.
	ContentType ContentType

	// ChunkIndex is the zero-based position within (VideoID, ContentType).
	ChunkIndex int

	// Content is plain text, never empty.
	Content string

	// Embedding is the vector representation of Content.
	Embedding []float32

	// Metadata holds position, length, created_at and,
	// for transcripts, timestamp information.
	Metadata map[string]any

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time
}

// Timestamp returns the transcript timestamp in seconds, if present.
func (c *ChunkRecord) Timestamp() (float64, bool) {
	return metaFloat(c.Metadata, MetaTimestamp)
}

// FormattedTimestamp returns the human-readable timestamp, or "".
func (c *ChunkRecord) FormattedTimestamp() string {
	if c.Metadata == nil {
		return ""
	}
	s, _ := c.Metadata[MetaFormattedTimestamp].(string)
	return s
}

// ChunkFilter selects chunk records from a store.
// Zero-valued fields do not constrain the result.
type ChunkFilter struct {
	// Owner restricts to chunks stored under this key. Ignored when zero.
	Owner OwnerKey

	// VideoID restricts to a single video.
	VideoID string

	// VideoIDs restricts to a set of videos. A non-nil empty slice matches nothing.
	VideoIDs []string

	// ContentTypes restricts to a set of content types.
	ContentTypes []ContentType

	// Limit caps the number of records. Zero means RetrievalCeiling.
	Limit int
}

// MatchesNothing reports whether the filter has an explicit empty video set.
func (f ChunkFilter) MatchesNothing() bool {
	return f.VideoIDs != nil && len(f.VideoIDs) == 0
}

// EffectiveLimit returns the limit clamped to RetrievalCeiling.
func (f ChunkFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > RetrievalCeiling {
		return RetrievalCeiling
	}
	return f.Limit
}

// Matches reports whether a record satisfies the filter, ignoring Limit.
func (f ChunkFilter) Matches(c *ChunkRecord) bool {
	if f.Owner.Kind() != OwnerNone && c.Owner != f.Owner {
		return false
	}
	if f.VideoID != "" && c.VideoID != f.VideoID {
		return false
	}
	if f.VideoIDs != nil && !containsString(f.VideoIDs, c.VideoID) {
		return false
	}
	if len(f.ContentTypes) > 0 {
		found := false
		for _, ct := range f.ContentTypes {
			if ct == c.ContentType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func metaFloat(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
