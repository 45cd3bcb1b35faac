package domain

import "fmt"

// RawContent is a video's content stream as submitted for indexing,
// before markup and timestamps are stripped.
type RawContent struct {
	// VideoID is the video the content belongs to.
	VideoID string

	// ContentType selects the normaliser.
	ContentType ContentType

	// Format is an optional hint such as "srt", "vtt", "json" or "markdown".
	// Normalisers sniff the content when it is empty.
	Format string

	// Content is the raw bytes.
	Content []byte
}

// TimestampEntry locates one original transcript line in the video.
type TimestampEntry struct {
	// Seconds is the offset into the video.
	Seconds float64

	// Duration is how long the line is on screen, in seconds.
	Duration float64
}

// TimestampTable maps an original transcript line index to its timing.
type TimestampTable map[int]TimestampEntry

// NormalisedContent is plain text ready for chunking.
type NormalisedContent struct {
	// Text is the content with markup removed.
	// Transcript lines are separated by newlines.
	Text string

	// Timestamps is set for transcripts that carried timing information.
	Timestamps TimestampTable

	// LineCount is the number of original lines the table indexes into.
	LineCount int
}

// HasTimestamps reports whether any timing information was extracted.
func (n *NormalisedContent) HasTimestamps() bool {
	return n != nil && len(n.Timestamps) > 0
}

// VideoContent bundles the content streams of one video for indexing.
// Empty streams are skipped.
type VideoContent struct {
	VideoID    string
	Transcript RawContent
	Summary    RawContent
	Notes      RawContent
}

// ConversationTurn is one question and its answer.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FormatTimestamp renders seconds as m:ss, or h:mm:ss past the hour.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
