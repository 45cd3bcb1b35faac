package domain

// Citation links a bracketed marker in an answer back to a search result.
type Citation struct {
	// Ordinal is the 1-based number the result was presented under.
	Ordinal int `json:"ordinal"`

	VideoID            string      `json:"video_id"`
	ChunkID            string      `json:"chunk_id"`
	Content            string      `json:"content"`
	ContentType        ContentType `json:"content_type"`
	Timestamp          *float64    `json:"timestamp,omitempty"`
	FormattedTimestamp string      `json:"formatted_timestamp,omitempty"`
}

// Answer is generated text plus the citations it references.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// AnswerRequest carries everything the answer generator is shown.
type AnswerRequest struct {
	// SourceText is the primary content, usually a transcript or summary.
	SourceText string

	// Title is the video title.
	Title string

	// Question is the user's question.
	Question string

	// History is prior turns, oldest first.
	History []ConversationTurn

	// Results are presented to the generator as [1], [2], ...
	Results []SearchResult
}

// AskRequest combines a search and an answer in one call.
type AskRequest struct {
	Question   string
	Title      string
	SourceText string
	History    []ConversationTurn
	Options    SearchOptions

	// RecordTurn appends the question and answer to the
	// conversation index of Options.Filters.VideoID.
	RecordTurn bool
}
