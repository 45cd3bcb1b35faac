package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// MaxSourceChars bounds the source text placed in the system context.
const MaxSourceChars = 12000

// DefaultAnswerPrompt is used when no prompt store is set or it has no answer prompt.
const DefaultAnswerPrompt = `You answer questions about the video "{{title}}".

Source material:
{{source}}

Relevant passages:
{{results}}

Answer using the source material and the passages. After every claim, cite the
passages that support it with their bracketed numbers, for example [1] or [2, 3].
Only cite numbers from the list above. If the material does not contain the
answer, say so.`

// AnswerService generates cited answers from search results.
type AnswerService struct {
	llm         driven.LLMService
	search      driving.SearchService
	indexer     driving.IndexingService
	promptStore driven.PromptStore
	maxTokens   int
}

// NewAnswerService creates a new answer service.
// llm may be nil, in which case Answer and Ask fail with domain.ErrLLMUnavailable.
// search and indexer are only needed by Ask.
func NewAnswerService(
	llm driven.LLMService,
	search driving.SearchService,
	indexer driving.IndexingService,
) *AnswerService {
	return &AnswerService{
		llm:       llm,
		search:    search,
		indexer:   indexer,
		maxTokens: 1024,
	}
}

// SetPromptStore sets the prompt store for the answer system prompt.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer presents the numbered results to the LLM and resolves the
// citations in its reply.
func (s *AnswerService) Answer(ctx context.Context, req domain.AnswerRequest) (*domain.Answer, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question required", domain.ErrInvalidInput)
	}

	messages := BuildAnswerMessages(s.systemTemplate(), req)
	logger.Debug("Answering with %d results and %d history turns", len(req.Results), len(req.History))

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: s.maxTokens})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	citations := ParseCitations(text, req.Results)
	logger.Debug("Answer cites %d of %d results", len(citations), len(req.Results))

	return &domain.Answer{Text: text, Citations: citations}, nil
}

// Ask searches the owner's index for the question and answers from the results.
// With RecordTurn set and a video filter, the turn is appended to that video's
// conversation index; a failure there is logged and the answer still returned.
func (s *AnswerService) Ask(ctx context.Context, owner domain.OwnerKey, req domain.AskRequest) (*domain.Answer, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if s.search == nil {
		return nil, fmt.Errorf("ask: search service not configured")
	}

	results, err := s.search.Search(ctx, owner, req.Question, req.Options)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	answer, err := s.Answer(ctx, domain.AnswerRequest{
		SourceText: req.SourceText,
		Title:      req.Title,
		Question:   req.Question,
		History:    req.History,
		Results:    results,
	})
	if err != nil {
		return nil, err
	}

	videoID := req.Options.Filters.VideoID
	if req.RecordTurn && videoID != "" && s.indexer != nil {
		turn := domain.ConversationTurn{Question: req.Question, Answer: answer.Text}
		if _, err := s.indexer.AppendConversation(ctx, owner, videoID, turn); err != nil {
			logger.Warn("Recording conversation turn for %s failed: %v", videoID, err)
		}
	}

	return answer, nil
}

func (s *AnswerService) systemTemplate() string {
	if s.promptStore == nil {
		return DefaultAnswerPrompt
	}
	tmpl, err := s.promptStore.Load(driven.PromptAnswerSystem)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		if err != nil {
			logger.Debug("Loading %s prompt failed, using default: %v", driven.PromptAnswerSystem, err)
		}
		return DefaultAnswerPrompt
	}
	return tmpl
}

// BuildAnswerMessages renders the system context and threads the history
// as alternating user and assistant messages, oldest first, before the question.
func BuildAnswerMessages(template string, req domain.AnswerRequest) []driven.ChatMessage {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	system := strings.NewReplacer(
		"{{title}}", title,
		"{{source}}", truncateRunes(strings.TrimSpace(req.SourceText), MaxSourceChars),
		"{{results}}", FormatResults(req.Results),
	).Replace(template)

	messages := make([]driven.ChatMessage, 0, 2+2*len(req.History))
	messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: system})
	for _, turn := range req.History {
		if turn.Question != "" {
			messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: turn.Question})
		}
		if turn.Answer != "" {
			messages = append(messages, driven.ChatMessage{Role: driven.RoleAssistant, Content: turn.Answer})
		}
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: req.Question})

	return messages
}

// FormatResults renders results as a 1-based list: "[1] (12:34) text".
func FormatResults(results []domain.SearchResult) string {
	if len(results) == 0 {
		return "(no passages found)"
	}

	var b strings.Builder
	for i := range results {
		c := &results[i].Chunk
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("] ")
		if ts := formattedTimestamp(c); ts != "" {
			b.WriteString("(")
			b.WriteString(ts)
			b.WriteString(") ")
		}
		b.WriteString(c.Content)
	}
	return b.String()
}

func formattedTimestamp(c *domain.ChunkRecord) string {
	if f := c.FormattedTimestamp(); f != "" {
		return f
	}
	if ts, ok := c.Timestamp(); ok {
		return domain.FormatTimestamp(ts)
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
