package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

func TestAnswerService_Unavailable(t *testing.T) {
	service := NewAnswerService(nil, nil, nil)

	_, err := service.Answer(context.Background(), domain.AnswerRequest{Question: "q"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	_, err = service.Ask(context.Background(), testUser, domain.AskRequest{Question: "q"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAnswerService_RequiresQuestion(t *testing.T) {
	service := NewAnswerService(&mockLLMService{}, nil, nil)

	_, err := service.Answer(context.Background(), domain.AnswerRequest{Question: "  "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerService_Answer(t *testing.T) {
	llm := &mockLLMService{reply: "Channels block [2]. Also [7] and [2, 1]."}
	service := NewAnswerService(llm, nil, nil)

	answer, err := service.Answer(context.Background(), domain.AnswerRequest{
		Title:      "Concurrency",
		SourceText: "full transcript",
		Question:   "How do channels work?",
		Results:    numberedResults(2),
	})

	require.NoError(t, err)
	assert.Equal(t, llm.reply, answer.Text)
	assert.Equal(t, []int{2, 1}, ordinals(answer.Citations))

	require.Len(t, llm.messages, 2)
	system := llm.messages[0]
	assert.Equal(t, driven.RoleSystem, system.Role)
	assert.Contains(t, system.Content, `"Concurrency"`)
	assert.Contains(t, system.Content, "full transcript")
	assert.Contains(t, system.Content, "[1] (0:00) passage 1")
	assert.Contains(t, system.Content, "[2] (1:00) passage 2")
	assert.Equal(t, driven.ChatMessage{Role: driven.RoleUser, Content: "How do channels work?"}, llm.messages[1])
}

func TestAnswerService_LLMError(t *testing.T) {
	service := NewAnswerService(&mockLLMService{err: errors.New("overloaded")}, nil, nil)

	_, err := service.Answer(context.Background(), domain.AnswerRequest{Question: "q"})

	assert.Error(t, err)
}

func TestBuildAnswerMessages_HistoryOrderPreserved(t *testing.T) {
	messages := BuildAnswerMessages(DefaultAnswerPrompt, domain.AnswerRequest{
		Question: "third?",
		History: []domain.ConversationTurn{
			{Question: "first?", Answer: "one"},
			{Question: "second?", Answer: "two"},
		},
	})

	require.Len(t, messages, 6)
	roles := make([]string, len(messages))
	contents := make([]string, len(messages))
	for i, m := range messages {
		roles[i] = m.Role
		contents[i] = m.Content
	}
	assert.Equal(t, []string{
		driven.RoleSystem, driven.RoleUser, driven.RoleAssistant,
		driven.RoleUser, driven.RoleAssistant, driven.RoleUser,
	}, roles)
	assert.Equal(t, []string{"first?", "one", "second?", "two", "third?"}, contents[1:])
}

func TestBuildAnswerMessages_TruncatesSource(t *testing.T) {
	long := strings.Repeat("é", MaxSourceChars+500)

	messages := BuildAnswerMessages("{{source}}", domain.AnswerRequest{SourceText: long, Question: "q"})

	assert.Equal(t, MaxSourceChars, len([]rune(messages[0].Content)))
}

func TestBuildAnswerMessages_NoResults(t *testing.T) {
	messages := BuildAnswerMessages("{{results}}|{{title}}", domain.AnswerRequest{Question: "q"})

	assert.Equal(t, "(no passages found)|Untitled", messages[0].Content)
}

func TestAnswerService_UsesPromptStore(t *testing.T) {
	llm := &mockLLMService{reply: "ok"}
	service := NewAnswerService(llm, nil, nil)
	service.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptAnswerSystem: "Video {{title}}: {{results}}",
	}})

	_, err := service.Answer(context.Background(), domain.AnswerRequest{
		Title: "T", Question: "q", Results: numberedResults(1),
	})

	require.NoError(t, err)
	assert.Equal(t, "Video T: [1] (0:00) passage 1", llm.messages[0].Content)

	service.SetPromptStore(&mockPromptStore{})
	_, err = service.Answer(context.Background(), domain.AnswerRequest{Question: "q"})
	require.NoError(t, err)
	assert.Contains(t, llm.messages[0].Content, "bracketed numbers")
}

func TestAnswerService_Ask(t *testing.T) {
	f := newSearchFixture(t)
	idx := newIndexFixture(t, nil)
	llm := &mockLLMService{reply: "Generics landed [1]."}
	service := NewAnswerService(llm, f.service, idx.service)

	answer, err := service.Ask(context.Background(), testUser, domain.AskRequest{
		Question: "go",
		Options:  domain.SearchOptions{Filters: domain.SearchFilters{VideoID: "v2"}},
	})

	require.NoError(t, err)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "go generics", answer.Citations[0].Content)
	assert.Zero(t, idx.store.Count())
}

func TestAnswerService_AskRecordsTurn(t *testing.T) {
	f := newSearchFixture(t)
	idx := newIndexFixture(t, nil)
	llm := &mockLLMService{reply: "Generics landed [1]."}
	service := NewAnswerService(llm, f.service, idx.service)

	_, err := service.Ask(context.Background(), testUser, domain.AskRequest{
		Question:   "What about go?",
		Options:    domain.SearchOptions{Filters: domain.SearchFilters{VideoID: "v2"}},
		RecordTurn: true,
	})

	require.NoError(t, err)
	recs := idx.stream(t, "v2", domain.ContentConversation)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0].Content, "What about go?")
}

func TestAnswerService_AskSearchFailure(t *testing.T) {
	f := newSearchFixture(t)
	f.embed.embedErr = errors.New("down")
	service := NewAnswerService(&mockLLMService{reply: "x"}, f.service, nil)

	_, err := service.Ask(context.Background(), testUser, domain.AskRequest{Question: "go"})

	assert.ErrorIs(t, err, domain.ErrQueryEmbedding)
}
