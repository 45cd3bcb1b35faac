package openai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

func TestChat(t *testing.T) {
	var body struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Yes [2]."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	reply, err := svc.Chat(t.Context(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "ctx"},
		{Role: driven.RoleUser, Content: "q"},
	}, driven.ChatOptions{MaxTokens: 100})

	require.NoError(t, err)
	assert.Equal(t, "Yes [2].", reply)
	assert.Equal(t, DefaultLLMModel, body.Model)
	assert.Equal(t, 100, body.MaxTokens)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "user", body.Messages[1].Role)
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = svc.Generate(t.Context(), "q", driven.GenerateOptions{})
	assert.Error(t, err)
}

func TestChatRole(t *testing.T) {
	assert.Equal(t, "system", chatRole(driven.RoleSystem))
	assert.Equal(t, "assistant", chatRole(driven.RoleAssistant))
	assert.Equal(t, "user", chatRole("other"))
}
