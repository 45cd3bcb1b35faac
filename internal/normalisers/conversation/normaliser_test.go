package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Q: Why?\nA: Because.", Format(domain.ConversationTurn{Question: " Why? ", Answer: "Because."}))
	assert.Equal(t, "A: only answer", Format(domain.ConversationTurn{Answer: "only answer"}))
	assert.Empty(t, Format(domain.ConversationTurn{}))
}

func TestNormalise_JSONTurn(t *testing.T) {
	out, err := New().Normalise(context.Background(), &domain.RawContent{
		Content: []byte(`{"question":"What is a chunk?","answer":"A bounded  segment [1]."}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Q: What is a chunk?\nA: A bounded segment [1].", out.Text)
	assert.Equal(t, 2, out.LineCount)
}

func TestNormalise_Text(t *testing.T) {
	out, err := New().Normalise(context.Background(), &domain.RawContent{
		Format:  "text",
		Content: []byte("Q: hi\n\nA: hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Q: hi\nA: hello", out.Text)
}

func TestNormalise_BadJSON(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawContent{Format: "json", Content: []byte("{")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
