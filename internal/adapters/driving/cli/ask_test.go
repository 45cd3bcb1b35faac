package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	source := writeFile(t, "transcript.txt", "full transcript")

	out, err := run(t, "", "--user", "1", "ask", "Are goroutines cheap?",
		"--video", "v1", "--title", "Concurrency", "--source-file", source, "-n", "4")

	require.NoError(t, err)
	assert.Contains(t, out, "They are cheap [1].")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] v1/transcript @ 0:42")

	req := ts.answer.req
	assert.Equal(t, "Are goroutines cheap?", req.Question)
	assert.Equal(t, "Concurrency", req.Title)
	assert.Equal(t, "full transcript", req.SourceText)
	assert.Equal(t, 4, req.Options.Limit)
	assert.Equal(t, "v1", req.Options.Filters.VideoID)
	assert.False(t, req.RecordTurn)
}

func TestAskCmd_RecordNeedsVideo(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "", "--user", "1", "ask", "q", "--record")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--video")
}

func TestAskCmd_Record(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "", "--user", "1", "ask", "q", "--record", "--video", "v1")

	require.NoError(t, err)
	assert.True(t, ts.answer.req.RecordTurn)
}

func TestAskCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := run(t, "", "--user", "1", "ask", "q", "--json")

	require.NoError(t, err)
	var got domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "They are cheap [1].", got.Text)
	require.Len(t, got.Citations, 1)
}

func TestAskCmd_LLMUnavailable(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.answer.err = domain.ErrLLMUnavailable

	_, err := run(t, "", "--user", "1", "ask", "q")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
