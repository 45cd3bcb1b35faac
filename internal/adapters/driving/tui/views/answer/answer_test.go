package answer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func sampleAnswer() *domain.Answer {
	return &domain.Answer{
		Text: "Goroutines are scheduled onto OS threads [1]. The summary agrees [2].",
		Citations: []domain.Citation{
			{Ordinal: 1, VideoID: "v1", ChunkID: "c1", ContentType: domain.ContentTranscript, Content: "the scheduler multiplexes", FormattedTimestamp: "1:05"},
			{Ordinal: 2, VideoID: "v1", ChunkID: "c2", ContentType: domain.ContentSummary, Content: "a talk about scheduling"},
		},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Init())
	assert.Nil(t, v.Answer())
	assert.Equal(t, status.StateAnswer, v.statusbar.State())
	assert.Contains(t, v.View(), "No answer yet.")
}

func TestView_SetAnswer(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(120, 40)

	v.SetAnswer("how are goroutines scheduled?", sampleAnswer())

	out := v.View()
	assert.Equal(t, "how are goroutines scheduled?", v.Question())
	assert.Contains(t, out, "Q: how are goroutines scheduled?")
	assert.Contains(t, out, "onto OS threads [1]")
	assert.Contains(t, out, "Sources")
	assert.Contains(t, out, "[1] v1 transcript @ 1:05")
	assert.Contains(t, out, "[2] v1 summary")
	assert.Contains(t, out, "the scheduler multiplexes")
	assert.Contains(t, out, "2 sources")
}

func TestView_NoCitations(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(100, 30)

	v.SetAnswer("q", &domain.Answer{Text: "I could not find that in your videos."})

	out := v.View()
	assert.Contains(t, out, "No sources cited.")
	assert.Contains(t, out, "0 sources")
}

func TestView_LongExcerptTruncated(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(400, 40)
	a := sampleAnswer()
	a.Citations[0].Content = strings.Repeat("x", sourcePreviewLen+50)

	v.SetAnswer("q", a)

	assert.Contains(t, v.View(), strings.Repeat("x", sourcePreviewLen)+"...")
}

func TestView_Resize(t *testing.T) {
	v := NewView(nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Equal(t, 60, v.width)
	assert.Equal(t, 14, v.viewport.Height)
}

func TestSourceCount(t *testing.T) {
	assert.Equal(t, "1 source", sourceCount(1))
	assert.Equal(t, "3 sources", sourceCount(3))
}
