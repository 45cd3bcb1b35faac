package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	accents := []lipgloss.Color{
		theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error,
		theme.Transcript, theme.Summary, theme.Note, theme.Conversation,
	}

	seen := make(map[lipgloss.Color]bool)
	for _, c := range accents {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, theme.Primary, s.Title.GetForeground())
	assert.True(t, s.Title.GetBold())
	assert.Equal(t, theme.Secondary, s.Citation.GetForeground())
	assert.Equal(t, theme.Primary, s.Selected.GetBackground())
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestStyles_ContentType(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	tests := []struct {
		ct   domain.ContentType
		want lipgloss.TerminalColor
	}{
		{domain.ContentTranscript, theme.Transcript},
		{domain.ContentSummary, theme.Summary},
		{domain.ContentNote, theme.Note},
		{domain.ContentConversation, theme.Conversation},
		{domain.ContentType("other"), theme.Muted},
	}

	for _, tt := range tests {
		t.Run(string(tt.ct), func(t *testing.T) {
			assert.Equal(t, tt.want, s.ContentType(tt.ct).GetForeground())
		})
	}
}
