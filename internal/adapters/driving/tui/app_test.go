package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func newTestApp(t *testing.T, answer *stubAnswer) (*App, *stubSearch) {
	t.Helper()
	search := &stubSearch{results: []domain.SearchResult{{
		Chunk:      domain.ChunkRecord{ID: "c1", VideoID: "v1", ContentType: domain.ContentTranscript, Content: "alpha"},
		Similarity: 0.9,
	}}}
	ports := &Ports{Owner: domain.UserOwner(3), Search: search}
	if answer != nil {
		ports.Answer = answer
	}
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app, search
}

func keyMsg(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

// runCmd executes cmd and feeds its message back, ignoring batches.
func runCmd(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		if _, batch := msg.(tea.BatchMsg); !batch {
			app.Update(msg)
		}
	}
}

func runSearch(t *testing.T, app *App, query string) {
	t.Helper()
	for _, r := range query {
		app.Update(keyMsg(r))
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(app, cmd)
}

func TestNewApp_Validates(t *testing.T) {
	_, err := NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingSearchService)

	_, err = NewApp(&Ports{Search: &stubSearch{}})
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestApp_Initial(t *testing.T) {
	app, err := NewApp(&Ports{Owner: domain.UserOwner(3), Search: &stubSearch{}})
	require.NoError(t, err)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
	assert.Equal(t, domain.UserOwner(3), app.Owner())
}

func TestApp_SearchFlow(t *testing.T) {
	app, s := newTestApp(t, nil)

	runSearch(t, app, "alpha")

	assert.Equal(t, "alpha", s.query)
	assert.Equal(t, "alpha", app.Query())
	assert.Len(t, app.Results(), 1)
	assert.Contains(t, app.View(), "v1/transcript#0")
}

func TestApp_QKeyTypesWhileEditing(t *testing.T) {
	app, _ := newTestApp(t, nil)

	app.Update(keyMsg('q'))
	app.Update(keyMsg('?'))

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Contains(t, app.View(), "q?")
}

func TestApp_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	runSearch(t, app, "alpha")
	_, cmd = app.Update(keyMsg('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
}

func TestApp_AskShowsAnswer(t *testing.T) {
	ans := &domain.Answer{
		Text:      "Alpha is first [1].",
		Citations: []domain.Citation{{Ordinal: 1, VideoID: "v1", ContentType: domain.ContentTranscript, Content: "alpha"}},
	}
	app, _ := newTestApp(t, &stubAnswer{answer: ans})
	runSearch(t, app, "what is alpha")

	_, cmd := app.Update(keyMsg('a'))
	runCmd(app, cmd)

	assert.Equal(t, messages.ViewAnswer, app.CurrentView())
	assert.Same(t, ans, app.CurrentAnswer())
	view := app.View()
	assert.Contains(t, view, "Q: what is alpha")
	assert.Contains(t, view, "Alpha is first [1].")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_AskFailureStaysOnSearch(t *testing.T) {
	app, _ := newTestApp(t, &stubAnswer{err: errors.New("llm down")})
	runSearch(t, app, "alpha")

	_, cmd := app.Update(keyMsg('a'))
	runCmd(app, cmd)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.EqualError(t, app.Err(), "llm down")
	assert.Contains(t, app.View(), "llm down")
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t, nil)
	runSearch(t, app, "alpha")

	app.Update(keyMsg('?'))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Ask the query as a question")

	app.Update(keyMsg('?'))
	assert.Equal(t, messages.ViewSearch, app.CurrentView())

	app.Update(keyMsg('?'))
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_ViewChanged(t *testing.T) {
	app, _ := newTestApp(t, nil)

	app.Update(messages.ViewChanged{View: messages.ViewAnswer})

	assert.Equal(t, messages.ViewAnswer, app.CurrentView())
	assert.Contains(t, app.View(), "No answer yet.")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t, nil)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "search", messages.ViewSearch.String())
	assert.Equal(t, "answer", messages.ViewAnswer.String())
	assert.Equal(t, "help", messages.ViewHelp.String())
	assert.Equal(t, "unknown", messages.ViewType(99).String())
}
