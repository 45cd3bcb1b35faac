package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/views/answer"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView *search.View
	answerView *answer.View

	currentView messages.ViewType
	// previousView is where help returns to.
	previousView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingSearchService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Owner, ports.Search, ports.Answer),
		answerView:  answer.NewView(s, km),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context used for every service call.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("clipmind"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.err = nil
		a.answerView.SetAnswer(msg.Question, msg.Answer)
		a.currentView = messages.ViewAnswer
		return a, cmd

	case messages.ViewChanged:
		a.switchTo(msg.View)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}

	switch a.currentView {
	case messages.ViewAnswer:
		a.answerView, cmd = a.answerView.Update(msg)
	default:
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// While typing a query every printable key belongs to the input.
	typing := a.currentView == messages.ViewSearch && a.searchView.InputFocused()
	if !typing {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help):
			if a.currentView == messages.ViewHelp {
				a.switchTo(a.previousView)
			} else {
				a.switchTo(messages.ViewHelp)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.switchTo(a.previousView)
		}
	case messages.ViewAnswer:
		if msg.Type == tea.KeyEsc {
			a.switchTo(messages.ViewSearch)
			return a, nil
		}
		a.answerView, cmd = a.answerView.Update(msg)
	default:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) {
	if view == messages.ViewHelp && a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = view
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAnswer:
		return a.answerView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Search:
  (type)      Enter a query
  enter       Search
  esc         Clear the video scope, then edit the query

Results:
  j/k, ↑/↓    Move between results
  a           Ask the query as a question and show a cited answer
  v           Search only the selected result's video
  n           New search

Answer:
  j/k, ↑/↓    Scroll
  esc         Back to results

  ?           Toggle help
  q           Quit (outside the search box)
  ctrl+c      Quit

` + a.styles.Muted.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Owner returns the principal the app acts for.
func (a *App) Owner() domain.OwnerKey {
	return a.ports.Owner
}

// Query returns the query the current results belong to.
func (a *App) Query() string {
	return a.searchView.LastQuery()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// CurrentAnswer returns the last answer shown, or nil.
func (a *App) CurrentAnswer() *domain.Answer {
	return a.answerView.Answer()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.answerView.SetDimensions(width, height)
}
