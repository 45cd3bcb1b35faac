// Package search provides the main search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
)

// View is the search input, the result list and the status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	owner         domain.OwnerKey
	searchService driving.SearchService
	answerService driving.AnswerService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // typing a query, as opposed to navigating results
	lastQuery  string
	videoID    string // scope; empty searches every video
}

// NewView creates a new search view acting for owner. answerService may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	owner domain.OwnerKey,
	searchService driving.SearchService,
	answerService driving.AnswerService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		owner:         owner,
		searchService: searchService,
		answerService: answerService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.AnswerCompleted:
		// The app switches views on success; failures stay here.
		if msg.Err != nil {
			v.setError(msg.Err)
		} else {
			v.statusbar.SetState(status.StateResults)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc drops the video scope first, then returns to typing.
	if msg.Type == tea.KeyEsc {
		if v.videoID != "" {
			v.SetScope("")
			if v.lastQuery != "" {
				return v, v.startSearch(v.lastQuery)
			}
			return v, nil
		}
		v.focusInput = true
		return v, v.input.Focus()
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			return v, v.startSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Scope):
		if r := v.list.SelectedResult(); r != nil && v.lastQuery != "" {
			v.SetScope(r.Chunk.VideoID)
			return v, v.startSearch(v.lastQuery)
		}
	case keymap.Matches(msg.String(), v.keymap.Ask):
		if v.lastQuery != "" {
			return v, v.startAsk(v.lastQuery)
		}
	}
	return v, nil
}

func (v *View) startSearch(query string) tea.Cmd {
	v.lastQuery = query
	v.err = nil
	v.statusbar.SetState(status.StateSearching)
	v.focusInput = false
	v.input.Blur()
	return v.performSearch(query)
}

func (v *View) startAsk(question string) tea.Cmd {
	v.err = nil
	v.statusbar.SetState(status.StateAsking)
	return v.performAsk(question)
}

// performSearch runs the search off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	svc, ctx, owner, opts := v.searchService, v.ctx, v.owner, v.searchOptions()
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, owner, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// performAsk answers question over the same scope the results came from.
func (v *View) performAsk(question string) tea.Cmd {
	svc, ctx, owner, opts := v.answerService, v.ctx, v.owner, v.searchOptions()
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerCompleted{Question: question, Err: ErrNoAnswerService}
		}
		answer, err := svc.Ask(ctx, owner, domain.AskRequest{Question: question, Options: opts})
		return messages.AnswerCompleted{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) searchOptions() domain.SearchOptions {
	return domain.SearchOptions{Filters: domain.SearchFilters{VideoID: v.videoID}}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("clipmind"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// SetScope restricts later searches to one video; empty clears the scope.
func (v *View) SetScope(videoID string) {
	v.videoID = videoID
	v.statusbar.SetScope(videoID)
	if videoID == "" {
		v.input.SetLabel("")
	} else {
		v.input.SetLabel("Search " + videoID)
	}
}

// Scope returns the video the view is restricted to.
func (v *View) Scope() string { return v.videoID }

// Width returns the current width.
func (v *View) Width() int { return v.width }

// Height returns the current height.
func (v *View) Height() int { return v.height }

// Ready reports whether the view has received its dimensions.
func (v *View) Ready() bool { return v.ready }

// Query returns the text in the input.
func (v *View) Query() string { return v.input.Value() }

// SetQuery sets the text in the input.
func (v *View) SetQuery(query string) { v.input.SetValue(query) }

// LastQuery returns the query the current results belong to.
func (v *View) LastQuery() string { return v.lastQuery }

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult { return v.list.Results() }

// SelectedResult returns the highlighted result, or nil.
func (v *View) SelectedResult() *domain.SearchResult { return v.list.SelectedResult() }

// Err returns the current error, if any.
func (v *View) Err() error { return v.err }

// InputFocused reports whether keys go to the query input.
func (v *View) InputFocused() bool { return v.focusInput }

// StatusState exposes the status bar state.
func (v *View) StatusState() status.State { return v.statusbar.State() }

// Reset returns the view to an empty, focused input.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.lastQuery = ""
	v.err = nil
	v.SetScope("")
	v.statusbar.Clear()
}
