// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/styles"
)

// DefaultLabel prefixes the query field.
const DefaultLabel = "Search"

// maxQueryLen bounds what a user can type; longer questions belong in `clipmind ask`.
const maxQueryLen = 512

// QueryInput wraps a bubbles textinput used for both search queries and questions.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search your videos, or press enter then 'a' to ask..."
	ti.Focus()
	ti.CharLimit = maxQueryLen
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		label:     DefaultLabel,
		width:     50,
	}
}

// Init starts the cursor blink.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the label and field side by side.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render(q.label + ": ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the trimmed query.
func (q *QueryInput) Value() string {
	return strings.TrimSpace(q.textinput.Value())
}

// SetValue replaces the query.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// SetLabel changes the label, e.g. to show the active video scope.
func (q *QueryInput) SetLabel(label string) {
	if label == "" {
		label = DefaultLabel
	}
	q.label = label
}

// Label returns the current label.
func (q *QueryInput) Label() string {
	return q.label
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused reports whether the input has focus.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the overall width; the field gets what the label leaves.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	fieldWidth := width - len(q.label) - 6
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	q.textinput.Width = fieldWidth
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
