// Package answer renders a generated answer and the sources it cites.
package answer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clipmind/internal/core/domain"
)

const sourcePreviewLen = 200

// View shows one answer in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	viewport  viewport.Model

	question string
	answer   *domain.Answer
	width    int
	height   int
}

// NewView creates an empty answer view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		viewport:  viewport.New(80, 18),
		width:     80,
		height:    24,
	}
	v.statusbar.SetState(status.StateAnswer)
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update scrolls the answer.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// SetAnswer replaces the displayed answer and scrolls to the top.
func (v *View) SetAnswer(question string, a *domain.Answer) {
	v.question = question
	v.answer = a
	n := 0
	if a != nil {
		n = len(a.Citations)
	}
	v.statusbar.SetMessage(sourceCount(n))
	v.viewport.SetContent(v.renderBody())
	v.viewport.GotoTop()
}

// Answer returns the displayed answer.
func (v *View) Answer() *domain.Answer { return v.answer }

// Question returns the question being answered.
func (v *View) Question() string { return v.question }

// View renders the view.
func (v *View) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("clipmind"),
		v.styles.Subtitle.Render("Q: "+v.question),
		"",
		v.viewport.View(),
		"",
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 3)
	v.statusbar.SetWidth(width)
	v.viewport.SetContent(v.renderBody())
}

func (v *View) renderBody() string {
	if v.answer == nil {
		return v.styles.Muted.Render("No answer yet.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-2, 20))
	var b strings.Builder
	b.WriteString(wrap.Render(v.styles.Answer.Render(v.answer.Text)))
	b.WriteString("\n\n")

	if len(v.answer.Citations) == 0 {
		b.WriteString(v.styles.Muted.Render("No sources cited."))
		return b.String()
	}

	b.WriteString(v.styles.Subtitle.Render("Sources"))
	b.WriteString("\n")
	for i := range v.answer.Citations {
		b.WriteString(v.renderCitation(&v.answer.Citations[i]))
		b.WriteString("\n")
	}
	return b.String()
}

// renderCitation formats "[n] video · type @ 1:05" followed by an excerpt.
func (v *View) renderCitation(c *domain.Citation) string {
	head := v.styles.Citation.Render(fmt.Sprintf("[%d]", c.Ordinal)) + " " +
		v.styles.Normal.Render(c.VideoID) + " " +
		v.styles.ContentType(c.ContentType).Render(string(c.ContentType))
	if c.FormattedTimestamp != "" {
		head += " @ " + v.styles.Timestamp.Render(c.FormattedTimestamp)
	}

	excerpt := strings.Join(strings.Fields(c.Content), " ")
	if r := []rune(excerpt); len(r) > sourcePreviewLen {
		excerpt = string(r[:sourcePreviewLen]) + "..."
	}
	wrap := lipgloss.NewStyle().Width(max(v.width-6, 20)).PaddingLeft(4)
	return head + "\n" + wrap.Render(v.styles.Muted.Render(excerpt))
}

func sourceCount(n int) string {
	if n == 1 {
		return "1 source"
	}
	return fmt.Sprintf("%d sources", n)
}
