// Package conversation normalises question/answer turns for indexing.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles conversation turns.
type Normaliser struct{}

// New creates a new conversation normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ContentType returns domain.ContentConversation.
func (n *Normaliser) ContentType() domain.ContentType {
	return domain.ContentConversation
}

// Formats returns the supported format hints.
func (n *Normaliser) Formats() []string {
	return []string{"json", "text"}
}

// Normalise renders a turn as "Q: ..." and "A: ..." lines.
// JSON input is a domain.ConversationTurn; anything else is taken as-is.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.TrimSpace(string(raw.Content))
	if raw.Format == "json" || (raw.Format == "" && strings.HasPrefix(text, "{")) {
		var turn domain.ConversationTurn
		if err := json.Unmarshal([]byte(text), &turn); err != nil {
			return nil, fmt.Errorf("%w: conversation json: %w", domain.ErrInvalidInput, err)
		}
		text = Format(turn)
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return &domain.NormalisedContent{
		Text:      strings.Join(lines, "\n"),
		LineCount: len(lines),
	}, nil
}

// Format renders a turn the way it is indexed.
func Format(turn domain.ConversationTurn) string {
	var b strings.Builder
	if q := strings.TrimSpace(turn.Question); q != "" {
		b.WriteString("Q: ")
		b.WriteString(q)
	}
	if a := strings.TrimSpace(turn.Answer); a != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("A: ")
		b.WriteString(a)
	}
	return b.String()
}
