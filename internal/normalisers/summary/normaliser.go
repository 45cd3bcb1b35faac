// Package summary normalises video summaries. A summary is either a JSON
// array of key points, a JSON object with a "points" array, or text with
// one point per bullet or numbered line.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/normalisers/html"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var bulletPattern = regexp.MustCompile(`^\s*(?:[-*+•]|\d+[.)])\s+`)

// Normaliser handles summary content.
type Normaliser struct{}

// New creates a new summary normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ContentType returns domain.ContentSummary.
func (n *Normaliser) ContentType() domain.ContentType {
	return domain.ContentSummary
}

// Formats returns the supported format hints.
func (n *Normaliser) Formats() []string {
	return []string{"json", "text", "html"}
}

// Normalise returns one summary point per line. Points without a closing
// punctuation mark get a full stop so each reads as its own sentence.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.TrimSpace(string(raw.Content))
	var points []string

	if raw.Format == "json" || (raw.Format == "" && looksLikeJSON(text)) {
		var err error
		points, err = parsePoints(text)
		if err != nil {
			return nil, err
		}
	} else {
		if raw.Format == "html" || (raw.Format == "" && html.LooksLikeHTML(text)) {
			text = html.ToText(text)
		}
		for _, line := range strings.Split(text, "\n") {
			points = append(points, bulletPattern.ReplaceAllString(line, ""))
		}
	}

	lines := make([]string, 0, len(points))
	for _, p := range points {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p[len(p)-1:], ".!?") {
			p += "."
		}
		lines = append(lines, p)
	}

	return &domain.NormalisedContent{
		Text:      strings.Join(lines, "\n"),
		LineCount: len(lines),
	}, nil
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && json.Valid([]byte(s))
}

// parsePoints accepts ["a", "b"], {"points": ["a"]}, {"summary": "text"}
// and [{"point": "a"}] / [{"text": "a"}].
func parsePoints(s string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list, nil
	}

	var objects []struct {
		Point string `json:"point"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal([]byte(s), &objects); err == nil {
		points := make([]string, 0, len(objects))
		for _, o := range objects {
			if o.Point != "" {
				points = append(points, o.Point)
			} else {
				points = append(points, o.Text)
			}
		}
		return points, nil
	}

	var wrapper struct {
		Points  []string `json:"points"`
		Summary string   `json:"summary"`
	}
	if err := json.Unmarshal([]byte(s), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: summary json: %w", domain.ErrInvalidInput, err)
	}
	if wrapper.Summary != "" {
		return append([]string{wrapper.Summary}, wrapper.Points...), nil
	}
	return wrapper.Points, nil
}
