// Package notes normalises free-form user notes, which are usually markdown.
package notes

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/normalisers/html"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis     = regexp.MustCompile(`(^|[\s(])(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	hr           = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+(\[[ xX]\]\s+)?`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	blankRuns    = regexp.MustCompile(`\n{2,}`)
)

// Normaliser handles note content.
type Normaliser struct{}

// New creates a new notes normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ContentType returns domain.ContentNote.
func (n *Normaliser) ContentType() domain.ContentType {
	return domain.ContentNote
}

// Formats returns the supported format hints.
func (n *Normaliser) Formats() []string {
	return []string{"markdown", "text", "html"}
}

// Normalise strips markdown formatting, or markup for notes saved from a
// rich-text editor. Plain text passes through with only whitespace tidied.
// Each remaining line is kept as its own line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	switch {
	case raw.Format == "html" || raw.Format == "htm" || (raw.Format == "" && html.LooksLikeHTML(text)):
		text = html.ToText(text)
	case raw.Format != "text":
		text = StripMarkdown(text)
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

// StripMarkdown removes common markdown formatting, keeping the readable text.
// Fenced code blocks are dropped; inline code keeps its content.
func StripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$1$3")
	content = blankRuns.ReplaceAllString(content, "\n")

	return strings.TrimSpace(content)
}
