// Package transcript normalises video transcripts into plain text lines and
// extracts a line-index to timestamp side table before any markup is removed.
//
// Supported formats:
//   - srt: numbered cues with "00:00:01,000 --> 00:00:03,500" timings
//   - vtt: WebVTT cues, same timing syntax with a dot separator
//   - json: an array of segments {"text", "start" | "offset", "duration" | "end"}
//   - timestamped: lines prefixed with "[mm:ss]", "[hh:mm:ss]" or "mm:ss"
//   - text: plain text without timings
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Format hints understood by the normaliser.
const (
	FormatSRT         = "srt"
	FormatVTT         = "vtt"
	FormatJSON        = "json"
	FormatTimestamped = "timestamped"
	FormatText        = "text"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	cueTimingPattern  = regexp.MustCompile(`^\s*(\S+)\s*-->\s*(\S+)`)
	linePrefixPattern = regexp.MustCompile(`^\s*[\[(]?((?:\d{1,2}:)?\d{1,2}:\d{2}(?:[.,]\d+)?)[\])]?\s*[-:]?\s*(.*)$`)
)

// line is one transcript line with its timing, if known.
type line struct {
	text     string
	start    float64
	duration float64
	timed    bool
}

// Normaliser handles transcript content.
type Normaliser struct{}

// New creates a new transcript normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// ContentType returns domain.ContentTranscript.
func (n *Normaliser) ContentType() domain.ContentType {
	return domain.ContentTranscript
}

// Formats returns the supported format hints.
func (n *Normaliser) Formats() []string {
	return []string{FormatSRT, FormatVTT, FormatJSON, FormatTimestamped, FormatText}
}

// Normalise parses the transcript, records a timestamp for every timed line,
// then strips markup. Lines in the returned text are newline separated and
// line i of the text is entry i of the timestamp table.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.TrimPrefix(string(raw.Content), "\ufeff")
	format := raw.Format
	if format == "" {
		format = Detect(text)
	}

	var (
		lines []line
		err   error
	)
	switch format {
	case FormatSRT, FormatVTT:
		lines = parseCues(text)
	case FormatJSON:
		lines, err = parseJSON(text)
	case FormatTimestamped:
		lines = parseTimestamped(text)
	case FormatText:
		lines = parsePlain(text)
	default:
		return nil, fmt.Errorf("%w: transcript format %q", domain.ErrUnsupportedType, format)
	}
	if err != nil {
		return nil, err
	}

	return build(lines), nil
}

// Detect guesses the transcript format from its content.
func Detect(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return FormatText
	case strings.HasPrefix(trimmed, "WEBVTT"):
		return FormatVTT
	case strings.HasPrefix(trimmed, "["):
		if json.Valid([]byte(trimmed)) {
			return FormatJSON
		}
	}
	if strings.Contains(trimmed, "-->") {
		return FormatSRT
	}

	first := trimmed
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if linePrefixPattern.MatchString(first) {
		return FormatTimestamped
	}
	return FormatText
}

func build(lines []line) *domain.NormalisedContent {
	out := &domain.NormalisedContent{}
	texts := make([]string, 0, len(lines))

	for _, l := range lines {
		clean := stripMarkup(l.text)
		if clean == "" {
			continue
		}
		if l.timed {
			if out.Timestamps == nil {
				out.Timestamps = make(domain.TimestampTable)
			}
			out.Timestamps[len(texts)] = domain.TimestampEntry{Seconds: l.start, Duration: l.duration}
		}
		texts = append(texts, clean)
	}

	out.Text = strings.Join(texts, "\n")
	out.LineCount = len(texts)
	return out
}

// parseCues reads SRT and WebVTT cue blocks. Cue text spanning several
// lines becomes one transcript line timed at the cue start.
func parseCues(text string) []line {
	var (
		lines   []line
		current *line
		parts   []string
	)

	flush := func() {
		if current != nil && len(parts) > 0 {
			current.text = strings.Join(parts, " ")
			lines = append(lines, *current)
		}
		current = nil
		parts = nil
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		l := strings.TrimSpace(raw)

		if l == "" {
			flush()
			continue
		}
		if m := cueTimingPattern.FindStringSubmatch(l); m != nil {
			flush()
			start, errStart := ParseClock(m[1])
			end, errEnd := ParseClock(m[2])
			cue := line{}
			if errStart == nil {
				cue.start = start
				cue.timed = true
				if errEnd == nil && end > start {
					cue.duration = end - start
				}
			}
			current = &cue
			continue
		}
		if current == nil {
			// Sequence numbers, the WEBVTT header, NOTE and STYLE blocks.
			continue
		}
		parts = append(parts, l)
	}
	flush()

	return lines
}

type segment struct {
	Text     string   `json:"text"`
	Start    *float64 `json:"start"`
	Offset   *float64 `json:"offset"`
	Duration *float64 `json:"duration"`
	End      *float64 `json:"end"`
}

func parseJSON(text string) ([]line, error) {
	var segments []segment
	if err := json.Unmarshal([]byte(text), &segments); err != nil {
		return nil, fmt.Errorf("%w: transcript json: %w", domain.ErrInvalidInput, err)
	}

	lines := make([]line, 0, len(segments))
	for _, s := range segments {
		l := line{text: s.Text}
		switch {
		case s.Start != nil:
			l.start, l.timed = *s.Start, true
		case s.Offset != nil:
			l.start, l.timed = *s.Offset, true
		}
		switch {
		case s.Duration != nil:
			l.duration = *s.Duration
		case s.End != nil && l.timed && *s.End > l.start:
			l.duration = *s.End - l.start
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// parseTimestamped reads "[mm:ss] text" lines. A line's duration runs until
// the next timed line; the last one has none.
func parseTimestamped(text string) []line {
	var lines []line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		m := linePrefixPattern.FindStringSubmatch(raw)
		if m == nil {
			lines = append(lines, line{text: raw})
			continue
		}
		start, err := ParseClock(m[1])
		if err != nil {
			lines = append(lines, line{text: raw})
			continue
		}
		lines = append(lines, line{text: m[2], start: start, timed: true})
	}

	next := -1.0
	for i := len(lines) - 1; i >= 0; i-- {
		if !lines[i].timed {
			continue
		}
		if next > lines[i].start {
			lines[i].duration = next - lines[i].start
		}
		next = lines[i].start
	}
	return lines
}

func parsePlain(text string) []line {
	var lines []line
	for _, raw := range strings.Split(text, "\n") {
		lines = append(lines, line{text: raw})
	}
	return lines
}

// ParseClock parses "hh:mm:ss,mmm", "hh:mm:ss.mmm", "mm:ss" and similar
// clock strings into seconds.
func ParseClock(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: clock %q", domain.ErrInvalidInput, s)
	}

	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: clock %q", domain.ErrInvalidInput, s)
		}
		if i < len(parts)-1 && strings.Contains(p, ".") {
			return 0, fmt.Errorf("%w: clock %q", domain.ErrInvalidInput, s)
		}
		total = total*60 + v
	}
	return total, nil
}

func stripMarkup(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
