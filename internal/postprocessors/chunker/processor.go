// Package chunker splits normalised text into sentence-aligned chunks.
package chunker

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of words carried into the next chunk.
const DefaultChunkOverlap = 50

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits content into chunks on sentence boundaries.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets how many trailing words seed the next chunk.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the content text into chunks.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(_ context.Context, content *domain.NormalisedContent, _ []driven.Chunk) ([]driven.Chunk, error) {
	if content == nil {
		return nil, nil
	}

	texts := Chunk(content.Text, p.chunkSize, p.overlap)
	chunks := make([]driven.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, driven.Chunk{
			Index:   i,
			Content: text,
			Metadata: map[string]any{
				domain.MetaPosition: i,
				domain.MetaLength:   utf8.RuneCountInString(text),
			},
		})
	}

	return chunks, nil
}

// Chunk splits text into chunks of at most maxLength characters.
//
// Sentences are accumulated into a buffer. When the next sentence would push
// the buffer past maxLength, the buffer is emitted and the next one is seeded
// with its last overlap words. A sentence longer than maxLength on its own is
// emitted whole. Empty input yields no chunks.
func Chunk(text string, maxLength, overlap int) []string {
	if maxLength <= 0 {
		maxLength = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks []string
		buf    string
		// fresh is true once buf holds at least one sentence beyond the overlap seed.
		fresh bool
	)

	for _, sentence := range sentences {
		if fresh && runeLen(buf)+1+runeLen(sentence) > maxLength {
			chunks = append(chunks, buf)
			buf = lastWords(buf, overlap)
			fresh = false
		}
		if buf == "" {
			buf = sentence
		} else {
			buf += " " + sentence
		}
		fresh = true
	}

	if fresh && strings.TrimSpace(buf) != "" {
		chunks = append(chunks, buf)
	}

	return chunks
}

// SplitSentences segments text on sentence terminators followed by whitespace,
// and on line breaks. Whitespace inside a sentence is collapsed.
// The segmentation is approximate: abbreviations such as "e.g. this" split.
func SplitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)

	flush := func() {
		s := strings.Join(strings.Fields(current.String()), " ")
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		current.WriteRune(r)
		if isTerminator(r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			flush()
		}
	}
	flush()

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func lastWords(s string, n int) string {
	if n == 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
