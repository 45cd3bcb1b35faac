// Package postprocessors turns normalised content into chunks.
// The default pipeline runs the sentence chunker followed by transcript
// timestamp alignment.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the content through all processors in order.
// The first processor receives nil chunks and should create them.
// Chunks left empty by the processors are dropped and the rest renumbered,
// so the result never holds a chunk with blank content.
func (p *Pipeline) Process(ctx context.Context, content *domain.NormalisedContent) ([]driven.Chunk, error) {
	if content == nil {
		return nil, fmt.Errorf("%w: content is nil", domain.ErrInvalidInput)
	}

	var chunks []driven.Chunk

	for _, processor := range p.processors {
		var err error
		chunks, err = processor.Process(ctx, content, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return compact(chunks), nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}

func compact(chunks []driven.Chunk) []driven.Chunk {
	if chunks == nil {
		return nil
	}
	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		c.Index = len(out)
		if c.Metadata != nil {
			c.Metadata[domain.MetaPosition] = c.Index
		}
		out = append(out, c)
	}
	return out
}
