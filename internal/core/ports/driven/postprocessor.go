package driven

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// Chunk is a piece of normalised text on its way to the embedding generator.
type Chunk struct {
	// Index is the zero-based position within the content stream.
	Index int

	// Content is the chunk text.
	Content string

	// Metadata carries position, length and transcript timing.
	Metadata map[string]any
}

// PostProcessor processes normalised content to produce chunks.
// PostProcessors are chained in a pipeline (e.g., chunking, timestamp alignment).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes normalised content and returns chunks.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	// If the processor annotates chunks (e.g., timestamps), it receives and returns chunks.
	Process(ctx context.Context, content *domain.NormalisedContent, chunks []Chunk) ([]Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the content through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, content *domain.NormalisedContent) ([]Chunk, error)
}
