package chunker

import (
	"context"
	"math"
	"sort"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure TimestampProcessor implements the interface.
var _ driven.PostProcessor = (*TimestampProcessor)(nil)

// TimestampProcessor annotates transcript chunks with the timing of
// the original line they most likely started at.
type TimestampProcessor struct{}

// NewTimestampProcessor creates a timestamp alignment processor.
func NewTimestampProcessor() *TimestampProcessor {
	return &TimestampProcessor{}
}

// Name returns the processor name.
func (p *TimestampProcessor) Name() string {
	return "timestamps"
}

// Process aligns chunks against the content's timestamp table.
// Content without timestamps passes through unchanged.
func (p *TimestampProcessor) Process(
	_ context.Context, content *domain.NormalisedContent, chunks []driven.Chunk,
) ([]driven.Chunk, error) {
	if !content.HasTimestamps() {
		return chunks, nil
	}
	AlignTimestamps(chunks, content.Timestamps, content.LineCount)
	return chunks, nil
}

// AlignTimestamps assigns each chunk the timing of the table entry nearest to
// round(i * lineCount / len(chunks)).
//
// This is a proportional estimate. It assumes chunks cover lines evenly and
// drifts when line lengths vary a lot.
func AlignTimestamps(chunks []driven.Chunk, table domain.TimestampTable, lineCount int) {
	if len(chunks) == 0 || len(table) == 0 {
		return
	}

	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	if lineCount <= 0 {
		lineCount = keys[len(keys)-1] + 1
	}

	ratio := float64(lineCount) / float64(len(chunks))
	for i := range chunks {
		estimate := int(math.Round(float64(i) * ratio))
		entry := table[nearest(keys, estimate)]

		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]any)
		}
		chunks[i].Metadata[domain.MetaTimestamp] = entry.Seconds
		chunks[i].Metadata[domain.MetaDuration] = entry.Duration
		chunks[i].Metadata[domain.MetaFormattedTimestamp] = domain.FormatTimestamp(entry.Seconds)
	}
}

// nearest returns the key closest to target; ties go to the lower key.
// keys must be sorted and non-empty.
func nearest(keys []int, target int) int {
	i := sort.SearchInts(keys, target)
	if i == 0 {
		return keys[0]
	}
	if i == len(keys) {
		return keys[len(keys)-1]
	}
	if target-keys[i-1] <= keys[i]-target {
		return keys[i-1]
	}
	return keys[i]
}
