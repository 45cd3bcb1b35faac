package chunker

import (
	"context"
	"testing"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

func chunksOf(n int) []driven.Chunk {
	chunks := make([]driven.Chunk, n)
	for i := range chunks {
		chunks[i] = driven.Chunk{Index: i, Content: "x"}
	}
	return chunks
}

func TestAlignTimestamps_DenseTable(t *testing.T) {
	table := domain.TimestampTable{
		0: {Seconds: 0, Duration: 2},
		1: {Seconds: 2, Duration: 2},
		2: {Seconds: 4, Duration: 2},
		3: {Seconds: 6, Duration: 2},
	}
	chunks := chunksOf(2)

	AlignTimestamps(chunks, table, 4)

	if got := chunks[0].Metadata[domain.MetaTimestamp]; got != 0.0 {
		t.Errorf("chunk 0 timestamp = %v, want 0", got)
	}
	if got := chunks[1].Metadata[domain.MetaTimestamp]; got != 4.0 {
		t.Errorf("chunk 1 timestamp = %v, want 4", got)
	}
	if got := chunks[1].Metadata[domain.MetaDuration]; got != 2.0 {
		t.Errorf("chunk 1 duration = %v, want 2", got)
	}
	if got := chunks[1].Metadata[domain.MetaFormattedTimestamp]; got != "0:04" {
		t.Errorf("chunk 1 formatted = %v, want 0:04", got)
	}
}

func TestAlignTimestamps_SparseTableUsesNearestLine(t *testing.T) {
	table := domain.TimestampTable{
		0: {Seconds: 10},
		5: {Seconds: 95},
	}
	chunks := chunksOf(4)

	AlignTimestamps(chunks, table, 10)

	want := []float64{10, 95, 95, 95}
	for i, w := range want {
		if got := chunks[i].Metadata[domain.MetaTimestamp]; got != w {
			t.Errorf("chunk %d timestamp = %v, want %v", i, got, w)
		}
	}
}

func TestAlignTimestamps_NoTableLeavesChunksAlone(t *testing.T) {
	chunks := chunksOf(2)
	AlignTimestamps(chunks, nil, 10)
	if chunks[0].Metadata != nil {
		t.Errorf("expected no metadata, got %v", chunks[0].Metadata)
	}
}

func TestNearest(t *testing.T) {
	keys := []int{2, 6, 10}
	tests := map[int]int{0: 2, 2: 2, 4: 2, 5: 6, 8: 6, 9: 10, 50: 10}
	for target, want := range tests {
		if got := nearest(keys, target); got != want {
			t.Errorf("nearest(%d) = %d, want %d", target, got, want)
		}
	}
}

func TestTimestampProcessor_PassThroughWithoutTimestamps(t *testing.T) {
	p := NewTimestampProcessor()
	in := chunksOf(3)

	out, err := p.Process(context.Background(), &domain.NormalisedContent{Text: "x"}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 || out[0].Metadata != nil {
		t.Errorf("chunks were modified: %v", out)
	}
	if p.Name() != "timestamps" {
		t.Errorf("unexpected name %q", p.Name())
	}
}
