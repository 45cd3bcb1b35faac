package postprocessors

import (
	"context"
	"testing"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// registryMockProcessor is a simple mock for testing registry functionality.
type registryMockProcessor struct {
	name string
}

func (m *registryMockProcessor) Name() string { return m.name }
func (m *registryMockProcessor) Process(_ context.Context, _ *domain.NormalisedContent, chunks []driven.Chunk) ([]driven.Chunk, error) {
	return chunks, nil
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	var gotCfg map[string]any
	r.Register("test", func(cfg map[string]any) (driven.PostProcessor, error) {
		gotCfg = cfg
		return &registryMockProcessor{name: "test"}, nil
	})

	if !r.Has("test") {
		t.Fatal("expected test processor to be registered")
	}

	proc, err := r.Build("test", map[string]any{"k": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.Name() != "test" {
		t.Errorf("unexpected name %q", proc.Name())
	}
	if gotCfg["k"] != 1 {
		t.Errorf("config not passed to builder: %v", gotCfg)
	}
}

func TestRegistry_BuildUnknown(t *testing.T) {
	if _, err := NewRegistry().Build("missing", nil); err == nil {
		t.Error("expected error for unknown processor")
	}
}

func TestRegistry_BuildPipeline(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := r.BuildPipeline([]string{TimestampsName, ChunkerName}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := p.Names()
	if len(names) != 2 || names[0] != TimestampsName || names[1] != ChunkerName {
		t.Errorf("unexpected order %v", names)
	}

	if _, err := r.BuildPipeline([]string{"stemmer"}, nil); err == nil {
		t.Error("expected error for unknown processor in pipeline")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	names := r.Names()
	if len(names) != 2 || names[0] != ChunkerName || names[1] != TimestampsName {
		t.Errorf("unexpected names %v", names)
	}
}

func TestGetIntFromConfig(t *testing.T) {
	cfg := map[string]any{"a": 1, "b": int64(2), "c": 3.0, "d": "4"}

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"a", 1, true},
		{"b", 2, true},
		{"c", 3, true},
		{"d", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := getIntFromConfig(cfg, tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("getIntFromConfig(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}
