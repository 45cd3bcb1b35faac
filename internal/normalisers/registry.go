package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/normalisers/conversation"
	"github.com/custodia-labs/clipmind/internal/normalisers/notes"
	"github.com/custodia-labs/clipmind/internal/normalisers/summary"
	"github.com/custodia-labs/clipmind/internal/normalisers/transcript"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw content to one normaliser per content type.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[domain.ContentType]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make(map[domain.ContentType]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry with the built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(transcript.New())
	r.Register(summary.New())
	r.Register(notes.New())
	r.Register(conversation.New())
	return r
}

// Register adds a normaliser, replacing any for the same content type.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.ContentType()] = n
}

// Normalise transforms raw content with the normaliser for its content type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawContent) (*domain.NormalisedContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	n, ok := r.normalisers[raw.ContentType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, raw.ContentType)
	}

	return n.Normalise(ctx, raw)
}

// ContentTypes returns the registered content types, sorted.
func (r *Registry) ContentTypes() []domain.ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.ContentType, 0, len(r.normalisers))
	for ct := range r.normalisers {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
