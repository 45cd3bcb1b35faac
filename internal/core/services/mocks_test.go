package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors come from vectorFor, or a fixed unit vector when it is nil.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectorFor  func(text string) []float32
	embedErr   error
	batchErrs  map[int]error // batch call number (1-based) -> error
	batchCalls int
	inputs     [][]string
	shortBy    int // drop this many vectors from every batch response
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if m.vectorFor != nil {
		return m.vectorFor(text)
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	call := m.batchCalls
	m.inputs = append(m.inputs, append([]string(nil), texts...))
	m.mu.Unlock()

	if err, ok := m.batchErrs[call]; ok {
		return nil, err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	return out[:len(out)-min(m.shortBy, len(out))], nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

// keywordVectors embeds text by which topic words it mentions, so tests can
// reason about similarity without a real model.
func keywordVectors(text string) []float32 {
	t := strings.ToLower(text)
	v := []float32{0, 0, 0}
	if strings.Contains(t, "go") {
		v[0] = 1
	}
	if strings.Contains(t, "rust") {
		v[1] = 1
	}
	if strings.Contains(t, "cooking") {
		v[2] = 1
	}
	return v
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply    string
	err      error
	messages []driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return m.reply, m.err
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.messages = messages
	return m.reply, m.err
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error { return nil }

// failingCatalog implements driven.VideoCatalog and always errors.
type failingCatalog struct{}

var errCatalogDown = errors.New("catalog down")

func (failingCatalog) VideoIDsForOwner(context.Context, domain.OwnerKey) ([]string, error) {
	return nil, errCatalogDown
}

func (failingCatalog) VideoIDsInCategory(context.Context, domain.OwnerKey, string) ([]string, error) {
	return nil, errCatalogDown
}

func (failingCatalog) VideoIDsInCollection(context.Context, domain.OwnerKey, string) ([]string, error) {
	return nil, errCatalogDown
}

func (failingCatalog) VideoIDsByFavorite(context.Context, domain.OwnerKey, bool) ([]string, error) {
	return nil, errCatalogDown
}

func (failingCatalog) IsFavorite(context.Context, domain.OwnerKey, string) (bool, error) {
	return false, errCatalogDown
}

// failingHistory implements driven.SearchHistorySink and always errors.
type failingHistory struct {
	calls int
}

func (h *failingHistory) Record(context.Context, domain.SearchHistoryEntry) error {
	h.calls++
	return errors.New("history unavailable")
}

// nativeStore wraps a ChunkStore and implements driven.VectorSearcher,
// remembering the filter it was given.
type nativeStore struct {
	driven.ChunkStore
	filter    domain.ChunkFilter
	threshold float64
	limit     int
	results   []domain.SearchResult
	calls     int
}

func (n *nativeStore) SearchSimilar(
	_ context.Context, filter domain.ChunkFilter, _ []float32, threshold float64, limit int,
) ([]domain.SearchResult, error) {
	n.calls++
	n.filter = filter
	n.threshold = threshold
	n.limit = limit
	return n.results, nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}
