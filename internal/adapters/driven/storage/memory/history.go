package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure History implements the interfaces.
var (
	_ driven.SearchHistorySink   = (*History)(nil)
	_ driven.SearchHistoryReader = (*History)(nil)
)

// History keeps the most recent searches per owner in memory.
type History struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[domain.OwnerKey][]domain.SearchHistoryEntry
}

// NewHistory creates a history that keeps at most maxEntries per owner.
// Zero or less keeps everything.
func NewHistory(maxEntries int) *History {
	return &History{
		maxEntries: maxEntries,
		entries:    make(map[domain.OwnerKey][]domain.SearchHistoryEntry),
	}
}

// Record appends an entry.
func (h *History) Record(_ context.Context, entry domain.SearchHistoryEntry) error {
	if err := entry.Owner.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	list := append(h.entries[entry.Owner], entry)
	if h.maxEntries > 0 && len(list) > h.maxEntries {
		list = list[len(list)-h.maxEntries:]
	}
	h.entries[entry.Owner] = list
	return nil
}

// Recent returns up to limit entries for owner, newest first.
func (h *History) Recent(_ context.Context, owner domain.OwnerKey, limit int) ([]domain.SearchHistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.entries[owner]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]domain.SearchHistoryEntry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
