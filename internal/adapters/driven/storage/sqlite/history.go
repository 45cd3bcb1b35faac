package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure History implements the interfaces.
var (
	_ driven.SearchHistorySink   = (*History)(nil)
	_ driven.SearchHistoryReader = (*History)(nil)
)

// History records searches in the search_history table.
type History struct {
	db         *sql.DB
	maxEntries int
}

// Record inserts an entry and prunes the owner's oldest entries beyond maxEntries.
func (h *History) Record(ctx context.Context, entry domain.SearchHistoryEntry) error {
	if err := entry.Owner.Validate(); err != nil {
		return err
	}

	filters, err := json.Marshal(entry.Filters)
	if err != nil {
		return fmt.Errorf("marshalling filters: %w", err)
	}

	owner := entry.Owner.StorageKey()
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO search_history (owner_key, query, filters, result_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, owner, entry.Query, string(filters), entry.ResultCount, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}

	if h.maxEntries > 0 {
		_, err = h.db.ExecContext(ctx, `
			DELETE FROM search_history
			WHERE owner_key = ? AND id NOT IN (
				SELECT id FROM search_history WHERE owner_key = ? ORDER BY id DESC LIMIT ?
			)
		`, owner, owner, h.maxEntries)
		if err != nil {
			return fmt.Errorf("pruning search history: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit entries for owner, newest first.
// Zero or less returns everything.
func (h *History) Recent(ctx context.Context, owner domain.OwnerKey, limit int) ([]domain.SearchHistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT query, filters, result_count, created_at FROM search_history
		WHERE owner_key = ? ORDER BY id DESC LIMIT ?
	`, owner.StorageKey(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying search history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SearchHistoryEntry, 0)
	for rows.Next() {
		entry := domain.SearchHistoryEntry{Owner: owner}
		var filters string
		if err := rows.Scan(&entry.Query, &filters, &entry.ResultCount, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning search history: %w", err)
		}
		if err := json.Unmarshal([]byte(filters), &entry.Filters); err != nil {
			return nil, fmt.Errorf("unmarshalling filters: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
