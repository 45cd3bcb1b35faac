// Package redis records search history in Redis lists, one per owner.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure History implements the interfaces.
var (
	_ driven.SearchHistorySink   = (*History)(nil)
	_ driven.SearchHistoryReader = (*History)(nil)
)

// DefaultKeyPrefix namespaces the history lists.
const DefaultKeyPrefix = "clipmind:history"

// Config configures the Redis connection.
type Config struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	MaxEntries int
}

// History pushes entries to the head of a list and trims its tail,
// so LRANGE returns the newest first.
type History struct {
	client     *redis.Client
	prefix     string
	maxEntries int
}

// NewHistory connects to Redis and checks the connection.
func NewHistory(ctx context.Context, cfg Config) (*History, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewHistoryWithClient(client, cfg.KeyPrefix, cfg.MaxEntries), nil
}

// NewHistoryWithClient wraps an existing client.
func NewHistoryWithClient(client *redis.Client, prefix string, maxEntries int) *History {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &History{client: client, prefix: prefix, maxEntries: maxEntries}
}

// Close closes the client.
func (h *History) Close() error {
	return h.client.Close()
}

func (h *History) key(owner domain.OwnerKey) string {
	return h.prefix + ":" + owner.StorageKey()
}

// entry is the stored JSON form. The owner is implied by the key.
type entry struct {
	Query       string               `json:"query"`
	Filters     domain.SearchFilters `json:"filters"`
	ResultCount int                  `json:"result_count"`
	CreatedAt   int64                `json:"created_at"`
}

// Record pushes the entry and trims the list to maxEntries.
func (h *History) Record(ctx context.Context, e domain.SearchHistoryEntry) error {
	if err := e.Owner.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(entry{
		Query:       e.Query,
		Filters:     e.Filters,
		ResultCount: e.ResultCount,
		CreatedAt:   e.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	key := h.key(e.Owner)
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, key, string(data))
	if h.maxEntries > 0 {
		pipe.LTrim(ctx, key, 0, int64(h.maxEntries-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error recording search: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Zero or less returns all.
func (h *History) Recent(ctx context.Context, owner domain.OwnerKey, limit int) ([]domain.SearchHistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := h.client.LRange(ctx, h.key(owner), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading search history: %w", err)
	}

	out := make([]domain.SearchHistoryEntry, 0, len(raw))
	for _, item := range raw {
		var e entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
		}
		out = append(out, domain.SearchHistoryEntry{
			Owner:       owner,
			Query:       e.Query,
			Filters:     e.Filters,
			ResultCount: e.ResultCount,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}
