package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/clipmind/internal/adapters/driven/ai"
	"github.com/custodia-labs/clipmind/internal/adapters/driven/config/file"
	redishistory "github.com/custodia-labs/clipmind/internal/adapters/driven/history/redis"
	"github.com/custodia-labs/clipmind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clipmind/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/clipmind/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/cli"
	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/services"
	"github.com/custodia-labs/clipmind/internal/logger"
	"github.com/custodia-labs/clipmind/internal/normalisers"
	"github.com/custodia-labs/clipmind/internal/postprocessors"
)

// inMemoryHome as CLIPMIND_HOME keeps settings in memory and the
// database in a temporary directory.
const inMemoryHome = ":memory:"

type history interface {
	driven.SearchHistorySink
	driven.SearchHistoryReader
}

type catalog interface {
	driven.VideoCatalog
	driven.VideoRegistry
}

// app holds the wired services and everything that must be closed.
type app struct {
	Services cli.Services
	closers  []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Closing: %v", err)
		}
	}
}

// wire builds the stores and services selected by settings.
func wire(ctx context.Context, settings *domain.AppSettings) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	aiResult := ai.Init(ctx, settings)
	a.closers = append(a.closers, func() error { aiResult.Close(); return nil })

	// SQLite holds the catalog whenever the chunk store is persistent,
	// and is opened lazily.
	var sqliteStore *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if sqliteStore != nil {
			return sqliteStore, nil
		}
		dir, err := dataDir(settings)
		if err != nil {
			return nil, err
		}
		if os.Getenv(file.EnvHome) == inMemoryHome {
			a.closers = append(a.closers, func() error { return os.RemoveAll(dir) })
		}
		s, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		logger.Debug("SQLite database at %s", s.Path())
		sqliteStore = s
		a.closers = append(a.closers, s.Close)
		return s, nil
	}

	var (
		store driven.ChunkStore
		cat   catalog
	)
	switch settings.Storage.Backend {
	case domain.StorageMemory:
		store, cat = memory.NewChunkStore(), memory.NewCatalog()
	case domain.StoragePostgres:
		pg, err := postgres.NewStore(ctx, settings.Storage.PostgresDSN, settings.Storage.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		a.closers = append(a.closers, pg.Close)
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		store, cat = pg, s.Catalog()
	default:
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		store, cat = s.ChunkStore(), s.Catalog()
	}

	hist, err := openHistory(ctx, settings.History, openSQLite)
	if err != nil {
		// Search works without history.
		logger.Warn("Search history disabled: %v", err)
		hist = nil
	}
	if closer, ok := hist.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	pipeline, err := postprocessors.DefaultPipeline(settings.Indexing)
	if err != nil {
		return nil, fmt.Errorf("building chunk pipeline: %w", err)
	}

	embedder := services.NewEmbeddingGenerator(aiResult.EmbeddingService, settings.Indexing)
	indexing := services.NewIndexingService(normalisers.NewDefaultRegistry(), pipeline, embedder, store)

	search := services.NewSearchService(embedder, store, cat)
	search.SetThreshold(settings.Search.Threshold)
	search.SetDefaultLimit(settings.Search.DefaultLimit)
	if hist != nil {
		search.SetHistorySink(hist)
	}

	answer := services.NewAnswerService(aiResult.LLMService, search, indexing)
	if os.Getenv(file.EnvHome) != inMemoryHome {
		prompts, err := file.NewPromptStore("", map[string]string{
			driven.PromptAnswerSystem: services.DefaultAnswerPrompt,
		})
		if err != nil {
			logger.Warn("Using built-in prompts: %v", err)
		} else {
			answer.SetPromptStore(prompts)
		}
	}

	a.Services = cli.Services{
		Search:   search,
		Answer:   answer,
		Indexing: indexing,
		Videos:   cat,
	}
	if hist != nil {
		a.Services.History = hist
	}
	return a, nil
}

func openHistory(
	ctx context.Context, cfg domain.HistorySettings, openSQLite func() (*sqlite.Store, error),
) (history, error) {
	switch cfg.Backend {
	case domain.HistoryNone:
		return nil, nil
	case domain.HistoryMemory:
		return memory.NewHistory(cfg.MaxEntries), nil
	case domain.HistoryRedis:
		return redishistory.NewHistory(ctx, redishistory.Config{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			KeyPrefix:  cfg.KeyPrefix,
			MaxEntries: cfg.MaxEntries,
		})
	case domain.HistorySQLite:
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		return s.History(cfg.MaxEntries), nil
	default:
		return nil, errors.New("unknown history backend " + string(cfg.Backend))
	}
}

func dataDir(settings *domain.AppSettings) (string, error) {
	if settings.Storage.DataDir != "" {
		return settings.Storage.DataDir, nil
	}
	home, err := file.HomeDir()
	if err != nil {
		return "", err
	}
	if home == inMemoryHome {
		return os.MkdirTemp("", "clipmind-")
	}
	return filepath.Join(home, "data"), nil
}
