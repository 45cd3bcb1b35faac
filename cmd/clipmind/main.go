// Command clipmind indexes video content and answers questions about it.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/clipmind/internal/adapters/driven/ai"
	"github.com/custodia-labs/clipmind/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clipmind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clipmind/internal/adapters/driving/cli"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/services"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// Set by the release build.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Reading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := openConfigStore()
	if err != nil {
		logger.Error("Opening config: %v", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator()).WithEnv(os.Getenv)
	cli.SetSettingsService(settingsService)

	// The settings and version commands must work even when storage or
	// providers are misconfigured, so wiring failures are only warnings.
	if needsServices(os.Args[1:]) {
		settings, err := settingsService.Get()
		if err != nil {
			logger.Error("Loading settings: %v", err)
			return 1
		}
		app, err := wire(ctx, settings)
		if err != nil {
			logger.Warn("%v", err)
		} else {
			defer app.Close()
			app.Services.Settings = settingsService
			cli.SetServices(app.Services)
		}
	}

	if err := cli.Execute(ctx, version); err != nil {
		return 1
	}
	return 0
}

func openConfigStore() (driven.ConfigStore, error) {
	if os.Getenv(file.EnvHome) == inMemoryHome {
		return memory.NewConfigStore(), nil
	}
	dir, err := file.HomeDir()
	if err != nil {
		return nil, err
	}
	return file.NewConfigStore(dir)
}

// needsServices reports whether the command line runs a command that
// touches storage or providers.
func needsServices(args []string) bool {
	for _, a := range args {
		switch a {
		case "settings", "version", "help", "completion", "--help", "-h":
			return false
		}
	}
	return true
}
