// Package cli provides the clipmind command-line interface.
package cli

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// Environment variables consulted when the owner flags are unset.
const (
	EnvUserID    = "CLIPMIND_USER_ID"
	EnvSessionID = "CLIPMIND_SESSION_ID"
)

var version = "dev"

// Services wired by main.
var (
	searchService   driving.SearchService
	answerService   driving.AnswerService
	indexingService driving.IndexingService
	settingsService driving.SettingsService
	videoRegistry   driven.VideoRegistry
	historyReader   driven.SearchHistoryReader
)

var (
	verbose   bool
	userID    int64
	sessionID string
)

// Services holds everything the commands need. Nil fields disable the
// commands that depend on them.
type Services struct {
	Search   driving.SearchService
	Answer   driving.AnswerService
	Indexing driving.IndexingService
	Settings driving.SettingsService
	Videos   driven.VideoRegistry
	History  driven.SearchHistoryReader
}

var rootCmd = &cobra.Command{
	Use:   "clipmind",
	Short: "Semantic search and cited answers over your videos",
	Long: `clipmind indexes video transcripts, summaries, notes and conversations
as embedded chunks, searches them by meaning, and answers questions with
citations back to the passages it used.

Every command acts for one owner: a signed-in user (--user) or an
anonymous session (--session).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Int64Var(&userID, "user", 0, "act as this user ID (env "+EnvUserID+")")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "act as this anonymous session (env "+EnvSessionID+")")
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	searchService = s.Search
	answerService = s.Answer
	indexingService = s.Indexing
	settingsService = s.Settings
	videoRegistry = s.Videos
	historyReader = s.History
}

// SetSettingsService installs only the settings service. The settings
// commands work before any provider or store is configured.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// Execute runs the root command.
func Execute(ctx context.Context, v string) error {
	version = v
	return rootCmd.ExecuteContext(ctx)
}

// ownerFromFlags resolves the owner from --user, --session and their
// environment fallbacks, in that order.
func ownerFromFlags() (domain.OwnerKey, error) {
	if userID != 0 {
		owner := domain.UserOwner(userID)
		return owner, owner.Validate()
	}
	if sessionID != "" {
		owner := domain.AnonymousOwner(sessionID)
		return owner, owner.Validate()
	}
	if raw := strings.TrimSpace(os.Getenv(EnvUserID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.OwnerKey{}, errors.Join(domain.ErrInvalidOwner, err)
		}
		owner := domain.UserOwner(id)
		return owner, owner.Validate()
	}
	if raw := strings.TrimSpace(os.Getenv(EnvSessionID)); raw != "" {
		owner := domain.AnonymousOwner(raw)
		return owner, owner.Validate()
	}
	return domain.OwnerKey{}, errors.New("no owner: pass --user or --session")
}

// commandContext returns the command's context, falling back to Background
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
