package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, storage and search history.

Settings live in $CLIPMIND_HOME/config.toml (default ~/.clipmind).
Environment variables override the file for the current run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used for indexing and search.
Without --provider the command prompts for each value.`,
	RunE: runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM provider used to answer questions.
Without --provider the command prompts for each value.`,
	RunE: runSettingsLLM,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage [memory|sqlite|postgres]",
	Short: "Select the chunk store",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsStorage,
}

var settingsHistoryCmd = &cobra.Command{
	Use:   "history [none|memory|sqlite|redis]",
	Short: "Select where search history is recorded",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsHistory,
}

func init() {
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsLLMCmd} {
		c.Flags().String("provider", "", "provider name")
		c.Flags().String("model", "", "model name (default depends on provider)")
		c.Flags().String("api-key", "", "API key for cloud providers")
		c.Flags().Bool("skip-validation", false, "save without contacting the provider")
	}
	settingsStorageCmd.Flags().String("dsn", "", "postgres connection string")
	settingsHistoryCmd.Flags().String("addr", "", "redis address")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsHistoryCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	showProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())

	cmd.Println("[LLM]")
	showProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	switch settings.Storage.Backend {
	case domain.StoragePostgres:
		cmd.Printf("  DSN: %s\n", maskDSN(settings.Storage.PostgresDSN))
		cmd.Printf("  Dimensions: %d\n", settings.Storage.Dimensions)
	case domain.StorageSQLite:
		if settings.Storage.DataDir != "" {
			cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
		}
	}
	cmd.Println()

	cmd.Println("[Indexing]")
	cmd.Printf("  Chunk size: %d\n", settings.Indexing.ChunkSize)
	cmd.Printf("  Overlap: %d words\n", settings.Indexing.Overlap)
	cmd.Printf("  Batch size: %d\n", settings.Indexing.MaxBatchSize)
	if settings.Indexing.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.2f req/s\n", settings.Indexing.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default limit: %d\n", settings.Search.DefaultLimit)
	cmd.Printf("  Threshold: %.2f\n", settings.Search.Threshold)
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Backend: %s\n", settings.History.Backend)
	if settings.History.Backend == domain.HistoryRedis {
		cmd.Printf("  Redis: %s\n", settings.History.RedisAddr)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func showProvider(cmd *cobra.Command, p domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	if p == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", p.Description())
		cmd.Printf("  Model: %s\n", model)
	}
	if p.IsLocal() && baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if p.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

// providerChoice is the outcome of the flag or prompt flow.
type providerChoice struct {
	provider domain.AIProvider
	model    string
	apiKey   string
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	choice, err := chooseProvider(cmd, "Embedding", domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}
	if err := settingsService.SetEmbeddingProvider(choice.provider, choice.model, choice.apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}
	if err := validateUnlessSkipped(cmd, settingsService.ValidateEmbeddingConfig); err != nil {
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Printf("Embedding provider configured: %s (%s)\n", choice.provider.Description(), choice.model)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	choice, err := chooseProvider(cmd, "LLM", domain.AllLLMProviders(), domain.DefaultLLMModels())
	if err != nil {
		return err
	}
	if err := settingsService.SetLLMProvider(choice.provider, choice.model, choice.apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	if err := validateUnlessSkipped(cmd, settingsService.ValidateLLMConfig); err != nil {
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Printf("LLM provider configured: %s (%s)\n", choice.provider.Description(), choice.model)
	return nil
}

// chooseProvider reads the provider from flags, or prompts when --provider is unset.
func chooseProvider(
	cmd *cobra.Command, kind string, providers []domain.AIProvider, defaults map[domain.AIProvider]string,
) (providerChoice, error) {
	flags := cmd.Flags()
	name, _ := flags.GetString("provider")
	model, _ := flags.GetString("model")
	apiKey, _ := flags.GetString("api-key")

	if name != "" {
		p := domain.AIProvider(name)
		if _, ok := defaults[p]; !ok {
			return providerChoice{}, fmt.Errorf("%w: %s does not support %s", domain.ErrInvalidInput, name, strings.ToLower(kind))
		}
		if model == "" {
			model = defaults[p]
		}
		return providerChoice{provider: p, model: model, apiKey: apiKey}, nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	cmd.Printf("Select %s Provider\n", kind)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	p := providers[parseChoice(readLine(reader), len(providers), 1)-1]

	defaultModel := defaults[p]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	if model = readLine(reader); model == "" {
		model = defaultModel
	}

	if p.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return providerChoice{}, errors.New("API key is required for this provider")
		}
	}
	return providerChoice{provider: p, model: model, apiKey: apiKey}, nil
}

func validateUnlessSkipped(cmd *cobra.Command, validate func() error) error {
	if skip, _ := cmd.Flags().GetBool("skip-validation"); skip {
		return nil
	}
	cmd.Print("Validating configuration... ")
	if err := validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return err
	}
	cmd.Println("OK")
	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	dsn, _ := cmd.Flags().GetString("dsn")
	backend := domain.StorageBackend(args[0])
	if err := settingsService.SetStorageBackend(backend, dsn); err != nil {
		return fmt.Errorf("failed to set storage backend: %w", err)
	}
	cmd.Printf("Storage backend set to: %s\n", backend)
	return nil
}

func runSettingsHistory(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	addr, _ := cmd.Flags().GetString("addr")
	backend := domain.HistoryBackend(args[0])
	if err := settingsService.SetHistoryBackend(backend, addr); err != nil {
		return fmt.Errorf("failed to set history backend: %w", err)
	}
	cmd.Printf("History backend set to: %s\n", backend)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, fallback *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(fallback)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return dsn[:scheme+3] + creds[:colon] + ":****" + dsn[at:]
	}
	return dsn
}
