package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"
	keyStoragePostgres  = "storage.postgres_dsn"
	keyStorageDims      = "storage.dimensions"
	keyChunkSize        = "indexing.chunk_size"
	keyChunkOverlap     = "indexing.overlap"
	keyMaxBatchSize     = "indexing.max_batch_size"
	keyRequestsPerSec   = "indexing.requests_per_second"
	keyBurst            = "indexing.burst"
	keyMaxRetries       = "indexing.max_retries"
	keySearchLimit      = "search.default_limit"
	keySearchThreshold  = "search.threshold"
	keyHistoryBackend   = "history.backend"
	keyHistoryRedisAddr = "history.redis_addr"
	keyHistoryRedisPass = "history.redis_password"
	keyHistoryRedisDB   = "history.redis_db"
	keyHistoryPrefix    = "history.key_prefix"
	keyHistoryMax       = "history.max_entries"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvEmbedProvider  = "CLIPMIND_EMBEDDING_PROVIDER"
	EnvEmbedModel     = "CLIPMIND_EMBEDDING_MODEL"
	EnvEmbedBaseURL   = "CLIPMIND_EMBEDDING_BASE_URL"
	EnvLLMProvider    = "CLIPMIND_LLM_PROVIDER"
	EnvLLMModel       = "CLIPMIND_LLM_MODEL"
	EnvLLMBaseURL     = "CLIPMIND_LLM_BASE_URL"
	EnvStorageBackend = "CLIPMIND_STORAGE_BACKEND"
	EnvHistoryBackend = "CLIPMIND_HISTORY_BACKEND"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
	EnvGeminiKey      = "GEMINI_API_KEY"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvRedisAddr      = "REDIS_ADDR"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// WithEnv replaces the environment lookup. Tests pass a map-backed function.
func (s *SettingsService) WithEnv(getenv func(string) string) *SettingsService {
	s.getenv = getenv
	return s
}

// Get retrieves current application settings with environment overrides applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()
	s.applyEnv(settings)
	return settings, nil
}

// stored reads settings from the config store only.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Storage: domain.StorageSettings{
			Backend:     s.getStorageBackend(defaults.Storage.Backend),
			DataDir:     s.getString(keyStorageDataDir, defaults.Storage.DataDir),
			PostgresDSN: s.configStore.GetString(keyStoragePostgres),
			Dimensions:  s.getInt(keyStorageDims, defaults.Storage.Dimensions),
		},
		Indexing: domain.IndexingSettings{
			ChunkSize:         s.getInt(keyChunkSize, defaults.Indexing.ChunkSize),
			Overlap:           s.getInt(keyChunkOverlap, defaults.Indexing.Overlap),
			MaxBatchSize:      s.getInt(keyMaxBatchSize, defaults.Indexing.MaxBatchSize),
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, defaults.Indexing.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, defaults.Indexing.Burst),
			MaxRetries:        s.getInt(keyMaxRetries, defaults.Indexing.MaxRetries),
		},
		Search: domain.SearchSettings{
			DefaultLimit: s.getInt(keySearchLimit, defaults.Search.DefaultLimit),
			Threshold:    s.getFloat(keySearchThreshold, defaults.Search.Threshold),
		},
		History: domain.HistorySettings{
			Backend:       s.getHistoryBackend(defaults.History.Backend),
			RedisAddr:     s.getString(keyHistoryRedisAddr, defaults.History.RedisAddr),
			RedisPassword: s.configStore.GetString(keyHistoryRedisPass),
			RedisDB:       s.configStore.GetInt(keyHistoryRedisDB),
			KeyPrefix:     s.getString(keyHistoryPrefix, defaults.History.KeyPrefix),
			MaxEntries:    s.getInt(keyHistoryMax, defaults.History.MaxEntries),
		},
	}
}

// applyEnv overlays environment variables. Provider keys fill in only when
// the stored key is empty and the provider matches.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if p := domain.AIProvider(s.getenv(EnvEmbedProvider)); p.IsValid() {
		settings.Embedding.Provider = p
	}
	if v := s.getenv(EnvEmbedModel); v != "" {
		settings.Embedding.Model = v
	}
	if v := s.getenv(EnvEmbedBaseURL); v != "" {
		settings.Embedding.BaseURL = v
	}
	if p := domain.AIProvider(s.getenv(EnvLLMProvider)); p.IsValid() {
		settings.LLM.Provider = p
	}
	if v := s.getenv(EnvLLMModel); v != "" {
		settings.LLM.Model = v
	}
	if v := s.getenv(EnvLLMBaseURL); v != "" {
		settings.LLM.BaseURL = v
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.providerKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.providerKey(settings.LLM.Provider)
	}
	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	if b := domain.StorageBackend(s.getenv(EnvStorageBackend)); b.IsValid() {
		settings.Storage.Backend = b
	}
	if v := s.getenv(EnvDatabaseURL); v != "" {
		settings.Storage.PostgresDSN = v
	}
	if b := domain.HistoryBackend(s.getenv(EnvHistoryBackend)); b.IsValid() {
		settings.History.Backend = b
	}
	if v := s.getenv(EnvRedisAddr); v != "" {
		settings.History.RedisAddr = v
	}
}

func (s *SettingsService) providerKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicKey)
	case domain.AIProviderGoogle:
		return s.getenv(EnvGeminiKey)
	default:
		return ""
	}
}

// Save persists application settings.
// Empty API keys are not written so a key held only in the environment
// never overwrites a stored one.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyStoragePostgres, settings.Storage.PostgresDSN},
		{keyStorageDims, settings.Storage.Dimensions},
		{keyChunkSize, settings.Indexing.ChunkSize},
		{keyChunkOverlap, settings.Indexing.Overlap},
		{keyMaxBatchSize, settings.Indexing.MaxBatchSize},
		{keyRequestsPerSec, settings.Indexing.RequestsPerSecond},
		{keyBurst, settings.Indexing.Burst},
		{keyMaxRetries, settings.Indexing.MaxRetries},
		{keySearchLimit, settings.Search.DefaultLimit},
		{keySearchThreshold, settings.Search.Threshold},
		{keyHistoryBackend, string(settings.History.Backend)},
		{keyHistoryRedisAddr, settings.History.RedisAddr},
		{keyHistoryRedisDB, settings.History.RedisDB},
		{keyHistoryPrefix, settings.History.KeyPrefix},
		{keyHistoryMax, settings.History.MaxEntries},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key   string
		value string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyHistoryRedisPass, settings.History.RedisPassword},
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings := s.stored()
	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Keep the pgvector column in step with the model.
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Storage.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetStorageBackend selects the chunk store.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend, dsn string) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, backend)
	}
	if backend == domain.StoragePostgres && dsn == "" {
		return fmt.Errorf("%w: postgres backend requires a DSN", domain.ErrInvalidInput)
	}

	settings := s.stored()
	settings.Storage.Backend = backend
	if dsn != "" {
		settings.Storage.PostgresDSN = dsn
	}
	return s.Save(settings)
}

// SetHistoryBackend selects the search-history sink.
func (s *SettingsService) SetHistoryBackend(backend domain.HistoryBackend, addr string) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid history backend: %s", domain.ErrInvalidInput, backend)
	}

	settings := s.stored()
	settings.History.Backend = backend
	if addr != "" {
		settings.History.RedisAddr = addr
	}
	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	if settings.Storage.Backend == domain.StoragePostgres && settings.Storage.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres backend requires storage.postgres_dsn or %s", domain.ErrInvalidInput, EnvDatabaseURL)
	}
	if settings.Indexing.ChunkSize <= 0 {
		return fmt.Errorf("%w: indexing.chunk_size must be positive", domain.ErrInvalidInput)
	}
	if settings.Indexing.Overlap < 0 {
		return fmt.Errorf("%w: indexing.overlap must not be negative", domain.ErrInvalidInput)
	}
	if settings.Indexing.MaxBatchSize <= 0 || settings.Indexing.MaxBatchSize > MaxEmbeddingBatchSize {
		return fmt.Errorf("%w: indexing.max_batch_size must be between 1 and %d",
			domain.ErrInvalidInput, MaxEmbeddingBatchSize)
	}
	if settings.Search.Threshold < domain.SimilarityThreshold || settings.Search.Threshold > 1 {
		return fmt.Errorf("%w: search.threshold must be within [%.1f, 1]", domain.ErrInvalidInput, domain.SimilarityThreshold)
	}
	if settings.History.Backend == domain.HistoryRedis && settings.History.RedisAddr == "" {
		return fmt.Errorf("%w: redis history requires history.redis_addr", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getHistoryBackend(defaultVal domain.HistoryBackend) domain.HistoryBackend {
	backend := domain.HistoryBackend(s.configStore.GetString(keyHistoryBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
