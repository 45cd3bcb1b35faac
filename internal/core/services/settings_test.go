package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func newTestSettings(store *memory.ConfigStore, env map[string]string) *SettingsService {
	return NewSettingsService(store, nil).WithEnv(envMap(env))
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.Indexing, settings.Indexing)
	assert.Equal(t, defaults.Search, settings.Search)
	assert.Equal(t, defaults.History.Backend, settings.History.Backend)
	assert.False(t, settings.Embedding.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("indexing.max_batch_size", 10)
	_ = store.Set("search.threshold", 0.7)
	_ = store.Set("storage.backend", "postgres")

	settings, err := newTestSettings(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, 10, settings.Indexing.MaxBatchSize)
	assert.InDelta(t, 0.7, settings.Search.Threshold, 1e-9)
	assert.Equal(t, domain.StoragePostgres, settings.Storage.Backend)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("storage.backend", "mongo")
	_ = store.Set("history.backend", "kafka")

	settings, err := newTestSettings(store, nil).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.History.Backend, settings.History.Backend)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "anthropic")

	settings, err := newTestSettings(store, map[string]string{
		EnvEmbedProvider:  "openai",
		EnvOpenAIKey:      "sk-env",
		EnvAnthropicKey:   "sk-ant-env",
		EnvDatabaseURL:    "postgres://localhost/clips",
		EnvStorageBackend: "postgres",
		EnvRedisAddr:      "redis:6379",
	}).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.True(t, settings.Embedding.IsConfigured())
	assert.Equal(t, "sk-ant-env", settings.LLM.APIKey)
	assert.Equal(t, domain.StoragePostgres, settings.Storage.Backend)
	assert.Equal(t, "postgres://localhost/clips", settings.Storage.PostgresDSN)
	assert.Equal(t, "redis:6379", settings.History.RedisAddr)
}

func TestSettingsService_Get_StoredKeyWinsOverEnvironment(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.api_key", "sk-stored")

	settings, err := newTestSettings(store, map[string]string{EnvOpenAIKey: "sk-env"}).Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-stored", settings.Embedding.APIKey)
}

func TestSettingsService_SaveDoesNotPersistEnvironmentKeys(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, map[string]string{EnvOpenAIKey: "sk-env"})

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

	_, exists := store.Get("embedding.api_key")
	assert.False(t, exists)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderGoogle, "", "g-key")
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGoogle, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-004", settings.Embedding.Model)
	assert.Equal(t, "g-key", settings.Embedding.APIKey)
	assert.Empty(t, settings.Embedding.BaseURL)
	assert.Equal(t, 768, settings.Storage.Dimensions)
}

func TestSettingsService_SetEmbeddingProvider_Ollama(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "mxbai-embed-large", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, 1024, settings.Storage.Dimensions)
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	tests := []struct {
		name     string
		provider domain.AIProvider
		apiKey   string
	}{
		{"invalid", domain.AIProvider("cohere"), "k"},
		{"no embeddings", domain.AIProviderAnthropic, "k"},
		{"missing key", domain.AIProviderOpenAI, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SetEmbeddingProvider(tt.provider, "", tt.apiKey)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.True(t, settings.LLM.IsConfigured())

	err = service.SetLLMProvider(domain.AIProviderOpenAI, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetStorageBackend(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	assert.ErrorIs(t, service.SetStorageBackend(domain.StoragePostgres, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetStorageBackend("mongo", ""), domain.ErrInvalidInput)

	require.NoError(t, service.SetStorageBackend(domain.StoragePostgres, "postgres://db"))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StoragePostgres, settings.Storage.Backend)
	assert.Equal(t, "postgres://db", settings.Storage.PostgresDSN)
}

func TestSettingsService_SetHistoryBackend(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetHistoryBackend(domain.HistoryRedis, "cache:6379"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.HistoryRedis, settings.History.Backend)
	assert.Equal(t, "cache:6379", settings.History.RedisAddr)

	assert.ErrorIs(t, service.SetHistoryBackend("kafka", ""), domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"postgres without dsn", map[string]any{"storage.backend": "postgres"}, true},
		{"batch too large", map[string]any{"indexing.max_batch_size": 21}, true},
		{"negative overlap", map[string]any{"indexing.overlap": -1}, true},
		{"threshold out of range", map[string]any{"search.threshold": 1.5}, true},
		{"threshold below floor", map[string]any{"search.threshold": 0.3}, true},
		{"threshold raised", map[string]any{"search.threshold": 0.7}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.values {
				_ = store.Set(k, v)
			}
			err := newTestSettings(store, nil).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type mockValidator struct {
	embedErr error
	llmErr   error
	calls    int
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.calls++
	return m.embedErr
}

func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.calls++
	return m.llmErr
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	v := &mockValidator{embedErr: errors.New("unreachable")}
	service := NewSettingsService(memory.NewConfigStore(), v).WithEnv(envMap(nil))

	assert.Error(t, service.ValidateEmbeddingConfig())
	assert.NoError(t, service.ValidateLLMConfig())
	assert.Equal(t, 2, v.calls)

	noValidator := newTestSettings(memory.NewConfigStore(), nil)
	assert.NoError(t, noValidator.ValidateEmbeddingConfig())
	assert.NoError(t, noValidator.ValidateLLMConfig())
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
