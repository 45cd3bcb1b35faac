package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGoogle is the Google Gemini API.
	AIProviderGoogle AIProvider = "google"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGoogle:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGoogle
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGoogle:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
// It never contacts the provider.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StorageBackend selects the chunk store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps everything in process. Used for tests and demos.
	StorageMemory StorageBackend = "memory"

	// StorageSQLite stores vectors as BLOBs and ranks in process.
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres stores pgvector columns and ranks with the <=> operator.
	StoragePostgres StorageBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StoragePostgres:
		return true
	default:
		return false
	}
}

// HasNativeRanking reports whether the backend ranks vectors itself.
func (b StorageBackend) HasNativeRanking() bool {
	return b == StoragePostgres
}

// StorageSettings holds chunk store configuration.
type StorageSettings struct {
	// Backend selects the store.
	Backend StorageBackend

	// DataDir holds the SQLite database.
	DataDir string

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string

	// Dimensions is the pgvector column size.
	Dimensions int
}

// IndexingSettings controls chunking and embedding batches.
type IndexingSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// Overlap is the number of words carried into the next chunk.
	Overlap int

	// MaxBatchSize is the number of chunks per embedding request.
	MaxBatchSize int

	// RequestsPerSecond limits embedding requests. Zero means unlimited.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// MaxRetries is how often a failing batch is retried.
	MaxRetries int
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// DefaultLimit is the result count when a request leaves it unset.
	DefaultLimit int

	// Threshold is the minimum similarity a result must reach. It may be
	// raised above SimilarityThreshold but never lowered below it.
	Threshold float64
}

// HistoryBackend selects where search history is recorded.
type HistoryBackend string

// Available history backends.
const (
	HistoryNone   HistoryBackend = "none"
	HistoryMemory HistoryBackend = "memory"
	HistorySQLite HistoryBackend = "sqlite"
	HistoryRedis  HistoryBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b HistoryBackend) IsValid() bool {
	switch b {
	case HistoryNone, HistoryMemory, HistorySQLite, HistoryRedis:
		return true
	default:
		return false
	}
}

// HistorySettings holds search-history sink configuration.
type HistorySettings struct {
	Backend       HistoryBackend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
	MaxEntries    int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Storage   StorageSettings
	Indexing  IndexingSettings
	Search    SearchSettings
	History   HistorySettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them via
// `clipmind settings` or environment variables.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend:    StorageSQLite,
			Dimensions: 1536,
		},
		Indexing: IndexingSettings{
			ChunkSize:    1000,
			Overlap:      50,
			MaxBatchSize: 20,
			Burst:        1,
			MaxRetries:   2,
		},
		Search: SearchSettings{
			DefaultLimit: DefaultSearchLimit,
			Threshold:    SimilarityThreshold,
		},
		History: HistorySettings{
			Backend:    HistorySQLite,
			RedisAddr:  "localhost:6379",
			KeyPrefix:  "clipmind:history",
			MaxEntries: 200,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGoogle,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGoogle,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGoogle: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGoogle:    "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Google models
		"text-embedding-004": 768,
	}
}
