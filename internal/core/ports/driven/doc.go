// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Chunk record persistence (memory, SQLite, Postgres)
//   - VideoCatalog: Video membership lookups for search filters
//   - NormaliserRegistry: Selects the normaliser for a content type
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application fails the affected operation with a
// configuration error, or skips the side effect:
//
//   - EmbeddingService: Generates vector embeddings. Without it, indexing and search fail.
//   - LLMService: Language model operations. Without it, question answering fails.
//   - VectorSearcher: Native nearest-neighbour ranking. Without it, ranking runs in process.
//   - SearchHistorySink: Receives completed searches. Without it, nothing is recorded.
//   - PromptStore: User-editable prompt templates. Without it, defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
