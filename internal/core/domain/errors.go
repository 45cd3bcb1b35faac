package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown content type or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidOwner indicates an owner key with no variant set.
	ErrInvalidOwner = errors.New("invalid owner key")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and semantic search are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the chunk store is not configured.
	ErrStoreUnavailable = errors.New("chunk store unavailable")

	// ErrQueryEmbedding indicates the query text could not be embedded.
	// A search cannot rank anything without a query vector.
	ErrQueryEmbedding = errors.New("query embedding failed")

	// ErrFilterResolution indicates a catalog lookup for a search filter failed.
	// This is never reported as an empty result.
	ErrFilterResolution = errors.New("filter resolution failed")

	// ErrBatchTooLarge indicates more texts were submitted than one batch allows.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrMalformedEmbedding indicates a provider returned the wrong number of vectors
	// or vectors of inconsistent length.
	ErrMalformedEmbedding = errors.New("malformed embedding response")

	// ErrDimensionMismatch indicates two vectors of different length were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
