package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// MaxEmbeddingBatchSize is the largest batch a single provider request may carry.
const MaxEmbeddingBatchSize = 20

// defaultRetryDelay is the base delay for batch retries.
const defaultRetryDelay = 500 * time.Millisecond

// EmbeddingGenerator turns texts into vectors through an EmbeddingService,
// in bounded batches, with rate limiting and per-batch retries.
type EmbeddingGenerator struct {
	service    driven.EmbeddingService
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewEmbeddingGenerator creates a generator. service may be nil, in which
// case every operation fails with domain.ErrEmbeddingUnavailable.
func NewEmbeddingGenerator(service driven.EmbeddingService, settings domain.IndexingSettings) *EmbeddingGenerator {
	batchSize := settings.MaxBatchSize
	if batchSize <= 0 || batchSize > MaxEmbeddingBatchSize {
		batchSize = MaxEmbeddingBatchSize
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if settings.RequestsPerSecond > 0 {
		burst := settings.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), burst)
	}

	maxRetries := settings.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &EmbeddingGenerator{
		service:    service,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		limiter:    limiter,
		sleep:      sleepContext,
	}
}

// Available reports whether a provider is configured.
func (g *EmbeddingGenerator) Available() bool {
	return g != nil && g.service != nil
}

// BatchSize returns the configured batch size.
func (g *EmbeddingGenerator) BatchSize() int {
	return g.batchSize
}

// EmbedQuery embeds a single search query.
func (g *EmbeddingGenerator) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if !g.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vec, err := g.service.Embed(ctx, normaliseForEmbedding(text))
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrMalformedEmbedding)
	}
	return vec, nil
}

// EmbedBatch embeds one batch of at most BatchSize texts.
// The result is aligned with texts. Transient failures are retried.
func (g *EmbeddingGenerator) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if !g.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > g.batchSize {
		return nil, fmt.Errorf("%w: %d texts, maximum %d", domain.ErrBatchTooLarge, len(texts), g.batchSize)
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		inputs[i] = normaliseForEmbedding(t)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(g.retryDelay, attempt)
			logger.Debug("Retrying embedding batch in %s (attempt %d/%d): %v", delay, attempt, g.maxRetries, lastErr)
			if err := g.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vectors, err := g.service.EmbedBatch(ctx, inputs)
		if err == nil {
			err = validateBatch(vectors, len(inputs))
		}
		if err == nil {
			return vectors, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, lastErr
}

// EmbedAll embeds texts in sequential batches. A failing batch leaves nil
// vectors in its slots and is recorded in the run; later batches still run.
// Only configuration and context errors abort the whole run.
func (g *EmbeddingGenerator) EmbedAll(ctx context.Context, texts []string) (*domain.EmbeddingRun, error) {
	if !g.Available() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	run := &domain.EmbeddingRun{Vectors: make([][]float32, len(texts))}
	dims := 0

	for start, batch := 0, 0; start < len(texts); start, batch = start+g.batchSize, batch+1 {
		end := min(start+g.batchSize, len(texts))

		vectors, err := g.EmbedBatch(ctx, texts[start:end])
		if err == nil && dims != 0 && len(vectors[0]) != dims {
			err = fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vectors[0]), dims)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return run, ctxErr
			}
			logger.Warn("Embedding batch %d (items %d-%d) failed: %v", batch, start, end-1, err)
			run.Failures = append(run.Failures, domain.BatchFailure{
				Batch: batch,
				Start: start,
				Size:  end - start,
				Err:   err,
			})
			continue
		}

		if dims == 0 {
			dims = len(vectors[0])
		}
		copy(run.Vectors[start:end], vectors)
	}

	logger.Debug("Embedded %d/%d texts, %d failed batches", run.Embedded(), len(texts), len(run.Failures))
	return run, nil
}

// validateBatch checks a provider response has one non-empty vector per
// input, all of the same length.
func validateBatch(vectors [][]float32, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrMalformedEmbedding, len(vectors), want)
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: empty vector at %d", domain.ErrMalformedEmbedding, i)
		}
		if len(v) != dims {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				errors.Join(domain.ErrMalformedEmbedding, domain.ErrDimensionMismatch), i, len(v), dims)
		}
	}
	return nil
}

// normaliseForEmbedding replaces line breaks with spaces.
func normaliseForEmbedding(text string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
}
