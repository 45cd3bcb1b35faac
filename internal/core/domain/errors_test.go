package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrInvalidOwner", ErrInvalidOwner},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrStoreUnavailable", ErrStoreUnavailable},
		{"ErrQueryEmbedding", ErrQueryEmbedding},
		{"ErrFilterResolution", ErrFilterResolution},
		{"ErrBatchTooLarge", ErrBatchTooLarge},
		{"ErrMalformedEmbedding", ErrMalformedEmbedding},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmbeddingUnavailable, ErrLLMUnavailable))
	assert.False(t, errors.Is(ErrQueryEmbedding, ErrFilterResolution))
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("search: %w: %w", ErrFilterResolution, errors.New("db down"))
	assert.True(t, errors.Is(wrapped, ErrFilterResolution))
	assert.Contains(t, wrapped.Error(), "db down")
}
