package driving

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// AnswerService answers questions grounded in search results.
type AnswerService interface {
	// Answer asks the LLM about the given results and resolves its citations.
	Answer(ctx context.Context, req domain.AnswerRequest) (*domain.Answer, error)

	// Ask searches the owner's index for the question and answers from the results.
	Ask(ctx context.Context, owner domain.OwnerKey, req domain.AskRequest) (*domain.Answer, error)
}
