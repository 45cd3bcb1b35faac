package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

type stubSearch struct {
	results []domain.SearchResult
	query   string
}

func (s *stubSearch) Search(_ context.Context, _ domain.OwnerKey, q string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	s.query = q
	return s.results, nil
}

type stubAnswer struct {
	answer *domain.Answer
	err    error
}

func (s *stubAnswer) Answer(context.Context, domain.AnswerRequest) (*domain.Answer, error) {
	return s.answer, s.err
}

func (s *stubAnswer) Ask(context.Context, domain.OwnerKey, domain.AskRequest) (*domain.Answer, error) {
	return s.answer, s.err
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports Ports
		want  error
	}{
		{"valid user", Ports{Owner: domain.UserOwner(1), Search: &stubSearch{}}, nil},
		{"valid session with answer", Ports{Owner: domain.AnonymousOwner("s"), Search: &stubSearch{}, Answer: &stubAnswer{}}, nil},
		{"missing search", Ports{Owner: domain.UserOwner(1)}, ErrMissingSearchService},
		{"missing owner", Ports{Search: &stubSearch{}}, ErrMissingOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
