package mcp

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

var testOwner = domain.UserOwner(42)

type mockSearchService struct {
	results []domain.SearchResult
	err     error

	owner domain.OwnerKey
	query string
	opts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	owner domain.OwnerKey,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.owner, m.query, m.opts = owner, query, opts
	return m.results, m.err
}

type mockAnswerService struct {
	answer *domain.Answer
	err    error
	req    domain.AskRequest
}

func (m *mockAnswerService) Answer(_ context.Context, _ domain.AnswerRequest) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockAnswerService) Ask(_ context.Context, _ domain.OwnerKey, req domain.AskRequest) (*domain.Answer, error) {
	m.req = req
	return m.answer, m.err
}

type mockVideos struct {
	videos map[string]domain.VideoRef
	err    error
}

func (m *mockVideos) RegisterVideo(_ context.Context, v domain.VideoRef) error {
	m.videos[v.ID] = v
	return m.err
}

func (m *mockVideos) AddToCollection(_ context.Context, _ domain.OwnerKey, _, _ string) error {
	return m.err
}

func (m *mockVideos) GetVideo(_ context.Context, owner domain.OwnerKey, id string) (*domain.VideoRef, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.videos[id]
	if !ok || v.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

type mockHistory struct {
	entries []domain.SearchHistoryEntry
	err     error
}

func (m *mockHistory) Recent(_ context.Context, _ domain.OwnerKey, _ int) ([]domain.SearchHistoryEntry, error) {
	return m.entries, m.err
}
