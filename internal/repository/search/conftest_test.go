package search

import (
	"context"

	"github.com/velosearch/velosearch/internal/db"
)

// mockStore implements the store consumer interface for tests.
type mockStore struct {
	searchFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	lastQuery *db.KNNQuery
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}
