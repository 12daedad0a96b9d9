package catalog

import (
	"context"

	"github.com/velosearch/velosearch/internal/db"
)

// mockStore implements the store consumer interface for tests.
type mockStore struct {
	jsonSetMultiFn func(ctx context.Context, items []db.JSONSetItem) error
	jsonGetMultiFn func(ctx context.Context, keys []string, path string) ([][]byte, error)
	existsMultiFn  func(ctx context.Context, keys []string) ([]bool, error)
	keysFn         func(ctx context.Context, pattern string) ([]string, error)

	setItems []db.JSONSetItem
}

func (m *mockStore) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	m.setItems = items
	if m.jsonSetMultiFn != nil {
		return m.jsonSetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys, path)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) ExistsMulti(ctx context.Context, keys []string) ([]bool, error) {
	if m.existsMultiFn != nil {
		return m.existsMultiFn(ctx, keys)
	}
	return make([]bool, len(keys)), nil
}

func (m *mockStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	if m.keysFn != nil {
		return m.keysFn(ctx, pattern)
	}
	return nil, nil
}
