package index

import (
	"context"

	"github.com/velosearch/velosearch/internal/db"
)

// mockStore implements the store consumer interface for tests.
type mockStore struct {
	createFn func(ctx context.Context, def *db.IndexDefinition) error
	dropFn   func(ctx context.Context, name string) error
	existsFn func(ctx context.Context, name string) (bool, error)
	infoFn   func(ctx context.Context, name string) (*db.IndexInfo, error)
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte) error
	delFn    func(ctx context.Context, key string) error

	createdDef *db.IndexDefinition
	setKey     string
	setValue   []byte
	delKey     string
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.createdDef = def
	if m.createFn != nil {
		return m.createFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	if m.infoFn != nil {
		return m.infoFn(ctx, name)
	}
	return &db.IndexInfo{}, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	m.setKey = key
	m.setValue = value
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	m.delKey = key
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}
