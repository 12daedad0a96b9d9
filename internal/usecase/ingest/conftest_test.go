package ingest

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
)

// mockLoader implements the loader consumer interface for tests.
type mockLoader struct {
	records []domain.Record
	err     error
}

func (m *mockLoader) Fetch(_ context.Context) ([]domain.Record, error) {
	return m.records, m.err
}

// mockCatalogRepo implements the catalogRepo consumer interface for tests.
type mockCatalogRepo struct {
	existingFn func(ctx context.Context, keys []string) ([]bool, error)
	writeFn    func(ctx context.Context, keys []string, records []domain.Record) (int, error)

	wroteKeys    []string
	wroteRecords []domain.Record
}

func (m *mockCatalogRepo) Existing(ctx context.Context, keys []string) ([]bool, error) {
	if m.existingFn != nil {
		return m.existingFn(ctx, keys)
	}
	return make([]bool, len(keys)), nil
}

func (m *mockCatalogRepo) WriteRecords(ctx context.Context, keys []string, records []domain.Record) (int, error) {
	m.wroteKeys = keys
	m.wroteRecords = records
	if m.writeFn != nil {
		return m.writeFn(ctx, keys, records)
	}
	return len(keys), nil
}

func newTestService(t *testing.T, l *mockLoader, c *mockCatalogRepo) *Service {
	t.Helper()
	return NewService(l, c, "bikes:", zap.NewNop())
}
