package attach

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// mockCatalogRepo implements the catalogRepo consumer interface for tests.
type mockCatalogRepo struct {
	keys         []string
	keysErr      error
	descs        []string
	descsErr     error
	attachFn     func(ctx context.Context, keys []string, vectors [][]float32) (int, error)
	attachedKeys []string
	attachedVecs [][]float32
}

func (m *mockCatalogRepo) SortedKeys(_ context.Context) ([]string, error) {
	return m.keys, m.keysErr
}

func (m *mockCatalogRepo) Descriptions(_ context.Context, keys []string) ([]string, error) {
	return m.descs, m.descsErr
}

func (m *mockCatalogRepo) AttachEmbeddings(ctx context.Context, keys []string, vectors [][]float32) (int, error) {
	m.attachedKeys = keys
	m.attachedVecs = vectors
	if m.attachFn != nil {
		return m.attachFn(ctx, keys, vectors)
	}
	return len(keys), nil
}

// mockIndexRepo implements the indexRepo consumer interface for tests.
type mockIndexRepo struct {
	dim    int
	dimErr error
}

func (m *mockIndexRepo) DeclaredDimension(_ context.Context) (int, error) {
	return m.dim, m.dimErr
}

// mockEmbedder implements the embedder consumer interface for tests.
type mockEmbedder struct {
	dim     int
	batchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) Dimension() int { return m.dim }

func (m *mockEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchFn != nil {
		return m.batchFn(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, m.dim)
	}
	return vectors, nil
}

func newTestService(t *testing.T, c *mockCatalogRepo, i *mockIndexRepo, e *mockEmbedder) *Service {
	t.Helper()
	return NewService(c, i, e, zap.NewNop())
}
