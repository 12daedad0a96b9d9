package query

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
)

// mockEmbedder implements the embedder consumer interface for tests.
type mockEmbedder struct {
	batchFn    func(ctx context.Context, texts []string) ([][]float32, error)
	batchCalls int
	lastTexts  []string
}

func (m *mockEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	m.lastTexts = texts
	if m.batchFn != nil {
		return m.batchFn(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

// mockSearcher implements the searcher consumer interface for tests.
type mockSearcher struct {
	knnFn func(ctx context.Context, vector []float32, k int, filter string, params map[string]string) ([]domain.Hit, error)
	calls int
	lastK int
}

func (m *mockSearcher) KNN(ctx context.Context, vector []float32, k int, filter string, params map[string]string) ([]domain.Hit, error) {
	m.calls++
	m.lastK = k
	if m.knnFn != nil {
		return m.knnFn(ctx, vector, k, filter, params)
	}
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockEmbedder, *mockSearcher) {
	t.Helper()
	e := &mockEmbedder{}
	s := &mockSearcher{}
	return NewService(e, s, 3, zap.NewNop()), e, s
}
