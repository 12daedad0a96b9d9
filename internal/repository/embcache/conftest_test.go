package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/db"
)

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	dim        int
	batchFn    func(ctx context.Context, texts []string) ([][]float32, error)
	batchCalls int
	lastTexts  []string
}

func (m *mockEmbedder) Dimension() int { return m.dim }

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

// mockKV implements the kv consumer interface for tests.
type mockKV struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error

	setKeys []string
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKV) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setKeys = append(m.setKeys, key)
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestEmbedder(t *testing.T, inner *mockEmbedder) (*Embedder, *mockKV) {
	t.Helper()
	kv := &mockKV{}
	e := New(inner, kv, "text-embedding-3-small", time.Hour, zap.NewNop())
	return e, kv
}
