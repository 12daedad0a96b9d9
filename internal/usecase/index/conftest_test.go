package index

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
)

// mockIndexRepo implements the indexRepo consumer interface for tests.
type mockIndexRepo struct {
	exists    bool
	existsErr error
	declared  int
	status    domain.IndexStatus
	statusErr error

	createFn   func(ctx context.Context, dim int) error
	dropFn     func(ctx context.Context) error
	creates    int
	drops      int
	createdDim int
}

func (m *mockIndexRepo) Exists(_ context.Context) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockIndexRepo) Create(ctx context.Context, dim int) error {
	m.creates++
	m.createdDim = dim
	if m.createFn != nil {
		return m.createFn(ctx, dim)
	}
	return nil
}

func (m *mockIndexRepo) Drop(ctx context.Context) error {
	m.drops++
	if m.dropFn != nil {
		return m.dropFn(ctx)
	}
	return nil
}

func (m *mockIndexRepo) DeclaredDimension(_ context.Context) (int, error) {
	return m.declared, nil
}

func (m *mockIndexRepo) Status(_ context.Context) (domain.IndexStatus, error) {
	return m.status, m.statusErr
}

// fixedDim is a stub embedder reporting a fixed dimension.
type fixedDim int

func (d fixedDim) Dimension() int { return int(d) }

func newTestService(t *testing.T, repo *mockIndexRepo, dim int) *Service {
	t.Helper()
	return NewService(repo, fixedDim(dim), zap.NewNop())
}
