package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
	attachuc "github.com/velosearch/velosearch/internal/usecase/attach"
	healthuc "github.com/velosearch/velosearch/internal/usecase/health"
	queryuc "github.com/velosearch/velosearch/internal/usecase/query"
)

// mockQuerier implements the querier consumer interface for tests.
type mockQuerier struct {
	searchFn func(ctx context.Context, req queryuc.Request) (*queryuc.Table, error)
	lastReq  queryuc.Request
}

func (m *mockQuerier) Search(ctx context.Context, req queryuc.Request) (*queryuc.Table, error) {
	m.lastReq = req
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return queryuc.NewTable(nil), nil
}

// mockIndexer implements the indexer consumer interface for tests.
type mockIndexer struct {
	rebuildErr  error
	status      domain.IndexStatus
	describeErr error
	rebuilds    int
}

func (m *mockIndexer) Rebuild(_ context.Context) error {
	m.rebuilds++
	return m.rebuildErr
}

func (m *mockIndexer) Describe(_ context.Context) (domain.IndexStatus, error) {
	return m.status, m.describeErr
}

// mockAttacher implements the attacher consumer interface for tests.
type mockAttacher struct {
	result *attachuc.Result
	err    error
	calls  int
}

func (m *mockAttacher) Attach(_ context.Context) (*attachuc.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &attachuc.Result{}, nil
}

// mockChecker implements the checker consumer interface for tests.
type mockChecker struct {
	status *healthuc.Status
}

func (m *mockChecker) Check(_ context.Context) *healthuc.Status {
	if m.status != nil {
		return m.status
	}
	return &healthuc.Status{Healthy: true, Components: map[string]string{}}
}

type fixtures struct {
	query  *mockQuerier
	index  *mockIndexer
	attach *mockAttacher
	health *mockChecker
}

func newTestServer(t *testing.T) (*httptest.Server, *fixtures) {
	t.Helper()

	f := &fixtures{
		query:  &mockQuerier{},
		index:  &mockIndexer{},
		attach: &mockAttacher{},
		health: &mockChecker{},
	}

	s := NewServer(f.query, f.index, f.attach, f.health, 10, 100, zap.NewNop())
	r := chi.NewRouter()
	s.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, f
}
