package index

import (
	"context"
	"errors"
	"testing"

	"github.com/velosearch/velosearch/internal/domain"
)

func TestEnsure_CreatesMissingIndex(t *testing.T) {
	repo := &mockIndexRepo{exists: false}
	svc := newTestService(t, repo, 1536)

	outcome, err := svc.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Created {
		t.Fatalf("expected Created, got %s", outcome)
	}
	if repo.creates != 1 || repo.createdDim != 1536 {
		t.Fatalf("expected one create with dim 1536, got %d creates, dim %d", repo.creates, repo.createdDim)
	}
}

func TestEnsure_ExistingMatchingIndex(t *testing.T) {
	repo := &mockIndexRepo{exists: true, declared: 1536}
	svc := newTestService(t, repo, 1536)

	outcome, err := svc.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %s", outcome)
	}
	if repo.creates != 0 || repo.drops != 0 {
		t.Fatal("a matching index must be left alone")
	}
}

func TestEnsure_SecondCallIsStable(t *testing.T) {
	repo := &mockIndexRepo{exists: false}
	svc := newTestService(t, repo, 1536)

	if _, err := svc.Ensure(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.exists = true
	repo.declared = 1536
	outcome, err := svc.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != AlreadyExists {
		t.Fatalf("second Ensure must report AlreadyExists, got %s", outcome)
	}
}

func TestEnsure_RebuildsOnStaleDimension(t *testing.T) {
	repo := &mockIndexRepo{exists: true, declared: 768}
	svc := newTestService(t, repo, 1536)

	outcome, err := svc.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Rebuilt {
		t.Fatalf("expected Rebuilt, got %s", outcome)
	}
	if repo.drops != 1 || repo.creates != 1 || repo.createdDim != 1536 {
		t.Fatalf("expected drop + create with dim 1536, got drops=%d creates=%d dim=%d",
			repo.drops, repo.creates, repo.createdDim)
	}
}

func TestEnsure_UnknownDimensionIsTrusted(t *testing.T) {
	repo := &mockIndexRepo{exists: true, declared: 0}
	svc := newTestService(t, repo, 1536)

	outcome, err := svc.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %s", outcome)
	}
	if repo.drops != 0 {
		t.Fatal("an index without recorded dimension must not be rebuilt")
	}
}

func TestEnsure_RaceLoserIsAlreadyExists(t *testing.T) {
	repo := &mockIndexRepo{
		exists: false,
		createFn: func(_ context.Context, _ int) error {
			return domain.ErrIndexExists
		},
	}
	svc := newTestService(t, repo, 1536)

	outcome, err := svc.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != AlreadyExists {
		t.Fatalf("expected AlreadyExists for the race loser, got %s", outcome)
	}
}

func TestRebuild_ToleratesMissingIndex(t *testing.T) {
	repo := &mockIndexRepo{
		dropFn: func(_ context.Context) error { return domain.ErrIndexNotFound },
	}
	svc := newTestService(t, repo, 1536)

	if err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected create after tolerated drop, got %d", repo.creates)
	}
}

func TestDescribe_PropagatesNotFound(t *testing.T) {
	repo := &mockIndexRepo{statusErr: domain.ErrIndexNotFound}
	svc := newTestService(t, repo, 1536)

	_, err := svc.Describe(context.Background())
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestDescribe_ReturnsStatus(t *testing.T) {
	repo := &mockIndexRepo{status: domain.IndexStatus{
		DocumentCount:  11,
		PercentIndexed: 100,
	}}
	svc := newTestService(t, repo, 1536)

	st, err := svc.Describe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.DocumentCount != 11 || st.PercentIndexed != 100 {
		t.Fatalf("unexpected status: %+v", st)
	}
}
