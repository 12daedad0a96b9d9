package query

import (
	"context"
	"errors"
	"testing"

	"github.com/velosearch/velosearch/internal/domain"
)

func TestSearch_ScoresFromDistances(t *testing.T) {
	svc, _, ms := newTestService(t)
	ms.knnFn = func(_ context.Context, _ []float32, _ int, _ string, _ map[string]string) ([]domain.Hit, error) {
		return []domain.Hit{
			{Key: "bikes:001", Distance: 0.084},
			{Key: "bikes:002", Distance: 0.25},
			{Key: "bikes:003", Distance: 1.7},
		}, nil
	}

	table, err := svc.Search(context.Background(), Request{Queries: []string{"road bike"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := table.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Score != 0.92 {
		t.Errorf("expected score 0.92, got %v", rows[0].Score)
	}
	if rows[1].Score != 0.75 {
		t.Errorf("expected score 0.75, got %v", rows[1].Score)
	}
	if rows[2].Score != 0 {
		t.Errorf("negative similarity must clamp to 0, got %v", rows[2].Score)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Score > rows[i-1].Score {
			t.Fatalf("scores must be descending within a group: %v", rows)
		}
	}
}

func TestSearch_GroupsFollowInputOrder(t *testing.T) {
	svc, _, ms := newTestService(t)
	ms.knnFn = func(_ context.Context, _ []float32, _ int, _ string, _ map[string]string) ([]domain.Hit, error) {
		return []domain.Hit{{Key: "bikes:001", Distance: 0.1}}, nil
	}

	table, err := svc.Search(context.Background(), Request{
		Queries: []string{"zebra bike", "apple bike"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := table.Rows()
	if rows[0].Query != "zebra bike" || rows[1].Query != "apple bike" {
		t.Fatalf("group order must follow input order, got %+v", rows)
	}
}

func TestSearch_CollapsesDuplicateQueries(t *testing.T) {
	svc, me, ms := newTestService(t)

	_, err := svc.Search(context.Background(), Request{
		Queries: []string{"road bike", "road bike", "  road bike  ", "kids bike"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(me.lastTexts) != 2 {
		t.Fatalf("duplicates must be embedded once, got texts %v", me.lastTexts)
	}
	if ms.calls != 2 {
		t.Fatalf("duplicates must be searched once, got %d calls", ms.calls)
	}
}

func TestSearch_DeduplicatesHitsWithinGroup(t *testing.T) {
	svc, _, ms := newTestService(t)
	ms.knnFn = func(_ context.Context, _ []float32, _ int, _ string, _ map[string]string) ([]domain.Hit, error) {
		return []domain.Hit{
			{Key: "bikes:001", Distance: 0.1},
			{Key: "bikes:001", Distance: 0.5},
			{Key: "bikes:002", Distance: 0.3},
		}, nil
	}

	table, err := svc.Search(context.Background(), Request{Queries: []string{"q"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected duplicate ids to collapse, got %d rows", len(rows))
	}
	if rows[0].ID != "bikes:001" || rows[0].Score != 0.9 {
		t.Fatalf("the best hit must win for a duplicated id, got %+v", rows[0])
	}
}

func TestSearch_RejectsEmptyQueries(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, queries := range [][]string{nil, {}, {""}, {"  "}} {
		_, err := svc.Search(context.Background(), Request{Queries: queries})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("queries %v: expected ErrInvalidArgument, got %v", queries, err)
		}
	}
}

func TestSearch_RejectsNegativeTopK(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Search(context.Background(), Request{Queries: []string{"q"}, TopK: -1})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSearch_DefaultsTopK(t *testing.T) {
	svc, _, ms := newTestService(t)

	if _, err := svc.Search(context.Background(), Request{Queries: []string{"q"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.lastK != 3 {
		t.Fatalf("expected configured default k=3, got %d", ms.lastK)
	}

	if _, err := svc.Search(context.Background(), Request{Queries: []string{"q"}, TopK: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.lastK != 7 {
		t.Fatalf("expected explicit k=7, got %d", ms.lastK)
	}
}

func TestSearch_EmbedderErrorPropagates(t *testing.T) {
	svc, me, _ := newTestService(t)
	me.batchFn = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, domain.ErrEmbeddingProvider
	}

	_, err := svc.Search(context.Background(), Request{Queries: []string{"q"}})
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
}

func TestSearch_VectorCountMismatch(t *testing.T) {
	svc, me, _ := newTestService(t)
	me.batchFn = func(_ context.Context, texts []string) ([][]float32, error) {
		return make([][]float32, len(texts)+1), nil
	}

	_, err := svc.Search(context.Background(), Request{Queries: []string{"q"}})
	if !errors.Is(err, domain.ErrAlignment) {
		t.Fatalf("expected ErrAlignment, got %v", err)
	}
}

func TestSearch_SearcherErrorNamesQuery(t *testing.T) {
	svc, _, ms := newTestService(t)
	ms.knnFn = func(_ context.Context, _ []float32, _ int, _ string, _ map[string]string) ([]domain.Hit, error) {
		return nil, domain.ErrIndexNotFound
	}

	_, err := svc.Search(context.Background(), Request{Queries: []string{"road bike"}})
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1},
		{0.5, 0.5},
		{0.084, 0.92},
		{0.999, 0},
		{1, 0},
		{1.5, 0},
		{2, 0},
	}
	for _, tc := range tests {
		if got := similarity(tc.distance); got != tc.want {
			t.Errorf("similarity(%v) = %v, want %v", tc.distance, got, tc.want)
		}
	}
}
