package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/velosearch/velosearch/internal/db"
	"github.com/velosearch/velosearch/internal/domain"
)

// store is the slice of the database API the search repository consumes.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo runs vector similarity queries against a single index and maps raw
// search entries into domain hits.
type Repo struct {
	store store
	index string
}

func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

var returnFields = []string{db.ScoreField, "brand", "model", "description"}

// KNN returns the k nearest neighbours of vector, optionally narrowed by a
// filter expression with extra query params. The vector parameter name is
// reserved for the query blob itself.
func (r *Repo) KNN(ctx context.Context, vector []float32, k int, filter string, params map[string]string) ([]domain.Hit, error) {
	for name := range params {
		if name == db.VectorParam {
			return nil, fmt.Errorf("param %q: %w", name, domain.ErrReservedParam)
		}
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vector,
		K:            k,
		Filter:       filter,
		Params:       params,
		ReturnFields: returnFields,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, domain.ErrIndexNotFound
		}
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]domain.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		h := domain.Hit{
			Key:         e.Key,
			Brand:       e.Fields["brand"],
			Model:       e.Fields["model"],
			Description: e.Fields["description"],
		}
		if raw, ok := e.Fields[db.ScoreField]; ok {
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parse distance for %s: %w", e.Key, err)
			}
			h.Distance = d
		}
		hits = append(hits, h)
	}
	return hits, nil
}
