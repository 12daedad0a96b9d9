package query

import (
	"context"

	"github.com/velosearch/velosearch/internal/domain"
)

// embedder produces one vector per input text, positionally aligned.
type embedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// searcher is the vector-search contract of the query service.
type searcher interface {
	KNN(ctx context.Context, vector []float32, k int, filter string, params map[string]string) ([]domain.Hit, error)
}
