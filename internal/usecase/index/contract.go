package index

import (
	"context"

	"github.com/velosearch/velosearch/internal/domain"
)

// indexRepo is the storage contract of the index service.
type indexRepo interface {
	Exists(ctx context.Context) (bool, error)
	Create(ctx context.Context, dim int) error
	Drop(ctx context.Context) error
	DeclaredDimension(ctx context.Context) (int, error)
	Status(ctx context.Context) (domain.IndexStatus, error)
}

// embedder only contributes the target vector dimension here.
type embedder interface {
	Dimension() int
}
