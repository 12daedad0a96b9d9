package ingest

import (
	"context"

	"github.com/velosearch/velosearch/internal/domain"
)

// loader fetches the raw catalog from its upstream source.
type loader interface {
	Fetch(ctx context.Context) ([]domain.Record, error)
}

// catalogRepo is the storage contract of the ingest service.
type catalogRepo interface {
	Existing(ctx context.Context, keys []string) ([]bool, error)
	WriteRecords(ctx context.Context, keys []string, records []domain.Record) (int, error)
}
