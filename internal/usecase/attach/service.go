// Package attach embeds catalog descriptions and stores the vectors on
// their documents.
package attach

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
	"github.com/velosearch/velosearch/internal/metrics"
)

// Result summarizes one attach run.
type Result struct {
	Documents int
	Attached  int
}

// Service computes embeddings for every stored description and attaches
// them positionally. Re-running overwrites existing vectors, so it also
// serves as a refresh after a model change.
type Service struct {
	catalog  catalogRepo
	index    indexRepo
	embedder embedder
	logger   *zap.Logger
}

func NewService(c catalogRepo, i indexRepo, e embedder, logger *zap.Logger) *Service {
	return &Service{
		catalog:  c,
		index:    i,
		embedder: e,
		logger:   logger.Named("attach"),
	}
}

// Attach embeds all stored descriptions in one provider call and writes
// the vectors back. The provider's dimension must match the index's
// declared dimension; a mismatch is fatal until the index is rebuilt.
func (s *Service) Attach(ctx context.Context) (*Result, error) {
	keys, err := s.catalog.SortedKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		s.logger.Warn("no documents to embed")
		return &Result{}, nil
	}

	declared, err := s.index.DeclaredDimension(ctx)
	if err != nil {
		return nil, err
	}
	if declared > 0 && declared != s.embedder.Dimension() {
		return nil, fmt.Errorf("index declares dimension %d, provider produces %d: %w",
			declared, s.embedder.Dimension(), domain.ErrSchemaMismatch)
	}

	texts, err := s.catalog.Descriptions(ctx, keys)
	if err != nil {
		return nil, err
	}

	vectors, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(keys) {
		return nil, fmt.Errorf("%d vectors for %d keys: %w",
			len(vectors), len(keys), domain.ErrAlignment)
	}

	attached, err := s.catalog.AttachEmbeddings(ctx, keys, vectors)
	metrics.EmbeddingsAttachedTotal.Add(float64(attached))
	if err != nil {
		return &Result{Documents: len(keys), Attached: attached}, err
	}

	s.logger.Info("embeddings attached",
		zap.Int("documents", len(keys)),
		zap.Int("dimension", s.embedder.Dimension()))
	return &Result{Documents: len(keys), Attached: attached}, nil
}
