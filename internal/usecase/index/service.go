// Package index manages the vector index lifecycle.
package index

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
)

// Outcome reports what Ensure did to reach a usable index.
type Outcome string

const (
	// Created: no index existed, one was created.
	Created Outcome = "created"
	// AlreadyExists: a compatible index was already in place.
	AlreadyExists Outcome = "already_exists"
	// Rebuilt: an index existed with a stale vector dimension and was
	// dropped and recreated.
	Rebuilt Outcome = "rebuilt"
)

// Service converges the vector index onto the embedding provider's
// dimension.
type Service struct {
	repo     indexRepo
	embedder embedder
	logger   *zap.Logger
}

func NewService(r indexRepo, e embedder, logger *zap.Logger) *Service {
	return &Service{repo: r, embedder: e, logger: logger.Named("index")}
}

// Ensure makes the index exist with the provider's current dimension.
// An existing index with a different declared dimension is rebuilt; one
// with no recorded dimension is trusted as-is. Losing a concurrent
// create race counts as AlreadyExists.
func (s *Service) Ensure(ctx context.Context) (Outcome, error) {
	dim := s.embedder.Dimension()

	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return "", err
	}

	if exists {
		declared, err := s.repo.DeclaredDimension(ctx)
		if err != nil {
			return "", err
		}
		if declared == 0 || declared == dim {
			return AlreadyExists, nil
		}

		s.logger.Warn("index dimension is stale, rebuilding",
			zap.Int("declared", declared),
			zap.Int("target", dim))
		if err := s.Rebuild(ctx); err != nil {
			return "", err
		}
		return Rebuilt, nil
	}

	if err := s.repo.Create(ctx, dim); err != nil {
		if errors.Is(err, domain.ErrIndexExists) {
			return AlreadyExists, nil
		}
		return "", err
	}

	s.logger.Info("index created", zap.Int("dimension", dim))
	return Created, nil
}

// Rebuild drops the index if present and recreates it with the
// provider's current dimension. Stored documents are reindexed by the
// engine in the background.
func (s *Service) Rebuild(ctx context.Context) error {
	if err := s.repo.Drop(ctx); err != nil && !errors.Is(err, domain.ErrIndexNotFound) {
		return err
	}
	if err := s.repo.Create(ctx, s.embedder.Dimension()); err != nil {
		return err
	}
	s.logger.Info("index rebuilt", zap.Int("dimension", s.embedder.Dimension()))
	return nil
}

// Describe returns the index health summary.
func (s *Service) Describe(ctx context.Context) (domain.IndexStatus, error) {
	return s.repo.Status(ctx)
}
