// Package admin holds destructive maintenance operations.
package admin

import (
	"context"

	"go.uber.org/zap"
)

// flusher destroys all stored documents and indexes.
type flusher interface {
	FlushAll(ctx context.Context) error
}

// Service wraps maintenance operations that should never run in normal
// request flow.
type Service struct {
	db     flusher
	logger *zap.Logger
}

func NewService(db flusher, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger.Named("admin")}
}

// Flush destroys every document, cache entry and index in the current
// database. After a flush the index must be recreated before searching.
func (s *Service) Flush(ctx context.Context) error {
	if err := s.db.FlushAll(ctx); err != nil {
		return err
	}
	s.logger.Warn("database flushed")
	return nil
}
