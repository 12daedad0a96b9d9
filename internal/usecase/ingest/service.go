// Package ingest loads the product catalog into the document store.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
	"github.com/velosearch/velosearch/internal/metrics"
)

// Result summarizes one ingestion run.
type Result struct {
	Total   int
	Written int
	Skipped int
}

// Service ingests catalog records idempotently: each record gets a
// deterministic sequence key and records whose key already holds a
// document are skipped, never overwritten.
type Service struct {
	loader  loader
	catalog catalogRepo
	prefix  string
	logger  *zap.Logger
}

func NewService(l loader, c catalogRepo, prefix string, logger *zap.Logger) *Service {
	return &Service{
		loader:  l,
		catalog: c,
		prefix:  prefix,
		logger:  logger.Named("ingest"),
	}
}

// Ingest fetches the catalog and writes every record not yet stored.
// Keys are assigned from the record's 1-based position in the source, so
// re-running against the same source is a no-op.
func (s *Service) Ingest(ctx context.Context) (*Result, error) {
	records, err := s.loader.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if len(records) == 0 {
		s.logger.Warn("catalog source returned no records")
		return &Result{}, nil
	}

	keys := make([]string, len(records))
	for i := range records {
		keys[i] = domain.RecordKey(s.prefix, i+1)
	}

	existing, err := s.catalog.Existing(ctx, keys)
	if err != nil {
		return nil, err
	}

	var newKeys []string
	var newRecords []domain.Record
	for i, ok := range existing {
		if ok {
			continue
		}
		newKeys = append(newKeys, keys[i])
		newRecords = append(newRecords, records[i])
	}

	res := &Result{
		Total:   len(records),
		Skipped: len(records) - len(newKeys),
	}
	metrics.RecordsIngestedTotal.WithLabelValues("skipped").Add(float64(res.Skipped))

	if len(newKeys) == 0 {
		s.logger.Info("catalog already ingested", zap.Int("total", res.Total))
		return res, nil
	}

	written, err := s.catalog.WriteRecords(ctx, newKeys, newRecords)
	res.Written = written
	metrics.RecordsIngestedTotal.WithLabelValues("written").Add(float64(written))
	if err != nil {
		var partial *domain.PartialWriteError
		if errors.As(err, &partial) {
			metrics.RecordsIngestedTotal.WithLabelValues("failed").Add(float64(len(partial.Failed)))
			s.logger.Error("catalog partially ingested",
				zap.Int("written", partial.Written),
				zap.Int("failed", len(partial.Failed)))
		}
		return res, err
	}

	s.logger.Info("catalog ingested",
		zap.Int("total", res.Total),
		zap.Int("written", res.Written),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
