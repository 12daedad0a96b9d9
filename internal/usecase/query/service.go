// Package query runs semantic searches and shapes the results into
// ranked tables.
package query

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
	"github.com/velosearch/velosearch/internal/metrics"
)

// Request is one search invocation over one or more query texts.
type Request struct {
	Queries []string
	TopK    int
	Filter  string
	Params  map[string]string
}

// Service embeds query texts and runs k-NN searches over the catalog.
type Service struct {
	embedder embedder
	searcher searcher
	defaultK int
	logger   *zap.Logger
}

func NewService(e embedder, s searcher, defaultK int, logger *zap.Logger) *Service {
	return &Service{
		embedder: e,
		searcher: s,
		defaultK: defaultK,
		logger:   logger.Named("query"),
	}
}

// Search embeds every distinct query text in one provider call, runs one
// k-NN search per text, and assembles the ranked result table. Duplicate
// query texts collapse onto their first occurrence; group order follows
// the input.
func (s *Service) Search(ctx context.Context, req Request) (*Table, error) {
	queries := distinctQueries(req.Queries)
	if len(queries) == 0 {
		return nil, fmt.Errorf("at least one non-empty query is required: %w", domain.ErrInvalidArgument)
	}

	k := req.TopK
	if k == 0 {
		k = s.defaultK
	}
	if k < 0 {
		return nil, fmt.Errorf("top_k must be positive: %w", domain.ErrInvalidArgument)
	}

	vectors, err := s.embedder.BatchEmbed(ctx, queries)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(vectors) != len(queries) {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%d vectors for %d queries: %w",
			len(vectors), len(queries), domain.ErrAlignment)
	}

	var rows []Row
	for i, q := range queries {
		hits, err := s.searcher.KNN(ctx, vectors[i], k, req.Filter, req.Params)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("query %q: %w", q, err)
		}
		rows = append(rows, groupRows(q, hits)...)
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	s.logger.Debug("search complete",
		zap.Int("queries", len(queries)),
		zap.Int("rows", len(rows)))
	return NewTable(rows), nil
}

// groupRows converts one query's hits into table rows. Hits arrive in
// ascending distance order, so scores are already descending; duplicate
// document ids within the group keep only their best hit.
func groupRows(query string, hits []domain.Hit) []Row {
	rows := make([]Row, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.Key]; ok {
			continue
		}
		seen[h.Key] = struct{}{}
		rows = append(rows, Row{
			Query:       query,
			Score:       similarity(h.Distance),
			ID:          h.Key,
			Brand:       h.Brand,
			Model:       h.Model,
			Description: h.Description,
		})
	}
	return rows
}

// similarity converts a cosine distance into a score rounded to two
// decimals, floored at zero.
func similarity(distance float64) float64 {
	score := 1 - distance
	if score < 0 {
		return 0
	}
	return math.Round(score*100) / 100
}

// distinctQueries drops blank texts and collapses duplicates onto their
// first occurrence, preserving input order.
func distinctQueries(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, q := range in {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
