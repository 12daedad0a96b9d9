// Package catalog is the document-store repository for catalog records.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/velosearch/velosearch/internal/db"
	"github.com/velosearch/velosearch/internal/domain"
)

const (
	rootPath        = "$"
	descriptionPath = "$.description"
	embeddingPath   = "$.description_embedding"
)

// store is the consumer interface for catalog documents (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	ExistsMulti(ctx context.Context, keys []string) ([]bool, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the catalog storage contracts of the ingest and attach services.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository bound to a document key prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Existing reports, positionally, which of the given keys already hold a document.
func (r *Repo) Existing(ctx context.Context, keys []string) ([]bool, error) {
	out, err := r.store.ExistsMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("check existing keys: %w", err)
	}
	return out, nil
}

// WriteRecords stores records under their keys in one pipelined batch.
// keys and records are positionally paired. A partial batch failure is
// returned as domain.PartialWriteError; committed keys stay committed.
func (r *Repo) WriteRecords(ctx context.Context, keys []string, records []domain.Record) (int, error) {
	if len(keys) != len(records) {
		return 0, fmt.Errorf("%d keys for %d records: %w", len(keys), len(records), domain.ErrAlignment)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	items := make([]db.JSONSetItem, len(keys))
	for i, key := range keys {
		data, err := json.Marshal(records[i])
		if err != nil {
			return 0, fmt.Errorf("marshal record %s: %w", key, err)
		}
		items[i] = db.JSONSetItem{Key: key, Path: rootPath, Data: data}
	}

	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return writtenCount(err, len(keys)), toPartialWriteError(err, len(keys))
	}
	return len(keys), nil
}

// SortedKeys lists every document key under the prefix in lexicographic
// order. With zero-padded sequence keys this equals ingestion order.
func (r *Repo) SortedKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Descriptions fetches the description field for exactly the given keys,
// in one pipelined read, positionally aligned with keys.
func (r *Repo) Descriptions(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	raws, err := r.store.JSONGetMulti(ctx, keys, descriptionPath)
	if err != nil {
		return nil, fmt.Errorf("read descriptions: %w", err)
	}

	out := make([]string, len(raws))
	for i, raw := range raws {
		text, err := unwrapJSONPathString(raw)
		if err != nil {
			return nil, fmt.Errorf("description of %s: %w", keys[i], err)
		}
		out[i] = text
	}
	return out, nil
}

// AttachEmbeddings writes each vector to its document's embedding field in
// one pipelined batch. keys and vectors are positionally paired.
// Re-running overwrites the field.
func (r *Repo) AttachEmbeddings(ctx context.Context, keys []string, vectors [][]float32) (int, error) {
	if len(keys) != len(vectors) {
		return 0, fmt.Errorf("%d keys for %d vectors: %w", len(keys), len(vectors), domain.ErrAlignment)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	items := make([]db.JSONSetItem, len(keys))
	for i, key := range keys {
		data, err := json.Marshal(vectors[i])
		if err != nil {
			return 0, fmt.Errorf("marshal embedding %s: %w", key, err)
		}
		items[i] = db.JSONSetItem{Key: key, Path: embeddingPath, Data: data}
	}

	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return writtenCount(err, len(keys)), toPartialWriteError(err, len(keys))
	}
	return len(keys), nil
}

// unwrapJSONPathString parses a JSONPath read result. JSON.GET with a $.x
// path wraps the value in a one-element array.
func unwrapJSONPathString(raw []byte) (string, error) {
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return "", fmt.Errorf("parse jsonpath result: %w", err)
	}
	if len(values) == 0 {
		return "", errors.New("field is absent")
	}
	return values[0], nil
}

// writtenCount returns the committed count implied by a batch error. A
// non-batch pipeline error leaves the outcome unknown, so nothing is
// counted as written.
func writtenCount(err error, attempted int) int {
	var batchErr *db.BatchError
	if errors.As(err, &batchErr) {
		return attempted - len(batchErr.Failed)
	}
	return 0
}

// toPartialWriteError converts the driver's batch error into the domain
// aggregate; any other error passes through wrapped.
func toPartialWriteError(err error, attempted int) error {
	var batchErr *db.BatchError
	if !errors.As(err, &batchErr) {
		return fmt.Errorf("pipelined write: %w", err)
	}

	failed := make([]domain.KeyError, len(batchErr.Failed))
	for i, f := range batchErr.Failed {
		failed[i] = domain.KeyError{Key: f.Key, Err: f.Err}
	}
	return &domain.PartialWriteError{
		Written: attempted - len(failed),
		Failed:  failed,
	}
}
