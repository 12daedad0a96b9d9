// Package index is the repository for the vector index lifecycle.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/velosearch/velosearch/internal/db"
	"github.com/velosearch/velosearch/internal/domain"
)

// store is the consumer interface for index administration (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo implements the index storage contract of the index service.
type Repo struct {
	store  store
	name   string
	prefix string
}

// New creates an index repository for the named index bound to a key prefix.
func New(s store, name, prefix string) *Repo {
	return &Repo{store: s, name: name, prefix: prefix}
}

// indexMeta records the schema parameters the engine does not report back.
type indexMeta struct {
	Dimension int `json:"dimension"`
}

// Exists probes for the configured index.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.name)
	if err != nil {
		return false, fmt.Errorf("probe index %s: %w", r.name, err)
	}
	return ok, nil
}

// Create declares the schema over JSON documents under the prefix and
// records the declared vector dimension alongside. A concurrent-create
// loss surfaces as domain.ErrIndexExists for the caller to interpret.
func (r *Repo) Create(ctx context.Context, dim int) error {
	def := schema(r.name, r.prefix, dim)
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index schema: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return domain.ErrIndexExists
		}
		return fmt.Errorf("create index %s: %w", r.name, err)
	}

	meta, err := json.Marshal(indexMeta{Dimension: dim})
	if err != nil {
		return fmt.Errorf("marshal index meta: %w", err)
	}
	if err := r.store.Set(ctx, r.metaKey(), meta); err != nil {
		return fmt.Errorf("store index meta: %w", err)
	}
	return nil
}

// Drop removes the index and its metadata. Documents are kept.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.name); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.ErrIndexNotFound
		}
		return fmt.Errorf("drop index %s: %w", r.name, err)
	}
	if err := r.store.Del(ctx, r.metaKey()); err != nil {
		return fmt.Errorf("delete index meta: %w", err)
	}
	return nil
}

// DeclaredDimension returns the vector dimension the index was created
// with, or 0 when no metadata exists.
func (r *Repo) DeclaredDimension(ctx context.Context) (int, error) {
	raw, err := r.store.Get(ctx, r.metaKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read index meta: %w", err)
	}

	var meta indexMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return 0, fmt.Errorf("parse index meta: %w", err)
	}
	return meta.Dimension, nil
}

// Status returns the index health summary. The engine reports
// percent_indexed as a fraction in [0,1]; it is scaled to an integer
// percentage here.
func (r *Repo) Status(ctx context.Context) (domain.IndexStatus, error) {
	info, err := r.store.IndexInfo(ctx, r.name)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.IndexStatus{}, domain.ErrIndexNotFound
		}
		return domain.IndexStatus{}, fmt.Errorf("index info %s: %w", r.name, err)
	}

	return domain.IndexStatus{
		DocumentCount:    info.NumDocs,
		PercentIndexed:   int(math.Round(info.PercentIndexed * 100)),
		IndexingFailures: info.IndexingFailures,
		IndexingTimeMs:   info.IndexingTimeMs,
	}, nil
}

func (r *Repo) metaKey() string {
	return domain.SystemPrefix + "index:" + r.name + ":meta"
}

// schema declares the catalog index fields. The vector field is FLAT
// (exact search, the catalog is small) with cosine distance.
func schema(name, prefix string, dim int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        name,
		StorageType: db.StorageJSON,
		Prefixes:    []string{prefix},
		Fields: []db.IndexField{
			{Name: "$.model", Alias: "model", Type: db.IndexFieldText, NoStem: true},
			{Name: "$.brand", Alias: "brand", Type: db.IndexFieldText, NoStem: true},
			{Name: "$.price", Alias: "price", Type: db.IndexFieldNumeric},
			{Name: "$.type", Alias: "type", Type: db.IndexFieldTag},
			{Name: "$.description", Alias: "description", Type: db.IndexFieldText},
			{
				Name:           "$.description_embedding",
				Alias:          "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorFlat,
				VectorDim:      dim,
				VectorDistance: db.DistanceCosine,
			},
		},
	}
}
