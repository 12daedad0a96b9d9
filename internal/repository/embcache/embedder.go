package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/db"
	"github.com/velosearch/velosearch/internal/domain"
	"github.com/velosearch/velosearch/internal/metrics"
)

const keyPrefix = domain.SystemPrefix + "emb_cache:"

// kv is the slice of the database API the cache consumes.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Embedder decorates another embedder with a key-value cache so repeated
// texts are only sent to the provider once. Cache entries are keyed by
// model and text so a model change never serves stale vectors.
type Embedder struct {
	next   domain.Embedder
	kv     kv
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

func New(next domain.Embedder, kv kv, model string, ttl time.Duration, logger *zap.Logger) *Embedder {
	return &Embedder{
		next:   next,
		kv:     kv,
		model:  model,
		ttl:    ttl,
		logger: logger.Named("embcache"),
	}
}

func (e *Embedder) Dimension() int {
	return e.next.Dimension()
}

// BatchEmbed resolves as many texts as possible from the cache and sends the
// misses to the wrapped embedder in a single call. Cache write failures are
// logged and ignored; the vectors are still returned.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		v, err := e.lookup(ctx, text)
		if err != nil {
			if !errors.Is(err, db.ErrKeyNotFound) {
				e.logger.Warn("cache lookup failed", zap.Error(err))
			}
			metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()
			missTexts = append(missTexts, text)
			missIdx = append(missIdx, i)
			continue
		}
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		vectors[i] = v
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := e.next.BatchEmbed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts: %w",
			len(fresh), len(missTexts), domain.ErrEmbeddingProvider)
	}

	for j, v := range fresh {
		vectors[missIdx[j]] = v
		if err := e.save(ctx, missTexts[j], v); err != nil {
			e.logger.Warn("cache write failed", zap.Error(err))
		}
	}

	return vectors, nil
}

func (e *Embedder) lookup(ctx context.Context, text string) ([]float32, error) {
	raw, err := e.kv.Get(ctx, e.cacheKey(text))
	if err != nil {
		return nil, err
	}
	var v []float32
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode cached vector: %w", err)
	}
	return v, nil
}

func (e *Embedder) save(ctx context.Context, text string, v []float32) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return e.kv.SetWithTTL(ctx, e.cacheKey(text), raw, e.ttl)
}

func (e *Embedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(e.model + "|" + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}
