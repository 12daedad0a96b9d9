package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline and embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velosearch",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding batch requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "velosearch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding batch request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velosearch",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RecordsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velosearch",
			Name:      "records_ingested_total",
			Help:      "Catalog records written or skipped during ingestion",
		},
		[]string{"outcome"}, // "written" / "skipped" / "failed"
	)

	EmbeddingsAttachedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "velosearch",
			Name:      "embeddings_attached_total",
			Help:      "Embedding vectors attached to stored documents",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velosearch",
			Name:      "searches_total",
			Help:      "KNN searches executed",
		},
		[]string{"status"},
	)
)

var registered bool

// Register registers the pipeline metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(RecordsIngestedTotal)
	prometheus.MustRegister(EmbeddingsAttachedTotal)
	prometheus.MustRegister(SearchesTotal)
	registered = true
}
