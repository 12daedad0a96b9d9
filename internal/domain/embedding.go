package domain

import "context"

// Embedder is the text vectorization contract shared between layers.
// BatchEmbed is order- and length-preserving: result[i] is the vector for
// texts[i]. Dimension is stable for a given model configuration.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
