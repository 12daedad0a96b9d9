package attach

import "context"

// catalogRepo is the document-store contract of the attach service.
type catalogRepo interface {
	SortedKeys(ctx context.Context) ([]string, error)
	Descriptions(ctx context.Context, keys []string) ([]string, error)
	AttachEmbeddings(ctx context.Context, keys []string, vectors [][]float32) (int, error)
}

// indexRepo exposes the vector dimension the index was declared with.
type indexRepo interface {
	DeclaredDimension(ctx context.Context) (int, error)
}

// embedder produces one vector per input text, positionally aligned.
type embedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}
