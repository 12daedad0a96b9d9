package domain

import "fmt"

// SystemPrefix namespaces internal bookkeeping keys (index metadata,
// embedding cache) so they never fall under an index's document prefix.
const SystemPrefix = "velosearch:"

// Record is one catalog item as stored in the document store. The
// embedding field is absent until attachment runs.
type Record struct {
	Model                string    `json:"model"`
	Brand                string    `json:"brand"`
	Price                float64   `json:"price"`
	Type                 string    `json:"type"`
	Description          string    `json:"description"`
	DescriptionEmbedding []float32 `json:"description_embedding,omitempty"`
}

// RecordKey derives the deterministic document key for the record at the
// given 1-based ingestion position. The zero-padded sequence keeps
// lexicographic key order equal to ingestion order.
func RecordKey(prefix string, pos int) string {
	return fmt.Sprintf("%s%03d", prefix, pos)
}

// IndexStatus is the index health summary surfaced to callers.
type IndexStatus struct {
	DocumentCount    int64
	PercentIndexed   int // integer percentage 0-100
	IndexingFailures int64
	IndexingTimeMs   float64
}

// String renders the one-line summary printed by the status command.
func (s IndexStatus) String() string {
	return fmt.Sprintf("%d documents (%d percent) indexed with %d failures in %.2f milliseconds",
		s.DocumentCount, s.PercentIndexed, s.IndexingFailures, s.IndexingTimeMs)
}
