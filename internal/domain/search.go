package domain

// Hit is a single k-NN match with its raw cosine distance and the stored
// scalar fields requested by the query engine.
type Hit struct {
	Key         string
	Brand       string
	Model       string
	Description string
	Distance    float64
}
