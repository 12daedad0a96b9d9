package db

// VectorParam is the reserved PARAMS name carrying the query vector bytes
// in a KNN search. Caller-supplied params must not use it.
const VectorParam = "query_vector"

// ScoreField is the alias under which the raw cosine distance is returned.
const ScoreField = "vector_score"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Filter       string            // optional pre-filter clause; "*" when empty
	Params       map[string]string // extra PARAMS; VectorParam is reserved
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Fields holds the returned scalar
// fields including ScoreField (raw distance), left unparsed for the caller.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
