package domain

import (
	"errors"
	"strings"
)

// Sentinel errors surfaced by the core services.
var (
	// ErrIndexNotFound: no index with the configured name exists.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexExists: an index with the configured name already exists,
	// usually because a concurrent create won the race.
	ErrIndexExists = errors.New("index already exists")

	// ErrSchemaMismatch: the index's declared vector dimension differs
	// from the embedding provider's. Fatal until the index is rebuilt.
	ErrSchemaMismatch = errors.New("index vector dimension does not match embedding dimension")

	// ErrAlignment: the sorted key list and the embedding list differ in
	// length, so a positional zip would mis-assign vectors.
	ErrAlignment = errors.New("key and embedding counts do not match")

	// ErrReservedParam: a caller-supplied filter parameter collides with
	// the reserved query-vector parameter.
	ErrReservedParam = errors.New("filter parameter name is reserved")

	// ErrInvalidArgument: top_k, page or per_page out of valid range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmbeddingProvider: the embedding provider call failed.
	ErrEmbeddingProvider = errors.New("embedding provider error")
)

// KeyError is one failed key inside a partially committed batch.
type KeyError struct {
	Key string
	Err error
}

// PartialWriteError reports a pipelined batch where some keys failed.
// Written counts the keys that were committed; there is no rollback.
type PartialWriteError struct {
	Written int
	Failed  []KeyError
}

func (e *PartialWriteError) Error() string {
	keys := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		keys[i] = f.Key
	}
	return "partial batch failure, failed keys: " + strings.Join(keys, ", ")
}

// Unwrap exposes the first underlying error for errors.Is/As chains.
func (e *PartialWriteError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}
	return e.Failed[0].Err
}
