package kb

import "context"

// Retriever issues semantic-search requests against a knowledge base.
// Implementations must be thread-safe for concurrent use; every call is a
// fresh remote query since the underlying data may change between calls.
type Retriever interface {
	// Retrieve runs one semantic-search request for the query and returns
	// up to topK raw, provider-shaped results. It performs exactly one
	// network call, never caches, and never retries internally; retry
	// policy belongs to the caller. Transport and service failures are
	// returned as *RetrievalError.
	Retrieve(ctx context.Context, query string, topK int) ([]RawResult, error)
}
