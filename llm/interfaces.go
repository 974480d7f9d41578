package llm

import (
	"context"

	"github.com/poiesic/groundit/core"
)

// Generator invokes a foundation-model runtime with an assembled generation
// request and returns the raw provider response body.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate performs exactly one model invocation and returns the raw
	// response envelope for the response extractor. It never retries
	// internally; retry policy belongs to the caller. Transport and
	// service failures are returned as *GenerationError.
	Generate(ctx context.Context, req *core.GenerationRequest) ([]byte, error)
}
