package session

import (
	"context"

	"github.com/poiesic/groundit/core"
)

// TranscriptStore persists conversation turns.
// Implementations must be thread-safe and support concurrent access.
type TranscriptStore interface {
	// AddTurns appends one or more turns to the transcript.
	// Turns are validated, given content-based IDs, and stamped with the
	// current time when CreatedAt is unset. Returns the turns with IDs
	// and timestamps populated.
	AddTurns(ctx context.Context, turns ...*core.Turn) ([]*core.Turn, error)

	// RecentTurns retrieves up to limit turns in chronological order,
	// ending with the most recent.
	RecentTurns(ctx context.Context, limit int) ([]*core.Turn, error)

	// Close closes the store and releases resources.
	Close() error
}
