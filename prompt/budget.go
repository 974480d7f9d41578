package prompt

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// defaultEncoding approximates token counts across the supported model
// families well enough for budget enforcement.
const defaultEncoding = "cl100k_base"

// TokenCounter estimates token counts for budget enforcement.
// When the BPE encoding cannot be loaded (offline environments), it falls
// back to a bytes/4 heuristic — budgets are estimates, not hard schema.
type TokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTokenCounter creates a counter for the given encoding name, defaulting
// to cl100k_base. Encoding load failures degrade to the heuristic rather
// than failing construction.
func NewTokenCounter(encoding string) *TokenCounter {
	if encoding == "" {
		encoding = defaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		slog.Default().Debug("token encoding unavailable, using heuristic estimate",
			"encoding", encoding, "err", err)
		return &TokenCounter{}
	}
	return &TokenCounter{tke: tke}
}

// Count estimates the number of tokens in text.
func (c *TokenCounter) Count(text string) int {
	if c.tke != nil {
		return len(c.tke.Encode(text, nil, nil))
	}
	// Rough BPE average for English prose.
	return (len(text) + 3) / 4
}
