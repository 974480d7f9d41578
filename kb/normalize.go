package kb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/groundit/core"
)

// Field-name aliases the retrieval service is known to place passage text,
// scores, and source references under. The knowledge-base configuration
// decides which shape a deployment actually produces; the alias table is the
// variant table, with unrecognized shapes skipped rather than failed.
var (
	textAliases      = []string{"text", "documentText", "chunks", "preview"}
	scoreAliases     = []string{"score", "similarity", "relevanceScore"}
	sourceKeyAliases = []string{"documentId", "id"}

	// sourceURIMetadataKey is the metadata attribute the managed service
	// stamps source documents with.
	sourceURIMetadataKey = "x-amz-bedrock-kb-source-uri"
)

// Normalize transforms raw retrieval results into a uniform ordered sequence
// of passages.
//
// For each raw result the text content is extracted through the alias table;
// results yielding no text are skipped, since partial data is expected and
// tolerated. Passages whose trimmed text is identical are collapsed, keeping
// the highest-scoring occurrence (tie-break: first occurrence) — the service
// returns overlapping chunks when source documents are re-chunked. Scored
// passages are ordered by descending score with ties keeping their original
// relative order; score-less passages follow in service order.
//
// The result never contains a passage with empty text, and normalizing an
// already-normalized sequence changes nothing.
func Normalize(results []RawResult) []core.Passage {
	passages := make([]core.Passage, 0, len(results))
	byText := make(map[string]int, len(results))

	for _, raw := range results {
		text := strings.TrimSpace(extractText(raw))
		if text == "" {
			continue
		}

		passage := core.Passage{
			Text:          text,
			Score:         extractScore(raw),
			SourceLocator: extractSource(raw),
			Metadata:      extractMetadata(raw),
		}

		if at, seen := byText[text]; seen {
			if betterScored(passage, passages[at]) {
				passages[at] = passage
			}
			continue
		}
		byText[text] = len(passages)
		passages = append(passages, passage)
	}

	// Stable: ties and score-less passages keep service order.
	sort.SliceStable(passages, func(i, j int) bool {
		a, b := passages[i], passages[j]
		switch {
		case a.Scored() && b.Scored():
			return *a.Score > *b.Score
		case a.Scored():
			return true
		default:
			return false
		}
	})

	return passages
}

// betterScored reports whether candidate should replace incumbent when both
// carry the same trimmed text. Only a strictly higher score wins, so the
// first occurrence survives ties and score-less duplicates.
func betterScored(candidate, incumbent core.Passage) bool {
	if !candidate.Scored() {
		return false
	}
	if !incumbent.Scored() {
		return true
	}
	return *candidate.Score > *incumbent.Score
}

// extractText attempts the known text locations in priority order: nested
// content objects first, then flat keys, then the document sub-object.
func extractText(raw RawResult) string {
	for _, key := range []string{"content", "contents"} {
		switch content := raw[key].(type) {
		case map[string]any:
			if text := textFromObject(content); text != "" {
				return text
			}
		case []any:
			for _, item := range content {
				if obj, ok := item.(map[string]any); ok {
					if text := textFromObject(obj); text != "" {
						return text
					}
				}
			}
		case string:
			if content != "" {
				return content
			}
		}
	}

	for _, key := range textAliases {
		if text, ok := raw.stringAt(key); ok && text != "" {
			return text
		}
	}

	if doc, ok := raw.mapAt("document"); ok {
		if text, ok := doc["text"].(string); ok {
			return text
		}
	}
	return ""
}

func textFromObject(obj map[string]any) string {
	for _, key := range []string{"text", "documentText"} {
		if text, ok := obj[key].(string); ok && text != "" {
			return text
		}
	}
	return ""
}

// extractScore tries the score aliases and returns nil when none match or
// the value falls outside the valid [0,1] range.
func extractScore(raw RawResult) *float64 {
	for _, key := range scoreAliases {
		if score, ok := raw.numberAt(key); ok {
			if score < 0 || score > 1 {
				return nil
			}
			return core.ScoreOf(score)
		}
	}
	return nil
}

// extractSource locates the source document reference: the S3 location the
// managed service reports, the source-URI metadata attribute, or a plain
// document id.
func extractSource(raw RawResult) string {
	if location, ok := raw.mapAt("location"); ok {
		if s3loc, ok := location["s3Location"].(map[string]any); ok {
			if uri, ok := s3loc["uri"].(string); ok && uri != "" {
				return uri
			}
		}
	}

	if metadata, ok := raw.mapAt("metadata"); ok {
		if uri, ok := metadata[sourceURIMetadataKey].(string); ok && uri != "" {
			return uri
		}
	}

	for _, key := range sourceKeyAliases {
		if id, ok := raw.stringAt(key); ok && id != "" {
			return id
		}
	}
	if doc, ok := raw.mapAt("document"); ok {
		if id, ok := doc["id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// extractMetadata flattens the metadata object to scalar string values,
// checking the result itself then its document sub-object. Non-scalar
// attributes are dropped.
func extractMetadata(raw RawResult) map[string]string {
	obj, ok := raw.mapAt("metadata")
	if !ok {
		if doc, found := raw.mapAt("document"); found {
			obj, ok = doc["metadata"].(map[string]any)
		}
	}
	if !ok || len(obj) == 0 {
		return nil
	}

	metadata := make(map[string]string, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case string:
			metadata[key] = v
		case bool:
			metadata[key] = fmt.Sprintf("%t", v)
		case float64:
			metadata[key] = fmt.Sprintf("%g", v)
		case int, int64:
			metadata[key] = fmt.Sprintf("%d", v)
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}
