package bedrock

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/poiesic/groundit/kb"
)

// rawResults converts the typed SDK output into the wire-shaped untrusted
// form the normalizer consumes. The conversion deliberately reproduces the
// service's JSON layout (content.text, score, location.s3Location.uri,
// metadata) so results from other sources — raw diagnostic dumps, recorded
// responses — normalize identically.
func rawResults(out *bedrockagentruntime.RetrieveOutput) []kb.RawResult {
	results := make([]kb.RawResult, 0, len(out.RetrievalResults))
	for _, r := range out.RetrievalResults {
		raw := kb.RawResult{}

		if r.Content != nil && r.Content.Text != nil {
			raw["content"] = map[string]any{"text": *r.Content.Text}
		}
		if r.Score != nil {
			raw["score"] = *r.Score
		}
		if r.Location != nil && r.Location.S3Location != nil && r.Location.S3Location.Uri != nil {
			raw["location"] = map[string]any{
				"s3Location": map[string]any{"uri": *r.Location.S3Location.Uri},
			}
		}
		if metadata := documentMap(r.Metadata); len(metadata) > 0 {
			raw["metadata"] = metadata
		}

		results = append(results, raw)
	}
	return results
}

// documentMap decodes smithy document values into plain JSON-shaped values.
// Attributes that fail to decode are dropped rather than failed: metadata is
// optional, untrusted input.
func documentMap[D interface {
	MarshalSmithyDocument() ([]byte, error)
}](in map[string]D) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, doc := range in {
		body, err := doc.MarshalSmithyDocument()
		if err != nil {
			continue
		}
		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			continue
		}
		out[key] = value
	}
	return out
}
