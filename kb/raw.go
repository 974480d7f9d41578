// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package kb

import "encoding/json"

// RawResult is one provider-shaped retrieval result. It is opaque, untrusted
// input: no invariants are imposed until Normalize runs. The diagnostics
// collaborator inspects these values as-is.
type RawResult map[string]any

// Keys a retrieval response may nest its result sequence under. Different
// knowledge-base configurations and service versions disagree here.
var resultSequenceKeys = []string{"retrievalResults", "results", "items", "hits"}

// RawResultsFromJSON decodes a raw retrieval response body into a result
// sequence. The sequence is looked up under each known key in turn, one
// level of nesting deep. A top-level JSON array is accepted directly.
// Returns ErrNoResultsPayload when nothing list-shaped is found.
func RawResultsFromJSON(body []byte) ([]RawResult, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	switch v := decoded.(type) {
	case []any:
		return coerceResults(v), nil
	case map[string]any:
		if list, ok := findResultList(v); ok {
			return coerceResults(list), nil
		}
	}
	return nil, ErrNoResultsPayload
}

// findResultList locates the result list under the known sequence keys,
// descending one extra level for shapes like {"results": {"items": [...]}}.
func findResultList(envelope map[string]any) ([]any, bool) {
	for _, key := range resultSequenceKeys {
		switch nested := envelope[key].(type) {
		case []any:
			return nested, true
		case map[string]any:
			for _, inner := range resultSequenceKeys {
				if list, ok := nested[inner].([]any); ok {
					return list, true
				}
			}
		}
	}
	return nil, false
}

func coerceResults(list []any) []RawResult {
	results := make([]RawResult, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			results = append(results, RawResult(m))
			continue
		}
		// Non-object entries keep their stringable content so the text
		// alias scan can still consider them.
		if s, ok := item.(string); ok {
			results = append(results, RawResult{"text": s})
		}
	}
	return results
}

// stringAt returns the string value at key, if present and a string.
func (r RawResult) stringAt(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// mapAt returns the object value at key, if present and an object.
func (r RawResult) mapAt(key string) (map[string]any, bool) {
	m, ok := r[key].(map[string]any)
	return m, ok
}

// numberAt returns the numeric value at key. JSON decoding yields float64;
// results built programmatically may carry ints.
func (r RawResult) numberAt(key string) (float64, bool) {
	switch n := r[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
