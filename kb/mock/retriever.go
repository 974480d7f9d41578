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


package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/groundit/kb"
)

// MockRetriever is a test double for kb.Retriever.
// It allows custom behavior injection via function fields.
type MockRetriever struct {
	// RetrieveFunc is called by Retrieve if set.
	// If nil, uses default deterministic behavior.
	RetrieveFunc func(ctx context.Context, query string, topK int) ([]kb.RawResult, error)

	callCount int
}

// NewMockRetriever creates a mock retriever with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockRetriever() *MockRetriever {
	return &MockRetriever{}
}

// Retrieve returns topK deterministic results shaped like the managed
// service's wire format.
func (m *MockRetriever) Retrieve(ctx context.Context, query string, topK int) ([]kb.RawResult, error) {
	m.callCount++

	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query, topK)
	}

	results := make([]kb.RawResult, 0, topK)
	for i := 0; i < topK; i++ {
		results = append(results, kb.RawResult{
			"content": map[string]any{
				"text": fmt.Sprintf("Passage %d about %q.", i+1, query),
			},
			"score": 0.9 - float64(i)*0.1,
			"location": map[string]any{
				"s3Location": map[string]any{
					"uri": fmt.Sprintf("s3://mock-bucket/doc-%d.txt", i+1),
				},
			},
		})
	}
	return results, nil
}

// CallCount returns the number of times Retrieve was called.
func (m *MockRetriever) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRetriever) Reset() {
	m.callCount = 0
	m.RetrieveFunc = nil
}
