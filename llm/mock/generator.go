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
	"encoding/json"
	"fmt"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/llm"
)

// MockGenerator is a test double for llm.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, req *core.GenerationRequest) ([]byte, error)

	// Answer overrides the text embedded in the default response envelope.
	Answer string

	callCount int
	lastReq   *core.GenerationRequest
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a response envelope shaped for the request's provider
// family so the real extractor can parse it.
func (m *MockGenerator) Generate(ctx context.Context, req *core.GenerationRequest) ([]byte, error) {
	m.callCount++
	m.lastReq = req

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	answer := m.Answer
	if answer == "" {
		answer = fmt.Sprintf("Mock answer to %q. [1]", req.UserQuery)
	}

	adapter, err := llm.Resolve(req.ModelID)
	if err != nil {
		return nil, err
	}
	if adapter.Family() == llm.FamilyAnthropic {
		return json.Marshal(map[string]any{
			"content": []map[string]any{{"type": "text", "text": answer}},
		})
	}
	return json.Marshal(map[string]any{"output": answer})
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastRequest returns the most recent request passed to Generate.
func (m *MockGenerator) LastRequest() *core.GenerationRequest {
	return m.lastReq
}

// Reset clears call state and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastReq = nil
	m.GenerateFunc = nil
	m.Answer = ""
}
