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


package core

import (
	"fmt"
	"strings"
)

// ValidateQuery validates the user-supplied query and result count.
//
// Validation rules:
//   - query must contain at least one non-whitespace character
//   - topK must be greater than zero
func ValidateQuery(query string, topK int) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	if topK <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	return nil
}

// Validate checks that the connection context carries the locators the
// retrieval and generation path requires.
//
// NOT validated (only the out-of-core collaborators need them):
//   - ClusterARN, SecretARN, Database (diagnostics)
//   - Bucket, DataSourceID (ingestion)
func (c ConnectionContext) Validate() error {
	if c.KnowledgeBaseID == "" {
		return ErrMissingKnowledgeBase
	}
	if c.ModelID == "" {
		return ErrMissingModel
	}
	if c.Region == "" {
		return ErrMissingRegion
	}
	return nil
}

// Validate checks sampling parameters against the ranges the foundation-model
// runtimes accept.
func (s SamplingParams) Validate() error {
	if s.Temperature < 0 || s.Temperature > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidTemperature, s.Temperature)
	}
	if s.TopP < 0 || s.TopP > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidTopP, s.TopP)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxTokens, s.MaxTokens)
	}
	return nil
}

// ValidateTurn validates a transcript turn according to domain rules.
func ValidateTurn(turn *Turn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrEmptyTurnContent)
	}
	if turn.Content == "" {
		return ErrEmptyTurnContent
	}
	if turn.Role != RoleUser && turn.Role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, turn.Role)
	}
	return nil
}
