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

import "errors"

// Domain validation errors
var (
	// ErrEmptyQuery indicates the user query is empty or whitespace.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidTopK indicates a non-positive result count was requested.
	ErrInvalidTopK = errors.New("topK must be greater than zero")

	// ErrMissingKnowledgeBase indicates the connection context has no knowledge-base id.
	ErrMissingKnowledgeBase = errors.New("knowledge base id is required")

	// ErrMissingModel indicates the connection context has no model id.
	ErrMissingModel = errors.New("model id is required")

	// ErrMissingRegion indicates the connection context has no region.
	ErrMissingRegion = errors.New("region is required")

	// ErrInvalidTemperature indicates a temperature outside [0,1].
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 1")

	// ErrInvalidTopP indicates a topP outside [0,1].
	ErrInvalidTopP = errors.New("topP must be between 0 and 1")

	// ErrInvalidMaxTokens indicates a non-positive max token count.
	ErrInvalidMaxTokens = errors.New("maxTokens must be greater than zero")

	// ErrEmptyTurnContent indicates a transcript turn with no content.
	ErrEmptyTurnContent = errors.New("turn content cannot be empty")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")
)
