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


package llm

import "fmt"

// GenerationError wraps a transport or service failure from the
// foundation-model runtime. The cause is surfaced unmodified for the
// failure classifier.
type GenerationError struct {
	Cause error
}

// Error returns the formatted generation failure.
func (e *GenerationError) Error() string {
	return "model generation failed: " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// UnsupportedProviderError indicates a model id whose provider family has no
// registry entry. This is a configuration error, never retryable.
type UnsupportedProviderError struct {
	ModelID string
}

// Error returns the formatted provider mismatch.
func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported model provider: %q", e.ModelID)
}

// MalformedResponseError indicates a model response that carried no
// recognizable generated text. A provider/schema mismatch rather than a
// transient fault, never retryable.
type MalformedResponseError struct {
	ModelID string
}

// Error returns the formatted response mismatch.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from model %q: no generated text found", e.ModelID)
}
