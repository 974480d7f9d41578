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

import "errors"

var (
	// ErrNoResultsPayload indicates a retrieval response carried no
	// recognizable result sequence under any known key.
	ErrNoResultsPayload = errors.New("no result sequence found in retrieval response")
)

// RetrievalError wraps a transport or service failure from the retrieval
// endpoint. The cause is surfaced unmodified for the failure classifier.
type RetrievalError struct {
	Cause error
}

// Error returns the formatted retrieval failure.
func (e *RetrievalError) Error() string {
	return "knowledge base retrieval failed: " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *RetrievalError) Unwrap() error {
	return e.Cause
}
