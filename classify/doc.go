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


// Package classify maps failures from the managed retrieval and generation
// services to actionable categories.
//
// Classification is an explicit, optional step a caller invokes to decide
// on retry: the pipeline itself never retries. Known signals — service
// error codes, HTTP status, timeouts, connection failures — map to
// {Permission, Throttled, NotFound, MalformedInput, Transient}; anything
// unrecognized maps to Unknown and is conservatively treated as retryable.
// Schema mismatches (unsupported provider, malformed response) are never
// retryable regardless of that default.
package classify
