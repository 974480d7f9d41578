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


// Package kb provides knowledge-base retrieval and result normalization.
//
// The package defines the Retriever abstraction over a managed semantic
// retrieval service and the Normalize transformation that turns the
// service's provider-shaped results into a uniform ordered sequence of
// scored passages.
//
// Retrieval results are treated as untrusted input: the service may nest
// passage text under different keys depending on knowledge-base
// configuration, omit scores, or attach optional metadata. Normalize works
// from an explicit alias table rather than a fixed schema, skips results it
// cannot extract text from, collapses duplicate passages, and orders the
// survivors by descending score.
//
// # Implementation Packages
//
//   - kb/bedrock: production implementation over the Bedrock Agent Runtime
//   - kb/mock: test doubles for unit testing without network access
package kb
