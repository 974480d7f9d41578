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


// Package llm provides foundation-model generation and the provider
// registry that shapes requests and responses per model family.
//
// Different foundation-model providers expect different request payloads
// (message arrays with a separate system field versus a single prompt
// string) and return different response envelopes. The registry maps a
// model id's provider family to an Adapter holding the {build request,
// extract text} pair, so adding a provider is a registry entry rather than
// a code-path fork elsewhere.
//
// Response extraction first tries the family's documented envelope, then
// the shared alias fallback observed across runtimes. A response with no
// recognizable text fails with MalformedResponseError — a schema mismatch,
// distinct from and never confused with a transport failure.
//
// # Implementation Packages
//
//   - llm/bedrock: production implementation over the Bedrock Runtime
//   - llm/mock: test doubles for unit testing without network access
package llm
