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


// Package prompt assembles generation requests from normalized passages.
//
// The assembler embeds passages as enumerated, citation-labeled context
// blocks (label = 1-based index) in a system instruction that tells the
// model to answer only from the provided context and cite the labels it
// used. When the estimated token count exceeds the configured budget,
// passages are dropped whole, lowest score first — a passage's text is
// never split.
//
// Assembly is a pure transformation: no side effects, no network. The
// provider family is resolved up front so an unsupported model id fails
// before any request is built.
package prompt
