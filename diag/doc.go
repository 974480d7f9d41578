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


// Package diag inspects the pieces behind a knowledge base when retrieval
// quality looks off.
//
// The Inspector answers the usual triage questions in order: does a raw
// retrieve return anything, are the source documents actually in the bucket,
// did chunks land in the vector store table, and is the configured model
// available in the region. It reads through the same retrieval client the
// pipeline uses plus the S3, RDS Data and Bedrock control-plane APIs; the
// pipeline itself never depends on this package.
package diag
