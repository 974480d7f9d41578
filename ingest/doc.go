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


// Package ingest feeds documents into a knowledge base.
//
// Uploader copies a local directory tree into the knowledge base's backing
// bucket, fanning file uploads out over a worker pool. Syncer then starts a
// Bedrock ingestion job for the data source and polls it to a terminal
// state, so freshly uploaded documents become retrievable.
//
// Chunking, embedding and vector indexing happen inside the managed
// ingestion job; this package only moves bytes and watches job status.
package ingest
