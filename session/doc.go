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


// Package session persists conversation transcripts.
//
// The chat front end records each user question and generated answer as a
// Turn so later sessions can replay recent history. Turns are serialized in
// MUS format and keyed by creation time for chronological range scans.
//
// # Implementation Packages
//
//   - session/badger: BadgerDB-backed transcript store
package session
