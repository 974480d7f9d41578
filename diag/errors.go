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


package diag

import "errors"

var (
	// ErrRetrieverRequired indicates no retrieval client was provided.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrClusterRequired indicates the connection context has no cluster ARN.
	ErrClusterRequired = errors.New("cluster ARN is required")

	// ErrSecretRequired indicates the connection context has no secret ARN.
	ErrSecretRequired = errors.New("secret ARN is required")

	// ErrEmptySearchTerm indicates a blank chunk search term.
	ErrEmptySearchTerm = errors.New("search term must not be empty")
)
