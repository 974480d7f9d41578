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


package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBucketRequired indicates the connection context has no bucket.
	ErrBucketRequired = errors.New("bucket is required")

	// ErrDataSourceRequired indicates the connection context has no data source id.
	ErrDataSourceRequired = errors.New("data source id is required")

	// ErrKnowledgeBaseRequired indicates the connection context has no knowledge base id.
	ErrKnowledgeBaseRequired = errors.New("knowledge base id is required")

	// ErrNoFiles indicates the source directory contains no regular files.
	ErrNoFiles = errors.New("no files to upload")
)

// UploadError reports files that failed to upload. Remaining files are still
// attempted; the error aggregates every failure in the batch.
type UploadError struct {
	Failures map[string]error
}

func (e *UploadError) Error() string {
	keys := make([]string, 0, len(e.Failures))
	for key := range e.Failures {
		keys = append(keys, key)
	}
	return fmt.Sprintf("upload failed for %d file(s): %s", len(e.Failures), strings.Join(keys, ", "))
}

// SyncFailedError reports an ingestion job that reached a failed terminal state.
type SyncFailedError struct {
	JobID   string
	Reasons []string
}

func (e *SyncFailedError) Error() string {
	if len(e.Reasons) == 0 {
		return fmt.Sprintf("ingestion job %s failed", e.JobID)
	}
	return fmt.Sprintf("ingestion job %s failed: %s", e.JobID, strings.Join(e.Reasons, "; "))
}
