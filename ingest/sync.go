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
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/poiesic/groundit/core"
)

const defaultPollInterval = 5 * time.Second

// AgentAPI is the slice of the Bedrock Agent surface the syncer uses.
// Satisfied by *bedrockagent.Client.
type AgentAPI interface {
	StartIngestionJob(ctx context.Context, params *bedrockagent.StartIngestionJobInput,
		optFns ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error)
	GetIngestionJob(ctx context.Context, params *bedrockagent.GetIngestionJobInput,
		optFns ...func(*bedrockagent.Options)) (*bedrockagent.GetIngestionJobOutput, error)
}

// SyncStatus summarizes a finished ingestion job.
type SyncStatus struct {
	JobID     string
	Status    string
	Scanned   int64
	Indexed   int64
	Failed    int64
	StartedAt time.Time
	Elapsed   time.Duration
}

// Syncer starts knowledge base ingestion jobs and waits for them to finish.
type Syncer struct {
	api          AgentAPI
	conn         core.ConnectionContext
	pollInterval time.Duration
	logger       *slog.Logger
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer) error

// WithPollInterval sets how often job status is checked.
// Default is 5 seconds.
func WithPollInterval(interval time.Duration) SyncerOption {
	return func(s *Syncer) error {
		if interval <= 0 {
			interval = defaultPollInterval
		}
		s.pollInterval = interval
		return nil
	}
}

// WithSyncerLogger sets a custom logger.
// Default is slog.Default().
func WithSyncerLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAgentAPI injects a pre-built service client, bypassing AWS
// configuration loading. Intended for tests.
func WithAgentAPI(api AgentAPI) SyncerOption {
	return func(s *Syncer) error {
		s.api = api
		return nil
	}
}

// NewSyncer creates a syncer bound to the knowledge base and data source
// named in the connection context.
func NewSyncer(ctx context.Context, conn core.ConnectionContext, opts ...SyncerOption) (*Syncer, error) {
	if conn.KnowledgeBaseID == "" {
		return nil, ErrKnowledgeBaseRequired
	}
	if conn.DataSourceID == "" {
		return nil, ErrDataSourceRequired
	}

	s := &Syncer{
		conn:         conn,
		pollInterval: defaultPollInterval,
		logger:       slog.Default().With("component", "ingest-sync"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.api == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(conn.Region))
		if err != nil {
			return nil, err
		}
		s.api = bedrockagent.NewFromConfig(cfg)
	}
	return s, nil
}

// Sync starts an ingestion job and polls it to a terminal state. A failed or
// stopped job returns a SyncFailedError; use ctx to bound the wait.
func (s *Syncer) Sync(ctx context.Context) (*SyncStatus, error) {
	started := time.Now()

	out, err := s.api.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(s.conn.KnowledgeBaseID),
		DataSourceId:    aws.String(s.conn.DataSourceID),
	})
	if err != nil {
		return nil, err
	}
	job := out.IngestionJob
	jobID := aws.ToString(job.IngestionJobId)
	s.logger.Info("ingestion job started",
		"jobID", jobID, "knowledgeBaseID", s.conn.KnowledgeBaseID)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for !terminal(job.Status) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		got, err := s.api.GetIngestionJob(ctx, &bedrockagent.GetIngestionJobInput{
			KnowledgeBaseId: aws.String(s.conn.KnowledgeBaseID),
			DataSourceId:    aws.String(s.conn.DataSourceID),
			IngestionJobId:  aws.String(jobID),
		})
		if err != nil {
			return nil, err
		}
		job = got.IngestionJob
		s.logger.Debug("ingestion job status", "jobID", jobID, "status", job.Status)
	}

	status := &SyncStatus{
		JobID:     jobID,
		Status:    string(job.Status),
		StartedAt: started,
		Elapsed:   time.Since(started),
	}
	if stats := job.Statistics; stats != nil {
		status.Scanned = stats.NumberOfDocumentsScanned
		status.Indexed = stats.NumberOfNewDocumentsIndexed +
			stats.NumberOfModifiedDocumentsIndexed
		status.Failed = stats.NumberOfDocumentsFailed
	}

	if job.Status != types.IngestionJobStatusComplete {
		return status, &SyncFailedError{JobID: jobID, Reasons: job.FailureReasons}
	}
	s.logger.Info("ingestion job complete",
		"jobID", jobID, "scanned", status.Scanned, "indexed", status.Indexed,
		"failed", status.Failed, "elapsed", status.Elapsed)
	return status, nil
}

func terminal(status types.IngestionJobStatus) bool {
	switch status {
	case types.IngestionJobStatusComplete,
		types.IngestionJobStatusFailed,
		types.IngestionJobStatusStopped:
		return true
	}
	return false
}
