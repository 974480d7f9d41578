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
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/groundit/core"
)

// fakeAgent walks an ingestion job through a scripted status sequence,
// one status per GetIngestionJob call.
type fakeAgent struct {
	statuses  []types.IngestionJobStatus
	stats     *types.IngestionJobStatistics
	reasons   []string
	startErr  error
	getErr    error
	polls     int
	lastStart *bedrockagent.StartIngestionJobInput
	lastGet   *bedrockagent.GetIngestionJobInput
}

func (f *fakeAgent) StartIngestionJob(ctx context.Context, params *bedrockagent.StartIngestionJobInput,
	optFns ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error) {

	f.lastStart = params
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &bedrockagent.StartIngestionJobOutput{
		IngestionJob: &types.IngestionJob{
			IngestionJobId: aws.String("job-1"),
			Status:         types.IngestionJobStatusStarting,
		},
	}, nil
}

func (f *fakeAgent) GetIngestionJob(ctx context.Context, params *bedrockagent.GetIngestionJobInput,
	optFns ...func(*bedrockagent.Options)) (*bedrockagent.GetIngestionJobOutput, error) {

	f.lastGet = params
	if f.getErr != nil {
		return nil, f.getErr
	}

	status := f.statuses[len(f.statuses)-1]
	if f.polls < len(f.statuses) {
		status = f.statuses[f.polls]
	}
	f.polls++

	return &bedrockagent.GetIngestionJobOutput{
		IngestionJob: &types.IngestionJob{
			IngestionJobId: aws.String("job-1"),
			Status:         status,
			Statistics:     f.stats,
			FailureReasons: f.reasons,
		},
	}, nil
}

func syncConn() core.ConnectionContext {
	conn := uploadConn()
	conn.DataSourceID = "DS123456"
	return conn
}

func newTestSyncer(t *testing.T, api AgentAPI) *Syncer {
	t.Helper()
	syncer, err := NewSyncer(context.Background(), syncConn(),
		WithAgentAPI(api), WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	return syncer
}

func TestNewSyncer_RequiresLocators(t *testing.T) {
	conn := syncConn()
	conn.KnowledgeBaseID = ""
	_, err := NewSyncer(context.Background(), conn, WithAgentAPI(&fakeAgent{}))
	assert.ErrorIs(t, err, ErrKnowledgeBaseRequired)

	conn = syncConn()
	conn.DataSourceID = ""
	_, err = NewSyncer(context.Background(), conn, WithAgentAPI(&fakeAgent{}))
	assert.ErrorIs(t, err, ErrDataSourceRequired)
}

func TestSync_PollsToCompletion(t *testing.T) {
	api := &fakeAgent{
		statuses: []types.IngestionJobStatus{
			types.IngestionJobStatusInProgress,
			types.IngestionJobStatusInProgress,
			types.IngestionJobStatusComplete,
		},
		stats: &types.IngestionJobStatistics{
			NumberOfDocumentsScanned:         12,
			NumberOfNewDocumentsIndexed:      8,
			NumberOfModifiedDocumentsIndexed: 3,
			NumberOfDocumentsFailed:          1,
		},
	}
	syncer := newTestSyncer(t, api)

	status, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "job-1", status.JobID)
	assert.Equal(t, string(types.IngestionJobStatusComplete), status.Status)
	assert.Equal(t, int64(12), status.Scanned)
	assert.Equal(t, int64(11), status.Indexed)
	assert.Equal(t, int64(1), status.Failed)
	assert.Equal(t, 3, api.polls)

	require.NotNil(t, api.lastStart)
	assert.Equal(t, "KB123456", aws.ToString(api.lastStart.KnowledgeBaseId))
	assert.Equal(t, "DS123456", aws.ToString(api.lastStart.DataSourceId))
	require.NotNil(t, api.lastGet)
	assert.Equal(t, "job-1", aws.ToString(api.lastGet.IngestionJobId))
}

func TestSync_FailedJob(t *testing.T) {
	api := &fakeAgent{
		statuses: []types.IngestionJobStatus{types.IngestionJobStatusFailed},
		reasons:  []string{"document too large", "unsupported format"},
	}
	syncer := newTestSyncer(t, api)

	status, err := syncer.Sync(context.Background())
	require.Error(t, err)

	var failed *SyncFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "job-1", failed.JobID)
	assert.Equal(t, []string{"document too large", "unsupported format"}, failed.Reasons)

	// Status still reports what happened, for the caller's logs.
	require.NotNil(t, status)
	assert.Equal(t, string(types.IngestionJobStatusFailed), status.Status)
}

func TestSync_StoppedJob(t *testing.T) {
	api := &fakeAgent{
		statuses: []types.IngestionJobStatus{types.IngestionJobStatusStopped},
	}
	syncer := newTestSyncer(t, api)

	_, err := syncer.Sync(context.Background())
	var failed *SyncFailedError
	require.ErrorAs(t, err, &failed)
}

func TestSync_StartError(t *testing.T) {
	api := &fakeAgent{startErr: errors.New("access denied")}
	syncer := newTestSyncer(t, api)

	_, err := syncer.Sync(context.Background())
	assert.Error(t, err)
	assert.Zero(t, api.polls)
}

func TestSync_PollError(t *testing.T) {
	api := &fakeAgent{getErr: errors.New("service unavailable")}
	syncer := newTestSyncer(t, api)

	_, err := syncer.Sync(context.Background())
	assert.Error(t, err)
}

func TestSync_ContextCancelled(t *testing.T) {
	api := &fakeAgent{
		statuses: []types.IngestionJobStatus{types.IngestionJobStatusInProgress},
	}
	syncer, err := NewSyncer(context.Background(), syncConn(),
		WithAgentAPI(api), WithPollInterval(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = syncer.Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
