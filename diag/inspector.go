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

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/kb"
)

// S3API is the slice of the S3 surface the inspector uses.
// Satisfied by *s3.Client.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// DataAPI is the slice of the RDS Data API surface the inspector uses.
// Satisfied by *rdsdata.Client.
type DataAPI interface {
	ExecuteStatement(ctx context.Context, params *rdsdata.ExecuteStatementInput,
		optFns ...func(*rdsdata.Options)) (*rdsdata.ExecuteStatementOutput, error)
}

// ControlAPI is the slice of the Bedrock control-plane surface the inspector
// uses. Satisfied by *bedrock.Client.
type ControlAPI interface {
	ListFoundationModels(ctx context.Context, params *bedrock.ListFoundationModelsInput,
		optFns ...func(*bedrock.Options)) (*bedrock.ListFoundationModelsOutput, error)
}

// ObjectInfo describes one object in the knowledge base bucket.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Inspector runs read-only probes against a knowledge base and its backing
// services.
type Inspector struct {
	retriever kb.Retriever
	s3api     S3API
	dataAPI   DataAPI
	control   ControlAPI
	conn      core.ConnectionContext
	logger    *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithRetriever attaches the retrieval client used by DumpRetrieve.
// Without it the other probes still work but raw dumps fail with
// ErrRetrieverRequired.
func WithRetriever(retriever kb.Retriever) Option {
	return func(i *Inspector) error {
		i.retriever = retriever
		return nil
	}
}

// WithS3API injects a pre-built S3 client. Intended for tests.
func WithS3API(api S3API) Option {
	return func(i *Inspector) error {
		i.s3api = api
		return nil
	}
}

// WithDataAPI injects a pre-built RDS Data client. Intended for tests.
func WithDataAPI(api DataAPI) Option {
	return func(i *Inspector) error {
		i.dataAPI = api
		return nil
	}
}

// WithControlAPI injects a pre-built Bedrock control-plane client.
// Intended for tests.
func WithControlAPI(api ControlAPI) Option {
	return func(i *Inspector) error {
		i.control = api
		return nil
	}
}

// NewInspector creates an inspector over the services named in the
// connection context. Pass WithRetriever with the same client the answer
// pipeline uses so raw dumps reflect exactly what the pipeline sees.
func NewInspector(ctx context.Context, conn core.ConnectionContext, opts ...Option) (*Inspector, error) {
	i := &Inspector{
		conn:   conn,
		logger: slog.Default().With("component", "diag"),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	if i.s3api == nil || i.dataAPI == nil || i.control == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(conn.Region))
		if err != nil {
			return nil, err
		}
		if i.s3api == nil {
			i.s3api = s3.NewFromConfig(cfg)
		}
		if i.dataAPI == nil {
			i.dataAPI = rdsdata.NewFromConfig(cfg)
		}
		if i.control == nil {
			i.control = bedrock.NewFromConfig(cfg)
		}
	}
	return i, nil
}

// DumpRetrieve runs one retrieval and returns the raw, un-normalized results
// plus their JSON rendering for side-by-side comparison with the normalized
// view.
func (i *Inspector) DumpRetrieve(ctx context.Context, query string, topK int) ([]kb.RawResult, string, error) {
	if i.retriever == nil {
		return nil, "", ErrRetrieverRequired
	}
	results, err := i.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, "", err
	}

	rendered, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return results, "", err
	}
	return results, string(rendered), nil
}

// ListObjects lists the contents of the knowledge base bucket.
func (i *Inspector) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(i.s3api, &s3.ListObjectsV2Input{
		Bucket: aws.String(i.conn.Bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	i.logger.Debug("listed bucket", "bucket", i.conn.Bucket, "objects", len(objects))
	return objects, nil
}
