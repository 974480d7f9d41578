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


package bedrock

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/kb"
)

// AgentRuntimeAPI is the slice of the Bedrock Agent Runtime surface the
// client uses. Satisfied by *bedrockagentruntime.Client.
type AgentRuntimeAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput,
		optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// Client implements kb.Retriever over the Bedrock Agent Runtime.
type Client struct {
	api    AgentRuntimeAPI
	conn   core.ConnectionContext
	logger *slog.Logger
}

var _ kb.Retriever = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithAPI injects a pre-built service client, bypassing AWS configuration
// loading. Intended for tests.
func WithAPI(api AgentRuntimeAPI) Option {
	return func(c *Client) error {
		c.api = api
		return nil
	}
}

// NewClient creates a retrieval client bound to the knowledge base named in
// the connection context.
//
// Returns kb.Retriever to keep callers decoupled from the Bedrock-specific
// implementation.
func NewClient(ctx context.Context, conn core.ConnectionContext, opts ...Option) (kb.Retriever, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		conn:   conn,
		logger: slog.Default().With("component", "kb-bedrock"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.api == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(conn.Region))
		if err != nil {
			return nil, err
		}
		c.api = bedrockagentruntime.NewFromConfig(cfg)
	}
	return c, nil
}

// Retrieve runs one semantic-search request against the knowledge base.
// No caching and no internal retry: the underlying data may change between
// calls, and retry policy belongs to the caller.
func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]kb.RawResult, error) {
	if err := core.ValidateQuery(query, topK); err != nil {
		return nil, err
	}

	out, err := c.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(c.conn.KnowledgeBaseID),
		RetrievalQuery:  &types.KnowledgeBaseQuery{Text: aws.String(query)},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults: aws.Int32(int32(topK)),
			},
		},
	})
	if err != nil {
		c.logger.Error("knowledge base retrieve failed",
			"knowledgeBaseID", c.conn.KnowledgeBaseID, "err", err)
		return nil, &kb.RetrievalError{Cause: err}
	}

	results := rawResults(out)
	c.logger.Debug("knowledge base retrieve completed",
		"knowledgeBaseID", c.conn.KnowledgeBaseID, "results", len(results))
	return results, nil
}
