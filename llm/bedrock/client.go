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
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/llm"
)

// RuntimeAPI is the slice of the Bedrock Runtime surface the client uses.
// Satisfied by *bedrockruntime.Client.
type RuntimeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client implements llm.Generator over the Bedrock Runtime.
type Client struct {
	api    RuntimeAPI
	logger *slog.Logger
}

var _ llm.Generator = (*Client)(nil)

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
func WithAPI(api RuntimeAPI) Option {
	return func(c *Client) error {
		c.api = api
		return nil
	}
}

// NewClient creates a generation client for the given region.
//
// Returns llm.Generator to keep callers decoupled from the Bedrock-specific
// implementation. The model id travels with each request, so one client
// serves any model the region hosts.
func NewClient(ctx context.Context, region string, opts ...Option) (llm.Generator, error) {
	if region == "" {
		return nil, core.ErrMissingRegion
	}

	c := &Client{
		logger: slog.Default().With("component", "llm-bedrock"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.api == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			return nil, err
		}
		c.api = bedrockruntime.NewFromConfig(cfg)
	}
	return c, nil
}

// Generate shapes the request through the provider registry and performs one
// InvokeModel call. The raw response envelope is returned untouched for the
// response extractor; no internal retry.
func (c *Client) Generate(ctx context.Context, req *core.GenerationRequest) ([]byte, error) {
	if err := req.Sampling.Validate(); err != nil {
		return nil, err
	}

	body, err := llm.BuildBody(req)
	if err != nil {
		return nil, err
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		c.logger.Error("model invocation failed", "modelID", req.ModelID, "err", err)
		return nil, &llm.GenerationError{Cause: err}
	}

	c.logger.Debug("model invocation completed",
		"modelID", req.ModelID, "responseBytes", len(out.Body))
	return out.Body, nil
}
