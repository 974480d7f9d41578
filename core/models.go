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


package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ConnectionContext bundles the external resource locators the pipeline needs.
// It is supplied by the provisioning layer, carries no logic, and is shared
// read-only by every component below it. Pass it by value; never mutate it
// after construction.
type ConnectionContext struct {
	// ClusterARN locates the Aurora cluster backing the vector store.
	// Consumed only by the diagnostics collaborator; the core never issues SQL.
	ClusterARN string

	// SecretARN locates the database credentials in Secrets Manager.
	SecretARN string

	// Bucket is the S3 bucket that knowledge-base documents land in.
	Bucket string

	// KnowledgeBaseID identifies the managed knowledge base to retrieve from.
	KnowledgeBaseID string

	// DataSourceID identifies the knowledge-base data source for ingestion sync.
	DataSourceID string

	// Database is the logical database name used by the RDS Data API.
	Database string

	// ModelID identifies the foundation model to generate with.
	// Example: "anthropic.claude-3-haiku-20240307-v1:0"
	ModelID string

	// Region is the AWS region all service clients operate in.
	Region string
}

// Passage is a normalized unit of retrieved text.
// The normalizer guarantees Text is never empty.
type Passage struct {
	// Text is the passage content, whitespace-trimmed and non-empty.
	Text string

	// Score is the relevance score in [0,1], or nil when the retrieval
	// service did not report one.
	Score *float64

	// SourceLocator references the source document (typically an S3 URI),
	// empty when unknown.
	SourceLocator string

	// Metadata carries optional scalar attributes reported by the service.
	Metadata map[string]string
}

// Scored reports whether the passage carries a relevance score.
func (p Passage) Scored() bool {
	return p.Score != nil
}

// ScoreOr returns the passage score, or def when no score is present.
func (p Passage) ScoreOr(def float64) float64 {
	if p.Score == nil {
		return def
	}
	return *p.Score
}

// ScoreOf is a convenience for building scored passages in literals and tests.
func ScoreOf(v float64) *float64 {
	return &v
}

// SamplingParams controls foundation-model sampling.
type SamplingParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultSampling returns the conservative defaults used for grounded answers.
func DefaultSampling() SamplingParams {
	return SamplingParams{
		Temperature: 0.0,
		TopP:        1.0,
		MaxTokens:   512,
	}
}

// GenerationRequest is the provider-neutral input to a generation call.
// It is built fresh per call by the prompt assembler, never mutated after
// construction, and consumed once by the generation client.
type GenerationRequest struct {
	// ModelID is the foundation model the request targets.
	ModelID string

	// SystemInstruction embeds the context passages as enumerated,
	// citation-labeled blocks followed by the grounding instruction.
	SystemInstruction string

	// ContextPassages are the passages embedded in SystemInstruction,
	// in label order (label = 1-based index).
	ContextPassages []Passage

	// UserQuery is the question being answered.
	UserQuery string

	// Sampling controls model sampling for this request.
	Sampling SamplingParams
}

// GenerationResult is the outcome of a successful generation call.
type GenerationResult struct {
	// AnswerText is the generated answer. Non-empty on success.
	AnswerText string

	// CitedPassages is the subset of the request's context passages whose
	// labels the answer actually references.
	CitedPassages []Passage

	// Latency is the wall-clock duration of the model invocation.
	Latency time.Duration
}

// Turn is a single message in a persisted conversation transcript.
type Turn struct {
	Id        ID
	Role      Role
	Content   string
	ModelID   string
	CreatedAt time.Time
}

// Role identifies the author of a transcript turn.
type Role int

const (
	// RoleUser represents the human asking questions.
	RoleUser Role = iota + 1
	// RoleAssistant represents the generated answers.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}
