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


// Package groundit answers questions from a managed knowledge base.
//
// The Pipeline wires the retrieval client, result normalizer, prompt
// assembler and generation client into one Answer call: retrieve passages
// for the query, ground a prompt in them, invoke the model, and extract the
// answer with its cited passages. Components are stateless and share only
// the read-only connection context, so one Pipeline serves concurrent
// callers.
//
// Failures propagate as wrapped errors; use classify.Classify at the call
// site to decide whether a retry (see the retry package) makes sense. The
// pipeline itself never retries.
package groundit

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/guard"
	"github.com/poiesic/groundit/kb"
	"github.com/poiesic/groundit/llm"
	"github.com/poiesic/groundit/prompt"
)

const defaultTopK = 5

// Pipeline orchestrates one question-answering flow over a knowledge base.
type Pipeline struct {
	conn        core.ConnectionContext
	retriever   kb.Retriever
	generator   llm.Generator
	assembler   *prompt.Assembler
	gate        *guard.Gate
	topK        int
	sampling    core.SamplingParams
	stepTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithTopK sets how many passages are requested per retrieval.
// Default is 5.
func WithTopK(topK int) Option {
	return func(p *Pipeline) error {
		if topK < 1 {
			return core.ErrInvalidTopK
		}
		p.topK = topK
		return nil
	}
}

// WithSampling sets the sampling parameters passed to the model.
// Default is core.DefaultSampling().
func WithSampling(sampling core.SamplingParams) Option {
	return func(p *Pipeline) error {
		if err := sampling.Validate(); err != nil {
			return err
		}
		p.sampling = sampling
		return nil
	}
}

// WithAssembler replaces the default prompt assembler, e.g. to change the
// token budget.
func WithAssembler(assembler *prompt.Assembler) Option {
	return func(p *Pipeline) error {
		if assembler != nil {
			p.assembler = assembler
		}
		return nil
	}
}

// WithGate enables the prompt-category gate. Requests the gate rejects fail
// with a RejectedError before any retrieval runs.
func WithGate(gate *guard.Gate) Option {
	return func(p *Pipeline) error {
		p.gate = gate
		return nil
	}
}

// WithStepTimeout bounds each external call (gate, retrieve, generate)
// separately. Zero disables the per-step bound; the caller's ctx still
// applies to the whole flow.
func WithStepTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout < 0 {
			timeout = 0
		}
		p.stepTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline over the given retrieval and generation
// clients, bound to the knowledge base and model named in the connection
// context.
func NewPipeline(conn core.ConnectionContext, retriever kb.Retriever, generator llm.Generator,
	opts ...Option) (*Pipeline, error) {

	if err := conn.Validate(); err != nil {
		return nil, err
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	assembler, err := prompt.NewAssembler()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		conn:      conn,
		retriever: retriever,
		generator: generator,
		assembler: assembler,
		topK:      defaultTopK,
		sampling:  core.DefaultSampling(),
		logger:    slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Answer runs the full flow for one question and returns the grounded
// answer with the passages it cites.
func (p *Pipeline) Answer(ctx context.Context, query string) (*core.GenerationResult, error) {
	return p.AnswerWithMonitor(ctx, query, nil)
}

// AnswerWithMonitor runs the full flow with monitoring. The monitor
// receives the raw intermediates of every stage: un-normalized retrieval
// results, normalized passages, the assembled request, and the raw model
// response body.
func (p *Pipeline) AnswerWithMonitor(ctx context.Context, query string, monitor Monitor) (*core.GenerationResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	if err := core.ValidateQuery(query, p.topK); err != nil {
		return nil, err
	}

	if p.gate != nil {
		category, allowed, err := p.gateCheck(ctx, query)
		if err != nil {
			return nil, err
		}
		monitor.Gated(category, allowed)
		if !allowed {
			p.logger.Info("request rejected by prompt gate", "category", category)
			return nil, &RejectedError{Category: category}
		}
	}

	raw, err := p.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	monitor.AfterRetrieve(raw)

	passages := kb.Normalize(raw)
	monitor.AfterNormalize(passages)
	p.logger.Debug("normalized retrieval results",
		"raw", len(raw), "passages", len(passages))

	req, err := p.assembler.Assemble(p.conn, query, passages, p.sampling)
	if err != nil {
		return nil, err
	}
	monitor.AfterAssemble(req)

	started := time.Now()
	body, err := p.generate(ctx, req)
	latency := time.Since(started)
	if err != nil {
		return nil, err
	}
	monitor.AfterGenerate(body, latency)

	answer, err := llm.ExtractText(body, req.ModelID)
	if err != nil {
		return nil, err
	}

	result := &core.GenerationResult{
		AnswerText:    answer,
		CitedPassages: prompt.CitedPassages(answer, req.ContextPassages),
		Latency:       latency,
	}
	p.logger.Debug("answer generated",
		"modelID", req.ModelID, "cited", len(result.CitedPassages), "latency", latency)
	monitor.Finish(result)
	return result, nil
}

func (p *Pipeline) retrieve(ctx context.Context, query string) ([]kb.RawResult, error) {
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()
	return p.retriever.Retrieve(stepCtx, query, p.topK)
}

func (p *Pipeline) generate(ctx context.Context, req *core.GenerationRequest) ([]byte, error) {
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()
	return p.generator.Generate(stepCtx, req)
}

func (p *Pipeline) gateCheck(ctx context.Context, query string) (guard.Category, bool, error) {
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()
	return p.gate.Validate(stepCtx, p.conn, query)
}

func (p *Pipeline) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stepTimeout > 0 {
		return context.WithTimeout(ctx, p.stepTimeout)
	}
	return context.WithCancel(ctx)
}
