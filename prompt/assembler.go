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


package prompt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/llm"
)

const (
	// DefaultTokenBudget bounds the estimated size of the assembled
	// request (instruction, passages, and query together).
	DefaultTokenBudget = 4096

	instructionHeader = "You are an assistant that answers questions strictly from the provided context passages."

	instructionFooter = "Answer using only the context passages above and cite the labels of the " +
		"passages you used, like [1]. If the context does not contain the answer, " +
		"say that the provided documents do not cover it."
)

// Assembler builds provider-neutral generation requests from normalized
// passages. Stateless beyond its configuration; safe for concurrent use.
type Assembler struct {
	counter *TokenCounter
	budget  int
	logger  *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler) error

// WithTokenBudget sets the token budget for assembled requests.
// Default is DefaultTokenBudget.
func WithTokenBudget(budget int) Option {
	return func(a *Assembler) error {
		if budget <= 0 {
			return fmt.Errorf("token budget must be greater than zero, got %d", budget)
		}
		a.budget = budget
		return nil
	}
}

// WithTokenCounter sets a custom token counter.
// Default counts with the cl100k_base encoding.
func WithTokenCounter(counter *TokenCounter) Option {
	return func(a *Assembler) error {
		if counter != nil {
			a.counter = counter
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAssembler creates an assembler with the default budget and encoding.
func NewAssembler(opts ...Option) (*Assembler, error) {
	a := &Assembler{
		counter: NewTokenCounter(""),
		budget:  DefaultTokenBudget,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Assemble combines the normalized passages, the user query, and the
// grounding instruction into a generation request shaped for the model named
// in the connection context.
//
// The provider family is resolved first: an unknown model id fails with
// *llm.UnsupportedProviderError and no partial request. When the estimated
// token count exceeds the budget, passages are dropped whole, lowest score
// first, until the request fits; a passage's text is never split.
func (a *Assembler) Assemble(conn core.ConnectionContext, query string, passages []core.Passage,
	sampling core.SamplingParams) (*core.GenerationRequest, error) {

	if _, err := llm.Resolve(conn.ModelID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	kept := make([]core.Passage, len(passages))
	copy(kept, passages)

	instruction := renderInstruction(kept)
	for len(kept) > 0 && a.counter.Count(instruction)+a.counter.Count(query) > a.budget {
		dropped := len(kept) - 1
		if i := lowestScored(kept); i >= 0 {
			dropped = i
		}
		a.logger.Debug("dropping passage to fit token budget",
			"score", kept[dropped].ScoreOr(-1), "textLen", len(kept[dropped].Text))
		kept = append(kept[:dropped], kept[dropped+1:]...)
		instruction = renderInstruction(kept)
	}

	return &core.GenerationRequest{
		ModelID:           conn.ModelID,
		SystemInstruction: instruction,
		ContextPassages:   kept,
		UserQuery:         query,
		Sampling:          sampling,
	}, nil
}

// renderInstruction embeds the passages as enumerated citation-labeled
// blocks between the grounding header and footer.
func renderInstruction(passages []core.Passage) string {
	var b strings.Builder
	b.WriteString(instructionHeader)
	b.WriteString("\n\nContext passages:\n")
	if len(passages) == 0 {
		b.WriteString("(no passages retrieved)\n")
	}
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, p.Text)
	}
	b.WriteString("\n")
	b.WriteString(instructionFooter)
	return b.String()
}

// lowestScored returns the index of the passage to drop first: the last
// score-less passage if any, otherwise the last passage holding the minimum
// score. Returns -1 for an empty sequence.
func lowestScored(passages []core.Passage) int {
	if len(passages) == 0 {
		return -1
	}
	victim := -1
	for i := len(passages) - 1; i >= 0; i-- {
		if !passages[i].Scored() {
			return i
		}
	}
	for i, p := range passages {
		if victim < 0 || *p.Score <= *passages[victim].Score {
			victim = i
		}
	}
	return victim
}
