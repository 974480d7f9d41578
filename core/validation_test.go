package core

import (
	"errors"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		topK    int
		wantErr error
	}{
		{"valid query", "what is the refund policy?", 5, nil},
		{"empty query", "", 5, ErrEmptyQuery},
		{"whitespace-only query", "   \t\n", 5, ErrEmptyQuery},
		{"zero topK", "valid", 0, ErrInvalidTopK},
		{"negative topK", "valid", -3, ErrInvalidTopK},
		{"topK of one", "valid", 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query, tt.topK)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectionContextValidate(t *testing.T) {
	valid := ConnectionContext{
		KnowledgeBaseID: "KB12345",
		ModelID:         "anthropic.claude-3-haiku-20240307-v1:0",
		Region:          "us-east-1",
	}

	tests := []struct {
		name    string
		mutate  func(c *ConnectionContext)
		wantErr error
	}{
		{"valid", func(c *ConnectionContext) {}, nil},
		{"missing knowledge base", func(c *ConnectionContext) { c.KnowledgeBaseID = "" }, ErrMissingKnowledgeBase},
		{"missing model", func(c *ConnectionContext) { c.ModelID = "" }, ErrMissingModel},
		{"missing region", func(c *ConnectionContext) { c.Region = "" }, ErrMissingRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := valid
			tt.mutate(&conn)
			err := conn.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectionContextValidate_DiagnosticLocatorsOptional(t *testing.T) {
	// The retrieval and generation path does not need the vector-store or
	// bucket locators.
	conn := ConnectionContext{
		KnowledgeBaseID: "KB12345",
		ModelID:         "meta.llama3-8b-instruct-v1:0",
		Region:          "eu-west-1",
	}
	if err := conn.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSamplingParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  SamplingParams
		wantErr error
	}{
		{"defaults", DefaultSampling(), nil},
		{"max temperature", SamplingParams{Temperature: 1.0, TopP: 0.9, MaxTokens: 100}, nil},
		{"temperature too high", SamplingParams{Temperature: 1.5, TopP: 1.0, MaxTokens: 100}, ErrInvalidTemperature},
		{"temperature negative", SamplingParams{Temperature: -0.1, TopP: 1.0, MaxTokens: 100}, ErrInvalidTemperature},
		{"topP too high", SamplingParams{Temperature: 0, TopP: 1.1, MaxTokens: 100}, ErrInvalidTopP},
		{"topP negative", SamplingParams{Temperature: 0, TopP: -0.5, MaxTokens: 100}, ErrInvalidTopP},
		{"zero max tokens", SamplingParams{Temperature: 0, TopP: 1.0, MaxTokens: 0}, ErrInvalidMaxTokens},
		{"negative max tokens", SamplingParams{Temperature: 0, TopP: 1.0, MaxTokens: -1}, ErrInvalidMaxTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTurn(t *testing.T) {
	tests := []struct {
		name    string
		turn    *Turn
		wantErr error
	}{
		{"valid user turn", &Turn{Role: RoleUser, Content: "hello"}, nil},
		{"valid assistant turn", &Turn{Role: RoleAssistant, Content: "hi"}, nil},
		{"nil turn", nil, ErrEmptyTurnContent},
		{"empty content", &Turn{Role: RoleUser, Content: ""}, ErrEmptyTurnContent},
		{"unknown role", &Turn{Role: Role(7), Content: "hello"}, ErrInvalidRole},
		{"zero role", &Turn{Content: "hello"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTurn(tt.turn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
