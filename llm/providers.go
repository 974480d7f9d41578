package llm

import (
	"encoding/json"
	"strings"

	"github.com/poiesic/groundit/core"
)

// Adapter shapes generation requests and responses for one provider family.
// Implementations are pure transformations: no side effects, no network.
type Adapter interface {
	// Family returns the canonical provider family identifier.
	Family() string

	// BuildBody constructs the provider-specific request payload from a
	// normalized generation request.
	BuildBody(req *core.GenerationRequest) ([]byte, error)

	// ExtractText pulls the generated text out of the provider's response
	// envelope. Returns "" when the expected shape is absent; the caller
	// turns that into a MalformedResponseError.
	ExtractText(body []byte) string
}

// Supported provider family identifiers, as they appear as the leading
// segment of Bedrock model ids.
const (
	FamilyAnthropic = "anthropic" // Claude: messages array + system field
	FamilyAmazon    = "amazon"    // Titan: inputText + textGenerationConfig
	FamilyMeta      = "meta"      // Llama: single prompt string
	FamilyMistral   = "mistral"   // Mistral: single prompt string
	FamilyCohere    = "cohere"    // Command: single prompt string
)

var registry = map[string]Adapter{
	FamilyAnthropic: anthropicAdapter{},
	FamilyAmazon:    titanAdapter{},
	FamilyMeta:      llamaAdapter{},
	FamilyMistral:   mistralAdapter{},
	FamilyCohere:    cohereAdapter{},
}

// Cross-region inference profiles prefix the model id with a geography
// segment that carries no provider information.
var geoPrefixes = map[string]bool{"us": true, "eu": true, "apac": true, "global": true}

// Resolve returns the adapter for the model id's provider family.
// Returns *UnsupportedProviderError for families with no registry entry.
func Resolve(modelID string) (Adapter, error) {
	segments := strings.Split(modelID, ".")
	if len(segments) > 1 && geoPrefixes[segments[0]] {
		segments = segments[1:]
	}
	if adapter, ok := registry[strings.ToLower(segments[0])]; ok {
		return adapter, nil
	}
	return nil, &UnsupportedProviderError{ModelID: modelID}
}

// BuildBody resolves the provider family for the request's model and builds
// its wire payload.
func BuildBody(req *core.GenerationRequest) ([]byte, error) {
	adapter, err := Resolve(req.ModelID)
	if err != nil {
		return nil, err
	}
	return adapter.BuildBody(req)
}

// ExtractText resolves the provider family for the model and pulls the
// generated text out of the raw response envelope. A response with no
// recognizable text fails with *MalformedResponseError — never an
// empty-string success.
func ExtractText(raw []byte, modelID string) (string, error) {
	adapter, err := Resolve(modelID)
	if err != nil {
		return "", err
	}
	if text := adapter.ExtractText(raw); text != "" {
		return text, nil
	}
	return "", &MalformedResponseError{ModelID: modelID}
}

// singlePrompt flattens a generation request for families that take one
// prompt string instead of a message array.
func singlePrompt(req *core.GenerationRequest) string {
	if req.SystemInstruction == "" {
		return req.UserQuery
	}
	return req.SystemInstruction + "\n\n" + req.UserQuery
}

// extractAliases scans the alias locations shared across runtime envelopes:
// flat string keys first, then the first entry of a results list. Used as a
// fallback after the family's documented shape misses.
func extractAliases(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	for _, key := range []string{"output", "generatedText", "text", "result", "completion"} {
		var s string
		if raw, ok := envelope[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}

	if raw, ok := envelope["results"]; ok {
		var results []map[string]string
		if json.Unmarshal(raw, &results) == nil && len(results) > 0 {
			for _, key := range []string{"outputText", "output", "text", "generatedText"} {
				if s := results[0][key]; s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// anthropicAdapter targets Claude models: a messages array with a separate
// system field, versioned with the Bedrock messages API marker.
type anthropicAdapter struct{}

func (anthropicAdapter) Family() string { return FamilyAnthropic }

func (anthropicAdapter) BuildBody(req *core.GenerationRequest) ([]byte, error) {
	type contentBlock struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	type message struct {
		Role    string         `json:"role"`
		Content []contentBlock `json:"content"`
	}
	body := struct {
		AnthropicVersion string    `json:"anthropic_version"`
		System           string    `json:"system,omitempty"`
		Messages         []message `json:"messages"`
		MaxTokens        int       `json:"max_tokens"`
		Temperature      float64   `json:"temperature"`
		TopP             float64   `json:"top_p"`
	}{
		AnthropicVersion: "bedrock-2023-05-31",
		System:           req.SystemInstruction,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: req.UserQuery}},
		}},
		MaxTokens:   req.Sampling.MaxTokens,
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
	}
	return json.Marshal(body)
}

func (anthropicAdapter) ExtractText(body []byte) string {
	var envelope struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, block := range envelope.Content {
			if block.Text != "" {
				return block.Text
			}
		}
	}
	return extractAliases(body)
}

// titanAdapter targets Amazon Titan text models.
type titanAdapter struct{}

func (titanAdapter) Family() string { return FamilyAmazon }

func (titanAdapter) BuildBody(req *core.GenerationRequest) ([]byte, error) {
	body := struct {
		InputText            string `json:"inputText"`
		TextGenerationConfig struct {
			MaxTokenCount int     `json:"maxTokenCount"`
			Temperature   float64 `json:"temperature"`
			TopP          float64 `json:"topP"`
		} `json:"textGenerationConfig"`
	}{InputText: singlePrompt(req)}
	body.TextGenerationConfig.MaxTokenCount = req.Sampling.MaxTokens
	body.TextGenerationConfig.Temperature = req.Sampling.Temperature
	body.TextGenerationConfig.TopP = req.Sampling.TopP
	return json.Marshal(body)
}

func (titanAdapter) ExtractText(body []byte) string {
	var envelope struct {
		Results []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Results) > 0 {
		if envelope.Results[0].OutputText != "" {
			return envelope.Results[0].OutputText
		}
	}
	return extractAliases(body)
}

// llamaAdapter targets Meta Llama models.
type llamaAdapter struct{}

func (llamaAdapter) Family() string { return FamilyMeta }

func (llamaAdapter) BuildBody(req *core.GenerationRequest) ([]byte, error) {
	body := struct {
		Prompt      string  `json:"prompt"`
		MaxGenLen   int     `json:"max_gen_len"`
		Temperature float64 `json:"temperature"`
		TopP        float64 `json:"top_p"`
	}{
		Prompt:      singlePrompt(req),
		MaxGenLen:   req.Sampling.MaxTokens,
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
	}
	return json.Marshal(body)
}

func (llamaAdapter) ExtractText(body []byte) string {
	var envelope struct {
		Generation string `json:"generation"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Generation != "" {
		return envelope.Generation
	}
	return extractAliases(body)
}

// mistralAdapter targets Mistral models.
type mistralAdapter struct{}

func (mistralAdapter) Family() string { return FamilyMistral }

func (mistralAdapter) BuildBody(req *core.GenerationRequest) ([]byte, error) {
	body := struct {
		Prompt      string  `json:"prompt"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		TopP        float64 `json:"top_p"`
	}{
		Prompt:      singlePrompt(req),
		MaxTokens:   req.Sampling.MaxTokens,
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
	}
	return json.Marshal(body)
}

func (mistralAdapter) ExtractText(body []byte) string {
	var envelope struct {
		Outputs []struct {
			Text string `json:"text"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Outputs) > 0 {
		if envelope.Outputs[0].Text != "" {
			return envelope.Outputs[0].Text
		}
	}
	return extractAliases(body)
}

// cohereAdapter targets Cohere Command models.
type cohereAdapter struct{}

func (cohereAdapter) Family() string { return FamilyCohere }

func (cohereAdapter) BuildBody(req *core.GenerationRequest) ([]byte, error) {
	body := struct {
		Prompt      string  `json:"prompt"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		P           float64 `json:"p"`
	}{
		Prompt:      singlePrompt(req),
		MaxTokens:   req.Sampling.MaxTokens,
		Temperature: req.Sampling.Temperature,
		P:           req.Sampling.TopP,
	}
	return json.Marshal(body)
}

func (cohereAdapter) ExtractText(body []byte) string {
	var envelope struct {
		Generations []struct {
			Text string `json:"text"`
		} `json:"generations"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Generations) > 0 {
		if envelope.Generations[0].Text != "" {
			return envelope.Generations[0].Text
		}
	}
	return extractAliases(body)
}
