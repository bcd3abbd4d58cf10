// Package openaicompat implements the shared plugin base for every vendor
// speaking the OpenAI chat-completions wire format (OpenAI itself, Groq,
// Together, OpenRouter, and most self-hosted gateways).
//
// The wire format: SSE lines of the form
//
//	data: {"choices":[{"delta":{"content":"..."}}]}
//
// terminated by the explicit sentinel line "data: [DONE]".
package openaicompat

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/brandon-schabel/octoprompt-sub007/internal/utils"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
)

// defaultTemperature applies when the caller leaves temperature unset.
const defaultTemperature = 0.7

// chatCompletionsEndpoint is the path appended to every vendor base URL.
const chatCompletionsEndpoint = "/chat/completions"

// Config describes one concrete OpenAI-compatible vendor.
type Config struct {
	// Vendor is the plugin name reported to logs and spans.
	Vendor string
	// BaseURL is the API root, e.g. "https://api.groq.com/openai/v1".
	BaseURL string
	// APIKey is sent as a Bearer token.
	APIKey string
	// DefaultModel applies when the caller's options carry no model.
	DefaultModel string
	// ExtraHeaders are vendor additions (OpenRouter attribution headers etc).
	ExtraHeaders []utils.HeaderOption
}

// Plugin implements [ai.Plugin] for an OpenAI-compatible vendor.
type Plugin struct {
	config Config
	client *http.Client
}

// New creates a plugin for the vendor described by config.
func New(config Config) *Plugin {
	return &Plugin{config: config, client: &http.Client{}}
}

// Name implements [ai.Plugin].
func (p *Plugin) Name() string { return p.config.Vendor }

// SetHTTPClient replaces the HTTP client used for outbound requests.
func (p *Plugin) SetHTTPClient(client *http.Client) { p.client = client }

// SetBaseURL overrides the vendor base URL (proxies, test servers).
func (p *Plugin) SetBaseURL(baseURL string) { p.config.BaseURL = baseURL }

// SetAPIKey overrides the credential.
func (p *Plugin) SetAPIKey(apiKey string) { p.config.APIKey = apiKey }

// PrepareRequest implements [ai.Plugin]. It builds the chat-completions
// payload with stream=true and returns the open response body.
func (p *Plugin) PrepareRequest(ctx context.Context, params ai.Params) (io.ReadCloser, error) {
	options := params.Options

	model := options.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	messages := make([]ai.Message, 0, 2)
	if params.SystemMessage != "" {
		messages = append(messages, ai.SystemMessage(params.SystemMessage))
	}
	messages = append(messages, ai.UserMessage(params.UserMessage))

	temperature := defaultTemperature
	if options.Temperature != nil {
		temperature = *options.Temperature
	}

	payload := map[string]any{
		"model":       model,
		"messages":    messages,
		"stream":      true,
		"temperature": temperature,
	}
	if options.MaxTokens > 0 {
		payload["max_tokens"] = options.MaxTokens
	}
	if options.TopP != nil {
		payload["top_p"] = *options.TopP
	}
	if options.FrequencyPenalty != nil {
		payload["frequency_penalty"] = *options.FrequencyPenalty
	}
	if options.PresencePenalty != nil {
		payload["presence_penalty"] = *options.PresencePenalty
	}
	for key, value := range options.Extra {
		payload[key] = value
	}

	return utils.DoPostStream(ctx, p.client, p.config.BaseURL+chatCompletionsEndpoint, p.config.APIKey, payload, p.config.ExtraHeaders...)
}

// chatCompletionChunk is the subset of the streaming chunk envelope the
// normalizer cares about.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ParseSSELine implements [ai.Plugin]. Lines without the "data:" prefix are
// framing noise; malformed JSON on a data line is swallowed so one corrupt
// frame cannot abort the stream.
func (p *Plugin) ParseSSELine(line string) ai.ParsedLine {
	data, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return ai.ParsedLine{}
	}
	data = strings.TrimSpace(data)

	if data == "[DONE]" {
		return ai.ParsedLine{Done: true}
	}

	var chunk chatCompletionChunk
	if err := utils.UnmarshalFrame(data, &chunk); err != nil {
		return ai.ParsedLine{}
	}
	if len(chunk.Choices) == 0 {
		return ai.ParsedLine{}
	}
	return ai.ParsedLine{Text: chunk.Choices[0].Delta.Content}
}
