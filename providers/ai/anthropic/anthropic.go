// Package anthropic provides the streaming plugin for Anthropic's Messages API.
//
// Anthropic authenticates with an x-api-key header (not a Bearer token) and
// version-locks the wire format with an anthropic-version header. Streaming
// content arrives as "content_block_delta" events carrying delta.text.
package anthropic

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/brandon-schabel/octoprompt-sub007/internal/utils"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"

	// messagesEndpoint is the path for the Messages API endpoint.
	messagesEndpoint = "/messages"

	// anthropicVersion is the required anthropic-version header value.
	anthropicVersion = "2023-06-01"

	defaultModel = "claude-3-5-haiku-latest"

	// Anthropic requires max_tokens; these defaults apply when the caller
	// leaves the options unset.
	defaultMaxTokens   = 1024
	defaultTemperature = 1.0
)

// Plugin implements ai.Plugin for Anthropic.
type Plugin struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin initialized from ANTHROPIC_API_KEY and
// ANTHROPIC_API_BASE_URL.
func New() *Plugin {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Plugin{
		apiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements ai.Plugin.
func (p *Plugin) Name() string { return "anthropic" }

// WithAPIKey sets the API key and returns the plugin so calls can be chained.
func (p *Plugin) WithAPIKey(apiKey string) *Plugin {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the plugin.
func (p *Plugin) WithBaseURL(baseURL string) *Plugin {
	p.baseURL = baseURL
	return p
}

// WithHTTPClient replaces the default http.Client and returns the plugin.
func (p *Plugin) WithHTTPClient(client *http.Client) *Plugin {
	p.client = client
	return p
}

// PrepareRequest implements ai.Plugin. The system prompt travels in the
// top-level "system" field, not in the messages array.
func (p *Plugin) PrepareRequest(ctx context.Context, params ai.Params) (io.ReadCloser, error) {
	options := params.Options

	model := options.Model
	if model == "" {
		model = defaultModel
	}

	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	temperature := defaultTemperature
	if options.Temperature != nil {
		temperature = *options.Temperature
	}

	payload := map[string]any{
		"model":       model,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages":    []ai.Message{ai.UserMessage(params.UserMessage)},
		"stream":      true,
	}
	if params.SystemMessage != "" {
		payload["system"] = params.SystemMessage
	}
	if options.TopP != nil {
		payload["top_p"] = *options.TopP
	}
	if options.TopK > 0 {
		payload["top_k"] = options.TopK
	}
	for key, value := range options.Extra {
		payload[key] = value
	}

	// Empty apiKey argument keeps DoPostStream from injecting a Bearer token;
	// Anthropic authenticates via x-api-key.
	headers := []utils.HeaderOption{
		{Key: "x-api-key", Value: p.apiKey},
		{Key: "anthropic-version", Value: anthropicVersion},
	}

	return utils.DoPostStream(ctx, p.client, p.baseURL+messagesEndpoint, "", payload, headers...)
}

// streamEvent is the envelope for Anthropic SSE payloads. Type discriminates
// which fields are populated; only content_block_delta carries text.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// ParseSSELine implements ai.Plugin. Both the engine-level "[DONE]" sentinel
// and Anthropic's own "message_stop" event are treated as terminal, so the
// plugin completes correctly whether the upstream is Anthropic itself or a
// proxy that appends the OpenAI-style sentinel.
func (p *Plugin) ParseSSELine(line string) ai.ParsedLine {
	data, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return ai.ParsedLine{}
	}
	data = strings.TrimSpace(data)

	if data == "[DONE]" {
		return ai.ParsedLine{Done: true}
	}

	var event streamEvent
	if err := utils.UnmarshalFrame(data, &event); err != nil {
		return ai.ParsedLine{}
	}

	switch event.Type {
	case "content_block_delta":
		return ai.ParsedLine{Text: event.Delta.Text}
	case "message_stop":
		return ai.ParsedLine{Done: true}
	default:
		// message_start, ping, content_block_start/stop, message_delta:
		// framing and metadata, no normalized content.
		return ai.ParsedLine{}
	}
}
