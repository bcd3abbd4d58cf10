// Package ollama provides the streaming plugin for a local Ollama server.
//
// Ollama does not speak SSE: the /api/chat endpoint emits newline-delimited
// JSON objects with no "data:" prefix and no end-of-stream sentinel. Each line
// wraps content at message.content; closure of the HTTP connection is the
// completion signal.
package ollama

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
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2"

	chatEndpoint = "/api/chat"
)

// Plugin implements ai.Plugin for Ollama.
type Plugin struct {
	baseURL string
	client  *http.Client
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin targeting OLLAMA_HOST, defaulting to the standard
// local server address. Ollama needs no credentials.
func New() *Plugin {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Plugin{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements ai.Plugin.
func (p *Plugin) Name() string { return "ollama" }

// WithBaseURL overrides the server address and returns the plugin.
func (p *Plugin) WithBaseURL(baseURL string) *Plugin {
	p.baseURL = baseURL
	return p
}

// WithHTTPClient replaces the default http.Client and returns the plugin.
func (p *Plugin) WithHTTPClient(client *http.Client) *Plugin {
	p.client = client
	return p
}

// PrepareRequest implements ai.Plugin. Sampling parameters ride in the
// "options" object per Ollama's modelfile parameter names.
func (p *Plugin) PrepareRequest(ctx context.Context, params ai.Params) (io.ReadCloser, error) {
	options := params.Options

	model := options.Model
	if model == "" {
		model = defaultModel
	}

	messages := make([]ai.Message, 0, 2)
	if params.SystemMessage != "" {
		messages = append(messages, ai.SystemMessage(params.SystemMessage))
	}
	messages = append(messages, ai.UserMessage(params.UserMessage))

	modelOptions := map[string]any{}
	if options.Temperature != nil {
		modelOptions["temperature"] = *options.Temperature
	}
	if options.MaxTokens > 0 {
		modelOptions["num_predict"] = options.MaxTokens
	}
	if options.TopP != nil {
		modelOptions["top_p"] = *options.TopP
	}
	if options.TopK > 0 {
		modelOptions["top_k"] = options.TopK
	}

	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   true,
	}
	if len(modelOptions) > 0 {
		payload["options"] = modelOptions
	}
	for key, value := range options.Extra {
		payload[key] = value
	}

	return utils.DoPostStream(ctx, p.client, p.baseURL+chatEndpoint, "", payload)
}

// chatChunk is one NDJSON line from /api/chat. The done flag is carried on
// every line but completion is signalled by EOF, so it is not mapped to the
// sentinel here.
type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// ParseSSELine implements ai.Plugin. Every line is expected to be a bare JSON
// object; lines that fail to parse are skipped.
func (p *Plugin) ParseSSELine(line string) ai.ParsedLine {
	// A "data:" prefix would mean something upstream re-framed the stream as
	// SSE; tolerate it rather than dropping the content.
	data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

	var chunk chatChunk
	if err := utils.UnmarshalFrame(data, &chunk); err != nil {
		return ai.ParsedLine{}
	}
	return ai.ParsedLine{Text: chunk.Message.Content}
}
