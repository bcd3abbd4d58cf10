// Package gemini provides the streaming plugin for Google's Gemini API.
//
// Gemini streams over SSE when the streamGenerateContent endpoint is called
// with alt=sse. The credential travels as a query-string key. Events carry
// candidates[0].content.parts[].text and there is no explicit end-of-stream
// sentinel; connection closure is the completion signal.
package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/brandon-schabel/octoprompt-sub007/internal/utils"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

// Plugin implements ai.Plugin for Gemini.
type Plugin struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin initialized from GEMINI_API_KEY and GEMINI_API_BASE_URL.
func New() *Plugin {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Plugin{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name implements ai.Plugin.
func (p *Plugin) Name() string { return "gemini" }

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

// PrepareRequest implements ai.Plugin. Gemini has no message roles in the
// OpenAI sense: the user turn goes into contents and the system message into
// systemInstruction, both as parts arrays.
func (p *Plugin) PrepareRequest(ctx context.Context, params ai.Params) (io.ReadCloser, error) {
	options := params.Options

	model := options.Model
	if model == "" {
		model = defaultModel
	}

	generationConfig := map[string]any{}
	if options.Temperature != nil {
		generationConfig["temperature"] = *options.Temperature
	}
	if options.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = options.MaxTokens
	}
	if options.TopP != nil {
		generationConfig["topP"] = *options.TopP
	}
	if options.TopK > 0 {
		generationConfig["topK"] = options.TopK
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": params.UserMessage}}},
		},
	}
	if params.SystemMessage != "" {
		payload["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": params.SystemMessage}},
		}
	}
	if len(generationConfig) > 0 {
		payload["generationConfig"] = generationConfig
	}
	for key, value := range options.Extra {
		payload[key] = value
	}

	streamURL := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s",
		p.baseURL, model, url.QueryEscape(p.apiKey))

	// Empty apiKey argument: the credential already rides the query string.
	return utils.DoPostStream(ctx, p.client, streamURL, "", payload)
}

// generateContentChunk is the subset of Gemini's streaming response envelope
// carrying text parts.
type generateContentChunk struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ParseSSELine implements ai.Plugin. Text is concatenated across all parts of
// the first candidate. Gemini never emits a done sentinel; stream EOF is the
// completion signal.
func (p *Plugin) ParseSSELine(line string) ai.ParsedLine {
	data, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return ai.ParsedLine{}
	}
	data = strings.TrimSpace(data)

	var chunk generateContentChunk
	if err := utils.UnmarshalFrame(data, &chunk); err != nil {
		return ai.ParsedLine{}
	}
	if len(chunk.Candidates) == 0 {
		return ai.ParsedLine{}
	}

	var text strings.Builder
	for _, part := range chunk.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return ai.ParsedLine{Text: text.String()}
}
