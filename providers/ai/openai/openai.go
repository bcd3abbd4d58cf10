// Package openai provides the streaming plugin for the OpenAI API.
package openai

import (
	"net/http"
	"os"

	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openaicompat"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Plugin implements ai.Plugin for OpenAI chat completions.
type Plugin struct {
	*openaicompat.Plugin
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin initialized from the environment. It reads
// OPENAI_API_KEY for authentication and OPENAI_API_BASE_URL for the endpoint
// base (defaulting to the public API when unset).
func New() *Plugin {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Plugin{openaicompat.New(openaicompat.Config{
		Vendor:       "openai",
		BaseURL:      baseURL,
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		DefaultModel: defaultModel,
	})}
}

// WithAPIKey sets the API key and returns the plugin so calls can be chained.
func (p *Plugin) WithAPIKey(apiKey string) *Plugin {
	p.SetAPIKey(apiKey)
	return p
}

// WithBaseURL overrides the API base URL and returns the plugin.
func (p *Plugin) WithBaseURL(baseURL string) *Plugin {
	p.SetBaseURL(baseURL)
	return p
}

// WithHTTPClient replaces the default http.Client and returns the plugin.
func (p *Plugin) WithHTTPClient(client *http.Client) *Plugin {
	p.SetHTTPClient(client)
	return p
}
