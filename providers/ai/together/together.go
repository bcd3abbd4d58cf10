// Package together provides the streaming plugin for Together's
// OpenAI-compatible API.
package together

import (
	"net/http"
	"os"

	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openaicompat"
)

const (
	defaultBaseURL = "https://api.together.xyz/v1"
	defaultModel   = "meta-llama/Llama-3.3-70B-Instruct-Turbo"
)

// Plugin implements ai.Plugin for Together.
type Plugin struct {
	*openaicompat.Plugin
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin initialized from TOGETHER_API_KEY and
// TOGETHER_API_BASE_URL.
func New() *Plugin {
	baseURL := os.Getenv("TOGETHER_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Plugin{openaicompat.New(openaicompat.Config{
		Vendor:       "together",
		BaseURL:      baseURL,
		APIKey:       os.Getenv("TOGETHER_API_KEY"),
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
