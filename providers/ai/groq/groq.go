// Package groq provides the streaming plugin for Groq's OpenAI-compatible API.
package groq

import (
	"net/http"
	"os"

	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openaicompat"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
)

// Plugin implements ai.Plugin for Groq.
type Plugin struct {
	*openaicompat.Plugin
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin initialized from GROQ_API_KEY and GROQ_API_BASE_URL.
func New() *Plugin {
	baseURL := os.Getenv("GROQ_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Plugin{openaicompat.New(openaicompat.Config{
		Vendor:       "groq",
		BaseURL:      baseURL,
		APIKey:       os.Getenv("GROQ_API_KEY"),
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
