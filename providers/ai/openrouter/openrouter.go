// Package openrouter provides the streaming plugin for OpenRouter's
// OpenAI-compatible API. OpenRouter additionally accepts attribution headers
// (HTTP-Referer and X-Title) which rank the calling app on their leaderboard;
// both are optional and sourced from the environment.
package openrouter

import (
	"net/http"
	"os"

	"github.com/brandon-schabel/octoprompt-sub007/internal/utils"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openaicompat"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openrouter/auto"
)

// Plugin implements ai.Plugin for OpenRouter.
type Plugin struct {
	*openaicompat.Plugin
}

var _ ai.Plugin = (*Plugin)(nil)

// New returns a Plugin initialized from OPENROUTER_API_KEY and
// OPENROUTER_API_BASE_URL, with optional OPENROUTER_SITE_URL and
// OPENROUTER_APP_NAME attribution.
func New() *Plugin {
	baseURL := os.Getenv("OPENROUTER_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var extraHeaders []utils.HeaderOption
	if siteURL := os.Getenv("OPENROUTER_SITE_URL"); siteURL != "" {
		extraHeaders = append(extraHeaders, utils.HeaderOption{Key: "HTTP-Referer", Value: siteURL})
	}
	if appName := os.Getenv("OPENROUTER_APP_NAME"); appName != "" {
		extraHeaders = append(extraHeaders, utils.HeaderOption{Key: "X-Title", Value: appName})
	}

	return &Plugin{openaicompat.New(openaicompat.Config{
		Vendor:       "openrouter",
		BaseURL:      baseURL,
		APIKey:       os.Getenv("OPENROUTER_API_KEY"),
		DefaultModel: defaultModel,
		ExtraHeaders: extraHeaders,
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
