// Package cmd wires the streaming engine into a small CLI for exercising
// providers from the terminal.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/anthropic"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/gemini"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/groq"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/ollama"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/openrouter"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai/together"
	obsslog "github.com/brandon-schabel/octoprompt-sub007/providers/observability/slog"

	_ "github.com/joho/godotenv/autoload"
)

var (
	providerName string
	modelName    string
	systemPrompt string
	temperature  float64
	maxTokens    int
	verbose      bool
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "octostream",
	Short: "Stream chat completions from any supported LLM provider",
	Long: `octostream normalizes the streaming wire formats of OpenAI, Groq,
Together, OpenRouter, Anthropic, Gemini, and Ollama into a single
incremental text stream.

API keys are read from the environment (or a .env file):
  OPENAI_API_KEY, GROQ_API_KEY, TOGETHER_API_KEY, OPENROUTER_API_KEY,
  ANTHROPIC_API_KEY, GEMINI_API_KEY. Ollama needs none (OLLAMA_HOST
  to target a non-local server).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "p", "ollama", "Provider: openai|groq|together|openrouter|anthropic|gemini|ollama")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model identifier (provider default when empty)")
	rootCmd.PersistentFlags().StringVarP(&systemPrompt, "system", "s", "", "System message")
	rootCmd.PersistentFlags().Float64VarP(&temperature, "temperature", "t", -1, "Sampling temperature (provider default when negative)")
	rootCmd.PersistentFlags().IntVar(&maxTokens, "max-tokens", 0, "Maximum tokens to generate (provider default when 0)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log stream lifecycle at debug level")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Trace raw wire lines (implies --verbose)")

	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(providersCmd)
}

// Execute is the entry point called from main.
func Execute() error {
	return rootCmd.Execute()
}

// buildPlugin maps a provider name to its plugin. This switch lives in the
// caller layer on purpose: the engine itself never branches on vendor identity.
func buildPlugin(name string) (ai.Plugin, error) {
	switch name {
	case "openai":
		return openai.New(), nil
	case "groq":
		return groq.New(), nil
	case "together":
		return together.New(), nil
	case "openrouter":
		return openrouter.New(), nil
	case "anthropic":
		return anthropic.New(), nil
	case "gemini":
		return gemini.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// buildOptions translates the shared flags into engine options.
func buildOptions() ai.Options {
	options := ai.Options{
		Model:     modelName,
		MaxTokens: maxTokens,
		Debug:     debug,
	}
	if temperature >= 0 {
		options.Temperature = &temperature
	}
	return options
}

// newObserver returns a slog-backed observer honoring --verbose/--debug.
func newObserver() *obsslog.Observer {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if debug {
		level = obsslog.LevelTrace
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return obsslog.New(slog.New(handler))
}
