package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// builtinProviders describes every built-in plugin: name, auth scheme, framing.
var builtinProviders = []struct {
	name    string
	auth    string
	framing string
}{
	{"openai", "Bearer OPENAI_API_KEY", "SSE, choices[0].delta.content, [DONE] sentinel"},
	{"groq", "Bearer GROQ_API_KEY", "SSE, choices[0].delta.content, [DONE] sentinel"},
	{"together", "Bearer TOGETHER_API_KEY", "SSE, choices[0].delta.content, [DONE] sentinel"},
	{"openrouter", "Bearer OPENROUTER_API_KEY", "SSE, choices[0].delta.content, [DONE] sentinel"},
	{"anthropic", "x-api-key ANTHROPIC_API_KEY", "SSE, content_block_delta delta.text, message_stop"},
	{"gemini", "query key GEMINI_API_KEY", "SSE, candidates[0].content.parts[].text, EOF"},
	{"ollama", "none (OLLAMA_HOST)", "NDJSON, message.content, EOF"},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List built-in providers and their wire formats",
	Run: func(cmd *cobra.Command, args []string) {
		bold := color.New(color.Bold)
		dim := color.New(color.FgHiBlack)
		for _, provider := range builtinProviders {
			bold.Printf("%-12s", provider.name)
			fmt.Printf(" %s\n", provider.auth)
			dim.Printf("             %s\n", provider.framing)
		}
	},
}
