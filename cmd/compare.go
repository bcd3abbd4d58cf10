package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brandon-schabel/octoprompt-sub007/core/stream"
	"github.com/brandon-schabel/octoprompt-sub007/core/tokens"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/observability"
)

var compareProviders []string

// compareResult is one provider's completed (or failed) run.
type compareResult struct {
	provider string
	text     string
	err      error
	elapsed  time.Duration
}

var compareCmd = &cobra.Command{
	Use:   "compare <prompt>",
	Short: "Send one prompt to several providers concurrently and compare outputs",
	Long: `compare fans the same prompt out to every provider named with --providers,
streams all of them concurrently, and prints each full answer with timing and
a token estimate once all streams finish. Streams are independent: one
provider failing does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")

		if len(compareProviders) == 0 {
			return fmt.Errorf("--providers requires at least one provider name")
		}

		plugins := make([]ai.Plugin, 0, len(compareProviders))
		for _, name := range compareProviders {
			plugin, err := buildPlugin(name)
			if err != nil {
				return err
			}
			plugins = append(plugins, plugin)
		}

		ctx := observability.ContextWithObserver(cmd.Context(), newObserver())

		waiting := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		waiting.Suffix = fmt.Sprintf(" streaming from %d providers...", len(plugins))
		waiting.Start()

		var mu sync.Mutex
		results := make([]compareResult, 0, len(plugins))

		group, groupCtx := errgroup.WithContext(ctx)
		for _, plugin := range plugins {
			plugin := plugin
			group.Go(func() error {
				start := time.Now()
				text, err := collectOne(groupCtx, plugin, prompt)

				mu.Lock()
				results = append(results, compareResult{
					provider: plugin.Name(),
					text:     text,
					err:      err,
					elapsed:  time.Since(start),
				})
				mu.Unlock()

				// Per-provider failures are reported, not propagated: one bad
				// credential must not cancel the remaining streams.
				return nil
			})
		}
		_ = group.Wait()
		waiting.Stop()

		header := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)
		failed := color.New(color.FgRed)

		for _, result := range results {
			fmt.Println()
			header.Printf("── %s ", result.provider)
			dim.Printf("(%s, ~%d tokens)\n", result.elapsed.Round(time.Millisecond), tokens.Estimate(result.text))
			if result.err != nil {
				failed.Printf("error: %v\n", result.err)
				if result.text != "" {
					dim.Printf("partial output: %s\n", result.text)
				}
				continue
			}
			fmt.Println(result.text)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareProviders, "providers", []string{"openai", "anthropic"}, "Comma-separated providers to fan out to")
}

// collectOne runs a single streaming exchange to completion and returns the
// full text, or the partial text alongside the error.
func collectOne(ctx context.Context, plugin ai.Plugin, prompt string) (string, error) {
	var text string
	var streamErr error

	out := stream.CreateStream(ctx, ai.StreamRequest{
		UserMessage:   prompt,
		SystemMessage: systemPrompt,
		Plugin:        plugin,
		Options:       buildOptions(),
		Handlers: ai.Handlers{
			OnDone: func(full ai.Message) {
				text = full.Content
			},
			OnError: func(err error, partial ai.Message) {
				streamErr = err
				text = partial.Content
			},
		},
	})

	// Drain the byte stream; the handlers carry the result. Draining also
	// keeps memory flat for long answers.
	_, _ = io.Copy(io.Discard, out)

	return text, streamErr
}
