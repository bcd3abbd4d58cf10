package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/brandon-schabel/octoprompt-sub007/core/stream"
	"github.com/brandon-schabel/octoprompt-sub007/core/tokens"
	"github.com/brandon-schabel/octoprompt-sub007/providers/ai"
	"github.com/brandon-schabel/octoprompt-sub007/providers/observability"
)

var streamCmd = &cobra.Command{
	Use:   "stream <prompt>",
	Short: "Stream one completion and print it incrementally",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")

		plugin, err := buildPlugin(providerName)
		if err != nil {
			return err
		}

		ctx := observability.ContextWithObserver(cmd.Context(), newObserver())

		dim := color.New(color.FgHiBlack)
		waiting := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		waiting.Suffix = " waiting for first token..."
		waiting.Start()

		firstToken := true
		var streamErr error
		var fullText string

		out := stream.CreateStream(ctx, ai.StreamRequest{
			UserMessage:   prompt,
			SystemMessage: systemPrompt,
			Plugin:        plugin,
			Options:       buildOptions(),
			Handlers: ai.Handlers{
				OnPartial: func(fragment ai.Message) {
					if firstToken {
						waiting.Stop()
						firstToken = false
					}
				},
				OnDone: func(full ai.Message) {
					fullText = full.Content
				},
				OnError: func(err error, partial ai.Message) {
					streamErr = err
					fullText = partial.Content
				},
			},
		})

		// The handlers drive the spinner; the byte stream drives stdout.
		written, copyErr := io.Copy(os.Stdout, out)
		waiting.Stop()
		fmt.Println()

		if streamErr != nil {
			if written > 0 {
				dim.Fprintf(os.Stderr, "(incomplete: %d bytes received before failure)\n", written)
			}
			return streamErr
		}
		if copyErr != nil && !errors.Is(copyErr, io.EOF) {
			return copyErr
		}

		if verbose {
			dim.Fprintf(os.Stderr, "~%d tokens, %d bytes\n", tokens.Estimate(fullText), written)
		}
		return nil
	},
}
