package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/giantswarm/prompt-lab/internal/generator"
	"github.com/giantswarm/prompt-lab/internal/llm"
	"github.com/giantswarm/prompt-lab/internal/prompt"
)

func newDemoCmd() *cobra.Command {
	var (
		flags      clientFlags
		showPrompt bool
		keepGoing  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run every prompting technique with its built-in example",
		Long: `Render each registered technique with its default parameters, send it to
the model and print the token usage followed by the response, each under a
banner naming the technique.

The first stop sequence is appended to each prompt as an end marker.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := flags.withTimeout(cmd.Context())
			defer cancel()

			client, err := flags.newClient(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			gen := generator.NewGenerator(client, out)
			marker := firstStop(flags.stop)

			var failed int
			for _, tech := range prompt.Techniques() {
				if err := runTechnique(ctx, gen, tech, prompt.Params{}, marker, showPrompt, out); err != nil {
					if !keepGoing {
						return err
					}
					failed++
					slog.Error("technique failed", "technique", tech.Name, "error", err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d techniques failed", failed, len(prompt.Techniques()))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "Print each rendered prompt before its response")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue with the next technique when one fails")

	return cmd
}

// runTechnique renders tech, generates a response and prints it under a
// banner. The generator prints the usage line ahead of the text.
func runTechnique(ctx context.Context, gen *generator.Generator, tech prompt.Technique, params prompt.Params, marker string, showPrompt bool, out io.Writer) error {
	text, err := tech.Render(params)
	if err != nil {
		return fmt.Errorf("failed to render %s prompt: %w", tech.Name, err)
	}
	text = prompt.WithStopMarker(text, marker)

	fmt.Fprintf(out, "\n========== %s ==========\n", tech.Title)
	if showPrompt {
		fmt.Fprintf(out, "PROMPT:\n%s\n\n", text)
	}

	resp, err := gen.Generate(ctx, llm.Request{Prompt: text})
	if err != nil {
		return fmt.Errorf("%s generation failed: %w", tech.Name, err)
	}
	fmt.Fprintln(out, resp.Text)
	return nil
}

func firstStop(stops []string) string {
	for _, s := range stops {
		if s != "" {
			return s
		}
	}
	return ""
}
