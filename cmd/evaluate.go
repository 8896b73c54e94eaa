package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/giantswarm/prompt-lab/internal/dataset"
	"github.com/giantswarm/prompt-lab/internal/evaluation"
	"github.com/giantswarm/prompt-lab/internal/judge"
)

func newEvaluateCmd() *cobra.Command {
	var (
		flags         clientFlags
		judgeProvider string
		judgeModel    string
		judgeMode     string
		passThreshold int
		failFast      bool
		outputDir     string
		datasetsDir   string
	)

	cmd := &cobra.Command{
		Use:   "evaluate [dataset]",
		Short: "Answer a dataset with the model and judge every answer",
		Long: `For each sample of the dataset, in order, ask the model the question and
then ask the judge whether the answer matches the expected answer. Each sample
is printed as soon as it completes, followed by a summary.

A failed sample is recorded and the run continues, unless --fail-fast is set.
With --output-dir, results.txt and report.json are written per run.

The judge shares the answer client unless --judge-provider names another
provider, whose key is then read from its environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := dataset.DefaultName
			if len(args) == 1 {
				name = args[0]
			}

			ds, err := dataset.Load(name, datasetsDir)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}

			ctx, cancel := flags.withTimeout(cmd.Context())
			defer cancel()

			client, err := flags.newClient(ctx)
			if err != nil {
				return err
			}

			opts := evaluation.Options{
				Model:         flags.model,
				JudgeMode:     judgeMode,
				PassThreshold: passThreshold,
				FailFast:      failFast,
				OutputDir:     outputDir,
			}

			// A separate judge client only when the judge provider differs.
			if judgeProvider != "" && judgeProvider != flags.provider {
				jf := flags
				jf.provider = judgeProvider
				jf.apiKey = ""
				jf.endpoint = ""
				jf.model = judgeModel
				judgeClient, err := jf.newClient(ctx)
				if err != nil {
					return fmt.Errorf("judge: %w", err)
				}
				opts.JudgeClient = judgeClient
			}
			opts.JudgeModel = judgeModel

			fmt.Fprintf(cmd.OutOrStdout(), "Dataset: %s\n", ds.Name)
			if ds.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Description: %s\n", ds.Description)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Samples: %d\n\n", len(ds.Samples))

			e := evaluation.NewEvaluator(client, cmd.OutOrStdout(), opts)
			e.SetProgressFunc(func(idx, total int) {
				slog.Debug("evaluating sample", "sample", idx, "total", total)
			})

			report, err := e.Run(ctx, ds)
			if report != nil && report.ReportFile != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nRun ID: %s\nReport: %s\n", report.ID, report.ReportFile)
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&judgeProvider, "judge-provider", "", "Judge provider (default: --provider)")
	cmd.Flags().StringVar(&judgeModel, "judge-model", "", "Judge model; defaults to the answer model")
	cmd.Flags().StringVar(&judgeMode, "judge-mode", "", "Judge vocabulary: binary or score (default: from the dataset)")
	cmd.Flags().IntVar(&passThreshold, "pass-threshold", judge.DefaultPassThreshold, "Lowest passing score in score mode")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed sample")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for results.txt and report.json (optional)")
	cmd.Flags().StringVar(&datasetsDir, "datasets-dir", "", "External datasets directory")

	return cmd
}
