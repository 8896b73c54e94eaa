package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/prompt-lab/internal/dataset"
	"github.com/giantswarm/prompt-lab/internal/prompt"
)

func newListCmd() *cobra.Command {
	var datasetsDir string

	cmd := &cobra.Command{
		Use:       "list [techniques|datasets]",
		Short:     "List prompting techniques and evaluation datasets",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"techniques", "datasets"},
		RunE: func(cmd *cobra.Command, args []string) error {
			what := ""
			if len(args) == 1 {
				what = args[0]
			}

			if what == "" || what == "techniques" {
				fmt.Printf("Available techniques:\n\n")
				for _, t := range prompt.Techniques() {
					fmt.Printf("  - %s\n", t.Name)
					fmt.Printf("    %s\n\n", t.Description)
				}
			}

			if what == "" || what == "datasets" {
				if err := listDatasets(datasetsDir); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetsDir, "datasets-dir", "", "External datasets directory")

	return cmd
}

func listDatasets(datasetsDir string) error {
	names, err := dataset.List(datasetsDir)
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No datasets found.")
		return nil
	}

	fmt.Printf("Available datasets:\n\n")
	for _, name := range names {
		ds, err := dataset.Load(name, datasetsDir)
		if err != nil {
			fmt.Printf("  - %s (error loading: %v)\n", name, err)
			continue
		}
		fmt.Printf("  - %s\n", name)
		fmt.Printf("    Name: %s\n", ds.Name)
		fmt.Printf("    Description: %s\n", ds.Description)
		fmt.Printf("    Judge mode: %s\n", judgeModeOrDefault(ds.JudgeMode))
		fmt.Printf("    Samples: %d\n\n", len(ds.Samples))
	}
	return nil
}

func judgeModeOrDefault(mode string) string {
	if mode == "" {
		return "binary"
	}
	return mode
}
