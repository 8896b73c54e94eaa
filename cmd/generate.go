package cmd

import (
	"github.com/spf13/cobra"

	"github.com/giantswarm/prompt-lab/internal/generator"
	"github.com/giantswarm/prompt-lab/internal/prompt"
)

func newGenerateCmd() *cobra.Command {
	var (
		flags      clientFlags
		params     prompt.Params
		showPrompt bool
		noMarker   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <technique>",
		Short: "Render one prompting technique and send it to the model",
		Long: `Render a single technique, send it to the model and print the token usage
followed by the response. Unset parameters fall back to the technique's
built-in example. Run 'prompt-lab list techniques' for the available names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tech, err := prompt.Lookup(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := flags.withTimeout(cmd.Context())
			defer cancel()

			client, err := flags.newClient(ctx)
			if err != nil {
				return err
			}

			marker := firstStop(flags.stop)
			if noMarker {
				marker = ""
			}

			out := cmd.OutOrStdout()
			return runTechnique(ctx, generator.NewGenerator(client, out), tech, params, marker, showPrompt, out)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&params.Question, "question", "q", "", "Question or problem text")
	cmd.Flags().StringVar(&params.StudentName, "student-name", "", "Student name (dynamic)")
	cmd.Flags().StringVar(&params.Subject, "subject", "", "Subject (dynamic)")
	cmd.Flags().StringVar(&params.Level, "level", "", "Learner level (dynamic)")
	cmd.Flags().StringVar(&params.Topic, "topic", "", "Topic (dynamic)")
	cmd.Flags().StringVar(&params.Role, "role", "", "Role (framed)")
	cmd.Flags().StringVar(&params.Task, "task", "", "Task (framed)")
	cmd.Flags().StringVar(&params.Format, "format", "", "Answer format (framed)")
	cmd.Flags().StringSliceVar(&params.Constraints, "constraint", nil, "Constraint, repeatable (framed)")
	cmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "Print the rendered prompt before the response")
	cmd.Flags().BoolVar(&noMarker, "no-marker", false, "Do not append the stop sequence to the prompt")

	return cmd
}
