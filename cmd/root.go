package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prompt-lab",
	Short: "Prompt engineering demos and LLM-as-judge evaluation",
	Long: `prompt-lab renders prompting techniques (zero-shot, few-shot, dynamic,
chain-of-thought, framed and structured prompts), sends them to a hosted model
and reports token usage. It also evaluates a model over a dataset of
question/expected-answer samples, using a second model call as the judge.

All functionality is also exposed via an MCP server ('prompt-lab serve').`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}

		envFile, _ := cmd.Flags().GetString("env-file")
		return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
	},
}

var (
	buildCommit = "unknown"
	buildDate   = "unknown"
)

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// SetBuildInfo sets the commit and build date for the version command.
func SetBuildInfo(commit, date string) {
	buildCommit = commit
	buildDate = date
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "prompt-lab version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables that are
// already set. A missing default file is fine; a missing explicit one is not.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newListCmd())

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional file of KEY=VALUE pairs loaded into the environment")
}
