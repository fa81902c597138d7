package cmd

import (
	"os"

	"github.com/kkeeling/pr-generator-cli/config"
	"github.com/kkeeling/pr-generator-cli/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the pr-generator command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "pr-generator",
		Short: "Generate a PR description from the current branch using AI",
		Long: `Generate a PR description using AI and copy it to the clipboard.

Compares the current branch against a comparison branch (default: main),
sends the diff wrapped in a prompt template to the model, and prints the
generated description.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &UsageError{Err: err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
			logger.Debugf("Log level set to: %s", logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			return runGenerate(cmd, d)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logger.DefaultLevel,
		"Set the logging level (debug, info, warn, error)")
	config.AddFlags(rootCmd.Flags())

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and reports any error on stderr
func Execute() error {
	return execute(NewRootCmd(), os.Args[1:])
}

func execute(rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}
