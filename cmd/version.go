package cmd

import (
	"fmt"

	"github.com/kkeeling/pr-generator-cli/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Display the version of pr-generator`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pr-generator v%s\n", version.Version)
		},
	}
}
