// Package cli implements the hookrun commands.
package cli

import "github.com/spf13/cobra"

// NewRootCmd creates the hookrun root command with its subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hookrun",
		Short: "Run scripted hook pipelines",
		Long: `hookrun runs a target script wrapped with hook scripts:
- middleware mode: hooks call next() to continue, may rewrite arguments or stop
- sequential mode: hooks run before and after the target, in order`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		NewRunCmd(),
		NewVersionCmd(),
	)

	return cmd
}
