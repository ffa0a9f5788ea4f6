package cli

import (
	"github.com/spf13/cobra"

	"cpd/internal/structures"
)

// NewRootCmd builds the cpd command tree. Flags are shared by every
// subcommand through flags.
func NewRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:           "cpd",
		Short:         "Coding progress dashboard",
		Long:          "cpd tracks solved-problem statistics across LeetCode, GeeksforGeeks, HackerRank, Codeforces and CodeChef.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "Path to config file")
	root.PersistentFlags().StringVar(&flags.EnvFile, "env-file", ".env", "Optional .env file loaded before the config")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Log to the console as well")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newOnboardCmd(flags))
	return root
}
