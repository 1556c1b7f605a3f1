package cmd

import (
	"log"

	"github.com/josephlewis42/relaysh/core/config"
	"github.com/spf13/cobra"
)

// initCmd intializes the shell configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write the default configuration to DIR (default $HOME/.relaysh).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		dir := configPath()
		if len(args) > 0 {
			dir = args[0]
		}
		return config.Initialize(dir, logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
