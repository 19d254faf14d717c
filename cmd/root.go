package cmd

import (
	"github.com/bitrise-io/bitrise-plugins-ai-testgen/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ai-testgen",
	Short: "Bitrise AI Testgen - A plugin for generating tests using AI",
	Long: `Bitrise AI Testgen is a CLI plugin for the Bitrise CLI that generates test code using AI.
It collects the source files of a project, sends them to a chat completion API and writes
the returned test code to a file.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior when no subcommands are provided
		cmd.Help()
	},
}

// Execute runs the root command and handles errors
func Execute() error {
	// Subcommands are added in their respective init() functions
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all subcommands
	rootCmd.PersistentFlags().String("log-level", config.DefaultConfig.LogLevel,
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().String("log-file", config.DefaultConfig.LogFile,
		"Path of the rolling log file, empty disables file logging")
}
