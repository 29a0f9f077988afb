// Package cli wires the corun command-line tool with cobra: a single
// package-level rootCmd, subcommands registered as
// package-level vars added in their own init, and an exported Execute
// entry point called from main.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "corun",
	Short: "Drive a cooperative coroutine scheduler from a YAML scenario",
	Long: `corun loads a scenario file describing a set of coroutine threads and
drives them to completion, or captures and inspects a snapshot of their
live state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// Execute runs the corun root command, printing any error to stderr and
// exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "corun: %v\n", err)
		os.Exit(1)
	}
}
