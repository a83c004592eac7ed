package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rebuild/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild lexical pipeline toolchain",
	Long:  `rebuild tokenizes and diagnoses Rebuild language source files.`,
}

// main wires the command version, registers subcommands and persistent
// flags, and executes the root command. If execution returns an error,
// the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 200, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI for multi-file runs (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
