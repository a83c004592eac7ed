package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rebuild/internal/config"
	"rebuild/internal/diagfmt"
	"rebuild/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.rebuild",
	Short: "Tokenize a Rebuild source file",
	Long:  `Tokenize breaks down a Rebuild source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg := config.Default()
	if manifest, ok, err := config.LoadManifest(filepath.Dir(filePath)); err == nil && ok {
		cfg = manifest.Config
	}
	if !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiagnostics = cfg.MaxDiagnosticsOrDefault()
	}

	result, err := driver.Tokenize(filePath, driver.TokenizeOptions{
		Scanner:        cfg.ScannerOptions(),
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  timings,
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		result.Bag.Sort()
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
		useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))
		opts := diagfmt.PrettyOpts{
			Color:   useColor,
			Context: 2,
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Root, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Root)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
