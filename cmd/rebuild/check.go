package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rebuild/internal/config"
	"rebuild/internal/diagfmt"
	"rebuild/internal/driver"
	"rebuild/internal/pipeline"
	"rebuild/internal/source"
	"rebuild/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] dir",
	Short: "Tokenize every .rebuild file under a directory",
	Long:  `check fans the lexical pipeline out across every .rebuild file under dir and reports per-file diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "worker pool size (default: GOMAXPROCS)")
	checkCmd.Flags().Bool("disk-cache", false, "cache tokenize results on disk, keyed by file content hash")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := args[0]

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	uiModeFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiModeFlag)
	if err != nil {
		return err
	}

	manifest, ok, err := config.LoadManifest(dir)
	if err != nil {
		return fmt.Errorf("loading rebuild.toml: %w", err)
	}
	if !ok {
		return fmt.Errorf("directory-mode check requires a rebuild.toml manifest under %s or a parent directory", dir)
	}
	cfg := manifest.Config
	if !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiagnostics = cfg.MaxDiagnosticsOrDefault()
	}

	files, err := listRebuildFilesForUI(dir)
	if err != nil {
		return err
	}

	opts := driver.CheckOptions{
		Scanner:         cfg.ScannerOptions(),
		MaxDiagnostics:  maxDiagnostics,
		EnableTimings:   timings,
		EnableDiskCache: diskCache,
		Jobs:            jobs,
	}

	var fileSet *source.FileSet
	var results []driver.FileResult
	var runErr error

	if shouldUseTUI(mode) && len(files) > 0 {
		events := make(chan pipeline.Event, 64)
		program := tea.NewProgram(ui.NewProgressModel("check "+dir, files, events))

		done := make(chan struct{})
		go func() {
			defer close(done)
			fileSet, results, runErr = driver.CheckDir(context.Background(), dir, opts, events)
			close(events)
		}()

		if _, teaErr := program.Run(); teaErr != nil {
			return teaErr
		}
		<-done
	} else {
		fileSet, results, runErr = driver.CheckDir(context.Background(), dir, opts, nil)
	}
	if runErr != nil {
		return fmt.Errorf("check failed: %w", runErr)
	}

	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))

	var failed, cacheHits, totalTokens int
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, res.Err)
			failed++
			continue
		}
		if res.CacheHit {
			cacheHits++
		}
		totalTokens += res.TokenCount
		if res.Bag.Len() > 0 {
			res.Bag.Sort()
			diagfmt.Pretty(os.Stderr, res.Bag, fileSet, diagfmt.PrettyOpts{Color: useColor, Context: 2})
		}
		if res.Bag.HasErrors() {
			failed++
		}
	}

	fmt.Fprintf(os.Stdout, "%d files checked, %d failed, %d tokens, %d cache hits\n",
		len(results), failed, totalTokens, cacheHits)
	if failed > 0 {
		return fmt.Errorf("%d file(s) had lexical errors", failed)
	}
	return nil
}

// listRebuildFilesForUI collects the same file set driver.CheckDir will
// tokenize, used only to size the progress model's file list before the
// driver run starts.
func listRebuildFilesForUI(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".rebuild") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
