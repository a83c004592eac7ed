package driver

import (
	"time"

	"rebuild/internal/diag"
	"rebuild/internal/filter"
	"rebuild/internal/nesting"
	"rebuild/internal/report"
	"rebuild/internal/scanner"
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// TokenizeResult is the output of running the full lexical pipeline
// (scan, filter, nest, report) over one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *token.BlockLiteralValue
	Bag     *diag.Bag
}

// TokenizeOptions configures a Tokenize run.
type TokenizeOptions struct {
	Scanner        scanner.Options
	MaxDiagnostics int
	EnableTimings  bool
}

// Tokenize runs the complete lexical pipeline over the file at path:
// scanner produces the raw token stream, filter rewrites it, nesting
// assembles it into a block tree, and report folds every error found
// along the way into a diag.Bag capped at opts.MaxDiagnostics entries.
// If opts.EnableTimings is set, a driver-group diagnostic carrying a
// per-phase timing breakdown is folded into the same bag.
func Tokenize(path string, opts TokenizeOptions) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)
	root := RunFile(file, opts, bag)

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Root:    root,
		Bag:     bag,
	}, nil
}

// RunFile runs the scan/filter/nest/report stages over a file that has
// already been loaded into a FileSet, folding every diagnostic found into
// bag. This is the shared core behind both the single-file Tokenize above
// and the multi-file CheckDir driver, which loads every file into one
// shared FileSet up front and then fans out a RunFile call per worker.
func RunFile(file *source.File, opts TokenizeOptions, bag *diag.Bag) *token.BlockLiteralValue {
	var phases []PhaseDuration
	begin := func() time.Time {
		if !opts.EnableTimings {
			return time.Time{}
		}
		return time.Now()
	}
	end := func(start time.Time, name string) {
		if !opts.EnableTimings {
			return
		}
		phases = append(phases, PhaseDuration{Name: name, MS: float64(time.Since(start).Microseconds()) / 1000})
	}

	runStart := begin()

	scanStart := begin()
	sc := scanner.New(file, opts.Scanner)
	flt := filter.New(sc)
	var toks []*token.Token
	for {
		tok := flt.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
	}
	end(scanStart, "scan_and_filter")

	nestStart := begin()
	root := nesting.Run(toks)
	end(nestStart, "nest")

	reportStart := begin()
	report.Run(file, root, bag)
	end(reportStart, "report")

	if opts.EnableTimings {
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "file",
			Path:    file.Path,
			TotalMS: float64(time.Since(runStart).Microseconds()) / 1000,
			Phases:  phases,
		})
	}

	return root
}

// CountTokens returns the number of significant tokens in a block tree,
// recursing into nested BlockLiteral values.
func CountTokens(root *token.BlockLiteralValue) int {
	if root == nil {
		return 0
	}
	count := 0
	for _, line := range root.Lines {
		for _, t := range line.Tokens {
			count++
			if t.Kind == token.BlockLiteral {
				count += CountTokens(t.Block)
			}
		}
	}
	return count
}
