package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"rebuild/internal/diag"
	"rebuild/internal/pipeline"
	"rebuild/internal/scanner"
	"rebuild/internal/source"
	"rebuild/internal/token"
)

// CheckOptions configures a CheckDir run.
type CheckOptions struct {
	Scanner         scanner.Options
	MaxDiagnostics  int
	EnableTimings   bool
	EnableDiskCache bool
	Jobs            int
}

// FileResult is one file's outcome from a CheckDir run.
type FileResult struct {
	Path       string
	FileID     source.FileID
	Root       *token.BlockLiteralValue
	Bag        *diag.Bag
	TokenCount int
	CacheHit   bool
	Err        error
}

// CheckDir tokenizes every *.rebuild file under dir, fanning the
// (single-threaded-per-file) pipeline out across a bounded worker pool:
// every file is loaded into one shared, read-only-after-setup FileSet up
// front, then each worker owns exactly one file's pipeline instance at a
// time, writing its own slot of the pre-sized results slice. If events is
// non-nil, one pipeline.Event is sent per file as it starts and finishes.
func CheckDir(ctx context.Context, dir string, opts CheckOptions, events chan<- pipeline.Event) (*source.FileSet, []FileResult, error) {
	files, err := listRebuildFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, p := range files {
		id, loadErr := fileSet.Load(p)
		if loadErr != nil {
			loadErrors[p] = loadErr
			continue
		}
		fileIDs[p] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var dcache *DiskCache
	if opts.EnableDiskCache {
		dcache, err = OpenDiskCache("rebuild")
		if err != nil {
			return nil, nil, err
		}
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	tokenizeOpts := TokenizeOptions{Scanner: opts.Scanner, MaxDiagnostics: opts.MaxDiagnostics, EnableTimings: opts.EnableTimings}

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			sendEvent(events, pipeline.Event{File: path, Stage: pipeline.StageScan, Status: pipeline.StatusWorking})

			if loadErr, hadErr := loadErrors[path]; hadErr {
				results[i] = FileResult{Path: path, Err: loadErr}
				sendEvent(events, pipeline.Event{File: path, Stage: pipeline.StageReport, Status: pipeline.StatusError})
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)
			bag := diag.NewBag(opts.MaxDiagnostics)

			var root *token.BlockLiteralValue
			var tokenCount int
			cacheHit := false

			if dcache != nil {
				if cached, hit, cacheErr := dcache.Get(file.Hash, fileID); cacheErr == nil && hit {
					for _, d := range cached.Diagnostics {
						bag.Add(d)
					}
					tokenCount = cached.TokenCount
					cacheHit = true
				}
			}

			if !cacheHit {
				root = RunFile(file, tokenizeOpts, bag)
				tokenCount = CountTokens(root)
				if dcache != nil {
					_ = dcache.Put(file.Hash, buildCachedResult(file, bag, tokenCount))
				}
			}

			results[i] = FileResult{
				Path:       path,
				FileID:     fileID,
				Root:       root,
				Bag:        bag,
				TokenCount: tokenCount,
				CacheHit:   cacheHit,
			}

			status := pipeline.StatusDone
			if bag.HasErrors() {
				status = pipeline.StatusError
			}
			sendEvent(events, pipeline.Event{File: path, Stage: pipeline.StageReport, Status: status})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func sendEvent(events chan<- pipeline.Event, ev pipeline.Event) {
	if events == nil {
		return
	}
	events <- ev
}

// listRebuildFiles walks dir collecting every *.rebuild file, sorted for
// deterministic result ordering.
func listRebuildFiles(dir string) ([]string, error) {
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
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
