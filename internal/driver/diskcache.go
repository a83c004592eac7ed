package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"rebuild/internal/diag"
	"rebuild/internal/source"
)

// diskCacheSchemaVersion guards against loading a CachedResult written by
// an older, incompatible version of this payload shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache holds content-hash-keyed tokenize-plus-diagnostics results on
// disk, so a directory-wide check run skips re-scanning files that have
// not changed since the last run. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is what gets serialized per file. Diagnostics are cached
// verbatim; their SourceCodeBlock.ExcerptSpan.File fields are remapped to
// the current run's FileID on load, since FileID is only stable within
// one FileSet.
type CachedResult struct {
	Schema      uint16
	Path        string
	ContentHash [32]byte
	TokenCount  int
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard
// XDG cache location for app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "tokenize", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes a result to the disk cache.
func (c *DiskCache) Put(key [32]byte, result *CachedResult) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a cached result, remapping every diagnostic's
// primary span to fileID since a fresh load may have assigned a different
// FileID to this same content. ok is false on a cache miss.
func (c *DiskCache) Get(key [32]byte, fileID source.FileID) (result CachedResult, ok bool, err error) {
	if c == nil {
		return CachedResult{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CachedResult{}, false, nil
		}
		return CachedResult{}, false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(&result); err != nil {
		return CachedResult{}, false, err
	}
	if result.Schema != diskCacheSchemaVersion || result.ContentHash != key {
		return CachedResult{}, false, nil
	}
	for i := range result.Diagnostics {
		remapSpanFile(&result.Diagnostics[i], fileID)
	}
	return result, true, nil
}

func remapSpanFile(d *diag.Diagnostic, fileID source.FileID) {
	for pi := range d.Parts {
		for di := range d.Parts[pi].Document {
			if b := d.Parts[pi].Document[di].SourceCodeBlock; b != nil {
				b.ExcerptSpan.File = fileID
			}
		}
	}
}

// buildCachedResult snapshots a tokenize run's diagnostics for storage.
func buildCachedResult(file *source.File, bag *diag.Bag, tokenCount int) *CachedResult {
	items := bag.Items()
	diags := make([]diag.Diagnostic, len(items))
	copy(diags, items)
	return &CachedResult{
		Schema:      diskCacheSchemaVersion,
		Path:        file.Path,
		ContentHash: file.Hash,
		TokenCount:  tokenCount,
		Diagnostics: diags,
	}
}
