// Package config loads the project-local rebuild.toml manifest, in
// the same manner as the teacher lineage's surge.toml project
// manifest: discovered by walking parent directories from a starting
// point, parsed with github.com/BurntSushi/toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"rebuild/internal/scanner"
)

const manifestName = "rebuild.toml"

// PackageConfig carries the [package] table of rebuild.toml.
type PackageConfig struct {
	Name string `toml:"name"`
}

// LexConfig carries the [lex] table of rebuild.toml.
type LexConfig struct {
	TabWidth       uint32 `toml:"tab_width"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// Config is the decoded rebuild.toml manifest.
type Config struct {
	Package PackageConfig `toml:"package"`
	Lex     LexConfig     `toml:"lex"`
}

// Manifest pairs a decoded Config with where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// defaultLex mirrors the defaults documented in SPEC_FULL's [lex]
// table: a tab counts as a single indentation column, and a run is
// capped at 200 diagnostics before later ones are dropped.
func defaultLex() LexConfig {
	return LexConfig{TabWidth: 1, MaxDiagnostics: 200}
}

// Find walks startDir and its parents looking for rebuild.toml,
// mirroring the teacher lineage's manifest discovery. ok is false, with
// a nil error, when no manifest is found anywhere above startDir.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the rebuild.toml at path, filling in lex defaults for
// any field the manifest leaves unset.
func Load(path string) (Config, error) {
	cfg := Config{Lex: defaultLex()}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Lex.TabWidth == 0 {
		cfg.Lex.TabWidth = defaultLex().TabWidth
	}
	if cfg.Lex.MaxDiagnostics == 0 {
		cfg.Lex.MaxDiagnostics = defaultLex().MaxDiagnostics
	}
	return cfg, nil
}

// LoadManifest discovers and loads the nearest rebuild.toml above
// startDir. Absence of a manifest is not an error for single-file
// invocations: ok is false and err is nil when none is found.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// ScannerOptions resolves the manifest's [lex] table into the
// scanner.Options this pipeline's scan stage consumes.
func (c Config) ScannerOptions() scanner.Options {
	return scanner.Options{TabWidth: c.Lex.TabWidth}
}

// MaxDiagnosticsOrDefault resolves the manifest's diagnostic cap,
// falling back to the default when the cap is unset or not positive.
func (c Config) MaxDiagnosticsOrDefault() int {
	if c.Lex.MaxDiagnostics <= 0 {
		return defaultLex().MaxDiagnostics
	}
	return c.Lex.MaxDiagnostics
}

// Default returns the configuration used when no rebuild.toml is
// found, appropriate for single-file `rebuild tokenize` invocations.
func Default() Config {
	return Config{Lex: defaultLex()}
}
