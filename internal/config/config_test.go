package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "rebuild.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
}

func TestLoadAppliesLexDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n")

	cfg, err := Load(filepath.Join(dir, "rebuild.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Package.Name != "demo" {
		t.Fatalf("unexpected package name: %q", cfg.Package.Name)
	}
	if cfg.Lex.TabWidth != 1 {
		t.Fatalf("expected default tab width 1, got %d", cfg.Lex.TabWidth)
	}
	if cfg.Lex.MaxDiagnostics != 200 {
		t.Fatalf("expected default max diagnostics 200, got %d", cfg.Lex.MaxDiagnostics)
	}
}

func TestLoadHonorsExplicitLexValues(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[lex]\ntab_width = 4\nmax_diagnostics = 50\n")

	cfg, err := Load(filepath.Join(dir, "rebuild.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lex.TabWidth != 4 {
		t.Fatalf("expected tab width 4, got %d", cfg.Lex.TabWidth)
	}
	if cfg.Lex.MaxDiagnostics != 50 {
		t.Fatalf("expected max diagnostics 50, got %d", cfg.Lex.MaxDiagnostics)
	}
}

func TestLoadRejectsMissingPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[lex]\ntab_width = 2\n")

	if _, err := Load(filepath.Join(dir, "rebuild.toml")); err == nil {
		t.Fatalf("expected an error for a manifest with no [package].name")
	}
}

func TestFindWalksParentDirectories(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find a manifest above %s", nested)
	}
	want := filepath.Join(root, "rebuild.toml")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
}

func TestFindReportsAbsenceWithoutError(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest to be found in an empty tree")
	}
}
