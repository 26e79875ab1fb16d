package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ".linemark")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Directory != "" {
		t.Errorf("Directory = %q, want empty", cfg.Directory)
	}
	if cfg.SeparatorOrDefault() != DefaultSeparator {
		t.Errorf("SeparatorOrDefault() = %q, want default", cfg.SeparatorOrDefault())
	}
}

func TestLoad_ReadsSettings(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "directory = \"outline\"\nseparator = \"\\n\\n* * *\\n\\n\"\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Directory != "outline" {
		t.Errorf("Directory = %q, want %q", cfg.Directory, "outline")
	}
	if cfg.SeparatorOrDefault() != "\n\n* * *\n\n" {
		t.Errorf("SeparatorOrDefault() = %q", cfg.SeparatorOrDefault())
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "directory = [not toml")

	if _, err := Load(root); err == nil {
		t.Error("Load of malformed config should fail")
	}
}
