package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/simple-lang/internal/config"
	"github.com/cwbudde/simple-lang/internal/reserved"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "simple.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoad_DefaultsRootAndEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "searchPaths:\n  - vendor\n")

	m, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Root != dir {
		t.Fatalf("expected root %q, got %q", dir, m.Root)
	}
	if m.Entry != "main.simple" {
		t.Fatalf("expected default entry main.simple, got %q", m.Entry)
	}
	if m.EntryPath() != filepath.Join(dir, "main.simple") {
		t.Fatalf("unexpected entry path %q", m.EntryPath())
	}
}

func TestApplyCapabilities_NarrowsOnlyTouchedModules(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "capabilities:\n  Core.DL: false\n")

	m, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	base := map[reserved.Module]bool{
		reserved.IO:     true,
		reserved.CoreDL: true,
	}
	got := m.ApplyCapabilities(base)

	if got[reserved.CoreDL] {
		t.Fatal("expected Core.DL to be narrowed to false")
	}
	if !got[reserved.IO] {
		t.Fatal("expected IO to remain granted")
	}
	if _, ok := got[reserved.Math]; ok {
		t.Fatal("expected Math to remain untouched (absent), since the program never imported it")
	}
}
