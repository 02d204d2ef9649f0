package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_InlinesImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.simple", `add : i32 (a : i32, b : i32) { return a + b; }`)
	entry := writeFile(t, dir, "main.simple", `
import "helper.simple"
main : i32 () { return add(1, 2); }
`)

	res, err := Resolve(entry, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Program.Decls) != 2 {
		t.Fatalf("expected 2 merged decls (add, main), got %d", len(res.Program.Decls))
	}
}

func TestResolve_CyclicImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.simple", `import "b.simple"`)
	writeFile(t, dir, "b.simple", `import "a.simple"`)

	_, err := Resolve(filepath.Join(dir, "a.simple"), dir)
	if err == nil {
		t.Fatal("expected a cyclic import error")
	}
}

func TestResolve_ReservedImportTracksCapability(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.simple", `
import "io"
main : void () { IO.println("hi"); }
`)
	res, err := Resolve(entry, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Capabilities["IO"] {
		t.Fatalf("expected IO capability to be recorded, got %+v", res.Capabilities)
	}
}

func TestResolve_AmbiguousBareImport(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "sub1"), 0o755)
	os.MkdirAll(filepath.Join(dir, "sub2"), 0o755)
	writeFile(t, filepath.Join(dir, "sub1"), "util.simple", `x : i32 = 1;`)
	writeFile(t, filepath.Join(dir, "sub2"), "util.simple", `x : i32 = 2;`)
	entry := writeFile(t, dir, "main.simple", `import util`)

	_, err := Resolve(entry, dir)
	if err == nil {
		t.Fatal("expected an ambiguous import path error")
	}
}
