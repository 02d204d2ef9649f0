// Package resolve implements the import resolver: it turns an entry
// file plus a project root into one merged ast.Program, inlining every
// non-reserved import in source order and recording which reserved
// capability modules the program touches.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/errors"
	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
)

// Result is the output of a successful resolve.
type Result struct {
	Program      *ast.Program
	Capabilities map[reserved.Module]bool
}

// resolver carries the visiting/visited state across the recursive walk.
type resolver struct {
	root       string
	visiting   map[string]bool
	visited    map[string]bool
	merged     ast.Program
	caps       map[reserved.Module]bool
	fileCache  map[string]*ast.Program
}

// Resolve parses entryPath and every file it (transitively) imports
// under root, and returns one merged Program in source order.
func Resolve(entryPath, root string) (*Result, *errors.CompilerError) {
	r := &resolver{
		root:      root,
		visiting:  map[string]bool{},
		visited:   map[string]bool{},
		caps:      map[reserved.Module]bool{},
		fileCache: map[string]*ast.Program{},
	}
	abs, cerr := canonical(entryPath)
	if cerr != nil {
		return nil, cerr
	}
	if err := r.visit(abs); err != nil {
		return nil, err
	}
	return &Result{Program: &r.merged, Capabilities: r.caps}, nil
}

func canonical(path string) (string, *errors.CompilerError) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &errors.CompilerError{Code: errors.CodeImport, Message: fmt.Sprintf("cannot resolve path %q: %v", path, err)}
	}
	return filepath.Clean(abs), nil
}

func (r *resolver) visit(absPath string) *errors.CompilerError {
	if r.visiting[absPath] {
		return &errors.CompilerError{Code: errors.CodeImport, Message: fmt.Sprintf("cyclic import detected: %s", absPath)}
	}
	if r.visited[absPath] {
		return nil
	}
	r.visiting[absPath] = true
	defer delete(r.visiting, absPath)

	prog, err := r.parseFile(absPath)
	if err != nil {
		return err
	}

	var keep []ast.Decl
	for _, d := range prog.Decls {
		imp, ok := d.(*ast.ImportDecl)
		if !ok {
			keep = append(keep, d)
			continue
		}
		if mod, ok := reserved.Canonicalize(imp.Path); ok {
			r.caps[mod] = true
			keep = append(keep, d)
			continue
		}
		target, err := r.resolveImportPath(imp.Path, filepath.Dir(absPath))
		if err != nil {
			return err
		}
		if err := r.visit(target); err != nil {
			return err
		}
	}

	r.merged.Decls = append(r.merged.Decls, keep...)
	r.merged.Statements = append(r.merged.Statements, prog.Statements...)
	r.visited[absPath] = true
	return nil
}

func (r *resolver) parseFile(absPath string) (*ast.Program, *errors.CompilerError) {
	if prog, ok := r.fileCache[absPath]; ok {
		return prog, nil
	}
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &errors.CompilerError{Code: errors.CodeImport, Message: fmt.Sprintf("cannot read %q: %v", absPath, err), File: absPath}
	}
	l := lexer.New(string(src))
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		first := p.Errors()[0]
		return nil, &errors.CompilerError{Code: errors.CodeParse, Message: first.Message, Pos: first.Pos, File: absPath, Source: string(src)}
	}
	r.fileCache[absPath] = prog
	return prog, nil
}

// resolveImportPath implements the §4.3 lookup order: an absolute or
// relative path is tried verbatim first; otherwise the path is treated
// as a bare name searched for under root, failing with "ambiguous
// import path" when more than one file matches.
func (r *resolver) resolveImportPath(path, fromDir string) (string, *errors.CompilerError) {
	candidate := path
	if !strings.HasSuffix(candidate, ".simple") {
		candidate += ".simple"
	}
	if filepath.IsAbs(path) {
		if fileExists(candidate) {
			return canonical(candidate)
		}
		return "", &errors.CompilerError{Code: errors.CodeImport, Message: fmt.Sprintf("import path %q does not resolve to a file", path)}
	}

	rel := filepath.Join(fromDir, candidate)
	if fileExists(rel) {
		return canonical(rel)
	}

	matches, err := findUnderRoot(r.root, candidate)
	if err != nil {
		return "", &errors.CompilerError{Code: errors.CodeImport, Message: err.Error()}
	}
	switch len(matches) {
	case 0:
		return "", &errors.CompilerError{Code: errors.CodeImport, Message: fmt.Sprintf("import path %q does not resolve to any file under the project root", path)}
	case 1:
		return canonical(matches[0])
	default:
		sort.Strings(matches)
		shown := matches
		if len(shown) > 5 {
			shown = shown[:5]
		}
		return "", &errors.CompilerError{Code: errors.CodeImport, Message: fmt.Sprintf("ambiguous import path %q: matches %s", path, strings.Join(shown, ", "))}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findUnderRoot returns every file under root whose base name equals
// name, or whose path (relative to root) equals name.
func findUnderRoot(root, name string) ([]string, error) {
	var matches []string
	base := filepath.Base(name)
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Base(path) != base {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && (rel == name || filepath.Base(rel) == base) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, err
}
