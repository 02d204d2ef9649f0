package semantic

import (
	"fmt"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/errors"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/types"
	"github.com/cwbudde/simple-lang/pkg/token"
)

// Validator walks a merged Program and reports every diagnostic it
// finds; it never stops at the first error so a user sees as many
// problems as possible in one pass.
type Validator struct {
	globals *Globals
	caps    map[reserved.Module]bool
	errs    []*errors.CompilerError
	source  string

	genericParams map[string]bool // in scope while checking the current function
	loopDepth     int
	curFuncReturn types.TypeRef
	curFuncName   string
	curIsMethod   bool
}

// New creates a Validator. caps is the set of reserved-module
// capabilities the import resolver recorded; source is the merged
// program's concatenated text, used only to render pretty diagnostics.
func New(caps map[reserved.Module]bool, source string) *Validator {
	return &Validator{globals: newGlobals(), caps: caps, source: source}
}

func (v *Validator) errorf(pos token.Position, code errors.Code, format string, args ...any) {
	v.errs = append(v.errs, &errors.CompilerError{
		Code: code, Pos: pos, Message: fmt.Sprintf(format, args...), Source: v.source,
	})
}

// Validate runs both passes and returns every diagnostic found.
func Validate(prog *ast.Program, caps map[reserved.Module]bool, source string) []*errors.CompilerError {
	v := New(caps, source)
	v.collect(prog)
	v.check(prog)
	return v.errs
}

// collect is pass (a): record every top-level name, grouped by kind,
// without looking inside function bodies.
func (v *Validator) collect(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			v.declareFunc(decl)
		case *ast.ArtifactDecl:
			v.declareArtifact(decl)
		case *ast.EnumDecl:
			v.declareEnum(decl)
		case *ast.ModuleDecl:
			v.declareModule(decl)
		case *ast.ExternDecl:
			v.declareExtern(decl)
		case *ast.VariableDecl:
			v.declareGlobalVar(decl)
		case *ast.ImportDecl:
			v.declareImport(decl)
		}
	}
}

func (v *Validator) declareFunc(fn *ast.FunctionDecl) {
	if _, dup := v.globals.Functions[fn.Name]; dup {
		v.errorf(fn.Position, errors.CodeName, "function '%s' is already declared", fn.Name)
		return
	}
	v.globals.Functions[fn.Name] = &Symbol{Kind: SymFunc, Name: fn.Name, Func: fn, Type: fn.ReturnType}
}

func (v *Validator) declareArtifact(a *ast.ArtifactDecl) {
	if _, dup := v.globals.Artifacts[a.Name]; dup {
		v.errorf(a.Position, errors.CodeName, "artifact '%s' is already declared", a.Name)
		return
	}
	v.globals.Artifacts[a.Name] = &Symbol{Kind: SymArtifact, Name: a.Name, Artifact: a}
	for _, m := range a.Methods {
		v.declareFunc(m)
	}
}

func (v *Validator) declareEnum(e *ast.EnumDecl) {
	if _, dup := v.globals.Enums[e.Name]; dup {
		v.errorf(e.Position, errors.CodeName, "enum '%s' is already declared", e.Name)
		return
	}
	v.globals.Enums[e.Name] = &Symbol{Kind: SymEnum, Name: e.Name, Enum: e}
}

func (v *Validator) declareModule(m *ast.ModuleDecl) {
	if _, dup := v.globals.Modules[m.Name]; dup {
		v.errorf(m.Position, errors.CodeName, "module '%s' is already declared", m.Name)
		return
	}
	v.globals.Modules[m.Name] = &Symbol{Kind: SymModule, Name: m.Name, Module: m}
	for _, fn := range m.Functions {
		v.declareFunc(fn)
	}
	for _, vr := range m.Variables {
		v.declareGlobalVar(vr)
	}
}

func (v *Validator) declareExtern(e *ast.ExternDecl) {
	key := e.Name
	if e.Module != "" {
		key = e.Module + "." + e.Name
	}
	v.globals.Externs[key] = append(v.globals.Externs[key], &Symbol{Kind: SymExtern, Name: e.Name, Extern: e, Type: e.ReturnType})
}

func (v *Validator) declareGlobalVar(vd *ast.VariableDecl) {
	if _, dup := v.globals.Variables[vd.Name]; dup {
		v.errorf(vd.Position, errors.CodeName, "'%s' is already declared at top level", vd.Name)
		return
	}
	v.globals.Variables[vd.Name] = &Symbol{Kind: SymVar, Name: vd.Name, Type: vd.Type, Mutable: vd.Mutable}
}

func (v *Validator) declareImport(imp *ast.ImportDecl) {
	mod, ok := reserved.Canonicalize(imp.Path)
	if !ok {
		return // a file import; already inlined by the resolver
	}
	name := string(mod)
	if imp.Alias != "" {
		name = imp.Alias
	}
	v.globals.Reserved[name] = &Symbol{Kind: SymReservedModule, Name: name, Reserved: mod}
	// The bare last component (e.g. "Core.DL" -> also reachable as "DL")
	// is not registered: spec.md §6.2 only documents the canonical and
	// alias-import spellings as lookup keys.
}

// typeRefKnown resolves a TypeRef's base name against the known
// artifact/enum/primitive/generic-parameter set.
func (v *Validator) typeRefKnown(t types.TypeRef) bool {
	if types.IsPrimitiveName(t.Name) {
		return true
	}
	if t.Name == "void" {
		return true
	}
	if v.genericParams[t.Name] {
		return true
	}
	if _, ok := v.globals.Artifacts[t.Name]; ok {
		return true
	}
	if _, ok := v.globals.Enums[t.Name]; ok {
		return true
	}
	return false
}
