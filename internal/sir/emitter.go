package sir

import (
	"fmt"
	"sort"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/types"
)

// Emitter lowers a validated Program into a Module. It does not
// re-validate; internal/semantic must have run first.
type Emitter struct {
	mod  *Module
	caps map[reserved.Module]bool

	constSeq    int
	strSeq      int
	constByText map[string]string // "kind:text" -> const name

	funcs map[string]*ast.FunctionDecl

	enums           map[string]bool
	artifactLayouts map[string]TypeDecl

	lambdaSeq int

	// per-function emission state
	locals        map[string]int
	nextLocal     int
	labelSeq      int
	curStack      int
	maxStack      int
	curInstrs     []string
	curBreakLabel string
	curSkipLabel  string
}

// frame snapshots the per-function emission state so emitting a nested
// function literal's body doesn't disturb the enclosing function's.
type frame struct {
	locals        map[string]int
	nextLocal     int
	labelSeq      int
	curStack      int
	maxStack      int
	curInstrs     []string
	curBreakLabel string
	curSkipLabel  string
}

func (e *Emitter) saveFrame() frame {
	return frame{
		locals: e.locals, nextLocal: e.nextLocal, labelSeq: e.labelSeq,
		curStack: e.curStack, maxStack: e.maxStack, curInstrs: e.curInstrs,
		curBreakLabel: e.curBreakLabel, curSkipLabel: e.curSkipLabel,
	}
}

func (e *Emitter) restoreFrame(f frame) {
	e.locals, e.nextLocal, e.labelSeq = f.locals, f.nextLocal, f.labelSeq
	e.curStack, e.maxStack, e.curInstrs = f.curStack, f.maxStack, f.curInstrs
	e.curBreakLabel, e.curSkipLabel = f.curBreakLabel, f.curSkipLabel
}

// New creates an Emitter. caps records which reserved modules the
// import resolver observed, driving which import declarations appear
// in the output even if a capability is only referenced by name.
func New(caps map[reserved.Module]bool) *Emitter {
	return &Emitter{
		mod:             &Module{},
		caps:            caps,
		constByText:     map[string]string{},
		funcs:           map[string]*ast.FunctionDecl{},
		enums:           map[string]bool{},
		artifactLayouts: map[string]TypeDecl{},
	}
}

// Emit lowers prog into a Module.
func Emit(prog *ast.Program, caps map[reserved.Module]bool) *Module {
	e := New(caps)
	return e.EmitProgram(prog)
}

func (e *Emitter) EmitProgram(prog *ast.Program) *Module {
	for _, d := range prog.Decls {
		if ed, ok := d.(*ast.EnumDecl); ok {
			e.enums[ed.Name] = true
		}
	}

	var globals []*ast.VariableDecl
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			e.funcs[decl.Name] = decl
		case *ast.ArtifactDecl:
			for _, m := range decl.Methods {
				e.funcs[decl.Name+"."+m.Name] = m
			}
			e.layoutArtifact(decl)
		case *ast.EnumDecl:
			e.mod.Types = append(e.mod.Types, TypeDecl{Name: decl.Name, Size: 4, Kind: "i32"})
		case *ast.ModuleDecl:
			for _, fn := range decl.Functions {
				e.funcs[fn.Name] = fn
			}
			globals = append(globals, decl.Variables...)
		case *ast.VariableDecl:
			globals = append(globals, decl)
		}
	}

	e.emitImports()

	hasInit := false
	for _, g := range globals {
		sirType := sirTypeOf(g.Type, e.enums)
		initConst := ""
		if lit, ok := g.Init.(*ast.Literal); ok {
			// a literal initializer is inlined straight into the global's
			// header; anything else (a call, a binary expr, ...) is
			// computed by __global_init instead.
			initConst = e.constForGlobalInit(g.Name, lit)
		} else if g.Init != nil {
			hasInit = true
		}
		e.mod.Globals = append(e.mod.Globals, GlobalDecl{Name: g.Name, SIRType: sirType, Init: initConst})
	}
	if hasInit {
		e.emitGlobalInit(globals)
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			e.emitFunction(decl.Name, decl)
		case *ast.ArtifactDecl:
			for _, m := range decl.Methods {
				e.emitFunction(decl.Name+"."+m.Name, m)
			}
		case *ast.ModuleDecl:
			for _, fn := range decl.Functions {
				e.emitFunction(fn.Name, fn)
			}
		}
	}

	if len(prog.Statements) > 0 {
		e.emitScriptEntry(prog.Statements)
		e.mod.Entry = "__script_entry"
	} else if _, ok := e.funcs["main"]; ok {
		e.mod.Entry = "main"
	}

	return e.mod
}

func (e *Emitter) emitImports() {
	mods := make([]reserved.Module, 0, len(e.caps))
	for mod := range e.caps {
		mods = append(mods, mod)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i] < mods[j] })

	importSeq := 0
	for _, mod := range mods {
		members := reserved.Signatures[mod]
		for _, m := range members {
			if m.IsConst {
				continue
			}
			importSeq++
			id := fmt.Sprintf("%s.%s", mod, m.Name)
			sigName := fmt.Sprintf("sig_import_%d", importSeq)

			params := make([]string, len(m.Params))
			for i, p := range m.Params {
				params[i] = sirTypeOf(p, e.enums)
			}
			e.mod.Sigs = append(e.mod.Sigs, SigDecl{Name: sigName, Params: params, Ret: sirTypeOf(m.Result, e.enums)})

			e.mod.Imports = append(e.mod.Imports, ImportDecl{
				ID: id, Module: string(mod), Symbol: m.Name, Sig: sigName,
			})
		}
	}
}

func (e *Emitter) emitGlobalInit(globals []*ast.VariableDecl) {
	e.beginFunc()
	for _, g := range globals {
		if g.Init == nil {
			continue
		}
		if _, isLiteral := g.Init.(*ast.Literal); isLiteral {
			continue // already inlined into the global's header
		}
		e.emitExpr(g.Init)
		e.emitDelta(-1, "stglob %s", g.Name)
	}
	e.emit("ret")
	e.finishFunc("__global_init", nil, types.TypeRef{Name: "void"})
}

func (e *Emitter) emitScriptEntry(stmts []ast.Stmt) {
	e.beginFunc()
	for _, s := range stmts {
		e.emitStmt(s)
	}
	e.emit("const.i32 0")
	e.emit("ret")
	e.finishFunc("__script_entry", nil, types.TypeRef{Name: "i32"})
}

func (e *Emitter) emitFunction(name string, fn *ast.FunctionDecl) {
	e.beginFunc()
	if fn.IsMethod {
		e.declareLocal("self")
	}
	for _, p := range fn.Params {
		e.declareLocal(p.Name)
	}
	for _, s := range fn.Body {
		e.emitStmt(s)
	}
	if fn.ReturnType.Name == "" || fn.ReturnType.Name == "void" {
		e.emit("ret")
	} else if name == "main" {
		// main may fall through; synthesize `return 0`.
		e.emit("const.i32 0")
		e.emit("ret")
	}
	e.finishFunc(name, fn.Params, fn.ReturnType)
}

func (e *Emitter) beginFunc() {
	e.locals = map[string]int{}
	e.nextLocal = 0
	e.labelSeq = 0
	e.curStack = 0
	e.maxStack = 0
}

func (e *Emitter) finishFunc(name string, params []ast.Param, ret types.TypeRef) {
	sigParts := make([]string, len(params))
	for i, p := range params {
		sigParts[i] = sirTypeOf(p.Type, e.enums)
	}
	// a local function's sig= names itself: spec.md §6.3 fixes signature
	// names as func-name for local functions, sig_import_<n> for imports,
	// sig_proc_<n> for indirect-call signatures.
	e.mod.Sigs = append(e.mod.Sigs, SigDecl{Name: name, Params: sigParts, Ret: sirTypeOf(ret, e.enums)})
	stack := e.maxStack
	if stack == 0 {
		stack = 8
	}
	// declareLocal runs for params/self up front and again for every
	// VariableDecl as the body is emitted, so nextLocal already holds
	// the frame's full local count by the time the body is done.
	f := &Func{
		Name:   name,
		Locals: e.nextLocal,
		Stack:  stack,
		Sig:    name,
		Instrs: e.curInstrs,
	}
	e.mod.Funcs = append(e.mod.Funcs, f)
	e.curInstrs = nil
}

func (e *Emitter) declareLocal(name string) int {
	idx := e.nextLocal
	e.locals[name] = idx
	e.nextLocal++
	return idx
}
