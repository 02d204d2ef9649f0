// Package semantic implements the two-pass validator: collect every
// top-level name, then check each function body, top-level statement,
// and type annotation against scoping, type, mutability, and
// control-flow rules.
package semantic

import (
	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/types"
)

// SymKind distinguishes what a name in scope refers to.
type SymKind int

const (
	SymVar SymKind = iota
	SymFunc
	SymArtifact
	SymEnum
	SymModule
	SymExtern
	SymGenericParam
	SymReservedModule
)

// Symbol is one entry in a scope or the global table.
type Symbol struct {
	Kind     SymKind
	Name     string
	Type     types.TypeRef // for SymVar, SymGenericParam
	Mutable  bool
	Func     *ast.FunctionDecl  // for SymFunc
	Extern   *ast.ExternDecl    // for SymExtern
	Artifact *ast.ArtifactDecl  // for SymArtifact
	Enum     *ast.EnumDecl      // for SymEnum
	Module   *ast.ModuleDecl    // for SymModule
	Reserved reserved.Module    // for SymReservedModule
}

// Globals is the program-wide symbol table built by the collect pass.
type Globals struct {
	Functions map[string]*Symbol
	Artifacts map[string]*Symbol
	Enums     map[string]*Symbol
	Modules   map[string]*Symbol
	Variables map[string]*Symbol
	Externs   map[string][]*Symbol // key "module.name" or "name"
	Reserved  map[string]*Symbol   // identifiers bound to a reserved module
}

func newGlobals() *Globals {
	return &Globals{
		Functions: map[string]*Symbol{},
		Artifacts: map[string]*Symbol{},
		Enums:     map[string]*Symbol{},
		Modules:   map[string]*Symbol{},
		Variables: map[string]*Symbol{},
		Externs:   map[string][]*Symbol{},
		Reserved:  map[string]*Symbol{},
	}
}

// Scope is one nested lexical block. Locals shadow outer scopes, but a
// name cannot be declared twice within the same scope.
type Scope struct {
	parent *Scope
	names  map[string]*Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: map[string]*Symbol{}}
}

func (s *Scope) declare(sym *Symbol) bool {
	if _, dup := s.names[sym.Name]; dup {
		return false
	}
	s.names[sym.Name] = sym
	return true
}

func (s *Scope) lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
