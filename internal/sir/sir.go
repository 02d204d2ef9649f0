// Package sir emits Simple's textual stack-based intermediate
// representation from a validated Program. The emitter assumes its
// input has already passed internal/semantic: it does not re-check
// types or control flow, only lowers them.
package sir

import (
	"fmt"
	"strings"

	"github.com/cwbudde/simple-lang/internal/types"
)

// Module is the in-memory form of one emitted SIR program, rendered to
// text by String.
type Module struct {
	Types   []TypeDecl
	Sigs    []SigDecl
	Consts  []ConstDecl
	Globals []GlobalDecl
	Imports []ImportDecl
	Funcs   []*Func
	Entry   string
}

// TypeDecl is one entry of the optional types: section: an artifact's
// field layout, or an enum's underlying representation.
type TypeDecl struct {
	Name   string
	Size   int
	Kind   string // "artifact" or "i32"
	Fields []FieldLayout
}

// FieldLayout is one field of an artifact's declaration-order layout.
type FieldLayout struct {
	Name    string
	SIRType string
	Offset  int
}

// SigDecl is one entry of the sigs: section: the shared name a func
// header, import, or indirect-call site refers to by sig=<name>.
type SigDecl struct {
	Name   string
	Params []string
	Ret    string
}

type ConstDecl struct {
	Name    string
	SIRType string
	Literal string
}

type GlobalDecl struct {
	Name    string
	SIRType string
	Init    string // const name, "" if none
}

type ImportDecl struct {
	ID      string
	Module  string
	Symbol  string
	Sig     string
}

// Func is one emitted function: its frame shape plus its instruction
// stream.
type Func struct {
	Name   string
	Locals int
	Stack  int
	Sig    string
	Instrs []string
}

// sirTypeOf lowers a TypeRef to its SIR spelling per spec.md §4.5: a
// pointer of any depth lowers to i64, arrays/lists/procedures lower to
// ref, enums lower to i32, everything else keeps its scalar/string/
// artifact name. enums names the program's declared enum types, so an
// enum-typed field or parameter lowers to i32 rather than keeping its
// declared name.
func sirTypeOf(t types.TypeRef, enums map[string]bool) string {
	if t.IsPointer() {
		return "i64"
	}
	if t.IsArray() {
		return "ref"
	}
	if t.Name == "fn" {
		return "ref"
	}
	switch t.Name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64",
		"f32", "f64", "bool", "char", "string", "void":
		return t.Name
	}
	if enums[t.Name] {
		return "i32"
	}
	return t.Name // artifact name used as its own reference type
}

// String renders the module in the textual contract of spec.md §4.5.
func (m *Module) String() string {
	var sb strings.Builder

	if len(m.Types) > 0 {
		sb.WriteString("types:\n")
		for _, t := range m.Types {
			fmt.Fprintf(&sb, "  type %s size=%d kind=%s\n", t.Name, t.Size, t.Kind)
			for _, f := range t.Fields {
				fmt.Fprintf(&sb, "  field %s %s offset=%d\n", f.Name, f.SIRType, f.Offset)
			}
		}
	}
	if len(m.Sigs) > 0 {
		sb.WriteString("sigs:\n")
		for _, s := range m.Sigs {
			fmt.Fprintf(&sb, "  sig %s: (%s) -> %s\n", s.Name, strings.Join(s.Params, ", "), s.Ret)
		}
	}
	if len(m.Consts) > 0 {
		sb.WriteString("consts:\n")
		for _, c := range m.Consts {
			fmt.Fprintf(&sb, "  const %s %s %s\n", c.Name, c.SIRType, c.Literal)
		}
	}
	if len(m.Globals) > 0 {
		sb.WriteString("globals:\n")
		for _, g := range m.Globals {
			if g.Init != "" {
				fmt.Fprintf(&sb, "  global %s %s init=%s\n", g.Name, g.SIRType, g.Init)
			} else {
				fmt.Fprintf(&sb, "  global %s %s\n", g.Name, g.SIRType)
			}
		}
	}
	if len(m.Imports) > 0 {
		sb.WriteString("imports:\n")
		for _, imp := range m.Imports {
			fmt.Fprintf(&sb, "  import %s %s %s sig=%s\n", imp.ID, imp.Module, imp.Symbol, imp.Sig)
		}
	}
	for _, fn := range m.Funcs {
		fmt.Fprintf(&sb, "func %s locals=%d stack=%d sig=%s\n", fn.Name, fn.Locals, fn.Stack, fn.Sig)
		fmt.Fprintf(&sb, "  enter %d\n", fn.Locals)
		for _, ins := range fn.Instrs {
			sb.WriteString("  ")
			sb.WriteString(ins)
			sb.WriteString("\n")
		}
		sb.WriteString("end\n")
	}
	if m.Entry != "" {
		fmt.Fprintf(&sb, "entry %s\n", m.Entry)
	}
	return sb.String()
}
