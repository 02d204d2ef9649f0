package sir

import (
	"fmt"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/types"
)

// emitFunctionLiteral lowers a closure expression into a synthesized
// top-level function named __lambdaN, per spec.md §4.5, then pushes a
// reference to it. The body was captured verbatim as tokens at parse
// time (internal/parser's parseFunctionLiteral); it is re-parsed here,
// once the surrounding emission has enough context to name the result.
func (e *Emitter) emitFunctionLiteral(lit *ast.FunctionLiteral) {
	e.lambdaSeq++
	name := fmt.Sprintf("__lambda%d", e.lambdaSeq)

	body, errs := parser.ParseBlockTokens(lit.Body)
	if len(errs) > 0 {
		body = nil
	}

	saved := e.saveFrame()
	e.beginFunc()
	for _, p := range lit.Params {
		e.declareLocal(p.Name)
	}
	for _, s := range body {
		e.emitStmt(s)
	}
	e.emit("ret")
	e.finishFunc(name, lit.Params, types.TypeRef{Name: "void"})
	e.restoreFrame(saved)

	e.emitDelta(1, "ldfunc %s", name)
}

// emitArtifactLiteral lowers `{ positional..., .name = value, ... }`
// into a newobj followed by one stfld per supplied field. Positional
// values are matched to field names via the artifact's types: layout,
// recorded by layoutArtifact in declaration order.
func (e *Emitter) emitArtifactLiteral(a *ast.ArtifactLiteral) {
	e.emitDelta(1, "newobj %s", a.TypeName)
	layout := e.artifactLayouts[a.TypeName]
	for i, v := range a.Positional {
		e.emitDelta(0, "dup")
		e.emitExpr(v)
		fieldName := layout.Fields[i].Name
		e.emitDelta(-1, "stfld %s", fieldName)
	}
	for _, n := range a.Named {
		e.emitDelta(0, "dup")
		e.emitExpr(n.Value)
		e.emitDelta(-1, "stfld %s", n.Name)
	}
}

// emitListLiteral lowers a dynamically-sized `[...]` list the same way
// as a fixed array literal, using the list-specific alloc opcode.
func (e *Emitter) emitListLiteral(l *ast.ListLiteral) {
	e.emitDelta(1, "newlist %d", len(l.Elems))
	for i, el := range l.Elems {
		e.emitDelta(0, "dup")
		e.emitDelta(1, "const.i32 %d", i)
		e.emitExpr(el)
		e.emitDelta(-2, "list.set")
	}
}
