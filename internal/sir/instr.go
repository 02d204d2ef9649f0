package sir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/reserved"
)

// emitDelta appends one instruction, tracking the stack's high-water mark.
// delta is the instruction's net stack effect (positive pushes).
func (e *Emitter) emitDelta(delta int, format string, args ...any) {
	e.curInstrs = append(e.curInstrs, fmt.Sprintf(format, args...))
	e.curStack += delta
	if e.curStack > e.maxStack {
		e.maxStack = e.curStack
	}
	if e.curStack < 0 {
		e.curStack = 0
	}
}

// emit appends an instruction with no statically-known stack effect
// (control-flow markers, labels, stores that pop exactly what the
// preceding push left).
func (e *Emitter) emit(format string, args ...any) {
	e.curInstrs = append(e.curInstrs, fmt.Sprintf(format, args...))
}

func (e *Emitter) label(prefix string) string {
	e.labelSeq++
	return fmt.Sprintf("%s%d", prefix, e.labelSeq)
}

// literalConstDecl renders lit as a ConstDecl under the given name.
func literalConstDecl(name string, lit *ast.Literal) ConstDecl {
	switch lit.Kind {
	case ast.IntLiteral:
		return ConstDecl{Name: name, SIRType: "i32", Literal: lit.Text}
	case ast.FloatLiteral:
		return ConstDecl{Name: name, SIRType: "f64", Literal: lit.Text}
	case ast.StringLiteral:
		return ConstDecl{Name: name, SIRType: "string", Literal: strconv.Quote(lit.Text)}
	case ast.BoolLiteral:
		return ConstDecl{Name: name, SIRType: "bool", Literal: fmt.Sprintf("%v", lit.Bool)}
	case ast.CharLiteral:
		return ConstDecl{Name: name, SIRType: "char", Literal: strconv.Quote(string(lit.Char))}
	}
	return ConstDecl{Name: name}
}

// constFor interns lit into the module's consts: section, deduplicating
// repeated literals. Per spec.md §6.3, interned strings are named
// str<n>; every other literal kind keeps the generic k<n> the contract
// leaves unspecified.
func (e *Emitter) constFor(lit *ast.Literal) string {
	key := fmt.Sprintf("%d:%s", lit.Kind, lit.Text)
	if lit.Kind == ast.CharLiteral {
		key = fmt.Sprintf("%d:%d", lit.Kind, lit.Char)
	}
	if name, ok := e.constByText[key]; ok {
		return name
	}
	var name string
	if lit.Kind == ast.StringLiteral {
		e.strSeq++
		name = fmt.Sprintf("str%d", e.strSeq)
	} else {
		e.constSeq++
		name = fmt.Sprintf("k%d", e.constSeq)
	}
	e.constByText[key] = name
	e.mod.Consts = append(e.mod.Consts, literalConstDecl(name, lit))
	return name
}

// constForGlobalInit emits a dedicated, non-deduplicated const for a
// global's literal initializer, named __ginit_<global-name> per
// spec.md §6.3.
func (e *Emitter) constForGlobalInit(globalName string, lit *ast.Literal) string {
	name := fmt.Sprintf("__ginit_%s", globalName)
	e.mod.Consts = append(e.mod.Consts, literalConstDecl(name, lit))
	return name
}

// ---- statements ----

func (e *Emitter) emitStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.VariableDecl:
		idx := e.declareLocal(st.Name)
		if st.Init != nil {
			e.emitExpr(st.Init)
			e.emitDelta(-1, "stloc %d", idx)
		}
	case *ast.ExprStmt:
		e.emitExpr(st.X)
		if !isVoidCall(st.X) {
			e.emitDelta(-1, "pop")
		}
	case *ast.AssignStmt:
		e.emitAssign(st)
	case *ast.ReturnStmt:
		if st.Value != nil {
			e.emitExpr(st.Value)
		}
		e.emit("ret")
	case *ast.IfStmt:
		e.emitIf(st)
	case *ast.IfChainStmt:
		e.emitIfChain(st)
	case *ast.WhileStmt:
		e.emitWhile(st)
	case *ast.ForStmt:
		e.emitFor(st)
	case *ast.BreakStmt:
		e.emit("jmp %s", e.curBreakLabel)
	case *ast.SkipStmt:
		e.emit("jmp %s", e.curSkipLabel)
	}
}

// isVoidCall reports whether x is a call to IO.print/println, the only
// calls the emitter lowers to pushing nothing, so emitStmt must skip
// the otherwise-mandatory expression-statement `pop`.
func isVoidCall(x ast.Expr) bool {
	call, ok := x.(*ast.CallExpr)
	if !ok {
		return false
	}
	member, ok := call.Callee.(*ast.MemberExpr)
	if !ok {
		return false
	}
	return member.Name == "print" || member.Name == "println"
}

func (e *Emitter) emitAssign(st *ast.AssignStmt) {
	if st.Op != "=" {
		binOp := strings.TrimSuffix(st.Op, "=")
		e.emitExpr(st.Target)
		e.emitExpr(st.Value)
		e.emitBinOp(binOp, "i32")
		e.storeTo(st.Target)
		return
	}
	e.emitExpr(st.Value)
	e.storeTo(st.Target)
}

func (e *Emitter) storeTo(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Ident:
		if idx, ok := e.locals[t.Name]; ok {
			e.emitDelta(-1, "stloc %d", idx)
			return
		}
		e.emitDelta(-1, "stglob %s", t.Name)
	case *ast.MemberExpr:
		e.emitExpr(t.Base)
		e.emitDelta(0, "swap")
		e.emitDelta(-2, "stfld %s", t.Name)
	case *ast.IndexExpr:
		e.emitExpr(t.Base)
		e.emitExpr(t.Index)
		e.emitDelta(0, "swap")
		e.emitDelta(-3, "array.set.i32")
	}
}

func (e *Emitter) emitIf(st *ast.IfStmt) {
	elseLabel := e.label("L_else")
	endLabel := e.label("L_end")
	e.emitExpr(st.Cond)
	e.emitDelta(-1, "jmp.false %s", elseLabel)
	for _, s := range st.Then {
		e.emitStmt(s)
	}
	e.emit("jmp %s", endLabel)
	e.emit("%s:", elseLabel)
	for _, s := range st.Else {
		e.emitStmt(s)
	}
	e.emit("%s:", endLabel)
}

func (e *Emitter) emitIfChain(st *ast.IfChainStmt) {
	endLabel := e.label("L_end")
	for _, br := range st.Branches {
		nextLabel := e.label("L_next")
		e.emitExpr(br.Cond)
		e.emitDelta(-1, "jmp.false %s", nextLabel)
		for _, s := range br.Body {
			e.emitStmt(s)
		}
		e.emit("jmp %s", endLabel)
		e.emit("%s:", nextLabel)
	}
	for _, s := range st.Else {
		e.emitStmt(s)
	}
	e.emit("%s:", endLabel)
}

func (e *Emitter) emitWhile(st *ast.WhileStmt) {
	startLabel := e.label("L_start")
	endLabel := e.label("L_end")
	prevBreak, prevSkip := e.curBreakLabel, e.curSkipLabel
	e.curBreakLabel, e.curSkipLabel = endLabel, startLabel

	e.emit("%s:", startLabel)
	e.emitExpr(st.Cond)
	e.emitDelta(-1, "jmp.false %s", endLabel)
	for _, s := range st.Body {
		e.emitStmt(s)
	}
	e.emit("jmp %s", startLabel)
	e.emit("%s:", endLabel)

	e.curBreakLabel, e.curSkipLabel = prevBreak, prevSkip
}

func (e *Emitter) emitFor(st *ast.ForStmt) {
	startLabel := e.label("L_start")
	stepLabel := e.label("L_step")
	endLabel := e.label("L_end")
	prevBreak, prevSkip := e.curBreakLabel, e.curSkipLabel
	e.curBreakLabel, e.curSkipLabel = endLabel, stepLabel

	if st.Init != nil {
		e.emitStmt(st.Init)
	}
	e.emit("%s:", startLabel)
	if st.Cond != nil {
		e.emitExpr(st.Cond)
		e.emitDelta(-1, "jmp.false %s", endLabel)
	}
	for _, s := range st.Body {
		e.emitStmt(s)
	}
	e.emit("%s:", stepLabel)
	if st.Step != nil {
		e.emitStmt(st.Step)
	}
	e.emit("jmp %s", startLabel)
	e.emit("%s:", endLabel)

	e.curBreakLabel, e.curSkipLabel = prevBreak, prevSkip
}

// ---- expressions ----

func (e *Emitter) emitExpr(x ast.Expr) {
	switch ex := x.(type) {
	case *ast.Literal:
		e.emitLiteral(ex)
	case *ast.Ident:
		e.emitIdent(ex)
	case *ast.UnaryExpr:
		e.emitUnary(ex)
	case *ast.BinaryExpr:
		e.emitBinary(ex)
	case *ast.CallExpr:
		e.emitCall(ex)
	case *ast.MemberExpr:
		e.emitExpr(ex.Base)
		e.emitDelta(0, "ldfld %s", ex.Name)
	case *ast.IndexExpr:
		e.emitExpr(ex.Base)
		e.emitExpr(ex.Index)
		e.emitDelta(-1, "array.get.i32")
	case *ast.ArrayLiteral:
		e.emitDelta(1, "newarray i32 %d", len(ex.Elems))
		for i, el := range ex.Elems {
			e.emitDelta(0, "dup")
			e.emitDelta(1, "const.i32 %d", i)
			e.emitExpr(el)
			e.emitDelta(-2, "array.set.i32")
		}
	case *ast.ListLiteral:
		e.emitListLiteral(ex)
	case *ast.ArtifactLiteral:
		e.emitArtifactLiteral(ex)
	case *ast.FunctionLiteral:
		e.emitFunctionLiteral(ex)
	}
}

func (e *Emitter) emitLiteral(lit *ast.Literal) {
	switch lit.Kind {
	case ast.IntLiteral:
		e.emitDelta(1, "const.i32 %s", lit.Text)
	case ast.FloatLiteral:
		e.emitDelta(1, "const.f64 %s", lit.Text)
	case ast.StringLiteral:
		e.emitDelta(1, "const.string %s", e.constFor(lit))
	case ast.BoolLiteral:
		e.emitDelta(1, "const.bool %v", lit.Bool)
	case ast.CharLiteral:
		e.emitDelta(1, "const.char %s", strconv.Quote(string(lit.Char)))
	}
}

func (e *Emitter) emitIdent(id *ast.Ident) {
	if idx, ok := e.locals[id.Name]; ok {
		e.emitDelta(1, "ldloc %d", idx)
		return
	}
	e.emitDelta(1, "ldglob %s", id.Name)
}

func (e *Emitter) emitUnary(u *ast.UnaryExpr) {
	if u.Op == "++" || u.Op == "--" {
		e.emitIncDec(u)
		return
	}
	e.emitExpr(u.X)
	switch u.Op {
	case "-":
		e.emit("neg.i32")
	case "!":
		e.emit("not.bool")
	}
}

func (e *Emitter) emitIncDec(u *ast.UnaryExpr) {
	op := "add.i32"
	if u.Op == "--" {
		op = "sub.i32"
	}
	id, isIdent := u.X.(*ast.Ident)
	if !isIdent {
		e.emitExpr(u.X)
		return
	}
	if u.Postfix {
		e.emitIdent(id)
		e.emitDelta(0, "dup")
	}
	e.emitIdent(id)
	e.emitDelta(1, "const.i32 1")
	e.emitDelta(-1, op)
	e.storeTo(id)
	if !u.Postfix {
		e.emitIdent(id)
	}
}

func (e *Emitter) emitBinary(b *ast.BinaryExpr) {
	switch b.Op {
	case "&&":
		e.emitShortCircuit(b, false)
		return
	case "||":
		e.emitShortCircuit(b, true)
		return
	}
	e.emitExpr(b.Left)
	e.emitExpr(b.Right)
	e.emitBinOp(b.Op, "i32")
}

func (e *Emitter) emitBinOp(op, lane string) {
	switch op {
	case "+":
		e.emitDelta(-1, "add.%s", lane)
	case "-":
		e.emitDelta(-1, "sub.%s", lane)
	case "*":
		e.emitDelta(-1, "mul.%s", lane)
	case "/":
		e.emitDelta(-1, "div.%s", lane)
	case "%":
		e.emitDelta(-1, "mod.%s", lane)
	case "&":
		e.emitDelta(-1, "and.%s", lane)
	case "|":
		e.emitDelta(-1, "or.%s", lane)
	case "^":
		e.emitDelta(-1, "xor.%s", lane)
	case "<<":
		e.emitDelta(-1, "shl.%s", lane)
	case ">>":
		e.emitDelta(-1, "shr.%s", lane)
	case "==":
		e.emitDelta(-1, "cmp.eq.%s", lane)
	case "!=":
		e.emitDelta(-1, "cmp.ne.%s", lane)
	case "<":
		e.emitDelta(-1, "cmp.lt.%s", lane)
	case "<=":
		e.emitDelta(-1, "cmp.le.%s", lane)
	case ">":
		e.emitDelta(-1, "cmp.gt.%s", lane)
	case ">=":
		e.emitDelta(-1, "cmp.ge.%s", lane)
	}
}

func (e *Emitter) emitShortCircuit(b *ast.BinaryExpr, isOr bool) {
	shortLabel := e.label("L_short")
	endLabel := e.label("L_end")
	e.emitExpr(b.Left)
	if isOr {
		e.emitDelta(-1, "jmp.true %s", shortLabel)
	} else {
		e.emitDelta(-1, "jmp.false %s", shortLabel)
	}
	e.emitExpr(b.Right)
	if isOr {
		e.emitDelta(-1, "jmp.true %s", shortLabel)
		e.emitDelta(1, "const.bool false")
	} else {
		e.emitDelta(-1, "jmp.false %s", shortLabel)
		e.emitDelta(1, "const.bool true")
	}
	e.emit("jmp %s", endLabel)
	e.emit("%s:", shortLabel)
	e.emitDelta(1, "const.bool %v", isOr)
	e.emit("%s:", endLabel)
}

func (e *Emitter) emitCall(c *ast.CallExpr) {
	if member, ok := c.Callee.(*ast.MemberExpr); ok {
		if base, ok := member.Base.(*ast.Ident); ok {
			if mod, isReserved := reserved.Canonicalize(base.Name); isReserved && e.caps[mod] {
				e.emitReservedCall(mod, member.Name, c.Args)
				return
			}
		}
		// artifact method call: push the receiver, then the args, then
		// call the method qualified by its static type name.
		e.emitExpr(member.Base)
		for _, a := range c.Args {
			e.emitExpr(a)
		}
		e.emitDelta(-len(c.Args), "call %s %d", member.Name, len(c.Args)+1)
		return
	}
	if id, ok := c.Callee.(*ast.Ident); ok {
		for _, a := range c.Args {
			e.emitExpr(a)
		}
		e.emitDelta(1-len(c.Args), "call %s %d", id.Name, len(c.Args))
		return
	}
	for _, a := range c.Args {
		e.emitExpr(a)
	}
}

// emitReservedCall lowers IO.print/println per spec.md §4.5's segment
// splitting, and every other reserved-module call to a plain import
// call.
func (e *Emitter) emitReservedCall(mod reserved.Module, member string, args []ast.Expr) {
	if member == "print" || member == "println" {
		e.emitPrint(member, args)
		return
	}
	for _, a := range args {
		e.emitExpr(a)
	}
	e.emitDelta(1-len(args), "call %s.%s %d", mod, member, len(args))
}

// emitPrintSeg assumes one value is already on the stack and routes it
// through PrintAny, which consumes its one operand and pushes nothing.
func (e *Emitter) emitPrintSeg() {
	e.emitDelta(-1, "intrinsic PrintAny")
}

func (e *Emitter) emitPrintConst(text string) {
	e.emitDelta(1, "const.string %s", e.constFor(&ast.Literal{Kind: ast.StringLiteral, Text: text}))
	e.emitPrintSeg()
}

func (e *Emitter) emitPrint(member string, args []ast.Expr) {
	if len(args) == 1 {
		e.emitExpr(args[0])
		e.emitPrintSeg()
		if member == "println" {
			e.emitPrintConst("\n")
		}
		return
	}
	lit, ok := args[0].(*ast.Literal)
	if !ok || lit.Kind != ast.StringLiteral {
		return
	}
	segments := strings.Split(lit.Text, "{}")
	values := args[1:]
	for i, seg := range segments {
		if seg != "" {
			e.emitPrintConst(seg)
		}
		if i < len(values) {
			e.emitExpr(values[i])
			e.emitPrintSeg()
		}
	}
	if member == "println" {
		e.emitPrintConst("\n")
	}
}
