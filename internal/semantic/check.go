package semantic

import (
	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/errors"
	"github.com/cwbudde/simple-lang/internal/types"
)

// check is pass (b): verify every function body, top-level statement,
// and type annotation.
func (v *Validator) check(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			v.checkFunction(decl)
		case *ast.ArtifactDecl:
			v.checkArtifact(decl)
			for _, m := range decl.Methods {
				v.checkFunction(m)
			}
		case *ast.ModuleDecl:
			for _, fn := range decl.Functions {
				v.checkFunction(fn)
			}
		}
	}

	top := newScope(nil)
	for name, sym := range v.globals.Variables {
		top.declare(&Symbol{Kind: SymVar, Name: name, Type: sym.Type, Mutable: sym.Mutable})
	}
	v.curFuncName = "<script>"
	v.curFuncReturn = types.TypeRef{Name: "void"}
	v.curIsMethod = false
	returns := v.checkBlock(prog.Statements, top)
	_ = returns // top-level script statements are allowed to fall through
}

func (v *Validator) checkArtifact(a *ast.ArtifactDecl) {
	for _, f := range a.Fields {
		if !v.typeRefKnown(f.Type) && !isGenericArg(a.GenericParams, f.Type.Name) {
			v.errorf(f.Position, errors.CodeType, "unknown type '%s' for field '%s'", f.Type.Name, f.Name)
		}
	}
}

func isGenericArg(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}

func (v *Validator) checkFunction(fn *ast.FunctionDecl) {
	v.genericParams = map[string]bool{}
	for _, g := range fn.GenericParams {
		v.genericParams[g] = true
	}
	v.curFuncName = fn.Name
	v.curFuncReturn = fn.ReturnType
	v.curIsMethod = fn.IsMethod

	scope := newScope(nil)
	if fn.IsMethod {
		scope.declare(&Symbol{Kind: SymVar, Name: "self", Type: types.TypeRef{Name: fn.ReceiverName}, Mutable: true})
	}
	for _, p := range fn.Params {
		if !scope.declare(&Symbol{Kind: SymVar, Name: p.Name, Type: p.Type, Mutable: p.Mutable}) {
			v.errorf(p.Position, errors.CodeName, "duplicate parameter name '%s'", p.Name)
		}
	}

	returns := v.checkBlock(fn.Body, scope)

	if fn.ReturnType.Name != "" && fn.ReturnType.Name != "void" && !returns {
		if fn.Name == "main" {
			// main is permitted to fall through; an implicit `return 0`
			// is inserted by the emitter.
		} else {
			v.errorf(fn.Position, errors.CodeControlFlow, "non-void function does not return on all paths: '%s'", fn.Name)
		}
	}
}

// checkBlock checks every statement in stmts within a fresh child scope
// and reports whether the block returns on every path.
func (v *Validator) checkBlock(stmts []ast.Stmt, parent *Scope) bool {
	scope := newScope(parent)
	returned := false
	for _, s := range stmts {
		if v.checkStmt(s, scope) {
			returned = true
		}
	}
	return returned
}

// checkStmt checks one statement and reports whether it always returns.
func (v *Validator) checkStmt(s ast.Stmt, scope *Scope) bool {
	switch st := s.(type) {
	case *ast.VariableDecl:
		v.checkVarDecl(st, scope)
		return false
	case *ast.AssignStmt:
		v.checkAssign(st, scope)
		return false
	case *ast.ExprStmt:
		v.inferExpr(st.X, scope)
		return false
	case *ast.ReturnStmt:
		v.checkReturn(st, scope)
		return true
	case *ast.IfStmt:
		thenReturns := v.checkBlock(st.Then, scope)
		v.inferExpr(st.Cond, scope)
		if st.Else == nil {
			return false
		}
		elseReturns := v.checkBlock(st.Else, scope)
		return thenReturns && elseReturns
	case *ast.IfChainStmt:
		allReturn := st.Else != nil
		for _, br := range st.Branches {
			v.inferExpr(br.Cond, scope)
			if !v.checkBlock(br.Body, scope) {
				allReturn = false
			}
		}
		if st.Else != nil && !v.checkBlock(st.Else, scope) {
			allReturn = false
		}
		return allReturn
	case *ast.WhileStmt:
		v.inferExpr(st.Cond, scope)
		v.loopDepth++
		v.checkBlock(st.Body, scope)
		v.loopDepth--
		return false
	case *ast.ForStmt:
		forScope := newScope(scope)
		if st.Init != nil {
			v.checkVarDecl(st.Init, forScope)
		}
		if st.Cond != nil {
			v.inferExpr(st.Cond, forScope)
		}
		if st.Step != nil {
			v.checkStmt(st.Step, forScope)
		}
		v.loopDepth++
		v.checkBlock(st.Body, forScope)
		v.loopDepth--
		return false
	case *ast.BreakStmt:
		if v.loopDepth == 0 {
			v.errorf(st.Position, errors.CodeControlFlow, "'break' used outside a loop")
		}
		return false
	case *ast.SkipStmt:
		if v.loopDepth == 0 {
			v.errorf(st.Position, errors.CodeControlFlow, "'skip' used outside a loop")
		}
		return false
	}
	return false
}

func (v *Validator) checkVarDecl(vd *ast.VariableDecl, scope *Scope) {
	if vd.HasType && !v.typeRefKnown(vd.Type) {
		v.errorf(vd.Position, errors.CodeType, "unknown type '%s'", vd.Type.Name)
	}
	declType := vd.Type
	if vd.Init != nil {
		initType := v.inferExpr(vd.Init, scope)
		if vd.HasType {
			if !v.assignable(initType, vd.Type) {
				v.errorf(vd.Position, errors.CodeType, "cannot initialize '%s' of type %s with value of type %s", vd.Name, vd.Type.String(), initType.String())
			}
		} else {
			declType = initType
		}
	}
	if !scope.declare(&Symbol{Kind: SymVar, Name: vd.Name, Type: declType, Mutable: vd.Mutable}) {
		v.errorf(vd.Position, errors.CodeName, "'%s' is already declared in this scope", vd.Name)
	}
}

func (v *Validator) checkReturn(st *ast.ReturnStmt, scope *Scope) {
	if st.Value == nil {
		if v.curFuncReturn.Name != "" && v.curFuncReturn.Name != "void" {
			v.errorf(st.Position, errors.CodeType, "function '%s' must return a value of type %s", v.curFuncName, v.curFuncReturn.String())
		}
		return
	}
	vt := v.inferExpr(st.Value, scope)
	if v.curFuncReturn.Name == "void" || v.curFuncReturn.Name == "" {
		v.errorf(st.Position, errors.CodeType, "function '%s' returns void and cannot return a value", v.curFuncName)
		return
	}
	if !v.assignable(vt, v.curFuncReturn) {
		v.errorf(st.Position, errors.CodeType, "function '%s' returns %s but got %s", v.curFuncName, v.curFuncReturn.String(), vt.String())
	}
}

func (v *Validator) checkAssign(st *ast.AssignStmt, scope *Scope) {
	targetType, mutable := v.inferAssignTarget(st.Target, scope)
	if !mutable {
		v.errorf(st.Position, errors.CodeMutability, "assignment target is not mutable")
	}
	valType := v.inferExpr(st.Value, scope)
	if st.Op != "=" && !v.assignable(valType, targetType) {
		v.errorf(st.Position, errors.CodeType, "cannot apply '%s' with value of type %s to target of type %s", st.Op, valType.String(), targetType.String())
		return
	}
	if st.Op == "=" && !v.assignable(valType, targetType) {
		v.errorf(st.Position, errors.CodeType, "cannot assign value of type %s to target of type %s", valType.String(), targetType.String())
	}
}

// inferAssignTarget infers an lvalue's type and whether it is mutable,
// per spec.md §4.4's assignment-target rules.
func (v *Validator) inferAssignTarget(e ast.Expr, scope *Scope) (types.TypeRef, bool) {
	switch t := e.(type) {
	case *ast.Ident:
		sym, ok := scope.lookup(t.Name)
		if !ok {
			v.errorf(t.Position, errors.CodeName, "undeclared identifier '%s'", t.Name)
			return types.TypeRef{}, true
		}
		return sym.Type, sym.Mutable
	case *ast.MemberExpr:
		baseType, baseMutable := v.inferAssignTarget(t.Base, scope)
		fieldType, fieldMutable := v.lookupFieldType(baseType, t.Name)
		return fieldType, baseMutable && fieldMutable
	case *ast.IndexExpr:
		baseType, baseMutable := v.inferAssignTarget(t.Base, scope)
		v.inferExpr(t.Index, scope)
		return elemOrBase(baseType), baseMutable
	}
	return v.inferExpr(e, scope), false
}

func elemOrBase(t types.TypeRef) types.TypeRef {
	if t.IsArray() {
		return t.Elem()
	}
	return t
}

func (v *Validator) lookupFieldType(baseType types.TypeRef, name string) (types.TypeRef, bool) {
	art, ok := v.globals.Artifacts[baseType.Name]
	if !ok {
		return types.TypeRef{}, true
	}
	for _, f := range art.Artifact.Fields {
		if f.Name == name {
			return f.Type, f.Mutable
		}
	}
	return types.TypeRef{}, true
}
