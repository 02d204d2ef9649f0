package semantic

import (
	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/errors"
	"github.com/cwbudde/simple-lang/internal/types"
)

var (
	boolType   = types.TypeRef{Name: "bool"}
	stringType = types.TypeRef{Name: "string"}
	charType   = types.TypeRef{Name: "char"}
	i32Type    = types.TypeRef{Name: "i32"}
	f64Type    = types.TypeRef{Name: "f64"}
)

// assignable reports whether a value of type from may be used where
// target is expected, applying literal-widening rules for int/float
// literal sources (tagged by the zero-width sentinel names "<int>" and
// "<float>" that inferExpr uses for untyped literals).
func (v *Validator) assignable(from, target types.TypeRef) bool {
	if from.Name == "" || target.Name == "" {
		return true // a prior error already produced the placeholder
	}
	if from.Name == "<int>" {
		tp, ok := target.Primitive()
		return ok && (types.IsIntegerPrimitive(tp) || types.IsFloatPrimitive(tp))
	}
	if from.Name == "<float>" {
		tp, ok := target.Primitive()
		return ok && types.IsFloatPrimitive(tp)
	}
	return from.Equal(target)
}

// inferExpr infers an expression's type, recording diagnostics along
// the way. It never stops at the first error: a failed sub-expression
// yields a zero TypeRef, which assignable treats as "already reported,
// don't cascade"; the '!', '&&', '||' and numeric-unary operand checks
// do not, and report again on it.
func (v *Validator) inferExpr(e ast.Expr, scope *Scope) types.TypeRef {
	switch ex := e.(type) {
	case *ast.Literal:
		return v.inferLiteral(ex)
	case *ast.Ident:
		return v.inferIdent(ex, scope)
	case *ast.UnaryExpr:
		return v.inferUnary(ex, scope)
	case *ast.BinaryExpr:
		return v.inferBinary(ex, scope)
	case *ast.CallExpr:
		return v.inferCall(ex, scope)
	case *ast.MemberExpr:
		return v.inferMember(ex, scope)
	case *ast.IndexExpr:
		return v.inferIndex(ex, scope)
	case *ast.ArrayLiteral:
		return v.inferArrayLiteral(ex, scope)
	case *ast.ArtifactLiteral:
		return v.inferArtifactLiteral(ex, scope)
	case *ast.FunctionLiteral:
		return types.TypeRef{Name: "fn", Proc: &types.ProcSig{}}
	}
	return types.TypeRef{}
}

func (v *Validator) inferLiteral(l *ast.Literal) types.TypeRef {
	switch l.Kind {
	case ast.IntLiteral:
		return types.TypeRef{Name: "<int>"}
	case ast.FloatLiteral:
		return types.TypeRef{Name: "<float>"}
	case ast.StringLiteral:
		return stringType
	case ast.CharLiteral:
		return charType
	case ast.BoolLiteral:
		return boolType
	}
	return types.TypeRef{}
}

func (v *Validator) inferIdent(id *ast.Ident, scope *Scope) types.TypeRef {
	if id.Name == "self" {
		if !v.curIsMethod {
			v.errorf(id.Position, errors.CodeName, "self used outside of artifact method")
			return types.TypeRef{}
		}
		if sym, ok := scope.lookup("self"); ok {
			return sym.Type
		}
	}
	if sym, ok := scope.lookup(id.Name); ok {
		return sym.Type
	}
	if sym, ok := v.globals.Variables[id.Name]; ok {
		return sym.Type
	}
	if sym, ok := v.globals.Reserved[id.Name]; ok {
		_ = sym
		return types.TypeRef{Name: id.Name} // resolved further at the call/member site
	}
	if _, ok := v.globals.Enums[id.Name]; ok {
		return types.TypeRef{Name: id.Name}
	}
	v.errorf(id.Position, errors.CodeName, "undeclared identifier '%s'", id.Name)
	return types.TypeRef{}
}

func (v *Validator) inferUnary(u *ast.UnaryExpr, scope *Scope) types.TypeRef {
	t := v.inferExpr(u.X, scope)
	switch u.Op {
	case "!":
		if !t.Equal(boolType) {
			v.errorf(u.Position, errors.CodeType, "'!' requires a bool operand, got %s", t.String())
		}
		return boolType
	case "-", "++", "--":
		if p, ok := t.Primitive(); ok {
			if !types.IsIntegerPrimitive(p) && !types.IsFloatPrimitive(p) && t.Name != "<int>" && t.Name != "<float>" {
				v.errorf(u.Position, errors.CodeType, "'%s' requires a numeric operand, got %s", u.Op, t.String())
			}
		} else if t.Name != "<int>" && t.Name != "<float>" {
			v.errorf(u.Position, errors.CodeType, "'%s' requires a numeric operand, got %s", u.Op, t.String())
		}
		return t
	}
	return t
}

func (v *Validator) inferBinary(b *ast.BinaryExpr, scope *Scope) types.TypeRef {
	lt := v.inferExpr(b.Left, scope)
	rt := v.inferExpr(b.Right, scope)
	switch b.Op {
	case "&&", "||":
		if !lt.Equal(boolType) || !rt.Equal(boolType) {
			v.errorf(b.Position, errors.CodeType, "'%s' requires bool operands", b.Op)
		}
		return boolType
	case "==", "!=":
		if lt.Equal(stringType) || rt.Equal(stringType) {
			v.errorf(b.Position, errors.CodeType, "'%s' is not defined on string operands", b.Op)
		}
		return boolType
	case "<", "<=", ">", ">=":
		return boolType
	case "&", "|", "^", "<<", ">>":
		return widerOf(lt, rt)
	case "%":
		return widerOf(lt, rt)
	default: // + - * /
		return widerOf(lt, rt)
	}
}

// widerOf picks the result type of a binary arithmetic op: a concrete
// primitive wins over an untyped literal type.
func widerOf(a, b types.TypeRef) types.TypeRef {
	if a.Name == "<int>" || a.Name == "<float>" {
		return b
	}
	return a
}

func (v *Validator) inferMember(m *ast.MemberExpr, scope *Scope) types.TypeRef {
	if id, ok := m.Base.(*ast.Ident); ok {
		if sym, ok := v.globals.Reserved[id.Name]; ok {
			member, ok := reservedLookup(sym.Reserved, m.Name)
			if !ok {
				msg := "unknown member '" + m.Name + "' of reserved module '" + id.Name + "'"
				if suggestion, ok := suggestReserved(sym.Reserved, m.Name); ok {
					msg += " (did you mean '" + suggestion + "'?)"
				}
				v.errorf(m.Position, errors.CodeReservedModule, "%s", msg)
				return types.TypeRef{}
			}
			return member
		}
	}
	baseType := v.inferExpr(m.Base, scope)
	if art, ok := v.globals.Artifacts[baseType.Name]; ok {
		for _, f := range art.Artifact.Fields {
			if f.Name == m.Name {
				return f.Type
			}
		}
		for _, meth := range art.Artifact.Methods {
			if meth.Name == m.Name {
				return meth.ReturnType
			}
		}
		v.errorf(m.Position, errors.CodeName, "artifact '%s' has no member '%s'", baseType.Name, m.Name)
	}
	return types.TypeRef{}
}

func (v *Validator) inferIndex(ix *ast.IndexExpr, scope *Scope) types.TypeRef {
	baseType := v.inferExpr(ix.Base, scope)
	idxType := v.inferExpr(ix.Index, scope)
	if p, ok := idxType.Primitive(); (!ok || !types.IsIntegerPrimitive(p)) && idxType.Name != "<int>" {
		v.errorf(ix.Position, errors.CodeType, "index expression must be an integer, got %s", idxType.String())
	}
	if !baseType.IsArray() {
		v.errorf(ix.Position, errors.CodeType, "cannot index non-array type %s", baseType.String())
		return types.TypeRef{}
	}
	return baseType.Elem()
}

func (v *Validator) inferArrayLiteral(a *ast.ArrayLiteral, scope *Scope) types.TypeRef {
	var elem types.TypeRef
	for i, e := range a.Elems {
		t := v.inferExpr(e, scope)
		if i == 0 {
			elem = t
		}
	}
	return types.TypeRef{Name: elem.Name, Dims: []types.Dim{{Size: len(a.Elems)}}}
}

func (v *Validator) inferArtifactLiteral(a *ast.ArtifactLiteral, scope *Scope) types.TypeRef {
	artSym, ok := v.globals.Artifacts[a.TypeName]
	if !ok {
		if a.TypeName != "" {
			v.errorf(a.Position, errors.CodeType, "unknown artifact type '%s'", a.TypeName)
		}
		for _, e := range a.Positional {
			v.inferExpr(e, scope)
		}
		for _, n := range a.Named {
			v.inferExpr(n.Value, scope)
		}
		return types.TypeRef{Name: a.TypeName}
	}
	fields := artSym.Artifact.Fields
	seen := map[string]bool{}
	for i, e := range a.Positional {
		vt := v.inferExpr(e, scope)
		if i < len(fields) {
			if !v.assignable(vt, fields[i].Type) {
				v.errorf(a.Position, errors.CodeType, "field '%s' expects %s, got %s", fields[i].Name, fields[i].Type.String(), vt.String())
			}
			seen[fields[i].Name] = true
		}
	}
	for _, n := range a.Named {
		vt := v.inferExpr(n.Value, scope)
		var field *ast.Field
		for i := range fields {
			if fields[i].Name == n.Name {
				field = &fields[i]
			}
		}
		if field == nil {
			v.errorf(a.Position, errors.CodeName, "artifact '%s' has no field '%s'", a.TypeName, n.Name)
			continue
		}
		if seen[n.Name] {
			v.errorf(a.Position, errors.CodeName, "field '%s' set both positionally and by name", n.Name)
		}
		if !v.assignable(vt, field.Type) {
			v.errorf(a.Position, errors.CodeType, "field '%s' expects %s, got %s", n.Name, field.Type.String(), vt.String())
		}
	}
	return types.TypeRef{Name: a.TypeName}
}
