package semantic

import (
	"strings"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/errors"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/types"
)

func reservedLookup(mod reserved.Module, name string) (types.TypeRef, bool) {
	m, ok := reserved.Lookup(mod, name)
	if !ok {
		return types.TypeRef{}, false
	}
	return m.Result, true
}

func suggestReserved(mod reserved.Module, name string) (string, bool) {
	return reserved.Suggest(mod, name)
}

// inferCall resolves a call's callee, checks argument count and types
// (with a best-effort generic-parameter substitution), and returns the
// callee's result type.
func (v *Validator) inferCall(c *ast.CallExpr, scope *Scope) types.TypeRef {
	if id, ok := c.Callee.(*ast.Ident); ok && strings.HasPrefix(id.Name, "@") {
		target := c.TypeArgs[0]
		for _, a := range c.Args {
			argType := v.inferExpr(a, scope)
			if fromPrim, ok := argType.Primitive(); ok && fromPrim == types.Bool {
				if toPrim, ok := target.Primitive(); ok && toPrim != types.Bool {
					v.errorf(c.Position, errors.CodeType, "unsupported cast: bool to %s", target.String())
				}
			}
		}
		return target
	}

	if member, ok := c.Callee.(*ast.MemberExpr); ok {
		if base, ok := member.Base.(*ast.Ident); ok {
			if sym, ok := v.globals.Reserved[base.Name]; ok {
				return v.checkReservedCall(sym.Reserved, base.Name, member.Name, c, scope)
			}
		}
	}

	id, ok := c.Callee.(*ast.Ident)
	if !ok {
		v.inferExpr(c.Callee, scope)
		for _, a := range c.Args {
			v.inferExpr(a, scope)
		}
		return types.TypeRef{}
	}

	fnSym, ok := v.globals.Functions[id.Name]
	if !ok {
		v.errorf(c.Position, errors.CodeName, "call to undeclared function '%s'", id.Name)
		for _, a := range c.Args {
			v.inferExpr(a, scope)
		}
		return types.TypeRef{}
	}
	fn := fnSym.Func
	if len(c.Args) != len(fn.Params) {
		v.errorf(c.Position, errors.CodeArity, "'%s' expects %d argument(s), got %d", id.Name, len(fn.Params), len(c.Args))
	}
	if len(fn.GenericParams) == 0 && len(c.TypeArgs) > 0 {
		v.errorf(c.Position, errors.CodeArity, "'%s' is not generic but was called with explicit type arguments", id.Name)
	}
	subst := map[string]types.TypeRef{}
	for i, arg := range c.Args {
		argType := v.inferExpr(arg, scope)
		if i >= len(fn.Params) {
			continue
		}
		param := fn.Params[i]
		if isGenericArg(fn.GenericParams, param.Type.Name) {
			if prev, bound := subst[param.Type.Name]; bound {
				if !v.assignable(argType, prev) {
					v.errorf(c.Position, errors.CodeType, "argument %d of '%s' conflicts with inferred type %s for %s", i+1, id.Name, prev.String(), param.Type.Name)
				}
			} else {
				subst[param.Type.Name] = argType
			}
			continue
		}
		if !v.assignable(argType, param.Type) {
			v.errorf(c.Position, errors.CodeType, "argument %d of '%s' expects %s, got %s", i+1, id.Name, param.Type.String(), argType.String())
		}
	}
	if isGenericArg(fn.GenericParams, fn.ReturnType.Name) {
		if t, ok := subst[fn.ReturnType.Name]; ok {
			return t
		}
	}
	return fn.ReturnType
}

// checkReservedCall type-checks a call through a reserved-module
// identifier, special-casing IO.print/IO.println's format-string arity
// rule from spec.md §4.4.
func (v *Validator) checkReservedCall(mod reserved.Module, aliasName, memberName string, c *ast.CallExpr, scope *Scope) types.TypeRef {
	argTypes := make([]types.TypeRef, len(c.Args))
	for i, a := range c.Args {
		argTypes[i] = v.inferExpr(a, scope)
	}

	if mod == reserved.IO && (memberName == "print" || memberName == "println") {
		if len(c.Args) == 1 {
			return types.TypeRef{Name: "void"}
		}
		if len(c.Args) >= 1 {
			if lit, ok := c.Args[0].(*ast.Literal); ok && lit.Kind == ast.StringLiteral {
				want := strings.Count(lit.Text, "{}")
				got := len(c.Args) - 1
				if want != got {
					v.errorf(c.Position, errors.CodeArity, "format placeholder count mismatch: expected %d, got %d", want, got)
				}
				return types.TypeRef{Name: "void"}
			}
		}
		v.errorf(c.Position, errors.CodeType, "'%s' expects one scalar value or a string-literal format with arguments", memberName)
		return types.TypeRef{Name: "void"}
	}

	member, ok := reserved.Lookup(mod, memberName)
	if !ok {
		msg := "unknown member '" + memberName + "' of reserved module '" + aliasName + "'"
		if suggestion, ok := suggestReserved(mod, memberName); ok {
			msg += " (did you mean '" + suggestion + "'?)"
		}
		v.errorf(c.Position, errors.CodeReservedModule, "%s", msg)
		return types.TypeRef{}
	}
	if !member.Variadic && len(c.Args) != len(member.Params) {
		v.errorf(c.Position, errors.CodeArity, "'%s.%s' expects %d argument(s), got %d", aliasName, memberName, len(member.Params), len(c.Args))
	}
	if mod == reserved.CoreDL && len(c.Args) > coreDLMaxParams {
		v.errorf(c.Position, errors.CodeArity, "'%s.%s' exceeds the Core.DL ABI parameter cap of %d arguments", aliasName, memberName, coreDLMaxParams)
	}
	return member.Result
}

// coreDLMaxParams is the Core.DL dynamic-load ABI's parameter-count
// cap, taken from the original implementation's manifest binder.
const coreDLMaxParams = 254
