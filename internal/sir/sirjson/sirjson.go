// Package sirjson is a thin, read-side-only JSON mirror of the textual
// SIR contract in internal/sir. It exists for tooling that wants
// structured access to a module's signature table (function names,
// frame shapes, import ids) without writing a full SIR parser; the
// textual form from Module.String remains the canonical representation.
package sirjson

import (
	"strconv"

	"github.com/cwbudde/simple-lang/internal/sir"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Marshal builds a JSON document describing mod's consts, globals,
// imports, and function signatures. Instruction bodies are included
// verbatim as a string array; this is a mirror, not an alternate
// encoding of the instruction stream.
func Marshal(mod *sir.Module) ([]byte, error) {
	doc := []byte("{}")
	var err error

	doc, err = sjson.SetBytes(doc, "entry", mod.Entry)
	if err != nil {
		return nil, err
	}

	for i, c := range mod.Consts {
		doc, err = setAll(doc, "consts", i, map[string]string{
			"name": c.Name, "type": c.SIRType, "literal": c.Literal,
		})
		if err != nil {
			return nil, err
		}
	}

	for i, g := range mod.Globals {
		doc, err = setAll(doc, "globals", i, map[string]string{
			"name": g.Name, "type": g.SIRType, "init": g.Init,
		})
		if err != nil {
			return nil, err
		}
	}

	for i, imp := range mod.Imports {
		doc, err = setAll(doc, "imports", i, map[string]string{
			"id": imp.ID, "module": imp.Module, "symbol": imp.Symbol, "sig": imp.Sig,
		})
		if err != nil {
			return nil, err
		}
	}

	for i, fn := range mod.Funcs {
		base := field("funcs", i)
		doc, err = sjson.SetBytes(doc, base+".name", fn.Name)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".locals", fn.Locals)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".stack", fn.Stack)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".sig", fn.Sig)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, base+".instrs", fn.Instrs)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func field(section string, i int) string {
	return section + "." + strconv.Itoa(i)
}

func setAll(doc []byte, section string, i int, kv map[string]string) ([]byte, error) {
	base := field(section, i)
	var err error
	for k, v := range kv {
		doc, err = sjson.SetBytes(doc, base+"."+k, v)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// FuncSignature returns the sig name of the function named funcName
// in a JSON document produced by Marshal, using gjson to reach
// into the funcs array without decoding the whole document.
func FuncSignature(doc []byte, funcName string) (sig string, ok bool) {
	funcs := gjson.GetBytes(doc, "funcs")
	var found string
	funcs.ForEach(func(_, fn gjson.Result) bool {
		if fn.Get("name").String() == funcName {
			found = fn.Get("sig").String()
			ok = true
			return false
		}
		return true
	})
	return found, ok
}
