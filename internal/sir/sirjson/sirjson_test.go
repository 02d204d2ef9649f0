package sirjson_test

import (
	"testing"

	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/sir"
	"github.com/cwbudde/simple-lang/internal/sir/sirjson"
)

func TestMarshal_RoundTripsFunctionSignature(t *testing.T) {
	src := `add : i32 (a : i32, b : i32) { return a + b; }`
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	mod := sir.Emit(prog, map[reserved.Module]bool{})

	doc, err := sirjson.Marshal(mod)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fn *sir.Func
	for _, f := range mod.Funcs {
		if f.Name == "add" {
			fn = f
		}
	}
	if fn == nil {
		t.Fatal("expected an add function in the emitted module")
	}

	sig, ok := sirjson.FuncSignature(doc, "add")
	if !ok {
		t.Fatalf("expected to find add's signature in the JSON mirror, got:\n%s", doc)
	}
	if sig != fn.Sig {
		t.Fatalf("expected sig %q, got %q", fn.Sig, sig)
	}
}
