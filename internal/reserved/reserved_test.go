package reserved

import "testing"

func TestCanonicalize_Aliases(t *testing.T) {
	cases := map[string]Module{
		"io":          IO,
		"system.io":   IO,
		"system.stream": IO,
		"math":        Math,
		"system.math": Math,
		"Core.DL":     CoreDL,
		"core.dl":     CoreDL,
		"Core.OS":     CoreOS,
		"Core.FS":     CoreFS,
		"Core.Log":    CoreLog,
	}
	for path, want := range cases {
		got, ok := Canonicalize(path)
		if !ok || got != want {
			t.Errorf("Canonicalize(%q) = (%q, %v), want (%q, true)", path, got, ok, want)
		}
	}
}

func TestCanonicalize_RejectsMixedCase(t *testing.T) {
	if _, ok := Canonicalize("Io"); ok {
		t.Error("expected mixed-case 'Io' to be rejected")
	}
	if _, ok := Canonicalize("CORE.DL"); ok {
		t.Error("expected all-upper 'CORE.DL' to be rejected")
	}
}

func TestCanonicalize_Unknown(t *testing.T) {
	if _, ok := Canonicalize("nonsense"); ok {
		t.Error("expected unknown path to be rejected")
	}
}

func TestLookup(t *testing.T) {
	m, ok := Lookup(IO, "println")
	if !ok || len(m.Params) == 0 {
		t.Fatalf("expected IO.println to resolve, got %+v, %v", m, ok)
	}
	if _, ok := Lookup(IO, "printline"); ok {
		t.Fatal("did not expect 'printline' to resolve")
	}
}

func TestSuggest(t *testing.T) {
	name, ok := Suggest(IO, "printl")
	if !ok || name != "print" {
		t.Fatalf("Suggest(IO, \"printl\") = (%q, %v), want (\"print\", true)", name, ok)
	}
	if _, ok := Suggest(IO, "zzzzzzzzzzzz"); ok {
		t.Fatal("expected no suggestion beyond edit distance 3")
	}
}
