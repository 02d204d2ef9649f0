package types

import "testing"

func TestCloneEqualsOriginal(t *testing.T) {
	original := TypeRef{
		Name:         "Pair",
		PointerDepth: 1,
		Dims:         []Dim{{Size: 0}, {Size: 4}},
		TypeArgs:     []TypeRef{{Name: "i32"}, {Name: "string"}},
	}
	clone := original.Clone()
	if !original.Equal(clone) {
		t.Fatalf("clone %+v not equal to original %+v", clone, original)
	}
	clone.TypeArgs[0].Name = "i64"
	if original.TypeArgs[0].Name == "i64" {
		t.Fatal("mutating clone's type args mutated the original")
	}
}

func TestEqual_DifferentPointerDepth(t *testing.T) {
	a := TypeRef{Name: "i32"}
	b := TypeRef{Name: "i32", PointerDepth: 1}
	if a.Equal(b) {
		t.Fatal("expected i32 != ^i32")
	}
}

func TestPrimitive(t *testing.T) {
	ref := TypeRef{Name: "i32"}
	p, ok := ref.Primitive()
	if !ok || p != I32 {
		t.Fatalf("got (%v, %v), want (i32, true)", p, ok)
	}

	ptr := TypeRef{Name: "i32", PointerDepth: 1}
	if _, ok := ptr.Primitive(); ok {
		t.Fatal("pointer-to-primitive should not itself report Primitive")
	}
}

func TestWidens(t *testing.T) {
	if !Widens(I32, F64) {
		t.Error("expected untyped-int-literal widening to f64")
	}
	if Widens(F64, I32) {
		t.Error("float literal must not widen to an integer primitive")
	}
	if !Widens(Bool, Bool) {
		t.Error("identical primitives should always widen to themselves")
	}
}

func TestString(t *testing.T) {
	ref := TypeRef{Name: "i32", Dims: []Dim{{Size: 0}}}
	if got, want := ref.String(), "[]i32"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	fixed := TypeRef{Name: "i32", Dims: []Dim{{Size: 4}}}
	if got, want := fixed.String(), "[4]i32"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	ptr := TypeRef{Name: "i32", PointerDepth: 2}
	if got, want := ptr.String(), "^^i32"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
