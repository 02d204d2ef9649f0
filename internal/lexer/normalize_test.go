package lexer

import "testing"

func TestNormalizeLiteral_ASCIIUnchanged(t *testing.T) {
	if got := NormalizeLiteral("hello world"); got != "hello world" {
		t.Fatalf("expected ASCII input unchanged, got %q", got)
	}
}

func TestNormalizeLiteral_NonASCIINormalizesToNFC(t *testing.T) {
	// "e" + combining acute accent decomposed form, should normalize to
	// the single precomposed "é" codepoint under NFC.
	decomposed := "é"
	got := NormalizeLiteral(decomposed)
	want := "é"
	if got != want {
		t.Fatalf("expected NFC-normalized %q, got %q", want, got)
	}
}
