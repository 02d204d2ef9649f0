package lexer

import (
	"golang.org/x/text/unicode/norm"
)

// asciiFastPath reports whether s is already normalized ASCII, letting
// NormalizeLiteral skip a full Unicode normalization pass
// for the common case (every keyword, operator, and built-in identifier
// in the language grammar is ASCII).
func asciiFastPath(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// NormalizeLiteral returns s in Unicode NFC form; readString applies it
// to every string literal's contents as the literal is scanned. ASCII input
// (the fast path) is returned unchanged without invoking norm.
func NormalizeLiteral(s string) string {
	if asciiFastPath(s) {
		return s
	}
	return norm.NFC.String(s)
}
