package lexer

import (
	"testing"

	"github.com/cwbudde/simple-lang/pkg/token"
)

func collectTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	l := New(src)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	return types
}

func TestNextToken_KeywordsAndIdents(t *testing.T) {
	input := `fn main() { return 0 }`
	expected := []token.Type{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RETURN, token.INT, token.RBRACE, token.EOF,
	}
	got := collectTypes(t, input)
	if len(got) != len(expected) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(expected), got)
	}
	for i, typ := range expected {
		if got[i] != typ {
			t.Errorf("token %d: got %s, want %s", i, got[i], typ)
		}
	}
}

func TestNextToken_Punctuators(t *testing.T) {
	input := ":: : . .. == != <= >= << >>= && || ++ --"
	expected := []token.Type{
		token.COLONCOLON, token.COLON, token.DOT, token.DOTDOT,
		token.EQ, token.NEQ, token.LE, token.GE, token.SHL, token.SHR_ASSIGN,
		token.AND_AND, token.OR_OR, token.INC, token.DEC, token.EOF,
	}
	got := collectTypes(t, input)
	if len(got) != len(expected) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(expected), got)
	}
	for i, typ := range expected {
		if got[i] != typ {
			t.Errorf("token %d: got %s, want %s", i, got[i], typ)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	cases := []struct {
		src  string
		typ  token.Type
		lit  string
	}{
		{"42", token.INT, "42"},
		{"0x1F", token.INT, "0x1F"},
		{"0b1010", token.INT, "0b1010"},
		{"3.14", token.FLOAT, "3.14"},
		{"1e10", token.FLOAT, "1e10"},
		{"1.5e-3", token.FLOAT, "1.5e-3"},
	}
	for _, c := range cases {
		l := New(c.src)
		tok := l.NextToken()
		if tok.Type != c.typ || tok.Literal != c.lit {
			t.Errorf("%q: got %s(%q), want %s(%q)", c.src, tok.Type, tok.Literal, c.typ, c.lit)
		}
	}
}

func TestNextToken_MalformedNumbers(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{"0x", "invalid hex escape"},
		{"0b", "invalid binary literal"},
	}
	for _, c := range cases {
		l := New(c.src)
		l.NextToken()
		if len(l.Errors()) == 0 {
			t.Errorf("%q: expected an error, got none", c.src)
			continue
		}
		if l.Errors()[0].Message != c.msg {
			t.Errorf("%q: got error %q, want %q", c.src, l.Errors()[0].Message, c.msg)
		}
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\x41"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("got %s, want STRING", tok.Type)
	}
	want := "a\nb\tcA"
	if tok.Literal != want {
		t.Errorf("got %q, want %q", tok.Literal, want)
	}
}

func TestNextToken_CharLiteral(t *testing.T) {
	l := New(`'x' '\n'`)
	first := l.NextToken()
	if first.Type != token.CHAR || first.Literal != "x" {
		t.Errorf("got %s(%q), want CHAR(\"x\")", first.Type, first.Literal)
	}
	second := l.NextToken()
	if second.Type != token.CHAR || second.Literal != "\n" {
		t.Errorf("got %s(%q), want CHAR newline", second.Type, second.Literal)
	}
}

func TestNextToken_CharLiteralTooLong(t *testing.T) {
	l := New(`'ab'`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected an error for multi-character char literal")
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := "fn // trailing\nmain /* block\ncomment */ ()"
	expected := []token.Type{token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.EOF}
	got := collectTypes(t, input)
	if len(got) != len(expected) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(expected), got)
	}
	for i, typ := range expected {
		if got[i] != typ {
			t.Errorf("token %d: got %s, want %s", i, got[i], typ)
		}
	}
}

func TestPeek_DoesNotConsume(t *testing.T) {
	l := New("a b c")
	first := l.Peek(0)
	second := l.Peek(1)
	if first.Literal != "a" || second.Literal != "b" {
		t.Fatalf("peek mismatch: %q, %q", first.Literal, second.Literal)
	}
	if got := l.NextToken(); got.Literal != "a" {
		t.Errorf("NextToken after Peek got %q, want %q", got.Literal, "a")
	}
	if got := l.NextToken(); got.Literal != "b" {
		t.Errorf("NextToken after Peek got %q, want %q", got.Literal, "b")
	}
}

func TestNextToken_Positions(t *testing.T) {
	l := New("fn\nmain")
	first := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Errorf("got %s, want 1:1", first.Pos)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 {
		t.Errorf("got line %d, want 2", second.Pos.Line)
	}
}
