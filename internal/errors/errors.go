// Package errors formats Simple compiler diagnostics: the single-line
// "line:col: message" contract every phase must honor, plus a richer
// "error[Exxxx]: ..." pretty-printer with source context and a caret.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/simple-lang/pkg/token"
)

// Code is a stable, machine-checkable diagnostic category.
type Code string

const (
	CodeLex           Code = "lex-error"
	CodeParse         Code = "parse-error"
	CodeImport        Code = "import-error"
	CodeName          Code = "name-error"
	CodeType          Code = "type-error"
	CodeMutability    Code = "mutability-error"
	CodeArity         Code = "arity-error"
	CodeReservedModule Code = "reserved-module-error"
	CodeControlFlow   Code = "control-flow-error"
	CodeEmit          Code = "emit-error"
)

// hints maps a Code to a short, user-facing remediation blurb shown below
// the caret in the pretty-printed form. Not every code has one.
var hints = map[Code]string{
	CodeImport:         "check the import path against the project's search roots",
	CodeReservedModule: "reserved module members are case-sensitive; see the module's signature table",
	CodeControlFlow:    "every branch of a function with a return type must return a value",
}

// CompilerError is a single compilation diagnostic with position and
// enough source context to render either the flat or the pretty form.
type CompilerError struct {
	Code    Code
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// NewCompilerError constructs a CompilerError.
func NewCompilerError(code Code, pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Code: code, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface using the flat single-line form.
func (e *CompilerError) Error() string { return e.Oneline() }

// Oneline renders the stable "line:col: message" contract.
func (e *CompilerError) Oneline() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Pretty renders the "error[Exxxx]: message" form with a source line, a
// caret under the offending column, and an optional hint.
func (e *CompilerError) Pretty(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("error[%s]: %s", e.errNumber(), e.Message)
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(header)
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")

	loc := e.File
	if loc == "" {
		loc = "<input>"
	}
	sb.WriteString(fmt.Sprintf("  --> %s:%d:%d\n", loc, e.Pos.Line, e.Pos.Column))

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+maxInt(e.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if hint, ok := hints[e.Code]; ok {
		sb.WriteString(fmt.Sprintf("  = hint: %s\n", hint))
	}

	return sb.String()
}

// errNumber derives a stable diagnostic number from Code for display
// purposes, e.g. "E0001" for lex-error. The mapping is fixed by position
// in this table, not alphabetically, so appending a new Code at the end
// never renumbers an existing one; inserting one earlier does.
var codeNumbers = []Code{
	CodeLex, CodeParse, CodeImport, CodeName, CodeType,
	CodeMutability, CodeArity, CodeReservedModule, CodeControlFlow, CodeEmit,
}

func (e *CompilerError) errNumber() string {
	for i, c := range codeNumbers {
		if c == e.Code {
			return fmt.Sprintf("E%04d", i+1)
		}
	}
	return "E0000"
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatErrors renders every error in errs using Oneline, one per line.
// This is the contract spec.md §6.4/§7 describes for non-TTY output.
func FormatErrors(errs []*CompilerError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Oneline()
	}
	return strings.Join(lines, "\n")
}

// FormatErrorsPretty renders every error in errs using Pretty, the
// richer caret-annotated form used on a TTY.
func FormatErrorsPretty(errs []*CompilerError, color bool) string {
	var sb strings.Builder
	for i, e := range errs {
		sb.WriteString(e.Pretty(color))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WrapContext prefixes err's message with a phase-specific location such
// as "in function 'main': ", preserving the underlying CompilerError's
// position and code when err is one.
func WrapContext(err error, context string) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CompilerError); ok {
		wrapped := *ce
		wrapped.Message = context + ce.Message
		return &wrapped
	}
	return fmt.Errorf("%s%w", context, err)
}
