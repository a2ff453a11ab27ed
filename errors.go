package norg

import (
	"fmt"
	"strings"

	"github.com/norg-go/norg/internal/block"
	"github.com/norg-go/norg/internal/lexer"
)

// ErrorStage identifies which pipeline stage produced a ParseError.
type ErrorStage int

const (
	LexError ErrorStage = iota
	Stage2Error
	Stage3Error
)

func (s ErrorStage) String() string {
	switch s {
	case LexError:
		return "lex error"
	case Stage2Error:
		return "stage2 error"
	case Stage3Error:
		return "stage3 error"
	default:
		return "parse error"
	}
}

// ParseError is the single error type Parse and ParseTree return. It
// carries enough position information to render a Rust/Clang-style
// snippet — a "-->" pointer, the offending source line, and a caret under
// the column — the way the teacher's runtime/parser/errors.go does.
type ParseError struct {
	Stage  ErrorStage
	Reason string

	// Line and Column are 1-indexed; zero means unknown (Stage2Error
	// carries no position — see spec.md §7).
	Line   int
	Column int

	input string
	cause error
}

func newParseError(stage ErrorStage, reason string, line, column int, input string, cause error) *ParseError {
	return &ParseError{Stage: stage, Reason: reason, Line: line, Column: column, input: input, cause: cause}
}

func (e *ParseError) Error() string {
	snippet := e.createCodeSnippet()
	if snippet == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
	}
	return fmt.Sprintf("%s: %s\n%s", e.Stage, e.Reason, snippet)
}

func (e *ParseError) Unwrap() error { return e.cause }

func (e *ParseError) createCodeSnippet() string {
	if e.input == "" || e.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.input, "\n")
	if e.Line > len(lines) {
		return ""
	}
	lineContent := lines[e.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", e.Line, e.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Line, lineContent)
	b.WriteString("   | ")
	if e.Column > 0 && e.Column <= len(lineContent)+1 {
		b.WriteString(strings.Repeat(" ", e.Column-1) + "^")
	}
	return b.String()
}

// wrapLexError converts a *lexer.Error into a *ParseError carrying a
// line:column derived from its byte offset.
func wrapLexError(input string, err *lexer.Error) *ParseError {
	line, col := lineColAt(input, err.Offset)
	return newParseError(LexError, err.Reason, line, col, input, err)
}

// wrapStage3Error converts a *block.Error into a *ParseError. NearIndex is
// a line index into stage 3's own line split, which tracks the input's
// newline-delimited lines closely but is not guaranteed identical when a
// run of blank lines is collapsed into one ParagraphBreak separator; the
// resulting line:column is therefore best-effort.
func wrapStage3Error(input string, err *block.Error) *ParseError {
	lines := strings.Split(input, "\n")
	line := err.NearIndex + 1
	if line < 1 || line > len(lines) {
		return newParseError(Stage3Error, err.Reason, 0, 0, input, err)
	}
	return newParseError(Stage3Error, err.Reason, line, 1, input, err)
}

// wrapStage2Error converts stage 2's plain errors (always internal — an
// impossible token sequence coming out of a correct lexer) into a
// *ParseError with no position, per spec.md §7.
func wrapStage2Error(input string, err error) *ParseError {
	return newParseError(Stage2Error, err.Error(), 0, 0, input, err)
}

func lineColAt(input string, offset int) (line, col int) {
	line, col = 1, 1
	for i, r := range input {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
