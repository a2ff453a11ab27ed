package block

import (
	"strings"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/lexer"
)

// parseExtensionGroup consumes a leading `( ... )` modifier-extension group
// from rest, if present, returning the remaining tokens (with a single
// separating space trimmed) and the parsed extensions. With no group
// present, or an unmatched '(', rest is returned unchanged.
func parseExtensionGroup(rest []lexer.Token) ([]lexer.Token, []ast.Extension, error) {
	if len(rest) == 0 || !sigilAt(rest, 0, '(', 1) {
		return rest, nil, nil
	}
	closeAt := -1
	for j := 1; j < len(rest); j++ {
		if sigilAt(rest, j, ')', 1) {
			closeAt = j
			break
		}
	}
	if closeAt == -1 {
		return rest, nil, nil
	}

	var exts []ast.Extension
	for _, seg := range splitExtensionSegments(rest[1:closeAt]) {
		ext, err := parseOneExtension(seg)
		if err != nil {
			return nil, nil, err
		}
		exts = append(exts, ext)
	}

	remainder := rest[closeAt+1:]
	if len(remainder) > 0 && remainder[0].Kind == lexer.Space {
		remainder = remainder[1:]
	}
	return remainder, exts, nil
}

func splitExtensionSegments(toks []lexer.Token) [][]lexer.Token {
	var segs [][]lexer.Token
	start := 0
	for i, t := range toks {
		if t.Kind == lexer.Sigil && t.Char == '|' && t.Count == 1 {
			segs = append(segs, toks[start:i])
			start = i + 1
		}
	}
	segs = append(segs, toks[start:])
	return segs
}

func parseOneExtension(seg []lexer.Token) (ast.Extension, error) {
	if len(seg) == 0 || (len(seg) == 1 && seg[0].Kind == lexer.Space) {
		return ast.TodoExtension{Status: ast.Undone}, nil
	}
	t := seg[0]
	if t.Kind == lexer.Word && t.Text == "x" {
		return ast.TodoExtension{Status: ast.Done}, nil
	}
	if t.Kind != lexer.Sigil || t.Count != 1 {
		return nil, errAt(0, "unrecognized modifier extension")
	}
	switch t.Char {
	case '?':
		return ast.TodoExtension{Status: ast.NeedsClarification}, nil
	case '!':
		return ast.TodoExtension{Status: ast.Urgent}, nil
	case '-':
		return ast.TodoExtension{Status: ast.Pending}, nil
	case '=':
		return ast.TodoExtension{Status: ast.OnHold}, nil
	case '_':
		return ast.TodoExtension{Status: ast.Cancelled}, nil
	case '+':
		period := strings.TrimSpace(rawText(seg[1:]))
		if period == "" {
			return ast.TodoExtension{Status: ast.Recurring}, nil
		}
		return ast.TodoExtension{Status: ast.Recurring, RecurringPeriod: &period}, nil
	case '#':
		return ast.PriorityExtension{Value: strings.TrimSpace(rawText(seg[1:]))}, nil
	case '<':
		return ast.DueDateExtension{Value: strings.TrimSpace(rawText(seg[1:]))}, nil
	case '>':
		return ast.StartDateExtension{Value: strings.TrimSpace(rawText(seg[1:]))}, nil
	case '@':
		return ast.TimestampExtension{Value: strings.TrimSpace(rawText(seg[1:]))}, nil
	default:
		return nil, errAt(0, "unrecognized modifier extension %q", string(t.Char))
	}
}
