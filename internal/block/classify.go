package block

import "github.com/norg-go/norg/internal/lexer"

type leaderKind int

const (
	lkParagraph leaderKind = iota
	lkBlank
	lkHeading
	lkUnordered
	lkOrdered
	lkQuote
	lkDefinition
	lkFootnote
	lkTable
	lkWeak
	lkStrong
	lkHRule
	lkInfirmTag
	lkCarryoverAttached
	lkCarryoverMacro
	lkVerbatimRanged
	lkStructuredRanged
)

// classify inspects a line's content (post-indentation) and reports which
// detached-modifier or tag grammar, if any, its leader matches. See
// spec §4.3's line-classification table.
func classify(l line) leaderKind {
	if l.blank() {
		return lkBlank
	}
	c := l.content()
	t := c[0]
	if t.Kind != lexer.Sigil {
		return lkParagraph
	}
	switch t.Char {
	case '*':
		if followedBySpace(c) {
			return lkHeading
		}
	case '-':
		if t.Count == 3 && onlyTrailingSpace(c, 1) {
			return lkWeak
		}
		if followedBySpace(c) {
			return lkUnordered
		}
	case '~':
		if followedBySpace(c) {
			return lkOrdered
		}
	case '>':
		if followedBySpace(c) {
			return lkQuote
		}
	case '$':
		if (t.Count == 1 || t.Count == 2) && followedBySpace(c) {
			return lkDefinition
		}
	case '^':
		if (t.Count == 1 || t.Count == 2) && followedBySpace(c) {
			return lkFootnote
		}
	case ':':
		if (t.Count == 1 || t.Count == 2) && followedBySpace(c) {
			return lkTable
		}
	case '=':
		if t.Count == 3 && onlyTrailingSpace(c, 1) {
			return lkStrong
		}
		if t.Count == 1 {
			if _, ok := wordAt(c, 1); ok {
				return lkStructuredRanged
			}
		}
	case '_':
		if t.Count == 3 && onlyTrailingSpace(c, 1) {
			return lkHRule
		}
	case '.':
		if t.Count == 1 {
			if _, ok := wordAt(c, 1); ok {
				return lkInfirmTag
			}
		}
	case '#':
		if t.Count == 1 {
			if _, ok := wordAt(c, 1); ok {
				return lkCarryoverAttached
			}
		}
	case '+':
		if t.Count == 1 {
			if _, ok := wordAt(c, 1); ok {
				return lkCarryoverMacro
			}
		}
	case '@':
		if t.Count == 1 {
			if _, ok := wordAt(c, 1); ok {
				return lkVerbatimRanged
			}
		}
	case '|':
		if t.Count == 1 {
			if _, ok := wordAt(c, 1); ok {
				return lkStructuredRanged
			}
		}
	}
	return lkParagraph
}

func followedBySpace(c []lexer.Token) bool {
	return len(c) >= 2 && c[1].Kind == lexer.Space
}

// isNestableLeaderSigil reports whether c[i:] begins a second nestable
// leader (unordered list, ordered list, or quote sigil immediately followed
// by a space) — the shape the grammar explicitly rejects when it follows
// another nestable leader on the same line (e.g. "- - item").
func isNestableLeaderSigil(c []lexer.Token, i int) bool {
	if i < 0 || i >= len(c) || c[i].Kind != lexer.Sigil {
		return false
	}
	switch c[i].Char {
	case '-', '~', '>':
		return i+1 < len(c) && c[i+1].Kind == lexer.Space
	default:
		return false
	}
}
