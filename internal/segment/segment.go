// Package segment implements stage 2: turning a slice of stage-1 structural
// tokens covering one block's inline content (a heading title, a nestable's
// text, a paragraph body) into the paragraph-segment tokens stage 3's
// inline parser consumes.
//
// Stage 3 is the one that knows where block/line boundaries fall (sigil
// counts at the start of a logical line carry that meaning, not
// indentation), so it slices the stage-1 stream into per-block spans and
// calls Segment on each span; Segment itself stays a pure function of
// whatever token slice it's given, with no knowledge of heading levels,
// nesting, or tags.
package segment

import (
	"fmt"
	"unicode"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/lexer"
)

// Elem pairs an exported segment token with the stage-1 position it came
// from, for diagnostics.
type Elem struct {
	Token ast.SegmentToken
	Pos   lexer.Position
}

// modifierChars are the single-character attached-modifier sigils; '`' is
// handled separately as the verbatim delimiter.
const modifierChars = "*/_-!^,%$&"

func isModifierChar(r rune) bool {
	for _, c := range modifierChars {
		if c == r {
			return true
		}
	}
	return false
}

// isWordRune mirrors the lexer's word-character class (see lexer.isWordChar):
// excludes '_' since it doubles as the underline/horizontal-rule sigil.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Segment tokenizes one block's worth of stage-1 tokens into paragraph
// segment tokens. The input must not contain a ParagraphBreak token; stage
// 3 splits on those before calling Segment.
func Segment(tokens []lexer.Token) ([]Elem, error) {
	var out []Elem
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Kind {
		case lexer.ParagraphBreak:
			return nil, fmt.Errorf("stage2: unexpected paragraph break inside block content at byte %d", t.Pos.Offset)
		case lexer.EscapeTok:
			out = append(out, Elem{ast.Escape{Char: t.Char}, t.Pos})
		case lexer.Word:
			out = append(out, Elem{ast.Text{Value: t.Text}, t.Pos})
		case lexer.Space, lexer.Newline:
			out = append(out, Elem{ast.Whitespace{}, t.Pos})
		case lexer.OtherChar:
			out = append(out, Elem{ast.Special{Char: t.Char}, t.Pos})
		case lexer.Sigil:
			if t.Char == '`' && t.Count == 1 {
				consumed, elems := segmentVerbatim(tokens, i)
				out = append(out, elems...)
				i += consumed - 1
				continue
			}
			if t.Count == 1 && isModifierChar(t.Char) {
				out = append(out, Elem{classifyModifier(tokens, i), t.Pos})
				continue
			}
			out = append(out, expandSpecialRun(t)...)
		default:
			return nil, fmt.Errorf("stage2: unexpected stage-1 token kind %v at byte %d", t.Kind, t.Pos.Offset)
		}
	}
	return out, nil
}

// expandSpecialRun decomposes a multi-length or non-modifier sigil run into
// one Special token per character; attached modifiers only ever collapse
// from a run of length exactly one.
func expandSpecialRun(t lexer.Token) []Elem {
	elems := make([]Elem, t.Count)
	for k := 0; k < t.Count; k++ {
		pos := t.Pos
		pos.Offset += k
		pos.Column += k
		elems[k] = Elem{ast.Special{Char: t.Char}, pos}
	}
	return elems
}

// classifyModifier resolves a single-character modifier sigil to
// StartModifier, EndModifier, or a literal Special, using the flanking
// rule from the grammar: a boundary is start-of-stream/end-of-stream,
// whitespace, or any non-word character (the modifier characters
// themselves, and ordinary punctuation, all count as boundaries — this is
// what lets "*hello*, world!" and "*/italic/*, world!" close correctly
// without falling back to nearest-match pairing).
func classifyModifier(tokens []lexer.Token, i int) ast.SegmentToken {
	validStart := isBoundary(tokens, i-1)
	validEnd := isBoundary(tokens, i+1)
	switch {
	case validEnd:
		// Ties (both a valid start and a valid end) favor End: closing the
		// innermost still-open region takes priority over opening a new one.
		return ast.EndModifier{Char: tokens[i].Char}
	case validStart:
		return ast.StartModifier{Char: tokens[i].Char}
	default:
		return ast.Special{Char: tokens[i].Char}
	}
}

// isBoundary reports whether the neighbor token at idx represents a
// non-word boundary, treating an out-of-range index as start/end of stream.
func isBoundary(tokens []lexer.Token, idx int) bool {
	if idx < 0 || idx >= len(tokens) {
		return true
	}
	t := tokens[idx]
	switch t.Kind {
	case lexer.Word:
		return false
	case lexer.EscapeTok:
		return !isWordRune(t.Char)
	default:
		return true
	}
}

// segmentVerbatim finds the nearest closing single backtick after index i
// and, if found, returns the number of stage-1 tokens consumed (open
// through close inclusive) and the segment elements for the whole span. If
// no closing backtick exists before the end of this block's token slice,
// the opening backtick degrades to a literal Special and nothing is
// consumed beyond it.
func segmentVerbatim(tokens []lexer.Token, i int) (int, []Elem) {
	closeAt := -1
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Kind == lexer.Sigil && tokens[j].Char == '`' && tokens[j].Count == 1 {
			closeAt = j
			break
		}
	}
	if closeAt == -1 {
		return 1, []Elem{{ast.Special{Char: '`'}, tokens[i].Pos}}
	}

	elems := make([]Elem, 0, closeAt-i+1)
	elems = append(elems, Elem{ast.VerbatimOpen{}, tokens[i].Pos})
	for k := i + 1; k < closeAt; k++ {
		elems = append(elems, rawElem(tokens[k])...)
	}
	elems = append(elems, Elem{ast.VerbatimClose{}, tokens[closeAt].Pos})
	return closeAt - i + 1, elems
}

// rawElem converts a single stage-1 token to its segment-token form without
// any modifier/verbatim reclassification, for use inside a verbatim span.
func rawElem(t lexer.Token) []Elem {
	switch t.Kind {
	case lexer.EscapeTok:
		return []Elem{{ast.Escape{Char: t.Char}, t.Pos}}
	case lexer.Word:
		return []Elem{{ast.Text{Value: t.Text}, t.Pos}}
	case lexer.Space, lexer.Newline:
		return []Elem{{ast.Whitespace{}, t.Pos}}
	case lexer.OtherChar:
		return []Elem{{ast.Special{Char: t.Char}, t.Pos}}
	case lexer.Sigil:
		return expandSpecialRun(t)
	default:
		return nil
	}
}
