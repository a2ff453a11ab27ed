package block

import (
	"strings"

	"github.com/norg-go/norg/internal/lexer"
)

// rawText reconstructs the exact original source text of a token slice
// from within one line (Sigil via char+count, Word/Space via their
// captured Text, Escape via its single escaped rune, OtherChar via its
// rune). Newline and ParagraphBreak tokens contribute nothing.
func rawText(toks []lexer.Token) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.Kind {
		case lexer.Word, lexer.Space:
			b.WriteString(t.Text)
		case lexer.Sigil:
			b.WriteString(strings.Repeat(string(t.Char), t.Count))
		case lexer.EscapeTok:
			b.WriteByte('\\')
			b.WriteRune(t.Char)
		case lexer.OtherChar:
			b.WriteRune(t.Char)
		}
	}
	return b.String()
}

// parseTagName parses a dot-separated tag name starting at index i. Each
// segment is the longest run of Word tokens and single '-'/'_' sigils
// (the tag-name alphabet is wider than a bare word: a hyphen or
// underscore doesn't end a segment the way it ends a Word token in
// ordinary prose), ending at a '.' separator, whitespace, or end of line.
// Returns the segments and the index immediately following the name.
func parseTagName(c []lexer.Token, i int) ([]string, int) {
	var name []string
	for {
		start := i
		var b strings.Builder
		for i < len(c) {
			t := c[i]
			if t.Kind == lexer.Word {
				b.WriteString(t.Text)
				i++
				continue
			}
			if t.Kind == lexer.Sigil && t.Count == 1 && (t.Char == '-' || t.Char == '_') {
				b.WriteRune(t.Char)
				i++
				continue
			}
			break
		}
		if i == start {
			if len(name) == 0 {
				return nil, start
			}
			break
		}
		name = append(name, b.String())
		if i < len(c) && c[i].Kind == lexer.Sigil && c[i].Char == '.' && c[i].Count == 1 {
			i++
			continue
		}
		break
	}
	return name, i
}

// parseParameters splits the remainder of a tag's leader line into
// whitespace-delimited literal parameter strings.
func parseParameters(c []lexer.Token, i int) []string {
	var params []string
	var field []lexer.Token
	flush := func() {
		if len(field) > 0 {
			params = append(params, rawText(field))
			field = nil
		}
	}
	for _, t := range c[i:] {
		if t.Kind == lexer.Space {
			flush()
			continue
		}
		field = append(field, t)
	}
	flush()
	return params
}
