package block

import "github.com/norg-go/norg/internal/lexer"

// eofTerm is the sentinel line terminator for the last line of input, which
// has no trailing Newline or ParagraphBreak token.
const eofTerm lexer.Kind = -1

// line is one physical line: its content tokens (never including the
// terminator itself), what ended it, and the terminator's exact source text
// (needed to reconstruct verbatim content byte-for-byte across blank lines,
// which the lexer folds into a single ParagraphBreak token).
type line struct {
	toks     []lexer.Token
	term     lexer.Kind
	termText string
}

// splitLines groups a stage-1 token stream into physical lines, breaking on
// every Newline and ParagraphBreak token (which become the line's term and
// are not included in toks).
func splitLines(toks []lexer.Token) []line {
	var lines []line
	start := 0
	for i, t := range toks {
		if t.Kind == lexer.Newline {
			lines = append(lines, line{toks: toks[start:i], term: t.Kind, termText: "\n"})
			start = i + 1
		} else if t.Kind == lexer.ParagraphBreak {
			lines = append(lines, line{toks: toks[start:i], term: t.Kind, termText: t.Text})
			start = i + 1
		}
	}
	if start < len(toks) {
		lines = append(lines, line{toks: toks[start:], term: eofTerm})
	}
	return lines
}

// content returns the line's tokens after any leading horizontal
// whitespace.
func (l line) content() []lexer.Token {
	if len(l.toks) > 0 && l.toks[0].Kind == lexer.Space {
		return l.toks[1:]
	}
	return l.toks
}

func (l line) indented() bool {
	return len(l.toks) > 0 && l.toks[0].Kind == lexer.Space
}

// leadingIndentWidth returns the rune width of a line's leading horizontal
// whitespace, 0 if it has none — used to compute the verbatim-ranged-tag
// column (invariant §3) that gets stripped from every body line.
func leadingIndentWidth(l line) int {
	if len(l.toks) > 0 && l.toks[0].Kind == lexer.Space {
		return len([]rune(l.toks[0].Text))
	}
	return 0
}

// stripIndent removes up to n leading horizontal-whitespace runes from s,
// stopping early if s runs out of whitespace before n is reached.
func stripIndent(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	i := 0
	for i < n && i < len(r) && (r[i] == ' ' || r[i] == '\t') {
		i++
	}
	return string(r[i:])
}

// blank reports whether a line has no content at all (possible only at the
// very start/end of input; an interior blank line is always absorbed into a
// ParagraphBreak by the lexer).
func (l line) blank() bool {
	return len(l.content()) == 0
}

func sigilAt(toks []lexer.Token, i int, ch rune, count int) bool {
	if i < 0 || i >= len(toks) {
		return false
	}
	t := toks[i]
	return t.Kind == lexer.Sigil && t.Char == ch && (count < 0 || t.Count == count)
}

func wordAt(toks []lexer.Token, i int) (string, bool) {
	if i < 0 || i >= len(toks) || toks[i].Kind != lexer.Word {
		return "", false
	}
	return toks[i].Text, true
}

// onlyTrailingSpace reports whether toks (starting at i) is empty or
// consists solely of a single trailing Space token, i.e. nothing meaningful
// follows on the line from that point on.
func onlyTrailingSpace(toks []lexer.Token, i int) bool {
	rest := toks[i:]
	if len(rest) == 0 {
		return true
	}
	return len(rest) == 1 && rest[0].Kind == lexer.Space
}
