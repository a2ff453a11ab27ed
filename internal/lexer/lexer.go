package lexer

import (
	"fmt"
	"log/slog"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/norg-go/norg/internal/invariant"
)

// Error is stage 1's single failure mode: a malformed escape sequence or an
// invalid UTF-8 byte sequence, located by byte offset.
type Error struct {
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at byte %d: %s", e.Offset, e.Reason)
}

// Option configures a Lex call.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger routes stage-1 debug tracing (token-by-token emission) to the
// given logger at slog.LevelDebug. The default, when no logger is supplied
// and NORG_DEBUG_LEXER is unset, emits nothing.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func resolveLogger(c *config) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	if os.Getenv("NORG_DEBUG_LEXER") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.Default()
}

// Lex tokenizes input into the stage-1 structural token stream.
func Lex(input string, opts ...Option) ([]Token, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	logger := resolveLogger(c)

	l := &lexer{input: input, line: 1, column: 1, logger: logger}
	var toks []Token
	for l.pos < len(l.input) {
		before := l.pos
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		invariant.Invariant(l.pos > before, "lexer must make forward progress at offset %d", before)
		toks = append(toks, tok)
		logger.Debug("lex token", "kind", tok.Kind.String(), "pos", before)
	}
	return toks, nil
}

type lexer struct {
	input  string
	pos    int
	line   int
	column int
	logger *slog.Logger
}

func (l *lexer) peekRune(at int) (rune, int) {
	if at >= len(l.input) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.input[at:])
	return r, size
}

func (l *lexer) advance(size int, newlines int) {
	l.pos += size
	if newlines > 0 {
		l.line += newlines
		l.column = 1
	}
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// isWordChar classifies letters and digits as word characters. Underscore is
// deliberately excluded even though it can appear inside ordinary prose:
// '_' is also the underline attached-modifier sigil and the horizontal-rule
// delimiter character, and both require it to surface as its own Sigil run
// rather than being absorbed into a surrounding word (see DESIGN.md).
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) pos0() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *lexer) next() (Token, error) {
	start := l.pos0()
	r, size := l.peekRune(l.pos)
	if r == utf8.RuneError && size <= 1 {
		return Token{}, &Error{Offset: l.pos, Reason: "invalid UTF-8 encoding"}
	}

	switch {
	case r == '\\':
		return l.lexEscape(start, size)
	case r == '\n':
		return l.lexNewlineOrBreak(start)
	case isHorizontalSpace(r):
		return l.lexSpace(start)
	case isWordChar(r):
		return l.lexWord(start)
	case isStructural(r):
		return l.lexSigil(start, r)
	default:
		l.column++
		l.advance(size, 0)
		return Token{Kind: OtherChar, Pos: start, Char: r}, nil
	}
}

func (l *lexer) lexEscape(start Position, backslashSize int) (Token, error) {
	if l.pos+backslashSize >= len(l.input) {
		return Token{}, &Error{Offset: l.pos, Reason: "unterminated escape at end of input"}
	}
	r2, size2 := l.peekRune(l.pos + backslashSize)
	if r2 == utf8.RuneError && size2 <= 1 {
		return Token{}, &Error{Offset: l.pos + backslashSize, Reason: "invalid UTF-8 encoding after escape"}
	}
	l.column += 2
	l.advance(backslashSize+size2, 0)
	if r2 == '\n' {
		l.line++
		l.column = 1
	}
	return Token{Kind: EscapeTok, Pos: start, Char: r2}, nil
}

// lexNewlineOrBreak implements the grammar's newline-collapsing rule: a
// second adjacent '\n', separated only by horizontal whitespace, collapses
// the whole run into one ParagraphBreak token.
func (l *lexer) lexNewlineOrBreak(start Position) (Token, error) {
	afterFirst := l.pos + 1
	newlineCount := 1
	scan := afterFirst
	for {
		wsStart := scan
		for scan < len(l.input) {
			r, size := l.peekRune(scan)
			if isHorizontalSpace(r) {
				scan += size
				continue
			}
			break
		}
		if r, size := l.peekRune(scan); r == '\n' && size == 1 {
			newlineCount++
			scan += 1
			continue
		}
		scan = wsStart
		break
	}

	if newlineCount < 2 {
		l.advance(1, 1)
		return Token{Kind: Newline, Pos: start}, nil
	}

	text := l.input[l.pos:scan]
	l.advance(len(text), newlineCount)
	return Token{Kind: ParagraphBreak, Pos: start, Text: text}, nil
}

func (l *lexer) lexSpace(start Position) (Token, error) {
	begin := l.pos
	for {
		r, size := l.peekRune(l.pos)
		if !isHorizontalSpace(r) {
			break
		}
		l.column++
		l.advance(size, 0)
	}
	return Token{Kind: Space, Pos: start, Text: l.input[begin:l.pos]}, nil
}

func (l *lexer) lexWord(start Position) (Token, error) {
	begin := l.pos
	for {
		r, size := l.peekRune(l.pos)
		if !isWordChar(r) {
			break
		}
		l.column++
		l.advance(size, 0)
	}
	return Token{Kind: Word, Pos: start, Text: l.input[begin:l.pos]}, nil
}

func (l *lexer) lexSigil(start Position, ch rune) (Token, error) {
	count := 0
	for {
		r, size := l.peekRune(l.pos)
		if r != ch {
			break
		}
		count++
		l.column++
		l.advance(size, 0)
	}
	return Token{Kind: Sigil, Pos: start, Char: ch, Count: count}, nil
}
