// Inline parsing: stage 3's parser for the segment-token stream of a single
// title or paragraph (grammar §4.4). This sits on top of stage 2's output
// and resolves attached-modifier nesting, links, anchors, and inline
// verbatim, none of which stage 2 attempts.
package block

import (
	"strconv"
	"strings"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/lexer"
	"github.com/norg-go/norg/internal/segment"
)

// parseInline segment-tokenizes toks and applies the full inline grammar,
// producing the paragraph segments used as a Heading/Paragraph/etc title.
func parseInline(toks []lexer.Token) ([]ast.Segment, error) {
	elems, err := segment.Segment(toks)
	if err != nil {
		return nil, err
	}
	return parseInlineElems(elems)
}

func parseInlineElems(elems []segment.Elem) ([]ast.Segment, error) {
	p := &ip{el: elems}
	return p.run()
}

// ip is the inline parser's cursor over one paragraph's segment-token
// stream.
type ip struct {
	el []segment.Elem
	i  int
}

// openMod is a still-open attached-modifier frame: the content accumulated
// so far inside it, and the content that was being accumulated one level
// out before this frame opened.
type openMod struct {
	char  rune
	outer []ast.Segment
}

// run scans the whole stream, resolving attached-modifier nesting via an
// explicit stack (matching rule: an EndModifier only closes the exact top
// frame; anything else degrades to a literal character — see
// classifyModifier in the segment package for why a stack, not nearest-
// match, is required) and delegating to the link/anchor/verbatim
// sub-parsers on the relevant Special tokens.
func (p *ip) run() ([]ast.Segment, error) {
	var cur []ast.Segment
	var stack []openMod

	for p.i < len(p.el) {
		e := p.el[p.i]
		switch tok := e.Token.(type) {
		case ast.StartModifier:
			stack = append(stack, openMod{char: tok.Char, outer: cur})
			cur = nil
			p.i++

		case ast.EndModifier:
			if len(stack) > 0 && stack[len(stack)-1].char == tok.Char {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cur = append(top.outer, ast.AttachedModifier{ModifierType: tok.Char, Content: cur})
			} else {
				cur = append(cur, ast.TokenSegment{Token: ast.Special{Char: tok.Char}})
			}
			p.i++

		case ast.VerbatimOpen:
			seg, next, err := p.parseInlineVerbatim(p.i)
			if err != nil {
				return nil, err
			}
			cur = append(cur, seg)
			p.i = next

		case ast.Special:
			switch tok.Char {
			case '{':
				seg, next, ok, err := p.tryLink(p.i)
				if err != nil {
					return nil, err
				}
				if ok {
					cur = append(cur, seg)
					p.i = next
					continue
				}
				cur = append(cur, ast.TokenSegment{Token: tok})
				p.i++
			case '[':
				seg, next, ok, err := p.tryAnchor(p.i)
				if err != nil {
					return nil, err
				}
				if ok {
					cur = append(cur, seg)
					p.i = next
					continue
				}
				cur = append(cur, ast.TokenSegment{Token: tok})
				p.i++
			case '<':
				seg, next, ok, err := p.tryInlineLinkTarget(p.i)
				if err != nil {
					return nil, err
				}
				if ok {
					cur = append(cur, seg)
					p.i = next
					continue
				}
				cur = append(cur, ast.TokenSegment{Token: tok})
				p.i++
			default:
				cur = append(cur, ast.TokenSegment{Token: tok})
				p.i++
			}

		default:
			cur = append(cur, ast.TokenSegment{Token: e.Token})
			p.i++
		}
	}

	// Unmatched starts degrade to a literal character; their accumulated
	// content folds back into the frame one level out.
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		degraded := append([]ast.Segment{ast.TokenSegment{Token: ast.Special{Char: top.char}}}, cur...)
		cur = append(top.outer, degraded...)
	}
	return cur, nil
}

func (p *ip) parseInlineVerbatim(openIdx int) (ast.Segment, int, error) {
	closeAt := -1
	for j := openIdx + 1; j < len(p.el); j++ {
		if _, ok := p.el[j].Token.(ast.VerbatimClose); ok {
			closeAt = j
			break
		}
	}
	if closeAt == -1 {
		// segment.Segment never emits an unmatched VerbatimOpen.
		return nil, 0, errAt(openIdx, "internal: unmatched verbatim open")
	}
	var toks []ast.SegmentToken
	for j := openIdx + 1; j < closeAt; j++ {
		toks = append(toks, p.el[j].Token)
	}
	return ast.InlineVerbatim{Tokens: toks}, closeAt + 1, nil
}

// findBracket finds the nearest unnested closer of kind close after open,
// given the stream has no support for same-kind nesting inside links or
// anchors.
func findBracket(el []segment.Elem, start int, closeCh rune) int {
	for j := start; j < len(el); j++ {
		if sp, ok := el[j].Token.(ast.Special); ok && sp.Char == closeCh {
			return j
		}
	}
	return -1
}

// tryLink attempts to parse a `{ location }` construct starting at the '{'
// at index i, including an immediately adjacent `[ text ]` that promotes it
// to an AnchorDefinition. ok is false (no tokens consumed) if '{' never
// closes within this paragraph — per the grammar, that's a soft failure:
// the brace decays to a literal character, not a hard parse error.
func (p *ip) tryLink(i int) (ast.Segment, int, bool, error) {
	closeAt := findBracket(p.el, i+1, '}')
	if closeAt == -1 {
		return nil, 0, false, nil
	}
	filepath, targets, err := p.parseLocation(p.el[i+1 : closeAt])
	if err != nil {
		return nil, 0, false, err
	}
	link := ast.Link{Filepath: filepath, Targets: targets}

	next := closeAt + 1
	if next < len(p.el) {
		if sp, ok := p.el[next].Token.(ast.Special); ok && sp.Char == '[' {
			if bClose := findBracket(p.el, next+1, ']'); bClose != -1 {
				content, err := parseInlineElems(p.el[next+1 : bClose])
				if err != nil {
					return nil, 0, false, err
				}
				return ast.AnchorDefinition{Content: content, Target: link}, bClose + 1, true, nil
			}
		}
	}
	return link, closeAt + 1, true, nil
}

// tryAnchor parses `[ text ]`, optionally adjacent to `{ loc }` (promoting
// to AnchorDefinition, the mirror of tryLink's case) or to a second
// adjacent `[ desc ]` (Anchor with a description).
func (p *ip) tryAnchor(i int) (ast.Segment, int, bool, error) {
	closeAt := findBracket(p.el, i+1, ']')
	if closeAt == -1 {
		return nil, 0, false, nil
	}
	content, err := parseInlineElems(p.el[i+1 : closeAt])
	if err != nil {
		return nil, 0, false, err
	}

	next := closeAt + 1
	if next < len(p.el) {
		if sp, ok := p.el[next].Token.(ast.Special); ok {
			switch sp.Char {
			case '{':
				if bClose := findBracket(p.el, next+1, '}'); bClose != -1 {
					filepath, targets, err := p.parseLocation(p.el[next+1 : bClose])
					if err != nil {
						return nil, 0, false, err
					}
					target := ast.Link{Filepath: filepath, Targets: targets}
					return ast.AnchorDefinition{Content: content, Target: target}, bClose + 1, true, nil
				}
			case '[':
				if bClose := findBracket(p.el, next+1, ']'); bClose != -1 {
					desc, err := parseInlineElems(p.el[next+1 : bClose])
					if err != nil {
						return nil, 0, false, err
					}
					return ast.Anchor{Content: content, Description: desc}, bClose + 1, true, nil
				}
			}
		}
	}
	return ast.Anchor{Content: content}, closeAt + 1, true, nil
}

// tryInlineLinkTarget parses `< text >`.
func (p *ip) tryInlineLinkTarget(i int) (ast.Segment, int, bool, error) {
	closeAt := findBracket(p.el, i+1, '>')
	if closeAt == -1 {
		return nil, 0, false, nil
	}
	content, err := parseInlineElems(p.el[i+1 : closeAt])
	if err != nil {
		return nil, 0, false, err
	}
	return ast.InlineLinkTarget{Content: content}, closeAt + 1, true, nil
}

// parseLocation implements the `{ ... }` body grammar: an optional leading
// `:filepath:` scope, then zero or more target-kind markers.
func (p *ip) parseLocation(elems []segment.Elem) (*string, []ast.LinkTarget, error) {
	elems = trimWhitespace(elems)
	if len(elems) == 0 {
		return nil, nil, nil
	}
	if sp, ok := elems[0].Token.(ast.Special); ok && sp.Char == ':' {
		rest := elems[1:]
		closeAt := findSpecialElem(rest, ':')
		if closeAt == -1 {
			targets, err := p.parseLocationTargets(elems)
			return nil, targets, err
		}
		filepath := elemsRawText(rest[:closeAt])
		after := trimWhitespace(rest[closeAt+1:])
		if len(after) == 0 {
			return &filepath, nil, nil
		}
		targets, err := p.parseLocationTargets(after)
		if err != nil {
			return nil, nil, err
		}
		return &filepath, targets, nil
	}
	targets, err := p.parseLocationTargets(elems)
	return nil, targets, err
}

func (p *ip) parseLocationTargets(elems []segment.Elem) ([]ast.LinkTarget, error) {
	elems = trimWhitespace(elems)
	if len(elems) == 0 {
		return nil, nil
	}
	raw := elemsRawText(elems)
	switch {
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "file://"):
		return []ast.LinkTarget{ast.URLTarget{URL: raw}}, nil
	}
	if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
		return []ast.LinkTarget{ast.LineTarget{Line: uint32(n)}}, nil
	}

	if sp, ok := elems[0].Token.(ast.Special); ok {
		switch sp.Char {
		case '*':
			count, rest := countLeadingSpecial(elems, '*')
			title, err := p.titleFrom(rest)
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.HeadingTarget{Level: uint16(count), Title: title}}, nil
		case '/':
			title, err := p.titleFrom(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.PathTarget{Title: title}}, nil
		case '#':
			title, err := p.titleFrom(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.GenericTarget{Title: title}}, nil
		case '?':
			title, err := p.titleFrom(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.WikiTarget{Title: title}}, nil
		case '@':
			title, err := p.titleFrom(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.TimestampTarget{Title: title}}, nil
		case '=':
			title, err := p.titleFrom(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.ExtendableTarget{Title: title}}, nil
		case '^':
			title, err := p.titleFrom(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.FootnoteTarget{Title: title}}, nil
		case '$':
			if len(elems) >= 2 {
				if _, isWS := elems[1].Token.(ast.Whitespace); isWS {
					title, err := p.titleFrom(elems[1:])
					if err != nil {
						return nil, err
					}
					return []ast.LinkTarget{ast.DefinitionTarget{Title: title}}, nil
				}
			}
			title, err := parseInlineElems(elems[1:])
			if err != nil {
				return nil, err
			}
			return []ast.LinkTarget{ast.PathTarget{Title: title}}, nil
		}
	}
	title, err := parseInlineElems(elems)
	if err != nil {
		return nil, err
	}
	return []ast.LinkTarget{ast.GenericTarget{Title: title}}, nil
}

// titleFrom trims one leading Whitespace token (the mandatory separator
// after a single-character target marker) and parses the remainder.
func (p *ip) titleFrom(elems []segment.Elem) ([]ast.Segment, error) {
	if len(elems) > 0 {
		if _, ok := elems[0].Token.(ast.Whitespace); ok {
			elems = elems[1:]
		}
	}
	return parseInlineElems(elems)
}

func trimWhitespace(elems []segment.Elem) []segment.Elem {
	start, end := 0, len(elems)
	for start < end {
		if _, ok := elems[start].Token.(ast.Whitespace); !ok {
			break
		}
		start++
	}
	for end > start {
		if _, ok := elems[end-1].Token.(ast.Whitespace); !ok {
			break
		}
		end--
	}
	return elems[start:end]
}

func findSpecialElem(elems []segment.Elem, ch rune) int {
	for i, e := range elems {
		if sp, ok := e.Token.(ast.Special); ok && sp.Char == ch {
			return i
		}
	}
	return -1
}

func countLeadingSpecial(elems []segment.Elem, ch rune) (int, []segment.Elem) {
	n := 0
	for n < len(elems) {
		sp, ok := elems[n].Token.(ast.Special)
		if !ok || sp.Char != ch {
			break
		}
		n++
	}
	return n, elems[n:]
}

// elemsRawText reconstructs the literal text of a segment-token run, used
// for URL/line-number detection and scoped filepaths.
func elemsRawText(elems []segment.Elem) string {
	var b strings.Builder
	for _, e := range elems {
		switch t := e.Token.(type) {
		case ast.Text:
			b.WriteString(t.Value)
		case ast.Whitespace:
			b.WriteByte(' ')
		case ast.Special:
			b.WriteRune(t.Char)
		case ast.Escape:
			b.WriteRune(t.Char)
		case ast.StartModifier:
			b.WriteRune(t.Char)
		case ast.EndModifier:
			b.WriteRune(t.Char)
		}
	}
	return b.String()
}
