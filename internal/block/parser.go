// Package block implements stage 3: the line-classification-driven block
// parser that turns a stage-1 token stream into the flat Norg AST, nesting
// the inline parser (grammar §4.4) within each title/paragraph it builds.
//
// Stage 2 (package segment) is invoked here rather than up front over the
// whole document: line/block boundaries need the stage-1 Newline vs
// ParagraphBreak distinction, which stage 2 collapses into a single
// Whitespace kind. Block parsing therefore walks stage-1 tokens directly
// for structure, and calls segment.Segment on each block's content range —
// segment.Segment itself stays oblivious to headings, nesting, or tags.
package block

import (
	"strings"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/invariant"
	"github.com/norg-go/norg/internal/lexer"
)

// Parse runs stage 3 over a complete stage-1 token stream.
func Parse(toks []lexer.Token) ([]ast.NodeFlat, error) {
	return parseLines(splitLines(toks))
}

func parseLines(lines []line) ([]ast.NodeFlat, error) {
	p := &parser{lines: lines}
	var out []ast.NodeFlat
	for !p.atEnd() {
		before := p.li
		node, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		invariant.Invariant(p.li > before, "block parser must make forward progress at line %d", before)
		if node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

type parser struct {
	lines []line
	li    int
}

func (p *parser) atEnd() bool { return p.li >= len(p.lines) }

func (p *parser) cur() line { return p.lines[p.li] }

func (p *parser) parseBlock() (ast.NodeFlat, error) {
	switch classify(p.cur()) {
	case lkBlank:
		p.li++
		return nil, nil
	case lkHeading:
		return p.parseHeading()
	case lkUnordered:
		return p.parseNestable(ast.UnorderedList)
	case lkOrdered:
		return p.parseNestable(ast.OrderedList)
	case lkQuote:
		return p.parseNestable(ast.Quote)
	case lkDefinition:
		return p.parseRangeable(ast.Definition, '$')
	case lkFootnote:
		return p.parseRangeable(ast.Footnote, '^')
	case lkTable:
		return p.parseRangeable(ast.Table, ':')
	case lkWeak:
		p.li++
		return ast.DelimitingModifier{Kind: ast.Weak}, nil
	case lkStrong:
		p.li++
		return ast.DelimitingModifier{Kind: ast.Strong}, nil
	case lkHRule:
		p.li++
		return ast.DelimitingModifier{Kind: ast.HorizontalRule}, nil
	case lkInfirmTag:
		return p.parseInfirmTag()
	case lkCarryoverAttached:
		return p.parseCarryover(ast.Attached)
	case lkCarryoverMacro:
		return p.parseCarryover(ast.Macro)
	case lkVerbatimRanged:
		return p.parseVerbatimRanged()
	case lkStructuredRanged:
		return p.parseStructuredRanged()
	default:
		return p.parseParagraph()
	}
}

func (p *parser) parseHeading() (ast.NodeFlat, error) {
	ln := p.cur()
	c := ln.content()
	level := c[0].Count
	if level > 1<<16-1 {
		return nil, errAt(p.li, "heading level %d exceeds %d", level, 1<<16-1)
	}
	invariant.InRange(level, 1, 1<<16-1, "heading level")
	rest := c[2:]
	rest, exts, err := parseExtensionGroup(rest)
	if err != nil {
		return nil, err
	}
	segs, err := parseInline(rest)
	if err != nil {
		return nil, err
	}
	p.li++
	return ast.HeadingFlat{Level: uint16(level), Title: segs, Extensions: exts}, nil
}

func (p *parser) parseNestable(kind ast.NestableKind) (ast.NodeFlat, error) {
	ln := p.cur()
	c := ln.content()
	level := c[0].Count
	if level > 1<<16-1 {
		return nil, errAt(p.li, "nestable level %d exceeds %d", level, 1<<16-1)
	}
	invariant.InRange(level, 1, 1<<16-1, "nestable level")
	rest := c[2:]
	if isNestableLeaderSigil(rest, 0) {
		return nil, errAt(p.li, "two detached-modifier sigils cannot lead the same line")
	}
	rest, exts, err := parseExtensionGroup(rest)
	if err != nil {
		return nil, err
	}

	bodyToks := append([]lexer.Token{}, rest...)
	term := ln.term
	p.li++
	for term == lexer.Newline && !p.atEnd() {
		next := p.cur()
		if !next.indented() || classify(next) != lkParagraph {
			break
		}
		bodyToks = append(bodyToks, lexer.Token{Kind: lexer.Newline})
		bodyToks = append(bodyToks, next.content()...)
		term = next.term
		p.li++
	}

	segs, err := parseInline(bodyToks)
	if err != nil {
		return nil, err
	}
	text := ast.Paragraph{Segments: segs}
	return ast.NestableDetachedModifierFlat{Kind: kind, Level: uint16(level), Text: text, Extensions: exts}, nil
}

func (p *parser) parseRangeable(kind ast.RangeableKind, ch rune) (ast.NodeFlat, error) {
	ln := p.cur()
	c := ln.content()
	ranged := c[0].Count == 2
	rest := c[2:]
	rest, exts, err := parseExtensionGroup(rest)
	if err != nil {
		return nil, err
	}
	titleSegs, err := parseInline(rest)
	if err != nil {
		return nil, err
	}
	leaderLine := p.li
	p.li++

	var content []ast.NodeFlat
	if ranged {
		var bodyLines []line
		closed := false
		for !p.atEnd() {
			next := p.cur()
			nc := next.content()
			if len(nc) > 0 && sigilAt(nc, 0, ch, 2) {
				if !onlyTrailingSpace(nc, 1) {
					return nil, errAt(p.li, "ranged closing sigil followed by content")
				}
				p.li++
				closed = true
				break
			}
			bodyLines = append(bodyLines, next)
			p.li++
		}
		if !closed {
			return nil, errAt(p.li, "unterminated ranged %s", kind)
		}
		content, err = parseLines(bodyLines)
		if err != nil {
			return nil, err
		}
	} else {
		var bodyToks []lexer.Token
		for !p.atEnd() {
			next := p.cur()
			if !next.indented() || classify(next) != lkParagraph {
				break
			}
			if len(bodyToks) > 0 {
				bodyToks = append(bodyToks, lexer.Token{Kind: lexer.Newline})
			}
			bodyToks = append(bodyToks, next.content()...)
			term := next.term
			p.li++
			if term != lexer.Newline {
				break
			}
		}
		if len(bodyToks) == 0 {
			return nil, errAt(leaderLine, "infirm %s requires an indented continuation line, not inline content on the leader", kind)
		}
		segs, err := parseInline(bodyToks)
		if err != nil {
			return nil, err
		}
		content = []ast.NodeFlat{ast.Paragraph{Segments: segs}}
	}

	return ast.RangeableDetachedModifierFlat{Kind: kind, Ranged: ranged, Title: titleSegs, Content: content, Extensions: exts}, nil
}

func (p *parser) parseInfirmTag() (ast.NodeFlat, error) {
	c := p.cur().content()
	name, idx := parseTagName(c, 1)
	params := parseParameters(c, idx)
	p.li++
	return ast.InfirmTag{Name: name, Parameters: params}, nil
}

func (p *parser) parseCarryover(kind ast.CarryoverKind) (ast.NodeFlat, error) {
	ln := p.cur()
	c := ln.content()
	name, idx := parseTagName(c, 1)
	params := parseParameters(c, idx)
	term := ln.term
	p.li++

	if term != lexer.Newline || p.atEnd() || classify(p.cur()) == lkBlank {
		return nil, errAt(p.li, "carryover tag must be immediately followed by a block")
	}
	next, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errAt(p.li, "carryover tag must be immediately followed by a block")
	}
	if _, ok := next.(ast.DelimitingModifier); ok {
		return nil, errAt(p.li-1, "carryover tag cannot attach to a delimiting modifier")
	}
	return ast.CarryoverTagFlat{Kind: kind, Name: name, Parameters: params, NextObject: next}, nil
}

func (p *parser) parseVerbatimRanged() (ast.NodeFlat, error) {
	c := p.cur().content()
	name, idx := parseTagName(c, 1)
	params := parseParameters(c, idx)
	p.li++

	var bodyLines []line
	closed := false
	indentWidth := 0
	for !p.atEnd() {
		next := p.cur()
		nc := next.content()
		if len(nc) >= 2 {
			if w, ok := wordAt(nc, 1); ok && sigilAt(nc, 0, '@', 1) && w == "end" {
				indentWidth = leadingIndentWidth(next)
				p.li++
				closed = true
				break
			}
		}
		bodyLines = append(bodyLines, next)
		p.li++
	}
	if !closed {
		return nil, errAt(p.li, "unterminated verbatim ranged tag %q", name)
	}

	// Content spans from the opening line's end through the closing line's
	// start (invariant §3), so every body line's own terminator — including
	// the last one, right before "@end" — is written, and any indentation
	// matching the closing sigil's column is stripped uniformly.
	var sb strings.Builder
	for _, bl := range bodyLines {
		sb.WriteString(stripIndent(rawText(bl.toks), indentWidth))
		sb.WriteString(bl.termText)
	}
	return ast.VerbatimRangedTag{Name: name, Parameters: params, Content: sb.String()}, nil
}

func (p *parser) parseStructuredRanged() (ast.NodeFlat, error) {
	ln := p.cur()
	c := ln.content()
	sigilCh := c[0].Char
	name, idx := parseTagName(c, 1)
	params := parseParameters(c, idx)
	p.li++

	var bodyLines []line
	closed := false
	for !p.atEnd() {
		next := p.cur()
		nc := next.content()
		if len(nc) >= 2 {
			if w, ok := wordAt(nc, 1); ok && sigilAt(nc, 0, sigilCh, 1) && w == "end" {
				p.li++
				closed = true
				break
			}
		}
		bodyLines = append(bodyLines, next)
		p.li++
	}
	if !closed {
		return nil, errAt(p.li, "unterminated structured ranged tag %q", name)
	}
	content, err := parseLines(bodyLines)
	if err != nil {
		return nil, err
	}
	return ast.RangedTag{Sigil: sigilCh, Name: name, Parameters: params, Content: content}, nil
}

func (p *parser) parseParagraph() (ast.NodeFlat, error) {
	var toks []lexer.Token
	for !p.atEnd() {
		ln := p.cur()
		if len(toks) > 0 {
			toks = append(toks, lexer.Token{Kind: lexer.Newline})
		}
		toks = append(toks, ln.toks...)
		term := ln.term
		p.li++
		if term != lexer.Newline {
			break
		}
		if p.atEnd() {
			break
		}
		if classify(p.cur()) != lkParagraph {
			break
		}
	}
	segs, err := parseInline(toks)
	if err != nil {
		return nil, err
	}
	return ast.Paragraph{Segments: segs}, nil
}
