package block_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/block"
	"github.com/norg-go/norg/internal/lexer"
)

func parseFlat(t *testing.T, input string) []ast.NodeFlat {
	t.Helper()
	toks, err := lexer.Lex(input)
	require.NoError(t, err)
	flat, err := block.Parse(toks)
	require.NoError(t, err)
	return flat
}

func TestParseHeading(t *testing.T) {
	flat := parseFlat(t, "* Heading\n")
	require.Len(t, flat, 1)
	h, ok := flat[0].(ast.HeadingFlat)
	require.True(t, ok, "expected HeadingFlat, got %T", flat[0])
	require.EqualValues(t, 1, h.Level)
	require.Equal(t, []ast.Segment{ast.TokenSegment{Token: ast.Text{Value: "Heading"}}}, h.Title)
}

func TestParseDeepHeadingLevel(t *testing.T) {
	flat := parseFlat(t, "********* Heading\n")
	h, ok := flat[0].(ast.HeadingFlat)
	require.True(t, ok)
	require.EqualValues(t, 9, h.Level)
}

func TestParseUnorderedListItem(t *testing.T) {
	flat := parseFlat(t, "- one\n")
	require.Len(t, flat, 1)
	n, ok := flat[0].(ast.NestableDetachedModifierFlat)
	require.True(t, ok)
	require.Equal(t, ast.UnorderedList, n.Kind)
	require.EqualValues(t, 1, n.Level)
}

func TestParseNestableLeaderSigilRegression(t *testing.T) {
	// "- - a list item" is malformed: two detached-modifier sigils cannot
	// lead the same line (spec.md §9 scenario 4).
	_, err := lexer.Lex("- - a list item\n")
	require.NoError(t, err)
	toks, _ := lexer.Lex("- - a list item\n")
	_, err = block.Parse(toks)
	require.Error(t, err)
}

func TestParseInfirmDefinition(t *testing.T) {
	flat := parseFlat(t, "$ Term\n  Definition\n")
	d, ok := flat[0].(ast.RangeableDetachedModifierFlat)
	require.True(t, ok)
	require.Equal(t, ast.Definition, d.Kind)
	require.False(t, d.Ranged)
	require.Len(t, d.Content, 1)
}

func TestParseInfirmRangeableWithInlineContentOnLeaderErrors(t *testing.T) {
	// Inline content on the infirm leader line, with no indented
	// continuation, is malformed (spec.md §4.3 Regressions).
	for _, input := range []string{
		"$ Term Definition\n",
		"^ Term Definition\n",
		": Term Definition\n",
	} {
		toks, err := lexer.Lex(input)
		require.NoError(t, err)
		_, err = block.Parse(toks)
		require.Error(t, err, "input %q should fail to parse", input)
	}
}

func TestParseRangedFootnote(t *testing.T) {
	flat := parseFlat(t, "^^ Term\n  first line\n  second line\n^^\n")
	f, ok := flat[0].(ast.RangeableDetachedModifierFlat)
	require.True(t, ok)
	require.Equal(t, ast.Footnote, f.Kind)
	require.True(t, f.Ranged)
	require.NotEmpty(t, f.Content)
}

func TestParseUnterminatedRangedFootnoteErrors(t *testing.T) {
	toks, err := lexer.Lex("^^ Term\n  body\n")
	require.NoError(t, err)
	_, err = block.Parse(toks)
	require.Error(t, err)
}

func TestParseDelimitingModifiers(t *testing.T) {
	flat := parseFlat(t, "---\n===\n___\n")
	require.Len(t, flat, 3)
	require.Equal(t, ast.DelimitingModifier{Kind: ast.Weak}, flat[0])
	require.Equal(t, ast.DelimitingModifier{Kind: ast.Strong}, flat[1])
	require.Equal(t, ast.DelimitingModifier{Kind: ast.HorizontalRule}, flat[2])
}

func TestParseInfirmTag(t *testing.T) {
	flat := parseFlat(t, ".tag-name_ parameter\n")
	tag, ok := flat[0].(ast.InfirmTag)
	require.True(t, ok)
	require.Equal(t, []string{"tag-name_"}, tag.Name)
	require.Equal(t, []string{"parameter"}, tag.Parameters)
}

func TestParseDottedInfirmTagName(t *testing.T) {
	flat := parseFlat(t, ".tag.name.image https://example.com/repo.git\n")
	tag, ok := flat[0].(ast.InfirmTag)
	require.True(t, ok)
	require.Equal(t, []string{"tag", "name", "image"}, tag.Name)
	require.Equal(t, []string{"https://example.com/repo.git"}, tag.Parameters)
}

func TestParseCarryoverAttachesToNextBlock(t *testing.T) {
	flat := parseFlat(t, "#id 123\n* tree\n")
	require.Len(t, flat, 1)
	ct, ok := flat[0].(ast.CarryoverTagFlat)
	require.True(t, ok)
	require.Equal(t, ast.Attached, ct.Kind)
	require.Equal(t, []string{"id"}, ct.Name)
	h, ok := ct.NextObject.(ast.HeadingFlat)
	require.True(t, ok)
	require.EqualValues(t, 1, h.Level)
}

func TestParseChainedCarryovers(t *testing.T) {
	flat := parseFlat(t, "#id 123\n#comment\ncomment with id\n")
	require.Len(t, flat, 1)
	outer, ok := flat[0].(ast.CarryoverTagFlat)
	require.True(t, ok)
	inner, ok := outer.NextObject.(ast.CarryoverTagFlat)
	require.True(t, ok)
	_, ok = inner.NextObject.(ast.Paragraph)
	require.True(t, ok)
}

func TestParseCarryoverWithoutFollowingBlockErrors(t *testing.T) {
	toks, err := lexer.Lex("#id 123\n")
	require.NoError(t, err)
	_, err = block.Parse(toks)
	require.Error(t, err)
}

func TestParseVerbatimRangedTag(t *testing.T) {
	flat := parseFlat(t, "@code\nprint(\"hi\")\n@end\n")
	tag, ok := flat[0].(ast.VerbatimRangedTag)
	require.True(t, ok)
	require.Equal(t, []string{"code"}, tag.Name)
	require.Equal(t, "print(\"hi\")\n", tag.Content)
}

func TestParseVerbatimRangedTagPreservesBlankLines(t *testing.T) {
	flat := parseFlat(t, "@code\nfirst\n\nsecond\n@end\n")
	tag, ok := flat[0].(ast.VerbatimRangedTag)
	require.True(t, ok)
	require.Equal(t, "first\n\nsecond\n", tag.Content)
}

func TestParseVerbatimRangedTagStripsClosingIndentation(t *testing.T) {
	flat := parseFlat(t, "@code\n  print(\"hi\")\n  @end\n")
	tag, ok := flat[0].(ast.VerbatimRangedTag)
	require.True(t, ok)
	require.Equal(t, "print(\"hi\")\n", tag.Content)
}

func TestParseStructuredRangedTag(t *testing.T) {
	flat := parseFlat(t, "|example\nHello world!\n|end\n")
	tag, ok := flat[0].(ast.RangedTag)
	require.True(t, ok)
	require.Equal(t, '|', tag.Sigil)
	require.Equal(t, []string{"example"}, tag.Name)
	require.Len(t, tag.Content, 1)
	_, ok = tag.Content[0].(ast.Paragraph)
	require.True(t, ok)
}

func TestParseParagraphJoinsContinuationLines(t *testing.T) {
	flat := parseFlat(t, "line one\nline two\n")
	require.Len(t, flat, 1)
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	require.NotEmpty(t, p.Segments)
}

func TestParseModifierExtensionGroup(t *testing.T) {
	flat := parseFlat(t, "- (x) done item\n")
	n, ok := flat[0].(ast.NestableDetachedModifierFlat)
	require.True(t, ok)
	require.Len(t, n.Extensions, 1)
	todo, ok := n.Extensions[0].(ast.TodoExtension)
	require.True(t, ok)
	require.Equal(t, ast.Done, todo.Status)
}

func TestParseAttachedModifierBoldResolves(t *testing.T) {
	flat := parseFlat(t, "this *is* a test\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)

	var found *ast.AttachedModifier
	for _, seg := range p.Segments {
		if am, ok := seg.(ast.AttachedModifier); ok {
			found = &am
		}
	}
	require.NotNil(t, found, "expected an AttachedModifier among %#v", p.Segments)
	require.Equal(t, int32('*'), found.ModifierType)
	require.Equal(t, []ast.Segment{ast.TokenSegment{Token: ast.Text{Value: "is"}}}, found.Content)
}

func TestParseUnmatchedStartModifierDegradesToLiteral(t *testing.T) {
	flat := parseFlat(t, "this *is a test\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	for _, seg := range p.Segments {
		_, isAttached := seg.(ast.AttachedModifier)
		require.False(t, isAttached, "expected no AttachedModifier, got %#v", p.Segments)
	}
}

func TestParseLink(t *testing.T) {
	flat := parseFlat(t, "{https://example.com}\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	require.Len(t, p.Segments, 1)
	link, ok := p.Segments[0].(ast.Link)
	require.True(t, ok)
	require.Len(t, link.Targets, 1)
	url, ok := link.Targets[0].(ast.URLTarget)
	require.True(t, ok)
	require.Equal(t, "https://example.com", url.URL)
}

func TestParseAnchorWithDescription(t *testing.T) {
	flat := parseFlat(t, "[anchor][description]\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	require.Len(t, p.Segments, 1)
	anchor, ok := p.Segments[0].(ast.Anchor)
	require.True(t, ok)
	require.NotEmpty(t, anchor.Description)
}

func TestParseAnchorLinkAdjacency(t *testing.T) {
	// A run of two or more '*' always segments as literal Special tokens
	// (segment.Segment only reclassifies a lone, count-1 sigil as a
	// modifier); a single '*' right after '{' would instead resolve to a
	// Start/EndModifier and never reach the heading-target branch.
	flat := parseFlat(t, "{** hello}[description]\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	require.Len(t, p.Segments, 1)
	def, ok := p.Segments[0].(ast.AnchorDefinition)
	require.True(t, ok)
	link, ok := def.Target.(ast.Link)
	require.True(t, ok)
	require.Len(t, link.Targets, 1)
	ht, ok := link.Targets[0].(ast.HeadingTarget)
	require.True(t, ok)
	require.EqualValues(t, 2, ht.Level)
}

func TestParseScopedLocation(t *testing.T) {
	flat := parseFlat(t, "{:path/to/file:123}\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	link, ok := p.Segments[0].(ast.Link)
	require.True(t, ok)
	require.NotNil(t, link.Filepath)
	require.Equal(t, "path/to/file", *link.Filepath)
	require.Len(t, link.Targets, 1)
	lt, ok := link.Targets[0].(ast.LineTarget)
	require.True(t, ok)
	require.EqualValues(t, 123, lt.Line)
}

func TestParseInlineVerbatim(t *testing.T) {
	flat := parseFlat(t, "some text `inline verbatim`\n")
	p, ok := flat[0].(ast.Paragraph)
	require.True(t, ok)
	var found bool
	for _, seg := range p.Segments {
		if v, ok := seg.(ast.InlineVerbatim); ok {
			found = true
			require.NotEmpty(t, v.Tokens)
		}
	}
	require.True(t, found)
}

func TestParseComparesEqualAcrossEquivalentInput(t *testing.T) {
	a := parseFlat(t, "* Same\n")
	b := parseFlat(t, "* Same\n")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("identical input produced different flat ASTs (-a +b):\n%s", diff)
	}
}
