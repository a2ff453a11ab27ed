package segment_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/lexer"
	"github.com/norg-go/norg/internal/segment"
)

func segmentTokens(t *testing.T, input string) []ast.SegmentToken {
	t.Helper()
	toks, err := lexer.Lex(input)
	require.NoError(t, err)
	// strip the trailing newline Lex would otherwise add meaning to, since
	// Segment rejects ParagraphBreak and callers always pass a single
	// block's content span.
	if len(toks) > 0 && toks[len(toks)-1].Kind == lexer.Newline {
		toks = toks[:len(toks)-1]
	}
	elems, err := segment.Segment(toks)
	require.NoError(t, err)
	out := make([]ast.SegmentToken, len(elems))
	for i, e := range elems {
		out[i] = e.Token
	}
	return out
}

func TestSegmentPlainText(t *testing.T) {
	got := segmentTokens(t, "hello world")
	want := []ast.SegmentToken{
		ast.Text{Value: "hello"},
		ast.Whitespace{},
		ast.Text{Value: "world"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentAttachedModifierPair(t *testing.T) {
	got := segmentTokens(t, "this *is* a test")
	want := []ast.SegmentToken{
		ast.Text{Value: "this"},
		ast.Whitespace{},
		ast.StartModifier{Char: '*'},
		ast.Text{Value: "is"},
		ast.EndModifier{Char: '*'},
		ast.Whitespace{},
		ast.Text{Value: "a"},
		ast.Whitespace{},
		ast.Text{Value: "test"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// TestSegmentPunctuationModifierCharsClassifyIndependently checks that a
// modifier character surrounded by other punctuation (here ',' and '!',
// both themselves modifier chars — subscript and spoiler) is classified
// purely from its own local boundary rule. Segment has no concept of
// pairing; whether a Start ever finds a matching End is stage 3's job (see
// internal/block's inline tests), so ',' and '!' both resolve to
// EndModifier here even though neither will find a match.
func TestSegmentPunctuationModifierCharsClassifyIndependently(t *testing.T) {
	got := segmentTokens(t, "hello, *world*!")
	want := []ast.SegmentToken{
		ast.Text{Value: "hello"},
		ast.EndModifier{Char: ','},
		ast.Whitespace{},
		ast.StartModifier{Char: '*'},
		ast.Text{Value: "world"},
		ast.EndModifier{Char: '*'},
		ast.EndModifier{Char: '!'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// TestSegmentStartModifierWithNoClosingMate is still a StartModifier at the
// segment level: Segment only looks at immediate neighbors, never scans
// ahead for a match. Degrading an unmatched Start to a literal character is
// stage 3's responsibility (see internal/block's inline tests).
func TestSegmentStartModifierWithNoClosingMate(t *testing.T) {
	got := segmentTokens(t, "this *is a test")
	want := []ast.SegmentToken{
		ast.Text{Value: "this"},
		ast.Whitespace{},
		ast.StartModifier{Char: '*'},
		ast.Text{Value: "is"},
		ast.Whitespace{},
		ast.Text{Value: "a"},
		ast.Whitespace{},
		ast.Text{Value: "test"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentVerbatimSpan(t *testing.T) {
	got := segmentTokens(t, "a `raw *text*` b")
	want := []ast.SegmentToken{
		ast.Text{Value: "a"},
		ast.Whitespace{},
		ast.VerbatimOpen{},
		ast.Text{Value: "raw"},
		ast.Whitespace{},
		ast.Special{Char: '*'},
		ast.Text{Value: "text"},
		ast.Special{Char: '*'},
		ast.VerbatimClose{},
		ast.Whitespace{},
		ast.Text{Value: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentUnclosedVerbatimDegradesToLiteral(t *testing.T) {
	got := segmentTokens(t, "a `open")
	want := []ast.SegmentToken{
		ast.Text{Value: "a"},
		ast.Whitespace{},
		ast.Special{Char: '`'},
		ast.Text{Value: "open"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentRejectsParagraphBreak(t *testing.T) {
	toks, err := lexer.Lex("a\n\nb\n")
	require.NoError(t, err)
	_, err = segment.Segment(toks)
	require.Error(t, err)
}

func TestSegmentAdjacentModifierSigilsDoNotPanic(t *testing.T) {
	// Grounded on original_source/src/lib.rs's modifiers() test: this exact
	// input is only asserted to parse successfully there, not to produce a
	// particular nesting shape.
	toks, err := lexer.Lex("this */is/*/ a test\n")
	require.NoError(t, err)
	toks = toks[:len(toks)-1]
	_, err = segment.Segment(toks)
	require.NoError(t, err)
}
