package ast

// SegmentToken is one of the paragraph-segment tokens stage 2 produces:
// Text, Whitespace, Special, Escape, StartModifier, EndModifier,
// VerbatimOpen, VerbatimClose.
type SegmentToken interface {
	isSegmentToken()
}

// Text is a run of word characters, preserved verbatim from the source.
type Text struct{ Value string }

// Whitespace stands in for any run of horizontal space, or a single
// newline surviving inside a paragraph.
type Whitespace struct{}

// Special is a single punctuation character with no structural meaning.
type Special struct{ Char rune }

// Escape is the literal character that followed a backslash.
type Escape struct{ Char rune }

// StartModifier is a single-character attached-modifier opener (e.g. '*').
type StartModifier struct{ Char rune }

// EndModifier is a single-character attached-modifier closer.
type EndModifier struct{ Char rune }

// VerbatimOpen marks the backtick that begins an inline verbatim run.
type VerbatimOpen struct{}

// VerbatimClose marks the backtick that ends an inline verbatim run.
type VerbatimClose struct{}

func (Text) isSegmentToken()          {}
func (Whitespace) isSegmentToken()    {}
func (Special) isSegmentToken()       {}
func (Escape) isSegmentToken()        {}
func (StartModifier) isSegmentToken() {}
func (EndModifier) isSegmentToken()   {}
func (VerbatimOpen) isSegmentToken()  {}
func (VerbatimClose) isSegmentToken() {}

// Segment is one paragraph segment (the "PS" type of the grammar): either a
// raw segment token, an attached-modifier span, or one of the inline link/
// anchor/verbatim constructs.
type Segment interface {
	isSegment()
}

// TokenSegment wraps a single segment token as a paragraph segment.
type TokenSegment struct{ Token SegmentToken }

// AttachedModifier is an inline span delimited by a paired modifier
// character, e.g. *bold* or /italic/.
type AttachedModifier struct {
	ModifierType rune
	Content      []Segment
}

// Link is the `{ location }` construct. The parser leaves Description
// empty: a `[ text ]` directly after the `}` turns the pair into an
// AnchorDefinition instead.
type Link struct {
	Filepath    *string
	Targets     []LinkTarget
	Description []Segment
}

// Anchor is `[ text ]`, optionally followed by an adjacent `[ description ]`.
type Anchor struct {
	Content     []Segment
	Description []Segment
}

// AnchorDefinition pairs anchor text with an adjacent link target, either
// `[text]{loc}` or `{loc}[text]`.
type AnchorDefinition struct {
	Content []Segment
	Target  Segment // always a Link
}

// InlineLinkTarget is the `< text >` construct.
type InlineLinkTarget struct{ Content []Segment }

// InlineVerbatim is the contents of a `` `...` `` run: raw segment tokens,
// never re-tokenized for modifiers or links.
type InlineVerbatim struct{ Tokens []SegmentToken }

func (TokenSegment) isSegment()     {}
func (AttachedModifier) isSegment() {}
func (Link) isSegment()             {}
func (Anchor) isSegment()           {}
func (AnchorDefinition) isSegment() {}
func (InlineLinkTarget) isSegment() {}
func (InlineVerbatim) isSegment()   {}

// LinkTarget is one parsed location inside a link's `{ ... }` body.
type LinkTarget interface {
	isLinkTarget()
}

type HeadingTarget struct {
	Level uint16
	Title []Segment
}
type FootnoteTarget struct{ Title []Segment }
type DefinitionTarget struct{ Title []Segment }
type GenericTarget struct{ Title []Segment }
type WikiTarget struct{ Title []Segment }
type TimestampTarget struct{ Title []Segment }
type ExtendableTarget struct{ Title []Segment }
type PathTarget struct{ Title []Segment }
type URLTarget struct{ URL string }
type LineTarget struct{ Line uint32 }

func (HeadingTarget) isLinkTarget()    {}
func (FootnoteTarget) isLinkTarget()   {}
func (DefinitionTarget) isLinkTarget() {}
func (GenericTarget) isLinkTarget()    {}
func (WikiTarget) isLinkTarget()       {}
func (TimestampTarget) isLinkTarget()  {}
func (ExtendableTarget) isLinkTarget() {}
func (PathTarget) isLinkTarget()       {}
func (URLTarget) isLinkTarget()        {}
func (LineTarget) isLinkTarget()       {}
