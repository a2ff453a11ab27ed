package ast

// HeadingFlat is a heading as stage 3 emits it, before tree shaping folds
// deeper headings and nestables into its Content.
type HeadingFlat struct {
	Level      uint16
	Title      []Segment
	Extensions []Extension
}

// NestableDetachedModifierFlat is a list item or quote line as stage 3
// emits it: Text is the single-line (or continuation-paragraph) content,
// with no containment yet resolved.
type NestableDetachedModifierFlat struct {
	Kind       NestableKind
	Level      uint16
	Text       NodeFlat // always a Paragraph
	Extensions []Extension
}

// RangeableDetachedModifierFlat is a definition, footnote, or table cell as
// stage 3 emits it.
type RangeableDetachedModifierFlat struct {
	Kind       RangeableKind
	Ranged     bool
	Title      []Segment
	Content    []NodeFlat
	Extensions []Extension
}

// DelimitingModifier is a standalone `---`, `===`, or `___` line. It never
// survives into the shaped tree.
type DelimitingModifier struct{ Kind DelimitingKind }

// CarryoverTagFlat wraps the block that immediately followed it in source
// order. Chained carryovers nest left: the outer tag's NextObject is itself
// a CarryoverTagFlat whose own NextObject is the real target.
type CarryoverTagFlat struct {
	Kind       CarryoverKind
	Name       []string
	Parameters []string
	NextObject NodeFlat
}

func (HeadingFlat) isNodeFlat()                   {}
func (NestableDetachedModifierFlat) isNodeFlat()  {}
func (RangeableDetachedModifierFlat) isNodeFlat() {}
func (DelimitingModifier) isNodeFlat()            {}
func (CarryoverTagFlat) isNodeFlat()              {}
