package ast

// Heading is a heading after tree shaping: Content holds every block that
// was logically nested beneath it (strictly greater heading level, plus
// any non-heading blocks up to the next same-or-shallower heading).
type Heading struct {
	Level      uint16
	Title      []Segment
	Extensions []Extension
	Content    []Node
}

// NestableDetachedModifier is a list item or quote after tree shaping.
type NestableDetachedModifier struct {
	Kind       NestableKind
	Level      uint16
	Text       NodeFlat // always a Paragraph
	Extensions []Extension
	Content    []Node
}

// RangeableDetachedModifier is a definition, footnote, or table cell after
// tree shaping. Its Content holds the result of shaping stage 3's own
// recursively-parsed body (stage 3 already invoked itself for a ranged
// rangeable's inner lines; stage 4 shapes that nested flat sequence the
// same way it shapes the top level).
type RangeableDetachedModifier struct {
	Kind       RangeableKind
	Title      []Segment
	Extensions []Extension
	Content    []Node
}

// CarryoverTag is a carryover tag after tree shaping: Next is the single
// shaped node it attaches to.
type CarryoverTag struct {
	Kind       CarryoverKind
	Name       []string
	Parameters []string
	Next       Node
}

func (Heading) isNode()                   {}
func (NestableDetachedModifier) isNode()  {}
func (RangeableDetachedModifier) isNode() {}
func (CarryoverTag) isNode()              {}
