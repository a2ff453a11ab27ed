// Package treeshape implements stage 4: folding the flat block stream stage
// 3 produces into the nested tree, per the containment rules in grammar
// §4.5. Containment is resolved with an explicit stack of open containers
// rather than recursive descent, since the flat stream carries no
// end-of-container marker — only level numbers and delimiter lines that
// imply where a container closes.
package treeshape

import (
	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/invariant"
)

// shapeNode is either a fully-built ast.Node, or a *builder / *carryoverBuilder
// still collecting children. freeze resolves it to a final ast.Node.
type shapeNode interface{}

// builder accumulates the children of an open Heading or
// NestableDetachedModifier until something pops it off the stack.
type builder struct {
	isHeading bool

	// Heading fields.
	level        uint16
	headingTitle []ast.Segment
	headingExt   []ast.Extension

	// NestableDetachedModifier fields.
	kind         ast.NestableKind
	nestableText ast.NodeFlat
	nestableExt  []ast.Extension

	children []shapeNode
}

func (b *builder) finalize() ast.Node {
	content := make([]ast.Node, 0, len(b.children))
	for _, c := range b.children {
		content = append(content, freeze(c))
	}
	if b.isHeading {
		return ast.Heading{Level: b.level, Title: b.headingTitle, Extensions: b.headingExt, Content: content}
	}
	return ast.NestableDetachedModifier{Kind: b.kind, Level: b.level, Text: b.nestableText, Extensions: b.nestableExt, Content: content}
}

// carryoverBuilder wraps a single already-shaped (or still-open) node, so
// that a carryover ahead of a heading or nestable still participates in
// that node's own containment rules — the carryover itself never opens a
// container.
type carryoverBuilder struct {
	kind   ast.CarryoverKind
	name   []string
	params []string
	inner  shapeNode
}

func freeze(n shapeNode) ast.Node {
	switch v := n.(type) {
	case *builder:
		return v.finalize()
	case *carryoverBuilder:
		return ast.CarryoverTag{Kind: v.kind, Name: v.name, Parameters: v.params, Next: freeze(v.inner)}
	case ast.Node:
		return v
	default:
		invariant.Invariant(false, "unrecognized shape node type %T", n)
		return nil
	}
}

type shaper struct {
	stack []*builder
	root  []shapeNode
}

func (s *shaper) attach(n shapeNode) {
	if len(s.stack) == 0 {
		s.root = append(s.root, n)
		return
	}
	top := s.stack[len(s.stack)-1]
	top.children = append(top.children, n)
}

func (s *shaper) popAllNestables() {
	for len(s.stack) > 0 && !s.stack[len(s.stack)-1].isHeading {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *shaper) popHeadingsGE(level uint16) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if top.isHeading && top.level >= level {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		break
	}
}

func (s *shaper) popOneHeading() {
	if len(s.stack) > 0 && s.stack[len(s.stack)-1].isHeading {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *shaper) popNestableSameKindGE(kind ast.NestableKind, level uint16) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if !top.isHeading && top.kind == kind && top.level >= level {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		break
	}
}

// dispatch applies the popping rule for one flat node and returns the
// shapeNode to attach in its place, plus a *builder to push onto the stack
// when the node opens a new container (nil otherwise).
func (s *shaper) dispatch(n ast.NodeFlat) (shapeNode, *builder, error) {
	switch v := n.(type) {
	case ast.HeadingFlat:
		s.popAllNestables()
		s.popHeadingsGE(v.Level)
		b := &builder{isHeading: true, level: v.Level, headingTitle: v.Title, headingExt: v.Extensions}
		return b, b, nil

	case ast.NestableDetachedModifierFlat:
		s.popNestableSameKindGE(v.Kind, v.Level)
		b := &builder{kind: v.Kind, level: v.Level, nestableText: v.Text, nestableExt: v.Extensions}
		return b, b, nil

	case ast.DelimitingModifier:
		switch v.Kind {
		case ast.Weak:
			s.popAllNestables()
		case ast.Strong:
			s.popAllNestables()
			s.popOneHeading()
		case ast.HorizontalRule:
			s.popAllNestables()
		}
		return nil, nil, nil

	case ast.RangeableDetachedModifierFlat:
		content, err := Shape(v.Content)
		if err != nil {
			return nil, nil, err
		}
		return ast.RangeableDetachedModifier{Kind: v.Kind, Title: v.Title, Extensions: v.Extensions, Content: content}, nil, nil

	case ast.Paragraph:
		return v, nil, nil
	case ast.InfirmTag:
		return v, nil, nil
	case ast.VerbatimRangedTag:
		return v, nil, nil
	case ast.RangedTag:
		return v, nil, nil

	case ast.CarryoverTagFlat:
		invariant.Invariant(false, "carryover tags must go through dispatchCarryover")
		return nil, nil, nil

	default:
		invariant.Invariant(false, "unrecognized flat node type %T", n)
		return nil, nil, nil
	}
}

// dispatchCarryover recursively unwraps chained carryover tags, shaping the
// innermost target first so that its own containment rules run against the
// live stack exactly as if the carryover wrapper were not there.
func (s *shaper) dispatchCarryover(ct ast.CarryoverTagFlat) (shapeNode, *builder, error) {
	var inner shapeNode
	var cont *builder
	var err error
	if nested, ok := ct.NextObject.(ast.CarryoverTagFlat); ok {
		inner, cont, err = s.dispatchCarryover(nested)
	} else {
		inner, cont, err = s.dispatch(ct.NextObject)
	}
	if err != nil {
		return nil, nil, err
	}
	cb := &carryoverBuilder{kind: ct.Kind, name: ct.Name, params: ct.Parameters, inner: inner}
	return cb, cont, nil
}

func (s *shaper) process(flat []ast.NodeFlat) error {
	for _, n := range flat {
		var (
			node shapeNode
			cont *builder
			err  error
		)
		if ct, ok := n.(ast.CarryoverTagFlat); ok {
			node, cont, err = s.dispatchCarryover(ct)
		} else {
			node, cont, err = s.dispatch(n)
		}
		if err != nil {
			return err
		}
		if node != nil {
			s.attach(node)
		}
		if cont != nil {
			s.stack = append(s.stack, cont)
		}
	}
	return nil
}

// Shape folds a flat block stream into the nested tree. All containers
// still open at end of input close implicitly.
func Shape(flat []ast.NodeFlat) ([]ast.Node, error) {
	s := &shaper{}
	if err := s.process(flat); err != nil {
		return nil, err
	}
	out := make([]ast.Node, 0, len(s.root))
	for _, n := range s.root {
		out = append(out, freeze(n))
	}
	return out, nil
}
