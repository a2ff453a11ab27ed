// Package norg implements a four-stage parser for the Norg markup
// language: a structural lexer, a paragraph-segment tokenizer, a
// line-classification-driven block parser, and a tree shaper. Parse
// returns the flat block stream; ParseTree folds it into the nested tree
// callers usually want.
package norg

import (
	"errors"

	"github.com/norg-go/norg/ast"
	"github.com/norg-go/norg/internal/block"
	"github.com/norg-go/norg/internal/lexer"
	"github.com/norg-go/norg/internal/treeshape"
)

// Parse runs the lexer, segmenter, and block parser over input and
// returns the flat block stream (stage 3's output, before tree shaping).
// Parsing is all-or-nothing: on failure no partial result is returned.
//
// If input's final line lacks a trailing newline, one is appended before
// lexing — stage 3 relies on a trailing separator token to close the last
// block cleanly.
func Parse(input string) ([]ast.NodeFlat, error) {
	normalized := input
	if normalized == "" || normalized[len(normalized)-1] != '\n' {
		normalized += "\n"
	}

	toks, err := lexer.Lex(normalized)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, wrapLexError(normalized, lexErr)
		}
		return nil, wrapStage2Error(normalized, err)
	}

	flat, err := block.Parse(toks)
	if err != nil {
		var blockErr *block.Error
		if errors.As(err, &blockErr) {
			return nil, wrapStage3Error(normalized, blockErr)
		}
		return nil, wrapStage2Error(normalized, err)
	}
	return flat, nil
}

// ParseTree runs Parse and then folds the result through stage 4, the
// tree shaper, returning the nested AST most callers want.
func ParseTree(input string) ([]ast.Node, error) {
	flat, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return treeshape.Shape(flat)
}
