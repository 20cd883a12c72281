// Package ast defines the program tree the Evaluator consumes.
//
// The lexer and parser that produce this tree are external
// collaborators (spec §1) and are not part of this module; callers
// hand the Evaluator an already-built, already-validated Program.
package ast

import "fmt"

// Span locates a node in the original source text. A zero Span (Line
// == 0) means "no span available" and is rendered without source
// context by the top-level error printer.
type Span struct {
	Line   int
	Column int
	Start  int // byte offset, inclusive
	End    int // byte offset, exclusive
}

func (s Span) IsValid() bool { return s.Line > 0 }

func (s Span) String() string {
	if !s.IsValid() {
		return "<no span>"
	}
	return fmt.Sprintf("line %d, column %d", s.Line, s.Column)
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() Span
}

// Statement is a Node that can appear in a statement list.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a Node that yields a value when evaluated.
type Expression interface {
	Node
	exprNode()
}

// base carries the span for embedding into concrete node types.
type base struct{ Sp Span }

func (b base) Span() Span { return b.Sp }
