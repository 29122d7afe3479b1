// Package types defines the core type system for GoXPath.
//
// This package contains type definitions for:
//   - Expression: compiled XPath expressions
//   - ASTNode: abstract syntax tree nodes
//   - Sequence / Item: the evaluation result model
//   - Node: the document adapter interface
//   - Error types: structured errors with XPath error codes
package types

// Expression represents a compiled XPath expression.
//
// An Expression can be evaluated multiple times against different
// documents by passing it to the evaluator. It is safe
// for concurrent use by multiple goroutines.
type Expression struct {
	ast     *ASTNode
	source  string
	version int
	arena   *NodeArena
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string, version int, arena *NodeArena) *Expression {
	return &Expression{
		ast:     ast,
		source:  source,
		version: version,
		arena:   arena,
	}
}

// AST returns the abstract syntax tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original query string.
func (e *Expression) Source() string {
	return e.source
}

// Version returns the grammar version the expression was parsed under
// (10, 20 or 30).
func (e *Expression) Version() int {
	return e.version
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
