// Package goxpath implements an XPath query engine over an abstract
// document model.
//
// Queries are compiled to an AST once and evaluated any number of times
// against host document trees. The engine works against the
// [types.Node] interface, so any hierarchical document representation
// can be queried by implementing a small adapter; pkg/xmltree ships a
// ready-made adapter backed by encoding/xml. Every evaluation produces
// a flat, ordered [types.Sequence] of nodes and atomic values.
//
// # Quick Start
//
//	// Parse a document and run a query
//	doc, err := xmltree.ParseString(xmlData)
//	result, err := goxpath.Eval(ctx, `//book[price > 30]/title`, doc)
//
//	// Compile once, evaluate many times
//	expr, err := goxpath.Compile(`//book[price > 30]/title`)
//	result1, _ := goxpath.EvalExpr(ctx, expr, doc1)
//	result2, _ := goxpath.EvalExpr(ctx, expr, doc2)
//
//	// With options
//	result, err := goxpath.Eval(ctx, `//b:book`, doc,
//	    goxpath.WithNamespaces(map[string]string{"b": "urn:books"}),
//	    goxpath.WithTimeout(5*time.Second),
//	)
//
// # Grammar versions
//
// The accepted grammar is gated by version: the 1.0 core (paths,
// predicates, arithmetic, general comparisons, union), the 2.0
// additions (sequences, for/some/every, if, to, value comparisons,
// intersect/except) and the 3.0 additions (let, ||). The default is
// the 2.0 grammar; select another with [parser.WithVersion] at compile
// time or [WithVersion] for one-shot evaluation.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/goxpath/pkg/parser
//   - Evaluator: github.com/sandrolain/goxpath/pkg/evaluator
//   - Document model: github.com/sandrolain/goxpath/pkg/types
//   - XML adapter: github.com/sandrolain/goxpath/pkg/xmltree
package goxpath

import (
	"context"
	"fmt"

	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Version returns the current version of the module.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles an XPath query for repeated evaluation.
//
// The compiled expression is immutable and safe for concurrent use.
//
// Example:
//
//	expr, err := goxpath.Compile(`//book[price > 30]/title`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, _ := goxpath.EvalExpr(ctx, expr, doc)
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// MustCompile is like Compile but panics if the query cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(query string, opts ...parser.CompileOption) *types.Expression {
	expr, err := Compile(query, opts...)
	if err != nil {
		panic(fmt.Sprintf("goxpath: Compile(%q): %v", query, err))
	}
	return expr
}

// Eval is a convenience function that compiles and evaluates a query in
// a single call. contextItem is the initial context item, typically a
// document node from pkg/xmltree.
//
// For repeated evaluations of the same query, use Compile once and
// EvalExpr per document, or enable caching with WithCaching.
//
// Example:
//
//	result, err := goxpath.Eval(ctx, `count(//a)`, doc)
func Eval(ctx context.Context, query string, contextItem types.Item, opts ...evaluator.EvalOption) (types.Sequence, error) {
	ev := evaluator.New(opts...)
	return ev.EvalQuery(ctx, query, contextItem)
}

// EvalExpr evaluates a compiled expression against a context item with
// a fresh evaluator.
func EvalExpr(ctx context.Context, expr *types.Expression, contextItem types.Item, opts ...evaluator.EvalOption) (types.Sequence, error) {
	ev := evaluator.New(opts...)
	return ev.Eval(ctx, expr, contextItem)
}

// Re-exported evaluator options, so simple uses only import goxpath.
var (
	WithTimeout        = evaluator.WithTimeout
	WithDebug          = evaluator.WithDebug
	WithLogger         = evaluator.WithLogger
	WithMaxDepth       = evaluator.WithMaxDepth
	WithVersion        = evaluator.WithVersion
	WithVariable       = evaluator.WithVariable
	WithNamespaces     = evaluator.WithNamespaces
	WithCustomFunction = evaluator.WithCustomFunction
	WithCaching        = evaluator.WithCaching
	WithCacheSize      = evaluator.WithCacheSize
	WithCache          = evaluator.WithCache
)
