// Package parser implements the XPath tokenizer and parser.
//
// The parser is a hand-written Pratt (top-down operator precedence)
// parser. A token table registers every operator symbol with its binding
// power and parse rules; context-sensitive ambiguities (unary versus
// binary minus, wildcard versus multiplication, keyword operators versus
// element names) are resolved by grammatical position: the parser asks
// the table for an infix rule only when an operator is expected.
//
// # Example
//
//	expr, err := parser.Parse("//book[price > 30]/title")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"github.com/sandrolain/goxpath/pkg/types"
)

// Parse parses an XPath expression under the default static context
// (XPath 2.0 grammar, no namespace declarations).
func Parse(query string) (*types.Expression, error) {
	p := NewParser(query)
	return p.Parse()
}

// Compile parses an XPath expression with options.
//
// If parsing fails, it returns a *types.Error with the position of the
// offending token.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// Static is the parse-time context: grammar version, namespace
	// prefixes, extra function names.
	Static *StaticContext
	// MaxDepth limits recursion depth to prevent stack overflow.
	MaxDepth int
}

// WithStaticContext sets the full static context.
func WithStaticContext(sc *StaticContext) CompileOption {
	return func(opts *CompileOptions) {
		opts.Static = sc
	}
}

// WithVersion selects the grammar version (Version10, Version20,
// Version30).
func WithVersion(version int) CompileOption {
	return func(opts *CompileOptions) {
		if opts.Static == nil {
			opts.Static = &StaticContext{}
		}
		opts.Static.Version = version
	}
}

// WithNamespaces declares prefix→URI bindings for name tests.
func WithNamespaces(ns map[string]string) CompileOption {
	return func(opts *CompileOptions) {
		if opts.Static == nil {
			opts.Static = &StaticContext{}
		}
		opts.Static.Namespaces = ns
	}
}

// WithExtraFunctions names host-registered functions the parser should
// accept in addition to the built-in library.
func WithExtraFunctions(names ...string) CompileOption {
	return func(opts *CompileOptions) {
		if opts.Static == nil {
			opts.Static = &StaticContext{}
		}
		opts.Static.ExtraFunctions = append(opts.Static.ExtraFunctions, names...)
	}
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
