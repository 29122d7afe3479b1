// Package evaluator implements the XPath evaluation engine.
//
// The evaluator receives a parsed abstract syntax tree from the parser
// and evaluates it against a host document tree implementing
// [types.Node]. Every evaluation produces a flat, ordered
// [types.Sequence]. It supports:
//   - Path navigation over the full axis set, with predicates
//   - Operators, sequences and control flow (for, let, some/every, if)
//   - The built-in function library and host-registered functions
//   - Timeout and cancellation via context.Context
//
// # Example
//
//	ev := evaluator.New()
//	result, err := ev.Eval(ctx, expr, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/goxpath/pkg/cache"
	"github.com/sandrolain/goxpath/pkg/functions"
	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Evaluator evaluates compiled XPath expressions against document trees.
// An Evaluator is safe for concurrent use: evaluation state lives in the
// per-call EvalContext chain, never on the Evaluator itself.
type Evaluator struct {
	opts       EvalOptions
	logger     *slog.Logger
	cache      *cache.Cache            // non-nil when Caching is enabled
	customFns  map[string]*FunctionDef // user-registered functions
	namespaces map[string]string       // prefix to URI bindings for name tests
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables query compilation caching in EvalQuery.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// MaxDepth limits evaluation recursion depth.
	MaxDepth int
	// Timeout sets evaluation timeout.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Version selects the grammar accepted by EvalQuery.
	Version int
	// Variables pre-binds variables for every evaluation.
	Variables map[string]types.Sequence
	// Namespaces maps prefixes to namespace URIs for name tests.
	Namespaces map[string]string
	// CustomFunctions holds host-defined functions to register with the evaluator.
	CustomFunctions []functions.CustomFunctionDef
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 10000,
		Timeout:  30 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		size := options.CacheSize
		if size <= 0 {
			size = 256
		}
		c = cache.New(size)
	}

	customFns := make(map[string]*FunctionDef, len(options.CustomFunctions))
	for _, cfd := range options.CustomFunctions {
		cfd := cfd
		customFns[cfd.Name] = &FunctionDef{
			Name:    cfd.Name,
			MinArgs: 0,
			MaxArgs: -1,
			Impl: func(ctx context.Context, _ *Evaluator, _ *EvalContext, args []types.Sequence) (types.Sequence, error) {
				return cfd.Fn(ctx, args...)
			},
		}
	}

	namespaces := map[string]string{
		// Predeclared per the XML namespaces recommendation.
		"xml": "http://www.w3.org/XML/1998/namespace",
	}
	for prefix, uri := range options.Namespaces {
		namespaces[prefix] = uri
	}

	return &Evaluator{
		opts:       options,
		logger:     options.Logger,
		cache:      c,
		customFns:  customFns,
		namespaces: namespaces,
	}
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// getCustomFunction returns a host-defined function by name, or (nil, false).
func (e *Evaluator) getCustomFunction(name string) (*FunctionDef, bool) {
	if len(e.customFns) == 0 {
		return nil, false
	}
	fn, ok := e.customFns[name]
	return fn, ok
}

// resolvePrefix maps a name-test prefix to its namespace URI.
func (e *Evaluator) resolvePrefix(prefix string) (string, error) {
	if uri, ok := e.namespaces[prefix]; ok {
		return uri, nil
	}
	return "", types.NewError(types.ErrUndefinedPrefix, fmt.Sprintf("undeclared namespace prefix %q", prefix), -1)
}

// Eval evaluates a compiled expression with contextItem as the initial
// context item. contextItem may be a types.Node, an atomic value, or nil
// for no context item (absolute paths and "." then fail with a dynamic
// error).
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, contextItem types.Item) (types.Sequence, error) {
	return e.EvalWithBindings(ctx, expr, contextItem, nil)
}

// EvalWithBindings evaluates an expression with extra variable bindings
// layered over the evaluator-level Variables.
func (e *Evaluator) EvalWithBindings(ctx context.Context, expr *types.Expression, contextItem types.Item, bindings map[string]types.Sequence) (types.Sequence, error) {
	if expr == nil || expr.AST() == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	evalCtx := NewContext(contextItem)
	evalCtx.SetBindings(e.opts.Variables)
	evalCtx.SetBindings(bindings)

	if e.opts.Debug {
		e.logger.Debug("evaluating expression", "query", expr.Source(), "context", evalCtx.String())
	}

	result, err := e.evalNode(ctx, expr.AST(), evalCtx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = types.EmptySequence
	}
	return result, nil
}

// EvalQuery compiles and evaluates a query string in one call. When
// caching is enabled, compiled expressions are reused across calls by
// query text and grammar version.
func (e *Evaluator) EvalQuery(ctx context.Context, query string, contextItem types.Item) (types.Sequence, error) {
	expr, err := e.compile(query)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, expr, contextItem)
}

func (e *Evaluator) compile(query string) (*types.Expression, error) {
	opts := []parser.CompileOption{}
	if e.opts.Version != 0 {
		opts = append(opts, parser.WithVersion(e.opts.Version))
	}
	if len(e.customFns) > 0 {
		names := make([]string, 0, len(e.customFns))
		for name := range e.customFns {
			names = append(names, name)
		}
		opts = append(opts, parser.WithExtraFunctions(names...))
	}

	if e.cache == nil {
		return parser.Compile(query, opts...)
	}
	key := fmt.Sprintf("%d\x00%s", e.opts.Version, query)
	return e.cache.GetOrCompile(key, func() (*types.Expression, error) {
		return parser.Compile(query, opts...)
	})
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables query compilation caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum evaluation recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithVersion selects the grammar version used by EvalQuery
// (parser.Version10, parser.Version20, parser.Version30).
func WithVersion(version int) EvalOption {
	return func(opts *EvalOptions) {
		opts.Version = version
	}
}

// WithVariable pre-binds a variable for every evaluation.
func WithVariable(name string, value types.Sequence) EvalOption {
	return func(opts *EvalOptions) {
		if opts.Variables == nil {
			opts.Variables = make(map[string]types.Sequence)
		}
		opts.Variables[name] = value
	}
}

// WithNamespaces declares prefix to URI bindings used to resolve
// prefixed name tests during evaluation.
func WithNamespaces(ns map[string]string) EvalOption {
	return func(opts *EvalOptions) {
		opts.Namespaces = ns
	}
}

// WithCustomFunction registers a host-defined function with the
// evaluator. name is the function name as written in expressions.
//
// Example:
//
//	ev := evaluator.New(evaluator.WithCustomFunction("double", func(ctx context.Context, args ...types.Sequence) (types.Sequence, error) {
//	    n, err := args[0].Number()
//	    if err != nil {
//	        return nil, err
//	    }
//	    return types.Sequence{n * 2}, nil
//	}))
func WithCustomFunction(name string, fn functions.CustomFunc) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, functions.CustomFunctionDef{
			Name: name,
			Fn:   fn,
		})
	}
}
