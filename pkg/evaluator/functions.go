package evaluator

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandrolain/goxpath/pkg/types"
)

// FunctionDef defines a built-in function.
type FunctionDef struct {
	Name           string
	MinArgs        int
	MaxArgs        int  // -1 for unlimited
	AcceptsContext bool // if true, a zero-argument call receives the context item
	Impl           FunctionImpl
}

// FunctionImpl is the implementation of a function. args holds the
// already-evaluated argument sequences in call order.
type FunctionImpl func(ctx context.Context, e *Evaluator, evalCtx *EvalContext, args []types.Sequence) (types.Sequence, error)

var (
	builtinFunctions     map[string]*FunctionDef
	builtinFunctionsOnce sync.Once
)

// initBuiltinFunctions initializes the built-in function registry.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		builtinFunctions = map[string]*FunctionDef{
			// String functions
			"string":           {Name: "string", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnString},
			"concat":           {Name: "concat", MinArgs: 2, MaxArgs: -1, Impl: fnConcat},
			"substring":        {Name: "substring", MinArgs: 2, MaxArgs: 3, Impl: fnSubstring},
			"substring-before": {Name: "substring-before", MinArgs: 2, MaxArgs: 2, Impl: fnSubstringBefore},
			"substring-after":  {Name: "substring-after", MinArgs: 2, MaxArgs: 2, Impl: fnSubstringAfter},
			"string-length":    {Name: "string-length", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnStringLength},
			"normalize-space":  {Name: "normalize-space", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnNormalizeSpace},
			"upper-case":       {Name: "upper-case", MinArgs: 1, MaxArgs: 1, Impl: fnUpperCase},
			"lower-case":       {Name: "lower-case", MinArgs: 1, MaxArgs: 1, Impl: fnLowerCase},
			"translate":        {Name: "translate", MinArgs: 3, MaxArgs: 3, Impl: fnTranslate},
			"contains":         {Name: "contains", MinArgs: 2, MaxArgs: 2, Impl: fnContains},
			"starts-with":      {Name: "starts-with", MinArgs: 2, MaxArgs: 2, Impl: fnStartsWith},
			"ends-with":        {Name: "ends-with", MinArgs: 2, MaxArgs: 2, Impl: fnEndsWith},
			"string-join":      {Name: "string-join", MinArgs: 1, MaxArgs: 2, Impl: fnStringJoin},

			// Numeric functions
			"number":  {Name: "number", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnNumber},
			"round":   {Name: "round", MinArgs: 1, MaxArgs: 1, Impl: fnRound},
			"floor":   {Name: "floor", MinArgs: 1, MaxArgs: 1, Impl: fnFloor},
			"ceiling": {Name: "ceiling", MinArgs: 1, MaxArgs: 1, Impl: fnCeiling},
			"abs":     {Name: "abs", MinArgs: 1, MaxArgs: 1, Impl: fnAbs},
			"sum":     {Name: "sum", MinArgs: 1, MaxArgs: 2, Impl: fnSum},
			"avg":     {Name: "avg", MinArgs: 1, MaxArgs: 1, Impl: fnAvg},
			"min":     {Name: "min", MinArgs: 1, MaxArgs: 1, Impl: fnMin},
			"max":     {Name: "max", MinArgs: 1, MaxArgs: 1, Impl: fnMax},

			// Sequence functions
			"position":        {Name: "position", MinArgs: 0, MaxArgs: 0, Impl: fnPosition},
			"last":            {Name: "last", MinArgs: 0, MaxArgs: 0, Impl: fnLast},
			"count":           {Name: "count", MinArgs: 1, MaxArgs: 1, Impl: fnCount},
			"empty":           {Name: "empty", MinArgs: 1, MaxArgs: 1, Impl: fnEmpty},
			"exists":          {Name: "exists", MinArgs: 1, MaxArgs: 1, Impl: fnExists},
			"reverse":         {Name: "reverse", MinArgs: 1, MaxArgs: 1, Impl: fnReverse},
			"subsequence":     {Name: "subsequence", MinArgs: 2, MaxArgs: 3, Impl: fnSubsequence},
			"distinct-values": {Name: "distinct-values", MinArgs: 1, MaxArgs: 1, Impl: fnDistinctValues},
			"id":              {Name: "id", MinArgs: 1, MaxArgs: 1, Impl: fnID},

			// Boolean functions
			"boolean": {Name: "boolean", MinArgs: 1, MaxArgs: 1, Impl: fnBoolean},
			"not":     {Name: "not", MinArgs: 1, MaxArgs: 1, Impl: fnNot},
			"true":    {Name: "true", MinArgs: 0, MaxArgs: 0, Impl: fnTrue},
			"false":   {Name: "false", MinArgs: 0, MaxArgs: 0, Impl: fnFalse},

			// Node accessors
			"name":          {Name: "name", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnName},
			"local-name":    {Name: "local-name", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnLocalName},
			"namespace-uri": {Name: "namespace-uri", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnNamespaceURI},
			"root":          {Name: "root", MinArgs: 0, MaxArgs: 1, AcceptsContext: true, Impl: fnRoot},
		}
	})
}

// GetFunction retrieves a built-in function by name.
func GetFunction(name string) (*FunctionDef, bool) {
	initBuiltinFunctions()
	fn, ok := builtinFunctions[name]
	return fn, ok
}

// evalFunctionCall resolves a function by name, evaluates its arguments
// in call order and invokes the implementation. Host-registered
// functions shadow built-ins of the same name.
func (e *Evaluator) evalFunctionCall(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	name := node.StrValue

	def, ok := e.getCustomFunction(name)
	if !ok {
		def, ok = GetFunction(name)
	}
	if !ok {
		return nil, types.NewError(types.ErrUnknownFunction, fmt.Sprintf("unknown function %q", name), node.Position)
	}

	argc := len(node.Arguments)
	if argc < def.MinArgs && !(argc == 0 && def.AcceptsContext) {
		return nil, types.NewError(types.ErrUnknownFunction, fmt.Sprintf("%s expects at least %d arguments, got %d", name, def.MinArgs, argc), node.Position)
	}
	if def.MaxArgs >= 0 && argc > def.MaxArgs {
		return nil, types.NewError(types.ErrUnknownFunction, fmt.Sprintf("%s expects at most %d arguments, got %d", name, def.MaxArgs, argc), node.Position)
	}

	args := make([]types.Sequence, argc)
	for i, argNode := range node.Arguments {
		seq, err := e.evalNode(ctx, argNode, c)
		if err != nil {
			return nil, err
		}
		args[i] = seq
	}

	// Zero-argument calls to focus-dependent functions receive the
	// context item, as in "string()" or "name()".
	if argc == 0 && def.AcceptsContext {
		if c.Item() == nil {
			return nil, types.NewError(types.ErrContextItemAbsent, fmt.Sprintf("%s() requires a context item", name), node.Position)
		}
		args = []types.Sequence{{c.Item()}}
	}

	return def.Impl(ctx, e, c, args)
}
