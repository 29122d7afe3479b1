// Package functions provides types for registering custom XPath functions.
//
// Hosts can define their own functions and register them via
// [goxpath.WithCustomFunction], making them callable from query text by
// name.
//
// # Example
//
//	result, err := goxpath.Eval(ctx, `double(count(//item))`, doc,
//	    goxpath.WithCustomFunction("double", func(ctx context.Context, args ...types.Sequence) (types.Sequence, error) {
//	        n, err := args[0].Number()
//	        if err != nil {
//	            return nil, err
//	        }
//	        return types.Sequence{n * 2}, nil
//	    }),
//	)
package functions

import (
	"context"

	"github.com/sandrolain/goxpath/pkg/types"
)

// CustomFunc is the signature for host-defined functions.
// args contains the evaluated argument sequences in call order.
// The function returns a result sequence or an error.
type CustomFunc func(ctx context.Context, args ...types.Sequence) (types.Sequence, error)

// CustomFunctionDef describes a host-defined function.
type CustomFunctionDef struct {
	// Name is the function name as it will appear inside expressions.
	Name string
	// Fn is the implementation.
	Fn CustomFunc
}
