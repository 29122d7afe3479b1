package evaluator

import (
	"context"

	"github.com/sandrolain/goxpath/pkg/types"
)

// nodeArg reduces an argument sequence to a single node, or reports
// empty. Atomic items are a type error.
func nodeArg(seq types.Sequence) (types.Node, bool, error) {
	if seq.IsEmpty() {
		return nil, false, nil
	}
	one, ok := seq.Singleton()
	if !ok {
		return nil, false, types.NewError(types.ErrTypeMismatch, "expected a single node", -1)
	}
	n, ok := one.(types.Node)
	if !ok {
		return nil, false, types.NewError(types.ErrTypeMismatch, "expected a node", -1)
	}
	return n, true, nil
}

func fnName(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	n, ok, err := nodeArg(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.Sequence{""}, nil
	}
	return types.Sequence{n.Name().String()}, nil
}

func fnLocalName(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	n, ok, err := nodeArg(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.Sequence{""}, nil
	}
	return types.Sequence{n.Name().Local}, nil
}

func fnNamespaceURI(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	n, ok, err := nodeArg(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.Sequence{""}, nil
	}
	return types.Sequence{n.Name().Space}, nil
}

func fnRoot(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	n, ok, err := nodeArg(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.EmptySequence, nil
	}
	return types.Sequence{types.RootOf(n)}, nil
}
