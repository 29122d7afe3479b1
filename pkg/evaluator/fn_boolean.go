package evaluator

import (
	"context"

	"github.com/sandrolain/goxpath/pkg/types"
)

func fnBoolean(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	v, err := args[0].Bool()
	if err != nil {
		return nil, err
	}
	return types.Sequence{v}, nil
}

func fnNot(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	v, err := args[0].Bool()
	if err != nil {
		return nil, err
	}
	return types.Sequence{!v}, nil
}

func fnTrue(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return types.Sequence{true}, nil
}

func fnFalse(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return types.Sequence{false}, nil
}
