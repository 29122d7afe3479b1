package evaluator

import (
	"context"

	"github.com/sandrolain/goxpath/pkg/types"
)

// evalFor evaluates a for expression. With several clauses the iteration
// nests left to right: each clause variable is bound to one item at a
// time and the body results are concatenated.
func (e *Evaluator) evalFor(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	result := types.Sequence{}
	err := e.forEachBinding(ctx, node.Bindings, c, func(bound *EvalContext) error {
		seq, err := e.evalNode(ctx, node.RHS, bound)
		if err != nil {
			return err
		}
		result = append(result, seq...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// forEachBinding expands the binding clauses recursively and calls body
// once per combination of bound items.
func (e *Evaluator) forEachBinding(ctx context.Context, bindings []*types.ASTNode, c *EvalContext, body func(*EvalContext) error) error {
	if len(bindings) == 0 {
		return body(c)
	}

	clause := bindings[0]
	seq, err := e.evalNode(ctx, clause.LHS, c)
	if err != nil {
		return err
	}
	for _, item := range seq {
		bound := c.WithBinding(clause.StrValue, types.Sequence{item})
		if err := e.forEachBinding(ctx, bindings[1:], bound, body); err != nil {
			return err
		}
	}
	return nil
}

// evalLet evaluates a let expression: each clause binds its whole value
// sequence, in order, and the body is evaluated once.
func (e *Evaluator) evalLet(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	bound := c
	for _, clause := range node.Bindings {
		seq, err := e.evalNode(ctx, clause.LHS, bound)
		if err != nil {
			return nil, err
		}
		bound = bound.WithBinding(clause.StrValue, seq)
	}
	return e.evalNode(ctx, node.RHS, bound)
}

// evalQuantified evaluates some/every. Iteration stops as soon as the
// outcome is decided.
func (e *Evaluator) evalQuantified(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	every := node.StrValue == "every"

	decided := false
	err := e.forEachBinding(ctx, node.Bindings, c, func(bound *EvalContext) error {
		if decided {
			return nil
		}
		seq, err := e.evalNode(ctx, node.RHS, bound)
		if err != nil {
			return err
		}
		ok, err := seq.Bool()
		if err != nil {
			return err
		}
		if ok != every {
			decided = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decided {
		return types.Sequence{!every}, nil
	}
	return types.Sequence{every}, nil
}

// evalIf evaluates a conditional on the effective boolean value of the
// condition. Only the selected branch is evaluated.
func (e *Evaluator) evalIf(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	cond, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	ok, err := cond.Bool()
	if err != nil {
		return nil, err
	}
	if ok {
		return e.evalNode(ctx, node.RHS, c)
	}
	return e.evalNode(ctx, node.Expressions[0], c)
}
