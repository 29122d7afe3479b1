package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/goxpath/pkg/types"
)

// evalNode evaluates a single AST node. This is the central dispatch of
// the evaluator; every expression form routes through here.
func (e *Evaluator) evalNode(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if node == nil {
		return types.EmptySequence, nil
	}
	if e.opts.MaxDepth > 0 && c.Depth() > e.opts.MaxDepth {
		return nil, types.NewError(types.ErrInvalidArgument, "maximum evaluation depth exceeded", node.Position)
	}

	if e.opts.Debug {
		e.logger.Debug("eval node", "type", string(node.Type), "position", node.Position)
	}

	switch node.Type {
	case types.NodeString:
		return types.Sequence{node.StrValue}, nil

	case types.NodeInteger:
		return types.Sequence{node.IntValue}, nil

	case types.NodeNumber:
		return types.Sequence{node.NumValue}, nil

	case types.NodeVariable:
		value, ok := c.Lookup(node.StrValue)
		if !ok {
			return nil, types.NewError(types.ErrUndefinedVariable, fmt.Sprintf("undefined variable $%s", node.StrValue), node.Position)
		}
		return value, nil

	case types.NodeContextItem:
		if c.Item() == nil {
			return nil, types.NewError(types.ErrContextItemAbsent, "context item is absent", node.Position)
		}
		return types.Sequence{c.Item()}, nil

	case types.NodeSequence:
		return e.evalSequence(ctx, node, c)

	case types.NodeRoot:
		cn, err := c.ContextNode()
		if err != nil {
			return nil, err
		}
		return types.Sequence{types.RootOf(cn)}, nil

	case types.NodePath:
		return e.evalPath(ctx, node, c)

	case types.NodeStep:
		result, err := e.evalStep(ctx, node, c)
		if err != nil {
			return nil, err
		}
		// A bare step is a one-step path: results come out in document
		// order even for reverse axes.
		return docOrderDedupe(result), nil

	case types.NodeBinary:
		return e.evalBinary(ctx, node, c)

	case types.NodeUnary:
		return e.evalUnary(ctx, node, c)

	case types.NodeFilter:
		return e.evalFilter(ctx, node, c)

	case types.NodeFunction:
		return e.evalFunctionCall(ctx, node, c)

	case types.NodeFor:
		return e.evalFor(ctx, node, c)

	case types.NodeLet:
		return e.evalLet(ctx, node, c)

	case types.NodeQuantified:
		return e.evalQuantified(ctx, node, c)

	case types.NodeIf:
		return e.evalIf(ctx, node, c)

	default:
		return nil, types.NewError(types.ErrSyntax, fmt.Sprintf("unexpected AST node %q in evaluation", string(node.Type)), node.Position)
	}
}

// evalSequence evaluates a comma sequence constructor. Member results
// are spliced: sequences never nest.
func (e *Evaluator) evalSequence(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	result := types.Sequence{}
	for _, expr := range node.Expressions {
		seq, err := e.evalNode(ctx, expr, c)
		if err != nil {
			return nil, err
		}
		result = append(result, seq...)
	}
	return result, nil
}

// evalFilter applies postfix predicates to a non-step expression, as in
// "(//a)[1]" or "$seq[position() > 2]".
func (e *Evaluator) evalFilter(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	base, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	return e.applyPredicates(ctx, base, node.Predicates, c, false)
}

// applyPredicates filters seq through each predicate in order. Positions
// are 1-based over the sequence being filtered; when reverse is true the
// axis ran against document order and positions count from the end.
// A predicate whose value is a singleton number selects by position; any
// other value is taken as its effective boolean value.
func (e *Evaluator) applyPredicates(ctx context.Context, seq types.Sequence, predicates []*types.ASTNode, c *EvalContext, reverse bool) (types.Sequence, error) {
	for _, pred := range predicates {
		size := len(seq)
		filtered := seq[:0:0]
		for i, item := range seq {
			position := i + 1
			if reverse {
				position = size - i
			}
			focus := c.WithFocus(item, position, size)
			value, err := e.evalNode(ctx, pred, focus)
			if err != nil {
				return nil, err
			}

			keep, err := predicateMatches(value, position)
			if err != nil {
				return nil, err
			}
			if keep {
				filtered = append(filtered, item)
			}
		}
		seq = filtered
	}
	return seq, nil
}

// predicateMatches decides whether a predicate value selects the item at
// the given position.
func predicateMatches(value types.Sequence, position int) (bool, error) {
	if one, ok := value.Singleton(); ok {
		switch n := one.(type) {
		case int64:
			return n == int64(position), nil
		case float64:
			return n == float64(position), nil
		}
	}
	return value.Bool()
}
