package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/goxpath/pkg/types"
)

// evalPath evaluates a step chain. Each step runs once per item of the
// previous step's result, with that item as the focus; the per-item
// results are concatenated. A step result that contains nodes is sorted
// into document order and de-duplicated; mixing nodes and atomic values
// in one step result is a type error.
func (e *Evaluator) evalPath(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	steps := node.Steps

	var current types.Sequence
	if steps[0].Type == types.NodeRoot {
		cn, err := c.ContextNode()
		if err != nil {
			return nil, err
		}
		current = types.Sequence{types.RootOf(cn)}
	} else {
		seq, err := e.evalNode(ctx, steps[0], c)
		if err != nil {
			return nil, err
		}
		current = seq
	}
	steps = steps[1:]

	for _, step := range steps {
		next, err := e.evalPathStep(ctx, step, current, c)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// evalPathStep runs one step over every item of input.
func (e *Evaluator) evalPathStep(ctx context.Context, step *types.ASTNode, input types.Sequence, c *EvalContext) (types.Sequence, error) {
	result := types.Sequence{}
	size := len(input)
	for i, item := range input {
		focus := c.WithFocus(item, i+1, size)
		seq, err := e.evalNode(ctx, step, focus)
		if err != nil {
			return nil, err
		}
		result = append(result, seq...)
	}

	var hasNodes, hasAtomics bool
	for _, item := range result {
		if _, ok := item.(types.Node); ok {
			hasNodes = true
		} else {
			hasAtomics = true
		}
	}
	if hasNodes && hasAtomics {
		return nil, types.NewError(types.ErrMixedPathResult, "path step mixes nodes and atomic values", step.Position)
	}
	if hasNodes {
		result = docOrderDedupe(result)
	}
	return result, nil
}

// evalStep evaluates an axis step against the context node: walk the
// axis, keep the nodes the node test matches, then filter through the
// predicates. Candidates arrive in document order; predicate positions
// count backwards on reverse axes.
func (e *Evaluator) evalStep(ctx context.Context, step *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	cn, err := c.ContextNode()
	if err != nil {
		return nil, err
	}

	candidates := axisNodes(cn, step.Axis)
	matched := types.Sequence{}
	for _, n := range candidates {
		ok, err := e.nodeTestMatches(step.LHS, step.Axis, n)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, n)
		}
	}

	return e.applyPredicates(ctx, matched, step.Predicates, c, step.Axis.Reverse())
}

// nodeTestMatches reports whether node n passes the step's node test.
// The principal node kind is attribute on the attribute axis and element
// everywhere else; name tests only match the principal kind.
func (e *Evaluator) nodeTestMatches(test *types.ASTNode, axis types.Axis, n types.Node) (bool, error) {
	switch test.Type {
	case types.NodeKindTest:
		if test.AnyKind {
			return true, nil
		}
		if n.Kind() != test.Kind {
			return false, nil
		}
		// processing-instruction("target")
		if test.Kind == types.KindProcessingInstruction && test.StrValue != "" {
			return n.Name().Local == test.StrValue, nil
		}
		return true, nil

	case types.NodeNameTest:
		principal := types.KindElement
		if axis == types.AxisAttribute {
			principal = types.KindAttribute
		}
		if n.Kind() != principal {
			return false, nil
		}

		name := n.Name()
		switch {
		case test.StrValue == "*" && test.Prefix == "":
			return true, nil
		case test.Prefix == "*":
			return name.Local == test.StrValue, nil
		case test.StrValue == "*":
			uri, err := e.resolvePrefix(test.Prefix)
			if err != nil {
				return false, err
			}
			return name.Space == uri, nil
		default:
			uri := ""
			if test.Prefix != "" {
				var err error
				uri, err = e.resolvePrefix(test.Prefix)
				if err != nil {
					return false, err
				}
			}
			return name.Space == uri && name.Local == test.StrValue, nil
		}

	default:
		return false, types.NewError(types.ErrSyntax, fmt.Sprintf("invalid node test %q", string(test.Type)), test.Position)
	}
}

// axisNodes returns the nodes on the given axis from n, in document
// order. Reverse-axis position numbering is handled by the predicate
// filter, not here.
func axisNodes(n types.Node, axis types.Axis) []types.Node {
	switch axis {
	case types.AxisChild:
		return n.Children()

	case types.AxisDescendant:
		return appendDescendants(nil, n)

	case types.AxisDescendantOrSelf:
		return appendSubtree(nil, n)

	case types.AxisSelf:
		return []types.Node{n}

	case types.AxisAttribute:
		return n.Attributes()

	case types.AxisParent:
		if p := n.Parent(); p != nil {
			return []types.Node{p}
		}
		return nil

	case types.AxisAncestor:
		return ancestorsDocOrder(n, false)

	case types.AxisAncestorOrSelf:
		return ancestorsDocOrder(n, true)

	case types.AxisFollowingSibling:
		return n.FollowingSiblings()

	case types.AxisPrecedingSibling:
		// PrecedingSiblings is nearest-first; flip to document order.
		siblings := n.PrecedingSiblings()
		out := make([]types.Node, len(siblings))
		for i, s := range siblings {
			out[len(siblings)-1-i] = s
		}
		return out

	case types.AxisFollowing:
		var out []types.Node
		for cur := n; cur != nil; cur = cur.Parent() {
			for _, fs := range cur.FollowingSiblings() {
				out = append(out, appendSubtree(nil, fs)...)
			}
		}
		return out

	case types.AxisPreceding:
		var out []types.Node
		chain := ancestorsDocOrder(n, true) // topmost first, self last
		for _, anc := range chain {
			siblings := anc.PrecedingSiblings()
			for i := len(siblings) - 1; i >= 0; i-- {
				out = appendSubtree(out, siblings[i])
			}
		}
		return out

	default:
		return nil
	}
}

// appendSubtree appends n and its descendants in document order.
func appendSubtree(out []types.Node, n types.Node) []types.Node {
	out = append(out, n)
	return appendDescendants(out, n)
}

// appendDescendants appends the descendants of n in document order.
func appendDescendants(out []types.Node, n types.Node) []types.Node {
	for _, child := range n.Children() {
		out = appendSubtree(out, child)
	}
	return out
}

// ancestorsDocOrder returns the ancestor chain in document order
// (topmost first), optionally including n itself at the end.
func ancestorsDocOrder(n types.Node, includeSelf bool) []types.Node {
	var chain []types.Node
	if includeSelf {
		chain = append(chain, n)
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}
	// Collected nearest-first; flip.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
