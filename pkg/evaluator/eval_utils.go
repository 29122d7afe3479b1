package evaluator

import (
	"sort"

	"github.com/sandrolain/goxpath/pkg/types"
)

// atomize replaces every node in the sequence with its string value.
// Atomic items pass through unchanged.
func atomize(seq types.Sequence) types.Sequence {
	needsCopy := false
	for _, item := range seq {
		if _, ok := item.(types.Node); ok {
			needsCopy = true
			break
		}
	}
	if !needsCopy {
		return seq
	}

	out := make(types.Sequence, len(seq))
	for i, item := range seq {
		if n, ok := item.(types.Node); ok {
			out[i] = n.StringValue()
		} else {
			out[i] = item
		}
	}
	return out
}

func isNumberItem(it types.Item) bool {
	switch it.(type) {
	case int64, float64:
		return true
	}
	return false
}

func isStringItem(it types.Item) bool {
	_, ok := it.(string)
	return ok
}

// nodesOnly asserts that every item of the sequence is a node.
func nodesOnly(seq types.Sequence, pos int) ([]types.Node, error) {
	nodes := make([]types.Node, len(seq))
	for i, item := range seq {
		n, ok := item.(types.Node)
		if !ok {
			return nil, types.NewError(types.ErrTypeMismatch, "operand contains a non-node item", pos)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// docOrderDedupe sorts a node sequence into document order and removes
// duplicate nodes. The input must contain only nodes.
func docOrderDedupe(seq types.Sequence) types.Sequence {
	if len(seq) < 2 {
		return seq
	}

	nodes := make([]types.Node, len(seq))
	for i, item := range seq {
		nodes[i] = item.(types.Node)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Compare(nodes[j]) < 0
	})

	out := make(types.Sequence, 0, len(nodes))
	for i, n := range nodes {
		if i > 0 && n.Compare(nodes[i-1]) == 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}
