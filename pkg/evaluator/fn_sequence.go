package evaluator

import (
	"context"
	"math"
	"strings"

	"github.com/sandrolain/goxpath/pkg/types"
)

func fnPosition(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	if c.Position() == 0 {
		return nil, types.NewError(types.ErrContextItemAbsent, "position() requires a focus", -1)
	}
	return types.Sequence{int64(c.Position())}, nil
}

func fnLast(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	if c.Size() == 0 {
		return nil, types.NewError(types.ErrContextItemAbsent, "last() requires a focus", -1)
	}
	return types.Sequence{int64(c.Size())}, nil
}

func fnCount(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return types.Sequence{int64(len(args[0]))}, nil
}

func fnEmpty(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return types.Sequence{args[0].IsEmpty()}, nil
}

func fnExists(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return types.Sequence{!args[0].IsEmpty()}, nil
}

func fnReverse(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	seq := args[0]
	out := make(types.Sequence, len(seq))
	for i, item := range seq {
		out[len(seq)-1-i] = item
	}
	return out, nil
}

// fnSubsequence selects the items whose 1-based positions fall in the
// rounded [start, start+length) window, like substring does for
// characters.
func fnSubsequence(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	seq := args[0]
	start, err := args[1].Number()
	if err != nil {
		return nil, err
	}
	start = xpathRound(start)

	end := math.Inf(1)
	if len(args) == 3 {
		length, err := args[2].Number()
		if err != nil {
			return nil, err
		}
		end = start + xpathRound(length)
	}
	if math.IsNaN(start) || math.IsNaN(end) {
		return types.EmptySequence, nil
	}

	out := types.Sequence{}
	for i, item := range seq {
		pos := float64(i + 1)
		if pos >= start && pos < end {
			out = append(out, item)
		}
	}
	return out, nil
}

// fnDistinctValues removes duplicate atomized values, keeping the first
// occurrence of each. Values that compare equal across numeric types
// count as duplicates; NaN equals itself here.
func fnDistinctValues(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	items := atomize(args[0])
	out := types.Sequence{}
	for _, item := range items {
		dup := false
		for _, kept := range out {
			if sameValue(item, kept) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return out, nil
}

// sameValue reports value equality for distinct-values: numbers compare
// numerically across int64/float64, NaN matches NaN, and any other pair
// compares by type and value.
func sameValue(a, b types.Item) bool {
	if isNumberItem(a) && isNumberItem(b) {
		na, _ := types.ItemNumber(a)
		nb, _ := types.ItemNumber(b)
		if math.IsNaN(na) && math.IsNaN(nb) {
			return true
		}
		return na == nb
	}
	return a == b
}

// fnID finds the elements whose "id" attribute matches any of the
// space-separated tokens in the argument's string values. Results are in
// document order.
func fnID(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	cn, err := c.ContextNode()
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	for _, item := range args[0] {
		for _, token := range strings.Fields(types.ItemString(item)) {
			wanted[token] = true
		}
	}
	if len(wanted) == 0 {
		return types.EmptySequence, nil
	}

	result := types.Sequence{}
	for _, n := range appendSubtree(nil, types.RootOf(cn)) {
		if n.Kind() != types.KindElement {
			continue
		}
		for _, attr := range n.Attributes() {
			if attr.Name().Local == "id" && wanted[attr.StringValue()] {
				result = append(result, n)
				break
			}
		}
	}
	return result, nil
}
