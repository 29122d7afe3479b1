package evaluator

import (
	"context"
	"math"

	"github.com/sandrolain/goxpath/pkg/types"
)

func fnNumber(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	n, err := args[0].Number()
	if err != nil {
		return nil, err
	}
	return types.Sequence{n}, nil
}

// numericArg reduces an argument to an int64 or float64, or reports
// empty. Untyped values are cast through their number form.
func numericArg(seq types.Sequence) (types.Item, bool, error) {
	if seq.IsEmpty() {
		return nil, false, nil
	}
	one, ok := seq.Singleton()
	if !ok {
		return nil, false, types.NewError(types.ErrTypeMismatch, "expected a single number", -1)
	}
	switch v := one.(type) {
	case int64:
		return v, true, nil
	case float64:
		return v, true, nil
	default:
		n, err := types.ItemNumber(one)
		if err != nil {
			return nil, false, err
		}
		return n, true, nil
	}
}

func fnRound(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	v, ok, err := numericArg(args[0])
	if err != nil || !ok {
		return types.EmptySequence, err
	}
	if n, isInt := v.(int64); isInt {
		return types.Sequence{n}, nil
	}
	return types.Sequence{xpathRound(v.(float64))}, nil
}

func fnFloor(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	v, ok, err := numericArg(args[0])
	if err != nil || !ok {
		return types.EmptySequence, err
	}
	if n, isInt := v.(int64); isInt {
		return types.Sequence{n}, nil
	}
	return types.Sequence{math.Floor(v.(float64))}, nil
}

func fnCeiling(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	v, ok, err := numericArg(args[0])
	if err != nil || !ok {
		return types.EmptySequence, err
	}
	if n, isInt := v.(int64); isInt {
		return types.Sequence{n}, nil
	}
	return types.Sequence{math.Ceil(v.(float64))}, nil
}

func fnAbs(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	v, ok, err := numericArg(args[0])
	if err != nil || !ok {
		return types.EmptySequence, err
	}
	if n, isInt := v.(int64); isInt {
		if n < 0 {
			n = -n
		}
		return types.Sequence{n}, nil
	}
	return types.Sequence{math.Abs(v.(float64))}, nil
}

// fnSum adds the atomized items of the argument. An empty sequence sums
// to the optional second argument, or integer zero. The sum stays an
// integer while every addend is one.
func fnSum(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	seq := atomize(args[0])
	if seq.IsEmpty() {
		if len(args) == 2 {
			return args[1], nil
		}
		return types.Sequence{int64(0)}, nil
	}

	var intSum int64
	var floatSum float64
	allInt := true
	for _, item := range seq {
		if n, isInt := item.(int64); isInt && allInt {
			intSum += n
			continue
		}
		if allInt {
			allInt = false
			floatSum = float64(intSum)
		}
		n, err := types.ItemNumber(item)
		if err != nil {
			return nil, err
		}
		floatSum += n
	}
	if allInt {
		return types.Sequence{intSum}, nil
	}
	return types.Sequence{floatSum}, nil
}

func fnAvg(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	seq := atomize(args[0])
	if seq.IsEmpty() {
		return types.EmptySequence, nil
	}

	var sum float64
	for _, item := range seq {
		n, err := types.ItemNumber(item)
		if err != nil {
			return nil, err
		}
		sum += n
	}
	return types.Sequence{sum / float64(len(seq))}, nil
}

func fnMin(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return seqExtreme(args[0], true)
}

func fnMax(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	return seqExtreme(args[0], false)
}

// seqExtreme finds the smallest or largest atomized item. When every
// item is a string the comparison is lexicographic; otherwise items are
// compared as numbers and a NaN makes the result NaN.
func seqExtreme(seq types.Sequence, smallest bool) (types.Sequence, error) {
	items := atomize(seq)
	if items.IsEmpty() {
		return types.EmptySequence, nil
	}

	allStrings := true
	for _, item := range items {
		if !isStringItem(item) {
			allStrings = false
			break
		}
	}

	if allStrings {
		best := items[0].(string)
		for _, item := range items[1:] {
			s := item.(string)
			if (smallest && s < best) || (!smallest && s > best) {
				best = s
			}
		}
		return types.Sequence{best}, nil
	}

	best := items[0]
	bestNum, err := types.ItemNumber(best)
	if err != nil {
		return nil, err
	}
	for _, item := range items[1:] {
		n, err := types.ItemNumber(item)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(n) {
			return types.Sequence{math.NaN()}, nil
		}
		if (smallest && n < bestNum) || (!smallest && n > bestNum) {
			best = item
			bestNum = n
		}
	}
	if math.IsNaN(bestNum) {
		return types.Sequence{math.NaN()}, nil
	}
	return types.Sequence{best}, nil
}
