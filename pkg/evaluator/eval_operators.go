package evaluator

import (
	"context"
	"fmt"
	"math"

	"github.com/sandrolain/goxpath/pkg/types"
)

// evalBinary evaluates a binary operator node. The operator symbol is
// carried in StrValue as spelled in the query.
func (e *Evaluator) evalBinary(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	switch node.StrValue {
	case "and", "or":
		return e.evalLogical(ctx, node, c)
	case "+", "-", "*", "div", "idiv", "mod":
		return e.evalArithmetic(ctx, node, c)
	case "=", "!=", "<", "<=", ">", ">=":
		return e.evalGeneralComparison(ctx, node, c)
	case "eq", "ne", "lt", "le", "gt", "ge":
		return e.evalValueComparison(ctx, node, c)
	case "is":
		return e.evalNodeIdentity(ctx, node, c)
	case "|", "union", "intersect", "except":
		return e.evalNodeSetOp(ctx, node, c)
	case "to":
		return e.evalRange(ctx, node, c)
	case "||":
		return e.evalConcat(ctx, node, c)
	default:
		return nil, types.NewError(types.ErrSyntax, fmt.Sprintf("unknown operator %q", node.StrValue), node.Position)
	}
}

// evalLogical evaluates "and" / "or" over effective boolean values.
// The right operand is not evaluated when the left already decides.
func (e *Evaluator) evalLogical(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	lv, err := lseq.Bool()
	if err != nil {
		return nil, err
	}

	if node.StrValue == "and" && !lv {
		return types.Sequence{false}, nil
	}
	if node.StrValue == "or" && lv {
		return types.Sequence{true}, nil
	}

	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}
	rv, err := rseq.Bool()
	if err != nil {
		return nil, err
	}
	return types.Sequence{rv}, nil
}

// evalArithmetic evaluates the numeric operators. An empty operand makes
// the result empty. Integers stay integers except under "div", which is
// always carried out in floating point; an all-integer division by zero
// is an error rather than IEEE infinity.
func (e *Evaluator) evalArithmetic(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	if lseq.IsEmpty() {
		return types.EmptySequence, nil
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}
	if rseq.IsEmpty() {
		return types.EmptySequence, nil
	}

	lv, err := arithmeticOperand(lseq, node.Position)
	if err != nil {
		return nil, err
	}
	rv, err := arithmeticOperand(rseq, node.Position)
	if err != nil {
		return nil, err
	}

	li, lInt := lv.(int64)
	ri, rInt := rv.(int64)
	if lInt && rInt {
		if node.StrValue == "div" {
			if ri == 0 {
				return nil, types.NewError(types.ErrDivisionByZero, "division by zero", node.Position)
			}
		} else {
			result, err := integerArithmetic(node.StrValue, li, ri, node.Position)
			if err != nil {
				return nil, err
			}
			return types.Sequence{result}, nil
		}
	}

	lf := toFloat(lv)
	rf := toFloat(rv)
	switch node.StrValue {
	case "+":
		return types.Sequence{lf + rf}, nil
	case "-":
		return types.Sequence{lf - rf}, nil
	case "*":
		return types.Sequence{lf * rf}, nil
	case "div":
		return types.Sequence{lf / rf}, nil
	case "idiv":
		if rf == 0 {
			return nil, types.NewError(types.ErrDivisionByZero, "integer division by zero", node.Position)
		}
		q := math.Trunc(lf / rf)
		if math.IsNaN(q) || math.IsInf(q, 0) || math.Abs(q) >= math.MaxInt64 {
			return nil, types.NewError(types.ErrNumberOverflow, "integer division result out of range", node.Position)
		}
		return types.Sequence{int64(q)}, nil
	case "mod":
		return types.Sequence{math.Mod(lf, rf)}, nil
	}
	return nil, types.NewError(types.ErrSyntax, fmt.Sprintf("unknown arithmetic operator %q", node.StrValue), node.Position)
}

func integerArithmetic(op string, l, r int64, pos int) (types.Item, error) {
	switch op {
	case "+":
		s := l + r
		if (r > 0 && s < l) || (r < 0 && s > l) {
			return nil, types.NewError(types.ErrArithmeticOverflow, "integer addition overflow", pos)
		}
		return s, nil
	case "-":
		d := l - r
		if (r < 0 && d < l) || (r > 0 && d > l) {
			return nil, types.NewError(types.ErrArithmeticOverflow, "integer subtraction overflow", pos)
		}
		return d, nil
	case "*":
		if l == 0 || r == 0 {
			return int64(0), nil
		}
		if (l == math.MinInt64 && r == -1) || (r == math.MinInt64 && l == -1) {
			return nil, types.NewError(types.ErrArithmeticOverflow, "integer multiplication overflow", pos)
		}
		p := l * r
		if p/r != l {
			return nil, types.NewError(types.ErrArithmeticOverflow, "integer multiplication overflow", pos)
		}
		return p, nil
	case "idiv":
		if r == 0 {
			return nil, types.NewError(types.ErrDivisionByZero, "integer division by zero", pos)
		}
		if l == math.MinInt64 && r == -1 {
			return nil, types.NewError(types.ErrArithmeticOverflow, "integer division overflow", pos)
		}
		return l / r, nil
	case "mod":
		if r == 0 {
			return nil, types.NewError(types.ErrDivisionByZero, "modulus by zero", pos)
		}
		return l % r, nil
	}
	return nil, types.NewError(types.ErrSyntax, fmt.Sprintf("unknown arithmetic operator %q", op), pos)
}

// arithmeticOperand reduces an operand sequence to an int64 or float64.
// Nodes and strings are cast through their lexical number form; a value
// with no numeric form is a cast error.
func arithmeticOperand(seq types.Sequence, pos int) (types.Item, error) {
	one, ok := seq.Singleton()
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch, "arithmetic operand is not a singleton", pos)
	}
	switch v := one.(type) {
	case int64:
		return v, nil
	case float64:
		return v, nil
	case types.Node:
		return castNumeric(v.StringValue(), pos)
	case string:
		return castNumeric(v, pos)
	default:
		return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("cannot use %T in arithmetic", one), pos)
	}
}

func castNumeric(s string, pos int) (types.Item, error) {
	n, err := types.ItemNumber(s)
	if err != nil || math.IsNaN(n) {
		return nil, types.NewError(types.ErrInvalidCast, fmt.Sprintf("cannot cast %q to a number", s), pos)
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return int64(n), nil
	}
	return n, nil
}

func toFloat(v types.Item) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return math.NaN()
}

// evalGeneralComparison evaluates the existential comparisons: true when
// any pair of atomized operand items satisfies the relation.
func (e *Evaluator) evalGeneralComparison(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}

	left := atomize(lseq)
	right := atomize(rseq)
	for _, a := range left {
		for _, b := range right {
			ok, err := compareGeneral(node.StrValue, a, b)
			if err != nil {
				return nil, err
			}
			if ok {
				return types.Sequence{true}, nil
			}
		}
	}
	return types.Sequence{false}, nil
}

// compareGeneral compares one atomized pair. When either side is a
// number the other is cast to a number (NaN never compares true);
// booleans compare as booleans; otherwise both compare as strings.
func compareGeneral(op string, a, b types.Item) (bool, error) {
	ab, aBool := a.(bool)
	bb, bBool := b.(bool)
	if aBool || bBool {
		if !aBool || !bBool {
			return false, types.NewError(types.ErrTypeMismatch, "cannot compare boolean with non-boolean", -1)
		}
		return compareBool(op, ab, bb)
	}

	if isNumberItem(a) || isNumberItem(b) {
		na, err := types.ItemNumber(a)
		if err != nil {
			return false, err
		}
		nb, err := types.ItemNumber(b)
		if err != nil {
			return false, err
		}
		return compareFloat(op, na, nb), nil
	}

	return compareString(op, types.ItemString(a), types.ItemString(b)), nil
}

// evalValueComparison evaluates the singleton comparisons (eq, ne, lt,
// le, gt, ge). Either operand empty makes the result empty; operands of
// incomparable types are a type error.
func (e *Evaluator) evalValueComparison(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}

	left := atomize(lseq)
	right := atomize(rseq)
	if left.IsEmpty() || right.IsEmpty() {
		return types.EmptySequence, nil
	}
	a, ok := left.Singleton()
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch, "value comparison operand is not a singleton", node.Position)
	}
	b, ok := right.Singleton()
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch, "value comparison operand is not a singleton", node.Position)
	}

	op := valueToGeneralOp(node.StrValue)
	ab, aBool := a.(bool)
	bb, bBool := b.(bool)
	switch {
	case aBool && bBool:
		result, err := compareBool(op, ab, bb)
		if err != nil {
			return nil, err
		}
		return types.Sequence{result}, nil
	case isNumberItem(a) && isNumberItem(b):
		na, _ := types.ItemNumber(a)
		nb, _ := types.ItemNumber(b)
		return types.Sequence{compareFloat(op, na, nb)}, nil
	case isStringItem(a) && isStringItem(b):
		return types.Sequence{compareString(op, types.ItemString(a), types.ItemString(b))}, nil
	default:
		return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("cannot compare %T with %T", a, b), node.Position)
	}
}

func valueToGeneralOp(op string) string {
	switch op {
	case "eq":
		return "="
	case "ne":
		return "!="
	case "lt":
		return "<"
	case "le":
		return "<="
	case "gt":
		return ">"
	default:
		return ">="
	}
}

func compareBool(op string, a, b bool) (bool, error) {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return compareFloat(op, float64(toInt(a)), float64(toInt(b))), nil
}

func compareFloat(op string, a, b float64) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

func compareString(op, a, b string) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

// evalNodeIdentity evaluates "is": true when both singleton operands are
// the same node. Either operand empty makes the result empty.
func (e *Evaluator) evalNodeIdentity(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}
	if lseq.IsEmpty() || rseq.IsEmpty() {
		return types.EmptySequence, nil
	}

	ln, err := singletonNode(lseq, node.Position)
	if err != nil {
		return nil, err
	}
	rn, err := singletonNode(rseq, node.Position)
	if err != nil {
		return nil, err
	}
	return types.Sequence{ln.Compare(rn) == 0}, nil
}

func singletonNode(seq types.Sequence, pos int) (types.Node, error) {
	one, ok := seq.Singleton()
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch, "operand is not a singleton node", pos)
	}
	n, ok := one.(types.Node)
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch, "operand is not a node", pos)
	}
	return n, nil
}

// evalNodeSetOp evaluates union, intersect and except. Operands must be
// node sequences; results are in document order without duplicates.
func (e *Evaluator) evalNodeSetOp(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}

	left, err := nodesOnly(lseq, node.Position)
	if err != nil {
		return nil, err
	}
	right, err := nodesOnly(rseq, node.Position)
	if err != nil {
		return nil, err
	}

	switch node.StrValue {
	case "|", "union":
		merged := make(types.Sequence, 0, len(left)+len(right))
		for _, n := range left {
			merged = append(merged, n)
		}
		for _, n := range right {
			merged = append(merged, n)
		}
		return docOrderDedupe(merged), nil

	case "intersect":
		result := types.Sequence{}
		for _, n := range left {
			if containsNode(right, n) {
				result = append(result, n)
			}
		}
		return docOrderDedupe(result), nil

	default: // except
		result := types.Sequence{}
		for _, n := range left {
			if !containsNode(right, n) {
				result = append(result, n)
			}
		}
		return docOrderDedupe(result), nil
	}
}

func containsNode(set []types.Node, n types.Node) bool {
	for _, m := range set {
		if m.Compare(n) == 0 {
			return true
		}
	}
	return false
}

// maxRangeLength bounds the "to" operator so a typo cannot allocate an
// arbitrarily large sequence.
const maxRangeLength = 1 << 24

// evalRange evaluates "to": the ascending integer range from the left
// operand to the right, inclusive. Empty when either operand is empty or
// the start exceeds the end.
func (e *Evaluator) evalRange(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}
	if lseq.IsEmpty() || rseq.IsEmpty() {
		return types.EmptySequence, nil
	}

	start, err := integerOperand(lseq, node.Position)
	if err != nil {
		return nil, err
	}
	end, err := integerOperand(rseq, node.Position)
	if err != nil {
		return nil, err
	}
	if start > end {
		return types.EmptySequence, nil
	}
	length := end - start + 1
	if length > maxRangeLength {
		return nil, types.NewError(types.ErrNumberOverflow, fmt.Sprintf("range of %d items exceeds the limit", length), node.Position)
	}

	result := make(types.Sequence, 0, length)
	for i := start; i <= end; i++ {
		result = append(result, i)
	}
	return result, nil
}

func integerOperand(seq types.Sequence, pos int) (int64, error) {
	one, ok := seq.Singleton()
	if !ok {
		return 0, types.NewError(types.ErrTypeMismatch, "range operand is not a singleton", pos)
	}
	switch v := one.(type) {
	case int64:
		return v, nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), nil
		}
	}
	return 0, types.NewError(types.ErrTypeMismatch, "range operand is not an integer", pos)
}

// evalConcat evaluates "||": string concatenation with empty operands
// treated as the empty string.
func (e *Evaluator) evalConcat(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	lseq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	rseq, err := e.evalNode(ctx, node.RHS, c)
	if err != nil {
		return nil, err
	}

	lv, err := concatOperand(lseq, node.Position)
	if err != nil {
		return nil, err
	}
	rv, err := concatOperand(rseq, node.Position)
	if err != nil {
		return nil, err
	}
	return types.Sequence{lv + rv}, nil
}

func concatOperand(seq types.Sequence, pos int) (string, error) {
	if seq.IsEmpty() {
		return "", nil
	}
	one, ok := seq.Singleton()
	if !ok {
		return "", types.NewError(types.ErrTypeMismatch, "concatenation operand is not a singleton", pos)
	}
	return types.ItemString(one), nil
}

// evalUnary evaluates unary plus and minus. An empty operand gives an
// empty result.
func (e *Evaluator) evalUnary(ctx context.Context, node *types.ASTNode, c *EvalContext) (types.Sequence, error) {
	seq, err := e.evalNode(ctx, node.LHS, c)
	if err != nil {
		return nil, err
	}
	if seq.IsEmpty() {
		return types.EmptySequence, nil
	}

	v, err := arithmeticOperand(seq, node.Position)
	if err != nil {
		return nil, err
	}
	if node.StrValue == "+" {
		return types.Sequence{v}, nil
	}
	switch n := v.(type) {
	case int64:
		return types.Sequence{-n}, nil
	default:
		return types.Sequence{-v.(float64)}, nil
	}
}
