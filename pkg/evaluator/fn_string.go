package evaluator

import (
	"context"
	"math"
	"strings"

	"github.com/sandrolain/goxpath/pkg/types"
)

// argString reduces an argument sequence to a string: empty gives the
// empty string, a singleton its string value, anything longer is a type
// error.
func argString(seq types.Sequence) (string, error) {
	if seq.IsEmpty() {
		return "", nil
	}
	one, ok := seq.Singleton()
	if !ok {
		return "", types.NewError(types.ErrTypeMismatch, "expected a single string", -1)
	}
	return types.ItemString(one), nil
}

func fnString(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return types.Sequence{s}, nil
}

func fnConcat(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	var sb strings.Builder
	for _, arg := range args {
		s, err := argString(arg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return types.Sequence{sb.String()}, nil
}

// fnSubstring selects the characters whose 1-based positions fall in
// the rounded [start, start+length) window. Positions are counted in
// characters, not bytes; NaN bounds select nothing.
func fnSubstring(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
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
		return types.Sequence{""}, nil
	}

	var sb strings.Builder
	pos := 0
	for _, r := range s {
		pos++
		if float64(pos) >= start && float64(pos) < end {
			sb.WriteRune(r)
		}
	}
	return types.Sequence{sb.String()}, nil
}

func fnSubstringBefore(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	sep, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	if i := strings.Index(s, sep); i >= 0 {
		return types.Sequence{s[:i]}, nil
	}
	return types.Sequence{""}, nil
}

func fnSubstringAfter(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	sep, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	if i := strings.Index(s, sep); i >= 0 {
		return types.Sequence{s[i+len(sep):]}, nil
	}
	return types.Sequence{""}, nil
}

func fnStringLength(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return types.Sequence{int64(len([]rune(s)))}, nil
}

func fnNormalizeSpace(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return types.Sequence{strings.Join(strings.Fields(s), " ")}, nil
}

func fnUpperCase(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return types.Sequence{strings.ToUpper(s)}, nil
}

func fnLowerCase(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return types.Sequence{strings.ToLower(s)}, nil
}

// fnTranslate maps each character of the first argument found in the
// second to the character at the same position in the third, dropping
// characters without a replacement.
func fnTranslate(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	from, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	to, err := argString(args[2])
	if err != nil {
		return nil, err
	}

	toRunes := []rune(to)
	mapping := make(map[rune]rune, len(from))
	drop := make(map[rune]bool)
	for i, r := range []rune(from) {
		if _, seen := mapping[r]; seen || drop[r] {
			continue
		}
		if i < len(toRunes) {
			mapping[r] = toRunes[i]
		} else {
			drop[r] = true
		}
	}

	var sb strings.Builder
	for _, r := range s {
		if drop[r] {
			continue
		}
		if repl, ok := mapping[r]; ok {
			sb.WriteRune(repl)
			continue
		}
		sb.WriteRune(r)
	}
	return types.Sequence{sb.String()}, nil
}

func fnContains(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	sub, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	return types.Sequence{strings.Contains(s, sub)}, nil
}

func fnStartsWith(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	prefix, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	return types.Sequence{strings.HasPrefix(s, prefix)}, nil
}

func fnEndsWith(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	suffix, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	return types.Sequence{strings.HasSuffix(s, suffix)}, nil
}

func fnStringJoin(ctx context.Context, e *Evaluator, c *EvalContext, args []types.Sequence) (types.Sequence, error) {
	sep := ""
	if len(args) == 2 {
		var err error
		sep, err = argString(args[1])
		if err != nil {
			return nil, err
		}
	}

	parts := make([]string, len(args[0]))
	for i, item := range args[0] {
		parts[i] = types.ItemString(item)
	}
	return types.Sequence{strings.Join(parts, sep)}, nil
}

// xpathRound rounds half upwards, the way round() does.
func xpathRound(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Floor(f + 0.5)
}
