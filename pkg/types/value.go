package types

import (
	"math"
	"strconv"
	"strings"
)

// Item is a member of a Sequence: either a Node reference into the
// externally-owned document tree, or an atomic value. Atomic values are
// represented with native Go types:
//
//	bool    xs:boolean
//	string  xs:string (and untyped atomics)
//	int64   xs:integer
//	float64 xs:decimal / xs:double
type Item = any

// Sequence is the result type of every evaluation: a flat, ordered list
// of items. Sequences never nest; concatenating sequences always splices
// their items.
type Sequence []Item

// EmptySequence is the canonical empty result.
var EmptySequence = Sequence{}

// IsEmpty reports whether the sequence has no items.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Singleton returns the only item of a one-item sequence.
func (s Sequence) Singleton() (Item, bool) {
	if len(s) == 1 {
		return s[0], true
	}
	return nil, false
}

// Bool computes the effective boolean value of the sequence:
// empty is false; a sequence whose first item is a node is true; a
// singleton boolean is itself; a singleton string is true when non-empty;
// a singleton number is true when non-zero and not NaN. Anything else is
// a type error.
func (s Sequence) Bool() (bool, error) {
	if len(s) == 0 {
		return false, nil
	}
	if _, ok := s[0].(Node); ok {
		return true, nil
	}
	if len(s) > 1 {
		return false, NewError(ErrInvalidArgument, "effective boolean value of a multi-item sequence of atomic values", -1)
	}
	switch v := s[0].(type) {
	case bool:
		return v, nil
	case string:
		return v != "", nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0 && !math.IsNaN(v), nil
	default:
		return false, NewError(ErrInvalidArgument, "effective boolean value of unsupported item", -1)
	}
}

// StringValue converts the sequence to a string by concatenating the
// string values of its items.
func (s Sequence) StringValue() string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return ItemString(s[0])
	}
	var sb strings.Builder
	for _, it := range s {
		sb.WriteString(ItemString(it))
	}
	return sb.String()
}

// Number converts the sequence to a number via singleton numeric
// coercion: empty gives NaN, a singleton is atomized and parsed, more
// than one item is a type error.
func (s Sequence) Number() (float64, error) {
	if len(s) == 0 {
		return math.NaN(), nil
	}
	if len(s) > 1 {
		return math.NaN(), NewError(ErrTypeMismatch, "numeric coercion of a multi-item sequence", -1)
	}
	return ItemNumber(s[0])
}

// ItemString returns the XPath string value of a single item.
func ItemString(it Item) string {
	switch v := it.(type) {
	case nil:
		return ""
	case Node:
		return v.StringValue()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return FormatNumber(v)
	default:
		return ""
	}
}

// ItemNumber atomizes a single item to a number. Nodes and strings are
// parsed with the XPath number() rules: surrounding whitespace is
// ignored and unparseable strings give NaN, not an error.
func ItemNumber(it Item) (float64, error) {
	switch v := it.(type) {
	case Node:
		return parseNumber(v.StringValue()), nil
	case string:
		return parseNumber(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return math.NaN(), NewError(ErrTypeMismatch, "item is not atomizable to a number", -1)
	}
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// FormatNumber renders a float64 the way XPath serializes numbers:
// integral values without a decimal point, NaN and the infinities with
// their XPath spellings.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
