package unit_test

import (
	"math"
	"testing"

	"github.com/sandrolain/goxpath/pkg/types"
	"github.com/sandrolain/goxpath/pkg/xmltree"
)

func TestStringFunctions(t *testing.T) {
	doc := fixtureDoc(t)

	wantSingle(t, `string(123)`, nil, "123")
	wantSingle(t, `string(1.5)`, nil, "1.5")
	wantSingle(t, `string(true())`, nil, "true")
	wantSingle(t, `string(())`, nil, "")
	wantSingle(t, `string()`, int64(5), "5")
	wantSingle(t, `string(/root)`, doc, "xyz")

	wantSingle(t, `concat("a", "b", "c")`, nil, "abc")
	wantSingle(t, `concat("n=", 1)`, nil, "n=1")

	wantSingle(t, `substring("hello", 2)`, nil, "ello")
	wantSingle(t, `substring("hello", 2, 3)`, nil, "ell")
	wantSingle(t, `substring("hello", 1.5, 2.6)`, nil, "ell")
	wantSingle(t, `substring("hello", 0)`, nil, "hello")
	wantSingle(t, `substring("hello", 0 div 0.0)`, nil, "")

	wantSingle(t, `substring-before("a=b", "=")`, nil, "a")
	wantSingle(t, `substring-after("a=b", "=")`, nil, "b")
	wantSingle(t, `substring-before("ab", "x")`, nil, "")
	wantSingle(t, `substring-after("ab", "x")`, nil, "")

	wantSingle(t, `string-length("hello")`, nil, int64(5))
	wantSingle(t, `string-length("")`, nil, int64(0))
	wantSingle(t, `string-length()`, "abc", int64(3))

	wantSingle(t, `normalize-space("  a   b  ")`, nil, "a b")
	wantSingle(t, `upper-case("abc")`, nil, "ABC")
	wantSingle(t, `lower-case("ABC")`, nil, "abc")

	wantSingle(t, `translate("bar", "abc", "ABC")`, nil, "BAr")
	wantSingle(t, `translate("--aaa--", "abc-", "ABC")`, nil, "AAA")

	wantSingle(t, `contains("hello", "ell")`, nil, true)
	wantSingle(t, `contains("hello", "")`, nil, true)
	wantSingle(t, `starts-with("hello", "he")`, nil, true)
	wantSingle(t, `ends-with("hello", "lo")`, nil, true)
	wantSingle(t, `starts-with("hello", "lo")`, nil, false)

	wantSingle(t, `string-join(("a", "b", "c"), "-")`, nil, "a-b-c")
	wantSingle(t, `string-join((1, 2), "")`, nil, "12")
	wantSingle(t, `string-join((), "-")`, nil, "")
	wantSingle(t, `string-join(//a, "+")`, doc, "x+y")
}

func TestNumericFunctions(t *testing.T) {
	wantSingle(t, `number("3.5")`, nil, 3.5)
	wantSingle(t, `number(true())`, nil, 1.0)
	wantSingle(t, `number()`, "4", 4.0)

	result := eval(t, `number("nope")`, nil)
	if got, _ := result.Singleton(); !math.IsNaN(got.(float64)) {
		t.Errorf("number(\"nope\") = %v, want NaN", got)
	}
	wantSingle(t, `string(number("nope"))`, nil, "NaN")
	wantSingle(t, `string(1 div 0.0)`, nil, "Infinity")
	wantSingle(t, `string(-1 div 0.0)`, nil, "-Infinity")

	wantSingle(t, `round(2.5)`, nil, 3.0)
	wantSingle(t, `round(-2.5)`, nil, -2.0)
	wantSingle(t, `round(7)`, nil, int64(7))
	wantSingle(t, `floor(2.7)`, nil, 2.0)
	wantSingle(t, `ceiling(2.1)`, nil, 3.0)
	wantSingle(t, `abs(-4)`, nil, int64(4))
	wantSingle(t, `abs(-4.5)`, nil, 4.5)

	if result := eval(t, `round(())`, nil); !result.IsEmpty() {
		t.Errorf("round(()) = %v, want empty", result)
	}

	wantSingle(t, `sum((1, 2, 3))`, nil, int64(6))
	wantSingle(t, `sum((1, 2.5))`, nil, 3.5)
	wantSingle(t, `sum(())`, nil, int64(0))
	wantSingle(t, `avg((1, 2, 3))`, nil, 2.0)
	if result := eval(t, `avg(())`, nil); !result.IsEmpty() {
		t.Errorf("avg(()) = %v, want empty", result)
	}
	wantSingle(t, `min((3, 1, 2))`, nil, int64(1))
	wantSingle(t, `max((3, 1, 2))`, nil, int64(3))
	wantSingle(t, `min(("b", "a"))`, nil, "a")
	wantSingle(t, `max((1, 2.5))`, nil, 2.5)
}

func TestSequenceFunctions(t *testing.T) {
	doc := fixtureDoc(t)

	wantSingle(t, `count(())`, nil, int64(0))
	wantSingle(t, `count((1, 2, 3))`, nil, int64(3))
	wantSingle(t, `empty(())`, nil, true)
	wantSingle(t, `empty((1))`, nil, false)
	wantSingle(t, `exists(//a)`, doc, true)
	wantSingle(t, `exists(//missing)`, doc, false)

	wantStrings(t, `reverse((1, 2, 3))`, nil, []string{"3", "2", "1"})
	wantStrings(t, `subsequence((1, 2, 3, 4), 2)`, nil, []string{"2", "3", "4"})
	wantStrings(t, `subsequence((1, 2, 3, 4), 2, 2)`, nil, []string{"2", "3"})
	wantStrings(t, `distinct-values((1, 2, 1, "a", "a"))`, nil, []string{"1", "2", "a"})
	wantStrings(t, `distinct-values((1, 1.0))`, nil, []string{"1"})
	wantStrings(t, `id("2")`, doc, []string{"y"})
	wantStrings(t, `id("1 2")`, doc, []string{"x", "y"})
	wantStrings(t, `id("9")`, doc, []string{})
}

func TestBooleanFunctions(t *testing.T) {
	doc := fixtureDoc(t)

	wantSingle(t, `true()`, nil, true)
	wantSingle(t, `false()`, nil, false)
	wantSingle(t, `not(())`, nil, true)
	wantSingle(t, `not(1)`, nil, false)

	// Effective boolean value rules.
	wantSingle(t, `boolean(())`, nil, false)
	wantSingle(t, `boolean(//a)`, doc, true)
	wantSingle(t, `boolean("")`, nil, false)
	wantSingle(t, `boolean("false")`, nil, true)
	wantSingle(t, `boolean(0)`, nil, false)
	wantSingle(t, `boolean(0.0)`, nil, false)
	wantSingle(t, `boolean(number("NaN"))`, nil, false)
	wantSingle(t, `boolean(-1)`, nil, true)

	if code := evalErrCode(t, `boolean((1, 2))`, nil); code != types.ErrInvalidArgument {
		t.Errorf("EBV of atomic pair: code = %s, want %s", code, types.ErrInvalidArgument)
	}
}

func TestNodeFunctions(t *testing.T) {
	doc := fixtureDoc(t)

	wantSingle(t, `name((//a)[1])`, doc, "a")
	wantSingle(t, `local-name((//a)[1])`, doc, "a")
	wantSingle(t, `name(//a[1]/@id)`, doc, "id")
	wantSingle(t, `name(())`, nil, "")
	wantSingle(t, `string(root((//a)[1]))`, doc, "xyz")

	nsDoc, err := xmltree.ParseString(`<r xmlns:p="urn:x"><p:c>in</p:c></r>`)
	if err != nil {
		t.Fatal(err)
	}
	wantSingle(t, `namespace-uri((//*:c)[1])`, nsDoc, "urn:x")
	wantSingle(t, `local-name((//*:c)[1])`, nsDoc, "c")
}

func TestFunctionArityErrors(t *testing.T) {
	if code := evalErrCode(t, `concat("a")`, nil); code != types.ErrUnknownFunction {
		t.Errorf("too few args: code = %s, want %s", code, types.ErrUnknownFunction)
	}
	if code := evalErrCode(t, `count(1, 2)`, nil); code != types.ErrUnknownFunction {
		t.Errorf("too many args: code = %s, want %s", code, types.ErrUnknownFunction)
	}
	if code := evalErrCode(t, `position()`, nil); code != types.ErrContextItemAbsent {
		t.Errorf("position without focus: code = %s, want %s", code, types.ErrContextItemAbsent)
	}
	if code := evalErrCode(t, `name()`, nil); code != types.ErrContextItemAbsent {
		t.Errorf("name without focus: code = %s, want %s", code, types.ErrContextItemAbsent)
	}
}
