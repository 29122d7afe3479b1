package fuzz

import (
	"testing"

	"github.com/sandrolain/goxpath/pkg/parser"
)

func FuzzParser(f *testing.F) {
	seeds := []string{
		`//a`,
		`//a[@id="1"]`,
		`/root/b/preceding-sibling::a[1]`,
		`count(//a) + 1`,
		`some $x in (1, 2, 3) satisfies $x > 2`,
		`if (//a) then "yes" else "no"`,
		`1 + 2 * 3`,
		``,
		`(`,
		`child::`,
		`$`,
		`"unterminated`,
		`(: unterminated comment`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		_, _ = parser.Compile(input)
	})
}
