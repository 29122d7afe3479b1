// Package benchmark provides performance benchmarks for GoXPath.
//
// Run all benchmarks:
//
//	go test -bench=. -benchmem ./tests/benchmark/...
//
// Run specific category:
//
//	go test -bench=BenchmarkParse -benchmem ./tests/benchmark/...
//	go test -bench=BenchmarkEval -benchmem ./tests/benchmark/...
package benchmark_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
	"github.com/sandrolain/goxpath/pkg/xmltree"
)

// ---------------------------------------------------------------------------
// Test data
// ---------------------------------------------------------------------------

var (
	// smallDoc - a handful of elements
	smallDoc types.Node

	// mediumDoc - 10 employee records
	mediumDoc types.Node

	// largeDoc - 100 employee records
	largeDoc types.Node

	// xlDoc - 1000 employee records
	xlDoc types.Node
)

func init() {
	smallDoc = xmltree.MustParse(`<person><name>John Doe</name><age>30</age><active>true</active><score>95.5</score></person>`)

	departments := []string{"engineering", "sales", "marketing", "hr", "finance"}

	buildDataset := func(n int) types.Node {
		var sb strings.Builder
		sb.WriteString("<staff>")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb,
				`<employee id="e%d" dept=%q><name>User%d</name><age>%d</age><salary>%d</salary></employee>`,
				i+1, departments[i%5], i+1, 20+(i%40), 70000+(i*1000))
		}
		sb.WriteString("</staff>")
		return xmltree.MustParse(sb.String())
	}

	mediumDoc = buildDataset(10)
	largeDoc = buildDataset(100)
	xlDoc = buildDataset(1000)
}

// sharedEval is safe for concurrent use.
var sharedEval = evaluator.New()

func runEval(b *testing.B, expr *types.Expression, doc types.Node) {
	b.Helper()
	ctx := context.Background()
	_, err := sharedEval.Eval(ctx, expr, doc)
	if err != nil {
		b.Fatal(err)
	}
}

func mustParse(expr string) *types.Expression {
	e, err := parser.Parse(expr)
	if err != nil {
		panic(fmt.Sprintf("mustParse(%q): %v", expr, err))
	}
	return e
}

// ---------------------------------------------------------------------------
// Parser benchmarks
// ---------------------------------------------------------------------------

func BenchmarkParseSimplePath(b *testing.B) {
	expr := "/staff/employee/name"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseComplexPath(b *testing.B) {
	expr := `//employee[age > 30 and @dept = "engineering"]/name`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseWithFunctions(b *testing.B) {
	expr := `sum(//employee[age > 30]/salary) div count(//employee[age > 30])`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseControlFlow(b *testing.B) {
	expr := `for $e in //employee return if ($e/age > 30) then $e/name else ()`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Evaluation – simple path
// ---------------------------------------------------------------------------

func BenchmarkEvalSimplePath_Small(b *testing.B) {
	expr := mustParse("/person/name")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, smallDoc)
	}
}

func BenchmarkEvalSimplePath_Medium(b *testing.B) {
	expr := mustParse("/staff/employee[1]/name")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, mediumDoc)
	}
}

// ---------------------------------------------------------------------------
// Evaluation – predicates
// ---------------------------------------------------------------------------

func BenchmarkEvalPredicate_Medium(b *testing.B) {
	expr := mustParse("//employee[age > 30]/name")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, mediumDoc)
	}
}

func BenchmarkEvalPredicate_Large(b *testing.B) {
	expr := mustParse(`//employee[age > 30 and @dept = "engineering"]/name`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, largeDoc)
	}
}

func BenchmarkEvalPredicate_XL(b *testing.B) {
	expr := mustParse(`//employee[age > 30 and @dept = "engineering"]/name`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, xlDoc)
	}
}

// ---------------------------------------------------------------------------
// Evaluation – aggregation
// ---------------------------------------------------------------------------

func BenchmarkEvalAggregation_Medium(b *testing.B) {
	expr := mustParse("sum(//employee/salary)")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, mediumDoc)
	}
}

func BenchmarkEvalAggregation_Large(b *testing.B) {
	expr := mustParse(`sum(//employee[@dept = "engineering"]/salary)`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, largeDoc)
	}
}

func BenchmarkEvalAggregation_XL(b *testing.B) {
	expr := mustParse(`avg(//employee[@dept = "engineering"]/salary)`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, xlDoc)
	}
}

// ---------------------------------------------------------------------------
// Evaluation – axes
// ---------------------------------------------------------------------------

func BenchmarkEvalReverseAxis_Large(b *testing.B) {
	expr := mustParse("//employee[last()]/preceding-sibling::employee[1]/name")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, largeDoc)
	}
}

func BenchmarkEvalDescendants_XL(b *testing.B) {
	expr := mustParse("count(//*)")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, xlDoc)
	}
}

// ---------------------------------------------------------------------------
// Evaluation – string operations
// ---------------------------------------------------------------------------

func BenchmarkEvalStringJoin(b *testing.B) {
	expr := mustParse(`string-join(//employee/name, ", ")`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, mediumDoc)
	}
}

// ---------------------------------------------------------------------------
// Evaluation – control flow
// ---------------------------------------------------------------------------

func BenchmarkEvalFor_Medium(b *testing.B) {
	expr := mustParse("for $e in //employee return $e/salary + 1000")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, mediumDoc)
	}
}

func BenchmarkEvalQuantified_Large(b *testing.B) {
	expr := mustParse("some $e in //employee satisfies $e/salary > 150000")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, largeDoc)
	}
}

// ---------------------------------------------------------------------------
// Full pipeline (compile + eval)
// ---------------------------------------------------------------------------

func BenchmarkCompileAndEvalSimple(b *testing.B) {
	expr := "/person/name"
	ev := evaluator.New()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, err := parser.Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
		_, err = ev.Eval(ctx, p, smallDoc)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileAndEvalComplex(b *testing.B) {
	expr := `//employee[age > 30 and @dept = "engineering"]/name`
	ev := evaluator.New()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, err := parser.Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
		_, err = ev.Eval(ctx, p, largeDoc)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvalQueryCached(b *testing.B) {
	ev := evaluator.New(evaluator.WithCaching(true))
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := ev.EvalQuery(ctx, `//employee[age > 30]/name`, mediumDoc)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Document parsing
// ---------------------------------------------------------------------------

func BenchmarkParseDocument_Large(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<staff>")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, `<employee id="e%d"><name>User%d</name></employee>`, i+1, i+1)
	}
	sb.WriteString("</staff>")
	src := sb.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := xmltree.ParseString(src)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func BenchmarkEvalArithmetic(b *testing.B) {
	expr := mustParse("(1 + 2) * 3 div 4 - 5 mod 3")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		runEval(b, expr, nil)
	}
}

// ---------------------------------------------------------------------------
// Concurrent evaluation
// ---------------------------------------------------------------------------

func BenchmarkEvalConcurrent_Large(b *testing.B) {
	expr := mustParse("//employee[age > 30]/name")
	ev := evaluator.New()
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, err := ev.Eval(ctx, expr, largeDoc)
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkEvalConcurrent_XL(b *testing.B) {
	expr := mustParse(`avg(//employee[@dept = "engineering"]/salary)`)
	ev := evaluator.New()
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, err := ev.Eval(ctx, expr, xlDoc)
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}
