package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/sandrolain/goxpath"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/types"
	"github.com/sandrolain/goxpath/pkg/xmltree"
)

func TestFacadeEval(t *testing.T) {
	doc := fixtureDoc(t)

	result, err := goxpath.Eval(context.Background(), `count(//a)`, doc)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := result.Singleton(); got != int64(2) {
		t.Errorf("count(//a) = %v, want 2", got)
	}
}

func TestFacadeCompileReuse(t *testing.T) {
	expr, err := goxpath.Compile(`string(/r)`)
	if err != nil {
		t.Fatal(err)
	}

	doc1 := xmltree.MustParse(`<r>one</r>`)
	doc2 := xmltree.MustParse(`<r>two</r>`)

	r1, err := goxpath.EvalExpr(context.Background(), expr, doc1)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := goxpath.EvalExpr(context.Background(), expr, doc2)
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := r1.Singleton(); got != "one" {
		t.Errorf("doc1 = %v, want %q", got, "one")
	}
	if got, _ := r2.Singleton(); got != "two" {
		t.Errorf("doc2 = %v, want %q", got, "two")
	}
}

func TestFacadeMustCompile(t *testing.T) {
	expr := goxpath.MustCompile(`//a`)
	if expr == nil {
		t.Fatal("MustCompile returned nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on a syntax error")
		}
	}()
	goxpath.MustCompile(`1 +`)
}

func TestFacadeOptions(t *testing.T) {
	doc := fixtureDoc(t)

	result, err := goxpath.Eval(context.Background(), `$limit + count(//a)`, doc,
		goxpath.WithVariable("limit", types.Sequence{int64(10)}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := result.Singleton(); got != int64(12) {
		t.Errorf("result = %v, want 12", got)
	}
}

func TestEvaluatorCaching(t *testing.T) {
	doc := fixtureDoc(t)
	ev := evaluator.New(evaluator.WithCaching(true), evaluator.WithCacheSize(8))

	for i := 0; i < 3; i++ {
		if _, err := ev.EvalQuery(context.Background(), `count(//a)`, doc); err != nil {
			t.Fatal(err)
		}
	}
	if got := ev.Cache().Len(); got != 1 {
		t.Errorf("cache holds %d entries, want 1", got)
	}

	if _, err := ev.EvalQuery(context.Background(), `count(//b)`, doc); err != nil {
		t.Fatal(err)
	}
	if got := ev.Cache().Len(); got != 2 {
		t.Errorf("cache holds %d entries, want 2", got)
	}
}

func TestEvaluatorTimeout(t *testing.T) {
	doc := fixtureDoc(t)
	ev := evaluator.New(evaluator.WithTimeout(time.Nanosecond))

	if _, err := ev.EvalQuery(context.Background(), `sum(1 to 1000000)`, doc); err == nil {
		t.Error("expected a timeout error")
	}
}

func TestVersionString(t *testing.T) {
	if goxpath.Version() == "" {
		t.Error("Version() should not be empty")
	}
}
