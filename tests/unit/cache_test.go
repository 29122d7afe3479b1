package unit_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandrolain/goxpath/pkg/cache"
	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
)

func compileQuery(t *testing.T, query string) *types.Expression {
	t.Helper()
	expr, err := parser.Compile(query)
	if err != nil {
		t.Fatalf("compile %q: %v", query, err)
	}
	return expr
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	expr := compileQuery(t, "//a")

	if _, ok := c.Get("//a"); ok {
		t.Error("empty cache should miss")
	}

	c.Set("//a", expr)
	got, ok := c.Get("//a")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if got != expr {
		t.Error("Get returned a different expression")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	if got := cache.New(0).Capacity(); got != 256 {
		t.Errorf("Capacity() = %d, want 256", got)
	}
	if got := cache.New(-5).Capacity(); got != 256 {
		t.Errorf("Capacity() = %d, want 256", got)
	}
	if got := cache.New(8).Capacity(); got != 8 {
		t.Errorf("Capacity() = %d, want 8", got)
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(2)
	c.Set("a", compileQuery(t, "1"))
	c.Set("b", compileQuery(t, "2"))

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	c.Set("c", compileQuery(t, "3"))

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheSetReplaces(t *testing.T) {
	c := cache.New(2)
	first := compileQuery(t, "1")
	second := compileQuery(t, "2")

	c.Set("k", first)
	c.Set("k", second)

	got, ok := c.Get("k")
	if !ok || got != second {
		t.Error("Set with an existing key should replace the entry")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)
	calls := 0
	compile := func() (*types.Expression, error) {
		calls++
		return compileQuery(t, "//a"), nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrCompile("//a", compile); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("compile ran %d times, want 1", calls)
	}
}

func TestCacheGetOrCompileDoesNotCacheErrors(t *testing.T) {
	c := cache.New(4)
	calls := 0
	fail := func() (*types.Expression, error) {
		calls++
		return nil, errors.New("boom")
	}

	for i := 0; i < 2; i++ {
		if _, err := c.GetOrCompile("bad", fail); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 2 {
		t.Errorf("failing compile ran %d times, want 2 (errors must not be cached)", calls)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := cache.New(4)
	c.Set("a", compileQuery(t, "1"))
	c.Set("b", compileQuery(t, "2"))

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone after Invalidate")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should survive Invalidate of a")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should be gone after Clear")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := cache.New(16)
	expr := compileQuery(t, "//a")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("q%d", (n+j)%32)
				c.Set(key, expr)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Errorf("Len() = %d exceeds capacity %d", c.Len(), c.Capacity())
	}
}
