package evaluator

import (
	"fmt"

	"github.com/sandrolain/goxpath/pkg/types"
)

// EvalContext is the dynamic context of one evaluation focus: the
// context item, its 1-based position and the size of the focus sequence,
// plus the variable bindings in scope. Contexts form a parent chain;
// binding lookup walks outward, so an inner for-clause variable shadows
// an outer one without copying maps.
type EvalContext struct {
	// item is the context item (".")
	item types.Item

	// position and size are the 1-based focus position and the focus
	// sequence length. Both are 0 when there is no focus.
	position int
	size     int

	// parent is the enclosing context
	parent *EvalContext

	// bindings stores variable assignments, allocated lazily
	bindings map[string]types.Sequence

	// depth tracks context nesting to bound recursion
	depth int
}

// NewContext creates the outermost evaluation context. A nil item means
// no context item: "." and relative paths will fail with a dynamic
// error until a focus is established.
func NewContext(item types.Item) *EvalContext {
	c := &EvalContext{item: item}
	if item != nil {
		c.position = 1
		c.size = 1
	}
	return c
}

// WithFocus derives a child context with a new focus. Bindings remain
// visible through the parent chain.
func (c *EvalContext) WithFocus(item types.Item, position, size int) *EvalContext {
	return &EvalContext{
		item:     item,
		position: position,
		size:     size,
		parent:   c,
		depth:    c.depth + 1,
	}
}

// WithBinding derives a child context with one extra variable binding
// and the same focus.
func (c *EvalContext) WithBinding(name string, value types.Sequence) *EvalContext {
	return &EvalContext{
		item:     c.item,
		position: c.position,
		size:     c.size,
		parent:   c,
		bindings: map[string]types.Sequence{name: value},
		depth:    c.depth + 1,
	}
}

// Item returns the context item, or nil if there is no focus.
func (c *EvalContext) Item() types.Item {
	return c.item
}

// Position returns the 1-based focus position, or 0 without a focus.
func (c *EvalContext) Position() int {
	return c.position
}

// Size returns the focus sequence length, or 0 without a focus.
func (c *EvalContext) Size() int {
	return c.size
}

// Depth returns the context nesting depth.
func (c *EvalContext) Depth() int {
	return c.depth
}

// SetBinding sets a variable binding on this context.
func (c *EvalContext) SetBinding(name string, value types.Sequence) {
	if c.bindings == nil {
		c.bindings = make(map[string]types.Sequence)
	}
	c.bindings[name] = value
}

// SetBindings sets multiple variable bindings at once.
func (c *EvalContext) SetBindings(bindings map[string]types.Sequence) {
	for name, value := range bindings {
		c.SetBinding(name, value)
	}
}

// Lookup retrieves a variable binding, searching this context and its
// parents.
func (c *EvalContext) Lookup(name string) (types.Sequence, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if value, ok := ctx.bindings[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// ContextNode returns the context item as a node, or an error when the
// focus is absent or atomic. Path steps require a node focus.
func (c *EvalContext) ContextNode() (types.Node, error) {
	if c.item == nil {
		return nil, types.NewError(types.ErrContextItemAbsent, "context item is absent", -1)
	}
	node, ok := c.item.(types.Node)
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch, "context item is not a node", -1)
	}
	return node, nil
}

// String returns a short description of the context, for debug logging.
func (c *EvalContext) String() string {
	return fmt.Sprintf("Context{depth=%d, position=%d/%d}", c.depth, c.position, c.size)
}
