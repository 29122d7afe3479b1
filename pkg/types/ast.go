package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types. The set is closed: the evaluator dispatches
// exhaustively over these values.
const (
	// Literals
	NodeString  NodeType = "string"
	NodeInteger NodeType = "integer"
	NodeNumber  NodeType = "number" // decimal and double literals

	// Primaries
	NodeVariable    NodeType = "variable"     // $name
	NodeContextItem NodeType = "context-item" // .
	NodeSequence    NodeType = "sequence"     // comma constructor, ()

	// Paths
	NodeRoot NodeType = "root" // leading / of an absolute path
	NodePath NodeType = "path" // step chain joined by / and //
	NodeStep NodeType = "step" // axis :: node test [predicates]

	// Node tests (only ever children of a step)
	NodeNameTest NodeType = "name-test" // QName or wildcard forms
	NodeKindTest NodeType = "kind-test" // node(), text(), comment(), ...

	// Operators
	NodeBinary NodeType = "binary"
	NodeUnary  NodeType = "unary"
	NodeFilter NodeType = "filter" // postfix predicate on a non-step expression

	// Functions
	NodeFunction NodeType = "function"

	// Control flow (version-gated by the static context)
	NodeFor        NodeType = "for"
	NodeLet        NodeType = "let"
	NodeQuantified NodeType = "quantified" // some / every
	NodeIf         NodeType = "if"
	NodeBinding    NodeType = "binding" // $var in expr / $var := expr clause
)

// Axis is a step direction relative to the context node.
type Axis uint8

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisDescendantOrSelf
	AxisSelf
	AxisAttribute
	AxisParent
	AxisAncestor
	AxisAncestorOrSelf
	AxisFollowingSibling
	AxisFollowing
	AxisPrecedingSibling
	AxisPreceding
)

var axisNames = [...]string{
	AxisChild:            "child",
	AxisDescendant:       "descendant",
	AxisDescendantOrSelf: "descendant-or-self",
	AxisSelf:             "self",
	AxisAttribute:        "attribute",
	AxisParent:           "parent",
	AxisAncestor:         "ancestor",
	AxisAncestorOrSelf:   "ancestor-or-self",
	AxisFollowingSibling: "following-sibling",
	AxisFollowing:        "following",
	AxisPrecedingSibling: "preceding-sibling",
	AxisPreceding:        "preceding",
}

// String returns the axis name as written in query text.
func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "(unknown)"
}

// Reverse reports whether the axis walks against document order
// (positions inside predicates count backwards from the context node).
func (a Axis) Reverse() bool {
	switch a {
	case AxisParent, AxisAncestor, AxisAncestorOrSelf, AxisPrecedingSibling, AxisPreceding:
		return true
	default:
		return false
	}
}

// AxisByName resolves an axis name to its Axis value.
func AxisByName(name string) (Axis, bool) {
	for a, n := range axisNames {
		if n == name {
			return Axis(a), true
		}
	}
	return 0, false
}

// ASTNode represents a node in the abstract syntax tree. Nodes are
// constructed only by the parser and are immutable afterwards; every node
// owns its children exclusively (a tree, no sharing).
type ASTNode struct {
	Type     NodeType
	StrValue string  // literal text, operator symbol, function or variable name, name-test local part
	NumValue float64 // NodeNumber value
	IntValue int64   // NodeInteger value
	Position int

	// Relations
	LHS         *ASTNode   // left operand, filter base, if-condition
	RHS         *ASTNode   // right operand, loop/quantifier body, if-then
	Steps       []*ASTNode // path steps (NodePath)
	Arguments   []*ASTNode // function arguments
	Expressions []*ASTNode // sequence items, if-else branch
	Predicates  []*ASTNode // step and filter predicates
	Bindings    []*ASTNode // for/let/quantified clauses (NodeBinding)

	// Step attributes
	Axis    Axis
	Prefix  string   // name-test prefix ("*" for *:local, "" for unprefixed)
	Kind    NodeKind // kind-test target kind
	AnyKind bool     // kind test node()
}

// NewASTNode creates a new AST node of the specified type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena
// chunk. Most queries fit in a single chunk.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// Instead of allocating each node individually on the heap, the arena
// pre-allocates fixed-size chunks of ASTNode structs and returns pointers
// into them. The arena must stay alive as long as any pointer returned by
// Alloc is reachable; attaching it to the [Expression] achieves this.
//
// NodeArena is not thread-safe. Each parser owns its own arena and the
// arena is never shared across goroutines.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena, with
// Type and Position set. All other fields remain at their zero values and
// must be filled by the caller.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
