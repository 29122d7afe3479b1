package types

// NodeKind identifies the kind of a document node.
type NodeKind uint8

const (
	KindDocument NodeKind = iota
	KindElement
	KindAttribute
	KindText
	KindComment
	KindProcessingInstruction
)

// String returns the node kind name as used by kind tests.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document-node"
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindProcessingInstruction:
		return "processing-instruction"
	default:
		return "(unknown)"
	}
}

// QName is an expanded qualified name: a namespace URI plus a local part.
// The prefix is retained for diagnostics only and never participates in
// name comparison.
type QName struct {
	Space  string // namespace URI, empty when the name is in no namespace
	Prefix string
	Local  string
}

// String returns the lexical form of the name (prefix:local or local).
func (q QName) String() string {
	if q.Prefix != "" {
		return q.Prefix + ":" + q.Local
	}
	return q.Local
}

// Node is the capability set the evaluator requires from a host document
// tree. The engine never owns document nodes: every Node handed to the
// evaluator remains owned by the host and is treated as read-only for the
// duration of an evaluation call.
//
// Implementations must guarantee a stable total document order, exposed
// through Compare. Without stable node identity and order, path semantics
// (de-duplication, document-order sorting) cannot be implemented.
//
// The package goxpath/pkg/xmltree provides a reference implementation
// backed by encoding/xml.
type Node interface {
	// Kind reports the node kind.
	Kind() NodeKind

	// Name returns the expanded name of the node. Text, comment and
	// document nodes return the zero QName.
	Name() QName

	// StringValue returns the XPath string-value of the node
	// (concatenated descendant text for elements and documents, the
	// attribute value for attributes, the content for text/comment/PI).
	StringValue() string

	// Parent returns the parent node, or nil for the document root.
	// The parent of an attribute node is its owning element.
	Parent() Node

	// Children returns the child nodes in document order.
	// Attribute nodes are not children.
	Children() []Node

	// Attributes returns the attribute nodes of an element, in the
	// adapter's stable order. Non-elements return nil.
	Attributes() []Node

	// FollowingSiblings returns the siblings after this node in
	// document order.
	FollowingSiblings() []Node

	// PrecedingSiblings returns the siblings before this node in
	// reverse document order (nearest sibling first).
	PrecedingSiblings() []Node

	// Compare reports the document order of the receiver relative to
	// other: -1 when the receiver comes first, +1 when other comes
	// first, 0 when both are the same node. Both nodes must belong to
	// the same document.
	Compare(other Node) int
}

// RootOf walks the parent chain up to the topmost node.
func RootOf(n Node) Node {
	for {
		p := n.Parent()
		if p == nil {
			return n
		}
		n = p
	}
}
