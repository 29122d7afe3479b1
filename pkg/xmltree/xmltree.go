// Package xmltree provides a reference implementation of the
// [types.Node] document model backed by encoding/xml.
//
// The tree is built once by Parse and is immutable afterwards, which
// makes it safe to share across concurrent evaluations. Every node
// carries its document-order ordinal, so Compare is a constant-time
// integer comparison.
//
// # Example
//
//	doc, err := xmltree.ParseString(`<root><a id="1"/><a id="2"/></root>`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := goxpath.Eval(ctx, `//a[@id="1"]`, doc)
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/sandrolain/goxpath/pkg/types"
)

// node is the concrete tree node. One struct serves every node kind;
// unused fields stay at their zero values.
type node struct {
	kind     types.NodeKind
	name     types.QName
	value    string // attribute value, text/comment/PI content
	parent   *node
	children []*node
	attrs    []*node
	ord      int // document-order ordinal within the document
	sibIndex int // index within parent.children
}

var _ types.Node = (*node)(nil)

// Kind reports the node kind.
func (n *node) Kind() types.NodeKind { return n.kind }

// Name returns the expanded name of the node.
func (n *node) Name() types.QName { return n.name }

// StringValue returns the XPath string-value of the node.
func (n *node) StringValue() string {
	switch n.kind {
	case types.KindElement, types.KindDocument:
		var sb strings.Builder
		n.appendText(&sb)
		return sb.String()
	default:
		return n.value
	}
}

func (n *node) appendText(sb *strings.Builder) {
	for _, child := range n.children {
		switch child.kind {
		case types.KindText:
			sb.WriteString(child.value)
		case types.KindElement:
			child.appendText(sb)
		}
	}
}

// Parent returns the parent node, or nil for the document node.
func (n *node) Parent() types.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Children returns the child nodes in document order.
func (n *node) Children() []types.Node {
	return wrap(n.children)
}

// Attributes returns the attribute nodes of an element.
func (n *node) Attributes() []types.Node {
	return wrap(n.attrs)
}

// FollowingSiblings returns the siblings after this node in document
// order. Attribute nodes have no siblings.
func (n *node) FollowingSiblings() []types.Node {
	if n.parent == nil || n.kind == types.KindAttribute {
		return nil
	}
	return wrap(n.parent.children[n.sibIndex+1:])
}

// PrecedingSiblings returns the siblings before this node, nearest
// first.
func (n *node) PrecedingSiblings() []types.Node {
	if n.parent == nil || n.kind == types.KindAttribute {
		return nil
	}
	before := n.parent.children[:n.sibIndex]
	out := make([]types.Node, len(before))
	for i, s := range before {
		out[len(before)-1-i] = s
	}
	return out
}

// Compare reports document order by ordinal.
func (n *node) Compare(other types.Node) int {
	o, ok := other.(*node)
	if !ok {
		return -1
	}
	switch {
	case n.ord < o.ord:
		return -1
	case n.ord > o.ord:
		return 1
	default:
		return 0
	}
}

func wrap(nodes []*node) []types.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]types.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// builder accumulates the tree during decoding.
type builder struct {
	doc     *node
	current *node
	ord     int
}

func (b *builder) newNode(kind types.NodeKind) *node {
	n := &node{kind: kind, ord: b.ord}
	b.ord++
	return n
}

func (b *builder) appendChild(n *node) {
	n.parent = b.current
	n.sibIndex = len(b.current.children)
	b.current.children = append(b.current.children, n)
}

// Parse reads an XML document and returns its document node. Namespace
// declarations are resolved by the decoder: element and attribute names
// carry the namespace URI, not the prefix.
func Parse(r io.Reader) (types.Node, error) {
	b := &builder{}
	b.doc = b.newNode(types.KindDocument)
	b.current = b.doc

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := b.newNode(types.KindElement)
			el.name = types.QName{Space: t.Name.Space, Local: t.Name.Local}
			b.appendChild(el)

			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
					continue
				}
				a := b.newNode(types.KindAttribute)
				a.name = types.QName{Space: attr.Name.Space, Local: attr.Name.Local}
				a.value = attr.Value
				a.parent = el
				el.attrs = append(el.attrs, a)
			}
			b.current = el

		case xml.EndElement:
			b.current = b.current.parent

		case xml.CharData:
			// Coalesce adjacent character data into one text node.
			if n := len(b.current.children); n > 0 && b.current.children[n-1].kind == types.KindText {
				b.current.children[n-1].value += string(t)
				continue
			}
			text := b.newNode(types.KindText)
			text.value = string(t)
			b.appendChild(text)

		case xml.Comment:
			comment := b.newNode(types.KindComment)
			comment.value = string(t)
			b.appendChild(comment)

		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			pi := b.newNode(types.KindProcessingInstruction)
			pi.name = types.QName{Local: t.Target}
			pi.value = strings.TrimSpace(string(t.Inst))
			b.appendChild(pi)
		}
	}

	if b.current != b.doc {
		return nil, fmt.Errorf("parse xml: unclosed element")
	}
	return b.doc, nil
}

// ParseString parses an XML document from a string.
func ParseString(s string) (types.Node, error) {
	return Parse(strings.NewReader(s))
}

// MustParse is like ParseString but panics on malformed input. It
// simplifies fixture construction in tests and examples.
func MustParse(s string) types.Node {
	doc, err := ParseString(s)
	if err != nil {
		panic(fmt.Sprintf("xmltree: %v", err))
	}
	return doc
}
