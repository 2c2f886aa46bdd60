// Package xml parses rendered markup back into a queryable tree so its
// structure can be checked against the document it came from.
//
// Rendered HTML is produced by golang.org/x/net/html, which closes void
// elements, so it is well-formed XML and xmlquery can read it.
package xml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document is parsed markup.
type Document struct {
	root *xmlquery.Node
}

// Node is an element, text or other node of a Document.
type Node struct {
	node *xmlquery.Node
}

// Parse parses a single well-formed document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment parses a sequence of sibling elements, such as a snippet
// file, by wrapping it in a synthetic root element.
func ParseFragment(data []byte) (*Document, error) {
	var buf bytes.Buffer
	buf.Grow(len(data) + 16)
	buf.WriteString("<fragment>")
	buf.Write(data)
	buf.WriteString("</fragment>")
	return Parse(buf.Bytes())
}

// Compile checks an XPath expression.
func Compile(expr string) (*xpath.Expr, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	return e, nil
}

// XPath returns every node matching expr.
func (d *Document) XPath(expr string) ([]*Node, error) {
	e, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return d.Select(e), nil
}

// Select returns every node matching a compiled expression.
func (d *Document) Select(e *xpath.Expr) []*Node {
	return wrap(xmlquery.QuerySelectorAll(d.root, e))
}

// XPathFirst returns the first node matching expr, or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	e, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	n := xmlquery.QuerySelector(d.root, e)
	if n == nil {
		return nil, nil
	}
	return &Node{node: n}, nil
}

// Name returns the element name.
func (n *Node) Name() string {
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	return n.node.InnerText()
}

// Attr returns the named attribute, or "".
func (n *Node) Attr(name string) string {
	for _, a := range n.node.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// HasClass reports whether the class attribute lists class.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Children returns the child elements, skipping text and comments.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, &Node{node: c})
		}
	}
	return out
}

// Select returns the nodes matching e evaluated relative to n.
func (n *Node) Select(e *xpath.Expr) []*Node {
	return wrap(xmlquery.QuerySelectorAll(n.node, e))
}

func wrap(nodes []*xmlquery.Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, x := range nodes {
		out[i] = &Node{node: x}
	}
	return out
}
