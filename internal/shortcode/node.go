package shortcode

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind discriminates the variants of a Node.
type Kind uint8

const (
	KindElement Kind = iota + 1
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Key string
	Val string
}

// Node is a structural node of a shortcode body. Nodes are built once by
// ParseHTML and never modified afterwards.
type Node struct {
	Kind     Kind
	Tag      string // element name, KindElement only
	Attrs    []Attr // KindElement only
	Text     string // KindText only
	Children []*Node
}

// Element builds an element node. It is mostly useful in tests.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates the text of n and all of its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(c *Node) {
		if c.Kind == KindText {
			b.WriteString(c.Text)
			return
		}
		for _, cc := range c.Children {
			walk(cc)
		}
	}
	walk(n)
	return b.String()
}

// Describe returns a short human readable description of the node, used in
// validation messages.
func (n *Node) Describe() string {
	if n == nil {
		return "nothing"
	}
	if n.Kind == KindText {
		t := strings.TrimSpace(n.Text)
		if len(t) > 24 {
			t = t[:24] + "..."
		}
		return fmt.Sprintf("text %q", t)
	}
	if class, ok := n.Attr("class"); ok {
		return fmt.Sprintf("<%s class=%q>", n.Tag, class)
	}
	return "<" + n.Tag + ">"
}

// ParseHTML parses an HTML fragment into a flat sequence of top-level nodes.
// Comments are discarded and whitespace-only text between elements is
// dropped, so callers can index children by position.
func ParseHTML(fragment string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	nodes := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if n := convert(p, false); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// convert maps an html.Node onto a Node. Inside <pre> whitespace is
// significant and kept verbatim.
func convert(h *html.Node, preformatted bool) *Node {
	switch h.Type {
	case html.TextNode:
		if !preformatted && strings.TrimSpace(h.Data) == "" {
			return nil
		}
		return Text(h.Data)
	case html.ElementNode:
		n := &Node{Kind: KindElement, Tag: h.Data}
		for _, a := range h.Attr {
			n.Attrs = append(n.Attrs, Attr{Key: a.Key, Val: a.Val})
		}
		pre := preformatted || h.DataAtom == atom.Pre
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if cn := convert(c, pre); cn != nil {
				n.Children = append(n.Children, cn)
			}
		}
		return n
	default:
		return nil
	}
}
