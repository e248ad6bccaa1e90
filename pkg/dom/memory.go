package dom

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// NodeType discriminates in-memory nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// HTMLNode is an in-memory rendered node.
type HTMLNode struct {
	Type NodeType
	Name string // tag name for ElementNode
	Data string // TextNode and CommentNode content

	attrs    map[string]string
	style    map[string]string
	parent   *HTMLNode
	children []*HTMLNode
}

// NodeName implements Node.
func (n *HTMLNode) NodeName() string {
	switch n.Type {
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	default:
		return n.Name
	}
}

// ParentNode implements Node.
func (n *HTMLNode) ParentNode() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// PreviousSibling implements Node.
func (n *HTMLNode) PreviousSibling() Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// ChildNodes implements Node.
func (n *HTMLNode) ChildNodes() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// ChildAt implements Node.
func (n *HTMLNode) ChildAt(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the typed children. The slice must not be modified.
func (n *HTMLNode) Children() []*HTMLNode {
	return n.children
}

// Parent returns the typed parent.
func (n *HTMLNode) Parent() *HTMLNode {
	return n.parent
}

// Attribute returns the value of an attribute.
func (n *HTMLNode) Attribute(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Style returns the value of a style property.
func (n *HTMLNode) Style(key string) (string, bool) {
	v, ok := n.style[key]
	return v, ok
}

// TextContent concatenates the text of every descendant text node.
func (n *HTMLNode) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *HTMLNode) writeText(b *strings.Builder) {
	for _, c := range n.children {
		switch c.Type {
		case TextNode:
			b.WriteString(c.Data)
		case ElementNode:
			c.writeText(b)
		}
	}
}

// String renders the node for logs and test failures.
func (n *HTMLNode) String() string {
	switch n.Type {
	case TextNode:
		return fmt.Sprintf("#text(%q)", n.Data)
	case CommentNode:
		return "#comment"
	}
	if id, ok := n.attrs["id"]; ok {
		return n.Name + "#" + id
	}
	return n.Name
}

func (n *HTMLNode) indexOf(c *HTMLNode) int {
	return slices.Index(n.children, c)
}

func (n *HTMLNode) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

func (n *HTMLNode) insertAt(i int, c *HTMLNode) {
	c.parent = n
	n.children = slices.Insert(n.children, i, c)
}

func (n *HTMLNode) clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Document is an in-memory Tree with browser DOM semantics.
type Document struct {
	logger *slog.Logger
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{logger: slog.Default().With("component", "dom")}
}

// SetLogger sets the document logger.
func (d *Document) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// node converts a handle to the in-memory type. Handles from another Tree
// implementation are a programming error.
func (d *Document) node(n Node) *HTMLNode {
	h, ok := n.(*HTMLNode)
	if !ok {
		panic(fmt.Sprintf("dom: foreign node %T", n))
	}
	return h
}

// CreateNode implements Tree.
func (d *Document) CreateNode(kind string) Node {
	return &HTMLNode{Type: ElementNode, Name: strings.ToLower(kind)}
}

// CreateTextNode allocates a detached text node.
func (d *Document) CreateTextNode(text string) *HTMLNode {
	return &HTMLNode{Type: TextNode, Data: text}
}

// SetAttribute implements Tree.
func (d *Document) SetAttribute(n Node, key, value string) {
	h := d.node(n)
	if h.attrs == nil {
		h.attrs = make(map[string]string)
	}
	h.attrs[key] = value
}

// SetStyle implements Tree.
func (d *Document) SetStyle(n Node, key, value string) {
	h := d.node(n)
	if h.style == nil {
		h.style = make(map[string]string)
	}
	if value == "" {
		delete(h.style, key)
		return
	}
	h.style[key] = value
}

// SetText implements Tree with textContent semantics: an empty string
// leaves the node without children.
func (d *Document) SetText(n Node, text string) {
	h := d.node(n)
	h.clear()
	if text != "" {
		h.insertAt(0, d.CreateTextNode(text))
	}
}

// SetMarkup implements Tree with innerHTML semantics.
func (d *Document) SetMarkup(n Node, markup string) {
	h := d.node(n)
	nodes, err := parseFragment(h, markup)
	if err != nil {
		d.logger.Warn("markup parse failed, falling back to text", "node", h.String(), "error", err)
		d.SetText(h, markup)
		return
	}
	h.clear()
	for i, c := range nodes {
		h.insertAt(i, c)
	}
}

// adopt checks that c may become a child of p. Like a browser raising
// HierarchyRequestError, it panics when c is p or one of p's ancestors.
func adopt(p, c *HTMLNode) {
	for a := p; a != nil; a = a.parent {
		if a == c {
			panic(fmt.Sprintf("dom: %s cannot be inserted into its own subtree %s", c, p))
		}
	}
}

// InsertBefore implements Tree.
func (d *Document) InsertBefore(parent, node, before Node) {
	p, c := d.node(parent), d.node(node)
	adopt(p, c)
	if before == nil {
		d.AppendChild(p, c)
		return
	}
	ref := d.node(before)
	if ref == c {
		// Inserting a node before itself keeps its place.
		return
	}
	if ref.parent != p {
		panic(fmt.Sprintf("dom: %s is not a child of %s", ref, p))
	}
	c.detach()
	p.insertAt(p.indexOf(ref), c)
}

// AppendChild implements Tree.
func (d *Document) AppendChild(parent, node Node) {
	p, c := d.node(parent), d.node(node)
	adopt(p, c)
	c.detach()
	p.insertAt(len(p.children), c)
}

// ReplaceChild implements Tree.
func (d *Document) ReplaceChild(parent, newNode, oldNode Node) {
	p, nn, old := d.node(parent), d.node(newNode), d.node(oldNode)
	if old.parent != p {
		panic(fmt.Sprintf("dom: %s is not a child of %s", old, p))
	}
	if nn == old {
		return
	}
	adopt(p, nn)
	nn.detach()
	i := p.indexOf(old)
	p.children[i] = nn
	nn.parent = p
	old.parent = nil
}

// RemoveChild implements Tree.
func (d *Document) RemoveChild(parent, node Node) {
	p, c := d.node(parent), d.node(node)
	if c.parent != p {
		panic(fmt.Sprintf("dom: %s is not a child of %s", c, p))
	}
	c.detach()
}
