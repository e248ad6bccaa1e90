package dom

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses markup in the context of parent, the way a browser
// does for innerHTML.
func parseFragment(parent *HTMLNode, markup string) ([]*HTMLNode, error) {
	name := parent.Name
	if parent.Type != ElementNode || name == "" {
		name = "div"
	}
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}

	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}

	out := make([]*HTMLNode, 0, len(parsed))
	for _, p := range parsed {
		if n := fromHTML(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// fromHTML converts a parsed x/net/html node (and its subtree).
func fromHTML(p *html.Node) *HTMLNode {
	var n *HTMLNode
	switch p.Type {
	case html.TextNode:
		return &HTMLNode{Type: TextNode, Data: p.Data}
	case html.CommentNode:
		return &HTMLNode{Type: CommentNode, Data: p.Data}
	case html.ElementNode:
		n = &HTMLNode{Type: ElementNode, Name: p.Data}
	default:
		return nil
	}

	for _, a := range p.Attr {
		if a.Key == "style" {
			n.style = parseStyle(a.Val)
			continue
		}
		if n.attrs == nil {
			n.attrs = make(map[string]string)
		}
		n.attrs[a.Key] = a.Val
	}
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.insertAt(len(n.children), child)
		}
	}
	return n
}

// parseStyle splits an inline style declaration list.
func parseStyle(s string) map[string]string {
	style := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key != "" && value != "" {
			style[key] = value
		}
	}
	return style
}

// formatStyle serializes style properties in key order.
func formatStyle(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+style[k])
	}
	return strings.Join(parts, "; ")
}

// toHTML converts n and its subtree into x/net/html nodes.
func toHTML(n *HTMLNode) *html.Node {
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	}

	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Name,
		DataAtom: atom.Lookup([]byte(n.Name)),
	}

	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		if k == "style" && len(n.style) > 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Attr = append(out.Attr, html.Attribute{Key: k, Val: n.attrs[k]})
	}
	if len(n.style) > 0 {
		out.Attr = append(out.Attr, html.Attribute{Key: "style", Val: formatStyle(n.style)})
	}

	for _, c := range n.children {
		out.AppendChild(toHTML(c))
	}
	return out
}

// Render writes the HTML serialization of n, including n itself.
func Render(w io.Writer, n *HTMLNode) error {
	return html.Render(w, toHTML(n))
}

// OuterHTML returns the serialization of n including its own tag.
// Serialization errors are reported inline.
func OuterHTML(n *HTMLNode) string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return buf.String()
}

// InnerHTML returns the serialization of the children of n.
func InnerHTML(n *HTMLNode) string {
	var buf bytes.Buffer
	for _, c := range n.children {
		if err := Render(&buf, c); err != nil {
			buf.WriteString("<!-- " + err.Error() + " -->")
		}
	}
	return buf.String()
}
