// Package dom defines the rendered-tree contract consumed by the
// reconciler and ships an in-memory implementation with browser DOM
// semantics.
//
// # Contract
//
// Node gives read access to a rendered node (its name, parent, previous
// sibling and ordered children). Tree performs the primitive mutations:
// node creation, attributes, style properties, text and markup content, and
// the structural insert/append/replace/remove calls. All calls are
// synchronous and complete on return. Inserting a node that already has a
// parent moves it, exactly like the browser DOM. Inserting a node into its
// own subtree is a hierarchy error; Document panics on it.
//
// # In-memory document
//
// Document is a Tree over *HTMLNode values. Markup is parsed with
// golang.org/x/net/html using innerHTML fragment rules, and any subtree can
// be serialized back with OuterHTML or InnerHTML.
//
//	doc := dom.NewDocument()
//	body := doc.CreateNode("body")
//	p := doc.CreateNode("p")
//	doc.SetText(p, "hello")
//	doc.AppendChild(body, p)
//	fmt.Println(dom.OuterHTML(body)) // <body><p>hello</p></body>
//
// Recorder wraps any Tree and logs every mutation, which is how tests and
// diagnostics observe what a flush actually did.
package dom
