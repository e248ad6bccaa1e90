package vdom

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/lazydom/pkg/dom"
)

type fixture struct {
	doc  *dom.Document
	rec  *dom.Recorder
	r    *Reconciler
	body *Element
	root *dom.HTMLNode
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture returns a reconciler whose root wraps a live <body>.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := dom.NewDocument()
	rec := dom.NewRecorder(doc)
	root := doc.CreateNode("body").(*dom.HTMLNode)

	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	r := New(rec, opts...)
	return &fixture{
		doc:  doc,
		rec:  rec,
		r:    r,
		body: r.Wrap(root),
		root: root,
	}
}

// named creates an element carrying an id attribute.
func (f *fixture) named(kind, id string) *Element {
	e := f.r.NewElement(kind)
	e.SetAttribute("id", id)
	return e
}

// ids returns the id attributes of the rendered children of n.
func ids(n dom.Node) []string {
	var out []string
	for _, c := range n.ChildNodes() {
		h := c.(*dom.HTMLNode)
		id, _ := h.Attribute("id")
		out = append(out, id)
	}
	return out
}

// modelIDs returns the id attributes of e's logical children.
func modelIDs(e *Element) []string {
	var out []string
	for _, c := range e.Children() {
		id, _ := c.Attribute("id")
		out = append(out, id)
	}
	return out
}

func mustNode(t *testing.T, e *Element) *dom.HTMLNode {
	t.Helper()
	n, err := e.Node()
	if err != nil {
		t.Fatalf("Node() error: %v", err)
	}
	return n.(*dom.HTMLNode)
}
