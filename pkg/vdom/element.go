package vdom

import (
	"maps"
	"slices"

	"github.com/vango-dev/lazydom/pkg/dom"
)

// DefaultKind is the node kind of elements created without one.
const DefaultKind = "div"

// Element is a logical node of the retained tree.
type Element struct {
	id   ID
	r    *Reconciler
	kind string

	node     dom.Node
	created  bool
	inserted bool
	queued   bool

	parent   ID
	children []ID

	attrs   map[string]string
	style   map[string]string
	content Content
}

// ID returns the element identity.
func (e *Element) ID() ID { return e.id }

// Kind returns the rendered node kind.
func (e *Element) Kind() string { return e.kind }

// Created reports whether the rendered node exists.
func (e *Element) Created() bool { return e.created }

// Inserted reports whether the rendered node is attached to the live tree.
func (e *Element) Inserted() bool { return e.inserted }

// Queued reports whether the element waits for the next flush.
func (e *Element) Queued() bool { return e.queued }

// Node returns the rendered node. It fails with ErrNotCreated until the
// element has been flushed (or was created by Wrap).
func (e *Element) Node() (dom.Node, error) {
	if !e.created {
		return nil, ErrNotCreated
	}
	return e.node, nil
}

// Parent returns the parent element, or nil for a root.
func (e *Element) Parent() *Element {
	if e.parent == 0 || e.r == nil {
		return nil
	}
	return e.r.elements[e.parent]
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	for i, cid := range e.children {
		out[i] = e.r.elements[cid]
	}
	return out
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// IndexOf returns the position of child, or -1 when it is not a child.
func (e *Element) IndexOf(child *Element) int {
	if child == nil || child.parent != e.id || child.r != e.r {
		return -1
	}
	return slices.Index(e.children, child.id)
}

// Content returns the configured content.
func (e *Element) Content() Content {
	if e.content.Mode == ContentNone && len(e.children) > 0 {
		return ChildContent()
	}
	return e.content
}

// Text returns the configured text, or "" when the content is not text.
func (e *Element) Text() string {
	if e.content.Mode != ContentText {
		return ""
	}
	return e.content.Value
}

// HTML returns the configured markup, or "" when the content is not markup.
func (e *Element) HTML() string {
	if e.content.Mode != ContentMarkup {
		return ""
	}
	return e.content.Value
}

// SetText makes text the element's content. Children are detached.
func (e *Element) SetText(text string) {
	e.setContent(TextContent(text))
}

// SetHTML makes raw markup the element's content. Children are detached.
func (e *Element) SetHTML(markup string) {
	e.setContent(MarkupContent(markup))
}

func (e *Element) setContent(c Content) {
	for _, cid := range e.children {
		child := e.r.elements[cid]
		child.parent = 0
		e.r.setInserted(child, false)
	}
	e.children = nil
	e.content = c
	if e.created {
		e.r.Enqueue(e)
	}
}

// useChildren switches the content back to the child list.
func (e *Element) useChildren() {
	e.content = ChildContent()
}

// SetAttribute sets an attribute. On a created element the rendered node is
// updated immediately; the cached value is always kept for reads.
func (e *Element) SetAttribute(key, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[key] = value
	if e.created {
		e.r.tree.SetAttribute(e.node, key, value)
	}
}

// Attribute returns a cached attribute value.
func (e *Element) Attribute(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// Attributes returns a copy of the attribute cache.
func (e *Element) Attributes() map[string]string {
	return maps.Clone(e.attrs)
}

// SetStyle sets a style property, with the same caching as SetAttribute.
func (e *Element) SetStyle(key, value string) {
	if e.style == nil {
		e.style = make(map[string]string)
	}
	e.style[key] = value
	if e.created {
		e.r.tree.SetStyle(e.node, key, value)
	}
}

// Style returns a cached style property.
func (e *Element) Style(key string) (string, bool) {
	v, ok := e.style[key]
	return v, ok
}

// Styles returns a copy of the style cache.
func (e *Element) Styles() map[string]string {
	return maps.Clone(e.style)
}
