// Package vdom is a retained element tree that is lazily reconciled against
// a rendered tree.
//
// Clients build and mutate Elements (attributes, style, text or markup
// content, child lists) without touching rendered nodes. Every mutation
// enqueues the element with its Reconciler; nothing reaches the rendered
// tree until the host calls Flush.
//
// # Flush
//
// A flush runs three passes over the pending queue:
//
//  1. Materialization. Every queued element gets a rendered node, and every
//     child of a queued element is queued too. The queue may grow while
//     this pass runs; it ends when no new element is discovered.
//  2. Off-tree content. Elements that are not attached to the live tree
//     get their content applied first, so whole subtrees are assembled
//     before they become visible.
//  3. Live content. The remaining elements are applied.
//
// Content is one of text, markup or a child list. Child lists are
// reconciled with a minimal edit script (package editdist) whose positions
// are corrected as nodes move within the same parent.
//
// # Ownership
//
// The Reconciler is an arena: it owns every Element and identifies them by
// ID. Parent and child links are IDs, never owning pointers. A Reconciler is
// not safe for concurrent use; it is meant to be driven from one UI loop.
//
//	doc := dom.NewDocument()
//	r := vdom.New(doc)
//	body := r.Wrap(doc.CreateNode("body"))
//	list := r.NewElement("ul")
//	item := r.NewElement("li")
//	item.SetText("first")
//	list.Add(item)
//	body.Add(list)
//	r.Flush() // <body><ul><li>first</li></ul></body>
//
// Elements render only below a created ancestor: a tree of fresh elements
// stays pending until it is added under a wrapped node or enqueued.
package vdom
