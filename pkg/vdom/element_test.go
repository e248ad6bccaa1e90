package vdom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/lazydom/pkg/dom"
)

func TestAddRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	a := f.named("p", "a")

	if err := f.body.Add(a); err != nil {
		t.Fatal(err)
	}
	err := f.body.Add(a)
	if !errors.Is(err, ErrDuplicateChild) {
		t.Fatalf("second Add error = %v, want ErrDuplicateChild", err)
	}
	if f.body.ChildCount() != 1 {
		t.Errorf("ChildCount() = %d, want 1", f.body.ChildCount())
	}
}

func TestAddIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	a, b := f.named("p", "a"), f.named("p", "b")
	if err := f.body.Add(a); err != nil {
		t.Fatal(err)
	}

	if err := f.body.Add(b, a); !errors.Is(err, ErrDuplicateChild) {
		t.Fatalf("Add error = %v, want ErrDuplicateChild", err)
	}
	if b.Parent() != nil {
		t.Error("b must not be added when the batch fails")
	}

	c := f.named("p", "c")
	if err := f.body.Add(c, c); !errors.Is(err, ErrDuplicateChild) {
		t.Fatalf("Add(c, c) error = %v, want ErrDuplicateChild", err)
	}
	if diff := cmp.Diff([]string{"a"}, modelIDs(f.body)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestAddRejectsCycle(t *testing.T) {
	f := newFixture(t)
	a, b := f.named("div", "a"), f.named("div", "b")
	if err := f.body.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := a.Add(b); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		parent, child *Element
	}{
		{a, a},
		{b, a},
		{b, f.body},
	} {
		if err := tc.parent.Add(tc.child); !errors.Is(err, ErrCycle) {
			t.Errorf("Add(%d into %d) error = %v, want ErrCycle", tc.child.ID(), tc.parent.ID(), err)
		}
	}
}

func TestAddRejectsForeign(t *testing.T) {
	f := newFixture(t)
	other := New(dom.NewDocument(), WithLogger(discardLogger()))

	if err := f.body.Add(other.NewElement("p")); !errors.Is(err, ErrForeignElement) {
		t.Errorf("Add(foreign) error = %v, want ErrForeignElement", err)
	}
	if err := f.body.Add(nil); !errors.Is(err, ErrForeignElement) {
		t.Errorf("Add(nil) error = %v, want ErrForeignElement", err)
	}
}

func TestAddMovesFromPreviousParent(t *testing.T) {
	f := newFixture(t)
	left, right := f.named("div", "l"), f.named("div", "r")
	child := f.named("p", "c")

	if err := left.Add(child); err != nil {
		t.Fatal(err)
	}
	if err := right.Add(child); err != nil {
		t.Fatal(err)
	}

	if left.ChildCount() != 0 || left.IndexOf(child) != -1 {
		t.Error("child should be detached from the previous parent")
	}
	if child.Parent() != right {
		t.Error("child.Parent() should be right")
	}
}

func TestAddEnqueuesOnlyCreatedParents(t *testing.T) {
	f := newFixture(t)
	detached := f.r.NewElement("div")

	if err := detached.Add(f.r.NewElement("p")); err != nil {
		t.Fatal(err)
	}
	if detached.Queued() {
		t.Error("an uncreated parent is discovered at creation, not queued")
	}

	if err := f.body.Add(f.r.NewElement("p")); err != nil {
		t.Fatal(err)
	}
	if !f.body.Queued() {
		t.Error("a created parent should be queued")
	}
}

func TestInsertPositions(t *testing.T) {
	f := newFixture(t)
	a, b, c, d := f.named("p", "a"), f.named("p", "b"), f.named("p", "c"), f.named("p", "d")

	if err := f.body.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := f.body.InsertAt(a, 0); err != nil {
		t.Fatal(err)
	}
	if err := f.body.InsertAfter(d, b); err != nil {
		t.Fatal(err)
	}
	if err := f.body.InsertBefore(c, d); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, modelIDs(f.body)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	f.r.Flush()
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, ids(f.root)); diff != "" {
		t.Errorf("rendered (-want +got):\n%s", diff)
	}
}

func TestInsertErrors(t *testing.T) {
	f := newFixture(t)
	a, stranger := f.named("p", "a"), f.named("p", "x")

	if err := f.body.InsertAt(a, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("InsertAt(1) on empty error = %v, want ErrIndexOutOfRange", err)
	}
	if err := f.body.InsertBefore(a, stranger); !errors.Is(err, ErrRelatedNotFound) {
		t.Errorf("InsertBefore(stranger) error = %v, want ErrRelatedNotFound", err)
	}
	if err := f.body.InsertAfter(a, nil); !errors.Is(err, ErrRelatedNotFound) {
		t.Errorf("InsertAfter(nil) error = %v, want ErrRelatedNotFound", err)
	}
	if f.body.ChildCount() != 0 || a.Parent() != nil {
		t.Error("failed inserts must leave the model unchanged")
	}
}

func TestRemoveErrors(t *testing.T) {
	f := newFixture(t)
	a, stranger := f.named("p", "a"), f.named("p", "x")
	if err := f.body.Add(a); err != nil {
		t.Fatal(err)
	}

	if err := f.body.Remove(a, stranger); !errors.Is(err, ErrNotChild) {
		t.Fatalf("Remove error = %v, want ErrNotChild", err)
	}
	if a.Parent() != f.body {
		t.Error("failed Remove must leave every child in place")
	}

	if _, err := f.body.RemoveAt(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveAt(3) error = %v, want ErrIndexOutOfRange", err)
	}
	got, err := f.body.RemoveAt(0)
	if err != nil || got != a {
		t.Fatalf("RemoveAt(0) = %v, %v", got, err)
	}
	if a.Parent() != nil {
		t.Error("RemoveAt should clear the parent link")
	}
	if err := f.body.Remove(a); !errors.Is(err, ErrNotChild) {
		t.Errorf("Remove twice error = %v, want ErrNotChild", err)
	}
}

func TestRemoveUnrenderedChildDoesNotEnqueue(t *testing.T) {
	f := newFixture(t)
	a := f.named("p", "a")
	if err := f.body.Add(a); err != nil {
		t.Fatal(err)
	}
	f.r.Dequeue(f.body)

	if err := f.body.Remove(a); err != nil {
		t.Fatal(err)
	}
	if f.body.Queued() {
		t.Error("removing a child that was never rendered needs no reconciliation")
	}
}

func TestMoveTo(t *testing.T) {
	tests := []struct {
		name  string
		move  string
		index int
		want  []string
	}{
		{"backward", "c", 0, []string{"c", "a", "b"}},
		{"forward adjusts for removal", "a", 2, []string{"b", "a", "c"}},
		{"to end", "a", 3, []string{"b", "c", "a"}},
		{"one forward is a no-op shape", "a", 1, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			els := map[string]*Element{}
			for _, id := range []string{"a", "b", "c"} {
				els[id] = f.named("p", id)
				if err := f.body.Add(els[id]); err != nil {
					t.Fatal(err)
				}
			}
			f.r.Flush()

			if err := f.body.MoveTo(els[tt.move], tt.index); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, modelIDs(f.body)); diff != "" {
				t.Errorf("children (-want +got):\n%s", diff)
			}
			f.r.Flush()
			if diff := cmp.Diff(tt.want, ids(f.root)); diff != "" {
				t.Errorf("rendered (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveErrors(t *testing.T) {
	f := newFixture(t)
	a, b, stranger := f.named("p", "a"), f.named("p", "b"), f.named("p", "x")
	if err := f.body.Add(a, b); err != nil {
		t.Fatal(err)
	}
	f.r.Flush()

	if err := f.body.MoveTo(a, 0); !errors.Is(err, ErrSameIndex) {
		t.Errorf("MoveTo same index error = %v, want ErrSameIndex", err)
	}
	if f.body.Queued() {
		t.Error("a rejected move must not enqueue")
	}
	if err := f.body.MoveTo(stranger, 0); !errors.Is(err, ErrNotChild) {
		t.Errorf("MoveTo(stranger) error = %v, want ErrNotChild", err)
	}
	if err := f.body.MoveTo(a, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("MoveTo(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := f.body.MoveBefore(a, stranger); !errors.Is(err, ErrRelatedNotFound) {
		t.Errorf("MoveBefore(stranger) error = %v, want ErrRelatedNotFound", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, modelIDs(f.body)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestMoveBeforeAfter(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.named("p", "a"), f.named("p", "b"), f.named("p", "c")
	if err := f.body.Add(a, b, c); err != nil {
		t.Fatal(err)
	}

	if err := f.body.MoveAfter(a, c); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, modelIDs(f.body)); diff != "" {
		t.Errorf("after MoveAfter (-want +got):\n%s", diff)
	}

	if err := f.body.MoveBefore(a, b); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, modelIDs(f.body)); diff != "" {
		t.Errorf("after MoveBefore (-want +got):\n%s", diff)
	}
}

func TestMoveAlwaysEnqueues(t *testing.T) {
	f := newFixture(t)
	list := f.r.NewElement("ul")
	a, b := f.named("li", "a"), f.named("li", "b")
	if err := list.Add(a, b); err != nil {
		t.Fatal(err)
	}

	if err := list.MoveTo(b, 0); err != nil {
		t.Fatal(err)
	}
	if !list.Queued() {
		t.Error("MoveTo should enqueue the parent")
	}
}

func TestNodeBeforeCreation(t *testing.T) {
	f := newFixture(t)
	e := f.r.NewElement("")

	if _, err := e.Node(); !errors.Is(err, ErrNotCreated) {
		t.Errorf("Node() error = %v, want ErrNotCreated", err)
	}
	if e.Kind() != DefaultKind {
		t.Errorf("Kind() = %q, want %q", e.Kind(), DefaultKind)
	}

	f.r.Enqueue(e)
	f.r.Flush()
	if _, err := e.Node(); err != nil {
		t.Errorf("Node() after flush error = %v", err)
	}
}

func TestAttributeCacheReplay(t *testing.T) {
	f := newFixture(t)
	e := f.r.NewElement("input")
	e.SetAttribute("x", "1")
	e.SetAttribute("x", "2")
	e.SetStyle("color", "red")
	e.SetStyle("color", "blue")
	if err := f.body.Add(e); err != nil {
		t.Fatal(err)
	}

	f.r.Flush()

	n := mustNode(t, e)
	if v, _ := n.Attribute("x"); v != "2" {
		t.Errorf("rendered x = %q, want 2", v)
	}
	if v, _ := n.Style("color"); v != "blue" {
		t.Errorf("rendered color = %q, want blue", v)
	}
	if got := f.rec.Count(dom.MutSetAttribute); got != 1 {
		t.Errorf("SetAttribute calls = %d, want 1 (only the final value is replayed)", got)
	}
	if v, ok := e.Attribute("x"); !ok || v != "2" {
		t.Errorf("cached x = %q, %v", v, ok)
	}
}

func TestAttributeAppliesImmediatelyWhenCreated(t *testing.T) {
	f := newFixture(t)
	e := f.r.NewElement("p")
	if err := f.body.Add(e); err != nil {
		t.Fatal(err)
	}
	f.r.Flush()

	e.SetAttribute("title", "now")
	e.SetStyle("width", "1px")

	n := mustNode(t, e)
	if v, _ := n.Attribute("title"); v != "now" {
		t.Errorf("rendered title = %q, want now", v)
	}
	if v, _ := n.Style("width"); v != "1px" {
		t.Errorf("rendered width = %q, want 1px", v)
	}
	if e.Queued() {
		t.Error("attribute changes need no reconciliation")
	}
	if diff := cmp.Diff(map[string]string{"title": "now"}, e.Attributes()); diff != "" {
		t.Errorf("Attributes() (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"width": "1px"}, e.Styles()); diff != "" {
		t.Errorf("Styles() (-want +got):\n%s", diff)
	}
}

func TestTextReplacesChildren(t *testing.T) {
	f := newFixture(t)
	box := f.named("div", "box")
	inner := f.named("span", "inner")
	if err := box.Add(inner); err != nil {
		t.Fatal(err)
	}
	if err := f.body.Add(box); err != nil {
		t.Fatal(err)
	}
	f.r.Flush()

	box.SetText("hello")

	if inner.Parent() != nil || box.ChildCount() != 0 {
		t.Error("SetText should detach children")
	}
	if box.Content().Mode != ContentText || box.Text() != "hello" || box.HTML() != "" {
		t.Errorf("Content() = %+v", box.Content())
	}

	f.r.Flush()
	if got := dom.OuterHTML(mustNode(t, box)); got != `<div id="box">hello</div>` {
		t.Errorf("rendered = %s", got)
	}
	if inner.Inserted() {
		t.Error("detached child should not be inserted")
	}
}

func TestMarkupThenChildren(t *testing.T) {
	f := newFixture(t)
	box := f.named("div", "box")
	if err := f.body.Add(box); err != nil {
		t.Fatal(err)
	}
	box.SetHTML("<b>bold</b> text")
	f.r.Flush()

	if got := dom.InnerHTML(mustNode(t, box)); got != "<b>bold</b> text" {
		t.Errorf("rendered markup = %q", got)
	}
	if box.HTML() != "<b>bold</b> text" || box.Text() != "" {
		t.Errorf("HTML() = %q, Text() = %q", box.HTML(), box.Text())
	}

	// Adding a child switches the element back to its child list.
	if err := box.Add(f.named("i", "i")); err != nil {
		t.Fatal(err)
	}
	if box.Content().Mode != ContentChildren || box.HTML() != "" {
		t.Errorf("Content() = %+v, want children", box.Content())
	}
	f.r.Flush()

	if got := dom.InnerHTML(mustNode(t, box)); got != `<i id="i"></i>` {
		t.Errorf("rendered = %q", got)
	}
}

func TestContentModeImplicitChildren(t *testing.T) {
	f := newFixture(t)
	e := f.r.NewElement("div")
	if e.Content().Mode != ContentNone {
		t.Errorf("Content().Mode = %v, want None", e.Content().Mode)
	}
	if err := e.Add(f.r.NewElement("p")); err != nil {
		t.Fatal(err)
	}
	if e.Content().Mode != ContentChildren {
		t.Errorf("Content().Mode = %v, want Children", e.Content().Mode)
	}
}

func TestWrappedChildListIsAuthoritative(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateNode("body").(*dom.HTMLNode)
	doc.SetMarkup(host, "<p>server rendered</p>")

	r := New(doc, WithLogger(discardLogger()))
	body := r.Wrap(host)
	if err := body.Add(r.NewElement("main")); err != nil {
		t.Fatal(err)
	}
	r.Flush()

	if got := dom.InnerHTML(host); got != "<main></main>" {
		t.Errorf("rendered = %q", got)
	}
}
