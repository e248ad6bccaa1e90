package vdom

import (
	"slices"

	"github.com/vango-dev/lazydom/internal/errors"
)

// checkAdd validates child as a new child of e.
func (e *Element) checkAdd(child *Element) error {
	if err := e.r.owns(child); err != nil {
		return errors.New("L007").WithDetailf("element %d cannot be added to element %d", idOf(child), e.id)
	}
	if child.parent == e.id {
		return errors.New("L001").WithDetailf("element %d is already a child of element %d", child.id, e.id)
	}
	for p := e; p != nil; p = p.Parent() {
		if p == child {
			return errors.New("L008").WithDetailf("element %d is an ancestor of element %d", child.id, e.id)
		}
	}
	return nil
}

// checkChild validates that child is a direct child of e.
func (e *Element) checkChild(child *Element) error {
	if err := e.r.owns(child); err != nil {
		return errors.New("L007").WithDetailf("element %d is not managed by this reconciler", idOf(child))
	}
	if child.parent != e.id {
		return errors.New("L002").WithDetailf("element %d is not a child of element %d", child.id, e.id)
	}
	return nil
}

// relatedIndex returns the position of rel, which must be a child of e.
func (e *Element) relatedIndex(rel *Element) (int, error) {
	i := e.IndexOf(rel)
	if i < 0 {
		return -1, errors.New("L006").WithDetailf("element %d is not a child of element %d", idOf(rel), e.id)
	}
	return i, nil
}

func idOf(e *Element) ID {
	if e == nil {
		return 0
	}
	return e.id
}

// attach links child at index. child has been validated.
func (e *Element) attach(child *Element, index int) {
	if old := child.Parent(); old != nil {
		old.release(child)
	}
	child.parent = e.id
	e.children = slices.Insert(e.children, index, child.id)
	e.useChildren()
	if e.created {
		e.r.Enqueue(e)
	}
}

// release unlinks child. child has been validated.
func (e *Element) release(child *Element) {
	if e.created && child.created && child.node.ParentNode() == e.node {
		e.r.Enqueue(e)
	}
	if i := slices.Index(e.children, child.id); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
	}
	child.parent = 0
	e.r.setInserted(child, false)
}

// Add appends children in order. A child that belongs to another parent is
// moved. Either every child is added or, on error, none is.
func (e *Element) Add(children ...*Element) error {
	seen := make(map[*Element]bool, len(children))
	for _, c := range children {
		if err := e.checkAdd(c); err != nil {
			return err
		}
		if seen[c] {
			return errors.New("L001").WithDetailf("element %d is listed twice", c.id)
		}
		seen[c] = true
	}
	for _, c := range children {
		e.attach(c, len(e.children))
	}
	return nil
}

// InsertAt inserts child at index, shifting the following children.
func (e *Element) InsertAt(child *Element, index int) error {
	if err := e.checkAdd(child); err != nil {
		return err
	}
	if index < 0 || index > len(e.children) {
		return errors.New("L005").WithDetailf("index %d, %d children", index, len(e.children))
	}
	e.attach(child, index)
	return nil
}

// InsertBefore inserts child before rel.
func (e *Element) InsertBefore(child, rel *Element) error {
	if err := e.checkAdd(child); err != nil {
		return err
	}
	i, err := e.relatedIndex(rel)
	if err != nil {
		return err
	}
	e.attach(child, i)
	return nil
}

// InsertAfter inserts child after rel.
func (e *Element) InsertAfter(child, rel *Element) error {
	if err := e.checkAdd(child); err != nil {
		return err
	}
	i, err := e.relatedIndex(rel)
	if err != nil {
		return err
	}
	e.attach(child, i+1)
	return nil
}

// Remove detaches children. Either every child is removed or, on error,
// none is.
func (e *Element) Remove(children ...*Element) error {
	for _, c := range children {
		if err := e.checkChild(c); err != nil {
			return err
		}
	}
	for _, c := range children {
		// Listing the same child twice is harmless: the second pass finds
		// it already gone.
		if c.parent == e.id {
			e.release(c)
		}
	}
	return nil
}

// RemoveAt detaches and returns the child at index.
func (e *Element) RemoveAt(index int) (*Element, error) {
	if index < 0 || index >= len(e.children) {
		return nil, errors.New("L005").WithDetailf("index %d, %d children", index, len(e.children))
	}
	child := e.r.elements[e.children[index]]
	e.release(child)
	return child, nil
}

// MoveTo moves child to index. The index refers to the list before the
// move: moving forward lands the child just before the element that was at
// index. Moving a child to its current index is an error.
func (e *Element) MoveTo(child *Element, index int) error {
	if err := e.checkChild(child); err != nil {
		return err
	}
	if index < 0 || index > len(e.children) {
		return errors.New("L005").WithDetailf("index %d, %d children", index, len(e.children))
	}
	old := slices.Index(e.children, child.id)
	if old == index {
		return errors.New("L003").WithDetailf("element %d is already at index %d", child.id, index)
	}
	if old < index {
		index--
	}

	e.children = slices.Delete(e.children, old, old+1)
	e.children = slices.Insert(e.children, index, child.id)
	e.r.Enqueue(e)
	return nil
}

// MoveBefore moves child in front of rel.
func (e *Element) MoveBefore(child, rel *Element) error {
	if err := e.checkChild(child); err != nil {
		return err
	}
	i, err := e.relatedIndex(rel)
	if err != nil {
		return err
	}
	return e.MoveTo(child, i)
}

// MoveAfter moves child behind rel.
func (e *Element) MoveAfter(child, rel *Element) error {
	if err := e.checkChild(child); err != nil {
		return err
	}
	i, err := e.relatedIndex(rel)
	if err != nil {
		return err
	}
	return e.MoveTo(child, i+1)
}
