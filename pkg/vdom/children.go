package vdom

import (
	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/editdist"
)

type childStats struct {
	inserts    int
	deletes    int
	replaces   int
	skips      int
	downgrades int
	repairs    int

	// blocked counts target nodes left out because they still contain
	// the parent.
	blocked int
}

// reconcileChildren turns the rendered children of parent into target.
//
// The edit script is computed against a snapshot of the children, but the
// live list changes as operations are applied. When an insert or replace
// moves a node that already lives under parent, every position between the
// node's current index and the operation's position shifts by one; offsets
// records that shift so later operations can be mapped back to live
// indexes.
//
// A target node that currently contains parent cannot be inserted under it
// without making the tree cyclic. The model has no cycles, so some other
// pending child list still holds the stale link; such nodes are skipped and
// reported as blocked so the caller can retry once that list is reconciled.
func (r *Reconciler) reconcileChildren(parent dom.Node, target []dom.Node) childStats {
	var st childStats

	source := parent.ChildNodes()
	ops := r.planner(source, target)
	offsets := make(map[int]int)

	for _, op := range ops {
		pos := op.Pos
		if off := offsets[pos]; off > 0 {
			pos = max(pos-off, 0)
		}

		if op.Kind == editdist.OpDelete {
			// Only remove the node if it is still where the plan saw it.
			if parent.ChildAt(pos) == op.Old {
				r.tree.RemoveChild(parent, op.Old)
				st.deletes++
			} else {
				st.skips++
			}
			continue
		}

		if dom.Contains(op.New, parent) {
			continue
		}

		if op.New.ParentNode() == parent {
			prev := dom.IndexOf(op.New)
			for j := prev + 1; j <= pos; j++ {
				offsets[j]++
			}
		}

		kind := op.Kind
		if kind == editdist.OpReplace {
			if parent.ChildAt(pos) == op.Old {
				r.tree.ReplaceChild(parent, op.New, op.Old)
				st.replaces++
				continue
			}
			kind = editdist.OpInsert
			st.downgrades++
		}

		if kind == editdist.OpInsert {
			if before := parent.ChildAt(pos); before != nil {
				r.tree.InsertBefore(parent, op.New, before)
			} else {
				r.tree.AppendChild(parent, op.New)
			}
			st.inserts++
		}
	}

	st.repairs, st.blocked = r.settle(parent, target)
	return st
}

// settle checks the live children against target and moves nodes into
// place where the offset bookkeeping could not. It returns the number of
// operations issued, which is zero for every plan the offsets handle, and
// the number of blocked target nodes.
func (r *Reconciler) settle(parent dom.Node, target []dom.Node) (repairs, blocked int) {
	i := 0
	for _, want := range target {
		if dom.Contains(want, parent) {
			blocked++
			continue
		}
		got := parent.ChildAt(i)
		i++
		if got == want {
			continue
		}
		if got == nil {
			r.tree.AppendChild(parent, want)
		} else {
			r.tree.InsertBefore(parent, want, got)
		}
		repairs++
	}
	for extra := parent.ChildAt(i); extra != nil; extra = parent.ChildAt(i) {
		r.tree.RemoveChild(parent, extra)
		repairs++
	}
	if repairs > 0 {
		r.logger.Debug("child order repaired", "operations", repairs)
	}
	return repairs, blocked
}
