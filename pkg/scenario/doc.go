// Package scenario drives a reconciler from a YAML script.
//
// A scenario declares named elements and a list of steps. Each step calls
// one Element API method; flush steps run the reconciler and may check the
// rendered markup of the root.
//
//	name: reorder
//	elements:
//	  list: {kind: ul}
//	  a: {kind: li, text: A}
//	  b: {kind: li, text: B}
//	steps:
//	  - {do: add, parent: root, children: [list]}
//	  - {do: add, parent: list, children: [a, b]}
//	  - {do: flush}
//	  - {do: move, parent: list, child: b, index: 0}
//	  - do: flush
//	    expect: <ul><li>B</li><li>A</li></ul>
//
// The root element is always named "root" and wraps a node of kind Root
// (default "body").
package scenario
