package dom

// Node is a rendered node handle. Implementations must be comparable so
// handles can be matched by identity.
type Node interface {
	// NodeName is the lower-case tag name, or "#text" for text nodes.
	NodeName() string

	// ParentNode returns the parent or nil when detached.
	ParentNode() Node

	// PreviousSibling returns the preceding sibling or nil.
	PreviousSibling() Node

	// ChildNodes returns a snapshot of the ordered children.
	ChildNodes() []Node

	// ChildAt returns the child at index i, or nil when i is out of range.
	ChildAt(i int) Node
}

// Tree is the set of primitive mutations applied to rendered nodes.
type Tree interface {
	// CreateNode allocates a new detached node of the given kind.
	CreateNode(kind string) Node

	SetAttribute(n Node, key, value string)
	SetStyle(n Node, key, value string)

	// SetText replaces every child of n with a single text node.
	SetText(n Node, text string)

	// SetMarkup replaces every child of n with the parsed markup.
	SetMarkup(n Node, markup string)

	// InsertBefore inserts node into parent before the child before.
	// A nil before appends. Callers never insert a node into its own
	// subtree.
	InsertBefore(parent, node, before Node)

	AppendChild(parent, node Node)

	// ReplaceChild puts newNode in place of oldNode under parent.
	ReplaceChild(parent, newNode, oldNode Node)

	RemoveChild(parent, node Node)
}

// IndexOf returns the position of n among its siblings by walking the
// previous-sibling chain, or -1 when n has no parent.
func IndexOf(n Node) int {
	if n == nil || n.ParentNode() == nil {
		return -1
	}
	i := 0
	for p := n.PreviousSibling(); p != nil; p = p.PreviousSibling() {
		i++
	}
	return i
}

// Contains reports whether n is a descendant of root (or root itself).
func Contains(root, n Node) bool {
	for ; n != nil; n = n.ParentNode() {
		if n == root {
			return true
		}
	}
	return false
}
