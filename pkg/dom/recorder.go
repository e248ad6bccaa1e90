package dom

import "fmt"

// MutationKind identifies a recorded Tree call.
type MutationKind uint8

const (
	MutCreate MutationKind = iota + 1
	MutSetAttribute
	MutSetStyle
	MutSetText
	MutSetMarkup
	MutInsertBefore
	MutAppendChild
	MutReplaceChild
	MutRemoveChild
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutCreate:
		return "Create"
	case MutSetAttribute:
		return "SetAttribute"
	case MutSetStyle:
		return "SetStyle"
	case MutSetText:
		return "SetText"
	case MutSetMarkup:
		return "SetMarkup"
	case MutInsertBefore:
		return "InsertBefore"
	case MutAppendChild:
		return "AppendChild"
	case MutReplaceChild:
		return "ReplaceChild"
	case MutRemoveChild:
		return "RemoveChild"
	default:
		return "Unknown"
	}
}

// Structural reports whether the mutation changes the shape of the tree.
func (k MutationKind) Structural() bool {
	switch k {
	case MutInsertBefore, MutAppendChild, MutReplaceChild, MutRemoveChild:
		return true
	}
	return false
}

// Mutation is one recorded Tree call.
type Mutation struct {
	Kind   MutationKind
	Target Node // node being mutated, or the parent for structural calls
	Node   Node // inserted, appended, removed or replacement node
	Ref    Node // before node for InsertBefore, old node for ReplaceChild
	Key    string
	Value  string
}

// String renders the mutation for logs and test failures.
func (m Mutation) String() string {
	switch m.Kind {
	case MutCreate:
		return fmt.Sprintf("Create(%v)", m.Value)
	case MutSetAttribute, MutSetStyle:
		return fmt.Sprintf("%s(%v, %s=%s)", m.Kind, m.Target, m.Key, m.Value)
	case MutSetText, MutSetMarkup:
		return fmt.Sprintf("%s(%v, %q)", m.Kind, m.Target, m.Value)
	case MutInsertBefore, MutReplaceChild:
		return fmt.Sprintf("%s(%v, %v, %v)", m.Kind, m.Target, m.Node, m.Ref)
	default:
		return fmt.Sprintf("%s(%v, %v)", m.Kind, m.Target, m.Node)
	}
}

// Recorder is a Tree that forwards to another Tree and logs every call.
type Recorder struct {
	tree Tree
	log  []Mutation

	// OnMutation, when set, is called after each forwarded call.
	OnMutation func(Mutation)
}

// NewRecorder wraps tree.
func NewRecorder(tree Tree) *Recorder {
	return &Recorder{tree: tree}
}

func (r *Recorder) record(m Mutation) {
	r.log = append(r.log, m)
	if r.OnMutation != nil {
		r.OnMutation(m)
	}
}

// Mutations returns a copy of the log.
func (r *Recorder) Mutations() []Mutation {
	return append([]Mutation(nil), r.log...)
}

// Count returns how many logged mutations have one of the given kinds.
// With no kinds it returns the log length.
func (r *Recorder) Count(kinds ...MutationKind) int {
	if len(kinds) == 0 {
		return len(r.log)
	}
	n := 0
	for _, m := range r.log {
		for _, k := range kinds {
			if m.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Structural returns the number of logged structural mutations.
func (r *Recorder) Structural() int {
	n := 0
	for _, m := range r.log {
		if m.Kind.Structural() {
			n++
		}
	}
	return n
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.log = nil
}

// CreateNode implements Tree.
func (r *Recorder) CreateNode(kind string) Node {
	n := r.tree.CreateNode(kind)
	r.record(Mutation{Kind: MutCreate, Node: n, Value: kind})
	return n
}

// SetAttribute implements Tree.
func (r *Recorder) SetAttribute(n Node, key, value string) {
	r.tree.SetAttribute(n, key, value)
	r.record(Mutation{Kind: MutSetAttribute, Target: n, Key: key, Value: value})
}

// SetStyle implements Tree.
func (r *Recorder) SetStyle(n Node, key, value string) {
	r.tree.SetStyle(n, key, value)
	r.record(Mutation{Kind: MutSetStyle, Target: n, Key: key, Value: value})
}

// SetText implements Tree.
func (r *Recorder) SetText(n Node, text string) {
	r.tree.SetText(n, text)
	r.record(Mutation{Kind: MutSetText, Target: n, Value: text})
}

// SetMarkup implements Tree.
func (r *Recorder) SetMarkup(n Node, markup string) {
	r.tree.SetMarkup(n, markup)
	r.record(Mutation{Kind: MutSetMarkup, Target: n, Value: markup})
}

// InsertBefore implements Tree.
func (r *Recorder) InsertBefore(parent, node, before Node) {
	r.tree.InsertBefore(parent, node, before)
	r.record(Mutation{Kind: MutInsertBefore, Target: parent, Node: node, Ref: before})
}

// AppendChild implements Tree.
func (r *Recorder) AppendChild(parent, node Node) {
	r.tree.AppendChild(parent, node)
	r.record(Mutation{Kind: MutAppendChild, Target: parent, Node: node})
}

// ReplaceChild implements Tree.
func (r *Recorder) ReplaceChild(parent, newNode, oldNode Node) {
	r.tree.ReplaceChild(parent, newNode, oldNode)
	r.record(Mutation{Kind: MutReplaceChild, Target: parent, Node: newNode, Ref: oldNode})
}

// RemoveChild implements Tree.
func (r *Recorder) RemoveChild(parent, node Node) {
	r.tree.RemoveChild(parent, node)
	r.record(Mutation{Kind: MutRemoveChild, Target: parent, Node: node})
}
