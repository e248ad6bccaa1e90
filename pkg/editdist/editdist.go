package editdist

import "fmt"

// OpKind is the kind of an edit operation.
type OpKind uint8

const (
	OpDelete  OpKind = iota + 1 // Remove Old at Pos
	OpInsert                    // Insert New before the element at Pos
	OpReplace                   // Replace Old at Pos with New
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "Delete"
	case OpInsert:
		return "Insert"
	case OpReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Op is a single edit operation. Pos indexes the source sequence.
type Op[T comparable] struct {
	Kind OpKind
	Pos  int
	Old  T // Delete and Replace
	New  T // Insert and Replace
}

// String renders the operation for logs and test failures.
func (o Op[T]) String() string {
	switch o.Kind {
	case OpDelete:
		return fmt.Sprintf("Delete(%d, %v)", o.Pos, o.Old)
	case OpInsert:
		return fmt.Sprintf("Insert(%d, %v)", o.Pos, o.New)
	case OpReplace:
		return fmt.Sprintf("Replace(%d, %v -> %v)", o.Pos, o.Old, o.New)
	default:
		return "Unknown"
	}
}

// Distance returns the Levenshtein distance between source and target.
func Distance[T comparable](source, target []T) int {
	if len(source) == 0 {
		return len(target)
	}
	if len(target) == 0 {
		return len(source)
	}
	return matrix(source, target)[len(source)][len(target)]
}

// Plan returns a minimal sequence of operations transforming source into
// target, ordered by descending source position.
func Plan[T comparable](source, target []T) []Op[T] {
	n, m := len(source), len(target)

	// Trivial shapes do not need the matrix.
	if n == 0 {
		ops := make([]Op[T], 0, m)
		for j := 0; j < m; j++ {
			ops = append(ops, Op[T]{Kind: OpInsert, Pos: j, New: target[j]})
		}
		return ops
	}
	if m == 0 {
		ops := make([]Op[T], 0, n)
		for i := n - 1; i >= 0; i-- {
			ops = append(ops, Op[T]{Kind: OpDelete, Pos: i, Old: source[i]})
		}
		return ops
	}

	d := matrix(source, target)
	ops := make([]Op[T], 0, d[n][m])

	i, j := n, m
	for i != 0 || j != 0 {
		switch {
		case i != 0 && d[i][j] == d[i-1][j]+1:
			ops = append(ops, Op[T]{Kind: OpDelete, Pos: i - 1, Old: source[i-1]})
			i--
		case j != 0 && d[i][j] == d[i][j-1]+1:
			ops = append(ops, Op[T]{Kind: OpInsert, Pos: i, New: target[j-1]})
			j--
		case i != 0 && j != 0 && d[i][j] == d[i-1][j-1]+1:
			ops = append(ops, Op[T]{Kind: OpReplace, Pos: i - 1, Old: source[i-1], New: target[j-1]})
			i--
			j--
		default:
			// Equal elements, no cost.
			i--
			j--
		}
	}
	return ops
}

// matrix builds the (n+1)x(m+1) distance table.
func matrix[T comparable](source, target []T) [][]int {
	n, m := len(source), len(target)

	cells := make([]int, (n+1)*(m+1))
	d := make([][]int, n+1)
	for i := range d {
		d[i] = cells[i*(m+1) : (i+1)*(m+1)]
		d[i][0] = i
	}
	for j := 1; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if source[i-1] == target[j-1] {
				cost = 0
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
		}
	}
	return d
}

// Apply runs ops against a copy of source with plain slice semantics and
// returns the result. Elements are treated as values, so an operation never
// relocates an existing entry. It is mostly useful to check plans.
func Apply[T comparable](source []T, ops []Op[T]) []T {
	out := append([]T(nil), source...)
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			out = append(out[:op.Pos], out[op.Pos+1:]...)
		case OpInsert:
			out = append(out, op.New)
			copy(out[op.Pos+1:], out[op.Pos:])
			out[op.Pos] = op.New
		case OpReplace:
			out[op.Pos] = op.New
		}
	}
	return out
}
