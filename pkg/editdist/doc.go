// Package editdist computes minimal edit scripts between two ordered
// sequences.
//
// Plan builds the Levenshtein distance matrix between a source and a target
// sequence and walks it back from the bottom-right corner, emitting one
// Delete, Insert or Replace per unit of cost. Positions are indexes into the
// source snapshot. Because the walk runs from the end towards the start, the
// returned operations are ordered by descending position: applying them in
// order never disturbs the index of an operation that is still pending,
// except when an operation moves an element that already lives in the
// sequence (callers that apply plans to a live tree correct for that).
//
//	ops := editdist.Plan([]string{"a", "b", "c"}, []string{"b", "a", "c"})
//	// [{Delete 1 b} {Insert 0 b}]
package editdist
