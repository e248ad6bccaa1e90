// Package errors provides structured, coded errors for lazydom.
//
// Every error carries a stable code (e.g. "L001") registered with a
// category, a short message and a longer explanation. Callers compare
// errors by code with the standard library:
//
//	if errors.Is(err, vdom.ErrDuplicateChild) { ... }
//
// # Error Categories
//
//   - structure: misuse of the element child-list API (duplicate add,
//     removing a stranger, degenerate moves)
//   - state: access to something that does not exist yet (a rendered node
//     before the first flush)
//   - scenario: malformed scenario scripts
//   - config: lazydom.json problems
//   - storage: snapshot store failures
//
// # Usage
//
//	err := errors.New("L020").
//	    WithLocation("demo.yaml", 12, 5).
//	    WithSuggestion("Declare the element before using it")
//
//	fmt.Println(err.Format())
package errors
