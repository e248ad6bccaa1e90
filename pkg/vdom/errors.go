package vdom

import "github.com/vango-dev/lazydom/internal/errors"

// Errors returned by the element API. Compare with errors.Is; the returned
// errors carry call-specific detail but match these by code.
var (
	ErrDuplicateChild  = errors.New("L001")
	ErrNotChild        = errors.New("L002")
	ErrSameIndex       = errors.New("L003")
	ErrNotCreated      = errors.New("L004")
	ErrIndexOutOfRange = errors.New("L005")
	ErrRelatedNotFound = errors.New("L006")
	ErrForeignElement  = errors.New("L007")
	ErrCycle           = errors.New("L008")
)
