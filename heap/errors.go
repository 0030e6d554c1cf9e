package heap

import "errors"

// Sentinel errors surfaced by the container kinds. These are plain Go
// errors rather than husk conditions because package heap sits below
// package condition in the import graph (conditions are struct-instances,
// and struct-instances are a heap kind); the vm package translates these
// into the matching condition type before a raise.
var (
	ErrImproperList   = errors.New("husk/heap: improper list")
	ErrArrayBounds    = errors.New("husk/heap: array index out of bounds")
	ErrHashKeyMissing = errors.New("husk/heap: key not found")
	ErrWrongKind      = errors.New("husk/heap: value is not of the expected kind")
)
