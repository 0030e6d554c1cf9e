// Package heap implements the tagged heap object kinds (pair, array,
// hash, string, symbol, closure, primitive, continuation, frame,
// struct-type, struct-instance, handle, module, bitset) and the
// tri-color mark-and-sweep collector that owns their lifetime.
//
// The object kinds live in one package because marking needs to dispatch
// over every kind's child references, so the kinds and the collector
// that traces them are necessarily coupled.
package heap

import "github.com/huskvm/husk/value"

type color uint8

const (
	white color = iota
	grey
	black
)

// Header is the common prefix of every heap object: a type tag, GC mark
// state, an optional finalizer, and the two intrusive links the collector
// uses to walk (all-objects chain) and mark (grey-list link) the heap.
type Header struct {
	kind      string
	color     color
	finalizer func(value.Object)
	size      int64
	owner     Traceable

	allNext  *Header // all-objects chain, newest allocation first
	greyNext *Header // transient grey-list link, only valid during marking
}

// ObjectKind returns the kind tag recorded at construction time. Each
// concrete kind holds its Header in a field and defines its own
// ObjectKind, which returns this same tag.
func (h *Header) ObjectKind() string { return h.kind }

// Traceable is implemented by every heap object kind so the collector can
// find the references it holds without a type switch per kind.
type Traceable interface {
	value.Object
	header() *Header
	// EachChild calls fn once for every Reference directly reachable from
	// this object (a pair's head and tail, an array's used slots, ...).
	EachChild(fn func(value.Reference))
}

func newHeader(kind string) Header {
	return Header{kind: kind}
}
