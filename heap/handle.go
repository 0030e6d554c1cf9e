package heap

import (
	"github.com/huskvm/husk/handle"
	"github.com/huskvm/husk/value"
)

// HandleObject is the heap-resident wrapper around a handle.Handle, so an
// I/O stream can live in a Reference, be registered as a root while
// referenced from a thread's I/O registers, and carry a finalizer that
// closes it on collection if the caller never called close explicitly.
type HandleObject struct {
	header Header
	H      *handle.Handle
}

// NewHandleObject wraps h and schedules it to be closed on finalization.
func NewHandleObject(g *GC, h *handle.Handle) *HandleObject {
	ho := &HandleObject{header: newHeader("handle"), H: h}
	g.track(&ho.header, ho, 32)
	g.SetFinalizer(ho, func(value.Object) { _ = h.Close() })
	return ho
}

func (ho *HandleObject) ObjectKind() string             { return ho.header.kind }
func (ho *HandleObject) header() *Header                { return &ho.header }
func (ho *HandleObject) EachChild(func(value.Reference)) {}
