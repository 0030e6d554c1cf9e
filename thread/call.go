package thread

import (
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// callMarkerSize is the number of stack slots a call protocol pushes:
// return PC, the calling module, the calling frame, and the argument
// count, in that order.
const callMarkerSize = 4

// PushCall saves the caller's PC, module, frame and argument count onto
// the stack, the protocol every non-tail invocation follows before
// transferring control into a closure. Callers that also call
// EnterClosure for the same invocation must call PushCall first and pass
// it the pre-call frame/module explicitly if FramePtr/Module have
// already been overwritten (see vm.invoke, which pushes the marker
// itself once EnterClosure has consumed the arguments, to keep the
// marker from sitting on top of — and being mistaken for — those
// arguments).
func (t *Thread) PushCall(returnPC int64, argc int64) {
	t.Push(value.Fixnum(returnPC))
	t.Push(value.Pointer(t.Module))
	if t.FramePtr != nil {
		t.Push(value.Pointer(t.FramePtr))
	} else {
		t.Push(value.Nil)
	}
	t.Push(value.Fixnum(argc))
}

// PopCall undoes exactly one PushCall, restoring PC, module and frame and
// returning the saved argument count. It is the Return opcode's
// implementation.
func (t *Thread) PopCall() (returnPC int64, argc int64) {
	argc = t.Pop().AsFixnum()
	frameRef := t.Pop()
	modRef := t.Pop()
	returnPC = t.Pop().AsFixnum()

	if frameRef.IsNil() {
		t.FramePtr = nil
	} else {
		t.FramePtr = frameRef.Object().(*heap.Frame)
	}
	t.Module = modRef.Object().(*heap.Module)
	t.PC = returnPC
	return returnPC, argc
}

// EnterClosure transfers control into c with n argument values on the
// stack top, popping them into a new frame of n slots chained to the
// closure's captured frame.
func (t *Thread) EnterClosure(g *heap.GC, c *heap.Closure, n int64) {
	frame := heap.NewFrame(g, c.Frame, n)
	for i := n - 1; i >= 0; i-- {
		frame.Slots[i] = t.Pop()
	}
	t.FramePtr = frame
	t.PC = c.Code
}

// TailEnterClosure reuses the caller's current frame's slot vector
// in place rather than allocating a new frame, the tail-call opcode's
// implementation. If the slot counts don't match (a differently-shaped
// frame), it falls back to allocating a fresh one.
func (t *Thread) TailEnterClosure(g *heap.GC, c *heap.Closure, n int64) {
	args := make([]value.Reference, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = t.Pop()
	}
	if t.FramePtr != nil && int64(len(t.FramePtr.Slots)) == n {
		copy(t.FramePtr.Slots, args)
		t.FramePtr.Parent = c.Frame
	} else {
		frame := heap.NewFrame(g, c.Frame, n)
		copy(frame.Slots, args)
		t.FramePtr = frame
	}
	t.PC = c.Code
}
