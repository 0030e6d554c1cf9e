// Package thread implements the VM's execution state: the registers,
// stack and frame chain an opcode decoder operates on, grounded on the
// register/PC/SP layout of a debugger's Thread type, generalized from a
// traced OS thread to an interpreted one.
package thread

import (
	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/handle"
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// Thread is one husk execution context: PC, the value/function/scratch
// registers, the current frame pointer, a growable reference stack, the
// current module and I/O handles, a saved jump point for catastrophic
// failure, and the dynamic/environ/trap stack-pointer chain.
type Thread struct {
	PC       int64
	Value    value.Reference
	Function value.Reference
	Scratch  [2]value.Reference

	FramePtr *heap.Frame
	Stack    []value.Reference

	Module *heap.Module
	In     *handle.Handle
	Out    *handle.Handle
	Err    *handle.Handle

	// SavedJump holds an optional callback for unwinding the thread to
	// its starting point. New leaves it nil, and neither the abort opcode
	// nor a raise nobody could service calls it.
	SavedJump func()

	DynamicSP int64 // -1 when no dynamic variable is pushed
	EnvironSP int64 // -1 when no environ variable is pushed

	traps []condition.Trap
	krun  condition.KrunStack
}

// New returns a thread with an empty stack, ready to begin executing at
// pc 0 against module m.
func New(m *heap.Module, in, out, errH *handle.Handle) *Thread {
	return &Thread{
		Module:    m,
		In:        in,
		Out:       out,
		Err:       errH,
		DynamicSP: -1,
		EnvironSP: -1,
		Value:     value.Unspec,
		Function:  value.Unspec,
	}
}

// Roots implements heap.RootProvider: every Reference directly reachable
// from this thread's registers and stack.
func (t *Thread) Roots() []value.Reference {
	refs := make([]value.Reference, 0, len(t.Stack)+8)
	refs = append(refs, t.Value, t.Function, t.Scratch[0], t.Scratch[1])
	if t.FramePtr != nil {
		refs = append(refs, value.Pointer(t.FramePtr))
	}
	if t.Module != nil {
		refs = append(refs, value.Pointer(t.Module))
	}
	refs = append(refs, t.Stack...)
	return refs
}

// Push appends v to the top of the stack.
func (t *Thread) Push(v value.Reference) {
	t.Stack = append(t.Stack, v)
}

// Pop removes and returns the top of the stack. It panics on an empty
// stack; the opcodes that pop do not check the stack depth beforehand.
func (t *Thread) Pop() value.Reference {
	n := len(t.Stack)
	v := t.Stack[n-1]
	t.Stack = t.Stack[:n-1]
	return v
}

// Depth reports the current stack height.
func (t *Thread) Depth() int { return len(t.Stack) }

// At returns the stack slot `depth` entries below the top, without
// popping, for traps and dynamic/environ chains that look past the top
// of the main stack.
func (t *Thread) At(depth int) value.Reference {
	return t.Stack[len(t.Stack)-1-depth]
}
