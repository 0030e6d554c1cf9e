package thread

import (
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// registerCount is how many Reference-typed registers Capture/Restore
// encode into a Continuation's generic register vector, in a fixed order:
// value, function, scratch[0], scratch[1].
const registerCount = 4

func (t *Thread) encodeRegisters() []value.Reference {
	return []value.Reference{t.Value, t.Function, t.Scratch[0], t.Scratch[1]}
}

func (t *Thread) decodeRegisters(regs []value.Reference) {
	t.Value, t.Function, t.Scratch[0], t.Scratch[1] = regs[0], regs[1], regs[2], regs[3]
}

// Capture snapshots the entire stack and register set into an immutable
// heap.Continuation. A captured continuation may be restored any number
// of times; it never captures the heap itself, only references into it.
func (t *Thread) Capture(g *heap.GC) *heap.Continuation {
	return heap.NewContinuation(g, t.PC, t.Stack, t.encodeRegisters())
}

// Restore overwrites the stack and registers from c and sets PC to
// resume there. The frame pointer is not part of a continuation's
// snapshot: it is recovered from the restored stack's call markers as
// execution unwinds, the same as any other return.
func (t *Thread) Restore(c *heap.Continuation) {
	t.Stack = append([]value.Reference(nil), c.Stack...)
	if len(c.Registers) == registerCount {
		t.decodeRegisters(c.Registers)
	}
	t.PC = c.PC
}
