package thread

import (
	"testing"

	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

func TestPushPop(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	m := heap.NewModule(g, symtab.Intern("test"))
	th := New(m, nil, nil, nil)
	th.Push(value.Fixnum(1))
	th.Push(value.Fixnum(2))
	if th.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", th.Depth())
	}
	if v := th.Pop(); v.AsFixnum() != 2 {
		t.Fatalf("Pop() = %v, want 2", v)
	}
	if v := th.Pop(); v.AsFixnum() != 1 {
		t.Fatalf("Pop() = %v, want 1", v)
	}
}

func TestCallProtocolRoundTrips(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	m := heap.NewModule(g, symtab.Intern("test"))
	th := New(m, nil, nil, nil)
	th.PC = 100

	th.PushCall(100, 2)
	// simulate opcodes running inside the call, growing the stack
	th.Push(value.Fixnum(999))

	th.Pop() // discard the simulated in-call push for this test
	pc, argc := th.PopCall()
	if pc != 100 || argc != 2 {
		t.Fatalf("PopCall() = %d, %d, want 100, 2", pc, argc)
	}
	if th.Module != m {
		t.Fatal("PopCall should restore the calling module")
	}
	if th.Depth() != 0 {
		t.Fatalf("stack should be empty after a round-tripped call, depth=%d", th.Depth())
	}
}

func TestEnterClosureAllocatesFrame(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	m := heap.NewModule(g, symtab.Intern("test"))
	th := New(m, nil, nil, nil)

	cl := heap.NewClosure(g, 42, nil, symtab.Intern("f"), nil)
	th.Push(value.Fixnum(10))
	th.Push(value.Fixnum(20))
	th.EnterClosure(g, cl, 2)

	if th.PC != 42 {
		t.Fatalf("PC = %d, want 42", th.PC)
	}
	if th.FramePtr == nil || len(th.FramePtr.Slots) != 2 {
		t.Fatal("expected a 2-slot frame")
	}
	if th.FramePtr.Slots[0].AsFixnum() != 10 || th.FramePtr.Slots[1].AsFixnum() != 20 {
		t.Fatalf("frame slots = %v, %v, want 10, 20 in argument order", th.FramePtr.Slots[0], th.FramePtr.Slots[1])
	}
}

func TestCaptureRestoreContinuation(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	m := heap.NewModule(g, symtab.Intern("test"))
	th := New(m, nil, nil, nil)
	th.Push(value.Fixnum(1))
	th.Push(value.Fixnum(2))
	th.Value = value.Fixnum(77)
	th.PC = 55

	cont := th.Capture(g)

	th.Push(value.Fixnum(3))
	th.Value = value.Fixnum(0)
	th.PC = 0

	th.Restore(cont)
	if th.PC != 55 {
		t.Fatalf("PC after restore = %d, want 55", th.PC)
	}
	if th.Value.AsFixnum() != 77 {
		t.Fatalf("Value after restore = %v, want 77", th.Value)
	}
	if th.Depth() != 2 {
		t.Fatalf("Depth() after restore = %d, want 2", th.Depth())
	}

	// restoring a second time must still work: a continuation is multi-shot.
	th.Push(value.Fixnum(999))
	th.Restore(cont)
	if th.Depth() != 2 {
		t.Fatalf("second restore: Depth() = %d, want 2", th.Depth())
	}
}

func TestTrapLookupScansNewestFirstAndMatchesAncestor(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	m := heap.NewModule(g, symtab.Intern("test"))
	th := New(m, nil, nil, nil)
	lattice := condition.NewLattice(g, symtab)

	runtimeErr, _ := lattice.Lookup("^runtime-error")
	divByZero, _ := lattice.Lookup("^rt-divide-by-zero-error")

	outer := false
	inner := false
	th.PushTrap(condition.Trap{Filter: runtimeErr, Handler: func(c *condition.Instance) (value.Reference, error) {
		outer = true
		return value.Unspec, nil
	}})
	th.PushTrap(condition.Trap{Filter: divByZero, Handler: func(c *condition.Instance) (value.Reference, error) {
		inner = true
		return value.Unspec, nil
	}})

	c := condition.New(g, divByZero, nil)
	trap, ok := th.TopTrap(c.Type)
	if !ok {
		t.Fatal("expected a matching trap")
	}
	trap.Handler(c)
	if !inner || outer {
		t.Fatal("the most recently installed matching trap should win")
	}

	th.PopTrap()
	trap, ok = th.TopTrap(c.Type)
	if !ok {
		t.Fatal("expected the outer trap to still match after popping the inner one")
	}
	trap.Handler(c)
	if !outer {
		t.Fatal("after popping the specific trap, the ancestor trap should match")
	}
}

func TestDynamicVariableChain(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	m := heap.NewModule(g, symtab.Intern("test"))
	th := New(m, nil, nil, nil)

	th.PushDynamic(value.Fixnum(1))
	th.PushDynamic(value.Fixnum(2))
	if th.CurrentDynamic().AsFixnum() != 2 {
		t.Fatalf("CurrentDynamic() = %v, want 2", th.CurrentDynamic())
	}
	th.PopDynamic()
	if th.CurrentDynamic().AsFixnum() != 1 {
		t.Fatalf("CurrentDynamic() after pop = %v, want 1", th.CurrentDynamic())
	}
	th.PopDynamic()
	if th.DynamicSP != -1 {
		t.Fatalf("DynamicSP = %d, want -1 once the chain is empty", th.DynamicSP)
	}
}
