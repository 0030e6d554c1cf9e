package vm

import (
	"testing"

	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/handle"
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/module"
	"github.com/huskvm/husk/thread"
	"github.com/huskvm/husk/value"
)

type testRig struct {
	g       *heap.GC
	symtab  *heap.SymbolTable
	lattice *condition.Lattice
	def     *condition.DefaultHandler
	modules *module.Registry
	core    *heap.Module
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	lattice := condition.NewLattice(g, symtab)
	out := handle.NewStringReader("<out>", nil)
	def := condition.NewDefaultHandler(out, false)
	modules := module.NewRegistry(g, symtab)
	core := modules.Load("core")
	module.RegisterPrimitives(g, symtab, core, Builtins(g))
	return &testRig{g: g, symtab: symtab, lattice: lattice, def: def, modules: modules, core: core}
}

func (r *testRig) newVM(t *testing.T, prog *Program) *VM {
	t.Helper()
	in := handle.NewStringReader("<in>", nil)
	out, _ := handle.NewStringWriter("<out>")
	errH, _ := handle.NewStringWriter("<err>")
	th := thread.New(r.core, in, out, errH)
	return New(r.g, r.symtab, r.modules, r.lattice, r.def, prog, th)
}

// TestArithmeticPrimitiveCall runs: push 2, push 3, ref-global "+",
// invoke(2), suspend. Expects the value register to hold 5.
func TestArithmeticPrimitiveCall(t *testing.T) {
	rig := newTestRig(t)
	plus := rig.symtab.Intern("+")

	prog := &Program{
		Constants: []value.Reference{value.Pointer(plus)},
		Code: []Instr{
			{Op: OpPushImmediate, A0: 2},
			{Op: OpPushImmediate, A0: 3},
			{Op: OpRefGlobal, A0: 0},
			{Op: OpInvoke, A0: 2},
			{Op: OpSuspend},
		},
	}
	vm := rig.newVM(t, prog)
	if err := vm.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Thread.Value.AsFixnum() != 5 {
		t.Fatalf("value register = %v, want 5", vm.Thread.Value)
	}
}

// TestUnboundGlobalRaisesCondition references a name with no binding and
// expects Run to fail with the unbound-symbol condition as a Go error,
// since no trap and a non-interactive default handler both decline it.
func TestUnboundGlobalRaisesCondition(t *testing.T) {
	rig := newTestRig(t)
	missing := rig.symtab.Intern("no-such-thing")

	prog := &Program{
		Constants: []value.Reference{value.Pointer(missing)},
		Code: []Instr{
			{Op: OpRefGlobal, A0: 0},
			{Op: OpSuspend},
		},
	}
	vm := rig.newVM(t, prog)
	err := vm.Run()
	if err == nil {
		t.Fatal("Run succeeded, want an unbound-symbol condition")
	}
	inst, ok := err.(*condition.Instance)
	if !ok {
		t.Fatalf("err = %T, want *condition.Instance", err)
	}
	rtModule, _ := rig.lattice.Lookup("^rt-module-symbol-unbound-error")
	if !inst.Isa(rtModule) {
		t.Fatalf("condition type = %s, want ^rt-module-symbol-unbound-error", inst.Type.Name)
	}
}

// TestDivideByZeroRaisesCondition checks the primitive-to-condition
// translation path using "/" with a zero divisor.
func TestDivideByZeroRaisesCondition(t *testing.T) {
	rig := newTestRig(t)
	slash := rig.symtab.Intern("/")

	prog := &Program{
		Constants: []value.Reference{value.Pointer(slash)},
		Code: []Instr{
			{Op: OpPushImmediate, A0: 4},
			{Op: OpPushImmediate, A0: 0},
			{Op: OpRefGlobal, A0: 0},
			{Op: OpInvoke, A0: 2},
			{Op: OpSuspend},
		},
	}
	vm := rig.newVM(t, prog)
	err := vm.Run()
	if err == nil {
		t.Fatal("Run succeeded, want a divide-by-zero condition")
	}
	inst, ok := err.(*condition.Instance)
	if !ok {
		t.Fatalf("err = %T, want *condition.Instance", err)
	}
	divZero, _ := rig.lattice.Lookup("^rt-divide-by-zero-error")
	if !inst.Isa(divZero) {
		t.Fatalf("condition type = %s, want ^rt-divide-by-zero-error", inst.Type.Name)
	}
}

// TestTrapHandlesDivideByZero installs a trap whose handler closure
// catches the ^rt-divide-by-zero-error and returns a sentinel fixnum
// instead of letting it propagate, exercising OpPushTrap end to end.
func TestTrapHandlesDivideByZero(t *testing.T) {
	rig := newTestRig(t)
	slash := rig.symtab.Intern("/")
	divZero, _ := rig.lattice.Lookup("^rt-divide-by-zero-error")

	// Handler body: push -1, return. Installed at code offset 10.
	handlerFrame := heap.NewFrame(rig.g, nil, 0)
	handlerClosure := heap.NewClosure(rig.g, 10, handlerFrame, nil, nil)

	prog := &Program{
		Constants: []value.Reference{
			value.Pointer(slash),
			value.Pointer(handlerClosure),
		},
		Filters: []*condition.Type{divZero},
		Code: []Instr{
			/*0*/ {Op: OpPushTrap, A0: 0, A1: 1, A2: 5},
			/*1*/ {Op: OpPushImmediate, A0: 4},
			/*2*/ {Op: OpPushImmediate, A0: 0},
			/*3*/ {Op: OpRefGlobal, A0: 0},
			/*4*/ {Op: OpInvoke, A0: 2},
			/*5*/ {Op: OpPopTrap},
			/*6*/ {Op: OpSuspend},
			/*7*/ {},
			/*8*/ {},
			/*9*/ {},
			/*10*/ {Op: OpPushImmediate, A0: -1},
			/*11*/ {Op: OpReturn},
		},
	}
	vm := rig.newVM(t, prog)
	if err := vm.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Thread.Value.AsFixnum() != -1 {
		t.Fatalf("value register after trapped raise = %v, want -1", vm.Thread.Value)
	}
}

// TestContinuationCaptureRestore captures a continuation with 7 already
// on the stack, then immediately restores it: the snapshot taken by
// Capture predates the continuation reference's own push, so restoring
// must leave the stack holding just the 7, not the continuation too.
func TestContinuationCaptureRestore(t *testing.T) {
	rig := newTestRig(t)
	prog := &Program{
		Code: []Instr{
			{Op: OpPushImmediate, A0: 7},
			{Op: OpCaptureContinuation},
			{Op: OpRestoreContinuation},
			{Op: OpSuspend},
		},
	}
	vm := rig.newVM(t, prog)
	if err := vm.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Thread.Depth() != 1 {
		t.Fatalf("stack depth after restore = %d, want 1", vm.Thread.Depth())
	}
	top := vm.Thread.At(0)
	if top.AsFixnum() != 7 {
		t.Fatalf("restored stack top = %v, want 7", top)
	}
}
