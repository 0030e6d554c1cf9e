package vm

import (
	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/module"
	"github.com/huskvm/husk/thread"
	"github.com/huskvm/husk/value"
)

// sentinelReturn is the PC a synchronous handler invocation (see
// closureHandler) pushes as its return address: not a real code offset,
// it tells Run to stop decoding rather than continue into whatever code
// happens to sit at that offset.
const sentinelReturn = -1

// Program is the static input to one VM run: a code vector plus the
// constant pool and condition-filter table instructions index into.
type Program struct {
	Code      []Instr
	Constants []value.Reference
	Filters   []*condition.Type
}

// VM ties a Program to one thread and the surrounding runtime: the heap
// allocator, the module registry, the condition lattice, and the
// default handler a raise falls through to when no trap matches.
type VM struct {
	G       *heap.GC
	Symtab  *heap.SymbolTable
	Modules *module.Registry
	Lattice *condition.Lattice
	Default *condition.DefaultHandler

	Program *Program
	Thread  *thread.Thread
}

// New returns a VM ready to run prog against th.
func New(g *heap.GC, symtab *heap.SymbolTable, modules *module.Registry, lattice *condition.Lattice, def *condition.DefaultHandler, prog *Program, th *thread.Thread) *VM {
	g.AddRootProvider(th.Roots)
	return &VM{G: g, Symtab: symtab, Modules: modules, Lattice: lattice, Default: def, Program: prog, Thread: th}
}

// Run decodes and executes instructions until the PC reaches
// sentinelReturn (a synchronous sub-call returning to Go) or a Suspend
// or Abort opcode runs.
func (vm *VM) Run() error {
	for {
		if vm.Thread.PC == sentinelReturn {
			return nil
		}
		halt, err := vm.Step()
		if err != nil {
			return err
		}
		if halt {
			return nil
		}
	}
}

// Step decodes and executes exactly one instruction, returning true if
// execution should stop (suspend or abort).
func (vm *VM) Step() (halt bool, err error) {
	th := vm.Thread
	instr := vm.Program.Code[th.PC]
	pc := th.PC
	th.PC++

	switch instr.Op {
	case OpPushImmediate:
		th.Value = value.Fixnum(instr.A0)
		th.Push(th.Value)
	case OpPushConstant:
		th.Value = vm.Program.Constants[instr.A0]
		th.Push(th.Value)
	case OpPushNil:
		th.Value = value.Nil
		th.Push(th.Value)
	case OpPushTrue:
		th.Value = value.True
		th.Push(th.Value)
	case OpPushFalse:
		th.Value = value.False
		th.Push(th.Value)
	case OpPushUnit:
		th.Value = value.Unspec
		th.Push(th.Value)

	case OpPushValue:
		th.Push(th.Value)

	case OpRefGlobal:
		// Sets the value register only: a global reference used purely
		// to address a callee (the common case, immediately before
		// OpInvoke) must not land on the argument stack. Code that wants
		// the looked-up value as an operand follows with OpPushValue.
		name := vm.Program.Constants[instr.A0].Object().(*heap.Symbol).Name()
		v, rerr := module.Resolve(th.Module, name)
		if rerr != nil {
			return vm.raiseUnbound(name)
		}
		th.Value = v

	case OpSetGlobal:
		name := vm.Program.Constants[instr.A0].Object().(*heap.Symbol).Name()
		v := th.Pop()
		if !th.Module.Set(name, v) {
			return vm.raiseUnbound(name)
		}

	case OpRefLocal:
		frame := th.FramePtr.At(instr.A0)
		th.Value = frame.Slots[instr.A1]

	case OpNewFrame:
		th.FramePtr = heap.NewFrame(vm.G, th.FramePtr, instr.A0)

	case OpTailExtend:
		if cl, ok := th.Value.Object().(*heap.Closure); ok {
			th.TailEnterClosure(vm.G, cl, instr.A0)
		}

	case OpMakeClosure:
		var name *heap.Symbol
		var doc *heap.String
		if instr.A1 >= 0 {
			name, _ = vm.Program.Constants[instr.A1].Object().(*heap.Symbol)
		}
		if instr.A2 >= 0 {
			doc, _ = vm.Program.Constants[instr.A2].Object().(*heap.String)
		}
		cl := heap.NewClosure(vm.G, instr.A0, th.FramePtr, name, doc)
		th.Value = value.Pointer(cl)
		th.Push(th.Value)

	case OpInvoke:
		if err := vm.invoke(pc, instr.A0, false); err != nil {
			return true, err
		}

	case OpTailInvoke:
		if err := vm.invoke(pc, instr.A0, true); err != nil {
			return true, err
		}

	case OpReturn:
		// The callee leaves exactly one result on the stack, above the
		// call marker; pop it before PopCall restores the caller's
		// state, then push it back so the resumed caller finds it
		// exactly where an inline primitive result would have landed.
		result := th.Pop()
		th.PopCall()
		th.Value = result
		th.Push(result)

	case OpJump:
		th.PC = pc + instr.A0

	case OpBranchFalse:
		if !th.Value.Truthy() {
			th.PC = pc + instr.A0
		}

	case OpSuspend:
		return true, nil

	case OpAbort:
		return true, nil

	case OpPushDynamic:
		th.PushDynamic(th.Pop())
	case OpPopDynamic:
		th.PopDynamic()
	case OpPushEnviron:
		th.PushEnviron(th.Pop())
	case OpPopEnviron:
		th.PopEnviron()

	case OpPushTrap:
		filter := vm.Program.Filters[instr.A0]
		cl := vm.Program.Constants[instr.A1].Object().(*heap.Closure)
		resumePC := instr.A2
		th.PushTrap(condition.Trap{Filter: filter, Handler: vm.closureHandler(cl, resumePC)})
	case OpPopTrap:
		th.PopTrap()

	case OpCaptureContinuation:
		cont := th.Capture(vm.G)
		th.Value = value.Pointer(cont)
		th.Push(th.Value)
	case OpRestoreContinuation:
		cont := th.Pop().Object().(*heap.Continuation)
		th.Restore(cont)
	}
	return false, nil
}

func (vm *VM) raiseUnbound(name string) (bool, error) {
	t, _ := vm.Lattice.Lookup("^rt-module-symbol-unbound-error")
	c := condition.New(vm.G, t, map[string]value.Reference{
		"message": value.Pointer(heap.NewString(vm.G, "unbound: "+name)),
	})
	if _, err := condition.Raise(vm.Thread, vm.Default, false, c); err != nil {
		return true, err
	}
	return false, nil
}

// invoke pops argc arguments off the stack and transfers control into
// whatever value is in the value register: a closure (push a call
// marker, allocate/reuse a frame, jump) or a primitive (call it
// synchronously and push the result).
func (vm *VM) invoke(pc int64, argc int64, tail bool) error {
	th := vm.Thread
	switch callee := th.Value.Object().(type) {
	case *heap.Closure:
		if !tail {
			// EnterClosure must run first, while the top argc stack
			// slots are still the real arguments; the call marker is
			// pushed afterward so it never sits where EnterClosure (or
			// a closure invoked from one of these stages) would read it
			// as an argument.
			callerFrame, callerModule := th.FramePtr, th.Module
			th.EnterClosure(vm.G, callee, argc)
			th.Push(value.Fixnum(pc + 1))
			th.Push(value.Pointer(callerModule))
			if callerFrame != nil {
				th.Push(value.Pointer(callerFrame))
			} else {
				th.Push(value.Nil)
			}
			th.Push(value.Fixnum(argc))
		} else {
			th.TailEnterClosure(vm.G, callee, argc)
		}
		return nil

	case *heap.Primitive:
		args := make([]value.Reference, argc)
		for i := argc - 1; i >= 0; i-- {
			args[i] = th.Pop()
		}
		if !callee.Varargs && int64(callee.Arity) != argc {
			t, _ := vm.Lattice.Lookup("^rt-function-arity-error")
			c := condition.New(vm.G, t, map[string]value.Reference{
				"message": value.Pointer(heap.NewString(vm.G, "wrong number of arguments")),
			})
			rv, err := condition.Raise(th, vm.Default, false, c)
			if err != nil {
				return err
			}
			th.Value = rv
			th.Push(rv)
			return nil
		}
		result, err := callee.Fn(args)
		var condName string
		msg := ""
		switch err {
		case errDivideByZero:
			condName, msg = "^rt-divide-by-zero-error", "divide by zero"
		case heap.ErrArrayBounds:
			condName, msg = "^rt-array-bounds-error", err.Error()
		case heap.ErrHashKeyMissing:
			condName, msg = "^rt-hash-key-not-found-error", err.Error()
		case heap.ErrWrongKind, heap.ErrImproperList:
			condName, msg = "^rt-parameter-type-error", err.Error()
		}
		if condName != "" {
			t, _ := vm.Lattice.Lookup(condName)
			c := condition.New(vm.G, t, map[string]value.Reference{
				"message": value.Pointer(heap.NewString(vm.G, msg)),
			})
			rv, rerr := condition.Raise(th, vm.Default, false, c)
			if rerr != nil {
				return rerr
			}
			th.Value = rv
			th.Push(rv)
			return nil
		}
		if err != nil {
			return err
		}
		th.Value = result
		th.Push(result)
		return nil

	default:
		t, _ := vm.Lattice.Lookup("^rt-function-error")
		c := condition.New(vm.G, t, map[string]value.Reference{
			"message": value.Pointer(heap.NewString(vm.G, "value is not invocable")),
		})
		rv, err := condition.Raise(th, vm.Default, false, c)
		if err != nil {
			return err
		}
		th.Value = rv
		th.Push(rv)
		return nil
	}
}

// closureHandler adapts a heap.Closure, installed via OpPushTrap, into a
// condition.Handler by running it synchronously: push the condition as
// its sole argument, enter it with a sentinel return address, and run
// the VM loop until that address is reached. resumePC is where execution
// continues in the outer program after the handler's own return.
func (vm *VM) closureHandler(cl *heap.Closure, resumePC int64) condition.Handler {
	return func(c *condition.Instance) (value.Reference, error) {
		th := vm.Thread
		th.PushCall(sentinelReturn, 1)
		th.Push(value.Pointer(c.SI))
		th.EnterClosure(vm.G, cl, 1)
		if err := vm.Run(); err != nil {
			return value.Nil, err
		}
		// OpReturn pushed the handler's result for a bytecode caller
		// that doesn't exist here; consume it directly instead of
		// leaving it on the stack the outer raise site resumes with.
		result := th.Pop()
		th.PC = resumePC
		return result, nil
	}
}
