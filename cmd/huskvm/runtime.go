// Command huskvm is the front end for the husk runtime: a bytecode
// interpreter, not a source-level Lisp — the bootstrap files it loads
// (via the asm package) and the conditions it raises are the contract
// between this CLI and whatever upstream compiler or REPL produced them.
//
// Laid out the way the teacher's viewcore tool separates "load a core
// dump, then dispatch to a command" (cmd/viewcore/main.go), generalized
// to cobra's command tree (cmd/viewcore/objref.go's one cobra-wired
// command is the only precedent for that library in the teacher) for
// run/heap/repl instead of a bare flag switch.
package main

import (
	"fmt"
	"os"

	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/env"
	"github.com/huskvm/husk/handle"
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/module"
	"github.com/huskvm/husk/thread"
	"github.com/huskvm/husk/vm"
)

// runtime bundles everything a bootstrap file needs to run: the heap,
// symbol table, module registry, condition lattice and default handler.
// One runtime backs exactly one thread; the repl builds a fresh VM over
// that thread for each input line.
type runtime struct {
	g       *heap.GC
	symtab  *heap.SymbolTable
	lattice *condition.Lattice
	modules *module.Registry
	def     *condition.DefaultHandler
	core    *heap.Module
}

// newRuntime wires a fresh GC, interning table, module registry and
// condition lattice together and populates the "core" module with the
// built-in primitive table, the way a bootstrap module loader would
// before handing control to user code. Diagnostics from an unhandled
// condition go to stderr; debugger is nil for a non-interactive run and
// is filled in by the repl command.
func newRuntime(interactive bool, debugger condition.DebuggerEntry) *runtime {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	lattice := condition.NewLattice(g, symtab)
	modules := module.NewRegistry(g, symtab)
	core := modules.Load("core")
	module.RegisterPrimitives(g, symtab, core, vm.Builtins(g))

	errOut := handle.WrapFile("<stderr>", os.Stderr, "w")
	def := condition.NewDefaultHandler(errOut, interactive)
	def.Debugger = debugger

	return &runtime{g: g, symtab: symtab, lattice: lattice, modules: modules, def: def, core: core}
}

// newThread returns a thread reading from in and writing to out/errH,
// starting in the "core" module.
func (rt *runtime) newThread(in, out, errH *handle.Handle) *thread.Thread {
	return thread.New(rt.core, in, out, errH)
}

// newVM ties prog to the given thread over rt's heap/module/condition
// stack.
func (rt *runtime) newVM(prog *vm.Program, th *thread.Thread) *vm.VM {
	return vm.New(rt.g, rt.symtab, rt.modules, rt.lattice, rt.def, prog, th)
}

// environBindings formats the startup environment a bootstrap file's
// process would have inherited, read once from the host the way
// spec.md's external module/environment loader is expected to.
func environBindings() string {
	start := env.Load(os.Args[0])
	return fmt.Sprintf("PATH=%s\nPWD=%s\nIDIOLIB=%s\nIFS=%q\n", start.Path, start.PWD, start.IDIOLIB, start.IFS)
}

// fatalCondition prints a condition's diagnostic to stderr and returns
// the process exit code spec.md §6 specifies: non-zero on a fatal,
// unhandled raise reaching the top level.
func fatalCondition(err error) int {
	if inst, ok := err.(*condition.Instance); ok {
		fmt.Fprintln(os.Stderr, condition.Format(inst))
		return 1
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}
