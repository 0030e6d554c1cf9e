// Package vm implements the opcode decoder and execution loop: the
// single-goroutine-owns-the-state dispatch shape of a debugger's command
// server, repurposed from stepping a traced process to interpreting
// bytecode against a thread.Thread.
package vm

// Op identifies one VM instruction. The concrete numeric encoding is not
// load-bearing; what matters is the opcode families and their semantics.
type Op int

const (
	OpPushImmediate Op = iota
	OpPushConstant
	OpPushNil
	OpPushTrue
	OpPushFalse
	OpPushUnit
	OpPushValue // pushes the current value register without altering it

	OpRefGlobal
	OpSetGlobal

	OpRefLocal
	OpNewFrame
	OpTailExtend

	OpMakeClosure
	OpInvoke
	OpTailInvoke
	OpReturn

	OpJump
	OpBranchFalse
	OpSuspend
	OpAbort

	OpPushDynamic
	OpPopDynamic
	OpPushEnviron
	OpPopEnviron

	OpPushTrap
	OpPopTrap

	OpCaptureContinuation
	OpRestoreContinuation
)

// Instr is one decoded instruction: an opcode plus its packed operands.
// A0/A1/A2 are interpreted per-opcode (e.g. OpRefLocal uses A0 as depth
// and A1 as slot; OpJump uses A0 as a relative offset).
type Instr struct {
	Op Op
	A0 int64
	A1 int64
	A2 int64
}
