// Package asm implements the bootstrap-file loader the "run" and "repl"
// front ends read: a line-oriented mnemonic text format for a
// vm.Program, standing in for the expression-tree compiler that spec.md
// names as an external collaborator out of this runtime's scope. It is
// deliberately closer to an assembler than a compiler: one line, one
// instruction, no expressions.
package asm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/huskvm/husk/condition"
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
	"github.com/huskvm/husk/vm"
)

var mnemonics = map[string]vm.Op{
	"push-immediate": vm.OpPushImmediate,
	"push-constant":  vm.OpPushConstant,
	"push-nil":       vm.OpPushNil,
	"push-true":      vm.OpPushTrue,
	"push-false":     vm.OpPushFalse,
	"push-unit":      vm.OpPushUnit,
	"push-value":     vm.OpPushValue,

	"ref-global": vm.OpRefGlobal,
	"set-global": vm.OpSetGlobal,

	"ref-local":   vm.OpRefLocal,
	"new-frame":   vm.OpNewFrame,
	"tail-extend": vm.OpTailExtend,

	"make-closure": vm.OpMakeClosure,
	"invoke":       vm.OpInvoke,
	"tail-invoke":  vm.OpTailInvoke,
	"return":       vm.OpReturn,

	"jump":         vm.OpJump,
	"branch-false": vm.OpBranchFalse,
	"suspend":      vm.OpSuspend,
	"abort":        vm.OpAbort,

	"push-dynamic": vm.OpPushDynamic,
	"pop-dynamic":  vm.OpPopDynamic,
	"push-environ": vm.OpPushEnviron,
	"pop-environ":  vm.OpPopEnviron,

	"push-trap": vm.OpPushTrap,
	"pop-trap":  vm.OpPopTrap,

	"capture-continuation": vm.OpCaptureContinuation,
	"restore-continuation": vm.OpRestoreContinuation,
}

// relativeSlot reports which operand slot (0, 1 or 2), if any, a jump
// target in op is measured relative to the instruction's own address
// rather than absolute, mirroring vm.Step's own "pc + instr.A0" math for
// OpJump/OpBranchFalse. Every other label-valued slot (a closure's code
// entry, a trap's resume address) is absolute.
func relativeSlot(op vm.Op) int {
	switch op {
	case vm.OpJump, vm.OpBranchFalse:
		return 0
	default:
		return -1
	}
}

// Assembler turns bootstrap source text into a vm.Program, interning
// symbol and string constants onto the GC and heap it was built with.
type Assembler struct {
	g       *heap.GC
	symtab  *heap.SymbolTable
	lattice *condition.Lattice
}

// New returns an Assembler that allocates constants through g/symtab and
// resolves .filter directives against lattice.
func New(g *heap.GC, symtab *heap.SymbolTable, lattice *condition.Lattice) *Assembler {
	return &Assembler{g: g, symtab: symtab, lattice: lattice}
}

type rawInstr struct {
	op   vm.Op
	name string
	toks []string
	pc   int64
}

// Assemble parses src into a Program. Lines are either a constant/filter
// directive (.sym, .str, .fix, .filter), a "label:" definition, or
// "mnemonic [arg...]"; ";" starts a line comment. Jump/branch-false
// targets and a closure's code entry/a trap's resume address may name a
// label instead of a literal integer.
func (a *Assembler) Assemble(src string) (*vm.Program, error) {
	prog := &vm.Program{}
	labels := make(map[string]int64)
	var raws []rawInstr
	var pc int64

	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, ".sym "):
			name, err := unquote(strings.TrimSpace(line[len(".sym "):]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			prog.Constants = append(prog.Constants, value.Pointer(a.symtab.Intern(name)))
			continue

		case strings.HasPrefix(line, ".str "):
			text, err := unquote(strings.TrimSpace(line[len(".str "):]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			prog.Constants = append(prog.Constants, value.Pointer(heap.NewString(a.g, text)))
			continue

		case strings.HasPrefix(line, ".fix "):
			n, err := strconv.ParseInt(strings.TrimSpace(line[len(".fix "):]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			prog.Constants = append(prog.Constants, value.Fixnum(n))
			continue

		case strings.HasPrefix(line, ".filter "):
			name, err := unquote(strings.TrimSpace(line[len(".filter "):]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			t, ok := a.lattice.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("line %d: unknown condition type %q", lineNo, name)
			}
			prog.Filters = append(prog.Filters, t)
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.ContainsAny(line, " \t") {
			labels[strings.TrimSuffix(line, ":")] = pc
			continue
		}

		toks := strings.Fields(line)
		op, ok := mnemonics[toks[0]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown instruction %q", lineNo, toks[0])
		}
		raws = append(raws, rawInstr{op: op, name: toks[0], toks: toks[1:], pc: pc})
		pc++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	code := make([]vm.Instr, len(raws))
	for i, r := range raws {
		instr := vm.Instr{Op: r.op}
		slots := [3]*int64{&instr.A0, &instr.A1, &instr.A2}
		rel := relativeSlot(r.op)
		for slot, tok := range r.toks {
			if slot > 2 {
				return nil, fmt.Errorf("instruction %d (%s): too many operands", i, r.name)
			}
			v, err := resolveOperand(tok, labels, r.pc, slot == rel)
			if err != nil {
				return nil, fmt.Errorf("instruction %d (%s): %v", i, r.name, err)
			}
			*slots[slot] = v
		}
		code[i] = instr
	}
	prog.Code = code
	return prog, nil
}

func resolveOperand(tok string, labels map[string]int64, instrPC int64, relative bool) (int64, error) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n, nil
	}
	target, ok := labels[tok]
	if !ok {
		return 0, fmt.Errorf("undefined label %q", tok)
	}
	if relative {
		return target - instrPC, nil
	}
	return target, nil
}

func unquote(s string) (string, error) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], nil
	}
	return "", fmt.Errorf("expected a quoted string, got %q", s)
}
