// Package condition implements the structured error hierarchy every
// fallible heap/VM operation raises into: a lattice of struct-instance
// types rooted at ^condition, a default-handler registry, and the
// restart/reset meta-handlers for conditions nobody traps.
package condition

import "github.com/huskvm/husk/heap"

// Type names one node of the condition lattice: its struct-type plus the
// field names declared at that node (inherited fields are walked through
// the parent chain by heap.StructType itself).
type Type struct {
	ST     *heap.StructType
	Name   string
	Fields []string
}

// Lattice is every built-in condition type, indexed by name, each linked
// to its parent via ST.Parent.
type Lattice struct {
	byName map[string]*Type
	Root   *Type // ^condition
}

type nodeSpec struct {
	name   string
	parent string // "" for the root
	fields []string
}

// builtinNodes enumerates the full built-in lattice, parent first so each
// child's parent is always already built.
var builtinNodes = []nodeSpec{
	{"^condition", "", nil},
	{"^message", "^condition", nil},
	{"^error", "^condition", nil},
	{"^idio-error", "^error", []string{"message", "location", "detail"}},
	{"^i/o-error", "^idio-error", nil},
	{"^i/o-handle-error", "^i/o-error", nil},
	{"^i/o-read-error", "^i/o-error", nil},
	{"^i/o-write-error", "^i/o-error", nil},
	{"^i/o-closed-error", "^i/o-error", nil},
	{"^i/o-filename-error", "^i/o-error", nil},
	{"^i/o-malformed-filename-error", "^i/o-filename-error", nil},
	{"^i/o-file-protection-error", "^i/o-filename-error", nil},
	{"^i/o-file-is-read-only-error", "^i/o-filename-error", nil},
	{"^i/o-file-already-exists-error", "^i/o-filename-error", nil},
	{"^i/o-no-such-file-error", "^i/o-filename-error", nil},
	{"^read-error", "^idio-error", []string{"line", "position"}},
	{"^evaluation-error", "^idio-error", []string{"expr"}},
	{"^system-error", "^idio-error", []string{"errno"}},
	{"^static-error", "^idio-error", nil},
	{"^st-variable-error", "^static-error", nil},
	{"^st-variable-type-error", "^st-variable-error", nil},
	{"^st-function-error", "^static-error", nil},
	{"^st-function-arity-error", "^st-function-error", nil},
	{"^runtime-error", "^idio-error", nil},
	{"^rt-parameter-error", "^runtime-error", nil},
	{"^rt-parameter-type-error", "^rt-parameter-error", nil},
	{"^rt-const-parameter-error", "^rt-parameter-error", nil},
	{"^rt-parameter-nil-error", "^rt-parameter-error", nil},
	{"^rt-variable-error", "^runtime-error", nil},
	{"^rt-variable-unbound-error", "^rt-variable-error", nil},
	{"^rt-dynamic-variable-error", "^runtime-error", nil},
	{"^rt-dynamic-variable-unbound-error", "^rt-dynamic-variable-error", nil},
	{"^rt-environ-variable-error", "^runtime-error", nil},
	{"^rt-environ-variable-unbound-error", "^rt-environ-variable-error", nil},
	{"^rt-computed-variable-error", "^runtime-error", nil},
	{"^rt-computed-variable-no-accessor-error", "^rt-computed-variable-error", nil},
	{"^rt-function-error", "^runtime-error", nil},
	{"^rt-function-arity-error", "^rt-function-error", nil},
	{"^rt-module-error", "^runtime-error", nil},
	{"^rt-module-unbound-error", "^rt-module-error", nil},
	{"^rt-module-symbol-unbound-error", "^rt-module-error", nil},
	{"^rt-glob-error", "^runtime-error", nil},
	{"^rt-array-bounds-error", "^runtime-error", nil},
	{"^rt-hash-key-not-found-error", "^runtime-error", nil},
	{"^rt-bignum-conversion-error", "^runtime-error", nil},
	{"^rt-fixnum-conversion-error", "^runtime-error", nil},
	{"^rt-divide-by-zero-error", "^runtime-error", nil},
	{"^rt-command-argv-type-error", "^runtime-error", nil},
	{"^rt-command-forked-error", "^runtime-error", nil},
	{"^rt-command-env-type-error", "^runtime-error", nil},
	{"^rt-command-exec-error", "^runtime-error", nil},
	{"^rt-command-status-error", "^runtime-error", nil},
	{"^rt-signal", "^runtime-error", []string{"signum"}},
}

// NewLattice builds every built-in condition type on g, interning type
// names through symtab.
func NewLattice(g *heap.GC, symtab *heap.SymbolTable) *Lattice {
	l := &Lattice{byName: make(map[string]*Type, len(builtinNodes))}
	for _, spec := range builtinNodes {
		var parent *heap.StructType
		if spec.parent != "" {
			p, ok := l.byName[spec.parent]
			if !ok {
				panic("condition: parent " + spec.parent + " not yet built for " + spec.name)
			}
			parent = p.ST
		}
		fieldSyms := make([]*heap.Symbol, len(spec.fields))
		for i, f := range spec.fields {
			fieldSyms[i] = symtab.Intern(f)
		}
		st := heap.NewStructType(g, symtab.Intern(spec.name), parent, fieldSyms)
		t := &Type{ST: st, Name: spec.name, Fields: spec.fields}
		l.byName[spec.name] = t
		if spec.name == "^condition" {
			l.Root = t
		}
	}
	return l
}

// Lookup returns the built-in type named name.
func (l *Lattice) Lookup(name string) (*Type, bool) {
	t, ok := l.byName[name]
	return t, ok
}

// IsAncestor reports whether ancestor is t or one of t's ancestors.
func IsAncestor(ancestor, t *heap.StructType) bool {
	return t.Isa(ancestor)
}

