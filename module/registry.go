// Package module is the top-level module registry: it wraps heap.Module
// with process-wide name-to-module lookup and primitive registration
// metadata, the layer above heap's module object that a loader or the
// VM's global-reference opcodes actually call into.
package module

import (
	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// Registry is the process-wide table of loaded modules, indexed by name.
type Registry struct {
	g       *heap.GC
	symtab  *heap.SymbolTable
	modules map[string]*heap.Module
}

// NewRegistry returns an empty registry.
func NewRegistry(g *heap.GC, symtab *heap.SymbolTable) *Registry {
	r := &Registry{g: g, symtab: symtab, modules: make(map[string]*heap.Module)}
	g.AddRootProvider(r.roots)
	return r
}

func (r *Registry) roots() []value.Reference {
	refs := make([]value.Reference, 0, len(r.modules))
	for _, m := range r.modules {
		refs = append(refs, value.Pointer(m))
	}
	return refs
}

// Load returns the module named name, creating an empty one on first use.
func (r *Registry) Load(name string) *heap.Module {
	if m, ok := r.modules[name]; ok {
		return m
	}
	m := heap.NewModule(r.g, r.symtab.Intern(name))
	r.modules[name] = m
	return m
}

// Find looks up an already-loaded module without creating one.
func (r *Registry) Find(name string) (*heap.Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// PrimitiveSpec is the metadata used to register one native function into
// a module: its name, arity, varargs flag and a one-line docstring.
type PrimitiveSpec struct {
	Name    string
	Arity   int
	Varargs bool
	Doc     string
	Fn      heap.PrimitiveFn
}

// RegisterPrimitives defines every spec in specs into m as an exported
// binding, the way a bootstrap module populates its initial namespace.
func RegisterPrimitives(g *heap.GC, symtab *heap.SymbolTable, m *heap.Module, specs []PrimitiveSpec) {
	for _, spec := range specs {
		var doc *heap.String
		if spec.Doc != "" {
			doc = heap.NewString(g, spec.Doc)
		}
		prim := heap.NewPrimitive(g, symtab.Intern(spec.Name), spec.Arity, spec.Varargs, doc, spec.Fn)
		m.Define(spec.Name, value.Pointer(prim), true)
	}
}
