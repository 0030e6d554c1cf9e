package heap

import "github.com/huskvm/husk/value"

// Module is a named scope owning bindings and imports. It is itself a
// heap object kind, reachable from the modules that import it, from the
// module registry's roots and from a thread's current-module register.
type Module struct {
	header   Header
	Name     *Symbol
	exports  map[string]bool
	bindings map[string]value.Reference
	Imports  []*Module
}

// NewModule allocates an empty module named name.
func NewModule(g *GC, name *Symbol) *Module {
	m := &Module{
		header:   newHeader("module"),
		Name:     name,
		exports:  make(map[string]bool),
		bindings: make(map[string]value.Reference),
	}
	g.track(&m.header, m, 64)
	return m
}

func (m *Module) ObjectKind() string { return m.header.kind }
func (m *Module) header() *Header    { return &m.header }

func (m *Module) EachChild(fn func(value.Reference)) {
	fn(value.Pointer(m.Name))
	for _, v := range m.bindings {
		fn(v)
	}
	for _, im := range m.Imports {
		fn(value.Pointer(im))
	}
}

// Define binds name within m and, if exported, adds it to the export set.
func (m *Module) Define(name string, v value.Reference, exported bool) {
	m.bindings[name] = v
	if exported {
		m.exports[name] = true
	}
}

// Set updates an already-bound name's value.
func (m *Module) Set(name string, v value.Reference) bool {
	if _, ok := m.bindings[name]; !ok {
		return false
	}
	m.bindings[name] = v
	return true
}

// localLookup resolves name against m's own bindings only.
func (m *Module) localLookup(name string) (value.Reference, bool) {
	v, ok := m.bindings[name]
	return v, ok
}

// Lookup resolves name: local bindings first, then imports in order.
func (m *Module) Lookup(name string) (value.Reference, bool) {
	if v, ok := m.localLookup(name); ok {
		return v, true
	}
	for _, im := range m.Imports {
		if !im.exports[name] {
			continue
		}
		if v, ok := im.localLookup(name); ok {
			return v, true
		}
	}
	return value.Nil, false
}

// Import appends im to m's ordered import list.
func (m *Module) Import(im *Module) {
	m.Imports = append(m.Imports, im)
}
