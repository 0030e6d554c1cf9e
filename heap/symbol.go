package heap

import "github.com/huskvm/husk/value"

// Symbol is an interned string: two symbols with the same spelling are
// the identical object, so pointer equality implements symbol uniqueness.
type Symbol struct {
	header Header
	name   string
	id     int64
}

func (s *Symbol) ObjectKind() string             { return s.header.kind }
func (s *Symbol) header() *Header                { return &s.header }
func (s *Symbol) EachChild(func(value.Reference)) {}

// Name returns the symbol's spelling.
func (s *Symbol) Name() string { return s.name }

// SymbolTable interns symbols by spelling. It is itself a GC root,
// registered with a GC via AddRootProvider in NewSymbolTable.
type SymbolTable struct {
	gc      *GC
	byName  map[string]*Symbol
	nextID  int64
}

// NewSymbolTable creates an empty table registered as a root of g.
func NewSymbolTable(g *GC) *SymbolTable {
	t := &SymbolTable{gc: g, byName: make(map[string]*Symbol)}
	g.AddRootProvider(t.roots)
	return t
}

func (t *SymbolTable) roots() []value.Reference {
	refs := make([]value.Reference, 0, len(t.byName))
	for _, s := range t.byName {
		refs = append(refs, value.Pointer(s))
	}
	return refs
}

// Intern returns the unique Symbol for name, allocating it on first use.
func (t *SymbolTable) Intern(name string) *Symbol {
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := &Symbol{header: newHeader("symbol"), name: name, id: t.nextID}
	t.nextID++
	t.gc.track(&s.header, s, int64(24+len(name)))
	t.byName[name] = s
	return s
}

// Lookup returns the interned symbol for name without allocating, if present.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}
