package heap

import "github.com/huskvm/husk/value"

// Closure pairs a code offset with the frame captured at creation time.
type Closure struct {
	header Header
	Code   int64 // entry offset into the owning code vector
	Frame  *Frame
	Name   *Symbol // nil for an anonymous lambda
	Doc    *String // nil if undocumented
}

// NewClosure allocates a closure.
func NewClosure(g *GC, code int64, frame *Frame, name *Symbol, doc *String) *Closure {
	c := &Closure{header: newHeader("closure"), Code: code, Frame: frame, Name: name, Doc: doc}
	g.track(&c.header, c, 48)
	return c
}

func (c *Closure) ObjectKind() string { return c.header.kind }
func (c *Closure) header() *Header    { return &c.header }

func (c *Closure) EachChild(fn func(value.Reference)) {
	if c.Frame != nil {
		fn(value.Pointer(c.Frame))
	}
	if c.Name != nil {
		fn(value.Pointer(c.Name))
	}
	if c.Doc != nil {
		fn(value.Pointer(c.Doc))
	}
}

// PrimitiveFn is the native function pointer a Primitive wraps.
type PrimitiveFn func(args []value.Reference) (value.Reference, error)

// Primitive is a native function: fixed arity, an optional varargs tail,
// a name, and documentation, mirroring how a C runtime's primitive table
// records each builtin.
type Primitive struct {
	header  Header
	Name    *Symbol
	Arity   int
	Varargs bool
	Doc     *String
	Fn      PrimitiveFn
}

// NewPrimitive allocates a primitive wrapping fn.
func NewPrimitive(g *GC, name *Symbol, arity int, varargs bool, doc *String, fn PrimitiveFn) *Primitive {
	p := &Primitive{header: newHeader("primitive"), Name: name, Arity: arity, Varargs: varargs, Doc: doc, Fn: fn}
	g.track(&p.header, p, 48)
	return p
}

func (p *Primitive) ObjectKind() string { return p.header.kind }
func (p *Primitive) header() *Header    { return &p.header }

func (p *Primitive) EachChild(fn func(value.Reference)) {
	if p.Name != nil {
		fn(value.Pointer(p.Name))
	}
	if p.Doc != nil {
		fn(value.Pointer(p.Doc))
	}
}

// Continuation is a captured execution state: a snapshot of the stack and
// a generic register vector, plus the PC to resume at. Invoking it
// restores stack and registers but never the heap, and once captured it
// is immutable.
type Continuation struct {
	header    Header
	Stack     []value.Reference
	Registers []value.Reference
	PC        int64
}

// NewContinuation captures an immutable snapshot. It copies the stack and
// register slices it is given, so the Continuation never aliases them.
func NewContinuation(g *GC, pc int64, stack, registers []value.Reference) *Continuation {
	stackCopy := append([]value.Reference(nil), stack...)
	regCopy := append([]value.Reference(nil), registers...)
	c := &Continuation{header: newHeader("continuation"), Stack: stackCopy, Registers: regCopy, PC: pc}
	g.track(&c.header, c, int64(24+8*(len(stackCopy)+len(regCopy))))
	return c
}

func (c *Continuation) ObjectKind() string { return c.header.kind }
func (c *Continuation) header() *Header    { return &c.header }

func (c *Continuation) EachChild(fn func(value.Reference)) {
	for _, r := range c.Stack {
		fn(r)
	}
	for _, r := range c.Registers {
		fn(r)
	}
}
