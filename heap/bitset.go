package heap

import "github.com/huskvm/husk/value"

// Bitset is a fixed-size bit array heap object.
type Bitset struct {
	header Header
	bits   []uint64
	size   int64
}

// NewBitset allocates a bitset of size bits, all clear.
func NewBitset(g *GC, size int64) *Bitset {
	b := &Bitset{header: newHeader("bitset"), bits: make([]uint64, (size+63)/64), size: size}
	g.track(&b.header, b, int64(24+8*len(b.bits)))
	return b
}

func (b *Bitset) ObjectKind() string             { return b.header.kind }
func (b *Bitset) header() *Header                { return &b.header }
func (b *Bitset) EachChild(func(value.Reference)) {}

// Size returns the number of addressable bits.
func (b *Bitset) Size() int64 { return b.size }

// Get reports bit i.
func (b *Bitset) Get(i int64) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.bits[i/64]&(uint64(1)<<(uint64(i)%64)) != 0
}

// Set assigns bit i.
func (b *Bitset) Set(i int64, v bool) {
	if i < 0 || i >= b.size {
		return
	}
	if v {
		b.bits[i/64] |= uint64(1) << (uint64(i) % 64)
	} else {
		b.bits[i/64] &^= uint64(1) << (uint64(i) % 64)
	}
}

// CPointer wraps foreign data opaque to the GC: the collector tracks its
// header for lifetime purposes but never traces into Data.
type CPointer struct {
	header Header
	Tag    string
	Data   interface{}
}

// NewCPointer allocates a wrapper around foreign data, optionally with a
// finalizer run when the wrapper becomes unreachable.
func NewCPointer(g *GC, tag string, data interface{}, finalizer func(value.Object)) *CPointer {
	c := &CPointer{header: newHeader("C-pointer"), Tag: tag, Data: data}
	g.track(&c.header, c, 32)
	if finalizer != nil {
		g.SetFinalizer(c, finalizer)
	}
	return c
}

func (c *CPointer) ObjectKind() string             { return c.header.kind }
func (c *CPointer) header() *Header                { return &c.header }
func (c *CPointer) EachChild(func(value.Reference)) {}
