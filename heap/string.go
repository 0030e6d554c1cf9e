package heap

import "github.com/huskvm/husk/value"

// String is an immutable byte buffer. A substring shares the parent's
// backing buffer with an offset and length rather than copying.
type String struct {
	header Header
	buf    []byte // owns the bytes only when parent == nil
	parent *String
	off    int64
	length int64
}

// NewString allocates a fresh, owned string.
func NewString(g *GC, s string) *String {
	b := make([]byte, len(s)+1) // trailing NUL for foreign interop
	copy(b, s)
	str := &String{header: newHeader("string"), buf: b, length: int64(len(s))}
	g.track(&str.header, str, int64(24+len(b)))
	return str
}

func (s *String) ObjectKind() string { return s.header.kind }
func (s *String) header() *Header    { return &s.header }

// EachChild reports a substring's parent, whose buffer the view shares.
func (s *String) EachChild(fn func(value.Reference)) {
	if s.parent != nil {
		fn(value.Pointer(s.parent))
	}
}

// Len returns the string's length in bytes.
func (s *String) Len() int64 { return s.length }

// Bytes returns the string's content. The returned slice must not be
// mutated: strings are immutable and a substring may share this buffer
// with other views.
func (s *String) Bytes() []byte {
	root := s.root()
	return root.buf[s.absOff() : s.absOff()+s.length]
}

func (s *String) String() string { return string(s.Bytes()) }

func (s *String) root() *String {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (s *String) absOff() int64 {
	off := s.off
	for p := s.parent; p != nil; p = p.parent {
		off += p.off
	}
	return off
}

// Substring returns a view of s sharing its storage, from off for length
// bytes. The view must lie wholly within s.
func (s *String) Substring(g *GC, off, length int64) (*String, error) {
	if off < 0 || length < 0 || off+length > s.length {
		return nil, ErrArrayBounds
	}
	view := &String{
		header: newHeader("string"),
		parent: s,
		off:    off,
		length: length,
	}
	g.track(&view.header, view, 32)
	return view, nil
}
