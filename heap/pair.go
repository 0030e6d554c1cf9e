package heap

import "github.com/huskvm/husk/value"

const pairSize = 40 // two References plus header, a rough accounting unit

// Pair is the classic cons cell: the building block of lists.
type Pair struct {
	header Header
	Head   value.Reference
	Tail   value.Reference
}

// NewPair allocates a cons cell (head . tail).
func NewPair(g *GC, head, tail value.Reference) *Pair {
	p := &Pair{header: newHeader("pair"), Head: head, Tail: tail}
	g.track(&p.header, p, pairSize)
	return p
}

func (p *Pair) ObjectKind() string { return p.header.kind }
func (p *Pair) header() *Header    { return &p.header }

func (p *Pair) EachChild(fn func(value.Reference)) {
	fn(p.Head)
	fn(p.Tail)
}

// Cons builds a Reference holding a new pair.
func Cons(g *GC, head, tail value.Reference) value.Reference {
	return value.Pointer(NewPair(g, head, tail))
}

// IsProperList reports whether r is nil or a chain of pairs terminated by nil.
func IsProperList(r value.Reference) bool {
	for {
		if r.IsNil() {
			return true
		}
		p, ok := r.Object().(*Pair)
		if !ok {
			return false
		}
		r = p.Tail
	}
}

// ListLength returns the length of a proper list, or ErrImproperList if
// r is not nil-terminated.
func ListLength(r value.Reference) (int64, error) {
	var n int64
	for {
		if r.IsNil() {
			return n, nil
		}
		p, ok := r.Object().(*Pair)
		if !ok {
			return 0, ErrImproperList
		}
		n++
		r = p.Tail
	}
}

// AppendList copies the left list and shares the right: only the new
// spine is freshly allocated, its tail cons cells shared with right.
func AppendList(g *GC, left, right value.Reference) (value.Reference, error) {
	if left.IsNil() {
		return right, nil
	}
	p, ok := left.Object().(*Pair)
	if !ok {
		return value.Nil, ErrImproperList
	}
	tail, err := AppendList(g, p.Tail, right)
	if err != nil {
		return value.Nil, err
	}
	return Cons(g, p.Head, tail), nil
}
