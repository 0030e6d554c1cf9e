package heap

import "github.com/huskvm/husk/value"

// EqualFn reports whether two References should be treated as the same key.
type EqualFn func(a, b value.Reference) bool

// HashFn computes a hash code for a key.
type HashFn func(v value.Reference) uint64

// DefaultEqual is identity equality, the hash table's default when no
// custom equality function is supplied.
func DefaultEqual(a, b value.Reference) bool { return a.Is(b) }

// DefaultHash hashes an immediate by its packed payload and a pointer by
// its address, standing in for "address hashing" of a heap object.
func DefaultHash(v value.Reference) uint64 {
	if v.IsImmediate() {
		return uint64(v.Kind())<<56 ^ uint64(hashImmediate(v))
	}
	return addrHash(v.Object())
}

func hashImmediate(v value.Reference) int64 {
	switch v.Kind() {
	case value.KindFixnum:
		return v.AsFixnum()
	case value.KindChar:
		return int64(v.AsChar())
	case value.KindBool:
		if v.AsBool() {
			return 1
		}
		return 0
	default:
		return 0
	}
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotTombstone
)

type hashSlot struct {
	state slotState
	key   value.Reference
	val   value.Reference
}

// Hash is an open-addressed table with user-supplied equality and hash
// functions, tombstone deletion, and power-of-two rehashing.
type Hash struct {
	header    Header
	slots     []hashSlot
	size      int64 // live (non-tombstone) entries
	tombs     int64
	equal     EqualFn
	hash      HashFn
}

const initialHashSlots = 8

// NewHash allocates a hash table. A nil equal/hash pair defaults to
// identity equality and address hashing.
func NewHash(g *GC, equal EqualFn, hash HashFn) *Hash {
	if equal == nil {
		equal = DefaultEqual
	}
	if hash == nil {
		hash = DefaultHash
	}
	h := &Hash{
		header: newHeader("hash"),
		slots:  make([]hashSlot, initialHashSlots),
		equal:  equal,
		hash:   hash,
	}
	g.track(&h.header, h, 24+40*initialHashSlots)
	return h
}

func (h *Hash) ObjectKind() string { return h.header.kind }
func (h *Hash) header() *Header    { return &h.header }

func (h *Hash) EachChild(fn func(value.Reference)) {
	for _, s := range h.slots {
		if s.state == slotFull {
			fn(s.key)
			fn(s.val)
		}
	}
}

// Size returns the number of live (non-tombstone) entries.
func (h *Hash) Size() int64 { return h.size }

func (h *Hash) find(key value.Reference) (idx int, found bool, firstTomb int) {
	firstTomb = -1
	mask := uint64(len(h.slots) - 1)
	i := h.hash(key) & mask
	for probed := uint64(0); probed < uint64(len(h.slots)); probed++ {
		s := &h.slots[i]
		switch s.state {
		case slotEmpty:
			return int(i), false, firstTomb
		case slotTombstone:
			if firstTomb < 0 {
				firstTomb = int(i)
			}
		case slotFull:
			if h.equal(s.key, key) {
				return int(i), true, firstTomb
			}
		}
		i = (i + 1) & mask
	}
	return -1, false, firstTomb
}

// Get looks up key.
func (h *Hash) Get(key value.Reference) (value.Reference, bool) {
	idx, found, _ := h.find(key)
	if !found {
		return value.Nil, false
	}
	return h.slots[idx].val, true
}

// Set inserts or overwrites key → val, rehashing first if the load factor
// would exceed 0.7. The tombstone-ratio rehash happens in Delete.
func (h *Hash) Set(g *GC, key, val value.Reference) {
	if float64(h.size+1) > 0.7*float64(len(h.slots)) {
		h.rehash(g, nextPow2(len(h.slots)*2))
	}
	idx, found, firstTomb := h.find(key)
	if found {
		h.slots[idx].val = val
		return
	}
	if firstTomb >= 0 {
		idx = firstTomb
		h.tombs--
	}
	h.slots[idx] = hashSlot{state: slotFull, key: key, val: val}
	h.size++
}

// Delete removes key, if present, leaving a tombstone; rehashes if the
// tombstone ratio then exceeds 0.25.
func (h *Hash) Delete(g *GC, key value.Reference) bool {
	idx, found, _ := h.find(key)
	if !found {
		return false
	}
	h.slots[idx] = hashSlot{state: slotTombstone}
	h.size--
	h.tombs++
	if float64(h.tombs) > 0.25*float64(len(h.slots)) {
		h.rehash(g, nextPow2(len(h.slots)))
	}
	return true
}

// ForEach calls fn for every live entry. Iteration order is unspecified
// and unstable across insertions.
func (h *Hash) ForEach(fn func(key, val value.Reference) bool) {
	for _, s := range h.slots {
		if s.state == slotFull {
			if !fn(s.key, s.val) {
				return
			}
		}
	}
}

func (h *Hash) rehash(g *GC, newSize int) {
	old := h.slots
	h.slots = make([]hashSlot, newSize)
	h.tombs = 0
	h.size = 0
	for _, s := range old {
		if s.state == slotFull {
			idx, _, _ := h.find(s.key)
			h.slots[idx] = hashSlot{state: slotFull, key: s.key, val: s.val}
			h.size++
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func addrHash(o value.Object) uint64 {
	// A Traceable's header pointer is a stable proxy for its address: two
	// distinct heap objects never share one, and a given object's header
	// never moves (husk does not compact).
	if t, ok := o.(Traceable); ok {
		return uint64(uintptrOf(t.header()))
	}
	return 0
}
