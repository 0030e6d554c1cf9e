package heap

import (
	"fmt"
	"os"

	"github.com/huskvm/husk/value"
)

// Stats reports bytes currently live, total ever allocated, and the
// collection count.
type Stats struct {
	NBytes      int64 // bytes surviving the last collection plus bytes allocated since
	TBytes      int64 // bytes allocated since process start
	Collections int64
}

// RootProvider is registered by every subsystem that can hold references
// into the heap on husk's behalf (a thread's stack and registers, the
// interned symbol table, the module table, a constants pool). Collect
// calls every registered provider to seed the grey list.
type RootProvider func() []value.Reference

// GC is the allocator and collector for one husk runtime. It is not safe
// for concurrent use: the VM is single-threaded and the collector always
// runs between opcodes, never concurrently with one.
type GC struct {
	all      *Header // head of the all-objects chain
	count    int64   // number of live headers on the chain
	greyHead *Header // transient grey-list head, valid only during Collect

	providers []RootProvider
	protected map[*Header]int  // refcounted explicit roots (protect/expose)
	permanent map[*Header]bool // protect_auto: rooted for the process lifetime

	pendingBytes int64 // bytes allocated since the last collection check
	threshold    int64
	ceiling      int64
	scaleFactor  float64

	stats Stats
}

const (
	defaultThreshold = 64 * 1024
	defaultCeiling   = 64 * 1024 * 1024
	defaultScale     = 2.0
)

// New returns a GC with an empty heap and the default growth policy: a
// small initial threshold, doubling after each collection up to a ceiling.
func New() *GC {
	return &GC{
		protected:   make(map[*Header]int),
		permanent:   make(map[*Header]bool),
		threshold:   defaultThreshold,
		ceiling:     defaultCeiling,
		scaleFactor: defaultScale,
	}
}

// AddRootProvider registers fn to be consulted on every Collect.
func (g *GC) AddRootProvider(fn RootProvider) {
	g.providers = append(g.providers, fn)
}

// Stats returns a snapshot of the collector's counters.
func (g *GC) Stats() Stats { return g.stats }

// track links a newly constructed header into the heap and accounts for
// its size, possibly triggering a collection first if the allocation
// would cross the pending-bytes threshold. Callers pass size as
// sizeof(kind) would be in C; exact byte counts are not load-bearing here,
// only their relative growth is.
func (g *GC) track(h *Header, owner Traceable, size int64) {
	if g.pendingBytes+size > g.threshold {
		g.Collect()
	}
	h.owner = owner
	h.size = size
	h.allNext = g.all
	g.all = h
	g.count++
	g.pendingBytes += size
	g.stats.TBytes += size
	g.stats.NBytes += size
}

// Protect registers o as a root until a matching Expose. Used by
// primitives that hand a heap reference to an external (non-heap)
// subsystem and need it kept alive regardless of reachability from the
// thread's stack.
func (g *GC) Protect(o value.Object) {
	t, ok := o.(Traceable)
	if !ok {
		return
	}
	g.protected[t.header()]++
}

// Expose undoes one Protect registration.
func (g *GC) Expose(o value.Object) {
	t, ok := o.(Traceable)
	if !ok {
		return
	}
	h := t.header()
	if g.protected[h] <= 1 {
		delete(g.protected, h)
		return
	}
	g.protected[h]--
}

// ProtectAuto registers o as a root for the remaining lifetime of the
// process; it can never be Exposed.
func (g *GC) ProtectAuto(o value.Object) {
	t, ok := o.(Traceable)
	if !ok {
		return
	}
	g.permanent[t.header()] = true
}

// SetFinalizer schedules fn to run, at most once, the cycle after o
// becomes unreachable. Used by primitives that wrap OS resources (open
// files, process pipes) for guaranteed-eventually release; callers that
// need deterministic release still call an explicit close.
func (g *GC) SetFinalizer(o value.Object, fn func(value.Object)) {
	if t, ok := o.(Traceable); ok {
		t.header().finalizer = fn
	}
}

// Collect runs a full stop-the-world mark-and-sweep. It is always safe to
// call: alloc calls it automatically when the pending-bytes threshold is
// crossed, and callers may also invoke it directly. No husk primitive in
// the core module wraps it.
func (g *GC) Collect() {
	g.markPhase1()
	g.markPhase2()
	g.markPhase3()
	live := g.sweepPhase4()

	g.stats.Collections++
	g.stats.NBytes = live
	g.pendingBytes = 0

	g.threshold = scaledThreshold(live, g.scaleFactor, g.ceiling)
}

func scaledThreshold(live int64, scale float64, ceiling int64) int64 {
	next := int64(float64(live) * scale)
	if next < defaultThreshold {
		next = defaultThreshold
	}
	if next > ceiling {
		next = ceiling
	}
	return next
}

// Phase 1: color every object white.
func (g *GC) markPhase1() {
	for h := g.all; h != nil; h = h.allNext {
		h.color = white
		h.greyNext = nil
	}
}

// Phase 2: push every root onto the grey list.
func (g *GC) markPhase2() {
	g.greyHead = nil
	push := func(h *Header) {
		if h == nil || h.color != white {
			return
		}
		h.color = grey
		h.greyNext = g.greyHead
		g.greyHead = h
	}
	for h := range g.protected {
		push(h)
	}
	for h := range g.permanent {
		push(h)
	}
	for _, provider := range g.providers {
		for _, ref := range provider() {
			if t, ok := ref.Object().(Traceable); ok {
				push(t.header())
			}
		}
	}
}

// Phase 3: repeatedly pop a grey object, mark it black, push its white
// referents to grey, until the grey list is empty.
func (g *GC) markPhase3() {
	for g.greyHead != nil {
		h := g.greyHead
		g.greyHead = h.greyNext
		h.greyNext = nil
		h.color = black

		if h.owner == nil {
			continue
		}
		h.owner.EachChild(func(ref value.Reference) {
			child, ok := ref.Object().(Traceable)
			if !ok {
				return
			}
			ch := child.header()
			if ch.color == white {
				ch.color = grey
				ch.greyNext = g.greyHead
				g.greyHead = ch
			}
		})
	}
}

// Phase 4: any white object with a finalizer is scheduled and kept black
// for this cycle; any white object with no finalizer is unlinked from the
// all-objects chain and freed. Returns the total size of surviving
// objects. Finalizers run after sweeping, in allocation order, and never
// allocate.
func (g *GC) sweepPhase4() int64 {
	var kept *Header
	var finalize []*Header

	for h := g.all; h != nil; {
		next := h.allNext
		if h.color == white {
			if h.finalizer != nil {
				h.color = black
				finalize = append(finalize, h)
				h.allNext = kept
				kept = h
			}
			// else: unreachable and unlinked, i.e. freed.
		} else {
			h.allNext = kept
			kept = h
		}
		h = next
	}
	g.all = reverseChain(kept)

	// Finalizers run oldest-allocation-first; since the all-objects chain
	// is newest-first, run the schedule in reverse.
	for i := len(finalize) - 1; i >= 0; i-- {
		h := finalize[i]
		fn := h.finalizer
		h.finalizer = nil
		if h.owner != nil && fn != nil {
			fn(h.owner)
		}
	}

	var total int64
	for h := g.all; h != nil; h = h.allNext {
		total += h.size
	}
	return total
}

func reverseChain(h *Header) *Header {
	var prev *Header
	for h != nil {
		next := h.allNext
		h.allNext = prev
		prev = h
		h = next
	}
	return prev
}

// OOM aborts the process after a one-line diagnostic. There is no
// graceful out-of-memory path: a collection that cannot make room for
// the next allocation is unrecoverable.
func OOM(reason string) {
	fmt.Fprintf(os.Stderr, "husk: out of memory: %s\n", reason)
	os.Exit(2)
}

// HistEntry is one row of a Histogram: a heap object kind, how many
// instances of it are currently live, and their combined tracked size.
type HistEntry struct {
	Kind  string
	Count int64
	Bytes int64
}

// Histogram walks the all-objects chain and groups live objects by kind,
// the way a core-dump inspector groups objects by Go type: a debugging
// aid, not something the VM itself consults.
func (g *GC) Histogram() []HistEntry {
	byKind := make(map[string]*HistEntry)
	var order []string
	for h := g.all; h != nil; h = h.allNext {
		e, ok := byKind[h.kind]
		if !ok {
			e = &HistEntry{Kind: h.kind}
			byKind[h.kind] = e
			order = append(order, h.kind)
		}
		e.Count++
		e.Bytes += h.size
	}
	entries := make([]HistEntry, len(order))
	for i, kind := range order {
		entries[i] = *byKind[kind]
	}
	return entries
}
