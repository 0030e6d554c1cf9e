package condition

import (
	"fmt"

	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// Handler runs when a condition is routed to it, either because a trap
// filter matched or because the default-handler registry had an entry.
// Its return value becomes the raise's result whether or not the raise
// is continuable.
type Handler func(c *Instance) (value.Reference, error)

// Trap is one entry of a thread's trap stack: a filter type and the
// handler installed for it.
type Trap struct {
	Filter  *Type
	Handler Handler
}

// TrapStack is implemented by whatever owns the thread's installed traps
// (the vm/thread packages). Kept as an interface here so condition has
// no import-time dependency on thread/vm.
type TrapStack interface {
	// TopTrap scans installed traps most-recently-installed first and
	// returns the first whose filter is an ancestor of t, if any.
	TopTrap(t *Type) (Trap, bool)
}

// Registry maps a condition type to a default handler, consulted when no
// installed trap matches. Lookup walks the type's ancestor chain so a
// handler registered for ^error also catches ^read-error and friends,
// unless a more specific registration exists.
type Registry struct {
	byType map[*heap.StructType]Handler
}

// NewRegistry returns an empty default-handler registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[*heap.StructType]Handler)}
}

// Register installs fn as the default handler for t.
func (r *Registry) Register(t *Type, fn Handler) {
	r.byType[t.ST] = fn
}

// Lookup walks from c's type up through its ancestors for the nearest
// registered handler.
func (r *Registry) Lookup(c *Instance) (Handler, bool) {
	for st := c.SI.Type; st != nil; st = st.Parent {
		if fn, ok := r.byType[st]; ok {
			return fn, true
		}
	}
	return nil, false
}

// KrunEntry is a saved (continuation, annotation) pair, consulted by the
// restart/reset meta-handlers. Entries are added only by explicit
// KrunStack.Push calls; neither Raise nor the VM pushes one.
type KrunEntry struct {
	Continuation *heap.Continuation
	Annotation   string
}

// KrunStack is the shared stack of saved resumption points the restart
// and reset meta-handlers operate on.
type KrunStack struct {
	entries []KrunEntry
}

// Push records a krun entry.
func (k *KrunStack) Push(e KrunEntry) { k.entries = append(k.entries, e) }

// Len reports how many entries are pending.
func (k *KrunStack) Len() int { return len(k.entries) }

// PopOne removes and returns the most recently pushed entry. Per the
// resolved choice here, restart pops exactly one entry rather than
// draining the stack.
func (k *KrunStack) PopOne() (KrunEntry, bool) {
	if len(k.entries) == 0 {
		return KrunEntry{}, false
	}
	last := len(k.entries) - 1
	e := k.entries[last]
	k.entries = k.entries[:last]
	return e, true
}

// DrainToBottom removes every entry, returning the bottom-most one (or
// false if the stack was already empty). Used by the reset handler.
func (k *KrunStack) DrainToBottom() (KrunEntry, bool) {
	if len(k.entries) == 0 {
		return KrunEntry{}, false
	}
	bottom := k.entries[0]
	k.entries = nil
	return bottom, true
}

// ErrUnhandledContinuable is returned by Raise when a continuable
// condition reaches the end of the line (no trap, no default handler,
// non-interactive session) and must propagate to the caller as a plain
// Go error.
var ErrUnhandledContinuable = fmt.Errorf("condition: unhandled continuable condition")

// Raise looks up the topmost installed trap whose filter is an ancestor
// of c's type and transfers control there. If no trap matches, it falls
// through to def, the process-wide default-condition-handler.
func Raise(traps TrapStack, def *DefaultHandler, continuable bool, c *Instance) (value.Reference, error) {
	if trap, ok := traps.TopTrap(c.Type); ok {
		return trap.Handler(c)
	}
	return def.Handle(continuable, c)
}
