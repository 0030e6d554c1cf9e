package thread

import "github.com/huskvm/husk/condition"

// PushTrap installs trap as the new topmost trap, shadowing any
// previously installed trap whose filter is an ancestor of, or equal to,
// its own.
func (t *Thread) PushTrap(trap condition.Trap) {
	t.traps = append(t.traps, trap)
}

// PopTrap removes the most recently installed trap.
func (t *Thread) PopTrap() {
	if n := len(t.traps); n > 0 {
		t.traps = t.traps[:n-1]
	}
}

// TopTrap implements condition.TrapStack: the traps slice is scanned
// newest-first, and the first whose filter is an ancestor of (or equal
// to) c's type matches.
func (t *Thread) TopTrap(c *condition.Type) (condition.Trap, bool) {
	for i := len(t.traps) - 1; i >= 0; i-- {
		trap := t.traps[i]
		if condition.IsAncestor(trap.Filter.ST, c.ST) {
			return trap, true
		}
	}
	return condition.Trap{}, false
}

// Krun exposes the thread's krun stack to the restart/reset meta-handlers.
func (t *Thread) Krun() *condition.KrunStack { return &t.krun }
