package module

import (
	"errors"

	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// ErrUnbound is returned by Resolve when name is not found locally or in
// any import; the vm package translates it into a
// ^rt-module-symbol-unbound-error condition before a raise.
var ErrUnbound = errors.New("husk/module: unbound symbol")

// Resolve looks up name in m (local bindings, then imports in order) and
// reports ErrUnbound rather than a bare boolean, so callers can wrap it
// into a condition without re-deriving the failure.
func Resolve(m *heap.Module, name string) (value.Reference, error) {
	if v, ok := m.Lookup(name); ok {
		return v, nil
	}
	return value.Nil, ErrUnbound
}
