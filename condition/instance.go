package condition

import (
	"fmt"

	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

// Instance wraps a struct-instance of the condition lattice so it can be
// carried as a Go error: Error() formats the same diagnostic the runtime
// shows interactively, and Unwrap returns the cause attached with Wrap
// (e.g. a ^read-error wrapping the ^i/o-error that caused it), letting
// errors.As/errors.Is follow that wrapping. The nominal isa chain is
// checked with Isa; errors.Is/errors.As do not consult it.
type Instance struct {
	SI      *heap.StructInstance
	Type    *Type
	wrapped error
}

// New allocates an instance of t with fields set from values (by name).
func New(g *heap.GC, t *Type, values map[string]value.Reference) *Instance {
	si := heap.Allocate(g, t.ST)
	for name, v := range values {
		_ = si.Set(name, v)
	}
	return &Instance{SI: si, Type: t}
}

// Wrap attaches cause as the condition's Unwrap target, e.g. a
// ^system-error raised while servicing a ^i/o-read-error.
func (c *Instance) Wrap(cause error) *Instance {
	c.wrapped = cause
	return c
}

// Unwrap exposes the wrapped cause, if any, to errors.As/errors.Is.
func (c *Instance) Unwrap() error { return c.wrapped }

// Isa reports whether the condition's type is, or inherits from, other.
func (c *Instance) Isa(other *Type) bool { return c.SI.Isa(other.ST) }

// Field returns the named field, or value.Nil if the field does not exist.
func (c *Instance) Field(name string) value.Reference {
	v, err := c.SI.Ref(name)
	if err != nil {
		return value.Nil
	}
	return v
}

// Error implements the Go error interface with the runtime's one-line
// diagnostic shape: "<location>: <type-name>: <message>[: <detail>]".
func (c *Instance) Error() string {
	return Format(c)
}

// Format produces the "<location>: <type-name>: <message>[: <detail>][
// => errno <n>]" diagnostic for a condition. The errno is shown as its
// number, not as a symbolic errno name. Fields absent from the
// instance's type are simply omitted.
func Format(c *Instance) string {
	msg := stringField(c, "message")
	loc := stringField(c, "location")
	detail := stringField(c, "detail")

	s := c.Type.Name
	if msg != "" {
		s = fmt.Sprintf("%s: %s", s, msg)
	}
	if detail != "" {
		s = fmt.Sprintf("%s: %s", s, detail)
	}
	if loc != "" {
		s = fmt.Sprintf("%s: %s", loc, s)
	}
	if errno := c.Field("errno"); errno.Kind() == value.KindFixnum {
		s = fmt.Sprintf("%s => errno %d", s, errno.AsFixnum())
	}
	return s
}

func stringField(c *Instance, name string) string {
	v := c.Field(name)
	if v.Kind() != value.KindPointer {
		return ""
	}
	str, ok := v.Object().(*heap.String)
	if !ok {
		return ""
	}
	return str.String()
}
