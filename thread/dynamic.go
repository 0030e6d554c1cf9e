package thread

import "github.com/huskvm/husk/value"

// PushDynamic layers a new dynamic-variable binding atop the main stack:
// the value, then the previous DynamicSP as a linked pointer, becoming
// the new DynamicSP. PopDynamic follows that link back.
func (t *Thread) PushDynamic(v value.Reference) {
	t.Push(v)
	t.Push(value.Fixnum(t.DynamicSP))
	t.DynamicSP = int64(len(t.Stack) - 1)
}

// PopDynamic unlinks the topmost dynamic-variable binding.
func (t *Thread) PopDynamic() {
	prev := t.Stack[t.DynamicSP].AsFixnum()
	t.Stack = t.Stack[:t.DynamicSP-1]
	t.DynamicSP = prev
}

// CurrentDynamic returns the value at the top of the dynamic-variable
// chain, or value.Undef if none is pushed.
func (t *Thread) CurrentDynamic() value.Reference {
	if t.DynamicSP < 0 {
		return value.Undef
	}
	return t.Stack[t.DynamicSP-1]
}

// PushEnviron and PopEnviron mirror PushDynamic/PopDynamic for
// environ-variable bindings, which thread through EnvironSP instead.
func (t *Thread) PushEnviron(v value.Reference) {
	t.Push(v)
	t.Push(value.Fixnum(t.EnvironSP))
	t.EnvironSP = int64(len(t.Stack) - 1)
}

func (t *Thread) PopEnviron() {
	prev := t.Stack[t.EnvironSP].AsFixnum()
	t.Stack = t.Stack[:t.EnvironSP-1]
	t.EnvironSP = prev
}

func (t *Thread) CurrentEnviron() value.Reference {
	if t.EnvironSP < 0 {
		return value.Undef
	}
	return t.Stack[t.EnvironSP-1]
}
