package value

import "testing"

func TestImmediates(t *testing.T) {
	if !Nil.IsNil() {
		t.Fatal("Nil.IsNil() == false")
	}
	if Fixnum(3).Kind() != KindFixnum {
		t.Fatal("Fixnum has wrong kind")
	}
	if Fixnum(3).AsFixnum() != 3 {
		t.Fatal("AsFixnum round-trip failed")
	}
	if Char('a').AsChar() != 'a' {
		t.Fatal("AsChar round-trip failed")
	}
	if !Bool(true).AsBool() || Bool(false).AsBool() {
		t.Fatal("Bool round-trip failed")
	}
}

func TestTruthy(t *testing.T) {
	if False.Truthy() {
		t.Fatal("#f must not be truthy")
	}
	for _, r := range []Reference{True, Nil, Fixnum(0), Unspec, Void} {
		if !r.Truthy() {
			t.Fatalf("%v should be truthy (only #f is falsy)", r)
		}
	}
}

func TestIsIdentity(t *testing.T) {
	a := Fixnum(5)
	b := Fixnum(5)
	if !a.Is(b) {
		t.Fatal("two fixnums with the same payload should be Is-equal")
	}
	if Fixnum(5).Is(Fixnum(6)) {
		t.Fatal("different payloads must not be Is-equal")
	}
	if Fixnum(5).Is(Char(5)) {
		t.Fatal("different kinds must not be Is-equal even with the same payload")
	}
}

func TestAsFixnumPanicsOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic unpacking a non-fixnum as a fixnum")
		}
	}()
	Char('x').AsFixnum()
}
