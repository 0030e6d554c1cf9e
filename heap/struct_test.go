package heap

import (
	"testing"

	"github.com/huskvm/husk/value"
)

func TestStructFieldInheritance(t *testing.T) {
	g := New()
	symtab := NewSymbolTable(g)

	base := NewStructType(g, symtab.Intern("base"), nil, []*Symbol{symtab.Intern("a"), symtab.Intern("b")})
	derived := NewStructType(g, symtab.Intern("derived"), base, []*Symbol{symtab.Intern("c")})

	if derived.TotalFields() != 3 {
		t.Fatalf("TotalFields() = %d, want 3", derived.TotalFields())
	}
	if derived.InheritedFieldCount() != 2 {
		t.Fatalf("InheritedFieldCount() = %d, want 2", derived.InheritedFieldCount())
	}

	inst := Allocate(g, derived)
	if err := inst.Set("a", value.Fixnum(1)); err != nil {
		t.Fatal(err)
	}
	if err := inst.Set("c", value.Fixnum(3)); err != nil {
		t.Fatal(err)
	}
	a, err := inst.Ref("a")
	if err != nil || a.AsFixnum() != 1 {
		t.Fatalf("Ref(a) = %v, %v", a, err)
	}
	c, err := inst.Ref("c")
	if err != nil || c.AsFixnum() != 3 {
		t.Fatalf("Ref(c) = %v, %v", c, err)
	}
}

func TestStructIsa(t *testing.T) {
	g := New()
	symtab := NewSymbolTable(g)
	root := NewStructType(g, symtab.Intern("root"), nil, nil)
	mid := NewStructType(g, symtab.Intern("mid"), root, nil)
	leaf := NewStructType(g, symtab.Intern("leaf"), mid, nil)

	inst := Allocate(g, leaf)
	if !inst.Isa(root) {
		t.Fatal("a leaf instance should isa its grandparent type")
	}
	if !inst.Isa(leaf) {
		t.Fatal("a type isa's itself")
	}

	unrelated := NewStructType(g, symtab.Intern("unrelated"), nil, nil)
	if inst.Isa(unrelated) {
		t.Fatal("a leaf instance should not isa an unrelated type")
	}
}

func TestStructUnknownFieldErrors(t *testing.T) {
	g := New()
	symtab := NewSymbolTable(g)
	st := NewStructType(g, symtab.Intern("t"), nil, []*Symbol{symtab.Intern("x")})
	inst := Allocate(g, st)
	if _, err := inst.Ref("missing"); err != ErrWrongKind {
		t.Fatalf("Ref on an unknown field = %v, want ErrWrongKind", err)
	}
}
