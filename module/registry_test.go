package module

import (
	"testing"

	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/value"
)

func TestLoadCreatesOnFirstUse(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	r := NewRegistry(g, symtab)

	m1 := r.Load("core")
	m2 := r.Load("core")
	if m1 != m2 {
		t.Fatal("Load should return the same module on repeated calls")
	}
	if _, ok := r.Find("missing"); ok {
		t.Fatal("Find should not fabricate a module that was never loaded")
	}
}

func TestRegisterPrimitivesDefinesExportedBindings(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	r := NewRegistry(g, symtab)
	m := r.Load("core")

	RegisterPrimitives(g, symtab, m, []PrimitiveSpec{
		{Name: "+", Arity: 2, Doc: "add two fixnums", Fn: func(args []value.Reference) (value.Reference, error) {
			return value.Fixnum(args[0].AsFixnum() + args[1].AsFixnum()), nil
		}},
	})

	v, err := Resolve(m, "+")
	if err != nil {
		t.Fatal(err)
	}
	prim, ok := v.Object().(*heap.Primitive)
	if !ok {
		t.Fatal("+ should resolve to a heap.Primitive")
	}
	result, err := prim.Fn([]value.Reference{value.Fixnum(2), value.Fixnum(3)})
	if err != nil || result.AsFixnum() != 5 {
		t.Fatalf("+ primitive = %v, %v, want 5, nil", result, err)
	}
}

func TestResolveUnbound(t *testing.T) {
	g := heap.New()
	symtab := heap.NewSymbolTable(g)
	r := NewRegistry(g, symtab)
	m := r.Load("empty")
	if _, err := Resolve(m, "nope"); err != ErrUnbound {
		t.Fatalf("Resolve on an unbound name = %v, want ErrUnbound", err)
	}
}
