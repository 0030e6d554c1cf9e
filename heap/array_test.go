package heap

import (
	"testing"

	"github.com/huskvm/husk/value"
)

func TestArrayPushGrows(t *testing.T) {
	g := New()
	a := NewArray(g, 1)
	for i := int64(0); i < 10; i++ {
		a.Push(g, value.Fixnum(i))
	}
	if a.Used() != 10 {
		t.Fatalf("Used() = %d, want 10", a.Used())
	}
	if a.Capacity() < 10 {
		t.Fatalf("Capacity() = %d, want at least 10", a.Capacity())
	}
	for i := int64(0); i < 10; i++ {
		v, err := a.Get(i)
		if err != nil || v.AsFixnum() != i {
			t.Fatalf("Get(%d) = %v, %v", i, v, err)
		}
	}
}

func TestArrayNegativeIndex(t *testing.T) {
	g := New()
	a := NewArray(g, 4)
	a.Push(g, value.Fixnum(1))
	a.Push(g, value.Fixnum(2))
	a.Push(g, value.Fixnum(3))
	v, err := a.Get(-1)
	if err != nil {
		t.Fatal(err)
	}
	if v.AsFixnum() != 3 {
		t.Fatalf("Get(-1) = %v, want the last element", v)
	}
	if _, err := a.Get(-100); err != ErrArrayBounds {
		t.Fatalf("Get(-100) err = %v, want ErrArrayBounds", err)
	}
}

func TestArrayInsertBeyondDoubleCapacityFails(t *testing.T) {
	g := New()
	a := NewArray(g, 2)
	if err := a.Insert(g, 2, value.Fixnum(9)); err != nil {
		t.Fatalf("insert at == capacity should grow, got %v", err)
	}
	if a.Capacity() != 4 {
		t.Fatalf("Capacity() = %d, want doubled to 4", a.Capacity())
	}
	if err := a.Insert(g, 9, value.Fixnum(1)); err != ErrArrayBounds {
		t.Fatalf("insert far beyond capacity should fail with ErrArrayBounds, got %v", err)
	}
}

func TestArrayGetOutOfBounds(t *testing.T) {
	g := New()
	a := NewArray(g, 4)
	a.Push(g, value.Fixnum(1))
	if _, err := a.Get(5); err != ErrArrayBounds {
		t.Fatalf("Get(5) err = %v, want ErrArrayBounds", err)
	}
}
