package heap

import "testing"

func TestStringBytes(t *testing.T) {
	g := New()
	s := NewString(g, "hello world")
	if s.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", s.Len())
	}
	if s.String() != "hello world" {
		t.Fatalf("String() = %q", s.String())
	}
}

func TestSubstringSharesStorage(t *testing.T) {
	g := New()
	s := NewString(g, "hello world")
	sub, err := s.Substring(g, 6, 5)
	if err != nil {
		t.Fatal(err)
	}
	if sub.String() != "world" {
		t.Fatalf("Substring = %q, want %q", sub.String(), "world")
	}
}

func TestSubstringOutOfBounds(t *testing.T) {
	g := New()
	s := NewString(g, "hi")
	if _, err := s.Substring(g, 1, 5); err != ErrArrayBounds {
		t.Fatalf("Substring past the end = %v, want ErrArrayBounds", err)
	}
	if _, err := s.Substring(g, -1, 1); err != ErrArrayBounds {
		t.Fatalf("Substring with a negative offset = %v, want ErrArrayBounds", err)
	}
}

func TestSubstringOfSubstring(t *testing.T) {
	g := New()
	s := NewString(g, "abcdefgh")
	mid, err := s.Substring(g, 2, 4) // "cdef"
	if err != nil {
		t.Fatal(err)
	}
	inner, err := mid.Substring(g, 1, 2) // "de"
	if err != nil {
		t.Fatal(err)
	}
	if inner.String() != "de" {
		t.Fatalf("nested substring = %q, want %q", inner.String(), "de")
	}
}
