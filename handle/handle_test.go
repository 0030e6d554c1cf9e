package handle

import "testing"

func TestGetcLineCounting(t *testing.T) {
	h := NewStringReader("<string>", []byte("ab\ncd"))
	var got []rune
	for {
		r, err := h.Getc()
		if err != nil {
			break
		}
		got = append(got, r)
	}
	if string(got) != "ab\ncd" {
		t.Fatalf("got %q", string(got))
	}
	if h.Line() != 2 {
		t.Fatalf("expected line 2 after one newline, got %d", h.Line())
	}
}

func TestUngetcFailsWhenLookaheadPending(t *testing.T) {
	h := NewStringReader("<string>", []byte("xy"))
	r, err := h.Getc()
	if err != nil || r != 'x' {
		t.Fatalf("Getc() = %q, %v", r, err)
	}
	if err := h.Ungetc('x'); err != nil {
		t.Fatalf("first Ungetc should succeed: %v", err)
	}
	if err := h.Ungetc('z'); err != ErrLookaheadFull {
		t.Fatalf("second Ungetc should fail with ErrLookaheadFull, got %v", err)
	}
	r, err = h.Getc()
	if err != nil || r != 'x' {
		t.Fatalf("Getc() after ungetc = %q, %v", r, err)
	}
}

func TestSeekInvalidatesLineUnlessZero(t *testing.T) {
	h := NewStringReader("<string>", []byte("a\nb\nc"))
	h.Getc()
	h.Getc()
	h.Getc() // consumes "a\nb", line == 2
	if _, err := h.Seek(1, 0); err != nil {
		t.Fatal(err)
	}
	if h.Line() != -1 {
		t.Fatalf("seek to non-zero offset should invalidate the line counter, got %d", h.Line())
	}
	if _, err := h.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	if h.Line() != 1 {
		t.Fatalf("seek to 0 should reset line to 1, got %d", h.Line())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := NewStringReader("<string>", []byte("a"))
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestStringWriterAccumulates(t *testing.T) {
	h, sink := NewStringWriter("<out>")
	h.Puts("hello")
	h.Putc(' ')
	h.Puts("world")
	if sink.String() != "hello world" {
		t.Fatalf("got %q", sink.String())
	}
}
