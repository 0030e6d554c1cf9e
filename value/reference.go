// Package value defines Reference, the uniform tagged value that every
// husk opcode pushes, pops and stores. A Reference is either an immediate
// (fixnum, character, boolean or one of a handful of singletons) or a
// pointer to a heap object. Heap objects themselves are defined by package
// heap; this package only needs to know that they exist, so the pointer
// is carried behind the Object interface to avoid an import cycle.
package value

import "fmt"

// Kind identifies what a Reference holds without needing to unpack it.
type Kind uint8

const (
	KindFixnum Kind = iota
	KindChar
	KindBool
	KindNil
	KindUnspec // returned by statements with no useful value
	KindUndef  // unbound
	KindVoidK  // the void value
	KindEOF
	KindPointer // obj holds a heap.Object
)

func (k Kind) String() string {
	switch k {
	case KindFixnum:
		return "fixnum"
	case KindChar:
		return "character"
	case KindBool:
		return "boolean"
	case KindNil:
		return "nil"
	case KindUnspec:
		return "unspec"
	case KindUndef:
		return "undef"
	case KindVoidK:
		return "void"
	case KindEOF:
		return "eof"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Object is satisfied by every heap-allocated value (package heap's
// object kinds). A Reference to a heap object carries just enough to
// dispatch: a kind tag for type checks and an opaque handle for
// reference equality.
type Object interface {
	// ObjectKind names the concrete heap kind (pair, array, hash, ...).
	ObjectKind() string
}

// Reference is the universal value: a small struct playing the role a
// packed machine word plays in a C runtime, without needing unsafe casts.
type Reference struct {
	kind Kind
	imm  int64
	obj  Object
}

// Distinguished singletons.
var (
	Nil    = Reference{kind: KindNil}
	True   = Reference{kind: KindBool, imm: 1}
	False  = Reference{kind: KindBool, imm: 0}
	Unspec = Reference{kind: KindUnspec}
	Undef  = Reference{kind: KindUndef}
	Void   = Reference{kind: KindVoidK}
	EOF    = Reference{kind: KindEOF}
)

// Fixnum packs a small integer into an immediate Reference.
func Fixnum(n int64) Reference { return Reference{kind: KindFixnum, imm: n} }

// Char packs a Unicode code point into an immediate Reference.
func Char(r rune) Reference { return Reference{kind: KindChar, imm: int64(r)} }

// Bool packs a boolean into an immediate Reference.
func Bool(b bool) Reference {
	if b {
		return True
	}
	return False
}

// Pointer wraps a heap object as a Reference.
func Pointer(o Object) Reference { return Reference{kind: KindPointer, obj: o} }

func (r Reference) Kind() Kind { return r.kind }

// IsImmediate reports whether r holds a packed value rather than a heap pointer.
func (r Reference) IsImmediate() bool { return r.kind != KindPointer }

// AsFixnum returns the packed integer. Panics if Kind() != KindFixnum;
// callers check Kind first, the same discipline the VM's opcode decoder
// applies before every unpack.
func (r Reference) AsFixnum() int64 {
	if r.kind != KindFixnum {
		panic(fmt.Sprintf("value: AsFixnum on a %s", r.kind))
	}
	return r.imm
}

// AsChar returns the packed code point.
func (r Reference) AsChar() rune {
	if r.kind != KindChar {
		panic(fmt.Sprintf("value: AsChar on a %s", r.kind))
	}
	return rune(r.imm)
}

// AsBool returns the packed boolean.
func (r Reference) AsBool() bool {
	if r.kind != KindBool {
		panic(fmt.Sprintf("value: AsBool on a %s", r.kind))
	}
	return r.imm != 0
}

// Object returns the heap object a pointer Reference carries, or nil.
func (r Reference) Object() Object {
	if r.kind != KindPointer {
		return nil
	}
	return r.obj
}

// IsNil reports whether r is the empty list / absence singleton.
func (r Reference) IsNil() bool { return r.kind == KindNil }

// Truthy implements Scheme-style truthiness: everything except #f is true.
func (r Reference) Truthy() bool {
	return !(r.kind == KindBool && r.imm == 0)
}

// Is reports reference equality: two immediates of the same kind/payload,
// or two pointers to the identical heap object.
func (r Reference) Is(other Reference) bool {
	if r.kind != other.kind {
		return false
	}
	if r.kind == KindPointer {
		return r.obj == other.obj
	}
	return r.imm == other.imm
}

func (r Reference) String() string {
	switch r.kind {
	case KindFixnum:
		return fmt.Sprintf("%d", r.imm)
	case KindChar:
		return fmt.Sprintf("%c", r.imm)
	case KindBool:
		if r.imm != 0 {
			return "#t"
		}
		return "#f"
	case KindNil:
		return "()"
	case KindUnspec:
		return ""
	case KindUndef:
		return "#<undef>"
	case KindVoidK:
		return "#<void>"
	case KindEOF:
		return "#<eof>"
	case KindPointer:
		return fmt.Sprintf("%s", r.obj.ObjectKind())
	default:
		return "#<unknown>"
	}
}
