package vm

import (
	"errors"

	"github.com/huskvm/husk/heap"
	"github.com/huskvm/husk/module"
	"github.com/huskvm/husk/value"
)

// errDivideByZero is translated into a ^rt-divide-by-zero-error condition
// by the caller the same way heap's sentinel errors are: primitives stay
// free of the condition package and return plain Go errors, and the vm
// package (which already imports both) does the translation at the call
// site that has a GC and default handler in hand.
var errDivideByZero = errors.New("husk/vm: divide by zero")

// Builtins returns the primitive table for the "core" module: the small
// set of fixnum arithmetic and pair/predicate operations every other
// piece of bootstrap code is built on top of.
func Builtins(g *heap.GC) []module.PrimitiveSpec {
	return []module.PrimitiveSpec{
		{Name: "+", Arity: 2, Doc: "sum of two fixnums", Fn: arith(func(a, b int64) int64 { return a + b })},
		{Name: "-", Arity: 2, Doc: "difference of two fixnums", Fn: arith(func(a, b int64) int64 { return a - b })},
		{Name: "*", Arity: 2, Doc: "product of two fixnums", Fn: arith(func(a, b int64) int64 { return a * b })},

		{Name: "/", Arity: 2, Doc: "quotient of two fixnums", Fn: func(args []value.Reference) (value.Reference, error) {
			a, b := args[0].AsFixnum(), args[1].AsFixnum()
			if b == 0 {
				return value.Nil, errDivideByZero
			}
			return value.Fixnum(a / b), nil
		}},

		{Name: "=", Arity: 2, Doc: "fixnum equality", Fn: cmp(func(a, b int64) bool { return a == b })},
		{Name: "<", Arity: 2, Doc: "fixnum less-than", Fn: cmp(func(a, b int64) bool { return a < b })},
		{Name: ">", Arity: 2, Doc: "fixnum greater-than", Fn: cmp(func(a, b int64) bool { return a > b })},

		{Name: "cons", Arity: 2, Doc: "allocate a pair", Fn: func(args []value.Reference) (value.Reference, error) {
			return heap.Cons(g, args[0], args[1]), nil
		}},
		{Name: "car", Arity: 1, Doc: "the head of a pair", Fn: func(args []value.Reference) (value.Reference, error) {
			p, ok := args[0].Object().(*heap.Pair)
			if !ok {
				return value.Nil, heap.ErrWrongKind
			}
			return p.Head, nil
		}},
		{Name: "cdr", Arity: 1, Doc: "the tail of a pair", Fn: func(args []value.Reference) (value.Reference, error) {
			p, ok := args[0].Object().(*heap.Pair)
			if !ok {
				return value.Nil, heap.ErrWrongKind
			}
			return p.Tail, nil
		}},
		{Name: "pair?", Arity: 1, Doc: "is the argument a pair", Fn: func(args []value.Reference) (value.Reference, error) {
			_, ok := args[0].Object().(*heap.Pair)
			return value.Bool(ok), nil
		}},
		{Name: "null?", Arity: 1, Doc: "is the argument the empty list", Fn: func(args []value.Reference) (value.Reference, error) {
			return value.Bool(args[0].IsNil()), nil
		}},
		{Name: "eq?", Arity: 2, Doc: "reference equality", Fn: func(args []value.Reference) (value.Reference, error) {
			return value.Bool(args[0].Is(args[1])), nil
		}},
	}
}

func arith(op func(a, b int64) int64) heap.PrimitiveFn {
	return func(args []value.Reference) (value.Reference, error) {
		return value.Fixnum(op(args[0].AsFixnum(), args[1].AsFixnum())), nil
	}
}

func cmp(op func(a, b int64) bool) heap.PrimitiveFn {
	return func(args []value.Reference) (value.Reference, error) {
		return value.Bool(op(args[0].AsFixnum(), args[1].AsFixnum())), nil
	}
}
