package mclj

import (
	"github.com/nukata/goarith"
)

// ---- numeric built-ins -------------------------------------------------
//
// All arithmetic runs on the goarith tower (int32/int64/bigint/float64),
// so integers widen instead of overflowing and mixed int/float expressions
// behave as expected. Comparison chains ((< 1 2 3)) follow the usual
// short-circuit reading.

var (
	numZero = goarith.AsNumber(0)
	numOne  = goarith.AsNumber(1)
	numTwo  = goarith.AsNumber(2)
)

func registerMathBuiltins(ip *Interp) {
	// (+ & xs) -> sum, 0 for no arguments
	ip.RegisterNative("+", "& xs", func(_ *Interp, args []Value) (Value, error) {
		acc := numZero
		for _, v := range args {
			n, err := asNumber("+", v)
			if err != nil {
				return Nil, err
			}
			acc = acc.Add(n)
		}
		return Num(acc), nil
	})

	// (- x & more) -> negation for one argument, left fold otherwise
	ip.RegisterNative("-", "x & more", func(_ *Interp, args []Value) (Value, error) {
		acc, err := asNumber("-", args[0])
		if err != nil {
			return Nil, err
		}
		if len(args) == 1 {
			return Num(numZero.Sub(acc)), nil
		}
		for _, v := range args[1:] {
			n, err := asNumber("-", v)
			if err != nil {
				return Nil, err
			}
			acc = acc.Sub(n)
		}
		return Num(acc), nil
	})

	// (* & xs) -> product, 1 for no arguments
	ip.RegisterNative("*", "& xs", func(_ *Interp, args []Value) (Value, error) {
		acc := numOne
		for _, v := range args {
			n, err := asNumber("*", v)
			if err != nil {
				return Nil, err
			}
			acc = acc.Mul(n)
		}
		return Num(acc), nil
	})

	// (/ x & more) -> reciprocal for one argument, left fold otherwise
	ip.RegisterNative("/", "x & more", func(_ *Interp, args []Value) (Value, error) {
		acc, err := asNumber("/", args[0])
		if err != nil {
			return Nil, err
		}
		if len(args) == 1 {
			if acc.Cmp(numZero) == 0 {
				return Nil, evalErrorf("/: division by zero")
			}
			return Num(numOne.RQuo(acc)), nil
		}
		for _, v := range args[1:] {
			n, err := asNumber("/", v)
			if err != nil {
				return Nil, err
			}
			if n.Cmp(numZero) == 0 {
				return Nil, evalErrorf("/: division by zero")
			}
			acc = acc.RQuo(n)
		}
		return Num(acc), nil
	})

	// (inc x)
	ip.RegisterNative("inc", "x", func(_ *Interp, args []Value) (Value, error) {
		n, err := asNumber("inc", args[0])
		if err != nil {
			return Nil, err
		}
		return Num(n.Add(numOne)), nil
	})

	// (dec x)
	ip.RegisterNative("dec", "x", func(_ *Interp, args []Value) (Value, error) {
		n, err := asNumber("dec", args[0])
		if err != nil {
			return Nil, err
		}
		return Num(n.Sub(numOne)), nil
	})

	// (mod x y) -> floored modulus, result takes the divisor's sign
	ip.RegisterNative("mod", "x y", func(_ *Interp, args []Value) (Value, error) {
		x, err := asNumber("mod", args[0])
		if err != nil {
			return Nil, err
		}
		y, err := asNumber("mod", args[1])
		if err != nil {
			return Nil, err
		}
		if y.Cmp(numZero) == 0 {
			return Nil, evalErrorf("mod: division by zero")
		}
		_, r := x.QuoRem(y)
		if r.Cmp(numZero) != 0 && (r.Cmp(numZero) < 0) != (y.Cmp(numZero) < 0) {
			r = r.Add(y)
		}
		return Num(r), nil
	})

	// (< x y & more) and friends: true when the chain holds pairwise
	registerCompare(ip, "<", func(c int) bool { return c < 0 })
	registerCompare(ip, "<=", func(c int) bool { return c <= 0 })
	registerCompare(ip, ">", func(c int) bool { return c > 0 })
	registerCompare(ip, ">=", func(c int) bool { return c >= 0 })

	// (zero? x)
	ip.RegisterNative("zero?", "x", func(_ *Interp, args []Value) (Value, error) {
		n, err := asNumber("zero?", args[0])
		if err != nil {
			return Nil, err
		}
		return Bool(n.Cmp(numZero) == 0), nil
	})

	// (even? x)
	ip.RegisterNative("even?", "x", func(_ *Interp, args []Value) (Value, error) {
		even, err := isEvenInt("even?", args[0])
		if err != nil {
			return Nil, err
		}
		return Bool(even), nil
	})

	// (odd? x)
	ip.RegisterNative("odd?", "x", func(_ *Interp, args []Value) (Value, error) {
		even, err := isEvenInt("odd?", args[0])
		if err != nil {
			return Nil, err
		}
		return Bool(!even), nil
	})

	// (min x & more) / (max x & more)
	ip.RegisterNative("min", "x & more", func(_ *Interp, args []Value) (Value, error) {
		return pickByCmp("min", args, func(c int) bool { return c < 0 })
	})
	ip.RegisterNative("max", "x & more", func(_ *Interp, args []Value) (Value, error) {
		return pickByCmp("max", args, func(c int) bool { return c > 0 })
	})
}

func registerCompare(ip *Interp, name string, holds func(int) bool) {
	ip.RegisterNative(name, "x y & more", func(_ *Interp, args []Value) (Value, error) {
		prev, err := asNumber(name, args[0])
		if err != nil {
			return Nil, err
		}
		for _, v := range args[1:] {
			n, err := asNumber(name, v)
			if err != nil {
				return Nil, err
			}
			if !holds(prev.Cmp(n)) {
				return False, nil
			}
			prev = n
		}
		return True, nil
	})
}

func pickByCmp(name string, args []Value, better func(int) bool) (Value, error) {
	best, err := asNumber(name, args[0])
	if err != nil {
		return Nil, err
	}
	for _, v := range args[1:] {
		n, err := asNumber(name, v)
		if err != nil {
			return Nil, err
		}
		if better(n.Cmp(best)) {
			best = n
		}
	}
	return Num(best), nil
}

func isEvenInt(fname string, v Value) (bool, error) {
	n, err := asNumber(fname, v)
	if err != nil {
		return false, err
	}
	if _, exact := n.Int(); !exact {
		return false, evalErrorf("%s: expected an integer, got %s", fname, FormatValue(v))
	}
	_, r := n.QuoRem(numTwo)
	return r.Cmp(numZero) == 0, nil
}

func asNumber(fname string, v Value) (goarith.Number, error) {
	if v.Tag != VTNum {
		return nil, evalErrorf("%s: expected a number, got %s", fname, FormatValue(v))
	}
	return v.Data.(goarith.Number), nil
}

func asInt(fname string, v Value) (int, error) {
	if v.Tag == VTNum {
		if i, exact := v.Data.(goarith.Number).Int(); exact {
			return i, nil
		}
	}
	return 0, evalErrorf("%s: expected an integer, got %s", fname, FormatValue(v))
}
