package mclj

import (
	"fmt"
	"strings"
)

// ---- core built-ins ----------------------------------------------------

func registerCoreBuiltins(ip *Interp) {
	// ---- type predicates ----

	// (list? x)
	ip.RegisterNative("list?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTList), nil
	})

	// (vector? x)
	ip.RegisterNative("vector?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTVector), nil
	})

	// (map? x)
	ip.RegisterNative("map?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTMap), nil
	})

	// (seq? x) -> true for lists and sequence views
	ip.RegisterNative("seq?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTList || args[0].Tag == VTSeq), nil
	})

	// (symbol? x)
	ip.RegisterNative("symbol?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTSym), nil
	})

	// (keyword? x)
	ip.RegisterNative("keyword?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTKeyword), nil
	})

	// (string? x)
	ip.RegisterNative("string?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTStr), nil
	})

	// (number? x)
	ip.RegisterNative("number?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTNum), nil
	})

	// (fn? x)
	ip.RegisterNative("fn?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTFun), nil
	})

	// (macro? x)
	ip.RegisterNative("macro?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTFun && args[0].Data.(*Fn).IsMacro), nil
	})

	// (type x) -> keyword naming x's kind
	ip.RegisterNative("type", "x", func(_ *Interp, args []Value) (Value, error) {
		return Kw(typeName(args[0])), nil
	})

	// ---- maps ----

	// (get m k) / (get m k default) -> value at key/index, default when absent
	ip.RegisterNative("get", "m k | m k default", func(_ *Interp, args []Value) (Value, error) {
		missing := Nil
		if len(args) == 3 {
			missing = args[2]
		}
		switch args[0].Tag {
		case VTNil:
			return missing, nil
		case VTMap:
			if v, ok := args[0].Data.(*MapObject).Get(args[1]); ok {
				return v, nil
			}
			return missing, nil
		case VTVector:
			items := args[0].Data.([]Value)
			if i, err := asInt("get", args[1]); err == nil && i >= 0 && i < len(items) {
				return items[i], nil
			}
			return missing, nil
		default:
			return Nil, evalErrorf("get: not an associative value: %s", FormatValue(args[0]))
		}
	})

	// (assoc m k v & kvs) -> map with the pairs added, insertion order kept
	ip.RegisterNative("assoc", "m k v & kvs", func(_ *Interp, args []Value) (Value, error) {
		if len(args)%2 != 1 {
			return Nil, evalErrorf("assoc: expects an even number of key/value arguments")
		}
		var m *MapObject
		switch args[0].Tag {
		case VTNil:
			m = &MapObject{}
		case VTMap:
			m = args[0].Data.(*MapObject)
		default:
			return Nil, evalErrorf("assoc: not a map: %s", FormatValue(args[0]))
		}
		for i := 1; i < len(args); i += 2 {
			m = m.Assoc(args[i], args[i+1])
		}
		return MapVal(m), nil
	})

	// (dissoc m & ks) -> map without the keys
	ip.RegisterNative("dissoc", "m & ks", func(_ *Interp, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTNil:
			return Nil, nil
		case VTMap:
			m := args[0].Data.(*MapObject)
			for _, k := range args[1:] {
				m = m.Without(k)
			}
			return MapVal(m), nil
		default:
			return Nil, evalErrorf("dissoc: not a map: %s", FormatValue(args[0]))
		}
	})

	// (contains? m k) -> key present (map) / index in range (vector)
	ip.RegisterNative("contains?", "m k", func(_ *Interp, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTNil:
			return False, nil
		case VTMap:
			_, ok := args[0].Data.(*MapObject).Get(args[1])
			return Bool(ok), nil
		case VTVector:
			i, err := asInt("contains?", args[1])
			if err != nil {
				return False, nil
			}
			return Bool(i >= 0 && i < len(args[0].Data.([]Value))), nil
		default:
			return Nil, evalErrorf("contains?: not an associative value: %s", FormatValue(args[0]))
		}
	})

	// (keys m) -> list of keys in insertion order, nil when empty
	ip.RegisterNative("keys", "m", func(_ *Interp, args []Value) (Value, error) {
		m, err := asMap("keys", args[0])
		if err != nil {
			return Nil, err
		}
		if m.Len() == 0 {
			return Nil, nil
		}
		out := make([]Value, m.Len())
		for i, e := range m.Entries {
			out[i] = e.Key
		}
		return listFromSlice(out), nil
	})

	// (vals m) -> list of values in insertion order, nil when empty
	ip.RegisterNative("vals", "m", func(_ *Interp, args []Value) (Value, error) {
		m, err := asMap("vals", args[0])
		if err != nil {
			return Nil, err
		}
		if m.Len() == 0 {
			return Nil, nil
		}
		out := make([]Value, m.Len())
		for i, e := range m.Entries {
			out[i] = e.Val
		}
		return listFromSlice(out), nil
	})

	// ---- equality & logic ----

	// (= x y & more) -> structural equality over all arguments
	ip.RegisterNative("=", "x y & more", func(_ *Interp, args []Value) (Value, error) {
		for i := 1; i < len(args); i++ {
			if !Equal(args[i-1], args[i]) {
				return False, nil
			}
		}
		return True, nil
	})

	// (not= x y & more)
	ip.RegisterNative("not=", "x y & more", func(_ *Interp, args []Value) (Value, error) {
		for i := 1; i < len(args); i++ {
			if !Equal(args[i-1], args[i]) {
				return True, nil
			}
		}
		return False, nil
	})

	// (not x)
	ip.RegisterNative("not", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(!Truthy(args[0])), nil
	})

	// ---- symbols & strings ----

	// (gensym) / (gensym prefix) -> fresh symbol, never equal to any other
	ip.RegisterNative("gensym", "| prefix", func(ip *Interp, args []Value) (Value, error) {
		prefix := ""
		if len(args) == 1 {
			switch args[0].Tag {
			case VTStr, VTSym:
				prefix = args[0].Data.(string)
			default:
				return Nil, evalErrorf("gensym: prefix must be a string or symbol, got %s", FormatValue(args[0]))
			}
		}
		return ip.Gensym(prefix), nil
	})

	// (str & xs) -> display strings concatenated, nil contributing ""
	ip.RegisterNative("str", "& xs", func(_ *Interp, args []Value) (Value, error) {
		var b strings.Builder
		for _, v := range args {
			if v.Tag == VTNil {
				continue
			}
			b.WriteString(FormatDisplay(v))
		}
		return Str(b.String()), nil
	})

	// (name x) -> name of a keyword/symbol, a string unchanged
	ip.RegisterNative("name", "x", func(_ *Interp, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTKeyword, VTSym, VTStr:
			return Str(args[0].Data.(string)), nil
		default:
			return Nil, evalErrorf("name: expected a keyword, symbol, or string, got %s", FormatValue(args[0]))
		}
	})

	// ---- output ----

	// (print & xs) -> display strings space-joined to stdout, no newline
	ip.RegisterNative("print", "& xs", func(_ *Interp, args []Value) (Value, error) {
		printArgs(args, false, false)
		return Nil, nil
	})

	// (println & xs) -> display strings space-joined to stdout, with newline
	ip.RegisterNative("println", "& xs", func(_ *Interp, args []Value) (Value, error) {
		printArgs(args, false, true)
		return Nil, nil
	})

	// (prn & xs) -> readable strings space-joined to stdout, with newline
	ip.RegisterNative("prn", "& xs", func(_ *Interp, args []Value) (Value, error) {
		printArgs(args, true, true)
		return Nil, nil
	})

	// ---- failure ----

	// (error msg) -> aborts the enclosing evaluation; never returns a value
	ip.RegisterNative("error", "msg", func(_ *Interp, args []Value) (Value, error) {
		return Nil, &EvalError{Msg: FormatDisplay(args[0])}
	})

	// ---- macro introspection ----

	// (macroexpand-1 form) -> one expansion step, form unchanged if not a macro call
	ip.RegisterNative("macroexpand-1", "form", func(ip *Interp, args []Value) (Value, error) {
		out, _, err := ip.expand1(args[0], ip.Global)
		return out, err
	})

	// (macroexpand form) -> form expanded until its head is no longer a macro
	ip.RegisterNative("macroexpand", "form", func(ip *Interp, args []Value) (Value, error) {
		return ip.expand(args[0], ip.Global)
	})
}

func typeName(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTKeyword:
		return "keyword"
	case VTSym:
		return "symbol"
	case VTList:
		return "list"
	case VTVector:
		return "vector"
	case VTMap:
		return "map"
	case VTSeq:
		return "seq"
	case VTFun:
		if v.Data.(*Fn).IsMacro {
			return "macro"
		}
		return "fn"
	}
	return "unknown"
}

func asMap(fname string, v Value) (*MapObject, error) {
	switch v.Tag {
	case VTNil:
		return &MapObject{}, nil
	case VTMap:
		return v.Data.(*MapObject), nil
	}
	return nil, evalErrorf("%s: not a map: %s", fname, FormatValue(v))
}

func printArgs(args []Value, readable, newline bool) {
	var b strings.Builder
	for i, v := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if readable {
			b.WriteString(FormatValue(v))
		} else {
			b.WriteString(FormatDisplay(v))
		}
	}
	if newline {
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
