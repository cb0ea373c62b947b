package mclj

// ---- sequence built-ins ------------------------------------------------
//
// The protocol operations (seq/first/rest/conj/into) plus the construction
// and slicing primitives the standard library is written against. Everything
// here goes through seq.go so all container kinds behave uniformly.

func registerSeqBuiltins(ip *Interp) {
	// (cons x coll) -> list with x prepended to coll's elements
	ip.RegisterNative("cons", "x coll", func(_ *Interp, args []Value) (Value, error) {
		coll := args[1]
		if coll.Tag == VTList || coll.Tag == VTNil {
			return Cons(args[0], coll), nil
		}
		items, err := seqSlice(coll)
		if err != nil {
			return Nil, err
		}
		return Cons(args[0], listFromSlice(items)), nil
	})

	// (list & items) -> list of the arguments
	ip.RegisterNative("list", "& items", func(_ *Interp, args []Value) (Value, error) {
		return listFromSlice(args), nil
	})

	// (list* a b ... coll) -> list of the leading arguments followed by coll's elements
	ip.RegisterNative("list*", "& items", func(_ *Interp, args []Value) (Value, error) {
		if len(args) == 0 {
			return Nil, evalErrorf("list*: expects a final sequence argument")
		}
		tail, err := seqSlice(args[len(args)-1])
		if err != nil {
			return Nil, err
		}
		head := append(append([]Value{}, args[:len(args)-1]...), tail...)
		return listFromSlice(head), nil
	})

	// (concat & colls) -> list of all elements in order
	ip.RegisterNative("concat", "& colls", func(_ *Interp, args []Value) (Value, error) {
		var items []Value
		for _, coll := range args {
			elems, err := seqSlice(coll)
			if err != nil {
				return Nil, err
			}
			items = append(items, elems...)
		}
		return listFromSlice(items), nil
	})

	// (seq coll) -> sequence view, nil when coll is empty or nil
	ip.RegisterNative("seq", "coll", func(_ *Interp, args []Value) (Value, error) {
		return Seq(args[0])
	})

	// (first coll) -> first element, nil when empty
	ip.RegisterNative("first", "coll", func(_ *Interp, args []Value) (Value, error) {
		return First(args[0])
	})

	// (rest coll) -> sequence of the remaining elements, never nil
	ip.RegisterNative("rest", "coll", func(_ *Interp, args []Value) (Value, error) {
		return Rest(args[0])
	})

	// (next coll) -> (seq (rest coll))
	ip.RegisterNative("next", "coll", func(_ *Interp, args []Value) (Value, error) {
		r, err := Rest(args[0])
		if err != nil {
			return Nil, err
		}
		return Seq(r)
	})

	// (second coll) -> second element, nil when absent
	ip.RegisterNative("second", "coll", func(_ *Interp, args []Value) (Value, error) {
		r, err := Rest(args[0])
		if err != nil {
			return Nil, err
		}
		return First(r)
	})

	// (conj coll & vals) -> coll with vals added per its own ordering
	ip.RegisterNative("conj", "coll & vals", func(_ *Interp, args []Value) (Value, error) {
		return Conj(args[0], args[1:]...)
	})

	// (into dst src) -> dst with src's elements conj'd in
	ip.RegisterNative("into", "dst src", func(_ *Interp, args []Value) (Value, error) {
		return Into(args[0], args[1])
	})

	// (count coll) -> element count
	ip.RegisterNative("count", "coll", func(_ *Interp, args []Value) (Value, error) {
		n, err := Count(args[0])
		if err != nil {
			return Nil, err
		}
		return Int(int64(n)), nil
	})

	// (empty? coll) -> true when (seq coll) is nil
	ip.RegisterNative("empty?", "coll", func(_ *Interp, args []Value) (Value, error) {
		s, err := Seq(args[0])
		if err != nil {
			return Nil, err
		}
		return Bool(s.Tag == VTNil), nil
	})

	// (nil? x)
	ip.RegisterNative("nil?", "x", func(_ *Interp, args []Value) (Value, error) {
		return Bool(args[0].Tag == VTNil), nil
	})

	// (reverse coll) -> list of coll's elements in reverse order
	ip.RegisterNative("reverse", "coll", func(_ *Interp, args []Value) (Value, error) {
		items, err := seqSlice(args[0])
		if err != nil {
			return Nil, err
		}
		out := EmptyList
		for _, v := range items {
			out = Cons(v, out)
		}
		return out, nil
	})

	// (partition n coll) -> list of n-element lists, incomplete tail dropped
	ip.RegisterNative("partition", "n coll", func(_ *Interp, args []Value) (Value, error) {
		n, err := asInt("partition", args[0])
		if err != nil {
			return Nil, err
		}
		if n < 1 {
			return Nil, evalErrorf("partition: size must be positive, got %d", n)
		}
		items, err := seqSlice(args[1])
		if err != nil {
			return Nil, err
		}
		var chunks []Value
		for i := 0; i+n <= len(items); i += n {
			chunks = append(chunks, listFromSlice(items[i:i+n]))
		}
		return listFromSlice(chunks), nil
	})

	// (split-at n coll) -> [(first n elements) (the rest)]
	ip.RegisterNative("split-at", "n coll", func(_ *Interp, args []Value) (Value, error) {
		n, err := asInt("split-at", args[0])
		if err != nil {
			return Nil, err
		}
		items, err := seqSlice(args[1])
		if err != nil {
			return Nil, err
		}
		if n < 0 {
			n = 0
		}
		if n > len(items) {
			n = len(items)
		}
		return Vec(listFromSlice(items[:n]), listFromSlice(items[n:])), nil
	})

	// (apply f a b ... coll) -> f called with the leading args plus coll's elements
	ip.RegisterNative("apply", "f & args", func(ip *Interp, args []Value) (Value, error) {
		rest := args[1:]
		if len(rest) == 0 {
			return Nil, evalErrorf("apply: expects a final sequence argument")
		}
		tail, err := seqSlice(rest[len(rest)-1])
		if err != nil {
			return Nil, err
		}
		argv := append(append([]Value{}, rest[:len(rest)-1]...), tail...)
		return ip.apply(args[0], argv)
	})
}
