// seq.go: the polymorphic sequence protocol.
//
// seq/first/rest/conj/into/count over {list, vector, map, seq view, string,
// nil}. `Seq` is the universal emptiness test: it returns Nil for nil or
// empty input and a sequence view otherwise. `Rest` never returns nil; an
// exhausted sequence is the empty list. Library combinators are written
// purely against these operations and never branch on container kind.
package mclj

/* ---------- the vector/map view ---------- */

// vecSeq is a positional view over a shared element slice. rest advances the
// index instead of copying, so first/rest over a vector stay O(1). The
// backing slice is never mutated anywhere in the engine.
type vecSeq struct {
	items []Value
	at    int
}

func newSeqView(items []Value, at int) Value {
	return Value{Tag: VTSeq, Data: &vecSeq{items: items, at: at}}
}

/* ---------- protocol operations ---------- */

// Seqable reports whether Seq accepts v.
func Seqable(v Value) bool {
	switch v.Tag {
	case VTNil, VTList, VTVector, VTMap, VTSeq, VTStr:
		return true
	}
	return false
}

// Seq returns a sequence view of v, or Nil when v is nil or empty. Maps view
// as [key value] pair vectors in insertion order; strings as single-character
// strings. Non-seqable values are an evaluation error.
func Seq(v Value) (Value, error) {
	switch v.Tag {
	case VTNil:
		return Nil, nil
	case VTList:
		if v.Data.(*List) == nil {
			return Nil, nil
		}
		return v, nil
	case VTSeq:
		s := v.Data.(*vecSeq)
		if s.at >= len(s.items) {
			return Nil, nil
		}
		return v, nil
	case VTVector:
		items := v.Data.([]Value)
		if len(items) == 0 {
			return Nil, nil
		}
		return newSeqView(items, 0), nil
	case VTMap:
		m := v.Data.(*MapObject)
		if m.Len() == 0 {
			return Nil, nil
		}
		pairs := make([]Value, 0, m.Len())
		for _, e := range m.Entries {
			pairs = append(pairs, Vec(e.Key, e.Val))
		}
		return newSeqView(pairs, 0), nil
	case VTStr:
		s := v.Data.(string)
		if s == "" {
			return Nil, nil
		}
		chars := make([]Value, 0, len(s))
		for _, r := range s {
			chars = append(chars, Str(string(r)))
		}
		return newSeqView(chars, 0), nil
	default:
		return Nil, evalErrorf("seq: not seqable: %s", FormatValue(v))
	}
}

// First returns the first element of Seq(v), Nil when empty.
func First(v Value) (Value, error) {
	s, err := Seq(v)
	if err != nil {
		return Nil, err
	}
	switch s.Tag {
	case VTNil:
		return Nil, nil
	case VTList:
		return s.Data.(*List).First, nil
	default:
		vs := s.Data.(*vecSeq)
		return vs.items[vs.at], nil
	}
}

// Rest returns everything after the first element. Never nil: an exhausted
// sequence is the empty list.
func Rest(v Value) (Value, error) {
	s, err := Seq(v)
	if err != nil {
		return Nil, err
	}
	switch s.Tag {
	case VTNil:
		return EmptyList, nil
	case VTList:
		tail := s.Data.(*List).Rest
		if tail == nil {
			return EmptyList, nil
		}
		return Value{Tag: VTList, Data: tail}, nil
	default:
		vs := s.Data.(*vecSeq)
		if vs.at+1 >= len(vs.items) {
			return EmptyList, nil
		}
		return newSeqView(vs.items, vs.at+1), nil
	}
}

// Conj adds values to a collection honoring its own ordering semantics:
// head-prepend for lists and seq views, tail-append for vectors, entry
// insertion for maps (each value a [key value] pair or a map to merge), and
// nil behaves as an empty list.
func Conj(coll Value, vals ...Value) (Value, error) {
	switch coll.Tag {
	case VTNil:
		out := EmptyList
		for _, v := range vals {
			out = Cons(v, out)
		}
		return out, nil
	case VTList:
		out := coll
		for _, v := range vals {
			out = Cons(v, out)
		}
		return out, nil
	case VTSeq:
		out := listFromSlice(seqElems(coll))
		for _, v := range vals {
			out = Cons(v, out)
		}
		return out, nil
	case VTVector:
		items := coll.Data.([]Value)
		out := make([]Value, len(items), len(items)+len(vals))
		copy(out, items)
		return VecVal(append(out, vals...)), nil
	case VTMap:
		m := coll.Data.(*MapObject)
		for _, v := range vals {
			switch v.Tag {
			case VTVector:
				pair := v.Data.([]Value)
				if len(pair) != 2 {
					return Nil, evalErrorf("conj: map entry must be a [key value] pair, got %s", FormatValue(v))
				}
				m = m.Assoc(pair[0], pair[1])
			case VTMap:
				for _, e := range v.Data.(*MapObject).Entries {
					m = m.Assoc(e.Key, e.Val)
				}
			default:
				return Nil, evalErrorf("conj: map entry must be a [key value] pair, got %s", FormatValue(v))
			}
		}
		return MapVal(m), nil
	default:
		return Nil, evalErrorf("conj: not a collection: %s", FormatValue(coll))
	}
}

// Into folds Conj over src's sequence view into dst.
func Into(dst, src Value) (Value, error) {
	elems, err := seqSlice(src)
	if err != nil {
		return Nil, err
	}
	out := dst
	for _, v := range elems {
		out, err = Conj(out, v)
		if err != nil {
			return Nil, err
		}
	}
	return out, nil
}

// Count returns the element count: O(1) for vectors, maps, and views, O(n)
// for lists, rune count for strings, zero for nil.
func Count(v Value) (int, error) {
	switch v.Tag {
	case VTNil:
		return 0, nil
	case VTList:
		n := 0
		for c := v.Data.(*List); c != nil; c = c.Rest {
			n++
		}
		return n, nil
	case VTVector:
		return len(v.Data.([]Value)), nil
	case VTMap:
		return v.Data.(*MapObject).Len(), nil
	case VTSeq:
		s := v.Data.(*vecSeq)
		return len(s.items) - s.at, nil
	case VTStr:
		n := 0
		for range v.Data.(string) {
			n++
		}
		return n, nil
	default:
		return 0, evalErrorf("count: not countable: %s", FormatValue(v))
	}
}

/* ---------- internal traversal helpers ---------- */

// seqElems materializes a sequential value (list, vector, seq view) into a
// slice. Callers guarantee v is sequential.
func seqElems(v Value) []Value {
	switch v.Tag {
	case VTList:
		return listToSlice(v)
	case VTVector:
		return v.Data.([]Value)
	case VTSeq:
		s := v.Data.(*vecSeq)
		return s.items[s.at:]
	}
	return nil
}

// seqSlice materializes any seqable value via Seq.
func seqSlice(v Value) ([]Value, error) {
	s, err := Seq(v)
	if err != nil {
		return nil, err
	}
	if s.Tag == VTNil {
		return nil, nil
	}
	return seqElems(s), nil
}

func seqEqual(a, b Value) bool {
	as, bs := seqElems(a), seqElems(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}
