// bind.go: the destructuring binder.
//
// Patterns are symbols, vector patterns with an optional "& rest" tail, and
// nested vector patterns. A pattern plus a value compiles into a flat list of
// (symbol, value) pairs; callers install the pairs into a frame only after
// the whole compilation succeeds, so a failed match never leaves partial
// bindings visible. Missing elements bind nil (the rest tail binds the
// remaining sequence, empty list when exhausted). Shape mismatches fail with
// DestructureError.
package mclj

// binding is one (symbol, value) pair produced by pattern compilation.
type binding struct {
	name string
	val  Value
}

// destructure compiles pattern against value into a flat binding list.
func destructure(pattern, value Value) ([]binding, error) {
	var out []binding
	if err := destructureInto(&out, pattern, value); err != nil {
		return nil, err
	}
	return out, nil
}

func destructureInto(out *[]binding, pattern, value Value) error {
	switch pattern.Tag {
	case VTSym:
		*out = append(*out, binding{name: pattern.Data.(string), val: value})
		return nil
	case VTVector:
		pats := pattern.Data.([]Value)
		if !Seqable(value) {
			return &DestructureError{Pattern: pattern, Value: value}
		}
		cur := value
		for i := 0; i < len(pats); i++ {
			if isSymNamed(pats[i], "&") {
				if i != len(pats)-2 {
					return &DestructureError{Pattern: pattern, Value: value}
				}
				rest := pats[i+1]
				if rest.Tag != VTSym {
					return &DestructureError{Pattern: pattern, Value: value}
				}
				remaining, err := Seq(cur)
				if err != nil {
					return &DestructureError{Pattern: pattern, Value: value}
				}
				if remaining.Tag == VTNil {
					remaining = EmptyList
				}
				*out = append(*out, binding{name: rest.Data.(string), val: remaining})
				return nil
			}
			elem, err := First(cur)
			if err != nil {
				return &DestructureError{Pattern: pattern, Value: value}
			}
			if err := destructureInto(out, pats[i], elem); err != nil {
				return err
			}
			cur, err = Rest(cur)
			if err != nil {
				return &DestructureError{Pattern: pattern, Value: value}
			}
		}
		return nil
	default:
		return &DestructureError{Pattern: pattern, Value: value}
	}
}

// bindArity destructures each parameter pattern against its argument and the
// variadic tail against the extra arguments, installing into frame only once
// every pattern has matched. The argument count has already been checked by
// arity selection.
func bindArity(frame *Env, ar FnArity, args []Value) error {
	var pairs []binding
	for i, p := range ar.Params {
		if err := destructureInto(&pairs, p, args[i]); err != nil {
			return err
		}
	}
	if ar.Variadic {
		rest := listFromSlice(args[len(ar.Params):])
		pairs = append(pairs, binding{name: ar.Rest, val: rest})
	}
	for _, b := range pairs {
		frame.Define(b.name, b.val)
	}
	return nil
}
