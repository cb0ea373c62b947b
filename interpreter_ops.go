// interpreter_ops.go — PRIVATE: the evaluator core.
//
// This file:
//  - Implements `(*Interp).eval`: special form dispatch (quote, if, fn, def,
//    set!, defmacro, quasiquote) and ordinary application.
//  - Implements `(*Interp).apply` with arity selection (exact fixed match
//    first, then the variadic catch-all) over closure and native functions.
//  - Parses `fn` forms into arity lists and validates them.
//  - Lowers quasiquote into cons/concat/list construction calls.
//
// Public API is in interpreter.go. Macro expansion is in macro.go; the
// destructuring binder is in bind.go.
//
// Concurrency model:
//  - A single *Interp is **not re-entrant**; reference behavior is one
//    evaluation at a time. Hosts that evaluate independent top-level forms
//    concurrently get exactly two guarantees: gensym draws from an atomic
//    counter, and top-level definition (def, defmacro, DefineFunction) is
//    serialized under ip.defMu so no torn binding is ever observed.
package mclj

////////////////////////////////////////////////////////////////////////////////
//                                 EVALUATION
////////////////////////////////////////////////////////////////////////////////

func (ip *Interp) eval(form Value, env *Env) (Value, error) {
	switch form.Tag {
	case VTSym:
		return env.Get(form.Data.(string))
	case VTList:
		if form.Data.(*List) == nil {
			return form, nil
		}
		expanded, err := ip.expand(form, env)
		if err != nil {
			return Nil, err
		}
		if expanded.Tag != VTList || expanded.Data.(*List) == nil {
			return ip.eval(expanded, env)
		}
		return ip.evalList(expanded, env)
	case VTVector:
		items := form.Data.([]Value)
		out := make([]Value, len(items))
		for i, it := range items {
			v, err := ip.eval(it, env)
			if err != nil {
				return Nil, err
			}
			out[i] = v
		}
		return VecVal(out), nil
	case VTMap:
		in := form.Data.(*MapObject)
		out := &MapObject{}
		for _, e := range in.Entries {
			k, err := ip.eval(e.Key, env)
			if err != nil {
				return Nil, err
			}
			v, err := ip.eval(e.Val, env)
			if err != nil {
				return Nil, err
			}
			out = out.Assoc(k, v)
		}
		return MapVal(out), nil
	default:
		return form, nil
	}
}

// evalList dispatches an already-expanded, non-empty list form: special forms
// by head symbol, everything else as application.
func (ip *Interp) evalList(form Value, env *Env) (Value, error) {
	items := listToSlice(form)
	head := items[0]
	if head.Tag == VTSym {
		switch head.Data.(string) {
		case "quote":
			if len(items) != 2 {
				return Nil, evalErrorf("quote: expects exactly one form")
			}
			return items[1], nil
		case "if":
			return ip.evalIf(items, env)
		case "fn":
			return ip.parseFn(items[1:], env, false)
		case "def":
			return ip.evalDef(items, env)
		case "defmacro":
			return ip.evalDefmacro(items, env)
		case "set!":
			return ip.evalSetBang(items, env)
		case "quasiquote":
			if len(items) != 2 {
				return Nil, evalErrorf("quasiquote: expects exactly one form")
			}
			lowered, err := qqExpand(items[1])
			if err != nil {
				return Nil, err
			}
			return ip.eval(lowered, env)
		case "unquote", "unquote-splicing":
			return Nil, evalErrorf("%s: only valid inside quasiquote", head.Data.(string))
		}
	}
	fv, err := ip.eval(head, env)
	if err != nil {
		return Nil, err
	}
	args := make([]Value, 0, len(items)-1)
	for _, a := range items[1:] {
		v, err := ip.eval(a, env)
		if err != nil {
			return Nil, err
		}
		args = append(args, v)
	}
	return ip.apply(fv, args)
}

func (ip *Interp) evalIf(items []Value, env *Env) (Value, error) {
	if len(items) != 3 && len(items) != 4 {
		return Nil, evalErrorf("if: expects (if test then) or (if test then else)")
	}
	t, err := ip.eval(items[1], env)
	if err != nil {
		return Nil, err
	}
	if Truthy(t) {
		return ip.eval(items[2], env)
	}
	if len(items) == 4 {
		return ip.eval(items[3], env)
	}
	return Nil, nil
}

func (ip *Interp) evalDef(items []Value, env *Env) (Value, error) {
	if len(items) != 3 {
		return Nil, evalErrorf("def: expects (def name expr)")
	}
	name := symName(items[1])
	if name == "" {
		return Nil, evalErrorf("def: name must be a symbol, got %s", FormatValue(items[1]))
	}
	v, err := ip.eval(items[2], env)
	if err != nil {
		return Nil, err
	}
	// Anonymous closures pick up the defined name for diagnostics.
	if v.Tag == VTFun {
		if f := v.Data.(*Fn); f.Name == "" {
			named := *f
			named.Name = name
			v = FunVal(&named)
		}
	}
	ip.defMu.Lock()
	ip.Global.Define(name, v)
	ip.defMu.Unlock()
	return v, nil
}

func (ip *Interp) evalDefmacro(items []Value, env *Env) (Value, error) {
	if len(items) < 3 {
		return Nil, evalErrorf("defmacro: expects (defmacro name [params] body...)")
	}
	name := symName(items[1])
	if name == "" {
		return Nil, evalErrorf("defmacro: name must be a symbol, got %s", FormatValue(items[1]))
	}
	v, err := ip.parseFn(items[1:], env, true)
	if err != nil {
		return Nil, err
	}
	ip.defMu.Lock()
	ip.Global.Define(name, v)
	ip.defMu.Unlock()
	return v, nil
}

func (ip *Interp) evalSetBang(items []Value, env *Env) (Value, error) {
	if len(items) != 3 {
		return Nil, evalErrorf("set!: expects (set! name expr)")
	}
	name := symName(items[1])
	if name == "" {
		return Nil, evalErrorf("set!: name must be a symbol, got %s", FormatValue(items[1]))
	}
	v, err := ip.eval(items[2], env)
	if err != nil {
		return Nil, err
	}
	if err := env.Set(name, v); err != nil {
		return Nil, err
	}
	return v, nil
}

////////////////////////////////////////////////////////////////////////////////
//                            CLOSURES & APPLICATION
////////////////////////////////////////////////////////////////////////////////

// parseFn builds a closure from the forms following the fn symbol: an
// optional self-reference name, then either a single `[params] body...` or
// one or more `([params] body...)` arity clauses.
func (ip *Interp) parseFn(forms []Value, env *Env, macro bool) (Value, error) {
	name := ""
	if len(forms) > 0 && forms[0].Tag == VTSym {
		name = forms[0].Data.(string)
		forms = forms[1:]
	}
	if len(forms) == 0 {
		return Nil, evalErrorf("fn: missing parameter vector")
	}
	var arities []FnArity
	if forms[0].Tag == VTVector {
		ar, err := parseArity(forms[0], forms[1:])
		if err != nil {
			return Nil, err
		}
		arities = append(arities, ar)
	} else {
		for _, clause := range forms {
			if clause.Tag != VTList || clause.Data.(*List) == nil {
				return Nil, evalErrorf("fn: arity clause must be ([params] body...), got %s", FormatValue(clause))
			}
			cl := listToSlice(clause)
			if cl[0].Tag != VTVector {
				return Nil, evalErrorf("fn: arity clause must start with a parameter vector, got %s", FormatValue(cl[0]))
			}
			ar, err := parseArity(cl[0], cl[1:])
			if err != nil {
				return Nil, err
			}
			arities = append(arities, ar)
		}
	}
	if err := checkArities(arities); err != nil {
		return Nil, err
	}
	return FunVal(&Fn{Name: name, Arities: arities, Env: env, IsMacro: macro}), nil
}

func parseArity(params Value, body []Value) (FnArity, error) {
	pats := params.Data.([]Value)
	var ar FnArity
	for i := 0; i < len(pats); i++ {
		if isSymNamed(pats[i], "&") {
			if i != len(pats)-2 {
				return FnArity{}, evalErrorf("fn: & must precede exactly one rest parameter")
			}
			rest := pats[i+1]
			if rest.Tag != VTSym {
				return FnArity{}, evalErrorf("fn: rest parameter must be a symbol, got %s", FormatValue(rest))
			}
			ar.Variadic = true
			ar.Rest = rest.Data.(string)
			ar.Body = body
			return ar, nil
		}
		if pats[i].Tag != VTSym && pats[i].Tag != VTVector {
			return FnArity{}, evalErrorf("fn: parameter must be a symbol or destructuring vector, got %s", FormatValue(pats[i]))
		}
		ar.Params = append(ar.Params, pats[i])
	}
	ar.Body = body
	return ar, nil
}

func checkArities(ars []FnArity) error {
	seen := make(map[int]bool, len(ars))
	variadics := 0
	for _, ar := range ars {
		if ar.Variadic {
			variadics++
			continue
		}
		if seen[len(ar.Params)] {
			return evalErrorf("fn: duplicate arity %d", len(ar.Params))
		}
		seen[len(ar.Params)] = true
	}
	if variadics > 1 {
		return evalErrorf("fn: only one variadic arity allowed")
	}
	return nil
}

// selectArity picks the arity for an argument count: exact fixed match wins,
// then the variadic arity whose fixed prefix fits.
func selectArity(fn *Fn, nargs int) (*FnArity, error) {
	var variadic *FnArity
	for i := range fn.Arities {
		ar := &fn.Arities[i]
		if ar.Variadic {
			if variadic == nil && len(ar.Params) <= nargs {
				variadic = ar
			}
			continue
		}
		if len(ar.Params) == nargs {
			return ar, nil
		}
	}
	if variadic != nil {
		return variadic, nil
	}
	return nil, &ArityError{FnName: fn.Name, Got: nargs}
}

func (ip *Interp) apply(f Value, args []Value) (Value, error) {
	if f.Tag != VTFun {
		return Nil, &NotApplicableError{Value: f}
	}
	fn := f.Data.(*Fn)
	ar, err := selectArity(fn, len(args))
	if err != nil {
		return Nil, err
	}
	if fn.Native != nil {
		return fn.Native(ip, args)
	}
	frame := NewEnv(fn.Env)
	if fn.Name != "" {
		frame.Define(fn.Name, f)
	}
	if err := bindArity(frame, *ar, args); err != nil {
		return Nil, err
	}
	return ip.evalBody(ar.Body, frame)
}

func (ip *Interp) evalBody(body []Value, env *Env) (Value, error) {
	out := Nil
	var err error
	for _, form := range body {
		out, err = ip.eval(form, env)
		if err != nil {
			return Nil, err
		}
	}
	return out, nil
}

////////////////////////////////////////////////////////////////////////////////
//                            QUASIQUOTE LOWERING
////////////////////////////////////////////////////////////////////////////////

// qqExpand lowers a quasiquoted form into cons/concat/list construction
// calls. Depth one only: a quasiquote nested inside an unresolved quasiquote
// is rejected rather than half-expanded.
func qqExpand(form Value) (Value, error) {
	switch form.Tag {
	case VTList:
		items := listToSlice(form)
		if len(items) == 0 {
			return NewList(Sym("concat")), nil
		}
		if isSymNamed(items[0], "unquote") {
			if len(items) != 2 {
				return Nil, evalErrorf("unquote: expects exactly one form")
			}
			return items[1], nil
		}
		if isSymNamed(items[0], "unquote-splicing") {
			return Nil, evalErrorf("unquote-splicing: only valid inside a sequence")
		}
		if isSymNamed(items[0], "quasiquote") {
			return Nil, evalErrorf("quasiquote: nesting is not supported")
		}
		return qqSegments(items)
	case VTVector:
		seq, err := qqSegments(form.Data.([]Value))
		if err != nil {
			return Nil, err
		}
		return NewList(Sym("into"), Vec(), seq), nil
	case VTSym:
		return NewList(Sym("quote"), form), nil
	case VTMap:
		return NewList(Sym("quote"), form), nil
	default:
		return form, nil
	}
}

// qqSegments builds a (concat ...) call covering the elements: runs of plain
// elements become (list ...) segments, unquote-splicing elements splice raw.
func qqSegments(items []Value) (Value, error) {
	segs := []Value{Sym("concat")}
	var run []Value
	flush := func() {
		if len(run) > 0 {
			segs = append(segs, NewList(append([]Value{Sym("list")}, run...)...))
			run = nil
		}
	}
	for _, it := range items {
		if it.Tag == VTList {
			inner := listToSlice(it)
			if len(inner) == 2 && isSymNamed(inner[0], "unquote-splicing") {
				flush()
				segs = append(segs, inner[1])
				continue
			}
		}
		x, err := qqExpand(it)
		if err != nil {
			return Nil, err
		}
		run = append(run, x)
	}
	flush()
	return NewList(segs...), nil
}
