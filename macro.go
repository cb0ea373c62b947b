// macro.go — macro recognition and fixed-point expansion.
//
// Macros are ordinary closures tagged IsMacro. The expander fires before
// argument evaluation: a list whose head symbol resolves to a macro has that
// macro applied to the raw argument forms, and the returned form replaces the
// call. Expansion repeats until the head is no longer macro-bound, so macros
// are free to expand into calls to other macros.
package mclj

// maxExpandSteps bounds a single fixed-point expansion. A well-formed macro
// chain bottoms out in a handful of steps; hitting the bound means a macro
// keeps returning a call to itself (or a cycle of macros).
const maxExpandSteps = 1000

// specialForms are evaluator-dispatched heads. They are never looked up as
// macros, so a user binding named like one cannot change their meaning.
var specialForms = map[string]bool{
	"quote":            true,
	"if":               true,
	"fn":               true,
	"def":              true,
	"defmacro":         true,
	"set!":             true,
	"quasiquote":       true,
	"unquote":          true,
	"unquote-splicing": true,
}

// macroFn resolves the head of a call form to a macro, or nil when the form
// is not a macro call: not a list, empty, head not a symbol, head a special
// form, head unbound, or head bound to anything but a macro.
func macroFn(form Value, env *Env) *Fn {
	if form.Tag != VTList || form.Data.(*List) == nil {
		return nil
	}
	head := form.Data.(*List).First
	if head.Tag != VTSym {
		return nil
	}
	name := head.Data.(string)
	if specialForms[name] {
		return nil
	}
	v, err := env.Get(name)
	if err != nil || v.Tag != VTFun {
		return nil
	}
	if fn := v.Data.(*Fn); fn.IsMacro {
		return fn
	}
	return nil
}

// expand1 performs one expansion step. The macro body runs now, at expansion
// time, over the unevaluated argument forms; its return value is the
// replacement form. The second result reports whether a step happened.
func (ip *Interp) expand1(form Value, env *Env) (Value, bool, error) {
	fn := macroFn(form, env)
	if fn == nil {
		return form, false, nil
	}
	args := listToSlice(form)[1:]
	out, err := ip.apply(FunVal(fn), args)
	if err != nil {
		return Nil, false, &MacroExpandError{Name: fn.Name, Err: err}
	}
	return out, true, nil
}

// expand rewrites form until its head is no longer a macro call.
func (ip *Interp) expand(form Value, env *Env) (Value, error) {
	for steps := 0; ; steps++ {
		if steps >= maxExpandSteps {
			name := ""
			if fn := macroFn(form, env); fn != nil {
				name = fn.Name
			}
			return Nil, &MacroExpandError{
				Name: name,
				Err:  evalErrorf("no fixed point after %d steps", maxExpandSteps),
			}
		}
		out, stepped, err := ip.expand1(form, env)
		if err != nil {
			return Nil, err
		}
		if !stepped {
			return out, nil
		}
		form = out
	}
}
