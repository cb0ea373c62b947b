// interpreter.go — SINGLE PUBLIC API SURFACE for the mclj interpreter.
//
// OVERVIEW
// ========
// This file exposes the public surface of the mclj runtime. It contains only
// exported types and thin methods; the evaluator, macro expander, binder, and
// sequence machinery live in private files wired up during construction.
//
// What you get in this file:
//   • The **runtime value model** (`Value`, `ValueTag`, constructors like
//     `Int/Str/Sym/Kw/NewList/Vec`). Code and data share this representation:
//     a List with a Symbol head is the canonical call shape, and the macro
//     expander is a rewrite pass over the same type the evaluator executes.
//   • **Ordered maps** with value keys (`MapObject`, `MapEntry`).
//   • **Functions / closures** (`Fn`) with multiple arities, an optional
//     variadic rest parameter, and a macro tag.
//   • **Environments** (`Env`) with lexical scoping: `Define` binds in the
//     current frame, `Set` updates the nearest existing binding, `Get` walks
//     parent-ward.
//   • The **Interp** type with the canonical entry points:
//        - read+evaluate source (`EvalString`), evaluate forms (`Eval`),
//        - macro expansion to fixed point (`Expand`, `ExpandString`),
//        - function application (`Apply`),
//        - native registration (`RegisterNative`) and the host define
//          operations (`DefineFunction`, `DefineMacro`),
//        - unique symbol generation (`Gensym`).
//
// EXECUTION & SCOPING SEMANTICS
// -----------------------------
// Code evaluates in environments (`*Env`) that form a lexical chain via
// `parent`. The Interp exposes two well-known frames:
//   • `Core`: native builtins plus the embedded standard library.
//   • `Global`: user program state (`def` always lands here).
// A fresh frame is created per function application; closures share the frame
// they captured for as long as they are reachable.
//
// ERRORS
// ------
// All entry points return `(Value, error)`. Failures are structured kinds
// defined in errors.go (UnboundSymbolError, ArityError, NotApplicableError,
// DestructureError, MacroExpandError, EvalError, ReadError) and are never
// recovered inside the core; hosts decide policy between top-level forms.
//
// DEPENDENCIES (OTHER FILES)
// --------------------------
//   • reader.go / printer.go: text to forms and back.
//   • interpreter_ops.go: the evaluator (special forms, application).
//   • macro.go: macro recognition and fixed-point expansion.
//   • bind.go: the destructuring binder shared by fn parameters and patterns.
//   • seq.go: the polymorphic sequence protocol (seq/first/rest/conj/into).
//   • builtin_core.go / builtin_seq.go / builtin_math.go: native primitives.
//   • runtime.go: `NewRuntime` wiring plus the embedded core.clj prelude.
package mclj

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nukata/goarith"
)

// Version is the engine version reported by drivers and the MCP server.
var Version = "0.3.0"

// BuildDate may be overridden at link time.
var BuildDate = "unknown"

////////////////////////////////////////////////////////////////////////////////
//                              PUBLIC TYPES & CTORS
////////////////////////////////////////////////////////////////////////////////

// ValueTag discriminates the runtime value variants.
type ValueTag uint8

const (
	VTNil ValueTag = iota
	VTBool
	VTNum
	VTStr
	VTKeyword
	VTSym
	VTList
	VTVector
	VTMap
	VTSeq
	VTFun
)

// Value is the single tagged representation for both code and data. Data holds
// the payload for the tag: nothing for VTNil, bool, goarith.Number, string for
// VTStr/VTKeyword/VTSym, *List (nil means the empty list), []Value, *MapObject,
// *vecSeq, or *Fn.
type Value struct {
	Tag  ValueTag
	Data any
}

// Well-known constants.
var (
	Nil       = Value{Tag: VTNil}
	True      = Value{Tag: VTBool, Data: true}
	False     = Value{Tag: VTBool, Data: false}
	EmptyList = Value{Tag: VTList, Data: (*List)(nil)}
)

// Bool wraps a Go bool.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Int wraps an integer into the numeric tower.
func Int(n int64) Value { return Value{Tag: VTNum, Data: goarith.AsNumber(n)} }

// Float wraps a float into the numeric tower.
func Float(f float64) Value { return Value{Tag: VTNum, Data: goarith.AsNumber(f)} }

// Num wraps an already-normalized goarith number.
func Num(n goarith.Number) Value { return Value{Tag: VTNum, Data: n} }

// Str wraps a Go string.
func Str(s string) Value { return Value{Tag: VTStr, Data: s} }

// Sym names a symbol. Symbols compare by name; see Gensym for fresh ones.
func Sym(name string) Value { return Value{Tag: VTSym, Data: name} }

// Kw names a keyword (without the leading colon).
func Kw(name string) Value { return Value{Tag: VTKeyword, Data: name} }

// FunVal wraps *Fn into a Value.
func FunVal(f *Fn) Value { return Value{Tag: VTFun, Data: f} }

// List is an immutable singly linked list; a nil *List is the empty list.
// First/rest are O(1), as is prepending via Cons.
type List struct {
	First Value
	Rest  *List
}

// Cons prepends x onto list (which must be VTList or VTNil).
func Cons(x, list Value) Value {
	var tail *List
	if list.Tag == VTList {
		tail = list.Data.(*List)
	}
	return Value{Tag: VTList, Data: &List{First: x, Rest: tail}}
}

// NewList builds a list from items in order.
func NewList(items ...Value) Value { return listFromSlice(items) }

// Vec builds a vector from items in order.
func Vec(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Tag: VTVector, Data: items}
}

// VecVal wraps an existing slice as a vector without copying.
func VecVal(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Tag: VTVector, Data: items}
}

// MapEntry is one key/value pair of a MapObject.
type MapEntry struct {
	Key Value
	Val Value
}

// MapObject is an immutable association list preserving insertion order.
// Lookups compare keys with Equal, so keys may be any value kind the language
// can compare (keywords, strings, numbers, booleans, symbols, collections).
// Assoc and Without return fresh objects; entries are never mutated in place.
type MapObject struct {
	Entries []MapEntry
}

// MapVal wraps a MapObject into a Value.
func MapVal(m *MapObject) Value {
	if m == nil {
		m = &MapObject{}
	}
	return Value{Tag: VTMap, Data: m}
}

// NewMap builds a map from alternating key/value arguments.
func NewMap(kvs ...Value) Value {
	m := &MapObject{}
	for i := 0; i+1 < len(kvs); i += 2 {
		m = m.Assoc(kvs[i], kvs[i+1])
	}
	return MapVal(m)
}

// Get returns the value for key and whether it was present.
func (m *MapObject) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if Equal(e.Key, key) {
			return e.Val, true
		}
	}
	return Nil, false
}

// Assoc returns a copy with key set to val, replacing in place when the key
// already exists and appending otherwise.
func (m *MapObject) Assoc(key, val Value) *MapObject {
	out := make([]MapEntry, len(m.Entries), len(m.Entries)+1)
	copy(out, m.Entries)
	for i, e := range out {
		if Equal(e.Key, key) {
			out[i] = MapEntry{Key: key, Val: val}
			return &MapObject{Entries: out}
		}
	}
	return &MapObject{Entries: append(out, MapEntry{Key: key, Val: val})}
}

// Without returns a copy with key removed.
func (m *MapObject) Without(key Value) *MapObject {
	out := make([]MapEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if !Equal(e.Key, key) {
			out = append(out, e)
		}
	}
	return &MapObject{Entries: out}
}

// Len is the number of entries.
func (m *MapObject) Len() int { return len(m.Entries) }

////////////////////////////////////////////////////////////////////////////////
//                          FUNCTIONS, ARITIES, NATIVES
////////////////////////////////////////////////////////////////////////////////

// FnArity is one parameter list / body alternative of a function. Params holds
// the fixed parameter patterns (symbols or vector destructuring patterns);
// Rest names the variadic tail parameter when Variadic is set.
type FnArity struct {
	Params   []Value
	Rest     string
	Variadic bool
	Body     []Value
}

// NativeImpl is the Go implementation of a builtin. Arguments arrive already
// evaluated and arity-checked against the registered parameter spec.
type NativeImpl func(ip *Interp, args []Value) (Value, error)

// Fn is a function value: an ordered list of arities closing over Env. Macro
// transformers are ordinary Fns with IsMacro set; the expander invokes them on
// unevaluated forms. Builtins carry a Native implementation and no bodies.
type Fn struct {
	Name    string
	Arities []FnArity
	Env     *Env
	IsMacro bool
	Native  NativeImpl
}

////////////////////////////////////////////////////////////////////////////////
//                                 ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward. Use Define to bind in the current frame, Set to update an
// existing visible binding (nearest frame), and Get to retrieve.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name to v. If no binding exists
// in any visible frame, Set returns an UnboundSymbolError (it does not
// implicitly define).
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return &UnboundSymbolError{Name: name}
}

// Get retrieves the nearest visible binding for name or returns an
// UnboundSymbolError.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, &UnboundSymbolError{Name: name}
}

// Names returns the names bound directly in this frame, unsorted.
func (e *Env) Names() []string {
	out := make([]string, 0, len(e.table))
	for k := range e.table {
		out = append(out, k)
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                                 INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interp evaluates forms against a Core frame (builtins and the standard
// library) and a Global frame (user definitions). Reference behavior is
// single-threaded; the two concessions to concurrent hosts are that gensym is
// atomic and top-level definition is serialized.
type Interp struct {
	Core   *Env
	Global *Env

	gensymN atomic.Int64
	defMu   sync.Mutex
}

// NewInterp returns an empty interpreter: no builtins, no prelude. Most hosts
// want NewRuntime (runtime.go) instead.
func NewInterp() *Interp {
	ip := &Interp{}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	return ip
}

// GlobalEnv exposes the persistent top-level frame for drivers.
func (ip *Interp) GlobalEnv() *Env { return ip.Global }

// Eval expands and evaluates a single form in env (Global when env is nil).
func (ip *Interp) Eval(form Value, env *Env) (Value, error) {
	if env == nil {
		env = ip.Global
	}
	return ip.eval(form, env)
}

// EvalString reads every form in src and evaluates them in order against the
// Global frame, returning the value of the last (Nil for empty input).
func (ip *Interp) EvalString(src string) (Value, error) {
	forms, err := ReadString(src)
	if err != nil {
		return Nil, err
	}
	out := Nil
	for _, f := range forms {
		out, err = ip.eval(f, ip.Global)
		if err != nil {
			return Nil, err
		}
	}
	return out, nil
}

// Expand macro-expands form to a fixed point without evaluating it.
func (ip *Interp) Expand(form Value, env *Env) (Value, error) {
	if env == nil {
		env = ip.Global
	}
	return ip.expand(form, env)
}

// ExpandString reads src and returns each top-level form fully expanded.
func (ip *Interp) ExpandString(src string) ([]Value, error) {
	forms, err := ReadString(src)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(forms))
	for _, f := range forms {
		x, err := ip.expand(f, ip.Global)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// Apply calls a function value with already-evaluated arguments.
func (ip *Interp) Apply(f Value, args []Value) (Value, error) {
	return ip.apply(f, args)
}

// Gensym returns a symbol guaranteed distinct from every other symbol this
// process will ever generate. The empty prefix defaults to "G__".
func (ip *Interp) Gensym(prefix string) Value {
	if prefix == "" {
		prefix = "G__"
	}
	n := ip.gensymN.Add(1)
	return Sym(prefix + strconv.FormatInt(n, 10))
}

// RegisterNative binds a builtin into the Core frame. The params spec names
// the parameters of each arity, alternatives separated by "|", a variadic
// tail marked with "&":
//
//	ip.RegisterNative("cons", "x coll", bCons)
//	ip.RegisterNative("get", "m k | m k default", bGet)
//	ip.RegisterNative("list", "& items", bList)
//
// Registration panics on a malformed spec; specs are authored in this repo.
func (ip *Interp) RegisterNative(name, params string, impl NativeImpl) {
	ip.Core.Define(name, FunVal(&Fn{
		Name:    name,
		Arities: parseNativeParams(name, params),
		Native:  impl,
	}))
}

// DefineFunction installs a function value under name in the Global frame.
// This is the host-facing define operation; definition is serialized so
// concurrent hosts never observe a torn binding.
func (ip *Interp) DefineFunction(name string, f Value) error {
	if f.Tag != VTFun {
		return &NotApplicableError{Value: f}
	}
	ip.defMu.Lock()
	defer ip.defMu.Unlock()
	ip.Global.Define(name, f)
	return nil
}

// DefineMacro installs a function value as a macro under name. The transformer
// will receive unevaluated forms and must return a replacement form.
func (ip *Interp) DefineMacro(name string, f Value) error {
	if f.Tag != VTFun {
		return &NotApplicableError{Value: f}
	}
	inner := f.Data.(*Fn)
	mac := *inner
	mac.IsMacro = true
	if mac.Name == "" {
		mac.Name = name
	}
	ip.defMu.Lock()
	defer ip.defMu.Unlock()
	ip.Global.Define(name, FunVal(&mac))
	return nil
}

////////////////////////////////////////////////////////////////////////////////
//                          EQUALITY & TRUTHINESS
////////////////////////////////////////////////////////////////////////////////

// Truthy reports whether v is logically true: everything except nil and false.
func Truthy(v Value) bool {
	if v.Tag == VTNil {
		return false
	}
	if v.Tag == VTBool {
		return v.Data.(bool)
	}
	return true
}

// Equal is the language's `=`: numbers compare numerically across the tower,
// strings/symbols/keywords by name within their own kind, lists/vectors/seqs
// sequentially by element regardless of concrete shape, maps by key set and
// per-key value, functions by identity.
func Equal(a, b Value) bool {
	if isSequential(a) && isSequential(b) {
		return seqEqual(a, b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(goarith.Number).Cmp(b.Data.(goarith.Number)) == 0
	case VTStr, VTSym, VTKeyword:
		return a.Data.(string) == b.Data.(string)
	case VTMap:
		ma, mb := a.Data.(*MapObject), b.Data.(*MapObject)
		if ma.Len() != mb.Len() {
			return false
		}
		for _, e := range ma.Entries {
			bv, ok := mb.Get(e.Key)
			if !ok || !Equal(e.Val, bv) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data.(*Fn) == b.Data.(*Fn)
	default:
		return false
	}
}

func isSequential(v Value) bool {
	return v.Tag == VTList || v.Tag == VTVector || v.Tag == VTSeq
}

////////////////////////////////////////////////////////////////////////////////
//                              PRIVATE HELPERS
////////////////////////////////////////////////////////////////////////////////

func listFromSlice(items []Value) Value {
	var tail *List
	for i := len(items) - 1; i >= 0; i-- {
		tail = &List{First: items[i], Rest: tail}
	}
	return Value{Tag: VTList, Data: tail}
}

func listToSlice(v Value) []Value {
	var out []Value
	if v.Tag != VTList {
		return out
	}
	for c := v.Data.(*List); c != nil; c = c.Rest {
		out = append(out, c.First)
	}
	return out
}

// symName returns the name of a symbol value, or "" when v is not a symbol.
func symName(v Value) string {
	if v.Tag != VTSym {
		return ""
	}
	return v.Data.(string)
}

func isSymNamed(v Value, name string) bool {
	return v.Tag == VTSym && v.Data.(string) == name
}

func parseNativeParams(name, params string) []FnArity {
	alts := strings.Split(params, "|")
	out := make([]FnArity, 0, len(alts))
	for _, alt := range alts {
		var ar FnArity
		fields := strings.Fields(alt)
		for i := 0; i < len(fields); i++ {
			if fields[i] == "&" {
				if i != len(fields)-2 {
					panic("mclj: native " + name + ": & must precede exactly one rest parameter")
				}
				ar.Variadic = true
				ar.Rest = fields[i+1]
				break
			}
			ar.Params = append(ar.Params, Sym(fields[i]))
		}
		out = append(out, ar)
	}
	if err := checkArities(out); err != nil {
		panic("mclj: native " + name + ": " + err.Error())
	}
	return out
}
