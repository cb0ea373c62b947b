// errors.go: structured error kinds and caret-snippet rendering
//
// What this file does
// -------------------
// Defines the error kinds the engine surfaces (unbound symbols, arity misses,
// inapplicable values, destructuring mismatches, macro expansion failures, the
// `error` primitive, reader diagnostics) and turns positioned reader errors
// into readable snippets with a caret pointing at the offending column:
//
//	READ ERROR in demo.clj at 3:12: unmatched delimiter: )
//
//	   2 | (let [x (+ 1 2
//	   3 |              )
//	       |            ^
//	   4 |   x)
//
// Every kind carries its structured context (symbol name, argument count,
// offending pattern) so hosts can render precise diagnostics; none of them is
// caught or retried inside the core. Match with errors.As.
//
// Behavior guarantees
// -------------------
//   - If `err` is a *ReadError, WrapErrorWithName's result message is a fully
//     formatted plain-text snippet (no ANSI colors). Other errors pass
//     through unchanged.
//   - Line/column are 1-based and clamped to the source so rendering is safe
//     on empty or truncated input.
package mclj

import (
	"fmt"
	"strings"
)

/* ===========================
   ERROR KINDS
   =========================== */

// UnboundSymbolError reports a lookup or set! target not found in any
// enclosing frame.
type UnboundSymbolError struct {
	Name string
}

func (e *UnboundSymbolError) Error() string {
	return "unable to resolve symbol: " + e.Name
}

// ArityError reports a call whose argument count no defined arity accepts.
type ArityError struct {
	FnName string
	Got    int
}

func (e *ArityError) Error() string {
	name := e.FnName
	if name == "" {
		name = "fn"
	}
	return fmt.Sprintf("wrong number of args (%d) passed to: %s", e.Got, name)
}

// NotApplicableError reports application of a value that is not a function.
type NotApplicableError struct {
	Value Value
}

func (e *NotApplicableError) Error() string {
	return "cannot call value: " + FormatValue(e.Value)
}

// DestructureError reports a binding pattern whose shape does not match the
// value being destructured: a vector pattern against a non-sequence, "&" out
// of final position, or a non-symbol rest pattern.
type DestructureError struct {
	Pattern Value
	Value   Value
}

func (e *DestructureError) Error() string {
	return "cannot destructure " + FormatValue(e.Value) + " with pattern " + FormatValue(e.Pattern)
}

// MacroExpandError reports a macro transformer that failed, most often by
// calling the `error` primitive on a malformed clause set. It wraps the
// transformer's own error.
type MacroExpandError struct {
	Name string
	Err  error
}

func (e *MacroExpandError) Error() string {
	return "macroexpansion of (" + e.Name + " ...) failed: " + e.Err.Error()
}

func (e *MacroExpandError) Unwrap() error { return e.Err }

// EvalError is a general evaluation failure: the `error` primitive's payload
// and malformed special forms.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return e.Msg }

func evalErrorf(format string, args ...any) error {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

// ReadError is a reader diagnostic with a 1-based position. Incomplete marks
// input that ended mid-form (unterminated list or string), which the REPL
// uses to prompt for continuation lines instead of reporting failure.
type ReadError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a ReadError caused by input ending in
// the middle of a form.
func IsIncomplete(err error) bool {
	re, ok := err.(*ReadError)
	return ok && re.Incomplete
}

/* ===========================
   SNIPPET RENDERING
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes reader errors and leaves
// other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("demo.clj",
// "repl") included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	re, ok := err.(*ReadError)
	if !ok {
		return err
	}
	return fmt.Errorf("%s", prettyErrorString(src, "READ ERROR", srcName, re.Line, re.Col, re.Msg))
}

// prettyErrorString builds a Python-like snippet with a header and a caret.
// It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorString(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
