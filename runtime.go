// runtime.go
//
// This file assembles the standard runtime against the engine surface in
// interpreter.go: native builtins registered into the Core frame, then the
// embedded standard library evaluated into Global. Hosts that want a bare
// engine (no builtins, no library) use NewInterp directly.

package mclj

import (
	_ "embed"
	"fmt"
)

//go:embed core.clj
var coreClj string

// NewRuntime returns a fully-initialized interpreter: the builtin natives
// plus the standard library (control-flow macros, sequence combinators).
// This is the entry point drivers and most tests use.
func NewRuntime() (*Interp, error) {
	ip := NewInterp()

	registerCoreBuiltins(ip)
	registerSeqBuiltins(ip)
	registerMathBuiltins(ip)

	if err := ip.LoadPrelude("core.clj", coreClj); err != nil {
		return nil, err
	}
	return ip, nil
}

// LoadPrelude reads and evaluates library source against the Global frame, so
// its definitions land where user code and later preludes can see (and
// redefine) them. Failures carry the source name; read errors come back with
// a caret snippet.
func (ip *Interp) LoadPrelude(name, src string) error {
	forms, err := ReadString(src)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, WrapErrorWithSource(err, src))
	}
	for _, f := range forms {
		if _, err := ip.eval(f, ip.Global); err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}
	return nil
}
