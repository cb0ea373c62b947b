// reader.go — source text to syntax values.
//
// A single-pass, byte-oriented reader with line/column tracking. Commas are
// whitespace, `;` comments run to end of line, and the quote family of
// reader sugar lowers to its long form:
//
//	'x    (quote x)
//	`x    (quasiquote x)
//	~x    (unquote x)
//	~@x   (unquote-splicing x)
//
// All failures are *ReadError values. Errors caused by running out of input
// inside an open form (unterminated string, unclosed delimiter, dangling
// quote) carry Incomplete=true, which the REPL uses to decide whether to
// prompt for a continuation line instead of reporting the error.
package mclj

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/nukata/goarith"
)

type reader struct {
	src  string
	pos  int
	line int
	col  int
}

// ReadString reads every top-level form in src.
func ReadString(src string) ([]Value, error) {
	r := &reader{src: src, line: 1, col: 1}
	var forms []Value
	for {
		r.skipSpace()
		if r.eof() {
			return forms, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
}

func (r *reader) eof() bool { return r.pos >= len(r.src) }

func (r *reader) peek() byte {
	if r.eof() {
		return 0
	}
	return r.src[r.pos]
}

func (r *reader) bump() byte {
	b := r.src[r.pos]
	r.pos++
	if b == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return b
}

func (r *reader) errAt(line, col int, incomplete bool, format string, args ...any) *ReadError {
	return &ReadError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...), Incomplete: incomplete}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == ','
}

// isDelim reports bytes that terminate an atom token.
func isDelim(b byte) bool {
	switch b {
	case '(', ')', '[', ']', '{', '}', '"', ';', '\'', '`', '~':
		return true
	}
	return isSpace(b)
}

func (r *reader) skipSpace() {
	for !r.eof() {
		b := r.peek()
		if isSpace(b) {
			r.bump()
			continue
		}
		if b == ';' {
			for !r.eof() && r.peek() != '\n' {
				r.bump()
			}
			continue
		}
		return
	}
}

func (r *reader) readForm() (Value, error) {
	line, col := r.line, r.col
	switch b := r.peek(); b {
	case '(':
		r.bump()
		items, err := r.readSeq(')', line, col, "list")
		if err != nil {
			return Nil, err
		}
		return NewList(items...), nil
	case '[':
		r.bump()
		items, err := r.readSeq(']', line, col, "vector")
		if err != nil {
			return Nil, err
		}
		return VecVal(items), nil
	case '{':
		r.bump()
		items, err := r.readSeq('}', line, col, "map")
		if err != nil {
			return Nil, err
		}
		if len(items)%2 != 0 {
			return Nil, r.errAt(line, col, false, "map literal must contain an even number of forms")
		}
		return NewMap(items...), nil
	case ')', ']', '}':
		return Nil, r.errAt(line, col, false, "unmatched %q", string(b))
	case '"':
		return r.readStringLit()
	case '\'':
		r.bump()
		return r.readWrapped("quote", line, col)
	case '`':
		r.bump()
		return r.readWrapped("quasiquote", line, col)
	case '~':
		r.bump()
		if !r.eof() && r.peek() == '@' {
			r.bump()
			return r.readWrapped("unquote-splicing", line, col)
		}
		return r.readWrapped("unquote", line, col)
	default:
		return r.readAtom()
	}
}

// readSeq reads forms until the closing delimiter. line/col point at the
// opening delimiter for the unclosed-form diagnostic.
func (r *reader) readSeq(close byte, line, col int, what string) ([]Value, error) {
	items := []Value{}
	for {
		r.skipSpace()
		if r.eof() {
			return nil, r.errAt(line, col, true, "unclosed %s, expected %q", what, string(close))
		}
		if r.peek() == close {
			r.bump()
			return items, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, form)
	}
}

func (r *reader) readWrapped(sym string, line, col int) (Value, error) {
	r.skipSpace()
	if r.eof() {
		return Nil, r.errAt(line, col, true, "%s must be followed by a form", sym)
	}
	form, err := r.readForm()
	if err != nil {
		return Nil, err
	}
	return NewList(Sym(sym), form), nil
}

func (r *reader) readStringLit() (Value, error) {
	line, col := r.line, r.col
	r.bump()
	var sb strings.Builder
	for {
		if r.eof() {
			return Nil, r.errAt(line, col, true, "unterminated string")
		}
		b := r.bump()
		switch b {
		case '"':
			return Str(sb.String()), nil
		case '\\':
			if r.eof() {
				return Nil, r.errAt(line, col, true, "unterminated string")
			}
			eline, ecol := r.line, r.col
			switch e := r.bump(); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return Nil, r.errAt(eline, ecol, false, "unsupported escape \\%s in string", string(e))
			}
		default:
			sb.WriteByte(b)
		}
	}
}

func (r *reader) readAtom() (Value, error) {
	line, col := r.line, r.col
	start := r.pos
	for !r.eof() && !isDelim(r.peek()) {
		r.bump()
	}
	tok := r.src[start:r.pos]
	switch tok {
	case "nil":
		return Nil, nil
	case "true":
		return True, nil
	case "false":
		return False, nil
	}
	if tok[0] == ':' {
		if len(tok) == 1 {
			return Nil, r.errAt(line, col, false, "keyword must have a name")
		}
		return Kw(tok[1:]), nil
	}
	if startsNumber(tok) {
		n, ok := parseNumber(tok)
		if !ok {
			return Nil, r.errAt(line, col, false, "invalid number %q", tok)
		}
		return n, nil
	}
	return Sym(tok), nil
}

func startsNumber(tok string) bool {
	if tok[0] >= '0' && tok[0] <= '9' {
		return true
	}
	if (tok[0] == '-' || tok[0] == '+') && len(tok) > 1 && tok[1] >= '0' && tok[1] <= '9' {
		return true
	}
	return false
}

// parseNumber accepts integers of any width (base prefixes included) and
// float literals.
func parseNumber(tok string) (Value, bool) {
	z := new(big.Int)
	if _, ok := z.SetString(tok, 0); ok {
		return Num(goarith.AsNumber(z)), true
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return Float(f), true
	}
	return Nil, false
}
