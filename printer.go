// printer.go — value rendering.
//
// Two modes, following the readably/display split: FormatValue prints a form
// that reads back (strings quoted and escaped), FormatDisplay prints for
// human output (strings raw). Everything else renders identically in both.
// No ANSI colors here; the REPL colorizes whole output lines itself.
package mclj

import (
	"strconv"
	"strings"

	"github.com/nukata/goarith"
)

/* ---------- tiny helpers ---------- */

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatNumber keeps the int/float distinction visible: a float that prints
// without a '.' or exponent gets a ".0" suffix so it reads back as a float.
func formatNumber(n goarith.Number) string {
	if f, ok := n.(goarith.Float64); ok {
		s := strconv.FormatFloat(float64(f), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	}
	return n.String()
}

/* ---------- value printers ---------- */

// FormatValue renders v so that the result reads back as the same value
// (function values excepted).
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v, true)
	return b.String()
}

// FormatDisplay renders v for human-facing output: strings appear raw,
// without quotes or escapes. Used by str/print/println.
func FormatDisplay(v Value) string {
	var b strings.Builder
	writeValue(&b, v, false)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, readable bool) {
	switch v.Tag {
	case VTNil:
		b.WriteString("nil")
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case VTNum:
		b.WriteString(formatNumber(v.Data.(goarith.Number)))
	case VTStr:
		if readable {
			b.WriteString(quoteString(v.Data.(string)))
		} else {
			b.WriteString(v.Data.(string))
		}
	case VTKeyword:
		b.WriteByte(':')
		b.WriteString(v.Data.(string))
	case VTSym:
		b.WriteString(v.Data.(string))
	case VTList, VTSeq:
		b.WriteByte('(')
		writeElems(b, seqElems(v), readable)
		b.WriteByte(')')
	case VTVector:
		b.WriteByte('[')
		writeElems(b, v.Data.([]Value), readable)
		b.WriteByte(']')
	case VTMap:
		m := v.Data.(*MapObject)
		b.WriteByte('{')
		for i, e := range m.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e.Key, readable)
			b.WriteByte(' ')
			writeValue(b, e.Val, readable)
		}
		b.WriteByte('}')
	case VTFun:
		f := v.Data.(*Fn)
		kind := "fn"
		if f.IsMacro {
			kind = "macro"
		}
		if f.Name != "" {
			b.WriteString("#<" + kind + " " + f.Name + ">")
		} else {
			b.WriteString("#<" + kind + ">")
		}
	default:
		b.WriteString("#<unknown>")
	}
}

func writeElems(b *strings.Builder, items []Value, readable bool) {
	for i, it := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, it, readable)
	}
}
