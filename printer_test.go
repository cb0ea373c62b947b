package mclj

import "testing"

func fmtRead(t *testing.T, src string) string {
	t.Helper()
	return FormatValue(readOne(t, src))
}

func Test_Print_Scalars(t *testing.T) {
	cases := []struct{ src, want string }{
		{"nil", "nil"},
		{"true", "true"},
		{"false", "false"},
		{"42", "42"},
		{"-7", "-7"},
		{"2.5", "2.5"},
		{":key", ":key"},
		{"some-symbol", "some-symbol"},
	}
	for _, c := range cases {
		if got := fmtRead(t, c.src); got != c.want {
			t.Fatalf("%q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func Test_Print_Float_Keeps_Its_Point(t *testing.T) {
	if got := FormatValue(Float(2.0)); got != "2.0" {
		t.Fatalf("want 2.0, got %s", got)
	}
	if got := FormatValue(Float(1e21)); got != "1e+21" {
		t.Fatalf("want 1e+21, got %s", got)
	}
}

func Test_Print_Strings_Readable_Vs_Display(t *testing.T) {
	v := Str("a\n\"b\"\tc\\d")
	if got := FormatValue(v); got != `"a\n\"b\"\tc\\d"` {
		t.Fatalf("readable: got %s", got)
	}
	if got := FormatDisplay(v); got != "a\n\"b\"\tc\\d" {
		t.Fatalf("display: got %s", got)
	}
}

func Test_Print_Display_Propagates_Into_Collections(t *testing.T) {
	v := readOne(t, `("a" "b")`)
	if got := FormatValue(v); got != `("a" "b")` {
		t.Fatalf("readable: got %s", got)
	}
	if got := FormatDisplay(v); got != "(a b)" {
		t.Fatalf("display: got %s", got)
	}
}

func Test_Print_Collections(t *testing.T) {
	cases := []struct{ src, want string }{
		{"(1 2 3)", "(1 2 3)"},
		{"[1 [2] 3]", "[1 [2] 3]"},
		{"{:a 1 :b 2}", "{:a 1, :b 2}"},
		{"()", "()"},
		{"[]", "[]"},
		{"{}", "{}"},
	}
	for _, c := range cases {
		if got := fmtRead(t, c.src); got != c.want {
			t.Fatalf("%q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func Test_Print_Seq_Views_As_Lists(t *testing.T) {
	wantPrinted(t, evalSrc(t, "(rest [1 2 3])"), "(2 3)")
	wantPrinted(t, evalSrc(t, "(seq [1 2])"), "(1 2)")
	wantPrinted(t, evalSrc(t, `(seq "ab")`), `("a" "b")`)
}

func Test_Print_Functions(t *testing.T) {
	wantPrinted(t, evalSrc(t, "(fn anon-name [x] x)"), "#<fn anon-name>")
	ip := newRuntime(t)
	evalIn(t, ip, "(def square (fn [x] (* x x)))")
	wantPrinted(t, evalIn(t, ip, "square"), "#<fn square>")
	wantPrinted(t, evalIn(t, ip, "when"), "#<macro when>")
}

func Test_Print_RoundTrips_Through_The_Reader(t *testing.T) {
	for _, src := range []string{
		"(a [b {:c 1}] \"two\\nlines\" 3.5)",
		"{:xs [1 2 3], :tag :t}",
	} {
		once := fmtRead(t, src)
		twice := FormatValue(readOne(t, once))
		if once != twice {
			t.Fatalf("not stable: %s vs %s", once, twice)
		}
	}
}
