package mclj

import (
	"errors"
	"strings"
	"testing"
)

func Test_Core_Type_Predicates(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"(list? '(1))", true},
		{"(list? ())", true},
		{"(list? [1])", false},
		{"(vector? [1])", true},
		{"(vector? '(1))", false},
		{"(map? {})", true},
		{"(map? [])", false},
		{"(seq? (rest [1 2]))", true},
		{"(seq? '(1))", true},
		{"(seq? [1])", false},
		{"(symbol? 'a)", true},
		{"(symbol? :a)", false},
		{"(keyword? :a)", true},
		{"(keyword? 'a)", false},
		{`(string? "s")`, true},
		{"(number? 1)", true},
		{"(number? 1.5)", true},
		{"(number? :one)", false},
		{"(fn? inc)", true},
		{"(fn? when)", true},
		{"(fn? 1)", false},
	}
	for _, c := range cases {
		wantBool(t, evalSrc(t, c.src), c.want)
	}
}

func Test_Core_Type_Names(t *testing.T) {
	cases := []struct{ src, want string }{
		{"(type nil)", ":nil"},
		{"(type true)", ":boolean"},
		{"(type 1)", ":number"},
		{`(type "s")`, ":string"},
		{"(type :k)", ":keyword"},
		{"(type 'a)", ":symbol"},
		{"(type '(1))", ":list"},
		{"(type [1])", ":vector"},
		{"(type {})", ":map"},
		{"(type (rest [1 2]))", ":seq"},
		{"(type inc)", ":fn"},
		{"(type when)", ":macro"},
	}
	for _, c := range cases {
		wantPrinted(t, evalSrc(t, c.src), c.want)
	}
}

func Test_Core_Get(t *testing.T) {
	wantInt(t, evalSrc(t, "(get {:a 1} :a)"), 1)
	wantNil(t, evalSrc(t, "(get {:a 1} :b)"))
	wantInt(t, evalSrc(t, "(get {:a 1} :b 9)"), 9)
	wantNil(t, evalSrc(t, "(get nil :a)"))
	wantInt(t, evalSrc(t, "(get nil :a 9)"), 9)
	// vectors index by position
	wantInt(t, evalSrc(t, "(get [10 20 30] 1)"), 20)
	wantNil(t, evalSrc(t, "(get [10] 5)"))
	wantInt(t, evalSrc(t, "(get [10] 5 -1)"), -1)
}

func Test_Core_Get_Composite_Keys(t *testing.T) {
	wantInt(t, evalSrc(t, "(get {[1 2] 3} [1 2])"), 3)
	wantInt(t, evalSrc(t, `(get {"k" 7} "k")`), 7)
	wantInt(t, evalSrc(t, "(get {nil 1} nil)"), 1)
}

func Test_Core_Assoc_Is_Persistent(t *testing.T) {
	ip := newRuntime(t)
	evalIn(t, ip, "(def m {:a 1})")
	wantPrinted(t, evalIn(t, ip, "(assoc m :b 2)"), "{:a 1, :b 2}")
	// the original is untouched
	wantPrinted(t, evalIn(t, ip, "m"), "{:a 1}")
	wantPrinted(t, evalIn(t, ip, "(assoc m :a 9)"), "{:a 9}")
	wantPrinted(t, evalIn(t, ip, "(assoc nil :a 1)"), "{:a 1}")
	wantPrinted(t, evalIn(t, ip, "(assoc m :b 2 :c 3)"), "{:a 1, :b 2, :c 3}")
	evalErr(t, "(assoc {} :a 1 :b)")
}

func Test_Core_Assoc_Keeps_Insertion_Order_On_Update(t *testing.T) {
	wantPrinted(t, evalSrc(t, "(assoc {:a 1 :b 2} :a 9)"), "{:a 9, :b 2}")
}

func Test_Core_Dissoc(t *testing.T) {
	wantPrinted(t, evalSrc(t, "(dissoc {:a 1 :b 2} :a)"), "{:b 2}")
	wantPrinted(t, evalSrc(t, "(dissoc {:a 1} :missing)"), "{:a 1}")
	wantPrinted(t, evalSrc(t, "(dissoc {:a 1 :b 2 :c 3} :a :c)"), "{:b 2}")
	ip := newRuntime(t)
	evalIn(t, ip, "(def m {:a 1})")
	evalIn(t, ip, "(dissoc m :a)")
	wantPrinted(t, evalIn(t, ip, "m"), "{:a 1}")
}

func Test_Core_ContainsP(t *testing.T) {
	wantBool(t, evalSrc(t, "(contains? {:a nil} :a)"), true)
	wantBool(t, evalSrc(t, "(contains? {:a 1} :b)"), false)
	wantBool(t, evalSrc(t, "(contains? [10 20] 1)"), true)
	wantBool(t, evalSrc(t, "(contains? [10 20] 2)"), false)
}

func Test_Core_Keys_Vals_Insertion_Order(t *testing.T) {
	wantPrinted(t, evalSrc(t, "(keys {:a 1 :b 2 :c 3})"), "(:a :b :c)")
	wantPrinted(t, evalSrc(t, "(vals {:a 1 :b 2 :c 3})"), "(1 2 3)")
	wantNil(t, evalSrc(t, "(keys {})"))
	wantNil(t, evalSrc(t, "(vals {})"))
}

func Test_Core_Equality(t *testing.T) {
	wantBool(t, evalSrc(t, "(= 1 1 1)"), true)
	wantBool(t, evalSrc(t, "(= 1 1 2)"), false)
	wantBool(t, evalSrc(t, `(= "a" "a")`), true)
	wantBool(t, evalSrc(t, "(= :a :a)"), true)
	wantBool(t, evalSrc(t, "(= :a 'a)"), false)
	wantBool(t, evalSrc(t, `(= 'a "a")`), false)
	wantBool(t, evalSrc(t, "(= nil nil)"), true)
	wantBool(t, evalSrc(t, "(not= 1 2)"), true)
	wantBool(t, evalSrc(t, "(not= 1 1)"), false)
}

func Test_Core_Not(t *testing.T) {
	wantBool(t, evalSrc(t, "(not nil)"), true)
	wantBool(t, evalSrc(t, "(not false)"), true)
	wantBool(t, evalSrc(t, "(not 0)"), false)
	wantBool(t, evalSrc(t, "(not ())"), false)
}

func Test_Core_Gensym_Builtin(t *testing.T) {
	ip := newRuntime(t)
	a := evalIn(t, ip, "(gensym)")
	b := evalIn(t, ip, "(gensym)")
	if a.Tag != VTSym || b.Tag != VTSym {
		t.Fatalf("gensym must return symbols, got %s %s", FormatValue(a), FormatValue(b))
	}
	if symName(a) == symName(b) {
		t.Fatalf("gensyms collide: %s", symName(a))
	}
	c := evalIn(t, ip, `(gensym "tmp__")`)
	if !strings.HasPrefix(symName(c), "tmp__") {
		t.Fatalf("prefix ignored: %s", symName(c))
	}
}

func Test_Core_Str(t *testing.T) {
	wantStr(t, evalSrc(t, `(str "a" "b")`), "ab")
	wantStr(t, evalSrc(t, "(str 1 2)"), "12")
	wantStr(t, evalSrc(t, "(str)"), "")
	wantStr(t, evalSrc(t, "(str nil)"), "")
	wantStr(t, evalSrc(t, "(str :k)"), ":k")
	wantStr(t, evalSrc(t, "(str 'sym)"), "sym")
	wantStr(t, evalSrc(t, "(str [1 2])"), "[1 2]")
	wantStr(t, evalSrc(t, `(str "x=" 1 " y=" 2.5)`), "x=1 y=2.5")
}

func Test_Core_Name(t *testing.T) {
	wantStr(t, evalSrc(t, "(name :key)"), "key")
	wantStr(t, evalSrc(t, "(name 'sym)"), "sym")
	wantStr(t, evalSrc(t, `(name "s")`), "s")
	evalErr(t, "(name 1)")
}

func Test_Core_Error_Builtin(t *testing.T) {
	err := evalErr(t, `(error "something broke")`)
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("want EvalError, got %T: %v", err, err)
	}
	if ee.Msg != "something broke" {
		t.Fatalf("want raw message, got %q", ee.Msg)
	}
	// non-string payloads print in display mode
	err = evalErr(t, "(error :bad-input)")
	if !strings.Contains(err.Error(), ":bad-input") {
		t.Fatalf("want payload in message, got %q", err.Error())
	}
}
