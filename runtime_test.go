package mclj

import (
	"errors"
	"strings"
	"testing"
)

/* ---------- defn and do ---------- */

func Test_Runtime_Defn(t *testing.T) {
	ip := newRuntime(t)

	evalIn(t, ip, `(defn square [x] (* x x))`)
	wantInt(t, evalIn(t, ip, `(square 7)`), 49)

	// Multi-arity bodies share the name for self-calls.
	evalIn(t, ip, `(defn greet
	                 ([] (greet "world"))
	                 ([who] (str "hi " who)))`)
	wantStr(t, evalIn(t, ip, `(greet)`), "hi world")
	wantStr(t, evalIn(t, ip, `(greet "mclj")`), "hi mclj")
}

func Test_Runtime_Do(t *testing.T) {
	wantInt(t, evalSrc(t, `(do 1 2 3)`), 3)
	wantNil(t, evalSrc(t, `(do)`))

	ip := newRuntime(t)
	evalIn(t, ip, `(def log [])`)
	evalIn(t, ip, `(do (set! log (conj log 1))
	                   (set! log (conj log 2)))`)
	wantPrinted(t, evalIn(t, ip, `log`), "[1 2]")
}

/* ---------- when, when-not, cond ---------- */

func Test_Runtime_When(t *testing.T) {
	wantInt(t, evalSrc(t, `(when true 1 2 3)`), 3)
	wantNil(t, evalSrc(t, `(when false 1)`))
	wantNil(t, evalSrc(t, `(when nil :never)`))

	wantInt(t, evalSrc(t, `(when-not false 5)`), 5)
	wantNil(t, evalSrc(t, `(when-not true 5)`))
	wantInt(t, evalSrc(t, `(when-not nil 1 2)`), 2)
}

func Test_Runtime_Cond(t *testing.T) {
	src := `(defn classify [n]
	          (cond
	            (< n 0) :negative
	            (zero? n) :zero
	            :else :positive))`
	ip := newRuntime(t)
	evalIn(t, ip, src)
	wantPrinted(t, evalIn(t, ip, `(classify -3)`), ":negative")
	wantPrinted(t, evalIn(t, ip, `(classify 0)`), ":zero")
	wantPrinted(t, evalIn(t, ip, `(classify 9)`), ":positive")

	wantNil(t, evalSrc(t, `(cond)`))
	wantNil(t, evalSrc(t, `(cond false 1 nil 2)`))
}

func Test_Runtime_Cond_ShortCircuits(t *testing.T) {
	ip := newRuntime(t)
	evalIn(t, ip, `(def hits [])`)
	evalIn(t, ip, `(defn note! [x] (set! hits (conj hits x)) x)`)
	wantPrinted(t, evalIn(t, ip, `(cond (note! false) :a
	                                    (note! true)  :b
	                                    (note! :skip) :c)`), ":b")
	wantPrinted(t, evalIn(t, ip, `hits`), "[false true]")
}

func Test_Runtime_Cond_OddClauses(t *testing.T) {
	ip := newRuntime(t)
	_, err := ip.ExpandString(`(cond 1 2 3)`)
	if err == nil {
		t.Fatal("expected an expansion error for odd cond clauses")
	}
	var mex *MacroExpandError
	if !errors.As(err, &mex) {
		t.Fatalf("expected MacroExpandError, got %T: %v", err, err)
	}
}

/* ---------- let and letfn ---------- */

func Test_Runtime_Let(t *testing.T) {
	wantInt(t, evalSrc(t, `(let [x 2 y 3] (+ x y))`), 5)
	wantInt(t, evalSrc(t, `(let [] 42)`), 42)

	// Later bindings see earlier ones.
	wantInt(t, evalSrc(t, `(let [x 1 y (+ x 1) z (+ y 1)] z)`), 3)

	// Binding targets are full patterns.
	wantPrinted(t, evalSrc(t, `(let [[a b & r] [1 2 3 4]] [a b r])`), "[1 2 (3 4)]")
	wantPrinted(t, evalSrc(t, `(let [[[k v]] {:a 1}] [k v])`), "[:a 1]")
}

func Test_Runtime_Let_OddBindings(t *testing.T) {
	_, err := newRuntime(t).ExpandString(`(let [x] x)`)
	var mex *MacroExpandError
	if !errors.As(err, &mex) {
		t.Fatalf("expected MacroExpandError, got %T: %v", err, err)
	}
}

func Test_Runtime_Letfn(t *testing.T) {
	src := `(letfn [(my-even? [n] (if (zero? n) true (my-odd? (dec n))))
	                (my-odd?  [n] (if (zero? n) false (my-even? (dec n))))]
	          [(my-even? 10) (my-odd? 7)])`
	wantPrinted(t, evalSrc(t, src), "[true true]")

	// Bindings are local.
	evalErr(t, `(do (letfn [(helper [] 1)] (helper)) (helper))`)
}

func Test_Runtime_Letfn_Malformed(t *testing.T) {
	ip := newRuntime(t)
	for _, src := range []string{
		`(letfn [(bad)] 1)`,
		`(letfn [[f [x] x]] 1)`,
		`(letfn [(7 [x] x)] 1)`,
	} {
		_, err := ip.ExpandString(src)
		var mex *MacroExpandError
		if !errors.As(err, &mex) {
			t.Fatalf("%s: expected MacroExpandError, got %T: %v", src, err, err)
		}
	}
}

/* ---------- or, and ---------- */

func Test_Runtime_OrAnd_Values(t *testing.T) {
	wantNil(t, evalSrc(t, `(or)`))
	wantInt(t, evalSrc(t, `(or 1)`), 1)
	wantInt(t, evalSrc(t, `(or nil false 3)`), 3)
	wantBool(t, evalSrc(t, `(or nil false)`), false)

	wantBool(t, evalSrc(t, `(and)`), true)
	wantInt(t, evalSrc(t, `(and 1 2)`), 2)
	wantNil(t, evalSrc(t, `(and 1 nil 2)`))
	wantBool(t, evalSrc(t, `(and false (error "not reached"))`), false)
}

func Test_Runtime_OrAnd_EvaluateOnce(t *testing.T) {
	ip := newRuntime(t)
	evalIn(t, ip, `(def calls 0)`)
	evalIn(t, ip, `(defn bump! [] (set! calls (inc calls)) 7)`)

	wantInt(t, evalIn(t, ip, `(or nil (bump!) (bump!))`), 7)
	wantInt(t, evalIn(t, ip, `calls`), 1)

	evalIn(t, ip, `(set! calls 0)`)
	wantNil(t, evalIn(t, ip, `(and (bump!) nil (bump!))`))
	wantInt(t, evalIn(t, ip, `calls`), 1)
}

/* ---------- if-let, when-let ---------- */

func Test_Runtime_IfLet(t *testing.T) {
	wantInt(t, evalSrc(t, `(if-let [x 5] (+ x 1) :nope)`), 6)
	wantPrinted(t, evalSrc(t, `(if-let [x nil] x :nope)`), ":nope")
	wantPrinted(t, evalSrc(t, `(if-let [x false] x :nope)`), ":nope")
	wantInt(t, evalSrc(t, `(if-let [x 5] x)`), 5)
	wantNil(t, evalSrc(t, `(if-let [x nil] x)`))

	ip := newRuntime(t)
	evalIn(t, ip, `(def n 0)`)
	wantInt(t, evalIn(t, ip, `(if-let [x (do (set! n (inc n)) 42)] x :nope)`), 42)
	wantInt(t, evalIn(t, ip, `n`), 1)
}

func Test_Runtime_IfLet_BindingShape(t *testing.T) {
	ip := newRuntime(t)
	for _, src := range []string{
		`(if-let [a 1 b 2] 1 2)`,
		`(if-let [] 1 2)`,
		`(when-let [a 1 b 2] 1)`,
	} {
		_, err := ip.ExpandString(src)
		var mex *MacroExpandError
		if !errors.As(err, &mex) {
			t.Fatalf("%s: expected MacroExpandError, got %T: %v", src, err, err)
		}
	}
}

func Test_Runtime_WhenLet(t *testing.T) {
	wantInt(t, evalSrc(t, `(when-let [x 5] (+ x 1))`), 6)
	wantNil(t, evalSrc(t, `(when-let [x nil] :never)`))
	wantInt(t, evalSrc(t, `(when-let [x 1] (inc x) (+ x 2))`), 3)
}

/* ---------- threading ---------- */

func Test_Runtime_ThreadFirst(t *testing.T) {
	wantInt(t, evalSrc(t, `(-> 5 (+ 3) (* 2))`), 16)
	wantInt(t, evalSrc(t, `(-> 10 (- 3))`), 7)
	wantInt(t, evalSrc(t, `(-> [1 2 3] first inc)`), 2)
	wantPrinted(t, evalSrc(t, `(-> {} (assoc :a 1) (assoc :b 2))`), "{:a 1, :b 2}")
	wantInt(t, evalSrc(t, `(-> 9)`), 9)
}

func Test_Runtime_ThreadLast(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(->> [1 2 3] (map inc) (filter even?))`), "(2 4)")
	wantInt(t, evalSrc(t, `(->> 3 (- 10))`), 7)
	wantInt(t, evalSrc(t, `(->> [1 2 3 4] (filter odd?) (reduce +))`), 4)
	wantInt(t, evalSrc(t, `(->> 9)`), 9)
}

/* ---------- condp ---------- */

func Test_Runtime_Condp(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(condp = 3 1 :one 3 :three)`), ":three")
	wantPrinted(t, evalSrc(t, `(condp = 9 1 :one :default)`), ":default")
	wantPrinted(t, evalSrc(t, `(condp < 5 10 :small 1 :big)`), ":big")

	ip := newRuntime(t)
	evalIn(t, ip, `(def n 0)`)
	wantPrinted(t, evalIn(t, ip, `(condp = (do (set! n (inc n)) 3)
	                                1 :one
	                                3 :three)`), ":three")
	wantInt(t, evalIn(t, ip, `n`), 1)
}

func Test_Runtime_Condp_NoMatch(t *testing.T) {
	err := evalErr(t, `(condp = 9 1 :one)`)
	if got := err.Error(); !strings.Contains(got, "no matching clause: 9") {
		t.Fatalf("unexpected error message: %q", got)
	}
}

func Test_Runtime_Condp_NoClauses(t *testing.T) {
	_, err := newRuntime(t).ExpandString(`(condp = 3)`)
	var mex *MacroExpandError
	if !errors.As(err, &mex) {
		t.Fatalf("expected MacroExpandError, got %T: %v", err, err)
	}
}

/* ---------- function combinators ---------- */

func Test_Runtime_Identity_Constantly(t *testing.T) {
	wantInt(t, evalSrc(t, `(identity 5)`), 5)
	wantNil(t, evalSrc(t, `(identity nil)`))
	wantInt(t, evalSrc(t, `((constantly 7) 1 2 3)`), 7)
	wantInt(t, evalSrc(t, `((constantly 7))`), 7)
}

func Test_Runtime_Complement_Partial_Comp(t *testing.T) {
	wantBool(t, evalSrc(t, `((complement even?) 3)`), true)
	wantBool(t, evalSrc(t, `((complement even?) 4)`), false)

	wantInt(t, evalSrc(t, `((partial + 1 2) 3 4)`), 10)
	wantPrinted(t, evalSrc(t, `(map (partial * 10) [1 2 3])`), "(10 20 30)")

	wantInt(t, evalSrc(t, `((comp) 42)`), 42)
	wantInt(t, evalSrc(t, `((comp inc) 5)`), 6)
	wantStr(t, evalSrc(t, `((comp str inc) 5)`), "6")
	wantInt(t, evalSrc(t, `((comp inc inc inc) 1)`), 4)
}

/* ---------- reduce ---------- */

func Test_Runtime_Reduce(t *testing.T) {
	wantInt(t, evalSrc(t, `(reduce + 0 [1 2 3 4])`), 10)
	wantInt(t, evalSrc(t, `(reduce + [1 2 3 4])`), 10)
	wantInt(t, evalSrc(t, `(reduce + 5 [])`), 5)

	// Without an init an empty collection yields (f) and a
	// single element is returned untouched.
	wantInt(t, evalSrc(t, `(reduce + [])`), 0)
	wantInt(t, evalSrc(t, `(reduce + [7])`), 7)

	wantPrinted(t, evalSrc(t, `(reduce conj [] '(1 2 3))`), "[1 2 3]")
	wantPrinted(t, evalSrc(t, `(reduce (fn [m [k v]] (assoc m k v)) {} [[:a 1] [:b 2]])`),
		"{:a 1, :b 2}")
}

/* ---------- map, mapcat, filter, remove ---------- */

func Test_Runtime_Map(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(map inc [1 2 3])`), "(2 3 4)")
	wantPrinted(t, evalSrc(t, `(map inc ())`), "()")
	wantPrinted(t, evalSrc(t, `(map first {:a 1 :b 2})`), "(:a :b)")
	wantPrinted(t, evalSrc(t, `(map identity "ab")`), `("a" "b")`)
	wantPrinted(t, evalSrc(t, `(map inc nil)`), "()")
}

func Test_Runtime_Map_Filter_Leave_Input_Untouched(t *testing.T) {
	ip := newRuntime(t)
	evalIn(t, ip, `(def xs [1 2 3 4])`)
	wantPrinted(t, evalIn(t, ip, `(map inc xs)`), "(2 3 4 5)")
	wantPrinted(t, evalIn(t, ip, `(filter even? xs)`), "(2 4)")
	wantPrinted(t, evalIn(t, ip, `xs`), "[1 2 3 4]")
}

func Test_Runtime_Mapcat(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(mapcat (fn [x] [x x]) [1 2])`), "(1 1 2 2)")
	wantPrinted(t, evalSrc(t, `(mapcat identity [[1 2] [3]])`), "(1 2 3)")
	wantPrinted(t, evalSrc(t, `(mapcat identity [])`), "()")
}

func Test_Runtime_Filter_Remove(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(filter even? [1 2 3 4])`), "(2 4)")
	wantPrinted(t, evalSrc(t, `(filter even? [1 3])`), "()")
	wantPrinted(t, evalSrc(t, `(filter even? nil)`), "()")
	wantPrinted(t, evalSrc(t, `(remove even? [1 2 3 4])`), "(1 3)")
	wantPrinted(t, evalSrc(t, `(remove (constantly true) [1 2])`), "()")
}

/* ---------- take, drop and friends ---------- */

func Test_Runtime_Take_Drop(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(take 2 [1 2 3 4])`), "(1 2)")
	wantPrinted(t, evalSrc(t, `(take 0 [1 2 3])`), "()")
	wantPrinted(t, evalSrc(t, `(take 10 [1 2])`), "(1 2)")

	wantPrinted(t, evalSrc(t, `(drop 1 [1 2 3])`), "(2 3)")
	wantPrinted(t, evalSrc(t, `(drop 10 [1 2])`), "()")
	// Dropping nothing returns the collection itself.
	wantPrinted(t, evalSrc(t, `(drop 0 [1 2 3])`), "[1 2 3]")
}

func Test_Runtime_TakeWhile_DropWhile(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(take-while odd? [1 3 4 5])`), "(1 3)")
	wantPrinted(t, evalSrc(t, `(take-while odd? [2 1])`), "()")
	wantPrinted(t, evalSrc(t, `(take-while odd? [])`), "()")

	wantPrinted(t, evalSrc(t, `(drop-while odd? [1 3 4 5])`), "(4 5)")
	wantPrinted(t, evalSrc(t, `(drop-while odd? [1 3])`), "()")
	wantPrinted(t, evalSrc(t, `(drop-while even? [1 2 3])`), "[1 2 3]")
}

/* ---------- every?, some ---------- */

func Test_Runtime_Every_Some(t *testing.T) {
	wantBool(t, evalSrc(t, `(every? even? [2 4 6])`), true)
	wantBool(t, evalSrc(t, `(every? even? [2 3])`), false)
	wantBool(t, evalSrc(t, `(every? even? [])`), true)

	wantBool(t, evalSrc(t, `(some even? [1 2 3])`), true)
	wantNil(t, evalSrc(t, `(some even? [1 3 5])`))
	wantNil(t, evalSrc(t, `(some even? [])`))

	// some yields the predicate's value, not the element.
	wantPrinted(t, evalSrc(t, `(some (fn [x] (when (even? x) [:hit x])) [1 2 3])`),
		"[:hit 2]")
}

/* ---------- last, butlast, interleave ---------- */

func Test_Runtime_Last_Butlast(t *testing.T) {
	wantInt(t, evalSrc(t, `(last [1 2 3])`), 3)
	wantInt(t, evalSrc(t, `(last '(7))`), 7)
	wantNil(t, evalSrc(t, `(last [])`))
	wantNil(t, evalSrc(t, `(last nil)`))

	wantPrinted(t, evalSrc(t, `(butlast [1 2 3])`), "(1 2)")
	wantPrinted(t, evalSrc(t, `(butlast [1])`), "()")
	wantPrinted(t, evalSrc(t, `(butlast [])`), "()")
}

func Test_Runtime_Interleave(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(interleave [1 2 3] [:a :b :c])`), "(1 :a 2 :b 3 :c)")
	wantPrinted(t, evalSrc(t, `(interleave [1 2 3] [:a])`), "(1 :a)")
	wantPrinted(t, evalSrc(t, `(interleave [] [:a])`), "()")
}

/* ---------- group-by, repeat-n ---------- */

func Test_Runtime_GroupBy(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(group-by odd? [1 2 3 4])`), "{true [1 3], false [2 4]}")
	wantPrinted(t, evalSrc(t, `(group-by count ["a" "bb" "cc" "d"])`),
		`{1 ["a" "d"], 2 ["bb" "cc"]}`)
	wantPrinted(t, evalSrc(t, `(group-by odd? [])`), "{}")
}

func Test_Runtime_RepeatN(t *testing.T) {
	wantPrinted(t, evalSrc(t, `(repeat-n 3 :x)`), "(:x :x :x)")
	wantPrinted(t, evalSrc(t, `(repeat-n 0 :x)`), "()")
}

/* ---------- prelude is present ---------- */

func Test_Runtime_PreludeBindings(t *testing.T) {
	ip := newRuntime(t)
	for _, name := range []string{
		"identity", "map", "filter", "reduce", "comp", "partial",
		"every?", "some", "last", "group-by",
	} {
		wantBool(t, evalIn(t, ip, `(fn? `+name+`)`), true)
	}
	for _, name := range []string{"when", "cond", "let", "or", "and", "->", "->>", "condp"} {
		wantBool(t, evalIn(t, ip, `(macro? `+name+`)`), true)
	}
}
