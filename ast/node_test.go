package ast_test

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"

	"github.com/njchilds90/gosympad/ast"
)

var (
	x   = ast.Var("x")
	y   = ast.Var("y")
	one = ast.Num("1")
	two = ast.Num("2")
)

// ============================================================
// Construction
// ============================================================

func TestNew_MatchesTypedConstructors(t *testing.T) {
	type test struct {
		name   string
		fields []interface{}
		want   *ast.Node
	}
	testCases := []test{
		{"eq", []interface{}{"=", "<=", x, one}, ast.Eq("<=", x, one)},
		{"num", []interface{}{"#", "1.5e-3"}, ast.Num("1.5e-3")},
		{"var", []interface{}{"@", "x"}, x},
		{"attr", []interface{}{".", x, "T"}, ast.Attr(x, "T")},
		{"method", []interface{}{".", x, "subs", []interface{}{y, one}}, ast.Method(x, "subs", y, one)},
		{"str", []interface{}{`"`, "hi"}, ast.Str("hi")},
		{"comma", []interface{}{",", []interface{}{x, y}}, ast.Comma(x, y)},
		{"curly", []interface{}{"{", x}, ast.Curly(x)},
		{"paren", []interface{}{"(", x}, ast.Paren(x)},
		{"brack", []interface{}{"[", []interface{}{x}}, ast.Brack(x)},
		{"abs", []interface{}{"|", x}, ast.Abs(x)},
		{"minus", []interface{}{"-", x}, ast.Minus(x)},
		{"fact", []interface{}{"!", x}, ast.Fact(x)},
		{"add", []interface{}{"+", []interface{}{one, x}}, ast.Add(one, x)},
		{"mul", []interface{}{"*", []interface{}{two, x}}, ast.Mul(two, x)},
		{"div", []interface{}{"/", one, x}, ast.Div(one, x)},
		{"pow", []interface{}{"^", x, two}, ast.Pow(x, two)},
		{"ln", []interface{}{"log", x}, ast.Log(x, nil)},
		{"log base", []interface{}{"log", x, two}, ast.Log(x, two)},
		{"sqrt", []interface{}{"sqrt", x}, ast.Sqrt(x, nil)},
		{"root", []interface{}{"sqrt", x, ast.Num("3")}, ast.Sqrt(x, ast.Num("3"))},
		{"func", []interface{}{"func", "sin", []interface{}{x}}, ast.Func("sin", x)},
		{"lim", []interface{}{"lim", x, x, ast.Zero}, ast.Lim(x, x, ast.Zero, "")},
		{"lim dir", []interface{}{"lim", x, x, ast.Zero, "+"}, ast.Lim(x, x, ast.Zero, "+")},
		{"sum", []interface{}{"sum", x, x, one, two}, ast.Sum(x, x, one, two)},
		{"diff", []interface{}{"diff", x, []interface{}{ast.Var("dx")}}, ast.Diff(x, ast.Var("dx"))},
		{"intg", []interface{}{"intg", nil, ast.Var("dx")}, ast.Intg(nil, ast.Var("dx"))},
		{"defintg", []interface{}{"intg", x, ast.Var("dx"), ast.Zero, one}, ast.DefIntg(x, ast.Var("dx"), ast.Zero, one)},
		{"vec", []interface{}{"vec", []interface{}{x, y}}, ast.Vec(x, y)},
		{"mat", []interface{}{"mat", []interface{}{[]interface{}{x, y}, []interface{}{one, two}}}, ast.Mat([]*ast.Node{x, y}, []*ast.Node{one, two})},
		{"piece", []interface{}{"piece", []interface{}{[]interface{}{x, ast.Eq("<", x, ast.Zero)}, []interface{}{y, true}}},
			ast.Piecewise(ast.Piece{Value: x, Cond: ast.Eq("<", x, ast.Zero)}, ast.Piece{Value: y})},
		{"lamb", []interface{}{"lamb", x, []interface{}{x}}, ast.Lamb(x, x)},
		{"idx", []interface{}{"idx", x, []interface{}{one}}, ast.Idx(x, one)},
		{"text", []interface{}{"text", `\alpha`, "a", "b"}, ast.Text(`\alpha`, "a", "b")},
	}

	seen := map[ast.Op]bool{}
	for index, tc := range testCases {
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			got, err := ast.FromTuple(tc.fields)
			if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("nodes differ:\n%s", pretty.Compare(got.Tuple(), tc.want.Tuple()))
			}
			if got.Key() != tc.want.Key() {
				t.Errorf("want key %s, got %s", tc.want.Key(), got.Key())
			}
		})
		seen[tc.want.Op()] = true
	}
	for _, op := range ast.Ops {
		if !seen[op] {
			t.Errorf("tag %q not covered", op)
		}
	}
}

func TestNew_Malformed(t *testing.T) {
	testCases := map[string][]interface{}{
		"unknown rel":   {"=", "<>", x, y},
		"bad num":       {"#", "1x"},
		"lim dir":       {"lim", x, x, one, "up"},
		"missing child": {"/", one},
		"unknown tag":   {"?", x},
		"ragged mat":    {"mat", []interface{}{[]interface{}{x, y}, []interface{}{one}}},
		"early else":    {"piece", []interface{}{[]interface{}{x, true}, []interface{}{y, x}}},
		"nested":        {"+", []interface{}{one, []interface{}{"=", "<>", x, y}}},
	}
	for name, fields := range testCases {
		t.Run(name, func(t *testing.T) {
			n, err := ast.FromTuple(fields)
			if err == nil {
				t.Fatalf("expected error, got %s", n)
			}
			if errors.Cause(err) != ast.ErrMalformed {
				t.Errorf("want ErrMalformed cause, got %v", err)
			}
		})
	}
}

func TestNode_StructuralEquality(t *testing.T) {
	a := ast.Add(one, ast.Mul(two, x))
	b := ast.Add(ast.Num("1"), ast.Mul(ast.Num("2"), ast.Var("x")))
	if !a.Equal(b) {
		t.Errorf("want equal, got %s and %s", a, b)
	}
	m := map[string]bool{a.Key(): true}
	if !m[b.Key()] {
		t.Errorf("equal nodes should share a key")
	}
	if a.Equal(ast.Add(x, one)) {
		t.Errorf("different order should not be equal")
	}
}

// ============================================================
// Negation
// ============================================================

func TestNeg_MergeIsIdempotentOnLiterals(t *testing.T) {
	five := ast.Num("5")
	got := five.Neg(false).Neg(false)
	if !got.Equal(five) {
		t.Errorf("want %s, got %s", five, got)
	}
	if got := five.Neg(false); got.Num() != "-5" {
		t.Errorf("want -5, got %s", got)
	}
}

func TestNeg_StackedNests(t *testing.T) {
	got := ast.Num("5").Neg(true).Neg(true)
	want := ast.Minus(ast.Num("-5"))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
	got = x.Neg(true).Neg(true)
	want = ast.Minus(ast.Minus(x))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestNeg_MergeUnwrapsMinus(t *testing.T) {
	if got := ast.Minus(x).Neg(false); !got.Equal(x) {
		t.Errorf("want x, got %s", got)
	}
}

// ============================================================
// Tree operations
// ============================================================

func TestFlatCat_Associative(t *testing.T) {
	a, b, c := x, y, ast.Var("z")
	left := ast.FlatCat(ast.OpAdd, ast.FlatCat(ast.OpAdd, a, b), c)
	right := ast.FlatCat(ast.OpAdd, a, ast.FlatCat(ast.OpAdd, b, c))
	want := ast.Add(a, b, c)
	if !left.Equal(want) || !right.Equal(want) {
		t.Errorf("want %s, got %s and %s", want, left, right)
	}
}

func TestStripMinus(t *testing.T) {
	n := ast.Minus(ast.Minus(x))
	s, neg, has := n.StripMinus()
	if !s.Equal(x) || !has {
		t.Fatalf("want x with sign, got %s %v", s, has)
	}
	if got := neg(x); !got.Equal(n) {
		t.Errorf("want %s, got %s", n, got)
	}
	s, _, _ = n.StripMinus(1)
	if !s.Equal(ast.Minus(x)) {
		t.Errorf("count 1 should strip one layer, got %s", s)
	}
	if _, _, has := x.StripMinus(); has {
		t.Errorf("no sign expected on x")
	}
}

func TestStripFamily(t *testing.T) {
	n := ast.Curly(ast.Paren(ast.Curly(x)))
	if got := n.Strip(); !got.Equal(x) {
		t.Errorf("Strip: want x, got %s", got)
	}
	if got := n.StripCurlys(); !got.Equal(ast.Paren(ast.Curly(x))) {
		t.Errorf("StripCurlys: got %s", got)
	}
	tuple := ast.Paren(ast.Comma(x, y))
	if got := tuple.StripParenNoncomma(); !got.Equal(tuple) {
		t.Errorf("StripParenNoncomma should keep tuple parens, got %s", got)
	}
	mls := ast.Mul(two, ast.Lim(ast.Sum(y, x, one, two), x, ast.Zero, ""))
	if got := mls.StripMLS(); !got.Equal(y) {
		t.Errorf("StripMLS: want y, got %s", got)
	}
	if got := ast.Add(ast.Curly(x), ast.Curly(ast.Curly(y))).RemoveCurlys(); !got.Equal(ast.Add(x, y)) {
		t.Errorf("RemoveCurlys: got %s", got)
	}
}

func TestFreeVars(t *testing.T) {
	n := ast.Add(ast.Mul(y, x), ast.Func("sin", x), ast.Pi, ast.Var(""), ast.Var("e"))
	got := n.FreeVars()
	if len(got) != 2 || got[0].Var() != "y" || got[1].Var() != "x" {
		t.Errorf("want [y x], got %s", spew.Sdump(got))
	}
}

func TestReplace(t *testing.T) {
	last := ast.Var("_")
	n := ast.Add(last, ast.Mul(two, last))
	got := n.Replace(last, ast.Paren(x))
	want := ast.Add(ast.Paren(x), ast.Mul(two, ast.Paren(x)))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
	if n.Replace(y, x) != n {
		t.Errorf("no match should return the same node")
	}
}

// ============================================================
// Derived accessors and registry
// ============================================================

func TestVarGroups(t *testing.T) {
	type test struct {
		v                          string
		diff, part, diffSolo, long bool
		as                         string
	}
	testCases := []test{
		{v: "dx", diff: true, long: true, as: "x"},
		{v: "partialx", part: true, long: true, as: "x"},
		{v: "d", diffSolo: true, as: ""},
		{v: "delta", as: "delta"},
		{v: "d2", long: true, as: "d2"},
		{v: "dx'", diff: true, long: true, as: "x'"},
		{v: "xy", long: true, as: "xy"},
	}
	for _, tc := range testCases {
		t.Run(tc.v, func(t *testing.T) {
			n := ast.Var(tc.v)
			if n.IsDifferential() != tc.diff {
				t.Errorf("IsDifferential: want %v", tc.diff)
			}
			if n.IsPartial() != tc.part {
				t.Errorf("IsPartial: want %v", tc.part)
			}
			if n.IsDiffSolo() != tc.diffSolo {
				t.Errorf("IsDiffSolo: want %v", tc.diffSolo)
			}
			if n.IsLongVar() != tc.long {
				t.Errorf("IsLongVar: want %v", tc.long)
			}
			if got := n.AsVar().Var(); got != tc.as {
				t.Errorf("AsVar: want %q, got %q", tc.as, got)
			}
		})
	}
}

func TestAccessors_Numbers(t *testing.T) {
	if !ast.Num("-3").IsNegNum() || ast.Num("3").IsNegNum() {
		t.Errorf("IsNegNum wrong")
	}
	if !ast.Num("12").IsPosInt() || ast.Num("1.2").IsPosInt() {
		t.Errorf("IsPosInt wrong")
	}
	mant, exp := ast.Num("1.5e-10").MantAndExp()
	if mant != "1.5" || exp != "-10" {
		t.Errorf("want 1.5 -10, got %s %s", mant, exp)
	}
	if _, exp := ast.Num("15").MantAndExp(); exp != "" {
		t.Errorf("want no exponent, got %s", exp)
	}
	if !ast.Num("7").IsSingleUnit() || ast.Num("17").IsSingleUnit() || !ast.Var("alpha").IsSingleUnit() {
		t.Errorf("IsSingleUnit wrong")
	}
	if got := ast.Mul(x, ast.Num("1"), ast.Var("y")).AsIdentifier(); got != "x1y" {
		t.Errorf("want x1y, got %q", got)
	}
}

func TestAccessors_Funcs(t *testing.T) {
	if !ast.Func("sinh", x).IsTrighFuncNonInv() || ast.Func("asin", x).IsTrighFuncNonInv() {
		t.Errorf("IsTrighFuncNonInv wrong")
	}
	if !ast.Func("acot", x).IsTrighFuncInv() {
		t.Errorf("IsTrighFuncInv wrong")
	}
	if got := ast.Func("$$foo", x).Unescaped(); got != "foo" {
		t.Errorf("want foo, got %s", got)
	}
	if got := ast.Diff(x, ast.Pow(ast.Var("partialy"), two)).DiffType(); got != "partial" {
		t.Errorf("want partial, got %s", got)
	}
	m := ast.Mat([]*ast.Node{x, y, one}, []*ast.Node{one, two, x})
	if m.Rows() != 2 || m.Cols() != 3 {
		t.Errorf("want 2x3, got %dx%d", m.Rows(), m.Cols())
	}
}

func TestRegistry_ToggleSeenByExistingNodes(t *testing.T) {
	defer ast.SetEngineEI(false)

	e, upper := ast.Var("e"), ast.Var("E")
	if !e.IsConstVar() || upper.IsConstVar() {
		t.Fatalf("default spelling should reserve e")
	}
	v := ast.Version()
	ast.SetEngineEI(true)
	if e.IsConstVar() || !upper.IsConstVar() {
		t.Errorf("toggle should reserve E and free e")
	}
	if ast.Version() != v+1 {
		t.Errorf("version should advance")
	}
	if ast.E().Var() != "E" || ast.I().Var() != "I" {
		t.Errorf("want E and I, got %s %s", ast.E(), ast.I())
	}
}

func TestCachedAccessorsConcurrent(t *testing.T) {
	n := ast.Add(ast.Var("dx"), ast.Mul(two, ast.Var("alpha")))
	done := make(chan string)
	for i := 0; i < 8; i++ {
		go func() { done <- n.Key() }()
	}
	want := n.Key()
	for i := 0; i < 8; i++ {
		if got := <-done; got != want {
			t.Errorf("want %s, got %s", want, got)
		}
	}
}
