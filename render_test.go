package sympad_test

import (
	"testing"

	"github.com/pkg/errors"

	sympad "github.com/njchilds90/gosympad"
	"github.com/njchilds90/gosympad/ast"
)

var (
	x    = ast.Var("x")
	y    = ast.Var("y")
	k    = ast.Var("k")
	n    = ast.Var("n")
	dx   = ast.Var("dx")
	zero = ast.Num("0")
	one  = ast.Num("1")
	two  = ast.Num("2")
)

type renderTest struct {
	name string
	node *ast.Node
	want string
}

func runRender(t *testing.T, render func(*ast.Node) (string, error), testCases []renderTest) {
	t.Helper()
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := render(tc.node)
			if err != nil {
				t.Fatalf("render %s: %+v", tc.node, err)
			}
			if got != tc.want {
				t.Errorf("render %s:\nwant %q\ngot  %q", tc.node, tc.want, got)
			}
		})
	}
}

func pieces() *ast.Node {
	return ast.Piecewise(
		ast.Piece{Value: x, Cond: ast.Eq("<", x, zero)},
		ast.Piece{Value: zero},
	)
}

func mat22() *ast.Node {
	return ast.Mat(
		[]*ast.Node{one, two},
		[]*ast.Node{ast.Num("3"), ast.Num("4")},
	)
}

// ============================================================
// Markup
// ============================================================

func TestRenderMarkup(t *testing.T) {
	runRender(t, sympad.RenderMarkup, []renderTest{
		{"sum", ast.Add(one, x), "1 + x"},
		{"difference", ast.Add(x, ast.Minus(one)), "x - {1}"},
		{"fraction", ast.Div(one, x), `\frac{1}{x}`},
		{"power", ast.Pow(x, two), "x^2"},
		{"long exponent", ast.Pow(x, ast.Num("10")), "x^{10}"},
		{"trig power", ast.Pow(ast.Func("sin", x), two), `\sin^2\left(x \right)`},
		{"inverse trig", ast.Func("asin", x), `\sin^{-1}\left(x \right)`},
		{"product", ast.Mul(two, x), "2 x"},
		{"relation", ast.Eq("!=", x, one), `x \ne 1`},
		{"negation", ast.Minus(x), "-x"},
		{"ln", ast.Log(x, nil), `\ln\left(x \right)`},
		{"abs", ast.Abs(x), `\left|x \right|`},
		{"sqrt", ast.Sqrt(x, nil), `\sqrt{x}`},
		{"root", ast.Sqrt(x, ast.Num("3")), `\sqrt[3]{x}`},
		{"greek", ast.Var("alpha"), `\alpha`},
		{"infinity", ast.Infty, `\infty`},
		{"reals", ast.Reals, `\mathbb{R}`},
		{"derivative", ast.Diff(x, dx), `\frac{d}{dx}\left(x \right)`},
		{"definite integral", ast.DefIntg(x, dx, zero, one), `\int_0^1 x \ dx`},
		{"matrix", mat22(), `\begin{bmatrix} 1 & 2 \\ 3 & 4 \end{bmatrix}`},
		{"vector", ast.Vec(one, two), `\begin{bmatrix} 1 \\ 2 \end{bmatrix}`},
		{"identity call", ast.Func("eye", two), `\begin{bmatrix} 1 & 0 \\ 0 & 1 \end{bmatrix}`},
		{"unknown call", ast.Func("foo", x), `\operatorname{foo}\left(x \right)`},
		{"piecewise", pieces(), `\begin{cases} x & \text{for}\: x < 0 \\ 0 & \text{otherwise} \end{cases}`},
		{"lambda", ast.Lamb(ast.Add(x, one), x), `x \mapsto x + 1`},
		{"index", ast.Idx(x, one), `x\left[1 \right]`},
		{"text", ast.Text(`\text{?}`, "?", "?"), `\text{?}`},
	})
}

func TestRenderMarkupPrec(t *testing.T) {
	call := ast.Func("diag", ast.Num("0.123456789"), one)
	testCases := []struct {
		prec int
		want string
	}{
		{3, `\begin{bmatrix} 0.123 & 0 \\ 0 & 1 \end{bmatrix}`},
		{15, `\begin{bmatrix} 0.123456789 & 0 \\ 0 & 1 \end{bmatrix}`},
	}
	for _, tc := range testCases {
		got, err := sympad.RenderMarkupPrec(call, tc.prec)
		if err != nil {
			t.Fatalf("render at %d: %+v", tc.prec, err)
		}
		if got != tc.want {
			t.Errorf("render at %d:\nwant %q\ngot  %q", tc.prec, tc.want, got)
		}
	}
}

// ============================================================
// Plain
// ============================================================

func TestRenderPlain(t *testing.T) {
	runRender(t, sympad.RenderPlain, []renderTest{
		{"sum", ast.Add(one, x), "1 + x"},
		{"difference", ast.Add(x, ast.Minus(one)), "x - {1}"},
		{"negative literal", ast.Num("-5"), "-5"},
		{"negative denominator", ast.Div(one, ast.Minus(x)), "1 / -x"},
		{"bare fraction", ast.Div(x, y), "x/y"},
		{"grouped numerator", ast.Div(ast.Add(x, one), y), "{x + 1} / y"},
		{"power", ast.Pow(x, two), "x**2"},
		{"trig power", ast.Pow(ast.Func("sin", x), two), "sin**2(x)"},
		{"product", ast.Mul(two, x), "2 x"},
		{"product with trailing number", ast.Mul(x, two), "x * 2"},
		{"relation", ast.Eq("<=", x, one), `x \le 1`},
		{"assignment", ast.Eq("=", x, one), "x = 1"},
		{"limit", ast.Lim(x, x, zero, ""), `\lim_{x \to 0} x`},
		{"one sided limit", ast.Lim(x, x, zero, "+"), `\lim_{x \to 0**+} x`},
		{"summation", ast.Sum(k, k, one, n), `\sum_{k=1}^n k`},
		{"derivative", ast.Diff(ast.Pow(x, two), dx), "d / dx (x**2)"},
		{"integral", ast.Intg(x, dx), `\int x dx`},
		{"empty integral", ast.Intg(nil, dx), `\int dx`},
		{"definite integral", ast.DefIntg(x, dx, zero, one), `\int_0^1 x dx`},
		{"vector", ast.Vec(one, two), "{1, 2}"},
		{"single vector", ast.Vec(one), "{1,}"},
		{"matrix", mat22(), "{{1, 2}, {3, 4}}"},
		{"empty matrix", ast.Mat(), "Matrix([])"},
		{"piecewise", pieces(), "x if x < 0 else 0"},
		{"lambda", ast.Lamb(ast.Add(x, one), x), "lambda x: x + 1"},
		{"attribute", ast.Attr(x, "T"), "x.T"},
		{"method", ast.Method(x, "subs", y, one), "x.subs(y, 1)"},
		{"factorial", ast.Fact(x), "x!"},
		{"grouped factorial", ast.Fact(ast.Add(x, one)), "(x + 1)!"},
		{"negated sum", ast.Minus(ast.Add(x, one)), "-(x + 1)"},
		{"abs", ast.Abs(x), "{|x|}"},
		{"string", ast.Str("hi"), "'hi'"},
		{"ln", ast.Log(x, nil), "ln(x)"},
		{"log base", ast.Log(x, two), `\log_2(x)`},
		{"sqrt", ast.Sqrt(x, nil), "sqrt(x)"},
		{"index", ast.Idx(x, one), "x[1]"},
		{"known function", ast.Func("cos", x), "cos(x)"},
		{"unknown function", ast.Func("foo", x), "$foo(x)"},
	})
}

func TestRenderPlain_UserFunc(t *testing.T) {
	sympad.SetUserFuncs("foo")
	defer sympad.SetUserFuncs()

	got, err := sympad.RenderPlain(ast.Func("foo", x))
	if err != nil {
		t.Fatalf("render: %+v", err)
	}
	if got != "foo(x)" {
		t.Errorf("want foo(x), got %q", got)
	}
}

// ============================================================
// Script
// ============================================================

func TestRenderScript(t *testing.T) {
	runRender(t, sympad.RenderScript, []renderTest{
		{"sum", ast.Add(one, x), "1 + x"},
		{"difference", ast.Add(x, ast.Minus(one)), "x - 1"},
		{"bare fraction", ast.Div(one, x), "1/x"},
		{"grouped fraction", ast.Div(ast.Add(x, one), two), "(x + 1) / 2"},
		{"power", ast.Pow(x, two), "x**2"},
		{"negative base", ast.Pow(ast.Minus(x), two), "(-x)**2"},
		{"product", ast.Mul(two, ast.Add(x, one)), "2*(x + 1)"},
		{"log base", ast.Log(x, two), "log(x) / log(2)"},
		{"limit", ast.Lim(x, x, zero, ""), "Limit(x, x, 0, dir='+-')"},
		{"right limit", ast.Lim(x, x, zero, "+"), "Limit(x, x, 0)"},
		{"left limit", ast.Lim(x, x, zero, "-"), "Limit(x, x, 0, dir='-')"},
		{"derivative", ast.Diff(ast.Func("f", x), ast.Pow(dx, two)), "Derivative(f(x), x, 2)"},
		{"empty integral", ast.Intg(nil, dx), "Integral(1, x)"},
		{"definite integral", ast.DefIntg(x, dx, zero, one), "Integral(x, (x, 0, 1))"},
		{"summation", ast.Sum(k, k, one, n), "Sum(k, (k, 1, n))"},
		{"vector", ast.Vec(one, two), "Matrix([[1], [2]])"},
		{"matrix", mat22(), "Matrix([[1, 2], [3, 4]])"},
		{"empty matrix", ast.Mat(), "Matrix([])"},
		{"piecewise", pieces(), "Piecewise((x, x < 0), (0, True))"},
		{"lambda", ast.Lamb(ast.Add(x, one), x), "lambda x: x + 1"},
		{"keyword argument", ast.Func("solve", ast.Add(x, one), ast.Eq("=", ast.Var("dict"), ast.True)), "solve(x + 1, dict=True)"},
		{"abs", ast.Abs(x), "abs(x)"},
		{"factorial", ast.Fact(x), "factorial(x)"},
		{"negated sum", ast.Minus(ast.Add(x, one)), "-(x + 1)"},
		{"root", ast.Sqrt(x, ast.Num("3")), "x**(1/3)"},
		{"index", ast.Idx(x, one), "x[1]"},
		{"index of sum", ast.Idx(ast.Add(x, one), zero), "(x + 1)[0]"},
		{"index of call", ast.Idx(ast.Func("f", x), zero), "f(x)[0]"},
		{"attribute of product", ast.Attr(ast.Mul(two, x), "T"), "(2*x).T"},
		{"curly", ast.Curly(x), "x"},
	})
}

// ============================================================
// Malformed trees
// ============================================================

func TestRender_Malformed(t *testing.T) {
	renderers := map[string]func(*ast.Node) (string, error){
		"markup": sympad.RenderMarkup,
		"plain":  sympad.RenderPlain,
		"script": sympad.RenderScript,
	}
	trees := map[string]*ast.Node{
		"nil":              nil,
		"missing operand":  ast.Add(x, nil),
		"unknown relation": ast.Eq("~", x, y),
		"lambda variable":  ast.Lamb(x, ast.Add(x, one)),
	}
	for rname, render := range renderers {
		for tname, tree := range trees {
			_, err := render(tree)
			if errors.Cause(err) != sympad.ErrMalformedNode {
				t.Errorf("%s %s: want malformed node, got %v", rname, tname, err)
			}
		}
	}

	badOrder := ast.Diff(x, ast.Pow(dx, y))
	for _, rname := range []string{"markup", "plain"} {
		if _, err := renderers[rname](badOrder); errors.Cause(err) != sympad.ErrMalformedNode {
			t.Errorf("%s bad order: want malformed node, got %v", rname, err)
		}
	}
	// the script form passes a symbolic order through
	got, err := sympad.RenderScript(badOrder)
	if err != nil || got != "Derivative(x, x, y)" {
		t.Errorf("script bad order: got %q, %v", got, err)
	}
}
