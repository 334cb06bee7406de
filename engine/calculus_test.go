package engine_test

import (
	"testing"

	"github.com/njchilds90/gosympad/engine"
)

// ============================================================
// Derivative tests
// ============================================================

func TestDiff_Power(t *testing.T) {
	got := engine.Diff(engine.PowOf(x, engine.N(2)), "x")
	if got.String() != "2*x" {
		t.Errorf("d/dx(x**2) should be 2*x, got %s", got)
	}
}

func TestDiff_Constant(t *testing.T) {
	if got := engine.Diff(engine.N(5), "x"); got.String() != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", got)
	}
	if got := engine.Diff(y, "x"); got.String() != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", got)
	}
}

func TestDiff_Sin(t *testing.T) {
	got := engine.Diff(engine.Apply("sin", x), "x")
	if got.String() != "cos(x)" {
		t.Errorf("d/dx(sin(x)) should be cos(x), got %s", got)
	}
}

func TestDiff_Sum(t *testing.T) {
	expr := engine.AddOf(engine.PowOf(x, engine.N(2)), engine.MulOf(engine.N(3), x))
	got := engine.Diff(expr, "x")
	if got.String() != "2*x + 3" {
		t.Errorf("want 2*x + 3, got %s", got)
	}
}

func TestDiff_UndefinedIsHeld(t *testing.T) {
	got := engine.Diff(engine.Apply("f", x), "x")
	if _, ok := got.(*engine.Derivative); !ok {
		t.Fatalf("want a held Derivative, got %T", got)
	}
	if got.String() != "Derivative(f(x), x)" {
		t.Errorf("want Derivative(f(x), x), got %s", got)
	}
}

func TestDerivative_Doit(t *testing.T) {
	d := engine.DerivativeOf(engine.PowOf(x, engine.N(3)), x, x)
	if d.String() != "Derivative(x**3, x, x)" {
		t.Errorf("want Derivative(x**3, x, x), got %s", d)
	}
	if got := d.Doit(); got.String() != "6*x" {
		t.Errorf("want 6*x, got %s", got)
	}
}

func TestDerivative_NoVars(t *testing.T) {
	if got := engine.DerivativeOf(x); got != engine.Expr(x) {
		t.Errorf("want the expression itself, got %s", got)
	}
}

// ============================================================
// Integral tests
// ============================================================

func TestIntegrate_Power(t *testing.T) {
	got, ok := engine.Integrate(x, "x")
	if !ok {
		t.Fatalf("integrate x failed")
	}
	if got.String() != "x**2/2" {
		t.Errorf("want x**2/2, got %s", got)
	}
}

func TestIntegrate_Reciprocal(t *testing.T) {
	got, ok := engine.Integrate(engine.PowOf(x, engine.N(-1)), "x")
	if !ok || got.String() != "log(x)" {
		t.Errorf("want log(x), got %v", got)
	}
}

func TestIntegrate_Unknown(t *testing.T) {
	if _, ok := engine.Integrate(engine.Apply("f", x), "x"); ok {
		t.Errorf("want no antiderivative for f(x)")
	}
}

func TestDefiniteIntegral_Doit(t *testing.T) {
	in := engine.DefiniteIntegralOf(x, x, engine.N(0), engine.N(1))
	if in.String() != "Integral(x, (x, 0, 1))" {
		t.Errorf("want Integral(x, (x, 0, 1)), got %s", in)
	}
	if got := in.Doit(); got.String() != "1/2" {
		t.Errorf("want 1/2, got %s", got)
	}
}

func TestIntegral_HeldWhenUnknown(t *testing.T) {
	in := engine.IntegralOf(engine.Apply("f", x), x)
	got := in.Doit()
	if _, ok := got.(*engine.Integral); !ok {
		t.Errorf("want a held Integral, got %s", got)
	}
}

// ============================================================
// Limit tests
// ============================================================

func TestLimit_Substitution(t *testing.T) {
	got, ok := engine.EvalLimit(engine.PowOf(x, engine.N(2)), "x", engine.N(2), "+-")
	if !ok || got.String() != "4" {
		t.Errorf("want 4, got %v", got)
	}
}

func TestLimit_LHopital(t *testing.T) {
	expr := engine.MulOf(engine.Apply("sin", x), engine.PowOf(x, engine.N(-1)))
	got, ok := engine.EvalLimit(expr, "x", engine.N(0), "+-")
	if !ok || got.String() != "1" {
		t.Errorf("want 1, got %v", got)
	}
}

func TestLimit_AtInfinity(t *testing.T) {
	got, ok := engine.EvalLimit(engine.PowOf(x, engine.N(-1)), "x", engine.Infinity, "-")
	if !ok || got.String() != "0" {
		t.Errorf("want 0, got %v", got)
	}
}

func TestLimit_DefaultDirection(t *testing.T) {
	l := engine.LimitOf(x, x, engine.N(0), "")
	if l.Dir() != "+-" {
		t.Errorf("want +-, got %s", l.Dir())
	}
	if l.String() != "Limit(x, x, 0, dir='+-')" {
		t.Errorf("unexpected string %s", l)
	}
}

// ============================================================
// Sum, series and order tests
// ============================================================

func TestSum_Finite(t *testing.T) {
	k := engine.S("k")
	got := engine.SumOf(k, k, engine.N(1), engine.N(10)).Doit()
	if got.String() != "55" {
		t.Errorf("want 55, got %s", got)
	}
}

func TestSum_EmptyRange(t *testing.T) {
	k := engine.S("k")
	got := engine.SumOf(k, k, engine.N(5), engine.N(1)).Doit()
	if got.String() != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestSum_HeldWhenSymbolic(t *testing.T) {
	k := engine.S("k")
	s := engine.SumOf(engine.Apply("f", k), k, engine.N(1), engine.S("n"))
	if _, ok := s.Doit().(*engine.Sum); !ok {
		t.Errorf("want a held Sum, got %s", s.Doit())
	}
}

func TestSeries_Exp(t *testing.T) {
	got := engine.Series(engine.Apply("exp", x), "x", engine.N(0), 3)
	if got.String() != "x**2/2 + x + 1 + O(x**3)" {
		t.Errorf("want x**2/2 + x + 1 + O(x**3), got %s", got)
	}
	args := got.Args()
	if _, ok := args[len(args)-1].(*engine.Order); !ok {
		t.Errorf("want the order term stored last, got %v", args)
	}
}

func TestOrder_Absorbs(t *testing.T) {
	got := engine.AddOf(engine.PowOf(x, engine.N(4)), x, engine.OTerm("x", 3))
	if got.String() != "x + O(x**3)" {
		t.Errorf("want x + O(x**3), got %s", got)
	}
}

func TestExpand(t *testing.T) {
	sq := engine.PowOf(engine.AddOf(x, engine.N(1)), engine.N(2))
	if got := engine.Expand(sq); got.String() != "x**2 + 2*x + 1" {
		t.Errorf("want x**2 + 2*x + 1, got %s", got)
	}
}

func TestPolyCoeffs(t *testing.T) {
	expr := engine.AddOf(engine.MulOf(engine.N(3), engine.PowOf(x, engine.N(2))), engine.N(5))
	coeffs := engine.PolyCoeffs(expr, "x")
	if coeffs[2].String() != "3" || coeffs[0].String() != "5" {
		t.Errorf("want {2: 3, 0: 5}, got %v", coeffs)
	}
	if _, ok := coeffs[1]; ok {
		t.Errorf("want no linear coefficient")
	}
	if d := engine.Degree(expr, "x"); d != 2 {
		t.Errorf("want degree 2, got %d", d)
	}
}
