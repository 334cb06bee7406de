package engine

import (
	"math"
	"strings"
)

// ============================================================
// Derivative: held differentiation
// ============================================================

// Derivative is d/dvars expr, kept unevaluated until Doit. A variable
// repeated n times is an n-th order derivative in it.
type Derivative struct {
	expr Expr
	vars []*Sym
}

// DerivativeOf holds the derivative of expr by vars. With no vars it is
// expr itself.
func DerivativeOf(expr Expr, vars ...*Sym) Expr {
	if len(vars) == 0 {
		return expr
	}
	return &Derivative{expr: expr, vars: append([]*Sym(nil), vars...)}
}

func (d *Derivative) Expr() Expr        { return d.expr }
func (d *Derivative) Vars() []*Sym      { return d.vars }
func (d *Derivative) Classes() []string { return classes([]string{"Derivative"}, clsExpr) }

func (d *Derivative) Args() []Expr {
	out := []Expr{d.expr}
	for _, v := range d.vars {
		out = append(out, v)
	}
	return out
}

func (d *Derivative) Equal(other Expr) bool {
	o, ok := other.(*Derivative)
	return ok && d.expr.Equal(o.expr) && equalAll(d.Args(), o.Args())
}

func (d *Derivative) Doit() Expr {
	r := d.expr.Doit()
	for _, v := range d.vars {
		r = Diff(r, v.name)
	}
	return r
}

func (d *Derivative) String() string {
	return "Derivative(" + d.expr.String() + ", " + joinStrings(d.Args()[1:], ", ") + ")"
}

func (d *Derivative) LaTeX() string {
	var sb strings.Builder
	for _, v := range d.vars {
		sb.WriteString(`\partial ` + v.LaTeX())
	}
	order := ""
	if len(d.vars) > 1 {
		order = "^{" + N(int64(len(d.vars))).String() + "}"
	}
	return `\frac{\partial` + order + "}{" + sb.String() + "} " + d.expr.LaTeX()
}

// Diff differentiates e by the symbol named x. What the rules cannot reach
// comes back as a held Derivative.
func Diff(e Expr, x string) Expr {
	if !Has(e, x) {
		return N(0)
	}
	switch v := e.(type) {
	case *Sym:
		return N(1)
	case *Add:
		dTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			dTerms[i] = Diff(t, x)
		}
		return AddOf(dTerms...)
	case *Mul:
		terms := make([]Expr, len(v.factors))
		for i, fi := range v.factors {
			others := make([]Expr, 0, len(v.factors))
			others = append(others, Diff(fi, x))
			for j, fj := range v.factors {
				if j != i {
					others = append(others, fj)
				}
			}
			terms[i] = MulOf(others...)
		}
		return AddOf(terms...)
	case *Pow:
		du := Diff(v.base, x)
		if !Has(v.exp, x) {
			return MulOf(v.exp, PowOf(v.base, AddOf(v.exp, N(-1))), du)
		}
		dv := Diff(v.exp, x)
		if !Has(v.base, x) {
			return MulOf(v, Apply("log", v.base), dv)
		}
		logTerm := MulOf(dv, Apply("log", v.base))
		divTerm := MulOf(v.exp, du, PowOf(v.base, N(-1)))
		return MulOf(v, AddOf(logTerm, divTerm))
	case *Fn:
		return diffFn(v, x)
	case *Matrix:
		return v.apply(func(e Expr) Expr { return Diff(e, x) })
	case *Tuple:
		return TupleOf(mapExprs(v.items, func(e Expr) Expr { return Diff(e, x) })...)
	case *Rel:
		return RelOf(v.op, Diff(v.lhs, x), Diff(v.rhs, x))
	case *Derivative:
		if hasUndefined(v.expr) {
			return &Derivative{expr: v.expr, vars: append(append([]*Sym(nil), v.vars...), S(x))}
		}
		return Diff(v.Doit(), x)
	case *Frozen:
		return &Derivative{expr: v, vars: []*Sym{S(x)}}
	}
	return &Derivative{expr: e, vars: []*Sym{S(x)}}
}

func diffFn(f *Fn, x string) Expr {
	if len(f.args) != 1 {
		return &Derivative{expr: f, vars: []*Sym{S(x)}}
	}
	u := f.args[0]
	du := Diff(u, x)
	one := N(1)
	var outer Expr
	switch f.name {
	case "sin":
		outer = Apply("cos", u)
	case "cos":
		outer = MulOf(N(-1), Apply("sin", u))
	case "tan":
		outer = AddOf(one, PowOf(Apply("tan", u), N(2)))
	case "cot":
		outer = MulOf(N(-1), AddOf(one, PowOf(Apply("cot", u), N(2))))
	case "sec":
		outer = MulOf(Apply("sec", u), Apply("tan", u))
	case "csc":
		outer = MulOf(N(-1), Apply("csc", u), Apply("cot", u))
	case "exp":
		outer = f
	case "log":
		outer = PowOf(u, N(-1))
	case "asin":
		outer = PowOf(AddOf(one, MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(one, MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(one, PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = Apply("cosh", u)
	case "cosh":
		outer = Apply("sinh", u)
	case "tanh":
		outer = AddOf(one, MulOf(N(-1), PowOf(Apply("tanh", u), N(2))))
	case "asinh":
		outer = PowOf(AddOf(PowOf(u, N(2)), one), F(-1, 2))
	case "acosh":
		outer = PowOf(AddOf(PowOf(u, N(2)), N(-1)), F(-1, 2))
	case "atanh":
		outer = PowOf(AddOf(one, MulOf(N(-1), PowOf(u, N(2)))), N(-1))
	case "Abs":
		outer = Apply("sign", u)
	default:
		return &Derivative{expr: f, vars: []*Sym{S(x)}}
	}
	return MulOf(outer, du)
}

func hasUndefined(e Expr) bool {
	if f, ok := e.(*Fn); ok && f.IsUndefined() {
		return true
	}
	for _, a := range e.Args() {
		if hasUndefined(a) {
			return true
		}
	}
	return false
}

func mapExprs(es []Expr, f func(Expr) Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = f(e)
	}
	return out
}

// ============================================================
// Integral: held integration
// ============================================================

// Integral is the integral of expr by sym, definite when from and to are
// set.
type Integral struct {
	expr     Expr
	sym      *Sym
	from, to Expr
}

func IntegralOf(expr Expr, sym *Sym) *Integral { return &Integral{expr: expr, sym: sym} }

func DefiniteIntegralOf(expr Expr, sym *Sym, from, to Expr) *Integral {
	return &Integral{expr: expr, sym: sym, from: from, to: to}
}

func (in *Integral) Expr() Expr           { return in.expr }
func (in *Integral) Sym() *Sym            { return in.sym }
func (in *Integral) Bounds() (Expr, Expr) { return in.from, in.to }
func (in *Integral) Classes() []string    { return classes([]string{"Integral", "AddWithLimits", "ExprWithLimits"}, clsExpr) }

func (in *Integral) Args() []Expr {
	if in.from == nil {
		return []Expr{in.expr, in.sym}
	}
	return []Expr{in.expr, in.sym, in.from, in.to}
}

func (in *Integral) Equal(other Expr) bool {
	o, ok := other.(*Integral)
	return ok && equalAll(in.Args(), o.Args())
}

func (in *Integral) Doit() Expr {
	expr := in.expr.Doit()
	anti, ok := Integrate(expr, in.sym.name)
	if !ok {
		return &Integral{expr: expr, sym: in.sym, from: in.from, to: in.to}
	}
	if in.from == nil {
		return anti
	}
	return AddOf(Subs(anti, in.sym.name, in.to), MulOf(N(-1), Subs(anti, in.sym.name, in.from)))
}

func (in *Integral) String() string {
	if in.from == nil {
		return "Integral(" + in.expr.String() + ", " + in.sym.String() + ")"
	}
	return "Integral(" + in.expr.String() + ", (" + joinStrings([]Expr{in.sym, in.from, in.to}, ", ") + "))"
}

func (in *Integral) LaTeX() string {
	if in.from == nil {
		return `\int ` + in.expr.LaTeX() + `\, d` + in.sym.LaTeX()
	}
	return `\int_{` + in.from.LaTeX() + "}^{" + in.to.LaTeX() + "} " + in.expr.LaTeX() + `\, d` + in.sym.LaTeX()
}

// Integrate finds an antiderivative of expr by x with a table of patterns.
func Integrate(expr Expr, x string) (Expr, bool) {
	X := S(x)
	if !Has(expr, x) {
		return MulOf(expr, X), true
	}
	switch v := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(X, N(2))), true
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == x && !Has(v.exp, x) {
			if isNumEqual(v.exp, -1) {
				return Apply("log", X), true
			}
			newExp := AddOf(v.exp, N(1))
			return MulOf(PowOf(newExp, N(-1)), PowOf(X, newExp)), true
		}
		if a, ok := linearCoeff(v.exp, x); ok && !Has(v.base, x) {
			return MulOf(v, PowOf(MulOf(a, Apply("log", v.base)), N(-1))), true
		}
		return nil, false
	case *Mul:
		consts := []Expr{}
		rest := []Expr{}
		for _, f := range v.factors {
			if Has(f, x) {
				rest = append(rest, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(consts) == 0 {
			return nil, false
		}
		inner, ok := Integrate(MulOf(rest...), x)
		if !ok {
			return nil, false
		}
		return MulOf(append(consts, inner)...), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			it, ok := Integrate(t, x)
			if !ok {
				return nil, false
			}
			terms[i] = it
		}
		return AddOf(terms...), true
	case *Fn:
		if len(v.args) != 1 {
			return nil, false
		}
		u := v.args[0]
		a, linear := linearCoeff(u, x)
		if !linear {
			return nil, false
		}
		inv := PowOf(a, N(-1))
		switch v.name {
		case "sin":
			return MulOf(N(-1), inv, Apply("cos", u)), true
		case "cos":
			return MulOf(inv, Apply("sin", u)), true
		case "exp":
			return MulOf(inv, v), true
		case "sinh":
			return MulOf(inv, Apply("cosh", u)), true
		case "cosh":
			return MulOf(inv, Apply("sinh", u)), true
		case "log":
			return MulOf(inv, AddOf(MulOf(u, Apply("log", u)), MulOf(N(-1), u))), true
		case "asin":
			return MulOf(inv, AddOf(
				MulOf(u, Apply("asin", u)),
				SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))),
			)), true
		case "atan":
			return MulOf(inv, AddOf(
				MulOf(u, Apply("atan", u)),
				MulOf(F(-1, 2), Apply("log", AddOf(N(1), PowOf(u, N(2))))),
			)), true
		}
	}
	return nil, false
}

// linearCoeff returns a when e is a*x + b with a, b free of x.
func linearCoeff(e Expr, x string) (Expr, bool) {
	d := Diff(e, x)
	if Has(d, x) || isZero(d) {
		return nil, false
	}
	if _, held := d.(*Derivative); held {
		return nil, false
	}
	return d, true
}

// ============================================================
// Limit
// ============================================================

type Limit struct {
	expr Expr
	sym  *Sym
	to   Expr
	dir  string
}

// LimitOf holds lim expr as sym -> to. dir is "+", "-" or "+-".
func LimitOf(expr Expr, sym *Sym, to Expr, dir string) *Limit {
	if dir == "" {
		dir = "+-"
	}
	return &Limit{expr: expr, sym: sym, to: to, dir: dir}
}

func (l *Limit) Expr() Expr        { return l.expr }
func (l *Limit) Sym() *Sym         { return l.sym }
func (l *Limit) To() Expr          { return l.to }
func (l *Limit) Dir() string       { return l.dir }
func (l *Limit) Args() []Expr      { return []Expr{l.expr, l.sym, l.to} }
func (l *Limit) Classes() []string { return classes([]string{"Limit"}, clsExpr) }

func (l *Limit) Equal(other Expr) bool {
	o, ok := other.(*Limit)
	return ok && l.dir == o.dir && equalAll(l.Args(), o.Args())
}

func (l *Limit) Doit() Expr {
	if r, ok := EvalLimit(l.expr.Doit(), l.sym.name, l.to, l.dir); ok {
		return r
	}
	return l
}

func (l *Limit) String() string {
	return "Limit(" + joinStrings(l.Args(), ", ") + ", dir='" + l.dir + "')"
}

func (l *Limit) LaTeX() string {
	to := l.to.LaTeX()
	if l.dir != "+-" {
		to += "^" + l.dir
	}
	return `\lim_{` + l.sym.LaTeX() + ` \to ` + to + "} " + l.expr.LaTeX()
}

// EvalLimit computes lim expr as x -> point. It tries direct substitution,
// the expanded form, L'Hôpital on 0/0 quotients and, for points at
// infinity, the substitution x = 1/t.
func EvalLimit(expr Expr, x string, point Expr, dir string) (Expr, bool) {
	if point == Infinity || point == NegativeInfinity {
		t := S("_t")
		sub := PowOf(t, N(-1))
		if point == NegativeInfinity {
			sub = MulOf(N(-1), sub)
		}
		return limitRecursive(Expand(Subs(expr, x, sub)), t.name, N(0), "+", 5)
	}
	return limitRecursive(expr, x, point, dir, 5)
}

func limitRecursive(expr Expr, x string, point Expr, dir string, maxLhopital int) (Expr, bool) {
	for _, e := range []Expr{expr, Expand(expr)} {
		if r := Subs(e, x, point); isDeterminate(r) && !Has(r, x) {
			return r, true
		}
	}
	if maxLhopital > 0 {
		if num, den, ok := extractQuotient(expr); ok {
			nAt, dAt := Subs(num, x, point), Subs(den, x, point)
			if (isZero(nAt) && isZero(dAt)) || (isInfinite(nAt) && isInfinite(dAt)) {
				return limitRecursive(MulOf(Diff(num, x), PowOf(Diff(den, x), N(-1))), x, point, dir, maxLhopital-1)
			}
		}
	}
	if r := Subs(expr, x, point); r == ComplexInfinity {
		if dir == "+-" {
			return ComplexInfinity, true
		}
		return sideInfinity(expr, x, point, dir)
	}
	return nil, false
}

// sideInfinity picks the sign of a one-sided divergence numerically.
func sideInfinity(expr Expr, x string, point Expr, dir string) (Expr, bool) {
	p, ok := Evalf(point, DefaultPrecision).(*Float)
	if !ok && !isZero(point) {
		return nil, false
	}
	at := 0.0
	if ok {
		at = p.Float64()
	}
	h := 1e-9
	if dir == "-" {
		h = -h
	}
	v, ok := Evalf(Subs(expr, x, floatFrom64(at+h, DefaultPrecision)), DefaultPrecision).(*Float)
	if !ok || math.IsNaN(v.Float64()) {
		return nil, false
	}
	if v.IsNegative() {
		return NegativeInfinity, true
	}
	return Infinity, true
}

func isInfinite(e Expr) bool {
	return e == Infinity || e == NegativeInfinity || e == ComplexInfinity
}

// isDeterminate rejects results that still carry nan or zoo.
func isDeterminate(e Expr) bool {
	if e == NaN || e == ComplexInfinity {
		return false
	}
	for _, a := range e.Args() {
		if !isDeterminate(a) {
			return false
		}
	}
	return true
}

func extractQuotient(e Expr) (num, den Expr, ok bool) {
	m, isMul := e.(*Mul)
	if !isMul {
		if p, isPow := e.(*Pow); isPow && isNegativeNumber(p.exp) {
			return N(1), PowOf(p.base, MulOf(N(-1), p.exp)), true
		}
		return nil, nil, false
	}
	var numFactors, denFactors []Expr
	for _, f := range m.factors {
		if p, isPow := f.(*Pow); isPow && isNegativeNumber(p.exp) {
			denFactors = append(denFactors, PowOf(p.base, MulOf(N(-1), p.exp)))
			continue
		}
		numFactors = append(numFactors, f)
	}
	if len(denFactors) == 0 {
		return nil, nil, false
	}
	return MulOf(numFactors...), MulOf(denFactors...), true
}

// ============================================================
// Sum: held summation
// ============================================================

type Sum struct {
	expr     Expr
	sym      *Sym
	from, to Expr
}

// maxSumTerms bounds the expansion of a finite sum.
const maxSumTerms = 1000

func SumOf(expr Expr, sym *Sym, from, to Expr) *Sum {
	return &Sum{expr: expr, sym: sym, from: from, to: to}
}

func (s *Sum) Expr() Expr           { return s.expr }
func (s *Sum) Sym() *Sym            { return s.sym }
func (s *Sum) Bounds() (Expr, Expr) { return s.from, s.to }
func (s *Sum) Args() []Expr         { return []Expr{s.expr, s.sym, s.from, s.to} }
func (s *Sum) Classes() []string    { return classes([]string{"Sum", "AddWithLimits", "ExprWithLimits"}, clsExpr) }

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	return ok && equalAll(s.Args(), o.Args())
}

func (s *Sum) Doit() Expr {
	expr := s.expr.Doit()
	from, ok1 := s.from.(*Num)
	to, ok2 := s.to.(*Num)
	if ok1 && ok2 && from.IsInteger() && to.IsInteger() {
		a, _ := from.Int64()
		b, _ := to.Int64()
		if b < a {
			return N(0)
		}
		if b-a < maxSumTerms {
			terms := make([]Expr, 0, b-a+1)
			for k := a; k <= b; k++ {
				terms = append(terms, Subs(expr, s.sym.name, N(k)))
			}
			return AddOf(terms...)
		}
	}
	if r, ok := closedFormSum(expr, s.sym.name, s.from, s.to); ok {
		return r
	}
	return &Sum{expr: expr, sym: s.sym, from: s.from, to: s.to}
}

// closedFormSum covers sums of k^0, k^1 and k^2 over a symbolic range.
func closedFormSum(expr Expr, k string, from, to Expr) (Expr, bool) {
	partial := func(n Expr) (Expr, bool) {
		coeffs := PolyCoeffs(expr, k)
		if Degree(expr, k) > 2 {
			return nil, false
		}
		terms := []Expr{}
		for deg, c := range coeffs {
			if Has(c, k) {
				return nil, false
			}
			var s Expr
			switch deg {
			case 0:
				s = n
			case 1:
				s = MulOf(F(1, 2), n, AddOf(n, N(1)))
			case 2:
				s = MulOf(F(1, 6), n, AddOf(n, N(1)), AddOf(MulOf(N(2), n), N(1)))
			}
			terms = append(terms, MulOf(c, s))
		}
		return AddOf(terms...), true
	}
	hi, ok1 := partial(to)
	lo, ok2 := partial(AddOf(from, N(-1)))
	if !ok1 || !ok2 {
		return nil, false
	}
	return Expand(AddOf(hi, MulOf(N(-1), lo))), true
}

func (s *Sum) String() string {
	return "Sum(" + s.expr.String() + ", (" + joinStrings(s.Args()[1:], ", ") + "))"
}

func (s *Sum) LaTeX() string {
	return `\sum_{` + s.sym.LaTeX() + "=" + s.from.LaTeX() + "}^{" + s.to.LaTeX() + "} " + s.expr.LaTeX()
}

// ============================================================
// Order: asymptotic order term at zero
// ============================================================

type Order struct{ expr Expr }

// OrderOf is O(expr) as its variables go to zero.
func OrderOf(expr Expr) Expr {
	if isNumber(expr) {
		return &Order{expr: N(1)}
	}
	return &Order{expr: expr}
}

// OTerm is O(x^order).
func OTerm(varName string, order int) Expr { return OrderOf(PowOf(S(varName), N(int64(order)))) }

func (o *Order) Expr() Expr        { return o.expr }
func (o *Order) Args() []Expr      { return []Expr{o.expr} }
func (o *Order) Doit() Expr        { return o }
func (o *Order) Classes() []string { return classes([]string{"Order"}, clsExpr) }
func (o *Order) String() string    { return "O(" + o.expr.String() + ")" }
func (o *Order) LaTeX() string     { return `O\left(` + o.expr.LaTeX() + `\right)` }

func (o *Order) Equal(other Expr) bool {
	p, ok := other.(*Order)
	return ok && o.expr.Equal(p.expr)
}

// absorbs reports whether term is of at least the order's degree in every
// variable of the order.
func (o *Order) absorbs(term Expr) bool {
	syms := FreeSymbols(o.expr)
	if len(syms) != 1 {
		return false
	}
	x := syms[0]
	if !Has(term, x) {
		return false
	}
	return lowDegree(term, x) >= lowDegree(o.expr, x)
}

// lowDegree is the lowest power of x over the terms of e.
func lowDegree(e Expr, x string) int {
	if a, ok := e.(*Add); ok {
		low := math.MaxInt32
		for _, t := range a.terms {
			if d := lowDegree(t, x); d < low {
				low = d
			}
		}
		return low
	}
	return Degree(e, x)
}

// ============================================================
// Series, expansion and rewrites
// ============================================================

// Series is the Taylor expansion of expr in x about a up to order n
// (exclusive), closed by an order term when expanding about zero.
func Series(expr Expr, x string, a Expr, n int) Expr {
	terms := []Expr{}
	current := expr
	factorial := N(1)
	for k := 0; k < n; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
		}
		coeff := MulOf(Subs(current, x, a), PowOf(factorial, N(-1)))
		if !isZero(coeff) {
			shift := AddOf(S(x), MulOf(N(-1), a))
			terms = append(terms, MulOf(coeff, PowOf(shift, N(int64(k)))))
		}
		current = Diff(current, x)
	}
	if isZero(a) {
		terms = append(terms, OTerm(x, n))
	}
	return AddOf(terms...)
}

func Expand(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = Expand(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = Expand(MulOf(append([]Expr{t}, rest...)...))
				}
				return AddOf(terms...)
			}
		}
		return MulOf(expanded...)
	case *Add:
		return AddOf(mapExprs(v.terms, Expand)...)
	case *Pow:
		base := Expand(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp, _ := n.Int64()
			if _, isAdd := base.(*Add); isAdd && exp >= 2 && exp <= 10 {
				result := base
				for i := int64(1); i < exp; i++ {
					result = distribute(result, base)
				}
				return result
			}
		}
		return PowOf(base, Expand(v.exp))
	}
	args := e.Args()
	if len(args) == 0 {
		return e
	}
	return Rebuild(e, mapExprs(args, Expand))
}

// distribute multiplies out two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	terms := func(e Expr) []Expr {
		if s, ok := e.(*Add); ok {
			return s.terms
		}
		return []Expr{e}
	}
	var out []Expr
	for _, p := range terms(a) {
		for _, q := range terms(b) {
			out = append(out, Expand(MulOf(p, q)))
		}
	}
	return AddOf(out...)
}

// trigSimplify rewrites c*sin(u)**2 + c*cos(u)**2 to c everywhere in e.
func trigSimplify(e Expr) Expr {
	args := e.Args()
	if len(args) > 0 {
		if _, frozen := e.(*Frozen); !frozen {
			e = Rebuild(e, mapExprs(args, trigSimplify))
		}
	}
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		name, arg string
		coeff     Expr
		idx       int
	}
	var found []trigTerm
	for idx, t := range add.terms {
		coeff, inner := splitCoeff(t)
		if p, ok := inner.(*Pow); ok && isNumEqual(p.exp, 2) {
			if fn, ok := p.base.(*Fn); ok && (fn.name == "sin" || fn.name == "cos") {
				found = append(found, trigTerm{fn.name, fn.args[0].String(), coeff, idx})
			}
		}
	}
	for i := 0; i < len(found); i++ {
		for j := i + 1; j < len(found); j++ {
			ti, tj := found[i], found[j]
			if ti.arg == tj.arg && ti.name != tj.name && ti.coeff.Equal(tj.coeff) {
				terms := []Expr{}
				for idx, t := range add.terms {
					if idx != ti.idx && idx != tj.idx {
						terms = append(terms, t)
					}
				}
				return AddOf(append(terms, ti.coeff)...)
			}
		}
	}
	return e
}

// ============================================================
// Polynomial utilities
// ============================================================

func Degree(expr Expr, x string) int {
	switch v := expr.(type) {
	case *Sym:
		if v.name == x {
			return 1
		}
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == x {
			if n, ok := v.exp.(*Num); ok {
				if i, ok := n.Int64(); ok {
					return int(i)
				}
			}
		}
	case *Add:
		maxDeg := 0
		for _, t := range v.terms {
			if d := Degree(t, x); d > maxDeg {
				maxDeg = d
			}
		}
		return maxDeg
	case *Mul:
		total := 0
		for _, f := range v.factors {
			total += Degree(f, x)
		}
		return total
	}
	return 0
}

// PolyCoeffs maps each power of x to its coefficient.
func PolyCoeffs(expr Expr, x string) map[int]Expr {
	out := map[int]Expr{}
	add := func(deg int, val Expr) {
		if prev, ok := out[deg]; ok {
			out[deg] = AddOf(prev, val)
		} else {
			out[deg] = val
		}
	}
	terms := []Expr{Expand(expr)}
	if a, ok := terms[0].(*Add); ok {
		terms = a.terms
	}
	for _, t := range terms {
		deg := 0
		coeff := []Expr{}
		factors := []Expr{t}
		if m, ok := t.(*Mul); ok {
			factors = m.factors
		}
		for _, f := range factors {
			if d := Degree(f, x); d > 0 {
				deg += d
			} else {
				coeff = append(coeff, f)
			}
		}
		add(deg, MulOf(coeff...))
	}
	return out
}
