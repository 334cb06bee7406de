package engine

import (
	"sort"
	"strings"
)

// ============================================================
// Number folding shared by Add, Mul and Pow
// ============================================================

func addNumbers(a, b Expr) Expr {
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			return numAdd(x, y)
		}
	}
	if r, ok := floatOp(a, b, floatAdd); ok {
		return r
	}
	return NaN
}

func mulNumbers(a, b Expr) Expr {
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			return numMul(x, y)
		}
	}
	if r, ok := floatOp(a, b, floatMul); ok {
		return r
	}
	return NaN
}

func isOne(e Expr) bool { return isNumEqual(e, 1) }

// splitCoeff separates the numeric coefficient of a term: 3*x -> (3, x).
func splitCoeff(e Expr) (Expr, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) > 1 && isNumber(m.factors[0]) {
		rest := m.factors[1:]
		if len(rest) == 1 {
			return m.factors[0], rest[0]
		}
		return m.factors[0], &Mul{factors: append([]Expr(nil), rest...)}
	}
	if isNumber(e) {
		return e, N(1)
	}
	return N(1), e
}

// asPow views any factor as base**exp.
func asPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

// degree is the total polynomial degree used to order terms.
func degree(e Expr) int {
	switch v := e.(type) {
	case *Num, *Float, *Const:
		return 0
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			if i, ok := n.Int64(); ok {
				return int(i) * degree(v.base)
			}
		}
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += degree(f)
		}
		return d
	case *Add:
		d := 0
		for _, t := range v.terms {
			if td := degree(t); td > d {
				d = td
			}
		}
		return d
	}
	return 1
}

// ============================================================
// Add: sum of terms
// ============================================================

// Add keeps its terms in canonical order: the number first, then ascending
// degree, terms of equal degree in descending key order, an Order term last.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	var num Expr = N(0)
	var order *Order
	var mats []*Matrix
	posInf, negInf := false, false
	coeffs := map[string]Expr{}
	bases := map[string]Expr{}
	keys := []string{}
	for _, t := range flat {
		switch {
		case t == NaN:
			return NaN
		case t == ComplexInfinity:
			return ComplexInfinity
		case t == Infinity:
			posInf = true
			continue
		case t == NegativeInfinity:
			negInf = true
			continue
		case isNumber(t):
			num = addNumbers(num, t)
			continue
		}
		if o, ok := t.(*Order); ok {
			order = o
			continue
		}
		if m, ok := t.(*Matrix); ok {
			mats = append(mats, m)
			continue
		}
		c, rest := splitCoeff(t)
		k := rest.String()
		if _, seen := coeffs[k]; !seen {
			keys = append(keys, k)
			coeffs[k], bases[k] = N(0), rest
		}
		coeffs[k] = addNumbers(coeffs[k], c)
	}
	if posInf && negInf {
		return NaN
	}
	if posInf {
		return Infinity
	}
	if negInf {
		return NegativeInfinity
	}
	if len(mats) > 0 && len(keys) == 0 && isZero(num) {
		return sumMatrices(mats)
	}

	result := []Expr{}
	for _, k := range keys {
		c := coeffs[k]
		if isZero(c) {
			continue
		}
		t := bases[k]
		if !isOne(c) {
			t = MulOf(c, t)
		}
		if order != nil && order.absorbs(t) {
			continue
		}
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		di, dj := degree(result[i]), degree(result[j])
		if di != dj {
			return di < dj
		}
		return result[i].String() > result[j].String()
	})
	if !isZero(num) || (len(result) == 0 && order == nil && len(mats) == 0) {
		result = append([]Expr{num}, result...)
	}
	for _, m := range mats {
		result = append(result, m)
	}
	if order != nil {
		result = append(result, order)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func sumMatrices(ms []*Matrix) Expr {
	acc := ms[0]
	for _, m := range ms[1:] {
		next, err := acc.MatAdd(m)
		if err != nil {
			terms := make([]Expr, len(ms))
			for i, m := range ms {
				terms[i] = m
			}
			return &Add{terms: terms}
		}
		acc = next
	}
	return acc
}

func (a *Add) Args() []Expr          { return a.terms }
func (a *Add) Terms() []Expr         { return a.terms }
func (a *Add) Classes() []string     { return classes([]string{"Add", "AssocOp"}, clsExpr) }
func (a *Add) Equal(other Expr) bool { o, ok := other.(*Add); return ok && equalAll(a.terms, o.terms) }
func (a *Add) Doit() Expr            { return AddOf(doitAll(a.terms)...) }

// displayTerms is the reading order: highest degree first, number last.
func (a *Add) displayTerms() []Expr {
	n := len(a.terms)
	out := make([]Expr, 0, n)
	var order Expr
	for i := n - 1; i >= 0; i-- {
		if o, ok := a.terms[i].(*Order); ok {
			order = o
			continue
		}
		out = append(out, a.terms[i])
	}
	if order != nil {
		out = append(out, order)
	}
	return out
}

func (a *Add) String() string {
	var sb strings.Builder
	for i, t := range a.displayTerms() {
		s := t.String()
		if i > 0 {
			if strings.HasPrefix(s, "-") {
				sb.WriteString(" - ")
				s = s[1:]
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.displayTerms() {
		s := t.LaTeX()
		if i > 0 {
			if strings.HasPrefix(s, "-") {
				sb.WriteString(" - ")
				s = s[1:]
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// ============================================================
// Mul: product of factors
// ============================================================

// Mul keeps a numeric coefficient first, then its other factors sorted by
// key. Powers of a common base are merged.
type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	var coeff Expr = N(1)
	var mats []*Matrix
	zoo, inf := false, 0
	exps := map[string]Expr{}
	bases := map[string]Expr{}
	keys := []string{}
	for _, f := range flat {
		switch {
		case f == NaN:
			return NaN
		case f == ComplexInfinity:
			zoo = true
			continue
		case f == Infinity:
			inf++
			continue
		case f == NegativeInfinity:
			inf++
			coeff = mulNumbers(coeff, N(-1))
			continue
		case isNumber(f):
			coeff = mulNumbers(coeff, f)
			continue
		}
		if m, ok := f.(*Matrix); ok {
			mats = append(mats, m)
			continue
		}
		b, e := asPow(f)
		k := b.String()
		if _, seen := exps[k]; !seen {
			keys = append(keys, k)
			exps[k], bases[k] = N(0), b
		}
		exps[k] = AddOf(exps[k], e)
	}

	if zoo {
		if isZero(coeff) {
			return NaN
		}
		return ComplexInfinity
	}
	if isZero(coeff) {
		if inf > 0 {
			return NaN
		}
		return N(0)
	}

	others := []Expr{}
	for _, k := range keys {
		p := PowOf(bases[k], exps[k])
		if isNumber(p) {
			coeff = mulNumbers(coeff, p)
			continue
		}
		if isNumEqual(p, 1) {
			continue
		}
		others = append(others, p)
	}
	if inf > 0 {
		if len(others) == 0 && len(mats) == 0 {
			if isNegativeNumber(coeff) {
				return NegativeInfinity
			}
			return Infinity
		}
		others = append(others, Infinity)
		if isNegativeNumber(coeff) {
			coeff = N(-1)
		} else {
			coeff = N(1)
		}
	}

	if len(mats) > 0 {
		if m, ok := productOfMatrices(mats); ok {
			scalar := append([]Expr{coeff}, others...)
			return m.Scale(MulOf(scalar...))
		}
		for _, m := range mats {
			others = append(others, m)
		}
	} else {
		sort.SliceStable(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	}

	if isOne(coeff) {
		switch len(others) {
		case 0:
			return N(1)
		case 1:
			return others[0]
		}
		return &Mul{factors: others}
	}
	if len(others) == 0 {
		return coeff
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func productOfMatrices(ms []*Matrix) (*Matrix, bool) {
	acc := ms[0]
	for _, m := range ms[1:] {
		next, err := acc.MatMul(m)
		if err != nil {
			return nil, false
		}
		acc = next
	}
	return acc, true
}

func (m *Mul) Args() []Expr          { return m.factors }
func (m *Mul) Factors() []Expr       { return m.factors }
func (m *Mul) Classes() []string     { return classes([]string{"Mul", "AssocOp"}, clsExpr) }
func (m *Mul) Equal(other Expr) bool { o, ok := other.(*Mul); return ok && equalAll(m.factors, o.factors) }
func (m *Mul) Doit() Expr            { return MulOf(doitAll(m.factors)...) }

// fraction splits into factors with positive and negative exponents, the
// coefficient's sign separate.
func (m *Mul) fraction() (neg bool, num, den []Expr) {
	for i, f := range m.factors {
		if i == 0 && isNumber(f) {
			if isNegativeNumber(f) {
				neg = true
				f = MulOf(f, N(-1))
			}
			if n, ok := f.(*Num); ok && !n.IsInteger() {
				num = append(num, NBig(n.Numer()))
				den = append(den, NBig(n.Denom()))
				continue
			}
			if isOne(f) {
				continue
			}
		}
		if p, ok := f.(*Pow); ok && isNegativeNumber(p.exp) {
			den = append(den, PowOf(p.base, MulOf(N(-1), p.exp)))
			continue
		}
		num = append(num, f)
	}
	num = dropOnes(num)
	den = dropOnes(den)
	return neg, num, den
}

func dropOnes(es []Expr) []Expr {
	out := es[:0:0]
	for _, e := range es {
		if !isOne(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *Mul) String() string {
	neg, num, den := m.fraction()
	wrap := func(es []Expr) string {
		if len(es) == 0 {
			return "1"
		}
		parts := make([]string, len(es))
		for i, e := range es {
			parts[i] = e.String()
			if _, ok := e.(*Add); ok {
				parts[i] = "(" + parts[i] + ")"
			}
		}
		return strings.Join(parts, "*")
	}
	s := wrap(num)
	if len(den) > 0 {
		d := wrap(den)
		if len(den) > 1 {
			d = "(" + d + ")"
		} else if _, ok := den[0].(*Add); ok && !strings.HasPrefix(d, "(") {
			d = "(" + d + ")"
		}
		s += "/" + d
	}
	if neg {
		return "-" + s
	}
	return s
}

func (m *Mul) LaTeX() string {
	neg, num, den := m.fraction()
	wrap := func(es []Expr) string {
		if len(es) == 0 {
			return "1"
		}
		parts := make([]string, len(es))
		for i, e := range es {
			parts[i] = e.LaTeX()
			if _, ok := e.(*Add); ok {
				parts[i] = `\left(` + parts[i] + `\right)`
			}
		}
		return strings.Join(parts, " ")
	}
	s := wrap(num)
	if len(den) > 0 {
		s = `\frac{` + s + "}{" + wrap(den) + "}"
	}
	if neg {
		return "- " + s
	}
	return s
}

// ============================================================
// Pow: base**exp
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr {
	switch {
	case base == NaN || exp == NaN:
		return NaN
	case isZero(exp):
		return N(1)
	case isOne(exp):
		return base
	case isOne(base):
		return N(1)
	case base == Exp1:
		return Apply("exp", exp)
	}

	if isZero(base) && isNumber(exp) {
		if isNegativeNumber(exp) {
			return ComplexInfinity
		}
		return N(0)
	}
	if base == ComplexInfinity && isNumber(exp) {
		if isNegativeNumber(exp) {
			return N(0)
		}
		return ComplexInfinity
	}
	if base == Infinity && isNumber(exp) {
		if isNegativeNumber(exp) {
			return N(0)
		}
		return Infinity
	}

	bn, bok := base.(*Num)
	en, eok := exp.(*Num)
	if bok && eok {
		if e, ok := en.Int64(); ok {
			if r := numPow(bn, e); r != nil {
				return r
			}
			return ComplexInfinity
		}
		if !en.IsInteger() && bn.IsPositive() {
			p, q := en.Numer(), en.Denom()
			if q.IsInt64() && p.IsInt64() {
				if root, ok := numRoot(bn, q.Int64()); ok {
					return PowOf(root, N(p.Int64()))
				}
			}
		}
	}
	if isNumber(base) && isNumber(exp) && (!bok || !eok) && !isNegativeNumber(base) {
		if r, ok := floatOp(base, exp, floatPow); ok {
			return r
		}
	}
	if base == ImaginaryUnit && eok && en.IsInteger() {
		e, _ := en.Int64()
		switch ((e % 4) + 4) % 4 {
		case 0:
			return N(1)
		case 1:
			return ImaginaryUnit
		case 2:
			return N(-1)
		}
		return MulOf(N(-1), ImaginaryUnit)
	}
	if eok && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, exp))
		case *Mul:
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = PowOf(f, exp)
			}
			return MulOf(fs...)
		case *Matrix:
			if r, err := b.IntPow(en); err == nil {
				return r
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Args() []Expr      { return []Expr{p.base, p.exp} }
func (p *Pow) Base() Expr        { return p.base }
func (p *Pow) ExpExpr() Expr     { return p.exp }
func (p *Pow) Classes() []string { return classes([]string{"Pow"}, clsExpr) }
func (p *Pow) Doit() Expr        { return PowOf(p.base.Doit(), p.exp.Doit()) }
func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) String() string {
	if isHalf(p.exp) {
		return "sqrt(" + p.base.String() + ")"
	}
	baseStr := p.base.String()
	expStr := p.exp.String()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	}
	if isNegativeNumber(p.base) {
		baseStr = "(" + baseStr + ")"
	}
	switch p.exp.(type) {
	case *Add, *Mul, *Pow:
		expStr = "(" + expStr + ")"
	}
	if n, ok := p.exp.(*Num); ok && !n.IsInteger() {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "**" + expStr
}

func (p *Pow) LaTeX() string {
	if isHalf(p.exp) {
		return `\sqrt{` + p.base.LaTeX() + "}"
	}
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = `\left(` + baseStr + `\right)`
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func isHalf(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(F(1, 2))
}
