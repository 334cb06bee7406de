package engine

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"
)

// DefaultPrecision is the number of significant digits of a Float when no
// other precision is asked for.
const DefaultPrecision = 15

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F is the exact fraction p/q. A zero q yields ComplexInfinity.
func F(p, q int64) Expr {
	if q == 0 {
		return ComplexInfinity
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func NBig(i *big.Int) *Num { return &Num{val: new(big.Rat).SetInt(i)} }
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// ParseInteger reads an optionally signed decimal integer.
func ParseInteger(s string) (*Num, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid integer %q", s)
	}
	return NBig(i), nil
}

func (n *Num) Args() []Expr          { return nil }
func (n *Num) Doit() Expr            { return n }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Numer() *big.Int       { return new(big.Int).Set(n.val.Num()) }
func (n *Num) Denom() *big.Int       { return new(big.Int).Set(n.val.Denom()) }

func (n *Num) Classes() []string {
	if n.val.IsInt() {
		return classes([]string{"Integer", "Rational", "Number"}, clsAtom)
	}
	return classes([]string{"Rational", "Number"}, clsAtom)
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return sign + `\frac{` + v.Num().String() + "}{" + v.Denom().String() + "}"
}

// Int64 returns the value of an integer that fits.
func (n *Num) Int64() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }
func numAbs(a *Num) *Num {
	r := new(big.Rat).Set(a.val)
	if r.Sign() < 0 {
		r.Neg(r)
	}
	return &Num{val: r}
}

// numPow raises a to an integer power, nil when the result would divide by
// zero or the exponent is unreasonably large.
func numPow(a *Num, e int64) *Num {
	if e < 0 && a.IsZero() {
		return nil
	}
	if e > 10000 || e < -10000 {
		return nil
	}
	neg := e < 0
	if neg {
		e = -e
	}
	num := new(big.Int).Exp(a.val.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(a.val.Denom(), big.NewInt(e), nil)
	if neg {
		num, den = den, num
	}
	return &Num{val: new(big.Rat).SetFrac(num, den)}
}

// numRoot returns the exact q-th root of a when there is one.
func numRoot(a *Num, q int64) (*Num, bool) {
	if a.IsNegative() || q <= 0 {
		return nil, false
	}
	num, ok1 := intRoot(a.val.Num(), q)
	den, ok2 := intRoot(a.val.Denom(), q)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}

func intRoot(x *big.Int, q int64) (*big.Int, bool) {
	if q == 2 {
		r := new(big.Int).Sqrt(x)
		return r, new(big.Int).Mul(r, r).Cmp(x) == 0
	}
	f, _ := new(big.Float).SetInt(x).Float64()
	r := big.NewInt(int64(math.Round(math.Pow(f, 1/float64(q)))))
	return r, new(big.Int).Exp(r, big.NewInt(q), nil).Cmp(x) == 0
}

// ============================================================
// Float: decimal at a number of significant digits
// ============================================================

type Float struct {
	val  *apd.Decimal
	prec uint32
}

func decimalContext(prec uint32) *apd.Context {
	if prec == 0 {
		prec = DefaultPrecision
	}
	return apd.BaseContext.WithPrecision(prec)
}

// NewFloat parses decimal text rounded to prec significant digits.
func NewFloat(text string, prec int) (*Float, error) {
	if prec <= 0 {
		prec = DefaultPrecision
	}
	d, _, err := decimalContext(uint32(prec)).NewFromString(text)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid float %q", text)
	}
	return &Float{val: d, prec: uint32(prec)}, nil
}

// FloatOf converts an exact number to a Float.
func FloatOf(n *Num, prec uint32) *Float {
	ctx := decimalContext(prec)
	num := apd.NewWithBigInt(new(big.Int).Abs(n.val.Num()), 0)
	num.Negative = n.val.Sign() < 0
	den := apd.NewWithBigInt(new(big.Int).Set(n.val.Denom()), 0)
	d := new(apd.Decimal)
	ctx.Quo(d, num, den)
	return &Float{val: d, prec: ctx.Precision}
}

// Neg negates a number directly. Anything else is multiplied by -1.
func Neg(e Expr) Expr {
	switch v := e.(type) {
	case *Num:
		return numNeg(v)
	case *Float:
		return &Float{val: new(apd.Decimal).Neg(v.val), prec: v.prec}
	}
	return MulOf(N(-1), e)
}

func floatFrom64(f float64, prec uint32) Expr {
	if math.IsNaN(f) {
		return NaN
	}
	if math.IsInf(f, 1) {
		return Infinity
	}
	if math.IsInf(f, -1) {
		return NegativeInfinity
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return NaN
	}
	ctx := decimalContext(prec)
	ctx.Round(d, d)
	return &Float{val: d, prec: ctx.Precision}
}

func (f *Float) Args() []Expr      { return nil }
func (f *Float) Doit() Expr        { return f }
func (f *Float) Classes() []string { return classes([]string{"Float", "Number"}, clsAtom) }
func (f *Float) String() string    { return f.val.String() }
func (f *Float) LaTeX() string     { return f.val.String() }
func (f *Float) Precision() int    { return int(f.prec) }
func (f *Float) IsZero() bool      { return f.val.IsZero() }
func (f *Float) IsNegative() bool  { return f.val.Sign() < 0 }
func (f *Float) Float64() float64  { v, _ := f.val.Float64(); return v }

func (f *Float) Equal(other Expr) bool {
	o, ok := other.(*Float)
	return ok && f.val.Cmp(o.val) == 0
}

func decimalOf(e Expr, prec uint32) (*apd.Decimal, bool) {
	switch v := e.(type) {
	case *Float:
		return v.val, true
	case *Num:
		return FloatOf(v, prec).val, true
	}
	return nil, false
}

func maxPrec(es ...Expr) uint32 {
	var p uint32
	for _, e := range es {
		if f, ok := e.(*Float); ok && f.prec > p {
			p = f.prec
		}
	}
	if p == 0 {
		p = DefaultPrecision
	}
	return p
}

// floatOp folds two numbers of which at least one is a Float.
func floatOp(a, b Expr, op func(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error)) (Expr, bool) {
	prec := maxPrec(a, b)
	x, ok1 := decimalOf(a, prec)
	y, ok2 := decimalOf(b, prec)
	if !ok1 || !ok2 {
		return nil, false
	}
	ctx := decimalContext(prec)
	d := new(apd.Decimal)
	if _, err := op(ctx, d, x, y); err != nil {
		return nil, false
	}
	return &Float{val: d, prec: prec}, true
}

func floatAdd(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error) { return ctx.Add(d, x, y) }
func floatMul(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error) { return ctx.Mul(d, x, y) }
func floatPow(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error) { return ctx.Pow(d, x, y) }

// isNumber reports exact and float numbers.
func isNumber(e Expr) bool {
	switch e.(type) {
	case *Num, *Float:
		return true
	}
	return false
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}

func isZero(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsZero()
	case *Float:
		return v.IsZero()
	}
	return false
}

func isNegativeNumber(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Float:
		return v.IsNegative()
	}
	return e == NegativeInfinity
}

// ============================================================
// Atoms: named constants, symbols, strings
// ============================================================

// Const is a singleton named constant, boolean, None or number set.
type Const struct {
	str, latex string
	cls        []string
	val        float64
	numeric    bool
}

func (c *Const) Args() []Expr          { return nil }
func (c *Const) Doit() Expr            { return c }
func (c *Const) String() string        { return c.str }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Classes() []string     { return c.cls }
func (c *Const) Equal(other Expr) bool { return c == other }

var (
	Pi               = &Const{"pi", `\pi`, classes([]string{"Pi", "NumberSymbol"}, clsAtom), math.Pi, true}
	Exp1             = &Const{"E", `e`, classes([]string{"Exp1", "NumberSymbol"}, clsAtom), math.E, true}
	ImaginaryUnit    = &Const{"I", `i`, classes([]string{"ImaginaryUnit"}, clsAtom), 0, false}
	Infinity         = &Const{"oo", `\infty`, classes([]string{"Infinity", "Number"}, clsAtom), math.Inf(1), true}
	NegativeInfinity = &Const{"-oo", `-\infty`, classes([]string{"NegativeInfinity", "Number"}, clsAtom), math.Inf(-1), true}
	ComplexInfinity  = &Const{"zoo", `\tilde{\infty}`, classes([]string{"ComplexInfinity"}, clsAtom), 0, false}
	NaN              = &Const{"nan", `\text{NaN}`, classes([]string{"NaN", "Number"}, clsAtom), math.NaN(), false}
	True             = &Const{"True", `\text{True}`, classes([]string{"BooleanTrue"}, clsBooleanAtom), 0, false}
	False            = &Const{"False", `\text{False}`, classes([]string{"BooleanFalse"}, clsBooleanAtom), 0, false}
	None             = &Const{"None", `\text{None}`, []string{"NoneType"}, 0, false}
	Naturals         = &Const{"Naturals", `\mathbb{N}`, classes([]string{"Naturals"}, clsSet), 0, false}
	Naturals0        = &Const{"Naturals0", `\mathbb{N}_0`, classes([]string{"Naturals0"}, clsSet), 0, false}
	Integers         = &Const{"Integers", `\mathbb{Z}`, classes([]string{"Integers"}, clsSet), 0, false}
	Reals            = &Const{"Reals", `\mathbb{R}`, classes([]string{"Reals"}, clsSet), 0, false}
	Complexes        = &Const{"Complexes", `\mathbb{C}`, classes([]string{"Complexes"}, clsSet), 0, false}
)

func Bool(b bool) *Const {
	if b {
		return True
	}
	return False
}

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Args() []Expr          { return nil }
func (s *Sym) Doit() Expr            { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) LaTeX() string         { return s.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Classes() []string     { return classes([]string{"Symbol"}, clsAtom) }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }

// Str is a string object, used for string literals and str() results.
type Str struct{ s string }

func StrOf(s string) *Str            { return &Str{s: s} }
func (s *Str) Args() []Expr          { return nil }
func (s *Str) Doit() Expr            { return s }
func (s *Str) String() string        { return s.s }
func (s *Str) LaTeX() string         { return `\text{` + s.s + "}" }
func (s *Str) Value() string         { return s.s }
func (s *Str) Classes() []string     { return []string{"Str", "Atom", "Basic"} }
func (s *Str) Equal(other Expr) bool { o, ok := other.(*Str); return ok && s.s == o.s }
