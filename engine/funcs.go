package engine

import (
	"math"
	"math/big"
	"strings"
)

// ============================================================
// Fn: named function applications
// ============================================================

type Fn struct {
	name string
	args []Expr
}

// funcFamilies maps every known function to the classes between its own
// name and the generic application tail.
var funcFamilies = func() map[string][]string {
	m := map[string][]string{
		"exp":       {"ExpBase"},
		"log":       {},
		"Abs":       {},
		"arg":       {},
		"sign":      {},
		"re":        {},
		"im":        {},
		"conjugate": {},
		"factorial": {"CombinatorialFunction"},
		"floor":     {"RoundFunction"},
		"ceiling":   {"RoundFunction"},
		"gamma":     {},
		"zeta":      {},
	}
	for _, n := range []string{"sin", "cos", "tan", "cot", "sec", "csc"} {
		m[n] = []string{"TrigonometricFunction"}
		m["a"+n] = []string{"InverseTrigonometricFunction"}
	}
	for _, n := range []string{"sinh", "cosh", "tanh", "coth", "sech", "csch"} {
		m[n] = []string{"HyperbolicFunction"}
		m["a"+n] = []string{"InverseHyperbolicFunction"}
	}
	return m
}()

// lattice functions are applications but not Functions.
var latticeFuncs = map[string]bool{"Min": true, "Max": true}

// IsKnownFunction reports whether name is a function the kernel evaluates.
func IsKnownFunction(name string) bool {
	_, ok := funcFamilies[name]
	return ok || latticeFuncs[name]
}

func (f *Fn) Args() []Expr      { return f.args }
func (f *Fn) FuncName() string  { return f.name }
func (f *Fn) Doit() Expr        { return Apply(f.name, doitAll(f.args)...) }
func (f *Fn) IsUndefined() bool { return !IsKnownFunction(f.name) }

func (f *Fn) Classes() []string {
	if latticeFuncs[f.name] {
		return []string{f.name, "MinMaxBase", "LatticeOp", "AssocOp", "Application", "Expr", "Basic"}
	}
	fam, ok := funcFamilies[f.name]
	if !ok {
		return classes([]string{f.name, "AppliedUndef"}, clsApplication)
	}
	return classes(append([]string{f.name}, fam...), clsApplication)
}

func (f *Fn) Equal(other Expr) bool {
	o, ok := other.(*Fn)
	return ok && f.name == o.name && equalAll(f.args, o.args)
}

func (f *Fn) String() string { return f.name + "(" + joinStrings(f.args, ", ") + ")" }

func (f *Fn) LaTeX() string {
	arg := `\left(` + joinLaTeX(f.args, ", ") + `\right)`
	switch f.name {
	case "sin", "cos", "tan", "cot", "sec", "csc", "sinh", "cosh", "tanh", "coth", "log":
		return `\` + f.name + arg
	case "asin", "acos", "atan", "acot", "asec", "acsc":
		return `\arc` + f.name[1:] + arg
	case "exp":
		return "e^{" + f.args[0].LaTeX() + "}"
	case "Abs":
		return `\left|` + f.args[0].LaTeX() + `\right|`
	case "floor":
		return `\lfloor ` + f.args[0].LaTeX() + ` \rfloor`
	case "ceiling":
		return `\lceil ` + f.args[0].LaTeX() + ` \rceil`
	case "factorial":
		return f.args[0].LaTeX() + "!"
	case "gamma":
		return `\Gamma` + arg
	case "zeta":
		return `\zeta` + arg
	case "Min", "Max":
		return `\` + strings.ToLower(f.name) + arg
	}
	return `\operatorname{` + strings.Replace(f.name, "_", `\_`, -1) + "}" + arg
}

// ============================================================
// Apply: canonicalizing function constructor
// ============================================================

var funcAliases = map[string]string{"ln": "log", "ceil": "ceiling", "abs": "Abs"}

// oddFuncs satisfy f(-x) = -f(x), evenFuncs f(-x) = f(x).
var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "cot": true, "csc": true, "asin": true, "atan": true, "sinh": true, "tanh": true, "asinh": true, "atanh": true}
	evenFuncs = map[string]bool{"cos": true, "sec": true, "cosh": true, "sech": true}
)

var floatFuncs = map[string]func(float64) float64{
	"sin":     math.Sin,
	"cos":     math.Cos,
	"tan":     math.Tan,
	"cot":     func(x float64) float64 { return 1 / math.Tan(x) },
	"sec":     func(x float64) float64 { return 1 / math.Cos(x) },
	"csc":     func(x float64) float64 { return 1 / math.Sin(x) },
	"asin":    math.Asin,
	"acos":    math.Acos,
	"atan":    math.Atan,
	"acot":    func(x float64) float64 { return math.Atan(1 / x) },
	"asec":    func(x float64) float64 { return math.Acos(1 / x) },
	"acsc":    func(x float64) float64 { return math.Asin(1 / x) },
	"sinh":    math.Sinh,
	"cosh":    math.Cosh,
	"tanh":    math.Tanh,
	"coth":    func(x float64) float64 { return 1 / math.Tanh(x) },
	"sech":    func(x float64) float64 { return 1 / math.Cosh(x) },
	"csch":    func(x float64) float64 { return 1 / math.Sinh(x) },
	"asinh":   math.Asinh,
	"acosh":   math.Acosh,
	"atanh":   math.Atanh,
	"exp":     math.Exp,
	"log":     math.Log,
	"gamma":   math.Gamma,
	"Abs":     math.Abs,
	"floor":   math.Floor,
	"ceiling": math.Ceil,
}

// Apply builds name(args...) and applies the simplifications the kernel
// knows for it. Unknown names make undefined function applications.
func Apply(name string, args ...Expr) Expr {
	if alias, ok := funcAliases[name]; ok {
		name = alias
	}
	if latticeFuncs[name] {
		return minMax(name, args)
	}
	if _, ok := funcFamilies[name]; !ok || len(args) == 0 {
		return &Fn{name: name, args: args}
	}
	if name == "log" && len(args) == 2 {
		return MulOf(Apply("log", args[0]), PowOf(Apply("log", args[1]), N(-1)))
	}
	if len(args) != 1 {
		return &Fn{name: name, args: args}
	}
	arg := args[0]
	if arg == NaN {
		return NaN
	}
	if r, ok := evalFloatFunc(name, arg); ok {
		return r
	}
	if r, ok := exactFunc(name, arg); ok {
		return r
	}
	if c, rest := splitCoeff(arg); isNegativeNumber(c) {
		neg := MulOf(numOrFloatNeg(c), rest)
		switch {
		case oddFuncs[name]:
			return MulOf(N(-1), Apply(name, neg))
		case evenFuncs[name], name == "Abs":
			return Apply(name, neg)
		}
	}
	return &Fn{name: name, args: []Expr{arg}}
}

func numOrFloatNeg(e Expr) Expr { return mulNumbers(e, N(-1)) }

func evalFloatFunc(name string, arg Expr) (Expr, bool) {
	fl, ok := arg.(*Float)
	if !ok {
		return nil, false
	}
	if name == "factorial" {
		return floatFrom64(math.Gamma(fl.Float64()+1), fl.prec), true
	}
	if name == "sign" {
		return N(int64(fl.val.Sign())), true
	}
	f, ok := floatFuncs[name]
	if !ok {
		return nil, false
	}
	v := f(fl.Float64())
	if name == "floor" || name == "ceiling" {
		i, _ := new(big.Float).SetFloat64(v).Int(nil)
		return NBig(i), true
	}
	return floatFrom64(v, fl.prec), true
}

func exactFunc(name string, arg Expr) (Expr, bool) {
	n, isNum := arg.(*Num)
	switch name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh", "asinh", "atanh":
		if isZero(arg) || (arg == Pi && (name == "sin" || name == "tan")) {
			return N(0), true
		}
	case "cos":
		if isZero(arg) {
			return N(1), true
		}
		if arg == Pi {
			return N(-1), true
		}
	case "cosh":
		if isZero(arg) {
			return N(1), true
		}
	case "acos":
		if isOne(arg) {
			return N(0), true
		}
	case "exp":
		if isZero(arg) {
			return N(1), true
		}
		if isOne(arg) {
			return Exp1, true
		}
		if f, ok := arg.(*Fn); ok && f.name == "log" {
			return f.args[0], true
		}
	case "log":
		if isOne(arg) {
			return N(0), true
		}
		if isZero(arg) {
			return ComplexInfinity, true
		}
		if arg == Exp1 {
			return N(1), true
		}
		if f, ok := arg.(*Fn); ok && f.name == "exp" {
			return f.args[0], true
		}
	case "Abs":
		if isNum {
			return numAbs(n), true
		}
		if f, ok := arg.(*Fn); ok && f.name == "Abs" {
			return f, true
		}
		if arg == Pi || arg == Exp1 || arg == Infinity {
			return arg, true
		}
		if arg == NegativeInfinity {
			return Infinity, true
		}
	case "sign":
		if isNum {
			return N(int64(n.val.Sign())), true
		}
	case "re", "conjugate":
		if isNum {
			return n, true
		}
	case "im":
		if isNum {
			return N(0), true
		}
	case "arg":
		if isNum && n.IsPositive() {
			return N(0), true
		}
		if isNum && n.IsNegative() {
			return Pi, true
		}
	case "floor", "ceiling":
		if isNum {
			q, m := new(big.Int).DivMod(n.val.Num(), n.val.Denom(), new(big.Int))
			if name == "ceiling" && m.Sign() != 0 {
				q.Add(q, big.NewInt(1))
			}
			return NBig(q), true
		}
	case "factorial":
		if isNum && n.IsInteger() {
			if n.IsNegative() {
				return ComplexInfinity, true
			}
			if i, ok := n.Int64(); ok && i <= 1000 {
				return NBig(new(big.Int).MulRange(1, i)), true
			}
		}
	case "gamma":
		if isNum && n.IsInteger() {
			if !n.IsPositive() {
				return ComplexInfinity, true
			}
			if i, ok := n.Int64(); ok && i <= 1001 {
				return NBig(new(big.Int).MulRange(1, i-1)), true
			}
		}
	case "zeta":
		if isZero(arg) {
			return F(-1, 2), true
		}
		if isNumEqual(arg, 2) {
			return MulOf(F(1, 6), PowOf(Pi, N(2))), true
		}
	}
	return nil, false
}

func minMax(name string, args []Expr) Expr {
	var best Expr
	rest := []Expr{}
	for _, a := range args {
		if !isNumber(a) {
			rest = append(rest, a)
			continue
		}
		if best == nil {
			best = a
			continue
		}
		d := addNumbers(a, mulNumbers(best, N(-1)))
		if (name == "Max" && !isNegativeNumber(d) && !isZero(d)) || (name == "Min" && isNegativeNumber(d)) {
			best = a
		}
	}
	if best != nil {
		rest = append([]Expr{best}, rest...)
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return &Fn{name: name, args: rest}
}

// ============================================================
// Numeric evaluation
// ============================================================

// Evalf replaces exact numbers and numeric constants by Floats at prec
// significant digits and folds what becomes numeric.
func Evalf(e Expr, prec int) Expr {
	if prec <= 0 {
		prec = DefaultPrecision
	}
	p := uint32(prec)
	switch v := e.(type) {
	case *Num:
		return FloatOf(v, p)
	case *Float:
		return v
	case *Const:
		if v.numeric && !math.IsInf(v.val, 0) {
			return floatFrom64(v.val, p)
		}
		return v
	case *Frozen:
		return v
	}
	args := e.Args()
	if len(args) == 0 {
		return e
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = Evalf(a, prec)
	}
	return Rebuild(e, out)
}
