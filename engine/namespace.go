package engine

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"
)

// ============================================================
// Namespace: functions callable by name
// ============================================================

// Callable is a function of the namespace or of the builtin allow-list,
// called with positional and keyword arguments.
type Callable func(args []Expr, kw map[string]Expr) (Expr, error)

// ErrBadCall is the cause of every argument error raised by a Callable.
var ErrBadCall = errors.New("bad call")

// call gives a Callable uniform access to its arguments.
type call struct {
	name string
	args []Expr
	kw   map[string]Expr
}

func (c *call) fail(format string, v ...interface{}) error {
	return errors.Wrapf(ErrBadCall, c.name+": "+format, v...)
}

func (c *call) arity(lo, hi int) error {
	n := len(c.args)
	if n < lo || (hi >= 0 && n > hi) {
		if lo == hi {
			return c.fail("takes %d arguments, got %d", lo, n)
		}
		return c.fail("takes %d to %d arguments, got %d", lo, hi, n)
	}
	return nil
}

// get returns positional argument i, or the keyword argument named key.
func (c *call) get(i int, key string) (Expr, bool) {
	if i < len(c.args) {
		return c.args[i], true
	}
	if key != "" {
		e, ok := c.kw[key]
		return e, ok
	}
	return nil, false
}

func (c *call) sym(i int, key string) (*Sym, error) {
	e, ok := c.get(i, key)
	if !ok {
		return nil, c.fail("missing argument %d", i+1)
	}
	s, ok := e.(*Sym)
	if !ok {
		return nil, c.fail("argument %d must be a symbol, got %s", i+1, e)
	}
	return s, nil
}

func (c *call) int(i int, key string, def int) (int, error) {
	e, ok := c.get(i, key)
	if !ok || e == None {
		return def, nil
	}
	n, ok := asInt(e)
	if !ok {
		return 0, c.fail("argument %d must be an integer, got %s", i+1, e)
	}
	return n, nil
}

func (c *call) str(key, def string) string {
	if s, ok := c.kw[key].(*Str); ok {
		return s.s
	}
	return def
}

// soleSymbol picks the differentiation or integration variable when the
// caller gave none.
func (c *call) soleSymbol(e Expr) (*Sym, error) {
	free := FreeSymbols(e)
	if len(free) != 1 {
		return nil, c.fail("specify a variable for %s", e)
	}
	return S(free[0]), nil
}

func asInt(e Expr) (int, bool) {
	n, ok := e.(*Num)
	if !ok || !n.IsInteger() {
		return 0, false
	}
	i, ok := n.Int64()
	return int(i), ok
}

// items returns the elements of a list, tuple or matrix argument.
func items(e Expr) ([]Expr, bool) {
	switch v := e.(type) {
	case *List:
		return v.items, true
	case *Tuple:
		return v.items, true
	case *Matrix:
		return v.Args(), true
	}
	return nil, false
}

var namespace map[string]Callable

func init() {
	namespace = map[string]Callable{}
	for name := range funcFamilies {
		namespace[name] = applyFunc(name)
	}
	for name := range latticeFuncs {
		namespace[name] = applyFunc(name)
	}
	for alias := range funcAliases {
		namespace[alias] = applyFunc(alias)
	}

	fixed := map[string]func(c *call) (Expr, error){
		"sqrt": func(c *call) (Expr, error) {
			if err := c.arity(1, 1); err != nil {
				return nil, err
			}
			return SqrtOf(c.args[0]), nil
		},
		"root": func(c *call) (Expr, error) {
			if err := c.arity(2, 2); err != nil {
				return nil, err
			}
			return PowOf(c.args[0], PowOf(c.args[1], N(-1))), nil
		},
		"diff": func(c *call) (Expr, error) {
			vars, err := c.diffVars()
			if err != nil {
				return nil, err
			}
			r := c.args[0]
			for _, v := range vars {
				r = Diff(r, v.name)
			}
			return r, nil
		},
		"Derivative": func(c *call) (Expr, error) {
			vars, err := c.diffVars()
			if err != nil {
				return nil, err
			}
			return DerivativeOf(c.args[0], vars...), nil
		},
		"integrate": func(c *call) (Expr, error) {
			in, err := c.integral()
			if err != nil {
				return nil, err
			}
			return in.Doit(), nil
		},
		"Integral": func(c *call) (Expr, error) { return c.integral() },
		"limit": func(c *call) (Expr, error) {
			l, err := c.limit()
			if err != nil {
				return nil, err
			}
			if r, ok := EvalLimit(l.expr, l.sym.name, l.to, l.dir); ok {
				return r, nil
			}
			return l, nil
		},
		"Limit": func(c *call) (Expr, error) { return c.limit() },
		"Sum": func(c *call) (Expr, error) { return c.sum() },
		"summation": func(c *call) (Expr, error) {
			s, err := c.sum()
			if err != nil {
				return nil, err
			}
			return s.Doit(), nil
		},
		"series": func(c *call) (Expr, error) {
			if err := c.arity(1, 4); err != nil {
				return nil, err
			}
			x, ok := c.get(1, "x")
			var sym *Sym
			var err error
			if ok {
				if sym, ok = x.(*Sym); !ok {
					return nil, c.fail("series variable must be a symbol, got %s", x)
				}
			} else if sym, err = c.soleSymbol(c.args[0]); err != nil {
				return nil, err
			}
			x0, ok := c.get(2, "x0")
			if !ok {
				x0 = N(0)
			}
			n, err := c.int(3, "n", 6)
			if err != nil {
				return nil, err
			}
			return Series(c.args[0], sym.name, x0, n), nil
		},
		"simplify": unary(Simplify),
		"expand":   unary(Expand),
		"solve":    func(c *call) (Expr, error) { return c.solve() },
		"Matrix":   func(c *call) (Expr, error) { return c.matrix() },
		"eye": func(c *call) (Expr, error) {
			if err := c.arity(1, 1); err != nil {
				return nil, err
			}
			n, err := c.int(0, "", 0)
			if err != nil {
				return nil, err
			}
			return Identity(n), nil
		},
		"zeros": func(c *call) (Expr, error) {
			r, k, err := c.shape()
			if err != nil {
				return nil, err
			}
			return NewMatrix(r, k), nil
		},
		"ones": func(c *call) (Expr, error) {
			r, k, err := c.shape()
			if err != nil {
				return nil, err
			}
			return Ones(r, k), nil
		},
		"diag": func(c *call) (Expr, error) { return Diag(c.args...), nil },
		"N": func(c *call) (Expr, error) {
			if err := c.arity(1, 2); err != nil {
				return nil, err
			}
			n, err := c.int(1, "n", DefaultPrecision)
			if err != nil {
				return nil, err
			}
			return Evalf(c.args[0], n), nil
		},
		"Piecewise": func(c *call) (Expr, error) {
			pcs := make([]ExprCond, len(c.args))
			for i, a := range c.args {
				t, ok := a.(*Tuple)
				if !ok || len(t.items) != 2 {
					return nil, c.fail("argument %d must be an (expr, cond) pair", i+1)
				}
				pcs[i] = ExprCond{Expr: t.items[0], Cond: t.items[1]}
			}
			return PiecewiseOf(pcs...), nil
		},
		"Lambda": func(c *call) (Expr, error) {
			if err := c.arity(2, 2); err != nil {
				return nil, err
			}
			var vars []*Sym
			vs, ok := items(c.args[0])
			if !ok {
				vs = []Expr{c.args[0]}
			}
			for _, v := range vs {
				s, ok := v.(*Sym)
				if !ok {
					return nil, c.fail("lambda variable must be a symbol, got %s", v)
				}
				vars = append(vars, s)
			}
			return LambdaOf(c.args[1], vars...), nil
		},
		"Order": func(c *call) (Expr, error) {
			if err := c.arity(1, 1); err != nil {
				return nil, err
			}
			return OrderOf(c.args[0]), nil
		},
		"Symbol": func(c *call) (Expr, error) {
			if err := c.arity(1, 1); err != nil {
				return nil, err
			}
			s, ok := c.args[0].(*Str)
			if !ok {
				return nil, c.fail("name must be a string")
			}
			return S(s.s), nil
		},
		"Integer": func(c *call) (Expr, error) {
			if err := c.arity(1, 1); err != nil {
				return nil, err
			}
			return toInt(c, c.args[0])
		},
		"Rational": func(c *call) (Expr, error) {
			if err := c.arity(1, 2); err != nil {
				return nil, err
			}
			q := Expr(N(1))
			if len(c.args) == 2 {
				q = c.args[1]
			}
			if !isNumber(c.args[0]) || !isNumber(q) {
				return nil, c.fail("arguments must be numbers")
			}
			return MulOf(c.args[0], PowOf(q, N(-1))), nil
		},
		"Float": func(c *call) (Expr, error) {
			if err := c.arity(1, 2); err != nil {
				return nil, err
			}
			prec, err := c.int(1, "dps", DefaultPrecision)
			if err != nil {
				return nil, err
			}
			if s, ok := c.args[0].(*Str); ok {
				return NewFloat(s.s, prec)
			}
			if !isNumber(c.args[0]) {
				return nil, c.fail("argument must be a number, got %s", c.args[0])
			}
			return Evalf(c.args[0], prec), nil
		},
		"transpose": matrixMethod(func(m *Matrix) (Expr, error) { return m.Transpose(), nil }),
		"det":       matrixMethod(func(m *Matrix) (Expr, error) { return m.Det() }),
		"trace":     matrixMethod(func(m *Matrix) (Expr, error) { return m.Trace() }),
	}
	for name, f := range fixed {
		namespace[name] = wrap(name, f)
	}
	for name, op := range map[string]string{"Eq": "=", "Ne": "!=", "Lt": "<", "Le": "<=", "Gt": ">", "Ge": ">="} {
		op := op
		namespace[name] = wrap(name, func(c *call) (Expr, error) {
			if err := c.arity(2, 2); err != nil {
				return nil, err
			}
			return RelOf(op, c.args[0], c.args[1]), nil
		})
	}
	namespace["O"] = namespace["Order"]
	namespace["evalf"] = namespace["N"]
}

func wrap(name string, f func(c *call) (Expr, error)) Callable {
	return func(args []Expr, kw map[string]Expr) (Expr, error) {
		return f(&call{name: name, args: args, kw: kw})
	}
}

func applyFunc(name string) Callable {
	return wrap(name, func(c *call) (Expr, error) {
		if len(c.args) == 0 {
			return nil, c.fail("takes at least one argument")
		}
		return Apply(name, c.args...), nil
	})
}

func unary(f func(Expr) Expr) func(c *call) (Expr, error) {
	return func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		return f(c.args[0]), nil
	}
}

func matrixMethod(f func(*Matrix) (Expr, error)) func(c *call) (Expr, error) {
	return func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		m, ok := c.args[0].(*Matrix)
		if !ok {
			return nil, c.fail("argument must be a matrix, got %s", c.args[0])
		}
		return f(m)
	}
}

// diffVars reads the variable list of diff and Derivative: symbols, each
// optionally followed by an order.
func (c *call) diffVars() ([]*Sym, error) {
	if err := c.arity(1, -1); err != nil {
		return nil, err
	}
	if len(c.args) == 1 {
		s, err := c.soleSymbol(c.args[0])
		if err != nil {
			return nil, err
		}
		return []*Sym{s}, nil
	}
	var vars []*Sym
	for i, a := range c.args[1:] {
		switch v := a.(type) {
		case *Sym:
			vars = append(vars, v)
		case *Num:
			n, ok := asInt(v)
			if !ok || n < 0 || len(vars) == 0 {
				return nil, c.fail("argument %d is not a derivative order", i+2)
			}
			last := vars[len(vars)-1]
			vars = vars[:len(vars)-1]
			for ; n > 0; n-- {
				vars = append(vars, last)
			}
		case *Tuple:
			if len(v.items) != 2 {
				return nil, c.fail("argument %d must be a (symbol, order) pair", i+2)
			}
			s, ok := v.items[0].(*Sym)
			n, nok := asInt(v.items[1])
			if !ok || !nok || n < 0 {
				return nil, c.fail("argument %d must be a (symbol, order) pair", i+2)
			}
			for ; n > 0; n-- {
				vars = append(vars, s)
			}
		default:
			return nil, c.fail("argument %d must be a symbol, got %s", i+2, a)
		}
	}
	return vars, nil
}

func (c *call) integral() (*Integral, error) {
	if err := c.arity(1, 2); err != nil {
		return nil, err
	}
	if len(c.args) == 1 {
		s, err := c.soleSymbol(c.args[0])
		if err != nil {
			return nil, err
		}
		return IntegralOf(c.args[0], s), nil
	}
	switch v := c.args[1].(type) {
	case *Sym:
		return IntegralOf(c.args[0], v), nil
	case *Tuple:
		if s, ok := v.items[0].(*Sym); ok && len(v.items) == 3 {
			return DefiniteIntegralOf(c.args[0], s, v.items[1], v.items[2]), nil
		}
	}
	return nil, c.fail("bad integration variable %s", c.args[1])
}

func (c *call) limit() (*Limit, error) {
	if err := c.arity(3, 4); err != nil {
		return nil, err
	}
	s, err := c.sym(1, "")
	if err != nil {
		return nil, err
	}
	dir := c.str("dir", "+")
	if len(c.args) == 4 {
		d, ok := c.args[3].(*Str)
		if !ok {
			return nil, c.fail("direction must be a string")
		}
		dir = d.s
	}
	switch dir {
	case "+", "-", "+-":
	default:
		return nil, c.fail("direction must be one of +, - or +-, got %q", dir)
	}
	return LimitOf(c.args[0], s, c.args[2], dir), nil
}

func (c *call) sum() (*Sum, error) {
	if err := c.arity(2, 2); err != nil {
		return nil, err
	}
	t, ok := c.args[1].(*Tuple)
	if !ok || len(t.items) != 3 {
		return nil, c.fail("limits must be a (symbol, from, to) triple")
	}
	s, ok := t.items[0].(*Sym)
	if !ok {
		return nil, c.fail("summation variable must be a symbol, got %s", t.items[0])
	}
	return SumOf(c.args[0], s, t.items[1], t.items[2]), nil
}

func (c *call) shape() (int, int, error) {
	if err := c.arity(1, 2); err != nil {
		return 0, 0, err
	}
	r, err := c.int(0, "", 0)
	if err != nil {
		return 0, 0, err
	}
	k, err := c.int(1, "", r)
	if err != nil {
		return 0, 0, err
	}
	if r < 0 || k < 0 {
		return 0, 0, c.fail("negative dimension")
	}
	return r, k, nil
}

func (c *call) matrix() (Expr, error) {
	switch len(c.args) {
	case 0:
		return NewMatrix(0, 0), nil
	case 1:
	case 3:
		r, err := c.int(0, "", 0)
		if err != nil {
			return nil, err
		}
		k, err := c.int(1, "", 0)
		if err != nil {
			return nil, err
		}
		es, ok := items(c.args[2])
		if !ok || len(es) != r*k {
			return nil, c.fail("need %d entries", r*k)
		}
		return MatrixFromSlice(r, k, es), nil
	default:
		return nil, c.fail("takes 0, 1 or 3 arguments, got %d", len(c.args))
	}
	if m, ok := c.args[0].(*Matrix); ok {
		return m, nil
	}
	rows, ok := items(c.args[0])
	if !ok {
		return nil, c.fail("argument must be a list, got %s", c.args[0])
	}
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	if _, nested := items(rows[0]); !nested {
		return ColumnVector(rows...), nil
	}
	data := make([][]Expr, len(rows))
	for i, r := range rows {
		es, ok := items(r)
		if !ok {
			return nil, c.fail("row %d is not a list", i)
		}
		data[i] = es
	}
	m, err := MatrixFromRows(data)
	if err != nil {
		return nil, errors.Wrap(err, c.name)
	}
	return m, nil
}

// solve finds the roots of a polynomial of degree at most two.
func (c *call) solve() (Expr, error) {
	if err := c.arity(1, 2); err != nil {
		return nil, err
	}
	expr := c.args[0]
	if r, ok := expr.(*Rel); ok && r.op == "=" {
		expr = AddOf(r.lhs, MulOf(N(-1), r.rhs))
	}
	var x *Sym
	var err error
	if len(c.args) == 2 {
		x, err = c.sym(1, "")
	} else {
		x, err = c.soleSymbol(expr)
	}
	if err != nil {
		return nil, err
	}
	expr = Expand(expr)
	coeffs := PolyCoeffs(expr, x.name)
	get := func(d int) Expr {
		if e, ok := coeffs[d]; ok {
			return e
		}
		return N(0)
	}
	switch Degree(expr, x.name) {
	case 0:
		return ListOf(), nil
	case 1:
		return ListOf(MulOf(N(-1), get(0), PowOf(get(1), N(-1)))), nil
	case 2:
		a, b, k := get(2), get(1), get(0)
		disc := Expand(AddOf(PowOf(b, N(2)), MulOf(N(-4), a, k)))
		den := PowOf(MulOf(N(2), a), N(-1))
		x1 := MulOf(AddOf(MulOf(N(-1), b), MulOf(N(-1), SqrtOf(disc))), den)
		x2 := MulOf(AddOf(MulOf(N(-1), b), SqrtOf(disc)), den)
		if disc.Equal(N(0)) {
			return ListOf(Expand(x1)), nil
		}
		return ListOf(Expand(x1), Expand(x2)), nil
	}
	return nil, c.fail("polynomials of degree %d are not supported", Degree(expr, x.name))
}

func toInt(c *call, e Expr) (Expr, error) {
	switch v := e.(type) {
	case *Num:
		return NBig(new(big.Int).Quo(v.val.Num(), v.val.Denom())), nil
	case *Float:
		if n, ok := truncDecimal(v.val); ok {
			return n, nil
		}
	case *Str:
		n, err := ParseInteger(strings.TrimSpace(v.s))
		if err != nil {
			return nil, c.fail("invalid literal %q", v.s)
		}
		return n, nil
	}
	return nil, c.fail("cannot convert %s to an integer", e)
}

// truncDecimal drops the fraction of d.
func truncDecimal(d *apd.Decimal) (*Num, bool) {
	if d.Form != apd.Finite {
		return nil, false
	}
	text := strings.SplitN(d.Text('f'), ".", 2)[0]
	i, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, false
	}
	return NBig(i), true
}

// Lookup resolves name in the engine namespace.
func Lookup(name string) (Callable, bool) {
	f, ok := namespace[name]
	return f, ok
}

// Names lists the namespace, sorted.
func Names() []string {
	out := make([]string, 0, len(namespace))
	for n := range namespace {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Constant resolves the engine spelling of a named constant.
func Constant(name string) (Expr, bool) {
	c, ok := constants[name]
	return c, ok
}

var constants = map[string]Expr{
	"pi":        Pi,
	"E":         Exp1,
	"I":         ImaginaryUnit,
	"oo":        Infinity,
	"zoo":       ComplexInfinity,
	"nan":       NaN,
	"True":      True,
	"False":     False,
	"None":      None,
	"Naturals":  Naturals,
	"Naturals0": Naturals0,
	"Integers":  Integers,
	"Reals":     Reals,
	"Complexes": Complexes,
}

// ============================================================
// Builtins: general purpose functions on the allow-list
// ============================================================

var builtins = map[string]func(c *call) (Expr, error){
	"abs": func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		return Apply("Abs", c.args[0]), nil
	},
	"max": func(c *call) (Expr, error) { return c.lattice("Max") },
	"min": func(c *call) (Expr, error) { return c.lattice("Min") },
	"pow": func(c *call) (Expr, error) {
		if err := c.arity(2, 2); err != nil {
			return nil, err
		}
		return PowOf(c.args[0], c.args[1]), nil
	},
	"len": func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		if s, ok := c.args[0].(*Str); ok {
			return N(int64(len([]rune(s.s)))), nil
		}
		es, ok := items(c.args[0])
		if !ok {
			return nil, c.fail("object of type %s has no len()", ClassName(c.args[0]))
		}
		return N(int64(len(es))), nil
	},
	"str": func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		return StrOf(c.args[0].String()), nil
	},
	"sum": func(c *call) (Expr, error) {
		if err := c.arity(1, 2); err != nil {
			return nil, err
		}
		es, ok := items(c.args[0])
		if !ok {
			return nil, c.fail("argument is not iterable")
		}
		start, ok := c.get(1, "start")
		if !ok {
			start = N(0)
		}
		return AddOf(append([]Expr{start}, es...)...), nil
	},
	"int": func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		return toInt(c, c.args[0])
	},
	"float": func(c *call) (Expr, error) {
		if err := c.arity(1, 1); err != nil {
			return nil, err
		}
		if s, ok := c.args[0].(*Str); ok {
			return NewFloat(s.s, DefaultPrecision)
		}
		if !isNumber(Evalf(c.args[0], DefaultPrecision)) {
			return nil, c.fail("cannot convert %s to float", c.args[0])
		}
		return Evalf(c.args[0], DefaultPrecision), nil
	},
	"list": func(c *call) (Expr, error) {
		es, err := c.sequence()
		if err != nil {
			return nil, err
		}
		return ListOf(es...), nil
	},
	"tuple": func(c *call) (Expr, error) {
		es, err := c.sequence()
		if err != nil {
			return nil, err
		}
		return TupleOf(es...), nil
	},
	"sorted": func(c *call) (Expr, error) {
		es, err := c.sequence()
		if err != nil {
			return nil, err
		}
		out := append([]Expr(nil), es...)
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		return ListOf(out...), nil
	},
	"reversed": func(c *call) (Expr, error) {
		es, err := c.sequence()
		if err != nil {
			return nil, err
		}
		out := make([]Expr, len(es))
		for i, e := range es {
			out[len(es)-1-i] = e
		}
		return ListOf(out...), nil
	},
	"round": func(c *call) (Expr, error) {
		if err := c.arity(1, 2); err != nil {
			return nil, err
		}
		digits, err := c.int(1, "ndigits", 0)
		if err != nil {
			return nil, err
		}
		return roundHalfEven(c, c.args[0], digits, len(c.args) == 1)
	},
}

// Builtin resolves name in the builtin allow-list.
func Builtin(name string) (Callable, bool) {
	f, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return wrap(name, f), true
}

// BuiltinNames lists the builtin allow-list, sorted.
func BuiltinNames() []string {
	out := make([]string, 0, len(builtins))
	for n := range builtins {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (c *call) lattice(name string) (Expr, error) {
	if err := c.arity(1, -1); err != nil {
		return nil, err
	}
	args := c.args
	if len(args) == 1 {
		es, ok := items(args[0])
		if !ok {
			return nil, c.fail("argument is not iterable")
		}
		args = es
	}
	return Apply(name, args...), nil
}

func (c *call) sequence() ([]Expr, error) {
	if err := c.arity(0, 1); err != nil {
		return nil, err
	}
	if len(c.args) == 0 {
		return nil, nil
	}
	es, ok := items(c.args[0])
	if !ok {
		if s, isStr := c.args[0].(*Str); isStr {
			for _, r := range s.s {
				es = append(es, StrOf(string(r)))
			}
			return es, nil
		}
		return nil, c.fail("argument is not iterable")
	}
	return es, nil
}

// less orders numbers by value and everything else by printed form.
func less(a, b Expr) bool {
	if isNumber(a) && isNumber(b) {
		return isNegativeNumber(addNumbers(a, mulNumbers(b, N(-1))))
	}
	return a.String() < b.String()
}

func roundHalfEven(c *call, e Expr, digits int, toInt bool) (Expr, error) {
	d, ok := decimalOf(e, DefaultPrecision)
	if !ok || d.Form != apd.Finite {
		return nil, c.fail("cannot round %s", e)
	}
	if n, isNum := e.(*Num); isNum && n.IsInteger() && digits >= 0 {
		return n, nil
	}
	prec := len(d.Coeff.String()) + abs(int(d.Exponent)) + abs(digits) + 1
	ctx := decimalContext(uint32(prec))
	ctx.Rounding = apd.RoundHalfEven
	r := new(apd.Decimal)
	if _, err := ctx.Quantize(r, d, int32(-digits)); err != nil {
		return nil, errors.Wrap(err, c.name)
	}
	if toInt {
		n, ok := truncDecimal(r)
		if !ok {
			return nil, c.fail("cannot round %s", e)
		}
		return n, nil
	}
	return NewFloat(r.Text('f'), DefaultPrecision)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ============================================================
// Member access and indexing
// ============================================================

// Attr reads a data member of obj.
func Attr(obj Expr, name string) (Expr, error) {
	switch name {
	case "args":
		return TupleOf(obj.Args()...), nil
	case "func":
		return StrOf(ClassName(obj)), nil
	case "free_symbols":
		names := FreeSymbols(obj)
		out := make([]Expr, len(names))
		for i, n := range names {
			out[i] = S(n)
		}
		return ListOf(out...), nil
	}
	if m, ok := obj.(*Matrix); ok {
		switch name {
		case "T":
			return m.Transpose(), nil
		case "rows":
			return N(int64(m.rows)), nil
		case "cols":
			return N(int64(m.cols)), nil
		case "shape":
			return TupleOf(N(int64(m.rows)), N(int64(m.cols))), nil
		}
	}
	return nil, errors.Wrapf(ErrBadCall, "%s object has no attribute %q", ClassName(obj), name)
}

// CallMethod calls the method name of obj.
func CallMethod(obj Expr, name string, args []Expr, kw map[string]Expr) (Expr, error) {
	c := &call{name: name, args: args, kw: kw}
	switch name {
	case "doit":
		return obj.Doit(), nil
	case "subs":
		return c.subs(obj)
	case "evalf", "n":
		n, err := c.int(0, "n", DefaultPrecision)
		if err != nil {
			return nil, err
		}
		return Evalf(obj, n), nil
	case "inv":
		m, ok := obj.(*Matrix)
		if !ok {
			break
		}
		return m.Inverse()
	case "diff", "integrate", "limit", "series", "simplify", "expand", "det", "transpose", "trace":
		f := namespace[name]
		return f(append([]Expr{obj}, args...), kw)
	}
	return nil, errors.Wrapf(ErrBadCall, "%s object has no method %q", ClassName(obj), name)
}

// subs takes (old, new) or a sequence of (old, new) pairs.
func (c *call) subs(obj Expr) (Expr, error) {
	var pairs [][2]Expr
	switch len(c.args) {
	case 2:
		pairs = [][2]Expr{{c.args[0], c.args[1]}}
	case 1:
		es, ok := items(c.args[0])
		if !ok {
			return nil, c.fail("argument must be a sequence of pairs")
		}
		for _, e := range es {
			p, ok := items(e)
			if !ok || len(p) != 2 {
				return nil, c.fail("argument must be a sequence of pairs")
			}
			pairs = append(pairs, [2]Expr{p[0], p[1]})
		}
	default:
		return nil, c.fail("takes 1 or 2 arguments, got %d", len(c.args))
	}
	r := obj
	for _, p := range pairs {
		s, ok := p[0].(*Sym)
		if !ok {
			return nil, c.fail("can only substitute symbols, got %s", p[0])
		}
		r = Subs(r, s.name, p[1])
	}
	return Canonicalize(r), nil
}

// Index subscripts a list, tuple, string or matrix. Negative indices count
// from the end.
func Index(obj Expr, idx ...Expr) (Expr, error) {
	at := func(n int, i Expr) (int, error) {
		k, ok := asInt(i)
		if !ok {
			return 0, errors.Wrapf(ErrBadCall, "index must be an integer, got %s", i)
		}
		if k < 0 {
			k += n
		}
		if k < 0 || k >= n {
			return 0, errors.Wrapf(ErrBadCall, "index %s out of range", strconv.Itoa(k))
		}
		return k, nil
	}
	if m, ok := obj.(*Matrix); ok && len(idx) == 2 {
		r, err := at(m.rows, idx[0])
		if err != nil {
			return nil, err
		}
		k, err := at(m.cols, idx[1])
		if err != nil {
			return nil, err
		}
		return m.data[r][k], nil
	}
	if len(idx) != 1 {
		return nil, errors.Wrapf(ErrBadCall, "%s takes a single index", ClassName(obj))
	}
	if s, ok := obj.(*Str); ok {
		rs := []rune(s.s)
		k, err := at(len(rs), idx[0])
		if err != nil {
			return nil, err
		}
		return StrOf(string(rs[k])), nil
	}
	es, ok := items(obj)
	if !ok {
		return nil, errors.Wrapf(ErrBadCall, "%s object is not subscriptable", ClassName(obj))
	}
	k, err := at(len(es), idx[0])
	if err != nil {
		return nil, err
	}
	return es[k], nil
}
