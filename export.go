package sympad

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

// Export converts n to an engine object at the process-wide precision.
func Export(n *ast.Node) (engine.Expr, error) {
	return (&Exporter{Precision: Precision()}).Export(n)
}

// Exporter converts trees to engine objects. Precision is the number of
// significant digits of float literals.
type Exporter struct {
	Precision int
}

// Export converts n. Division becomes multiplication by a reciprocal power
// and roots become powers with a reciprocal exponent.
func (obj *Exporter) Export(n *ast.Node) (engine.Expr, error) {
	if n == nil {
		return nil, malformed("export: missing operand")
	}

	switch n.Op() {
	case ast.OpEq:
		if !ast.Rels[n.Rel()] {
			return nil, malformed("export: unknown relation %q", n.Rel())
		}
		l, r, err := obj.pair(n.Lhs(), n.Rhs())
		if err != nil {
			return nil, err
		}
		return engine.RelOf(n.Rel(), l, r), nil

	case ast.OpNum:
		if ast.IsIntText(n.Num()) {
			i, err := engine.ParseInteger(n.Num())
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedNode, "export: %v", err)
			}
			return i, nil
		}
		f, err := engine.NewFloat(n.Num(), obj.Precision)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedNode, "export: %v", err)
		}
		return f, nil

	case ast.OpVar:
		return obj.variable(n)

	case ast.OpAttr:
		o, err := obj.Export(n.Obj())
		if err != nil {
			return nil, err
		}
		if !n.HasArgs() {
			return engine.Attr(o, n.Attr())
		}
		args, kw, err := obj.callArgs(n.Args())
		if err != nil {
			return nil, err
		}
		return engine.CallMethod(o, n.Attr(), args, kw)

	case ast.OpStr:
		return engine.StrOf(n.Str()), nil

	case ast.OpComma:
		es, err := obj.all(n.Commas())
		if err != nil {
			return nil, err
		}
		return engine.TupleOf(es...), nil

	case ast.OpCurly:
		return obj.Export(n.Curly())

	case ast.OpParen:
		return obj.Export(n.Paren())

	case ast.OpBrack:
		es, err := obj.all(n.Bracks())
		if err != nil {
			return nil, err
		}
		return engine.ListOf(es...), nil

	case ast.OpAbs:
		return obj.apply("Abs", n.Abs())

	case ast.OpMinus:
		e, err := obj.Export(n.Minus())
		if err != nil {
			return nil, err
		}
		return engine.MulOf(engine.N(-1), e), nil

	case ast.OpFact:
		return obj.apply("factorial", n.Fact())

	case ast.OpAdd:
		es, err := obj.all(n.Adds())
		if err != nil {
			return nil, err
		}
		return engine.AddOf(es...), nil

	case ast.OpMul:
		es, err := obj.all(n.Muls())
		if err != nil {
			return nil, err
		}
		return engine.MulOf(es...), nil

	case ast.OpDiv:
		num, den, err := obj.pair(n.Numer(), n.Denom())
		if err != nil {
			return nil, err
		}
		return engine.MulOf(num, engine.PowOf(den, engine.N(-1))), nil

	case ast.OpPow:
		b, e, err := obj.pair(n.Base(), n.Exp())
		if err != nil {
			return nil, err
		}
		return engine.PowOf(b, e), nil

	case ast.OpLog:
		if n.Base() == nil {
			return obj.apply("log", n.Log())
		}
		return obj.apply("log", n.Log(), n.Base())

	case ast.OpSqrt:
		idx := ast.Num("2")
		if n.Index() != nil {
			idx = n.Index()
		}
		r, i, err := obj.pair(n.Rad(), idx)
		if err != nil {
			return nil, err
		}
		return engine.PowOf(r, engine.PowOf(i, engine.N(-1))), nil

	case ast.OpFunc:
		return obj.function(n)

	case ast.OpLim:
		return obj.lim(n)

	case ast.OpSum:
		e, err := obj.Export(n.Sum())
		if err != nil {
			return nil, err
		}
		s, err := obj.symbol(n.SVar())
		if err != nil {
			return nil, err
		}
		from, to, err := obj.pair(n.From(), n.To())
		if err != nil {
			return nil, err
		}
		return engine.SumOf(e, s, from, to), nil

	case ast.OpDiff:
		return obj.diff(n)

	case ast.OpIntg:
		return obj.intg(n)

	case ast.OpVec:
		es, err := obj.all(n.Vec())
		if err != nil {
			return nil, err
		}
		if len(es) == 0 {
			return engine.NewMatrix(0, 0), nil
		}
		return engine.ColumnVector(es...), nil

	case ast.OpMat:
		rows := make([][]engine.Expr, 0, len(n.Mat()))
		for _, r := range n.Mat() {
			es, err := obj.all(r)
			if err != nil {
				return nil, err
			}
			rows = append(rows, es)
		}
		if len(rows) == 0 {
			return engine.NewMatrix(0, 0), nil
		}
		m, err := engine.MatrixFromRows(rows)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedNode, "export: %v", err)
		}
		return m, nil

	case ast.OpPiece:
		pcs := make([]engine.ExprCond, 0, len(n.Pieces()))
		for _, p := range n.Pieces() {
			v, err := obj.Export(p.Value)
			if err != nil {
				return nil, err
			}
			var c engine.Expr = engine.True
			if p.Cond != nil {
				if c, err = obj.Export(p.Cond); err != nil {
					return nil, err
				}
			}
			pcs = append(pcs, engine.ExprCond{Expr: v, Cond: c})
		}
		return engine.PiecewiseOf(pcs...), nil

	case ast.OpLamb:
		body, err := obj.Export(n.Lamb())
		if err != nil {
			return nil, err
		}
		vars := make([]*engine.Sym, 0, len(n.Vars()))
		for _, v := range n.Vars() {
			s, err := obj.symbol(v)
			if err != nil {
				return nil, err
			}
			vars = append(vars, s)
		}
		return engine.LambdaOf(body, vars...), nil

	case ast.OpIdx:
		o, err := obj.Export(n.Obj())
		if err != nil {
			return nil, err
		}
		idx, err := obj.all(n.Indices())
		if err != nil {
			return nil, err
		}
		return engine.Index(o, idx...)
	}

	return nil, malformed("export: no engine form for tag %q", n.Op())
}

func (obj *Exporter) all(ns []*ast.Node) ([]engine.Expr, error) {
	out := make([]engine.Expr, len(ns))
	for i, n := range ns {
		e, err := obj.Export(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (obj *Exporter) pair(a, b *ast.Node) (engine.Expr, engine.Expr, error) {
	x, err := obj.Export(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := obj.Export(b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (obj *Exporter) apply(name string, args ...*ast.Node) (engine.Expr, error) {
	es, err := obj.all(args)
	if err != nil {
		return nil, err
	}
	return engine.Apply(name, es...), nil
}

func (obj *Exporter) variable(n *ast.Node) (engine.Expr, error) {
	name := n.Var()
	switch {
	case name == "":
		return nil, malformed("export: empty variable")
	case name == ast.E().Var():
		return engine.Exp1, nil
	case name == ast.I().Var():
		return engine.ImaginaryUnit, nil
	case len(name) > 1:
		if c, ok := engine.Constant(name); ok {
			return c, nil
		}
	}
	return engine.S(name), nil
}

// symbol exports a variable, stripping any differential prefix, and
// requires the result to be a plain engine symbol.
func (obj *Exporter) symbol(n *ast.Node) (*engine.Sym, error) {
	if !n.Is(ast.OpVar) || n.IsNullVar() {
		return nil, malformed("export: %s is not a variable", n)
	}
	e, err := obj.variable(n.AsVar())
	if err != nil {
		return nil, err
	}
	s, ok := e.(*engine.Sym)
	if !ok {
		return nil, malformed("export: %s is not a free symbol", n)
	}
	return s, nil
}

// callArgs splits call arguments into positional ones and keyword ones.
// An assignment whose left side spells an identifier is a keyword.
func (obj *Exporter) callArgs(ns []*ast.Node) ([]engine.Expr, map[string]engine.Expr, error) {
	var args []engine.Expr
	var kw map[string]engine.Expr
	for _, n := range ns {
		if name, ok := keywordArg(n); ok {
			v, err := obj.Export(n.Rhs())
			if err != nil {
				return nil, nil, err
			}
			if kw == nil {
				kw = map[string]engine.Expr{}
			}
			kw[name] = v
			continue
		}
		e, err := obj.Export(n)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, e)
	}
	return args, kw, nil
}

func (obj *Exporter) function(n *ast.Node) (engine.Expr, error) {
	name := n.Unescaped()
	switch name {
	case ast.FuncNoRemap, ast.FuncNoEval:
		if len(n.Args()) != 1 {
			return nil, malformed("export: %s takes exactly one argument", name)
		}
		e, err := obj.Export(n.Args()[0])
		if err != nil {
			return nil, err
		}
		if name == ast.FuncNoEval {
			return engine.Freeze(e), nil
		}
		return e, nil
	}

	f, ok := engine.Lookup(name)
	if !ok {
		f, ok = engine.Builtin(name)
	}
	if !ok {
		if !IsUserFunc(name) {
			return nil, errors.Wrapf(ErrUndefinedFunction, "function %q is not defined", name)
		}
		return obj.apply(name, n.Args()...)
	}

	args, kw, err := obj.callArgs(n.Args())
	if err != nil {
		return nil, err
	}
	return f(args, kw)
}

func (obj *Exporter) lim(n *ast.Node) (engine.Expr, error) {
	e, err := obj.Export(n.Lim())
	if err != nil {
		return nil, err
	}
	s, err := obj.symbol(n.LVar())
	if err != nil {
		return nil, err
	}
	to, err := obj.Export(n.To())
	if err != nil {
		return nil, err
	}
	if n.Dir() != "" {
		return engine.LimitOf(e, s, to, n.Dir()), nil
	}
	limit, _ := engine.Lookup("limit")
	return limit([]engine.Expr{e, s, to}, map[string]engine.Expr{"dir": engine.StrOf("+-")})
}

func (obj *Exporter) diff(n *ast.Node) (engine.Expr, error) {
	e, err := obj.Export(n.Diff())
	if err != nil {
		return nil, err
	}
	args := []engine.Expr{e}
	for _, dv := range n.DVs() {
		var order engine.Expr
		if dv.Is(ast.OpPow) {
			p, err := engine.ParseInteger(dv.Exp().RemoveCurlys().Num())
			if err != nil {
				return nil, malformed("export: bad differentiation order %s", dv.Exp())
			}
			dv, order = dv.Base(), p
		}
		s, err := obj.symbol(dv)
		if err != nil {
			return nil, err
		}
		args = append(args, s)
		if order != nil {
			args = append(args, order)
		}
	}
	derivative, _ := engine.Lookup("Derivative")
	return derivative(args, nil)
}

func (obj *Exporter) intg(n *ast.Node) (engine.Expr, error) {
	var e engine.Expr = engine.N(1)
	if n.Intg() != nil {
		var err error
		if e, err = obj.Export(n.Intg()); err != nil {
			return nil, err
		}
	}
	s, err := obj.symbol(n.DV())
	if err != nil {
		return nil, err
	}
	if n.From() == nil {
		return engine.IntegralOf(e, s), nil
	}
	from, to, err := obj.pair(n.From(), n.To())
	if err != nil {
		return nil, err
	}
	return engine.DefiniteIntegralOf(e, s, from, to), nil
}
