package sympad

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

// importFunc converts one engine object whose class matched a registered
// name.
type importFunc func(e engine.Expr) (*ast.Node, error)

// importers is keyed by engine class name. Import walks the classes of an
// object most specific first and uses the first match.
var importers = map[string]importFunc{}

// registerImporter adds f for the class name. Registering a class twice is
// a programming error.
func registerImporter(class string, f importFunc) {
	if _, exists := importers[class]; exists {
		panic("an importer for " + class + " is already registered")
	}
	importers[class] = f
}

// Import converts an engine object to a tree. Objects of unregistered
// classes become opaque text nodes carrying the engine's own renderings.
// The only error is a number that can't be decomposed into a literal.
func Import(e engine.Expr) (*ast.Node, error) {
	if e == nil {
		return ast.None, nil
	}
	// an undefined function reports its own name as its class
	if f, ok := e.(*engine.Fn); ok && f.IsUndefined() {
		return importers["AppliedUndef"](e)
	}
	for _, cls := range e.Classes() {
		if f, ok := importers[cls]; ok {
			return f(e)
		}
		if cls == "Function" {
			if args := e.Args(); len(args) == 1 {
				return function1(engine.ClassName(e), args[0])
			}
			break
		}
	}
	return opaque(e), nil
}

// opaque keeps what the engine could display of an object without a tree
// form.
func opaque(e engine.Expr) *ast.Node {
	tex := e.LaTeX()
	if strings.HasPrefix(tex, "<") && strings.HasSuffix(tex, ">") {
		tex = `\text{` + strings.NewReplacer("<", "&lt;", ">", "&gt;", "\n", "").Replace(tex) + "}"
	}
	return ast.Text(tex, e.String(), e.String())
}

func importAll(es []engine.Expr) ([]*ast.Node, error) {
	out := make([]*ast.Node, len(es))
	for i, e := range es {
		n, err := Import(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func function1(name string, arg engine.Expr) (*ast.Node, error) {
	a, err := Import(arg)
	if err != nil {
		return nil, err
	}
	return ast.Func(name, a), nil
}

func constant(n *ast.Node) importFunc {
	return func(engine.Expr) (*ast.Node, error) { return n, nil }
}

// isNegative reports whether e is a number below zero.
func isNegative(e engine.Expr) bool {
	switch x := e.(type) {
	case *engine.Num:
		return x.IsNegative()
	case *engine.Float:
		return x.IsNegative()
	}
	return false
}

func isHalf(e engine.Expr) bool {
	switch x := e.(type) {
	case *engine.Num:
		return x.Rat().Cmp(big.NewRat(1, 2)) == 0
	case *engine.Float:
		return x.Float64() == 0.5
	}
	return false
}

// group folds a factor list into a single node.
func group(ns []*ast.Node) *ast.Node {
	if len(ns) == 1 {
		return ns[0]
	}
	return ast.Mul(ns...)
}

func init() {
	registerImporter("Frozen", func(e engine.Expr) (*ast.Node, error) {
		return function1(ast.FuncNoEval, e.(*engine.Frozen).Expr())
	})

	registerImporter("NoneType", constant(ast.None))
	registerImporter("BooleanTrue", constant(ast.True))
	registerImporter("BooleanFalse", constant(ast.False))
	registerImporter("Str", func(e engine.Expr) (*ast.Node, error) {
		return ast.Str(e.(*engine.Str).Value()), nil
	})
	registerImporter("Tuple", func(e engine.Expr) (*ast.Node, error) {
		items, err := importAll(e.Args())
		if err != nil {
			return nil, err
		}
		return ast.Paren(ast.Comma(items...)), nil
	})
	registerImporter("list", func(e engine.Expr) (*ast.Node, error) {
		items, err := importAll(e.Args())
		if err != nil {
			return nil, err
		}
		return ast.Brack(items...), nil
	})

	literal := func(e engine.Expr) (*ast.Node, error) { return numLiteral(e.String()) }
	registerImporter("Integer", literal)
	registerImporter("Float", literal)
	registerImporter("Rational", func(e engine.Expr) (*ast.Node, error) {
		x := e.(*engine.Num)
		p, q := x.Numer(), x.Denom()
		if p.Sign() >= 0 {
			return ast.Div(ast.Num(p.String()), ast.Num(q.String())), nil
		}
		return ast.Minus(ast.Div(ast.Num(new(big.Int).Neg(p).String()), ast.Num(q.String()))), nil
	})

	registerImporter("MatrixBase", importMatrix)

	registerImporter("ImaginaryUnit", func(engine.Expr) (*ast.Node, error) { return ast.I(), nil })
	registerImporter("Exp1", func(engine.Expr) (*ast.Node, error) { return ast.E(), nil })
	registerImporter("Pi", constant(ast.Pi))
	registerImporter("Infinity", constant(ast.Infty))
	registerImporter("NegativeInfinity", constant(ast.Minus(ast.Infty)))
	registerImporter("ComplexInfinity", constant(ast.Infty))
	registerImporter("NaN", constant(ast.NaN))
	registerImporter("Naturals", constant(ast.Naturals))
	registerImporter("Naturals0", constant(ast.Naturals0))
	registerImporter("Integers", constant(ast.Integers))
	registerImporter("Reals", constant(ast.Reals))
	registerImporter("Complexes", constant(ast.Complexes))
	registerImporter("Symbol", func(e engine.Expr) (*ast.Node, error) {
		return ast.Var(e.(*engine.Sym).Name()), nil
	})

	registerImporter("Relational", func(e engine.Expr) (*ast.Node, error) {
		r := e.(*engine.Rel)
		l, err := Import(r.Lhs())
		if err != nil {
			return nil, err
		}
		rhs, err := Import(r.Rhs())
		if err != nil {
			return nil, err
		}
		return ast.Eq(r.Op(), l, rhs), nil
	})

	registerImporter("Add", importAdd)
	registerImporter("Mul", importMul)
	registerImporter("Pow", importPow)

	registerImporter("Abs", func(e engine.Expr) (*ast.Node, error) {
		a, err := Import(e.Args()[0])
		if err != nil {
			return nil, err
		}
		return ast.Abs(a), nil
	})
	registerImporter("arg", func(e engine.Expr) (*ast.Node, error) { return function1("arg", e.Args()[0]) })
	registerImporter("exp", func(e engine.Expr) (*ast.Node, error) {
		a, err := Import(e.Args()[0])
		if err != nil {
			return nil, err
		}
		return ast.Pow(ast.E(), a), nil
	})
	registerImporter("factorial", func(e engine.Expr) (*ast.Node, error) {
		a, err := Import(e.Args()[0])
		if err != nil {
			return nil, err
		}
		return ast.Fact(a), nil
	})
	trigh := func(e engine.Expr) (*ast.Node, error) {
		if args := e.Args(); len(args) == 1 {
			return function1(engine.ClassName(e), args[0])
		}
		return opaque(e), nil
	}
	for _, cls := range []string{"TrigonometricFunction", "HyperbolicFunction", "InverseTrigonometricFunction", "InverseHyperbolicFunction"} {
		registerImporter(cls, trigh)
	}
	registerImporter("log", func(e engine.Expr) (*ast.Node, error) {
		args, err := importAll(e.Args())
		if err != nil {
			return nil, err
		}
		if len(args) == 2 {
			return ast.Log(args[0], args[1]), nil
		}
		return ast.Log(args[0], nil), nil
	})
	applied := func(e engine.Expr) (*ast.Node, error) {
		args, err := importAll(e.Args())
		if err != nil {
			return nil, err
		}
		return ast.Func(engine.ClassName(e), args...), nil
	}
	registerImporter("MinMaxBase", applied)
	registerImporter("AppliedUndef", applied)

	registerImporter("Sum", importSum)
	registerImporter("Integral", importIntegral)
	registerImporter("Derivative", importDerivative)
	registerImporter("Limit", importLimit)
	registerImporter("Order", func(e engine.Expr) (*ast.Node, error) {
		return function1("O", e.(*engine.Order).Expr())
	})
	registerImporter("Piecewise", importPiecewise)
	registerImporter("Lambda", func(e engine.Expr) (*ast.Node, error) {
		l := e.(*engine.Lambda)
		body, err := Import(l.Body())
		if err != nil {
			return nil, err
		}
		vars := make([]*ast.Node, len(l.Vars()))
		for i, v := range l.Vars() {
			vars[i] = ast.Var(v.Name())
		}
		return ast.Lamb(body, vars...), nil
	})
}

// importMatrix picks the vector form for a single column, the entry itself
// for a single cell and the matrix form otherwise.
func importMatrix(e engine.Expr) (*ast.Node, error) {
	m := e.(*engine.Matrix)
	switch {
	case m.Rows() == 0 || m.Cols() == 0:
		return ast.Mat(), nil

	case m.Cols() > 1:
		rows := make([][]*ast.Node, m.Rows())
		for i := range rows {
			r, err := importAll(m.Row(i))
			if err != nil {
				return nil, err
			}
			rows[i] = r
		}
		return ast.Mat(rows...), nil

	case m.Rows() > 1:
		items := make([]*ast.Node, m.Rows())
		for i := range items {
			n, err := Import(m.Row(i)[0])
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return ast.Vec(items...), nil
	}

	x, err := m.Get(0, 0)
	if err != nil {
		return nil, err
	}
	return Import(x)
}

// importAdd lists the terms highest order first unless an order term is
// present, which has to stay last.
func importAdd(e engine.Expr) (*ast.Node, error) {
	terms := e.(*engine.Add).Terms()
	hasOrder := false
	for _, t := range terms {
		if _, ok := t.(*engine.Order); ok {
			hasOrder = true
			break
		}
	}
	ns, err := importAll(terms)
	if err != nil {
		return nil, err
	}
	if !hasOrder {
		for i, j := 0, len(ns)-1; i < j; i, j = i+1, j-1 {
			ns[i], ns[j] = ns[j], ns[i]
		}
	}
	return ast.Add(ns...), nil
}

// importMul pulls a leading negative coefficient out as a negation and
// moves factors with negative exponents below a fraction bar.
func importMul(e engine.Expr) (*ast.Node, error) {
	fs := e.(*engine.Mul).Factors()
	if len(fs) > 0 {
		if c, ok := fs[0].(*engine.Num); ok && c.IsNegOne() {
			rest, err := Import(engine.MulOf(fs[1:]...))
			if err != nil {
				return nil, err
			}
			return ast.Minus(rest), nil
		}
		if isNegative(fs[0]) {
			pos := append([]engine.Expr{engine.Neg(fs[0])}, fs[1:]...)
			rest, err := Import(engine.MulOf(pos...))
			if err != nil {
				return nil, err
			}
			return ast.Minus(rest), nil
		}
	}

	var numer, denom []*ast.Node
	for _, f := range fs {
		if p, ok := f.(*engine.Pow); ok && isNegative(p.ExpExpr()) {
			d, err := Import(engine.PowOf(p.Base(), engine.Neg(p.ExpExpr())))
			if err != nil {
				return nil, err
			}
			denom = append(denom, d)
			continue
		}
		n, err := Import(f)
		if err != nil {
			return nil, err
		}
		numer = append(numer, n)
	}

	switch {
	case len(denom) == 0:
		return group(numer), nil
	case len(numer) == 0:
		return ast.Div(ast.One, group(denom)), nil
	}
	return ast.Div(group(numer), group(denom)), nil
}

func importPow(e engine.Expr) (*ast.Node, error) {
	p := e.(*engine.Pow)
	if isNegative(p.ExpExpr()) {
		d, err := Import(engine.PowOf(p.Base(), engine.Neg(p.ExpExpr())))
		if err != nil {
			return nil, err
		}
		return ast.Div(ast.One, d), nil
	}
	b, err := Import(p.Base())
	if err != nil {
		return nil, err
	}
	if isHalf(p.ExpExpr()) {
		return ast.Sqrt(b, nil), nil
	}
	x, err := Import(p.ExpExpr())
	if err != nil {
		return nil, err
	}
	return ast.Pow(b, x), nil
}

func importSum(e engine.Expr) (*ast.Node, error) {
	s := e.(*engine.Sum)
	from, to := s.Bounds()
	ns, err := importAll([]engine.Expr{s.Expr(), from, to})
	if err != nil {
		return nil, err
	}
	return ast.Sum(ns[0], ast.Var(s.Sym().Name()), ns[1], ns[2]), nil
}

func importIntegral(e engine.Expr) (*ast.Node, error) {
	in := e.(*engine.Integral)
	body, err := Import(in.Expr())
	if err != nil {
		return nil, err
	}
	dv := ast.Var("d" + in.Sym().Name())
	from, to := in.Bounds()
	if from == nil {
		return ast.Intg(body, dv), nil
	}
	bs, err := importAll([]engine.Expr{from, to})
	if err != nil {
		return nil, err
	}
	return ast.DefIntg(body, dv, bs[0], bs[1]), nil
}

// importDerivative folds runs of the same variable into one differential
// raised to the run length.
func importDerivative(e engine.Expr) (*ast.Node, error) {
	d := e.(*engine.Derivative)
	body, err := Import(d.Expr())
	if err != nil {
		return nil, err
	}
	vars := d.Vars()
	var dvs []*ast.Node
	for i := 0; i < len(vars); {
		j := i + 1
		for j < len(vars) && vars[j].Name() == vars[i].Name() {
			j++
		}
		dv := ast.Var("d" + vars[i].Name())
		if j-i > 1 {
			dv = ast.Pow(dv, ast.Num(strconv.Itoa(j-i)))
		}
		dvs = append(dvs, dv)
		i = j
	}
	return ast.Diff(body, dvs...), nil
}

func importLimit(e engine.Expr) (*ast.Node, error) {
	l := e.(*engine.Limit)
	ns, err := importAll([]engine.Expr{l.Expr(), l.To()})
	if err != nil {
		return nil, err
	}
	dir := l.Dir()
	if dir == "+-" {
		dir = ""
	}
	return ast.Lim(ns[0], ast.Var(l.Sym().Name()), ns[1], dir), nil
}

func importPiecewise(e engine.Expr) (*ast.Node, error) {
	pcs := e.(*engine.Piecewise).Pieces()
	out := make([]ast.Piece, len(pcs))
	for i, p := range pcs {
		v, err := Import(p.Expr)
		if err != nil {
			return nil, err
		}
		out[i].Value = v
		if p.Cond == engine.True {
			continue
		}
		if out[i].Cond, err = Import(p.Cond); err != nil {
			return nil, err
		}
	}
	return ast.Piecewise(out...), nil
}
