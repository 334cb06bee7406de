package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// Tuple and List
// ============================================================

type Tuple struct{ items []Expr }

func TupleOf(items ...Expr) *Tuple { return &Tuple{items: items} }

func (t *Tuple) Args() []Expr          { return t.items }
func (t *Tuple) Classes() []string     { return classes([]string{"Tuple"}, clsBasic) }
func (t *Tuple) Equal(other Expr) bool { o, ok := other.(*Tuple); return ok && equalAll(t.items, o.items) }
func (t *Tuple) Doit() Expr            { return TupleOf(doitAll(t.items)...) }
func (t *Tuple) LaTeX() string         { return `\left( ` + joinLaTeX(t.items, ", ") + `\right)` }

func (t *Tuple) String() string {
	if len(t.items) == 1 {
		return "(" + t.items[0].String() + ",)"
	}
	return "(" + joinStrings(t.items, ", ") + ")"
}

// List is a plain sequence, not an engine expression of its own.
type List struct{ items []Expr }

func ListOf(items ...Expr) *List { return &List{items: items} }

func (l *List) Args() []Expr          { return l.items }
func (l *List) Classes() []string     { return []string{"list"} }
func (l *List) Equal(other Expr) bool { o, ok := other.(*List); return ok && equalAll(l.items, o.items) }
func (l *List) Doit() Expr            { return ListOf(doitAll(l.items)...) }
func (l *List) String() string        { return "[" + joinStrings(l.items, ", ") + "]" }
func (l *List) LaTeX() string         { return `\left[ ` + joinLaTeX(l.items, ", ") + `\right]` }

// ============================================================
// Rel: relations
// ============================================================

type Rel struct {
	op       string
	lhs, rhs Expr
}

var relClasses = map[string]string{
	"=":  "Equality",
	"!=": "Unequality",
	"<":  "StrictLessThan",
	"<=": "LessThan",
	">":  "StrictGreaterThan",
	">=": "GreaterThan",
}

var relLaTeX = map[string]string{"=": "=", "!=": `\neq`, "<": "<", "<=": `\leq`, ">": ">", ">=": `\geq`}

// RelOf builds lhs op rhs, deciding it when both sides are numbers or the
// sides are identical. "==" is accepted for "=".
func RelOf(op string, lhs, rhs Expr) Expr {
	if op == "==" {
		op = "="
	}
	if lhs.Equal(rhs) {
		return Bool(op == "=" || op == "<=" || op == ">=")
	}
	if isNumber(lhs) && isNumber(rhs) {
		d := addNumbers(lhs, mulNumbers(rhs, N(-1)))
		neg, zero := isNegativeNumber(d), isZero(d)
		switch op {
		case "=":
			return Bool(zero)
		case "!=":
			return Bool(!zero)
		case "<":
			return Bool(neg)
		case "<=":
			return Bool(neg || zero)
		case ">":
			return Bool(!neg && !zero)
		case ">=":
			return Bool(!neg)
		}
	}
	return &Rel{op: op, lhs: lhs, rhs: rhs}
}

func (r *Rel) Op() string        { return r.op }
func (r *Rel) Lhs() Expr         { return r.lhs }
func (r *Rel) Rhs() Expr         { return r.rhs }
func (r *Rel) Args() []Expr      { return []Expr{r.lhs, r.rhs} }
func (r *Rel) Doit() Expr        { return RelOf(r.op, r.lhs.Doit(), r.rhs.Doit()) }
func (r *Rel) Classes() []string { return classes([]string{relClasses[r.op]}, clsRelational) }
func (r *Rel) LaTeX() string     { return r.lhs.LaTeX() + " " + relLaTeX[r.op] + " " + r.rhs.LaTeX() }

func (r *Rel) Equal(other Expr) bool {
	o, ok := other.(*Rel)
	return ok && r.op == o.op && r.lhs.Equal(o.lhs) && r.rhs.Equal(o.rhs)
}

func (r *Rel) String() string {
	switch r.op {
	case "=":
		return "Eq(" + r.lhs.String() + ", " + r.rhs.String() + ")"
	case "!=":
		return "Ne(" + r.lhs.String() + ", " + r.rhs.String() + ")"
	}
	return r.lhs.String() + " " + r.op + " " + r.rhs.String()
}

// ============================================================
// Piecewise
// ============================================================

type ExprCond struct {
	Expr Expr
	Cond Expr
}

type Piecewise struct{ pieces []ExprCond }

// PiecewiseOf drops pieces whose condition is False and everything after a
// True condition. A leading True piece is its value.
func PiecewiseOf(pieces ...ExprCond) Expr {
	out := make([]ExprCond, 0, len(pieces))
	for _, p := range pieces {
		if p.Cond == False {
			continue
		}
		out = append(out, p)
		if p.Cond == True {
			break
		}
	}
	if len(out) == 0 {
		return NaN
	}
	if out[0].Cond == True {
		return out[0].Expr
	}
	return &Piecewise{pieces: out}
}

func (p *Piecewise) Pieces() []ExprCond { return p.pieces }
func (p *Piecewise) Classes() []string  { return classes([]string{"Piecewise"}, clsApplication) }

func (p *Piecewise) Args() []Expr {
	out := make([]Expr, 0, 2*len(p.pieces))
	for _, pc := range p.pieces {
		out = append(out, pc.Expr, pc.Cond)
	}
	return out
}

func (p *Piecewise) Equal(other Expr) bool {
	o, ok := other.(*Piecewise)
	return ok && equalAll(p.Args(), o.Args())
}

func (p *Piecewise) Doit() Expr {
	pcs := make([]ExprCond, len(p.pieces))
	for i, pc := range p.pieces {
		pcs[i] = ExprCond{Expr: pc.Expr.Doit(), Cond: pc.Cond.Doit()}
	}
	return PiecewiseOf(pcs...)
}

func (p *Piecewise) String() string {
	parts := make([]string, len(p.pieces))
	for i, pc := range p.pieces {
		parts[i] = "(" + pc.Expr.String() + ", " + pc.Cond.String() + ")"
	}
	return "Piecewise(" + strings.Join(parts, ", ") + ")"
}

func (p *Piecewise) LaTeX() string {
	parts := make([]string, len(p.pieces))
	for i, pc := range p.pieces {
		if pc.Cond == True {
			parts[i] = pc.Expr.LaTeX() + ` & \text{otherwise}`
		} else {
			parts[i] = pc.Expr.LaTeX() + ` & \text{for}\: ` + pc.Cond.LaTeX()
		}
	}
	return `\begin{cases} ` + strings.Join(parts, ` \\ `) + ` \end{cases}`
}

// ============================================================
// Lambda
// ============================================================

type Lambda struct {
	vars []*Sym
	body Expr
}

func LambdaOf(body Expr, vars ...*Sym) *Lambda { return &Lambda{vars: vars, body: body} }

func (l *Lambda) Vars() []*Sym      { return l.vars }
func (l *Lambda) Body() Expr        { return l.body }
func (l *Lambda) Classes() []string { return classes([]string{"Lambda"}, clsExpr) }
func (l *Lambda) Doit() Expr        { return &Lambda{vars: l.vars, body: l.body.Doit()} }

func (l *Lambda) Args() []Expr {
	out := make([]Expr, 0, len(l.vars)+1)
	for _, v := range l.vars {
		out = append(out, v)
	}
	return append(out, l.body)
}

func (l *Lambda) Equal(other Expr) bool {
	o, ok := other.(*Lambda)
	return ok && equalAll(l.Args(), o.Args())
}

// Call substitutes args for the lambda's variables.
func (l *Lambda) Call(args ...Expr) (Expr, error) {
	if len(args) != len(l.vars) {
		return nil, errors.Errorf("lambda takes %d arguments, got %d", len(l.vars), len(args))
	}
	r := l.body
	for i, v := range l.vars {
		r = Subs(r, v.name, args[i])
	}
	return r, nil
}

func (l *Lambda) String() string {
	vs := make([]Expr, len(l.vars))
	for i, v := range l.vars {
		vs[i] = v
	}
	return "Lambda(" + TupleOf(vs...).String() + ", " + l.body.String() + ")"
}

func (l *Lambda) LaTeX() string {
	vs := make([]Expr, len(l.vars))
	for i, v := range l.vars {
		vs[i] = v
	}
	return `\left( ` + joinLaTeX(vs, ", ") + `\right) \mapsto ` + l.body.LaTeX()
}

// ============================================================
// Frozen: held against evaluation
// ============================================================

// Frozen wraps an expression so a forced evaluation pass leaves it alone.
// Doit returns the wrapper itself.
type Frozen struct{ expr Expr }

func Freeze(e Expr) *Frozen { return &Frozen{expr: e} }

func (f *Frozen) Expr() Expr        { return f.expr }
func (f *Frozen) Args() []Expr      { return []Expr{f.expr} }
func (f *Frozen) Doit() Expr        { return f }
func (f *Frozen) Classes() []string { return classes([]string{"Frozen"}, clsExpr) }
func (f *Frozen) String() string    { return f.expr.String() }
func (f *Frozen) LaTeX() string     { return f.expr.LaTeX() }

func (f *Frozen) Equal(other Expr) bool {
	o, ok := other.(*Frozen)
	return ok && f.expr.Equal(o.expr)
}
