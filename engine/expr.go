// Package engine is the symbolic computation kernel behind the expression
// bridge: engine objects with a reported class hierarchy, canonicalizing
// constructors, a function namespace and evaluate-more (Doit).
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), decimal floats at a set
//     number of significant digits (cockroachdb/apd)
//   - Deterministic canonical ordering and stable output
//   - Every object reports its classes, most specific first, so callers can
//     dispatch on the hierarchy rather than on Go types
package engine

import (
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	String() string
	LaTeX() string
	Args() []Expr
	Equal(other Expr) bool
	// Doit evaluates held operations (derivatives, integrals, limits, sums)
	// as far as the kernel can.
	Doit() Expr
	// Classes lists the class names of the object, most specific first.
	Classes() []string
}

// Class hierarchy tails shared by many objects.
var (
	clsBasic       = []string{"Basic"}
	clsExpr        = []string{"Expr", "Basic"}
	clsAtom        = []string{"AtomicExpr", "Atom", "Expr", "Basic"}
	clsApplication = []string{"Function", "Application", "Expr", "Basic"}
	clsBooleanAtom = []string{"BooleanAtom", "Boolean", "Basic"}
	clsRelational  = []string{"Relational", "Boolean", "Expr", "Basic"}
	clsSet         = []string{"Set", "Basic"}
)

func classes(head []string, tail []string) []string {
	return append(append(make([]string, 0, len(head)+len(tail)), head...), tail...)
}

// ClassName is the most specific class of e.
func ClassName(e Expr) string {
	if cs := e.Classes(); len(cs) > 0 {
		return cs[0]
	}
	return ""
}

// ============================================================
// Generic tree helpers
// ============================================================

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func joinStrings(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

func joinLaTeX(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.LaTeX()
	}
	return strings.Join(parts, sep)
}

func doitAll(es []Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = e.Doit()
	}
	return out
}

// Rebuild reconstructs e with new arguments through its canonical
// constructor. Objects the kernel does not know come back unchanged.
func Rebuild(e Expr, args []Expr) Expr {
	switch v := e.(type) {
	case *Add:
		return AddOf(args...)
	case *Mul:
		return MulOf(args...)
	case *Pow:
		return PowOf(args[0], args[1])
	case *Fn:
		return Apply(v.name, args...)
	case *Rel:
		return RelOf(v.op, args[0], args[1])
	case *Tuple:
		return TupleOf(args...)
	case *List:
		return ListOf(args...)
	case *Matrix:
		return MatrixFromSlice(v.rows, v.cols, args)
	case *Order:
		return &Order{expr: args[0]}
	case *Frozen:
		return &Frozen{expr: args[0]}
	case *Derivative:
		vars := make([]*Sym, 0, len(args)-1)
		for _, a := range args[1:] {
			if s, ok := a.(*Sym); ok {
				vars = append(vars, s)
			}
		}
		return &Derivative{expr: args[0], vars: vars}
	case *Integral:
		s, ok := args[1].(*Sym)
		if !ok {
			return e
		}
		if len(args) == 4 {
			return DefiniteIntegralOf(args[0], s, args[2], args[3])
		}
		return IntegralOf(args[0], s)
	case *Limit:
		s, ok := args[1].(*Sym)
		if !ok {
			return e
		}
		return LimitOf(args[0], s, args[2], v.dir)
	case *Sum:
		s, ok := args[1].(*Sym)
		if !ok {
			return e
		}
		return SumOf(args[0], s, args[2], args[3])
	case *Lambda:
		return &Lambda{vars: v.vars, body: args[len(args)-1]}
	case *Piecewise:
		pcs := make([]ExprCond, len(v.pieces))
		for i := range pcs {
			pcs[i] = ExprCond{Expr: args[2*i], Cond: args[2*i+1]}
		}
		return PiecewiseOf(pcs...)
	}
	return e
}

// Subs replaces the symbol named name by value everywhere it is free.
func Subs(e Expr, name string, value Expr) Expr {
	switch v := e.(type) {
	case *Sym:
		if v.name == name {
			return value
		}
		return v
	case *Derivative:
		return &Derivative{expr: Subs(v.expr, name, value), vars: v.vars}
	case *Integral:
		if v.sym.name == name {
			return v
		}
		in := *v
		in.expr = Subs(v.expr, name, value)
		if v.from != nil {
			in.from, in.to = Subs(v.from, name, value), Subs(v.to, name, value)
		}
		return &in
	case *Limit:
		if v.sym.name == name {
			return v
		}
		return &Limit{expr: Subs(v.expr, name, value), sym: v.sym, to: Subs(v.to, name, value), dir: v.dir}
	case *Sum:
		if v.sym.name == name {
			return v
		}
		return &Sum{expr: Subs(v.expr, name, value), sym: v.sym, from: Subs(v.from, name, value), to: Subs(v.to, name, value)}
	case *Lambda:
		for _, s := range v.vars {
			if s.name == name {
				return v
			}
		}
		return &Lambda{vars: v.vars, body: Subs(v.body, name, value)}
	}
	args := e.Args()
	if len(args) == 0 {
		return e
	}
	out := make([]Expr, len(args))
	changed := false
	for i, a := range args {
		out[i] = Subs(a, name, value)
		changed = changed || out[i] != a
	}
	if !changed {
		return e
	}
	return Rebuild(e, out)
}

// FreeSymbols returns the names of the symbols of e, sorted.
func FreeSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	collectSymbols(e, seen)
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	if s, ok := e.(*Sym); ok {
		out[s.name] = struct{}{}
		return
	}
	for _, a := range e.Args() {
		collectSymbols(a, out)
	}
}

// Has reports whether the symbol named name occurs in e.
func Has(e Expr, name string) bool {
	if s, ok := e.(*Sym); ok {
		return s.name == name
	}
	for _, a := range e.Args() {
		if Has(a, name) {
			return true
		}
	}
	return false
}

// Simplify applies canonicalization to every node again, then a few
// rewrite passes until stable.
func Simplify(e Expr) Expr {
	prev := e
	for i := 0; i < 8; i++ {
		next := trigSimplify(Canonicalize(prev))
		if next.Equal(prev) {
			return next
		}
		prev = next
	}
	return prev
}

// Canonicalize rebuilds e bottom up through the canonical constructors.
func Canonicalize(e Expr) Expr {
	args := e.Args()
	if len(args) == 0 {
		return e
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = Canonicalize(a)
	}
	return Rebuild(e, out)
}
