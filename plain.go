package sympad

import (
	"strings"

	"github.com/njchilds90/gosympad/ast"
)

// RenderPlain renders n as compact plain text.
func RenderPlain(n *ast.Node) (string, error) {
	return newPlain().run(n)
}

type plain struct{ renderer }

func newPlain() *plain {
	obj := &plain{renderer{form: "plain"}}
	obj.funcs = map[ast.Op]func(*ast.Node) string{
		ast.OpEq:    obj.eq,
		ast.OpNum:   func(n *ast.Node) string { return n.Num() },
		ast.OpVar:   func(n *ast.Node) string { return n.Var() },
		ast.OpAttr:  obj.attr,
		ast.OpStr:   func(n *ast.Node) string { return quote(n.Str()) },
		ast.OpComma: func(n *ast.Node) string { return obj.join(n.Commas(), ", ") + trailComma(len(n.Commas())) },
		ast.OpCurly: func(n *ast.Node) string { return "{" + obj.s(n.Curly()) + "}" },
		ast.OpParen: func(n *ast.Node) string { return "(" + obj.s(n.Paren()) + ")" },
		ast.OpBrack: func(n *ast.Node) string { return "[" + obj.join(n.Bracks(), ", ") + "]" },
		ast.OpAbs:   func(n *ast.Node) string { return "{|" + obj.s(n.Abs()) + "|}" },
		ast.OpMinus: obj.minus,
		ast.OpFact:  obj.fact,
		ast.OpAdd:   obj.add,
		ast.OpMul:   func(n *ast.Node) string { s, _ := obj.mul(n); return s },
		ast.OpDiv:   obj.div,
		ast.OpPow:   func(n *ast.Node) string { return obj.pow(n.Base(), n.Exp(), true) },
		ast.OpLog:   obj.log,
		ast.OpSqrt:  obj.sqrt,
		ast.OpFunc:  obj.function,
		ast.OpLim:   obj.lim,
		ast.OpSum:   obj.sum,
		ast.OpDiff:  obj.diff,
		ast.OpIntg:  obj.intg,
		ast.OpVec:   obj.vec,
		ast.OpMat:   obj.mat,
		ast.OpPiece: obj.piece,
		ast.OpLamb:  obj.lamb,
		ast.OpIdx:   func(n *ast.Node) string { return obj.paren(n.Obj(), plainMemberObj...) + "[" + obj.join(n.Indices(), ", ") + "]" },
		ast.OpText:  func(n *ast.Node) string { return n.Nat() },
	}
	return obj
}

// wrapStr groups s in parentheses when paren is set, else in braces when
// curly is set.
func (obj *plain) wrapStr(s string, curly, paren bool) string {
	switch {
	case paren:
		return "(" + s + ")"
	case curly:
		return "{" + s + "}"
	}
	return s
}

func (obj *plain) wrap(n *ast.Node, curly, paren bool) string {
	return obj.wrapStr(obj.s(n), curly, paren)
}

// curly braces n when it carries one of only, or with no tags given, when it
// is not a single unit.
func (obj *plain) curly(n *ast.Node, only ...ast.Op) string {
	if len(only) > 0 {
		return obj.wrap(n, n.Is(only...), false)
	}
	_, glyph := ast.VarTeX[n.Var()]
	return obj.wrap(n, n.Is(ast.OpDiv) || !n.IsSingleUnit() || (n.Is(ast.OpVar) && glyph), false)
}

func (obj *plain) paren(n *ast.Node, only ...ast.Op) string {
	return obj.wrap(n, false, !(n.Is(ast.OpParen) || (len(only) > 0 && !n.Is(only...))))
}

// curlyMulExp braces a product that needed an explicit "*", or anything
// when also is set.
func (obj *plain) curlyMulExp(n *ast.Node, also bool) (string, bool) {
	var s string
	has := false
	if n.Is(ast.OpMul) {
		s, has = obj.mul(n)
	} else {
		s = obj.s(n)
	}
	has = has || also
	return obj.wrapStr(s, has, false), has
}

func (obj *plain) eqSide(eq, side *ast.Node, lhs bool) string {
	if eq.IsAss() {
		return obj.wrap(side, false, side.IsAss() || (lhs && side.Is(ast.OpPiece, ast.OpLamb)))
	}
	return obj.wrap(side, false, side.Is(ast.OpEq, ast.OpPiece, ast.OpLamb))
}

func (obj *plain) eq(n *ast.Node) string {
	rel := obj.rel(n)
	if t, ok := ast.RelTeX[rel]; ok {
		rel = t
	}
	return obj.eqSide(n, n.Lhs(), true) + " " + rel + " " + obj.eqSide(n, n.Rhs(), false)
}

var plainMemberObj = append(append([]ast.Op(nil), memberObj...), ast.OpLamb)

func (obj *plain) attr(n *ast.Node) string {
	if !n.HasArgs() {
		return obj.paren(n.Obj(), plainMemberObj...) + "." + n.Attr()
	}
	return obj.s(n.Obj()) + "." + n.Attr() + obj.paren(funcArgs(n.Args()))
}

func (obj *plain) minus(n *ast.Node) string {
	m := n.Minus()
	return "-" + obj.wrap(m, m.Is(ast.OpNum, ast.OpMinus, ast.OpMul, ast.OpPiece), m.Is(ast.OpEq, ast.OpAdd, ast.OpLamb))
}

func (obj *plain) fact(n *ast.Node) string {
	f := n.Fact()
	bare := f.Is(ast.OpNum, ast.OpVar, ast.OpParen, ast.OpAbs, ast.OpFact, ast.OpPow, ast.OpVec, ast.OpMat)
	return obj.wrap(f, f.Is(ast.OpPow), !bare || f.IsNegNum()) + "!"
}

func (obj *plain) add(n *ast.Node) string {
	adds := n.Adds()
	ss := make([]string, len(adds))
	for i, t := range adds {
		last := i == len(adds)-1
		ss[i] = obj.wrap(t, t.Is(ast.OpIntg, ast.OpPiece) || (t.StripLimSum().Is(ast.OpIntg) && !last),
			(t.Is(ast.OpPiece, ast.OpLamb) && !last) || t.Is(ast.OpEq, ast.OpLamb))
	}
	return strings.Replace(strings.Join(ss, " + "), " + -", " - ", -1)
}

func (obj *plain) mul(n *ast.Node) (string, bool) {
	var sb strings.Builder
	var p *ast.Node
	has := false
	muls := n.Muls()

	for i, f := range muls {
		last := i == len(muls)-1
		s := obj.wrap(f, isNeg(f) || f.Is(ast.OpPiece) || (f.StripLimSum().Is(ast.OpIntg) && !last),
			f.Is(ast.OpEq, ast.OpAdd, ast.OpLamb) || (f.Is(ast.OpPiece) && !last))

		switch {
		case p == nil:
			sb.WriteString(s)

		case f.Is(ast.OpFact, ast.OpNum, ast.OpLim, ast.OpSum, ast.OpIntg) || f.IsNullVar() ||
			p.Is(ast.OpLim, ast.OpSum, ast.OpDiff, ast.OpIntg) ||
			(f.Is(ast.OpPow) && f.Base().IsPosNum()) ||
			f.Is(ast.OpDiv, ast.OpDiff) || stripMinus(p).Is(ast.OpDiv, ast.OpDiff):
			sb.WriteString(" * ")
			sb.WriteString(s)
			has = true

		case p.IsDiffOrPartSolo() ||
			!f.Is(ast.OpNum, ast.OpParen, ast.OpAbs, ast.OpPow) || !p.Is(ast.OpNum, ast.OpParen, ast.OpAbs):
			sb.WriteString(" ")
			sb.WriteString(s)

		default:
			sb.WriteString(s)
		}
		p = f
	}
	return sb.String(), has
}

// divGroup are the tags braced on either side of a plain division.
var divGroup = []ast.Op{ast.OpEq, ast.OpAdd, ast.OpDiv, ast.OpLim, ast.OpSum, ast.OpDiff, ast.OpIntg, ast.OpPiece, ast.OpLamb}

// div prints "n/d" when both sides are bare literals, symbols or products
// and "n / d" otherwise. A negative side stays bare but forces the spaces.
func (obj *plain) div(n *ast.Node) string {
	numer, denom := n.Numer(), n.Denom()

	var num string
	var ns bool
	switch {
	case isNeg(numer):
		num, ns = obj.s(numer), true
	case numer.Is(ast.OpPow) && numer.Base().IsDiffOrPartSolo() && numer.Exp().RemoveCurlys().IsPosInt(),
		!numer.Is(ast.OpPow) && numer.IsDiffOrPartSolo():
		num, ns = obj.wrap(numer, false, true), true
	default:
		num, ns = obj.curlyMulExp(numer, numer.Is(divGroup...))
	}

	var den string
	var ds bool
	if isNeg(denom) {
		den, ds = obj.s(denom), true
	} else {
		den, ds = obj.curlyMulExp(denom, denom.Is(divGroup...))
	}

	bare := []ast.Op{ast.OpNum, ast.OpVar, ast.OpMul}
	if ns || ds || !stripMinus(numer).Is(bare...) || !stripMinus(denom).Is(bare...) {
		return num + " / " + den
	}
	return num + "/" + den
}

// expGroup are the exponent tags braced after "**".
var expGroup = []ast.Op{ast.OpEq, ast.OpAdd, ast.OpMul, ast.OpDiv, ast.OpLim, ast.OpSum, ast.OpDiff, ast.OpIntg, ast.OpPiece, ast.OpLamb}

func (obj *plain) pow(base, exp *ast.Node, trighpow bool) string {
	b := obj.wrap(base, false, !(base.Is(ast.OpVar, ast.OpParen, ast.OpAbs, ast.OpMat) || base.IsPosNum()))
	e := obj.wrap(exp, stripMinus(exp).Is(expGroup...), exp.Is(ast.OpComma))

	// the function base is parenthesized above, the exponent lands between
	// the name and its arguments: sin**2(x)
	if trighpow && base.IsTrighFuncNonInv() && exp.IsSingleUnit() {
		if i := len(base.Func()); i+1 < len(b) {
			return b[1:i+1] + "**" + e + b[i+1:len(b)-1]
		}
	}
	return b + "**" + e
}

func (obj *plain) log(n *ast.Node) string {
	if n.Base() == nil {
		return "ln" + obj.paren(n.Log())
	}
	return `\log_` + obj.curly(n.Base()) + obj.paren(n.Log())
}

func (obj *plain) sqrt(n *ast.Node) string {
	if n.Index() == nil {
		return "sqrt" + obj.paren(n.Rad())
	}
	return `\sqrt[` + obj.s(n.Index()) + "]{" + obj.s(n.Rad().StripParenNoncomma(1)) + "}"
}

func (obj *plain) function(n *ast.Node) string {
	name, args := n.Func(), obj.paren(funcArgs(n.Args()))
	if n.IsTrighFunc() || isKnownFunc(name) {
		return name + args
	}
	return ast.FuncEscape + name + args
}

// bodyGroup reports whether a limit or sum body must be braced.
func bodyGroup(n *ast.Node) bool {
	return n.Is(ast.OpEq, ast.OpAdd, ast.OpPiece, ast.OpLamb) || n.IsMulHasAbs()
}

func (obj *plain) lim(n *ast.Node) string {
	var to string
	if n.Dir() == "" {
		to = obj.wrap(n.To(), n.To().Is(ast.OpPiece), false)
	} else {
		s := obj.pow(n.To(), ast.Zero, false)
		to = s[:len(s)-1] + n.Dir()
	}
	body, _ := obj.curlyMulExp(n.Lim(), bodyGroup(n.Lim()))
	return `\lim_{` + obj.s(n.LVar()) + ` \to ` + to + "} " + body
}

func (obj *plain) sum(n *ast.Node) string {
	body, _ := obj.curlyMulExp(n.Sum(), bodyGroup(n.Sum()))
	return `\sum_{` + obj.s(n.SVar()) + "=" + obj.curly(n.From(), ast.OpPiece) + "}^" + obj.curly(n.To()) + " " + body
}

func (obj *plain) diff(n *ast.Node) string {
	p, _ := obj.diffOrder(n)
	d := ""
	for _, dv := range n.DVs() {
		if dv.Is(ast.OpPow) {
			dv = dv.Base()
		}
		d = dv.DiffOrPartType()
	}
	if d == "" {
		d = "d"
	}
	return d + orderSup(p) + " / " + obj.join(n.DVs(), " ") + " " + obj.paren(n.Diff())
}

func (obj *plain) intg(n *ast.Node) string {
	head := `\int`
	if n.From() != nil {
		head = `\int_` + obj.curly(n.From()) + "^" + obj.curly(n.To())
	}
	dv := " " + obj.s(n.DV())
	if n.Intg() == nil {
		return head + dv
	}
	in := n.Intg()
	return head + " " + obj.wrap(in, in.Is(ast.OpDiff, ast.OpPiece) || in.IsMulHasAbs(), in.Is(ast.OpEq, ast.OpLamb)) + dv
}

const emptyMatrix = "Matrix([])"

func (obj *plain) vec(n *ast.Node) string {
	vs := n.Vec()
	if len(vs) == 0 {
		return emptyMatrix
	}
	return "{" + obj.join(vs, ", ") + trailComma(len(vs)) + "}"
}

func (obj *plain) mat(n *ast.Node) string {
	rows := n.Mat()
	if len(rows) == 0 {
		return emptyMatrix
	}
	ss := make([]string, len(rows))
	for i, r := range rows {
		ss[i] = "{" + obj.join(r, ", ") + trailComma(len(r)) + "}"
	}
	return "{" + strings.Join(ss, ", ") + trailComma(len(rows)) + "}"
}

func (obj *plain) piece(n *ast.Node) string {
	pcs := n.Pieces()
	ss := make([]string, len(pcs))
	for i, p := range pcs {
		ss[i] = obj.curly(p.Value, ast.OpEq, ast.OpPiece, ast.OpLamb)
		if p.Cond != nil {
			ss[i] += " if " + obj.curly(p.Cond, ast.OpPiece, ast.OpLamb)
		}
	}
	return strings.Join(ss, " else ")
}

func (obj *plain) lamb(n *ast.Node) string {
	return "lambda" + obj.lambVars(n) + ": " + obj.wrap(n.Lamb(), false, n.Lamb().Is(ast.OpEq, ast.OpLamb))
}

// lambVars renders the parameter list of a lambda, failing on anything that
// is not a bare variable.
func (obj *renderer) lambVars(n *ast.Node) string {
	vs := n.Vars()
	if len(vs) == 0 {
		return ""
	}
	names := make([]string, len(vs))
	for i, v := range vs {
		if !v.Is(ast.OpVar) || v.Var() == "" {
			obj.fail("%s: bad lambda variable %s", obj.form, v)
			return ""
		}
		names[i] = v.Var()
	}
	return " " + strings.Join(names, ", ")
}
