package sympad

import (
	"strconv"
	"strings"

	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

// RenderMarkup renders n as LaTeX markup. Matrix constructor calls are
// evaluated at the process-wide precision.
func RenderMarkup(n *ast.Node) (string, error) {
	return RenderMarkupPrec(n, Precision())
}

// RenderMarkupPrec renders n as LaTeX markup, evaluating matrix constructor
// calls at prec significant digits.
func RenderMarkupPrec(n *ast.Node, prec int) (string, error) {
	return newMarkup(prec).run(n)
}

type markup struct {
	renderer
	prec int
}

func newMarkup(prec int) *markup {
	obj := &markup{renderer: renderer{form: "markup"}, prec: prec}
	obj.funcs = map[ast.Op]func(*ast.Node) string{
		ast.OpEq:    obj.eq,
		ast.OpNum:   obj.num,
		ast.OpVar:   obj.variable,
		ast.OpAttr:  obj.attr,
		ast.OpStr:   func(n *ast.Node) string { return `\text{` + quote(n.Str()) + "}" },
		ast.OpComma: func(n *ast.Node) string { return obj.join(n.Commas(), ", ") + trailComma(len(n.Commas())) },
		ast.OpCurly: func(n *ast.Node) string { return "{" + obj.s(n.Curly()) + "}" },
		ast.OpParen: func(n *ast.Node) string { return `\left(` + obj.s(n.Paren()) + ` \right)` },
		ast.OpBrack: func(n *ast.Node) string { return `\left[` + obj.join(n.Bracks(), ", ") + ` \right]` },
		ast.OpAbs:   func(n *ast.Node) string { return `\left|` + obj.s(n.Abs()) + ` \right|` },
		ast.OpMinus: obj.minus,
		ast.OpFact:  obj.fact,
		ast.OpAdd:   obj.add,
		ast.OpMul:   func(n *ast.Node) string { s, _ := obj.mul(n); return s },
		ast.OpDiv:   obj.div,
		ast.OpPow:   obj.pow,
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
		ast.OpIdx:   obj.idx,
		ast.OpText:  func(n *ast.Node) string { return n.Tex() },
	}
	return obj
}

// wrapStr groups s in parentheses when paren is set, else in braces when
// curly is set.
func (obj *markup) wrapStr(s string, curly, paren bool) string {
	switch {
	case paren:
		return `\left(` + s + ` \right)`
	case curly:
		return "{" + s + "}"
	}
	return s
}

func (obj *markup) wrap(n *ast.Node, curly, paren bool) string {
	return obj.wrapStr(obj.s(n), curly, paren)
}

// curly braces anything but a single unit, a tuple also gets parentheses.
func (obj *markup) curly(n *ast.Node) string {
	switch {
	case n.IsSingleUnit():
		return obj.s(n)
	case !n.Is(ast.OpComma):
		return "{" + obj.s(n) + "}"
	}
	return `{\left(` + obj.s(n) + `\right)}`
}

// paren wraps n in parentheses unless it already is a paren, or only is
// given and n carries none of those tags.
func (obj *markup) paren(n *ast.Node, only ...ast.Op) string {
	return obj.wrap(n, false, !(n.Is(ast.OpParen) || (len(only) > 0 && !n.Is(only...))))
}

func (obj *markup) parenMulExp(n *ast.Node) string {
	if n.Is(ast.OpMul) {
		s, has := obj.mul(n)
		return obj.wrapStr(s, false, has)
	}
	return obj.wrap(n, false, n.Is(ast.OpEq, ast.OpAdd, ast.OpLamb))
}

func (obj *markup) eqSide(eq, side *ast.Node, lhs bool) string {
	if eq.IsAss() {
		return obj.wrap(side, false, side.Is(ast.OpLamb) || side.IsAss() || (lhs && side.Is(ast.OpPiece)))
	}
	return obj.wrap(side, false, side.Is(ast.OpEq, ast.OpPiece, ast.OpLamb))
}

func (obj *markup) eq(n *ast.Node) string {
	rel := obj.rel(n)
	if t, ok := ast.RelTeX[rel]; ok {
		rel = t
	}
	return obj.eqSide(n, n.Lhs(), true) + " " + rel + " " + obj.eqSide(n, n.Rhs(), false)
}

func (obj *markup) num(n *ast.Node) string {
	m, e := n.MantAndExp()
	if e == "" {
		return m
	}
	return m + ` \cdot 10^` + obj.curly(ast.Num(e))
}

// setNames are variables spelled by the engine's own markup.
var setNames = map[string]bool{"Naturals": true, "Naturals0": true, "Integers": true, "Reals": true, "Complexes": true}

func (obj *markup) variable(n *ast.Node) string {
	v := n.Var()
	if v == "" {
		return "{}"
	}
	if setNames[v] {
		c, _ := engine.Constant(v)
		return c.LaTeX()
	}

	name, primes := n.AsVar().Var(), ""
	for strings.HasSuffix(name, "_prime") {
		name, primes = strings.TrimSuffix(name, "_prime"), primes+"'"
	}
	name = strings.Replace(name, "_", `\_`, -1)
	glyph, hasGlyph := ast.VarTeX[name]
	if !hasGlyph {
		glyph = name
	}

	var s string
	switch {
	case n.DiffOrPartType() == "":
		s = glyph
	case n.IsDiffAny():
		s = "d" + glyph
	case n.IsPartSolo():
		s = `\partial`
	case hasGlyph:
		s = `\partial` + glyph
	default:
		s = `\partial ` + name
	}
	return s + primes
}

// memberObj are the object tags that need parentheses before a dot.
var memberObj = []ast.Op{ast.OpEq, ast.OpNum, ast.OpComma, ast.OpMinus, ast.OpAdd, ast.OpMul, ast.OpDiv, ast.OpLim, ast.OpSum, ast.OpIntg, ast.OpPiece}

func (obj *markup) attr(n *ast.Node) string {
	a := strings.Replace(n.Attr(), "_", `\_`, -1)
	if n.HasArgs() {
		a = `\operatorname{` + a + "}" + obj.paren(funcArgs(n.Args()))
	}
	return obj.paren(n.Obj(), memberObj...) + "." + a
}

func (obj *markup) minus(n *ast.Node) string {
	m := n.Minus()
	return "-" + obj.wrap(m, m.Is(ast.OpNum, ast.OpMinus, ast.OpMul), m.Is(ast.OpEq, ast.OpAdd, ast.OpLamb))
}

func (obj *markup) fact(n *ast.Node) string {
	f := n.Fact()
	bare := f.Is(ast.OpNum, ast.OpVar, ast.OpParen, ast.OpAbs, ast.OpFact, ast.OpPow, ast.OpVec, ast.OpMat)
	return obj.wrap(f, f.Is(ast.OpPow), !bare || f.IsNegNum()) + "!"
}

func (obj *markup) add(n *ast.Node) string {
	adds := n.Adds()
	ss := make([]string, len(adds))
	for i, t := range adds {
		last := i == len(adds)-1
		ss[i] = obj.wrap(t, t.StripLimSum().Is(ast.OpIntg) && !last,
			(t.Is(ast.OpPiece, ast.OpLamb) && !last) || t.Is(ast.OpEq, ast.OpLamb))
	}
	return strings.Replace(strings.Join(ss, " + "), " + -", " - ", -1)
}

// mul reports whether an explicit \cdot was needed, callers use it to
// decide on grouping.
func (obj *markup) mul(n *ast.Node) (string, bool) {
	var sb strings.Builder
	var p *ast.Node
	has := false
	muls := n.Muls()

	for i, f := range muls {
		last := i == len(muls)-1
		s := obj.wrap(f, isNeg(f) || (f.StripLimSum().Is(ast.OpIntg) && !last),
			f.Is(ast.OpEq, ast.OpAdd, ast.OpLamb) || (f.Is(ast.OpPiece) && !last))

		switch {
		case p == nil:
			sb.WriteString(s)

		case f.Is(ast.OpFact, ast.OpNum, ast.OpMat) || f.IsNullVar() ||
			p.Is(ast.OpLim, ast.OpSum, ast.OpDiff, ast.OpIntg, ast.OpMat) ||
			(f.Is(ast.OpPow) && f.Base().IsPosNum()) ||
			(f.Is(ast.OpDiv, ast.OpDiff) && p.Is(ast.OpNum, ast.OpDiv)) ||
			isNeg(f) ||
			(p.Is(ast.OpDiv) && (p.Numer().IsDiffOrPartSolo() || (p.Numer().Is(ast.OpPow) && p.Numer().Base().IsDiffOrPartSolo()))):
			sb.WriteString(` \cdot `)
			sb.WriteString(s)
			has = true

		case p.Is(ast.OpSqrt) ||
			p.IsDiffOrPartSolo() || f.IsDiffOrPartSolo() || p.IsDiffOrPart() || f.IsDiffOrPart() ||
			(p.IsLongVar() && !f.Is(ast.OpParen, ast.OpBrack)) ||
			(f.IsLongVar() && !p.Is(ast.OpParen, ast.OpBrack)):
			sb.WriteString(`\ `)
			sb.WriteString(s)

		default:
			sb.WriteString(" ")
			sb.WriteString(s)
		}
		p = f
	}
	return sb.String(), has
}

func (obj *markup) div(n *ast.Node) string {
	numer := n.Numer()
	var paren bool
	if numer.Is(ast.OpPow) {
		paren = numer.Base().IsDiffOrPartSolo() && numer.Exp().RemoveCurlys().IsPosInt()
	} else {
		paren = numer.IsDiffOrPartSolo()
	}
	return `\frac{` + obj.wrap(numer, false, paren) + "}{" + obj.s(n.Denom()) + "}"
}

func (obj *markup) powBase(b *ast.Node) string {
	bare := b.Is(ast.OpVar, ast.OpStr, ast.OpParen, ast.OpAbs, ast.OpFunc, ast.OpMat) || b.IsPosNum()
	return obj.wrap(b, b.Is(ast.OpMat), !bare)
}

func (obj *markup) pow(n *ast.Node) string {
	base, exp := n.Base(), n.Exp()
	b, p := obj.powBase(base), obj.curly(exp)

	// sin^2(x): the exponent goes right after the function name
	if base.IsTrighFuncNonInv() && exp.IsSingleUnit() {
		i := len(base.Func()) + 1
		if base.Func() == "sech" || base.Func() == "csch" {
			i = len(base.Func()) + 15
		}
		if i <= len(b) {
			return b[:i] + "^" + p + b[i:]
		}
	}
	return b + "^" + p
}

func (obj *markup) log(n *ast.Node) string {
	if n.Base() == nil {
		return `\ln` + obj.paren(n.Log())
	}
	return `\log_` + obj.curly(n.Base()) + obj.paren(n.Log())
}

func (obj *markup) sqrt(n *ast.Node) string {
	rad := "{" + obj.s(n.Rad().StripParenNoncomma(1)) + "}"
	if n.Index() == nil {
		return `\sqrt` + rad
	}
	return `\sqrt[` + obj.s(n.Index()) + "]" + rad
}

// matrixFuncs are calls shown as the matrix they build.
var matrixFuncs = map[string]bool{"diag": true, "eye": true, "ones": true, "zeros": true}

var funcGlyphs = map[string]string{"gamma": `\Gamma`, "zeta": `\zeta`}

func (obj *markup) function(n *ast.Node) string {
	name, args := n.Func(), obj.paren(funcArgs(n.Args()))

	if matrixFuncs[name] {
		if s, ok := obj.matrixCall(n); ok {
			return s
		}
	}
	if g, ok := funcGlyphs[name]; ok {
		return g + args
	}

	if n.IsTrighFunc() {
		var f string
		switch {
		case name == "asech" || name == "acsch":
			f = `\operatorname{` + name[1:] + `}^{-1}`
		case name[0] == 'a':
			f = `\` + name[1:] + `^{-1}`
		case name == "sech" || name == "csch":
			f = `\operatorname{` + name + "}"
		default:
			f = `\` + name
		}
		return f + args
	}

	if ast.FuncTeX[name] {
		return `\` + name + args
	}
	return `\operatorname{` + strings.Replace(name, "_", `\_`, -1) + "}" + args
}

// matrixCall evaluates a matrix building call through the engine and
// renders the result. Any failure falls back to the call form.
func (obj *markup) matrixCall(n *ast.Node) (string, bool) {
	e, err := (&Exporter{Precision: obj.prec}).Export(n)
	if err != nil {
		return "", false
	}
	res, err := Import(e)
	if err != nil || res.Is(ast.OpFunc) {
		return "", false
	}
	s, err := RenderMarkupPrec(res, obj.prec)
	if err != nil {
		return "", false
	}
	return s, true
}

func (obj *markup) lim(n *ast.Node) string {
	var to string
	if n.Dir() == "" {
		to = obj.s(n.To())
	} else {
		to = obj.powBase(n.To()) + "^" + n.Dir()
	}
	return `\lim_{` + obj.s(n.LVar()) + ` \to ` + to + "} " + obj.parenMulExp(n.Lim())
}

func (obj *markup) sum(n *ast.Node) string {
	return `\sum_{` + obj.s(n.SVar()) + " = " + obj.s(n.From()) + "}^" + obj.curly(n.To()) + " " + obj.parenMulExp(n.Sum())
}

// diffOrder sums the orders of the differentiation variables and collects
// the distinct ones.
func (obj *renderer) diffOrder(n *ast.Node) (int, []*ast.Node) {
	p := 0
	var ds []*ast.Node
	seen := map[string]bool{}
	add := func(dv *ast.Node) {
		if k := dv.Key(); !seen[k] {
			seen[k] = true
			ds = append(ds, dv)
		}
	}
	for _, dv := range n.DVs() {
		if dv.Is(ast.OpVar) {
			p++
			if dv.Var() != "" {
				add(dv)
			}
			continue
		}
		if !dv.Is(ast.OpPow) {
			obj.fail("%s: bad differentiation variable %s", obj.form, dv)
			return 0, nil
		}
		k, err := strconv.Atoi(dv.Exp().RemoveCurlys().Num())
		if err != nil {
			obj.fail("%s: bad differentiation order %s", obj.form, dv.Exp())
			return 0, nil
		}
		p += k
		add(dv.Base())
	}
	return p, ds
}

func orderSup(p int) string {
	if p == 1 {
		return ""
	}
	return "^" + strconv.Itoa(p)
}

func (obj *markup) diff(n *ast.Node) string {
	p, ds := obj.diffOrder(n)
	body := obj.paren(n.Diff())
	if len(ds) == 0 {
		return `\frac{d}{}` + body
	}
	if len(ds) == 1 && !ds[0].IsPartial() {
		return `\frac{d` + orderSup(p) + "}{" + obj.join(n.DVs(), " ") + "}" + body
	}

	var sb strings.Builder
	for _, dv := range n.DVs() {
		s := obj.s(dv)
		if len(s) > 1 && s[0] == 'd' && s[1] != '_' {
			s = `\partial ` + s[1:]
		}
		sb.WriteString(s)
	}
	return `\frac{\partial` + orderSup(p) + "}{" + sb.String() + "}" + body
}

func (obj *markup) intg(n *ast.Node) string {
	head := `\int`
	if n.From() != nil {
		head = `\int_` + obj.curly(n.From()) + "^" + obj.curly(n.To())
	}
	dv := ` \ ` + obj.s(n.DV())
	if n.Intg() == nil {
		return head + dv
	}
	in := n.Intg()
	return head + " " + obj.wrap(in, in.Is(ast.OpDiff), in.Is(ast.OpEq, ast.OpLamb)) + dv
}

const (
	bmatrixOpen  = `\begin{bmatrix} `
	bmatrixClose = `\end{bmatrix}`
)

func (obj *markup) vec(n *ast.Node) string {
	if len(n.Vec()) == 0 {
		return bmatrixOpen + bmatrixClose
	}
	return bmatrixOpen + obj.join(n.Vec(), ` \\ `) + " " + bmatrixClose
}

func (obj *markup) mat(n *ast.Node) string {
	rows := n.Mat()
	if len(rows) == 0 {
		return bmatrixOpen + bmatrixClose
	}
	ss := make([]string, len(rows))
	for i, r := range rows {
		ss[i] = obj.join(r, " & ")
	}
	return bmatrixOpen + strings.Join(ss, ` \\ `) + " " + bmatrixClose
}

func (obj *markup) piece(n *ast.Node) string {
	pcs := n.Pieces()
	ss := make([]string, len(pcs))
	for i, p := range pcs {
		if p.Cond == nil {
			ss[i] = obj.s(p.Value) + ` & \text{otherwise}`
		} else {
			ss[i] = obj.s(p.Value) + ` & \text{for}\: ` + obj.s(p.Cond)
		}
	}
	return `\begin{cases} ` + strings.Join(ss, ` \\ `) + ` \end{cases}`
}

func (obj *markup) lamb(n *ast.Node) string {
	if obj.lambVars(n) == "" && obj.err != nil {
		return ""
	}
	var vars string
	if vs := n.Vars(); len(vs) == 1 {
		vars = obj.s(vs[0])
	} else {
		vars = obj.s(ast.Paren(ast.Comma(vs...)))
	}
	body := n.Lamb()
	return vars + ` \mapsto ` + obj.wrap(body, false, body.IsAss() || body.Is(ast.OpLamb))
}

func (obj *markup) idx(n *ast.Node) string {
	return obj.paren(n.Obj(), memberObj...) + `\left[` + obj.join(n.Indices(), ", ") + ` \right]`
}
