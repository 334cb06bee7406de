package sympad

import (
	"strings"

	"github.com/njchilds90/gosympad/ast"
)

// RenderScript renders n as an expression in the engine's scripting syntax.
func RenderScript(n *ast.Node) (string, error) {
	return newScript().run(n)
}

type script struct{ renderer }

func newScript() *script {
	obj := &script{renderer{form: "script"}}
	obj.funcs = map[ast.Op]func(*ast.Node) string{
		ast.OpEq:    obj.eq,
		ast.OpNum:   func(n *ast.Node) string { return n.Num() },
		ast.OpVar:   func(n *ast.Node) string { return n.Var() },
		ast.OpAttr:  obj.attr,
		ast.OpStr:   func(n *ast.Node) string { return quote(n.Str()) },
		ast.OpComma: func(n *ast.Node) string { return obj.join(n.Commas(), ", ") + trailComma(len(n.Commas())) },
		ast.OpCurly: func(n *ast.Node) string { return obj.s(n.Curly()) },
		ast.OpParen: func(n *ast.Node) string { return "(" + obj.s(n.Paren()) + ")" },
		ast.OpBrack: func(n *ast.Node) string { return "[" + obj.join(n.Bracks(), ", ") + "]" },
		ast.OpAbs:   func(n *ast.Node) string { return "abs(" + obj.s(n.Abs()) + ")" },
		ast.OpMinus: obj.minus,
		ast.OpFact:  func(n *ast.Node) string { return "factorial(" + obj.s(n.Fact()) + ")" },
		ast.OpAdd:   func(n *ast.Node) string { return strings.Replace(obj.join(n.Adds(), " + "), " + -", " - ", -1) },
		ast.OpMul:   obj.mul,
		ast.OpDiv:   obj.div,
		ast.OpPow:   obj.pow,
		ast.OpLog:   obj.log,
		ast.OpSqrt:  obj.sqrt,
		ast.OpFunc:  func(n *ast.Node) string { return n.Func() + obj.callArgs(n.Args()) },
		ast.OpLim:   obj.lim,
		ast.OpSum:   obj.sum,
		ast.OpDiff:  obj.diff,
		ast.OpIntg:  obj.intg,
		ast.OpVec:   obj.vec,
		ast.OpMat:   obj.mat,
		ast.OpPiece: obj.piece,
		ast.OpLamb:  func(n *ast.Node) string { return "lambda" + obj.lambVars(n) + ": " + obj.s(n.Lamb()) },
		ast.OpIdx:   func(n *ast.Node) string { return obj.member(n.Obj()) + "[" + obj.join(n.Indices(), ", ") + "]" },
		ast.OpText:  func(n *ast.Node) string { return n.Py() },
	}
	return obj
}

func (obj *script) paren(n *ast.Node) string {
	if n.Is(ast.OpParen) {
		return obj.s(n)
	}
	return "(" + obj.s(n) + ")"
}

// member parenthesizes the object of an attribute or index unless it binds
// at least as tightly as the subscript.
func (obj *script) member(n *ast.Node) string {
	if n.Is(ast.OpVar, ast.OpParen, ast.OpBrack, ast.OpFunc, ast.OpAttr, ast.OpIdx) {
		return obj.s(n)
	}
	return obj.paren(n)
}

// curly parenthesizes operands that would otherwise bind wrong next to a
// binary operator.
func (obj *script) curly(n *ast.Node) string {
	if stripMinus(n).Is(ast.OpAdd, ast.OpMul, ast.OpDiv) || (n.Is(ast.OpLog) && n.Base() != nil) {
		return obj.paren(n)
	}
	return obj.s(n)
}

func (obj *script) eq(n *ast.Node) string {
	rel := obj.rel(n)
	lhs := obj.s(n.Lhs())
	if !n.IsAss() && n.Lhs().Is(ast.OpLamb) {
		lhs = obj.paren(n.Lhs())
	}
	return lhs + " " + rel + " " + obj.s(n.Rhs())
}

func (obj *script) attr(n *ast.Node) string {
	if !n.HasArgs() {
		return obj.member(n.Obj()) + "." + n.Attr()
	}
	return obj.member(n.Obj()) + "." + n.Attr() + obj.callArgs(n.Args())
}

// callArgs renders a parenthesized argument list, spelling assignments to
// bare identifiers as keyword arguments.
func (obj *script) callArgs(args []*ast.Node) string {
	if len(args) == 1 {
		if _, ok := keywordArg(args[0]); !ok {
			return obj.paren(args[0])
		}
	}
	ss := make([]string, len(args))
	for i, a := range args {
		if name, ok := keywordArg(a); ok {
			ss[i] = name + "=" + obj.s(a.Rhs())
			continue
		}
		ss[i] = obj.s(a)
	}
	return "(" + strings.Join(ss, ", ") + ")"
}

func (obj *script) minus(n *ast.Node) string {
	if n.Minus().Is(ast.OpAdd) {
		return "-" + obj.paren(n.Minus())
	}
	return "-" + obj.s(n.Minus())
}

func (obj *script) mul(n *ast.Node) string {
	muls := n.Muls()
	ss := make([]string, len(muls))
	for i, m := range muls {
		if m.Is(ast.OpAdd) {
			ss[i] = obj.paren(m)
		} else {
			ss[i] = obj.s(m)
		}
	}
	return strings.Join(ss, "*")
}

func (obj *script) div(n *ast.Node) string {
	sep := " / "
	if stripMinus(n.Numer()).Is(ast.OpNum, ast.OpVar) && stripMinus(n.Denom()).Is(ast.OpNum, ast.OpVar) {
		sep = "/"
	}
	return obj.curly(n.Numer()) + sep + obj.curly(n.Denom())
}

func (obj *script) pow(n *ast.Node) string {
	var b string
	if isNeg(n.Base()) {
		b = obj.paren(n.Base())
	} else {
		b = obj.curly(n.Base())
	}
	return b + "**" + obj.curly(n.Exp())
}

func (obj *script) log(n *ast.Node) string {
	if n.Base() == nil {
		return "log" + obj.paren(n.Log())
	}
	return "log" + obj.paren(n.Log()) + " / log" + obj.paren(n.Base())
}

func (obj *script) sqrt(n *ast.Node) string {
	if n.Index() == nil {
		return "sqrt" + obj.paren(n.Rad())
	}
	return obj.s(ast.Pow(n.Rad().StripParen(1), ast.Div(ast.One, n.Index())))
}

func (obj *script) lim(n *ast.Node) string {
	dir := ""
	switch n.Dir() {
	case "":
		dir = ", dir='+-'"
	case "-":
		dir = ", dir='-'"
	}
	return "Limit(" + obj.s(n.Lim()) + ", " + obj.s(n.LVar()) + ", " + obj.s(n.To()) + dir + ")"
}

func (obj *script) sum(n *ast.Node) string {
	return "Sum(" + obj.s(n.Sum()) + ", (" + obj.s(n.SVar()) + ", " + obj.s(n.From()) + ", " + obj.s(n.To()) + "))"
}

func (obj *script) diff(n *ast.Node) string {
	var args []string
	for _, dv := range n.DVs() {
		switch {
		case dv.Is(ast.OpVar):
			args = append(args, obj.s(dv.AsVar()))
		case dv.Is(ast.OpPow):
			args = append(args, obj.s(dv.Base().AsVar()), obj.s(dv.Exp().RemoveCurlys()))
		default:
			obj.fail("%s: bad differentiation variable %s", obj.form, dv)
		}
	}
	return "Derivative(" + obj.s(n.Diff()) + ", " + strings.Join(args, ", ") + ")"
}

func (obj *script) intg(n *ast.Node) string {
	body := "1"
	if n.Intg() != nil {
		body = obj.s(n.Intg())
	}
	v := obj.s(n.DV().AsVar())
	if n.From() == nil {
		return "Integral(" + body + ", " + v + ")"
	}
	return "Integral(" + body + ", (" + v + ", " + obj.s(n.From()) + ", " + obj.s(n.To()) + "))"
}

func (obj *script) vec(n *ast.Node) string {
	ss := make([]string, len(n.Vec()))
	for i, e := range n.Vec() {
		ss[i] = "[" + obj.s(e) + "]"
	}
	return "Matrix([" + strings.Join(ss, ", ") + "])"
}

func (obj *script) mat(n *ast.Node) string {
	rows := n.Mat()
	ss := make([]string, len(rows))
	for i, r := range rows {
		ss[i] = "[" + obj.join(r, ", ") + "]"
	}
	return "Matrix([" + strings.Join(ss, ", ") + "])"
}

func (obj *script) piece(n *ast.Node) string {
	pcs := n.Pieces()
	ss := make([]string, len(pcs))
	for i, p := range pcs {
		cond := "True"
		if p.Cond != nil {
			cond = obj.s(p.Cond)
		}
		ss[i] = "(" + obj.s(p.Value) + ", " + cond + ")"
	}
	return "Piecewise(" + strings.Join(ss, ", ") + ")"
}
