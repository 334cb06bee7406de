// Package ast holds the immutable expression tree shared by every renderer
// and by the engine bridge.
//
// Design goals:
//   - One closed tagged union, one typed constructor per tag
//   - Structural equality and a canonical Key usable as a map key
//   - Derived facts computed on demand and cached per node instance
//   - Numbers kept as exact decimal text until they reach the engine
package ast

import (
	"strings"
)

// Op is the operator tag of a node.
type Op string

const (
	OpEq    Op = "="
	OpNum   Op = "#"
	OpVar   Op = "@"
	OpAttr  Op = "."
	OpStr   Op = `"`
	OpComma Op = ","
	OpCurly Op = "{"
	OpParen Op = "("
	OpBrack Op = "["
	OpAbs   Op = "|"
	OpMinus Op = "-"
	OpFact  Op = "!"
	OpAdd   Op = "+"
	OpMul   Op = "*"
	OpDiv   Op = "/"
	OpPow   Op = "^"
	OpLog   Op = "log"
	OpSqrt  Op = "sqrt"
	OpFunc  Op = "func"
	OpLim   Op = "lim"
	OpSum   Op = "sum"
	OpDiff  Op = "diff"
	OpIntg  Op = "intg"
	OpVec   Op = "vec"
	OpMat   Op = "mat"
	OpPiece Op = "piece"
	OpLamb  Op = "lamb"
	OpIdx   Op = "idx"
	OpText  Op = "text"
)

// Ops lists every tag in a stable order.
var Ops = []Op{
	OpEq, OpNum, OpVar, OpAttr, OpStr, OpComma, OpCurly, OpParen, OpBrack, OpAbs,
	OpMinus, OpFact, OpAdd, OpMul, OpDiv, OpPow, OpLog, OpSqrt, OpFunc, OpLim,
	OpSum, OpDiff, OpIntg, OpVec, OpMat, OpPiece, OpLamb, OpIdx, OpText,
}

// IsOp reports whether s names a known tag.
func IsOp(s string) bool {
	for _, op := range Ops {
		if string(op) == s {
			return true
		}
	}
	return false
}

// Piece is one (value, condition) pair of a piecewise node. A nil Cond is
// the unconditional catch-all and may only appear last.
type Piece struct {
	Value *Node
	Cond  *Node
}

// Node is one immutable value of the expression tree. Fields are private and
// reached through accessors named after what they hold for the node's tag.
type Node struct {
	op Op

	str        string // rel, num, var, attr, str, func name, lim dir
	a, b, c, d *Node  // fixed positional children
	list       []*Node
	hasList    bool // distinguishes attr member access from a call with no args
	rows       [][]*Node
	pieces     []Piece

	tex, nat, py string

	memo *memo
}

func newNode(op Op) *Node { return &Node{op: op, memo: &memo{}} }

// ============================================================
// Typed constructors
// ============================================================

func Eq(rel string, lhs, rhs *Node) *Node {
	n := newNode(OpEq)
	n.str, n.a, n.b = rel, lhs, rhs
	return n
}

func Num(num string) *Node {
	n := newNode(OpNum)
	n.str = num
	return n
}

func Var(name string) *Node {
	n := newNode(OpVar)
	n.str = name
	return n
}

// Attr builds a data member reference.
func Attr(obj *Node, attr string) *Node {
	n := newNode(OpAttr)
	n.a, n.str = obj, attr
	return n
}

// Method builds a member call, args may be empty.
func Method(obj *Node, attr string, args ...*Node) *Node {
	n := Attr(obj, attr)
	n.list, n.hasList = cloneList(args), true
	return n
}

func Str(s string) *Node {
	n := newNode(OpStr)
	n.str = s
	return n
}

func Comma(items ...*Node) *Node { return listNode(OpComma, items) }
func Curly(e *Node) *Node        { return unary(OpCurly, e) }
func Paren(e *Node) *Node        { return unary(OpParen, e) }
func Brack(items ...*Node) *Node { return listNode(OpBrack, items) }
func Abs(e *Node) *Node          { return unary(OpAbs, e) }
func Minus(e *Node) *Node        { return unary(OpMinus, e) }
func Fact(e *Node) *Node         { return unary(OpFact, e) }
func Add(terms ...*Node) *Node   { return listNode(OpAdd, terms) }
func Mul(factors ...*Node) *Node { return listNode(OpMul, factors) }

func Div(numer, denom *Node) *Node {
	n := newNode(OpDiv)
	n.a, n.b = numer, denom
	return n
}

func Pow(base, exp *Node) *Node {
	n := newNode(OpPow)
	n.a, n.b = base, exp
	return n
}

// Log is the natural logarithm when base is nil.
func Log(arg, base *Node) *Node {
	n := newNode(OpLog)
	n.a, n.b = arg, base
	return n
}

// Sqrt is the square root when idx is nil, else the idx-th root.
func Sqrt(rad, idx *Node) *Node {
	n := newNode(OpSqrt)
	n.a, n.b = rad, idx
	return n
}

func Func(name string, args ...*Node) *Node {
	n := newNode(OpFunc)
	n.str, n.list, n.hasList = name, cloneList(args), true
	return n
}

// Lim builds a limit, dir is "" for both sides or "+" / "-".
func Lim(expr, lvar, to *Node, dir string) *Node {
	n := newNode(OpLim)
	n.a, n.b, n.c, n.str = expr, lvar, to, dir
	return n
}

func Sum(expr, svar, from, to *Node) *Node {
	n := newNode(OpSum)
	n.a, n.b, n.c, n.d = expr, svar, from, to
	return n
}

// Diff builds a derivative. Each dv is a differential variable ("dx",
// "partialx") or a differential raised to an integer order.
func Diff(expr *Node, dvs ...*Node) *Node {
	n := newNode(OpDiff)
	n.a, n.list, n.hasList = expr, cloneList(dvs), true
	return n
}

// Intg builds an antiderivative, expr may be nil meaning 1.
func Intg(expr, dv *Node) *Node {
	n := newNode(OpIntg)
	n.a, n.b = expr, dv
	return n
}

// DefIntg builds a definite integral, expr may be nil meaning 1.
func DefIntg(expr, dv, from, to *Node) *Node {
	n := Intg(expr, dv)
	n.c, n.d = from, to
	return n
}

func Vec(items ...*Node) *Node { return listNode(OpVec, items) }

func Mat(rows ...[]*Node) *Node {
	n := newNode(OpMat)
	n.rows = make([][]*Node, len(rows))
	for i, r := range rows {
		n.rows[i] = cloneList(r)
	}
	return n
}

func Piecewise(pieces ...Piece) *Node {
	n := newNode(OpPiece)
	n.pieces = append([]Piece(nil), pieces...)
	return n
}

func Lamb(body *Node, vars ...*Node) *Node {
	n := newNode(OpLamb)
	n.a, n.list, n.hasList = body, cloneList(vars), true
	return n
}

func Idx(obj *Node, idx ...*Node) *Node {
	n := newNode(OpIdx)
	n.a, n.list, n.hasList = obj, cloneList(idx), true
	return n
}

// Text is the opaque fallback for engine objects without a tree shape. Empty
// nat and py default to tex.
func Text(tex, nat, py string) *Node {
	n := newNode(OpText)
	if nat == "" {
		nat = tex
	}
	if py == "" {
		py = tex
	}
	n.tex, n.nat, n.py = tex, nat, py
	return n
}

func unary(op Op, e *Node) *Node {
	n := newNode(op)
	n.a = e
	return n
}

func listNode(op Op, items []*Node) *Node {
	n := newNode(op)
	n.list, n.hasList = cloneList(items), true
	return n
}

func cloneList(l []*Node) []*Node {
	if l == nil {
		return []*Node{}
	}
	return append(make([]*Node, 0, len(l)), l...)
}

// ============================================================
// Accessors
// ============================================================

// Op returns the tag, "" for a nil node.
func (n *Node) Op() Op {
	if n == nil {
		return ""
	}
	return n.op
}

// Is reports whether the node carries one of ops.
func (n *Node) Is(ops ...Op) bool {
	op := n.Op()
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func (n *Node) Rel() string   { return n.text(OpEq) }
func (n *Node) Lhs() *Node    { return n.slotA(OpEq) }
func (n *Node) Rhs() *Node    { return n.slotB(OpEq) }
func (n *Node) Num() string   { return n.text(OpNum) }
func (n *Node) Var() string   { return n.text(OpVar) }
func (n *Node) Obj() *Node    { return n.slotA(OpAttr, OpIdx) }
func (n *Node) Attr() string  { return n.text(OpAttr) }
func (n *Node) Str() string   { return n.text(OpStr) }
func (n *Node) Func() string  { return n.text(OpFunc) }
func (n *Node) Dir() string   { return n.text(OpLim) }
func (n *Node) Curly() *Node  { return n.slotA(OpCurly) }
func (n *Node) Paren() *Node  { return n.slotA(OpParen) }
func (n *Node) Abs() *Node    { return n.slotA(OpAbs) }
func (n *Node) Minus() *Node  { return n.slotA(OpMinus) }
func (n *Node) Fact() *Node   { return n.slotA(OpFact) }
func (n *Node) Numer() *Node  { return n.slotA(OpDiv) }
func (n *Node) Denom() *Node  { return n.slotB(OpDiv) }
func (n *Node) Log() *Node    { return n.slotA(OpLog) }
func (n *Node) Rad() *Node    { return n.slotA(OpSqrt) }
func (n *Node) Index() *Node  { return n.slotB(OpSqrt) }
func (n *Node) Lim() *Node    { return n.slotA(OpLim) }
func (n *Node) LVar() *Node   { return n.slotB(OpLim) }
func (n *Node) Sum() *Node    { return n.slotA(OpSum) }
func (n *Node) SVar() *Node   { return n.slotB(OpSum) }
func (n *Node) Diff() *Node   { return n.slotA(OpDiff) }
func (n *Node) Intg() *Node   { return n.slotA(OpIntg) }
func (n *Node) DV() *Node     { return n.slotB(OpIntg) }
func (n *Node) Lamb() *Node   { return n.slotA(OpLamb) }
func (n *Node) Tex() string   { return n.textOf(OpText, func() string { return n.tex }) }
func (n *Node) Nat() string   { return n.textOf(OpText, func() string { return n.nat }) }
func (n *Node) Py() string    { return n.textOf(OpText, func() string { return n.py }) }
func (n *Node) Commas() []*Node  { return n.listOf(OpComma) }
func (n *Node) Bracks() []*Node  { return n.listOf(OpBrack) }
func (n *Node) Adds() []*Node    { return n.listOf(OpAdd) }
func (n *Node) Muls() []*Node    { return n.listOf(OpMul) }
func (n *Node) DVs() []*Node     { return n.listOf(OpDiff) }
func (n *Node) Vec() []*Node     { return n.listOf(OpVec) }
func (n *Node) Vars() []*Node    { return n.listOf(OpLamb) }
func (n *Node) Indices() []*Node { return n.listOf(OpIdx) }

// Args returns the arguments of a func node or a member call, nil for a
// plain member access.
func (n *Node) Args() []*Node { return n.listOf(OpFunc, OpAttr) }

// HasArgs reports whether an attr node is a member call.
func (n *Node) HasArgs() bool { return n.Is(OpAttr) && n.hasList }

// Base is the base of a power or of a logarithm (nil for natural log).
func (n *Node) Base() *Node {
	switch n.Op() {
	case OpPow:
		return n.a
	case OpLog:
		return n.b
	}
	return nil
}

func (n *Node) Exp() *Node { return n.slotB(OpPow) }

// To is the target of a limit or the upper bound of a sum or integral.
func (n *Node) To() *Node {
	switch n.Op() {
	case OpLim:
		return n.c
	case OpSum, OpIntg:
		return n.d
	}
	return nil
}

// From is the lower bound of a sum or integral.
func (n *Node) From() *Node {
	if n.Is(OpSum, OpIntg) {
		return n.c
	}
	return nil
}

// Mat returns the rows of a matrix node.
func (n *Node) Mat() [][]*Node {
	if !n.Is(OpMat) {
		return nil
	}
	return n.rows
}

func (n *Node) Pieces() []Piece {
	if !n.Is(OpPiece) {
		return nil
	}
	return n.pieces
}

func (n *Node) IsAss() bool { return n.Is(OpEq) && n.str == "=" }

func (n *Node) text(ops ...Op) string {
	if !n.Is(ops...) {
		return ""
	}
	return n.str
}

func (n *Node) textOf(op Op, f func() string) string {
	if !n.Is(op) {
		return ""
	}
	return f()
}

func (n *Node) slotA(ops ...Op) *Node {
	if !n.Is(ops...) {
		return nil
	}
	return n.a
}

func (n *Node) slotB(ops ...Op) *Node {
	if !n.Is(ops...) {
		return nil
	}
	return n.b
}

func (n *Node) listOf(ops ...Op) []*Node {
	if !n.Is(ops...) || !n.hasList {
		return nil
	}
	return n.list
}

// String returns the canonical tuple form, handy in logs and test output.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Key()
}

// Equal is structural equality.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n == other || n.Key() == other.Key()
}

// Children returns every child node in field order, skipping absent optional
// fields.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	out := []*Node{}
	add := func(cs ...*Node) {
		for _, c := range cs {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	add(n.a, n.b, n.c, n.d)
	add(n.list...)
	for _, r := range n.rows {
		add(r...)
	}
	for _, p := range n.pieces {
		add(p.Value, p.Cond)
	}
	return out
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
