package ast

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

// ErrMalformed is the cause of every error about a field value outside its
// variant's domain.
var ErrMalformed = errors.New("malformed node")

var recNumText = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

func malformed(op Op, format string, v ...interface{}) error {
	return errors.Wrapf(ErrMalformed, "%s: %s", op, fmt.Sprintf(format, v...))
}

// FromTuple builds a node from its tuple form, the operator tag first:
//
//	[]interface{}{"+", []interface{}{[]interface{}{"#", "1"}, []interface{}{"@", "x"}}}
//
// Children may be given either as nested tuples or as *Node values.
func FromTuple(t []interface{}) (*Node, error) {
	if len(t) == 0 {
		return nil, errors.Wrap(ErrMalformed, "empty tuple")
	}
	op, ok := t[0].(string)
	if !ok {
		return nil, errors.Wrapf(ErrMalformed, "tag is %T, not a string", t[0])
	}
	return New(op, t[1:]...)
}

// New is generic construction. For a known tag it produces exactly the node
// the tag's typed constructor would, after validating the fields.
func New(op string, fields ...interface{}) (*Node, error) {
	if !IsOp(op) {
		return nil, errors.Wrapf(ErrMalformed, "unknown tag %q", op)
	}
	o := Op(op)
	b := &builder{op: o, fields: fields}

	switch o {
	case OpEq:
		b.arity(3, 3)
		rel, lhs, rhs := b.str(0), b.node(1), b.node(2)
		if b.err == nil && !Rels[rel] {
			b.fail("unknown relation %q", rel)
		}
		return b.done(func() *Node { return Eq(rel, lhs, rhs) })

	case OpNum:
		b.arity(1, 1)
		num := b.str(0)
		if b.err == nil && !recNumText.MatchString(num) {
			b.fail("invalid number text %q", num)
		}
		return b.done(func() *Node { return Num(num) })

	case OpVar, OpStr:
		b.arity(1, 1)
		s := b.str(0)
		if o == OpVar {
			return b.done(func() *Node { return Var(s) })
		}
		return b.done(func() *Node { return Str(s) })

	case OpAttr:
		b.arity(2, 3)
		obj, attr := b.node(0), b.str(1)
		if len(fields) == 3 {
			args := b.list(2)
			return b.done(func() *Node { return Method(obj, attr, args...) })
		}
		return b.done(func() *Node { return Attr(obj, attr) })

	case OpComma, OpBrack, OpAdd, OpMul, OpVec:
		b.arity(1, 1)
		items := b.list(0)
		return b.done(func() *Node { return listNode(o, items) })

	case OpCurly, OpParen, OpAbs, OpMinus, OpFact:
		b.arity(1, 1)
		e := b.node(0)
		return b.done(func() *Node { return unary(o, e) })

	case OpDiv:
		b.arity(2, 2)
		n, d := b.node(0), b.node(1)
		return b.done(func() *Node { return Div(n, d) })

	case OpPow:
		b.arity(2, 2)
		base, exp := b.node(0), b.node(1)
		return b.done(func() *Node { return Pow(base, exp) })

	case OpLog, OpSqrt:
		b.arity(1, 2)
		e, opt := b.node(0), b.optNode(1)
		if o == OpLog {
			return b.done(func() *Node { return Log(e, opt) })
		}
		return b.done(func() *Node { return Sqrt(e, opt) })

	case OpFunc:
		b.arity(2, 2)
		name, args := b.str(0), b.list(1)
		return b.done(func() *Node { return Func(name, args...) })

	case OpLim:
		b.arity(3, 4)
		e, lvar, to := b.node(0), b.node(1), b.node(2)
		dir := ""
		if len(fields) == 4 && fields[3] != nil {
			dir = b.str(3)
			if b.err == nil && dir != "+" && dir != "-" {
				b.fail("invalid direction %q", dir)
			}
		}
		return b.done(func() *Node { return Lim(e, lvar, to, dir) })

	case OpSum:
		b.arity(4, 4)
		e, svar, from, to := b.node(0), b.node(1), b.node(2), b.node(3)
		return b.done(func() *Node { return Sum(e, svar, from, to) })

	case OpDiff:
		b.arity(2, 2)
		e, dvs := b.node(0), b.list(1)
		return b.done(func() *Node { return Diff(e, dvs...) })

	case OpIntg:
		if len(fields) != 2 && len(fields) != 4 {
			b.fail("want 2 or 4 fields, got %d", len(fields))
		}
		e, dv := b.optNode(0), b.node(1)
		if len(fields) == 4 {
			from, to := b.node(2), b.node(3)
			return b.done(func() *Node { return DefIntg(e, dv, from, to) })
		}
		return b.done(func() *Node { return Intg(e, dv) })

	case OpMat:
		b.arity(1, 1)
		rows := b.rows(0)
		return b.done(func() *Node { return Mat(rows...) })

	case OpPiece:
		b.arity(1, 1)
		pieces := b.pieces(0)
		return b.done(func() *Node { return Piecewise(pieces...) })

	case OpLamb:
		b.arity(2, 2)
		body, vars := b.node(0), b.list(1)
		return b.done(func() *Node { return Lamb(body, vars...) })

	case OpIdx:
		b.arity(2, 2)
		obj, idx := b.node(0), b.list(1)
		return b.done(func() *Node { return Idx(obj, idx...) })

	case OpText:
		b.arity(3, 3)
		tex, nat, py := b.str(0), b.str(1), b.str(2)
		return b.done(func() *Node { return Text(tex, nat, py) })
	}

	return nil, errors.Wrapf(ErrMalformed, "unhandled tag %q", op)
}

// builder decodes positional fields, remembering the first problem.
type builder struct {
	op     Op
	fields []interface{}
	err    error
}

func (b *builder) fail(format string, v ...interface{}) {
	if b.err == nil {
		b.err = malformed(b.op, format, v...)
	}
}

func (b *builder) arity(lo, hi int) {
	if n := len(b.fields); n < lo || n > hi {
		if lo == hi {
			b.fail("want %d fields, got %d", lo, n)
		} else {
			b.fail("want %d to %d fields, got %d", lo, hi, n)
		}
	}
}

func (b *builder) field(i int) interface{} {
	if i >= len(b.fields) {
		return nil
	}
	return b.fields[i]
}

func (b *builder) str(i int) string {
	s, ok := b.field(i).(string)
	if !ok {
		b.fail("field %d is %T, not a string", i, b.field(i))
	}
	return s
}

func (b *builder) node(i int) *Node {
	n := b.toNode(b.field(i))
	if n == nil {
		b.fail("field %d is missing", i)
	}
	return n
}

func (b *builder) optNode(i int) *Node { return b.toNode(b.field(i)) }

func (b *builder) toNode(v interface{}) *Node {
	switch x := v.(type) {
	case nil:
		return nil
	case *Node:
		return x
	case []interface{}:
		n, err := FromTuple(x)
		if err != nil && b.err == nil {
			b.err = err
		}
		return n
	}
	b.fail("%T is not a node", v)
	return nil
}

func (b *builder) list(i int) []*Node {
	switch x := b.field(i).(type) {
	case []*Node:
		return x
	case []interface{}:
		out := make([]*Node, 0, len(x))
		for j, v := range x {
			n := b.toNode(v)
			if n == nil {
				b.fail("field %d item %d is missing", i, j)
			}
			out = append(out, n)
		}
		return out
	case nil:
		return nil
	default:
		b.fail("field %d is %T, not a list", i, x)
	}
	return nil
}

func (b *builder) rows(i int) [][]*Node {
	var raw []interface{}
	switch x := b.field(i).(type) {
	case [][]*Node:
		raw = make([]interface{}, len(x))
		for j, r := range x {
			raw[j] = r
		}
	case []interface{}:
		raw = x
	default:
		b.fail("field %d is %T, not a list of rows", i, x)
		return nil
	}

	rows := make([][]*Node, 0, len(raw))
	for j, r := range raw {
		sub := &builder{op: b.op, fields: []interface{}{r}}
		row := sub.list(0)
		if sub.err != nil && b.err == nil {
			b.err = sub.err
		}
		if j > 0 && len(row) != len(rows[0]) {
			b.fail("row %d has %d columns, want %d", j, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	return rows
}

func (b *builder) pieces(i int) []Piece {
	switch x := b.field(i).(type) {
	case []Piece:
		b.checkPieces(x)
		return x
	case []interface{}:
		out := make([]Piece, 0, len(x))
		for j, v := range x {
			pair, ok := v.([]interface{})
			if !ok || len(pair) != 2 {
				b.fail("piece %d is not a (value, condition) pair", j)
				continue
			}
			p := Piece{Value: b.toNode(pair[0])}
			if c, ok := pair[1].(bool); !ok || !c {
				p.Cond = b.toNode(pair[1])
			}
			if p.Value == nil {
				b.fail("piece %d has no value", j)
			}
			out = append(out, p)
		}
		b.checkPieces(out)
		return out
	default:
		b.fail("field %d is %T, not a list of pieces", i, x)
	}
	return nil
}

func (b *builder) checkPieces(ps []Piece) {
	for j, p := range ps {
		if p.Cond == nil && j != len(ps)-1 {
			b.fail("catch-all piece %d is not last", j)
		}
	}
}

func (b *builder) done(f func() *Node) (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	return f(), nil
}

// Tuple is the inverse of FromTuple: nested []interface{} with strings for
// text fields and true for a catch-all piece condition.
func (n *Node) Tuple() []interface{} {
	if n == nil {
		return nil
	}
	t := []interface{}{string(n.op)}
	node := func(c *Node) interface{} {
		if c == nil {
			return nil
		}
		return c.Tuple()
	}
	list := func(l []*Node) []interface{} {
		out := make([]interface{}, len(l))
		for i, c := range l {
			out[i] = c.Tuple()
		}
		return out
	}

	switch n.op {
	case OpEq:
		return append(t, n.str, node(n.a), node(n.b))
	case OpNum, OpVar, OpStr:
		return append(t, n.str)
	case OpAttr:
		t = append(t, node(n.a), n.str)
		if n.hasList {
			t = append(t, list(n.list))
		}
		return t
	case OpComma, OpBrack, OpAdd, OpMul, OpVec:
		return append(t, list(n.list))
	case OpCurly, OpParen, OpAbs, OpMinus, OpFact:
		return append(t, node(n.a))
	case OpDiv, OpPow:
		return append(t, node(n.a), node(n.b))
	case OpLog, OpSqrt:
		t = append(t, node(n.a))
		if n.b != nil {
			t = append(t, node(n.b))
		}
		return t
	case OpFunc:
		return append(t, n.str, list(n.list))
	case OpLim:
		t = append(t, node(n.a), node(n.b), node(n.c))
		if n.str != "" {
			t = append(t, n.str)
		}
		return t
	case OpSum:
		return append(t, node(n.a), node(n.b), node(n.c), node(n.d))
	case OpDiff, OpLamb, OpIdx:
		return append(t, node(n.a), list(n.list))
	case OpIntg:
		t = append(t, node(n.a), node(n.b))
		if n.c != nil {
			t = append(t, node(n.c), node(n.d))
		}
		return t
	case OpMat:
		rows := make([]interface{}, len(n.rows))
		for i, r := range n.rows {
			rows[i] = list(r)
		}
		return append(t, rows)
	case OpPiece:
		ps := make([]interface{}, len(n.pieces))
		for i, p := range n.pieces {
			var c interface{} = true
			if p.Cond != nil {
				c = p.Cond.Tuple()
			}
			ps[i] = []interface{}{p.Value.Tuple(), c}
		}
		return append(t, ps)
	case OpText:
		return append(t, n.tex, n.nat, n.py)
	}
	return t
}
