package ast

// unlimited is the strip count when none is given.
const unlimited = -1

func stripCount(count []int) int {
	if len(count) == 0 {
		return unlimited
	}
	return count[0]
}

// Neg negates n. Merge mode (stack false) unwraps an existing negation and
// folds the sign into a number literal. Stack mode only folds into a
// positive literal and otherwise always adds a negation layer.
func (n *Node) Neg(stack bool) *Node {
	if stack {
		if n.IsPosNum() {
			return Num("-" + n.str)
		}
		return Minus(n)
	}
	switch {
	case n.Is(OpMinus):
		return n.a
	case !n.Is(OpNum):
		return Minus(n)
	case n.IsNegNum():
		return Num(n.str[1:])
	}
	return Num("-" + n.str)
}

func (n *Node) stripWhile(count []int, ok func(*Node) bool, next func(*Node) *Node) *Node {
	c := stripCount(count)
	for c != 0 && ok(n) {
		n = next(n)
		c--
	}
	return n
}

func first(n *Node) *Node { return n.a }

// StripCurlys unwraps transparent grouping, at most count layers when given.
func (n *Node) StripCurlys(count ...int) *Node {
	return n.stripWhile(count, func(n *Node) bool { return n.Is(OpCurly) }, first)
}

func (n *Node) StripParen(count ...int) *Node {
	return n.stripWhile(count, func(n *Node) bool { return n.Is(OpParen) }, first)
}

// StripParenNoncomma strips parens but keeps one around a bare tuple.
func (n *Node) StripParenNoncomma(count ...int) *Node {
	s := n.StripParen(count...)
	if s.Is(OpComma) && n.Is(OpParen) {
		return Paren(s)
	}
	return s
}

// Strip unwraps both curlys and parens.
func (n *Node) Strip(count ...int) *Node {
	return n.stripWhile(count, func(n *Node) bool { return n.Is(OpCurly, OpParen) }, first)
}

// StripMinus unwraps negations. The returned function re-applies every
// stripped sign as stacked negation, hasNeg records whether any was found.
func (n *Node) StripMinus(count ...int) (stripped *Node, neg func(*Node) *Node, hasNeg bool) {
	neg = func(e *Node) *Node { return e }
	c := stripCount(count)
	for c != 0 && n.Is(OpMinus) {
		n = n.a
		c--
		prev := neg
		neg = func(e *Node) *Node { return prev(e.Neg(true)) }
		hasNeg = true
	}
	return n, neg, hasNeg
}

// StripMLS unwraps the last factor of a product and the body of a limit or
// sum, used to find what a trailing operand really ends with.
func (n *Node) StripMLS(count ...int) *Node {
	return n.stripWhile(count, func(n *Node) bool {
		return n.Is(OpLim, OpSum) || (n.Is(OpMul) && len(n.list) > 0)
	}, func(n *Node) *Node {
		if n.Is(OpMul) {
			return n.list[len(n.list)-1]
		}
		return n.a
	})
}

// StripLimSum unwraps limit and sum bodies only.
func (n *Node) StripLimSum(count ...int) *Node {
	return n.stripWhile(count, func(n *Node) bool { return n.Is(OpLim, OpSum) }, first)
}

// RemoveCurlys drops transparent grouping anywhere in the tree.
func (n *Node) RemoveCurlys() *Node {
	return n.Transform(func(e *Node) *Node {
		if e.Is(OpCurly) {
			return e.StripCurlys().RemoveCurlys()
		}
		return e
	})
}

// FlatCat joins a and b under the associative operator op, splicing in the
// children of either side that already carries op.
func FlatCat(op Op, a, b *Node) *Node {
	var items []*Node
	for _, e := range []*Node{a, b} {
		if e.Is(op) {
			items = append(items, e.list...)
		} else {
			items = append(items, e)
		}
	}
	return listNode(op, items)
}

// Walk visits n and its descendants in pre-order. Returning false from f
// skips the children of that node.
func (n *Node) Walk(f func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f(e) {
			continue
		}
		cs := e.Children()
		for i := len(cs) - 1; i >= 0; i-- {
			stack = append(stack, cs[i])
		}
	}
}

// FreeVars returns the distinct non-constant, non-null variables of the
// tree in order of first occurrence.
func (n *Node) FreeVars() []*Node {
	seen := map[string]bool{}
	var out []*Node
	n.Walk(func(e *Node) bool {
		if e.Is(OpVar) && e.str != "" && !e.IsConstVar() && !seen[e.str] {
			seen[e.str] = true
			out = append(out, e)
		}
		return true
	})
	return out
}

// Replace substitutes dst for every subtree structurally equal to src.
func (n *Node) Replace(src, dst *Node) *Node {
	key := src.Key()
	return n.Transform(func(e *Node) *Node {
		if e.Key() == key {
			return dst
		}
		return e
	})
}

// Transform rebuilds the tree top down: f sees each node first and, when it
// returns the node unchanged, the children are transformed in turn.
func (n *Node) Transform(f func(*Node) *Node) *Node {
	if n == nil {
		return nil
	}
	if r := f(n); r != n {
		return r
	}
	return n.mapChildren(func(c *Node) *Node { return c.Transform(f) })
}

// mapChildren copies n with each child replaced by f(child), returning n
// itself when nothing changed.
func (n *Node) mapChildren(f func(*Node) *Node) *Node {
	changed := false
	m := func(c *Node) *Node {
		if c == nil {
			return nil
		}
		r := f(c)
		if r != c {
			changed = true
		}
		return r
	}
	ml := func(l []*Node) []*Node {
		out := make([]*Node, len(l))
		for i, c := range l {
			out[i] = m(c)
		}
		return out
	}

	cp := *n
	cp.memo = &memo{}
	cp.a, cp.b, cp.c, cp.d = m(n.a), m(n.b), m(n.c), m(n.d)
	if n.hasList {
		cp.list = ml(n.list)
	}
	if n.rows != nil {
		cp.rows = make([][]*Node, len(n.rows))
		for i, r := range n.rows {
			cp.rows[i] = ml(r)
		}
	}
	if n.pieces != nil {
		cp.pieces = make([]Piece, len(n.pieces))
		for i, p := range n.pieces {
			cp.pieces[i] = Piece{Value: m(p.Value), Cond: m(p.Cond)}
		}
	}
	if !changed {
		return n
	}
	return &cp
}
