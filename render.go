package sympad

import (
	"strings"

	"github.com/njchilds90/gosympad/ast"
)

// renderer carries the dispatch table of one output form and the first error
// met while walking a tree. Once err is set every further call returns "".
type renderer struct {
	form  string
	funcs map[ast.Op]func(*ast.Node) string
	err   error
}

func (obj *renderer) s(n *ast.Node) string {
	if obj.err != nil {
		return ""
	}
	if n == nil {
		obj.fail("%s: missing operand", obj.form)
		return ""
	}
	f, ok := obj.funcs[n.Op()]
	if !ok {
		obj.fail("%s: no rendering for tag %q", obj.form, n.Op())
		return ""
	}
	return f(n)
}

func (obj *renderer) fail(format string, v ...interface{}) {
	if obj.err == nil {
		obj.err = malformed(format, v...)
	}
}

func (obj *renderer) run(n *ast.Node) (string, error) {
	s := obj.s(n)
	if obj.err != nil {
		return "", obj.err
	}
	return s, nil
}

// join renders each node and joins the results with sep.
func (obj *renderer) join(ns []*ast.Node, sep string) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = obj.s(n)
	}
	return strings.Join(ss, sep)
}

// rel checks and returns the relation of an equality node.
func (obj *renderer) rel(n *ast.Node) string {
	if !ast.Rels[n.Rel()] {
		obj.fail("%s: unknown relation %q", obj.form, n.Rel())
	}
	return n.Rel()
}

// isNeg is true for nodes that print with a leading minus sign.
func isNeg(n *ast.Node) bool {
	switch {
	case n.Is(ast.OpMinus), n.IsNegNum():
		return true
	case n.Is(ast.OpMul):
		if ms := n.Muls(); len(ms) > 0 {
			return isNeg(ms[0])
		}
	}
	return false
}

func stripMinus(n *ast.Node) *ast.Node {
	s, _, _ := n.StripMinus()
	return s
}

// funcArgs is the single argument of a call or the tuple of all of them.
func funcArgs(args []*ast.Node) *ast.Node {
	if len(args) == 1 {
		return args[0]
	}
	return ast.Comma(args...)
}

// keywordArg returns the keyword name of an assignment argument whose left
// side is a bare identifier.
func keywordArg(n *ast.Node) (string, bool) {
	if !n.IsAss() || !n.Lhs().Is(ast.OpVar) {
		return "", false
	}
	name := n.Lhs().AsIdentifier()
	return name, name != ""
}

func trailComma(n int) string {
	if n == 1 {
		return ","
	}
	return ""
}

// quote writes s as a single quoted string literal, switching to double
// quotes when only that avoids escaping.
func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\' || r == rune(q):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
