package ast

import (
	"regexp"
	"strings"
	"sync"
)

// memo caches derived facts of one node by accessor name. Nodes never change
// after construction so a cached value stays valid for the node's lifetime.
type memo struct {
	mu   sync.Mutex
	vals map[string]interface{}
}

func (n *Node) cached(name string, f func() interface{}) interface{} {
	m := n.memo
	m.mu.Lock()
	if v, ok := m.vals[name]; ok {
		m.mu.Unlock()
		return v
	}
	m.mu.Unlock()

	v := f() // may consult other cached accessors of n, so not under lock

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vals == nil {
		m.vals = map[string]interface{}{}
	}
	if prev, ok := m.vals[name]; ok {
		return prev
	}
	m.vals[name] = v
	return v
}

func (n *Node) cachedBool(name string, f func() bool) bool {
	if n == nil {
		return false
	}
	return n.cached(name, func() interface{} { return f() }).(bool)
}

var (
	recIdentifier = regexp.MustCompile(`^[a-zA-Z_]\w*$`)
	recInt        = regexp.MustCompile(`^-?\d+$`)
	recPosInt     = regexp.MustCompile(`^\d+$`)
	recMantExp    = regexp.MustCompile(`^(-?\d*\.?\d*)[eE](?:(-\d+)|\+?(\d+))$`)

	recTrigh       = regexp.MustCompile(`^a?(?:sin|cos|tan|csc|sec|cot)h?$`)
	recTrighInv    = regexp.MustCompile(`^a(?:sin|cos|tan|csc|sec|cot)h?$`)
	recTrighNonInv = regexp.MustCompile(`^(?:sin|cos|tan|csc|sec|cot)h?$`)
)

// IsIdentifier reports whether s is a plain identifier.
func IsIdentifier(s string) bool { return recIdentifier.MatchString(s) }

// IsIntText reports whether s is an optionally signed run of digits.
func IsIntText(s string) bool { return recInt.MatchString(s) }

// ============================================================
// Numbers
// ============================================================

func (n *Node) IsPosNum() bool {
	return n.Is(OpNum) && n.cachedBool("is_pos_num", func() bool { return !strings.HasPrefix(n.str, "-") })
}

func (n *Node) IsNegNum() bool {
	return n.Is(OpNum) && n.cachedBool("is_neg_num", func() bool { return strings.HasPrefix(n.str, "-") })
}

func (n *Node) IsPosInt() bool {
	return n.Is(OpNum) && n.cachedBool("is_pos_int", func() bool { return recPosInt.MatchString(n.str) })
}

// MantAndExp splits scientific text into mantissa and exponent, exp is ""
// when the literal carries no exponent.
func (n *Node) MantAndExp() (mant, exp string) {
	if !n.Is(OpNum) {
		return "", ""
	}
	v := n.cached("mant_and_exp", func() interface{} {
		m := recMantExp.FindStringSubmatch(n.str)
		if m == nil {
			return [2]string{n.str, ""}
		}
		e := m[2]
		if e == "" {
			e = m[3]
		}
		return [2]string{m[1], e}
	}).([2]string)
	return v[0], v[1]
}

// IsSingleUnit is true for a single digit, a fraction or a single atomic
// variable.
func (n *Node) IsSingleUnit() bool {
	return n.cachedBool("is_single_unit", func() bool {
		switch n.op {
		case OpDiv:
			return true
		case OpNum:
			return len(n.str) == 1
		}
		return n.IsSingleVar()
	})
}

// ============================================================
// Variables
// ============================================================

// varGroups splits a variable name into (differential prefix "d", partial
// prefix "partial", remainder).
func (n *Node) varGroups() [3]string {
	return n.cached("grp", func() interface{} {
		v := n.str
		if rest := strings.TrimPrefix(v, "partial"); rest != v {
			if !startsPrimeOrDigit(rest) {
				return [3]string{"", "partial", rest}
			}
			return [3]string{"", "", v}
		}
		if strings.HasPrefix(v, "d") && !strings.HasPrefix(v, "delta") && !strings.HasPrefix(v, "dpartial") {
			if rest := v[1:]; !startsPrimeOrDigit(rest) {
				return [3]string{"d", "", rest}
			}
		}
		return [3]string{"", "", v}
	}).([3]string)
}

func startsPrimeOrDigit(s string) bool {
	return s != "" && (s[0] == '\'' || (s[0] >= '0' && s[0] <= '9'))
}

func (n *Node) IsNullVar() bool { return n.Is(OpVar) && n.str == "" }

func (n *Node) IsLongVar() bool {
	return n.Is(OpVar) && n.cachedBool("is_long_var", func() bool {
		_, tex := VarTeX[n.str]
		return len(n.str) > 1 && !tex
	})
}

// IsSingleVar is a single atomic variable: one character or a named greek
// letter / constant with a markup spelling.
func (n *Node) IsSingleVar() bool {
	return n.Is(OpVar) && n.cachedBool("is_single_var", func() bool {
		_, tex := VarTeX[n.str]
		return len(n.str) == 1 || tex
	})
}

// IsConstVar consults the registry every call, a toggle must be visible to
// nodes built before it.
func (n *Node) IsConstVar() bool    { return n.Is(OpVar) && IsConst(n.str) }
func (n *Node) IsNonConstVar() bool { return n.Is(OpVar) && !IsConst(n.str) }

func (n *Node) IsDifferential() bool {
	return n.varPred("is_differential", func(g [3]string) bool { return g[0] != "" && g[2] != "" })
}

func (n *Node) IsDiffSolo() bool {
	return n.varPred("is_diff_solo", func(g [3]string) bool { return g[0] != "" && g[2] == "" })
}

func (n *Node) IsDiffAny() bool {
	return n.varPred("is_diff_any", func(g [3]string) bool { return g[0] != "" })
}

func (n *Node) IsPartial() bool {
	return n.varPred("is_partial", func(g [3]string) bool { return g[1] != "" && g[2] != "" })
}

func (n *Node) IsPartSolo() bool {
	return n.varPred("is_part_solo", func(g [3]string) bool { return g[1] != "" && g[2] == "" })
}

func (n *Node) IsPartAny() bool {
	return n.varPred("is_part_any", func(g [3]string) bool { return g[1] != "" })
}

func (n *Node) IsDiffOrPart() bool {
	return n.varPred("is_diff_or_part", func(g [3]string) bool { return (g[0] != "" || g[1] != "") && g[2] != "" })
}

func (n *Node) IsDiffOrPartSolo() bool {
	return n.varPred("is_diff_or_part_solo", func(g [3]string) bool { return (g[0] != "" || g[1] != "") && g[2] == "" })
}

// DiffOrPartType is "d" for dx, "partial" for partialx, else "".
func (n *Node) DiffOrPartType() string {
	if !n.Is(OpVar) {
		return ""
	}
	g := n.varGroups()
	if g[0] != "" {
		return g[0]
	}
	return g[1]
}

// AsVar strips a differential prefix: x, dx, partialx -> x.
func (n *Node) AsVar() *Node {
	if !n.Is(OpVar) || n.str == "" {
		return n
	}
	return n.cached("as_var", func() interface{} { return Var(n.varGroups()[2]) }).(*Node)
}

// AsDiff turns x, dx, partialx into dx.
func (n *Node) AsDiff() *Node {
	if !n.Is(OpVar) || n.str == "" {
		return n
	}
	return n.cached("as_diff", func() interface{} { return Var("d" + n.varGroups()[2]) }).(*Node)
}

func (n *Node) varPred(name string, f func([3]string) bool) bool {
	return n.Is(OpVar) && n.cachedBool(name, func() bool { return f(n.varGroups()) })
}

// AsIdentifier returns the identifier spelled by a num, var, str or a
// product of them, "" when there is none.
func (n *Node) AsIdentifier() string {
	if n == nil {
		return ""
	}
	return n.cached("as_identifier", func() interface{} {
		var name string
		switch n.op {
		case OpNum, OpVar, OpStr:
			name = n.str
		case OpMul:
			var sb strings.Builder
			for _, m := range n.list {
				s := m.AsIdentifier()
				if s == "" {
					return ""
				}
				sb.WriteString(s)
			}
			name = sb.String()
		default:
			return ""
		}
		if !IsIdentifier(name) {
			return ""
		}
		return name
	}).(string)
}

// ============================================================
// Functions, products, derivatives, matrices
// ============================================================

func (n *Node) IsTrighFunc() bool {
	return n.Is(OpFunc) && n.cachedBool("is_trigh_func", func() bool { return recTrigh.MatchString(n.str) })
}

func (n *Node) IsTrighFuncInv() bool {
	return n.Is(OpFunc) && n.cachedBool("is_trigh_func_inv", func() bool { return recTrighInv.MatchString(n.str) })
}

func (n *Node) IsTrighFuncNonInv() bool {
	return n.Is(OpFunc) && n.cachedBool("is_trigh_func_noninv", func() bool { return recTrighNonInv.MatchString(n.str) })
}

func (n *Node) IsEscaped() bool { return n.Is(OpFunc) && strings.HasPrefix(n.str, FuncEscape) }

func (n *Node) Unescaped() string {
	if !n.Is(OpFunc) {
		return ""
	}
	return strings.TrimLeft(n.str, FuncEscape)
}

func (n *Node) IsMulHasAbs() bool {
	return n.Is(OpMul) && n.cachedBool("is_mul_has_abs", func() bool {
		for _, m := range n.list {
			if m.Is(OpAbs) {
				return true
			}
		}
		return false
	})
}

// DiffType is the differential kind ("d" or "partial") of the first
// differentiation variable of a derivative.
func (n *Node) DiffType() string {
	if !n.Is(OpDiff) || len(n.list) == 0 {
		return ""
	}
	dv := n.list[0]
	if dv.Is(OpPow) {
		dv = dv.Base()
	}
	return dv.DiffOrPartType()
}

func (n *Node) Rows() int { return len(n.Mat()) }

func (n *Node) Cols() int {
	if rows := n.Mat(); len(rows) > 0 {
		return len(rows[0])
	}
	return 0
}

// ============================================================
// Structural key
// ============================================================

// Key is the canonical structural serialization of the node. Equal nodes
// have equal keys, so it serves as a map or memoization key.
func (n *Node) Key() string {
	if n == nil {
		return "null"
	}
	return n.cached("key", func() interface{} {
		var sb strings.Builder
		sb.WriteByte('(')
		writeQuoted(&sb, string(n.op))
		sep := func() { sb.WriteString(", ") }
		child := func(c *Node) {
			sep()
			sb.WriteString(c.Key())
		}
		list := func(l []*Node) {
			sep()
			sb.WriteByte('(')
			for i, c := range l {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(c.Key())
			}
			sb.WriteByte(')')
		}
		str := func(s string) {
			sep()
			writeQuoted(&sb, s)
		}

		switch n.op {
		case OpEq:
			str(n.str)
			child(n.a)
			child(n.b)
		case OpNum, OpVar, OpStr:
			str(n.str)
		case OpAttr:
			child(n.a)
			str(n.str)
			if n.hasList {
				list(n.list)
			}
		case OpFunc:
			str(n.str)
			list(n.list)
		case OpLim:
			child(n.a)
			child(n.b)
			child(n.c)
			if n.str != "" {
				str(n.str)
			}
		case OpMat:
			sep()
			sb.WriteByte('(')
			for i, r := range n.rows {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteByte('(')
				for j, c := range r {
					if j > 0 {
						sb.WriteString(", ")
					}
					sb.WriteString(c.Key())
				}
				sb.WriteByte(')')
			}
			sb.WriteByte(')')
		case OpPiece:
			sep()
			sb.WriteByte('(')
			for i, p := range n.pieces {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteByte('(')
				sb.WriteString(p.Value.Key())
				sb.WriteString(", ")
				if p.Cond == nil {
					sb.WriteString("True")
				} else {
					sb.WriteString(p.Cond.Key())
				}
				sb.WriteByte(')')
			}
			sb.WriteByte(')')
		case OpText:
			str(n.tex)
			str(n.nat)
			str(n.py)
		default:
			if n.a != nil || n.op == OpIntg {
				child(n.a)
			}
			for _, c := range []*Node{n.b, n.c, n.d} {
				if c != nil {
					child(c)
				}
			}
			if n.hasList {
				list(n.list)
			}
		}
		sb.WriteByte(')')
		return sb.String()
	}).(string)
}
