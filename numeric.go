package sympad

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/njchilds90/gosympad/ast"
)

// recDecimal splits a decimal string into sign, significant integer digits,
// trailing integer zeros, point, leading fraction zeros, significant fraction
// digits, trailing fraction zeros, exponent marker and exponent.
var recDecimal = regexp.MustCompile(`^(-?)(\d*[1-9])?(0*)(?:(\.)(0*)(\d*[1-9])?(0*))?(?:([eE])([+-]?\d+))?$`)

// sciThreshold is the implied exponent from which integral values are
// printed in scientific notation.
const sciThreshold = 16

// numLiteral rebuilds the literal text of an engine number from its decimal
// string, dropping trailing fraction zeros and expanding small exponents.
func numLiteral(s string) (*ast.Node, error) {
	m := recDecimal.FindStringSubmatch(s)
	if m == nil || s == "" {
		return nil, errors.Wrapf(ErrNumericAnomaly, "can't decompose %q", s)
	}
	g := m[1:]

	if g[5] != "" {
		return ast.Num(strings.Join(g[:6], "") + strings.Join(g[7:], "")), nil
	}
	if g[1] == "" {
		return ast.Zero, nil
	}

	e := len(g[2])
	if g[8] != "" {
		x, err := strconv.Atoi(g[8])
		if err != nil {
			return nil, errors.Wrapf(ErrNumericAnomaly, "exponent of %q", s)
		}
		e += x
	}

	switch {
	case e >= sciThreshold:
		return ast.Num(g[0] + g[1] + "e+" + strconv.Itoa(e)), nil
	case e >= 0:
		return ast.Num(g[0] + g[1] + strings.Repeat("0", e)), nil
	}
	return ast.Num(g[0] + g[1] + "e" + strconv.Itoa(e)), nil
}
