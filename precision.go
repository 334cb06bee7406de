package sympad

import (
	"sync"

	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

// precision is the number of significant digits float literals are built
// with. It is shared by every exporter that does not set its own.
var precision = struct {
	sync.Mutex
	digits int
}{digits: engine.DefaultPrecision}

// Precision returns the current process-wide precision.
func Precision() int {
	precision.Lock()
	defer precision.Unlock()
	return precision.digits
}

func setPrecision(digits int) {
	precision.Lock()
	defer precision.Unlock()
	precision.digits = digits
}

// ScanPrecision returns the precision needed to hold every number literal
// of n without loss: the longest digit run, never less than the default.
func ScanPrecision(n *ast.Node) int {
	prec := engine.DefaultPrecision
	n.Walk(func(m *ast.Node) bool {
		if m.Is(ast.OpNum) {
			if d := countDigits(m.Num()); d > prec {
				prec = d
			}
		}
		return true
	})
	return prec
}

// ConfigurePrecision sets the process-wide precision from the literals of
// n and returns it.
func ConfigurePrecision(n *ast.Node) int {
	prec := ScanPrecision(n)
	setPrecision(prec)
	return prec
}

func countDigits(s string) int {
	d := 0
	for _, c := range s {
		if c == 'e' || c == 'E' {
			break
		}
		if c >= '0' && c <= '9' {
			d++
		}
	}
	return d
}
