package sympad_test

import (
	"testing"

	sympad "github.com/njchilds90/gosympad"
	"github.com/njchilds90/gosympad/ast"
)

func TestScanPrecision(t *testing.T) {
	testCases := []struct {
		name string
		node *ast.Node
		want int
	}{
		{"no literals", ast.Add(x, y), 15},
		{"short literals", ast.Mul(ast.Num("2.5"), x), 15},
		{"long literal", ast.Num("1.234567890123456789"), 19},
		{"nested", ast.Func("sin", ast.Add(x, ast.Num("3.14159265358979323846"))), 21},
		{"exponent ignored", ast.Num("1.5e123456789012345678"), 15},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := sympad.ScanPrecision(tc.node); got != tc.want {
				t.Errorf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestConfigurePrecision(t *testing.T) {
	defer sympad.ConfigurePrecision(ast.Zero)

	if got := sympad.ConfigurePrecision(ast.Num("1.234567890123456789")); got != 19 {
		t.Errorf("want 19, got %d", got)
	}
	if got := sympad.Precision(); got != 19 {
		t.Errorf("process precision: want 19, got %d", got)
	}
	// a later tree without long literals lowers it again
	sympad.ConfigurePrecision(ast.Add(x, one))
	if got := sympad.Precision(); got != 15 {
		t.Errorf("process precision: want 15, got %d", got)
	}
}
