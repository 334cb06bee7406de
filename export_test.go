package sympad_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"

	sympad "github.com/njchilds90/gosympad"
	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

func exportImport(t *testing.T, n *ast.Node) *ast.Node {
	t.Helper()
	e, err := sympad.Export(n)
	if err != nil {
		t.Fatalf("export %s: %+v", n, err)
	}
	out, err := sympad.Import(e)
	if err != nil {
		t.Fatalf("import %s: %+v\n%s", e, err, spew.Sdump(e))
	}
	return out
}

func TestExport_Classes(t *testing.T) {
	testCases := []struct {
		name string
		node *ast.Node
		want string
	}{
		{"integer", ast.Num("42"), "Integer"},
		{"float", ast.Num("1.5"), "Float"},
		{"symbol", x, "Symbol"},
		{"pi", ast.Pi, "Pi"},
		{"euler", ast.E(), "Exp1"},
		{"imaginary", ast.I(), "ImaginaryUnit"},
		{"infinity", ast.Infty, "Infinity"},
		{"string", ast.Str("hi"), "Str"},
		{"tuple", ast.Paren(ast.Comma(one, two)), "Tuple"},
		{"list", ast.Brack(one, two), "list"},
		{"sum", ast.Add(x, one), "Add"},
		{"product", ast.Mul(two, x), "Mul"},
		{"power", ast.Pow(x, two), "Pow"},
		{"relation", ast.Eq("<", x, one), "StrictLessThan"},
		{"frozen", ast.Func(ast.FuncNoEval, ast.Add(one, one)), "Frozen"},
		{"matrix", mat22(), "MutableDenseMatrix"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			e, err := sympad.Export(tc.node)
			if err != nil {
				t.Fatalf("export %s: %+v", tc.node, err)
			}
			if got := engine.ClassName(e); got != tc.want {
				t.Errorf("export %s: want class %s, got %s\n%s", tc.node, tc.want, got, spew.Sdump(e))
			}
		})
	}
}

func TestExport_Errors(t *testing.T) {
	testCases := []struct {
		name string
		node *ast.Node
		want error
	}{
		{"undefined function", ast.Func("foo", x), sympad.ErrUndefinedFunction},
		{"opaque text", ast.Text("?", "?", "?"), sympad.ErrMalformedNode},
		{"unknown relation", ast.Eq("~", x, one), sympad.ErrMalformedNode},
		{"missing operand", ast.Add(x, nil), sympad.ErrMalformedNode},
		{"null variable", ast.Var(""), sympad.ErrMalformedNode},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := sympad.Export(tc.node)
			if errors.Cause(err) != tc.want {
				t.Errorf("export %s: want %v, got %+v", tc.node, tc.want, err)
			}
		})
	}
}

func TestExport_UserFunc(t *testing.T) {
	sympad.SetUserFuncs("foo")
	defer sympad.SetUserFuncs()

	n := ast.Func("foo", x)
	e, err := sympad.Export(n)
	if err != nil {
		t.Fatalf("export: %+v", err)
	}
	f, ok := e.(*engine.Fn)
	if !ok || !f.IsUndefined() || f.FuncName() != "foo" {
		t.Fatalf("want undefined function foo, got %s", spew.Sdump(e))
	}

	got, err := sympad.Import(e)
	if err != nil {
		t.Fatalf("import: %+v", err)
	}
	if !got.Equal(n) {
		t.Errorf("diff (-want +got):\n%s", pretty.Compare(n.Tuple(), got.Tuple()))
	}
}

func TestExport_NegatedLiteral(t *testing.T) {
	got := exportImport(t, ast.Minus(ast.Num("5")))
	want := ast.Num("-5")
	if !got.Equal(want) {
		t.Errorf("diff (-want +got):\n%s", pretty.Compare(want.Tuple(), got.Tuple()))
	}
}

func TestExport_DivisionByZero(t *testing.T) {
	e, err := sympad.Export(ast.Div(one, zero))
	if err != nil {
		t.Fatalf("export: %+v", err)
	}
	if e != engine.ComplexInfinity {
		t.Fatalf("want zoo, got %s", spew.Sdump(e))
	}
	got, err := sympad.Import(e)
	if err != nil {
		t.Fatalf("import: %+v", err)
	}
	if !got.Equal(ast.Infty) {
		t.Errorf("want %s, got %s", ast.Infty, got)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		node *ast.Node
		want string
	}{
		{"integer", ast.Num("42"), "42"},
		{"float", ast.Num("1.50"), "1.5"},
		{"sum", ast.Add(x, one), "x + 1"},
		{"product", ast.Mul(two, x), "2 x"},
		{"power", ast.Pow(x, two), "x**2"},
		{"fraction", ast.Div(one, x), "1/x"},
		{"sqrt", ast.Sqrt(x, nil), "sqrt(x)"},
		{"derivative", ast.Diff(ast.Pow(x, two), dx), "d / dx (x**2)"},
		{"definite integral", ast.DefIntg(x, dx, zero, one), `\int_0^1 x dx`},
		{"matrix", mat22(), "{{1, 2}, {3, 4}}"},
		{"vector", ast.Vec(one, two), "{1, 2}"},
		{"relation", ast.Eq("<", x, one), "x < 1"},
		{"frozen", ast.Func(ast.FuncNoEval, x), "%(x)"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			n := exportImport(t, tc.node)
			got, err := sympad.RenderPlain(n)
			if err != nil {
				t.Fatalf("render %s: %+v", n, err)
			}
			if got != tc.want {
				t.Errorf("round trip of %s:\nwant %q\ngot  %q\n%s", tc.node, tc.want, got, pretty.Sprint(n.Tuple()))
			}
		})
	}
}

func TestExportImport_Stable(t *testing.T) {
	plain := func(n *ast.Node) string {
		t.Helper()
		s, err := sympad.RenderPlain(n)
		if err != nil {
			t.Fatalf("render %s: %+v", n, err)
		}
		return s
	}
	testCases := []struct {
		name      string
		node      *ast.Node
		canonical bool // already in the form the engine hands back
	}{
		{"integer", ast.Num("42"), true},
		{"negative integer", ast.Num("-42"), true},
		{"sum", ast.Add(x, one), true},
		{"product", ast.Mul(two, x), true},
		{"power", ast.Pow(x, two), true},
		{"derivative", ast.Diff(ast.Pow(x, two), dx), true},
		{"definite integral", ast.DefIntg(x, dx, zero, one), true},
		{"matrix", mat22(), true},
		{"relation", ast.Eq("<", x, one), true},
		{"padded float", ast.Num("1.50"), false},
		{"negative float", ast.Num("-2.5"), true},
		{"negative float coefficient", ast.Mul(ast.Num("-2.5"), x), false},
		{"negative float exponent", ast.Pow(x, ast.Num("-1.5")), false},
		{"negative float root", ast.Pow(x, ast.Num("-0.5")), false},
		{"float plus negative integer", ast.Add(ast.Num("2.5"), ast.Num("-1")), false},
		{"float times negative integer", ast.Mul(ast.Num("0.5"), ast.Num("-4")), false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			once := exportImport(t, tc.node)
			twice := exportImport(t, once)
			if a, b := plain(once), plain(twice); a != b {
				t.Errorf("round trip of %s is not stable:\nonce  %q\ntwice %q", tc.node, a, b)
			}
			if tc.canonical {
				if a, b := plain(tc.node), plain(once); a != b {
					t.Errorf("round trip changed canonical %s:\nwant %q\ngot  %q", tc.node, a, b)
				}
			}
		})
	}
}
