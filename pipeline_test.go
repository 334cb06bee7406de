package sympad_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"

	sympad "github.com/njchilds90/gosympad"
	"github.com/njchilds90/gosympad/ast"
)

func TestPipeline_Evaluate(t *testing.T) {
	testCases := []struct {
		name string
		node *ast.Node
		want sympad.Result
	}{
		{
			name: "sum",
			node: ast.Add(x, one),
			want: sympad.Result{Markup: "x + 1", Plain: "x + 1", Script: "x + 1"},
		},
		{
			name: "derivative",
			node: ast.Diff(ast.Pow(x, two), dx),
			want: sympad.Result{Markup: "2 x", Plain: "2 x", Script: "2*x"},
		},
		{
			name: "definite integral",
			node: ast.DefIntg(x, dx, zero, one),
			want: sympad.Result{Markup: `\frac{1}{2}`, Plain: "1/2", Script: "1/2"},
		},
		{
			name: "negated literal",
			node: ast.Minus(ast.Num("5")),
			want: sympad.Result{Markup: "-5", Plain: "-5", Script: "-5"},
		},
		{
			name: "division by zero",
			node: ast.Div(one, zero),
			want: sympad.Result{Markup: `\infty`, Plain: "oo", Script: "oo"},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := &sympad.Pipeline{}
			res, err := p.Evaluate(tc.node)
			if err != nil {
				t.Fatalf("evaluate %s: %+v", tc.node, err)
			}
			got := sympad.Result{Markup: res.Markup, Plain: res.Plain, Script: res.Script}
			if diff := pretty.Compare(tc.want, got); diff != "" {
				t.Errorf("evaluate %s: diff (-want +got):\n%s", tc.node, diff)
			}
		})
	}
}

func TestPipeline_EvaluateMixedSignFloat(t *testing.T) {
	defer sympad.ConfigurePrecision(ast.Zero)
	testCases := []struct {
		name string
		node *ast.Node
		want string
	}{
		{"add negative integer", ast.Add(ast.Num("2.5"), ast.Num("-1")), "1.5"},
		{"multiply negative integer", ast.Mul(ast.Num("0.5"), ast.Num("-4")), "-2"},
		{"negative coefficient", ast.Mul(ast.Num("-2.5"), x), "-2.5*x"},
		{"negative root", ast.Pow(x, ast.Num("-0.5")), "1 / sqrt(x)"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			res, err := (&sympad.Pipeline{}).Evaluate(tc.node)
			if err != nil {
				t.Fatalf("evaluate %s: %+v", tc.node, err)
			}
			if res.Script != tc.want {
				t.Errorf("evaluate %s: want %q, got %q", tc.node, tc.want, res.Script)
			}
		})
	}
}

func TestPipeline_LastResult(t *testing.T) {
	p := &sympad.Pipeline{}
	last := ast.Var(sympad.LastResult)

	res, err := p.Validate(last)
	if err != nil {
		t.Fatalf("validate: %+v", err)
	}
	if res.Plain != "0" {
		t.Errorf("before any evaluation: want 0, got %q", res.Plain)
	}

	if _, err := p.Evaluate(ast.Add(x, one)); err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	res, err = p.Validate(last)
	if err != nil {
		t.Fatalf("validate: %+v", err)
	}
	if res.Plain != "x + 1" {
		t.Errorf("want x + 1, got %q", res.Plain)
	}

	// validation leaves the last result alone
	if _, err := p.Validate(ast.Var("y")); err != nil {
		t.Fatalf("validate: %+v", err)
	}
	res, err = p.Evaluate(ast.Mul(two, last))
	if err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if res.Script != "2*x + 2" && res.Script != "2*(x + 1)" {
		t.Errorf("got %q", res.Script)
	}
}

func TestPipeline_Config(t *testing.T) {
	defer sympad.SetUserFuncs()
	defer ast.SetEngineEI(false)

	p := &sympad.Pipeline{Config: &sympad.Config{UserFuncs: []string{"f"}, EngineEI: true, Doit: true}}
	res, err := p.Evaluate(ast.Func("f", x))
	if err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if res.Plain != "f(x)" {
		t.Errorf("want f(x), got %q", res.Plain)
	}

	res, err = p.Evaluate(ast.E())
	if err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if res.Script != "E" {
		t.Errorf("want E, got %q", res.Script)
	}

	// a pipeline without user functions rejects the call
	_, err = (&sympad.Pipeline{}).Evaluate(ast.Func("f", x))
	if errors.Cause(err) != sympad.ErrUndefinedFunction {
		t.Errorf("want undefined function, got %+v", err)
	}
}

func TestPipeline_Precision(t *testing.T) {
	p := &sympad.Pipeline{}
	res, err := p.Evaluate(ast.Num("1.234567890123456789"))
	if err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if res.Plain != "1.234567890123456789" {
		t.Errorf("want every digit kept, got %q", res.Plain)
	}
	if got := sympad.Precision(); got != 19 {
		t.Errorf("precision: want 19, got %d", got)
	}

	p.Config = &sympad.Config{Precision: 30, Doit: true}
	if _, err := p.Evaluate(x); err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if got := sympad.Precision(); got != 30 {
		t.Errorf("precision: want 30, got %d", got)
	}
	sympad.ConfigurePrecision(ast.Zero)
}

func TestPipeline_Debug(t *testing.T) {
	var logged []string
	p := &sympad.Pipeline{
		Debug: true,
		Logf: func(format string, v ...interface{}) {
			logged = append(logged, fmt.Sprintf(format, v...))
		},
	}
	if _, err := p.Evaluate(ast.Add(x, one)); err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if len(logged) == 0 || logged[0] != "engine: Add" {
		t.Errorf("got %q", logged)
	}
}

func TestPipeline_Handle(t *testing.T) {
	testCases := []struct {
		name    string
		request string
		want    sympad.Response
	}{
		{
			name:    "validate",
			request: `{"mode":"validate","tree":["/",["#","1"],["@","x"]],"idx":7}`,
			want: sympad.Response{
				Mode:   "validate",
				Idx:    json.RawMessage("7"),
				Tex:    `\frac{1}{x}`,
				Simple: "1/x",
				Py:     "1/x",
			},
		},
		{
			name:    "evaluate",
			request: `{"mode":"evaluate","tree":["+",[["@","x"],["@","x"]]]}`,
			want: sympad.Response{
				Mode:   "evaluate",
				Tex:    "2 x",
				Simple: "2 x",
				Py:     "2*x",
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var req sympad.Request
			if err := json.Unmarshal([]byte(tc.request), &req); err != nil {
				t.Fatalf("decode request: %+v", err)
			}
			got := (&sympad.Pipeline{}).Handle(req)
			if diff := pretty.Compare(tc.want, got); diff != "" {
				t.Errorf("diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPipeline_HandleList(t *testing.T) {
	src := `[["@","x"], ["?","x"], ["#","2"], ["#","abc"], ["/",["#","1"],["@","x"]]]`
	resps, err := (&sympad.Pipeline{}).HandleList(sympad.ModeValidate, []byte(src))
	if err != nil {
		t.Fatalf("handle: %+v", err)
	}
	if len(resps) != 5 {
		t.Fatalf("want a response per tree, got %d", len(resps))
	}
	for i, resp := range resps {
		if string(resp.Idx) != fmt.Sprint(i) {
			t.Errorf("response %d carries idx %s", i, resp.Idx)
		}
	}
	for i, want := range map[int]string{0: "x", 2: "2", 4: "1/x"} {
		if resps[i].Simple != want || resps[i].Err != nil {
			t.Errorf("response %d: want %q, got %+v", i, want, resps[i])
		}
	}
	for _, i := range []int{1, 3} {
		errs := strings.Join(resps[i].Err, "\n")
		if !strings.Contains(errs, fmt.Sprintf("tree %d", i)) || resps[i].Simple != "" {
			t.Errorf("response %d: want its own decode error, got %+v", i, resps[i])
		}
	}

	if _, err := (&sympad.Pipeline{}).HandleList(sympad.ModeValidate, []byte(`{"not":"a list"}`)); err == nil {
		t.Error("want an error for input that is not an array")
	}
}

func TestPipeline_HandleErrors(t *testing.T) {
	testCases := []struct {
		name    string
		request string
		want    string
	}{
		{"unknown mode", `{"mode":"simplify","tree":["@","x"]}`, `unknown mode "simplify"`},
		{"bad tree", `{"mode":"validate","tree":["?","x"]}`, "unknown tag"},
		{"undefined function", `{"mode":"evaluate","tree":["func","foo",[["@","x"]]]}`, "not defined"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var req sympad.Request
			if err := json.Unmarshal([]byte(tc.request), &req); err != nil {
				t.Fatalf("decode request: %+v", err)
			}
			got := (&sympad.Pipeline{}).Handle(req)
			if !strings.Contains(strings.Join(got.Err, "\n"), tc.want) {
				t.Errorf("want an error containing %q, got %q", tc.want, got.Err)
			}
			if got.Tex != "" || got.Simple != "" || got.Py != "" {
				t.Errorf("failed request carries renderings: %+v", got)
			}
		})
	}
}
