package ast_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"

	"github.com/njchilds90/gosympad/ast"
)

func TestJSON_TupleForm(t *testing.T) {
	n := ast.Add(ast.Num("1"), ast.Var("x"))
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %+v", err)
	}
	want := `["+",[["#","1"],["@","x"]]]`
	if string(b) != want {
		t.Errorf("want %s, got %s", want, b)
	}

	got, err := ast.Unmarshal(b)
	if err != nil {
		t.Fatalf("unmarshal: %+v", err)
	}
	if !got.Equal(n) {
		t.Errorf("want %s, got %s", n, got)
	}
}

func TestJSON_PiecewiseCatchAll(t *testing.T) {
	src := `["piece",[[["@","x"],["=","<",["@","x"],["#","0"]]],[["#","0"],true]]]`
	n, err := ast.Unmarshal([]byte(src))
	if err != nil {
		t.Fatalf("unmarshal: %+v", err)
	}
	ps := n.Pieces()
	if len(ps) != 2 || ps[1].Cond != nil {
		t.Fatalf("want catch-all last piece, got %s", n)
	}
	b, _ := json.Marshal(n)
	if string(b) != src {
		t.Errorf("want %s, got %s", src, b)
	}
}

func TestUnmarshalList_SingleError(t *testing.T) {
	nodes, err := ast.UnmarshalList([]byte(`[["#","abc"], ["@","x"]]`))
	merr, ok := err.(*multierror.Error)
	if !ok || len(merr.Errors) != 1 {
		t.Fatalf("want one wrapped error, got %T %v", err, err)
	}
	if len(nodes) != 2 || nodes[0] != nil || nodes[1].Var() != "x" {
		t.Errorf("got %v", nodes)
	}
}

func TestUnmarshalList_AggregatesErrors(t *testing.T) {
	src := `[["#","1"], ["=","<>",["@","x"],["@","y"]], ["@","z"], ["#","abc"]]`
	nodes, err := ast.UnmarshalList([]byte(src))
	if err == nil {
		t.Fatalf("expected errors")
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("want *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("want 2 errors, got %d: %v", len(merr.Errors), err)
	}
	if !strings.Contains(err.Error(), "tree 1") || !strings.Contains(err.Error(), "tree 3") {
		t.Errorf("errors should name trees 1 and 3: %v", err)
	}
	if len(nodes) != 4 || nodes[1] != nil || nodes[3] != nil {
		t.Fatalf("want bad trees left nil in place, got %v", nodes)
	}
	if nodes[0].Num() != "1" || nodes[2].Var() != "z" {
		t.Errorf("want the good trees at their positions, got %v", nodes)
	}
}
