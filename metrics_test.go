package sympad_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	sympad "github.com/njchilds90/gosympad"
	"github.com/njchilds90/gosympad/ast"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := &sympad.Metrics{Registerer: reg}
	if err := m.Init(); err != nil {
		t.Fatalf("init: %+v", err)
	}

	p := &sympad.Pipeline{Metrics: m}
	if _, err := p.Evaluate(ast.Add(x, one)); err != nil {
		t.Fatalf("evaluate: %+v", err)
	}
	if _, err := p.Evaluate(ast.Func("foo", x)); err == nil {
		t.Fatal("want an undefined function error")
	}
	if _, err := p.Validate(ast.Eq("~", x, one)); err == nil {
		t.Fatal("want a malformed node error")
	}

	expected := `
# HELP sympad_export_errors_total Number of failed exports.
# TYPE sympad_export_errors_total counter
sympad_export_errors_total{kind="undefined_function"} 1
# HELP sympad_requests_total Number of pipeline requests served.
# TYPE sympad_requests_total counter
sympad_requests_total{errorful="false",mode="evaluate"} 1
sympad_requests_total{errorful="true",mode="evaluate"} 1
sympad_requests_total{errorful="true",mode="validate"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "sympad_requests_total", "sympad_export_errors_total")
	if err != nil {
		t.Errorf("%+v", err)
	}
}

func TestMetrics_DoubleInit(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := (&sympad.Metrics{Registerer: reg}).Init(); err != nil {
		t.Fatalf("init: %+v", err)
	}
	if err := (&sympad.Metrics{Registerer: reg}).Init(); err == nil {
		t.Error("want a registration error")
	}
}

func TestMetrics_Nil(t *testing.T) {
	var m *sympad.Metrics
	m.UpdateRequestsTotal("evaluate", false)
	m.AddImportOpaque(3)
	m.UpdateExportErrors(sympad.ErrMalformedNode)
}
