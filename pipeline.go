// Package sympad bridges a math expression tree to three display forms and
// to the symbolic engine.
//
// Design goals:
//   - One immutable tree, three independent renderers (markup, plain, script)
//   - Exact literals carried as text until the engine builds numbers
//   - Engine objects imported by class hierarchy, never failing on an
//     unknown object
//   - Process-wide settings changed only inside one locked request
package sympad

import (
	"sync"

	"github.com/davecgh/go-spew/spew"

	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

// LastResult is the variable name that stands for the previous evaluation.
const LastResult = "_"

// requestLock serializes pipelines: precision, user functions and the
// constant spelling are process-wide.
var requestLock sync.Mutex

// Result carries the three renderings of a tree.
type Result struct {
	Markup string
	Plain  string
	Script string

	Node *ast.Node
}

// Pipeline runs validate and evaluate requests. The zero value is usable.
type Pipeline struct {
	Config  *Config
	Metrics *Metrics

	Debug bool
	Logf  func(format string, v ...interface{})

	last *ast.Node
}

func (obj *Pipeline) config() *Config {
	if obj.Config == nil {
		return DefaultConfig()
	}
	return obj.Config
}

func (obj *Pipeline) logf(format string, v ...interface{}) {
	if obj.Logf != nil {
		obj.Logf(format, v...)
	}
}

// Last returns the tree the last evaluation produced, zero before any.
func (obj *Pipeline) Last() *ast.Node {
	requestLock.Lock()
	defer requestLock.Unlock()
	return obj.lastResult()
}

func (obj *Pipeline) lastResult() *ast.Node {
	if obj.last == nil {
		return ast.Zero
	}
	return obj.last
}

// Validate renders n without involving the engine.
func (obj *Pipeline) Validate(n *ast.Node) (*Result, error) {
	requestLock.Lock()
	defer requestLock.Unlock()

	obj.config().apply()
	n = n.Replace(ast.Var(LastResult), obj.lastResult())
	res, err := render(n, Precision())
	obj.Metrics.UpdateRequestsTotal("validate", err != nil)
	return res, err
}

// Evaluate sends n through the engine and renders what comes back. The
// result replaces the last result.
func (obj *Pipeline) Evaluate(n *ast.Node) (*Result, error) {
	requestLock.Lock()
	defer requestLock.Unlock()

	res, err := obj.evaluate(n)
	obj.Metrics.UpdateRequestsTotal("evaluate", err != nil)
	return res, err
}

func (obj *Pipeline) evaluate(n *ast.Node) (*Result, error) {
	cfg := obj.config()
	cfg.apply()

	n = n.Replace(ast.Var(LastResult), obj.lastResult())

	prec := ConfigurePrecision(n)
	if cfg.Precision > prec {
		prec = cfg.Precision
		setPrecision(prec)
	}

	e, err := (&Exporter{Precision: prec}).Export(n)
	if err != nil {
		obj.Metrics.UpdateExportErrors(err)
		return nil, err
	}
	if cfg.Doit {
		e = e.Doit()
	}
	if obj.Debug {
		obj.logf("engine: %s", engine.ClassName(e))
		obj.logf("%s", spew.Sdump(e))
	}

	out, err := Import(e)
	if err != nil {
		return nil, err
	}
	obj.Metrics.AddImportOpaque(countOpaque(out))
	obj.last = out

	return render(out, prec)
}

func render(n *ast.Node, prec int) (*Result, error) {
	res := &Result{Node: n}
	var err error
	if res.Markup, err = RenderMarkupPrec(n, prec); err != nil {
		return nil, err
	}
	if res.Plain, err = RenderPlain(n); err != nil {
		return nil, err
	}
	if res.Script, err = RenderScript(n); err != nil {
		return nil, err
	}
	return res, nil
}

func countOpaque(n *ast.Node) int {
	count := 0
	n.Walk(func(m *ast.Node) bool {
		if m.Is(ast.OpText) {
			count++
		}
		return true
	})
	return count
}
