package sympad

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/njchilds90/gosympad/ast"
)

// Request modes.
const (
	ModeValidate = "validate"
	ModeEvaluate = "evaluate"
)

// Request asks for one tree, in JSON tuple form, to be validated or
// evaluated. Idx is echoed back so a client can match responses.
type Request struct {
	Mode string          `json:"mode"`
	Tree json.RawMessage `json:"tree"`
	Idx  json.RawMessage `json:"idx,omitempty"`
}

// Response holds the three renderings or the error lines of a failed
// request.
type Response struct {
	Mode   string          `json:"mode"`
	Idx    json.RawMessage `json:"idx,omitempty"`
	Tex    string          `json:"tex,omitempty"`
	Simple string          `json:"simple,omitempty"`
	Py     string          `json:"py,omitempty"`
	Err    []string        `json:"err,omitempty"`
}

// Handle decodes and runs one request. Failures are reported in the
// response, never returned.
func (obj *Pipeline) Handle(req Request) Response {
	n, err := ast.Unmarshal(req.Tree)
	if err != nil {
		return failed(req.Mode, req.Idx, err)
	}
	return obj.handle(req.Mode, req.Idx, n)
}

// HandleList runs every tree of a JSON array in one mode. The responses line
// up with the array and carry its positions as idx. A tree that doesn't
// decode gets an error response in its own place. Only an input that is not
// an array at all is an error.
func (obj *Pipeline) HandleList(mode string, data []byte) ([]Response, error) {
	nodes, err := ast.UnmarshalList(data)
	if nodes == nil && err != nil {
		return nil, err
	}
	var bad []error
	if merr, ok := err.(*multierror.Error); ok {
		bad = merr.Errors
	}

	resps := make([]Response, len(nodes))
	for i, n := range nodes {
		idx := json.RawMessage(strconv.Itoa(i))
		if n == nil {
			err := errors.Errorf("tree %d did not decode", i)
			if len(bad) > 0 {
				err, bad = bad[0], bad[1:]
			}
			resps[i] = failed(mode, idx, err)
			continue
		}
		resps[i] = obj.handle(mode, idx, n)
	}
	return resps, nil
}

func (obj *Pipeline) handle(mode string, idx json.RawMessage, n *ast.Node) Response {
	var res *Result
	var err error
	switch mode {
	case ModeValidate:
		res, err = obj.Validate(n)
	case ModeEvaluate:
		res, err = obj.Evaluate(n)
	default:
		err = errors.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return failed(mode, idx, err)
	}
	return Response{Mode: mode, Idx: idx, Tex: res.Markup, Simple: res.Plain, Py: res.Script}
}

// failed is the response to a request that could not be run.
func failed(mode string, idx json.RawMessage, err error) Response {
	return Response{
		Mode: mode,
		Idx:  idx,
		Err:  strings.Split(strings.TrimSpace(fmt.Sprintf("%+v", err)), "\n"),
	}
}
