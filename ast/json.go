package ast

import (
	"encoding/json"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// MarshalJSON encodes the node in tuple form, e.g. ["+",[["#","1"],["@","x"]]].
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Tuple())
}

// UnmarshalJSON decodes the tuple form into n.
func (n *Node) UnmarshalJSON(data []byte) error {
	var t []interface{}
	if err := json.Unmarshal(data, &t); err != nil {
		return errors.Wrap(err, "decode tuple")
	}
	m, err := FromTuple(t)
	if err != nil {
		return err
	}
	*n = *m
	n.memo = &memo{}
	return nil
}

// Unmarshal decodes a single tree.
func Unmarshal(data []byte) (*Node, error) {
	n := &Node{}
	if err := n.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return n, nil
}

// UnmarshalList decodes a JSON array of trees. Every tree is attempted and
// all failures are reported together as a *multierror.Error, one entry per
// bad tree in order. The result keeps the positions of the array: a tree
// that did not decode is left nil.
func UnmarshalList(data []byte) ([]*Node, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode tree list")
	}
	nodes := make([]*Node, len(raw))
	var merr *multierror.Error
	for i, r := range raw {
		n, err := Unmarshal(r)
		if err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "tree %d", i))
			continue
		}
		nodes[i] = n
	}
	return nodes, merr.ErrorOrNil()
}
