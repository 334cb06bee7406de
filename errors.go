package sympad

import (
	"github.com/pkg/errors"
)

// Error kinds surfaced by the renderers and the engine bridge. Callers test
// with errors.Cause.
var (
	// ErrUndefinedFunction is returned when a call names neither an engine
	// function, a builtin nor a registered user function.
	ErrUndefinedFunction = errors.New("undefined function")

	// ErrMalformedNode is returned for a node whose fields are outside the
	// domain of its tag.
	ErrMalformedNode = errors.New("malformed node")

	// ErrNumericAnomaly is returned when an engine number does not
	// decompose into a decimal literal.
	ErrNumericAnomaly = errors.New("numeric reconstruction anomaly")
)

func malformed(format string, v ...interface{}) error {
	return errors.Wrapf(ErrMalformedNode, format, v...)
}
