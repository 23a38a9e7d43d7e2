package opt

import "fmt"

// InvalidArgumentError reports a malformed configuration or initial
// observations: wrong shapes, type mismatches, or length mismatches between
// initial points and values. Use errors.Is(err, ErrInvalidArgument) to check
// for this kind.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return "invalid argument"
	}
	return "invalid argument: " + e.Field + " " + e.Reason
}

func (e *InvalidArgumentError) Is(target error) bool {
	_, ok := target.(*InvalidArgumentError)
	return ok
}

// ErrInvalidArgument is a matching target for errors.Is.
var ErrInvalidArgument = &InvalidArgumentError{}

// InvalidObjectiveReturnError reports that the objective produced a non-scalar
// value where a scalar was required. Use errors.Is(err,
// ErrInvalidObjectiveReturn) to check for this kind.
type InvalidObjectiveReturnError struct {
	Got string // Go type of the offending value
}

func (e *InvalidObjectiveReturnError) Error() string {
	if e.Got == "" {
		return "objective must return a scalar"
	}
	return "objective must return a scalar, got " + e.Got
}

func (e *InvalidObjectiveReturnError) Is(target error) bool {
	_, ok := target.(*InvalidObjectiveReturnError)
	return ok
}

// ErrInvalidObjectiveReturn is a matching target for errors.Is.
var ErrInvalidObjectiveReturn = &InvalidObjectiveReturnError{}

func invalidArg(field, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
