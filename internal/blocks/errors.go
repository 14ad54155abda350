package blocks

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Split, Stack and Normalize matches one
// of these with errors.Is, or wraps an error from package pad unchanged.
var (
	// ErrShapeMismatch reports a per-axis parameter or block whose length or
	// shape does not agree with the array's dimensionality.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrConfiguration reports an inconsistent combination of parameters.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrCountMismatch reports a different number of blocks and slice
	// descriptors. It is a configuration error.
	ErrCountMismatch = fmt.Errorf("%w: block and descriptor counts differ", ErrConfiguration)

	// ErrIncompleteCoverage reports blocks that leave output cells uncovered
	// or cover some cells more than once.
	ErrIncompleteCoverage = errors.New("blocks do not cover the output exactly once")
)

// ParamError provides detailed information about a rejected parameter.
type ParamError struct {
	Kind    error  // One of the Err* kinds above
	Param   string // Parameter involved (e.g. "nblocks", "pad_width", "blocks")
	Axis    int    // Axis involved, or -1
	Details string // Additional details
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	if e.Axis >= 0 {
		return fmt.Sprintf("%v: %s: axis %d: %s", e.Kind, e.Param, e.Axis, e.Details)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Param, e.Details)
}

// Unwrap returns the error kind so errors.Is matches it.
func (e *ParamError) Unwrap() error {
	return e.Kind
}

func paramErr(kind error, param string, axis int, format string, args ...any) error {
	return &ParamError{Kind: kind, Param: param, Axis: axis, Details: fmt.Sprintf(format, args...)}
}
