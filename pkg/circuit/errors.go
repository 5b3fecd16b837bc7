package circuit

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrNotAssembled         = errors.New("netlist is not assembled")
	ErrNonlinearUnsupported = errors.New("nonlinear components are not supported")
	ErrSingularSystem       = errors.New("singular system")
	ErrInvalidTopology      = errors.New("invalid topology")

	errNoUnknowns = errors.New("netlist has no unknowns")
)

// TopologyError collects every problem found in one assembly pass.
// It matches ErrInvalidTopology with errors.Is.
type TopologyError struct {
	Err error
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidTopology, e.Err)
}

func (e *TopologyError) Unwrap() error {
	return e.Err
}

func (e *TopologyError) Is(target error) bool {
	return target == ErrInvalidTopology
}

// Problems returns the individual problems.
func (e *TopologyError) Problems() []error {
	return multierr.Errors(e.Err)
}
