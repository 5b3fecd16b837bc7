package circuit

import (
	"github.com/go-logr/logr"

	"github.com/edp1096/toy-mna/pkg/matrix"
)

type Option func(*Netlist)

func WithLogger(log logr.Logger) Option {
	return func(c *Netlist) {
		c.log = log
	}
}

// WithSolver replaces the default dense LU solver.
func WithSolver(s matrix.Solver) Option {
	return func(c *Netlist) {
		if s != nil {
			c.solver = s
		}
	}
}

// WithDenseIDs requires node ids to be exactly 1..N and source numbers
// exactly 1..M. Gaps are reported as invalid topology.
func WithDenseIDs() Option {
	return func(c *Netlist) {
		c.denseIDs = true
	}
}
