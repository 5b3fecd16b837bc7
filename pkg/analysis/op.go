package analysis

import (
	"fmt"

	"github.com/edp1096/toy-mna/pkg/netlist"
)

type OperatingPoint struct{ BaseAnalysis }

func NewOP() *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(),
	}
}

func (op *OperatingPoint) Setup(topo *netlist.Topology) error {
	return op.setup(topo)
}

func (op *OperatingPoint) Execute() error {
	if op.Topology == nil {
		return fmt.Errorf("topology not set")
	}

	solution, err := op.solve()
	if err != nil {
		return fmt.Errorf("operating point: %w", err)
	}

	op.results = make(map[string][]float64)
	op.store(solution)
	return nil
}
