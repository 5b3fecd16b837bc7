package analysis

import (
	"fmt"

	"github.com/edp1096/toy-mna/pkg/device"
	"github.com/edp1096/toy-mna/pkg/netlist"
)

type Analysis interface {
	Setup(topo *netlist.Topology) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Topology *netlist.Topology
	results  map[string][]float64 // key: variable name, value: result by point
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{results: make(map[string][]float64)}
}

func (a *BaseAnalysis) setup(topo *netlist.Topology) error {
	if topo == nil || topo.Netlist == nil {
		return fmt.Errorf("topology not set")
	}
	a.Topology = topo
	return nil
}

// solve re-assembles the netlist from the current device values and solves it.
func (a *BaseAnalysis) solve() (map[string]float64, error) {
	net := a.Topology.Netlist

	if err := net.Assemble(); err != nil {
		return nil, fmt.Errorf("assembling: %w", err)
	}
	if err := net.Solve(); err != nil {
		return nil, fmt.Errorf("solving: %w", err)
	}
	return a.solution()
}

// solution names every result: V(node), I(source) and I(resistor).
// Source currents flow into the positive terminal.
func (a *BaseAnalysis) solution() (map[string]float64, error) {
	net := a.Topology.Netlist
	solution := make(map[string]float64)

	// Node voltage
	for name, id := range a.Topology.NodeMap {
		v, ok := net.NodeVoltage(id)
		if !ok {
			return nil, fmt.Errorf("no voltage for node %s", name)
		}
		solution[fmt.Sprintf("V(%s)", name)] = v
	}

	// Branch current of voltage source
	for name, num := range a.Topology.BranchMap {
		i, ok := net.BranchCurrent(num)
		if !ok {
			return nil, fmt.Errorf("no branch current for %s", name)
		}
		solution[fmt.Sprintf("I(%s)", name)] = i
	}

	// V = IR -> I = V/R
	for name, dev := range a.Topology.Devices {
		r, ok := dev.(*device.Resistor)
		if !ok {
			continue
		}
		nodes := r.GetNodes()
		v1, _ := net.NodeVoltage(nodes[0])
		v2, _ := net.NodeVoltage(nodes[1])
		solution[fmt.Sprintf("I(%s)", name)] = r.Current(v1, v2)
	}

	return solution, nil
}

func (a *BaseAnalysis) store(solution map[string]float64) {
	for name, value := range solution {
		a.results[name] = append(a.results[name], value)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
