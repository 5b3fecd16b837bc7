package circuit

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/edp1096/toy-mna/pkg/device"
	"github.com/edp1096/toy-mna/pkg/matrix"
)

// Netlist owns an ordered component list and the system assembled from it.
// A Netlist is not safe for concurrent use.
type Netlist struct {
	devices  []device.Device
	log      logr.Logger
	solver   matrix.Solver
	denseIDs bool

	index    *indexMap
	system   *matrix.System
	solution []float64
}

func New(opts ...Option) *Netlist {
	c := &Netlist{
		log:    logr.Discard(),
		solver: matrix.NewLUSolver(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddComponent appends dev. Validation is deferred to Assemble.
// Any previous assembly and solution are discarded.
func (c *Netlist) AddComponent(dev device.Device) {
	c.devices = append(c.devices, dev)
	c.invalidate()
}

func (c *Netlist) Components() []device.Device {
	return append([]device.Device(nil), c.devices...)
}

// NodeCount is the number of distinct non-ground node ids referenced.
func (c *Netlist) NodeCount() int {
	seen := make(map[int]struct{})
	for _, dev := range c.devices {
		if dev == nil {
			continue
		}
		for _, n := range dev.GetNodes() {
			if n > device.Ground {
				seen[n] = struct{}{}
			}
		}
	}
	return len(seen)
}

// AuxCount is the number of distinct auxiliary branch-current owners.
func (c *Netlist) AuxCount() int {
	seen := make(map[int]struct{})
	for _, dev := range c.devices {
		if b, ok := dev.(device.BranchDevice); ok && b.SourceNum() >= 1 {
			seen[b.SourceNum()] = struct{}{}
		}
	}
	return len(seen)
}

func (c *Netlist) IsLinear() bool {
	for _, dev := range c.devices {
		if dev != nil && !dev.IsLinear() {
			return false
		}
	}
	return true
}

// Reset discards the assembled system and solution. Call it after changing
// a component value in place, so that stale results cannot be read.
func (c *Netlist) Reset() {
	c.invalidate()
}

func (c *Netlist) invalidate() {
	c.index = nil
	c.system = nil
	c.solution = nil
}

// Assemble validates the components and builds A and z from scratch.
// Repeated calls on an unchanged list give bit-identical systems.
func (c *Netlist) Assemble() error {
	c.invalidate()

	idx, err := c.buildIndex()
	if err != nil {
		c.log.V(1).Info("assembly rejected", "error", err.Error())
		return err
	}

	sys := matrix.NewSystem(len(idx.nodeIDs), len(idx.sourceNums))
	for i, dev := range c.devices {
		if err := fold(sys, idx, dev); err != nil {
			return fmt.Errorf("stamping device %s: %w", label(i, dev), err)
		}
	}

	c.index = idx
	c.system = sys
	c.log.V(1).Info("assembled netlist",
		"components", len(c.devices),
		"nodes", sys.Nodes(),
		"branches", sys.Branches())
	return nil
}

type quadrant struct {
	name    string
	stamps  []device.Stamp
	rowNode bool
	colNode bool
}

// fold adds every stamp of dev into sys. G is node x node, B node x branch,
// C branch x node and D branch x branch.
func fold(sys *matrix.System, idx *indexMap, dev device.Device) error {
	quadrants := []quadrant{
		{"G", dev.GStamps(), true, true},
		{"B", dev.BStamps(), true, false},
		{"C", dev.CStamps(), false, true},
		{"D", dev.DStamps(), false, false},
	}

	for _, q := range quadrants {
		for _, s := range q.stamps {
			if (q.rowNode && s.Row == device.Ground) || (q.colNode && s.Col == device.Ground) {
				continue
			}
			i, err := idx.lookup(s.Row, q.rowNode)
			if err != nil {
				return fmt.Errorf("%s stamp: %w", q.name, err)
			}
			j, err := idx.lookup(s.Col, q.colNode)
			if err != nil {
				return fmt.Errorf("%s stamp: %w", q.name, err)
			}
			if err := sys.AddElement(i, j, s.Value); err != nil {
				return fmt.Errorf("%s stamp: %w", q.name, err)
			}
		}
	}

	for _, e := range dev.ZStamps() {
		if !e.Branch && e.Row == device.Ground {
			continue
		}
		i, err := idx.lookup(e.Row, !e.Branch)
		if err != nil {
			return fmt.Errorf("Z stamp: %w", err)
		}
		if err := sys.AddRHS(i, e.Value); err != nil {
			return fmt.Errorf("Z stamp: %w", err)
		}
	}
	return nil
}

// Solve computes x with A*x = z. It needs a current assembly and an all
// linear component list.
func (c *Netlist) Solve() error {
	if c.system == nil {
		return ErrNotAssembled
	}
	for i, dev := range c.devices {
		if !dev.IsLinear() {
			return fmt.Errorf("%w: %s", ErrNonlinearUnsupported, label(i, dev))
		}
	}
	if c.system.Size() == 0 {
		return &TopologyError{Err: errNoUnknowns}
	}

	x, err := c.solver.Solve(c.system)
	if err != nil {
		c.log.V(1).Info("solve failed", "solver", c.solver.Name(), "error", err.Error())
		if errors.Is(err, matrix.ErrSingular) {
			return fmt.Errorf("%w: %w", ErrSingularSystem, err)
		}
		return fmt.Errorf("%s solver: %w", c.solver.Name(), err)
	}

	c.solution = x
	c.log.V(1).Info("solved netlist", "solver", c.solver.Name(), "unknowns", len(x))
	return nil
}

// System returns a copy of the assembled system.
func (c *Netlist) System() (*matrix.System, error) {
	if c.system == nil {
		return nil, ErrNotAssembled
	}
	return c.system.Clone(), nil
}

// NodeIDs lists the node ids of the last assembly in matrix order.
func (c *Netlist) NodeIDs() []int {
	if c.index == nil {
		return nil
	}
	return append([]int(nil), c.index.nodeIDs...)
}

// SourceNums lists the source numbers of the last assembly in matrix order.
func (c *Netlist) SourceNums() []int {
	if c.index == nil {
		return nil
	}
	return append([]int(nil), c.index.sourceNums...)
}

// Solution returns node voltages followed by branch currents. ok is false
// unless a solve succeeded since the last assembly.
func (c *Netlist) Solution() (x []float64, ok bool) {
	if c.solution == nil {
		return nil, false
	}
	return append([]float64(nil), c.solution...), true
}

// NodeVoltages is ordered by ascending node id.
func (c *Netlist) NodeVoltages() ([]float64, bool) {
	if c.solution == nil {
		return nil, false
	}
	return append([]float64(nil), c.solution[:c.system.Nodes()]...), true
}

func (c *Netlist) NodeVoltage(id int) (float64, bool) {
	if c.solution == nil {
		return 0, false
	}
	if id == device.Ground {
		return 0, true
	}
	i, ok := c.index.nodes[id]
	if !ok {
		return 0, false
	}
	return c.solution[i], true
}

// BranchCurrents is ordered by ascending source number. Each current flows
// into the positive terminal of its source.
func (c *Netlist) BranchCurrents() ([]float64, bool) {
	if c.solution == nil {
		return nil, false
	}
	return append([]float64(nil), c.solution[c.system.Nodes():]...), true
}

func (c *Netlist) BranchCurrent(sourceNum int) (float64, bool) {
	if c.solution == nil {
		return 0, false
	}
	i, ok := c.index.sources[sourceNum]
	if !ok {
		return 0, false
	}
	return c.solution[c.system.Nodes()+i], true
}
