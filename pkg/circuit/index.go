package circuit

import (
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"

	"github.com/edp1096/toy-mna/pkg/device"
)

// indexMap maps caller identifiers to matrix indices for one assembly pass.
// Node ids map in ascending order to 0..N-1, source numbers in ascending
// order to N..N+M-1.
type indexMap struct {
	nodeIDs    []int
	sourceNums []int
	nodes      map[int]int
	sources    map[int]int
}

func (m *indexMap) lookup(id int, node bool) (int, error) {
	if node {
		i, ok := m.nodes[id]
		if !ok {
			return 0, fmt.Errorf("node %d is not indexed", id)
		}
		return i, nil
	}
	i, ok := m.sources[id]
	if !ok {
		return 0, fmt.Errorf("source number %d is not indexed", id)
	}
	return len(m.nodeIDs) + i, nil
}

type sensingDevice interface {
	SenseNodes() (int, int)
}

func label(i int, dev device.Device) string {
	if dev == nil {
		return fmt.Sprintf("component #%d", i)
	}
	if name := dev.GetName(); name != "" {
		return name
	}
	return fmt.Sprintf("%s #%d", dev.Kind(), i)
}

// buildIndex validates the component list and builds the identifier maps.
// Every problem found is reported in a single *TopologyError.
func (c *Netlist) buildIndex() (*indexMap, error) {
	var errs error
	m := &indexMap{
		nodes:   make(map[int]int),
		sources: make(map[int]int),
	}
	owners := make(map[int]string)

	for i, dev := range c.devices {
		if dev == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: nil component", label(i, dev)))
			continue
		}
		name := label(i, dev)
		if err := dev.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}

		for _, n := range dev.GetNodes() {
			if n <= device.Ground {
				continue
			}
			if _, seen := m.nodes[n]; !seen {
				m.nodes[n] = -1
				m.nodeIDs = append(m.nodeIDs, n)
			}
		}

		b, ok := dev.(device.BranchDevice)
		if !ok || b.SourceNum() < 1 {
			continue
		}
		num := b.SourceNum()
		if owner, dup := owners[num]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: source number %d is already owned by %s", name, num, owner))
			continue
		}
		owners[num] = name
		m.sourceNums = append(m.sourceNums, num)
	}

	// References can only be checked once every owner is known
	for i, dev := range c.devices {
		if dev == nil {
			continue
		}
		name := label(i, dev)

		if cd, ok := dev.(device.ControlledDevice); ok {
			if dep := cd.ControlSource(); dep >= 1 {
				if _, ok := owners[dep]; !ok {
					errs = multierr.Append(errs, fmt.Errorf("%s: controlling source number %d is not defined", name, dep))
				}
			}
		}

		if sd, ok := dev.(sensingDevice); ok {
			src, sink := sd.SenseNodes()
			for _, n := range []int{src, sink} {
				if n <= device.Ground {
					continue
				}
				if _, ok := m.nodes[n]; !ok {
					errs = multierr.Append(errs, fmt.Errorf("%s: sensing node %d is not a circuit node", name, n))
				}
			}
		}
	}

	slices.Sort(m.nodeIDs)
	slices.Sort(m.sourceNums)

	if c.denseIDs {
		errs = multierr.Append(errs, checkDense("node ids", m.nodeIDs))
		errs = multierr.Append(errs, checkDense("source numbers", m.sourceNums))
	}

	if errs != nil {
		return nil, &TopologyError{Err: errs}
	}

	for i, id := range m.nodeIDs {
		m.nodes[id] = i
	}
	for i, num := range m.sourceNums {
		m.sources[num] = i
	}
	return m, nil
}

// checkDense expects sorted, distinct ids.
func checkDense(what string, ids []int) error {
	for i, id := range ids {
		if id != i+1 {
			return fmt.Errorf("%s must be 1..%d, %d is missing", what, len(ids), i+1)
		}
	}
	return nil
}
