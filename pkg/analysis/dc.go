package analysis

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-mna/pkg/device"
	"github.com/edp1096/toy-mna/pkg/netlist"
)

// Guards the last sweep point against floating point drift
const sweepEpsilon = 1e-9

type DCSweep struct {
	BaseAnalysis
	sourceNames []string        // Names of voltage/current sources to sweep
	startVals   []float64       // Start values for each source
	stopVals    []float64       // Stop values for each source
	increments  []float64       // Incremental value of steps for each source
	sweepVals   [][]float64     // Generated sweep values for each source
	sources     []device.Device // Swept devices, resolved by Setup
	origVals    []float64       // Original values of the sources
}

func NewDCSweep(sources []string, starts, stops []float64, increments []float64) *DCSweep {
	return &DCSweep{
		BaseAnalysis: *NewBaseAnalysis(),
		sourceNames:  sources,
		startVals:    starts,
		stopVals:     stops,
		increments:   increments,
	}
}

// sweepPoints returns start, start+incr, ... up to stop inclusive.
func sweepPoints(start, stop, incr float64) ([]float64, error) {
	if !(incr > 0) || math.IsInf(incr, 0) {
		return nil, fmt.Errorf("increment must be positive and finite, got %g", incr)
	}
	if math.IsNaN(start) || math.IsNaN(stop) || stop < start {
		return nil, fmt.Errorf("invalid sweep range %g..%g", start, stop)
	}

	n := int(math.Floor((stop-start)/incr+sweepEpsilon)) + 1
	points := make([]float64, n)
	for k := range points {
		points[k] = start + float64(k)*incr
	}
	return points, nil
}

func (dc *DCSweep) Setup(topo *netlist.Topology) error {
	n := len(dc.sourceNames)
	if n != len(dc.startVals) || n != len(dc.stopVals) || n != len(dc.increments) {
		return fmt.Errorf("inconsistent parameter lengths")
	}
	if n < 1 || n > 2 {
		return fmt.Errorf("unsupported number of sweep sources: %d", n)
	}
	if err := dc.setup(topo); err != nil {
		return err
	}

	dc.sweepVals = make([][]float64, n)
	dc.sources = make([]device.Device, n)
	dc.origVals = make([]float64, n)

	for i, name := range dc.sourceNames {
		dev, ok := topo.Devices[name]
		if !ok {
			return fmt.Errorf("source %s not found", name)
		}
		switch dev.(type) {
		case *device.VoltageSource, *device.CurrentSource:
		default:
			return fmt.Errorf("%s is not an independent source", name)
		}

		points, err := sweepPoints(dc.startVals[i], dc.stopVals[i], dc.increments[i])
		if err != nil {
			return fmt.Errorf("sweep %s: %w", name, err)
		}
		dc.sweepVals[i] = points
		dc.sources[i] = dev
		// Store original source values
		dc.origVals[i] = dev.GetValue()
	}
	if n == 2 && dc.sources[0] == dc.sources[1] {
		return fmt.Errorf("source %s swept twice", dc.sourceNames[0])
	}

	return nil
}

func (dc *DCSweep) Execute() error {
	if dc.Topology == nil || dc.sources == nil {
		return fmt.Errorf("topology not set")
	}

	dc.results = make(map[string][]float64)
	defer dc.restore()

	if len(dc.sources) == 1 {
		return dc.singleSweep()
	}
	return dc.nestedSweep()
}

// restore puts the original source values back. The netlist still holds the
// last sweep point, so it is reset as well.
func (dc *DCSweep) restore() {
	for i, dev := range dc.sources {
		dev.SetValue(dc.origVals[i])
	}
	dc.Topology.Netlist.Reset()
}

func (dc *DCSweep) singleSweep() error {
	source := dc.sources[0]

	for _, val := range dc.sweepVals[0] {
		source.SetValue(val)

		solution, err := dc.solve()
		if err != nil {
			return fmt.Errorf("at %s=%g: %w", dc.sourceNames[0], val, err)
		}
		dc.results["SWEEP1"] = append(dc.results["SWEEP1"], val)
		dc.store(solution)
	}

	return nil
}

func (dc *DCSweep) nestedSweep() error {
	source1, source2 := dc.sources[0], dc.sources[1]

	for _, val1 := range dc.sweepVals[0] {
		source1.SetValue(val1)

		for _, val2 := range dc.sweepVals[1] {
			source2.SetValue(val2)

			solution, err := dc.solve()
			if err != nil {
				return fmt.Errorf("at %s=%g, %s=%g: %w",
					dc.sourceNames[0], val1, dc.sourceNames[1], val2, err)
			}
			dc.results["SWEEP1"] = append(dc.results["SWEEP1"], val1)
			dc.results["SWEEP2"] = append(dc.results["SWEEP2"], val2)
			dc.store(solution)
		}
	}

	return nil
}
