package circuit_test

import (
	"errors"
	"fmt"

	"github.com/edp1096/toy-mna/pkg/circuit"
	"github.com/edp1096/toy-mna/pkg/device"
)

func ExampleNetlist() {
	net := circuit.New()
	net.AddComponent(device.NewVoltageSource("V1", 1, 1, 0, 1))
	net.AddComponent(device.NewResistor("R1", 1, 2, 5))
	net.AddComponent(device.NewResistor("R2", 2, 0, 10))
	net.AddComponent(device.NewCurrentSource("I1", 0, 2, 1))

	if err := net.Assemble(); err != nil {
		fmt.Println(err)
		return
	}
	if err := net.Solve(); err != nil {
		fmt.Println(err)
		return
	}

	v, _ := net.NodeVoltages()
	i, _ := net.BranchCurrent(1)
	fmt.Printf("V(1)=%.3f V(2)=%.3f I(V1)=%.3f\n", v[0], v[1], i)
	// Output:
	// V(1)=1.000 V(2)=4.000 I(V1)=0.600
}

func ExampleTopologyError() {
	net := circuit.New(circuit.WithDenseIDs())
	net.AddComponent(device.NewVoltageSource("V1", 1, 1, 0, 1))
	net.AddComponent(device.NewResistor("R1", 1, 3, 0))
	net.AddComponent(device.NewCCCS("F1", 4, 3, 0, 2))

	err := net.Assemble()
	fmt.Println(errors.Is(err, circuit.ErrInvalidTopology))

	var topo *circuit.TopologyError
	if errors.As(err, &topo) {
		for _, p := range topo.Problems() {
			fmt.Println(p)
		}
	}
	// Output:
	// true
	// R1: resistance must be non-zero
	// F1: controlling source number 4 is not defined
	// node ids must be 1..2, 2 is missing
}
