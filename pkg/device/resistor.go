package device

import (
	"fmt"
)

type Resistor struct {
	BaseDevice
}

func NewResistor(name string, a, b int, resistance float64) *Resistor {
	return &Resistor{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: []int{a, b},
			Value: resistance,
		},
	}
}

func (r *Resistor) GetType() string { return "R" }
func (r *Resistor) Kind() Kind      { return KindResistor }
func (r *Resistor) IsLinear() bool  { return true }

func (r *Resistor) Validate() error {
	if err := r.validateNodes(); err != nil {
		return err
	}
	if err := r.validateValue("resistance"); err != nil {
		return err
	}
	if r.Value == 0 {
		return fmt.Errorf("resistance must be non-zero")
	}
	return nil
}

// Conductance G = 1/R
func (r *Resistor) Conductance() float64 {
	return 1.0 / r.Value
}

func (r *Resistor) GStamps() []Stamp {
	a, b := r.Nodes[0], r.Nodes[1]
	g := r.Conductance()

	var stamps []Stamp
	stamps = addStamp(stamps, a, a, g)
	stamps = addStamp(stamps, b, b, g)
	stamps = addStamp(stamps, a, b, -g)
	stamps = addStamp(stamps, b, a, -g)
	return stamps
}

func (r *Resistor) BStamps() []Stamp      { return nil }
func (r *Resistor) CStamps() []Stamp      { return nil }
func (r *Resistor) DStamps() []Stamp      { return nil }
func (r *Resistor) ZStamps() []Excitation { return nil }

// Current returns the current flowing from node a to node b for the given
// terminal voltages.
func (r *Resistor) Current(va, vb float64) float64 {
	return (va - vb) / r.Value
}
