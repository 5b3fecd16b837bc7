package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-mna/internal/consts"
)

// Ground is the reserved node id. It never appears as a matrix row or column.
const Ground = consts.Ground

// Stamp is one (row, col, value) contribution to a submatrix, in caller
// identifier coordinates. Which identifier space Row and Col live in
// depends on the submatrix: G is node x node, B is node x source,
// C is source x node and D is source x source.
type Stamp struct {
	Row   int
	Col   int
	Value float64
}

// Excitation is one contribution to the right-hand side.
// Branch selects the source rows (Z_e); otherwise Row is a node (Z_i).
type Excitation struct {
	Row    int
	Branch bool
	Value  float64
}

// Kind identifies one of the six supported element kinds.
type Kind int

const (
	KindResistor Kind = iota
	KindVoltageSource
	KindCurrentSource
	KindVCCS
	KindCCCS
	KindCCVS
)

func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "resistor"
	case KindVoltageSource:
		return "voltage source"
	case KindCurrentSource:
		return "current source"
	case KindVCCS:
		return "vccs"
	case KindCCCS:
		return "cccs"
	case KindCCVS:
		return "ccvs"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Device is a circuit element that can describe itself as MNA stamps.
// Every submatrix has its own query so that a kind cannot silently skip one.
type Device interface {
	GetName() string
	GetType() string
	Kind() Kind
	GetNodes() []int // nodes the device's equations touch, ground included
	GetValue() float64
	SetValue(value float64)
	IsLinear() bool
	Validate() error

	GStamps() []Stamp
	BStamps() []Stamp
	CStamps() []Stamp
	DStamps() []Stamp
	ZStamps() []Excitation
}

// BranchDevice is a voltage-defining device. It owns the auxiliary
// branch-current unknown numbered SourceNum.
type BranchDevice interface {
	Device
	SourceNum() int
}

// ControlledDevice is driven by the branch current of another source.
type ControlledDevice interface {
	Device
	ControlSource() int
}

// BaseDevice holds the fields and getters every kind shares.
type BaseDevice struct {
	Name  string
	Nodes []int
	Value float64
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func (d *BaseDevice) GetNodes() []int {
	return d.Nodes
}

func (d *BaseDevice) GetValue() float64 {
	return d.Value
}

func (d *BaseDevice) SetValue(value float64) {
	d.Value = value
}

func (d *BaseDevice) validateNodes() error {
	for _, n := range d.Nodes {
		if n < 0 {
			return fmt.Errorf("negative node id %d", n)
		}
	}
	return nil
}

func (d *BaseDevice) validateValue(what string) error {
	if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
		return fmt.Errorf("%s must be finite, got %g", what, d.Value)
	}
	return nil
}

func validateSourceNum(what string, num int) error {
	if num < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", what, num)
	}
	return nil
}

// addStamp appends a stamp unless either coordinate is ground.
func addStamp(stamps []Stamp, row, col int, value float64) []Stamp {
	if row == Ground || col == Ground {
		return stamps
	}
	return append(stamps, Stamp{Row: row, Col: col, Value: value})
}

// incidence returns the +1/-1 stamps tying a branch to its terminal nodes.
// transpose selects C (source row, node col) over B (node row, source col).
func incidence(sourceNum, positive, negative int, value float64, transpose bool) []Stamp {
	var stamps []Stamp
	if transpose {
		stamps = addStamp(stamps, sourceNum, positive, value)
		stamps = addStamp(stamps, sourceNum, negative, -value)
		return stamps
	}
	stamps = addStamp(stamps, positive, sourceNum, value)
	stamps = addStamp(stamps, negative, sourceNum, -value)
	return stamps
}

var (
	_ Device           = (*Resistor)(nil)
	_ BranchDevice     = (*VoltageSource)(nil)
	_ Device           = (*CurrentSource)(nil)
	_ Device           = (*VCCS)(nil)
	_ ControlledDevice = (*CCCS)(nil)
	_ BranchDevice     = (*CCVS)(nil)
	_ ControlledDevice = (*CCVS)(nil)
)
