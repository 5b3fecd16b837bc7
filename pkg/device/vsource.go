package device

type VoltageSource struct {
	BaseDevice
	// Branch index for MNA
	sourceNum int
}

// NewVoltageSource returns an independent source forcing
// V(positive) - V(negative) = voltage. Its branch current is unknown number
// sourceNum and flows from positive through the source to negative.
func NewVoltageSource(name string, sourceNum, positive, negative int, voltage float64) *VoltageSource {
	return &VoltageSource{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: []int{positive, negative},
			Value: voltage,
		},
		sourceNum: sourceNum,
	}
}

func (v *VoltageSource) GetType() string { return "V" }
func (v *VoltageSource) Kind() Kind      { return KindVoltageSource }
func (v *VoltageSource) IsLinear() bool  { return true }
func (v *VoltageSource) SourceNum() int  { return v.sourceNum }

func (v *VoltageSource) Validate() error {
	if err := v.validateNodes(); err != nil {
		return err
	}
	if err := validateSourceNum("source number", v.sourceNum); err != nil {
		return err
	}
	return v.validateValue("voltage")
}

func (v *VoltageSource) GStamps() []Stamp { return nil }

func (v *VoltageSource) BStamps() []Stamp {
	return incidence(v.sourceNum, v.Nodes[0], v.Nodes[1], 1, false)
}

// v1 - v2 = V
func (v *VoltageSource) CStamps() []Stamp {
	return incidence(v.sourceNum, v.Nodes[0], v.Nodes[1], 1, true)
}

func (v *VoltageSource) DStamps() []Stamp { return nil }

func (v *VoltageSource) ZStamps() []Excitation {
	return []Excitation{{Row: v.sourceNum, Branch: true, Value: v.Value}}
}
