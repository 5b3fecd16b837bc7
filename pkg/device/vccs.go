package device

// VCCS is a voltage-controlled current source. It drives
// gain * (V(srcSense) - V(sinkSense)) from srcOut through the element to
// sinkOut.
type VCCS struct {
	BaseDevice
}

func NewVCCS(name string, srcSense, sinkSense, srcOut, sinkOut int, gain float64) *VCCS {
	return &VCCS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: []int{srcSense, sinkSense, srcOut, sinkOut},
			Value: gain,
		},
	}
}

func (g *VCCS) GetType() string { return "G" }
func (g *VCCS) Kind() Kind      { return KindVCCS }
func (g *VCCS) IsLinear() bool  { return true }

func (g *VCCS) Validate() error {
	if err := g.validateNodes(); err != nil {
		return err
	}
	return g.validateValue("transconductance")
}

func (g *VCCS) GStamps() []Stamp {
	ps, ns, po, no := g.Nodes[0], g.Nodes[1], g.Nodes[2], g.Nodes[3]
	gain := g.Value

	var stamps []Stamp
	stamps = addStamp(stamps, po, ps, gain)
	stamps = addStamp(stamps, no, ps, -gain)
	stamps = addStamp(stamps, po, ns, -gain)
	stamps = addStamp(stamps, no, ns, gain)
	return stamps
}

func (g *VCCS) BStamps() []Stamp      { return nil }
func (g *VCCS) CStamps() []Stamp      { return nil }
func (g *VCCS) DStamps() []Stamp      { return nil }
func (g *VCCS) ZStamps() []Excitation { return nil }
