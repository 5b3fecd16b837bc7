package device

// CCCS is a current-controlled current source. It drives gain times the
// branch current of source depSourceNum from srcOut through the element to
// sinkOut. The controlling source may be any voltage-defining device.
type CCCS struct {
	BaseDevice
	depSourceNum int
}

func NewCCCS(name string, depSourceNum, srcOut, sinkOut int, gain float64) *CCCS {
	return &CCCS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: []int{srcOut, sinkOut},
			Value: gain,
		},
		depSourceNum: depSourceNum,
	}
}

func (f *CCCS) GetType() string    { return "F" }
func (f *CCCS) Kind() Kind         { return KindCCCS }
func (f *CCCS) IsLinear() bool     { return true }
func (f *CCCS) ControlSource() int { return f.depSourceNum }

func (f *CCCS) Validate() error {
	if err := f.validateNodes(); err != nil {
		return err
	}
	if err := validateSourceNum("controlling source number", f.depSourceNum); err != nil {
		return err
	}
	return f.validateValue("current gain")
}

func (f *CCCS) GStamps() []Stamp { return nil }

func (f *CCCS) BStamps() []Stamp {
	return incidence(f.depSourceNum, f.Nodes[0], f.Nodes[1], f.Value, false)
}

func (f *CCCS) CStamps() []Stamp      { return nil }
func (f *CCCS) DStamps() []Stamp      { return nil }
func (f *CCCS) ZStamps() []Excitation { return nil }
