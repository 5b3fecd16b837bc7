package device

type CurrentSource struct {
	BaseDevice
}

// NewCurrentSource returns an independent source driving current from
// source through the element to sink, i.e. it injects current into sink.
func NewCurrentSource(name string, source, sink int, current float64) *CurrentSource {
	return &CurrentSource{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: []int{source, sink},
			Value: current,
		},
	}
}

func (i *CurrentSource) GetType() string { return "I" }
func (i *CurrentSource) Kind() Kind      { return KindCurrentSource }
func (i *CurrentSource) IsLinear() bool  { return true }

func (i *CurrentSource) Validate() error {
	if err := i.validateNodes(); err != nil {
		return err
	}
	return i.validateValue("current")
}

func (i *CurrentSource) GStamps() []Stamp { return nil }
func (i *CurrentSource) BStamps() []Stamp { return nil }
func (i *CurrentSource) CStamps() []Stamp { return nil }
func (i *CurrentSource) DStamps() []Stamp { return nil }

// By KCL, current flows out of source (-) and into sink (+)
func (i *CurrentSource) ZStamps() []Excitation {
	source, sink := i.Nodes[0], i.Nodes[1]

	var z []Excitation
	if source != Ground {
		z = append(z, Excitation{Row: source, Value: -i.Value})
	}
	if sink != Ground {
		z = append(z, Excitation{Row: sink, Value: i.Value})
	}
	return z
}
