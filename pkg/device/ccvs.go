package device

import "fmt"

// CCVS is a current-controlled voltage source. It owns branch sourceNum and
// enforces V(positive) - V(negative) + gain*I(depSourceNum) = 0.
//
// The sensing nodes record the terminals of the controlling branch. They
// take no part in any stamp and are not reported by GetNodes.
type CCVS struct {
	BaseDevice
	sourceNum    int
	depSourceNum int
	srcSense     int
	sinkSense    int
}

func NewCCVS(name string, sourceNum, depSourceNum, srcSense, sinkSense, positive, negative int, gain float64) *CCVS {
	return &CCVS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: []int{positive, negative},
			Value: gain,
		},
		sourceNum:    sourceNum,
		depSourceNum: depSourceNum,
		srcSense:     srcSense,
		sinkSense:    sinkSense,
	}
}

func (h *CCVS) GetType() string    { return "H" }
func (h *CCVS) Kind() Kind         { return KindCCVS }
func (h *CCVS) IsLinear() bool     { return true }
func (h *CCVS) SourceNum() int     { return h.sourceNum }
func (h *CCVS) ControlSource() int { return h.depSourceNum }

func (h *CCVS) SenseNodes() (int, int) {
	return h.srcSense, h.sinkSense
}

func (h *CCVS) Validate() error {
	if err := h.validateNodes(); err != nil {
		return err
	}
	if h.srcSense < 0 || h.sinkSense < 0 {
		return fmt.Errorf("negative sensing node id (%d, %d)", h.srcSense, h.sinkSense)
	}
	if err := validateSourceNum("source number", h.sourceNum); err != nil {
		return err
	}
	if err := validateSourceNum("controlling source number", h.depSourceNum); err != nil {
		return err
	}
	return h.validateValue("transresistance")
}

func (h *CCVS) GStamps() []Stamp { return nil }

func (h *CCVS) BStamps() []Stamp {
	return incidence(h.sourceNum, h.Nodes[0], h.Nodes[1], 1, false)
}

func (h *CCVS) CStamps() []Stamp {
	return incidence(h.sourceNum, h.Nodes[0], h.Nodes[1], 1, true)
}

func (h *CCVS) DStamps() []Stamp {
	return []Stamp{{Row: h.sourceNum, Col: h.depSourceNum, Value: h.Value}}
}

func (h *CCVS) ZStamps() []Excitation { return nil }
