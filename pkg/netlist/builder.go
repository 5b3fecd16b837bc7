package netlist

import (
	"fmt"
	"strings"

	"github.com/edp1096/toy-mna/internal/consts"
	"github.com/edp1096/toy-mna/pkg/circuit"
	"github.com/edp1096/toy-mna/pkg/device"
)

// Topology is a netlist lowered to integer identifiers.
type Topology struct {
	Netlist   *circuit.Netlist
	NodeMap   map[string]int           // node name -> node id, ground excluded
	BranchMap map[string]int           // V and H name -> source number
	Devices   map[string]device.Device // element name -> device
	Elements  []Element
}

func IsGround(nodeName string) bool {
	for _, g := range consts.GroundNames {
		if strings.EqualFold(nodeName, g) {
			return true
		}
	}
	return false
}

// Build assigns node ids in order of first appearance and source numbers to
// V and H elements in order, then creates one device per element.
func Build(elements []Element, opts ...circuit.Option) (*Topology, error) {
	t := &Topology{
		NodeMap:   make(map[string]int),
		BranchMap: make(map[string]int),
		Devices:   make(map[string]device.Device),
		Elements:  elements,
	}

	byName := make(map[string]Element, len(elements))
	for _, elem := range elements {
		if _, dup := byName[elem.Name]; dup {
			return nil, fmt.Errorf("duplicate element name %s", elem.Name)
		}
		byName[elem.Name] = elem

		for _, nodeName := range elem.Nodes {
			if IsGround(nodeName) {
				continue
			}
			if _, exists := t.NodeMap[nodeName]; !exists {
				t.NodeMap[nodeName] = len(t.NodeMap) + 1
			}
		}
	}

	branch := 1
	for _, elem := range elements {
		if isVoltageDefining(elem.Type) {
			t.BranchMap[elem.Name] = branch
			branch++
		}
	}

	t.Netlist = circuit.New(opts...)
	for _, elem := range elements {
		dev, err := t.createDevice(elem, byName)
		if err != nil {
			return nil, fmt.Errorf("creating device %s: %w", elem.Name, err)
		}
		t.Devices[elem.Name] = dev
		t.Netlist.AddComponent(dev)
	}

	return t, nil
}

func isVoltageDefining(elemType string) bool {
	return elemType == "V" || elemType == "H"
}

func (t *Topology) NodeID(nodeName string) (int, bool) {
	if IsGround(nodeName) {
		return device.Ground, true
	}
	id, ok := t.NodeMap[nodeName]
	return id, ok
}

func (t *Topology) nodeIDs(elem Element, want int) ([]int, error) {
	if len(elem.Nodes) != want {
		return nil, fmt.Errorf("%s element needs %d nodes, got %d", elem.Type, want, len(elem.Nodes))
	}
	ids := make([]int, len(elem.Nodes))
	for i, nodeName := range elem.Nodes {
		ids[i], _ = t.NodeID(nodeName)
	}
	return ids, nil
}

// control resolves the source sensed by F and H elements.
func (t *Topology) control(elem Element, byName map[string]Element) (Element, int, error) {
	name := elem.Params["control"]
	if name == "" {
		return Element{}, 0, fmt.Errorf("missing controlling source")
	}
	ctrl, ok := byName[name]
	if !ok {
		return Element{}, 0, fmt.Errorf("controlling source %s not found", name)
	}
	if !isVoltageDefining(ctrl.Type) {
		return Element{}, 0, fmt.Errorf("controlling element %s is not a voltage source", name)
	}
	return ctrl, t.BranchMap[name], nil
}

func (t *Topology) createDevice(elem Element, byName map[string]Element) (device.Device, error) {
	switch elem.Type {
	case "R":
		n, err := t.nodeIDs(elem, 2)
		if err != nil {
			return nil, err
		}
		return device.NewResistor(elem.Name, n[0], n[1], elem.Value), nil

	case "V":
		n, err := t.nodeIDs(elem, 2)
		if err != nil {
			return nil, err
		}
		return device.NewVoltageSource(elem.Name, t.BranchMap[elem.Name], n[0], n[1], elem.Value), nil

	case "I":
		// Current flows from n+ through the source to n-
		n, err := t.nodeIDs(elem, 2)
		if err != nil {
			return nil, err
		}
		return device.NewCurrentSource(elem.Name, n[0], n[1], elem.Value), nil

	case "G":
		n, err := t.nodeIDs(elem, 4)
		if err != nil {
			return nil, err
		}
		return device.NewVCCS(elem.Name, n[2], n[3], n[0], n[1], elem.Value), nil

	case "F":
		n, err := t.nodeIDs(elem, 2)
		if err != nil {
			return nil, err
		}
		_, dep, err := t.control(elem, byName)
		if err != nil {
			return nil, err
		}
		return device.NewCCCS(elem.Name, dep, n[0], n[1], elem.Value), nil

	case "H":
		n, err := t.nodeIDs(elem, 2)
		if err != nil {
			return nil, err
		}
		ctrl, dep, err := t.control(elem, byName)
		if err != nil {
			return nil, err
		}
		sense, err := t.nodeIDs(ctrl, 2)
		if err != nil {
			return nil, err
		}
		// V(n+) - V(n-) = r*I(ctrl), the device solves v_p - v_n + g*i = 0
		return device.NewCCVS(elem.Name, t.BranchMap[elem.Name], dep, sense[0], sense[1], n[0], n[1], -elem.Value), nil
	}

	return nil, fmt.Errorf("unsupported device type: %s", elem.Type)
}
