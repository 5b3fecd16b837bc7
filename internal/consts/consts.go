package consts

const (
	Ground = 0 // Reserved node id, always 0V

	ResidualTolerance = 1e-9 // Max ||Ax-z|| relative to ||A||*||x||+||z||
)

// Node names the netlist layer treats as ground
var GroundNames = []string{"0", "gnd"}
