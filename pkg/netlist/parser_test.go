package netlist_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-mna/pkg/netlist"
)

const qucsNetlist = `* qucs divider
V1 1 0 DC 1
R1 1 2 5
R2 2 0 10   * load
I1 0 2 1
.op
.end
`

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"-2.5", -2.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"1.5k", 1500},
		{"2K", 2000},
		{"1meg", 1e6},
		{"3MEG", 3e6},
		{"4M", 4e-3},
		{"10m", 10e-3},
		{"10mA", 10e-3},
		{"47u", 47e-6},
		{"5n", 5e-9},
		{"2p", 2e-12},
		{"1f", 1e-15},
		{"1G", 1e9},
		{"1T", 1e12},
		{"12V", 12},
		{"100ohm", 100},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := netlist.ParseValue(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, math.Abs(tt.want)*1e-12+1e-30)
		})
	}

	for _, bad := range []string{"", "abc", "1x", "1..2", "k"} {
		_, err := netlist.ParseValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestParse(t *testing.T) {
	data, err := netlist.Parse(qucsNetlist)
	require.NoError(t, err)

	assert.Equal(t, "qucs divider", data.Title)
	assert.Equal(t, netlist.AnalysisOP, data.Analysis)
	require.Len(t, data.Elements, 4)

	v1 := data.Elements[0]
	assert.Equal(t, "V", v1.Type)
	assert.Equal(t, "V1", v1.Name)
	assert.Equal(t, []string{"1", "0"}, v1.Nodes)
	assert.Equal(t, 1.0, v1.Value)

	r2 := data.Elements[2]
	assert.Equal(t, "R", r2.Type)
	assert.Equal(t, []string{"2", "0"}, r2.Nodes)
	assert.Equal(t, 10.0, r2.Value)
}

func TestParseControlledSources(t *testing.T) {
	data, err := netlist.Parse(`controlled
Vsense 1 0 0
G1 2 0
+ 1 0 2m
F1 3 0 Vsense 5
H1 4 0 Vsense 1k
`)
	require.NoError(t, err)
	require.Len(t, data.Elements, 4)

	g := data.Elements[1]
	assert.Equal(t, "G", g.Type)
	assert.Equal(t, []string{"2", "0", "1", "0"}, g.Nodes)
	assert.InDelta(t, 2e-3, g.Value, 1e-15)

	f := data.Elements[2]
	assert.Equal(t, []string{"3", "0"}, f.Nodes)
	assert.Equal(t, "Vsense", f.Params["control"])
	assert.Equal(t, 5.0, f.Value)

	h := data.Elements[3]
	assert.Equal(t, "H", h.Type)
	assert.Equal(t, 1000.0, h.Value)
}

func TestParseDC(t *testing.T) {
	data, err := netlist.Parse(`sweep
V1 1 0 0
V2 2 0 0
R1 1 2 1k
.dc V1 0 5 1 V2 0 1 0.5
`)
	require.NoError(t, err)
	assert.Equal(t, netlist.AnalysisDC, data.Analysis)

	p := data.DCParam
	assert.Equal(t, "V1", p.Source1)
	assert.Equal(t, []float64{0, 5, 1}, []float64{p.Start1, p.Stop1, p.Increment1})
	assert.Equal(t, "V2", p.Source2)
	assert.Equal(t, []float64{0, 1, 0.5}, []float64{p.Start2, p.Stop2, p.Increment2})
}

func TestParseStopsAtEnd(t *testing.T) {
	data, err := netlist.Parse("title\nR1 1 0 1\n.END\nthis is not parsed\n")
	require.NoError(t, err)
	assert.Len(t, data.Elements, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"unknown element", "t\nL1 1 0 1u\n", "unsupported element type L"},
		{"bad value", "t\nR1 1 0 abc\n", "invalid value format"},
		{"too few fields", "t\nR1 1 0\n", "line 2"},
		{"missing control", "t\nF1 1 0 2\n", "need n+ n-"},
		{"extra source word", "t\nV1 1 0 DC 1 2\n", "missing or extra DC value"},
		{"unknown dot command", "t\n.tran 1n 1u\n", "unsupported analysis type"},
		{"short dc", "t\n.dc V1 0 1\n", "insufficient DC sweep"},
		{"zero increment", "t\n.dc V1 0 1 0\n", "increment must be positive"},
		{"dangling continuation", "t\n+ 1 0\n", "continuation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := netlist.Parse(tt.input)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}
