package matrix_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-mna/pkg/matrix"
)

func load(t *testing.T, nodes, branches int, a [][]float64, z []float64) *matrix.System {
	t.Helper()
	s := matrix.NewSystem(nodes, branches)
	for i, row := range a {
		for j, v := range row {
			require.NoError(t, s.AddElement(i, j, v))
		}
	}
	for i, v := range z {
		require.NoError(t, s.AddRHS(i, v))
	}
	return s
}

// V=1 across R=1: node row then branch row.
func sourceAcrossResistor(t *testing.T) *matrix.System {
	return load(t, 1, 1,
		[][]float64{{1, 1}, {1, 0}},
		[]float64{0, 1})
}

func TestSystemAccumulates(t *testing.T) {
	s := matrix.NewSystem(2, 1)
	require.NoError(t, s.AddElement(0, 1, 0.5))
	require.NoError(t, s.AddElement(0, 1, 0.25))
	require.NoError(t, s.AddRHS(2, 3))

	assert.Equal(t, 3, s.Size())
	assert.Equal(t, 2, s.Nodes())
	assert.Equal(t, 1, s.Branches())
	assert.Equal(t, 0.75, s.At(0, 1))
	assert.Equal(t, []float64{0, 0, 3}, s.RHS())
}

func TestSystemIndexOutOfRange(t *testing.T) {
	s := matrix.NewSystem(1, 1)

	assert.ErrorIs(t, s.AddElement(2, 0, 1), matrix.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.AddElement(0, -1, 1), matrix.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.AddRHS(2, 1), matrix.ErrIndexOutOfRange)
	assert.Panics(t, func() { s.At(0, 2) })
}

func TestSystemCloneAndEqual(t *testing.T) {
	s := sourceAcrossResistor(t)
	c := s.Clone()
	assert.True(t, s.Equal(c))

	require.NoError(t, c.AddElement(1, 1, 1e-300))
	assert.False(t, s.Equal(c))
	assert.Equal(t, 0.0, s.At(1, 1))

	assert.False(t, s.Equal(matrix.NewSystem(2, 0)))
	assert.True(t, matrix.NewSystem(0, 0).Equal(matrix.NewSystem(0, 0)))
}

func TestSystemRHSIsCopy(t *testing.T) {
	s := sourceAcrossResistor(t)
	z := s.RHS()
	z[1] = 42

	assert.Equal(t, []float64{0, 1}, s.RHS())
}

func TestResidual(t *testing.T) {
	s := sourceAcrossResistor(t)

	res, err := s.Residual([]float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res)

	res, err = s.Residual([]float64{1, 0})
	require.NoError(t, err)
	assert.Greater(t, res, 0.1)

	_, err = s.Residual([]float64{1})
	assert.Error(t, err)
}

func TestEmptySystem(t *testing.T) {
	s := matrix.NewSystem(0, 0)
	assert.Nil(t, s.Dense())

	for _, solver := range []matrix.Solver{matrix.NewLUSolver(), matrix.NewSparseSolver()} {
		x, err := solver.Solve(s)
		require.NoError(t, err, solver.Name())
		assert.Empty(t, x, solver.Name())
	}
}

func TestLUSolve(t *testing.T) {
	tests := []struct {
		name string
		sys  func(t *testing.T) *matrix.System
		want []float64
	}{
		{
			name: "symmetric",
			sys: func(t *testing.T) *matrix.System {
				return load(t, 2, 0, [][]float64{{2, 1}, {1, 3}}, []float64{3, 5})
			},
			want: []float64{0.8, 1.4},
		},
		{
			name: "needs pivoting",
			sys: func(t *testing.T) *matrix.System {
				return load(t, 3, 0,
					[][]float64{{0, 1, 0}, {1, 0, 0}, {0, 0, 2}},
					[]float64{1, 2, 4})
			},
			want: []float64{2, 1, 2},
		},
		{
			name: "source across resistor",
			sys:  sourceAcrossResistor,
			want: []float64{1, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := matrix.NewLUSolver().Solve(tt.sys(t))
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, x, 1e-12)
		})
	}
}

func TestLUSolveSingular(t *testing.T) {
	// Two sources forcing the same node pair.
	s := load(t, 1, 2,
		[][]float64{{0, 1, 1}, {1, 0, 0}, {1, 0, 0}},
		[]float64{0, 1, 1})

	_, err := matrix.NewLUSolver().Solve(s)
	assert.ErrorIs(t, err, matrix.ErrSingular)
}

func TestLUSolveZeroRow(t *testing.T) {
	s := load(t, 2, 0, [][]float64{{1, 0}, {0, 0}}, []float64{1, 0})

	_, err := matrix.NewLUSolver().Solve(s)
	assert.ErrorIs(t, err, matrix.ErrSingular)
}

func TestSparseSolve(t *testing.T) {
	solver := matrix.NewSparseSolver()
	assert.Equal(t, "sparse", solver.Name())

	x, err := solver.Solve(sourceAcrossResistor(t))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -1}, x, 1e-12)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	sourceAcrossResistor(t).Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Circuit Equations (2x2):")
	assert.Contains(t, out, "Equation 1:\n  +1*x1   +1*x2  = 0\n")
	assert.Contains(t, out, "Equation 2:\n  +1*x1  = 1\n")
}

// V=1 driving a chain of n equal resistors down to ground.
func resistorLadder(t *testing.T, n int, r float64) *matrix.System {
	t.Helper()
	g := 1 / r
	s := matrix.NewSystem(n, 1)
	for k := 0; k < n; k++ {
		require.NoError(t, s.AddElement(k, k, g))
		if k+1 < n {
			require.NoError(t, s.AddElement(k+1, k+1, g))
			require.NoError(t, s.AddElement(k, k+1, -g))
			require.NoError(t, s.AddElement(k+1, k, -g))
		}
	}
	require.NoError(t, s.AddElement(0, n, 1))
	require.NoError(t, s.AddElement(n, 0, 1))
	require.NoError(t, s.AddRHS(n, 1))
	return s
}

func TestSolveHighResistanceLadder(t *testing.T) {
	const n, r = 60, 1e9

	for _, solver := range []matrix.Solver{matrix.NewLUSolver(), matrix.NewSparseSolver()} {
		t.Run(solver.Name(), func(t *testing.T) {
			x, err := solver.Solve(resistorLadder(t, n, r))
			require.NoError(t, err)
			require.Len(t, x, n+1)

			// V(k) = 1 - k/n for the 0-based node k
			for k := 0; k < n; k++ {
				assert.InDelta(t, 1-float64(k)/n, x[k], 1e-9, "node %d", k)
			}
			assert.InDelta(t, -1/(n*r), x[n], 1e-20)
		})
	}
}
