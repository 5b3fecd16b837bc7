package matrix

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrIndexOutOfRange = errors.New("matrix index out of range")

// DeviceMatrix receives stamp contributions. Indices are 0-based.
type DeviceMatrix interface {
	AddElement(i, j int, value float64) error
	AddRHS(i int, value float64) error
}

// System is the augmented MNA system A*x = z. The first Nodes rows are node
// equations, the remaining Branches rows are branch equations.
type System struct {
	nodes    int
	branches int
	a        []float64 // row-major, size*size
	z        []float64
}

func NewSystem(nodes, branches int) *System {
	size := nodes + branches
	return &System{
		nodes:    nodes,
		branches: branches,
		a:        make([]float64, size*size),
		z:        make([]float64, size),
	}
}

func (s *System) Size() int     { return s.nodes + s.branches }
func (s *System) Nodes() int    { return s.nodes }
func (s *System) Branches() int { return s.branches }

func (s *System) AddElement(i, j int, value float64) error {
	size := s.Size()
	if i < 0 || j < 0 || i >= size || j >= size {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrIndexOutOfRange, i, j, size, size)
	}
	s.a[i*size+j] += value
	return nil
}

func (s *System) AddRHS(i int, value float64) error {
	if i < 0 || i >= s.Size() {
		return fmt.Errorf("%w: rhs %d of %d", ErrIndexOutOfRange, i, s.Size())
	}
	s.z[i] += value
	return nil
}

// At returns A[i][j]. It panics on an out of range index, like a slice.
func (s *System) At(i, j int) float64 {
	size := s.Size()
	if i < 0 || j < 0 || i >= size || j >= size {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range %dx%d", i, j, size, size))
	}
	return s.a[i*size+j]
}

// RHS returns a copy of z.
func (s *System) RHS() []float64 {
	return append([]float64(nil), s.z...)
}

func (s *System) Clone() *System {
	return &System{
		nodes:    s.nodes,
		branches: s.branches,
		a:        append([]float64(nil), s.a...),
		z:        append([]float64(nil), s.z...),
	}
}

// Equal reports whether both systems have the same shape and bit-identical
// entries.
func (s *System) Equal(o *System) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.nodes != o.nodes || s.branches != o.branches {
		return false
	}
	for i := range s.a {
		if math.Float64bits(s.a[i]) != math.Float64bits(o.a[i]) {
			return false
		}
	}
	for i := range s.z {
		if math.Float64bits(s.z[i]) != math.Float64bits(o.z[i]) {
			return false
		}
	}
	return true
}

// Dense returns A as a gonum matrix, or nil for an empty system.
func (s *System) Dense() *mat.Dense {
	size := s.Size()
	if size == 0 {
		return nil
	}
	return mat.NewDense(size, size, append([]float64(nil), s.a...))
}

// Residual returns ||A*x - z|| / (||A||*||x|| + ||z||) in the infinity norm.
func (s *System) Residual(x []float64) (float64, error) {
	size := s.Size()
	if len(x) != size {
		return 0, fmt.Errorf("solution length %d, want %d", len(x), size)
	}
	if size == 0 {
		return 0, nil
	}

	a := s.Dense()
	r := mat.NewVecDense(size, nil)
	r.MulVec(a, mat.NewVecDense(size, append([]float64(nil), x...)))
	r.SubVec(r, mat.NewVecDense(size, s.RHS()))

	inf := math.Inf(1)
	scale := mat.Norm(a, inf)*floats.Norm(x, inf) + floats.Norm(s.z, inf)
	num := mat.Norm(r, inf)
	if scale == 0 {
		return num, nil
	}
	return num / scale, nil
}

func (s *System) Print(w io.Writer) {
	size := s.Size()
	fmt.Fprintf(w, "\nCircuit Equations (%dx%d):\n", size, size)
	fmt.Fprintf(w, "Node equations 1..%d, followed by branch equations\n", s.nodes)

	for i := 0; i < size; i++ {
		fmt.Fprintf(w, "Equation %d:\n", i+1)
		rowHasElements := false
		for j := 0; j < size; j++ {
			if v := s.a[i*size+j]; v != 0 {
				fmt.Fprintf(w, "  %+g*x%d ", v, j+1)
				rowHasElements = true
			}
		}
		if rowHasElements {
			fmt.Fprintf(w, " = %g\n", s.z[i])
		} else {
			fmt.Fprintf(w, "  (empty) = %g\n", s.z[i])
		}
	}

	fmt.Fprintf(w, "RHS:\n")
	for i := 0; i < size; i++ {
		fmt.Fprintf(w, "  x%d = %g\n", i+1, s.z[i])
	}
}
