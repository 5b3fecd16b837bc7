package matrix

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/edp1096/toy-mna/internal/consts"
)

// ErrSingular reports a matrix that is singular or too ill-conditioned to
// give a trustworthy solution.
var ErrSingular = errors.New("matrix is singular")

// Solver solves A*x = z for a non-empty system without forming an inverse.
type Solver interface {
	Name() string
	Solve(s *System) ([]float64, error)
}

// LUSolver is a dense LU decomposition with partial pivoting.
type LUSolver struct{}

func NewLUSolver() *LUSolver {
	return &LUSolver{}
}

func (LUSolver) Name() string { return "dense" }

func (LUSolver) Solve(s *System) ([]float64, error) {
	size := s.Size()
	if size == 0 {
		return []float64{}, nil
	}

	var lu mat.LU
	lu.Factorize(s.Dense())
	// A zero pivot gives -Inf. Det itself underflows for small conductances.
	if logDet, _ := lu.LogDet(); math.IsInf(logDet, -1) {
		return nil, fmt.Errorf("%w: zero pivot in LU factorization", ErrSingular)
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, mat.NewVecDense(size, s.RHS())); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	sol := make([]float64, size)
	for i := range sol {
		sol[i] = x.AtVec(i)
	}
	return sol, verify(s, sol)
}

// verify rejects solutions with non-finite entries or a residual above
// consts.ResidualTolerance.
func verify(s *System, x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite solution x%d = %g", ErrSingular, i+1, v)
		}
	}
	res, err := s.Residual(x)
	if err != nil {
		return err
	}
	if res > consts.ResidualTolerance {
		return fmt.Errorf("%w: relative residual %.3g", ErrSingular, res)
	}
	return nil
}
