package problems

import (
	"github.com/san-kum/beuler/internal/dae"
	"gonum.org/v1/gonum/mat"
)

// Linear is a constant-coefficient linear DAE F = A*ydot + B*y, with dense
// A and B; it has no forcing term g(t). Used for spec §8 property 2: the
// Newton solver must converge in exactly one iteration per step once the
// Jacobian reflects the (constant) system matrices, since F is then exactly
// linear in (y, ydot).
//
// The default fixture (NewLinearSpringMass) is a single damped mass on a
// spring (adapted from the linear-oscillator shape of a mass/spring model),
// written in first-order form with state [position, velocity]; A is
// diag(1, m), so both rows carry a ydot term.
type Linear struct {
	DefaultHooks
	A, B *mat.Dense
	Y0   dae.Vector
}

// NewLinearSpringMass builds a 2x2 linear oscillator F = A*ydot + B*y, with
// A = diag(1, m) and B = [[0, -1], [k, c]] encoding a single mass m,
// stiffness k and damping c as a first-order system in [position, velocity].
func NewLinearSpringMass(m, k, c float64) *Linear {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, m})
	b := mat.NewDense(2, 2, []float64{0, -1, k, c})
	return &Linear{A: a, B: b, Y0: dae.Vector{1, 0}}
}

func (l *Linear) NEquations() int { return l.A.RawMatrix().Rows }

func (l *Linear) InitialConditions(t0 float64) (y, ydot dae.Vector) {
	y = l.Y0.Clone()
	ydot = make(dae.Vector, len(y))
	return
}

func (l *Linear) EvalResidual(t, dt float64, y, ydot dae.Vector, out dae.Vector, mode dae.EvalMode, col int, dy float64) error {
	n := l.NEquations()
	yv := mat.NewVecDense(n, []float64(y))
	ydotv := mat.NewVecDense(n, []float64(ydot))

	var ay, by mat.VecDense
	ay.MulVec(l.A, ydotv)
	by.MulVec(l.B, yv)

	for i := 0; i < n; i++ {
		out[i] = ay.AtVec(i) + by.AtVec(i)
	}
	return nil
}
