package problems

import "github.com/san-kum/beuler/internal/dae"

// Robertson is the classic three-species stiff chemical-kinetics DAE:
//
//	A --k1--> B
//	B + B --k2--> C + B
//	B + C --k3--> A + C
//
// written as
//
//	F1 = ydot1 + k1*y1 - k3*y2*y3
//	F2 = ydot2 - k1*y1 + k2*y2^2 + k3*y2*y3
//	F3 = y1 + y2 + y3 - 1          (algebraic mass-conservation constraint)
//
// F3 carries no ydot term, so its row of the Jacobian has no cj-dependent
// contribution: this exercises the semi-explicit (index-1) DAE case
// alongside the simpler Van der Pol scenario.
type Robertson struct {
	DefaultHooks
	K1, K2, K3 float64
}

func NewRobertson() *Robertson {
	return &Robertson{K1: 0.04, K2: 3e7, K3: 1e4}
}

func (r *Robertson) NEquations() int { return 3 }

func (r *Robertson) InitialConditions(t0 float64) (y, ydot dae.Vector) {
	y = dae.Vector{1, 0, 0}
	ydot = dae.Vector{-r.K1 * y[0], r.K1 * y[0], 0}
	return
}

func (r *Robertson) EvalResidual(t, dt float64, y, ydot dae.Vector, out dae.Vector, mode dae.EvalMode, col int, dy float64) error {
	out[0] = ydot[0] + r.K1*y[0] - r.K3*y[1]*y[2]
	out[1] = ydot[1] - r.K1*y[0] + r.K2*y[1]*y[1] + r.K3*y[1]*y[2]
	out[2] = y[0] + y[1] + y[2] - 1
	return nil
}
