package problems

import "github.com/san-kum/beuler/internal/dae"

// VanDerPol is the Van der Pol oscillator recast as an implicit residual:
//
//	F1 = ydot1 - y2
//	F2 = ydot2 - mu*(1-y1^2)*y2 + y1
//
// Recast from an explicit-derivative oscillator model into the implicit
// residual form; Mu is settable to 1000 for the stiff end-to-end scenario.
type VanDerPol struct {
	DefaultHooks
	Mu float64
}

func NewVanDerPol(mu float64) *VanDerPol {
	return &VanDerPol{Mu: mu}
}

func (v *VanDerPol) NEquations() int { return 2 }

func (v *VanDerPol) InitialConditions(t0 float64) (y, ydot dae.Vector) {
	y = dae.Vector{2.0, 0.0}
	ydot = dae.Vector{0.0, v.Mu * (1 - y[0]*y[0]) * y[1] - y[0]}
	return
}

func (v *VanDerPol) EvalResidual(t, dt float64, y, ydot dae.Vector, out dae.Vector, mode dae.EvalMode, col int, dy float64) error {
	out[0] = ydot[0] - y[1]
	out[1] = ydot[1] - v.Mu*(1-y[0]*y[0])*y[1] + y[0]
	return nil
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu}
}

func (v *VanDerPol) SetParam(name string, value float64) {
	if name == "mu" {
		v.Mu = value
	}
}
