package problems

import "github.com/san-kum/beuler/internal/dae"

// Decay is the scalar exponential-decay equation F = ydot + lambda*y,
// y(0) = y0. Used for spec §8 property 1.
type Decay struct {
	DefaultHooks
	Lambda float64
	Y0     float64
}

// NewDecay returns the canonical fixture: lambda=10, y0=1.
func NewDecay() *Decay {
	return &Decay{Lambda: 10, Y0: 1}
}

func (d *Decay) NEquations() int { return 1 }

func (d *Decay) InitialConditions(t0 float64) (y, ydot dae.Vector) {
	y = dae.Vector{d.Y0}
	ydot = dae.Vector{-d.Lambda * d.Y0}
	return
}

func (d *Decay) EvalResidual(t, dt float64, y, ydot dae.Vector, out dae.Vector, mode dae.EvalMode, col int, dy float64) error {
	out[0] = ydot[0] + d.Lambda*y[0]
	return nil
}
