package problems

import (
	"math"

	"github.com/san-kum/beuler/internal/dae"
)

// DefaultHooks implements the optional parts of dae.Problem with inert
// defaults: FilterNewStep returning 0, a no-op FilterPrediction, and an
// always-false StoppingCriterion. Fixtures embed this and override only
// what they need.
type DefaultHooks struct{}

func (DefaultHooks) FilterPrediction(t float64, yPred dae.Vector) {}

func (DefaultHooks) FilterNewStep(t float64, y, ydot dae.Vector) float64 { return 0 }

func (DefaultHooks) StoppingCriterion(t, dt float64, y, ydot dae.Vector) bool { return false }

func (DefaultHooks) SolnScales(t float64, y, yPrev dae.Vector, out dae.Vector) {
	for i := range out {
		out[i] = 1
	}
}

func (DefaultHooks) WriteSolution(kind string, t, dt float64, stepNo int, y, ydot dae.Vector) {}

func (DefaultHooks) UserOut(phase dae.OutputPhase, t, dt float64, y, ydot dae.Vector) {}

// DeltaSolnForJacobian is the default relative perturbation used by
// BEulerInt-style callers: sqrt(machine epsilon) scaled by the solution
// magnitude plus the error weight, so the perturbation is never smaller
// than the tolerance floor.
func (DefaultHooks) DeltaSolnForJacobian(t float64, y, yPrev dae.Vector, out, ewt dae.Vector) {
	const sqrtEps = 1.4901161193847656e-08 // sqrt(2^-52)
	for i := range out {
		out[i] = sqrtEps * (math.Abs(y[i]) + ewt[i])
	}
}
