// Package dae implements a variable-step implicit backward-Euler integrator
// with damped Newton correction for stiff systems F(t, y, ẏ) = 0.
package dae

import "math"

// Vector is a length-n real vector. Methods never mutate the receiver.
type Vector []float64

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// IsValid reports whether every component is finite.
func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Add(other Vector) Vector {
	r := make(Vector, len(v))
	for i := range v {
		r[i] = v[i] + other[i]
	}
	return r
}

func (v Vector) Sub(other Vector) Vector {
	r := make(Vector, len(v))
	for i := range v {
		r[i] = v[i] - other[i]
	}
	return r
}

func (v Vector) Scale(f float64) Vector {
	r := make(Vector, len(v))
	for i := range v {
		r[i] = v[i] * f
	}
	return r
}

// WeightedNorm computes sqrt((1/n) * sum((v[i]/ewt[i])^2)).
func WeightedNorm(v, ewt Vector) float64 {
	n := len(v)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		r := v[i] / ewt[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(n))
}

// EvalMode tells the caller's residual evaluator why it is being invoked.
type EvalMode int

const (
	// Base is a plain residual evaluation, not part of a Jacobian sweep.
	Base EvalMode = iota
	// JacBase is the unperturbed evaluation at the start of a Jacobian sweep.
	JacBase
	// JacDelta is a perturbed evaluation for one finite-difference column.
	JacDelta
)

// OutputPhase names the point in the driver's lifecycle for user_out hooks.
type OutputPhase int

const (
	PhaseInit OutputPhase = iota
	PhaseSuccess
	PhaseFailure
	PhaseFinal
)

// Problem is the caller contract: the sole seam between the integrator and
// the embedding application. No inheritance is required; any type
// implementing this interface may be integrated.
type Problem interface {
	// NEquations returns n, fixed for the lifetime of the integration.
	NEquations() int

	// InitialConditions returns (y, ydot) at t0.
	InitialConditions(t0 float64) (y, ydot Vector)

	// EvalResidual evaluates r = F(t, y, ydot) into out. mode, col and dy
	// inform the caller that this call is part of a numerical-Jacobian
	// sweep so caller-side caches can be reused; col and dy are only
	// meaningful when mode is JacDelta.
	EvalResidual(t, dt float64, y, ydot Vector, out Vector, mode EvalMode, col int, dy float64) error

	// DeltaSolnForJacobian chooses a safe per-component perturbation for
	// finite differences, writing it into out.
	DeltaSolnForJacobian(t float64, y, yPrev Vector, out Vector, ewt Vector)

	// FilterPrediction performs an in-place projection on a predicted
	// state, e.g. to enforce positivity. No-op by default.
	FilterPrediction(t float64, yPred Vector)

	// FilterNewStep returns a non-negative scalar measuring how far the
	// filter moved the solution: >1 rejects the step, (0,1] logs, 0 means
	// no adjustment was made.
	FilterNewStep(t float64, y, ydot Vector) float64

	// StoppingCriterion allows user-defined early termination.
	StoppingCriterion(t, dt float64, y, ydot Vector) bool

	// SolnScales supplies a column-scaling vector into out. Only called
	// when column scaling is enabled.
	SolnScales(t float64, y, yPrev Vector, out Vector)

	// WriteSolution is an output hook invoked at points named by kind.
	WriteSolution(kind string, t, dt float64, stepNo int, y, ydot Vector)

	// UserOut is a general-purpose lifecycle hook.
	UserOut(phase OutputPhase, t, dt float64, y, ydot Vector)
}

// JacobianProvider is implemented optionally by problems that can supply an
// analytic Jacobian J = dF/dy + cj*dF/dydot alongside the residual at
// (y, ydot). cj is 1/dt for order 1 and 2/dt for order 2.
type JacobianProvider interface {
	EvalJacobian(t, dt, cj float64, y, ydot Vector, outJ *Jacobian, outR Vector) error
}

// Method selects fixed vs. variable step sizing.
type Method int

const (
	Variable Method = iota
	Fixed
)

// JacobianMethod selects analytic vs. numerical Jacobian construction.
type JacobianMethod int

const (
	Numerical JacobianMethod = iota
	Analytical
)

// Statistics accumulates counters over the lifetime of an integration, plus
// a few fields SolveNonlinear overwrites every call so the CLI can report
// the most recent step's Newton cost alongside the lifetime totals.
type Statistics struct {
	StepAttempts        int
	StepsAccepted       int
	ConvergenceFailures int
	TruncationFailures  int
	NewtonIterations    int
	LinearSolves        int
	FunctionEvals       int
	JacobianEvals       int
	LastStepSize        float64
	LastOrder           int

	// NewtonItsLastStep, LinearSolvesLastStep and JacobianReevalsLastStep
	// are the Newton-iteration, linear-solve and Jacobian-rebuild counts
	// spent on the most recent SolveNonlinear call, successful or not.
	NewtonItsLastStep       int
	LinearSolvesLastStep    int
	JacobianReevalsLastStep int
}
