package dae

import "testing"

func TestRobustSubIdentity(t *testing.T) {
	if got := RobustSub(3.14, 3.14); got != 0 {
		t.Errorf("RobustSub(a,a) = %v, want 0", got)
	}
}

func TestRobustSubTinyAbsoluteDiff(t *testing.T) {
	if got := RobustSub(1e-301, 0); got != 0 {
		t.Errorf("RobustSub below 1e-300 = %v, want 0", got)
	}
}

func TestRobustSubRelativeNoise(t *testing.T) {
	a := 1.0
	b := 1.0 + 1e-15 // well below 1e-14 * min(|a|,|b|)
	if got := RobustSub(a, b); got != 0 {
		t.Errorf("RobustSub(%v,%v) = %v, want 0 (relative noise)", a, b, got)
	}
}

func TestRobustSubRealDifference(t *testing.T) {
	a, b := 5.0, 2.0
	want := a - b
	if got := RobustSub(a, b); got != want {
		t.Errorf("RobustSub(%v,%v) = %v, want %v", a, b, got, want)
	}
}

func TestBuildNumericalJacobianOnLinearSystem(t *testing.T) {
	// F1 = ydot1 + 2*y1, F2 = ydot2 + 3*y2: J should be diag(cj+2, cj+3).
	p := &diagLinearProblem{a: 2, b: 3}
	n := 2
	y := Vector{1, 1}
	ydot := Vector{-2, -3}
	ewt := Vector{1, 1}
	cj := 10.0

	jac := NewJacobian(n)
	r0 := make(Vector, n)
	stats := &Statistics{}

	if err := BuildJacobian(p, Numerical, 0, 0.1, cj, y, ydot, ewt, jac, r0, stats, nil); err != nil {
		t.Fatalf("BuildJacobian: %v", err)
	}

	if got, want := jac.At(0, 0), cj+2; absDiff(got, want) > 1e-5 {
		t.Errorf("J[0][0] = %v, want ~%v", got, want)
	}
	if got, want := jac.At(1, 1), cj+3; absDiff(got, want) > 1e-5 {
		t.Errorf("J[1][1] = %v, want ~%v", got, want)
	}
	if got := jac.At(0, 1); absDiff(got, 0) > 1e-6 {
		t.Errorf("J[0][1] = %v, want ~0", got)
	}
}

type diagLinearProblem struct {
	a, b float64
}

func (p *diagLinearProblem) NEquations() int { return 2 }
func (p *diagLinearProblem) InitialConditions(t0 float64) (Vector, Vector) {
	return Vector{1, 1}, Vector{-p.a, -p.b}
}
func (p *diagLinearProblem) EvalResidual(t, dt float64, y, ydot Vector, out Vector, mode EvalMode, col int, dy float64) error {
	out[0] = ydot[0] + p.a*y[0]
	out[1] = ydot[1] + p.b*y[1]
	return nil
}
func (p *diagLinearProblem) DeltaSolnForJacobian(t float64, y, yPrev Vector, out Vector, ewt Vector) {
	for i := range out {
		out[i] = 1e-7 * (1 + absDiff(y[i], 0))
	}
}
func (p *diagLinearProblem) FilterPrediction(t float64, yPred Vector)                 {}
func (p *diagLinearProblem) FilterNewStep(t float64, y, ydot Vector) float64          { return 0 }
func (p *diagLinearProblem) StoppingCriterion(t, dt float64, y, ydot Vector) bool     { return false }
func (p *diagLinearProblem) SolnScales(t float64, y, yPrev Vector, out Vector)        {}
func (p *diagLinearProblem) WriteSolution(kind string, t, dt float64, n int, y, ydot Vector) {}
func (p *diagLinearProblem) UserOut(phase OutputPhase, t, dt float64, y, ydot Vector) {}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
