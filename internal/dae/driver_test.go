package dae

import "testing"

// TestStepSizeClamp is spec §8 property 6: every executed delta_t_n
// satisfies 0 < delta_t_n <= min(hmax, delta_t_max, t_max - time_nm1).
func TestStepSizeClamp(t *testing.T) {
	p := &diagLinearProblem{a: 1, b: 1}
	opts := DefaultOptions()
	opts.MaxStep = 0.05
	opts.InitialStep = 1e-3

	d := NewWithOptions(p, 0, opts)
	tMax := 0.3

	for d.timeN < tMax {
		prevTimeNm1 := d.timeN
		reached := d.Step(tMax)
		if reached < 0 {
			t.Fatalf("step failed: %v", reached)
		}
		if d.dtN <= 0 {
			t.Fatalf("dtN = %v, want > 0", d.dtN)
		}
		if d.dtN > opts.MaxStep+1e-12 {
			t.Fatalf("dtN = %v exceeds hmax = %v", d.dtN, opts.MaxStep)
		}
		if d.dtN > tMax-prevTimeNm1+1e-9 {
			t.Fatalf("dtN = %v exceeds remaining interval %v", d.dtN, tMax-prevTimeNm1)
		}
	}
}

// TestHistoryRollbackOnRejection is spec §8 property 7: a rejected step
// restores (time_n, dtN, dtNm1, dtNm2, y_n, ydot_n) bit-identical to their
// pre-step values. This is exercised directly against restoreHistory since
// forcing a genuine rejection requires a pathological problem; the
// accept-path plumbing is covered by TestDecayConvergence and friends.
func TestHistoryRollbackOnRejection(t *testing.T) {
	p := &diagLinearProblem{a: 1, b: 1}
	d := New(p, 0)

	wantTimeN, wantTimeNm1, wantTimeNm2 := 1.0, 0.5, 0.25
	wantDtN, wantDtNm1, wantDtNm2 := 0.5, 0.25, 0.1
	wantY := Vector{9, 9}
	wantYdot := Vector{8, 8}

	d.timeN, d.timeNm1, d.timeNm2 = 5, 6, 7
	d.dtN, d.dtNm1, d.dtNm2 = 0.9, 0.9, 0.9
	d.yN = Vector{1, 1}
	d.ydotN = Vector{2, 2}

	d.restoreHistory(wantTimeN, wantTimeNm1, wantTimeNm2, wantDtN, wantDtNm1, wantDtNm2, wantY.Clone(), wantYdot.Clone())

	if d.timeN != wantTimeN || d.timeNm1 != wantTimeNm1 || d.timeNm2 != wantTimeNm2 {
		t.Errorf("time history = (%v,%v,%v), want (%v,%v,%v)", d.timeN, d.timeNm1, d.timeNm2, wantTimeN, wantTimeNm1, wantTimeNm2)
	}
	if d.dtN != wantDtN || d.dtNm1 != wantDtNm1 || d.dtNm2 != wantDtNm2 {
		t.Errorf("dt history = (%v,%v,%v), want (%v,%v,%v)", d.dtN, d.dtNm1, d.dtNm2, wantDtN, wantDtNm1, wantDtNm2)
	}
	for i := range wantY {
		if d.yN[i] != wantY[i] || d.ydotN[i] != wantYdot[i] {
			t.Errorf("state not restored at %d: y=%v ydot=%v", i, d.yN[i], d.ydotN[i])
		}
	}
}

// TestConsecutiveFailureGiveUp is spec §7: after 35 consecutive failures the
// driver aborts fatally rather than retrying forever.
func TestConsecutiveFailureGiveUp(t *testing.T) {
	p := &alwaysFailProblem{}
	d := New(p, 0)
	reached := d.Integrate(10)
	if reached >= 0 {
		t.Fatalf("expected fatal failure, got %v", reached)
	}
}

type alwaysFailProblem struct{}

func (alwaysFailProblem) NEquations() int { return 1 }
func (alwaysFailProblem) InitialConditions(t0 float64) (Vector, Vector) {
	return Vector{1}, Vector{0}
}
func (alwaysFailProblem) EvalResidual(t, dt float64, y, ydot Vector, out Vector, mode EvalMode, col int, dy float64) error {
	out[0] = 1e300 // never solvable to tolerance
	return nil
}
func (alwaysFailProblem) DeltaSolnForJacobian(t float64, y, yPrev Vector, out Vector, ewt Vector) {
	out[0] = 1e-6
}
func (alwaysFailProblem) FilterPrediction(t float64, yPred Vector)              {}
func (alwaysFailProblem) FilterNewStep(t float64, y, ydot Vector) float64       { return 0 }
func (alwaysFailProblem) StoppingCriterion(t, dt float64, y, ydot Vector) bool  { return false }
func (alwaysFailProblem) SolnScales(t float64, y, yPrev Vector, out Vector)     {}
func (alwaysFailProblem) WriteSolution(kind string, t, dt float64, n int, y, ydot Vector) {}
func (alwaysFailProblem) UserOut(phase OutputPhase, t, dt float64, y, ydot Vector) {}
