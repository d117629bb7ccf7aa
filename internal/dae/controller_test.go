package dae

import "testing"

func TestUpdateFailureCounterDecay(t *testing.T) {
	k := 5
	for m := 1; m <= 5; m++ {
		k = UpdateFailureCounter(k, 0, true)
		want := 5 - m
		if want < 0 {
			want = 0
		}
		if k != want {
			t.Fatalf("after %d successes, counter = %d, want %d", m, k, want)
		}
	}
	if k != 0 {
		t.Fatalf("counter should floor at 0, got %d", k)
	}
}

func TestUpdateFailureCounterGrowth(t *testing.T) {
	if got := UpdateFailureCounter(0, ConvergenceFailure, false); got != 3 {
		t.Errorf("convergence failure: got %d, want 3", got)
	}
	if got := UpdateFailureCounter(0, TruncationFailure, false); got != 2 {
		t.Errorf("truncation failure: got %d, want 2", got)
	}
}

func TestNextStepTruncationRejects(t *testing.T) {
	// tau very large => factor << 0.5 => reject, propose 0.5*dtN.
	dec := NextStep(1, 1e10, 1.0, 1.0, 0)
	if dec.Accept {
		t.Fatal("expected rejection for large tau")
	}
	if dec.NextDeltaT != 0.5 {
		t.Errorf("NextDeltaT = %v, want 0.5", dec.NextDeltaT)
	}
}

func TestNextStepClampsGrowth(t *testing.T) {
	// tau tiny => factor huge => clamp to 1.5.
	dec := NextStep(1, 1e-60, 1.0, 1.0, 0)
	if !dec.Accept {
		t.Fatal("expected acceptance for tiny tau")
	}
	if dec.NextDeltaT != 1.5 {
		t.Errorf("NextDeltaT = %v, want clamp to 1.5", dec.NextDeltaT)
	}
}

func TestNextStepChurningGuard(t *testing.T) {
	dec := NextStep(1, 1e-60, 1.0, 1.0, 3) // failureCounter > 0 forbids growth
	if dec.NextDeltaT > 1.0 {
		t.Errorf("churning guard violated: NextDeltaT = %v, want <= dtN", dec.NextDeltaT)
	}
}
