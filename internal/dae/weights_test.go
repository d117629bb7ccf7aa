package dae

import (
	"math"
	"testing"
)

func TestErrorWeightsRefresh(t *testing.T) {
	w := NewErrorWeights(2, 0.1, Vector{1e-6})
	w.Refresh(Vector{2, -4}, Vector{3, -2})

	want0 := 1e-6 + 0.1*0.5*(2+3)
	want1 := 1e-6 + 0.1*0.5*(4+2)

	if math.Abs(w.Ewt[0]-want0) > 1e-12 {
		t.Errorf("ewt[0] = %v, want %v", w.Ewt[0], want0)
	}
	if math.Abs(w.Ewt[1]-want1) > 1e-12 {
		t.Errorf("ewt[1] = %v, want %v", w.Ewt[1], want1)
	}
}

func TestWeightedNorm(t *testing.T) {
	v := Vector{2, 2}
	ewt := Vector{2, 2}
	got := WeightedNorm(v, ewt)
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("WeightedNorm = %v, want 1.0", got)
	}
}
