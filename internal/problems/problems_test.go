package problems_test

import (
	"math"
	"testing"

	"github.com/san-kum/beuler/internal/dae"
	"github.com/san-kum/beuler/internal/problems"
)

// TestDecayConvergence is spec §8 property 1.
func TestDecayConvergence(t *testing.T) {
	p := problems.NewDecay()
	opts := dae.DefaultOptions()
	opts.RelTol = 1e-6
	opts.AbsTol = dae.Vector{1e-10}
	opts.InitialStep = 1e-4

	d := dae.NewWithOptions(p, 0, opts)
	reached := d.Integrate(1.0)

	if reached < 0 {
		t.Fatalf("integration failed, returned %v", reached)
	}

	want := math.Exp(-10)
	got := d.Y()[0]
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("y_final = %v, want ~%v (err %v)", got, want, math.Abs(got-want))
	}

	if d.Stats.StepsAccepted < 3 {
		t.Errorf("expected at least 3 accepted steps, got %d", d.Stats.StepsAccepted)
	}
	if d.Stats.StepsAccepted > 500 {
		t.Errorf("expected at most a few hundred steps, got %d", d.Stats.StepsAccepted)
	}
}

// TestLinearOneNewtonIterationPerStep is spec §8 property 2: once the
// Jacobian is current, a linear system converges in exactly one Newton
// iteration per accepted step (num_newt_its == 1, not "on average").
// SolveNonlinear always builds a fresh Jacobian before the first undamped
// step (forceNewJac=true), and for an exactly linear F the first undamped
// step itself already satisfies the convergence test, so DampStep returns
// "converged" without ever taking a second iteration. Driver.Step retries
// internally until a step is accepted or the integration gives up, so every
// return is itself one accepted step: check NewtonItsLastStep after each.
func TestLinearOneNewtonIterationPerStep(t *testing.T) {
	p := problems.NewLinearSpringMass(1.0, 4.0, 0.5)
	opts := dae.DefaultOptions()
	opts.RelTol = 1e-6
	opts.AbsTol = dae.Vector{1e-8}
	opts.InitialStep = 0.01
	opts.MaxStep = 0.05

	d := dae.NewWithOptions(p, 0, opts)
	steps := 0
	for steps < 1000 {
		reached := d.Step(0.2)
		if reached < 0 {
			t.Fatalf("integration failed, returned %v", reached)
		}
		steps++
		if d.Stats.NewtonItsLastStep != 1 {
			t.Errorf("step %d: num_newt_its = %d, want exactly 1", steps, d.Stats.NewtonItsLastStep)
		}
		if reached >= 0.2 {
			break
		}
	}
	if d.Stats.StepsAccepted == 0 {
		t.Fatal("no steps accepted")
	}
}

// TestVanDerPolStiffEndToEnd is spec §8's end-to-end scenario.
func TestVanDerPolStiffEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long stiff integration in short mode")
	}
	p := problems.NewVanDerPol(1000)
	opts := dae.DefaultOptions()
	opts.RelTol = 1e-4
	opts.AbsTol = dae.Vector{1e-6}
	opts.InitialStep = 1e-6
	opts.MaxAttempts = 200000

	d := dae.NewWithOptions(p, 0, opts)
	reached := d.Integrate(3000)

	if reached < 0 {
		t.Fatalf("integration failed, returned %v", reached)
	}

	y1 := d.Y()[0]
	if math.Abs(y1-(-1.7)) > 0.05 {
		t.Errorf("y1(3000) = %v, want -1.7 +/- 0.05", y1)
	}

	if d.Stats.NewtonIterations < 1500 || d.Stats.NewtonIterations > 20000 {
		t.Errorf("total Newton iterations = %d, want in [1500, 20000]", d.Stats.NewtonIterations)
	}
}

// TestRobertsonConservation is the supplemented property from SPEC_FULL §8.1.
func TestRobertsonConservation(t *testing.T) {
	p := problems.NewRobertson()
	opts := dae.DefaultOptions()
	opts.RelTol = 1e-4
	opts.AbsTol = dae.Vector{1e-8}
	opts.InitialStep = 1e-8

	d := dae.NewWithOptions(p, 0, opts)
	reached := d.Integrate(1.0)
	if reached < 0 {
		t.Fatalf("integration failed, returned %v", reached)
	}

	y := d.Y()
	sum := y[0] + y[1] + y[2]
	if math.Abs(sum-1.0) > 1e-3 {
		t.Errorf("mass conservation violated: sum = %v, want ~1", sum)
	}
}
