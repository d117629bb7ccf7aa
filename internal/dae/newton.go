package dae

import "math"

const (
	ndamp      = 10
	dampFactor = 4.0
)

// NonlinearOptions controls the Newton corrector's convergence policy.
type NonlinearOptions struct {
	MinNewtIts    int
	ColScaling    bool
	RowScaling    bool
	MatrixCond    bool // present-but-optional per spec §9; no behavior is wired to it
}

func DefaultNonlinearOptions() NonlinearOptions {
	return NonlinearOptions{MinNewtIts: 0}
}

// UndampedStep evaluates r at (y,ydot), forms s = -r, applies the row
// scaling already computed for the current Jacobian (if any), and solves
// J*x=s. Column scaling and row-scale computation happen once per fresh
// Jacobian, in SolveNonlinear, before Factor. Grounded on
// BEulerInt::doNewtonSolve.
func UndampedStep(p Problem, jac *Jacobian, opts NonlinearOptions, t, dt float64, y, ydot Vector, stats *Statistics) (Vector, error) {
	n := len(y)
	r := make(Vector, n)
	if err := p.EvalResidual(t, dt, y, ydot, r, Base, -1, 0); err != nil {
		return nil, &StepError{Kind: CallerError, Time: t, DeltaT: dt, Wrapped: err}
	}
	stats.FunctionEvals++

	s := make(Vector, n)
	for i := range s {
		s[i] = -r[i]
	}

	if opts.RowScaling {
		jac.ApplyRowScalesToRHS(s)
	}

	x, err := jac.Solve(s)
	if err != nil {
		return nil, &StepError{Kind: ConvergenceFailure, Time: t, DeltaT: dt, Wrapped: err}
	}
	stats.LinearSolves++

	if opts.ColScaling {
		jac.ReverseColScales(x)
	}
	return x, nil
}

// BoundStep computes the damping factor fbound in (0,1] enforcing
// positivity-like constraints and magnitude-change limits, per spec §4.6.
func BoundStep(y, s, ewt Vector) float64 {
	fLow := 1.0
	for i := range y {
		if y[i] >= 0 && y[i]+s[i] < -0.01*ewt[i] {
			ff := 0.9 * y[i] / (y[i] - (y[i] + s[i]))
			if ff < fLow {
				fLow = ff
			}
		}
	}

	fDelta := 1.0
	for i := range y {
		trial := y[i] + s[i]
		step := trial - y[i]
		if step == 0 {
			continue
		}
		grew := math.Abs(trial) > 2*math.Abs(y[i])
		shrank := math.Abs(trial) < math.Abs(y[i])/5
		if grew && math.Abs(step) > ewt[i] {
			ff := math.Max(math.Abs(y[i]/step), math.Abs(ewt[i]/step))
			if ff < fDelta {
				fDelta = ff
			}
		} else if shrank {
			ff := math.Abs(y[i]/step) * (4.0 / 5.0)
			if ff < fDelta {
				fDelta = ff
			}
		}
	}

	return math.Min(fLow, fDelta)
}

// DampResult is the return code of one damped line-search attempt.
type DampResult int

const (
	DampConverged DampResult = 1
	DampContinue  DampResult = 0
	DampFailed    DampResult = -2
)

// DampStep runs the bounded, damped line search of spec §4.6. It reuses the
// current Jacobian factorization (no refactor) while probing trial points.
func DampStep(p Problem, jac *Jacobian, opts NonlinearOptions, order int, fbound float64, t, dt float64, y, yNm1, ydotNm1, s, ewt Vector, stats *Statistics) (DampResult, Vector, Vector, error) {
	normS := WeightedNorm(s, ewt)
	damp := 1.0

	for attempt := 0; attempt < ndamp; attempt++ {
		y1 := make(Vector, len(y))
		for i := range y1 {
			y1[i] = y[i] + fbound*damp*s[i]
		}
		ydot1 := ReconstructYdot(order, y1, yNm1, ydotNm1, dt)

		s1, err := UndampedStep(p, jac, opts, t, dt, y1, ydot1, stats)
		if err != nil {
			return DampFailed, nil, nil, err
		}

		normS1 := WeightedNorm(s1, ewt)

		if normS1 < normS || normS1 < 1e-5 {
			if normS1 < 1.0 {
				return DampConverged, y1, ydot1, nil
			}
			return DampContinue, y1, ydot1, nil
		}

		damp /= dampFactor
	}

	return DampFailed, nil, nil, nil
}

// SolveNonlinear runs the outer Newton loop: each iteration forces a fresh
// Jacobian, computes the undamped step, and runs the damped search.
// Terminates successfully when DampStep returns converged and the
// iteration count has reached MinNewtIts; fails after more than 20
// iterations or when DampStep fails. Grounded on
// BEulerInt::solve_nonlinear_problem (forceNewJac is always true). logger
// receives one NewtonIteration call per outer pass (print_level >= 2); the
// per-step totals it leaves in stats.NewtonItsLastStep/LinearSolvesLastStep/
// JacobianReevalsLastStep are what the caller reports for this step alone.
func SolveNonlinear(p Problem, jacMethod JacobianMethod, opts NonlinearOptions, order int, t, dt, cj float64, y, yNm1, ydotNm1, ewt Vector, stats *Statistics, logger Logger, dumper *JacobianDumper) (Vector, Vector, error) {
	n := len(y)
	jac := NewJacobian(n)
	r0 := make(Vector, n)
	curY := y.Clone()
	curYdot := ReconstructYdot(order, curY, yNm1, ydotNm1, dt)

	startLinSolves := stats.LinearSolves
	startJacEvals := stats.JacobianEvals
	itsTaken := 0
	defer func() {
		stats.NewtonItsLastStep = itsTaken
		stats.LinearSolvesLastStep = stats.LinearSolves - startLinSolves
		stats.JacobianReevalsLastStep = stats.JacobianEvals - startJacEvals
	}()

	const maxIts = 20
	for it := 0; it < maxIts; it++ {
		if opts.ColScaling {
			p.SolnScales(t, curY, yNm1, jac.ColScales)
		}
		if err := BuildJacobian(p, jacMethod, t, dt, cj, curY, curYdot, ewt, jac, r0, stats, dumper); err != nil {
			return nil, nil, err
		}
		if opts.ColScaling {
			jac.ApplyColScales()
		}
		if opts.RowScaling {
			jac.ComputeRowScales()
			jac.ApplyRowScales()
		}
		if err := jac.Factor(); err != nil {
			return nil, nil, &StepError{Kind: ConvergenceFailure, Time: t, DeltaT: dt, Wrapped: err}
		}

		s, err := UndampedStep(p, jac, opts, t, dt, curY, curYdot, stats)
		if err != nil {
			return nil, nil, err
		}
		stats.NewtonIterations++
		itsTaken++
		logger.NewtonIteration(t, itsTaken, WeightedNorm(s, ewt))

		fbound := BoundStep(curY, s, ewt)
		if fbound < 1e-10 {
			return nil, nil, &StepError{Kind: BoundaryStall, Time: t, DeltaT: dt}
		}

		result, y1, ydot1, err := DampStep(p, jac, opts, order, fbound, t, dt, curY, yNm1, ydotNm1, s, ewt, stats)
		if err != nil {
			return nil, nil, err
		}

		switch result {
		case DampFailed:
			return nil, nil, &StepError{Kind: ConvergenceFailure, Time: t, DeltaT: dt}
		case DampConverged:
			curY, curYdot = y1, ydot1
			if it+1 >= opts.MinNewtIts {
				return curY, curYdot, nil
			}
		default:
			curY, curYdot = y1, ydot1
		}
	}

	return nil, nil, &StepError{Kind: ConvergenceFailure, Time: t, DeltaT: dt, Counter: maxIts}
}
