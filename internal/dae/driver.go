package dae


const maxConsecutiveFailures = 35

// Options configures a Driver's policy knobs, mirroring the External
// Interfaces setters of spec §6.
type Options struct {
	RelTol               float64
	AbsTol               Vector
	Method               Method
	JacobianMethod       JacobianMethod
	MaxStep              float64 // hmax; 0 means unbounded
	MaxAttempts          int     // global attempt budget; 0 means unbounded
	InitialStep          float64
	InitialConstantSteps int // const_step_count
	Nonlinear            NonlinearOptions
	PrintLevel           int
	DumpJacobians        bool
}

func DefaultOptions() Options {
	return Options{
		RelTol:      1e-6,
		AbsTol:      Vector{1e-10},
		Method:      Variable,
		MaxAttempts: 100000,
		InitialStep: 1e-6,
		Nonlinear:   DefaultNonlinearOptions(),
	}
}

// Driver owns one active integration: every scratch buffer, the Jacobian
// and its factorization, and all bookkeeping counters. Single-threaded,
// fully synchronous; no goroutines are spawned anywhere in this package.
type Driver struct {
	problem Problem
	opts    Options
	weights *ErrorWeights
	logger  Logger
	dumper  *JacobianDumper

	n int

	yN, yNm1, yPredN   Vector
	ydotN, ydotNm1     Vector

	t0, timeN, timeNm1, timeNm2 float64
	dtN, dtNm1, dtNm2, dtNp1    float64
	deltaTMax                   float64

	order          int
	failureCounter int
	consecFailures int
	stepNo         int

	Stats Statistics
}

// New creates a driver bound to problem and t0 with default options.
// Use NewWithOptions to override tolerances, method, etc.
func New(problem Problem, t0 float64) *Driver {
	return NewWithOptions(problem, t0, DefaultOptions())
}

// NewWithOptions is the init(t0, problem) operation of spec §3's lifecycle.
func NewWithOptions(problem Problem, t0 float64, opts Options) *Driver {
	n := problem.NEquations()
	d := &Driver{
		problem:   problem,
		opts:      opts,
		n:         n,
		deltaTMax: opts.MaxStep,
		logger:    NewLogger(opts.PrintLevel),
		order:     1,
	}
	if opts.DumpJacobians || opts.PrintLevel >= 5 {
		d.dumper = NewJacobianDumper()
	}
	d.weights = NewErrorWeights(n, opts.RelTol, opts.AbsTol)
	d.reinit(t0)
	return d
}

func (d *Driver) reinit(t0 float64) {
	y, ydot := d.problem.InitialConditions(t0)
	d.yN = y.Clone()
	d.yNm1 = y.Clone()
	d.yPredN = y.Clone()
	d.ydotN = ydot.Clone()
	d.ydotNm1 = ydot.Clone()
	d.t0 = t0
	d.timeN, d.timeNm1, d.timeNm2 = t0, t0, t0
	d.dtN, d.dtNm1, d.dtNm2, d.dtNp1 = 0, 0, 0, d.opts.InitialStep
	d.stepNo = 0
	d.problem.UserOut(PhaseInit, t0, 0, d.yN, d.ydotN)
}

// Reinit repeats the allocation and state reset without destroying counters,
// per spec §3's lifecycle ("reinit(t0, problem)").
func (d *Driver) Reinit(t0 float64) {
	d.reinit(t0)
}

// NEvals returns the total function-evaluation count (n_evals()).
func (d *Driver) NEvals() int { return d.Stats.FunctionEvals }

// Y returns the current accepted solution.
func (d *Driver) Y() Vector { return d.yN.Clone() }

// Integrate advances from t0 to tout. Return value follows spec §6's sign
// convention: positive is the time reached on success; exactly -1234 is
// failure at t=0; any other negative value v means failure at t=|v|.
func (d *Driver) Integrate(tout float64) float64 {
	for d.timeN < tout {
		if d.problem.StoppingCriterion(d.timeN, d.dtN, d.yN, d.ydotN) {
			break
		}
		reached := d.Step(tout)
		if reached < 0 {
			d.logger.Final(d.timeN, d.Stats)
			return reached
		}
	}
	d.logger.Final(d.timeN, d.Stats)
	return d.timeN
}

// Step retries rejected attempts toward tMax until one step is accepted or
// the integration fails, and returns the same sign-encoded value as
// Integrate. If time_n has already reached tMax it returns time_n without
// taking a step.
func (d *Driver) Step(tMax float64) float64 {
	for {
		d.Stats.StepAttempts++
		if d.opts.MaxAttempts > 0 && d.Stats.StepAttempts > d.opts.MaxAttempts {
			return d.fail(AttemptBudgetExceeded)
		}

		proposed := d.dtNp1
		if d.stepNo < d.opts.InitialConstantSteps {
			proposed = d.opts.InitialStep
		}
		if proposed > tMax-d.timeN {
			proposed = tMax - d.timeN
		}
		if d.deltaTMax > 0 && proposed > d.deltaTMax {
			proposed = d.deltaTMax
		}
		if proposed <= 0 {
			return d.timeN
		}

		// shift history
		prevTimeN, prevTimeNm1, prevTimeNm2 := d.timeN, d.timeNm1, d.timeNm2
		prevDtN, prevDtNm1, prevDtNm2 := d.dtN, d.dtNm1, d.dtNm2
		prevY, prevYdot := d.yN.Clone(), d.ydotN.Clone()

		d.dtNm2, d.dtNm1, d.dtN = d.dtNm1, d.dtN, proposed
		d.timeNm2, d.timeNm1 = d.timeNm1, d.timeN
		d.timeN = d.timeNm1 + d.dtN
		d.stepNo++

		order := d.chooseOrder()
		d.yNm1 = d.yN.Clone()
		d.ydotNm1 = d.ydotN.Clone()

		yPred := Predict(order, d.yNm1, d.ydotNm1, d.ydotNm2(), d.dtN, d.dtNm1)
		d.problem.FilterPrediction(d.timeN, yPred)
		d.yPredN = yPred

		d.weights.Refresh(d.yNm1, d.yPredN)
		cj := Cj(order, d.dtN)

		yNew, ydotNew, err := SolveNonlinear(d.problem, d.opts.JacobianMethod, d.opts.Nonlinear, order, d.timeN, d.dtN, cj, d.yPredN, d.yNm1, d.ydotNm1, d.weights.Ewt, &d.Stats, d.logger, d.dumper)

		if err == nil {
			filterNorm := d.problem.FilterNewStep(d.timeN, yNew, ydotNew)
			if filterNorm > 1 {
				err = &StepError{Kind: ConvergenceFailure, Time: d.timeN, DeltaT: d.dtN}
			}
		}

		if err != nil {
			attemptedDt := d.dtN
			d.restoreHistory(prevTimeN, prevTimeNm1, prevTimeNm2, prevDtN, prevDtNm1, prevDtNm2, prevY, prevYdot)
			d.Stats.ConvergenceFailures++
			d.failureCounter = UpdateFailureCounter(d.failureCounter, ConvergenceFailure, false)
			d.dtNp1 = 0.25 * attemptedDt
			d.consecFailures++
			d.logger.StepFailed(d.timeN, d.dtN, err)
			d.problem.UserOut(PhaseFailure, d.timeN, d.dtN, prevY, prevYdot)
			if d.consecFailures >= maxConsecutiveFailures {
				return d.fail(ConsecutiveFailureLimit)
			}
			if d.opts.Method == Fixed {
				return d.fail(ConvergenceFailure)
			}
			continue
		}

		d.yN = yNew
		d.ydotN = ydotNew
		d.order = order

		tau := TruncationFactor(d.yN, d.yPredN, d.weights.Ewt)
		decision := NextStep(order, tau, d.dtN, d.dtNm1, d.failureCounter)

		if !decision.Accept {
			d.restoreHistory(prevTimeN, prevTimeNm1, prevTimeNm2, prevDtN, prevDtNm1, prevDtNm2, prevY, prevYdot)
			d.Stats.TruncationFailures++
			d.failureCounter = UpdateFailureCounter(d.failureCounter, TruncationFailure, false)
			d.dtNp1 = decision.NextDeltaT
			d.consecFailures++
			d.logger.TruncationFailed(d.timeN, d.dtN, tau)
			if d.consecFailures >= maxConsecutiveFailures {
				return d.fail(ConsecutiveFailureLimit)
			}
			continue
		}

		d.failureCounter = UpdateFailureCounter(d.failureCounter, 0, true)
		d.consecFailures = 0
		d.dtNp1 = decision.NextDeltaT
		d.Stats.StepsAccepted++
		d.Stats.LastStepSize = d.dtN
		d.Stats.LastOrder = order

		d.logger.StepAccepted(d.timeN, d.dtN, order, d.Stats.NewtonItsLastStep, tau, d.failureCounter)
		d.problem.WriteSolution("accepted", d.timeN, d.dtN, d.stepNo, d.yN, d.ydotN)
		d.problem.UserOut(PhaseSuccess, d.timeN, d.dtN, d.yN, d.ydotN)

		return d.timeN
	}
}

// ydotNm2 supplies the older-derivative argument of the order-2 predictor.
// The driver keeps no derivative history beyond ydotNm1, so it returns
// ydotNm1 itself. Order 2 is never selected by chooseOrder, so this path is
// not taken.
func (d *Driver) ydotNm2() Vector {
	return d.ydotNm1
}

// chooseOrder implements spec §4.8's table: order is always 1 in this core
// (2nd order is reserved but inactive, per spec §9).
func (d *Driver) chooseOrder() int {
	return 1
}

func (d *Driver) restoreHistory(timeN, timeNm1, timeNm2, dtN, dtNm1, dtNm2 float64, y, ydot Vector) {
	d.timeN, d.timeNm1, d.timeNm2 = timeN, timeNm1, timeNm2
	d.dtN, d.dtNm1, d.dtNm2 = dtN, dtNm1, dtNm2
	d.yN, d.ydotN = y, ydot
}

func (d *Driver) fail(kind FailureKind) float64 {
	d.problem.UserOut(PhaseFailure, d.timeN, d.dtN, d.yN, d.ydotN)
	if d.timeN == 0 {
		return -1234
	}
	return -d.timeN
}
