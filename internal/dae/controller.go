package dae

import "math"

// TruncationFactor computes tau, the weighted norm of the difference between
// the corrector and the predictor — not the Newton residual. Grounded on
// BEulerInt::time_error_norm.
func TruncationFactor(yN, yPredN, ewt Vector) float64 {
	return WeightedNorm(yN.Sub(yPredN), ewt)
}

// StepDecision is the result of applying the controller's next-step law.
type StepDecision struct {
	Accept    bool
	NextDeltaT float64
}

// NextStep implements the truncation-error-driven step-size law of spec
// §4.7: tau is clamped to >= 1e-50, factor is computed by order, factor<0.5
// rejects the step (truncation failure) and halves dt, otherwise factor is
// clamped to <=1.5 and the proposed next step is factor*dtN. The churning
// guard then forbids growth while failureCounter > 0.
func NextStep(order int, tau, dtN, dtNm1 float64, failureCounter int) StepDecision {
	if tau < 1e-50 {
		tau = 1e-50
	}

	var factor float64
	if order == 2 {
		factor = math.Pow(1.0/(3.0*(1.0+dtNm1/dtN)*tau), 1.0/3.0)
	} else {
		factor = math.Sqrt(1.0 / (2.0 * tau))
	}

	if factor < 0.5 {
		return StepDecision{Accept: false, NextDeltaT: 0.5 * dtN}
	}

	if factor > 1.5 {
		factor = 1.5
	}
	next := factor * dtN

	if failureCounter > 0 && next > dtN {
		next = dtN
	}

	return StepDecision{Accept: true, NextDeltaT: next}
}

// UpdateFailureCounter applies the monotone decay/growth rule of spec §8
// property 4: decays by 1 on success, rises by 2 on truncation failure or 3
// on convergence failure.
func UpdateFailureCounter(current int, kind FailureKind, success bool) int {
	if success {
		if current > 0 {
			return current - 1
		}
		return 0
	}
	switch kind {
	case TruncationFailure:
		return current + 2
	case ConvergenceFailure, BoundaryStall, CallerError:
		return current + 3
	default:
		return current
	}
}
