package dae

// ErrorWeights holds per-component error weights and the tolerances they
// were derived from.
type ErrorWeights struct {
	RelTol float64
	AbsTol Vector // length n; a scalar tolerance is represented as all-equal entries
	Ewt    Vector
}

// NewErrorWeights allocates a weights tracker for n equations. absTol may be
// a single-element vector, in which case it is broadcast as a scalar
// tolerance (set_tolerances_scalar), or a length-n vector
// (set_tolerances_vector).
func NewErrorWeights(n int, relTol float64, absTol Vector) *ErrorWeights {
	at := make(Vector, n)
	if len(absTol) == 1 {
		for i := range at {
			at[i] = absTol[0]
		}
	} else {
		copy(at, absTol)
	}
	return &ErrorWeights{
		RelTol: relTol,
		AbsTol: at,
		Ewt:    make(Vector, n),
	}
}

// Refresh recomputes Ewt from the current and predicted solution:
// ewt[i] = abstol[i] + reltol * 0.5*(|y[i]| + |yPred[i]|).
func (w *ErrorWeights) Refresh(y, yPred Vector) {
	for i := range w.Ewt {
		mag := 0.5 * (absf(y[i]) + absf(yPred[i]))
		w.Ewt[i] = w.AbsTol[i] + w.RelTol*mag
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
