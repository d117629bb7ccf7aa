package dae

// Predict forms the explicit predictor y_pred for the next step, per
// spec §4.3. order 2 is implemented for completeness (spec §9: "reserved
// but inactive") but the driver's order-selection never chooses it.
func Predict(order int, yN, ydotN, ydotNm1 Vector, dtN, dtNm1 float64) Vector {
	n := len(yN)
	yPred := make(Vector, n)
	switch order {
	case 2:
		c1 := dtN * (2 + dtN/dtNm1) / 2
		c2 := dtN * dtN / (2 * dtNm1)
		for i := 0; i < n; i++ {
			yPred[i] = yN[i] + c1*ydotN[i] - c2*ydotNm1[i]
		}
	default:
		for i := 0; i < n; i++ {
			yPred[i] = yN[i] + dtN*ydotN[i]
		}
	}
	return yPred
}

// ReconstructYdot computes the derivative implied by the backward-difference
// relation that the Newton system closes, per spec §4.4.
func ReconstructYdot(order int, y, yNm1, ydotNm1 Vector, dtN float64) Vector {
	n := len(y)
	ydot := make(Vector, n)
	switch order {
	case 2:
		for i := 0; i < n; i++ {
			ydot[i] = 2*(y[i]-yNm1[i])/dtN - ydotNm1[i]
		}
	default:
		for i := 0; i < n; i++ {
			ydot[i] = (y[i] - yNm1[i]) / dtN
		}
	}
	return ydot
}

// Cj returns d(ydot)/dy for the backward-difference reconstruction:
// order/dtN, used both in Jacobian assembly and the damped search.
func Cj(order int, dtN float64) float64 {
	return float64(order) / dtN
}
