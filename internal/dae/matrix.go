package dae

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Jacobian is a dense n×n matrix with in-place LU factor/solve and a
// "factored" flag, grounded on the dense-solve usage in gonum-based control
// code in the example pack (hammal-GoCBC's Riccati solver calls
// mat.Dense.Solve directly; this wraps the same library at a granularity
// that lets the driver track factorization state explicitly, the way the
// source's BEulerInt tracks GETRF/GETRS cycles).
type Jacobian struct {
	n        int
	a        *mat.Dense
	lu       mat.LU
	factored bool

	RowScales Vector
	ColScales Vector
}

// NewJacobian allocates an n×n Jacobian store, zeroed.
func NewJacobian(n int) *Jacobian {
	return &Jacobian{
		n:         n,
		a:         mat.NewDense(n, n, nil),
		RowScales: make(Vector, n),
		ColScales: make(Vector, n),
	}
}

// N returns the matrix dimension.
func (j *Jacobian) N() int { return j.n }

// Set writes J(i,j). Any write marks the matrix unfactored.
func (j *Jacobian) Set(i, col int, v float64) {
	j.a.Set(i, col, v)
	j.factored = false
}

// At reads J(i,j).
func (j *Jacobian) At(i, col int) float64 {
	return j.a.At(i, col)
}

// Factored reports whether the last write has been superseded by a
// successful LU factorization.
func (j *Jacobian) Factored() bool { return j.factored }

// Factor performs an LU decomposition. Solve implicitly factors if this has
// not been called since the last write.
func (j *Jacobian) Factor() error {
	j.lu.Factorize(j.a)
	j.factored = true
	return nil
}

// Solve computes x such that J*x = b, factoring first if necessary. b is
// consumed; the result is returned as a new vector.
func (j *Jacobian) Solve(b Vector) (Vector, error) {
	if !j.factored {
		if err := j.Factor(); err != nil {
			return nil, err
		}
	}
	bv := mat.NewVecDense(j.n, []float64(b))
	xv := mat.NewVecDense(j.n, nil)
	if err := xv.SolveVec(&j.lu, bv); err != nil {
		return nil, fmt.Errorf("dae: singular jacobian: %w", err)
	}
	x := make(Vector, j.n)
	for i := 0; i < j.n; i++ {
		x[i] = xv.AtVec(i)
	}
	return x, nil
}

// ApplyColScales multiplies each column j of the matrix by ColScales[j],
// per spec §4.6 ("apply col_scales to Jacobian columns").
func (j *Jacobian) ApplyColScales() {
	for col := 0; col < j.n; col++ {
		s := j.ColScales[col]
		for row := 0; row < j.n; row++ {
			j.a.Set(row, col, j.a.At(row, col)*s)
		}
	}
	j.factored = false
}

// ComputeRowScales sets RowScales[i] to the row-sum (L1) norm of row i, per
// spec §4.6 ("row_scales_i = sum_j |J_ij|").
func (j *Jacobian) ComputeRowScales() {
	for row := 0; row < j.n; row++ {
		sum := 0.0
		for col := 0; col < j.n; col++ {
			v := j.a.At(row, col)
			if v < 0 {
				v = -v
			}
			sum += v
		}
		if sum == 0 {
			sum = 1
		}
		j.RowScales[row] = sum
	}
}

// ApplyRowScales divides each row of the matrix by RowScales[i]. Call once
// per fresh Jacobian, after ComputeRowScales and before Factor.
func (j *Jacobian) ApplyRowScales() {
	for row := 0; row < j.n; row++ {
		s := j.RowScales[row]
		for col := 0; col < j.n; col++ {
			j.a.Set(row, col, j.a.At(row, col)/s)
		}
	}
	j.factored = false
}

// ApplyRowScalesToRHS divides rhs by the already-computed RowScales, without
// touching the matrix. Used on every damped-search trial, which reuses one
// factorization against many right-hand sides.
func (j *Jacobian) ApplyRowScalesToRHS(rhs Vector) {
	for row := 0; row < j.n; row++ {
		rhs[row] /= j.RowScales[row]
	}
}

// ReverseColScales multiplies x[i] by ColScales[i] in place, undoing the
// column scaling applied before the solve.
func (j *Jacobian) ReverseColScales(x Vector) {
	for i := range x {
		x[i] *= j.ColScales[i]
	}
}
