package dae

import (
	"fmt"
	"io"
	"os"
)

// JacobianDumper writes an optional diagnostic dump: a header row
// "Unk, ewt, y, dy, Res" followed by n space-separated data rows, one per
// equation (the header uses commas but the data rows do not). Grounded on
// internal/storage's use of encoding/csv for run persistence.
type JacobianDumper struct {
	w             io.Writer
	headerWritten bool
}

// NewJacobianDumper opens (or creates) jacobian_dump.csv in the current
// directory. The driver uses it whenever dumping is enabled; WithWriter
// builds a dumper on any other writer.
func NewJacobianDumper() *JacobianDumper {
	f, err := os.Create("jacobian_dump.csv")
	if err != nil {
		return &JacobianDumper{w: io.Discard}
	}
	return &JacobianDumper{w: f}
}

// WithWriter directs the dump at an arbitrary writer, e.g. for tests.
func WithWriter(w io.Writer) *JacobianDumper {
	return &JacobianDumper{w: w}
}

// MaybeDump writes one snapshot of a Jacobian sweep: n rows of (index, ewt,
// y, dy, residual), where dy is the per-column finite-difference
// perturbation actually used (zero for an analytic Jacobian, which has no
// such perturbation) and residual is the unperturbed residual r0 at that
// row. The header is written once per dumper, not once per call.
func (jd *JacobianDumper) MaybeDump(y, ewt, dy, residual Vector) {
	if !jd.headerWritten {
		fmt.Fprintf(jd.w, "Unk, ewt, y, dy, Res\n")
		jd.headerWritten = true
	}
	for i := range y {
		fmt.Fprintf(jd.w, "%d %g %g %g %g\n", i, ewt[i], y[i], dy[i], residual[i])
	}
}
