package dae

import (
	"os"

	kitlog "github.com/go-kit/log"
)

// Logger replaces the source's printf-based print_lvl1_Header /
// print_time_step1 / print_time_step2 / print_time_fail / print_final
// cadence (print_level 0..5, set_print_options/set_print_level in spec §6)
// with leveled structured logging via go-kit/log, grounded on
// ChristopherRabotin-smd/estimate.go — the only example in the pack that
// wires a logging library into production code.
type Logger struct {
	level int
	l     kitlog.Logger
}

func NewLogger(level int) Logger {
	base := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	return Logger{level: level, l: kitlog.With(base, "component", "dae")}
}

// StepAccepted logs one line per accepted step at level >=1 (time, Δt,
// order, Newton its), adding the truncation factor and failure counter at
// level >=3.
func (lg Logger) StepAccepted(t, dt float64, order, newtonIts int, tau float64, failureCounter int) {
	if lg.level < 1 {
		return
	}
	kvs := []interface{}{"event", "step", "t", t, "dt", dt, "order", order, "newton_its", newtonIts}
	if lg.level >= 3 {
		kvs = append(kvs, "tau", tau, "failures", failureCounter)
	}
	lg.l.Log(kvs...)
}

// NewtonIteration logs one line per Newton iteration at level >=2.
func (lg Logger) NewtonIteration(t float64, it int, normS float64) {
	if lg.level < 2 {
		return
	}
	lg.l.Log("event", "newton", "t", t, "iteration", it, "norm", normS)
}

// StepFailed logs a convergence/caller failure at level >=1, adding detail
// at level >=4.
func (lg Logger) StepFailed(t, dt float64, err error) {
	if lg.level < 1 {
		return
	}
	if lg.level >= 4 {
		lg.l.Log("event", "step_failed", "t", t, "dt", dt, "err", err)
		return
	}
	lg.l.Log("event", "step_failed", "t", t, "dt", dt)
}

// TruncationFailed logs a rejected step due to truncation-error control.
func (lg Logger) TruncationFailed(t, dt, tau float64) {
	if lg.level < 1 {
		return
	}
	lg.l.Log("event", "truncation_failed", "t", t, "dt", dt, "tau", tau)
}

// Final logs the terminal summary of an integration at level >=1.
func (lg Logger) Final(t float64, stats Statistics) {
	if lg.level < 1 {
		return
	}
	lg.l.Log("event", "final", "t", t, "steps", stats.StepsAccepted, "newton_its", stats.NewtonIterations)
}
