// Package problems provides fixed-form DAE systems for exercising and
// testing the integrator in package dae.
//
//   - [Decay]: scalar exponential decay, F = ydot + lambda*y
//   - [Linear]: constant-coefficient linear system, F = A*ydot + B*y
//   - [VanDerPol]: the stiff (mu=1000) end-to-end scenario
//   - [Robertson]: stiff chemical-kinetics DAE with an algebraic constraint
//
// Each type implements [dae.Problem]; none implement [dae.JacobianProvider],
// so building against them always exercises the numerical Jacobian sweep.
package problems
