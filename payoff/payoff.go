// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package payoff carries the discrete value function and its AAD-carried
// sensitivities through every step of the backward induction
package payoff

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
)

// Data is one side's (call or put) time-slice value function, plus the
// adjoint fields enabled by the pricer's AdjointDifferentiation mode.
//  Payoff    -- [0..N] current time-slice value function
//  Vega      -- [0..N] ∂V/∂σ, present when mode ∈ {Vega, AllGreeks}
//  RhoBorrow -- [0..N] ∂V/∂b, present when mode ∈ {Rho, AllGreeks}
//
// RhoBorrow must be propagated grid-shaped, exactly like Vega: the adjoint
// rule for both dot and solve operates row-by-row over the whole tridiagonal
// system, so a bare scalar could not carry it through a Thomas sweep. Only
// the pivot entry is ever read back out (spec's "rho is a scalar sensitivity
// carried at the pivot only" -- see DESIGN.md's open-question decision);
// everything else in this array is scratch the greek-extraction step never
// looks at. Rho itself (∂V/∂r) is not stored at all: since the generator
// only depends on r through b = r-q, ∂V/∂r = ∂V/∂b, so it is read directly
// off RhoBorrow at the pivot -- there is no separate adjoint matrix for it
// (spec.md §4.2 defines only Avega and Arho).
type Data struct {
	Mode fdsettings.AdjointDifferentiation

	Payoff    []float64
	Vega      []float64
	RhoBorrow []float64
}

// New allocates a Data of length n+1 (n+1 grid nodes), sizing the adjoint
// fields according to mode
func New(n int, mode fdsettings.AdjointDifferentiation) *Data {
	o := &Data{Mode: mode, Payoff: make([]float64, n+1)}
	if mode.WantsVega() {
		o.Vega = make([]float64, n+1)
	}
	if mode.WantsRho() {
		o.RhoBorrow = make([]float64, n+1)
	}
	return o
}

// Reset zeroes the payoff and every enabled adjoint field, used before
// terminal-payoff initialisation
func (o *Data) Reset() {
	la.VecFill(o.Payoff, 0)
	la.VecFill(o.Vega, 0)
	la.VecFill(o.RhoBorrow, 0)
}

// Len returns the payoff length, which must always equal the grid's node
// count
func (o *Data) Len() int {
	return len(o.Payoff)
}

// CheckSize panics (a programming-error invariant, not a recoverable
// InvalidInput) if the payoff length does not match n+1, and if an enabled
// adjoint field's length diverges from the payoff's
func (o *Data) CheckSize(n int) {
	if len(o.Payoff) != n+1 {
		chk.Panic("payoff: size mismatch: len(Payoff)=%d, want %d", len(o.Payoff), n+1)
	}
	if o.Mode.WantsVega() && len(o.Vega) != len(o.Payoff) {
		chk.Panic("payoff: size mismatch: len(Vega)=%d, want %d", len(o.Vega), len(o.Payoff))
	}
	if o.Mode.WantsRho() && len(o.RhoBorrow) != len(o.Payoff) {
		chk.Panic("payoff: size mismatch: len(RhoBorrow)=%d, want %d", len(o.RhoBorrow), len(o.Payoff))
	}
}

// ZeroAdjointAt clears the adjoint entries at node i, used when American
// early exercise replaces the continuation value by the intrinsic value,
// which has no σ or b dependence
func (o *Data) ZeroAdjointAt(i int) {
	if o.Mode.WantsVega() {
		o.Vega[i] = 0
	}
	if o.Mode.WantsRho() {
		o.RhoBorrow[i] = 0
	}
}
