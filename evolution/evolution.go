// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package evolution implements the θ-scheme time-evolution operator that
// composes a single spatial generator A into an explicit half L and an
// implicit half R, the discrete analogue of x_n = R^-1 L x_{n+1}.
package evolution

import (
	"github.com/cpmech/gosl/chk"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
	"github.com/jingyuzhao-math/fdpricing/grid"
	"github.com/jingyuzhao-math/fdpricing/payoff"
	"github.com/jingyuzhao-math/fdpricing/tdop"
)

// Operator holds the two tridiagonal operators L = I + (1-θ)Δt·A and
// R = I - θΔt·A built from a single generator A. It must be rebuilt
// (via Rebuild) whenever Δt changes, e.g. around a discrete dividend.
type Operator struct {
	theta float64
	dt    float64

	a *tdop.Operator
	L *tdop.Operator
	R *tdop.Operator
}

// Construct builds A from the market data and grid, then clones it into L
// and R and applies the θ-scheme weights for time step dt
func Construct(g *grid.Grid, sigma, b, theta, dt float64, mode fdsettings.AdjointDifferentiation) *Operator {
	if theta < 0 || theta > 1 {
		chk.Panic("evolution: θ must be in [0,1] (θ=%v is incorrect)", theta)
	}
	o := &Operator{theta: theta, dt: dt}
	o.a = tdop.Make(g, sigma, b, mode)
	o.rebuildFromA()
	return o
}

// rebuildFromA clones A into L,R and applies the θ-scheme coefficients:
// L = I + (1-θ)Δt·A  (applied via Dot, the explicit half)
// R = I - θΔt·A       (applied via Solve, the implicit half)
func (o *Operator) rebuildFromA() {
	o.L = o.a.Clone()
	o.L.Add(1.0, (1.0-o.theta)*o.dt)
	o.R = o.a.Clone()
	o.R.Add(1.0, -o.theta*o.dt)
}

// Rebuild reconstitutes L and R for a new Δt without touching or
// reallocating the underlying generator A (A has no Δt dependence; only the
// θ-scheme combination does), used around discrete dividends and during
// refinement
func (o *Operator) Rebuild(dt float64) {
	o.dt = dt
	o.rebuildFromA()
}

// Apply advances p one time step back in time: first the explicit half
// (dot), then the implicit half (solve)
func (o *Operator) Apply(p *payoff.Data) {
	o.L.Dot(p)
	o.R.Solve(p)
}

// Dt returns the Δt this operator was last built for
func (o *Operator) Dt() float64 {
	return o.dt
}
