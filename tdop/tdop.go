// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tdop implements the tridiagonal spatial discretisation of the
// Black-Scholes generator L = 1/2 σ²x²∂xx + bx∂x on a non-uniform grid,
// together with its adjoint (vega, rho-borrow) derivative operators and the
// Thomas algorithm used to invert it.
package tdop

import (
	"github.com/cpmech/gosl/chk"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
	"github.com/jingyuzhao-math/fdpricing/grid"
	"github.com/jingyuzhao-math/fdpricing/payoff"
)

// Row holds the three stencil coefficients of one grid row. Boundary rows
// are two-point stencils: row 0 has Minus=0, row N has Plus=0.
type Row struct {
	Minus, Zero, Plus float64
}

// Operator holds N+1 rows encoding a tridiagonal linear operator over the
// grid, plus (when the pricer's adjoint mode requires them) the parallel
// derivative operators Avega = ∂A/∂σ and Arho = ∂A/∂b.
type Operator struct {
	g    *grid.Grid
	rows []Row

	// adjoint derivative operators, built only when AdjointDifferentiation
	// requests them; nil otherwise
	avega []Row
	arho  []Row

	mode fdsettings.AdjointDifferentiation

	// Thomas solver scratch, lazily sized on first Solve call and reused
	// thereafter -- the only allocation inside the hot loop's steady state
	cPrime []float64

	// Dot/Solve scratch, lazily sized on first use and reused thereafter so
	// that no step of the backward induction allocates
	scratch1, scratch2 []float64
}

// scratchOf lazily sizes and returns the two scratch buffers shared by every
// Dot/Solve call on this operator
func (o *Operator) scratchOf(n int) (s1, s2 []float64) {
	if o.scratch1 == nil {
		o.scratch1 = make([]float64, n+1)
		o.scratch2 = make([]float64, n+1)
	}
	return o.scratch1, o.scratch2
}

// Make builds the tridiagonal discretisation of the Black-Scholes generator
// for the given market data (sigma, b) over g, specialising the adjoint
// matrices according to mode.
func Make(g *grid.Grid, sigma, b float64, mode fdsettings.AdjointDifferentiation) *Operator {
	n := g.N
	o := &Operator{g: g, mode: mode, rows: make([]Row, n+1)}
	if mode.WantsVega() {
		o.avega = make([]Row, n+1)
	}
	if mode.WantsRho() {
		o.arho = make([]Row, n+1)
	}

	x := g.Nodes()
	sigma2 := sigma * sigma
	dSigma2 := 2 * sigma // d(σ²)/dσ

	// interior rows
	for i := 1; i < n; i++ {
		dPlus := x[i+1] - x[i]
		dMinus := x[i] - x[i-1]
		d := dPlus + dMinus
		mu := b * x[i]
		diff := sigma2 * x[i] * x[i]

		o.rows[i].Minus = (-dPlus*mu + diff) / (dMinus * d)
		o.rows[i].Plus = (dMinus*mu + diff) / (dPlus * d)
		o.rows[i].Zero = -o.rows[i].Minus - o.rows[i].Plus

		if o.avega != nil {
			diffV := dSigma2 * x[i] * x[i]
			o.avega[i].Minus = diffV / (dMinus * d)
			o.avega[i].Plus = diffV / (dPlus * d)
			o.avega[i].Zero = -o.avega[i].Minus - o.avega[i].Plus
		}
		if o.arho != nil {
			o.arho[i].Minus = -dPlus * x[i] / (dMinus * d)
			o.arho[i].Plus = dMinus * x[i] / (dPlus * d)
			o.arho[i].Zero = -o.arho[i].Minus - o.arho[i].Plus
		}
	}

	// boundary rows: zero-drift / zero-Γ so that A·x has zero outward flux
	dx0 := x[1] - x[0]
	o.rows[0].Minus = 0
	o.rows[0].Zero = -sigma2 * x[0] * x[0] / (dx0 * dx0)
	o.rows[0].Plus = -o.rows[0].Zero

	dxN := x[n] - x[n-1]
	o.rows[n].Plus = 0
	o.rows[n].Zero = -sigma2 * x[n] * x[n] / (dxN * dxN)
	o.rows[n].Minus = -o.rows[n].Zero

	if o.avega != nil {
		o.avega[0].Minus = 0
		o.avega[0].Zero = -dSigma2 * x[0] * x[0] / (dx0 * dx0)
		o.avega[0].Plus = -o.avega[0].Zero
		o.avega[n].Plus = 0
		o.avega[n].Zero = -dSigma2 * x[n] * x[n] / (dxN * dxN)
		o.avega[n].Minus = -o.avega[n].Zero
	}
	// rho-borrow has no diffusion part; the boundary discretisation above
	// carries no drift term either, so Arho's boundary rows stay zero

	return o
}

// Clone makes an independent copy sharing the same grid, used to build L
// and R from a single generator A
func (o *Operator) Clone() *Operator {
	c := &Operator{g: o.g, mode: o.mode, rows: append([]Row(nil), o.rows...)}
	if o.avega != nil {
		c.avega = append([]Row(nil), o.avega...)
	}
	if o.arho != nil {
		c.arho = append([]Row(nil), o.arho...)
	}
	return c
}

// Add forms β·A + α·I in place. The adjoint matrices are derivatives of A,
// not of I, so they are scaled by β only -- this identity is what lets the
// evolution operator assemble itself as α·I + β·A and automatically carry
// its derivative as β·A'.
func (o *Operator) Add(alpha, beta float64) {
	for i := range o.rows {
		o.rows[i].Zero = alpha + beta*o.rows[i].Zero
		o.rows[i].Plus = beta * o.rows[i].Plus
		o.rows[i].Minus = beta * o.rows[i].Minus
	}
	for i := range o.avega {
		o.avega[i].Zero *= beta
		o.avega[i].Plus *= beta
		o.avega[i].Minus *= beta
	}
	for i := range o.arho {
		o.arho[i].Zero *= beta
		o.arho[i].Plus *= beta
		o.arho[i].Minus *= beta
	}
}

// applyRows computes dst = M·src for a row-stencil matrix M; dst must not
// alias src, since row i+1 reads src[i] after dst[i] has been written.
func applyRows(rows []Row, src, dst []float64) {
	n := len(rows) - 1
	first := rows[0].Zero*src[0] + rows[0].Plus*src[1]
	last := rows[n].Minus*src[n-1] + rows[n].Zero*src[n]
	for i := 1; i < n; i++ {
		dst[i] = rows[i].Minus*src[i-1] + rows[i].Zero*src[i] + rows[i].Plus*src[i+1]
	}
	dst[0] = first
	dst[n] = last
}

// Dot computes p.Payoff <- A·p.Payoff, carrying the adjoint side-effects
// required by p.Mode. Order matters: the adjoint line for x <- A·x is
// dx <- J·x + A·dx (product rule), evaluated BEFORE the payoff is
// overwritten, then x <- A·x.
func (o *Operator) Dot(p *payoff.Data) {
	o.checkSize(p)
	n := len(o.rows) - 1
	tmp, jOut := o.scratchOf(n)

	if p.Mode.WantsVega() {
		applyRows(o.rows, p.Vega, tmp)
		applyRows(o.avega, p.Payoff, jOut)
		for i := range tmp {
			tmp[i] += jOut[i]
		}
		copy(p.Vega, tmp)
	}
	if p.Mode.WantsRho() {
		applyRows(o.rows, p.RhoBorrow, tmp)
		applyRows(o.arho, p.Payoff, jOut)
		for i := range tmp {
			tmp[i] += jOut[i]
		}
		copy(p.RhoBorrow, tmp)
	}

	applyRows(o.rows, p.Payoff, tmp)
	copy(p.Payoff, tmp)
}

// Solve computes p.Payoff <- A^-1 · p.Payoff via the Thomas algorithm,
// carrying the adjoint side-effects required by p.Mode. For A·x_new=x_old
// the adjoint rule is A·dx_new = dx_old - J·x_new, so the payoff is solved
// FIRST and the updated (post-solve) payoff is used on the adjoint RHS.
func (o *Operator) Solve(p *payoff.Data) {
	o.checkSize(p)
	n := len(o.rows) - 1
	jOut, _ := o.scratchOf(n)

	o.thomas(p.Payoff)

	if p.Mode.WantsVega() {
		applyRows(o.avega, p.Payoff, jOut)
		for i := range p.Vega {
			p.Vega[i] -= jOut[i]
		}
		o.thomas(p.Vega)
	}
	if p.Mode.WantsRho() {
		applyRows(o.arho, p.Payoff, jOut)
		for i := range p.RhoBorrow {
			p.RhoBorrow[i] -= jOut[i]
		}
		o.thomas(p.RhoBorrow)
	}
}

// thomas solves A·x = rhs in place using the standard non-pivoting
// three-sweep tridiagonal LU. The superdiagonal scratch is allocated once
// (lazily, on first use) and reused across every subsequent call.
func (o *Operator) thomas(rhs []float64) {
	n := len(o.rows) - 1
	if o.cPrime == nil {
		o.cPrime = make([]float64, n+1)
	}
	cPrime := o.cPrime

	cPrime[0] = o.rows[0].Plus / o.rows[0].Zero
	rhs[0] = rhs[0] / o.rows[0].Zero

	for i := 1; i <= n; i++ {
		m := o.rows[i].Zero - o.rows[i].Minus*cPrime[i-1]
		if i < n {
			cPrime[i] = o.rows[i].Plus / m
		}
		rhs[i] = (rhs[i] - o.rows[i].Minus*rhs[i-1]) / m
	}

	for i := n - 1; i >= 0; i-- {
		rhs[i] -= cPrime[i] * rhs[i+1]
	}
}

func (o *Operator) checkSize(p *payoff.Data) {
	n := len(o.rows) - 1
	p.CheckSize(n)
	if o.g.N != n {
		chk.Panic("tdop: operator/grid size mismatch: operator N=%d, grid N=%d", n, o.g.N)
	}
}

// Rows exposes the underlying stencil, read-only, for diagnostics and tests
func (o *Operator) Rows() []Row {
	return o.rows
}

// N returns the number of intervals (rows has N+1 entries)
func (o *Operator) N() int {
	return len(o.rows) - 1
}
