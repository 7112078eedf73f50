// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package blackscholes implements the closed-form Black-Scholes reference
// pricer used by the finite-difference engine to smooth the kinked terminal
// payoff around the strike, and to check put-call parity and AAD-vs-bump
// agreement in tests. It is an external collaborator to the core PDE
// engine, not part of it (spec.md §1).
package blackscholes

import "math"

// normCDF is the standard normal cumulative distribution function, built on
// stdlib math.Erf (see DESIGN.md for why no pack library is used here)
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal density
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// d1d2 computes the two standard Black-Scholes auxiliary quantities for
// spot s, strike k, time-to-maturity tau, volatility sigma and cost-of-carry
// b. Numerically stable for small tau since sigma*sqrt(tau) only appears as
// a product, not a quotient with tau alone in the denominator.
func d1d2(s, k, tau, sigma, b float64) (d1, d2 float64) {
	v := sigma * math.Sqrt(tau)
	d1 = (math.Log(s/k) + (b+0.5*sigma*sigma)*tau) / v
	d2 = d1 - v
	return
}

// Price computes the discounted call and put value for one option struck at
// k with spot s, maturity tau, volatility sigma, risk-free rate r and
// cost-of-carry b = r - q
func Price(s, k, tau, sigma, r, b float64) (call, put float64) {
	if tau <= 0 {
		call = math.Max(s-k, 0)
		put = math.Max(k-s, 0)
		return
	}
	d1, d2 := d1d2(s, k, tau, sigma, b)
	df := math.Exp(-r * tau)
	cb := math.Exp((b - r) * tau)
	call = s*cb*normCDF(d1) - k*df*normCDF(d2)
	put = k*df*normCDF(-d2) - s*cb*normCDF(-d1)
	return
}

// Greeks bundles the analytic derivatives used by the smoothing step: vega
// (∂V/∂σ, identical for call and put) and rho-borrow (∂V/∂b) for each side.
// No derivative w.r.t. r is computed.
type Greeks struct {
	VegaCall, VegaPut           float64
	RhoBorrowCall, RhoBorrowPut float64
}

// AnalyticGreeks computes vega and rho-borrow for both call and put at the
// same inputs as Price, used to seed the adjoint fields of the grid cell
// straddling the strike during payoff smoothing
func AnalyticGreeks(s, k, tau, sigma, r, b float64) Greeks {
	if tau <= 0 {
		return Greeks{}
	}
	d1, d2 := d1d2(s, k, tau, sigma, b)
	df := math.Exp(-r * tau)
	cb := math.Exp((b - r) * tau)
	sqrtTau := math.Sqrt(tau)

	vega := s * cb * normPDF(d1) * sqrtTau // same for call and put

	// ∂d1/∂b = ∂d2/∂b = sqrt(tau)/sigma
	dd1db := sqrtTau / sigma
	rhoBorrowCall := tau*s*cb*normCDF(d1) + s*cb*normPDF(d1)*dd1db - k*df*normPDF(d2)*dd1db
	rhoBorrowPut := -tau*s*cb*normCDF(-d1) + s*cb*normPDF(d1)*dd1db - k*df*normPDF(d2)*dd1db

	return Greeks{
		VegaCall:      vega,
		VegaPut:       vega,
		RhoBorrowCall: rhoBorrowCall,
		RhoBorrowPut:  rhoBorrowPut,
	}
}
