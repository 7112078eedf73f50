// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package output holds the price+greeks result surfaced to callers
package output

// OptionResult holds the price and greeks for one option side. Fields not
// enabled by the pricer's CalculationType/AdjointDifferentiation settings
// are left at zero.
type OptionResult struct {
	Price     float64
	Delta     float64
	Gamma     float64
	Theta     float64
	Vega      float64
	Rho       float64
	RhoBorrow float64
}
