// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pricer

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"

	"github.com/jingyuzhao-math/fdpricing/fdsettings"
	"github.com/jingyuzhao-math/fdpricing/input"
	"github.com/jingyuzhao-math/fdpricing/output"
)

func baseSettings(exercise fdsettings.ExerciseType, mode fdsettings.AdjointDifferentiation) fdsettings.Settings {
	s := fdsettings.DefaultSettings()
	s.ExerciseType = exercise
	s.CalculationType = fdsettings.All
	s.SolverType = fdsettings.CrankNicolson
	s.AdjointDifferentiation = mode
	s.FD.GridType = fdsettings.Adaptive
	s.FD.BoundsK = 6.0
	return s
}

func priceOne(tst *testing.T, in input.Input, settings fdsettings.Settings) (callOut, putOut output.OptionResult) {
	p, err := New(in, settings)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := p.Price(&callOut, &putOut); err != nil {
		tst.Fatalf("Price failed: %v", err)
	}
	return
}

func Test_pricer01(tst *testing.T) {

	chk.PrintTitle("pricer01: European ATM call/put against Black-Scholes closed form")

	in := input.Input{S: 100, K: 100, T: 1, Sigma: 0.20, R: 0.05, Q: 0.00, N: 200, M: 200}
	settings := baseSettings(fdsettings.European, fdsettings.None)

	call, put := priceOne(tst, in, settings)
	chk.AnaNum(tst, "call", 1e-2, call.Price, 10.4506, chk.Verbose)
	chk.AnaNum(tst, "put", 1e-2, put.Price, 5.5735, chk.Verbose)
}

func Test_pricer02(tst *testing.T) {

	chk.PrintTitle("pricer02: American ATM call/put, and American >= European")

	in := input.Input{S: 100, K: 100, T: 1, Sigma: 0.20, R: 0.05, Q: 0.00, N: 200, M: 200}
	settings := baseSettings(fdsettings.American, fdsettings.None)

	call, put := priceOne(tst, in, settings)
	chk.AnaNum(tst, "call", 1e-2, call.Price, 10.4506, chk.Verbose)
	chk.AnaNum(tst, "put", 1e-2, put.Price, 6.0900, chk.Verbose)

	euroSettings := baseSettings(fdsettings.European, fdsettings.None)
	euroCall, euroPut := priceOne(tst, in, euroSettings)

	if call.Price < euroCall.Price-1e-8 {
		tst.Errorf("American call must be >= European call: american=%v european=%v", call.Price, euroCall.Price)
	}
	if put.Price < euroPut.Price-1e-8 {
		tst.Errorf("American put must be >= European put: american=%v european=%v", put.Price, euroPut.Price)
	}
	if put.Price <= euroPut.Price+1e-6 {
		tst.Errorf("American put should be strictly greater than European put when r>0")
	}
}

func Test_pricer03(tst *testing.T) {

	chk.PrintTitle("pricer03: European OTM/ITM with a dividend yield")

	in := input.Input{S: 100, K: 110, T: 1, Sigma: 0.25, R: 0.03, Q: 0.02, N: 200, M: 200}
	settings := baseSettings(fdsettings.European, fdsettings.None)

	call, put := priceOne(tst, in, settings)
	chk.AnaNum(tst, "call", 2e-2, call.Price, 8.916, chk.Verbose)
	chk.AnaNum(tst, "put", 2e-2, put.Price, 16.736, chk.Verbose)
}

func Test_pricer04(tst *testing.T) {

	chk.PrintTitle("pricer04: AAD vega against a central bump in sigma")

	in := input.Input{S: 100, K: 90, T: 1, Sigma: 0.20, R: 0.05, Q: 0.00, N: 200, M: 200}
	settings := baseSettings(fdsettings.European, fdsettings.Vega)

	call, _ := priceOne(tst, in, settings)
	chk.AnaNum(tst, "vega (spec target ~20.00)", 5e-2, call.Vega, 20.00, chk.Verbose)

	eps := 1e-3
	bump, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
		bumped := in
		bumped.Sigma = x
		s := baseSettings(fdsettings.European, fdsettings.None)
		c, _ := priceOne(tst, bumped, s)
		return c.Price
	}, in.Sigma, eps)

	chk.AnaNum(tst, "AAD vega vs bump", 5e-2, call.Vega, bump, chk.Verbose)
}

func Test_pricer05(tst *testing.T) {

	chk.PrintTitle("pricer05: discrete dividend approximates a spot-shifted Black-Scholes price")

	in := input.Input{
		S: 100, K: 100, T: 1, Sigma: 0.20, R: 0.05, Q: 0.00, N: 200, M: 200,
		Dividends: []input.Dividend{{Time: 0.5, Dividend: 2.0}},
	}
	settings := baseSettings(fdsettings.European, fdsettings.None)
	call, _ := priceOne(tst, in, settings)

	shiftedS := in.S - 2.0*math.Exp(-in.R*0.5)
	noDiv := input.Input{S: shiftedS, K: in.K, T: in.T, Sigma: in.Sigma, R: in.R, Q: in.Q, N: in.N, M: in.M}
	approxCall, _ := priceOne(tst, noDiv, settings)

	chk.AnaNum(tst, "call with dividend vs shifted-spot approximation", 5e-2, call.Price, approxCall.Price, chk.Verbose)
}

func Test_pricer06(tst *testing.T) {

	chk.PrintTitle("pricer06: greek signs")

	in := input.Input{S: 100, K: 100, T: 1, Sigma: 0.20, R: 0.05, Q: 0.00, N: 200, M: 200}
	settings := baseSettings(fdsettings.European, fdsettings.None)
	call, put := priceOne(tst, in, settings)

	if call.Delta < 0 || call.Delta > 1 {
		tst.Errorf("call delta must be in [0,1], got %v", call.Delta)
	}
	if put.Delta < -1 || put.Delta > 0 {
		tst.Errorf("put delta must be in [-1,0], got %v", put.Delta)
	}
	if call.Gamma < 0 || put.Gamma < 0 {
		tst.Errorf("gamma must be non-negative, got call=%v put=%v", call.Gamma, put.Gamma)
	}
}

func Test_pricer07(tst *testing.T) {

	chk.PrintTitle("pricer07: AAD rhoBorrow against a central bump in b, call and put")

	in := input.Input{S: 100, K: 100, T: 1, Sigma: 0.20, R: 0.05, Q: 0.01, N: 200, M: 200}
	settings := baseSettings(fdsettings.European, fdsettings.Rho)

	call, put := priceOne(tst, in, settings)

	eps := 1e-3
	bumpCall, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
		bumped := in
		bumped.R = in.B() + x + in.Q // keep b = r-q at in.B()+x
		s := baseSettings(fdsettings.European, fdsettings.None)
		c, _ := priceOne(tst, bumped, s)
		return c.Price
	}, 0.0, eps)

	bumpPut, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
		bumped := in
		bumped.R = in.B() + x + in.Q
		s := baseSettings(fdsettings.European, fdsettings.None)
		_, p := priceOne(tst, bumped, s)
		return p.Price
	}, 0.0, eps)

	chk.AnaNum(tst, "call AAD rhoBorrow vs bump", 5e-2, call.RhoBorrow, bumpCall, chk.Verbose)
	chk.AnaNum(tst, "put AAD rhoBorrow vs bump", 5e-2, put.RhoBorrow, bumpPut, chk.Verbose)
}

func Test_pricer08(tst *testing.T) {

	chk.PrintTitle("pricer08: European put-call parity")

	in := input.Input{S: 100, K: 95, T: 0.75, Sigma: 0.22, R: 0.04, Q: 0.015, N: 200, M: 200}
	settings := baseSettings(fdsettings.European, fdsettings.None)
	call, put := priceOne(tst, in, settings)

	lhs := call.Price - put.Price
	rhs := in.S*math.Exp(-in.Q*in.T) - in.K*math.Exp(-in.R*in.T)
	chk.AnaNum(tst, "call-put parity", 1e-2, lhs, rhs, chk.Verbose)
}
